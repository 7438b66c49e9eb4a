package redis

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultIdempotencyTTL is how long a recorded response is replayable.
// Gateways commonly honor idempotency keys for 24 hours.
const DefaultIdempotencyTTL = 24 * time.Hour

const idempotencyPrefix = "idempotency:"

// RecordedResponse is the stored outcome of an idempotent request.
type RecordedResponse struct {
	StatusCode int             `json:"status_code"`
	Body       json.RawMessage `json:"body"`
	Headers    http.Header     `json:"headers"`
}

// IdempotencyStore persists request outcomes in Redis so repeated
// mutating requests with the same key replay the first outcome instead
// of re-running the operation.
type IdempotencyStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewIdempotencyStore creates a new IdempotencyStore.
func NewIdempotencyStore(client *redis.Client) *IdempotencyStore {
	return &IdempotencyStore{client: client, ttl: DefaultIdempotencyTTL}
}

// Get retrieves a recorded response. A cache miss returns (nil, nil).
func (s *IdempotencyStore) Get(ctx context.Context, key string) (*RecordedResponse, error) {
	data, err := s.client.Get(ctx, idempotencyPrefix+key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	var recorded RecordedResponse
	if err := json.Unmarshal(data, &recorded); err != nil {
		return nil, err
	}
	return &recorded, nil
}

// Set records a response under the key.
func (s *IdempotencyStore) Set(ctx context.Context, key string, response *RecordedResponse) error {
	data, err := json.Marshal(response)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, idempotencyPrefix+key, data, s.ttl).Err()
}
