package middleware

import (
	"bytes"
	"net/http"

	"github.com/gin-gonic/gin"

	internalRedis "paygate/internal/redis"
)

const idempotencyHeader = "Idempotency-Key"

// responseWriter wraps gin.ResponseWriter to capture the response.
type responseWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w *responseWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

// IdempotencyMiddleware replays recorded responses for repeated mutating
// requests carrying the same Idempotency-Key. The store key is scoped to
// method and route, so reusing a key on a different endpoint does not
// replay an unrelated response. A second process or refund attempt with
// the same key returns the first outcome instead of hitting the gateway
// again.
func IdempotencyMiddleware(store *internalRedis.IdempotencyStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodPost && c.Request.Method != http.MethodPut && c.Request.Method != http.MethodPatch {
			c.Next()
			return
		}

		key := c.GetHeader(idempotencyHeader)
		if key == "" {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		storeKey := c.Request.Method + ":" + c.FullPath() + ":" + key

		recorded, err := store.Get(ctx, storeKey)
		if err != nil {
			// Redis is unavailable; serve the request without replay
			// protection rather than failing it.
			c.Next()
			return
		}

		if recorded != nil {
			for k, v := range recorded.Headers {
				for _, val := range v {
					c.Header(k, val)
				}
			}
			c.Data(recorded.StatusCode, "application/json", recorded.Body)
			c.Abort()
			return
		}

		w := &responseWriter{
			ResponseWriter: c.Writer,
			body:           &bytes.Buffer{},
		}
		c.Writer = w

		c.Next()

		// 5xx responses are not recorded: the caller should be able to
		// retry a server failure with the same key.
		if c.Writer.Status() >= 200 && c.Writer.Status() < 500 {
			_ = store.Set(ctx, storeKey, &internalRedis.RecordedResponse{
				StatusCode: c.Writer.Status(),
				Body:       w.body.Bytes(),
				Headers:    recordableHeaders(c),
			})
		}
	}
}

// recordableHeaders extracts the headers worth replaying.
func recordableHeaders(c *gin.Context) http.Header {
	headers := make(http.Header)
	if ct := c.Writer.Header().Get("Content-Type"); ct != "" {
		headers.Set("Content-Type", ct)
	}
	return headers
}
