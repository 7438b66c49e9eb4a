package tests

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"paygate/internal/domain"
	"paygate/internal/gateway"
	"paygate/internal/repository"
)

// ──────────────────────────────────────────────
// MOCK CUSTOMER REPOSITORY
// ──────────────────────────────────────────────

// MockCustomerRepository is a mock implementation of CustomerRepository.
type MockCustomerRepository struct {
	mu        sync.RWMutex
	customers map[string]*domain.Customer

	// Counters for verification
	CreateCallCount int32
	UpdateCallCount int32

	// Error injection
	CreateError error
	UpdateError error
}

// NewMockCustomerRepository creates a new mock customer repository.
func NewMockCustomerRepository() *MockCustomerRepository {
	return &MockCustomerRepository{
		customers: make(map[string]*domain.Customer),
	}
}

// AddCustomer adds a customer to the mock repository.
func (m *MockCustomerRepository) AddCustomer(customer *domain.Customer) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.customers[customer.ID] = customer
}

func (m *MockCustomerRepository) Create(ctx context.Context, customer *domain.Customer) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.customers[customer.ID] = customer
	return nil
}

func (m *MockCustomerRepository) GetByID(ctx context.Context, id string) (*domain.Customer, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	customer, ok := m.customers[id]
	if !ok || customer.DeletedAt != nil {
		return nil, repository.ErrNotFound
	}
	// Return a copy to avoid mutation issues.
	copy := *customer
	return &copy, nil
}

func (m *MockCustomerRepository) GetByEmail(ctx context.Context, email string) (*domain.Customer, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, customer := range m.customers {
		if customer.Email == email && customer.DeletedAt == nil {
			copy := *customer
			return &copy, nil
		}
	}
	return nil, nil
}

func (m *MockCustomerRepository) List(ctx context.Context, filter repository.CustomerFilter, page repository.Pagination) ([]*domain.Customer, int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.Customer, 0, len(m.customers))
	for _, customer := range m.customers {
		if customer.DeletedAt != nil {
			continue
		}
		copy := *customer
		result = append(result, &copy)
	}
	return result, len(result), nil
}

func (m *MockCustomerRepository) Update(ctx context.Context, customer *domain.Customer) error {
	atomic.AddInt32(&m.UpdateCallCount, 1)
	if m.UpdateError != nil {
		return m.UpdateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.customers[customer.ID]; !ok {
		return repository.ErrNotFound
	}
	m.customers[customer.ID] = customer
	return nil
}

func (m *MockCustomerRepository) SoftDelete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	customer, ok := m.customers[id]
	if !ok || customer.DeletedAt != nil {
		return repository.ErrNotFound
	}
	now := time.Now().UTC()
	customer.DeletedAt = &now
	return nil
}

// ──────────────────────────────────────────────
// MOCK PAYMENT STATUS REPOSITORY
// ──────────────────────────────────────────────

// MockPaymentStatusRepository is a mock implementation of
// PaymentStatusRepository.
type MockPaymentStatusRepository struct {
	mu       sync.RWMutex
	statuses map[string]*domain.PaymentStatus

	// Counters for verification
	GetByNameCallCount int32

	// Error injection
	GetByNameError error
}

// NewMockPaymentStatusRepository creates a new mock status repository.
func NewMockPaymentStatusRepository() *MockPaymentStatusRepository {
	return &MockPaymentStatusRepository{
		statuses: make(map[string]*domain.PaymentStatus),
	}
}

// SeedWorkflowStatuses inserts the seven workflow statuses and returns
// a name -> id lookup for assertions.
func (m *MockPaymentStatusRepository) SeedWorkflowStatuses() map[domain.Status]string {
	names := []domain.Status{
		domain.StatusPending,
		domain.StatusProcessing,
		domain.StatusAuthorized,
		domain.StatusCaptured,
		domain.StatusFailed,
		domain.StatusRefunded,
		domain.StatusPartiallyRefunded,
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	ids := make(map[domain.Status]string, len(names))
	now := time.Now().UTC()
	for _, name := range names {
		status := &domain.PaymentStatus{
			ID:        uuid.New().String(),
			Name:      string(name),
			CreatedAt: now,
			UpdatedAt: now,
		}
		m.statuses[status.ID] = status
		ids[name] = status.ID
	}
	return ids
}

func (m *MockPaymentStatusRepository) Create(ctx context.Context, status *domain.PaymentStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.statuses[status.ID] = status
	return nil
}

func (m *MockPaymentStatusRepository) GetByID(ctx context.Context, id string) (*domain.PaymentStatus, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	status, ok := m.statuses[id]
	if !ok || status.DeletedAt != nil {
		return nil, repository.ErrNotFound
	}
	copy := *status
	return &copy, nil
}

func (m *MockPaymentStatusRepository) GetByName(ctx context.Context, name string) (*domain.PaymentStatus, error) {
	atomic.AddInt32(&m.GetByNameCallCount, 1)
	if m.GetByNameError != nil {
		return nil, m.GetByNameError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, status := range m.statuses {
		if status.Name == name && status.DeletedAt == nil {
			copy := *status
			return &copy, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *MockPaymentStatusRepository) List(ctx context.Context, filter repository.PaymentStatusFilter, page repository.Pagination) ([]*domain.PaymentStatus, int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.PaymentStatus, 0, len(m.statuses))
	for _, status := range m.statuses {
		if status.DeletedAt != nil {
			continue
		}
		copy := *status
		result = append(result, &copy)
	}
	return result, len(result), nil
}

func (m *MockPaymentStatusRepository) Update(ctx context.Context, status *domain.PaymentStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.statuses[status.ID]; !ok {
		return repository.ErrNotFound
	}
	m.statuses[status.ID] = status
	return nil
}

func (m *MockPaymentStatusRepository) SoftDelete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	status, ok := m.statuses[id]
	if !ok || status.DeletedAt != nil {
		return repository.ErrNotFound
	}
	now := time.Now().UTC()
	status.DeletedAt = &now
	return nil
}

// ──────────────────────────────────────────────
// MOCK PAYMENT REPOSITORY
// ──────────────────────────────────────────────

// MockPaymentRepository is a mock implementation of PaymentRepository.
// When Transactions is set, GetByIDWithRelations attaches that
// repository's entries for the payment.
type MockPaymentRepository struct {
	mu       sync.RWMutex
	payments map[string]*domain.Payment

	Transactions *MockTransactionRepository

	// Counters for verification
	CreateCallCount           int32
	UpdateStatusCallCount     int32
	TransitionStatusCallCount int32
	MergeMetadataCallCount    int32

	// Error injection
	CreateError           error
	UpdateStatusError     error
	TransitionStatusError error
	MergeMetadataError    error

	// ForceClaimFailure makes TransitionStatus report a lost claim,
	// simulating a concurrent workflow winning the conditional write.
	ForceClaimFailure bool
}

// NewMockPaymentRepository creates a new mock payment repository.
func NewMockPaymentRepository() *MockPaymentRepository {
	return &MockPaymentRepository{
		payments: make(map[string]*domain.Payment),
	}
}

// AddPayment adds a payment to the mock repository.
func (m *MockPaymentRepository) AddPayment(payment *domain.Payment) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.payments[payment.ID] = payment
}

// GetPayment returns the stored payment for test assertions.
func (m *MockPaymentRepository) GetPayment(id string) *domain.Payment {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.payments[id]
}

func (m *MockPaymentRepository) Create(ctx context.Context, payment *domain.Payment) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.payments[payment.ID] = payment
	return nil
}

func (m *MockPaymentRepository) GetByID(ctx context.Context, id string) (*domain.Payment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	payment, ok := m.payments[id]
	if !ok || payment.DeletedAt != nil {
		return nil, repository.ErrNotFound
	}
	copy := *payment
	return &copy, nil
}

func (m *MockPaymentRepository) GetByIDWithRelations(ctx context.Context, id string) (*domain.Payment, error) {
	payment, err := m.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if m.Transactions != nil {
		entries, err := m.Transactions.ListByPaymentID(ctx, id)
		if err != nil {
			return nil, err
		}
		payment.Transactions = entries
	}
	return payment, nil
}

func (m *MockPaymentRepository) List(ctx context.Context, filter repository.PaymentFilter, page repository.Pagination) ([]*domain.Payment, int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.Payment, 0, len(m.payments))
	for _, payment := range m.payments {
		if payment.DeletedAt != nil {
			continue
		}
		copy := *payment
		result = append(result, &copy)
	}
	return result, len(result), nil
}

func (m *MockPaymentRepository) UpdateStatus(ctx context.Context, id, paymentStatusID string) error {
	atomic.AddInt32(&m.UpdateStatusCallCount, 1)
	if m.UpdateStatusError != nil {
		return m.UpdateStatusError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	payment, ok := m.payments[id]
	if !ok {
		return repository.ErrNotFound
	}
	payment.PaymentStatusID = paymentStatusID
	return nil
}

func (m *MockPaymentRepository) TransitionStatus(ctx context.Context, id, fromStatusID, toStatusID string) (bool, error) {
	atomic.AddInt32(&m.TransitionStatusCallCount, 1)
	if m.TransitionStatusError != nil {
		return false, m.TransitionStatusError
	}
	if m.ForceClaimFailure {
		return false, nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	payment, ok := m.payments[id]
	if !ok || payment.PaymentStatusID != fromStatusID {
		return false, nil
	}
	payment.PaymentStatusID = toStatusID
	return true, nil
}

func (m *MockPaymentRepository) MergeMetadata(ctx context.Context, id string, entries domain.Metadata) error {
	atomic.AddInt32(&m.MergeMetadataCallCount, 1)
	if m.MergeMetadataError != nil {
		return m.MergeMetadataError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	payment, ok := m.payments[id]
	if !ok {
		return repository.ErrNotFound
	}
	payment.Metadata = payment.Metadata.Merge(entries)
	return nil
}

// ──────────────────────────────────────────────
// MOCK TRANSACTION REPOSITORY
// ──────────────────────────────────────────────

// MockTransactionRepository is a mock implementation of
// TransactionRepository.
type MockTransactionRepository struct {
	mu      sync.RWMutex
	entries []*domain.Transaction

	// Counters for verification
	CreateCallCount int32

	// Error injection
	CreateError error
}

// NewMockTransactionRepository creates a new mock transaction repository.
func NewMockTransactionRepository() *MockTransactionRepository {
	return &MockTransactionRepository{}
}

// AddTransaction adds a ledger entry to the mock repository.
func (m *MockTransactionRepository) AddTransaction(entry *domain.Transaction) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, entry)
}

// CountEntries returns the number of stored ledger entries.
func (m *MockTransactionRepository) CountEntries() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

// EntriesForPayment returns the stored entries for test assertions.
func (m *MockTransactionRepository) EntriesForPayment(paymentID string) []*domain.Transaction {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*domain.Transaction
	for _, entry := range m.entries {
		if entry.PaymentID == paymentID {
			result = append(result, entry)
		}
	}
	return result
}

func (m *MockTransactionRepository) Create(ctx context.Context, transaction *domain.Transaction) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, transaction)
	return nil
}

func (m *MockTransactionRepository) GetByID(ctx context.Context, id string) (*domain.Transaction, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, entry := range m.entries {
		if entry.ID == id {
			copy := *entry
			return &copy, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *MockTransactionRepository) ListByPaymentID(ctx context.Context, paymentID string) ([]*domain.Transaction, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*domain.Transaction
	for _, entry := range m.entries {
		if entry.PaymentID == paymentID {
			copy := *entry
			result = append(result, &copy)
		}
	}
	return result, nil
}

// ──────────────────────────────────────────────
// MOCK UNIT OF WORK
// ──────────────────────────────────────────────

// MockUnitOfWork runs callbacks against the shared mocks. There is no
// rollback: an erroring callback may leave partial writes behind, which
// tests account for when injecting errors.
type MockUnitOfWork struct {
	Payments     *MockPaymentRepository
	Transactions *MockTransactionRepository

	// Counters for verification
	WithinTxCallCount int32

	// Error injection, returned before the callback runs
	WithinTxError error
}

// NewMockUnitOfWork creates a unit of work over the given mocks.
func NewMockUnitOfWork(payments *MockPaymentRepository, transactions *MockTransactionRepository) *MockUnitOfWork {
	return &MockUnitOfWork{Payments: payments, Transactions: transactions}
}

func (m *MockUnitOfWork) WithinTx(ctx context.Context, fn func(repos repository.TxRepositories) error) error {
	atomic.AddInt32(&m.WithinTxCallCount, 1)
	if m.WithinTxError != nil {
		return m.WithinTxError
	}
	return fn(repository.TxRepositories{
		Payments:     m.Payments,
		Transactions: m.Transactions,
	})
}

// ──────────────────────────────────────────────
// MOCK PAYMENT GATEWAY
// ──────────────────────────────────────────────

// MockGateway is a scriptable PaymentGateway. Unset results default to
// success with a generated transaction id.
type MockGateway struct {
	AuthorizeResult *gateway.Result
	CaptureResult   *gateway.Result
	RefundResult    *gateway.Result

	AuthorizeError error
	CaptureError   error
	RefundError    error

	// Counters for verification
	AuthorizeCallCount int32
	CaptureCallCount   int32
	RefundCallCount    int32
}

// NewMockGateway creates a new mock gateway.
func NewMockGateway() *MockGateway {
	return &MockGateway{}
}

func successResult(prefix string) *gateway.Result {
	return &gateway.Result{
		Success:              true,
		GatewayTransactionID: prefix + "_" + uuid.New().String(),
		Status:               "APPROVED",
		RawResponse:          map[string]any{"result": "SUCCESS"},
	}
}

// DeclinedResult builds a declined gateway result for scripting.
func DeclinedResult(code, message string) *gateway.Result {
	return &gateway.Result{
		Success:      false,
		Status:       "DECLINED",
		ErrorCode:    code,
		ErrorMessage: message,
		RawResponse:  map[string]any{"result": "FAILURE", "error": code},
	}
}

func (m *MockGateway) Authorize(ctx context.Context, req gateway.AuthorizeRequest) (*gateway.Result, error) {
	atomic.AddInt32(&m.AuthorizeCallCount, 1)
	if m.AuthorizeError != nil {
		return nil, m.AuthorizeError
	}
	if m.AuthorizeResult != nil {
		return m.AuthorizeResult, nil
	}
	return successResult("AUTH"), nil
}

func (m *MockGateway) Capture(ctx context.Context, gatewayTransactionID string, amount decimal.Decimal) (*gateway.Result, error) {
	atomic.AddInt32(&m.CaptureCallCount, 1)
	if m.CaptureError != nil {
		return nil, m.CaptureError
	}
	if m.CaptureResult != nil {
		return m.CaptureResult, nil
	}
	return successResult("CAP"), nil
}

func (m *MockGateway) Refund(ctx context.Context, gatewayTransactionID string, amount decimal.Decimal) (*gateway.Result, error) {
	atomic.AddInt32(&m.RefundCallCount, 1)
	if m.RefundError != nil {
		return nil, m.RefundError
	}
	if m.RefundResult != nil {
		return m.RefundResult, nil
	}
	return successResult("REF"), nil
}

func (m *MockGateway) GetStatus(ctx context.Context, gatewayTransactionID string) (*gateway.TransactionStatus, error) {
	return &gateway.TransactionStatus{
		GatewayTransactionID: gatewayTransactionID,
		Status:               "APPROVED",
	}, nil
}

// Ensure mocks implement their interfaces.
var (
	_ repository.CustomerRepository      = (*MockCustomerRepository)(nil)
	_ repository.PaymentStatusRepository = (*MockPaymentStatusRepository)(nil)
	_ repository.PaymentRepository       = (*MockPaymentRepository)(nil)
	_ repository.TransactionRepository   = (*MockTransactionRepository)(nil)
	_ repository.UnitOfWork              = (*MockUnitOfWork)(nil)
	_ gateway.PaymentGateway             = (*MockGateway)(nil)
)
