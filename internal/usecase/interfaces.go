package usecase

import (
	"context"
	"time"

	"github.com/hvilla/gastoledger/internal/domain"
)

// ExpenseRepository defines data access for expenses. Only captured fields
// are persisted; derived fields are recomputed on every read and write.
type ExpenseRepository interface {
	Create(ctx context.Context, tx Transaction, expense *domain.Expense) error
	Update(ctx context.Context, tx Transaction, expense *domain.Expense) error
	GetByID(ctx context.Context, id string) (*domain.Expense, error)
	List(ctx context.Context, limit, offset int) ([]*domain.Expense, error)
	ListByWorkflow(ctx context.Context, stage domain.WorkflowStage, limit, offset int) ([]*domain.Expense, error)
}

// MovementRepository defines data access for linked bank movements.
type MovementRepository interface {
	Link(ctx context.Context, tx Transaction, expenseID string, movement domain.BankMovement) error
	Unlink(ctx context.Context, tx Transaction, expenseID, movementID string) error
	ListByExpense(ctx context.Context, expenseID string) ([]domain.BankMovement, error)
}

// Transaction represents a database transaction.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// Cache defines caching operations for normalized expenses.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// IdempotencyStore remembers responses so duplicate mutating requests can be
// replayed instead of re-executed.
type IdempotencyStore interface {
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
}

// Retrier retries an operation on transient storage errors.
type Retrier interface {
	Retry(ctx context.Context, operation func() error) error
}

// MetricsRecorder records business-level counters. Implementations must be
// safe for concurrent use.
type MetricsRecorder interface {
	ExpenseCaptured()
	InvoiceRegistered()
	MovementLinked()
	MovementUnlinked()
	JournalGenerated(balanced bool)
}
