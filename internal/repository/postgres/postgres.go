package postgres

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"

	"wholesale-market-backend/internal/domain"
	"wholesale-market-backend/internal/logger"
	"wholesale-market-backend/internal/repository"
)

// dbtx is satisfied by both *sql.DB and *sql.Tx, so every repository can run
// in auto-commit mode or inside a unit of work.
type dbtx interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Store bundles the repositories and implements repository.TxManager.
type Store struct {
	db *sql.DB
	repository.Repos
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		db:    db,
		Repos: newRepos(db),
	}
}

func newRepos(q dbtx) repository.Repos {
	return repository.Repos{
		Orders:    &orderRepository{db: q},
		Customers: &customerRepository{db: q},
		Payments:  &paymentRepository{db: q},
		Ledgers:   &manualLedgerRepository{db: q},
		Schema:    &schemaRepository{db: q},
	}
}

// RunInTx executes fn as one atomic unit of work. Row locks taken through the
// transaction-scoped Repos hold until commit or rollback. Begin/commit
// failures and rollbacks caused by the store surface as domain.ErrTxFailure;
// errors returned by fn pass through unchanged.
func (s *Store) RunInTx(ctx context.Context, fn func(ctx context.Context, r repository.Repos) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: begin: %v", domain.ErrTxFailure, err)
	}

	if err := fn(ctx, newRepos(tx)); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			logger.Error("Rollback failed", "error", rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: commit: %v", domain.ErrTxFailure, err)
	}
	return nil
}

// NewOrderRepository, and the sibling constructors below, build a standalone
// repository on a plain connection. Used by tests and auto-commit reads.
func NewOrderRepository(db *sql.DB) repository.OrderRepository {
	return &orderRepository{db: db}
}

func NewCustomerRepository(db *sql.DB) repository.CustomerRepository {
	return &customerRepository{db: db}
}

func NewPaymentRepository(db *sql.DB) repository.PaymentRepository {
	return &paymentRepository{db: db}
}

func NewManualLedgerRepository(db *sql.DB) repository.ManualLedgerRepository {
	return &manualLedgerRepository{db: db}
}

func NewSchemaRepository(db *sql.DB) repository.SchemaRepository {
	return &schemaRepository{db: db}
}
