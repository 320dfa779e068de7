package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"wholesale-market-backend/internal/domain"
)

// Repos bundles every repository for one unit of work. Inside RunInTx all of
// them run on the same transaction; outside they run in auto-commit mode.
type Repos struct {
	Orders    OrderRepository
	Customers CustomerRepository
	Payments  PaymentRepository
	Ledgers   ManualLedgerRepository
	Schema    SchemaRepository
}

// TxManager runs a function as one atomic unit of work. Any error from fn
// rolls back every write made through the Repos it received.
type TxManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context, r Repos) error) error
}

type OrderRepository interface {
	// LockForCustomer loads the order with a row-level pessimistic lock,
	// verifying it belongs to the customer. Returns domain.ErrNotFound on a
	// missing or mismatched pair.
	LockForCustomer(ctx context.Context, orderID, customerID int32) (*domain.Order, error)
	UpdateStatus(ctx context.Context, orderID int32, status domain.DeliverStatus) error
	// UpdateFinancials persists every money field plus the deliver status.
	UpdateFinancials(ctx context.Context, order *domain.Order) error
	UpdateUnpaid(ctx context.Context, orderID int32, unpaidCash, unpaidCredit decimal.Decimal) error

	ListActiveLineItems(ctx context.Context, orderID int32) ([]domain.OrderLineItem, error)
	UpdateLineItemPrice(ctx context.Context, itemID int32, eachPrice decimal.Decimal) error
	CancelLineItems(ctx context.Context, orderID int32) error

	// FIFO selections for the payment allocator: delivered orders with an
	// outstanding balance, oldest first, each row locked.
	LockDeliveredWithUnpaidCash(ctx context.Context, customerID int32) ([]domain.Order, error)
	LockDeliveredWithUnpaidCredit(ctx context.Context, customerID int32) ([]domain.Order, error)

	// SumDeliveredUnpaid totals unpaid_cash and unpaid_credit across the
	// customer's delivered orders, the source of truth for aggregates.
	SumDeliveredUnpaid(ctx context.Context, customerID int32) (cash, credit decimal.Decimal, err error)
}

type CustomerRepository interface {
	GetByID(ctx context.Context, id int32) (*domain.Customer, error)
	// LockByID loads the customer row with a pessimistic lock.
	LockByID(ctx context.Context, id int32) (*domain.Customer, error)
	// AddToTotals increments total_credit and total_unpaid additively, used
	// only by the deliver transition as multiple orders accumulate.
	AddToTotals(ctx context.Context, id int32, creditDelta, unpaidDelta decimal.Decimal) error
	// SetTotals overwrites total_credit and total_unpaid with re-derived values.
	SetTotals(ctx context.Context, id int32, totalCredit, totalUnpaid decimal.Decimal) error

	// Manual summary columns are optional; callers gate on SchemaCaps.
	ManualSummary(ctx context.Context, id int32, kind domain.LedgerKind) (decimal.Decimal, error)
	SetManualSummary(ctx context.Context, id int32, kind domain.LedgerKind, amount decimal.Decimal) error
	AddToManualSummary(ctx context.Context, id int32, kind domain.LedgerKind, delta decimal.Decimal) error

	List(ctx context.Context) ([]domain.Customer, error)
	ListIDs(ctx context.Context) ([]int32, error)
}

type PaymentRepository interface {
	Create(ctx context.Context, payment *domain.Payment) error
	ListByCustomer(ctx context.Context, customerID int32) ([]domain.Payment, error)
}

type ManualLedgerRepository interface {
	Insert(ctx context.Context, kind domain.LedgerKind, entry *domain.ManualLedgerEntry) error
	SumForCustomer(ctx context.Context, kind domain.LedgerKind, customerID int32) (decimal.Decimal, error)
}

// SchemaRepository probes for optional schema objects so the engine can run
// against databases that predate the ledger migrations. Read-only and safe to
// repeat.
type SchemaRepository interface {
	ColumnExists(ctx context.Context, table, column string) (bool, error)
	TableExists(ctx context.Context, table string) (bool, error)
	// Probe checks every optional ledger object in one pass.
	Probe(ctx context.Context) (domain.SchemaCaps, error)
}
