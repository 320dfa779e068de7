package service

import (
	"context"

	"github.com/shopspring/decimal"

	"wholesale-market-backend/internal/domain"
)

// OrderLifecycleService drives the deliver-status state machine. Each
// transition runs as one atomic unit of work with row locks on the order and,
// when aggregates are touched, the customer.
type OrderLifecycleService interface {
	TransitionDeliverStatus(ctx context.Context, orderID, customerID int32, newStatus domain.DeliverStatus) (string, error)
}

// PaymentService allocates incoming payments across a customer's outstanding
// balances. The returned customer listing is the compatibility payload
// existing consumers expect.
type PaymentService interface {
	AllocatePayment(ctx context.Context, customerID int32, amount decimal.Decimal, through, additionalInfo string) ([]domain.Customer, error)
	ListPayments(ctx context.Context, customerID int32) ([]domain.Payment, error)
}

// CustomerService exposes the idempotent maintenance operations and the
// manual adjustment ledgers.
type CustomerService interface {
	RecalcCustomer(ctx context.Context, customerID int32) (*domain.CustomerTotals, error)
	SyncManualLedgers(ctx context.Context, customerID int32) (*domain.ManualTotals, error)
	AddManualEntry(ctx context.Context, kind domain.LedgerKind, entry *domain.ManualLedgerEntry) (*domain.ManualTotals, error)
	ListCustomers(ctx context.Context) ([]domain.Customer, error)
}
