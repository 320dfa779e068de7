package service

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"wholesale-market-backend/internal/domain"
	"wholesale-market-backend/internal/repository"
)

// passthroughTx runs the unit of work directly against the given mocks, so
// tests observe exactly the calls a real transaction would make.
type passthroughTx struct {
	repos repository.Repos
}

func (t *passthroughTx) RunInTx(ctx context.Context, fn func(ctx context.Context, r repository.Repos) error) error {
	return fn(ctx, t.repos)
}

// MockOrderRepo
type MockOrderRepo struct {
	mock.Mock
}

func (m *MockOrderRepo) LockForCustomer(ctx context.Context, orderID, customerID int32) (*domain.Order, error) {
	args := m.Called(ctx, orderID, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Order), args.Error(1)
}
func (m *MockOrderRepo) UpdateStatus(ctx context.Context, orderID int32, status domain.DeliverStatus) error {
	args := m.Called(ctx, orderID, status)
	return args.Error(0)
}
func (m *MockOrderRepo) UpdateFinancials(ctx context.Context, order *domain.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}
func (m *MockOrderRepo) UpdateUnpaid(ctx context.Context, orderID int32, unpaidCash, unpaidCredit decimal.Decimal) error {
	args := m.Called(ctx, orderID, unpaidCash, unpaidCredit)
	return args.Error(0)
}
func (m *MockOrderRepo) ListActiveLineItems(ctx context.Context, orderID int32) ([]domain.OrderLineItem, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.OrderLineItem), args.Error(1)
}
func (m *MockOrderRepo) UpdateLineItemPrice(ctx context.Context, itemID int32, eachPrice decimal.Decimal) error {
	args := m.Called(ctx, itemID, eachPrice)
	return args.Error(0)
}
func (m *MockOrderRepo) CancelLineItems(ctx context.Context, orderID int32) error {
	args := m.Called(ctx, orderID)
	return args.Error(0)
}
func (m *MockOrderRepo) LockDeliveredWithUnpaidCash(ctx context.Context, customerID int32) ([]domain.Order, error) {
	args := m.Called(ctx, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Order), args.Error(1)
}
func (m *MockOrderRepo) LockDeliveredWithUnpaidCredit(ctx context.Context, customerID int32) ([]domain.Order, error) {
	args := m.Called(ctx, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Order), args.Error(1)
}
func (m *MockOrderRepo) SumDeliveredUnpaid(ctx context.Context, customerID int32) (decimal.Decimal, decimal.Decimal, error) {
	args := m.Called(ctx, customerID)
	return args.Get(0).(decimal.Decimal), args.Get(1).(decimal.Decimal), args.Error(2)
}

// MockCustomerRepo
type MockCustomerRepo struct {
	mock.Mock
}

func (m *MockCustomerRepo) GetByID(ctx context.Context, id int32) (*domain.Customer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Customer), args.Error(1)
}
func (m *MockCustomerRepo) LockByID(ctx context.Context, id int32) (*domain.Customer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Customer), args.Error(1)
}
func (m *MockCustomerRepo) AddToTotals(ctx context.Context, id int32, creditDelta, unpaidDelta decimal.Decimal) error {
	args := m.Called(ctx, id, creditDelta, unpaidDelta)
	return args.Error(0)
}
func (m *MockCustomerRepo) SetTotals(ctx context.Context, id int32, totalCredit, totalUnpaid decimal.Decimal) error {
	args := m.Called(ctx, id, totalCredit, totalUnpaid)
	return args.Error(0)
}
func (m *MockCustomerRepo) ManualSummary(ctx context.Context, id int32, kind domain.LedgerKind) (decimal.Decimal, error) {
	args := m.Called(ctx, id, kind)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}
func (m *MockCustomerRepo) SetManualSummary(ctx context.Context, id int32, kind domain.LedgerKind, amount decimal.Decimal) error {
	args := m.Called(ctx, id, kind, amount)
	return args.Error(0)
}
func (m *MockCustomerRepo) AddToManualSummary(ctx context.Context, id int32, kind domain.LedgerKind, delta decimal.Decimal) error {
	args := m.Called(ctx, id, kind, delta)
	return args.Error(0)
}
func (m *MockCustomerRepo) List(ctx context.Context) ([]domain.Customer, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Customer), args.Error(1)
}
func (m *MockCustomerRepo) ListIDs(ctx context.Context) ([]int32, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int32), args.Error(1)
}

// MockPaymentRepo
type MockPaymentRepo struct {
	mock.Mock
}

func (m *MockPaymentRepo) Create(ctx context.Context, payment *domain.Payment) error {
	args := m.Called(ctx, payment)
	return args.Error(0)
}
func (m *MockPaymentRepo) ListByCustomer(ctx context.Context, customerID int32) ([]domain.Payment, error) {
	args := m.Called(ctx, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Payment), args.Error(1)
}

// MockLedgerRepo
type MockLedgerRepo struct {
	mock.Mock
}

func (m *MockLedgerRepo) Insert(ctx context.Context, kind domain.LedgerKind, entry *domain.ManualLedgerEntry) error {
	args := m.Called(ctx, kind, entry)
	return args.Error(0)
}
func (m *MockLedgerRepo) SumForCustomer(ctx context.Context, kind domain.LedgerKind, customerID int32) (decimal.Decimal, error) {
	args := m.Called(ctx, kind, customerID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

// MockSchemaRepo
type MockSchemaRepo struct {
	mock.Mock
}

func (m *MockSchemaRepo) ColumnExists(ctx context.Context, table, column string) (bool, error) {
	args := m.Called(ctx, table, column)
	return args.Bool(0), args.Error(1)
}
func (m *MockSchemaRepo) TableExists(ctx context.Context, table string) (bool, error) {
	args := m.Called(ctx, table)
	return args.Bool(0), args.Error(1)
}
func (m *MockSchemaRepo) Probe(ctx context.Context) (domain.SchemaCaps, error) {
	args := m.Called(ctx)
	return args.Get(0).(domain.SchemaCaps), args.Error(1)
}

// testEnv bundles fresh mocks behind a passthrough transaction manager.
type testEnv struct {
	orders    *MockOrderRepo
	customers *MockCustomerRepo
	payments  *MockPaymentRepo
	ledgers   *MockLedgerRepo
	schema    *MockSchemaRepo
	repos     repository.Repos
	tx        *passthroughTx
}

func newTestEnv() *testEnv {
	env := &testEnv{
		orders:    new(MockOrderRepo),
		customers: new(MockCustomerRepo),
		payments:  new(MockPaymentRepo),
		ledgers:   new(MockLedgerRepo),
		schema:    new(MockSchemaRepo),
	}
	env.repos = repository.Repos{
		Orders:    env.orders,
		Customers: env.customers,
		Payments:  env.payments,
		Ledgers:   env.ledgers,
		Schema:    env.schema,
	}
	env.tx = &passthroughTx{repos: env.repos}
	return env
}

func (e *testEnv) assertExpectations(t mock.TestingT) {
	e.orders.AssertExpectations(t)
	e.customers.AssertExpectations(t)
	e.payments.AssertExpectations(t)
	e.ledgers.AssertExpectations(t)
	e.schema.AssertExpectations(t)
}

// decEq matches a decimal argument by value, independent of representation.
func decEq(want string) interface{} {
	target := decimal.RequireFromString(want)
	return mock.MatchedBy(func(got decimal.Decimal) bool {
		return got.Equal(target)
	})
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// fullCaps reports every optional ledger object as present.
func fullCaps() domain.SchemaCaps {
	return domain.SchemaCaps{
		ManualCreditColumn: true,
		ManualProfitColumn: true,
		ManualLossColumn:   true,
		ManualCreditTable:  true,
		ManualProfitTable:  true,
		ManualLossTable:    true,
	}
}
