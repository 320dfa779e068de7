package jobs

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/mock"

	"wholesale-market-backend/internal/config"
	"wholesale-market-backend/internal/domain"
)

type mockCustomerService struct {
	mock.Mock
}

func (m *mockCustomerService) RecalcCustomer(ctx context.Context, customerID int32) (*domain.CustomerTotals, error) {
	args := m.Called(ctx, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CustomerTotals), args.Error(1)
}

func (m *mockCustomerService) SyncManualLedgers(ctx context.Context, customerID int32) (*domain.ManualTotals, error) {
	args := m.Called(ctx, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ManualTotals), args.Error(1)
}

func (m *mockCustomerService) AddManualEntry(ctx context.Context, kind domain.LedgerKind, entry *domain.ManualLedgerEntry) (*domain.ManualTotals, error) {
	args := m.Called(ctx, kind, entry)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ManualTotals), args.Error(1)
}

func (m *mockCustomerService) ListCustomers(ctx context.Context) ([]domain.Customer, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Customer), args.Error(1)
}

func TestReconcileAllAggregates(t *testing.T) {
	t.Run("SweepsEveryCustomer", func(t *testing.T) {
		customers := new(mockCustomerService)
		customers.On("ListCustomers", mock.Anything).
			Return([]domain.Customer{{ID: 1}, {ID: 2}}, nil)
		customers.On("RecalcCustomer", mock.Anything, int32(1)).
			Return(&domain.CustomerTotals{}, nil)
		customers.On("RecalcCustomer", mock.Anything, int32(2)).
			Return(&domain.CustomerTotals{}, nil)

		jr := NewJobRunner(customers, &config.Config{})
		jr.ReconcileAllAggregates()

		customers.AssertExpectations(t)
	})

	t.Run("OneFailureDoesNotStopTheSweep", func(t *testing.T) {
		customers := new(mockCustomerService)
		customers.On("ListCustomers", mock.Anything).
			Return([]domain.Customer{{ID: 1}, {ID: 2}}, nil)
		customers.On("RecalcCustomer", mock.Anything, int32(1)).
			Return(nil, errors.New("deadlock"))
		customers.On("RecalcCustomer", mock.Anything, int32(2)).
			Return(&domain.CustomerTotals{}, nil)

		jr := NewJobRunner(customers, &config.Config{})
		jr.ReconcileAllAggregates()

		customers.AssertExpectations(t)
	})
}

func TestSyncAllManualLedgers(t *testing.T) {
	customers := new(mockCustomerService)
	customers.On("ListCustomers", mock.Anything).
		Return([]domain.Customer{{ID: 1}}, nil)
	customers.On("SyncManualLedgers", mock.Anything, int32(1)).
		Return(&domain.ManualTotals{}, nil)

	jr := NewJobRunner(customers, &config.Config{})
	jr.SyncAllManualLedgers()

	customers.AssertExpectations(t)
}

func TestRunWithRecovery(t *testing.T) {
	jr := NewJobRunner(new(mockCustomerService), &config.Config{})

	// Must not propagate the panic.
	jr.runWithRecovery("panicky", func() {
		panic("boom")
	})
}
