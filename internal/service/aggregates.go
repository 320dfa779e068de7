package service

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"wholesale-market-backend/internal/domain"
	"wholesale-market-backend/internal/logger"
	"wholesale-market-backend/internal/money"
	"wholesale-market-backend/internal/repository"
)

type customerService struct {
	tx    repository.TxManager
	repos repository.Repos
}

func NewCustomerService(tx repository.TxManager, repos repository.Repos) CustomerService {
	return &customerService{tx: tx, repos: repos}
}

// recalcCustomerTx re-derives the customer's aggregates from delivered orders
// plus the manual credit summary and writes them back. It never accumulates
// deltas, so calling it repeatedly self-heals any drift. Runs inside the
// caller's transaction; the customer row must already be locked.
func recalcCustomerTx(ctx context.Context, r repository.Repos, customerID int32) (*domain.CustomerTotals, error) {
	caps, err := r.Schema.Probe(ctx)
	if err != nil {
		return nil, err
	}

	cash, credit, err := r.Orders.SumDeliveredUnpaid(ctx, customerID)
	if err != nil {
		return nil, err
	}

	manualCredit := decimal.Zero
	if caps.ManualCreditColumn {
		manualCredit, err = r.Customers.ManualSummary(ctx, customerID, domain.LedgerKindCredit)
		if err != nil {
			return nil, err
		}
	} else {
		logger.Warn("manual_credit column missing; aggregates computed without manual credit",
			"customer_id", customerID)
	}

	totals := &domain.CustomerTotals{
		TotalCredit:  money.Round2(credit),
		TotalCash:    money.Round2(cash),
		ManualCredit: money.Round2(manualCredit),
	}
	totals.TotalUnpaid = money.Round2(cash.Add(credit).Add(manualCredit))

	if err := r.Customers.SetTotals(ctx, customerID, totals.TotalCredit, totals.TotalUnpaid); err != nil {
		return nil, err
	}
	return totals, nil
}

// syncManualLedgersTx writes the signed sum of each manual ledger's entries
// into its summary column. Ledgers whose column or table is absent are
// skipped and reported as zero.
func syncManualLedgersTx(ctx context.Context, r repository.Repos, customerID int32) (*domain.ManualTotals, error) {
	caps, err := r.Schema.Probe(ctx)
	if err != nil {
		return nil, err
	}

	totals := &domain.ManualTotals{
		ManualCredit: decimal.Zero,
		ManualProfit: decimal.Zero,
		ManualLoss:   decimal.Zero,
	}

	for _, kind := range domain.LedgerKinds {
		if !caps.LedgerSyncable(kind) {
			logger.Warn("manual ledger not syncable on this schema, skipping",
				"ledger", kind, "customer_id", customerID)
			continue
		}

		sum, err := r.Ledgers.SumForCustomer(ctx, kind, customerID)
		if err != nil {
			return nil, err
		}
		sum = money.Round2(sum)

		if err := r.Customers.SetManualSummary(ctx, customerID, kind, sum); err != nil {
			return nil, err
		}

		switch kind {
		case domain.LedgerKindCredit:
			totals.ManualCredit = sum
		case domain.LedgerKindProfit:
			totals.ManualProfit = sum
		case domain.LedgerKindLoss:
			totals.ManualLoss = sum
		}
	}
	return totals, nil
}

func (s *customerService) RecalcCustomer(ctx context.Context, customerID int32) (*domain.CustomerTotals, error) {
	logger.EnterMethod("customerService.RecalcCustomer", "customer_id", customerID)

	var totals *domain.CustomerTotals
	err := s.tx.RunInTx(ctx, func(ctx context.Context, r repository.Repos) error {
		if _, err := r.Customers.LockByID(ctx, customerID); err != nil {
			return err
		}
		var err error
		totals, err = recalcCustomerTx(ctx, r, customerID)
		return err
	})
	if err != nil {
		logger.ExitMethodWithError("customerService.RecalcCustomer", err, "customer_id", customerID)
		return nil, err
	}

	logger.ExitMethod("customerService.RecalcCustomer", "customer_id", customerID,
		"total_credit", totals.TotalCredit, "total_unpaid", totals.TotalUnpaid)
	return totals, nil
}

func (s *customerService) SyncManualLedgers(ctx context.Context, customerID int32) (*domain.ManualTotals, error) {
	logger.EnterMethod("customerService.SyncManualLedgers", "customer_id", customerID)

	var totals *domain.ManualTotals
	err := s.tx.RunInTx(ctx, func(ctx context.Context, r repository.Repos) error {
		if _, err := r.Customers.LockByID(ctx, customerID); err != nil {
			return err
		}
		var err error
		totals, err = syncManualLedgersTx(ctx, r, customerID)
		return err
	})
	if err != nil {
		logger.ExitMethodWithError("customerService.SyncManualLedgers", err, "customer_id", customerID)
		return nil, err
	}

	logger.ExitMethod("customerService.SyncManualLedgers", "customer_id", customerID)
	return totals, nil
}

func (s *customerService) AddManualEntry(ctx context.Context, kind domain.LedgerKind, entry *domain.ManualLedgerEntry) (*domain.ManualTotals, error) {
	logger.EnterMethod("customerService.AddManualEntry", "ledger", kind, "customer_id", entry.CustomerID)

	if !kind.Valid() {
		return nil, fmt.Errorf("%w: unknown ledger kind %q", domain.ErrValidation, kind)
	}
	if entry.Amount.IsZero() {
		return nil, fmt.Errorf("%w: ledger entry amount must be non-zero", domain.ErrValidation)
	}
	if entry.EntryDate.IsZero() {
		entry.EntryDate = time.Now()
	}

	var totals *domain.ManualTotals
	err := s.tx.RunInTx(ctx, func(ctx context.Context, r repository.Repos) error {
		if _, err := r.Customers.LockByID(ctx, entry.CustomerID); err != nil {
			return err
		}

		caps, err := r.Schema.Probe(ctx)
		if err != nil {
			return err
		}
		// Writing an entry is an explicit request against a specific ledger;
		// a missing table here is a configuration error, not a degraded read.
		if !caps.HasTable(kind) {
			return fmt.Errorf("%w: ledger table %s does not exist", domain.ErrSchemaUnavailable, kind.Table())
		}

		if err := r.Ledgers.Insert(ctx, kind, entry); err != nil {
			return err
		}
		totals, err = syncManualLedgersTx(ctx, r, entry.CustomerID)
		if err != nil {
			return err
		}
		// Manual credit feeds total_unpaid, so the aggregates follow.
		if kind == domain.LedgerKindCredit {
			if _, err := recalcCustomerTx(ctx, r, entry.CustomerID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		logger.ExitMethodWithError("customerService.AddManualEntry", err, "ledger", kind, "customer_id", entry.CustomerID)
		return nil, err
	}

	logger.ExitMethod("customerService.AddManualEntry", "ledger", kind, "customer_id", entry.CustomerID)
	return totals, nil
}

func (s *customerService) ListCustomers(ctx context.Context) ([]domain.Customer, error) {
	return s.repos.Customers.List(ctx)
}
