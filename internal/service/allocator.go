package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"wholesale-market-backend/internal/domain"
	"wholesale-market-backend/internal/logger"
	"wholesale-market-backend/internal/money"
	"wholesale-market-backend/internal/repository"
)

type paymentService struct {
	tx    repository.TxManager
	repos repository.Repos
}

func NewPaymentService(tx repository.TxManager, repos repository.Repos) PaymentService {
	return &paymentService{tx: tx, repos: repos}
}

// AllocatePayment greedily reduces the customer's outstanding balances:
// unpaid cash first, then unpaid credit, oldest order first within each pass.
// Any remainder is spilled onto the manual credit ledger when one exists.
// The whole allocation is one transaction with the customer row locked first;
// a failure at any step leaves nothing applied.
func (s *paymentService) AllocatePayment(ctx context.Context, customerID int32, amount decimal.Decimal, through, additionalInfo string) ([]domain.Customer, error) {
	logger.EnterMethod("paymentService.AllocatePayment",
		"customer_id", customerID, "amount", amount, "through", through)

	if !amount.IsPositive() {
		return nil, fmt.Errorf("%w: payment amount must be positive, got %s", domain.ErrValidation, amount)
	}

	var customers []domain.Customer
	err := s.tx.RunInTx(ctx, func(ctx context.Context, r repository.Repos) error {
		if _, err := r.Customers.LockByID(ctx, customerID); err != nil {
			return err
		}

		remaining := money.Round2(amount)

		var err error
		remaining, err = s.payDownCash(ctx, r, customerID, remaining)
		if err != nil {
			return err
		}
		if remaining.IsPositive() {
			remaining, err = s.payDownCredit(ctx, r, customerID, remaining)
			if err != nil {
				return err
			}
		}
		if remaining.IsPositive() {
			remaining, err = s.spillToManualCredit(ctx, r, customerID, remaining)
			if err != nil {
				return err
			}
		}
		if remaining.IsPositive() {
			logger.Warn("payment exceeds all outstanding balances",
				"customer_id", customerID, "unapplied", remaining.StringFixed(2))
		}

		totals, err := recalcCustomerTx(ctx, r, customerID)
		if err != nil {
			return err
		}

		payment := &domain.Payment{
			CustomerID:             customerID,
			Amount:                 money.Round2(amount),
			Through:                through,
			AdditionalInfo:         additionalInfo,
			ReferenceNo:            uuid.NewString(),
			CreditLeftAfterPayment: totals.TotalUnpaid,
		}
		if err := r.Payments.Create(ctx, payment); err != nil {
			return err
		}

		customers, err = r.Customers.List(ctx)
		return err
	})
	if err != nil {
		logger.ExitMethodWithError("paymentService.AllocatePayment", err, "customer_id", customerID)
		return nil, err
	}

	logger.ExitMethod("paymentService.AllocatePayment", "customer_id", customerID, "amount", amount)
	return customers, nil
}

// payDownCash walks the delivered orders with unpaid cash, oldest first, and
// deducts until the amount or the list is exhausted.
func (s *paymentService) payDownCash(ctx context.Context, r repository.Repos, customerID int32, remaining decimal.Decimal) (decimal.Decimal, error) {
	orders, err := r.Orders.LockDeliveredWithUnpaidCash(ctx, customerID)
	if err != nil {
		return remaining, err
	}
	for i := range orders {
		if !remaining.IsPositive() {
			break
		}
		o := &orders[i]
		pay := money.Min(remaining, o.UnpaidCash)
		if err := r.Orders.UpdateUnpaid(ctx, o.ID, o.UnpaidCash.Sub(pay), o.UnpaidCredit); err != nil {
			return remaining, err
		}
		remaining = remaining.Sub(pay)
	}
	return remaining, nil
}

func (s *paymentService) payDownCredit(ctx context.Context, r repository.Repos, customerID int32, remaining decimal.Decimal) (decimal.Decimal, error) {
	orders, err := r.Orders.LockDeliveredWithUnpaidCredit(ctx, customerID)
	if err != nil {
		return remaining, err
	}
	for i := range orders {
		if !remaining.IsPositive() {
			break
		}
		o := &orders[i]
		pay := money.Min(remaining, o.UnpaidCredit)
		if err := r.Orders.UpdateUnpaid(ctx, o.ID, o.UnpaidCash, o.UnpaidCredit.Sub(pay)); err != nil {
			return remaining, err
		}
		remaining = remaining.Sub(pay)
	}
	return remaining, nil
}

// spillToManualCredit applies the remainder against the manual credit ledger:
// a negative entry when the table exists, a direct summary decrement when only
// the column does, and a logged no-op when neither is present.
func (s *paymentService) spillToManualCredit(ctx context.Context, r repository.Repos, customerID int32, remaining decimal.Decimal) (decimal.Decimal, error) {
	caps, err := r.Schema.Probe(ctx)
	if err != nil {
		return remaining, err
	}
	if !caps.ManualCreditColumn {
		logger.Warn("manual_credit column missing; payment remainder left unapplied",
			"customer_id", customerID, "remainder", remaining.StringFixed(2))
		return remaining, nil
	}

	var manualCredit decimal.Decimal
	if caps.ManualCreditTable {
		manualCredit, err = r.Ledgers.SumForCustomer(ctx, domain.LedgerKindCredit, customerID)
	} else {
		manualCredit, err = r.Customers.ManualSummary(ctx, customerID, domain.LedgerKindCredit)
	}
	if err != nil {
		return remaining, err
	}

	deduction := money.Min(manualCredit, remaining)
	if !deduction.IsPositive() {
		return remaining, nil
	}

	if caps.ManualCreditTable {
		entry := &domain.ManualLedgerEntry{
			CustomerID: customerID,
			Amount:     deduction.Neg(),
			Reason:     "payment allocation",
			CreatedBy:  "payment-allocator",
		}
		if err := r.Ledgers.Insert(ctx, domain.LedgerKindCredit, entry); err != nil {
			return remaining, err
		}
		if _, err := syncManualLedgersTx(ctx, r, customerID); err != nil {
			return remaining, err
		}
	} else {
		if err := r.Customers.AddToManualSummary(ctx, customerID, domain.LedgerKindCredit, deduction.Neg()); err != nil {
			return remaining, err
		}
	}
	return remaining.Sub(deduction), nil
}

func (s *paymentService) ListPayments(ctx context.Context, customerID int32) ([]domain.Payment, error) {
	if _, err := s.repos.Customers.GetByID(ctx, customerID); err != nil {
		return nil, err
	}
	return s.repos.Payments.ListByCustomer(ctx, customerID)
}
