package service

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"wholesale-market-backend/internal/domain"
	"wholesale-market-backend/internal/finance"
	"wholesale-market-backend/internal/logger"
	"wholesale-market-backend/internal/repository"
)

type orderLifecycleService struct {
	tx repository.TxManager
}

func NewOrderLifecycleService(tx repository.TxManager) OrderLifecycleService {
	return &orderLifecycleService{tx: tx}
}

// TransitionDeliverStatus applies one deliver-status transition as a single
// atomic unit of work. The order row is locked for the duration; the customer
// row is additionally locked whenever aggregates are touched, so concurrent
// transitions on the same order or customer serialize.
func (s *orderLifecycleService) TransitionDeliverStatus(ctx context.Context, orderID, customerID int32, newStatus domain.DeliverStatus) (string, error) {
	logger.EnterMethod("orderLifecycleService.TransitionDeliverStatus",
		"order_id", orderID, "customer_id", customerID, "new_status", newStatus)

	if newStatus < 0 {
		return "", fmt.Errorf("%w: deliver status must be non-negative, got %d", domain.ErrValidation, newStatus)
	}

	var msg string
	err := s.tx.RunInTx(ctx, func(ctx context.Context, r repository.Repos) error {
		order, err := r.Orders.LockForCustomer(ctx, orderID, customerID)
		if err != nil {
			return err
		}

		switch {
		case order.DeliverStatus == newStatus:
			// Covers re-delivery and re-cancellation too: both are no-ops.
			msg = fmt.Sprintf("order %d already in status %s", order.ID, newStatus)
			return nil

		case newStatus == domain.DeliverStatusCancelled:
			return s.cancel(ctx, r, order, &msg)

		case newStatus == domain.DeliverStatusDelivered:
			return s.deliver(ctx, r, order, &msg)

		case order.DeliverStatus == domain.DeliverStatusOrdered && newStatus == domain.DeliverStatusPickedUp:
			return s.reprice(ctx, r, order, newStatus, finance.CommissionApply, &msg)

		case order.DeliverStatus == domain.DeliverStatusPickedUp && newStatus == domain.DeliverStatusOrdered:
			return s.reprice(ctx, r, order, newStatus, finance.CommissionRevert, &msg)

		default:
			// Opaque intermediate status: record it, no financial side effects.
			if err := r.Orders.UpdateStatus(ctx, order.ID, newStatus); err != nil {
				return err
			}
			msg = fmt.Sprintf("order %d status set to %s", order.ID, newStatus)
			return nil
		}
	})
	if err != nil {
		logger.ExitMethodWithError("orderLifecycleService.TransitionDeliverStatus", err,
			"order_id", orderID, "new_status", newStatus)
		return "", err
	}

	logger.ExitMethod("orderLifecycleService.TransitionDeliverStatus",
		"order_id", orderID, "new_status", newStatus, "message", msg)
	return msg, nil
}

// deliver recomputes the order's split against the customer's current credit
// headroom, sets the unpaid balances, and bumps the customer aggregates
// additively. Sequential deliveries within one transaction each re-read
// headroom after the previous customer update.
func (s *orderLifecycleService) deliver(ctx context.Context, r repository.Repos, order *domain.Order, msg *string) error {
	customer, err := r.Customers.LockByID(ctx, order.CustomerID)
	if err != nil {
		return err
	}

	items, err := r.Orders.ListActiveLineItems(ctx, order.ID)
	if err != nil {
		return err
	}

	split := finance.Recompute(items, customer.CreditHeadroom())
	order.TotalPrice = split.Total
	order.CashAmount = split.Cash
	order.CreditAmount = split.Credit
	order.UnpaidCash = split.Cash
	order.UnpaidCredit = split.Credit
	order.DeliverStatus = domain.DeliverStatusDelivered

	if err := r.Orders.UpdateFinancials(ctx, order); err != nil {
		return err
	}
	if err := r.Customers.AddToTotals(ctx, customer.ID, split.Credit, split.Total); err != nil {
		return err
	}

	*msg = fmt.Sprintf("order %d delivered; customer %d totals updated (credit +%s, unpaid +%s)",
		order.ID, customer.ID, split.Credit.StringFixed(2), split.Total.StringFixed(2))
	return nil
}

// reprice toggles the commission on every line item with one, then recomputes
// the split. Customer aggregates are untouched until delivery.
func (s *orderLifecycleService) reprice(ctx context.Context, r repository.Repos, order *domain.Order, newStatus domain.DeliverStatus, direction finance.CommissionDirection, msg *string) error {
	items, err := r.Orders.ListActiveLineItems(ctx, order.ID)
	if err != nil {
		return err
	}

	for _, repriced := range finance.ApplyCommission(items, direction) {
		if err := r.Orders.UpdateLineItemPrice(ctx, repriced.ItemID, repriced.EachPrice); err != nil {
			return err
		}
	}

	customer, err := r.Customers.GetByID(ctx, order.CustomerID)
	if err != nil {
		return err
	}

	split := finance.Recompute(items, customer.CreditHeadroom())
	order.TotalPrice = split.Total
	order.CashAmount = split.Cash
	order.CreditAmount = split.Credit
	order.DeliverStatus = newStatus

	if err := r.Orders.UpdateFinancials(ctx, order); err != nil {
		return err
	}

	*msg = fmt.Sprintf("order %d moved to %s; totals recomputed (total %s, cash %s, credit %s)",
		order.ID, newStatus, split.Total.StringFixed(2), split.Cash.StringFixed(2), split.Credit.StringFixed(2))
	return nil
}

// cancel soft-deletes every line item and zeroes all money fields. If the
// order had been delivered its balances were part of the customer aggregates,
// so they are re-derived afterwards.
func (s *orderLifecycleService) cancel(ctx context.Context, r repository.Repos, order *domain.Order, msg *string) error {
	wasDelivered := order.DeliverStatus == domain.DeliverStatusDelivered

	if err := r.Orders.CancelLineItems(ctx, order.ID); err != nil {
		return err
	}

	order.TotalPrice = decimal.Zero
	order.CashAmount = decimal.Zero
	order.CreditAmount = decimal.Zero
	order.UnpaidCash = decimal.Zero
	order.UnpaidCredit = decimal.Zero
	order.DeliverStatus = domain.DeliverStatusCancelled

	if err := r.Orders.UpdateFinancials(ctx, order); err != nil {
		return err
	}

	if wasDelivered {
		if _, err := r.Customers.LockByID(ctx, order.CustomerID); err != nil {
			return err
		}
		if _, err := recalcCustomerTx(ctx, r, order.CustomerID); err != nil {
			return err
		}
	}

	*msg = fmt.Sprintf("order %d cancelled", order.ID)
	return nil
}
