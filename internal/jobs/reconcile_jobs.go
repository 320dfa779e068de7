package jobs

import (
	"context"
	"time"

	"wholesale-market-backend/internal/logger"
)

const sweepTimeout = 30 * time.Minute

// ReconcileAllAggregates re-derives every customer's total_credit and
// total_unpaid from their delivered orders. The recalculation is idempotent,
// so the sweep self-heals any drift left behind by failed requests.
func (jr *JobRunner) ReconcileAllAggregates() {
	jr.runWithRecovery("ReconcileAllAggregates", func() {
		ctx, cancel := context.WithTimeout(context.Background(), sweepTimeout)
		defer cancel()

		customers, err := jr.customers.ListCustomers(ctx)
		if err != nil {
			logger.Error("Failed to list customers for aggregate sweep", "error", err)
			return
		}

		var failed int
		for _, c := range customers {
			if _, err := jr.customers.RecalcCustomer(ctx, c.ID); err != nil {
				logger.Error("Aggregate recalculation failed", "customer_id", c.ID, "error", err)
				failed++
			}
		}
		logger.Info("Aggregate sweep finished", "customers", len(customers), "failed", failed)
	})
}

// SyncAllManualLedgers re-sums the manual credit/profit/loss ledgers into
// their summary columns for every customer. Runs before the aggregate sweep
// so recalculation sees fresh manual credit.
func (jr *JobRunner) SyncAllManualLedgers() {
	jr.runWithRecovery("SyncAllManualLedgers", func() {
		ctx, cancel := context.WithTimeout(context.Background(), sweepTimeout)
		defer cancel()

		customers, err := jr.customers.ListCustomers(ctx)
		if err != nil {
			logger.Error("Failed to list customers for ledger sweep", "error", err)
			return
		}

		var failed int
		for _, c := range customers {
			if _, err := jr.customers.SyncManualLedgers(ctx, c.ID); err != nil {
				logger.Error("Manual ledger sync failed", "customer_id", c.ID, "error", err)
				failed++
			}
		}
		logger.Info("Ledger sweep finished", "customers", len(customers), "failed", failed)
	})
}
