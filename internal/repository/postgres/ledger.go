package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"wholesale-market-backend/internal/domain"
	"wholesale-market-backend/internal/money"
)

type manualLedgerRepository struct {
	db dbtx
}

// Table names come from the closed LedgerKind enum. Callers must gate on
// SchemaCaps before touching a ledger table; these methods assume it exists.
func (r *manualLedgerRepository) Insert(ctx context.Context, kind domain.LedgerKind, entry *domain.ManualLedgerEntry) error {
	query := fmt.Sprintf(`INSERT INTO %s (customer_id, entry_date, amount, reason, created_by)
	          VALUES ($1, $2, $3, $4, $5) RETURNING id`, kind.Table())
	entryDate := entry.EntryDate
	if entryDate.IsZero() {
		entryDate = time.Now()
	}
	return r.db.QueryRowContext(ctx, query,
		entry.CustomerID,
		entryDate.Format("2006-01-02"),
		money.String2(entry.Amount),
		entry.Reason,
		entry.CreatedBy,
	).Scan(&entry.ID)
}

func (r *manualLedgerRepository) SumForCustomer(ctx context.Context, kind domain.LedgerKind, customerID int32) (decimal.Decimal, error) {
	query := fmt.Sprintf(`SELECT COALESCE(SUM(amount), 0) FROM %s WHERE customer_id = $1`, kind.Table())
	var sum decimal.Decimal
	if err := r.db.QueryRowContext(ctx, query, customerID).Scan(&sum); err != nil {
		return decimal.Zero, err
	}
	return sum, nil
}
