package postgres

import (
	"context"

	"wholesale-market-backend/internal/domain"
)

type schemaRepository struct {
	db dbtx
}

func (r *schemaRepository) ColumnExists(ctx context.Context, table, column string) (bool, error) {
	query := `SELECT EXISTS (
	            SELECT 1 FROM information_schema.columns
	            WHERE table_name = $1 AND column_name = $2)`
	var exists bool
	err := r.db.QueryRowContext(ctx, query, table, column).Scan(&exists)
	return exists, err
}

func (r *schemaRepository) TableExists(ctx context.Context, table string) (bool, error) {
	query := `SELECT EXISTS (
	            SELECT 1 FROM information_schema.tables
	            WHERE table_name = $1)`
	var exists bool
	err := r.db.QueryRowContext(ctx, query, table).Scan(&exists)
	return exists, err
}

// Probe checks every optional ledger object in one pass. Absent objects are
// reported as capability flags, never as errors.
func (r *schemaRepository) Probe(ctx context.Context) (domain.SchemaCaps, error) {
	var caps domain.SchemaCaps
	checks := []struct {
		kind   domain.LedgerKind
		column *bool
		table  *bool
	}{
		{domain.LedgerKindCredit, &caps.ManualCreditColumn, &caps.ManualCreditTable},
		{domain.LedgerKindProfit, &caps.ManualProfitColumn, &caps.ManualProfitTable},
		{domain.LedgerKindLoss, &caps.ManualLossColumn, &caps.ManualLossTable},
	}

	for _, check := range checks {
		colExists, err := r.ColumnExists(ctx, "customers", check.kind.SummaryColumn())
		if err != nil {
			return domain.SchemaCaps{}, err
		}
		*check.column = colExists

		tblExists, err := r.TableExists(ctx, check.kind.Table())
		if err != nil {
			return domain.SchemaCaps{}, err
		}
		*check.table = tblExists
	}
	return caps, nil
}
