package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"wholesale-market-backend/internal/domain"
	"wholesale-market-backend/internal/money"
)

type customerRepository struct {
	db dbtx
}

// Only the always-present columns are selected here; the optional manual_*
// summaries are read through ManualSummary once SchemaCaps confirms them.
const customerColumns = `id, COALESCE(name, ''), COALESCE(phone, ''), total_credit, total_unpaid, permitted_credit`

func scanCustomer(row interface{ Scan(...any) error }) (*domain.Customer, error) {
	var c domain.Customer
	err := row.Scan(&c.ID, &c.Name, &c.Phone, &c.TotalCredit, &c.TotalUnpaid, &c.PermittedCredit)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *customerRepository) GetByID(ctx context.Context, id int32) (*domain.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE id = $1`
	customer, err := scanCustomer(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("customer %d: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return customer, nil
}

func (r *customerRepository) LockByID(ctx context.Context, id int32) (*domain.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE id = $1 FOR UPDATE`
	customer, err := scanCustomer(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("customer %d: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return customer, nil
}

func (r *customerRepository) AddToTotals(ctx context.Context, id int32, creditDelta, unpaidDelta decimal.Decimal) error {
	query := `UPDATE customers
	          SET total_credit = total_credit + $1, total_unpaid = total_unpaid + $2
	          WHERE id = $3`
	_, err := r.db.ExecContext(ctx, query, money.String2(creditDelta), money.String2(unpaidDelta), id)
	return err
}

func (r *customerRepository) SetTotals(ctx context.Context, id int32, totalCredit, totalUnpaid decimal.Decimal) error {
	query := `UPDATE customers SET total_credit = $1, total_unpaid = $2 WHERE id = $3`
	_, err := r.db.ExecContext(ctx, query, money.String2(totalCredit), money.String2(totalUnpaid), id)
	return err
}

// The manual_* column name comes from the closed LedgerKind enum, never from
// request input, so interpolating it is safe.
func (r *customerRepository) ManualSummary(ctx context.Context, id int32, kind domain.LedgerKind) (decimal.Decimal, error) {
	query := fmt.Sprintf(`SELECT COALESCE(%s, 0) FROM customers WHERE id = $1`, kind.SummaryColumn())
	var amount decimal.Decimal
	err := r.db.QueryRowContext(ctx, query, id).Scan(&amount)
	if errors.Is(err, sql.ErrNoRows) {
		return decimal.Zero, fmt.Errorf("customer %d: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return decimal.Zero, err
	}
	return amount, nil
}

func (r *customerRepository) SetManualSummary(ctx context.Context, id int32, kind domain.LedgerKind, amount decimal.Decimal) error {
	query := fmt.Sprintf(`UPDATE customers SET %s = $1 WHERE id = $2`, kind.SummaryColumn())
	_, err := r.db.ExecContext(ctx, query, money.String2(amount), id)
	return err
}

func (r *customerRepository) AddToManualSummary(ctx context.Context, id int32, kind domain.LedgerKind, delta decimal.Decimal) error {
	query := fmt.Sprintf(`UPDATE customers SET %s = COALESCE(%s, 0) + $1 WHERE id = $2`,
		kind.SummaryColumn(), kind.SummaryColumn())
	_, err := r.db.ExecContext(ctx, query, money.String2(delta), id)
	return err
}

func (r *customerRepository) List(ctx context.Context) ([]domain.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers ORDER BY id ASC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var customers []domain.Customer
	for rows.Next() {
		customer, err := scanCustomer(rows)
		if err != nil {
			return nil, err
		}
		customers = append(customers, *customer)
	}
	return customers, rows.Err()
}

func (r *customerRepository) ListIDs(ctx context.Context) ([]int32, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id FROM customers ORDER BY id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int32
	for rows.Next() {
		var id int32
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
