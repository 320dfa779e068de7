package postgres

import (
	"context"

	"wholesale-market-backend/internal/domain"
	"wholesale-market-backend/internal/money"
)

type paymentRepository struct {
	db dbtx
}

func (r *paymentRepository) Create(ctx context.Context, payment *domain.Payment) error {
	query := `INSERT INTO payments (customer_id, amount, through, additional_info, reference_no, credit_left_after_payment, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, NOW()) RETURNING id, created_at`
	return r.db.QueryRowContext(ctx, query,
		payment.CustomerID,
		money.String2(payment.Amount),
		payment.Through,
		payment.AdditionalInfo,
		payment.ReferenceNo,
		money.String2(payment.CreditLeftAfterPayment),
	).Scan(&payment.ID, &payment.CreatedAt)
}

func (r *paymentRepository) ListByCustomer(ctx context.Context, customerID int32) ([]domain.Payment, error) {
	query := `SELECT id, customer_id, amount, COALESCE(through, ''), COALESCE(additional_info, ''),
	                 COALESCE(reference_no, ''), credit_left_after_payment, created_at
	          FROM payments WHERE customer_id = $1 ORDER BY id ASC`
	rows, err := r.db.QueryContext(ctx, query, customerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var payments []domain.Payment
	for rows.Next() {
		var p domain.Payment
		if err := rows.Scan(&p.ID, &p.CustomerID, &p.Amount, &p.Through, &p.AdditionalInfo,
			&p.ReferenceNo, &p.CreditLeftAfterPayment, &p.CreatedAt); err != nil {
			return nil, err
		}
		payments = append(payments, p)
	}
	return payments, rows.Err()
}
