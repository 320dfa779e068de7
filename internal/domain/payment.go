package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Payment is an append-only record of money received from a customer.
// CreditLeftAfterPayment snapshots the customer's total_unpaid immediately
// after the allocation it belongs to.
type Payment struct {
	ID                     int32           `json:"id"`
	CustomerID             int32           `json:"customer_id"`
	Amount                 decimal.Decimal `json:"amount"`
	Through                string          `json:"through"`
	AdditionalInfo         string          `json:"additional_info"`
	ReferenceNo            string          `json:"reference_no"`
	CreditLeftAfterPayment decimal.Decimal `json:"credit_left_after_payment"`
	CreatedAt              time.Time       `json:"created_at"`
}
