package domain

import "github.com/shopspring/decimal"

// Customer owns the denormalized financial aggregates. TotalCredit and
// TotalUnpaid are never accumulated in place outside the recalculator; they
// are always re-derived from delivered orders plus the manual credit summary.
type Customer struct {
	ID              int32           `json:"id"`
	Name            string          `json:"name"`
	Phone           string          `json:"phone"`
	TotalCredit     decimal.Decimal `json:"total_credit"`
	TotalUnpaid     decimal.Decimal `json:"total_unpaid"`
	PermittedCredit decimal.Decimal `json:"permitted_credit"`
	ManualCredit    decimal.Decimal `json:"manual_credit"`
	ManualProfit    decimal.Decimal `json:"manual_profit"`
	ManualLoss      decimal.Decimal `json:"manual_loss"`
}

// CreditHeadroom is the unused portion of the customer's credit ceiling,
// floored at zero.
func (c *Customer) CreditHeadroom() decimal.Decimal {
	headroom := c.PermittedCredit.Sub(c.TotalCredit)
	if headroom.IsNegative() {
		return decimal.Zero
	}
	return headroom
}

// CustomerTotals is the result of an aggregate recalculation.
type CustomerTotals struct {
	TotalCredit  decimal.Decimal `json:"total_credit"`
	TotalUnpaid  decimal.Decimal `json:"total_unpaid"`
	TotalCash    decimal.Decimal `json:"total_cash"`
	ManualCredit decimal.Decimal `json:"manual_credit"`
}

// ManualTotals is the result of a manual ledger sync. Ledgers whose schema
// objects are absent report zero.
type ManualTotals struct {
	ManualCredit decimal.Decimal `json:"manual_credit"`
	ManualProfit decimal.Decimal `json:"manual_profit"`
	ManualLoss   decimal.Decimal `json:"manual_loss"`
}
