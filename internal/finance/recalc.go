// Package finance holds the pure money computations of the order lifecycle:
// the commission repricer and the cash/credit split recalculator. Both are
// pure with respect to their inputs, which is what makes retries of the
// surrounding transactions idempotent.
package finance

import (
	"github.com/shopspring/decimal"

	"wholesale-market-backend/internal/domain"
	"wholesale-market-backend/internal/money"
)

// Split is an order's recomputed financial breakdown. Cash + Credit always
// equals Total within 2-decimal rounding.
type Split struct {
	Total  decimal.Decimal
	Cash   decimal.Decimal
	Credit decimal.Decimal
}

// CommissionDirection selects whether a repricing applies or reverts the
// per-goods commission.
type CommissionDirection int

const (
	// CommissionApply reduces each_price by the commission (ordered -> picked up).
	CommissionApply CommissionDirection = iota
	// CommissionRevert adds the commission back (picked up -> ordered).
	CommissionRevert
)

// RepricedItem is one line item whose each_price changed during a commission
// repricing pass.
type RepricedItem struct {
	ItemID    int32
	EachPrice decimal.Decimal
}

// ApplyCommission adjusts the each_price of every active line item that
// carries a commission, flooring at zero and rounding to 2 decimals. Items
// without a commission, and cancelled items, are left alone. The input slice
// is mutated so a subsequent Recompute sees the adjusted prices.
func ApplyCommission(items []domain.OrderLineItem, direction CommissionDirection) []RepricedItem {
	var repriced []RepricedItem
	for i := range items {
		li := &items[i]
		if !li.Active() || li.Commission.IsZero() {
			continue
		}

		var adjusted decimal.Decimal
		if direction == CommissionApply {
			adjusted = li.EachPrice.Sub(li.Commission)
		} else {
			adjusted = li.EachPrice.Add(li.Commission)
		}
		li.EachPrice = money.Round2(money.FloorZero(adjusted))
		repriced = append(repriced, RepricedItem{ItemID: li.ID, EachPrice: li.EachPrice})
	}
	return repriced
}

// Recompute derives an order's total and its cash/credit split from the active
// line items and the customer's available credit headroom.
//
// credit = min(max(headroom, 0), eligibleTotal, total); cash = total - credit.
// Given the same items and headroom it always returns the same split.
func Recompute(items []domain.OrderLineItem, availableCredit decimal.Decimal) Split {
	total := decimal.Zero
	eligibleTotal := decimal.Zero
	for i := range items {
		li := &items[i]
		if !li.Active() {
			continue
		}
		lineTotal := li.EachPrice.Mul(li.Quantity)
		total = total.Add(lineTotal)
		if li.EligibleForCredit {
			eligibleTotal = eligibleTotal.Add(lineTotal)
		}
	}
	total = money.Round2(total)
	eligibleTotal = money.Round2(eligibleTotal)

	credit := money.Min(money.FloorZero(availableCredit), money.Min(eligibleTotal, total))
	credit = money.Round2(credit)
	cash := money.Round2(money.FloorZero(total.Sub(credit)))

	return Split{Total: total, Cash: cash, Credit: credit}
}
