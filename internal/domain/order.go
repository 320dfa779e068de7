package domain

import "github.com/shopspring/decimal"

// DeliverStatus is the wire-stable integer code for an order's position in
// its fulfillment lifecycle. Codes other than the named ones are accepted and
// stored but carry no financial side effects.
type DeliverStatus int32

const (
	DeliverStatusUnspecified DeliverStatus = 0
	DeliverStatusOrdered     DeliverStatus = 1
	DeliverStatusPickedUp    DeliverStatus = 3
	DeliverStatusDelivered   DeliverStatus = 6
	DeliverStatusCancelled   DeliverStatus = 7
)

func (s DeliverStatus) String() string {
	switch s {
	case DeliverStatusUnspecified:
		return "UNSPECIFIED"
	case DeliverStatusOrdered:
		return "ORDERED"
	case DeliverStatusPickedUp:
		return "PICKED_UP"
	case DeliverStatusDelivered:
		return "DELIVERED"
	case DeliverStatusCancelled:
		return "CANCELLED"
	}
	return "INTERMEDIATE"
}

// Line item status values. Cancellation is a soft delete; rows are never removed.
const (
	LineItemStatusActive    int32 = 0
	LineItemStatusCancelled int32 = -1
)

type Order struct {
	ID            int32           `json:"id"`
	CustomerID    int32           `json:"customer_id"`
	TotalPrice    decimal.Decimal `json:"total_price"`
	Profit        decimal.Decimal `json:"profit"`
	CashAmount    decimal.Decimal `json:"cash_amount"`
	CreditAmount  decimal.Decimal `json:"credit_amount"`
	UnpaidCash    decimal.Decimal `json:"unpaid_cash"`
	UnpaidCredit  decimal.Decimal `json:"unpaid_credit"`
	DeliverStatus DeliverStatus   `json:"deliver_status"`
	Comment       string          `json:"comment"`
}

// OrderLineItem is one distinct good within an order. Commission is joined in
// from the goods catalog; it is zero when the good carries none.
type OrderLineItem struct {
	ID                int32           `json:"id"`
	OrderID           int32           `json:"orders_id"`
	GoodsID           int32           `json:"goods_id"`
	SupplierGoodsID   int32           `json:"supplier_goods_id"`
	Quantity          decimal.Decimal `json:"quantity"`
	EachPrice         decimal.Decimal `json:"each_price"`
	EligibleForCredit bool            `json:"eligible_for_credit"`
	Status            int32           `json:"status"`
	Commission        decimal.Decimal `json:"commission"`
}

func (li *OrderLineItem) Active() bool {
	return li.Status != LineItemStatusCancelled
}
