package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// LedgerKind identifies one of the three manual adjustment ledgers. Each kind
// maps to an entry table and a summary column on the customer row; either or
// both may be absent on installations that predate the ledger migrations.
type LedgerKind string

const (
	LedgerKindCredit LedgerKind = "credit"
	LedgerKindProfit LedgerKind = "profit"
	LedgerKindLoss   LedgerKind = "loss"
)

var LedgerKinds = []LedgerKind{LedgerKindCredit, LedgerKindProfit, LedgerKindLoss}

// Table returns the entry table name for the ledger kind.
func (k LedgerKind) Table() string {
	return "manual_" + string(k) + "_entries"
}

// SummaryColumn returns the customer summary column name for the ledger kind.
func (k LedgerKind) SummaryColumn() string {
	return "manual_" + string(k)
}

func (k LedgerKind) Valid() bool {
	switch k {
	case LedgerKindCredit, LedgerKindProfit, LedgerKindLoss:
		return true
	}
	return false
}

// ManualLedgerEntry is an append-only ad hoc adjustment, independent of order
// activity. Amount is signed.
type ManualLedgerEntry struct {
	ID         int32           `json:"id"`
	CustomerID int32           `json:"customer_id"`
	EntryDate  time.Time       `json:"entry_date"`
	Amount     decimal.Decimal `json:"amount"`
	Reason     string          `json:"reason"`
	CreatedBy  string          `json:"created_by"`
}
