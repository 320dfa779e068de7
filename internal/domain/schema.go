package domain

// SchemaCaps reports which optional ledger schema objects exist on this
// installation. Components branch on these flags and silently skip the
// contribution an absent object would have made, instead of erroring.
type SchemaCaps struct {
	ManualCreditColumn bool
	ManualProfitColumn bool
	ManualLossColumn   bool
	ManualCreditTable  bool
	ManualProfitTable  bool
	ManualLossTable    bool
}

// HasColumn reports whether the summary column for the given ledger kind exists.
func (c SchemaCaps) HasColumn(kind LedgerKind) bool {
	switch kind {
	case LedgerKindCredit:
		return c.ManualCreditColumn
	case LedgerKindProfit:
		return c.ManualProfitColumn
	case LedgerKindLoss:
		return c.ManualLossColumn
	}
	return false
}

// HasTable reports whether the entry table for the given ledger kind exists.
func (c SchemaCaps) HasTable(kind LedgerKind) bool {
	switch kind {
	case LedgerKindCredit:
		return c.ManualCreditTable
	case LedgerKindProfit:
		return c.ManualProfitTable
	case LedgerKindLoss:
		return c.ManualLossTable
	}
	return false
}

// LedgerSyncable reports whether both schema objects a ledger sync needs exist.
func (c SchemaCaps) LedgerSyncable(kind LedgerKind) bool {
	return c.HasColumn(kind) && c.HasTable(kind)
}
