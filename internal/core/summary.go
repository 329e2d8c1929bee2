package core

// Summary holds the aggregate totals for a transaction subset.
// Balance may be negative. All-zero totals are a valid state meaning
// there is nothing to chart.
type Summary struct {
	ExpenseTotal Money
	IncomeTotal  Money
	Balance      Money
}

// Aggregate sums amounts by type over the given subset.
func Aggregate(txs []Transaction) Summary {
	var s Summary
	for _, tx := range txs {
		switch tx.Type {
		case Expense:
			s.ExpenseTotal.Units += tx.Amount.Units
		case Income:
			s.IncomeTotal.Units += tx.Amount.Units
		}
	}
	s.Balance.Units = s.IncomeTotal.Units - s.ExpenseTotal.Units
	return s
}

// IsZero reports whether the summary has no data to display.
func (s Summary) IsZero() bool {
	return s.ExpenseTotal.Units == 0 && s.IncomeTotal.Units == 0
}
