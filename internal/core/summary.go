package core

import "github.com/shopspring/decimal"

// Summary holds the running totals of a ledger at full precision.
type Summary struct {
	Income   decimal.Decimal
	Expenses decimal.Decimal
	Balance  decimal.Decimal
}

// NewSummary derives the balance from the two totals.
func NewSummary(income, expenses decimal.Decimal) Summary {
	return Summary{
		Income:   income,
		Expenses: expenses,
		Balance:  income.Sub(expenses),
	}
}

// Equal compares the three totals numerically.
func (s Summary) Equal(o Summary) bool {
	return s.Income.Equal(o.Income) && s.Expenses.Equal(o.Expenses) && s.Balance.Equal(o.Balance)
}
