// Package ledger keeps the ordered, in-memory list of transactions and
// computes the views derived from it.
//
// A Ledger is not safe for concurrent use. It is meant to be owned by a
// single controller that feeds it one user event at a time.
package ledger

import (
	"slices"
	"sort"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"

	"fintrack/internal/core"
)

// NoSelection is the index to pass to Remove when the user selected nothing.
const NoSelection = -1

// Ledger owns the transaction sequence. Insertion order is display order.
type Ledger struct {
	items []core.Transaction
}

// New returns an empty ledger.
func New() *Ledger {
	return &Ledger{}
}

// Add validates the raw fields and appends the resulting transaction.
// On error the ledger is left untouched.
func (l *Ledger) Add(category, amount, date string, kind core.Kind) (core.Transaction, error) {
	t, err := core.NewTransaction(category, amount, date, kind)
	if err != nil {
		return core.Transaction{}, err
	}
	l.items = append(l.items, t)
	return t, nil
}

// Remove deletes the transaction at index and returns it. Entries after it
// move down by one position, so callers must not keep positions across calls.
func (l *Ledger) Remove(index int) (core.Transaction, error) {
	if index < 0 {
		return core.Transaction{}, core.NewIndexNotFoundError(index, core.ErrNoSelection)
	}
	if index >= len(l.items) {
		return core.Transaction{}, core.NewIndexNotFoundError(index, core.ErrOutOfRange)
	}
	t := l.items[index]
	l.items = slices.Delete(l.items, index, index+1)
	return t, nil
}

// RemoveByID deletes the transaction carrying id.
func (l *Ledger) RemoveByID(id uuid.UUID) (core.Transaction, error) {
	index, ok := l.IndexOf(id)
	if !ok {
		return core.Transaction{}, core.NewIDNotFoundError(id.String())
	}
	return l.Remove(index)
}

// IndexOf returns the current position of id.
func (l *Ledger) IndexOf(id uuid.UUID) (int, bool) {
	for i, t := range l.items {
		if t.ID == id {
			return i, true
		}
	}
	return 0, false
}

// Len returns the number of transactions.
func (l *Ledger) Len() int {
	return len(l.items)
}

// Transactions returns a copy of the full sequence.
func (l *Ledger) Transactions() []core.Transaction {
	return slices.Clone(l.items)
}

// Summary totals income and expenses over the current sequence.
func (l *Ledger) Summary() core.Summary {
	income, expenses := decimal.Zero, decimal.Zero
	for _, t := range l.items {
		switch t.Kind {
		case core.Income:
			income = income.Add(t.Amount)
		case core.Expense:
			expenses = expenses.Add(t.Amount)
		}
	}
	return core.NewSummary(income, expenses)
}

// Categories returns the distinct categories present, in no particular order.
func (l *Ledger) Categories() []string {
	seen := make(map[string]struct{}, len(l.items))
	for _, t := range l.items {
		seen[t.Category] = struct{}{}
	}
	out := make([]string, 0, len(seen))
	for c := range seen {
		out = append(out, c)
	}
	return out
}

// SortedCategories returns Categories in lexical order, for selection lists.
func (l *Ledger) SortedCategories() []string {
	out := l.Categories()
	sort.Strings(out)
	return out
}

// FilterByCategory returns, in insertion order, the transactions whose
// category equals category exactly. An empty or unknown category means
// no filter and yields the whole sequence.
func (l *Ledger) FilterByCategory(category string) []core.Transaction {
	if category == "" {
		return l.Transactions()
	}
	var out []core.Transaction
	for _, t := range l.items {
		if t.Category == category {
			out = append(out, t)
		}
	}
	if len(out) == 0 {
		return l.Transactions()
	}
	return out
}
