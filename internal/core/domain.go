package core

import (
	"strings"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
)

const (
	Income  Kind = "Income"
	Expense Kind = "Expense"
)

type (
	// Kind decides which summary bucket a transaction contributes to.
	Kind string

	// Transaction is one recorded income or expense event. Values are
	// immutable once built by NewTransaction.
	Transaction struct {
		ID       uuid.UUID
		Category string
		Amount   decimal.Decimal
		Date     string // free-form, never parsed
		Kind     Kind
	}

	// TransactionInput carries the raw fields as typed by the user. The kind
	// is resolved with ParseKind before the ledger validates the rest.
	TransactionInput struct {
		Category string
		Amount   string
		Date     string
		Kind     string
	}
)

func (k Kind) String() string {
	return string(k)
}

// IsValid reports whether k is one of the two known kinds.
func (k Kind) IsValid() bool {
	switch k {
	case Income, Expense:
		return true
	default:
		return false
	}
}

// Kinds returns the selectable kinds in form order; the first one is the default.
func Kinds() []Kind {
	return []Kind{Income, Expense}
}

// ParseKind resolves a raw selection. An empty selection means Income.
func ParseKind(s string) (Kind, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Income, nil
	}
	for _, k := range Kinds() {
		if strings.EqualFold(s, string(k)) {
			return k, nil
		}
	}
	return "", newValidationError("kind", ErrInvalidKind)
}

// NewTransaction validates the raw fields and builds a Transaction with a
// fresh identifier.
func NewTransaction(category, amount, date string, kind Kind) (Transaction, error) {
	if category == "" {
		return Transaction{}, newValidationError("category", ErrEmptyCategory)
	}
	if date == "" {
		return Transaction{}, newValidationError("date", ErrEmptyDate)
	}
	value, err := ParseAmount(amount)
	if err != nil {
		return Transaction{}, newValidationError("amount", err)
	}
	if !kind.IsValid() {
		return Transaction{}, newValidationError("kind", ErrInvalidKind)
	}

	id, err := uuid.NewV4()
	if err != nil {
		return Transaction{}, err
	}

	return Transaction{
		ID:       id,
		Category: category,
		Amount:   value,
		Date:     date,
		Kind:     kind,
	}, nil
}

// Signed returns the amount with the sign implied by the kind.
func (t Transaction) Signed() decimal.Decimal {
	if t.Kind == Expense {
		return t.Amount.Neg()
	}
	return t.Amount
}
