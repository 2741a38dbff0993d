package ports

import (
	"context"

	"github.com/gofrs/uuid/v5"

	"fintrack/internal/core"
)

// Ports consumed by the presentation layers.
type (
	TransactionWriter interface {
		AddTransaction(ctx context.Context, in core.TransactionInput) (core.Transaction, error)
	}

	// TransactionRemover deletes by position in the full list or by identifier.
	TransactionRemover interface {
		RemoveAt(ctx context.Context, index int) (core.Transaction, error)
		RemoveByID(ctx context.Context, id uuid.UUID) (core.Transaction, error)
	}

	// TransactionLister returns the transactions of one category, or all of
	// them when category is empty or unknown.
	TransactionLister interface {
		ListTransactions(ctx context.Context, category string) ([]core.Transaction, error)
	}

	SummaryReader interface {
		Summary(ctx context.Context) (core.Summary, error)
	}

	// CategoryReader returns the distinct categories currently in use.
	CategoryReader interface {
		Categories(ctx context.Context) ([]string, error)
	}

	// Ledger is everything a presentation layer needs.
	Ledger interface {
		TransactionWriter
		TransactionRemover
		TransactionLister
		SummaryReader
		CategoryReader
	}
)
