package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/gofrs/uuid/v5"

	"fintrack/internal/core"
	"fintrack/internal/ledger"
	applog "fintrack/internal/log"
)

// EventPublisher receives ledger changes after they are applied
type EventPublisher interface {
	PublishTransactionAdded(ctx context.Context, t core.Transaction) error
	PublishTransactionRemoved(ctx context.Context, t core.Transaction) error
	Close() error
}

// LedgerService is the controller between a presentation layer and its
// ledger. It owns the ledger instance and feeds it one event at a time.
type LedgerService struct {
	mu        sync.Mutex
	ledger    *ledger.Ledger
	publisher EventPublisher
	logger    *applog.Logger
	events    *applog.StructuredLogger
}

// NewLedgerService wraps l. publisher and logger may be nil.
func NewLedgerService(l *ledger.Ledger, publisher EventPublisher, logger *applog.Logger) *LedgerService {
	if l == nil {
		l = ledger.New()
	}
	if logger == nil {
		logger = applog.Discard()
	}
	logger = logger.WithComponent(applog.ComponentLedger)
	return &LedgerService{
		ledger:    l,
		publisher: publisher,
		logger:    logger,
		events:    applog.NewStructuredLogger(logger),
	}
}

// AddTransaction resolves the kind, then validates and appends the input.
func (s *LedgerService) AddTransaction(ctx context.Context, in core.TransactionInput) (core.Transaction, error) {
	kind, err := core.ParseKind(in.Kind)
	if err != nil {
		s.events.LogWarn(ctx, "Transaction rejected", err, applog.ComponentLedger, applog.OpAdd, applog.ErrorTypeValidation)
		return core.Transaction{}, fmt.Errorf("add transaction: %w", err)
	}

	s.mu.Lock()
	t, err := s.ledger.Add(in.Category, in.Amount, in.Date, kind)
	size := s.ledger.Len()
	s.mu.Unlock()

	if err != nil {
		s.events.LogWarn(ctx, "Transaction rejected", err, applog.ComponentLedger, applog.OpAdd, errorType(err))
		return core.Transaction{}, fmt.Errorf("add transaction: %w", err)
	}

	s.events.LogTransactionAdded(ctx, t.ID.String(), t.Category, t.Amount.String(), t.Kind.String(), t.Date, size)
	s.publish(ctx, t, true)
	return t, nil
}

// RemoveAt deletes the transaction at index in the full, unfiltered list.
func (s *LedgerService) RemoveAt(ctx context.Context, index int) (core.Transaction, error) {
	s.mu.Lock()
	t, err := s.ledger.Remove(index)
	size := s.ledger.Len()
	s.mu.Unlock()

	return s.afterRemove(ctx, t, err, size)
}

// RemoveByID deletes the transaction carrying id.
func (s *LedgerService) RemoveByID(ctx context.Context, id uuid.UUID) (core.Transaction, error) {
	s.mu.Lock()
	t, err := s.ledger.RemoveByID(id)
	size := s.ledger.Len()
	s.mu.Unlock()

	return s.afterRemove(ctx, t, err, size)
}

func (s *LedgerService) afterRemove(ctx context.Context, t core.Transaction, err error, size int) (core.Transaction, error) {
	if err != nil {
		s.events.LogWarn(ctx, "Transaction not removed", err, applog.ComponentLedger, applog.OpRemove, errorType(err))
		return core.Transaction{}, fmt.Errorf("remove transaction: %w", err)
	}

	s.events.LogTransactionRemoved(ctx, t.ID.String(), t.Category, t.Amount.String(), t.Kind.String(), t.Date, size)
	s.publish(ctx, t, false)
	return t, nil
}

// ListTransactions returns the transactions of category, or all of them.
func (s *LedgerService) ListTransactions(ctx context.Context, category string) ([]core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ledger.FilterByCategory(category), nil
}

// Summary returns the current totals.
func (s *LedgerService) Summary(ctx context.Context) (core.Summary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ledger.Summary(), nil
}

// Categories returns the categories in use, sorted for display.
func (s *LedgerService) Categories(ctx context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ledger.SortedCategories(), nil
}

// Len returns the number of transactions.
func (s *LedgerService) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ledger.Len()
}

// publish never fails the mutation: the ledger change already happened.
func (s *LedgerService) publish(ctx context.Context, t core.Transaction, added bool) {
	if s.publisher == nil {
		return
	}

	var err error
	if added {
		err = s.publisher.PublishTransactionAdded(ctx, t)
	} else {
		err = s.publisher.PublishTransactionRemoved(ctx, t)
	}
	if err != nil {
		s.events.LogError(ctx, "Failed to publish ledger event", err, applog.ComponentAMQP, applog.OpPublish,
			applog.NewFields().WithTransaction(t.ID.String(), t.Category, t.Amount.String(), t.Kind.String(), t.Date))
	}
}

// Close releases the event publisher
func (s *LedgerService) Close() error {
	if s.publisher == nil {
		return nil
	}
	if err := s.publisher.Close(); err != nil {
		return fmt.Errorf("close publisher: %w", err)
	}
	return nil
}

func errorType(err error) string {
	switch {
	case errors.Is(err, core.ErrValidation):
		return applog.ErrorTypeValidation
	case errors.Is(err, core.ErrNotFound):
		return applog.ErrorTypeNotFound
	default:
		return applog.ErrorTypeInternal
	}
}
