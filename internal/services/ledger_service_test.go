package services

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fintrack/internal/core"
	"fintrack/internal/ledger"
	applog "fintrack/internal/log"
)

type fakePublisher struct {
	mu      sync.Mutex
	added   []core.Transaction
	removed []core.Transaction
	err     error
	closed  bool
}

func (f *fakePublisher) PublishTransactionAdded(ctx context.Context, t core.Transaction) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.added = append(f.added, t)
	return f.err
}

func (f *fakePublisher) PublishTransactionRemoved(ctx context.Context, t core.Transaction) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.removed = append(f.removed, t)
	return f.err
}

func (f *fakePublisher) Close() error {
	f.closed = true
	return nil
}

func newTestService(t *testing.T, pub EventPublisher) (*LedgerService, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	logger := applog.New(applog.Config{Level: slog.LevelDebug, Output: &buf})
	return NewLedgerService(ledger.New(), pub, logger), &buf
}

func TestAddTransaction_Success(t *testing.T) {
	pub := &fakePublisher{}
	svc, logs := newTestService(t, pub)
	ctx := context.Background()

	tx, err := svc.AddTransaction(ctx, core.TransactionInput{Category: "Salary", Amount: "1500", Date: "2024-01-01", Kind: "Income"})
	require.NoError(t, err)
	assert.Equal(t, core.Income, tx.Kind)
	assert.Equal(t, 1, svc.Len())

	require.Len(t, pub.added, 1)
	assert.Equal(t, tx, pub.added[0])
	assert.Contains(t, logs.String(), "Transaction added")
	assert.Contains(t, logs.String(), "category=Salary")
}

func TestAddTransaction_DefaultsToIncome(t *testing.T) {
	svc, _ := newTestService(t, nil)

	tx, err := svc.AddTransaction(context.Background(), core.TransactionInput{Category: "Gift", Amount: "20", Date: "today"})
	require.NoError(t, err)
	assert.Equal(t, core.Income, tx.Kind)
}

func TestAddTransaction_Rejected(t *testing.T) {
	pub := &fakePublisher{}
	svc, logs := newTestService(t, pub)
	ctx := context.Background()

	inputs := []core.TransactionInput{
		{Category: "", Amount: "1", Date: "d"},
		{Category: "c", Amount: "x", Date: "d"},
		{Category: "c", Amount: "1", Date: ""},
		{Category: "c", Amount: "1", Date: "d", Kind: "Refund"},
	}
	for _, in := range inputs {
		_, err := svc.AddTransaction(ctx, in)
		require.Error(t, err)
		assert.ErrorIs(t, err, core.ErrValidation)
	}

	assert.Equal(t, 0, svc.Len())
	assert.Empty(t, pub.added)
	assert.Contains(t, logs.String(), "error_type=validation_error")
}

func TestRemove(t *testing.T) {
	pub := &fakePublisher{}
	svc, _ := newTestService(t, pub)
	ctx := context.Background()

	a, err := svc.AddTransaction(ctx, core.TransactionInput{Category: "a", Amount: "1", Date: "d"})
	require.NoError(t, err)
	b, err := svc.AddTransaction(ctx, core.TransactionInput{Category: "b", Amount: "2", Date: "d", Kind: "Expense"})
	require.NoError(t, err)

	removed, err := svc.RemoveAt(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, a, removed)

	removed, err = svc.RemoveByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, b, removed)

	assert.Equal(t, 0, svc.Len())
	assert.Equal(t, []core.Transaction{a, b}, pub.removed)
}

func TestRemove_NotFound(t *testing.T) {
	pub := &fakePublisher{}
	svc, logs := newTestService(t, pub)
	ctx := context.Background()

	_, err := svc.RemoveAt(ctx, ledger.NoSelection)
	assert.ErrorIs(t, err, core.ErrNoSelection)

	_, err = svc.RemoveAt(ctx, 3)
	assert.ErrorIs(t, err, core.ErrNotFound)

	_, err = svc.RemoveByID(ctx, uuid.Must(uuid.NewV4()))
	assert.ErrorIs(t, err, core.ErrUnknownID)

	assert.Empty(t, pub.removed)
	assert.Contains(t, logs.String(), "error_type=not_found_error")
}

func TestPublishFailureDoesNotFailMutation(t *testing.T) {
	pub := &fakePublisher{err: errors.New("broker down")}
	svc, logs := newTestService(t, pub)

	_, err := svc.AddTransaction(context.Background(), core.TransactionInput{Category: "a", Amount: "1", Date: "d"})
	require.NoError(t, err)
	assert.Equal(t, 1, svc.Len())
	assert.Contains(t, logs.String(), "Failed to publish ledger event")
	assert.Contains(t, logs.String(), "broker down")
}

func TestQueries(t *testing.T) {
	svc, _ := newTestService(t, nil)
	ctx := context.Background()

	for _, in := range []core.TransactionInput{
		{Category: "Salary", Amount: "1500", Date: "2024-01-01", Kind: "Income"},
		{Category: "Groceries", Amount: "60.5", Date: "2024-01-03", Kind: "Expense"},
		{Category: "Groceries", Amount: "20", Date: "2024-01-04", Kind: "Expense"},
	} {
		_, err := svc.AddTransaction(ctx, in)
		require.NoError(t, err)
	}

	summary, err := svc.Summary(ctx)
	require.NoError(t, err)
	assert.True(t, summary.Equal(core.NewSummary(decimal.NewFromInt(1500), decimal.RequireFromString("80.5"))))

	cats, err := svc.Categories(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Groceries", "Salary"}, cats)

	list, err := svc.ListTransactions(ctx, "Groceries")
	require.NoError(t, err)
	assert.Len(t, list, 2)

	list, err = svc.ListTransactions(ctx, "")
	require.NoError(t, err)
	assert.Len(t, list, 3)
}

func TestConcurrentEventsAreSerialized(t *testing.T) {
	svc, _ := newTestService(t, nil)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = svc.AddTransaction(ctx, core.TransactionInput{Category: "c", Amount: "1", Date: "d"})
			_, _ = svc.Summary(ctx)
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, svc.Len())
	summary, _ := svc.Summary(ctx)
	assert.True(t, summary.Income.Equal(decimal.NewFromInt(50)))
}

func TestClose(t *testing.T) {
	pub := &fakePublisher{}
	svc, _ := newTestService(t, pub)
	require.NoError(t, svc.Close())
	assert.True(t, pub.closed)

	svc, _ = newTestService(t, nil)
	assert.NoError(t, svc.Close())
}
