package amqp

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"

	"fintrack/internal/core"
)

// EventType names a ledger change
type EventType string

const (
	EventTransactionAdded   EventType = "transaction.added"
	EventTransactionRemoved EventType = "transaction.removed"
)

// TransactionEvent describes one ledger change. It is a notification only;
// nothing reads it back into a ledger.
type TransactionEvent struct {
	Type      EventType       `json:"type"`
	ID        string          `json:"id"`
	Category  string          `json:"category"`
	Amount    decimal.Decimal `json:"amount"`
	Kind      string          `json:"kind"`
	Date      string          `json:"date"`
	Timestamp time.Time       `json:"timestamp"`
}

// NewTransactionEvent creates an event for t stamped with the current time
func NewTransactionEvent(eventType EventType, t core.Transaction) *TransactionEvent {
	return &TransactionEvent{
		Type:      eventType,
		ID:        t.ID.String(),
		Category:  t.Category,
		Amount:    t.Amount,
		Kind:      t.Kind.String(),
		Date:      t.Date,
		Timestamp: time.Now().UTC(),
	}
}

// ToJSON converts the event to JSON bytes
func (e *TransactionEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}
