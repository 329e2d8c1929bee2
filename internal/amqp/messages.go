package amqp

import (
	"encoding/json"
	"time"
)

const (
	EventCreated = "transaction.created"
	EventDeleted = "transaction.deleted"
)

// TransactionEvent notifies external consumers about a ledger mutation.
// Deleted events carry only the ID; the record no longer exists.
type TransactionEvent struct {
	Event     string    `json:"event"`
	ID        string    `json:"id"`
	Name      string    `json:"name,omitempty"`
	Amount    int64     `json:"amount,omitempty"`
	Type      string    `json:"type,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

func NewCreatedEvent(id, name string, amount int64, txType string) *TransactionEvent {
	return &TransactionEvent{
		Event:     EventCreated,
		ID:        id,
		Name:      name,
		Amount:    amount,
		Type:      txType,
		Timestamp: time.Now(),
	}
}

func NewDeletedEvent(id string) *TransactionEvent {
	return &TransactionEvent{
		Event:     EventDeleted,
		ID:        id,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the event to JSON bytes
func (m *TransactionEvent) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// EventFromJSON creates an event from JSON bytes
func EventFromJSON(data []byte) (*TransactionEvent, error) {
	var msg TransactionEvent
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
