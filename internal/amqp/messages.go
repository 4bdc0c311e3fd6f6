package amqp

import (
	"encoding/json"
	"time"
)

const (
	KindTransactionCreated = "transaction_created"
	KindTransactionDeleted = "transaction_deleted"
	KindGroupCreated       = "group_created"
	KindGroupDeleted       = "group_deleted"
)

// LedgerEvent is a lightweight notification that the ledger changed. It
// carries only identifiers; the sync worker fetches full rows from the
// database.
type LedgerEvent struct {
	Kind      string    `json:"kind"`
	ID        string    `json:"id,omitempty"`
	GroupID   string    `json:"group_id,omitempty"`
	Count     int       `json:"count,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

func NewTransactionEvent(kind, id string) *LedgerEvent {
	return &LedgerEvent{Kind: kind, ID: id, Timestamp: time.Now()}
}

func NewGroupEvent(kind, groupID string, count int) *LedgerEvent {
	return &LedgerEvent{Kind: kind, GroupID: groupID, Count: count, Timestamp: time.Now()}
}

func (e *LedgerEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

func LedgerEventFromJSON(data []byte) (*LedgerEvent, error) {
	var e LedgerEvent
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, err
	}
	return &e, nil
}
