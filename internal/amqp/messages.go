package amqp

import (
	"encoding/json"
	"time"
)

// Record kinds carried on the sync queue.
const (
	KindDayLog    = "day_log"
	KindSpendItem = "spend_item"
)

// Operations carried on the sync queue.
const (
	OpUpsert = "upsert"
	OpDelete = "delete"
)

// RecordSyncMessage is the lightweight envelope published after every local
// write. It carries only the row id; the worker fetches the full record from
// the database, so a stale message never overwrites newer data.
type RecordSyncMessage struct {
	Kind      string    `json:"kind"`
	Op        string    `json:"op"`
	ID        int64     `json:"id"`
	Version   int64     `json:"version"`
	Timestamp time.Time `json:"timestamp"`
}

func NewDayLogSyncMessage(id, version int64) *RecordSyncMessage {
	return &RecordSyncMessage{
		Kind:      KindDayLog,
		Op:        OpUpsert,
		ID:        id,
		Version:   version,
		Timestamp: time.Now(),
	}
}

func NewSpendItemSyncMessage(id int64) *RecordSyncMessage {
	return &RecordSyncMessage{
		Kind:      KindSpendItem,
		Op:        OpUpsert,
		ID:        id,
		Version:   1,
		Timestamp: time.Now(),
	}
}

func NewSpendItemDeleteMessage(id int64) *RecordSyncMessage {
	return &RecordSyncMessage{
		Kind:      KindSpendItem,
		Op:        OpDelete,
		ID:        id,
		Timestamp: time.Now(),
	}
}

func (m *RecordSyncMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func RecordSyncMessageFromJSON(data []byte) (*RecordSyncMessage, error) {
	var msg RecordSyncMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
