package amqp

import (
	"encoding/json"
	"time"
)

// MovementCreatedMessage announces a newly recorded movement. It carries
// only the id and version; consumers fetch the full row from the ledger
// store themselves.
type MovementCreatedMessage struct {
	ID        int64     `json:"id"`
	Version   int64     `json:"version"`
	Timestamp time.Time `json:"timestamp"`
}

func NewMovementCreatedMessage(id, version int64) *MovementCreatedMessage {
	return &MovementCreatedMessage{
		ID:        id,
		Version:   version,
		Timestamp: time.Now(),
	}
}

func (m *MovementCreatedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func MovementCreatedMessageFromJSON(data []byte) (*MovementCreatedMessage, error) {
	var msg MovementCreatedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
