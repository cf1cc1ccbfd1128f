package amqp

import (
	"testing"
	"time"
)

func TestMovementCreatedMessageRoundTrip(t *testing.T) {
	msg := NewMovementCreatedMessage(42, 1)
	if msg.Timestamp.IsZero() {
		t.Fatal("expected timestamp to be set")
	}

	body, err := msg.ToJSON()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	decoded, err := MovementCreatedMessageFromJSON(body)
	if err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded.ID != 42 || decoded.Version != 1 {
		t.Fatalf("unexpected message: %+v", decoded)
	}
	if !decoded.Timestamp.Truncate(time.Millisecond).Equal(msg.Timestamp.Truncate(time.Millisecond)) {
		t.Fatalf("timestamp drift: %v vs %v", decoded.Timestamp, msg.Timestamp)
	}
}

func TestMovementCreatedMessageFromJSONRejectsGarbage(t *testing.T) {
	if _, err := MovementCreatedMessageFromJSON([]byte("not json")); err == nil {
		t.Fatal("expected error for invalid payload")
	}
}
