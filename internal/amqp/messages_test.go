package amqp

import (
	"testing"
	"time"
)

func TestTransactionSyncMessageRoundTrip(t *testing.T) {
	msg := NewTransactionSyncMessage(42)
	if msg.ID != 42 {
		t.Fatalf("ID = %d", msg.ID)
	}
	if msg.Timestamp.IsZero() {
		t.Fatal("timestamp not set")
	}

	data, err := msg.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON: %v", err)
	}

	decoded, err := TransactionSyncMessageFromJSON(data)
	if err != nil {
		t.Fatalf("FromJSON: %v", err)
	}
	if decoded.ID != msg.ID {
		t.Fatalf("ID round trip: %d != %d", decoded.ID, msg.ID)
	}
	if !decoded.Timestamp.Equal(msg.Timestamp.Truncate(time.Nanosecond)) {
		t.Fatalf("timestamp round trip: %v != %v", decoded.Timestamp, msg.Timestamp)
	}
}

func TestTransactionSyncMessageFromJSONRejectsGarbage(t *testing.T) {
	if _, err := TransactionSyncMessageFromJSON([]byte("not json")); err == nil {
		t.Fatal("expected error")
	}
}
