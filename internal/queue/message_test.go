package queue

import (
	"reflect"
	"testing"
	"time"
)

func TestMessageRoundTrip(t *testing.T) {
	msg := Message{
		JobID:      "job-123",
		RequestID:  "request-456",
		EnqueuedAt: "2026-01-30T22:00:00Z",
		Version:    1,
	}

	payload, err := EncodeMessage(msg)
	if err != nil {
		t.Fatalf("encode message: %v", err)
	}

	got, err := DecodeMessage(payload)
	if err != nil {
		t.Fatalf("decode message: %v", err)
	}

	if !reflect.DeepEqual(got, msg) {
		t.Fatalf("round trip mismatch: got %+v want %+v", got, msg)
	}
}

func TestNewJob(t *testing.T) {
	now := time.Date(2026, time.March, 2, 9, 30, 0, 0, time.FixedZone("IST", 19800))
	msg := NewJob("req-1", now)
	if msg.JobID == "" {
		t.Fatalf("expected job id")
	}
	if msg.EnqueuedAt != "2026-03-02T04:00:00Z" {
		t.Fatalf("unexpected enqueuedAt: %s", msg.EnqueuedAt)
	}
	if msg.Version != MessageVersion || msg.RequestID != "req-1" {
		t.Fatalf("unexpected message: %+v", msg)
	}
	if other := NewJob("req-1", now); other.JobID == msg.JobID {
		t.Fatalf("job ids must differ")
	}
}

func TestDecodeMessageRejectsGarbage(t *testing.T) {
	if _, err := DecodeMessage([]byte("{not json")); err == nil {
		t.Fatalf("expected decode error")
	}
}
