package queue

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// MessageVersion is the payload version written by NewJob.
const MessageVersion = 1

// Message asks a worker to run one spreadsheet ingestion batch.
type Message struct {
	JobID      string `json:"jobId"`
	RequestID  string `json:"requestId"`
	EnqueuedAt string `json:"enqueuedAt"`
	Version    int    `json:"version"`
}

// NewJob builds a message with a fresh job ID.
func NewJob(requestID string, now time.Time) Message {
	return Message{
		JobID:      uuid.NewString(),
		RequestID:  requestID,
		EnqueuedAt: now.UTC().Format(time.RFC3339),
		Version:    MessageVersion,
	}
}

// EncodeMessage returns the JSON representation of a message.
func EncodeMessage(msg Message) ([]byte, error) {
	return json.Marshal(msg)
}

// DecodeMessage parses a JSON payload into a Message.
func DecodeMessage(payload []byte) (Message, error) {
	var msg Message
	if err := json.Unmarshal(payload, &msg); err != nil {
		return Message{}, err
	}
	return msg, nil
}
