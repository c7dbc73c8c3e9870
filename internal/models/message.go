package models

import "time"

// RawMessage is a text message as observed from a message source, plus its
// ingestion state once stored.
type RawMessage struct {
	ID                  string        `json:"id"`
	Sender              string        `json:"sender"`
	Body                string        `json:"body"`
	ReceivedAt          time.Time     `json:"receivedAt"`
	Processed           bool          `json:"processed"`
	LinkedTransactionID string        `json:"linkedTransactionId,omitempty"`
	Status              MessageStatus `json:"status,omitempty"`
	ParseAttempts       int           `json:"parseAttempts,omitempty"`
}
