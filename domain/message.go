// Package domain contains core concepts of the collaboration service.
// This file defines Message events and related rules.
// Messages are immutable once posted.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Message represents an immutable chat event. Sender and Destination are
// held by key and resolved against the store when rendered, so they never
// carry stale copies of the referenced entities.
type Message struct {
	ID          uuid.UUID // unique identifier
	Sender      string    // sender nickname
	Destination Destination
	Contents    string
	Lang        string // ISO 639-1 code detected at ingestion, may be empty
	CreatedAt   time.Time
}
