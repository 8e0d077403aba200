// Package domain contains core concepts of the collaboration service.
// This file defines User entities and the presence Status enum.
// No runtime, network, or UI logic should be added here.
package domain

import (
	"fmt"
	"strings"

	"collab-lab/errors"
)

// Status is the presence state advertised by a user.
type Status string

const (
	StatusOnline  Status = "ONLINE"
	StatusAway    Status = "AWAY"
	StatusBusy    Status = "BUSY"
	StatusOffline Status = "OFFLINE"
)

// ParseStatus maps a token to a Status, ignoring case.
func ParseStatus(token string) (Status, error) {
	switch Status(strings.ToUpper(strings.TrimSpace(token))) {
	case StatusOnline:
		return StatusOnline, nil
	case StatusAway:
		return StatusAway, nil
	case StatusBusy:
		return StatusBusy, nil
	case StatusOffline:
		return StatusOffline, nil
	default:
		return "", fmt.Errorf("%w: %q", errors.ErrUnknownStatus, token)
	}
}

// User represents a member of the workspace.
// The nickname is the unique key and is matched ignoring case everywhere.
type User struct {
	Nickname    string
	DisplayName string
	Status      Status
}
