package domain

import (
	"strings"
	"time"
)

// CommandRecord is one line a visitor submitted to the terminal.
type CommandRecord struct {
	VisitorID  string    `json:"-"`
	SessionID  string    `json:"session_id"`
	Raw        string    `json:"raw"`
	Normalized string    `json:"normalized"`
	CreatedAt  time.Time `json:"created_at"`
}

// NormalizeCommand trims and lower-cases terminal input before matching.
func NormalizeCommand(input string) string {
	return strings.ToLower(strings.TrimSpace(input))
}

// NewCommandRecord builds a record for raw input, normalizing it.
func NewCommandRecord(visitorID, sessionID, raw string, at time.Time) CommandRecord {
	return CommandRecord{
		VisitorID:  visitorID,
		SessionID:  sessionID,
		Raw:        raw,
		Normalized: NormalizeCommand(raw),
		CreatedAt:  at,
	}
}
