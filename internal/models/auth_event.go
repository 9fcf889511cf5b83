package models

import "time"

// Audit event types.
const (
	EventRegister    = "REGISTER"
	EventLogin       = "LOGIN"
	EventLoginFailed = "LOGIN_FAILED"
)

// AuthEvent is a single audit trail entry.
type AuthEvent struct {
	EventID     string    `json:"event_id"`
	OccurredAt  time.Time `json:"occurred_at"`
	Type        string    `json:"type"`              // REGISTER | LOGIN | LOGIN_FAILED
	UserID      int       `json:"user_id,omitempty"` // 0 when the username did not resolve
	Username    string    `json:"username"`
	Description string    `json:"description"`
	Metadata    any       `json:"metadata,omitempty"`
}
