package service

import "time"

// EventFilter supports audit history filtering by owner, time range and type.
type EventFilter struct {
	UserID int       // 0 means every user
	From   time.Time // inclusive; zero means no lower bound
	To     time.Time // inclusive; zero means no upper bound
	Type   string    // "", "REGISTER", "LOGIN", "LOGIN_FAILED"
}
