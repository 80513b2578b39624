package types

import "time"

// TokenInfo is what a verified bearer token tells us about the caller.
type TokenInfo struct {
	UserID    int
	IssuedAt  time.Time
	ExpiresAt time.Time
}
