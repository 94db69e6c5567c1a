package domain

import "time"

// Session is the server-side record behind an access token. Stored in Redis
// under a TTL that tracks ExpiresAt.
type Session struct {
	ID          string            `json:"id"`
	UserID      string            `json:"user_id"`
	ExpiresAt   time.Time         `json:"expires_at"`
	CreatedAt   time.Time         `json:"created_at"`
	RefreshedAt *time.Time        `json:"refreshed_at,omitempty"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}

func (s *Session) IsExpired(reference time.Time) bool {
	if s == nil {
		return true
	}
	if reference.IsZero() {
		reference = time.Now()
	}
	return !s.ExpiresAt.After(reference)
}
