package domain

import "time"

// User is the owner identity behind every task. Timezone feeds due-date
// presentation on the client; the server always stores UTC.
type User struct {
	ID        string            `json:"id"`
	Email     string            `json:"email,omitempty"`
	Name      string            `json:"name,omitempty"`
	Role      string            `json:"role"`
	Status    string            `json:"status"`
	Timezone  string            `json:"timezone,omitempty"`
	Metadata  map[string]string `json:"metadata,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

func (u *User) IsActive() bool {
	return u != nil && u.Status == "active"
}
