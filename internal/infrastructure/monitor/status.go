package monitor

import "time"

// Status is the point-in-time health snapshot served by the health endpoint.
// PendingActivities is the number of audit entries parked in the local
// buffer awaiting replay.
type Status struct {
	PostgreSQL        bool      `json:"postgresql"`
	Redis             bool      `json:"redis"`
	ActivityBuffer    bool      `json:"activity_buffer"`
	PendingActivities int       `json:"pending_activities"`
	LastCheck         time.Time `json:"last_check"`
}
