package transport

// RecurrencePayload mirrors domain.Recurrence on the wire.
type RecurrencePayload struct {
	Enabled  bool   `json:"enabled"`
	Pattern  string `json:"pattern"`
	Interval int    `json:"interval"`
	EndDate  string `json:"end_date"`
}

type TaskCreateRequest struct {
	Title       string             `json:"title"`
	Description string             `json:"description"`
	Priority    string             `json:"priority"`
	DueDate     string             `json:"due_date"`
	Category    string             `json:"category"`
	Tags        []string           `json:"tags"`
	Recurrence  *RecurrencePayload `json:"recurrence"`
}

// TaskUpdateRequest uses pointers so absent fields stay untouched.
type TaskUpdateRequest struct {
	Title       *string            `json:"title"`
	Description *string            `json:"description"`
	Priority    *string            `json:"priority"`
	DueDate     *string            `json:"due_date"`
	Category    *string            `json:"category"`
	Tags        []string           `json:"tags"`
	Recurrence  *RecurrencePayload `json:"recurrence"`
}

type StatusUpdateRequest struct {
	Status string `json:"status"`
}

type DependencyRequest struct {
	DependencyID string `json:"dependency_id"`
}

type ProfileUpdateRequest struct {
	Email    string            `json:"email"`
	Name     string            `json:"name"`
	Role     string            `json:"role"`
	Status   string            `json:"status"`
	Timezone string            `json:"timezone"`
	Metadata map[string]string `json:"metadata"`
}

type AuthLoginRequest struct {
	UserID string `json:"user_id"`
	TTL    int    `json:"ttl_seconds"`
}

type RefreshRequest struct {
	SessionID string `json:"session_id"`
	TTL       int    `json:"ttl_seconds"`
}
