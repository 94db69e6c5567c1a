package buffer

import (
	"time"

	"github.com/google/uuid"

	"github.com/taskforge/backend/domain"
)

// Item wraps an activity record that failed to reach primary storage and is
// waiting for replay.
type Item struct {
	ID        string          `json:"id"`
	Activity  domain.Activity `json:"activity"`
	Retries   int             `json:"retries"`
	Timestamp time.Time       `json:"timestamp"`

	bucketKey []byte
}

func (i *Item) normalize() {
	if i.ID == "" {
		i.ID = uuid.NewString()
	}
	if i.Timestamp.IsZero() {
		i.Timestamp = time.Now()
	}
}
