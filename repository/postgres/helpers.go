package postgres

import (
	"encoding/json"
	"time"

	"github.com/taskforge/backend/domain"
)

func marshalMap(data map[string]string) []byte {
	if len(data) == 0 {
		return nil
	}
	b, err := json.Marshal(data)
	if err != nil {
		return nil
	}
	return b
}

func marshalRecurrence(r *domain.Recurrence) []byte {
	if r == nil {
		return nil
	}
	b, err := json.Marshal(r)
	if err != nil {
		return nil
	}
	return b
}

func unmarshalRecurrence(data []byte) *domain.Recurrence {
	if len(data) == 0 {
		return nil
	}
	var r domain.Recurrence
	if err := json.Unmarshal(data, &r); err != nil {
		return nil
	}
	return &r
}

func nullTime(t time.Time) interface{} {
	if t.IsZero() {
		return nil
	}
	return t
}

func nullTimePtr(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return *t
}
