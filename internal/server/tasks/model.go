package tasks

import (
	"bytes"
	"encoding/json"
	"time"
)

// Task is stored per user and serialized as-is on the wire.
type Task struct {
	ID          int64      `json:"id"`
	UserID      int64      `json:"-"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Completed   bool       `json:"completed"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
}

// NewTask is the body of a create request.
type NewTask struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Patch is the body of an update request. Only fields present in the JSON
// are applied; "completedAt": null clears the completion time.
type Patch struct {
	Title            *string
	Description      *string
	Completed        *bool
	CompletedAt      *time.Time
	ClearCompletedAt bool
}

func (p *Patch) UnmarshalJSON(data []byte) error {
	var raw struct {
		Title       *string         `json:"title"`
		Description *string         `json:"description"`
		Completed   *bool           `json:"completed"`
		CompletedAt json.RawMessage `json:"completedAt"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*p = Patch{Title: raw.Title, Description: raw.Description, Completed: raw.Completed}
	switch {
	case len(raw.CompletedAt) == 0:
	case bytes.Equal(raw.CompletedAt, []byte("null")):
		p.ClearCompletedAt = true
	default:
		var at time.Time
		if err := json.Unmarshal(raw.CompletedAt, &at); err != nil {
			return err
		}
		p.CompletedAt = &at
	}
	return nil
}
