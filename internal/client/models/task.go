package models

import (
	"encoding/json"
	"time"
)

// Task is a single to-do item.
type Task struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Completed   bool       `json:"completed"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
}

// NewTask is the create request body.
type NewTask struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

// TaskPatch is a partial update. Nil fields are left untouched;
// ClearCompletedAt removes the completion timestamp.
type TaskPatch struct {
	Title            *string
	Description      *string
	Completed        *bool
	CompletedAt      *time.Time
	ClearCompletedAt bool
}

// MarshalJSON emits only the fields present in the patch. A cleared
// completion timestamp is sent as an explicit null.
func (p TaskPatch) MarshalJSON() ([]byte, error) {
	m := make(map[string]any, 4)
	if p.Title != nil {
		m["title"] = *p.Title
	}
	if p.Description != nil {
		m["description"] = *p.Description
	}
	if p.Completed != nil {
		m["completed"] = *p.Completed
	}
	switch {
	case p.ClearCompletedAt:
		m["completedAt"] = nil
	case p.CompletedAt != nil:
		m["completedAt"] = *p.CompletedAt
	}
	return json.Marshal(m)
}

// UnmarshalJSON is the inverse of MarshalJSON.
func (p *TaskPatch) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*p = TaskPatch{}
	if v, ok := raw["title"]; ok {
		if err := json.Unmarshal(v, &p.Title); err != nil {
			return err
		}
	}
	if v, ok := raw["description"]; ok {
		if err := json.Unmarshal(v, &p.Description); err != nil {
			return err
		}
	}
	if v, ok := raw["completed"]; ok {
		if err := json.Unmarshal(v, &p.Completed); err != nil {
			return err
		}
	}
	if v, ok := raw["completedAt"]; ok {
		if string(v) == "null" {
			p.ClearCompletedAt = true
		} else if err := json.Unmarshal(v, &p.CompletedAt); err != nil {
			return err
		}
	}
	return nil
}

// Apply merges the patch over t and stamps UpdatedAt with now.
func (p TaskPatch) Apply(t Task, now time.Time) Task {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.Completed != nil {
		t.Completed = *p.Completed
	}
	switch {
	case p.ClearCompletedAt:
		t.CompletedAt = nil
	case p.CompletedAt != nil:
		at := *p.CompletedAt
		t.CompletedAt = &at
	}
	t.UpdatedAt = now
	return t
}

// Counts summarizes a task collection.
type Counts struct {
	Total     int `json:"total"`
	Completed int `json:"completed"`
	Pending   int `json:"pending"`
}

// CountTasks computes Counts over tasks.
func CountTasks(tasks []Task) Counts {
	c := Counts{Total: len(tasks)}
	for _, t := range tasks {
		if t.Completed {
			c.Completed++
		}
	}
	c.Pending = c.Total - c.Completed
	return c
}

// FilterTasks returns the tasks whose Completed flag equals completed,
// preserving order.
func FilterTasks(tasks []Task, completed bool) []Task {
	out := make([]Task, 0, len(tasks))
	for _, t := range tasks {
		if t.Completed == completed {
			out = append(out, t)
		}
	}
	return out
}
