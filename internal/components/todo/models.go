package todo

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Valid reports whether p is one of the known priorities. The empty priority
// is valid and means "unset".
func (p Priority) Valid() bool {
	switch p {
	case "", PriorityHigh, PriorityMedium, PriorityLow:
		return true
	}
	return false
}

type (
	Todo struct {
		ID          string     `json:"id"`
		Title       string     `json:"title"`
		Description string     `json:"description,omitempty"`
		DueDate     *time.Time `json:"due_date,omitempty"`
		Priority    Priority   `json:"priority,omitempty"`
		Completed   bool       `json:"completed"`
		CreatedBy   string     `json:"created_by"`
		CreatedAt   time.Time  `json:"created_at"`
		UpdatedAt   time.Time  `json:"updated_at"`
	}

	CreateTodoIn struct {
		Title       string   `json:"title"`
		Description string   `json:"description"`
		DueDate     *DueDate `json:"due_date"`
		Priority    Priority `json:"priority"`
	}

	// UpdateTodoIn carries the fields present in an update body. Nil fields
	// keep their stored values; the owner is not updatable. An explicit
	// "due_date": null clears the due date.
	UpdateTodoIn struct {
		Title       *string         `json:"title,omitempty"`
		Description *string         `json:"description,omitempty"`
		DueDate     NullableDueDate `json:"due_date"`
		Priority    *Priority       `json:"priority,omitempty"`
		Completed   *bool           `json:"completed,omitempty"`
	}
)

func (u UpdateTodoIn) empty() bool {
	return u.Title == nil && u.Description == nil && !u.DueDate.Set && u.Priority == nil && u.Completed == nil
}

// DueDate accepts either an RFC 3339 timestamp or a plain YYYY-MM-DD date.
type DueDate struct {
	time.Time
}

var dueDateLayouts = []string{time.RFC3339Nano, time.DateOnly}

func (d *DueDate) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		return nil
	}

	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("due_date: %w", err)
	}
	for _, layout := range dueDateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			d.Time = t.UTC()
			return nil
		}
	}
	return fmt.Errorf("due_date: unrecognized date %q", raw)
}

// NullableDueDate records whether due_date was present in a body at all.
// Set with a nil Value means an explicit null.
type NullableDueDate struct {
	Set   bool
	Value *DueDate
}

func (n *NullableDueDate) UnmarshalJSON(data []byte) error {
	n.Set = true
	if bytes.Equal(data, []byte("null")) {
		n.Value = nil
		return nil
	}

	var d DueDate
	if err := d.UnmarshalJSON(data); err != nil {
		return err
	}
	n.Value = &d
	return nil
}

func (d *DueDate) ptr() *time.Time {
	if d == nil {
		return nil
	}
	t := d.Time
	return &t
}
