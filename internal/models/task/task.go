package task

import (
	"time"
)

type Task struct {
	ID                  int64
	Title               string
	Notes               *string
	Priority            *int
	DueDate             *string
	Status              Status
	EnhancedDescription Enhancement
	ImageURL            *string
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

type Status string

const StatusOpen Status = "open"
const StatusDone Status = "done"

func (s Status) Valid() bool {
	return s == StatusOpen || s == StatusDone
}

const (
	PriorityHigh   = 1
	PriorityMedium = 2
	PriorityLow    = 3
)

// CreateInput is a validated creation payload.
type CreateInput struct {
	Title    string
	Notes    *string
	Priority *int
	DueDate  *string
}

// Clone returns a deep copy so stores never hand out shared pointers.
func (t *Task) Clone() *Task {
	if t == nil {
		return nil
	}
	c := *t
	c.Notes = clonePtr(t.Notes)
	c.Priority = clonePtr(t.Priority)
	c.DueDate = clonePtr(t.DueDate)
	c.ImageURL = clonePtr(t.ImageURL)
	if s, ok := t.EnhancedDescription.(Structured); ok {
		c.EnhancedDescription = s.clone()
	}
	return &c
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
