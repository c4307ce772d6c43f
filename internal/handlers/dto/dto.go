package dto

import (
	"time"

	"taskHelper/internal/models/task"
)

// TimeLayout renders timestamps as ISO-8601 with milliseconds in UTC.
const TimeLayout = "2006-01-02T15:04:05.000Z07:00"

// TaskResponse is the wire form of a task. Unset optional fields are null.
type TaskResponse struct {
	ID                  int64   `json:"id"`
	Title               string  `json:"title"`
	Notes               *string `json:"notes"`
	Priority            *int    `json:"priority"`
	DueDate             *string `json:"dueDate"`
	Status              string  `json:"status"`
	EnhancedDescription any     `json:"enhancedDescription"`
	ImageURL            *string `json:"imageUrl"`
	CreatedAt           string  `json:"createdAt"`
	UpdatedAt           string  `json:"updatedAt"`
}

type ImageResponse struct {
	ImageURL string `json:"imageUrl"`
}

type DeleteResponse struct {
	Success bool `json:"success"`
}

func FromTask(t *task.Task) TaskResponse {
	return TaskResponse{
		ID:                  t.ID,
		Title:               t.Title,
		Notes:               t.Notes,
		Priority:            t.Priority,
		DueDate:             t.DueDate,
		Status:              string(t.Status),
		EnhancedDescription: enhancedDescription(t.EnhancedDescription),
		ImageURL:            t.ImageURL,
		CreatedAt:           formatTime(t.CreatedAt),
		UpdatedAt:           formatTime(t.UpdatedAt),
	}
}

func FromTaskList(tasks []*task.Task) []TaskResponse {
	result := make([]TaskResponse, len(tasks))
	for i, t := range tasks {
		result[i] = FromTask(t)
	}
	return result
}

// enhancedDescription renders a structured result as an object and a
// fallback as its raw text.
func enhancedDescription(e task.Enhancement) any {
	switch v := e.(type) {
	case task.Structured:
		return v
	case task.Fallback:
		return v.Text
	default:
		return nil
	}
}

func formatTime(t time.Time) string {
	return t.UTC().Format(TimeLayout)
}
