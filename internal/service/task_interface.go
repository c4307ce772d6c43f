package service

import (
	"context"

	"taskHelper/internal/models/task"
)

// TaskRepository is the store boundary. GetByID returns
// repository.ErrNotFound for a missing id; UpdateFields and Delete do not
// report missing ids.
type TaskRepository interface {
	HealthCheck(ctx context.Context) error
	Create(ctx context.Context, t *task.Task) (int64, error)
	GetByID(ctx context.Context, id int64) (*task.Task, error)
	List(ctx context.Context) ([]*task.Task, error)
	UpdateFields(ctx context.Context, id int64, patch task.Patch) error
	Delete(ctx context.Context, id int64) error
}
