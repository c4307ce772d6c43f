package handlers

import (
	"context"

	"taskHelper/internal/models/task"
)

type TaskService interface {
	HealthCheck(ctx context.Context) error
	Create(ctx context.Context, input task.CreateInput) (*task.Task, error)
	Get(ctx context.Context, id int64) (*task.Task, error)
	List(ctx context.Context) ([]*task.Task, error)
	Update(ctx context.Context, id int64, patch task.Patch) (*task.Task, error)
	Delete(ctx context.Context, id int64) error
}

type Enhancer interface {
	Enhance(ctx context.Context, id int64) (task.Enhancement, error)
}

type ImageService interface {
	GenerateImage(ctx context.Context, id int64) (string, error)
}
