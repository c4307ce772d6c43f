package service

import (
	"context"
	"errors"
	"fmt"

	"taskHelper/internal/logger"
	"taskHelper/internal/models/task"
	rep "taskHelper/internal/repository"

	"go.uber.org/zap"
)

type TaskService struct {
	repo TaskRepository
	opts options
}

func NewTaskService(repo TaskRepository, opts ...Option) *TaskService {
	return &TaskService{
		repo: repo,
		opts: buildOptions(opts),
	}
}

func (s *TaskService) HealthCheck(ctx context.Context) error {
	if err := s.repo.HealthCheck(ctx); err != nil {
		return fmt.Errorf("health check: %w", err)
	}
	return nil
}

// Create stamps status open and equal created/updated times, then inserts.
func (s *TaskService) Create(ctx context.Context, input task.CreateInput) (*task.Task, error) {
	now := s.opts.stamp()
	newTask := &task.Task{
		Title:     input.Title,
		Notes:     input.Notes,
		Priority:  input.Priority,
		DueDate:   input.DueDate,
		Status:    task.StatusOpen,
		CreatedAt: now,
		UpdatedAt: now,
	}

	id, err := s.repo.Create(ctx, newTask)
	if err != nil {
		logger.Error("Service: failed to create task", err)
		return nil, NewCreateFailed(err)
	}
	if id <= 0 {
		logger.Error("Service: store returned no id", nil, zap.Int64("task_id", id))
		return nil, NewCreateFailed(errors.New("store returned no id"))
	}

	newTask.ID = id
	logger.Info("Service: task created", zap.Int64("task_id", id))
	return newTask, nil
}

func (s *TaskService) Get(ctx context.Context, id int64) (*task.Task, error) {
	found, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, rep.ErrNotFound) {
			logger.Info("Service: task not found", zap.Int64("task_id", id))
			return nil, NewNotFound(id)
		}
		return nil, NewStoreFault("get", err)
	}
	return found, nil
}

func (s *TaskService) List(ctx context.Context) ([]*task.Task, error) {
	tasks, err := s.repo.List(ctx)
	if err != nil {
		return nil, NewStoreFault("list", err)
	}
	return tasks, nil
}

// Update writes the patch without checking that the task exists, then
// re-reads it. A missing task surfaces as NOT_FOUND from the re-read.
func (s *TaskService) Update(ctx context.Context, id int64, patch task.Patch) (*task.Task, error) {
	if patch.IsEmpty() {
		return nil, NewNoFieldsError()
	}
	patch.UpdatedAt = s.opts.stamp()

	if err := s.repo.UpdateFields(ctx, id, patch); err != nil {
		logger.Error("Service: failed to update task", err, zap.Int64("task_id", id))
		return nil, NewStoreFault("update", err)
	}

	logger.Info("Service: task updated", zap.Int64("task_id", id), zap.Strings("fields", patch.Fields()))
	return s.Get(ctx, id)
}

// Delete succeeds whether or not the task existed.
func (s *TaskService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		logger.Error("Service: failed to delete task", err, zap.Int64("task_id", id))
		return NewStoreFault("delete", err)
	}
	logger.Info("Service: task deleted", zap.Int64("task_id", id))
	return nil
}
