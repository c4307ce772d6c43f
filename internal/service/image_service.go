package service

import (
	"context"

	"taskHelper/internal/enhance"
	"taskHelper/internal/logger"
	"taskHelper/internal/models/task"
	"taskHelper/internal/provider"

	"go.uber.org/zap"
)

type ImageService struct {
	tasks     *TaskService
	generator provider.ImageGenerator
	opts      options
}

func NewImageService(repo TaskRepository, generator provider.ImageGenerator, opts ...Option) *ImageService {
	return &ImageService{
		tasks:     NewTaskService(repo, opts...),
		generator: generator,
		opts:      buildOptions(opts),
	}
}

// GenerateImage stores and returns an image URL for the task.
func (s *ImageService) GenerateImage(ctx context.Context, id int64) (string, error) {
	target, err := s.tasks.Get(ctx, id)
	if err != nil {
		return "", err
	}

	url, err := s.generator.Generate(ctx, id, enhance.ImagePrompt(target.Title))
	if err != nil {
		logger.Error("Service: image generation failed", err, zap.Int64("task_id", id))
		imagesTotal.WithLabelValues(outcomeFailed).Inc()
		return "", NewImageGenerationFailed(err)
	}

	patch := task.Patch{
		ImageURL:  task.Value(url),
		UpdatedAt: s.opts.stamp(),
	}
	if err := s.tasks.repo.UpdateFields(ctx, id, patch); err != nil {
		logger.Error("Service: failed to store image url", err, zap.Int64("task_id", id))
		imagesTotal.WithLabelValues(outcomeFailed).Inc()
		return "", NewImageGenerationFailed(err)
	}

	imagesTotal.WithLabelValues(outcomeSuccess).Inc()
	logger.Info("Service: image stored", zap.Int64("task_id", id))
	return url, nil
}
