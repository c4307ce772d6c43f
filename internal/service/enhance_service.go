package service

import (
	"context"
	"strconv"
	"time"

	"taskHelper/internal/enhance"
	"taskHelper/internal/logger"
	"taskHelper/internal/models/task"
	"taskHelper/internal/provider"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// EnhanceService runs the enhancement pipeline: lookup, duplicate check,
// prompt, one provider call, clean, parse with fallback, persist.
type EnhanceService struct {
	tasks     *TaskService
	completer provider.Completer
	opts      options
	inflight  singleflight.Group
}

func NewEnhanceService(repo TaskRepository, completer provider.Completer, opts ...Option) *EnhanceService {
	return &EnhanceService{
		tasks:     NewTaskService(repo, opts...),
		completer: completer,
		opts:      buildOptions(opts),
	}
}

// Enhance returns the enhancement result, not the task. Concurrent calls for
// the same id share one provider call and one result. The shared call is
// detached from the first caller's cancellation so the others still get it.
func (s *EnhanceService) Enhance(ctx context.Context, id int64) (task.Enhancement, error) {
	result, err, shared := s.inflight.Do(strconv.FormatInt(id, 10), func() (any, error) {
		return s.enhance(context.WithoutCancel(ctx), id)
	})
	if shared {
		logger.Info("Service: joined in-flight enhancement", zap.Int64("task_id", id))
	}
	if err != nil {
		return nil, err
	}
	return result.(task.Enhancement), nil
}

func (s *EnhanceService) enhance(ctx context.Context, id int64) (task.Enhancement, error) {
	target, err := s.tasks.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	all, err := s.tasks.List(ctx)
	if err != nil {
		return nil, err
	}
	if other, dup := findDuplicate(target, all); dup {
		logger.Warn("Service: duplicate task detected, enhancement skipped",
			zap.Int64("task_id", id),
			zap.Int64("duplicate_of", other.ID))
		enhancementsTotal.WithLabelValues(outcomeDuplicate).Inc()
		return nil, NewDuplicateDetected(id, other.ID)
	}

	prompt := enhance.Prompt(target.Title, target.Notes)

	start := time.Now()
	raw, err := s.completer.Complete(ctx, prompt)
	if err != nil {
		logger.Error("Service: enhancement provider failed", err,
			zap.Int64("task_id", id),
			zap.Duration("ms", time.Since(start)))
		enhancementsTotal.WithLabelValues(outcomeUnavailable).Inc()
		return nil, NewEnhancementUnavailable(err)
	}

	result := enhance.Parse(raw)
	outcome := outcomeStructured
	if _, ok := result.(task.Fallback); ok {
		outcome = outcomeFallback
		logger.Warn("Service: failed to parse model response, using raw text", zap.Int64("task_id", id))
	}

	patch := task.Patch{
		EnhancedDescription: task.Value(result),
		UpdatedAt:           s.opts.stamp(),
	}
	if err := s.tasks.repo.UpdateFields(ctx, id, patch); err != nil {
		logger.Error("Service: failed to store enhancement", err, zap.Int64("task_id", id))
		return nil, NewStoreFault("enhance", err)
	}

	enhancementsTotal.WithLabelValues(outcome).Inc()
	logger.Info("Service: task enhanced",
		zap.Int64("task_id", id),
		zap.String("outcome", outcome),
		zap.Duration("ms", time.Since(start)))
	return result, nil
}
