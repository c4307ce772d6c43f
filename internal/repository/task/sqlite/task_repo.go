package sqlite

import (
	"context"
	"errors"
	"fmt"
	"time"

	"taskHelper/internal/logger"
	"taskHelper/internal/models/task"
	repo "taskHelper/internal/repository"

	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const slowQuery = 100 * time.Millisecond

type taskRow struct {
	ID                  int64  `gorm:"primaryKey;autoIncrement"`
	Title               string `gorm:"not null;index"`
	Notes               *string
	Priority            *int
	DueDate             *string
	Status              string `gorm:"not null;default:open"`
	EnhancedDescription *string
	ImageURL            *string   `gorm:"column:image_url"`
	CreatedAt           time.Time `gorm:"not null;autoCreateTime:false"`
	UpdatedAt           time.Time `gorm:"not null;autoUpdateTime:false"`
}

func (taskRow) TableName() string {
	return "tasks"
}

type Storage struct {
	db *gorm.DB
}

// New opens (or creates) the database at path and migrates the schema.
// Use ":memory:" for a throwaway database.
func New(path string) (*Storage, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		logger.Error("Repository: failed to open SQLite database", err, zap.String("path", path))
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("sqlite handle: %w", err)
	}
	// one connection keeps ":memory:" databases shared and serialises writers
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(&taskRow{}); err != nil {
		logger.Error("Repository: SQLite migration failed", err)
		return nil, fmt.Errorf("migrate sqlite: %w", err)
	}

	logger.Info("Repository: SQLite database ready", zap.String("path", path))
	return &Storage{db: db}, nil
}

func (s *Storage) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	logger.Info("Repository: closing SQLite database")
	return sqlDB.Close()
}

func (s *Storage) HealthCheck(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("sqlite handle: %w", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		logger.Error("Repository: SQLite ping failed", err)
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

func warnIfSlow(op string, start time.Time) {
	if time.Since(start) > slowQuery {
		logger.Warn("Repository: slow query", zap.String("operation", op), zap.Duration("ms", time.Since(start)))
	}
}

func (s *Storage) Create(ctx context.Context, taskToCreate *task.Task) (int64, error) {
	defer warnIfSlow("create", time.Now())

	row, err := toRow(taskToCreate)
	if err != nil {
		return 0, err
	}
	row.ID = 0

	if err := s.db.WithContext(ctx).Create(row).Error; err != nil {
		logger.Error("Repository: failed to insert task", err)
		return 0, fmt.Errorf("insert task: %w", err)
	}
	return row.ID, nil
}

func (s *Storage) GetByID(ctx context.Context, id int64) (*task.Task, error) {
	defer warnIfSlow("get", time.Now())

	var row taskRow
	if err := s.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repo.ErrNotFound
		}
		logger.Error("Repository: failed to get task", err, zap.Int64("task_id", id))
		return nil, fmt.Errorf("get task: %w", err)
	}
	return row.toTask(), nil
}

func (s *Storage) List(ctx context.Context) ([]*task.Task, error) {
	defer warnIfSlow("list", time.Now())

	var rows []taskRow
	if err := s.db.WithContext(ctx).Order("id").Find(&rows).Error; err != nil {
		logger.Error("Repository: failed to list tasks", err)
		return nil, fmt.Errorf("list tasks: %w", err)
	}

	tasks := make([]*task.Task, 0, len(rows))
	for i := range rows {
		tasks = append(tasks, rows[i].toTask())
	}
	return tasks, nil
}

// UpdateFields writes only the set fields of the patch plus updated_at. A
// missing id updates no rows and is not reported.
func (s *Storage) UpdateFields(ctx context.Context, id int64, patch task.Patch) error {
	defer warnIfSlow("update", time.Now())

	values, err := columns(patch)
	if err != nil {
		return err
	}

	result := s.db.WithContext(ctx).Model(&taskRow{}).Where("id = ?", id).Updates(values)
	if result.Error != nil {
		logger.Error("Repository: failed to update task", result.Error, zap.Int64("task_id", id))
		return fmt.Errorf("update task: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		logger.Warn("Repository: update matched no rows", zap.Int64("task_id", id))
	}
	return nil
}

func (s *Storage) Delete(ctx context.Context, id int64) error {
	defer warnIfSlow("delete", time.Now())

	if err := s.db.WithContext(ctx).Delete(&taskRow{}, "id = ?", id).Error; err != nil {
		logger.Error("Repository: failed to delete task", err, zap.Int64("task_id", id))
		return fmt.Errorf("delete task: %w", err)
	}
	return nil
}

func columns(patch task.Patch) (map[string]any, error) {
	values := map[string]any{"updated_at": patch.UpdatedAt}

	if v, ok := patch.Title.Get(); ok {
		values["title"] = v
	}
	if patch.Notes.IsSet() {
		values["notes"] = patch.Notes.Ptr()
	}
	if patch.Priority.IsSet() {
		values["priority"] = patch.Priority.Ptr()
	}
	if patch.DueDate.IsSet() {
		values["due_date"] = patch.DueDate.Ptr()
	}
	if v, ok := patch.Status.Get(); ok {
		values["status"] = string(v)
	}
	if patch.EnhancedDescription.IsSet() {
		v, _ := patch.EnhancedDescription.Get()
		enhanced, err := task.EncodeNullableEnhancement(v)
		if err != nil {
			return nil, err
		}
		values["enhanced_description"] = enhanced
	}
	if patch.ImageURL.IsSet() {
		values["image_url"] = patch.ImageURL.Ptr()
	}
	return values, nil
}

func toRow(t *task.Task) (*taskRow, error) {
	enhanced, err := task.EncodeNullableEnhancement(t.EnhancedDescription)
	if err != nil {
		return nil, err
	}
	return &taskRow{
		ID:                  t.ID,
		Title:               t.Title,
		Notes:               t.Notes,
		Priority:            t.Priority,
		DueDate:             t.DueDate,
		Status:              string(t.Status),
		EnhancedDescription: enhanced,
		ImageURL:            t.ImageURL,
		CreatedAt:           t.CreatedAt,
		UpdatedAt:           t.UpdatedAt,
	}, nil
}

func (r *taskRow) toTask() *task.Task {
	return &task.Task{
		ID:                  r.ID,
		Title:               r.Title,
		Notes:               r.Notes,
		Priority:            r.Priority,
		DueDate:             r.DueDate,
		Status:              task.Status(r.Status),
		EnhancedDescription: task.DecodeNullableEnhancement(r.EnhancedDescription),
		ImageURL:            r.ImageURL,
		CreatedAt:           r.CreatedAt.UTC(),
		UpdatedAt:           r.UpdatedAt.UTC(),
	}
}
