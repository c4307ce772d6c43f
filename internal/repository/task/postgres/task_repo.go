package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"taskHelper/internal/logger"
	"taskHelper/internal/models/task"
	repo "taskHelper/internal/repository"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

const slowQuery = 100 * time.Millisecond

type PoolConfig struct {
	MaxConns        int32
	MinConns        int32
	MaxConnIdleTime time.Duration
}

type Storage struct {
	pool *pgxpool.Pool
}

func New(ctx context.Context, connString string, poolCfg PoolConfig) (*Storage, error) {
	config, err := pgxpool.ParseConfig(connString)
	if err != nil {
		logger.Error("Repository: failed to parse connection string", err)
		return nil, fmt.Errorf("parse config: %w", err)
	}

	config.MaxConns = 10
	config.MinConns = 2
	config.MaxConnIdleTime = time.Minute * 5
	if poolCfg.MaxConns > 0 {
		config.MaxConns = poolCfg.MaxConns
	}
	if poolCfg.MinConns > 0 {
		config.MinConns = poolCfg.MinConns
	}
	if poolCfg.MaxConnIdleTime > 0 {
		config.MaxConnIdleTime = poolCfg.MaxConnIdleTime
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		logger.Error("Repository: failed to create pool", err)
		return nil, fmt.Errorf("create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		logger.Error("Repository: ping failed", err)
		return nil, fmt.Errorf("ping: %w", err)
	}

	logger.Info("Repository: connected to PostgreSQL")
	return &Storage{pool: pool}, nil
}

func (s *Storage) Close() {
	s.pool.Close()
	logger.Info("Repository: PostgreSQL connections closed")
}

func (s *Storage) HealthCheck(ctx context.Context) error {
	if err := s.pool.Ping(ctx); err != nil {
		logger.Error("Repository: ping failed", err)
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

func warnIfSlow(op string, start time.Time) {
	if time.Since(start) > slowQuery {
		logger.Warn("Repository: slow query", zap.String("operation", op), zap.Duration("ms", time.Since(start)))
	}
}

const selectColumns = `id, title, notes, priority, due_date, status,
	enhanced_description, image_url, created_at, updated_at`

func (s *Storage) Create(ctx context.Context, taskToCreate *task.Task) (int64, error) {
	start := time.Now()
	defer warnIfSlow("create", start)

	enhanced, err := task.EncodeNullableEnhancement(taskToCreate.EnhancedDescription)
	if err != nil {
		return 0, err
	}

	query := `INSERT INTO tasks
				(title, notes, priority, due_date, status, enhanced_description, image_url, created_at, updated_at)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
				RETURNING id`

	var id int64
	err = s.pool.QueryRow(ctx, query,
		taskToCreate.Title,
		taskToCreate.Notes,
		taskToCreate.Priority,
		taskToCreate.DueDate,
		string(taskToCreate.Status),
		enhanced,
		taskToCreate.ImageURL,
		taskToCreate.CreatedAt,
		taskToCreate.UpdatedAt,
	).Scan(&id)
	if err != nil {
		logger.Error("Repository: failed to insert task", err, zap.Duration("ms", time.Since(start)))
		return 0, fmt.Errorf("insert task: %w", err)
	}

	return id, nil
}

func (s *Storage) GetByID(ctx context.Context, id int64) (*task.Task, error) {
	start := time.Now()
	defer warnIfSlow("get", start)

	query := `SELECT ` + selectColumns + ` FROM tasks WHERE id = $1`

	found, err := scanTask(s.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repo.ErrNotFound
		}
		logger.Error("Repository: failed to get task", err, zap.Int64("task_id", id))
		return nil, fmt.Errorf("get task: %w", err)
	}
	return found, nil
}

func (s *Storage) List(ctx context.Context) ([]*task.Task, error) {
	start := time.Now()
	defer warnIfSlow("list", start)

	query := `SELECT ` + selectColumns + ` FROM tasks ORDER BY id`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		logger.Error("Repository: failed to list tasks", err)
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	tasks := []*task.Task{}
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			logger.Error("Repository: failed to scan task", err)
			return nil, fmt.Errorf("scan task: %w", err)
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		logger.Error("Repository: row iteration failed", err)
		return nil, fmt.Errorf("iterate rows: %w", err)
	}

	return tasks, nil
}

// UpdateFields writes only the set fields of the patch plus updated_at. A
// missing id updates no rows and is not reported.
func (s *Storage) UpdateFields(ctx context.Context, id int64, patch task.Patch) error {
	start := time.Now()
	defer warnIfSlow("update", start)

	sets, args, err := setClause(patch)
	if err != nil {
		return err
	}
	args = append(args, id)
	query := fmt.Sprintf("UPDATE tasks SET %s WHERE id = $%d", strings.Join(sets, ", "), len(args))

	tag, err := s.pool.Exec(ctx, query, args...)
	if err != nil {
		logger.Error("Repository: failed to update task", err, zap.Int64("task_id", id))
		return fmt.Errorf("update task: %w", err)
	}
	if tag.RowsAffected() == 0 {
		logger.Warn("Repository: update matched no rows", zap.Int64("task_id", id))
	}
	return nil
}

func (s *Storage) Delete(ctx context.Context, id int64) error {
	start := time.Now()
	defer warnIfSlow("delete", start)

	if _, err := s.pool.Exec(ctx, `DELETE FROM tasks WHERE id = $1`, id); err != nil {
		logger.Error("Repository: failed to delete task", err, zap.Int64("task_id", id))
		return fmt.Errorf("delete task: %w", err)
	}
	return nil
}

func setClause(patch task.Patch) ([]string, []any, error) {
	var sets []string
	var args []any
	add := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if v, ok := patch.Title.Get(); ok {
		add("title", v)
	}
	if patch.Notes.IsSet() {
		add("notes", patch.Notes.Ptr())
	}
	if patch.Priority.IsSet() {
		add("priority", patch.Priority.Ptr())
	}
	if patch.DueDate.IsSet() {
		add("due_date", patch.DueDate.Ptr())
	}
	if v, ok := patch.Status.Get(); ok {
		add("status", string(v))
	}
	if patch.EnhancedDescription.IsSet() {
		v, _ := patch.EnhancedDescription.Get()
		enhanced, err := task.EncodeNullableEnhancement(v)
		if err != nil {
			return nil, nil, err
		}
		add("enhanced_description", enhanced)
	}
	if patch.ImageURL.IsSet() {
		add("image_url", patch.ImageURL.Ptr())
	}
	add("updated_at", patch.UpdatedAt)

	return sets, args, nil
}

func scanTask(row pgx.Row) (*task.Task, error) {
	t := &task.Task{}
	var status string
	var enhanced *string

	err := row.Scan(
		&t.ID,
		&t.Title,
		&t.Notes,
		&t.Priority,
		&t.DueDate,
		&status,
		&enhanced,
		&t.ImageURL,
		&t.CreatedAt,
		&t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	t.Status = task.Status(status)
	t.EnhancedDescription = task.DecodeNullableEnhancement(enhanced)
	t.CreatedAt = t.CreatedAt.UTC()
	t.UpdatedAt = t.UpdatedAt.UTC()
	return t, nil
}
