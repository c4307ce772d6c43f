package postgres

import (
	"context"
	"embed"
	"fmt"

	"taskHelper/internal/logger"

	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var migrations embed.FS

const migrationsDir = "migrations"

type gooseLogger struct{}

func (gooseLogger) Printf(format string, v ...any) {
	logger.Info(fmt.Sprintf("Repository: goose: "+format, v...))
}

func (gooseLogger) Fatalf(format string, v ...any) {
	logger.Error(fmt.Sprintf("Repository: goose: "+format, v...), nil)
}

func prepareGoose() error {
	goose.SetBaseFS(migrations)
	goose.SetLogger(gooseLogger{})
	return goose.SetDialect("postgres")
}

// Migrate applies every pending migration.
func (s *Storage) Migrate(ctx context.Context) error {
	logger.Info("Repository: applying migrations")

	if err := prepareGoose(); err != nil {
		return fmt.Errorf("configure goose: %w", err)
	}

	db := stdlib.OpenDBFromPool(s.pool)
	defer db.Close()

	if err := goose.UpContext(ctx, db, migrationsDir); err != nil {
		logger.Error("Repository: migrations failed", err)
		return fmt.Errorf("apply migrations: %w", err)
	}

	logger.Info("Repository: migrations applied")
	return nil
}

// Down rolls back every applied migration.
func (s *Storage) Down(ctx context.Context) error {
	logger.Info("Repository: rolling back migrations")

	if err := prepareGoose(); err != nil {
		return fmt.Errorf("configure goose: %w", err)
	}

	db := stdlib.OpenDBFromPool(s.pool)
	defer db.Close()

	if err := goose.ResetContext(ctx, db, migrationsDir); err != nil {
		logger.Error("Repository: rollback failed", err)
		return fmt.Errorf("rollback migrations: %w", err)
	}

	logger.Info("Repository: migrations rolled back")
	return nil
}
