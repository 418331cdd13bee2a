package database

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"devconnect/internal/config"
	"devconnect/internal/middleware"

	"gorm.io/gorm"
)

const (
	SchemaModeSQL  = "sql"
	SchemaModeAuto = "auto"
)

// SchemaMode resolves the effective schema mode. An empty DB_SCHEMA_MODE
// picks versioned SQL for postgres and AutoMigrate for sqlite.
func SchemaMode(cfg *config.Config) (string, error) {
	mode := strings.ToLower(strings.TrimSpace(cfg.DBSchemaMode))
	switch mode {
	case "":
		if driverName(cfg) == DriverSQLite {
			return SchemaModeAuto, nil
		}
		return SchemaModeSQL, nil
	case SchemaModeSQL:
		if driverName(cfg) != DriverPostgres {
			return "", fmt.Errorf("DB_SCHEMA_MODE=sql requires DB_DRIVER=postgres, got %q", cfg.DBDriver)
		}
		return mode, nil
	case SchemaModeAuto:
		if cfg.IsProduction() {
			return "", fmt.Errorf("refusing DB_SCHEMA_MODE=auto in %q", cfg.Env)
		}
		return mode, nil
	default:
		return "", fmt.Errorf("unsupported DB_SCHEMA_MODE %q", mode)
	}
}

// AutoMigrate creates or updates every persistent table through GORM.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(PersistentModels()...)
}

// ApplySchema brings the schema up to date according to the configured mode.
func ApplySchema(ctx context.Context, db *gorm.DB, cfg *config.Config) error {
	mode, err := SchemaMode(cfg)
	if err != nil {
		return err
	}

	middleware.Logger.InfoContext(ctx, "Applying database schema", slog.String("mode", mode), slog.String("env", cfg.Env))

	switch mode {
	case SchemaModeSQL:
		if err := RunMigrations(PostgresURL(cfg)); err != nil {
			return fmt.Errorf("run sql migrations: %w", err)
		}
	case SchemaModeAuto:
		if err := AutoMigrate(db.WithContext(ctx)); err != nil {
			return fmt.Errorf("auto-migrate: %w", err)
		}
	}
	return nil
}
