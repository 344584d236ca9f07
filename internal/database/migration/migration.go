package migration

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"
)

type migrationStep struct {
	Name string
	SQL  string
}

// Identifiers are TEXT: principals come from the gateway and ids arrive unvalidated on some routes.
var steps = []migrationStep{
	{
		Name: "create_table_workspaces",
		SQL: `CREATE TABLE IF NOT EXISTS workspaces (
  id         TEXT        PRIMARY KEY,
  owner_id   TEXT        NOT NULL,
  name       TEXT        NOT NULL,
  created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_index_workspaces_owner",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_workspaces_owner_id ON workspaces (owner_id);`,
	},
	{
		Name: "create_table_documents",
		SQL: `CREATE TABLE IF NOT EXISTS documents (
  id           TEXT        PRIMARY KEY,
  workspace_id TEXT        NOT NULL,
  owner_id     TEXT        NOT NULL,
  name         TEXT        NOT NULL,
  mime_type    TEXT        NOT NULL,
  storage_path TEXT        NOT NULL UNIQUE,
  size         BIGINT      NOT NULL CHECK (size >= 0),
  uploaded_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
  is_deleted   BOOLEAN     NOT NULL DEFAULT false
);`,
	},
	{
		Name: "create_index_documents_workspace",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_documents_workspace_id ON documents (workspace_id, is_deleted);`,
	},
	{
		Name: "create_index_documents_owner_deleted",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_documents_owner_deleted ON documents (owner_id) WHERE is_deleted;`,
	},
	{
		Name: "create_index_documents_uploaded_at",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_documents_uploaded_at ON documents (uploaded_at);`,
	},
}

// sentinelTable is created by the last table step; its presence means the schema is in place.
const sentinelTable = "public.documents"

// EnsureMigrated runs the schema steps unless the documents table already exists.
func EnsureMigrated(ctx context.Context, db *sql.DB, logger *slog.Logger, dbHost string) error {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With(slog.String("component", "database"), slog.String("db_host", dbHost))
	start := time.Now()

	logger.Info("db_migration_check", slog.String("status", "starting"))

	var exists bool
	if err := db.QueryRowContext(ctx, "SELECT to_regclass($1) IS NOT NULL", sentinelTable).Scan(&exists); err != nil {
		logger.Error("db_migration_failed",
			slog.String("status", "error"),
			slog.String("error_message", err.Error()),
			slog.Int64("duration_ms", time.Since(start).Milliseconds()),
		)
		return fmt.Errorf("failed to check sentinel table: %w", err)
	}

	if exists {
		logger.Info("db_migration_skip",
			slog.String("status", "success"),
			slog.String("reason", "schema already exists"),
			slog.Int64("duration_ms", time.Since(start).Milliseconds()),
		)
		return nil
	}

	logger.Info("db_migration_start", slog.String("status", "in_progress"), slog.Int("steps", len(steps)))

	for _, step := range steps {
		stepStart := time.Now()
		if _, err := db.ExecContext(ctx, step.SQL); err != nil {
			logger.Error("db_migration_failed",
				slog.String("status", "error"),
				slog.String("migration_step", step.Name),
				slog.String("error_message", err.Error()),
				slog.Int64("duration_ms", time.Since(start).Milliseconds()),
				slog.Int64("step_duration_ms", time.Since(stepStart).Milliseconds()),
			)
			return fmt.Errorf("migration step %s failed: %w", step.Name, err)
		}

		logger.Debug("db_migration_step",
			slog.String("status", "success"),
			slog.String("migration_step", step.Name),
			slog.Int64("step_duration_ms", time.Since(stepStart).Milliseconds()),
		)
	}

	logger.Info("db_migration_success",
		slog.String("status", "success"),
		slog.Int64("duration_ms", time.Since(start).Milliseconds()),
	)
	return nil
}
