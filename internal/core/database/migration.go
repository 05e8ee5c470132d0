package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"go.uber.org/zap"

	"reagent-tracker/internal/core/logger"
)

type migrationStep struct {
	Name string
	SQL  string
}

var steps = []migrationStep{
	{
		Name: "create_table_units",
		SQL: `CREATE TABLE IF NOT EXISTS units (
  key             TEXT        PRIMARY KEY,
  product_code    TEXT        NOT NULL,
  product_size    TEXT        NOT NULL,
  lot_number      TEXT        NOT NULL,
  expiration_date TEXT        NOT NULL,
  status          TEXT        NOT NULL,
  place           TEXT        NOT NULL DEFAULT '',
  last_updated    TIMESTAMPTZ NOT NULL,
  version         BIGINT      NOT NULL CHECK (version > 0)
);`,
	},
	{
		Name: "create_table_unit_history",
		SQL: `CREATE TABLE IF NOT EXISTS unit_history (
  seq           BIGSERIAL   PRIMARY KEY,
  id            TEXT        NOT NULL UNIQUE,
  unit_key      TEXT        NOT NULL REFERENCES units (key) ON DELETE CASCADE,
  operation     TEXT        NOT NULL,
  actor         TEXT        NOT NULL,
  occurred_at   TIMESTAMPTZ NOT NULL,
  status_before TEXT        NOT NULL,
  status_after  TEXT        NOT NULL,
  place_before  TEXT        NOT NULL,
  place_after   TEXT        NOT NULL
);`,
	},
	{
		Name: "create_index_unit_history_unit_key",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_unit_history_unit_key ON unit_history (unit_key, seq);`,
	},
	{
		Name: "create_index_units_status",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_units_status ON units (status);`,
	},
}

// EnsureMigrated creates the unit tables unless the units table already exists.
func EnsureMigrated(ctx context.Context, db *sql.DB) error {
	log := logger.Named("database")
	start := time.Now()

	var exists bool
	if err := db.QueryRowContext(ctx, "SELECT to_regclass('public.units') IS NOT NULL").Scan(&exists); err != nil {
		log.Error("migration check failed", zap.Error(err))
		return fmt.Errorf("failed to check sentinel table: %w", err)
	}

	if exists {
		log.Info("schema already exists, skipping migration", zap.Duration("duration", time.Since(start)))
		return nil
	}

	for _, step := range steps {
		stepStart := time.Now()
		if _, err := db.ExecContext(ctx, step.SQL); err != nil {
			log.Error("migration step failed",
				zap.String("step", step.Name),
				zap.Error(err),
			)
			return fmt.Errorf("migration step %s failed: %w", step.Name, err)
		}
		log.Info("migration step applied",
			zap.String("step", step.Name),
			zap.Duration("duration", time.Since(stepStart)),
		)
	}

	log.Info("migration complete", zap.Duration("duration", time.Since(start)))
	return nil
}
