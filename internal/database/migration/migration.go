package migration

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"
)

// JobsTable is the fixed-schema table holding one row per ingested job.
const JobsTable = "raw_table"

type migrationStep struct {
	Name string
	SQL  string
}

var steps = []migrationStep{
	{
		Name: "create_table_raw_table",
		SQL: `CREATE TABLE IF NOT EXISTS raw_table (
  slug                text,
  language            text,
  languages           jsonb,
  req_id              VARCHAR(255) PRIMARY KEY,
  title               text,
  description         text,
  street_address      text,
  city                text,
  state               text,
  country_code        text,
  postal_code         text,
  location_type       text,
  latitude            double precision,
  longitude           double precision,
  categories          jsonb,
  tags                jsonb,
  tags5               jsonb,
  tags6               jsonb,
  brand               text,
  promotion_value     bigint,
  salary_currency     text,
  salary_value        bigint,
  salary_min_value    bigint,
  salary_max_value    bigint,
  benefits            jsonb,
  employment_type     text,
  hiring_organization text,
  source              text,
  apply_url           text,
  internal            boolean,
  searchable          boolean,
  applyable           boolean,
  li_easy_applyable   boolean,
  ats_code            text,
  update_date         text,
  create_date         text,
  category            jsonb,
  full_location       text,
  short_location      text
);`,
	},
}

// EnsureMigrated checks if the jobs table exists and creates it if it doesn't.
// It is safe to call on every startup.
func EnsureMigrated(ctx context.Context, db *sql.DB, logger *slog.Logger, dbHost string) error {
	if logger == nil {
		logger = slog.Default()
	}
	log := logger.With("component", "database", "db_host", dbHost)
	start := time.Now()

	log.Info("checking schema", "event", "db_migration_check", "status", "starting")

	var exists bool
	query := "SELECT to_regclass('public." + JobsTable + "') IS NOT NULL"
	if err := db.QueryRowContext(ctx, query).Scan(&exists); err != nil {
		log.Error("schema check failed",
			"event", "db_migration_failed",
			"status", "error",
			"error_message", err.Error(),
			"duration_ms", time.Since(start).Milliseconds(),
		)
		return fmt.Errorf("failed to check sentinel table: %w", err)
	}

	if exists {
		log.Info("schema already exists, skipping migration",
			"event", "db_migration_skip",
			"status", "success",
			"duration_ms", time.Since(start).Milliseconds(),
		)
		return nil
	}

	log.Info("creating schema", "event", "db_migration_start", "status", "in_progress")

	for _, step := range steps {
		stepStart := time.Now()
		if _, err := db.ExecContext(ctx, step.SQL); err != nil {
			log.Error("migration step failed",
				"event", "db_migration_failed",
				"status", "error",
				"migration_step", step.Name,
				"error_message", err.Error(),
				"duration_ms", time.Since(start).Milliseconds(),
				"step_duration_ms", time.Since(stepStart).Milliseconds(),
			)
			return fmt.Errorf("migration step %s failed: %w", step.Name, err)
		}

		log.Info("migration step applied",
			"event", "db_migration_step",
			"status", "success",
			"migration_step", step.Name,
			"step_duration_ms", time.Since(stepStart).Milliseconds(),
		)
	}

	log.Info("schema created",
		"event", "db_migration_success",
		"status", "success",
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return nil
}
