package repositories

import (
	"database/sql"
	"errors"
	"fmt"
)

// Initialize the SQLite database schema. Postgres uses the migrations
// under db/migration instead.
func InitSchema(db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createScenariosQuery := `
	CREATE TABLE IF NOT EXISTS scenarios (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		source TEXT NOT NULL,
		created_at TEXT NOT NULL,
		agent_count INTEGER NOT NULL,
		agent_speed_kmh REAL NOT NULL,
		step_minutes REAL NOT NULL,
		traffic_factor REAL NOT NULL,
		start_hour INTEGER NOT NULL,
		profile TEXT NOT NULL,
		store_count INTEGER NOT NULL,
		clock_minutes REAL NOT NULL,
		total_generated INTEGER NOT NULL,
		total_delivered INTEGER NOT NULL,
		total_cancelled INTEGER NOT NULL,
		avg_delivery_minutes REAL NOT NULL,
		completion_pct REAL NOT NULL,
		utilization_pct REAL NOT NULL,
		avg_fatigue REAL NOT NULL,
		total_distance_km REAL NOT NULL
	);
	`

	createProfilesQuery := `
	CREATE TABLE IF NOT EXISTS demand_profiles (
		name TEXT PRIMARY KEY,
		zones TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);
	`

	createSweepReportsQuery := `
	CREATE TABLE IF NOT EXISTS sweep_reports (
		request_key TEXT PRIMARY KEY,
		report TEXT NOT NULL,
		created_at TEXT NOT NULL
	);
	`

	createSweepJobsQuery := `
	CREATE TABLE IF NOT EXISTS sweep_jobs (
		id TEXT PRIMARY KEY,
		job TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);
	`

	createIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_scenarios_created_at
	ON scenarios(created_at);
	`

	statements := []string{
		createScenariosQuery,
		createProfilesQuery,
		createSweepReportsQuery,
		createSweepJobsQuery,
		createIndexQuery,
	}

	for i, stmt := range statements {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}
