package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"darkstore-sim/internal/domain"
	"darkstore-sim/internal/platform/obs"
)

// Fixed-width UTC layout so text ordering matches time ordering.
const sqliteTimeLayout = "2006-01-02T15:04:05.000000000Z"

// SQLite-backed implementation of the ScenarioRepository port.
type SqliteScenarioRepository struct{ DB *sql.DB }

func NewSqliteScenarioRepository(db *sql.DB) *SqliteScenarioRepository {
	return &SqliteScenarioRepository{DB: db}
}

func (s *SqliteScenarioRepository) SaveScenario(ctx context.Context, sc *domain.Scenario) (err error) {
	defer obs.Time(ctx, "scenario.sqlite.Save")(&err)

	if s.DB == nil {
		return errors.New("sqlite scenario repository: DB is nil")
	}
	if sc == nil || sc.ID == "" {
		return errors.New("save scenario: id must not be empty")
	}

	query := `
	INSERT OR REPLACE INTO scenarios (` + scenarioColumns + `)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?);
	`
	args := append([]any{sc.ID}, scenarioArgs(sc)[:2]...)
	args = append(args, sc.CreatedAt.UTC().Format(sqliteTimeLayout))
	args = append(args, scenarioArgs(sc)[2:]...)

	if _, err := s.DB.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save scenario %s: %w", sc.ID, err)
	}
	return nil
}

func (s *SqliteScenarioRepository) ListScenarios(ctx context.Context, limit int) (_ []*domain.Scenario, err error) {
	defer obs.Time(ctx, "scenario.sqlite.List")(&err)

	if s.DB == nil {
		return nil, errors.New("sqlite scenario repository: DB is nil")
	}
	if limit <= 0 {
		limit = -1 // sqlite: no limit
	}

	query := `
	SELECT` + scenarioColumns + `
	FROM scenarios
	ORDER BY created_at DESC, id
	LIMIT ?;
	`
	rows, err := s.DB.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("list scenarios: query scenarios table: %w", err)
	}
	defer rows.Close()

	out := make([]*domain.Scenario, 0, 16)
	for rows.Next() {
		sc, err := scanSqliteScenario(rows)
		if err != nil {
			return nil, fmt.Errorf("list scenarios: %w", err)
		}
		out = append(out, sc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list scenarios: row iteration: %w", err)
	}

	return out, nil
}

func (s *SqliteScenarioRepository) GetScenario(ctx context.Context, id string) (*domain.Scenario, error) {
	if s.DB == nil {
		return nil, errors.New("sqlite scenario repository: DB is nil")
	}

	query := `
	SELECT` + scenarioColumns + `
	FROM scenarios
	WHERE id = ?;
	`
	sc, err := scanSqliteScenario(s.DB.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get scenario %s: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get scenario %s: %w", id, err)
	}
	return sc, nil
}

func (s *SqliteScenarioRepository) SaveProfile(ctx context.Context, p domain.DemandProfile) error {
	if s.DB == nil {
		return errors.New("sqlite scenario repository: DB is nil")
	}

	zones, err := json.Marshal(p.Zones)
	if err != nil {
		return fmt.Errorf("save profile %q: encode zones: %w", p.Name, err)
	}

	query := `
	INSERT OR REPLACE INTO demand_profiles (
		name,
		zones,
		updated_at
	)
	VALUES (?, ?, ?);
	`
	if _, err := s.DB.ExecContext(ctx, query, p.Name, string(zones), time.Now().UTC().Format(sqliteTimeLayout)); err != nil {
		return fmt.Errorf("save profile %q: %w", p.Name, err)
	}
	return nil
}

func (s *SqliteScenarioRepository) ListProfiles(ctx context.Context) ([]domain.DemandProfile, error) {
	if s.DB == nil {
		return nil, errors.New("sqlite scenario repository: DB is nil")
	}

	query := `
	SELECT
		name,
		zones
	FROM demand_profiles
	ORDER BY name;
	`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list profiles: query demand_profiles table: %w", err)
	}
	defer rows.Close()

	out := make([]domain.DemandProfile, 0, 8)
	for rows.Next() {
		var name, zones string
		if err := rows.Scan(&name, &zones); err != nil {
			return nil, fmt.Errorf("list profiles: scan row: %w", err)
		}
		p, err := decodeProfile(name, []byte(zones))
		if err != nil {
			return nil, fmt.Errorf("list profiles: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list profiles: row iteration: %w", err)
	}

	return out, nil
}

func (s *SqliteScenarioRepository) GetProfile(ctx context.Context, name string) (domain.DemandProfile, error) {
	if s.DB == nil {
		return domain.DemandProfile{}, errors.New("sqlite scenario repository: DB is nil")
	}

	var zones string
	err := s.DB.QueryRowContext(ctx, `SELECT zones FROM demand_profiles WHERE name = ?;`, name).Scan(&zones)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.DemandProfile{}, fmt.Errorf("get profile %q: %w", name, domain.ErrNotFound)
	}
	if err != nil {
		return domain.DemandProfile{}, fmt.Errorf("get profile %q: %w", name, err)
	}
	return decodeProfile(name, []byte(zones))
}

func scanSqliteScenario(row rowScanner) (*domain.Scenario, error) {
	var createdAt string
	sc, err := scanScenario(row, &createdAt)
	if err != nil {
		return nil, err
	}
	sc.CreatedAt, err = time.Parse(sqliteTimeLayout, createdAt)
	if err != nil {
		return nil, fmt.Errorf("parse created_at %q: %w", createdAt, err)
	}
	return sc, nil
}
