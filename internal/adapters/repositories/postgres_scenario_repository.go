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

// Postgres-backed implementation of the ScenarioRepository port, used
// through the pgx database/sql driver.
type PostgresScenarioRepository struct{ DB *sql.DB }

func NewPostgresScenarioRepository(db *sql.DB) *PostgresScenarioRepository {
	return &PostgresScenarioRepository{DB: db}
}

func (s *PostgresScenarioRepository) SaveScenario(ctx context.Context, sc *domain.Scenario) (err error) {
	defer obs.Time(ctx, "scenario.postgres.Save")(&err)

	if s.DB == nil {
		return errors.New("postgres scenario repository: DB is nil")
	}
	if sc == nil || sc.ID == "" {
		return errors.New("save scenario: id must not be empty")
	}

	query := `
	INSERT INTO scenarios (` + scenarioColumns + `)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)
	ON CONFLICT (id) DO NOTHING;
	`
	args := append([]any{sc.ID}, scenarioArgs(sc)[:2]...)
	args = append(args, sc.CreatedAt.UTC())
	args = append(args, scenarioArgs(sc)[2:]...)

	if _, err := s.DB.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save scenario %s: %w", sc.ID, err)
	}
	return nil
}

func (s *PostgresScenarioRepository) ListScenarios(ctx context.Context, limit int) (_ []*domain.Scenario, err error) {
	defer obs.Time(ctx, "scenario.postgres.List")(&err)

	if s.DB == nil {
		return nil, errors.New("postgres scenario repository: DB is nil")
	}

	var limitArg any // NULL means no limit
	if limit > 0 {
		limitArg = limit
	}

	query := `
	SELECT` + scenarioColumns + `
	FROM scenarios
	ORDER BY created_at DESC, id
	LIMIT $1;
	`
	rows, err := s.DB.QueryContext(ctx, query, limitArg)
	if err != nil {
		return nil, fmt.Errorf("list scenarios: query scenarios table: %w", err)
	}
	defer rows.Close()

	out := make([]*domain.Scenario, 0, 16)
	for rows.Next() {
		sc, err := scanPostgresScenario(rows)
		if err != nil {
			return nil, fmt.Errorf("list scenarios: scan row: %w", err)
		}
		out = append(out, sc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list scenarios: row iteration: %w", err)
	}

	return out, nil
}

func (s *PostgresScenarioRepository) GetScenario(ctx context.Context, id string) (*domain.Scenario, error) {
	if s.DB == nil {
		return nil, errors.New("postgres scenario repository: DB is nil")
	}

	query := `
	SELECT` + scenarioColumns + `
	FROM scenarios
	WHERE id = $1;
	`
	sc, err := scanPostgresScenario(s.DB.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get scenario %s: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get scenario %s: %w", id, err)
	}
	return sc, nil
}

func (s *PostgresScenarioRepository) SaveProfile(ctx context.Context, p domain.DemandProfile) error {
	if s.DB == nil {
		return errors.New("postgres scenario repository: DB is nil")
	}

	zones, err := json.Marshal(p.Zones)
	if err != nil {
		return fmt.Errorf("save profile %q: encode zones: %w", p.Name, err)
	}

	query := `
	INSERT INTO demand_profiles (name, zones, updated_at)
	VALUES ($1, $2, $3)
	ON CONFLICT (name) DO UPDATE
	SET zones = EXCLUDED.zones,
		updated_at = EXCLUDED.updated_at;
	`
	if _, err := s.DB.ExecContext(ctx, query, p.Name, zones, time.Now().UTC()); err != nil {
		return fmt.Errorf("save profile %q: %w", p.Name, err)
	}
	return nil
}

func (s *PostgresScenarioRepository) ListProfiles(ctx context.Context) ([]domain.DemandProfile, error) {
	if s.DB == nil {
		return nil, errors.New("postgres scenario repository: DB is nil")
	}

	rows, err := s.DB.QueryContext(ctx, `SELECT name, zones FROM demand_profiles ORDER BY name;`)
	if err != nil {
		return nil, fmt.Errorf("list profiles: query demand_profiles table: %w", err)
	}
	defer rows.Close()

	out := make([]domain.DemandProfile, 0, 8)
	for rows.Next() {
		var name string
		var zones []byte
		if err := rows.Scan(&name, &zones); err != nil {
			return nil, fmt.Errorf("list profiles: scan row: %w", err)
		}
		p, err := decodeProfile(name, zones)
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

func (s *PostgresScenarioRepository) GetProfile(ctx context.Context, name string) (domain.DemandProfile, error) {
	if s.DB == nil {
		return domain.DemandProfile{}, errors.New("postgres scenario repository: DB is nil")
	}

	var zones []byte
	err := s.DB.QueryRowContext(ctx, `SELECT zones FROM demand_profiles WHERE name = $1;`, name).Scan(&zones)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.DemandProfile{}, fmt.Errorf("get profile %q: %w", name, domain.ErrNotFound)
	}
	if err != nil {
		return domain.DemandProfile{}, fmt.Errorf("get profile %q: %w", name, err)
	}
	return decodeProfile(name, zones)
}

func scanPostgresScenario(row rowScanner) (*domain.Scenario, error) {
	var createdAt time.Time
	sc, err := scanScenario(row, &createdAt)
	if err != nil {
		return nil, err
	}
	sc.CreatedAt = createdAt.UTC()
	return sc, nil
}
