package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"

	"darkstore-sim/internal/adapters/repositories"
	"darkstore-sim/internal/config"
	"darkstore-sim/internal/platform/db"
	"darkstore-sim/internal/platform/obs"
	"darkstore-sim/internal/ports"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/rs/zerolog/log"
)

// dbtool prepares a database: postgres is migrated with golang-migrate,
// sqlite gets the embedded schema. Demand profiles are then seeded.
func main() {
	down := flag.Bool("down", false, "roll back all postgres migrations and exit")
	skipSeed := flag.Bool("skip-seed", false, "do not seed demand profiles")
	flag.Parse()

	cfg, err := config.Load(".env")
	if err != nil {
		log.Fatal().Err(err).Msg("cannot load config")
	}
	obs.SetupLogger(cfg.Environment, cfg.LogLevel)

	var (
		conn *sql.DB
		repo ports.ScenarioRepository
	)

	switch cfg.DBDriver {
	case "postgres":
		if *down {
			runDBMigration(cfg.MigrationURL, cfg.DatabaseURL, true)
			return
		}
		runDBMigration(cfg.MigrationURL, cfg.DatabaseURL, false)

		conn, err = db.OpenPostgres(cfg.DatabaseURL)
		if err != nil {
			log.Fatal().Err(err).Msg("cannot connect to db")
		}
		repo = repositories.NewPostgresScenarioRepository(conn)

	default:
		conn, err = db.OpenSqlite(cfg.DBPath)
		if err != nil {
			log.Fatal().Err(err).Msg("cannot connect to db")
		}

		log.Info().Str("path", cfg.DBPath).Msg("initializing sqlite schema")
		if err := repositories.InitSchema(conn); err != nil {
			log.Fatal().Err(err).Msg("schema initialization failed")
		}
		repo = repositories.NewSqliteScenarioRepository(conn)
	}
	defer conn.Close()

	if *skipSeed {
		return
	}

	seedPath := config.Get("SEED_PATH", cfg.SeedPath)
	log.Info().Str("path", seedPath).Msg("seeding demand profiles")
	n, err := repositories.SeedProfilesFromJSON(context.Background(), repo, seedPath)
	if err != nil {
		log.Fatal().Err(err).Msg("seeding failed")
	}
	log.Info().Int("profiles", n).Msg("seeding complete")
}

func runDBMigration(migrationURL string, dbSource string, down bool) {
	migration, err := migrate.New(migrationURL, dbSource)
	if err != nil {
		log.Fatal().Err(err).Msg("cannot create new migrate instance")
	}

	if down {
		err = migration.Down()
	} else {
		err = migration.Up()
	}
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		log.Fatal().Err(err).Bool("down", down).Msg("failed to run migration")
	}

	log.Info().Bool("down", down).Msg("db migrated successfully")
}
