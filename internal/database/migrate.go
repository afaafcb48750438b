package database

import (
	"embed"
	"errors"
	"fmt"

	"crowd-bidding/utils"

	"github.com/golang-migrate/migrate/v4"
	pgmigrate "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// Migrate applies every pending schema migration
func Migrate(pg *Postgres) error {
	source, err := iofs.New(migrationFiles, "migrations")
	if err != nil {
		return fmt.Errorf("database: load migrations: %w", err)
	}
	driver, err := pgmigrate.WithInstance(pg.Database, &pgmigrate.Config{})
	if err != nil {
		return fmt.Errorf("database: migration driver: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", source, "postgres", driver)
	if err != nil {
		return fmt.Errorf("database: migrator: %w", err)
	}

	if err := m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			utils.Info("no change made by migration scripts", nil)
			return nil
		}
		return fmt.Errorf("database: migrate up: %w", err)
	}
	version, _, _ := m.Version()
	utils.Info("migrations applied", map[string]any{"version": version})
	return nil
}
