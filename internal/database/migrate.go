package database

import (
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations
var migrationsFS embed.FS

// RunMigrations runs all pending database migrations
func RunMigrations(db *DB) error {
	m, closeFn, err := newMigrate(db)
	if err != nil {
		return err
	}
	defer closeFn()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

// RollbackMigration rolls back the last migration
func RollbackMigration(db *DB) error {
	m, closeFn, err := newMigrate(db)
	if err != nil {
		return err
	}
	defer closeFn()

	if err := m.Steps(-1); err != nil {
		return fmt.Errorf("failed to rollback migration: %w", err)
	}
	return nil
}

// newMigrate builds a migrator for db's dialect. Postgres migrations run on
// their own connection; SQLite ones reuse the open handle, which must stay
// open afterwards, so closing is a no-op there.
func newMigrate(db *DB) (*migrate.Migrate, func(), error) {
	source, err := iofs.New(migrationsFS, "migrations/"+db.Driver)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create migration source: %w", err)
	}

	switch db.Driver {
	case DriverPostgres:
		m, err := migrate.NewWithSourceInstance("iofs", source, db.migrationURL)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create migration instance: %w", err)
		}
		return m, func() { m.Close() }, nil

	case DriverSQLite:
		driver, err := sqlite.WithInstance(db.DB.DB, &sqlite.Config{})
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create sqlite migration driver: %w", err)
		}
		m, err := migrate.NewWithInstance("iofs", source, DriverSQLite, driver)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create migration instance: %w", err)
		}
		return m, func() {}, nil

	default:
		return nil, nil, fmt.Errorf("unsupported database driver %q", db.Driver)
	}
}
