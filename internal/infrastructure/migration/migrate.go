package migration

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"go.uber.org/zap"
)

// Migrator applies SQL migrations from a directory against postgres
type Migrator struct {
	inner *migrate.Migrate
	log   *zap.Logger
}

// New creates a Migrator reading migration files from migrationsPath
func New(db *sql.DB, migrationsPath string, log *zap.Logger) (*Migrator, error) {
	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return nil, fmt.Errorf("postgres migration driver: %w", err)
	}
	inner, err := migrate.NewWithDatabaseInstance("file://"+migrationsPath, "postgres", driver)
	if err != nil {
		return nil, fmt.Errorf("migrate instance: %w", err)
	}
	return &Migrator{inner: inner, log: log}, nil
}

// Up applies every pending migration
func (m *Migrator) Up() error {
	m.log.Info("Applying pending migrations")
	return m.report("up", m.inner.Up())
}

// Down rolls back every applied migration
func (m *Migrator) Down() error {
	m.log.Info("Rolling back all migrations")
	return m.report("down", m.inner.Down())
}

// Steps applies n migrations forward, or rolls back -n when negative
func (m *Migrator) Steps(n int) error {
	m.log.Info("Stepping migrations", zap.Int("steps", n))
	return m.report("steps", m.inner.Steps(n))
}

// report folds the shared no-change handling and logs the resulting
// schema version
func (m *Migrator) report(action string, err error) error {
	if errors.Is(err, migrate.ErrNoChange) {
		m.log.Info("Schema already up to date")
		return nil
	}
	if err != nil {
		return fmt.Errorf("migration %s: %w", action, err)
	}
	version, dirty, verr := m.inner.Version()
	if verr != nil && !errors.Is(verr, migrate.ErrNilVersion) {
		return fmt.Errorf("migration version: %w", verr)
	}
	m.log.Info("Migrations applied",
		zap.Uint("version", version),
		zap.Bool("dirty", dirty),
	)
	return nil
}

// Version returns the current schema version. A database with no
// applied migrations reports version 0.
func (m *Migrator) Version() (uint, bool, error) {
	version, dirty, err := m.inner.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("migration version: %w", err)
	}
	return version, dirty, nil
}

// Force overwrites the recorded schema version without running any
// migration. Only useful for recovering a dirty state.
func (m *Migrator) Force(version int) error {
	m.log.Warn("Forcing schema version", zap.Int("version", version))
	if err := m.inner.Force(version); err != nil {
		return fmt.Errorf("force version %d: %w", version, err)
	}
	return nil
}

// Close releases the source and database handles
func (m *Migrator) Close() error {
	sourceErr, dbErr := m.inner.Close()
	if sourceErr != nil {
		return fmt.Errorf("close migration source: %w", sourceErr)
	}
	if dbErr != nil {
		return fmt.Errorf("close migration database: %w", dbErr)
	}
	return nil
}
