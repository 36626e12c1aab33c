package storage

import (
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	// Import the PostgreSQL driver for database connections
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	// Import the file source driver to read migrations from filesystem
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/rs/zerolog"
)

// RunMigrations applies all pending database migrations
// It returns an error if migration fails (except for "no change" which is not an error)
func RunMigrations(databaseURL, migrationsPath string, logger zerolog.Logger) error {
	m, err := migrate.New(
		fmt.Sprintf("file://%s", migrationsPath),
		databaseURL,
	)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	version, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return fmt.Errorf("failed to get migration version: %w", err)
	}

	if dirty {
		logger.Warn().Uint("version", version).Msg("database is in dirty state")
	} else {
		logger.Info().Uint("version", version).Msg("database migrated")
	}

	return nil
}
