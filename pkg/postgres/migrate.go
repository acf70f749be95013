package postgres

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	_ "github.com/golang-migrate/migrate/v4/database/postgres"
)

// RunMigrations applies every pending up migration found in dir of fsys to the
// database identified by dsn.
func RunMigrations(fsys fs.FS, dir string, dsn string) error {
	const op = "postgres.RunMigrations"

	src, err := iofs.New(fsys, dir)
	if err != nil {
		return fmt.Errorf("%s: failed to open migrations source: %w", op, err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", src, dsn)
	if err != nil {
		return fmt.Errorf("%s: failed to initialize migrations: %w", op, err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("%s: failed to run migrations: %w", op, err)
	}

	return nil
}
