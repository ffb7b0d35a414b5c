// Package migrations holds the users schema for every supported dialect and
// applies it through goose.
package migrations

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"

	"github.com/pressly/goose/v3"
)

//go:embed sqlite/*.sql postgres/*.sql
var files embed.FS

// Runner applies and resets the schema on one database handle.
type Runner struct {
	db       *sql.DB
	provider *goose.Provider
}

// NewRunner builds a Runner for the given dialect. Only goose.DialectSQLite3
// and goose.DialectPostgres ship migrations.
func NewRunner(dialect goose.Dialect, db *sql.DB) (*Runner, error) {
	dir, err := dirFor(dialect)
	if err != nil {
		return nil, err
	}
	fsys, err := fs.Sub(files, dir)
	if err != nil {
		return nil, fmt.Errorf("open %s migrations: %w", dir, err)
	}
	provider, err := goose.NewProvider(dialect, db, fsys)
	if err != nil {
		return nil, fmt.Errorf("init migration provider: %w", err)
	}
	return &Runner{db: db, provider: provider}, nil
}

// Apply brings the schema up to date. With force set, every applied
// migration is rolled back first so the users table starts empty.
func (r *Runner) Apply(ctx context.Context, force bool) error {
	if force {
		if _, err := r.provider.DownTo(ctx, 0); err != nil && !errors.Is(err, goose.ErrNoNextVersion) {
			return fmt.Errorf("roll back migrations: %w", err)
		}
		// Databases created before goose tracked them carry an untracked table.
		if _, err := r.db.ExecContext(ctx, `DROP TABLE IF EXISTS users`); err != nil {
			return fmt.Errorf("drop users table: %w", err)
		}
	}
	if _, err := r.provider.Up(ctx); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}

func dirFor(dialect goose.Dialect) (string, error) {
	switch dialect {
	case goose.DialectSQLite3:
		return "sqlite", nil
	case goose.DialectPostgres:
		return "postgres", nil
	default:
		return "", fmt.Errorf("no migrations for dialect %q", dialect)
	}
}
