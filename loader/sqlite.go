package loader

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
	"github.com/mgomes/jspy/jspy"
)

const createPackagesTable = `CREATE TABLE IF NOT EXISTS packages (
	name   TEXT PRIMARY KEY,
	source TEXT NOT NULL
)`

// SQLite loads package sources from the packages(name, source) table.
type SQLite struct {
	db      *sql.DB
	modules *modules
}

// OpenSQLite opens the database at path, creating the packages table when it
// does not exist yet.
func OpenSQLite(ctx context.Context, path string, interp *jspy.Interpreter) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open package db %s: %w", path, err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("open package db %s: %w", path, err)
	}
	if _, err := db.ExecContext(ctx, createPackagesTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("prepare package db %s: %w", path, err)
	}
	tracer().Infof("opened package db %s", path)
	return &SQLite{db: db, modules: newModules(interp)}, nil
}

func (s *SQLite) Close() error {
	return s.db.Close()
}

// Install stores or replaces the source of package name.
func (s *SQLite) Install(ctx context.Context, name, source string) error {
	if _, err := packagePath(name); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx, `INSERT OR REPLACE INTO packages (name, source) VALUES (?, ?)`, name, source)
	if err != nil {
		return fmt.Errorf("install package %s: %w", name, err)
	}
	return nil
}

func (s *SQLite) Load(ctx context.Context, name string) (jspy.Value, error) {
	return s.modules.evaluate(ctx, name, func() (string, error) {
		var source string
		err := s.db.QueryRowContext(ctx, `SELECT source FROM packages WHERE name = ?`, name).Scan(&source)
		if errors.Is(err, sql.ErrNoRows) {
			return "", fmt.Errorf("%w: %s", jspy.ErrPackageNotFound, name)
		}
		if err != nil {
			return "", fmt.Errorf("query package %s: %w", name, err)
		}
		return source, nil
	})
}
