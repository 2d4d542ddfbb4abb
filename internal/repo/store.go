package repo

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib" // registers "pgx" driver for database/sql
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite" // registers "sqlite" driver for database/sql

	"github.com/pkordes/globetrotter/backend/migrations"
)

// Store bundles the repositories of one storage backend together with the
// function that releases its connections.
type Store struct {
	Trips TripRepo
	Users UserRepo

	// Ping reports whether the backend is reachable. Used by /healthz.
	Ping func(ctx context.Context) error

	close func()
}

// Close releases the backend's connections. Safe to call on a memory store.
func (s *Store) Close() {
	if s.close != nil {
		s.close()
	}
}

// NewMemoryStore returns a Store whose data lives only for the life of the
// process.
func NewMemoryStore() *Store {
	return &Store{
		Trips: NewMemoryTripRepo(),
		Users: NewMemoryUserRepo(),
		Ping:  func(context.Context) error { return nil },
	}
}

// OpenPostgres connects to databaseURL, applies pending migrations and
// returns a Store backed by a pgx connection pool.
func OpenPostgres(ctx context.Context, databaseURL string) (*Store, error) {
	if err := migrate(ctx, "pgx", databaseURL, goose.DialectPostgres, migrations.Postgres); err != nil {
		return nil, fmt.Errorf("repo.OpenPostgres: %w", err)
	}

	// New() does not open connections immediately; Ping forces one so a bad
	// URL fails at startup rather than on the first request.
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("repo.OpenPostgres: create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("repo.OpenPostgres: ping: %w", err)
	}

	return &Store{
		Trips: NewTripRepo(pool),
		Users: NewUserRepo(pool),
		Ping:  pool.Ping,
		close: pool.Close,
	}, nil
}

// OpenSQLite opens (creating if needed) the database file at path, applies
// pending migrations and returns a Store backed by it.
func OpenSQLite(ctx context.Context, path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("repo.OpenSQLite: create data dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path+"?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, fmt.Errorf("repo.OpenSQLite: open: %w", err)
	}
	// One writer at a time keeps Update's read-modify-write serialised.
	db.SetMaxOpenConns(1)

	if err := runMigrations(ctx, db, goose.DialectSQLite3, migrations.SQLite); err != nil {
		db.Close()
		return nil, fmt.Errorf("repo.OpenSQLite: %w", err)
	}

	return &Store{
		Trips: NewSQLTripRepo(db),
		Users: NewSQLUserRepo(db),
		Ping:  db.PingContext,
		close: func() { db.Close() },
	}, nil
}

// migrate opens a short-lived database/sql handle for goose, which does not
// speak pgxpool, and applies every pending migration.
func migrate(ctx context.Context, driver, dsn string, dialect goose.Dialect, fsys fs.FS) error {
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return fmt.Errorf("open migration db: %w", err)
	}
	defer db.Close()
	return runMigrations(ctx, db, dialect, fsys)
}

func runMigrations(ctx context.Context, db *sql.DB, dialect goose.Dialect, fsys fs.FS) error {
	provider, err := goose.NewProvider(dialect, db, fsys)
	if err != nil {
		return fmt.Errorf("create goose provider: %w", err)
	}
	if _, err := provider.Up(ctx); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	return nil
}
