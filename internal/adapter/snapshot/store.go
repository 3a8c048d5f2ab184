// Package snapshot persists normalized cache snapshots so the console can
// start warm. SQLite serves local use; PostgreSQL serves shared setups.
package snapshot

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"log/slog"
	"time"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/jackc/pgx/v5/stdlib" // pgx driver for database/sql
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"
)

//go:embed migrations
var migrations embed.FS

const table = "store_snapshots"

// Supported drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config selects the backing database.
type Config struct {
	Driver   string
	DSN      string
	Compress bool
}

// Store reads and writes snapshots.
type Store struct {
	db       *sql.DB
	driver   string
	builder  sq.StatementBuilderType
	compress bool
	log      *slog.Logger
}

// Open connects to the database and applies pending migrations.
func Open(ctx context.Context, log *slog.Logger, cfg Config) (*Store, error) {
	var (
		driverName  string
		dialect     goose.Dialect
		placeholder sq.PlaceholderFormat
	)
	switch cfg.Driver {
	case DriverSQLite:
		driverName, dialect, placeholder = "sqlite", goose.DialectSQLite3, sq.Question
	case DriverPostgres:
		driverName, dialect, placeholder = "pgx", goose.DialectPostgres, sq.Dollar
	default:
		return nil, fmt.Errorf("snapshot driver %q: unsupported", cfg.Driver)
	}

	db, err := sql.Open(driverName, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", cfg.Driver, err)
	}
	if cfg.Driver == DriverSQLite {
		// One writer at a time; avoids SQLITE_BUSY between pooled connections.
		db.SetMaxOpenConns(1)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping %s: %w", cfg.Driver, err)
	}

	if err := migrate(ctx, db, dialect, cfg.Driver); err != nil {
		db.Close()
		return nil, err
	}

	return &Store{
		db:       db,
		driver:   cfg.Driver,
		builder:  sq.StatementBuilder.PlaceholderFormat(placeholder),
		compress: cfg.Compress,
		log:      log.With("component", "snapshot", "driver", cfg.Driver),
	}, nil
}

func migrate(ctx context.Context, db *sql.DB, dialect goose.Dialect, dir string) error {
	fsys, err := fs.Sub(migrations, "migrations/"+dir)
	if err != nil {
		return fmt.Errorf("migrations for %s: %w", dir, err)
	}
	provider, err := goose.NewProvider(dialect, db, fsys)
	if err != nil {
		return fmt.Errorf("goose new provider: %w", err)
	}
	if _, err := provider.Up(ctx); err != nil {
		return fmt.Errorf("goose up: %w", err)
	}
	return nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Info describes a stored snapshot.
type Info struct {
	Name       string    `json:"name"       yaml:"name"`
	Records    int       `json:"records"    yaml:"records"`
	Compressed bool      `json:"compressed" yaml:"compressed"`
	Bytes      int       `json:"bytes"      yaml:"bytes"`
	Checksum   string    `json:"checksum"   yaml:"checksum"`
	SavedAt    time.Time `json:"savedAt"    yaml:"savedAt"`
}

// Ping checks the database connection.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}
