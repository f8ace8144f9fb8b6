package seen

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"log/slog"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var embedMigrations embed.FS

const seenTable = "seen_events"

// SQLiteStore keeps the record in a SQLite table migrated with goose.
type SQLiteStore struct {
	db   *sql.DB
	path string
}

// OpenSQLite opens (creating if needed) the database at path and applies
// pending migrations.
func OpenSQLite(path string, logger *slog.Logger) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, &StorageError{Op: "open", Path: path, Err: err}
	}
	// One writer; the cycle never overlaps itself.
	db.SetMaxOpenConns(1)

	for _, pragma := range []string{"journal_mode = WAL", "busy_timeout = 5000", "synchronous = NORMAL"} {
		if _, err := db.Exec("PRAGMA " + pragma); err != nil {
			db.Close()
			return nil, &StorageError{Op: "open", Path: path, Err: fmt.Errorf("pragma %s: %w", pragma, err)}
		}
	}

	if err := migrate(db); err != nil {
		db.Close()
		return nil, &StorageError{Op: "migrate", Path: path, Err: err}
	}

	logger.Info("seen store opened", "driver", "sqlite", "path", path)
	return &SQLiteStore{db: db, path: path}, nil
}

func migrate(db *sql.DB) error {
	goose.SetBaseFS(embedMigrations)
	goose.SetLogger(goose.NopLogger())
	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}
	if err := goose.Up(db, "migrations"); err != nil {
		return fmt.Errorf("run goose migrations: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Load(ctx context.Context) (*Record, error) {
	query, args, err := sq.Select("name", "event_date", "id").
		From(seenTable).
		OrderBy("position").
		ToSql()
	if err != nil {
		return nil, s.fail("load", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, s.fail("load", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.Name, &e.Date, &e.ID); err != nil {
			return nil, s.fail("load", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, s.fail("load", err)
	}

	r, err := fromEntries(entries)
	if err != nil {
		return nil, s.fail("load", err)
	}
	return r, nil
}

// Persist inserts any entries not yet stored. Existing rows are left alone
// so the table keeps its original insertion order.
func (s *SQLiteStore) Persist(ctx context.Context, r *Record) error {
	if r.Len() == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return s.fail("persist", err)
	}
	defer tx.Rollback() //nolint:errcheck

	for _, e := range r.entries {
		query, args, err := sq.Insert(seenTable).
			Options("OR IGNORE").
			Columns("id", "name", "event_date").
			Values(e.ID, e.Name, e.Date).
			ToSql()
		if err != nil {
			return s.fail("persist", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return s.fail("persist", fmt.Errorf("insert %s: %w", e.ID, err))
		}
	}

	if err := tx.Commit(); err != nil {
		return s.fail("persist", err)
	}
	return nil
}

func (s *SQLiteStore) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return s.fail("ping", err)
	}
	return nil
}

func (s *SQLiteStore) Close() error { return s.db.Close() }

func (s *SQLiteStore) fail(op string, err error) error {
	return &StorageError{Op: op, Path: s.path, Err: err}
}
