package seen

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/albapepper/dci-recap/internal/db"
)

// insertBatch bounds the rows per INSERT statement.
const insertBatch = 500

// PostgresStore keeps the record in the seen_events table of a shared pool.
type PostgresStore struct {
	pool *db.Pool
}

// NewPostgresStore wraps an open pool. The pool's owner closes it.
func NewPostgresStore(pool *db.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

func (s *PostgresStore) Load(ctx context.Context) (*Record, error) {
	rows, err := s.pool.Query(ctx, db.StmtSeenList)
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

// Persist inserts entries not yet stored, in record order, within one
// transaction.
func (s *PostgresStore) Persist(ctx context.Context, r *Record) error {
	if r.Len() == 0 {
		return nil
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return s.fail("persist", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	for start := 0; start < len(r.entries); start += insertBatch {
		end := min(start+insertBatch, len(r.entries))

		b := sq.Insert(seenTable).
			Columns("id", "name", "event_date").
			Suffix("ON CONFLICT (id) DO NOTHING").
			PlaceholderFormat(sq.Dollar)
		for _, e := range r.entries[start:end] {
			b = b.Values(e.ID, e.Name, e.Date)
		}

		query, args, err := b.ToSql()
		if err != nil {
			return s.fail("persist", err)
		}
		if _, err := tx.Exec(ctx, query, args...); err != nil {
			return s.fail("persist", fmt.Errorf("insert rows %d-%d: %w", start, end-1, err))
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return s.fail("persist", err)
	}
	return nil
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	if err := s.pool.HealthCheck(ctx); err != nil {
		return s.fail("ping", err)
	}
	return nil
}

// Close is a no-op; the pool is shared.
func (s *PostgresStore) Close() error { return nil }

func (s *PostgresStore) fail(op string, err error) error {
	return &StorageError{Op: op, Err: err}
}
