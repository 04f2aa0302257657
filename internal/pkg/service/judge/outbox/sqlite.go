package outbox

import (
	"context"
	"database/sql"
	"time"

	// sqlite3 driver registration
	_ "github.com/mattn/go-sqlite3"

	"github.com/algomarket/problem-service/internal/pkg/utils/errors"
)

const schema = `
CREATE TABLE IF NOT EXISTS outbox (
	id             TEXT PRIMARY KEY,
	aggregate_id   TEXT NOT NULL UNIQUE,
	aggregate_type TEXT NOT NULL,
	payload        BLOB NOT NULL,
	created_at     TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS outbox_created_at_idx ON outbox (created_at);
`

type sqliteStore struct {
	db *sql.DB
}

// OpenDatabase opens the sqlite database file, ":memory:" creates a private in-memory database.
func OpenDatabase(dsn string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, errors.PrefixError(err, "cannot open outbox database")
	}
	// sqlite allows one writer at a time
	db.SetMaxOpenConns(1)
	return db, nil
}

// NewSQLiteStore creates a Store backed by a sqlite database, the schema is created if missing.
func NewSQLiteStore(ctx context.Context, db *sql.DB) (Store, error) {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return nil, errors.PrefixError(err, "cannot create outbox schema")
	}
	return &sqliteStore{db: db}, nil
}

func (s *sqliteStore) InsertIfAbsent(ctx context.Context, record Record) (bool, error) {
	result, err := s.db.ExecContext(
		ctx,
		`INSERT INTO outbox (id, aggregate_id, aggregate_type, payload, created_at) VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT (aggregate_id) DO NOTHING`,
		record.ID, record.AggregateID, record.AggregateType, record.Payload, record.CreatedAt.UTC(),
	)
	if err != nil {
		return false, errors.PrefixErrorf(err, `cannot insert outbox record for aggregate "%s"`, record.AggregateID)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows > 0, nil
}

func (s *sqliteStore) DeleteByAggregateID(ctx context.Context, aggregateID string) (bool, error) {
	result, err := s.db.ExecContext(ctx, `DELETE FROM outbox WHERE aggregate_id = ?`, aggregateID)
	if err != nil {
		return false, errors.PrefixErrorf(err, `cannot delete outbox record for aggregate "%s"`, aggregateID)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows > 0, nil
}

func (s *sqliteStore) FindStaleOlderThan(ctx context.Context, createdBefore time.Time, limit int) (out []Record, err error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT id, aggregate_id, aggregate_type, payload, created_at FROM outbox
		 WHERE created_at < ? ORDER BY created_at ASC LIMIT ?`,
		createdBefore.UTC(), limit,
	)
	if err != nil {
		return nil, errors.PrefixError(err, "cannot query stale outbox records")
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	for rows.Next() {
		var record Record
		if err := rows.Scan(&record.ID, &record.AggregateID, &record.AggregateType, &record.Payload, &record.CreatedAt); err != nil {
			return nil, errors.PrefixError(err, "cannot scan outbox record")
		}
		out = append(out, record)
	}
	return out, rows.Err()
}

func (s *sqliteStore) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM outbox`).Scan(&count); err != nil {
		return 0, errors.PrefixError(err, "cannot count outbox records")
	}
	return count, nil
}
