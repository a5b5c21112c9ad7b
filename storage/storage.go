package storage

import (
	"context"
	"database/sql"
	"time"
)

const DefaultListLimit = 50

type Storage struct {
	DB *sql.DB
}

func (s *Storage) InitSchema(ctx context.Context) error {
	query := `
	CREATE TABLE IF NOT EXISTS lookups (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		version TEXT NOT NULL,
		dependencies INTEGER NOT NULL,
		looked_up_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS lookups_looked_up_at ON lookups (looked_up_at);`
	_, err := s.DB.ExecContext(ctx, query)
	return err
}

func (s *Storage) RecordLookup(ctx context.Context, l Lookup) (int64, error) {
	if l.LookedUpAt.IsZero() {
		l.LookedUpAt = time.Now()
	}

	res, err := s.DB.ExecContext(ctx,
		`INSERT INTO lookups (name, version, dependencies, looked_up_at) VALUES (?, ?, ?, ?)`,
		l.Name, l.Version, l.Dependencies, l.LookedUpAt.UTC().UnixNano(),
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// ListLookups returns the most recent lookups first. An empty name matches all crates.
func (s *Storage) ListLookups(ctx context.Context, name string, limit int) ([]Lookup, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}

	query := `
		SELECT id, name, version, dependencies, looked_up_at
		FROM lookups
		WHERE 1=1
	`
	var args []any

	if name != "" {
		query += " AND name = ?"
		args = append(args, name)
	}

	query += " ORDER BY looked_up_at DESC, id DESC LIMIT ?"
	args = append(args, limit)

	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := []Lookup{}
	for rows.Next() {
		var (
			l  Lookup
			ts int64
		)
		if err := rows.Scan(&l.ID, &l.Name, &l.Version, &l.Dependencies, &ts); err != nil {
			return nil, err
		}
		l.LookedUpAt = time.Unix(0, ts).UTC()
		list = append(list, l)
	}
	return list, rows.Err()
}

// PruneLookups deletes lookups recorded strictly before the cutoff.
func (s *Storage) PruneLookups(ctx context.Context, before time.Time) (int64, error) {
	res, err := s.DB.ExecContext(ctx,
		`DELETE FROM lookups WHERE looked_up_at < ?`,
		before.UTC().UnixNano())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
