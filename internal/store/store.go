// Package store caches n-gram tables in SQLite so repeated runs over the same
// corpus skip extraction.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/verte-zerg/layopt/internal/ngram"

	_ "modernc.org/sqlite" // SQLite driver.
)

// timeFormat is fixed width so stored timestamps sort as text.
const timeFormat = "2006-01-02T15:04:05.000000000Z07:00"

// Key identifies one cached table: the corpus content, the gram size and the
// substitutions applied before counting.
type Key struct {
	Digest string
	N      int
	Subs   string
}

func (k Key) String() string {
	return fmt.Sprintf("%.12s/n%d/%.8s", k.Digest, k.N, k.Subs)
}

// SetInfo describes a cached table.
type SetInfo struct {
	Key       Key
	Grams     int
	Total     uint64
	CreatedAt time.Time
}

// Store wraps SQLite access for cached n-gram tables.
type Store struct {
	db *sql.DB
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS ngram_sets (
			id INTEGER PRIMARY KEY,
			digest TEXT NOT NULL,
			n INTEGER NOT NULL,
			subs TEXT NOT NULL,
			grams INTEGER NOT NULL,
			total INTEGER NOT NULL,
			created_at TEXT NOT NULL,
			UNIQUE (digest, n, subs)
		);`,
		`CREATE TABLE IF NOT EXISTS ngram_counts (
			set_id INTEGER NOT NULL,
			gram TEXT NOT NULL,
			count INTEGER NOT NULL,
			PRIMARY KEY (set_id, gram)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_ngram_sets_created_at ON ngram_sets(created_at);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// Load returns the cached table for key. The boolean is false when nothing is
// cached.
func (s *Store) Load(ctx context.Context, key Key) (*ngram.Table, bool, error) {
	var id int64
	err := s.db.QueryRowContext(ctx,
		`SELECT id FROM ngram_sets WHERE digest = ? AND n = ? AND subs = ?`,
		key.Digest, key.N, key.Subs,
	).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	rows, err := s.db.QueryContext(ctx, `SELECT gram, count FROM ngram_counts WHERE set_id = ?`, id)
	if err != nil {
		return nil, false, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	counts := make(map[string]uint64)
	for rows.Next() {
		var gram string
		var count int64
		if err := rows.Scan(&gram, &count); err != nil {
			return nil, false, err
		}
		if count < 0 {
			return nil, false, fmt.Errorf("cached count for %q is negative", gram)
		}
		counts[gram] = uint64(count)
	}
	if err := rows.Err(); err != nil {
		return nil, false, err
	}
	return ngram.FromCounts(key.N, counts), true, nil
}

// Save replaces whatever is cached under key with tbl.
func (s *Store) Save(ctx context.Context, key Key, tbl *ngram.Table) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				// Best-effort rollback.
				_ = rerr
			}
		}
	}()

	if _, err = tx.ExecContext(ctx,
		`DELETE FROM ngram_counts WHERE set_id IN (SELECT id FROM ngram_sets WHERE digest = ? AND n = ? AND subs = ?)`,
		key.Digest, key.N, key.Subs); err != nil {
		return err
	}
	if _, err = tx.ExecContext(ctx,
		`DELETE FROM ngram_sets WHERE digest = ? AND n = ? AND subs = ?`,
		key.Digest, key.N, key.Subs); err != nil {
		return err
	}

	res, err := tx.ExecContext(ctx,
		`INSERT INTO ngram_sets (digest, n, subs, grams, total, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		key.Digest, key.N, key.Subs, tbl.Len(), int64(tbl.Total()), time.Now().UTC().Format(timeFormat))
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}

	if tbl.Len() > 0 {
		stmt, perr := tx.PrepareContext(ctx, `INSERT INTO ngram_counts (set_id, gram, count) VALUES (?, ?, ?)`)
		if perr != nil {
			err = perr
			return err
		}
		defer func() {
			if cerr := stmt.Close(); cerr != nil {
				// Best-effort statement close.
				_ = cerr
			}
		}()
		for _, e := range tbl.Entries() {
			if _, err = stmt.ExecContext(ctx, id, e.Gram, int64(e.Count)); err != nil {
				return err
			}
		}
	}

	err = tx.Commit()
	return err
}

// List returns every cached table, newest first.
func (s *Store) List(ctx context.Context) ([]SetInfo, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT digest, n, subs, grams, total, created_at FROM ngram_sets ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var sets []SetInfo
	for rows.Next() {
		var info SetInfo
		var total int64
		var createdAt string
		if err := rows.Scan(&info.Key.Digest, &info.Key.N, &info.Key.Subs, &info.Grams, &total, &createdAt); err != nil {
			return nil, err
		}
		parsed, err := time.Parse(timeFormat, createdAt)
		if err != nil {
			return nil, err
		}
		info.Total = uint64(total)
		info.CreatedAt = parsed
		sets = append(sets, info)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return sets, nil
}

// Prune drops every cached table except the keep most recent.
func (s *Store) Prune(ctx context.Context, keep int) (int64, error) {
	if keep < 0 {
		keep = 0
	}
	const stale = `SELECT id FROM ngram_sets ORDER BY created_at DESC, id DESC LIMIT -1 OFFSET ?`
	if _, err := s.db.ExecContext(ctx, `DELETE FROM ngram_counts WHERE set_id IN (`+stale+`)`, keep); err != nil {
		return 0, err
	}
	res, err := s.db.ExecContext(ctx, `DELETE FROM ngram_sets WHERE id IN (`+stale+`)`, keep)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
