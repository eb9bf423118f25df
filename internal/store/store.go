// Package store provides SQLite persistence for ByteMe: a small settings
// table and on-disk snapshots of feed pages.
package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/abelbrown/byteme/internal/feedcache"
	"github.com/abelbrown/byteme/internal/model"
	"github.com/abelbrown/byteme/internal/store/migrations"
	_ "modernc.org/sqlite"
)

// Setting keys.
const (
	KeySessionToken = "session_token"
	KeyAdminToken   = "admin_token"
	KeyCategories   = "categories"
)

// Store handles SQLite persistence. NOT an interface - concrete type.
// Thread-safety: All methods are safe for concurrent use via internal mutex.
type Store struct {
	db  *sql.DB
	mu  sync.RWMutex
	now func() time.Time
}

// Open creates a Store at dbPath and applies pending migrations.
// Uses WAL mode for file-based databases.
func Open(dbPath string) (*Store, error) {
	connStr := dbPath
	if dbPath == ":memory:" {
		// Shared cache so every pooled connection sees the same database.
		connStr = "file::memory:?cache=shared"
	}

	db, err := sql.Open("sqlite", connStr)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if dbPath == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if dbPath != ":memory:" {
		if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
			db.Close()
			return nil, fmt.Errorf("enable WAL mode: %w", err)
		}
	}

	if err := migrations.Run(db); err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db, now: time.Now}, nil
}

// Close closes the database connection.
// Thread-safe: acquires write lock to prevent closing during in-flight operations.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}

// Get returns the value stored under key.
func (s *Store) Get(key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var v string
	err := s.db.QueryRow(`SELECT value FROM settings WHERE key = ?`, key).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get setting %q: %w", key, err)
	}
	return v, true, nil
}

// Set stores value under key, replacing any previous value.
func (s *Store) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`
		INSERT INTO settings (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`, key, value, s.now().UTC())
	if err != nil {
		return fmt.Errorf("set setting %q: %w", key, err)
	}
	return nil
}

// Delete removes key. Missing keys are not an error.
func (s *Store) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.db.Exec(`DELETE FROM settings WHERE key = ?`, key); err != nil {
		return fmt.Errorf("delete setting %q: %w", key, err)
	}
	return nil
}

// Token implements api.TokenSource over the stored session token.
func (s *Store) Token() string {
	v, _, _ := s.Get(KeySessionToken)
	return v
}

// Categories returns the locally stored category selection.
func (s *Store) Categories() ([]string, error) {
	v, ok, err := s.Get(KeyCategories)
	if err != nil || !ok || v == "" {
		return nil, err
	}
	var ids []string
	if err := json.Unmarshal([]byte(v), &ids); err != nil {
		// Older builds stored a comma list.
		return strings.Split(v, ","), nil
	}
	return ids, nil
}

// SetCategories stores the category selection locally.
func (s *Store) SetCategories(ids []string) error {
	if ids == nil {
		ids = []string{}
	}
	b, err := json.Marshal(ids)
	if err != nil {
		return err
	}
	return s.Set(KeyCategories, string(b))
}

// LoadSnapshot implements feedcache.Persister.
func (s *Store) LoadSnapshot(namespace, key string) (feedcache.Entry, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var (
		raw     string
		e       feedcache.Entry
		hasMore int
	)
	err := s.db.QueryRow(`
		SELECT items, next_offset, has_more, fetched_at
		FROM feed_snapshots
		WHERE namespace = ? AND cache_key = ?
	`, namespace, key).Scan(&raw, &e.Offset, &hasMore, &e.Timestamp)
	if errors.Is(err, sql.ErrNoRows) {
		return feedcache.Entry{}, false, nil
	}
	if err != nil {
		return feedcache.Entry{}, false, fmt.Errorf("load snapshot %s/%s: %w", namespace, key, err)
	}

	var items []model.FeedItem
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return feedcache.Entry{}, false, fmt.Errorf("decode snapshot %s/%s: %w", namespace, key, err)
	}
	for i := range items {
		items[i].Published = model.ParseTimestamp(items[i].PublishedAt)
	}
	e.Items = items
	e.HasMore = hasMore != 0
	return e, true, nil
}

// SaveSnapshot implements feedcache.Persister.
func (s *Store) SaveSnapshot(namespace, key string, e feedcache.Entry) error {
	b, err := json.Marshal(e.Items)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, err = s.db.Exec(`
		INSERT INTO feed_snapshots (namespace, cache_key, items, next_offset, has_more, fetched_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(namespace, cache_key) DO UPDATE SET
			items = excluded.items,
			next_offset = excluded.next_offset,
			has_more = excluded.has_more,
			fetched_at = excluded.fetched_at
	`, namespace, key, string(b), e.Offset, boolToInt(e.HasMore), e.Timestamp.UTC())
	if err != nil {
		return fmt.Errorf("save snapshot %s/%s: %w", namespace, key, err)
	}
	return nil
}

// ClearSnapshots deletes stored pages for namespace, or all of them when
// namespace is empty. Returns the number removed.
func (s *Store) ClearSnapshots(namespace string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var (
		res sql.Result
		err error
	)
	if namespace == "" {
		res, err = s.db.Exec(`DELETE FROM feed_snapshots`)
	} else {
		res, err = s.db.Exec(`DELETE FROM feed_snapshots WHERE namespace = ?`, namespace)
	}
	if err != nil {
		return 0, fmt.Errorf("clear snapshots: %w", err)
	}
	return res.RowsAffected()
}

// PruneSnapshots deletes snapshots fetched before cutoff.
func (s *Store) PruneSnapshots(cutoff time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.Exec(`DELETE FROM feed_snapshots WHERE fetched_at < ?`, cutoff.UTC())
	if err != nil {
		return 0, fmt.Errorf("prune snapshots: %w", err)
	}
	return res.RowsAffected()
}

// SnapshotCount returns the number of stored pages.
func (s *Store) SnapshotCount() (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var n int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM feed_snapshots`).Scan(&n)
	return n, err
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
