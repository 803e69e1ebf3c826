package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/glabrego/feedsync/internal/feedapi"
)

// Repository caches the last known subscription list so the client can
// show it before the service answers. The service stays the source of truth.
type Repository struct {
	db  *sql.DB
	now func() time.Time
}

func NewRepository(path string) (*Repository, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	db.SetMaxOpenConns(1)
	return &Repository{db: db, now: time.Now}, nil
}

func (r *Repository) Close() error {
	if r == nil || r.db == nil {
		return nil
	}
	return r.db.Close()
}

func (r *Repository) Init(ctx context.Context) error {
	const schema = `
CREATE TABLE IF NOT EXISTS subscriptions (
  url TEXT PRIMARY KEY,
  title TEXT NOT NULL,
  position INTEGER NOT NULL,
  cached_at TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS cache_meta (
  key TEXT PRIMARY KEY,
  value TEXT NOT NULL
);
`
	if _, err := r.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// CheckWritable fails early when the cache file cannot be written.
func (r *Repository) CheckWritable(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO cache_meta (key, value) VALUES ('write_check', ?)
ON CONFLICT(key) DO UPDATE SET value=excluded.value
`, r.now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("write check: %w", err)
	}
	return nil
}

// SaveSubscriptions replaces the cached list, keeping the given order.
func (r *Repository) SaveSubscriptions(ctx context.Context, subs []feedapi.Subscription) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM subscriptions`); err != nil {
		return fmt.Errorf("clear subscriptions: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
INSERT INTO subscriptions (url, title, position, cached_at)
VALUES (?, ?, ?, ?)
ON CONFLICT(url) DO NOTHING
`)
	if err != nil {
		return fmt.Errorf("prepare save statement: %w", err)
	}
	defer stmt.Close()

	now := r.now().UTC().Format(time.RFC3339Nano)
	for i, sub := range subs {
		if _, err := stmt.ExecContext(ctx, sub.URL, sub.Title, i, now); err != nil {
			return fmt.Errorf("save subscription %q: %w", sub.URL, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// UpsertSubscription appends sub at the end of the list. An existing URL is
// left untouched; subscriptions are never mutated in place.
func (r *Repository) UpsertSubscription(ctx context.Context, sub feedapi.Subscription) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO subscriptions (url, title, position, cached_at)
VALUES (?, ?, (SELECT COALESCE(MAX(position), -1) + 1 FROM subscriptions), ?)
ON CONFLICT(url) DO NOTHING
`, sub.URL, sub.Title, r.now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("save subscription %q: %w", sub.URL, err)
	}
	return nil
}

func (r *Repository) DeleteSubscription(ctx context.Context, url string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM subscriptions WHERE url = ?`, url); err != nil {
		return fmt.Errorf("delete subscription %q: %w", url, err)
	}
	return nil
}

func (r *Repository) ListSubscriptions(ctx context.Context) ([]feedapi.Subscription, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT url, title
FROM subscriptions
ORDER BY position ASC
`)
	if err != nil {
		return nil, fmt.Errorf("query subscriptions: %w", err)
	}
	defer rows.Close()

	subs := make([]feedapi.Subscription, 0, 16)
	for rows.Next() {
		var sub feedapi.Subscription
		if err := rows.Scan(&sub.URL, &sub.Title); err != nil {
			return nil, fmt.Errorf("scan subscription: %w", err)
		}
		subs = append(subs, sub)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}
	return subs, nil
}

// LastSync returns when the cached list was last replaced from the service.
func (r *Repository) LastSync(ctx context.Context) (time.Time, bool, error) {
	var raw string
	err := r.db.QueryRowContext(ctx, `SELECT value FROM cache_meta WHERE key = 'last_sync'`).Scan(&raw)
	if err == sql.ErrNoRows {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, fmt.Errorf("query last sync: %w", err)
	}
	at, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("parse last sync %q: %w", raw, err)
	}
	return at, true, nil
}

// MarkSynced records a successful full refresh.
func (r *Repository) MarkSynced(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO cache_meta (key, value) VALUES ('last_sync', ?)
ON CONFLICT(key) DO UPDATE SET value=excluded.value
`, r.now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("mark synced: %w", err)
	}
	return nil
}
