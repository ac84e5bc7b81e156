package credstore

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"timebridge/internal/domain"
)

// DefaultKey is the well-known key credentials are stored under when no
// user scope applies.
const DefaultKey = "default"

// SQLite is the local credential store, the fallback layer when no remote
// store is configured or reachable.
type SQLite struct {
	db  *sql.DB
	key string
}

// OpenSQLite opens (and if needed creates) the local store at path.
// ":memory:" is accepted for tests.
func OpenSQLite(path, key string) (*SQLite, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("creating credential store directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening credential store: %w", err)
	}
	const ddl = `CREATE TABLE IF NOT EXISTS credentials (
		store_key  TEXT PRIMARY KEY,
		api_key    TEXT NOT NULL,
		base_url   TEXT NOT NULL,
		use_proxy  INTEGER NOT NULL DEFAULT 0,
		proxy_url  TEXT NOT NULL DEFAULT '',
		updated_at TEXT NOT NULL
	)`
	if _, err := db.Exec(ddl); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating credentials table: %w", err)
	}
	if key == "" {
		key = DefaultKey
	}
	return &SQLite{db: db, key: key}, nil
}

func (s *SQLite) Load(ctx context.Context) (domain.Credentials, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT api_key, base_url, use_proxy, proxy_url FROM credentials WHERE store_key = ?`, s.key)
	var c domain.Credentials
	var useProxy int
	if err := row.Scan(&c.APIKey, &c.BaseURL, &useProxy, &c.ProxyURL); err != nil {
		if err == sql.ErrNoRows {
			return domain.Credentials{}, domain.NewError(domain.ErrConfig, "no credentials saved")
		}
		return domain.Credentials{}, fmt.Errorf("loading credentials: %w", err)
	}
	c.UseProxy = useProxy != 0
	return c, nil
}

// Save overwrites the stored credentials wholesale.
func (s *SQLite) Save(ctx context.Context, c domain.Credentials) error {
	useProxy := 0
	if c.UseProxy {
		useProxy = 1
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO credentials (store_key, api_key, base_url, use_proxy, proxy_url, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		s.key, c.APIKey, c.BaseURL, useProxy, c.ProxyURL, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("saving credentials: %w", err)
	}
	return nil
}

func (s *SQLite) Close() error { return s.db.Close() }
