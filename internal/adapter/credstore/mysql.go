package credstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/go-sql-driver/mysql"

	"timebridge/internal/domain"
)

// MySQL is the organization-scoped remote credential store: one row per
// user key, shared across machines.
type MySQL struct {
	db  *sql.DB
	key string
	log *slog.Logger
}

// NewMySQL opens a MySQL connection using the provided DSN. The credentials
// table is created by internal/migrate before this is called.
// Example DSN: user:pass@tcp(host:3306)/dbname?parseTime=true&multiStatements=true
func NewMySQL(ctx context.Context, dsn, key string, log *slog.Logger) (*MySQL, error) {
	if dsn == "" {
		return nil, errors.New("credstore: mysql DSN is required")
	}
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	c, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(c); err != nil {
		db.Close()
		return nil, err
	}
	if key == "" {
		key = DefaultKey
	}
	return &MySQL{db: db, key: key, log: log}, nil
}

func (m *MySQL) Load(ctx context.Context) (domain.Credentials, error) {
	row := m.db.QueryRowContext(ctx,
		`SELECT api_key, base_url, use_proxy, proxy_url FROM credentials WHERE store_key = ?`, m.key)
	var c domain.Credentials
	if err := row.Scan(&c.APIKey, &c.BaseURL, &c.UseProxy, &c.ProxyURL); err != nil {
		if err == sql.ErrNoRows {
			return domain.Credentials{}, domain.NewError(domain.ErrConfig, "no credentials saved")
		}
		return domain.Credentials{}, fmt.Errorf("loading credentials: %w", err)
	}
	return c, nil
}

// Save upserts the single row for this key; credentials are overwritten
// wholesale, never merged.
func (m *MySQL) Save(ctx context.Context, c domain.Credentials) error {
	const q = `
INSERT INTO credentials (store_key, api_key, base_url, use_proxy, proxy_url, updated_at)
VALUES (?, ?, ?, ?, ?, ?)
ON DUPLICATE KEY UPDATE
  api_key=VALUES(api_key),
  base_url=VALUES(base_url),
  use_proxy=VALUES(use_proxy),
  proxy_url=VALUES(proxy_url),
  updated_at=VALUES(updated_at);
`
	if _, err := m.db.ExecContext(ctx, q,
		m.key, c.APIKey, c.BaseURL, c.UseProxy, c.ProxyURL, time.Now().UTC()); err != nil {
		return fmt.Errorf("saving credentials: %w", err)
	}
	m.log.Info("credentials saved to remote store", slog.String("key", m.key))
	return nil
}

func (m *MySQL) Close() error { return m.db.Close() }
