//go:build e2e

package e2e

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"timebridge/internal/adapter/credstore"
	"timebridge/internal/domain"
	"timebridge/internal/migrate"
)

func TestCredentialStore_MySQLRoundTrip(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping in short mode")
	}
	ctx := context.Background()

	// Start MySQL container
	req := testcontainers.ContainerRequest{
		Image:        "mysql:8.0",
		ExposedPorts: []string{"3306/tcp"},
		Env: map[string]string{
			"MYSQL_DATABASE":      "testdb",
			"MYSQL_ROOT_PASSWORD": "secret",
			"MYSQL_USER":          "test",
			"MYSQL_PASSWORD":      "pass",
		},
		WaitingFor: wait.ForListeningPort("3306/tcp").WithStartupTimeout(90 * time.Second),
	}
	mysqlC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		t.Fatalf("failed to start mysql container: %v", err)
	}
	t.Cleanup(func() { _ = mysqlC.Terminate(context.Background()) })

	host, err := mysqlC.Host(ctx)
	if err != nil {
		t.Fatalf("host: %v", err)
	}
	port, err := mysqlC.MappedPort(ctx, "3306/tcp")
	if err != nil {
		t.Fatalf("mapped port: %v", err)
	}
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?parseTime=true&multiStatements=true", "test", "pass", host, port.Port(), "testdb")

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	if err := migrate.Run(ctx, dsn, logger); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	remote, err := credstore.NewMySQL(ctx, dsn, "user@example.com", logger)
	if err != nil {
		t.Fatalf("mysql store: %v", err)
	}
	t.Cleanup(func() { _ = remote.Close() })

	local, err := credstore.OpenSQLite(":memory:", "user@example.com")
	if err != nil {
		t.Fatalf("sqlite store: %v", err)
	}
	t.Cleanup(func() { _ = local.Close() })

	layered := &credstore.Layered{Remote: remote, Local: local, Log: logger}

	want := domain.Credentials{
		APIKey:   "zep-token-1",
		BaseURL:  "https://zep.example.com/api/v1",
		UseProxy: true,
		ProxyURL: "https://relay.example.com",
	}
	if err := layered.Save(ctx, want); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := layered.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got != want {
		t.Fatalf("expected %+v, got %+v", want, got)
	}

	// The remote row wins over whatever is cached locally.
	if err := local.Save(ctx, domain.Credentials{APIKey: "stale", BaseURL: "https://old.example.com"}); err != nil {
		t.Fatalf("local save: %v", err)
	}
	got, err = layered.Load(ctx)
	if err != nil {
		t.Fatalf("load 2: %v", err)
	}
	if got != want {
		t.Fatalf("expected remote credentials %+v, got %+v", want, got)
	}

	// Save again to assert idempotency (upsert)
	if err := layered.Save(ctx, want); err != nil {
		t.Fatalf("save 2: %v", err)
	}
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		t.Fatalf("sql open: %v", err)
	}
	defer db.Close()

	var count int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM credentials").Scan(&count); err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 row after upsert, got %d", count)
	}
}
