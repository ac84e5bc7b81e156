package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "timebridge.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestNewManager_LoadsAndDefaults(t *testing.T) {
	path := writeConfig(t, `
time_service:
  base_url: https://time.example/api/v1
  api_key: k-123
work_item:
  base_url: https://work.example/api/v3
  api_token: t-456
  ticket_ids_field: Custom.TicketRefs
  duration_field: Custom.ActualHours
relay:
  upstream_base_url: https://time.example/api/v1
  api_key: k-123
`)
	m, err := NewManager(path, nil)
	require.NoError(t, err)

	cfg := m.Current()
	assert.Equal(t, "https://time.example/api/v1", cfg.TimeService.BaseURL)
	assert.Equal(t, "Custom.TicketRefs", cfg.WorkItem.TicketIDField)
	assert.Equal(t, ":8080", cfg.HTTPServer.Addr)
	assert.Equal(t, ":8585", cfg.Relay.Addr)
	assert.Equal(t, "*", cfg.Relay.AllowOrigin)
}

func TestNewManager_InvalidURLRejected(t *testing.T) {
	path := writeConfig(t, `
time_service:
  base_url: "not a url"
`)
	_, err := NewManager(path, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validate config")
}

func TestNewManager_MissingFile(t *testing.T) {
	_, err := NewManager(filepath.Join(t.TempDir(), "absent.yaml"), nil)
	assert.Error(t, err)
}
