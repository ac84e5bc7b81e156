package credstore

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"timebridge/internal/domain"
)

// memStore is an in-memory ports.CredentialStore for layering tests.
type memStore struct {
	creds *domain.Credentials
	err   error
	saves int
}

func (m *memStore) Load(context.Context) (domain.Credentials, error) {
	if m.err != nil {
		return domain.Credentials{}, m.err
	}
	if m.creds == nil {
		return domain.Credentials{}, domain.NewError(domain.ErrConfig, "no credentials saved")
	}
	return *m.creds, nil
}

func (m *memStore) Save(_ context.Context, c domain.Credentials) error {
	if m.err != nil {
		return m.err
	}
	m.creds = &c
	m.saves++
	return nil
}

func discard() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func TestLayered_LoadPrefersRemote(t *testing.T) {
	remote := &memStore{creds: &domain.Credentials{APIKey: "remote", BaseURL: "https://r"}}
	local := &memStore{creds: &domain.Credentials{APIKey: "local", BaseURL: "https://l"}}
	l := &Layered{Remote: remote, Local: local, Log: discard()}

	got, err := l.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "remote", got.APIKey)
}

func TestLayered_LoadFallsBackToLocal(t *testing.T) {
	remote := &memStore{err: errors.New("dial tcp: refused")}
	local := &memStore{creds: &domain.Credentials{APIKey: "local", BaseURL: "https://l"}}
	l := &Layered{Remote: remote, Local: local, Log: discard()}

	got, err := l.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "local", got.APIKey)
}

func TestLayered_LoadWithoutRemote(t *testing.T) {
	local := &memStore{creds: &domain.Credentials{APIKey: "local", BaseURL: "https://l"}}
	l := &Layered{Local: local, Log: discard()}

	got, err := l.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "local", got.APIKey)
}

func TestLayered_SaveWritesBothLayers(t *testing.T) {
	remote := &memStore{}
	local := &memStore{}
	l := &Layered{Remote: remote, Local: local, Log: discard()}

	require.NoError(t, l.Save(context.Background(), domain.Credentials{APIKey: "k", BaseURL: "https://b"}))
	assert.Equal(t, 1, remote.saves)
	assert.Equal(t, 1, local.saves)
}

func TestLayered_SaveSucceedsWhenRemoteFails(t *testing.T) {
	remote := &memStore{err: errors.New("dial tcp: refused")}
	local := &memStore{}
	l := &Layered{Remote: remote, Local: local, Log: discard()}

	require.NoError(t, l.Save(context.Background(), domain.Credentials{APIKey: "k", BaseURL: "https://b"}))
	assert.Equal(t, 1, local.saves)
}
