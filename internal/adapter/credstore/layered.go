package credstore

import (
	"context"
	"log/slog"

	"timebridge/internal/domain"
	"timebridge/internal/ports"
)

// Layered merges a user-scoped remote store over a local fallback into one
// read/write surface. Remote may be nil when no DSN is configured.
type Layered struct {
	Remote ports.CredentialStore
	Local  ports.CredentialStore
	Log    *slog.Logger
}

// Load prefers the remote store; on any remote failure it falls back to the
// local copy.
func (l *Layered) Load(ctx context.Context) (domain.Credentials, error) {
	if l.Remote != nil {
		c, err := l.Remote.Load(ctx)
		if err == nil {
			return c, nil
		}
		l.Log.Debug("remote credential load failed, using local fallback",
			slog.String("error", err.Error()))
	}
	return l.Local.Load(ctx)
}

// Save writes both layers, best effort on the remote: the save succeeds as
// long as the local write lands, so a flaky remote never loses credentials.
func (l *Layered) Save(ctx context.Context, c domain.Credentials) error {
	if l.Remote != nil {
		if err := l.Remote.Save(ctx, c); err != nil {
			l.Log.Warn("remote credential save failed",
				slog.String("error", err.Error()))
		}
	}
	return l.Local.Save(ctx, c)
}
