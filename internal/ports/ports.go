package ports

import (
	"context"

	"timebridge/internal/domain"
)

// TimeService defines methods to fetch entries and ticket metadata from the
// time-tracking API.
type TimeService interface {
	ListEntriesForTicket(ctx context.Context, ticketID string, f domain.Filter) ([]domain.TimeEntry, error)
	GetTicketDetails(ctx context.Context, ticketID string) (domain.TicketDetails, error)
}

// FieldBridge reads and writes a work item's custom fields. Field names are
// configuration on the adapter, not part of this contract.
type FieldBridge interface {
	ReadTicketIDs(ctx context.Context, workItemID string) ([]string, error)
	WriteDuration(ctx context.Context, workItemID string, totalHours float64) error
	ValidateFields(ctx context.Context, workItemID string) domain.FieldPresence
}

// CredentialStore persists time-service credentials under a single
// well-known key. Implementations may layer a user-scoped remote store over
// a local fallback but present one merged read/write surface.
type CredentialStore interface {
	Load(ctx context.Context) (domain.Credentials, error)
	Save(ctx context.Context, creds domain.Credentials) error
}
