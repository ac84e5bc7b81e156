package usecase

import (
	"context"
	"log/slog"

	"timebridge/internal/domain"
	"timebridge/internal/ports"
)

// DetailFetcher retrieves per-ticket metadata. Planned-hours display is
// best-effort: a missing or deleted ticket must not block duration
// aggregation, so every failure is swallowed into a fallback record.
type DetailFetcher struct {
	Log  *slog.Logger
	Time ports.TimeService
}

// FetchTicketDetails never fails; on any error it substitutes the
// placeholder record carrying the unavailability reason.
func (f *DetailFetcher) FetchTicketDetails(ctx context.Context, ticketID string) domain.TicketDetails {
	d, err := f.Time.GetTicketDetails(ctx, ticketID)
	if err != nil {
		f.Log.Debug("ticket details unavailable",
			slog.String("ticket_id", ticketID),
			slog.String("error", err.Error()),
		)
		return domain.FallbackTicketDetails(ticketID, err.Error())
	}
	return d
}

// FetchManyTicketDetails fetches sequentially, one fallback substitution per
// failing id. The result has one element per input id, in input order.
func (f *DetailFetcher) FetchManyTicketDetails(ctx context.Context, ticketIDs []string) []domain.TicketDetails {
	out := make([]domain.TicketDetails, 0, len(ticketIDs))
	for _, id := range ticketIDs {
		out = append(out, f.FetchTicketDetails(ctx, id))
	}
	return out
}
