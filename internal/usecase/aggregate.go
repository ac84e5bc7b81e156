package usecase

import (
	"context"
	"log/slog"
	"strings"

	"timebridge/internal/domain"
	"timebridge/internal/ports"
)

// AggregateOptions toggles optional parts of a run.
type AggregateOptions struct {
	// IncludeDetails fetches per-ticket metadata and builds one
	// TicketSummary per ticket id, zero-valued for tickets without entries.
	IncludeDetails bool
}

// Aggregator drives the time service across a set of ticket ids and reduces
// the fetched entries into one TimeEntrySummary.
type Aggregator struct {
	Log  *slog.Logger
	Time ports.TimeService
}

// Aggregate processes ticket ids sequentially, preserving input order.
// A connectivity, auth or unclassified failure on any ticket aborts the run;
// a per-ticket not-found is recorded and skipped. Zero entries across all
// tickets is a no-data error, never an empty summary.
func (a *Aggregator) Aggregate(ctx context.Context, ticketIDs []string, f domain.Filter, opts AggregateOptions) (*domain.TimeEntrySummary, error) {
	ids := filterTicketIDs(ticketIDs, f.TicketID)
	if len(ids) == 0 {
		return nil, domain.NewNoDataError(ticketIDs)
	}

	var entries []domain.TimeEntry
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		got, err := a.Time.ListEntriesForTicket(ctx, id, f)
		if err != nil {
			if domain.IsFatal(err) {
				return nil, err
			}
			a.Log.Warn("skipping ticket",
				slog.String("ticket_id", id),
				slog.String("error", err.Error()),
			)
			continue
		}
		entries = append(entries, got...)
		a.Log.Debug("fetched entries for ticket",
			slog.String("ticket_id", id),
			slog.Int("count", len(got)),
		)
	}
	if len(entries) == 0 {
		return nil, domain.NewNoDataError(ticketIDs)
	}

	var total float64
	for _, e := range entries {
		total += e.Duration
	}
	summary := &domain.TimeEntrySummary{
		TotalEntries: len(entries),
		TotalHours:   domain.RoundHours(total),
		TicketIDs:    ticketIDs,
		DateRange:    domain.EntryDateRange(entries),
	}

	if opts.IncludeDetails {
		df := &DetailFetcher{Log: a.Log, Time: a.Time}
		details := df.FetchManyTicketDetails(ctx, ids)
		summary.TicketSummaries = buildTicketSummaries(ids, details, entries)
		for _, ts := range summary.TicketSummaries {
			summary.TotalPlannedHours += ts.PlannedHours
		}
	}
	return summary, nil
}

// filterTicketIDs applies the substring filter before any fetch is
// attempted, so excluded tickets cost no network round trips.
func filterTicketIDs(ids []string, substr string) []string {
	if substr == "" {
		return ids
	}
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if strings.Contains(id, substr) {
			out = append(out, id)
		}
	}
	return out
}

// buildTicketSummaries joins details with entries by ticket id, one summary
// per input id in input order. Tickets without entries get zero values.
func buildTicketSummaries(ids []string, details []domain.TicketDetails, entries []domain.TimeEntry) []domain.TicketSummary {
	hours := make(map[string]float64, len(ids))
	counts := make(map[string]int, len(ids))
	for _, e := range entries {
		hours[e.TicketID] += e.Duration
		counts[e.TicketID]++
	}
	out := make([]domain.TicketSummary, 0, len(ids))
	for i, id := range ids {
		d := details[i]
		out = append(out, domain.TicketSummary{
			TicketID:     id,
			PlannedHours: d.PlannedHours,
			ActualHours:  hours[id],
			EntryCount:   counts[id],
			Details:      &d,
		})
	}
	return out
}
