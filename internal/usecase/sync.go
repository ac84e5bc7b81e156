package usecase

import (
	"context"
	"errors"
	"log/slog"

	"timebridge/internal/domain"
	"timebridge/internal/ports"
)

// SyncUseCase coordinates one integration run: read the ticket-id list from
// the work item, aggregate entries from the time service, write the total
// hours back into the duration field.
type SyncUseCase struct {
	Log    *slog.Logger
	Fields ports.FieldBridge
	Agg    *Aggregator
}

func (uc *SyncUseCase) Run(ctx context.Context, workItemID string, f domain.Filter, opts AggregateOptions) (*domain.TimeEntrySummary, error) {
	if uc.Fields == nil || uc.Agg == nil {
		return nil, errors.New("usecase not initialized: missing dependencies")
	}
	ids, err := uc.Fields.ReadTicketIDs(ctx, workItemID)
	if err != nil {
		return nil, err
	}
	uc.Log.Info("read ticket ids",
		slog.String("work_item", workItemID),
		slog.Int("count", len(ids)),
	)

	summary, err := uc.Agg.Aggregate(ctx, ids, f, opts)
	if err != nil {
		return nil, err
	}
	uc.Log.Info("aggregated entries",
		slog.Int("entries", summary.TotalEntries),
		slog.Float64("total_hours", summary.TotalHours),
	)

	if err := uc.Fields.WriteDuration(ctx, workItemID, summary.TotalHours); err != nil {
		return nil, err
	}
	uc.Log.Info("sync completed",
		slog.String("work_item", workItemID),
		slog.Float64("total_hours", summary.TotalHours),
	)
	return summary, nil
}
