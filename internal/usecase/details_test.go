package usecase

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"timebridge/internal/domain"
)

func TestFetchTicketDetails_Fallback(t *testing.T) {
	ts := &fakeTimeService{detailErrs: map[string]error{
		"123": domain.NewError(domain.ErrNotFound, "not found (404): /tickets/123"),
	}}
	df := &DetailFetcher{Log: slog.New(slog.NewTextHandler(io.Discard, nil)), Time: ts}

	d := df.FetchTicketDetails(context.Background(), "123")
	assert.Equal(t, "123", d.ID)
	assert.Equal(t, "Ticket 123", d.Title)
	assert.Equal(t, 0.0, d.PlannedHours)
	assert.Contains(t, d.Description, "not found")
}

func TestFetchManyTicketDetails_OrderAndSubstitution(t *testing.T) {
	ts := &fakeTimeService{
		details: map[string]domain.TicketDetails{
			"1": {ID: "1", Title: "One", PlannedHours: 8},
			"3": {ID: "3", Title: "Three", PlannedHours: 2},
		},
		detailErrs: map[string]error{
			"2": domain.NewError(domain.ErrConnectivity, "unreachable"),
		},
	}
	df := &DetailFetcher{Log: slog.New(slog.NewTextHandler(io.Discard, nil)), Time: ts}

	out := df.FetchManyTicketDetails(context.Background(), []string{"1", "2", "3"})
	require.Len(t, out, 3)
	assert.Equal(t, "One", out[0].Title)
	assert.Equal(t, "Ticket 2", out[1].Title)
	assert.Equal(t, "Three", out[2].Title)
}
