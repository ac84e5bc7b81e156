package domain

import (
	"math"
	"time"
)

// DateRange is an inclusive calendar date span.
type DateRange struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// TicketSummary is the rollup for a single ticket id.
type TicketSummary struct {
	TicketID     string         `json:"ticket_id"`
	PlannedHours float64        `json:"planned_hours"`
	ActualHours  float64        `json:"actual_hours"`
	EntryCount   int            `json:"entry_count"`
	Details      *TicketDetails `json:"details,omitempty"`
}

// TimeEntrySummary is the overall aggregate for one integration run. Only
// TotalHours is written back to the work item; the rest feeds display and
// report export.
type TimeEntrySummary struct {
	TotalEntries      int             `json:"total_entries"`
	TotalHours        float64         `json:"total_hours"`
	TotalPlannedHours float64         `json:"total_planned_hours"`
	TicketSummaries   []TicketSummary `json:"ticket_summaries,omitempty"`
	TicketIDs         []string        `json:"ticket_ids"`
	DateRange         DateRange       `json:"date_range"`
}

// RoundHours rounds to 2 decimal places, half away from zero.
func RoundHours(h float64) float64 {
	return math.Round(h*100) / 100
}

// EntryDateRange returns the lexicographic min/max of the entries' dates.
// Dates are zero-padded ISO 8601, so string order is calendar order. With
// zero entries both bounds default to today.
func EntryDateRange(entries []TimeEntry) DateRange {
	if len(entries) == 0 {
		today := time.Now().Format("2006-01-02")
		return DateRange{From: today, To: today}
	}
	r := DateRange{From: entries[0].Date, To: entries[0].Date}
	for _, e := range entries[1:] {
		if e.Date < r.From {
			r.From = e.Date
		}
		if e.Date > r.To {
			r.To = e.Date
		}
	}
	return r
}
