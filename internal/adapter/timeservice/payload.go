package timeservice

import (
	"encoding/json"
	"strings"
	"time"

	"timebridge/internal/domain"
)

// attendancePage mirrors the vendor's list response. Meta is optional; some
// API variants return a bare first page.
type attendancePage struct {
	Data []rawAttendance `json:"data"`
	Meta *pageMeta       `json:"meta"`
}

type pageMeta struct {
	CurrentPage int `json:"current_page"`
	LastPage    int `json:"last_page"`
	Total       int `json:"total"`
}

// rawAttendance mirrors one vendor record. Ids arrive as numbers or strings
// depending on the API variant, hence json.Number.
type rawAttendance struct {
	ID         json.Number `json:"id"`
	Date       string      `json:"date"`
	From       string      `json:"from"`
	To         string      `json:"to"`
	EmployeeID json.Number `json:"employee_id"`
	Duration   *float64    `json:"duration"`
	Note       string      `json:"note"`
	Billable   bool        `json:"billable"`
	ProjectID  json.Number `json:"project_id"`
	TicketID   json.Number `json:"ticket_id"`
	ActivityID json.Number `json:"activity_id"`
}

// toDomain normalizes a vendor record. The ticket id the entry was fetched
// for wins over whatever the raw record carries. Missing duration is 0,
// never an error; the start/end diff is kept only as a fallback for API
// variants that omit the duration field.
func (r rawAttendance) toDomain(ticketID string) domain.TimeEntry {
	duration := 0.0
	if r.Duration != nil {
		duration = *r.Duration
	} else if r.From != "" && r.To != "" {
		duration = hoursBetween(r.From, r.To)
	}
	if duration < 0 {
		duration = 0
	}
	return domain.TimeEntry{
		ID:          r.ID.String(),
		TicketID:    ticketID,
		EmployeeID:  r.EmployeeID.String(),
		Date:        r.Date,
		StartTime:   r.From,
		EndTime:     r.To,
		Duration:    duration,
		Description: r.Note,
		Billable:    r.Billable,
	}
}

// hoursBetween computes the span between two time-of-day strings like
// "09:00" or "09:00:00". Unparseable or inverted spans yield 0.
func hoursBetween(from, to string) float64 {
	start, ok1 := parseClock(from)
	end, ok2 := parseClock(to)
	if !ok1 || !ok2 || end.Before(start) {
		return 0
	}
	return end.Sub(start).Hours()
}

func parseClock(s string) (time.Time, bool) {
	layout := "15:04"
	if strings.Count(s, ":") == 2 {
		layout = "15:04:05"
	}
	t, err := time.Parse(layout, s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// rawTicket mirrors the vendor's ticket metadata response.
type rawTicket struct {
	ID           json.Number `json:"id"`
	Title        string      `json:"title"`
	PlannedHours float64     `json:"planned_hours"`
	Description  string      `json:"description"`
	Status       string      `json:"status"`
}

func (r rawTicket) toDomain(requestedID string) domain.TicketDetails {
	id := r.ID.String()
	if id == "" {
		id = requestedID
	}
	d := domain.TicketDetails{
		ID:           id,
		Title:        r.Title,
		PlannedHours: r.PlannedHours,
		Description:  r.Description,
		Status:       r.Status,
	}
	if d.Title == "" {
		d.Title = "Ticket " + id
	}
	if d.PlannedHours < 0 {
		d.PlannedHours = 0
	}
	return d
}
