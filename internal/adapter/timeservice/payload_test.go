package timeservice

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRawAttendanceToDomain(t *testing.T) {
	dur := 2.25
	r := rawAttendance{
		ID:       "17",
		Date:     "2026-02-03",
		From:     "09:00",
		To:       "11:15",
		Duration: &dur,
		Note:     "pairing",
		Billable: true,
	}
	e := r.toDomain("8136")
	assert.Equal(t, "17", e.ID)
	assert.Equal(t, "8136", e.TicketID)
	assert.Equal(t, 2.25, e.Duration)
	assert.Equal(t, "pairing", e.Description)
	assert.True(t, e.Billable)
}

func TestRawAttendanceToDomain_DurationFallback(t *testing.T) {
	// API variants without a duration field fall back to the start/end diff.
	r := rawAttendance{Date: "2026-02-03", From: "09:00", To: "10:30"}
	assert.Equal(t, 1.5, r.toDomain("1").Duration)

	// Missing duration and no usable times is 0, never an error.
	assert.Equal(t, 0.0, rawAttendance{Date: "2026-02-03"}.toDomain("1").Duration)

	// Inverted spans clamp to 0.
	inverted := rawAttendance{From: "12:00", To: "09:00"}
	assert.Equal(t, 0.0, inverted.toDomain("1").Duration)
}

func TestRawAttendanceToDomain_NegativeDurationClamped(t *testing.T) {
	dur := -1.0
	r := rawAttendance{Duration: &dur}
	assert.Equal(t, 0.0, r.toDomain("1").Duration)
}

func TestHoursBetween(t *testing.T) {
	assert.Equal(t, 1.5, hoursBetween("09:00", "10:30"))
	assert.Equal(t, 8.0, hoursBetween("08:00:00", "16:00:00"))
	assert.Equal(t, 0.0, hoursBetween("bogus", "10:00"))
}

func TestRawTicketToDomain_Defaults(t *testing.T) {
	d := rawTicket{}.toDomain("123")
	assert.Equal(t, "123", d.ID)
	assert.Equal(t, "Ticket 123", d.Title)
	assert.Equal(t, 0.0, d.PlannedHours)

	neg := rawTicket{ID: "5", Title: "x", PlannedHours: -3}.toDomain("5")
	assert.Equal(t, 0.0, neg.PlannedHours)
}
