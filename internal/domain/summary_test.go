package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRoundHours(t *testing.T) {
	assert.Equal(t, 20.75, RoundHours(12.5+8.25))
	assert.Equal(t, 0.13, RoundHours(0.125))
	assert.Equal(t, 1.0, RoundHours(0.999))
	assert.Equal(t, 0.0, RoundHours(0))
}

func TestEntryDateRange(t *testing.T) {
	entries := []TimeEntry{
		{Date: "2026-03-14"},
		{Date: "2026-01-02"},
		{Date: "2026-02-20"},
	}
	r := EntryDateRange(entries)
	assert.Equal(t, "2026-01-02", r.From)
	assert.Equal(t, "2026-03-14", r.To)
}

func TestEntryDateRange_Empty(t *testing.T) {
	today := time.Now().Format("2006-01-02")
	r := EntryDateRange(nil)
	assert.Equal(t, today, r.From)
	assert.Equal(t, today, r.To)
}
