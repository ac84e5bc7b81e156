package domain

import "fmt"

// TicketDetails holds per-ticket metadata from the time service.
type TicketDetails struct {
	ID           string  `json:"id"`
	Title        string  `json:"title"`
	PlannedHours float64 `json:"planned_hours"`
	Description  string  `json:"description,omitempty"`
	Status       string  `json:"status,omitempty"`
}

// FallbackTicketDetails builds the placeholder record used when metadata
// cannot be fetched. Metadata absence is never fatal.
func FallbackTicketDetails(id, reason string) TicketDetails {
	return TicketDetails{
		ID:          id,
		Title:       fmt.Sprintf("Ticket %s", id),
		Description: reason,
	}
}
