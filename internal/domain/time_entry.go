package domain

// TimeEntry represents one recorded work interval in the domain.
type TimeEntry struct {
	ID          string  `json:"id"`
	TicketID    string  `json:"ticket_id"` // attached by the client, not always present in the raw record
	EmployeeID  string  `json:"employee_id"`
	Date        string  `json:"date"` // YYYY-MM-DD
	StartTime   string  `json:"start_time,omitempty"`
	EndTime     string  `json:"end_time,omitempty"`
	Duration    float64 `json:"duration_hours"` // hours, never negative; missing duration is 0
	Description string  `json:"description,omitempty"`
	Billable    bool    `json:"billable"`
}

// Filter restricts which entries a fetch returns. Date bounds and employee
// are applied server-side as query parameters; TicketID is a substring
// filter that excludes whole tickets before any fetch is attempted.
type Filter struct {
	DateFrom   string
	DateTo     string
	EmployeeID string
	TicketID   string
}

// IsZero reports whether the filter restricts anything.
func (f Filter) IsZero() bool {
	return f.DateFrom == "" && f.DateTo == "" && f.EmployeeID == "" && f.TicketID == ""
}
