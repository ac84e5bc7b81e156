package report

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"timebridge/internal/domain"
)

const (
	ticketSheet = "Tickets"
	totalsSheet = "Totals"
)

// WriteSummary exports a per-ticket breakdown and the overall totals to an
// xlsx workbook at path.
func WriteSummary(path string, s *domain.TimeEntrySummary) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", ticketSheet); err != nil {
		return err
	}

	headers := []string{"Ticket", "Title", "Planned Hours", "Actual Hours", "Entries"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(ticketSheet, cell, h); err != nil {
			return err
		}
	}
	for row, ts := range s.TicketSummaries {
		rowNum := row + 2
		title := ""
		if ts.Details != nil {
			title = ts.Details.Title
		}
		f.SetCellValue(ticketSheet, fmt.Sprintf("A%d", rowNum), ts.TicketID)
		f.SetCellValue(ticketSheet, fmt.Sprintf("B%d", rowNum), title)
		f.SetCellValue(ticketSheet, fmt.Sprintf("C%d", rowNum), ts.PlannedHours)
		f.SetCellValue(ticketSheet, fmt.Sprintf("D%d", rowNum), domain.RoundHours(ts.ActualHours))
		f.SetCellValue(ticketSheet, fmt.Sprintf("E%d", rowNum), ts.EntryCount)
	}
	for i := range headers {
		col, _ := excelize.ColumnNumberToName(i + 1)
		f.SetColWidth(ticketSheet, col, col, 20)
	}

	idx, err := f.NewSheet(totalsSheet)
	if err != nil {
		return err
	}
	totals := [][]any{
		{"Tickets", len(s.TicketIDs)},
		{"Total Entries", s.TotalEntries},
		{"Total Hours", s.TotalHours},
		{"Total Planned Hours", s.TotalPlannedHours},
		{"From", s.DateRange.From},
		{"To", s.DateRange.To},
	}
	for row, pair := range totals {
		f.SetCellValue(totalsSheet, fmt.Sprintf("A%d", row+1), pair[0])
		f.SetCellValue(totalsSheet, fmt.Sprintf("B%d", row+1), pair[1])
	}
	f.SetColWidth(totalsSheet, "A", "A", 25)
	f.SetActiveSheet(idx)

	return f.SaveAs(path)
}
