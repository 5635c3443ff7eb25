package reports

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/jung-kurt/gofpdf"
	"github.com/xuri/excelize/v2"

	"github.com/mithunkr7/event-invite-backend/internal/event"
	"github.com/mithunkr7/event-invite-backend/internal/guest"
)

var headerRow = []string{"Name", "Email", "Phone", "Status", "Party Size", "Additional Guests", "Dietary Notes", "Responded At"}

type row struct {
	name       string
	email      string
	phone      string
	status     string
	partySize  int
	additional string
	dietary    string
	responded  string
}

func buildRows(guests []guest.Guest) []row {
	rows := make([]row, 0, len(guests))
	for _, g := range guests {
		r := row{
			name:      g.Name,
			email:     g.Email,
			status:    g.Status,
			partySize: 1 + len(g.AdditionalGuests),
			dietary:   g.DietaryNotes,
		}
		if g.Phone != nil {
			r.phone = *g.Phone
		}
		names := make([]string, 0, len(g.AdditionalGuests))
		for _, ag := range g.AdditionalGuests {
			names = append(names, ag.Name)
		}
		r.additional = strings.Join(names, ", ")
		if g.RespondedAt != nil {
			r.responded = g.RespondedAt.Format("2006-01-02 15:04")
		}
		rows = append(rows, r)
	}
	return rows
}

type summary struct {
	attending    int
	notAttending int
	maybe        int
	pending      int
	headcount    int
}

func summarize(guests []guest.Guest) summary {
	var s summary
	for _, g := range guests {
		switch g.Status {
		case guest.StatusAttending:
			s.attending++
			s.headcount += 1 + len(g.AdditionalGuests)
		case guest.StatusNotAttending:
			s.notAttending++
		case guest.StatusMaybe:
			s.maybe++
		default:
			s.pending++
		}
	}
	return s
}

// GuestListXLSX renders the guest list with an RSVP summary sheet.
func GuestListXLSX(ev *event.Event, guests []guest.Guest) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := "Guests"
	f.SetSheetName("Sheet1", sheet)

	for col, h := range headerRow {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		f.SetCellValue(sheet, cell, h)
	}

	for i, r := range buildRows(guests) {
		values := []interface{}{r.name, r.email, r.phone, r.status, r.partySize, r.additional, r.dietary, r.responded}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, i+2)
			f.SetCellValue(sheet, cell, v)
		}
	}

	sum := summarize(guests)
	summarySheet := "Summary"
	if _, err := f.NewSheet(summarySheet); err != nil {
		return nil, fmt.Errorf("failed to add summary sheet: %w", err)
	}
	lines := [][]interface{}{
		{"Event", ev.Title},
		{"Starts At", ev.StartsAt.Format("2006-01-02 15:04")},
		{"Invited", len(guests)},
		{"Attending", sum.attending},
		{"Not Attending", sum.notAttending},
		{"Maybe", sum.maybe},
		{"Pending", sum.pending},
		{"Expected Headcount", sum.headcount},
	}
	for i, line := range lines {
		for col, v := range line {
			cell, _ := excelize.CoordinatesToCellName(col+1, i+1)
			f.SetCellValue(summarySheet, cell, v)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to write xlsx: %w", err)
	}
	return buf.Bytes(), nil
}

// GuestListPDF renders the same guest list as a landscape PDF table.
func GuestListPDF(ev *event.Event, guests []guest.Guest) ([]byte, error) {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(0, 10, fmt.Sprintf("Guest List: %s", ev.Title))
	pdf.Ln(8)

	sum := summarize(guests)
	pdf.SetFont("Arial", "", 10)
	pdf.Cell(0, 8, fmt.Sprintf("Starts %s  |  Invited %d  |  Attending %d  |  Not attending %d  |  Maybe %d  |  Pending %d  |  Headcount %d",
		ev.StartsAt.Format("02 Jan 2006 15:04"), len(guests), sum.attending, sum.notAttending, sum.maybe, sum.pending, sum.headcount))
	pdf.Ln(10)

	widths := []float64{45, 60, 30, 28, 18, 50, 30, 30}

	pdf.SetFont("Arial", "B", 9)
	pdf.SetFillColor(230, 230, 230)
	for i, h := range headerRow {
		pdf.CellFormat(widths[i], 7, h, "1", 0, "L", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 9)
	for _, r := range buildRows(guests) {
		cells := []string{r.name, r.email, r.phone, r.status, fmt.Sprintf("%d", r.partySize), r.additional, r.dietary, r.responded}
		for i, c := range cells {
			pdf.CellFormat(widths[i], 6, c, "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to write pdf: %w", err)
	}
	return buf.Bytes(), nil
}
