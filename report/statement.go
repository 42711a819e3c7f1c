/*
Package report renders laytime statements as PDF and XLSX documents.

PURPOSE:
  Produces the settlement statement both sides of a fixture exchange
  when a voyage closes: the agreed terms, the event timeline, the
  excluded periods, and the resulting demurrage or despatch amount.
  Rendering is passive; the engine computes, this package formats.

FORMATS:
  PDF:  one-page statement for signing and filing
  XLSX: summary sheet plus timeline and exclusions sheets, for desks
        that re-check the numbers in a spreadsheet

SEE ALSO:
  - laytime/settlement.go: The result being rendered
  - api/handlers.go: HTTP endpoints serving these documents
*/
package report

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/xuri/excelize/v2"

	"github.com/mari8x/laytime-engine/charter"
	"github.com/mari8x/laytime-engine/laytime"
)

// Statement bundles everything a rendered settlement shows.
type Statement struct {
	Charter     charter.CharterParty
	Timeline    []laytime.Event
	Exclusions  []laytime.ExclusionPeriod
	Result      laytime.SettlementResult
	GeneratedAt time.Time
}

// Verdict is the one-line outcome printed on the statement.
func (s Statement) Verdict() string {
	if s.Result.OnDemurrage {
		return "Demurrage payable by charterer to owner"
	}
	return "Despatch payable by owner to charterer"
}

// BuildStatementPDF renders a laytime statement as a PDF.
func BuildStatementPDF(stmt Statement) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetFont("Arial", "", 12)
	pdf.AddPage()

	pdf.Cell(0, 8, "Laytime Statement")
	pdf.Ln(10)
	pdf.SetFont("Arial", "", 10)
	pdf.Cell(0, 6, fmt.Sprintf("Vessel: %s", stmt.Charter.VesselName))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Charter Party: %s", stmt.Charter.ID))
	pdf.Ln(5)
	if stmt.Charter.Charterer != "" {
		pdf.Cell(0, 6, fmt.Sprintf("Charterer: %s", stmt.Charter.Charterer))
		pdf.Ln(5)
	}
	if stmt.Charter.Owner != "" {
		pdf.Cell(0, 6, fmt.Sprintf("Owner: %s", stmt.Charter.Owner))
		pdf.Ln(5)
	}
	pdf.Cell(0, 6, fmt.Sprintf("Terms: %s, %s", stmt.Charter.Terms.LaytimeType, rulesLine(stmt.Charter.Terms.ExceptionRules)))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Generated: %s", stmt.GeneratedAt.Format(time.RFC3339)))
	pdf.Ln(8)

	// Account summary
	r := stmt.Result
	pdf.Cell(0, 6, fmt.Sprintf("Allowed Laytime (h): %s", r.AllowedTime))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Gross Time Used (h): %s", r.GrossTimeUsed))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Excluded (h): %s", r.ExcludedHours))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Net Time Used (h): %s", r.NetTimeUsed))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Difference (h): %s", r.TimeDifference))
	pdf.Ln(5)
	pdf.SetFont("Arial", "B", 10)
	pdf.Cell(0, 6, fmt.Sprintf("%s: %s", stmt.Verdict(), r.AmountDue))
	pdf.Ln(8)

	// Timeline table
	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(45, 6, "Time (UTC)", "1", 0, "C", false, 0, "")
	pdf.CellFormat(50, 6, "Event", "1", 0, "C", false, 0, "")
	pdf.CellFormat(30, 6, "Hours", "1", 0, "C", false, 0, "")
	pdf.CellFormat(35, 6, "Counting", "1", 0, "C", false, 0, "")
	pdf.Ln(-1)
	pdf.SetFont("Arial", "", 10)
	for _, ev := range stmt.Timeline {
		pdf.CellFormat(45, 6, ev.At.Format("2006-01-02 15:04"), "1", 0, "C", false, 0, "")
		pdf.CellFormat(50, 6, string(ev.Kind), "1", 0, "L", false, 0, "")
		pdf.CellFormat(30, 6, hoursCell(ev.TimeUsed), "1", 0, "R", false, 0, "")
		pdf.CellFormat(35, 6, string(ev.Status), "1", 0, "C", false, 0, "")
		pdf.Ln(-1)
	}

	if len(stmt.Exclusions) > 0 {
		pdf.Ln(4)
		pdf.SetFont("Arial", "B", 10)
		pdf.CellFormat(45, 6, "Excluded From", "1", 0, "C", false, 0, "")
		pdf.CellFormat(45, 6, "To", "1", 0, "C", false, 0, "")
		pdf.CellFormat(30, 6, "Hours", "1", 0, "C", false, 0, "")
		pdf.CellFormat(40, 6, "Cause", "1", 0, "C", false, 0, "")
		pdf.Ln(-1)
		pdf.SetFont("Arial", "", 10)
		for _, ex := range stmt.Exclusions {
			pdf.CellFormat(45, 6, ex.From.Format("2006-01-02 15:04"), "1", 0, "C", false, 0, "")
			pdf.CellFormat(45, 6, ex.To.Format("2006-01-02 15:04"), "1", 0, "C", false, 0, "")
			pdf.CellFormat(30, 6, ex.Hours.String(), "1", 0, "R", false, 0, "")
			pdf.CellFormat(40, 6, string(ex.Cause), "1", 0, "C", false, 0, "")
			pdf.Ln(-1)
		}
	}

	var buf bytes.Buffer
	err := pdf.Output(&buf)
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// BuildStatementXLSX renders a laytime statement as an XLSX workbook.
func BuildStatementXLSX(stmt Statement) ([]byte, error) {
	f := excelize.NewFile()
	summarySheet := "summary"
	timelineSheet := "timeline"
	exclusionsSheet := "exclusions"
	f.SetSheetName("Sheet1", summarySheet)
	f.NewSheet(timelineSheet)
	f.NewSheet(exclusionsSheet)

	r := stmt.Result
	_ = f.SetCellValue(summarySheet, "A1", "Laytime Statement")
	_ = f.SetCellValue(summarySheet, "A3", "Vessel")
	_ = f.SetCellValue(summarySheet, "B3", stmt.Charter.VesselName)
	_ = f.SetCellValue(summarySheet, "A4", "Charter Party")
	_ = f.SetCellValue(summarySheet, "B4", stmt.Charter.ID)
	_ = f.SetCellValue(summarySheet, "A5", "Laytime Type")
	_ = f.SetCellValue(summarySheet, "B5", string(stmt.Charter.Terms.LaytimeType))
	_ = f.SetCellValue(summarySheet, "A6", "Exception Rules")
	_ = f.SetCellValue(summarySheet, "B6", rulesLine(stmt.Charter.Terms.ExceptionRules))
	_ = f.SetCellValue(summarySheet, "A7", "Allowed Laytime (h)")
	_ = f.SetCellValue(summarySheet, "B7", r.AllowedTime.Float64())
	_ = f.SetCellValue(summarySheet, "A8", "Gross Time Used (h)")
	_ = f.SetCellValue(summarySheet, "B8", r.GrossTimeUsed.Float64())
	_ = f.SetCellValue(summarySheet, "A9", "Excluded (h)")
	_ = f.SetCellValue(summarySheet, "B9", r.ExcludedHours.Float64())
	_ = f.SetCellValue(summarySheet, "A10", "Net Time Used (h)")
	_ = f.SetCellValue(summarySheet, "B10", r.NetTimeUsed.Float64())
	_ = f.SetCellValue(summarySheet, "A11", "Difference (h)")
	_ = f.SetCellValue(summarySheet, "B11", r.TimeDifference.Float64())
	_ = f.SetCellValue(summarySheet, "A12", "Outcome")
	_ = f.SetCellValue(summarySheet, "B12", stmt.Verdict())
	_ = f.SetCellValue(summarySheet, "A13", "Amount Due")
	_ = f.SetCellValue(summarySheet, "B13", r.AmountDue.Float64())
	_ = f.SetCellValue(summarySheet, "A14", "Currency")
	_ = f.SetCellValue(summarySheet, "B14", r.AmountDue.Currency)

	_ = f.SetCellValue(timelineSheet, "A1", "Time (UTC)")
	_ = f.SetCellValue(timelineSheet, "B1", "Event")
	_ = f.SetCellValue(timelineSheet, "C1", "Hours")
	_ = f.SetCellValue(timelineSheet, "D1", "Counting")
	for i, ev := range stmt.Timeline {
		row := i + 2
		_ = f.SetCellValue(timelineSheet, fmt.Sprintf("A%d", row), ev.At.Format("2006-01-02 15:04"))
		_ = f.SetCellValue(timelineSheet, fmt.Sprintf("B%d", row), string(ev.Kind))
		_ = f.SetCellValue(timelineSheet, fmt.Sprintf("C%d", row), hoursCell(ev.TimeUsed))
		_ = f.SetCellValue(timelineSheet, fmt.Sprintf("D%d", row), string(ev.Status))
	}

	_ = f.SetCellValue(exclusionsSheet, "A1", "From (UTC)")
	_ = f.SetCellValue(exclusionsSheet, "B1", "To (UTC)")
	_ = f.SetCellValue(exclusionsSheet, "C1", "Hours")
	_ = f.SetCellValue(exclusionsSheet, "D1", "Cause")
	for i, ex := range stmt.Exclusions {
		row := i + 2
		_ = f.SetCellValue(exclusionsSheet, fmt.Sprintf("A%d", row), ex.From.Format("2006-01-02 15:04"))
		_ = f.SetCellValue(exclusionsSheet, fmt.Sprintf("B%d", row), ex.To.Format("2006-01-02 15:04"))
		_ = f.SetCellValue(exclusionsSheet, fmt.Sprintf("C%d", row), ex.Hours.Float64())
		_ = f.SetCellValue(exclusionsSheet, fmt.Sprintf("D%d", row), string(ex.Cause))
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func hoursCell(h *laytime.Hours) string {
	if h == nil {
		return ""
	}
	return h.String()
}

func rulesLine(rules laytime.RuleSet) string {
	if len(rules) == 0 {
		return "none"
	}
	line := ""
	for i, r := range rules {
		if i > 0 {
			line += ", "
		}
		line += string(r)
	}
	return line
}
