// Package export writes companion files of the weekly report: a data
// workbook and a one page PDF summary.
package export

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/de-tools/grid-weekly-report/pkg/format"
	"github.com/de-tools/grid-weekly-report/pkg/models/domain"
	"github.com/xuri/excelize/v2"
)

const summarySheet = "Summary"

// table is one worksheet of raw section data.
type table struct {
	sheet   string
	headers []string
	rows    [][]any
}

// Workbook exports every report section to its own worksheet.
type Workbook struct {
	dumpFolder string
}

func NewWorkbook(dumpFolder string) *Workbook {
	return &Workbook{dumpFolder: dumpFolder}
}

func (w *Workbook) Name() string { return "xlsx" }

// Export writes {dumpFolder}/{FileStem}.xlsx.
func (w *Workbook) Export(ctx context.Context, rc domain.ReportContext) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	f, err := w.Build(rc)
	if err != nil {
		return "", err
	}
	defer f.Close()

	if err := os.MkdirAll(w.dumpFolder, 0o755); err != nil {
		return "", fmt.Errorf("create dump folder: %w", err)
	}
	path := filepath.Join(w.dumpFolder, rc.FileStem()+".xlsx")
	if err := f.SaveAs(path); err != nil {
		return "", fmt.Errorf("save workbook: %w", err)
	}
	return path, nil
}

// Build lays out the workbook of rc in memory.
func (w *Workbook) Build(rc domain.ReportContext) (*excelize.File, error) {
	f := excelize.NewFile()

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("header style: %w", err)
	}

	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		f.Close()
		return nil, err
	}
	for _, t := range append([]table{summaryTable(rc)}, sectionTables(rc)...) {
		if err := writeTable(f, t, headerStyle); err != nil {
			f.Close()
			return nil, fmt.Errorf("sheet %s: %w", t.sheet, err)
		}
	}
	return f, nil
}

func writeTable(f *excelize.File, t table, headerStyle int) error {
	if t.sheet != summarySheet {
		if _, err := f.NewSheet(t.sheet); err != nil {
			return err
		}
	}
	if err := f.SetSheetRow(t.sheet, "A1", &t.headers); err != nil {
		return err
	}
	last, err := excelize.CoordinatesToCellName(len(t.headers), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(t.sheet, "A1", last, headerStyle); err != nil {
		return err
	}
	for i, row := range t.rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(t.sheet, cell, &row); err != nil {
			return err
		}
	}
	lastCol, _, err := excelize.SplitCellName(last)
	if err != nil {
		return err
	}
	return f.SetColWidth(t.sheet, "A", lastCol, 18)
}

func summaryTable(rc domain.ReportContext) table {
	fdi := any(rc.WeeklyFdi)
	if rc.WeeklyFdi < 0 {
		fdi = "NA"
	}
	return table{
		sheet:   summarySheet,
		headers: []string{"Item", "Value"},
		rows: [][]any{
			{"Week number", rc.WeekNum},
			{"Financial year", rc.FinYear},
			{"From", rc.StartDt},
			{"To", rc.EndDt},
			{"Weekly FDI", fdi},
			{"Generating unit outages", len(rc.GenOutages)},
			{"Transmission outages", len(rc.TransOutages)},
			{"Long time outages", len(rc.LongTimeOutages)},
			{"IEGC violation messages", len(rc.ViolMsgs)},
			{"Angle violations", len(rc.WideViols) + len(rc.AdjViols)},
		},
	}
}

func sectionTables(rc domain.ReportContext) []table {
	return []table{
		outageTable("Gen Outages", "Capacity (MW)", rc.GenOutages),
		outageTable("Trans Outages", "Voltage (kV)", rc.TransOutages),
		outageTable("Long Time Outages", "Voltage (kV)", rc.LongTimeOutages),
		freqTable(rc.FreqProfRows),
		vdiTable("VDI 400kV", rc.Vdi400Rows),
		vdiTable("VDI 765kV", rc.Vdi765Rows),
		voltStatsTable(rc.VoltStats),
		violationTable(rc.ViolMsgs),
		angleTable(rc.WideViols, rc.AdjViols),
		constraintTable(rc),
	}
}

func timeCell(t *time.Time) any {
	if t == nil {
		return ""
	}
	return *t
}

func outageTable(sheet, capacity string, outages []domain.Outage) table {
	t := table{
		sheet:   sheet,
		headers: []string{"Element", "Owner", capacity, "Tag", "Reason", "Remarks", "Outage", "Revived", "Expected revival"},
	}
	for _, o := range outages {
		t.rows = append(t.rows, []any{
			o.Name, o.Owner, o.Capacity, o.OutageTag, o.Reason, o.Remarks,
			o.OutageAt, timeCell(o.RevivedAt), timeCell(o.ExpectedRevival),
		})
	}
	return t
}

func freqTable(rows []domain.FreqProfileRow) table {
	t := table{
		sheet: "Frequency",
		headers: []string{"Day", "Max", "Min", "Avg", "< Band (%)", "Within band (%)", "> Band (%)",
			"Out of band (%)", "Out of band (hrs)", "FDI"},
	}
	for _, r := range rows {
		t.rows = append(t.rows, []any{
			r.Day, r.Max, r.Min, r.Avg, r.LessThanBand, r.BetweenBand, r.GreaterThanBand,
			r.OutOfBand, r.OutOfBandHrs, r.Fdi,
		})
	}
	return t
}

func vdiTable(sheet string, rows []domain.VdiRow) table {
	t := table{
		sheet: sheet,
		headers: []string{"Station", "Max (kV)", "Min (kV)", "< Band (%)", "Within band (%)", "> Band (%)",
			"< Band (hh:mm)", "> Band (hh:mm)", "Out of band (hh:mm)", "VDI"},
	}
	for _, r := range rows {
		t.rows = append(t.rows, []any{
			r.Station, r.MaxVol, r.MinVol, r.LessThanBand, r.BetweenBand, r.GreaterThanBand,
			format.HoursToSpan(r.LessBandHrs), format.HoursToSpan(r.GreatBandHrs), format.HoursToSpan(r.OutOfBandHrs), r.Vdi,
		})
	}
	return t
}

func voltStatsTable(stats domain.VoltStats) table {
	t := table{
		sheet:   "Voltage Stats",
		headers: []string{"Table", "Station", "Level (kV)", "Voltage (kV)", "Time"},
	}
	for _, group := range []struct {
		name string
		rows []domain.VoltStatsRow
	}{
		{"400 kV maximum", stats.Table1},
		{"400 kV minimum", stats.Table2},
		{"765 kV maximum", stats.Table3},
		{"765 kV minimum", stats.Table4},
	} {
		for _, r := range group.rows {
			t.rows = append(t.rows, []any{group.name, r.Station, r.Level, r.Value, r.At})
		}
	}
	return t
}

func violationTable(msgs []domain.ViolationMessage) table {
	t := table{
		sheet:   "IEGC Violations",
		headers: []string{"Message", "Date", "Entity", "Schedule (MW)", "Drawal (MW)", "Deviation (MW)"},
	}
	for _, m := range msgs {
		t.rows = append(t.rows, []any{m.MsgID, m.Date, m.Entity, m.Schedule, m.Drawal, m.Deviation})
	}
	return t
}

func angleTable(wide, adjacent []domain.AngleViolation) table {
	t := table{
		sheet:   "Angle Violations",
		headers: []string{"Kind", "Station pair", "Limit (deg)", "Violation (%)", "Max angle (deg)", "Time"},
	}
	for _, v := range wide {
		t.rows = append(t.rows, []any{"Wide area", v.Pair, v.Limit, v.ViolationPerc, v.MaxAngle, v.MaxAngleAt})
	}
	for _, v := range adjacent {
		t.rows = append(t.rows, []any{"Adjacent", v.Pair, v.Limit, v.ViolationPerc, v.MaxAngle, v.MaxAngleAt})
	}
	return t
}

func constraintTable(rc domain.ReportContext) table {
	t := table{
		sheet:   "Constraints",
		headers: []string{"Kind", "Subject", "Season / antecedent", "Description"},
	}
	for _, c := range rc.IctCons {
		t.rows = append(t.rows, []any{"ICT", c.Ict, c.Season, c.Description})
	}
	for _, c := range rc.TransCons {
		t.rows = append(t.rows, []any{"Transmission", c.Element, c.Season, c.Description})
	}
	for _, n := range rc.HvNodes {
		t.rows = append(t.rows, []any{"High voltage nodes", n.Nodes, n.Season, n.Description})
	}
	for _, n := range rc.LvNodes {
		t.rows = append(t.rows, []any{"Low voltage nodes", n.Nodes, n.Season, n.Description})
	}
	return t
}
