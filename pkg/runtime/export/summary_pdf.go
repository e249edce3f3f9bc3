package export

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/de-tools/grid-weekly-report/pkg/format"
	"github.com/de-tools/grid-weekly-report/pkg/models/domain"
	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/border"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
)

// maxTableRows caps every table of the summary; the workbook carries the rest.
const maxTableRows = 25

var (
	primaryColor   = &props.Color{Red: 52, Green: 152, Blue: 219}
	headerBgColor  = &props.Color{Red: 44, Green: 62, Blue: 80}
	lightGrayColor = &props.Color{Red: 236, Green: 240, Blue: 241}
	darkGrayColor  = &props.Color{Red: 127, Green: 140, Blue: 141}

	titleStyle = props.Text{
		Size:  18,
		Style: fontstyle.Bold,
		Align: align.Center,
		Color: headerBgColor,
	}

	sectionStyle = props.Text{
		Size:  13,
		Style: fontstyle.Bold,
		Color: headerBgColor,
		Top:   4,
	}

	smallStyle = props.Text{
		Size:  8,
		Color: darkGrayColor,
	}

	metricValueStyle = props.Text{
		Size:  16,
		Style: fontstyle.Bold,
		Align: align.Center,
		Color: primaryColor,
	}

	metricLabelStyle = props.Text{
		Size:  8,
		Align: align.Center,
		Color: darkGrayColor,
	}

	tableHeaderStyle = &props.Cell{
		BackgroundColor: primaryColor,
	}

	tableHeaderTextStyle = props.Text{
		Size:  8,
		Style: fontstyle.Bold,
		Color: &props.Color{Red: 255, Green: 255, Blue: 255},
		Align: align.Center,
	}

	tableCellStyle = &props.Cell{
		BorderType:  border.Bottom,
		BorderColor: lightGrayColor,
	}

	tableCellTextStyle = props.Text{
		Size:  8,
		Align: align.Center,
	}
)

// SummaryPDF renders a short PDF digest of the week.
type SummaryPDF struct {
	dumpFolder string
	now        func() time.Time
}

func NewSummaryPDF(dumpFolder string) *SummaryPDF {
	return &SummaryPDF{dumpFolder: dumpFolder, now: time.Now}
}

func (p *SummaryPDF) Name() string { return "pdf" }

// Export writes {dumpFolder}/{FileStem}.pdf.
func (p *SummaryPDF) Export(ctx context.Context, rc domain.ReportContext) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	data, err := p.Generate(rc)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(p.dumpFolder, 0o755); err != nil {
		return "", fmt.Errorf("create dump folder: %w", err)
	}
	path := filepath.Join(p.dumpFolder, rc.FileStem()+".pdf")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write summary pdf: %w", err)
	}
	return path, nil
}

// Generate returns the PDF bytes of the summary of rc.
func (p *SummaryPDF) Generate(rc domain.ReportContext) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageNumber().
		WithLeftMargin(12).
		WithTopMargin(12).
		WithRightMargin(12).
		Build()

	m := maroto.New(cfg)

	m.AddRow(12, text.NewCol(12, fmt.Sprintf("Weekly Report No. %d (FY %s)", rc.WeekNum, rc.FinYear), titleStyle))
	m.AddRow(6, text.NewCol(12, fmt.Sprintf("%s to %s", rc.StartDt, rc.EndDt),
		props.Text{Size: 10, Align: align.Center, Color: darkGrayColor}))
	m.AddRow(4, line.NewCol(12))

	fdi := "NA"
	if rc.WeeklyFdi >= 0 {
		fdi = format.Fixed2(rc.WeeklyFdi)
	}
	addMetricCards(m, []metricCard{
		{label: "Weekly FDI", value: fdi},
		{label: "Unit outages", value: fmt.Sprint(len(rc.GenOutages))},
		{label: "Line outages", value: fmt.Sprint(len(rc.TransOutages))},
		{label: "Long outages", value: fmt.Sprint(len(rc.LongTimeOutages))},
	})
	addMetricCards(m, []metricCard{
		{label: "IEGC messages", value: fmt.Sprint(len(rc.ViolMsgs))},
		{label: "Angle violations", value: fmt.Sprint(len(rc.WideViols) + len(rc.AdjViols))},
		{label: "HV nodes", value: fmt.Sprint(len(rc.HvNodes))},
		{label: "LV nodes", value: fmt.Sprint(len(rc.LvNodes))},
	})

	addSection(m, "Generating unit outages")
	addTable(m, []string{"Unit", "Owner", "MW", "Out since", "Reason"}, outageRows(rc.GenOutages))

	addSection(m, "Transmission element outages")
	addTable(m, []string{"Element", "Owner", "kV", "Out since", "Reason"}, outageRows(rc.TransOutages))

	addSection(m, "Voltage deviation index")
	vdiRows := make([][]string, 0, len(rc.Vdi400Rows)+len(rc.Vdi765Rows))
	for _, r := range append(append([]domain.VdiRow{}, rc.Vdi400Rows...), rc.Vdi765Rows...) {
		vdiRows = append(vdiRows, []string{
			r.Station, fmt.Sprint(r.MaxVol), fmt.Sprint(r.MinVol), format.HoursToSpan(r.OutOfBandHrs), format.Fixed2(r.Vdi),
		})
	}
	addTable(m, []string{"Station", "Max kV", "Min kV", "Out of band", "VDI"}, vdiRows)

	m.AddRow(6)
	m.AddRow(2, line.NewCol(12, props.Line{Color: lightGrayColor}))
	m.AddRow(6, text.NewCol(12, "Generated "+p.now().Format("2006-01-02 15:04:05"),
		props.Text{Size: 8, Color: darkGrayColor, Align: align.Center}))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}
	return doc.GetBytes(), nil
}

func outageRows(outages []domain.Outage) [][]string {
	rows := make([][]string, 0, len(outages))
	for _, o := range outages {
		rows = append(rows, []string{o.Name, o.Owner, format.Fixed2(o.Capacity), format.DateTime(o.OutageAt), o.Reason})
	}
	return rows
}

type metricCard struct {
	label string
	value string
}

func addMetricCards(m core.Maroto, cards []metricCard) {
	size := 12 / len(cards)
	cols := make([]core.Col, 0, len(cards))
	for _, c := range cards {
		cols = append(cols, col.New(size).Add(
			text.New(c.value, metricValueStyle),
			text.New(c.label, metricLabelStyle),
		))
	}
	m.AddRow(16, cols...)
}

func addSection(m core.Maroto, title string) {
	m.AddRow(9, text.NewCol(12, title, sectionStyle))
	m.AddRow(2, line.NewCol(12, props.Line{Color: primaryColor}))
}

// addTable lays out up to five columns; wider rows are truncated.
func addTable(m core.Maroto, headers []string, rows [][]string) {
	if len(rows) == 0 {
		m.AddRow(6, text.NewCol(12, "None", smallStyle))
		return
	}
	widths := []int{3, 3, 2, 2, 2}

	header := make([]core.Col, 0, len(headers))
	for i, h := range headers {
		header = append(header, text.NewCol(widths[i], h, tableHeaderTextStyle).WithStyle(tableHeaderStyle))
	}
	m.AddRow(7, header...)

	for n, r := range rows {
		if n == maxTableRows {
			m.AddRow(6, text.NewCol(12, fmt.Sprintf("... and %d more rows", len(rows)-maxTableRows), smallStyle))
			break
		}
		cells := make([]core.Col, 0, len(r))
		for i, v := range r {
			if i >= len(widths) {
				break
			}
			cells = append(cells, text.NewCol(widths[i], v, tableCellTextStyle).WithStyle(tableCellStyle))
		}
		m.AddRow(6, cells...)
	}
}
