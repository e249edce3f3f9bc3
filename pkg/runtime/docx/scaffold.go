package docx

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

const (
	contentTypesXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">` +
		`<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>` +
		`<Default Extension="xml" ContentType="application/xml"/>` +
		`<Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>` +
		`</Types>`

	packageRelsXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">` +
		`<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/>` +
		`</Relationships>`

	documentOpen = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>`

	// A4 landscape
	documentClose = `<w:sectPr><w:pgSz w:w="16838" w:h="11906" w:orient="landscape"/>` +
		`<w:pgMar w:top="720" w:right="720" w:bottom="720" w:left="720" w:header="0" w:footer="0" w:gutter="0"/>` +
		`</w:sectPr></w:body></w:document>`
)

type column struct {
	title string
	value string
}

func outageColumns(capacity string) []column {
	return []column{
		{"S.No", "{{inc $i}}"},
		{"Element", "{{$r.Name}}"},
		{"Owner", "{{$r.Owner}}"},
		{capacity, "{{fixed2 $r.Capacity}}"},
		{"Tag", "{{$r.OutageTag}}"},
		{"Reason", "{{$r.Reason}}"},
		{"Remarks", "{{$r.Remarks}}"},
		{"Outage", "{{datetime $r.OutageAt}}"},
		{"Revived", "{{datetime $r.RevivedAt}}"},
		{"Expected revival", "{{datetime $r.ExpectedRevival}}"},
	}
}

var (
	vdiColumns = []column{
		{"Station", "{{$r.Station}}"},
		{"Max (kV)", "{{$r.MaxVol}}"},
		{"Min (kV)", "{{$r.MinVol}}"},
		{"< Band (%)", "{{fixed2 $r.LessThanBand}}"},
		{"Within band (%)", "{{fixed2 $r.BetweenBand}}"},
		{"> Band (%)", "{{fixed2 $r.GreaterThanBand}}"},
		{"< Band (hh:mm)", "{{span $r.LessBandHrs}}"},
		{"> Band (hh:mm)", "{{span $r.GreatBandHrs}}"},
		{"Out of band (hh:mm)", "{{span $r.OutOfBandHrs}}"},
		{"VDI", "{{fixed2 $r.Vdi}}"},
	}
	voltStatsColumns = []column{
		{"Station", "{{$r.Station}}"},
		{"Voltage (kV)", "{{fixed2 $r.Value}}"},
		{"Time", "{{datetime $r.At}}"},
	}
	angleColumns = []column{
		{"Station pair", "{{$r.Pair}}"},
		{"Limit (deg)", "{{fixed2 $r.Limit}}"},
		{"Violation (%)", "{{fixed2 $r.ViolationPerc}}"},
		{"Max angle (deg)", "{{fixed2 $r.MaxAngle}}"},
		{"Time", "{{datetime $r.MaxAngleAt}}"},
	}
)

func seasonColumns(subject, field string) []column {
	return []column{
		{subject, "{{$r." + field + "}}"},
		{"Season / antecedent", "{{$r.Season}}"},
		{"Description", "{{$r.Description}}"},
	}
}

type section struct {
	heading string
	rows    string
	columns []column
}

var starterSections = []section{
	{"1. Generating unit outages", ".GenOutages", outageColumns("Capacity (MW)")},
	{"2. Transmission element outages", ".TransOutages", outageColumns("Voltage (kV)")},
	{"3. Long time outages", ".LongTimeOutages", outageColumns("Voltage (kV)")},
	{"4. Frequency profile", ".FreqProfRows", []column{
		{"Day", "{{$r.Day}}"},
		{"Max (Hz)", "{{fixed2 $r.Max}}"},
		{"Min (Hz)", "{{fixed2 $r.Min}}"},
		{"Avg (Hz)", "{{fixed2 $r.Avg}}"},
		{"< Band (%)", "{{fixed2 $r.LessThanBand}}"},
		{"Within band (%)", "{{fixed2 $r.BetweenBand}}"},
		{"> Band (%)", "{{fixed2 $r.GreaterThanBand}}"},
		{"Out of band (%)", "{{fixed2 $r.OutOfBand}}"},
		{"Out of band (hrs)", "{{fixed2 $r.OutOfBandHrs}}"},
		{"FDI", "{{fixed2 $r.Fdi}}"},
	}},
	{"5. Voltage deviation index, 400 kV", ".Vdi400Rows", vdiColumns},
	{"6. Voltage deviation index, 765 kV", ".Vdi765Rows", vdiColumns},
	{"7.1 Maximum voltage, 400 kV", ".VoltStats.Table1", voltStatsColumns},
	{"7.2 Minimum voltage, 400 kV", ".VoltStats.Table2", voltStatsColumns},
	{"7.3 Maximum voltage, 765 kV", ".VoltStats.Table3", voltStatsColumns},
	{"7.4 Minimum voltage, 765 kV", ".VoltStats.Table4", voltStatsColumns},
	{"8. IEGC violation messages", ".ViolMsgs", []column{
		{"Message", "{{$r.MsgID}}"},
		{"Date", "{{date $r.Date}}"},
		{"Entity", "{{$r.Entity}}"},
		{"Schedule (MW)", "{{$r.Schedule}}"},
		{"Drawal (MW)", "{{$r.Drawal}}"},
		{"Deviation (MW)", "{{$r.Deviation}}"},
	}},
	{"9.1 Wide area angle violations", ".WideViols", angleColumns},
	{"9.2 Adjacent angle violations", ".AdjViols", angleColumns},
	{"10. ICT constraints", ".IctCons", seasonColumns("ICT", "Ict")},
	{"11. Transmission constraints", ".TransCons", seasonColumns("Element", "Element")},
	{"12. High voltage nodes", ".HvNodes", seasonColumns("Nodes", "Nodes")},
	{"13. Low voltage nodes", ".LvNodes", seasonColumns("Nodes", "Nodes")},
}

// WriteStarterTemplate writes a plain .docx template that covers every
// report section. It is meant as a starting point for the styled template.
func WriteStarterTemplate(w io.Writer) error {
	zw := zip.NewWriter(w)
	parts := []struct{ name, body string }{
		{"[Content_Types].xml", contentTypesXML},
		{"_rels/.rels", packageRelsXML},
		{"word/document.xml", starterDocument()},
	}
	for _, p := range parts {
		fw, err := zw.Create(p.name)
		if err != nil {
			return fmt.Errorf("create %s: %w", p.name, err)
		}
		if _, err := io.WriteString(fw, p.body); err != nil {
			return fmt.Errorf("write %s: %w", p.name, err)
		}
	}
	return zw.Close()
}

func starterDocument() string {
	var b strings.Builder
	b.WriteString(documentOpen)
	paragraph(&b, "Weekly Report No. {{.WeekNum}} for {{.StartDt}} to {{.EndDt}} (FY {{.FinYear}})", true)
	for _, s := range starterSections {
		paragraph(&b, s.heading, true)
		table(&b, s.rows, s.columns)
		if s.rows == ".FreqProfRows" {
			paragraph(&b, "Weekly FDI: {{if lt .WeeklyFdi 0.0}}NA{{else}}{{fixed2 .WeeklyFdi}}{{end}}", false)
		}
	}
	b.WriteString(documentClose)
	return b.String()
}

func paragraph(b *strings.Builder, text string, bold bool) {
	b.WriteString("<w:p>")
	run(b, text, bold)
	b.WriteString("</w:p>")
}

func run(b *strings.Builder, text string, bold bool) {
	b.WriteString("<w:r>")
	if bold {
		b.WriteString("<w:rPr><w:b/></w:rPr>")
	}
	b.WriteString(`<w:t xml:space="preserve">`)
	_ = xml.EscapeText(b, []byte(text))
	b.WriteString("</w:t></w:r>")
}

func table(b *strings.Builder, rows string, cols []column) {
	b.WriteString(`<w:tbl><w:tblPr><w:tblW w:w="5000" w:type="pct"/><w:tblBorders>`)
	for _, edge := range []string{"top", "left", "bottom", "right", "insideH", "insideV"} {
		fmt.Fprintf(b, `<w:%s w:val="single" w:sz="4" w:space="0" w:color="000000"/>`, edge)
	}
	b.WriteString(`</w:tblBorders></w:tblPr><w:tblGrid>`)
	for range cols {
		b.WriteString(`<w:gridCol/>`)
	}
	b.WriteString(`</w:tblGrid>`)

	titles := make([]string, len(cols))
	values := make([]string, len(cols))
	for i, c := range cols {
		titles[i], values[i] = c.title, c.value
	}
	tableRow(b, titles, true)
	tableRow(b, []string{"{{tr range $i, $r := " + rows + "}}"}, false)
	tableRow(b, values, false)
	tableRow(b, []string{"{{tr end}}"}, false)
	b.WriteString("</w:tbl>")
}

func tableRow(b *strings.Builder, cells []string, bold bool) {
	b.WriteString("<w:tr>")
	for _, c := range cells {
		b.WriteString("<w:tc><w:p>")
		run(b, c, bold)
		b.WriteString("</w:p></w:tc>")
	}
	b.WriteString("</w:tr>")
}
