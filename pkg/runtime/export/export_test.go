package export

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/de-tools/grid-weekly-report/pkg/models/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func sampleContext() domain.ReportContext {
	start := time.Date(2020, 8, 10, 0, 0, 0, 0, time.UTC)
	rc := domain.NewReportContext(start, time.Date(2020, 8, 16, 23, 59, 59, 0, time.UTC))
	rc.WeekNum = 20
	rc.FinYear = "2020-21"
	rc.WeeklyFdi = 0.0457
	rc.GenOutages = []domain.Outage{{Name: "KAHALGAON-1", Owner: "NTPC", Capacity: 210, OutageAt: start}}
	rc.TransOutages = []domain.Outage{{Name: "400KV MAITHON-RANCHI-1", Owner: "PGCIL", Capacity: 400, OutageAt: start}}
	rc.FreqProfRows = []domain.FreqProfileRow{{Day: 10, Max: 50.21, Min: 49.81, OutOfBandHrs: 7.68}}
	rc.Vdi400Rows = []domain.VdiRow{{Station: "BINAGURI", MaxVol: 420, MinVol: 392, GreatBandHrs: 29.6, Vdi: 0.18}}
	rc.VoltStats.Table1 = []domain.VoltStatsRow{{Station: "MAITHON", Level: 400, Value: 430, At: start}}
	rc.ViolMsgs = []domain.ViolationMessage{{MsgID: "ER/2020/114", Date: start, Entity: "BIHAR", Schedule: 2500}}
	rc.WideViols = []domain.AngleViolation{{Pair: "RANCHI-SIPAT", ViolationPerc: 20}}
	rc.IctCons = []domain.IctConstraint{{Ict: "MAITHON 2x500MVA", Season: "Summer"}}
	return rc
}

func TestWorkbook_Export(t *testing.T) {
	dump := t.TempDir()
	wb := NewWorkbook(dump)

	path, err := wb.Export(context.Background(), sampleContext())

	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dump, "Weekly_no_20_10-08-2020_to_16-08-2020.xlsx"), path)

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{
		"Summary", "Gen Outages", "Trans Outages", "Long Time Outages", "Frequency", "VDI 400kV",
		"VDI 765kV", "Voltage Stats", "IEGC Violations", "Angle Violations", "Constraints",
	}, f.GetSheetList())

	week, err := f.GetCellValue("Summary", "B2")
	require.NoError(t, err)
	assert.Equal(t, "20", week)

	unit, err := f.GetCellValue("Gen Outages", "A2")
	require.NoError(t, err)
	assert.Equal(t, "KAHALGAON-1", unit)

	span, err := f.GetCellValue("VDI 400kV", "H2")
	require.NoError(t, err)
	assert.Equal(t, "29:36", span)

	header, err := f.GetCellValue("Constraints", "D1")
	require.NoError(t, err)
	assert.Equal(t, "Description", header)
}

func TestWorkbook_NoFdi(t *testing.T) {
	rc := sampleContext()
	rc.WeeklyFdi = domain.NoWeeklyFdi

	f, err := NewWorkbook(t.TempDir()).Build(rc)
	require.NoError(t, err)
	defer f.Close()

	fdi, err := f.GetCellValue("Summary", "B6")
	require.NoError(t, err)
	assert.Equal(t, "NA", fdi)
}

func TestSummaryPDF_Export(t *testing.T) {
	dump := t.TempDir()
	p := NewSummaryPDF(dump)
	p.now = func() time.Time { return time.Date(2020, 8, 17, 9, 0, 0, 0, time.UTC) }

	path, err := p.Export(context.Background(), sampleContext())

	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dump, "Weekly_no_20_10-08-2020_to_16-08-2020.pdf"), path)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")))
}

func TestSummaryPDF_EmptyContext(t *testing.T) {
	rc := domain.NewReportContext(time.Date(2020, 8, 10, 0, 0, 0, 0, time.UTC), time.Date(2020, 8, 16, 0, 0, 0, 0, time.UTC))

	data, err := NewSummaryPDF(t.TempDir()).Generate(rc)

	require.NoError(t, err)
	assert.NotEmpty(t, data)
}

func TestExporters_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewWorkbook(t.TempDir()).Export(ctx, sampleContext())
	assert.ErrorIs(t, err, context.Canceled)

	_, err = NewSummaryPDF(t.TempDir()).Export(ctx, sampleContext())
	assert.ErrorIs(t, err, context.Canceled)
}
