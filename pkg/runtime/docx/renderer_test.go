package docx

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/de-tools/grid-weekly-report/pkg/models/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeStarter(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "weekly_report_template.docx")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, WriteStarterTemplate(f))
	require.NoError(t, f.Close())
	return path
}

func readDocument(t *testing.T, path string) string {
	t.Helper()
	zr, err := zip.OpenReader(path)
	require.NoError(t, err)
	defer zr.Close()
	for _, f := range zr.File {
		if f.Name != "word/document.xml" {
			continue
		}
		rc, err := f.Open()
		require.NoError(t, err)
		defer rc.Close()
		data, err := io.ReadAll(rc)
		require.NoError(t, err)
		return string(data)
	}
	t.Fatalf("word/document.xml not found in %s", path)
	return ""
}

func sampleContext() domain.ReportContext {
	start := time.Date(2020, 8, 10, 0, 0, 0, 0, time.UTC)
	end := time.Date(2020, 8, 16, 23, 59, 59, 0, time.UTC)
	rc := domain.NewReportContext(start, end)
	rc.WeekNum = 20
	rc.FinYear = "2020-21"
	rc.GenOutages = []domain.Outage{
		{Name: "KAHALGAON-1", Owner: "NTPC", Capacity: 210, OutageTag: "RSD", OutageAt: start},
		{Name: "FARAKKA-2", Owner: "NTPC & Co", Capacity: 200, Reason: "Tube <leak>", OutageAt: start},
	}
	rc.FreqProfRows = []domain.FreqProfileRow{{Day: 10, Max: 50.21, OutOfBandHrs: 4.8}}
	rc.WeeklyFdi = 0.0286
	rc.Vdi400Rows = []domain.VdiRow{{Station: "BINAGURI", MaxVol: 420, GreatBandHrs: 29.6}}
	return rc
}

func TestRender_WritesNamedDocument(t *testing.T) {
	dump := filepath.Join(t.TempDir(), "dump")
	r := NewRenderer(writeStarter(t), dump)

	path, err := r.Render(context.Background(), sampleContext())

	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dump, "Weekly_no_20_10-08-2020_to_16-08-2020.docx"), path)

	doc := readDocument(t, path)
	assert.Contains(t, doc, "Weekly Report No. 20 for 10-Aug-2020 to 16-Aug-2020 (FY 2020-21)")
	assert.Contains(t, doc, "KAHALGAON-1")
	assert.Contains(t, doc, "FARAKKA-2")
	assert.Contains(t, doc, "NTPC &amp; Co")
	assert.Contains(t, doc, "Tube &lt;leak&gt;")
	assert.Contains(t, doc, "210.00")
	assert.Contains(t, doc, "10-08-2020 00:00")
	assert.Contains(t, doc, "Weekly FDI: 0.03")
	assert.Contains(t, doc, "29:36")
	assert.NotContains(t, doc, "{{")

	entries, err := os.ReadDir(dump)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestRender_RepeatsRowsPerRecord(t *testing.T) {
	r := NewRenderer(writeStarter(t), t.TempDir())
	rc := sampleContext()

	path, err := r.Render(context.Background(), rc)
	require.NoError(t, err)
	doc := readDocument(t, path)

	assert.Equal(t, 1, bytes.Count([]byte(doc), []byte("KAHALGAON-1")))
	assert.Contains(t, doc, "<w:t xml:space=\"preserve\">1</w:t>")
	assert.Contains(t, doc, "<w:t xml:space=\"preserve\">2</w:t>")
}

func TestRender_EmptySectionsAndNoFdi(t *testing.T) {
	start := time.Date(2021, 3, 29, 0, 0, 0, 0, time.UTC)
	rc := domain.NewReportContext(start, time.Date(2021, 4, 4, 23, 59, 59, 0, time.UTC))
	rc.WeekNum = 1
	rc.FinYear = "2021-22"
	r := NewRenderer(writeStarter(t), t.TempDir())

	path, err := r.Render(context.Background(), rc)

	require.NoError(t, err)
	assert.Equal(t, "Weekly_no_1_29-03-2021_to_04-04-2021.docx", filepath.Base(path))
	assert.Contains(t, readDocument(t, path), "Weekly FDI: NA")
}

func TestRender_OverwritesExistingFile(t *testing.T) {
	dump := t.TempDir()
	r := NewRenderer(writeStarter(t), dump)
	rc := sampleContext()
	require.NoError(t, os.WriteFile(r.OutputPath(rc), []byte("stale"), 0o644))

	path, err := r.Render(context.Background(), rc)

	require.NoError(t, err)
	assert.Contains(t, readDocument(t, path), "KAHALGAON-1")
}

func TestRender_MissingTemplate(t *testing.T) {
	r := NewRenderer(filepath.Join(t.TempDir(), "missing.docx"), t.TempDir())

	_, err := r.Render(context.Background(), sampleContext())

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrRender))
}

func TestRender_BrokenTemplateLeavesNoFile(t *testing.T) {
	tmplPath := filepath.Join(t.TempDir(), "broken.docx")
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/document.xml")
	require.NoError(t, err)
	_, err = w.Write([]byte(`<w:document><w:t>{{.NoSuchField}}</w:t></w:document>`))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	require.NoError(t, os.WriteFile(tmplPath, buf.Bytes(), 0o644))

	dump := t.TempDir()
	_, err = NewRenderer(tmplPath, dump).Render(context.Background(), sampleContext())

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrRender))
	entries, err := os.ReadDir(dump)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestRender_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewRenderer(writeStarter(t), t.TempDir()).Render(ctx, sampleContext())

	assert.True(t, errors.Is(err, domain.ErrRender))
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestWriteStarterTemplate_CoversEverySection(t *testing.T) {
	doc := starterDocument()
	for _, field := range []string{
		".GenOutages", ".TransOutages", ".LongTimeOutages", ".FreqProfRows", ".WeeklyFdi",
		".Vdi400Rows", ".Vdi765Rows", ".VoltStats.Table1", ".VoltStats.Table4", ".ViolMsgs",
		".WideViols", ".AdjViols", ".IctCons", ".TransCons", ".HvNodes", ".LvNodes",
	} {
		assert.Contains(t, doc, field)
	}
}
