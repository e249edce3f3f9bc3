package report

import (
	"context"
	"time"

	"github.com/de-tools/grid-weekly-report/pkg/models/domain"
	"github.com/stretchr/testify/mock"
)

type mockFetcher[T any] struct {
	mock.Mock
}

func (m *mockFetcher[T]) Fetch(ctx context.Context, start, end time.Time) (T, error) {
	args := m.Called(ctx, start, end)
	return args.Get(0).(T), args.Error(1)
}

type mockWeekFetcher[T any] struct {
	mock.Mock
}

func (m *mockWeekFetcher[T]) Fetch(ctx context.Context, weekStart time.Time) (T, error) {
	args := m.Called(ctx, weekStart)
	return args.Get(0).(T), args.Error(1)
}

type mockRecorder struct {
	mock.Mock
}

func (m *mockRecorder) SectionDegraded(section domain.Section) {
	m.Called(section)
}

func (m *mockRecorder) WeekGenerated(success bool, elapsed time.Duration) {
	m.Called(success, elapsed)
}

type mockRenderer struct {
	mock.Mock
}

func (m *mockRenderer) Render(ctx context.Context, rc domain.ReportContext) (string, error) {
	args := m.Called(ctx, rc)
	return args.String(0), args.Error(1)
}

type mockExporter struct {
	mock.Mock
	name string
}

func (m *mockExporter) Name() string { return m.name }

func (m *mockExporter) Export(ctx context.Context, rc domain.ReportContext) (string, error) {
	args := m.Called(ctx, rc)
	return args.String(0), args.Error(1)
}

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) Publish(ctx context.Context, path string) (string, error) {
	args := m.Called(ctx, path)
	return args.String(0), args.Error(1)
}

type mockWeekGenerator struct {
	mock.Mock
}

func (m *mockWeekGenerator) Generate(ctx context.Context, window domain.WeekWindow) domain.WeekOutcome {
	args := m.Called(ctx, window)
	return args.Get(0).(domain.WeekOutcome)
}

// stubSources answers every section with one fixed record.
func stubSources() Sources {
	at := time.Date(2020, 8, 11, 9, 0, 0, 0, time.UTC)

	gen := new(mockFetcher[[]domain.Outage])
	gen.On("Fetch", mock.Anything, mock.Anything, mock.Anything).
		Return([]domain.Outage{{Name: "KAHALGAON-1", OutageAt: at}}, nil)
	trans := new(mockFetcher[[]domain.Outage])
	trans.On("Fetch", mock.Anything, mock.Anything, mock.Anything).
		Return([]domain.Outage{{Name: "400KV MAITHON-RANCHI-1", OutageAt: at}}, nil)
	long := new(mockFetcher[[]domain.Outage])
	long.On("Fetch", mock.Anything, mock.Anything, mock.Anything).
		Return([]domain.Outage{{Name: "220KV DALKHOLA-PURNEA-2", OutageAt: at.AddDate(0, -3, 0)}}, nil)
	freq := new(mockFetcher[domain.FrequencyProfile])
	freq.On("Fetch", mock.Anything, mock.Anything, mock.Anything).
		Return(domain.FrequencyProfile{Rows: []domain.FreqProfileRow{{Day: 10, OutOfBandHrs: 16.8}}, WeeklyFdi: 0.1}, nil)
	vdi := new(mockWeekFetcher[domain.StationwiseVdi])
	vdi.On("Fetch", mock.Anything, mock.Anything).
		Return(domain.StationwiseVdi{Vdi400Rows: []domain.VdiRow{{Station: "BINAGURI"}}, Vdi765Rows: []domain.VdiRow{{Station: "RANCHI"}}}, nil)
	volt := new(mockFetcher[domain.VoltStats])
	volt.On("Fetch", mock.Anything, mock.Anything, mock.Anything).
		Return(domain.VoltStats{Table1: []domain.VoltStatsRow{{Station: "MAITHON", Level: 400, Value: 430}}}, nil)
	viol := new(mockFetcher[[]domain.ViolationMessage])
	viol.On("Fetch", mock.Anything, mock.Anything, mock.Anything).
		Return([]domain.ViolationMessage{{MsgID: "ER/2020/114", Entity: "BIHAR"}}, nil)
	angle := new(mockFetcher[domain.AngleViolSummary])
	angle.On("Fetch", mock.Anything, mock.Anything, mock.Anything).
		Return(domain.AngleViolSummary{WideViols: []domain.AngleViolation{{Pair: "RANCHI-SIPAT"}}}, nil)
	ict := new(mockFetcher[[]domain.IctConstraint])
	ict.On("Fetch", mock.Anything, mock.Anything, mock.Anything).
		Return([]domain.IctConstraint{{Ict: "MAITHON 2x500MVA"}}, nil)
	tc := new(mockFetcher[[]domain.TransConstraint])
	tc.On("Fetch", mock.Anything, mock.Anything, mock.Anything).
		Return([]domain.TransConstraint{{Element: "400KV FARAKKA-MALDA"}}, nil)
	hv := new(mockFetcher[[]domain.NodeInfo])
	hv.On("Fetch", mock.Anything, mock.Anything, mock.Anything).
		Return([]domain.NodeInfo{{Nodes: "BINAGURI"}}, nil)
	lv := new(mockFetcher[[]domain.NodeInfo])
	lv.On("Fetch", mock.Anything, mock.Anything, mock.Anything).
		Return([]domain.NodeInfo{{Nodes: "GAYA"}}, nil)

	return Sources{
		GenOutages:       gen,
		TransOutages:     trans,
		LongTimeOutages:  long,
		FreqProfile:      freq,
		Vdi:              vdi,
		VoltStats:        volt,
		ViolMsgs:         viol,
		AngleViols:       angle,
		IctConstraints:   ict,
		TransConstraints: tc,
		HvNodes:          hv,
		LvNodes:          lv,
	}
}
