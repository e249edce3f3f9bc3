package report

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/de-tools/grid-weekly-report/pkg/models/domain"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var (
	monday = time.Date(2020, 8, 10, 0, 0, 0, 0, time.UTC)
	sunday = time.Date(2020, 8, 16, 0, 0, 0, 0, time.UTC)
)

func loggedContext(buf *bytes.Buffer) context.Context {
	logger := zerolog.New(buf)
	return logger.WithContext(context.Background())
}

func TestAssemble_AllSectionsPopulated(t *testing.T) {
	// Given every source answers
	assembler := NewAssembler(stubSources(), nil)

	// When the week is assembled
	assembly := assembler.Assemble(context.Background(), monday, sunday)

	// Then every section carries data and nothing is degraded
	rc := assembly.Context
	assert.Empty(t, assembly.Degraded)
	assert.Equal(t, "10-Aug-2020", rc.StartDt)
	assert.Equal(t, "16-Aug-2020", rc.EndDt)
	assert.Equal(t, time.Date(2020, 8, 16, 23, 59, 59, 0, time.UTC), rc.EndDate)
	assert.Equal(t, 20, rc.WeekNum)
	assert.Equal(t, "2020-21", rc.FinYear)
	assert.Len(t, rc.GenOutages, 1)
	assert.Len(t, rc.TransOutages, 1)
	assert.Len(t, rc.LongTimeOutages, 1)
	assert.Len(t, rc.FreqProfRows, 1)
	assert.Equal(t, 0.1, rc.WeeklyFdi)
	assert.Len(t, rc.Vdi400Rows, 1)
	assert.Len(t, rc.Vdi765Rows, 1)
	assert.Len(t, rc.VoltStats.Table1, 1)
	assert.NotNil(t, rc.VoltStats.Table4)
	assert.Len(t, rc.ViolMsgs, 1)
	assert.Len(t, rc.WideViols, 1)
	assert.NotNil(t, rc.AdjViols)
	assert.Len(t, rc.IctCons, 1)
	assert.Len(t, rc.TransCons, 1)
	assert.Len(t, rc.HvNodes, 1)
	assert.Len(t, rc.LvNodes, 1)
	assert.Equal(t, "Weekly_no_20_10-08-2020_to_16-08-2020", rc.FileStem())
}

func TestAssemble_PassesWindowToSources(t *testing.T) {
	sources := stubSources()
	freq := new(mockFetcher[domain.FrequencyProfile])
	freq.On("Fetch", mock.Anything, monday, time.Date(2020, 8, 16, 23, 59, 59, 0, time.UTC)).
		Return(domain.FrequencyProfile{WeeklyFdi: 0.2}, nil).Once()
	vdi := new(mockWeekFetcher[domain.StationwiseVdi])
	vdi.On("Fetch", mock.Anything, monday).Return(domain.StationwiseVdi{}, nil).Once()
	sources.FreqProfile = freq
	sources.Vdi = vdi

	assembly := NewAssembler(sources, nil).Assemble(context.Background(), monday, sunday)

	freq.AssertExpectations(t)
	vdi.AssertExpectations(t)
	assert.NotNil(t, assembly.Context.FreqProfRows)
	assert.NotNil(t, assembly.Context.Vdi400Rows)
}

func TestAssemble_FailingSourceFallsBackToDefault(t *testing.T) {
	// Given the VDI source fails and the frequency source panics
	sources := stubSources()
	vdi := new(mockWeekFetcher[domain.StationwiseVdi])
	vdi.On("Fetch", mock.Anything, monday).
		Return(domain.StationwiseVdi{}, errors.New("ORA-12541: TNS:no listener"))
	sources.Vdi = vdi
	sources.FreqProfile = nil

	recorder := new(mockRecorder)
	recorder.On("SectionDegraded", domain.SectionFreqProfile).Once()
	recorder.On("SectionDegraded", domain.SectionVdi).Once()

	var logs bytes.Buffer
	ctx := loggedContext(&logs)

	// When the week is assembled
	var assembly Assembly
	require.NotPanics(t, func() {
		assembly = NewAssembler(sources, recorder).Assemble(ctx, monday, sunday)
	})

	// Then the failed sections keep their defaults and the rest are populated
	rc := assembly.Context
	assert.Equal(t, []domain.Section{domain.SectionFreqProfile, domain.SectionVdi}, assembly.Degraded)
	assert.Equal(t, domain.NoWeeklyFdi, rc.WeeklyFdi)
	assert.Empty(t, rc.FreqProfRows)
	assert.NotNil(t, rc.Vdi400Rows)
	assert.Empty(t, rc.Vdi400Rows)
	assert.Empty(t, rc.Vdi765Rows)
	assert.Len(t, rc.GenOutages, 1)
	assert.Len(t, rc.ViolMsgs, 1)
	assert.Len(t, rc.LvNodes, 1)
	recorder.AssertExpectations(t)

	// And the failure is logged with the window and the section
	assert.Contains(t, logs.String(), `"section":"vdi"`)
	assert.Contains(t, logs.String(), `"startDate":"2020-08-10"`)
	assert.Contains(t, logs.String(), `"endDate":"2020-08-16"`)
	assert.Contains(t, logs.String(), "TNS:no listener")
	assert.Contains(t, logs.String(), "report section fetch panicked")
}

func TestAssemble_EverySourceFailing(t *testing.T) {
	assembly := NewAssembler(Sources{}, nil).Assemble(context.Background(), monday, sunday)

	assert.ElementsMatch(t, domain.Sections, assembly.Degraded)
	assert.Equal(t, domain.NewReportContext(monday, time.Date(2020, 8, 16, 23, 59, 59, 0, time.UTC)).GenOutages, assembly.Context.GenOutages)
	assert.Equal(t, 20, assembly.Context.WeekNum)
	assert.Equal(t, domain.NoWeeklyFdi, assembly.Context.WeeklyFdi)
}

func TestCollect_ReturnsValueOnSuccess(t *testing.T) {
	r := &run{ctx: context.Background(), start: monday, end: sunday, recorder: nopRecorder{}}

	got := collect(r, domain.SectionHvNodes, []domain.NodeInfo{}, func(context.Context) ([]domain.NodeInfo, error) {
		return []domain.NodeInfo{{Nodes: "BINAGURI"}}, nil
	})

	assert.Equal(t, []domain.NodeInfo{{Nodes: "BINAGURI"}}, got)
	assert.Empty(t, r.degraded)
}
