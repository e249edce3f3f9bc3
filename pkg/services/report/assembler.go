// Package report assembles, renders and publishes the weekly report.
package report

import (
	"context"
	"time"

	"github.com/de-tools/grid-weekly-report/pkg/calendar"
	"github.com/de-tools/grid-weekly-report/pkg/models/domain"
	"github.com/rs/zerolog"
)

const logDateLayout = "2006-01-02"

// Recorder is notified of every section that fell back to its default.
type Recorder interface {
	SectionDegraded(section domain.Section)
}

type nopRecorder struct{}

func (nopRecorder) SectionDegraded(domain.Section) {}

// Assembly is an assembled report context and the sections that could not be fetched.
type Assembly struct {
	Context  domain.ReportContext
	Degraded []domain.Section
}

// Assembler builds the report context of a window from the independent sources.
// A failing source never fails the assembly: its section keeps the default value.
type Assembler struct {
	sources  Sources
	recorder Recorder
}

func NewAssembler(sources Sources, recorder Recorder) *Assembler {
	if recorder == nil {
		recorder = nopRecorder{}
	}
	return &Assembler{sources: sources, recorder: recorder}
}

// Assemble fetches every section for [start, end]; end is extended to the last
// second of its day. Sources are queried one after another.
func (a *Assembler) Assemble(ctx context.Context, start, end time.Time) Assembly {
	end = calendar.EndOfDay(end)
	r := &run{
		ctx:      ctx,
		start:    start,
		end:      end,
		recorder: a.recorder,
	}
	b := newBuilder(start, end)
	s := a.sources

	b.genOutages(collect(r, domain.SectionGenOutages, []domain.Outage{}, windowed(s.GenOutages, start, end)))
	b.transOutages(collect(r, domain.SectionTransOutages, []domain.Outage{}, windowed(s.TransOutages, start, end)))
	b.longTimeOutages(collect(r, domain.SectionLongTimeOutages, []domain.Outage{}, windowed(s.LongTimeOutages, start, end)))
	b.freqProfile(collect(r, domain.SectionFreqProfile,
		domain.FrequencyProfile{Rows: []domain.FreqProfileRow{}, WeeklyFdi: domain.NoWeeklyFdi},
		windowed(s.FreqProfile, start, end)))
	b.vdi(collect(r, domain.SectionVdi, domain.StationwiseVdi{}, func(ctx context.Context) (domain.StationwiseVdi, error) {
		return s.Vdi.Fetch(ctx, start)
	}))
	b.voltStats(collect(r, domain.SectionVoltStats, domain.NewVoltStats(), windowed(s.VoltStats, start, end)))
	b.violMsgs(collect(r, domain.SectionViolMsgs, []domain.ViolationMessage{}, windowed(s.ViolMsgs, start, end)))
	b.angleViols(collect(r, domain.SectionAngleViols, domain.AngleViolSummary{}, windowed(s.AngleViols, start, end)))
	b.ictConstraints(collect(r, domain.SectionIctConstraints, []domain.IctConstraint{}, windowed(s.IctConstraints, start, end)))
	b.transConstraints(collect(r, domain.SectionTransConstraint, []domain.TransConstraint{}, windowed(s.TransConstraints, start, end)))
	b.hvNodes(collect(r, domain.SectionHvNodes, []domain.NodeInfo{}, windowed(s.HvNodes, start, end)))
	b.lvNodes(collect(r, domain.SectionLvNodes, []domain.NodeInfo{}, windowed(s.LvNodes, start, end)))

	return Assembly{Context: b.build(), Degraded: r.degraded}
}

// run carries the state shared by the section fetches of one assembly.
type run struct {
	ctx      context.Context
	start    time.Time
	end      time.Time
	recorder Recorder
	degraded []domain.Section
}

func (r *run) degrade(section domain.Section) {
	r.degraded = append(r.degraded, section)
	r.recorder.SectionDegraded(section)
}

func windowed[T any](f Fetcher[T], start, end time.Time) func(ctx context.Context) (T, error) {
	return func(ctx context.Context) (T, error) {
		return f.Fetch(ctx, start, end)
	}
}

// collect runs one section fetch. Errors and panics are logged and replaced
// by def, and the section is recorded as degraded.
func collect[T any](r *run, section domain.Section, def T, fetch func(ctx context.Context) (T, error)) (value T) {
	logger := zerolog.Ctx(r.ctx).With().
		Str("startDate", r.start.Format(logDateLayout)).
		Str("endDate", r.end.Format(logDateLayout)).
		Str("section", string(section)).
		Logger()

	defer func() {
		if p := recover(); p != nil {
			logger.Error().Interface("panic", p).Msg("report section fetch panicked")
			r.degrade(section)
			value = def
		}
	}()

	v, err := fetch(r.ctx)
	if err != nil {
		logger.Error().Err(err).Msg("report section fetch failed")
		r.degrade(section)
		return def
	}
	return v
}
