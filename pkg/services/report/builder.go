package report

import (
	"time"

	"github.com/de-tools/grid-weekly-report/pkg/calendar"
	"github.com/de-tools/grid-weekly-report/pkg/models/domain"
)

// builder accumulates sections; only build hands out a ReportContext.
type builder struct {
	rc domain.ReportContext
}

func newBuilder(start, end time.Time) *builder {
	return &builder{rc: domain.NewReportContext(start, end)}
}

func (b *builder) genOutages(v []domain.Outage)      { b.rc.GenOutages = orEmpty(v) }
func (b *builder) transOutages(v []domain.Outage)    { b.rc.TransOutages = orEmpty(v) }
func (b *builder) longTimeOutages(v []domain.Outage) { b.rc.LongTimeOutages = orEmpty(v) }

func (b *builder) freqProfile(v domain.FrequencyProfile) {
	b.rc.FreqProfRows = orEmpty(v.Rows)
	b.rc.WeeklyFdi = v.WeeklyFdi
}

func (b *builder) vdi(v domain.StationwiseVdi) {
	b.rc.Vdi400Rows = orEmpty(v.Vdi400Rows)
	b.rc.Vdi765Rows = orEmpty(v.Vdi765Rows)
}

func (b *builder) voltStats(v domain.VoltStats) {
	b.rc.VoltStats = domain.VoltStats{
		Table1: orEmpty(v.Table1),
		Table2: orEmpty(v.Table2),
		Table3: orEmpty(v.Table3),
		Table4: orEmpty(v.Table4),
	}
}

func (b *builder) violMsgs(v []domain.ViolationMessage) { b.rc.ViolMsgs = orEmpty(v) }

func (b *builder) angleViols(v domain.AngleViolSummary) {
	b.rc.WideViols = orEmpty(v.WideViols)
	b.rc.AdjViols = orEmpty(v.AdjViols)
}

func (b *builder) ictConstraints(v []domain.IctConstraint)     { b.rc.IctCons = orEmpty(v) }
func (b *builder) transConstraints(v []domain.TransConstraint) { b.rc.TransCons = orEmpty(v) }
func (b *builder) hvNodes(v []domain.NodeInfo)                 { b.rc.HvNodes = orEmpty(v) }
func (b *builder) lvNodes(v []domain.NodeInfo)                 { b.rc.LvNodes = orEmpty(v) }

// build fills the fields derived from the window and returns the finished context.
func (b *builder) build() domain.ReportContext {
	rc := b.rc
	rc.WeekNum = calendar.FinYearWeekNumber(rc.StartDate)
	rc.FinYear = calendar.FinYearLabel(calendar.FinYear(rc.StartDate))
	return rc
}

func orEmpty[T any](v []T) []T {
	if v == nil {
		return []T{}
	}
	return v
}
