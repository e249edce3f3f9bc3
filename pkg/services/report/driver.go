package report

import (
	"context"
	"time"

	"github.com/de-tools/grid-weekly-report/pkg/calendar"
	"github.com/de-tools/grid-weekly-report/pkg/models/domain"
	"github.com/rs/zerolog"
)

// WeekGenerator produces the report of one week.
type WeekGenerator interface {
	Generate(ctx context.Context, window domain.WeekWindow) domain.WeekOutcome
}

// Runner generates the reports of every week touching a date range.
type Runner interface {
	Run(ctx context.Context, start, end time.Time) domain.Outcomes
}

// Driver walks a date range week by week.
type Driver struct {
	generator WeekGenerator
}

func NewDriver(generator WeekGenerator) *Driver {
	return &Driver{generator: generator}
}

// Run generates one report per Monday-Sunday week covering [start, end], in
// order. The first week may begin before start. Once ctx is done the
// remaining weeks are reported as failed without being generated.
func (d *Driver) Run(ctx context.Context, start, end time.Time) domain.Outcomes {
	logger := zerolog.Ctx(ctx)
	weeks := calendar.Weeks(start, end)
	outcomes := make(domain.Outcomes, 0, len(weeks))

	for _, week := range weeks {
		if err := ctx.Err(); err != nil {
			logger.Warn().
				Err(err).
				Str("startDate", week.Start.Format(logDateLayout)).
				Msg("weekly report generation cancelled")
			outcomes = append(outcomes, domain.WeekOutcome{Window: week, Err: err})
			continue
		}
		outcomes = append(outcomes, d.generator.Generate(ctx, week))
	}

	logger.Info().
		Int("weeks", len(outcomes)).
		Bool("success", outcomes.Succeeded()).
		Msg("weekly report run finished")
	return outcomes
}
