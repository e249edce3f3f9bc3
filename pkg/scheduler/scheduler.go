package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/de-tools/grid-weekly-report/pkg/calendar"
	"github.com/de-tools/grid-weekly-report/pkg/models/domain"
	"github.com/de-tools/grid-weekly-report/pkg/services/report"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// Scheduler generates the previous week's report on a cron schedule.
type Scheduler struct {
	cron   *cron.Cron
	runner report.Runner
	spec   string
	now    func() time.Time
	ctx    context.Context
}

// New validates spec (standard five field cron syntax or descriptors such as
// @weekly) and registers the weekly job. Overlapping runs are skipped.
func New(logger zerolog.Logger, runner report.Runner, spec string) (*Scheduler, error) {
	cronLog := cronLogger{logger: logger}
	s := &Scheduler{
		cron: cron.New(
			cron.WithLocation(time.Local),
			cron.WithLogger(cronLog),
			cron.WithChain(cron.Recover(cronLog), cron.SkipIfStillRunning(cronLog)),
		),
		runner: runner,
		spec:   spec,
		now:    time.Now,
		ctx:    logger.WithContext(context.Background()),
	}

	if _, err := s.cron.AddFunc(spec, func() { s.RunPreviousWeek(s.ctx) }); err != nil {
		return nil, fmt.Errorf("failed to schedule weekly report %q: %w", spec, err)
	}
	return s, nil
}

// Start runs the schedule until Stop. Jobs use ctx for logging and cancellation.
func (s *Scheduler) Start(ctx context.Context) {
	s.ctx = ctx
	zerolog.Ctx(ctx).Info().Str("schedule", s.spec).Msg("weekly report scheduler started")
	s.cron.Start()
}

// Stop waits for a running job to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	zerolog.Ctx(s.ctx).Info().Msg("weekly report scheduler stopped")
}

// RunPreviousWeek generates the report of the last complete Monday-Sunday week.
func (s *Scheduler) RunPreviousWeek(ctx context.Context) domain.Outcomes {
	week := calendar.PreviousWeek(s.now())
	logger := zerolog.Ctx(ctx).With().
		Str("startDate", week.Start.Format(time.DateOnly)).
		Str("endDate", week.End.Format(time.DateOnly)).
		Logger()

	logger.Info().Msg("scheduled weekly report started")
	outcomes := s.runner.Run(logger.WithContext(ctx), week.Start, week.End)
	if !outcomes.Succeeded() {
		logger.Error().Msg("scheduled weekly report unsuccessful")
		return outcomes
	}
	logger.Info().Msg("scheduled weekly report done")
	return outcomes
}

// cronLogger routes cron's own messages through zerolog.
type cronLogger struct {
	logger zerolog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Debug().Fields(keysAndValues).Msg(msg)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Error().Err(err).Fields(keysAndValues).Msg(msg)
}
