package report

import (
	"context"
	"time"

	"github.com/de-tools/grid-weekly-report/pkg/models/domain"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// HistoryWriter persists the outcomes of a run.
type HistoryWriter interface {
	Add(ctx context.Context, runID string, requested domain.DateRange, outcomes domain.Outcomes) error
}

// RecordingRunner records every run it delegates. A failed write is logged and
// does not change the outcomes.
type RecordingRunner struct {
	runner  Runner
	history HistoryWriter
	newID   func() string
}

func NewRecordingRunner(runner Runner, history HistoryWriter) *RecordingRunner {
	return &RecordingRunner{
		runner:  runner,
		history: history,
		newID:   uuid.NewString,
	}
}

func (r *RecordingRunner) Run(ctx context.Context, start, end time.Time) domain.Outcomes {
	runID := r.newID()
	logger := zerolog.Ctx(ctx).With().Str("runId", runID).Logger()
	ctx = logger.WithContext(ctx)

	outcomes := r.runner.Run(ctx, start, end)

	// The run context may already be cancelled; the ledger write must still land.
	writeCtx := context.WithoutCancel(ctx)
	if err := r.history.Add(writeCtx, runID, domain.DateRange{Start: start, End: end}, outcomes); err != nil {
		logger.Error().Err(err).Msg("failed to record report run")
	}
	return outcomes
}
