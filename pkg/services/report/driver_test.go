package report

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/de-tools/grid-weekly-report/pkg/models/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestRun_FifteenDaysFromWednesday(t *testing.T) {
	// Given a 15 day range starting on a Wednesday
	start := day(2020, 10, 7)
	end := day(2020, 10, 21)

	gen := new(mockWeekGenerator)
	gen.On("Generate", mock.Anything, domain.WeekWindow{Start: day(2020, 10, 5), End: day(2020, 10, 11)}).
		Return(domain.WeekOutcome{Success: true}).Once()
	gen.On("Generate", mock.Anything, domain.WeekWindow{Start: day(2020, 10, 12), End: day(2020, 10, 18)}).
		Return(domain.WeekOutcome{Success: true}).Once()
	gen.On("Generate", mock.Anything, domain.WeekWindow{Start: day(2020, 10, 19), End: day(2020, 10, 25)}).
		Return(domain.WeekOutcome{Success: true}).Once()

	// When the range is run
	outcomes := NewDriver(gen).Run(context.Background(), start, end)

	// Then exactly three weekly reports are generated, the first starting before the range
	require.Len(t, outcomes, 3)
	assert.True(t, outcomes.Succeeded())
	gen.AssertExpectations(t)
	gen.AssertNumberOfCalls(t, "Generate", 3)
}

func TestRun_FailedWeekFailsRun(t *testing.T) {
	gen := new(mockWeekGenerator)
	gen.On("Generate", mock.Anything, domain.WeekWindow{Start: day(2020, 10, 5), End: day(2020, 10, 11)}).
		Return(domain.WeekOutcome{Success: false, Err: domain.ErrRender})
	gen.On("Generate", mock.Anything, domain.WeekWindow{Start: day(2020, 10, 12), End: day(2020, 10, 18)}).
		Return(domain.WeekOutcome{Success: true})

	outcomes := NewDriver(gen).Run(context.Background(), day(2020, 10, 5), day(2020, 10, 18))

	require.Len(t, outcomes, 2)
	assert.False(t, outcomes.Succeeded())
	assert.True(t, outcomes.LastSucceeded())
}

func TestRun_StopsWhenCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	gen := new(mockWeekGenerator)
	gen.On("Generate", mock.Anything, domain.WeekWindow{Start: day(2020, 10, 5), End: day(2020, 10, 11)}).
		Run(func(mock.Arguments) { cancel() }).
		Return(domain.WeekOutcome{Success: true})

	outcomes := NewDriver(gen).Run(ctx, day(2020, 10, 5), day(2020, 10, 25))

	require.Len(t, outcomes, 3)
	assert.True(t, outcomes[0].Success)
	assert.False(t, outcomes[1].Success)
	assert.True(t, errors.Is(outcomes[2].Err, context.Canceled))
	assert.False(t, outcomes.Succeeded())
	gen.AssertNumberOfCalls(t, "Generate", 1)
}

func TestRun_EmptyRange(t *testing.T) {
	gen := new(mockWeekGenerator)

	outcomes := NewDriver(gen).Run(context.Background(), day(2020, 10, 8), day(2020, 10, 7))

	assert.Empty(t, outcomes)
	assert.False(t, outcomes.Succeeded())
	gen.AssertNotCalled(t, "Generate", mock.Anything, mock.Anything)
}
