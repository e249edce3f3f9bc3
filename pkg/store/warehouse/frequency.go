package warehouse

import (
	"context"
	"database/sql"
	"time"

	"github.com/de-tools/grid-weekly-report/pkg/models/domain"
)

// HoursPerWeek normalizes the out of band hours into the weekly FDI.
const HoursPerWeek = 168.0

const derivedFrequencyQuery = `
	SELECT date_key, maximum, minimum, average, less_than_band, between_band,
		greater_than_band, out_of_band, out_of_band_inhrs, fdi
	FROM mis_warehouse.derived_frequency
	WHERE date_key BETWEEN ? AND ?
	ORDER BY date_key`

type FrequencyFetcher struct {
	wh *Warehouse
}

func NewFrequencyFetcher(wh *Warehouse) *FrequencyFetcher {
	return &FrequencyFetcher{wh: wh}
}

// Fetch returns the daily frequency profile. WeeklyFdi is the total out of band
// hours over a 168 hour week, or domain.NoWeeklyFdi when no day has data.
func (f *FrequencyFetcher) Fetch(ctx context.Context, start, end time.Time) (domain.FrequencyProfile, error) {
	rows, err := queryRows(ctx, f.wh, "derived frequency", derivedFrequencyQuery, []any{start, end}, scanFreqProfileRow)
	if err != nil {
		return domain.FrequencyProfile{Rows: []domain.FreqProfileRow{}, WeeklyFdi: domain.NoWeeklyFdi}, err
	}
	return FrequencyProfileFromRows(rows), nil
}

// FrequencyProfileFromRows derives the weekly FDI from daily rows.
func FrequencyProfileFromRows(rows []domain.FreqProfileRow) domain.FrequencyProfile {
	if len(rows) == 0 {
		return domain.FrequencyProfile{Rows: []domain.FreqProfileRow{}, WeeklyFdi: domain.NoWeeklyFdi}
	}
	var outHrs float64
	for _, r := range rows {
		outHrs += r.OutOfBandHrs
	}
	return domain.FrequencyProfile{Rows: rows, WeeklyFdi: outHrs / HoursPerWeek}
}

func scanFreqProfileRow(rows *sql.Rows) (domain.FreqProfileRow, error) {
	var (
		day time.Time
		r   domain.FreqProfileRow
	)
	err := rows.Scan(&day, &r.Max, &r.Min, &r.Avg, &r.LessThanBand, &r.BetweenBand,
		&r.GreaterThanBand, &r.OutOfBand, &r.OutOfBandHrs, &r.Fdi)
	if err != nil {
		return domain.FreqProfileRow{}, err
	}
	r.Day = day.Day()
	return r, nil
}
