package warehouse

import (
	"context"
	"database/sql"
	"sort"
	"time"

	"github.com/de-tools/grid-weekly-report/pkg/format"
	"github.com/de-tools/grid-weekly-report/pkg/models/domain"
)

const (
	Level400kV = 400
	Level765kV = 765
)

const weeklyVdiQuery = `
	SELECT vdi.node_name, vdi.node_voltage, vdi.maximum, vdi.minimum,
		vdi.less_than_band, vdi.between_band, vdi.greater_than_band,
		vdi.less_than_band_inhrs, vdi.greater_than_band_inhrs, vdi.out_of_band_inhrs, vdi.vdi
	FROM mis_warehouse.derived_vdi vdi
	JOIN mis_warehouse.voltage_mapping_table mt ON vdi.mapping_id = mt.id
	WHERE mt.is_included_in_weekly_vdi = 'T'
		AND vdi.week_start_date = ?
	ORDER BY vdi.node_name`

const dailyVoltageQuery = `
	SELECT dv.node_name, dv.node_voltage, dv.maximum, dv.max_time, dv.minimum, dv.min_time
	FROM mis_warehouse.derived_voltage dv
	JOIN mis_warehouse.voltage_mapping_table mt ON dv.mapping_id = mt.id
	WHERE mt.is_included_in_weekly_vdi = 'T'
		AND dv.date_key BETWEEN ? AND ?
	ORDER BY dv.node_name, dv.date_key`

// VdiFetcher reads the weekly voltage deviation index keyed by week start.
type VdiFetcher struct {
	wh *Warehouse
}

func NewVdiFetcher(wh *Warehouse) *VdiFetcher {
	return &VdiFetcher{wh: wh}
}

type vdiRecord struct {
	level int
	row   domain.VdiRow
}

// Fetch returns the 400 kV and 765 kV station rows of the week starting on weekStart.
// Rows at other voltage levels are ignored.
func (f *VdiFetcher) Fetch(ctx context.Context, weekStart time.Time) (domain.StationwiseVdi, error) {
	result := domain.StationwiseVdi{Vdi400Rows: []domain.VdiRow{}, Vdi765Rows: []domain.VdiRow{}}

	records, err := queryRows(ctx, f.wh, "weekly vdi", weeklyVdiQuery, []any{weekStart}, scanVdiRecord)
	if err != nil {
		return result, err
	}
	for _, rec := range records {
		switch rec.level {
		case Level400kV:
			result.Vdi400Rows = append(result.Vdi400Rows, rec.row)
		case Level765kV:
			result.Vdi765Rows = append(result.Vdi765Rows, rec.row)
		}
	}
	return result, nil
}

func scanVdiRecord(rows *sql.Rows) (vdiRecord, error) {
	var (
		rec    vdiRecord
		level  float64
		hi, lo float64
	)
	r := &rec.row
	err := rows.Scan(&r.Station, &level, &hi, &lo, &r.LessThanBand, &r.BetweenBand, &r.GreaterThanBand,
		&r.LessBandHrs, &r.GreatBandHrs, &r.OutOfBandHrs, &r.Vdi)
	if err != nil {
		return vdiRecord{}, err
	}
	rec.level = format.RoundInt(level)
	r.MaxVol = format.RoundInt(hi)
	r.MinVol = format.RoundInt(lo)
	return rec, nil
}

// VoltStatsFetcher reports the extreme voltage of every station over the window.
type VoltStatsFetcher struct {
	wh *Warehouse
}

func NewVoltStatsFetcher(wh *Warehouse) *VoltStatsFetcher {
	return &VoltStatsFetcher{wh: wh}
}

type dailyVoltage struct {
	station      string
	level        int
	max, min     float64
	maxAt, minAt time.Time
}

func (f *VoltStatsFetcher) Fetch(ctx context.Context, start, end time.Time) (domain.VoltStats, error) {
	days, err := queryRows(ctx, f.wh, "daily voltage", dailyVoltageQuery, []any{start, end}, scanDailyVoltage)
	if err != nil {
		return domain.NewVoltStats(), err
	}
	return voltStatsFromDays(days), nil
}

func scanDailyVoltage(rows *sql.Rows) (dailyVoltage, error) {
	var (
		d     dailyVoltage
		level float64
	)
	if err := rows.Scan(&d.station, &level, &d.max, &d.maxAt, &d.min, &d.minAt); err != nil {
		return dailyVoltage{}, err
	}
	d.level = format.RoundInt(level)
	return d, nil
}

// voltStatsFromDays folds daily station extremes into the weekly tables:
// maxima sorted high to low and minima sorted low to high, per voltage level.
func voltStatsFromDays(days []dailyVoltage) domain.VoltStats {
	type extremes struct {
		max, min domain.VoltStatsRow
	}
	byStation := map[string]*extremes{}
	var order []string

	for _, d := range days {
		e, ok := byStation[d.station]
		if !ok {
			e = &extremes{
				max: domain.VoltStatsRow{Station: d.station, Level: d.level, Value: d.max, At: d.maxAt},
				min: domain.VoltStatsRow{Station: d.station, Level: d.level, Value: d.min, At: d.minAt},
			}
			byStation[d.station] = e
			order = append(order, d.station)
			continue
		}
		if d.max > e.max.Value {
			e.max.Value, e.max.At = d.max, d.maxAt
		}
		if d.min < e.min.Value {
			e.min.Value, e.min.At = d.min, d.minAt
		}
	}

	stats := domain.NewVoltStats()
	for _, station := range order {
		e := byStation[station]
		switch e.max.Level {
		case Level400kV:
			stats.Table1 = append(stats.Table1, e.max)
			stats.Table2 = append(stats.Table2, e.min)
		case Level765kV:
			stats.Table3 = append(stats.Table3, e.max)
			stats.Table4 = append(stats.Table4, e.min)
		}
	}

	descending := func(rows []domain.VoltStatsRow) {
		sort.SliceStable(rows, func(i, j int) bool { return rows[i].Value > rows[j].Value })
	}
	ascending := func(rows []domain.VoltStatsRow) {
		sort.SliceStable(rows, func(i, j int) bool { return rows[i].Value < rows[j].Value })
	}
	descending(stats.Table1)
	ascending(stats.Table2)
	descending(stats.Table3)
	ascending(stats.Table4)
	return stats
}
