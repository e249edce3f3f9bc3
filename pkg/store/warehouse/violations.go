package warehouse

import (
	"context"
	"database/sql"
	"sort"
	"time"

	"github.com/de-tools/grid-weekly-report/pkg/format"
	"github.com/de-tools/grid-weekly-report/pkg/models/domain"
)

const iegcViolationsQuery = `
	SELECT message, date_time, entity, schedule, drawal, deviation
	FROM mis_warehouse.iegc_violation_message_data
	WHERE date_time BETWEEN ? AND ?
		AND entity <> 'nan'
	ORDER BY date_time, message`

const dailyAngleQuery = `
	SELECT station_pair, is_adjacent, angle_limit, violation_perc, max_angle, max_angle_time
	FROM mis_warehouse.daily_angle_data
	WHERE date_time BETWEEN ? AND ?
	ORDER BY date_time, station_pair`

// ViolationFetcher lists the IEGC violation messages issued in a window.
type ViolationFetcher struct {
	wh *Warehouse
}

func NewViolationFetcher(wh *Warehouse) *ViolationFetcher {
	return &ViolationFetcher{wh: wh}
}

func (f *ViolationFetcher) Fetch(ctx context.Context, start, end time.Time) ([]domain.ViolationMessage, error) {
	return queryRows(ctx, f.wh, "iegc violation messages", iegcViolationsQuery, []any{start, end},
		func(rows *sql.Rows) (domain.ViolationMessage, error) {
			var (
				msg                         domain.ViolationMessage
				schedule, drawal, deviation float64
			)
			if err := rows.Scan(&msg.MsgID, &msg.Date, &msg.Entity, &schedule, &drawal, &deviation); err != nil {
				return domain.ViolationMessage{}, err
			}
			msg.Schedule = format.RoundInt(schedule)
			msg.Drawal = format.RoundInt(drawal)
			msg.Deviation = format.RoundInt(deviation)
			return msg, nil
		})
}

// AngleFetcher summarizes daily angle violations per station pair.
type AngleFetcher struct {
	wh *Warehouse
}

func NewAngleFetcher(wh *Warehouse) *AngleFetcher {
	return &AngleFetcher{wh: wh}
}

type dailyAngle struct {
	pair     string
	adjacent bool
	viol     domain.AngleViolation
}

func (f *AngleFetcher) Fetch(ctx context.Context, start, end time.Time) (domain.AngleViolSummary, error) {
	days, err := queryRows(ctx, f.wh, "daily angle data", dailyAngleQuery, []any{start, end}, scanDailyAngle)
	if err != nil {
		return domain.AngleViolSummary{WideViols: []domain.AngleViolation{}, AdjViols: []domain.AngleViolation{}}, err
	}
	return angleSummaryFromDays(days), nil
}

func scanDailyAngle(rows *sql.Rows) (dailyAngle, error) {
	var (
		d        dailyAngle
		adjacent string
	)
	err := rows.Scan(&d.pair, &adjacent, &d.viol.Limit, &d.viol.ViolationPerc, &d.viol.MaxAngle, &d.viol.MaxAngleAt)
	if err != nil {
		return dailyAngle{}, err
	}
	d.adjacent = adjacent == "T"
	d.viol.Pair = d.pair
	return d, nil
}

// angleSummaryFromDays averages the daily violation percentage of each pair and
// keeps its largest angle. Pairs that never violated their limit are dropped.
// Both lists are sorted by violation percentage, highest first.
func angleSummaryFromDays(days []dailyAngle) domain.AngleViolSummary {
	type acc struct {
		adjacent bool
		days     int
		viol     domain.AngleViolation
	}
	byPair := map[string]*acc{}
	var order []string

	for _, d := range days {
		a, ok := byPair[d.pair]
		if !ok {
			a = &acc{adjacent: d.adjacent, viol: domain.AngleViolation{Pair: d.pair, Limit: d.viol.Limit, MaxAngle: d.viol.MaxAngle, MaxAngleAt: d.viol.MaxAngleAt}}
			byPair[d.pair] = a
			order = append(order, d.pair)
		}
		a.days++
		a.viol.ViolationPerc += d.viol.ViolationPerc
		if d.viol.MaxAngle > a.viol.MaxAngle {
			a.viol.MaxAngle, a.viol.MaxAngleAt = d.viol.MaxAngle, d.viol.MaxAngleAt
		}
	}

	summary := domain.AngleViolSummary{WideViols: []domain.AngleViolation{}, AdjViols: []domain.AngleViolation{}}
	for _, pair := range order {
		a := byPair[pair]
		if a.viol.ViolationPerc <= 0 {
			continue
		}
		a.viol.ViolationPerc /= float64(a.days)
		if a.adjacent {
			summary.AdjViols = append(summary.AdjViols, a.viol)
		} else {
			summary.WideViols = append(summary.WideViols, a.viol)
		}
	}

	byPerc := func(v []domain.AngleViolation) {
		sort.SliceStable(v, func(i, j int) bool { return v[i].ViolationPerc > v[j].ViolationPerc })
	}
	byPerc(summary.WideViols)
	byPerc(summary.AdjViols)
	return summary
}
