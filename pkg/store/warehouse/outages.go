package warehouse

import (
	"context"
	"database/sql"
	"time"

	"github.com/de-tools/grid-weekly-report/pkg/format"
	"github.com/de-tools/grid-weekly-report/pkg/models/domain"
)

// LongOutageAge is how long an element must stay out before it is reported
// as a long-time outage.
const LongOutageAge = 30 * 24 * time.Hour

const genOutagesQuery = `
	SELECT unit_name, owner, installed_capacity, outage_tag, reason, remarks,
		outage_time, revived_time, expected_revival_time
	FROM mis_warehouse.generation_outages
	WHERE outage_time <= ?
		AND (revived_time IS NULL OR revived_time >= ?)
	ORDER BY outage_time, unit_name`

const transOutagesQuery = `
	SELECT element_name, owner, voltage_level, outage_tag, reason, remarks,
		outage_time, revived_time, expected_revival_time
	FROM mis_warehouse.transmission_outages
	WHERE outage_time <= ?
		AND (revived_time IS NULL OR revived_time >= ?)
	ORDER BY outage_time, element_name`

const longTimeOutagesQuery = `
	SELECT element_name, owner, voltage_level, outage_tag, reason, remarks,
		outage_time, revived_time, expected_revival_time
	FROM mis_warehouse.transmission_outages
	WHERE outage_time <= ?
		AND (revived_time IS NULL OR revived_time > ?)
	ORDER BY outage_time, element_name`

// OutageFetcher lists the outages of one kind that overlap a report window.
type OutageFetcher struct {
	wh    *Warehouse
	label string
	query string
	args  func(start, end time.Time) []any
}

func overlapArgs(start, end time.Time) []any {
	return []any{end, start}
}

// NewGenOutageFetcher lists generating unit outages; Capacity is in MW.
func NewGenOutageFetcher(wh *Warehouse) *OutageFetcher {
	return &OutageFetcher{wh: wh, label: "generation outages", query: genOutagesQuery, args: overlapArgs}
}

// NewTransOutageFetcher lists transmission element outages; Capacity is the voltage level in kV.
func NewTransOutageFetcher(wh *Warehouse) *OutageFetcher {
	return &OutageFetcher{wh: wh, label: "transmission outages", query: transOutagesQuery, args: overlapArgs}
}

// NewLongTimeOutageFetcher lists elements that went out at least LongOutageAge
// before the end of the window and were still out when it closed.
func NewLongTimeOutageFetcher(wh *Warehouse) *OutageFetcher {
	return &OutageFetcher{
		wh:    wh,
		label: "long time outages",
		query: longTimeOutagesQuery,
		args: func(_, end time.Time) []any {
			return []any{end.Add(-LongOutageAge), end}
		},
	}
}

func (f *OutageFetcher) Fetch(ctx context.Context, start, end time.Time) ([]domain.Outage, error) {
	return queryRows(ctx, f.wh, f.label, f.query, f.args(start, end), scanOutage)
}

func scanOutage(rows *sql.Rows) (domain.Outage, error) {
	var (
		name, owner, tag        string
		reason, remarks         sql.NullString
		capacity                sql.NullFloat64
		outageAt                time.Time
		revivedAt, expectedBack sql.NullTime
	)
	if err := rows.Scan(&name, &owner, &capacity, &tag, &reason, &remarks, &outageAt, &revivedAt, &expectedBack); err != nil {
		return domain.Outage{}, err
	}

	tag, cleanReason, cleanRemarks := format.RemoveRedundantRemarks(tag, reason.String, remarks.String)
	return domain.Outage{
		Name:            name,
		Owner:           owner,
		Capacity:        capacity.Float64,
		OutageTag:       tag,
		Reason:          cleanReason,
		Remarks:         cleanRemarks,
		OutageAt:        outageAt,
		RevivedAt:       nullTimePtr(revivedAt),
		ExpectedRevival: nullTimePtr(expectedBack),
	}, nil
}
