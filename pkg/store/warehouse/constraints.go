package warehouse

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/de-tools/grid-weekly-report/pkg/models/domain"
)

// The constraint and node tables are revised seasonally; the report always
// shows the latest revision regardless of the report window.
const latestRevisionQuery = `
	SELECT %[1]s, season_antecedent, description_constraints
	FROM %[2]s
	WHERE start_date IN (SELECT MAX(start_date) FROM %[2]s)
	ORDER BY %[1]s`

const (
	ictConstraintTable   = "mis_warehouse.ict_constraint_data"
	transConstraintTable = "mis_warehouse.transmission_constraint_data"
	hvNodesTable         = "mis_warehouse.nodes_high_voltage_data"
	lvNodesTable         = "mis_warehouse.nodes_low_voltage_data"
)

type constraintRow struct {
	subject, season, description string
}

func fetchLatestRevision(ctx context.Context, wh *Warehouse, label, subjectCol, table string) ([]constraintRow, error) {
	query := fmt.Sprintf(latestRevisionQuery, subjectCol, table)
	return queryRows(ctx, wh, label, query, nil, func(rows *sql.Rows) (constraintRow, error) {
		var (
			r                   constraintRow
			season, description sql.NullString
		)
		if err := rows.Scan(&r.subject, &season, &description); err != nil {
			return constraintRow{}, err
		}
		r.season, r.description = season.String, description.String
		return r, nil
	})
}

type IctConstraintFetcher struct {
	wh *Warehouse
}

func NewIctConstraintFetcher(wh *Warehouse) *IctConstraintFetcher {
	return &IctConstraintFetcher{wh: wh}
}

func (f *IctConstraintFetcher) Fetch(ctx context.Context, _, _ time.Time) ([]domain.IctConstraint, error) {
	rows, err := fetchLatestRevision(ctx, f.wh, "ict constraints", "ict", ictConstraintTable)
	cons := make([]domain.IctConstraint, 0, len(rows))
	for _, r := range rows {
		cons = append(cons, domain.IctConstraint{Ict: r.subject, Season: r.season, Description: r.description})
	}
	return cons, err
}

type TransConstraintFetcher struct {
	wh *Warehouse
}

func NewTransConstraintFetcher(wh *Warehouse) *TransConstraintFetcher {
	return &TransConstraintFetcher{wh: wh}
}

func (f *TransConstraintFetcher) Fetch(ctx context.Context, _, _ time.Time) ([]domain.TransConstraint, error) {
	rows, err := fetchLatestRevision(ctx, f.wh, "transmission constraints", "element", transConstraintTable)
	cons := make([]domain.TransConstraint, 0, len(rows))
	for _, r := range rows {
		cons = append(cons, domain.TransConstraint{Element: r.subject, Season: r.season, Description: r.description})
	}
	return cons, err
}

// NodeFetcher lists the high or low voltage nodes of the latest revision.
type NodeFetcher struct {
	wh    *Warehouse
	label string
	table string
}

func NewHvNodeFetcher(wh *Warehouse) *NodeFetcher {
	return &NodeFetcher{wh: wh, label: "hv nodes", table: hvNodesTable}
}

func NewLvNodeFetcher(wh *Warehouse) *NodeFetcher {
	return &NodeFetcher{wh: wh, label: "lv nodes", table: lvNodesTable}
}

func (f *NodeFetcher) Fetch(ctx context.Context, _, _ time.Time) ([]domain.NodeInfo, error) {
	rows, err := fetchLatestRevision(ctx, f.wh, f.label, "nodes", f.table)
	nodes := make([]domain.NodeInfo, 0, len(rows))
	for _, r := range rows {
		nodes = append(nodes, domain.NodeInfo{Nodes: r.subject, Season: r.season, Description: r.description})
	}
	return nodes, err
}
