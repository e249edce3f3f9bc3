package report

import (
	"context"
	"time"

	"github.com/de-tools/grid-weekly-report/pkg/models/domain"
	"github.com/de-tools/grid-weekly-report/pkg/store/warehouse"
)

// Fetcher reads one report dataset for a report window.
type Fetcher[T any] interface {
	Fetch(ctx context.Context, start, end time.Time) (T, error)
}

// WeekFetcher reads a dataset that the warehouse keys by week start.
type WeekFetcher[T any] interface {
	Fetch(ctx context.Context, weekStart time.Time) (T, error)
}

// Sources are the independent datasets of the weekly report.
type Sources struct {
	GenOutages       Fetcher[[]domain.Outage]
	TransOutages     Fetcher[[]domain.Outage]
	LongTimeOutages  Fetcher[[]domain.Outage]
	FreqProfile      Fetcher[domain.FrequencyProfile]
	Vdi              WeekFetcher[domain.StationwiseVdi]
	VoltStats        Fetcher[domain.VoltStats]
	ViolMsgs         Fetcher[[]domain.ViolationMessage]
	AngleViols       Fetcher[domain.AngleViolSummary]
	IctConstraints   Fetcher[[]domain.IctConstraint]
	TransConstraints Fetcher[[]domain.TransConstraint]
	HvNodes          Fetcher[[]domain.NodeInfo]
	LvNodes          Fetcher[[]domain.NodeInfo]
}

// WarehouseSources wires every dataset to its warehouse fetcher.
func WarehouseSources(wh *warehouse.Warehouse) Sources {
	return Sources{
		GenOutages:       warehouse.NewGenOutageFetcher(wh),
		TransOutages:     warehouse.NewTransOutageFetcher(wh),
		LongTimeOutages:  warehouse.NewLongTimeOutageFetcher(wh),
		FreqProfile:      warehouse.NewFrequencyFetcher(wh),
		Vdi:              warehouse.NewVdiFetcher(wh),
		VoltStats:        warehouse.NewVoltStatsFetcher(wh),
		ViolMsgs:         warehouse.NewViolationFetcher(wh),
		AngleViols:       warehouse.NewAngleFetcher(wh),
		IctConstraints:   warehouse.NewIctConstraintFetcher(wh),
		TransConstraints: warehouse.NewTransConstraintFetcher(wh),
		HvNodes:          warehouse.NewHvNodeFetcher(wh),
		LvNodes:          warehouse.NewLvNodeFetcher(wh),
	}
}
