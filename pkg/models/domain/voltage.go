package domain

import "time"

// VdiRow is the weekly voltage deviation summary of one station
type VdiRow struct {
	Station         string
	MaxVol          int
	MinVol          int
	LessThanBand    float64
	BetweenBand     float64
	GreaterThanBand float64
	LessBandHrs     float64
	GreatBandHrs    float64
	OutOfBandHrs    float64
	Vdi             float64
}

// StationwiseVdi splits the weekly VDI rows by voltage class
type StationwiseVdi struct {
	Vdi400Rows []VdiRow
	Vdi765Rows []VdiRow
}

// VoltStatsRow is the extreme voltage recorded at a station during the week
type VoltStatsRow struct {
	Station string
	Level   int
	Value   float64
	At      time.Time
}

// VoltStats holds the four voltage statistics tables:
// 400 kV maxima, 400 kV minima, 765 kV maxima and 765 kV minima.
type VoltStats struct {
	Table1 []VoltStatsRow
	Table2 []VoltStatsRow
	Table3 []VoltStatsRow
	Table4 []VoltStatsRow
}

func NewVoltStats() VoltStats {
	return VoltStats{
		Table1: []VoltStatsRow{},
		Table2: []VoltStatsRow{},
		Table3: []VoltStatsRow{},
		Table4: []VoltStatsRow{},
	}
}
