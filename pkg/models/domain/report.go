package domain

import (
	"fmt"
	"time"
)

// Section names one dataset of the weekly report
type Section string

const (
	SectionGenOutages      Section = "genOtgs"
	SectionTransOutages    Section = "transOtgs"
	SectionLongTimeOutages Section = "longTimeOtgs"
	SectionFreqProfile     Section = "freqProfile"
	SectionVdi             Section = "vdi"
	SectionVoltStats       Section = "voltStats"
	SectionViolMsgs        Section = "violMsgs"
	SectionAngleViols      Section = "angleViols"
	SectionIctConstraints  Section = "ictCons"
	SectionTransConstraint Section = "transCons"
	SectionHvNodes         Section = "hvNodes"
	SectionLvNodes         Section = "lvNodes"
)

// Sections lists every section in report order
var Sections = []Section{
	SectionGenOutages,
	SectionTransOutages,
	SectionLongTimeOutages,
	SectionFreqProfile,
	SectionVdi,
	SectionVoltStats,
	SectionViolMsgs,
	SectionAngleViols,
	SectionIctConstraints,
	SectionTransConstraint,
	SectionHvNodes,
	SectionLvNodes,
}

// NoWeeklyFdi marks a week without frequency profile data
const NoWeeklyFdi = -1.0

const (
	displayDateLayout = "02-Jan-2006"
	fileDateLayout    = "02-01-2006"
)

// ReportContext is everything the weekly report template consumes
type ReportContext struct {
	StartDate time.Time
	EndDate   time.Time
	StartDt   string
	EndDt     string
	WeekNum   int
	FinYear   string

	GenOutages      []Outage
	TransOutages    []Outage
	LongTimeOutages []Outage

	FreqProfRows []FreqProfileRow
	WeeklyFdi    float64

	Vdi400Rows []VdiRow
	Vdi765Rows []VdiRow
	VoltStats  VoltStats

	ViolMsgs  []ViolationMessage
	WideViols []AngleViolation
	AdjViols  []AngleViolation

	IctCons   []IctConstraint
	TransCons []TransConstraint
	HvNodes   []NodeInfo
	LvNodes   []NodeInfo
}

// NewReportContext returns a context with every section at its default
func NewReportContext(start, end time.Time) ReportContext {
	return ReportContext{
		StartDate:       start,
		EndDate:         end,
		StartDt:         start.Format(displayDateLayout),
		EndDt:           end.Format(displayDateLayout),
		GenOutages:      []Outage{},
		TransOutages:    []Outage{},
		LongTimeOutages: []Outage{},
		FreqProfRows:    []FreqProfileRow{},
		WeeklyFdi:       NoWeeklyFdi,
		Vdi400Rows:      []VdiRow{},
		Vdi765Rows:      []VdiRow{},
		VoltStats:       NewVoltStats(),
		ViolMsgs:        []ViolationMessage{},
		WideViols:       []AngleViolation{},
		AdjViols:        []AngleViolation{},
		IctCons:         []IctConstraint{},
		TransCons:       []TransConstraint{},
		HvNodes:         []NodeInfo{},
		LvNodes:         []NodeInfo{},
	}
}

// FileStem is the output file name without extension,
// e.g. Weekly_no_20_10-08-2020_to_16-08-2020
func (rc *ReportContext) FileStem() string {
	return fmt.Sprintf("Weekly_no_%d_%s_to_%s",
		rc.WeekNum,
		rc.StartDate.Format(fileDateLayout),
		rc.EndDate.Format(fileDateLayout))
}
