package domain

import "time"

// ViolationMessage is an IEGC violation message issued to an entity
type ViolationMessage struct {
	MsgID     string
	Date      time.Time
	Entity    string
	Schedule  int
	Drawal    int
	Deviation int
}

// AngleViolation summarizes angle limit violations of a station pair
type AngleViolation struct {
	Pair          string
	Limit         float64
	ViolationPerc float64
	MaxAngle      float64
	MaxAngleAt    time.Time
}

// AngleViolSummary splits the violations into wide-area and adjacent pairs
type AngleViolSummary struct {
	WideViols []AngleViolation
	AdjViols  []AngleViolation
}
