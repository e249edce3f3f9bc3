package domain

import "time"

// Outage is a generating unit or transmission element outage
type Outage struct {
	Name            string
	Owner           string
	Capacity        float64
	OutageTag       string
	Reason          string
	Remarks         string
	OutageAt        time.Time
	RevivedAt       *time.Time
	ExpectedRevival *time.Time
}
