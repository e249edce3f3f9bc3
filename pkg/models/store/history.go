package store

import "time"

// WeekRecord is one persisted week outcome of a report run
type WeekRecord struct {
	RunID          string
	RequestedStart time.Time
	RequestedEnd   time.Time
	WeekStart      time.Time
	WeekEnd        time.Time
	Success        bool
	File           string
	Degraded       []string
	Error          string
	CreatedAt      time.Time
}
