package domain

import "time"

// DateRange is an inclusive range of report dates
type DateRange struct {
	Start time.Time
	End   time.Time
}

// WeekWindow is a Monday through Sunday report week
type WeekWindow struct {
	Start time.Time
	End   time.Time
}

// WeekOutcome is the result of generating the report of one week
type WeekOutcome struct {
	Window   WeekWindow
	File     string
	Exports  []string
	Degraded []Section
	Success  bool
	Err      error
}

// Outcomes lists week outcomes in generation order
type Outcomes []WeekOutcome

// Succeeded reports whether every week was generated
func (o Outcomes) Succeeded() bool {
	if len(o) == 0 {
		return false
	}
	for _, w := range o {
		if !w.Success {
			return false
		}
	}
	return true
}

// LastSucceeded is the legacy flag: the success of the last week only
func (o Outcomes) LastSucceeded() bool {
	if len(o) == 0 {
		return false
	}
	return o[len(o)-1].Success
}
