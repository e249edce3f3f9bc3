// Package calendar implements the week and financial year arithmetic used to
// window the weekly report.
package calendar

import (
	"fmt"
	"time"

	"github.com/de-tools/grid-weekly-report/pkg/models/domain"
)

// FinYearStartMonth is the first month of a financial year
const FinYearStartMonth = time.April

// MondayOnOrBefore returns the latest Monday not after d.
func MondayOnOrBefore(d time.Time) time.Time {
	back := (int(d.Weekday()) + 6) % 7
	return d.AddDate(0, 0, -back)
}

// SundayOnOrAfter returns the earliest Sunday not before d.
func SundayOnOrAfter(d time.Time) time.Time {
	ahead := (7 - int(d.Weekday())) % 7
	return d.AddDate(0, 0, ahead)
}

// FinYear returns the financial year of the week containing d. The week is
// assigned by the month its Sunday falls in, so a week straddling April 1
// belongs to the year that starts on that April.
func FinYear(d time.Time) int {
	sunday := MondayOnOrBefore(d).AddDate(0, 0, 6)
	if sunday.Month() < FinYearStartMonth {
		return sunday.Year() - 1
	}
	return sunday.Year()
}

// FinYearWeekNumber returns the 1-based week of d within its financial year.
// Week 1 is the week containing April 1.
func FinYearWeekNumber(d time.Time) int {
	fyStart := time.Date(FinYear(d), FinYearStartMonth, 1, 0, 0, 0, 0, d.Location())
	return 1 + daysBetween(MondayOnOrBefore(fyStart), MondayOnOrBefore(d))/7
}

// FinYearLabel formats a financial year as "2020-21".
func FinYearLabel(finYear int) string {
	return fmt.Sprintf("%d-%02d", finYear, (finYear+1)%100)
}

// EndOfDay returns the last second of d's day.
func EndOfDay(d time.Time) time.Time {
	y, m, day := d.Date()
	return time.Date(y, m, day, 23, 59, 59, 0, d.Location())
}

// StartOfDay truncates d to midnight in its location.
func StartOfDay(d time.Time) time.Time {
	y, m, day := d.Date()
	return time.Date(y, m, day, 0, 0, 0, 0, d.Location())
}

// Weeks partitions [start, end] into consecutive Monday-Sunday windows so that
// every day of the range falls in exactly one window. The first window starts
// on the Monday on or before start.
func Weeks(start, end time.Time) []domain.WeekWindow {
	var weeks []domain.WeekWindow
	last := StartOfDay(end)
	for cursor := StartOfDay(start); !cursor.After(last); {
		monday := MondayOnOrBefore(cursor)
		sunday := SundayOnOrAfter(monday)
		weeks = append(weeks, domain.WeekWindow{Start: monday, End: sunday})
		cursor = sunday.AddDate(0, 0, 1)
	}
	return weeks
}

// PreviousWeek is the Monday-Sunday week containing the day seven days before now.
func PreviousWeek(now time.Time) domain.WeekWindow {
	monday := MondayOnOrBefore(StartOfDay(now).AddDate(0, 0, -7))
	return domain.WeekWindow{Start: monday, End: monday.AddDate(0, 0, 6)}
}

// daysBetween counts calendar days from a to b, ignoring wall clock and DST.
func daysBetween(a, b time.Time) int {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	ua := time.Date(ay, am, ad, 0, 0, 0, 0, time.UTC)
	ub := time.Date(by, bm, bd, 0, 0, 0, 0, time.UTC)
	return int(ub.Sub(ua).Hours() / 24)
}

// DateLayout is the wire format of report dates
const DateLayout = time.DateOnly

// ParseRange parses an inclusive YYYY-MM-DD range in loc. Malformed dates and
// an end before the start wrap domain.ErrInputParse.
func ParseRange(start, end string, loc *time.Location) (domain.DateRange, error) {
	s, err := time.ParseInLocation(DateLayout, start, loc)
	if err != nil {
		return domain.DateRange{}, fmt.Errorf("%w: start date %q: %w", domain.ErrInputParse, start, err)
	}
	e, err := time.ParseInLocation(DateLayout, end, loc)
	if err != nil {
		return domain.DateRange{}, fmt.Errorf("%w: end date %q: %w", domain.ErrInputParse, end, err)
	}
	if e.Before(s) {
		return domain.DateRange{}, fmt.Errorf("%w: end date %s is before start date %s", domain.ErrInputParse, end, start)
	}
	return domain.DateRange{Start: s, End: e}, nil
}
