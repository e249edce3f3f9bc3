// Package format holds the display helpers used by the report templates.
package format

import (
	"fmt"
	"math"
	"strings"
	"text/template"
	"time"
)

// PlainOutageTag is the tag of an outage without a specific category
const PlainOutageTag = "Outage"

// Fixed2 formats v with two decimals.
func Fixed2(v float64) string {
	return fmt.Sprintf("%.2f", v)
}

// RoundInt rounds half to even, e.g. 2.5 -> 2 and 3.5 -> 4.
func RoundInt(v float64) int {
	return int(math.RoundToEven(v))
}

// HoursToSpan renders a fractional hour count as "hh:mm", e.g. 29.6 -> "29:36".
func HoursToSpan(hours float64) string {
	if hours < 0 {
		return "-" + HoursToSpan(-hours)
	}
	whole := math.Floor(hours)
	mins := RoundInt((hours - whole) * 60)
	if mins == 60 {
		whole++
		mins = 0
	}
	return fmt.Sprintf("%02d:%02d", int(whole), mins)
}

// RemoveRedundantRemarks clears the parts of an outage description that only
// repeat its tag. A plain "Outage" tag is itself dropped. Empty strings mean
// the value is absent.
func RemoveRedundantRemarks(tag, reason, remarks string) (string, string, string) {
	if tag == PlainOutageTag {
		return "", reason, remarks
	}
	key := strings.ToLower(strings.TrimSpace(tag))
	if reason != "" && strings.ToLower(strings.TrimSpace(reason)) == key {
		reason = ""
	}
	if remarks != "" && strings.ToLower(strings.TrimSpace(remarks)) == key {
		remarks = ""
	}
	return tag, reason, remarks
}

// Date formats t as dd-mm-yyyy, or an empty string for a nil or zero time.
func Date(t any) string {
	switch v := t.(type) {
	case time.Time:
		if v.IsZero() {
			return ""
		}
		return v.Format("02-01-2006")
	case *time.Time:
		if v == nil || v.IsZero() {
			return ""
		}
		return v.Format("02-01-2006")
	}
	return ""
}

// DateTime formats t as dd-mm-yyyy HH:MM, or an empty string for a nil or zero time.
func DateTime(t any) string {
	switch v := t.(type) {
	case time.Time:
		if v.IsZero() {
			return ""
		}
		return v.Format("02-01-2006 15:04")
	case *time.Time:
		if v == nil || v.IsZero() {
			return ""
		}
		return v.Format("02-01-2006 15:04")
	}
	return ""
}

// FuncMap exposes the helpers to report templates.
func FuncMap() template.FuncMap {
	return template.FuncMap{
		"fixed2":   Fixed2,
		"round":    RoundInt,
		"span":     HoursToSpan,
		"date":     Date,
		"datetime": DateTime,
		"inc":      func(i int) int { return i + 1 },
	}
}
