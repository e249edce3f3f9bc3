package api

import (
	"time"

	"github.com/de-tools/grid-weekly-report/pkg/models/domain"
	"github.com/de-tools/grid-weekly-report/pkg/models/store"
)

const (
	MessageDone         = "Weekly report word file generation done!"
	MessageUnsuccessful = "Weekly report word file generation unsuccessful..."
	MessageUnauthorized = "unauthorized"
	MessageInvalidBody  = "invalid request body"
)

type WeeklyReportRequest struct {
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
}

type WeekResult struct {
	StartDate        string   `json:"startDate"`
	EndDate          string   `json:"endDate"`
	Success          bool     `json:"success"`
	File             string   `json:"file,omitempty"`
	Exports          []string `json:"exports,omitempty"`
	DegradedSections []string `json:"degradedSections,omitempty"`
	Error            string   `json:"error,omitempty"`
}

type WeeklyReportResponse struct {
	Message   string       `json:"message"`
	StartDate string       `json:"startDate,omitempty"`
	EndDate   string       `json:"endDate,omitempty"`
	Weeks     []WeekResult `json:"weeks,omitempty"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

func NewWeekResults(outcomes domain.Outcomes) []WeekResult {
	results := make([]WeekResult, 0, len(outcomes))
	for _, o := range outcomes {
		result := WeekResult{
			StartDate: o.Window.Start.Format(time.DateOnly),
			EndDate:   o.Window.End.Format(time.DateOnly),
			Success:   o.Success,
			File:      o.File,
			Exports:   o.Exports,
		}
		for _, s := range o.Degraded {
			result.DegradedSections = append(result.DegradedSections, string(s))
		}
		if o.Err != nil {
			result.Error = o.Err.Error()
		}
		results = append(results, result)
	}
	return results
}

type RunRecord struct {
	RunID            string    `json:"runId"`
	RequestedStart   string    `json:"requestedStartDate"`
	RequestedEnd     string    `json:"requestedEndDate"`
	StartDate        string    `json:"startDate"`
	EndDate          string    `json:"endDate"`
	Success          bool      `json:"success"`
	File             string    `json:"file,omitempty"`
	DegradedSections []string  `json:"degradedSections,omitempty"`
	Error            string    `json:"error,omitempty"`
	CreatedAt        time.Time `json:"createdAt"`
}

func NewRunRecords(records []store.WeekRecord) []RunRecord {
	out := make([]RunRecord, 0, len(records))
	for _, r := range records {
		out = append(out, RunRecord{
			RunID:            r.RunID,
			RequestedStart:   r.RequestedStart.Format(time.DateOnly),
			RequestedEnd:     r.RequestedEnd.Format(time.DateOnly),
			StartDate:        r.WeekStart.Format(time.DateOnly),
			EndDate:          r.WeekEnd.Format(time.DateOnly),
			Success:          r.Success,
			File:             r.File,
			DegradedSections: r.Degraded,
			Error:            r.Error,
			CreatedAt:        r.CreatedAt,
		})
	}
	return out
}
