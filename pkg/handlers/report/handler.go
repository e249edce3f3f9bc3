package report

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/de-tools/grid-weekly-report/pkg/calendar"
	"github.com/de-tools/grid-weekly-report/pkg/models/api"
	"github.com/de-tools/grid-weekly-report/pkg/models/domain"
	"github.com/de-tools/grid-weekly-report/pkg/models/store"
	"github.com/de-tools/grid-weekly-report/pkg/services/report"
	"github.com/rs/zerolog"
)

const banner = "weekly report generation service"

// HistoryReader lists recorded week outcomes, most recent run first.
type HistoryReader interface {
	List(ctx context.Context, limit int) ([]store.WeekRecord, error)
}

type Handler struct {
	runner  report.Runner
	history HistoryReader
	loc     *time.Location
}

func NewHandler(runner report.Runner, history HistoryReader) *Handler {
	return &Handler{
		runner:  runner,
		history: history,
		loc:     time.Local,
	}
}

func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, api.MessageResponse{Message: banner})
}

// GenerateWeeklyReport renders one report per week touching the requested
// range. The response is 200 only when every week succeeded.
func (h *Handler) GenerateWeeklyReport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := zerolog.Ctx(ctx)

	var req api.WeeklyReportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn().Err(err).Msg("failed to decode weekly report request")
		writeJSON(w, r, http.StatusBadRequest, api.MessageResponse{Message: api.MessageInvalidBody})
		return
	}

	dates, err := calendar.ParseRange(req.StartDate, req.EndDate, h.loc)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, domain.ErrInputParse) {
			status = http.StatusBadRequest
		}
		logger.Warn().Err(err).Msg("rejected weekly report request")
		writeJSON(w, r, status, api.MessageResponse{Message: err.Error()})
		return
	}

	outcomes := h.runner.Run(ctx, dates.Start, dates.End)
	weeks := api.NewWeekResults(outcomes)

	if !outcomes.Succeeded() {
		writeJSON(w, r, http.StatusInternalServerError, api.WeeklyReportResponse{
			Message: api.MessageUnsuccessful,
			Weeks:   weeks,
		})
		return
	}

	writeJSON(w, r, http.StatusOK, api.WeeklyReportResponse{
		Message:   api.MessageDone,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		Weeks:     weeks,
	})
}

// ListHistory returns recorded weeks. The optional limit query parameter
// bounds the number of rows.
func (h *Handler) ListHistory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := zerolog.Ctx(ctx)

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			writeJSON(w, r, http.StatusBadRequest, api.MessageResponse{Message: "invalid 'limit'. Expected a non-negative integer"})
			return
		}
		limit = parsed
	}

	records, err := h.history.List(ctx, limit)
	if err != nil {
		logger.Error().Err(err).Msg("failed to list report history")
		writeJSON(w, r, http.StatusInternalServerError, api.MessageResponse{Message: "failed to list report history"})
		return
	}

	writeJSON(w, r, http.StatusOK, api.NewRunRecords(records))
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		zerolog.Ctx(r.Context()).Error().
			Err(err).
			Int("status", status).
			Msg("failed to encode response")
	}
}
