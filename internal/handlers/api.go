package handlers

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"olist-dashboard/internal/errors"
	"olist-dashboard/internal/export"
	"olist-dashboard/internal/observability"
	"olist-dashboard/internal/reports"
)

const cacheMaxAge = "public, max-age=300"

type APIHandlers struct {
	reports *reports.Service
	logger  *slog.Logger
}

func NewAPIHandlers(svc *reports.Service, logger *slog.Logger) *APIHandlers {
	return &APIHandlers{
		reports: svc,
		logger:  logger,
	}
}

// HandleReport runs the report named in the path and returns its result as a
// JSON envelope. Unknown names are 404s; a report whose required columns are
// missing surfaces its COMPUTATION_ERROR without affecting other reports.
func (h *APIHandlers) HandleReport(w http.ResponseWriter, r *http.Request) {
	requestID := observability.GetRequestID(r.Context())

	kind, err := reports.ParseKind(r.PathValue("name"))
	if err != nil {
		errors.WriteError(w, h.logger, errors.NotFound(err.Error()), requestID)
		return
	}

	result, err := h.reports.Run(r.Context(), kind)
	if err != nil {
		errors.WriteError(w, h.logger, err, requestID)
		return
	}

	errors.WriteSuccessWithHeaders(w, result, map[string]string{
		"Cache-Control": cacheMaxAge,
	})
}

// HandleExport streams the report as an XLSX workbook.
func (h *APIHandlers) HandleExport(w http.ResponseWriter, r *http.Request) {
	requestID := observability.GetRequestID(r.Context())

	kind, err := reports.ParseKind(r.PathValue("name"))
	if err != nil {
		errors.WriteError(w, h.logger, errors.NotFound(err.Error()), requestID)
		return
	}

	result, err := h.reports.Run(r.Context(), kind)
	if err != nil {
		errors.WriteError(w, h.logger, err, requestID)
		return
	}

	workbook, err := export.Workbook(kind, result)
	if err != nil {
		errors.WriteError(w, h.logger, errors.Wrap(err, errors.CodeInternal, "build workbook"), requestID)
		return
	}
	defer workbook.Close()

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", string(kind)+".xlsx"))
	if err := workbook.Write(w); err != nil {
		h.logger.Error("write workbook", "report", kind, "error", err, "request_id", requestID)
	}
}

func (h *APIHandlers) HandleHealth(w http.ResponseWriter, r *http.Request) {
	healthData := map[string]string{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
		"version":   "1.0.0",
	}

	errors.WriteSuccess(w, healthData)
}

func (h *APIHandlers) HandleStats(w http.ResponseWriter, r *http.Request) {
	errors.WriteSuccess(w, h.reports.Stats())
}
