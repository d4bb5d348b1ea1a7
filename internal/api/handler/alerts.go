package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/farmsight/farmsight-data/internal/alerts"
	"github.com/farmsight/farmsight-data/internal/api/respond"
)

// evaluateRequest is the body accepted by the evaluation endpoint. The
// timestamp is the reading's logical time from the sensor pipeline; it
// defaults to now only when omitted entirely.
type evaluateRequest struct {
	Parameters map[string]interface{} `json:"parameters"`
	Timestamp  *time.Time             `json:"timestamp,omitempty"`
}

// EvaluateReading runs one sensor reading through the alert pipeline.
// @Summary Evaluate a sensor reading
// @Description Evaluates a reading against the safe-range table, deduplicates on content identity, and dispatches SMS alerts for unseen violation sets.
// @Tags alerts
// @Accept json
// @Produce json
// @Param reading body evaluateRequest true "Sensor reading"
// @Success 200 {object} alerts.RunResult
// @Failure 400 {object} respond.ErrorResponse
// @Failure 502 {object} respond.ErrorResponse
// @Router /alerts/evaluate [post]
func (h *Handler) EvaluateReading(w http.ResponseWriter, r *http.Request) {
	var req evaluateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteError(w, http.StatusBadRequest, "BAD_READING", "Request body is not a valid reading")
		return
	}
	if len(req.Parameters) == 0 {
		respond.WriteError(w, http.StatusBadRequest, "BAD_READING", "Reading has no parameters")
		return
	}

	ts := time.Now().UTC()
	if req.Timestamp != nil {
		ts = req.Timestamp.UTC()
	}

	reading := alerts.Reading{Parameters: req.Parameters, Timestamp: ts}
	result, err := alerts.Run(r.Context(), h.alertDeps, reading, h.logger)
	if err != nil {
		respond.WriteErrorDetail(w, http.StatusBadGateway, "PIPELINE_FAILED",
			"Alert pipeline did not complete", err.Error())
		return
	}
	respond.WriteJSONObject(w, http.StatusOK, result)
}

// RecentAlerts lists the newest dispatched alert records.
// @Summary Recent alert records
// @Description Returns the newest alert records, including violation sets and notified recipients.
// @Tags alerts
// @Produce json
// @Param limit query int false "Max records (default 20)"
// @Success 200 {object} map[string]interface{}
// @Failure 503 {object} respond.ErrorResponse
// @Router /alerts/recent [get]
func (h *Handler) RecentAlerts(w http.ResponseWriter, r *http.Request) {
	limit := 20
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 200 {
			limit = n
		}
	}

	records, err := h.alertStore.RecentAlerts(r.Context(), limit)
	if err != nil {
		respond.WriteError(w, http.StatusServiceUnavailable, "ALERTS_UNAVAILABLE",
			"Could not read alert records")
		return
	}
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"count":  len(records),
		"alerts": records,
	})
}

// ParameterRanges returns the effective safe-range table.
// @Summary Effective parameter ranges
// @Description Returns the safe-range table currently used for threshold evaluation.
// @Tags alerts
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /alerts/ranges [get]
func (h *Handler) ParameterRanges(w http.ResponseWriter, r *http.Request) {
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"ranges": h.cfg.Ranges,
	})
}
