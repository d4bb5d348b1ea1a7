package handler

import (
	"errors"
	"net/http"

	"github.com/farmsight/farmsight-data/internal/api/respond"
	"github.com/farmsight/farmsight-data/internal/lifecycle"
)

// TriggerAdvance runs the lifecycle advance on demand.
// @Summary Trigger a lifecycle advance run
// @Description Runs the daily plant lifecycle advance immediately and returns the run summary. Returns 409 when a run is already in progress.
// @Tags lifecycle
// @Produce json
// @Success 200 {object} lifecycle.Result
// @Failure 409 {object} respond.ErrorResponse
// @Failure 502 {object} lifecycle.Result
// @Router /lifecycle/advance [post]
func (h *Handler) TriggerAdvance(w http.ResponseWriter, r *http.Request) {
	result, err := h.sched.TriggerNow(r.Context())
	if err != nil {
		if errors.Is(err, lifecycle.ErrRunInProgress) {
			respond.WriteError(w, http.StatusConflict, "RUN_IN_PROGRESS",
				"A lifecycle advance run is already executing")
			return
		}
		respond.WriteError(w, http.StatusInternalServerError, "ADVANCE_FAILED", err.Error())
		return
	}

	status := http.StatusOK
	if result.Failed {
		// Whole-run failure: the plant store was unreachable.
		status = http.StatusBadGateway
	}
	respond.WriteJSONObject(w, status, result)
}

// SchedulerStatus reports the lifecycle scheduler state.
// @Summary Lifecycle scheduler status
// @Description Reports whether the scheduler is active, the next scheduled run, and the last run's summary.
// @Tags lifecycle
// @Produce json
// @Success 200 {object} lifecycle.Status
// @Router /lifecycle/status [get]
func (h *Handler) SchedulerStatus(w http.ResponseWriter, r *http.Request) {
	respond.WriteJSONObject(w, http.StatusOK, h.sched.Status())
}
