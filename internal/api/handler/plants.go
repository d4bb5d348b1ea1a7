package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/farmsight/farmsight-data/internal/api/respond"
	"github.com/farmsight/farmsight-data/internal/lifecycle"
)

// ListPlants returns all tracked (non-archived) plants.
// @Summary List plants
// @Description Returns every tracked plant with its stage schedule, current age, and status.
// @Tags plants
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 502 {object} respond.ErrorResponse
// @Router /api/v1/plants [get]
func (h *Handler) ListPlants(w http.ResponseWriter, r *http.Request) {
	plants, err := h.plants.ListPlants(r.Context())
	if err != nil {
		h.logger.Error("Failed to list plants", "error", err)
		respond.WriteError(w, http.StatusBadGateway, "STORE_ERROR", "Failed to load plants")
		return
	}
	if plants == nil {
		plants = []lifecycle.Plant{}
	}
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"plants": plants,
		"count":  len(plants),
	})
}

// PlantEvents returns the newest stage-transition events for one plant.
// @Summary Plant transition events
// @Description Returns the most recent lifecycle transition events for a plant, newest first.
// @Tags plants
// @Produce json
// @Param id path string true "Plant ID"
// @Param limit query int false "Maximum events to return (default 20, max 100)"
// @Success 200 {object} map[string]interface{}
// @Failure 502 {object} respond.ErrorResponse
// @Router /api/v1/plants/{id}/events [get]
func (h *Handler) PlantEvents(w http.ResponseWriter, r *http.Request) {
	plantID := chi.URLParam(r, "id")

	limit := 20
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = min(n, 100)
		}
	}

	events, err := h.plants.RecentEvents(r.Context(), plantID, limit)
	if err != nil {
		h.logger.Error("Failed to load plant events", "plant_id", plantID, "error", err)
		respond.WriteError(w, http.StatusBadGateway, "STORE_ERROR", "Failed to load plant events")
		return
	}
	if events == nil {
		events = []lifecycle.Event{}
	}
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"plant_id": plantID,
		"events":   events,
		"count":    len(events),
	})
}
