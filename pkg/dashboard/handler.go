package dashboard

import (
	"encoding/json"
	"net/http"

	"github.com/avtale/avtale/pkg/schedule"
	log "github.com/sirupsen/logrus"
)

type SummaryDTO struct {
	TotalEvents    int            `json:"totalEvents"`
	ActiveEvents   int            `json:"activeEvents"`
	DistinctSeries int            `json:"distinctSeries"`
	TotalUsers     int            `json:"totalUsers"`
	ByPriority     map[string]int `json:"byPriority"`
}

type Handler struct {
	dashboardService *Service
	scheduleService  schedule.Service
}

func NewHandler(dashboardService *Service, scheduleService schedule.Service) *Handler {
	return &Handler{dashboardService, scheduleService}
}

// GetSummary godoc
// @Summary Admin dashboard summary
// @Description Retrieve event and user aggregates
// @Tags Admin
// @Produce json
// @Success 200 {object} SummaryDTO
// @Failure 403 {string} string "Admin access required"
// @Router /api/admin/dashboard [get]
// @Security BearerAuth
func (h *Handler) GetSummary(w http.ResponseWriter, r *http.Request) {
	log.Debug("Building admin dashboard summary")

	summary, err := h.dashboardService.Summary(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	byPriority := make(map[string]int, len(summary.ByPriority))
	for priority, count := range summary.ByPriority {
		byPriority[string(priority)] = count
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	err = json.NewEncoder(w).Encode(SummaryDTO{
		TotalEvents:    summary.TotalEvents,
		ActiveEvents:   summary.ActiveEvents,
		DistinctSeries: summary.DistinctSeries,
		TotalUsers:     summary.TotalUsers,
		ByPriority:     byPriority,
	})
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

// GetAllEvents godoc
// @Summary All stored events
// @Description Retrieve the full event table for the admin view
// @Tags Admin
// @Produce json
// @Success 200 {array} schedule.EventDTO
// @Failure 403 {string} string "Admin access required"
// @Router /api/admin/events [get]
// @Security BearerAuth
func (h *Handler) GetAllEvents(w http.ResponseWriter, r *http.Request) {
	events, err := h.scheduleService.AllEvents(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	dtos := make([]schedule.EventDTO, 0, len(events))
	for _, event := range events {
		dtos = append(dtos, schedule.EventToDTO(event))
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(dtos); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}
