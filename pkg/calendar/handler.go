package calendar

import (
	"encoding/json"
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"
)

type EntryDTO struct {
	EventID string    `json:"eventId"`
	Title   string    `json:"title"`
	Start   time.Time `json:"start"`
	End     time.Time `json:"end"`
}

type Handler struct {
	calendar *Service
}

func NewHandler(calendar *Service) *Handler {
	return &Handler{calendar}
}

// GetEntries godoc
// @Summary Shared calendar view
// @Description Retrieve all events as calendar entries
// @Tags Calendar
// @Produce json
// @Success 200 {array} EntryDTO
// @Failure 401 {string} string "Not authenticated"
// @Router /api/calendar [get]
// @Security BearerAuth
func (h *Handler) GetEntries(w http.ResponseWriter, r *http.Request) {
	entries, err := h.calendar.Entries(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	dtos := make([]EntryDTO, 0, len(entries))
	for _, entry := range entries {
		dtos = append(dtos, EntryDTO{
			EventID: entry.EventID,
			Title:   entry.Title,
			Start:   entry.Start,
			End:     entry.End,
		})
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(dtos); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

// GetFeed godoc
// @Summary iCalendar feed
// @Description Retrieve all events as an iCalendar document
// @Tags Calendar
// @Produce text/calendar
// @Success 200 {string} string "iCalendar document"
// @Failure 401 {string} string "Not authenticated"
// @Router /api/calendar/feed.ics [get]
// @Security BearerAuth
func (h *Handler) GetFeed(w http.ResponseWriter, r *http.Request) {
	log.Trace("Rendering calendar feed")

	feed, err := h.calendar.Feed(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(feed)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}
