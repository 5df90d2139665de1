package schedule

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/avtale/avtale/internal/rest"
	"github.com/avtale/avtale/pkg/user"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

type EventDTO struct {
	ID         string    `json:"id"`
	SeriesID   string    `json:"seriesId"`
	Title      string    `json:"title"`
	Owner      string    `json:"owner"`
	Start      time.Time `json:"start"`
	End        time.Time `json:"end"`
	Priority   string    `json:"priority"`
	Status     string    `json:"status"`
	Recurrence string    `json:"recurrence"`
	Notes      string    `json:"notes,omitempty"`
}

type CreateSeriesDTO struct {
	Title       string    `json:"title"`
	Start       time.Time `json:"start"`
	End         time.Time `json:"end"`
	Priority    string    `json:"priority"`
	Status      string    `json:"status,omitempty"`
	Recurrence  string    `json:"recurrence"`
	Notes       string    `json:"notes,omitempty"`
	Occurrences int       `json:"occurrences"`
}

type Handler struct {
	scheduleService Service
	csvRenderer     EventsRenderer
}

func NewHandler(scheduleService Service, csvRenderer EventsRenderer) *Handler {
	return &Handler{scheduleService, csvRenderer}
}

// CreateSeries godoc
// @Summary Create a series of events
// @Description Expand a recurrence request into concrete events and store them
// @Tags Events
// @Accept json
// @Produce json
// @Param series body CreateSeriesDTO true "Series"
// @Success 201 {array} EventDTO
// @Failure 400 {object} rest.ErrorResponse "Invalid request"
// @Failure 401 {string} string "Not authenticated"
// @Router /api/events [post]
// @Security BearerAuth
func (h *Handler) CreateSeries(w http.ResponseWriter, r *http.Request) {
	log.Debug("Creating event series")
	w.Header().Set("Content-Type", "application/json")

	var dto CreateSeriesDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		encodeErr := json.NewEncoder(w).Encode(rest.ErrorResponse{
			Error:   "Invalid request body",
			Details: err.Error(),
		})
		if encodeErr != nil {
			http.Error(w, encodeErr.Error(), http.StatusInternalServerError)
		}
		return
	}
	if dto.Status == "" {
		dto.Status = string(StatusPlanned)
	}

	events, err := h.scheduleService.CreateSeries(r.Context(), SeriesRequest{
		Title:       dto.Title,
		StartTime:   dto.Start,
		EndTime:     dto.End,
		Priority:    Priority(dto.Priority),
		Status:      Status(dto.Status),
		Recurrence:  Recurrence(dto.Recurrence),
		Notes:       dto.Notes,
		Occurrences: dto.Occurrences,
	})
	if err != nil {
		if errors.Is(err, user.ErrNoUser) {
			http.Error(w, "Not authenticated", http.StatusUnauthorized)
			return
		}
		if isValidationError(err) {
			w.WriteHeader(http.StatusBadRequest)
			encodeErr := json.NewEncoder(w).Encode(rest.ErrorResponse{
				Error:   "Invalid series request",
				Details: err.Error(),
			})
			if encodeErr != nil {
				http.Error(w, encodeErr.Error(), http.StatusInternalServerError)
			}
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(eventsToDTO(events)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

// ListMyEvents godoc
// @Summary List own events
// @Description Retrieve the current user's events ordered by start time
// @Tags Events
// @Produce json
// @Produce text/csv
// @Success 200 {array} EventDTO
// @Failure 401 {string} string "Not authenticated"
// @Router /api/events [get]
// @Security BearerAuth
func (h *Handler) ListMyEvents(w http.ResponseWriter, r *http.Request) {
	events, err := h.scheduleService.MyEvents(r.Context())
	if err != nil {
		if errors.Is(err, user.ErrNoUser) {
			http.Error(w, "Not authenticated", http.StatusUnauthorized)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	if r.Header.Get("Accept") == "text/csv" {
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		csv, err := h.csvRenderer.Render(events)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		if _, err := w.Write(csv); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(eventsToDTO(events)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

// EventsOnDay godoc
// @Summary List events on a day
// @Description Retrieve events starting on the given calendar day
// @Tags Events
// @Produce json
// @Param date query string true "Day in YYYY-MM-DD format"
// @Success 200 {array} EventDTO
// @Failure 400 {object} rest.ErrorResponse "Invalid date"
// @Failure 401 {string} string "Not authenticated"
// @Router /api/events/day [get]
// @Security BearerAuth
func (h *Handler) EventsOnDay(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	dateString := r.URL.Query().Get("date")
	day, err := time.Parse("2006-01-02", dateString)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		encodeErr := json.NewEncoder(w).Encode(rest.ErrorResponse{
			Error:   "Invalid date format",
			Details: "date must be in YYYY-MM-DD format",
		})
		if encodeErr != nil {
			http.Error(w, encodeErr.Error(), http.StatusInternalServerError)
		}
		return
	}

	events, err := h.scheduleService.EventsOnDay(r.Context(), day)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(eventsToDTO(events)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

// Search godoc
// @Summary Search events
// @Description Retrieve events matching all given criteria
// @Tags Events
// @Produce json
// @Param owner query string false "Owner username"
// @Param priority query string false "Priority"
// @Param status query string false "Status"
// @Param recurrence query string false "Recurrence"
// @Success 200 {array} EventDTO
// @Failure 400 {object} rest.ErrorResponse "Invalid criteria"
// @Failure 401 {string} string "Not authenticated"
// @Router /api/events/search [get]
// @Security BearerAuth
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	query := r.URL.Query()
	filter := Filter{
		Owner:      query.Get("owner"),
		Priority:   Priority(query.Get("priority")),
		Status:     Status(query.Get("status")),
		Recurrence: Recurrence(query.Get("recurrence")),
	}

	events, err := h.scheduleService.Search(r.Context(), filter)
	if err != nil {
		if isValidationError(err) {
			w.WriteHeader(http.StatusBadRequest)
			encodeErr := json.NewEncoder(w).Encode(rest.ErrorResponse{
				Error:   "Invalid search criteria",
				Details: err.Error(),
			})
			if encodeErr != nil {
				http.Error(w, encodeErr.Error(), http.StatusInternalServerError)
			}
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(eventsToDTO(events)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

// DeleteEvent godoc
// @Summary Delete an event
// @Description Remove a single event by its id
// @Tags Events
// @Param eventId path string true "Event ID"
// @Success 204 {string} string "No Content"
// @Failure 400 {string} string "Invalid event id"
// @Failure 404 {string} string "Event not found"
// @Router /api/events/{eventId} [delete]
// @Security BearerAuth
func (h *Handler) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	id, err := uuid.Parse(vars["eventId"])
	if err != nil {
		http.Error(w, "Invalid event id", http.StatusBadRequest)
		return
	}

	if err := h.scheduleService.DeleteEvent(r.Context(), id); err != nil {
		if errors.Is(err, user.ErrNoUser) {
			http.Error(w, "Not authenticated", http.StatusUnauthorized)
			return
		}
		if errors.Is(err, ErrEventNotFound) {
			http.Error(w, "Event not found", http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func isValidationError(err error) bool {
	return errors.Is(err, ErrInvalidPriority) ||
		errors.Is(err, ErrInvalidStatus) ||
		errors.Is(err, ErrInvalidRecurrence) ||
		errors.Is(err, ErrInvalidOccurrences) ||
		errors.Is(err, ErrEmptyTitle)
}

func EventToDTO(event Event) EventDTO {
	return EventDTO{
		ID:         event.ID.String(),
		SeriesID:   event.SeriesID.String(),
		Title:      event.Title,
		Owner:      event.Owner,
		Start:      event.StartTime,
		End:        event.EndTime,
		Priority:   string(event.Priority),
		Status:     string(event.Status),
		Recurrence: string(event.Recurrence),
		Notes:      event.Notes,
	}
}

func eventsToDTO(events []Event) []EventDTO {
	dtos := make([]EventDTO, 0, len(events))
	for _, event := range events {
		dtos = append(dtos, EventToDTO(event))
	}
	return dtos
}
