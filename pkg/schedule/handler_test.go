package schedule

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupScheduleHandler() *Handler {
	service, _, _ := setupScheduleService()
	return NewHandler(service, NewCsvEventsRenderer())
}

// withUser injects an authenticated user the way the middleware would.
func withUser(username string, next http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := userContext(username)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func createSeries(t *testing.T, handler *Handler, username string, dto CreateSeriesDTO) []EventDTO {
	body, err := json.Marshal(dto)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/api/events", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	withUser(username, handler.CreateSeries).ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code, "unexpected response: %s", w.Body.String())

	var created []EventDTO
	require.NoError(t, json.NewDecoder(w.Body).Decode(&created))
	return created
}

func seriesDTO(partial CreateSeriesDTO) CreateSeriesDTO {
	dto := CreateSeriesDTO{
		Title:       "Team sync",
		Start:       time.Date(2024, time.January, 1, 9, 0, 0, 0, time.UTC),
		End:         time.Date(2024, time.January, 1, 10, 0, 0, 0, time.UTC),
		Priority:    "Medium",
		Recurrence:  "None",
		Occurrences: 1,
	}
	if partial.Title != "" {
		dto.Title = partial.Title
	}
	if !partial.Start.IsZero() {
		dto.Start = partial.Start
	}
	if !partial.End.IsZero() {
		dto.End = partial.End
	}
	if partial.Priority != "" {
		dto.Priority = partial.Priority
	}
	if partial.Status != "" {
		dto.Status = partial.Status
	}
	if partial.Recurrence != "" {
		dto.Recurrence = partial.Recurrence
	}
	if partial.Notes != "" {
		dto.Notes = partial.Notes
	}
	if partial.Occurrences != 0 {
		dto.Occurrences = partial.Occurrences
	}
	return dto
}

func TestHandler_CreateSeries(t *testing.T) {
	t.Run("should create events and return them", func(t *testing.T) {
		// Given
		handler := setupScheduleHandler()
		dto := seriesDTO(CreateSeriesDTO{Recurrence: "Daily", Occurrences: 3})

		// When
		created := createSeries(t, handler, "frida", dto)

		// Then
		require.Len(t, created, 3)
		assert.Equal(t, "frida", created[0].Owner)
		assert.Equal(t, created[0].SeriesID, created[2].SeriesID)
		assert.Equal(t, dto.Start.Add(48*time.Hour).Unix(), created[2].Start.Unix())
	})

	t.Run("should default the status to Planned", func(t *testing.T) {
		// Given a request without a status
		handler := setupScheduleHandler()
		dto := seriesDTO(CreateSeriesDTO{})

		// When
		created := createSeries(t, handler, "frida", dto)

		// Then
		require.Len(t, created, 1)
		assert.Equal(t, string(StatusPlanned), created[0].Status)
	})

	t.Run("should reject invalid field values", func(t *testing.T) {
		// Given
		handler := setupScheduleHandler()
		dto := seriesDTO(CreateSeriesDTO{Priority: "Urgent"})
		body, err := json.Marshal(dto)
		require.NoError(t, err)

		// When
		req := httptest.NewRequest(http.MethodPost, "/api/events", bytes.NewBuffer(body))
		w := httptest.NewRecorder()
		withUser("frida", handler.CreateSeries).ServeHTTP(w, req)

		// Then
		assert.Equal(t, http.StatusBadRequest, w.Code)
		var errResponse struct {
			Error   string `json:"error"`
			Details string `json:"details"`
		}
		require.NoError(t, json.NewDecoder(w.Body).Decode(&errResponse))
		assert.Equal(t, "Invalid series request", errResponse.Error)
		assert.Contains(t, errResponse.Details, "invalid priority")
	})

	t.Run("should reject a malformed body", func(t *testing.T) {
		// Given
		handler := setupScheduleHandler()

		// When
		req := httptest.NewRequest(http.MethodPost, "/api/events", bytes.NewBufferString("{not json"))
		w := httptest.NewRecorder()
		withUser("frida", handler.CreateSeries).ServeHTTP(w, req)

		// Then
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("should require an authenticated user", func(t *testing.T) {
		// Given
		handler := setupScheduleHandler()
		body, err := json.Marshal(seriesDTO(CreateSeriesDTO{}))
		require.NoError(t, err)

		// When called without a user in the context
		req := httptest.NewRequest(http.MethodPost, "/api/events", bytes.NewBuffer(body))
		w := httptest.NewRecorder()
		handler.CreateSeries(w, req)

		// Then
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestHandler_ListMyEvents(t *testing.T) {
	t.Run("should return the user's events as JSON", func(t *testing.T) {
		// Given
		handler := setupScheduleHandler()
		createSeries(t, handler, "frida", seriesDTO(CreateSeriesDTO{Occurrences: 2}))
		createSeries(t, handler, "georg", seriesDTO(CreateSeriesDTO{}))

		// When
		req := httptest.NewRequest(http.MethodGet, "/api/events", nil)
		w := httptest.NewRecorder()
		withUser("frida", handler.ListMyEvents).ServeHTTP(w, req)

		// Then
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
		var events []EventDTO
		require.NoError(t, json.NewDecoder(w.Body).Decode(&events))
		assert.Len(t, events, 2)
	})

	t.Run("should render CSV when requested via the Accept header", func(t *testing.T) {
		// Given
		handler := setupScheduleHandler()
		createSeries(t, handler, "frida", seriesDTO(CreateSeriesDTO{Title: "Export me"}))

		// When
		req := httptest.NewRequest(http.MethodGet, "/api/events", nil)
		req.Header.Set("Accept", "text/csv")
		w := httptest.NewRecorder()
		withUser("frida", handler.ListMyEvents).ServeHTTP(w, req)

		// Then
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "text/csv; charset=utf-8", w.Header().Get("Content-Type"))
		assert.Contains(t, w.Body.String(), "id,series_id,title,owner")
		assert.Contains(t, w.Body.String(), "Export me")
	})

	t.Run("should require an authenticated user", func(t *testing.T) {
		// Given
		handler := setupScheduleHandler()

		// When
		req := httptest.NewRequest(http.MethodGet, "/api/events", nil)
		w := httptest.NewRecorder()
		handler.ListMyEvents(w, req)

		// Then
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestHandler_EventsOnDay(t *testing.T) {
	t.Run("should return events for the given day", func(t *testing.T) {
		// Given a daily series over three days
		handler := setupScheduleHandler()
		createSeries(t, handler, "frida", seriesDTO(CreateSeriesDTO{Recurrence: "Daily", Occurrences: 3}))

		// When
		req := httptest.NewRequest(http.MethodGet, "/api/events/day?date=2024-01-02", nil)
		w := httptest.NewRecorder()
		withUser("frida", handler.EventsOnDay).ServeHTTP(w, req)

		// Then
		assert.Equal(t, http.StatusOK, w.Code)
		var events []EventDTO
		require.NoError(t, json.NewDecoder(w.Body).Decode(&events))
		require.Len(t, events, 1)
		assert.Equal(t, 2, events[0].Start.Day())
	})

	t.Run("should reject a malformed date", func(t *testing.T) {
		// Given
		handler := setupScheduleHandler()

		// When
		req := httptest.NewRequest(http.MethodGet, "/api/events/day?date=02.01.2024", nil)
		w := httptest.NewRecorder()
		withUser("frida", handler.EventsOnDay).ServeHTTP(w, req)

		// Then
		assert.Equal(t, http.StatusBadRequest, w.Code)
		var errResponse struct {
			Error   string `json:"error"`
			Details string `json:"details"`
		}
		require.NoError(t, json.NewDecoder(w.Body).Decode(&errResponse))
		assert.Contains(t, errResponse.Error, "Invalid date format")
		assert.Contains(t, errResponse.Details, "YYYY-MM-DD")
	})
}

func TestHandler_Search(t *testing.T) {
	t.Run("should filter by query parameters", func(t *testing.T) {
		// Given
		handler := setupScheduleHandler()
		createSeries(t, handler, "frida", seriesDTO(CreateSeriesDTO{Priority: "High"}))
		createSeries(t, handler, "frida", seriesDTO(CreateSeriesDTO{Priority: "Low"}))
		createSeries(t, handler, "georg", seriesDTO(CreateSeriesDTO{Priority: "High"}))

		// When
		req := httptest.NewRequest(http.MethodGet, "/api/events/search?owner=frida&priority=High", nil)
		w := httptest.NewRecorder()
		withUser("frida", handler.Search).ServeHTTP(w, req)

		// Then
		assert.Equal(t, http.StatusOK, w.Code)
		var events []EventDTO
		require.NoError(t, json.NewDecoder(w.Body).Decode(&events))
		require.Len(t, events, 1)
		assert.Equal(t, "frida", events[0].Owner)
		assert.Equal(t, "High", events[0].Priority)
	})

	t.Run("should reject criteria outside the closed sets", func(t *testing.T) {
		// Given
		handler := setupScheduleHandler()

		// When
		req := httptest.NewRequest(http.MethodGet, "/api/events/search?status=done", nil)
		w := httptest.NewRecorder()
		withUser("frida", handler.Search).ServeHTTP(w, req)

		// Then
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestHandler_DeleteEvent(t *testing.T) {
	t.Run("should delete an event", func(t *testing.T) {
		// Given
		handler := setupScheduleHandler()
		created := createSeries(t, handler, "frida", seriesDTO(CreateSeriesDTO{}))

		// When
		req := httptest.NewRequest(http.MethodDelete, fmt.Sprintf("/api/events/%s", created[0].ID), nil)
		req = mux.SetURLVars(req, map[string]string{"eventId": created[0].ID})
		w := httptest.NewRecorder()
		withUser("frida", handler.DeleteEvent).ServeHTTP(w, req)

		// Then
		assert.Equal(t, http.StatusNoContent, w.Code)

		listReq := httptest.NewRequest(http.MethodGet, "/api/events", nil)
		listW := httptest.NewRecorder()
		withUser("frida", handler.ListMyEvents).ServeHTTP(listW, listReq)
		var events []EventDTO
		require.NoError(t, json.NewDecoder(listW.Body).Decode(&events))
		assert.Empty(t, events)
	})

	t.Run("should return 404 for an unknown id", func(t *testing.T) {
		// Given
		handler := setupScheduleHandler()
		unknown := uuid.NewString()

		// When
		req := httptest.NewRequest(http.MethodDelete, fmt.Sprintf("/api/events/%s", unknown), nil)
		req = mux.SetURLVars(req, map[string]string{"eventId": unknown})
		w := httptest.NewRecorder()
		withUser("frida", handler.DeleteEvent).ServeHTTP(w, req)

		// Then
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("should reject a malformed id", func(t *testing.T) {
		// Given
		handler := setupScheduleHandler()

		// When
		req := httptest.NewRequest(http.MethodDelete, "/api/events/not-a-uuid", nil)
		req = mux.SetURLVars(req, map[string]string{"eventId": "not-a-uuid"})
		w := httptest.NewRecorder()
		withUser("frida", handler.DeleteEvent).ServeHTTP(w, req)

		// Then
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
