package calendar

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/avtale/avtale/pkg/schedule"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandler_GetEntries(t *testing.T) {
	// Given
	start := time.Date(2024, time.June, 10, 9, 0, 0, 0, time.UTC)
	event := calendarEvent("Planning", schedule.PriorityMedium, start)
	handler := NewHandler(setupCalendarService([]schedule.Event{event}))

	// When
	req := httptest.NewRequest(http.MethodGet, "/api/calendar", nil)
	w := httptest.NewRecorder()
	handler.GetEntries(w, req)

	// Then
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var entries []EntryDTO
	require.NoError(t, json.NewDecoder(w.Body).Decode(&entries))
	require.Len(t, entries, 1)
	assert.Equal(t, "Planning (Medium)", entries[0].Title)
	assert.Equal(t, event.ID.String(), entries[0].EventID)
}

func TestHandler_GetEntriesEmpty(t *testing.T) {
	// Given
	handler := NewHandler(setupCalendarService(nil))

	// When
	req := httptest.NewRequest(http.MethodGet, "/api/calendar", nil)
	w := httptest.NewRecorder()
	handler.GetEntries(w, req)

	// Then an empty array is returned, not null
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "[]\n", w.Body.String())
}

func TestHandler_GetFeed(t *testing.T) {
	// Given
	start := time.Date(2024, time.June, 10, 9, 0, 0, 0, time.UTC)
	event := calendarEvent("Planning", schedule.PriorityLow, start)
	handler := NewHandler(setupCalendarService([]schedule.Event{event}))

	// When
	req := httptest.NewRequest(http.MethodGet, "/api/calendar/feed.ics", nil)
	w := httptest.NewRecorder()
	handler.GetFeed(w, req)

	// Then
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/calendar; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Body.String(), "BEGIN:VCALENDAR")
	assert.Contains(t, w.Body.String(), "SUMMARY:Planning (Low)")
}
