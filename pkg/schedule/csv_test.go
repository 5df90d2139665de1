package schedule

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCsvEventsRendererImpl_Render(t *testing.T) {
	// Given
	renderer := NewCsvEventsRenderer()
	id := uuid.MustParse("11111111-1111-1111-1111-111111111111")
	seriesID := uuid.MustParse("22222222-2222-2222-2222-222222222222")
	start := time.Date(2024, time.January, 1, 9, 0, 0, 0, time.UTC)
	events := []Event{
		{
			ID:         id,
			SeriesID:   seriesID,
			Title:      "Team sync",
			Owner:      "frida",
			StartTime:  start,
			EndTime:    start.Add(time.Hour),
			Priority:   PriorityHigh,
			Status:     StatusPlanned,
			Recurrence: RecurrenceWeekly,
			Notes:      "room 4, bring notes",
		},
	}

	// When
	rendered, err := renderer.Render(events)

	// Then commas in fields are quoted, times are RFC3339
	require.NoError(t, err)
	want := "id,series_id,title,owner,start,end,priority,status,recurrence,notes\n" +
		"11111111-1111-1111-1111-111111111111,22222222-2222-2222-2222-222222222222," +
		"Team sync,frida,2024-01-01T09:00:00Z,2024-01-01T10:00:00Z,High,Planned,Weekly," +
		"\"room 4, bring notes\"\n"
	assert.Equal(t, want, string(rendered))
}

func TestCsvEventsRendererImpl_RenderEmptyList(t *testing.T) {
	// Given
	renderer := NewCsvEventsRenderer()

	// When
	rendered, err := renderer.Render(nil)

	// Then only the header remains
	require.NoError(t, err)
	assert.Equal(t, "id,series_id,title,owner,start,end,priority,status,recurrence,notes\n", string(rendered))
}

func TestCsvEventsRendererImpl_ContentType(t *testing.T) {
	assert.Equal(t, "text/csv", NewCsvEventsRenderer().ContentType())
}
