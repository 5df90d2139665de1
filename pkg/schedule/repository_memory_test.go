package schedule

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryRepository_StoreAndQuery(t *testing.T) {
	// Given
	ctx := context.Background()
	repo := NewMemoryRepository()
	baseTime := time.Date(2024, time.June, 15, 9, 0, 0, 0, time.UTC)
	seriesID := uuid.New()
	late := testEvent(Event{Owner: "frida", SeriesID: seriesID, StartTime: baseTime.Add(24 * time.Hour)})
	early := testEvent(Event{Owner: "frida", SeriesID: seriesID, StartTime: baseTime})
	other := testEvent(Event{Owner: "georg", Status: StatusCompleted, Priority: PriorityCritical, StartTime: baseTime.Add(time.Hour)})
	require.NoError(t, repo.StoreEvents(ctx, []Event{late, early, other}))

	// When / Then
	byOwner, err := repo.FindByOwner(ctx, "frida")
	require.NoError(t, err)
	require.Len(t, byOwner, 2)
	assert.Equal(t, early.ID, byOwner[0].ID)
	assert.Equal(t, late.ID, byOwner[1].ID)

	all, err := repo.FindAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	onDay, err := repo.FindOnDay(ctx, baseTime)
	require.NoError(t, err)
	require.Len(t, onDay, 2)
	assert.Equal(t, early.ID, onDay[0].ID)
	assert.Equal(t, other.ID, onDay[1].ID)

	filtered, err := repo.Find(ctx, Filter{Owner: "georg", Priority: PriorityCritical})
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, other.ID, filtered[0].ID)

	total, err := repo.CountTotal(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, total)

	active, err := repo.CountActive(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, active)

	series, err := repo.CountSeries(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, series)

	critical, err := repo.CountByPriority(ctx, PriorityCritical)
	require.NoError(t, err)
	assert.Equal(t, 1, critical)
}

func TestMemoryRepository_StoreEventsIsAtomic(t *testing.T) {
	// Given a batch with a duplicate id
	ctx := context.Background()
	repo := NewMemoryRepository()
	duplicate := uuid.New()
	events := []Event{
		testEvent(Event{ID: duplicate}),
		testEvent(Event{}),
		testEvent(Event{ID: duplicate}),
	}

	// When
	err := repo.StoreEvents(ctx, events)

	// Then
	require.Error(t, err)
	count, err := repo.CountTotal(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestMemoryRepository_Delete(t *testing.T) {
	// Given
	ctx := context.Background()
	repo := NewMemoryRepository()
	event := testEvent(Event{})
	require.NoError(t, repo.StoreEvents(ctx, []Event{event}))

	// When / Then
	found, err := repo.Delete(ctx, event.ID)
	require.NoError(t, err)
	assert.True(t, found)

	found, err = repo.Delete(ctx, event.ID)
	require.NoError(t, err)
	assert.False(t, found)
}
