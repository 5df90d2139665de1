package audit

import (
	"context"
	"fmt"

	"github.com/avtale/avtale/internal/event_bus"
	"github.com/avtale/avtale/internal/utils"
	"github.com/google/uuid"
)

// Recorder turns bus events into audit entries. Handlers run synchronously
// inside Publish, so a stored entry is visible as soon as the triggering
// operation returns.
type Recorder struct {
	repo  Repository
	clock utils.Clock
}

func NewRecorder(repo Repository, clock utils.Clock) *Recorder {
	return &Recorder{repo: repo, clock: clock}
}

// Subscribe registers the recorder on the bus. Call once during startup.
func (r *Recorder) Subscribe(bus *event_bus.EventBus) {
	event_bus.SubscribeTyped(bus, event_bus.SeriesCreatedEventType, r.onSeriesCreated)
	event_bus.SubscribeTyped(bus, event_bus.EventDeletedEventType, r.onEventDeleted)
	event_bus.SubscribeTyped(bus, event_bus.UserRegisteredEventType, r.onUserRegistered)
}

func (r *Recorder) Recent(ctx context.Context, limit int) ([]Entry, error) {
	return r.repo.Recent(ctx, limit)
}

func (r *Recorder) onSeriesCreated(e event_bus.EventT[event_bus.SeriesCreated]) error {
	return r.repo.Store(e.Context(), Entry{
		ID:         uuid.New(),
		Actor:      e.Data.Owner,
		Action:     ActionSeriesCreated,
		Subject:    e.Data.SeriesID,
		Detail:     fmt.Sprintf("%s (%s, %d occurrences)", e.Data.Title, e.Data.Recurrence, e.Data.Occurrences),
		OccurredAt: r.clock.Now(),
	})
}

func (r *Recorder) onEventDeleted(e event_bus.EventT[event_bus.EventDeleted]) error {
	return r.repo.Store(e.Context(), Entry{
		ID:         uuid.New(),
		Actor:      e.Data.Actor,
		Action:     ActionEventDeleted,
		Subject:    e.Data.EventID,
		OccurredAt: r.clock.Now(),
	})
}

func (r *Recorder) onUserRegistered(e event_bus.EventT[event_bus.UserRegistered]) error {
	return r.repo.Store(e.Context(), Entry{
		ID:         uuid.New(),
		Actor:      e.Data.Username,
		Action:     ActionUserRegistered,
		Subject:    e.Data.Uid,
		OccurredAt: r.clock.Now(),
	})
}
