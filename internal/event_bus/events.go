package event_bus

import "time"

const (
	SeriesCreatedEventType  EventType = "schedule.series.created"
	EventDeletedEventType   EventType = "schedule.event.deleted"
	UserRegisteredEventType EventType = "user.registered"
)

// SeriesCreated is published after a creation request has been expanded and
// all of its occurrences stored.
type SeriesCreated struct {
	SeriesID    string
	Owner       string
	Title       string
	Recurrence  string
	Occurrences int
	FirstStart  time.Time
}

// EventDeleted carries the id of a removed event and the user who removed
// it. The stored row is gone by the time this fires, so no further event
// fields are available.
type EventDeleted struct {
	EventID string
	Actor   string
}

type UserRegistered struct {
	Uid      string
	Username string
}
