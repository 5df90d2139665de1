package audit

import (
	"time"

	"github.com/google/uuid"
)

// Entry is one recorded action in the activity trail.
type Entry struct {
	ID         uuid.UUID
	Actor      string
	Action     string
	Subject    string
	Detail     string
	OccurredAt time.Time
}

// Actions recorded by the trail.
const (
	ActionSeriesCreated  = "series.created"
	ActionEventDeleted   = "event.deleted"
	ActionUserRegistered = "user.registered"
)
