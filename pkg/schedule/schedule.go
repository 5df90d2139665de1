package schedule

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type Priority string

const (
	PriorityLow      Priority = "Low"
	PriorityMedium   Priority = "Medium"
	PriorityHigh     Priority = "High"
	PriorityCritical Priority = "Critical"
)

// AllPriorities lists every valid priority, in ascending order of urgency.
var AllPriorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical}

type Status string

const (
	StatusPlanned   Status = "Planned"
	StatusConfirmed Status = "Confirmed"
	StatusCompleted Status = "Completed"
	StatusCancelled Status = "Cancelled"
)

type Recurrence string

const (
	RecurrenceNone    Recurrence = "None"
	RecurrenceDaily   Recurrence = "Daily"
	RecurrenceWeekly  Recurrence = "Weekly"
	RecurrenceMonthly Recurrence = "Monthly"
)

var (
	ErrInvalidPriority   = errors.New("invalid priority")
	ErrInvalidStatus     = errors.New("invalid status")
	ErrInvalidRecurrence = errors.New("invalid recurrence")
	ErrEventNotFound     = errors.New("event not found")
)

// ParsePriority validates a raw priority value against the closed set.
func ParsePriority(value string) (Priority, error) {
	switch Priority(value) {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical:
		return Priority(value), nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidPriority, value)
}

func ParseStatus(value string) (Status, error) {
	switch Status(value) {
	case StatusPlanned, StatusConfirmed, StatusCompleted, StatusCancelled:
		return Status(value), nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidStatus, value)
}

func ParseRecurrence(value string) (Recurrence, error) {
	switch Recurrence(value) {
	case RecurrenceNone, RecurrenceDaily, RecurrenceWeekly, RecurrenceMonthly:
		return Recurrence(value), nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidRecurrence, value)
}

// Interval returns the flat time distance between consecutive occurrences.
// Monthly advances by a fixed 30 days; calendar-month arithmetic is
// intentionally not used, so a monthly series starting 2024-01-01 continues
// on 2024-01-31, not 2024-02-01.
func (r Recurrence) Interval() time.Duration {
	switch r {
	case RecurrenceDaily:
		return 24 * time.Hour
	case RecurrenceWeekly:
		return 7 * 24 * time.Hour
	case RecurrenceMonthly:
		return 30 * 24 * time.Hour
	default:
		return 0
	}
}

// Event is one concrete scheduled occurrence. Events are immutable once
// stored: there is no update operation, only insert and delete. EndTime is
// not validated against StartTime; a record may end before it starts.
type Event struct {
	ID         uuid.UUID
	SeriesID   uuid.UUID
	Title      string
	Owner      string
	StartTime  time.Time
	EndTime    time.Time
	Priority   Priority
	Status     Status
	Recurrence Recurrence
	Notes      string
}

// Active reports whether the event still counts towards the active total.
func (e Event) Active() bool {
	return e.Status != StatusCompleted
}

// Filter selects events by exact match on each set field. Zero-valued fields
// pass everything; set fields are combined with AND.
type Filter struct {
	Owner      string
	Priority   Priority
	Status     Status
	Recurrence Recurrence
}

// Validate rejects filter criteria outside the closed enum sets. Empty
// criteria are always valid.
func (f Filter) Validate() error {
	if f.Priority != "" {
		if _, err := ParsePriority(string(f.Priority)); err != nil {
			return err
		}
	}
	if f.Status != "" {
		if _, err := ParseStatus(string(f.Status)); err != nil {
			return err
		}
	}
	if f.Recurrence != "" {
		if _, err := ParseRecurrence(string(f.Recurrence)); err != nil {
			return err
		}
	}
	return nil
}

// Matches reports whether the event satisfies every set criterion.
func (f Filter) Matches(e Event) bool {
	if f.Owner != "" && e.Owner != f.Owner {
		return false
	}
	if f.Priority != "" && e.Priority != f.Priority {
		return false
	}
	if f.Status != "" && e.Status != f.Status {
		return false
	}
	if f.Recurrence != "" && e.Recurrence != f.Recurrence {
		return false
	}
	return true
}
