package schedule

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

const (
	MinOccurrences = 1
	MaxOccurrences = 365
)

var (
	ErrInvalidOccurrences = fmt.Errorf("occurrences must be between %d and %d", MinOccurrences, MaxOccurrences)
	ErrEmptyTitle         = errors.New("title must not be empty")
)

// SeriesRequest describes a series to be expanded into stored events.
type SeriesRequest struct {
	Title       string
	StartTime   time.Time
	EndTime     time.Time
	Priority    Priority
	Status      Status
	Recurrence  Recurrence
	Notes       string
	Occurrences int
}

// Validate checks the enum fields and the occurrence count. Times are not
// checked: an end before the start is accepted and stored as given.
func (r SeriesRequest) Validate() error {
	if r.Title == "" {
		return ErrEmptyTitle
	}
	if _, err := ParsePriority(string(r.Priority)); err != nil {
		return err
	}
	if _, err := ParseStatus(string(r.Status)); err != nil {
		return err
	}
	if _, err := ParseRecurrence(string(r.Recurrence)); err != nil {
		return err
	}
	if r.Occurrences < MinOccurrences || r.Occurrences > MaxOccurrences {
		return fmt.Errorf("%w, got %d", ErrInvalidOccurrences, r.Occurrences)
	}
	return nil
}

// ExpandSeries materializes a request into concrete events under a freshly
// generated series id. Occurrence i is shifted by i times the recurrence
// interval; with RecurrenceNone every occurrence keeps the original times,
// so a count above one yields that many identical rows apart from their ids.
// The request is assumed valid; callers validate before expanding.
func ExpandSeries(owner string, req SeriesRequest) []Event {
	seriesID := uuid.New()
	events := make([]Event, 0, req.Occurrences)
	for i := 0; i < req.Occurrences; i++ {
		offset := time.Duration(i) * req.Recurrence.Interval()
		events = append(events, Event{
			ID:         uuid.New(),
			SeriesID:   seriesID,
			Title:      req.Title,
			Owner:      owner,
			StartTime:  req.StartTime.Add(offset),
			EndTime:    req.EndTime.Add(offset),
			Priority:   req.Priority,
			Status:     req.Status,
			Recurrence: req.Recurrence,
			Notes:      req.Notes,
		})
	}
	return events
}
