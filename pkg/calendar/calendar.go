package calendar

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/avtale/avtale/internal/utils"
	"github.com/avtale/avtale/pkg/schedule"
	ics "github.com/arran4/golang-ical"
)

// Entry is one row of the shared calendar view. The title carries the
// priority in parentheses so clients need no extra lookup to render it.
type Entry struct {
	EventID string
	Title   string
	Start   time.Time
	End     time.Time
}

// EventSource yields the events shown on the shared calendar.
type EventSource func(ctx context.Context) ([]schedule.Event, error)

type Service struct {
	events EventSource
	clock  utils.Clock
}

func NewService(events EventSource, clock utils.Clock) *Service {
	return &Service{events: events, clock: clock}
}

// Entries returns every stored event as a calendar entry, ordered by start
// time so feeds stay stable between requests.
func (s *Service) Entries(ctx context.Context) ([]Entry, error) {
	events, err := s.events(ctx)
	if err != nil {
		return nil, err
	}

	entries := make([]Entry, 0, len(events))
	for _, event := range events {
		entries = append(entries, Entry{
			EventID: event.ID.String(),
			Title:   fmt.Sprintf("%s (%s)", event.Title, event.Priority),
			Start:   event.StartTime,
			End:     event.EndTime,
		})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Start.Equal(entries[j].Start) {
			return entries[i].EventID < entries[j].EventID
		}
		return entries[i].Start.Before(entries[j].Start)
	})
	return entries, nil
}

// Feed renders the calendar entries as an iCalendar document with one VEVENT
// per entry.
func (s *Service) Feed(ctx context.Context) (string, error) {
	entries, err := s.Entries(ctx)
	if err != nil {
		return "", err
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//avtale//scheduling//EN")

	stamp := s.clock.Now().UTC()
	for _, entry := range entries {
		event := cal.AddEvent(entry.EventID)
		event.SetDtStampTime(stamp)
		event.SetSummary(entry.Title)
		event.SetStartAt(entry.Start.UTC())
		event.SetEndAt(entry.End.UTC())
	}
	return cal.Serialize(), nil
}
