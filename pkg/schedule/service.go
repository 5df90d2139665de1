package schedule

import (
	"context"
	"fmt"
	"time"

	"github.com/avtale/avtale/internal/event_bus"
	"github.com/avtale/avtale/pkg/user"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

type Service interface {
	// CreateSeries validates the request, expands it into occurrences owned
	// by the current user and stores them as one batch.
	CreateSeries(ctx context.Context, request SeriesRequest) ([]Event, error)
	// MyEvents returns the current user's events ordered by start time.
	MyEvents(ctx context.Context) ([]Event, error)
	AllEvents(ctx context.Context) ([]Event, error)
	EventsOnDay(ctx context.Context, day time.Time) ([]Event, error)
	Search(ctx context.Context, filter Filter) ([]Event, error)
	// DeleteEvent removes a single event. Deleting an id that does not
	// exist returns ErrEventNotFound.
	DeleteEvent(ctx context.Context, id uuid.UUID) error
}

type ServiceImpl struct {
	repo Repository
	bus  *event_bus.EventBus
}

func NewService(repo Repository, bus *event_bus.EventBus) *ServiceImpl {
	return &ServiceImpl{repo: repo, bus: bus}
}

func (s *ServiceImpl) CreateSeries(ctx context.Context, request SeriesRequest) ([]Event, error) {
	owner, err := user.CurrentUsername(ctx)
	if err != nil {
		return nil, err
	}
	if err := request.Validate(); err != nil {
		return nil, fmt.Errorf("invalid series request: %w", err)
	}

	events := ExpandSeries(owner, request)
	if err := s.repo.StoreEvents(ctx, events); err != nil {
		return nil, err
	}

	err = s.bus.Publish(event_bus.NewEvent(ctx, event_bus.SeriesCreatedEventType, event_bus.SeriesCreated{
		SeriesID:    events[0].SeriesID.String(),
		Owner:       owner,
		Title:       request.Title,
		Recurrence:  string(request.Recurrence),
		Occurrences: len(events),
		FirstStart:  events[0].StartTime,
	}))
	if err != nil {
		log.Errorf("could not publish series created event: %v", err)
	}
	return events, nil
}

func (s *ServiceImpl) MyEvents(ctx context.Context) ([]Event, error) {
	owner, err := user.CurrentUsername(ctx)
	if err != nil {
		return nil, err
	}
	return s.repo.FindByOwner(ctx, owner)
}

func (s *ServiceImpl) AllEvents(ctx context.Context) ([]Event, error) {
	return s.repo.FindAll(ctx)
}

func (s *ServiceImpl) EventsOnDay(ctx context.Context, day time.Time) ([]Event, error) {
	return s.repo.FindOnDay(ctx, day)
}

func (s *ServiceImpl) Search(ctx context.Context, filter Filter) ([]Event, error) {
	if err := filter.Validate(); err != nil {
		return nil, fmt.Errorf("invalid filter: %w", err)
	}
	return s.repo.Find(ctx, filter)
}

func (s *ServiceImpl) DeleteEvent(ctx context.Context, id uuid.UUID) error {
	actor, err := user.CurrentUsername(ctx)
	if err != nil {
		return err
	}
	found, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("%w: %s", ErrEventNotFound, id)
	}

	err = s.bus.Publish(event_bus.NewEvent(ctx, event_bus.EventDeletedEventType, event_bus.EventDeleted{
		EventID: id.String(),
		Actor:   actor,
	}))
	if err != nil {
		log.Errorf("could not publish event deleted event: %v", err)
	}
	return nil
}
