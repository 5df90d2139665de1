package schedule

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryRepository keeps events in process memory. It backs the memory
// database driver and the service tests.
type MemoryRepository struct {
	mu     sync.RWMutex
	events map[uuid.UUID]Event
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{events: make(map[uuid.UUID]Event)}
}

// WithTransaction runs fn against the repository itself. The memory store
// has no transactional isolation; StoreEvents still inserts all or nothing.
func (m *MemoryRepository) WithTransaction(_ context.Context, fn func(repo Repository) error) error {
	return fn(m)
}

func (m *MemoryRepository) StoreEvents(_ context.Context, events []Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, event := range events {
		if _, exists := m.events[event.ID]; exists {
			return fmt.Errorf("event %s already exists", event.ID)
		}
	}
	for _, event := range events {
		m.events[event.ID] = event
	}
	return nil
}

func (m *MemoryRepository) FindByOwner(_ context.Context, owner string) ([]Event, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	events := make([]Event, 0)
	for _, event := range m.events {
		if event.Owner == owner {
			events = append(events, event)
		}
	}
	sortByStartTime(events)
	return events, nil
}

func (m *MemoryRepository) FindAll(_ context.Context) ([]Event, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	events := make([]Event, 0, len(m.events))
	for _, event := range m.events {
		events = append(events, event)
	}
	return events, nil
}

func (m *MemoryRepository) FindOnDay(_ context.Context, day time.Time) ([]Event, error) {
	dayStart := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	dayEnd := dayStart.Add(24 * time.Hour)

	m.mu.RLock()
	defer m.mu.RUnlock()
	events := make([]Event, 0)
	for _, event := range m.events {
		if !event.StartTime.Before(dayStart) && event.StartTime.Before(dayEnd) {
			events = append(events, event)
		}
	}
	sortByStartTime(events)
	return events, nil
}

func (m *MemoryRepository) Find(_ context.Context, filter Filter) ([]Event, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	events := make([]Event, 0)
	for _, event := range m.events {
		if filter.Matches(event) {
			events = append(events, event)
		}
	}
	sortByStartTime(events)
	return events, nil
}

func (m *MemoryRepository) Delete(_ context.Context, id uuid.UUID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.events[id]; !exists {
		return false, nil
	}
	delete(m.events, id)
	return true, nil
}

func (m *MemoryRepository) CountTotal(_ context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.events), nil
}

func (m *MemoryRepository) CountActive(_ context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	count := 0
	for _, event := range m.events {
		if event.Active() {
			count++
		}
	}
	return count, nil
}

func (m *MemoryRepository) CountSeries(_ context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	series := make(map[uuid.UUID]struct{})
	for _, event := range m.events {
		series[event.SeriesID] = struct{}{}
	}
	return len(series), nil
}

func (m *MemoryRepository) CountByPriority(_ context.Context, priority Priority) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	count := 0
	for _, event := range m.events {
		if event.Priority == priority {
			count++
		}
	}
	return count, nil
}

func sortByStartTime(events []Event) {
	sort.Slice(events, func(i, j int) bool {
		return events[i].StartTime.Before(events[j].StartTime)
	})
}
