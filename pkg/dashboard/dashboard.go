package dashboard

import (
	"context"

	"github.com/avtale/avtale/pkg/schedule"
	"github.com/avtale/avtale/pkg/user"
)

// Summary aggregates the numbers shown on the admin dashboard.
type Summary struct {
	TotalEvents    int
	ActiveEvents   int
	DistinctSeries int
	TotalUsers     int
	ByPriority     map[schedule.Priority]int
}

type Service struct {
	events schedule.Repository
	users  user.Service
}

func NewService(events schedule.Repository, users user.Service) *Service {
	return &Service{events: events, users: users}
}

// Summary collects the registry aggregates and the user count. An event
// counts as active unless its status is Completed.
func (s *Service) Summary(ctx context.Context) (Summary, error) {
	total, err := s.events.CountTotal(ctx)
	if err != nil {
		return Summary{}, err
	}
	active, err := s.events.CountActive(ctx)
	if err != nil {
		return Summary{}, err
	}
	series, err := s.events.CountSeries(ctx)
	if err != nil {
		return Summary{}, err
	}

	byPriority := make(map[schedule.Priority]int, len(schedule.AllPriorities))
	for _, priority := range schedule.AllPriorities {
		count, err := s.events.CountByPriority(ctx, priority)
		if err != nil {
			return Summary{}, err
		}
		byPriority[priority] = count
	}

	users, err := s.users.CountUsers(ctx)
	if err != nil {
		return Summary{}, err
	}

	return Summary{
		TotalEvents:    total,
		ActiveEvents:   active,
		DistinctSeries: series,
		TotalUsers:     users,
		ByPriority:     byPriority,
	}, nil
}
