package app

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"trip_planner/internal/domain"
)

const checkInLayout = "2006-01-02 15:04"

type CheckInService struct {
	store *Store
	now   func() time.Time
	mu    sync.Mutex
}

func NewCheckInService(s *Store, now func() time.Time) *CheckInService {
	if now == nil {
		now = time.Now
	}
	return &CheckInService{store: s, now: now}
}

func (s *CheckInService) List(ctx context.Context) []domain.CheckIn {
	cs, _ := load(ctx, s.store, KeyCheckIns, []domain.CheckIn{})
	if cs == nil {
		cs = []domain.CheckIn{}
	}
	return cs
}

// CheckIn records a visit to spot on day. A spot can be checked in once
// per day.
func (s *CheckInService) CheckIn(ctx context.Context, spot string, day int) (domain.CheckIn, error) {
	spot = strings.TrimSpace(spot)
	if spot == "" || day <= 0 {
		return domain.CheckIn{}, fmt.Errorf("%w: spot and day are required", domain.ErrValidation)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cs := s.List(ctx)
	for _, c := range cs {
		if c.Spot == spot && int(c.Day) == day {
			return domain.CheckIn{}, fmt.Errorf("%w: %s on day %d", domain.ErrDuplicate, spot, day)
		}
	}
	c := domain.CheckIn{Spot: spot, Day: domain.Day(day), Time: s.now().Format(checkInLayout)}
	if !save(ctx, s.store, KeyCheckIns, append(cs, c)) {
		return domain.CheckIn{}, domain.ErrPersist
	}
	log.Info().Str("spot", spot).Int("day", day).Msg("checked in")
	return c, nil
}

func (s *CheckInService) Remove(ctx context.Context, index int) ([]domain.CheckIn, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cs := s.List(ctx)
	if index < 0 || index >= len(cs) {
		return nil, fmt.Errorf("check-in %d: %w", index, domain.ErrNotFound)
	}
	cs = append(cs[:index], cs[index+1:]...)
	if !save(ctx, s.store, KeyCheckIns, cs) {
		return nil, domain.ErrPersist
	}
	return cs, nil
}
