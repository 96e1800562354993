package app

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"trip_planner/internal/domain"
)

// RosterService manages travel companions. Reviews refer to members by
// display name only, so removing a member leaves their reviews intact.
type RosterService struct {
	store *Store
	mu    sync.Mutex
}

func NewRosterService(s *Store) *RosterService { return &RosterService{store: s} }

// List returns the roster, seeding the default members when nothing was
// stored yet.
func (s *RosterService) List(ctx context.Context) []domain.Member {
	ms, ok := load(ctx, s.store, KeyMembers, []domain.Member(nil))
	if !ok {
		ms = append([]domain.Member(nil), domain.DefaultMembers...)
		save(ctx, s.store, KeyMembers, ms)
	}
	if ms == nil {
		ms = []domain.Member{}
	}
	return ms
}

// Names returns member display names in roster order.
func (s *RosterService) Names(ctx context.Context) []string {
	ms := s.List(ctx)
	out := make([]string, len(ms))
	for i, m := range ms {
		out[i] = m.Name
	}
	return out
}

func (s *RosterService) Add(ctx context.Context, m domain.Member) ([]domain.Member, error) {
	m.Name = strings.TrimSpace(m.Name)
	m.Passport = strings.TrimSpace(m.Passport)
	if m.Name == "" || m.Passport == "" {
		return nil, fmt.Errorf("%w: member name and passport number are required", domain.ErrValidation)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ms := s.List(ctx)
	for _, x := range ms {
		if x.Passport == m.Passport {
			return nil, fmt.Errorf("%w: passport %s", domain.ErrDuplicate, m.Passport)
		}
	}
	ms = append(ms, m)
	if !save(ctx, s.store, KeyMembers, ms) {
		return nil, domain.ErrPersist
	}
	return ms, nil
}

func (s *RosterService) Remove(ctx context.Context, index int) ([]domain.Member, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ms := s.List(ctx)
	if index < 0 || index >= len(ms) {
		return nil, fmt.Errorf("member %d: %w", index, domain.ErrNotFound)
	}
	ms = append(ms[:index], ms[index+1:]...)
	if !save(ctx, s.store, KeyMembers, ms) {
		return nil, domain.ErrPersist
	}
	return ms, nil
}
