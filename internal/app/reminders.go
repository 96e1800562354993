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

// ReminderService persists one-shot reminders and fires each once through
// a Notifier. Pending timers only stop when Close is called.
type ReminderService struct {
	store    *Store
	now      func() time.Time
	notifier domain.Notifier

	mu     sync.Mutex
	timers []*time.Timer
}

func NewReminderService(s *Store, n domain.Notifier, now func() time.Time) *ReminderService {
	if now == nil {
		now = time.Now
	}
	if n == nil {
		n = LogNotifier{}
	}
	return &ReminderService{store: s, now: now, notifier: n}
}

func (s *ReminderService) List(ctx context.Context) []domain.Reminder {
	rs, _ := load(ctx, s.store, KeyReminders, []domain.Reminder{})
	if rs == nil {
		rs = []domain.Reminder{}
	}
	return rs
}

func (s *ReminderService) Add(ctx context.Context, title string, at time.Time) (domain.Reminder, error) {
	title = strings.TrimSpace(title)
	if title == "" || at.IsZero() {
		return domain.Reminder{}, fmt.Errorf("%w: title and time are required", domain.ErrValidation)
	}
	wait := at.Sub(s.now())
	if wait < 0 {
		return domain.Reminder{}, fmt.Errorf("reminder %q at %s: %w", title, at.Format(time.RFC3339), domain.ErrExpired)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	r := domain.Reminder{Title: title, At: at}
	if !save(ctx, s.store, KeyReminders, append(s.List(ctx), r)) {
		return domain.Reminder{}, domain.ErrPersist
	}
	s.schedule(r, wait)
	log.Info().Str("title", title).Time("at", at).Msg("reminder set")
	return r, nil
}

// Restore schedules every stored reminder that is still in the future and
// returns how many were scheduled.
func (s *ReminderService) Restore(ctx context.Context) int {
	now := s.now()
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for _, r := range s.List(ctx) {
		if wait := r.At.Sub(now); wait >= 0 {
			s.schedule(r, wait)
			n++
		}
	}
	return n
}

// caller holds mu
func (s *ReminderService) schedule(r domain.Reminder, wait time.Duration) {
	s.timers = append(s.timers, time.AfterFunc(wait, func() { s.notifier.Notify(r) }))
}

func (s *ReminderService) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range s.timers {
		t.Stop()
	}
	s.timers = nil
}

// LogNotifier reports reminders through the global logger.
type LogNotifier struct{}

func (LogNotifier) Notify(r domain.Reminder) {
	log.Warn().Str("title", r.Title).Time("at", r.At).Msg("upcoming: " + r.Title)
}
