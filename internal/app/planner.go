package app

import (
	"context"
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"trip_planner/internal/domain"
)

type PlannerConfig struct {
	TripStart     time.Time
	TripDays      int
	BaseCurrency  string
	QuoteCurrency string
	DefaultRate   float64
	Rates         domain.RatesClient
	Notifier      domain.Notifier
	Now           func() time.Time
}

// Planner owns the trip's application state and the services that mutate
// it. Preferences are held in memory between explicit LoadPrefs/SavePrefs.
type Planner struct {
	Reviews   *ReviewService
	Roster    *RosterService
	Luggage   *LuggageService
	CheckIns  *CheckInService
	Reminders *ReminderService
	Currency  *CurrencyService

	store *Store
	cfg   PlannerConfig

	mu    sync.Mutex
	prefs domain.Preferences
}

func NewPlanner(kv domain.KV, cfg PlannerConfig) *Planner {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.TripDays <= 0 {
		cfg.TripDays = 7
	}
	st := NewStore(kv)
	return &Planner{
		Reviews:   NewReviewService(st, cfg.Now),
		Roster:    NewRosterService(st),
		Luggage:   NewLuggageService(st),
		CheckIns:  NewCheckInService(st, cfg.Now),
		Reminders: NewReminderService(st, cfg.Notifier, cfg.Now),
		Currency:  NewCurrencyService(st, cfg.Rates, cfg.BaseCurrency, cfg.QuoteCurrency, cfg.DefaultRate),
		store:     st,
		cfg:       cfg,
	}
}

// Start loads persisted preferences and re-arms pending reminders.
func (p *Planner) Start(ctx context.Context) {
	p.LoadPrefs(ctx)
	p.Reminders.Restore(ctx)
}

func (p *Planner) Close() { p.Reminders.Close() }

func (p *Planner) LoadPrefs(ctx context.Context) domain.Preferences {
	dark, _ := load(ctx, p.store, KeyDarkMode, false)
	p.mu.Lock()
	defer p.mu.Unlock()
	p.prefs = domain.Preferences{DarkMode: dark}
	return p.prefs
}

func (p *Planner) Prefs() domain.Preferences {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.prefs
}

func (p *Planner) SavePrefs(ctx context.Context) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return save(ctx, p.store, KeyDarkMode, p.prefs.DarkMode)
}

func (p *Planner) ToggleDarkMode(ctx context.Context) (domain.Preferences, error) {
	p.mu.Lock()
	p.prefs.DarkMode = !p.prefs.DarkMode
	out := p.prefs
	p.mu.Unlock()
	if !p.SavePrefs(ctx) {
		return out, domain.ErrPersist
	}
	return out, nil
}

// Progress reports which trip day today falls on.
func (p *Planner) Progress(today time.Time) domain.Progress {
	total := p.cfg.TripDays
	start := p.cfg.TripStart
	end := start.AddDate(0, 0, total)

	switch {
	case today.Before(start):
		return domain.Progress{Day: 0, Total: total, Percent: 0, Label: fmt.Sprintf("Not started (Day 0 / %d)", total)}
	case !today.Before(end):
		return domain.Progress{Day: total, Total: total, Percent: 100, Label: fmt.Sprintf("Finished (Day %d / %d)", total, total)}
	}
	day := int(math.Floor(today.Sub(start).Hours()/24)) + 1
	return domain.Progress{
		Day:     day,
		Total:   total,
		Percent: float64(day) * 100 / float64(total),
		Label:   fmt.Sprintf("Day %d / %d", day, total),
	}
}

// MapsURL builds a navigation link for the device named by userAgent:
// Apple Maps on iOS, a geo: URI on Android, Google Maps otherwise.
func MapsURL(lat, lng float64, name, userAgent string) string {
	ua := strings.ToLower(userAgent)
	ll := strconv.FormatFloat(lat, 'f', -1, 64) + "," + strconv.FormatFloat(lng, 'f', -1, 64)
	switch {
	case strings.Contains(ua, "iphone") || strings.Contains(ua, "ipad") || strings.Contains(ua, "ipod"):
		return "maps://maps.apple.com/?q=" + escapeName(name) + "&ll=" + ll
	case strings.Contains(ua, "android"):
		return "geo:" + ll + "?q=" + escapeName(name)
	default:
		return "https://maps.google.com/?q=" + ll
	}
}

func escapeName(s string) string { return strings.ReplaceAll(url.QueryEscape(s), "+", "%20") }
