package app_test

import (
	"context"
	"errors"
	"sync"
	"time"

	"trip_planner/internal/domain"
)

// ---- fakes ----

type fakeKV struct {
	mu      sync.Mutex
	store   map[string][]byte
	sets    int
	failSet bool
	failGet bool
}

func (f *fakeKV) Get(ctx context.Context, key string) ([]byte, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failGet {
		return nil, false, errors.New("backend down")
	}
	v, ok := f.store[key]
	return v, ok, nil
}

func (f *fakeKV) Set(ctx context.Context, key string, value []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failSet {
		return errors.New("quota exceeded")
	}
	if f.store == nil {
		f.store = map[string][]byte{}
	}
	f.store[key] = append([]byte(nil), value...)
	f.sets++
	return nil
}

func (f *fakeKV) raw(key string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return string(f.store[key])
}

type fakeClipboard struct {
	text string
	err  error
}

func (c *fakeClipboard) WriteAll(text string) error {
	if c.err != nil {
		return c.err
	}
	c.text = text
	return nil
}

type fakeRates struct {
	payload map[string]any
	err     error
	base    string
	quote   string
}

func (r *fakeRates) GetRate(ctx context.Context, base, quote string) (map[string]any, error) {
	r.base, r.quote = base, quote
	return r.payload, r.err
}

type chanNotifier chan domain.Reminder

func (c chanNotifier) Notify(r domain.Reminder) { c <- r }

func fixedClock(t time.Time) func() time.Time { return func() time.Time { return t } }

var t0 = time.Date(2026, time.January, 25, 9, 30, 0, 0, time.UTC)
