package app

import (
	"context"
	"encoding/json"

	"github.com/rs/zerolog/log"

	"trip_planner/internal/domain"
)

// Storage keys. One key holds the whole value for its feature.
const (
	KeyMembers      = "tripApp_members"
	KeyLuggage      = "tripApp_luggage"
	KeyReviews      = "tripApp_reviews"
	KeyCheckIns     = "tripApp_checkins"
	KeyReminders    = "tripApp_reminders"
	KeyExchangeRate = "tripApp_exchangeRate"
	KeyDarkMode     = "tripApp_darkMode"
)

// Store serializes values as JSON into a domain.KV. Failures never
// propagate: reads fall back to a default and writes report false.
type Store struct{ kv domain.KV }

func NewStore(kv domain.KV) *Store { return &Store{kv: kv} }

// load decodes key into a fresh T. A missing key, a backend error or a
// value that does not decode as T all yield (def, false).
func load[T any](ctx context.Context, s *Store, key string, def T) (T, bool) {
	b, ok, err := s.kv.Get(ctx, key)
	if err != nil {
		log.Error().Err(err).Str("key", key).Msg("store read failed")
		return def, false
	}
	if !ok || len(b) == 0 {
		return def, false
	}
	var v T
	if err := json.Unmarshal(b, &v); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("stored value unreadable, treating as absent")
		return def, false
	}
	return v, true
}

// save overwrites key with the JSON encoding of v.
func save(ctx context.Context, s *Store, key string, v any) bool {
	b, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Str("key", key).Msg("store encode failed")
		return false
	}
	if err := s.kv.Set(ctx, key, b); err != nil {
		log.Error().Err(err).Str("key", key).Msg("store write failed")
		return false
	}
	return true
}
