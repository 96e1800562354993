package app

import (
	"context"
	"fmt"
	"math"
	"strings"
	"sync"

	"github.com/Rhymond/go-money"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"trip_planner/internal/domain"
)

// CurrencyService converts between the trip's base and quote currencies.
// The stored rate is quote units per one base unit.
type CurrencyService struct {
	store       *Store
	client      domain.RatesClient // nil disables Refresh
	base, quote string
	def         float64
	mu          sync.Mutex
}

func NewCurrencyService(s *Store, c domain.RatesClient, base, quote string, defaultRate float64) *CurrencyService {
	return &CurrencyService{store: s, client: c, base: base, quote: quote, def: defaultRate}
}

type RateInfo struct {
	Base  string  `json:"base"`
	Quote string  `json:"quote"`
	Rate  float64 `json:"rate"`
}

func (s *CurrencyService) Rate(ctx context.Context) RateInfo {
	r, _ := load(ctx, s.store, KeyExchangeRate, s.def)
	if r <= 0 || math.IsNaN(r) || math.IsInf(r, 0) {
		r = s.def
	}
	return RateInfo{Base: s.base, Quote: s.quote, Rate: r}
}

func (s *CurrencyService) SetRate(ctx context.Context, rate float64) (RateInfo, error) {
	if rate <= 0 || math.IsNaN(rate) || math.IsInf(rate, 0) {
		return RateInfo{}, fmt.Errorf("%w: rate must be a positive number", domain.ErrValidation)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if !save(ctx, s.store, KeyExchangeRate, rate) {
		return RateInfo{}, domain.ErrPersist
	}
	return RateInfo{Base: s.base, Quote: s.quote, Rate: rate}, nil
}

// Convert converts amount from one trip currency into the other. Into the
// quote currency rounds to a whole unit, into the base currency to cents.
// Text that is not a number converts as 0.
func (s *CurrencyService) Convert(ctx context.Context, amount, from string) (domain.Conversion, error) {
	from = strings.ToUpper(strings.TrimSpace(from))
	amt, err := decimal.NewFromString(strings.TrimSpace(amount))
	if err != nil {
		amt = decimal.Zero
	}
	info := s.Rate(ctx)
	rate := decimal.NewFromFloat(info.Rate)

	var out decimal.Decimal
	var to string
	switch from {
	case s.base:
		to = s.quote
		out = amt.Mul(rate).Round(0)
	case s.quote:
		to = s.base
		out = amt.DivRound(rate, 8).Round(2)
	default:
		return domain.Conversion{}, fmt.Errorf("%w: currency must be %s or %s", domain.ErrValidation, s.base, s.quote)
	}
	return domain.Conversion{
		From:      from,
		To:        to,
		Amount:    amt.String(),
		Result:    out.String(),
		Formatted: formatMoney(out, to),
		Rate:      info.Rate,
	}, nil
}

// formatMoney renders v with the currency's symbol and minor-unit digits.
func formatMoney(v decimal.Decimal, code string) string {
	cur := money.New(0, code).Currency()
	minor := v.Shift(int32(cur.Fraction)).Round(0)
	return cur.Formatter().Format(minor.IntPart())
}

// Refresh pulls the current rate from the remote rates API and stores it.
func (s *CurrencyService) Refresh(ctx context.Context) (RateInfo, error) {
	if s.client == nil {
		return RateInfo{}, fmt.Errorf("rates API: %w", domain.ErrNotConfigured)
	}
	payload, err := s.client.GetRate(ctx, s.base, s.quote)
	if err != nil {
		return RateInfo{}, fmt.Errorf("fetch rate: %w", err)
	}
	r := mapRate(payload, s.base, s.quote)
	if r == nil {
		return RateInfo{}, fmt.Errorf("fetch rate: no %s rate in response", s.quote)
	}
	info, err := s.SetRate(ctx, *r)
	if err != nil {
		return RateInfo{}, err
	}
	log.Info().Str("base", s.base).Str("quote", s.quote).Float64("rate", *r).Msg("exchange rate refreshed")
	return info, nil
}
