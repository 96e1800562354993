package app

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"trip_planner/internal/adapters/observability"
	"trip_planner/internal/domain"
)

type ReviewService struct {
	store *Store
	now   func() time.Time
	mu    sync.Mutex // serializes read-modify-write of the review key
}

func NewReviewService(s *Store, now func() time.Time) *ReviewService {
	if now == nil {
		now = time.Now
	}
	return &ReviewService{store: s, now: now}
}

// LoadAll returns every stored review in insertion order. Absent or
// unreadable data is an empty list; an element that is not a review
// object is dropped on its own.
func (s *ReviewService) LoadAll(ctx context.Context) []domain.Review {
	raws, _ := load(ctx, s.store, KeyReviews, []json.RawMessage{})
	rs := make([]domain.Review, 0, len(raws))
	for i, raw := range raws {
		if len(raw) == 0 || string(raw) == "null" {
			continue
		}
		var r domain.Review
		if err := json.Unmarshal(raw, &r); err != nil {
			log.Warn().Err(err).Int("index", i).Msg("stored review unreadable, skipping")
			continue
		}
		rs = append(rs, r)
	}
	return rs
}

// SaveAll overwrites the stored sequence.
func (s *ReviewService) SaveAll(ctx context.Context, rs []domain.Review) bool {
	return save(ctx, s.store, KeyReviews, rs)
}

type Submission struct {
	Day     int    `json:"day"`
	Member  string `json:"member"`
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

func (s *ReviewService) Submit(ctx context.Context, in Submission) (domain.DayView, error) {
	member := strings.TrimSpace(in.Member)
	if in.Day <= 0 || member == "" || in.Rating <= 0 {
		return domain.DayView{}, fmt.Errorf("%w: pick a day, a member and a rating", domain.ErrValidation)
	}
	if in.Rating > domain.MaxRating {
		return domain.DayView{}, fmt.Errorf("%w: rating must be between %d and %d", domain.ErrValidation, domain.MinRating, domain.MaxRating)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rs := append(s.LoadAll(ctx), domain.Review{
		Day:       domain.Day(in.Day),
		Member:    member,
		Rating:    in.Rating,
		Comment:   strings.TrimSpace(in.Comment),
		Timestamp: stamp(s.now()),
	})
	if !s.SaveAll(ctx, rs) {
		return domain.DayView{}, domain.ErrPersist
	}
	log.Info().Int("day", in.Day).Str("member", member).Int("rating", in.Rating).Msg("review saved")
	return Aggregate(rs, in.Day), nil
}

func (s *ReviewService) ForDay(ctx context.Context, day int) domain.DayView {
	return Aggregate(s.LoadAll(ctx), day)
}

// Aggregate filters rs to one day and computes its average rating.
func Aggregate(rs []domain.Review, day int) domain.DayView {
	v := domain.DayView{Day: day, Records: []domain.ReviewLine{}}
	sum := 0
	for _, r := range rs {
		if int(r.Day) != day {
			continue
		}
		sum += r.Rating
		v.Records = append(v.Records, domain.ReviewLine{Review: r, Stars: Stars(r.Rating)})
	}
	v.Count = len(v.Records)
	if v.Count == 0 {
		v.Empty = true
		v.AverageText = "0.0"
		v.Summary = "No reviews yet"
		return v
	}
	avg := roundTenths(float64(sum) / float64(v.Count))
	v.Average = avg.InexactFloat64()
	v.AverageText = avg.StringFixed(1)
	noun := "reviews"
	if v.Count == 1 {
		noun = "review"
	}
	v.Summary = fmt.Sprintf("Average rating: %s / 5 (%d %s)", v.AverageText, v.Count, noun)
	return v
}

// roundTenths rounds the exact binary value of x to one decimal, halves
// away from zero. A mean like 87/20 is stored as 4.34999... and so gives
// 4.3, the same digits a browser's toFixed(1) shows.
func roundTenths(x float64) decimal.Decimal {
	exact, err := decimal.NewFromString(strconv.FormatFloat(x, 'f', 64, 64))
	if err != nil {
		return decimal.NewFromFloat(x).Round(1)
	}
	return exact.Round(1)
}

// stamp is the stored form of a creation time: UTC, milliseconds.
func stamp(t time.Time) time.Time { return t.UTC().Truncate(time.Millisecond) }

type ImportResult struct {
	Imported int             `json:"imported"`
	Counts   map[Outcome]int `json:"counts"`
	Lines    []LineResult    `json:"lines"`
	View     domain.DayView  `json:"view"`
}

// Import parses text and appends every accepted record to the store in a
// single write. selectedDay picks the day view returned with the result.
func (s *ReviewService) Import(ctx context.Context, text string, selectedDay int) (ImportResult, error) {
	rep := ParseText(text, s.now())
	for o, n := range rep.Counts {
		observability.ObserveImport(string(o), n)
	}
	res := ImportResult{Counts: rep.Counts, Lines: rep.Results}

	all, err := s.Append(ctx, rep.Accepted)
	if err != nil {
		return res, err
	}
	if selectedDay <= 0 {
		selectedDay = 1
	}
	res.Imported = len(rep.Accepted)
	res.View = Aggregate(all, selectedDay)
	log.Info().Int("imported", res.Imported).Int("lines", len(rep.Results)).Msg("reviews imported")
	return res, nil
}

// Append adds recs after the existing reviews without deduplication and
// returns the merged sequence. Nothing is written when recs is empty.
func (s *ReviewService) Append(ctx context.Context, recs []domain.Review) ([]domain.Review, error) {
	if len(recs) == 0 {
		return nil, domain.ErrNothingToImport
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	merged := append(s.LoadAll(ctx), recs...)
	if !s.SaveAll(ctx, merged) {
		return nil, domain.ErrPersist
	}
	return merged, nil
}

func (s *ReviewService) ExportCSV(ctx context.Context) ([]byte, error) {
	rs := s.LoadAll(ctx)
	if len(rs) == 0 {
		return nil, domain.ErrNothingToExport
	}
	return []byte(FormatCSV(rs)), nil
}

func (s *ReviewService) Summary(ctx context.Context) (string, error) {
	rs := s.LoadAll(ctx)
	if len(rs) == 0 {
		return "", domain.ErrNothingToExport
	}
	return FormatSummary(rs), nil
}

// CopySummary writes the summary to cb and returns how many reviews it
// covered.
func (s *ReviewService) CopySummary(ctx context.Context, cb domain.Clipboard) (int, error) {
	rs := s.LoadAll(ctx)
	if len(rs) == 0 {
		return 0, domain.ErrNothingToExport
	}
	if err := cb.WriteAll(FormatSummary(rs)); err != nil {
		return 0, fmt.Errorf("clipboard: %w", err)
	}
	return len(rs), nil
}
