package domain

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"
)

// TimestampLayout is the stored and exported timestamp form: UTC with
// exactly three fractional digits.
const TimestampLayout = "2006-01-02T15:04:05.000Z"

// Review is one rating submitted by a named member for one itinerary day.
// The stored array may be written by other clients, so decoding is lenient
// field by field: numbers may arrive as strings and an unreadable
// timestamp decodes as the zero time.
type Review struct {
	Day       Day
	Member    string // display name, not a roster reference
	Rating    int
	Comment   string
	Timestamp time.Time
}

type reviewWire struct {
	Day       Day    `json:"day"`
	Member    string `json:"member"`
	Rating    int    `json:"rating"`
	Comment   string `json:"comment"`
	Timestamp string `json:"timestamp"`
}

func (r Review) wire() reviewWire {
	return reviewWire{
		Day:       r.Day,
		Member:    r.Member,
		Rating:    r.Rating,
		Comment:   r.Comment,
		Timestamp: r.Timestamp.UTC().Format(TimestampLayout),
	}
}

func (r Review) MarshalJSON() ([]byte, error) { return json.Marshal(r.wire()) }

func (r *Review) UnmarshalJSON(b []byte) error {
	var w struct {
		Day       Day             `json:"day"`
		Member    json.RawMessage `json:"member"`
		Rating    json.RawMessage `json:"rating"`
		Comment   json.RawMessage `json:"comment"`
		Timestamp json.RawMessage `json:"timestamp"`
	}
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}
	*r = Review{
		Day:       w.Day,
		Member:    looseString(w.Member),
		Rating:    looseInt(w.Rating),
		Comment:   looseString(w.Comment),
		Timestamp: looseTime(w.Timestamp),
	}
	return nil
}

// Day is an itinerary day index. Stored values may be JSON numbers or
// numeric strings; both decode to the same Day.
type Day int

func (d *Day) UnmarshalJSON(b []byte) error {
	// not a number: never equal to any requested day
	*d = Day(looseInt(b))
	return nil
}

// looseInt reads a JSON number or numeric string. Anything else, including
// a non-integral number, is 0.
func looseInt(b []byte) int {
	b = bytes.TrimSpace(b)
	raw := string(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return 0
		}
		raw = strings.TrimSpace(s)
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || f != math.Trunc(f) || math.Abs(f) > math.MaxInt32 {
		return 0
	}
	return int(f)
}

// looseString keeps strings and the literal text of numbers and booleans.
func looseString(b []byte) string {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		return ""
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return ""
		}
		return s
	}
	if b[0] == '{' || b[0] == '[' {
		return ""
	}
	return string(b)
}

// looseTime accepts RFC 3339 text or epoch milliseconds.
func looseTime(b []byte) time.Time {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err == nil {
			if t, err := time.Parse(time.RFC3339Nano, strings.TrimSpace(s)); err == nil {
				return t.UTC()
			}
		}
		return time.Time{}
	}
	if ms, err := strconv.ParseInt(string(b), 10, 64); err == nil {
		return time.UnixMilli(ms).UTC()
	}
	return time.Time{}
}

const (
	MinRating = 1
	MaxRating = 5
)

// ValidRating reports whether r is inside the 1..5 star range.
func ValidRating(r int) bool { return r >= MinRating && r <= MaxRating }

// DayView is the aggregated listing for one itinerary day.
type DayView struct {
	Day         int          `json:"day"`
	Count       int          `json:"count"`
	Average     float64      `json:"average"`
	AverageText string       `json:"average_text"`
	Empty       bool         `json:"empty"`
	Summary     string       `json:"summary"`
	Records     []ReviewLine `json:"records"`
}

// ReviewLine is a review prepared for display.
type ReviewLine struct {
	Review
	Stars string `json:"stars"`
}

// ReviewLine needs its own codec: the promoted Review methods would
// otherwise drop Stars.
func (l ReviewLine) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		reviewWire
		Stars string `json:"stars"`
	}{l.Review.wire(), l.Stars})
}

func (l *ReviewLine) UnmarshalJSON(b []byte) error {
	if err := l.Review.UnmarshalJSON(b); err != nil {
		return err
	}
	var s struct {
		Stars string `json:"stars"`
	}
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	l.Stars = s.Stars
	return nil
}
