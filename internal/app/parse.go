package app

import (
	"encoding/csv"
	"errors"
	"io"
	"strconv"
	"strings"
	"time"

	"trip_planner/internal/domain"
)

// Outcome is what the bulk importer decided about one input line.
type Outcome string

const (
	Accepted                  Outcome = "accepted"
	SkippedEmpty              Outcome = "empty"
	SkippedJSONLike           Outcome = "json_like"
	SkippedHeader             Outcome = "header"
	SkippedInsufficientFields Outcome = "insufficient_fields"
	SkippedInvalidDay         Outcome = "invalid_day"
	SkippedMissingMember      Outcome = "missing_member"
	SkippedInvalidRating      Outcome = "invalid_rating"
)

// LineResult is the outcome for a single input line. Review is set only
// when Outcome is Accepted.
type LineResult struct {
	Line    int            `json:"line"` // 1-based
	Text    string         `json:"text"`
	Outcome Outcome        `json:"outcome"`
	Review  *domain.Review `json:"review,omitempty"`
}

type ImportReport struct {
	Results  []LineResult    `json:"results"`
	Accepted []domain.Review `json:"-"`
	Counts   map[Outcome]int `json:"counts"`
}

func (r *ImportReport) add(res LineResult) {
	r.Results = append(r.Results, res)
	r.Counts[res.Outcome]++
	if res.Review != nil {
		r.Accepted = append(r.Accepted, *res.Review)
	}
}

// ParseLine applies the lenient line rules:
//
//	day,member,rating[,comment...]
//
// Day and rating keep only their digits; commas after the rating belong to
// the comment. The timestamp is always now.
func ParseLine(line string, now time.Time) LineResult {
	res := LineResult{Text: line}
	t := strings.TrimSpace(line)
	switch {
	case t == "":
		res.Outcome = SkippedEmpty
		return res
	case strings.HasPrefix(t, "[") || strings.HasPrefix(t, "{"):
		res.Outcome = SkippedJSONLike
		return res
	}

	parts := strings.Split(t, ",")
	if len(parts) < 3 {
		res.Outcome = SkippedInsufficientFields
		return res
	}
	comment := strings.TrimSpace(strings.Join(parts[3:], ","))
	comment = strings.TrimSuffix(strings.TrimPrefix(comment, `"`), `"`)
	res.Outcome, res.Review = buildReview(parts[0], parts[1], parts[2], comment, now)
	return res
}

func buildReview(dayField, memberField, ratingField, comment string, now time.Time) (Outcome, *domain.Review) {
	day := digitsInt(dayField)
	if day <= 0 {
		return SkippedInvalidDay, nil
	}
	member := strings.TrimSpace(memberField)
	if member == "" {
		return SkippedMissingMember, nil
	}
	rating := digitsInt(ratingField)
	if !domain.ValidRating(rating) {
		return SkippedInvalidRating, nil
	}
	return Accepted, &domain.Review{
		Day:       domain.Day(day),
		Member:    member,
		Rating:    rating,
		Comment:   comment,
		Timestamp: stamp(now),
	}
}

// digitsInt drops every non-digit and parses the rest. Anything that does
// not leave a parseable number is 0.
func digitsInt(s string) int {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	n, err := strconv.Atoi(b.String())
	if err != nil {
		return 0
	}
	return n
}

// ParseText runs every line of text through the importer independently.
// When the first non-empty line is the CSV export header, that line is
// skipped and every later line that is a complete quoted row is read as
// CSV so quoted commas and quotes survive. Any other line, and any line
// that fails to parse as CSV, goes through ParseLine.
func ParseText(text string, now time.Time) ImportReport {
	rep := ImportReport{Counts: map[Outcome]int{}}
	if strings.TrimSpace(text) == "" {
		return rep
	}
	exportMode := false
	seen := false
	for i, l := range strings.Split(text, "\n") {
		var res LineResult
		switch {
		case !seen && strings.TrimSpace(l) != "":
			seen = true
			if isExportHeader(l) {
				exportMode = true
				res = LineResult{Text: l, Outcome: SkippedHeader}
				break
			}
			res = ParseLine(l, now)
		case exportMode:
			var ok bool
			if res, ok = parseExportRow(l, now); !ok {
				res = ParseLine(l, now)
			}
		default:
			res = ParseLine(l, now)
		}
		res.Line = i + 1
		rep.add(res)
	}
	return rep
}

func isExportHeader(line string) bool {
	h := strings.ToLower(strings.NewReplacer(`"`, "", " ", "", "\t", "", "\r", "").Replace(line))
	return strings.HasPrefix(h, strings.Join(exportHeader[:3], ","))
}

// parseExportRow reads one physical line as a strict CSV record. It only
// claims lines that start with a quote and parse cleanly with at least
// three fields.
func parseExportRow(line string, now time.Time) (LineResult, bool) {
	t := strings.TrimSpace(line)
	if !strings.HasPrefix(t, `"`) {
		return LineResult{}, false
	}
	cr := csv.NewReader(strings.NewReader(t))
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	rec, err := cr.Read()
	if err != nil || len(rec) < 3 {
		return LineResult{}, false
	}
	if _, err := cr.Read(); !errors.Is(err, io.EOF) {
		return LineResult{}, false
	}
	comment := ""
	if len(rec) > 3 {
		comment = strings.TrimSpace(rec[3])
	}
	res := LineResult{Text: line}
	res.Outcome, res.Review = buildReview(rec[0], rec[1], rec[2], comment, now)
	return res, true
}
