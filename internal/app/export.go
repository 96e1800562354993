package app

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"trip_planner/internal/domain"
)

const (
	ExportFilename = "trip-reviews.csv"
	ExportMIME     = "text/csv;charset=utf-8"
)

var exportHeader = [...]string{"day", "member", "rating", "comment", "timestamp"}

var lineBreaks = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ")

// FormatCSV renders reviews with every field quoted and embedded quotes
// doubled. Rows are separated by "\n" with no trailing newline.
func FormatCSV(rs []domain.Review) string {
	rows := make([]string, 0, len(rs)+1)
	rows = append(rows, csvRow(exportHeader[:]...))
	for _, r := range rs {
		rows = append(rows, csvRow(
			strconv.Itoa(int(r.Day)),
			r.Member,
			strconv.Itoa(r.Rating),
			lineBreaks.Replace(r.Comment),
			FormatTimestamp(r.Timestamp),
		))
	}
	return strings.Join(rows, "\n")
}

func csvRow(cells ...string) string {
	out := make([]string, len(cells))
	for i, c := range cells {
		out[i] = `"` + strings.ReplaceAll(c, `"`, `""`) + `"`
	}
	return strings.Join(out, ",")
}

// FormatTimestamp renders t as a UTC ISO-8601 instant with milliseconds.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(domain.TimestampLayout)
}

// FormatSummary renders one "Day<d> | <member> | <rating>/5 | <comment>"
// line per review, in store order.
func FormatSummary(rs []domain.Review) string {
	lines := make([]string, len(rs))
	for i, r := range rs {
		lines[i] = fmt.Sprintf("Day%d | %s | %d/5 | %s", r.Day, r.Member, r.Rating, r.Comment)
	}
	return strings.Join(lines, "\n")
}

// Stars renders a rating as a five-slot star bar.
func Stars(rating int) string {
	n := min(max(rating, 0), domain.MaxRating)
	return strings.Repeat("★", n) + strings.Repeat("☆", domain.MaxRating-n)
}
