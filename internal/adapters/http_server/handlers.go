// internal/adapters/http_server/handlers.go
package httpserver

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"trip_planner/internal/app"
	"trip_planner/internal/domain"
)

const maxImportBytes = 1 << 20

type Handlers struct {
	P   *app.Planner
	Now func() time.Time
}

type problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

func (s *Server) MountHandlers(h *Handlers) {
	if h.Now == nil {
		h.Now = time.Now
	}
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })

	s.mux.Route("/v1/reviews", func(r chi.Router) {
		r.Get("/", h.listReviews)
		r.Post("/", h.submitReview)
		r.Get("/form", h.reviewForm)
		r.Get("/days/{day}", h.reviewsForDay)
		r.Post("/import", h.importReviews)
		r.Get("/export.csv", h.exportReviews)
		r.Get("/summary", h.reviewSummary)
	})
	h.mountTrip(s.mux)
}

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(problem{Type: "about:blank", Title: title, Status: status, Detail: detail}); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

// writeError maps domain errors onto HTTP problems.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrValidation), errors.Is(err, domain.ErrExpired):
		writeProblem(w, http.StatusBadRequest, "Invalid input", err.Error())
	case errors.Is(err, domain.ErrNotFound):
		writeProblem(w, http.StatusNotFound, "Not Found", err.Error())
	case errors.Is(err, domain.ErrNothingToExport):
		writeProblem(w, http.StatusNotFound, "Nothing to export", err.Error())
	case errors.Is(err, domain.ErrDuplicate):
		writeProblem(w, http.StatusConflict, "Conflict", err.Error())
	case errors.Is(err, domain.ErrNothingToImport):
		writeProblem(w, http.StatusUnprocessableEntity, "Nothing to import", err.Error())
	case errors.Is(err, domain.ErrNotConfigured):
		writeProblem(w, http.StatusServiceUnavailable, "Unavailable", err.Error())
	default:
		log.Error().Err(err).Msg("request failed")
		writeProblem(w, http.StatusInternalServerError, "Internal Error", err.Error())
	}
}

// calcETagAndBody marshals once and hashes once, returning both ETag and body.
func calcETagAndBody(v any) (string, []byte) {
	body, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal object for ETag/body")
		return "", nil
	}
	sum := sha1.Sum(body)
	etag := `W/"` + hex.EncodeToString(sum[:]) + `"`
	return etag, body
}

// writeJSON answers GETs with an ETag (and 304 on a match); other methods
// get a plain JSON body with status.
func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	etag, body := calcETagAndBody(v)
	if r.Method == http.MethodGet && etag != "" {
		if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
			w.Header().Set("ETag", etag)
			w.WriteHeader(http.StatusNotModified)
			return
		}
		w.Header().Set("ETag", etag)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Msg("failed to write JSON body")
	}
}

func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, 1<<16))
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("%w: body must be JSON: %v", domain.ErrValidation, err)
	}
	return nil
}

func intParam(r *http.Request, name string) (int, error) {
	n, err := strconv.Atoi(chi.URLParam(r, name))
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be a number", domain.ErrValidation, name)
	}
	return n, nil
}

// ---- reviews ----

func (h *Handlers) listReviews(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, h.P.Reviews.LoadAll(r.Context()))
}

func (h *Handlers) submitReview(w http.ResponseWriter, r *http.Request) {
	var in app.Submission
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, err)
		return
	}
	view, err := h.P.Reviews.Submit(r.Context(), in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, view)
}

type dayOption struct {
	Value int    `json:"value"`
	Label string `json:"label"`
}

type reviewForm struct {
	Days    []dayOption `json:"days"`
	Members []string    `json:"members"`
	Ratings []int       `json:"ratings"`
}

// reviewForm lists the choices for the day and member selectors.
func (h *Handlers) reviewForm(w http.ResponseWriter, r *http.Request) {
	total := h.P.Progress(h.Now()).Total
	f := reviewForm{Members: h.P.Roster.Names(r.Context())}
	for d := 1; d <= total; d++ {
		f.Days = append(f.Days, dayOption{Value: d, Label: fmt.Sprintf("Day %02d", d)})
	}
	for s := domain.MinRating; s <= domain.MaxRating; s++ {
		f.Ratings = append(f.Ratings, s)
	}
	writeJSON(w, r, http.StatusOK, f)
}

func (h *Handlers) reviewsForDay(w http.ResponseWriter, r *http.Request) {
	day, err := intParam(r, "day")
	if err != nil || day <= 0 {
		writeProblem(w, http.StatusBadRequest, "Invalid day", "day must be a positive integer")
		return
	}
	writeJSON(w, r, http.StatusOK, h.P.Reviews.ForDay(r.Context(), day))
}

func (h *Handlers) importReviews(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxImportBytes+1))
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid body", err.Error())
		return
	}
	if len(body) > maxImportBytes {
		writeProblem(w, http.StatusRequestEntityTooLarge, "Too large", "import text is limited to 1 MiB")
		return
	}
	day := 1
	if ds := r.URL.Query().Get("day"); ds != "" {
		if day, err = strconv.Atoi(ds); err != nil || day <= 0 {
			writeProblem(w, http.StatusBadRequest, "Invalid day", "day must be a positive integer")
			return
		}
	}
	res, err := h.P.Reviews.Import(r.Context(), string(body), day)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, r, http.StatusOK, res)
}

func (h *Handlers) exportReviews(w http.ResponseWriter, r *http.Request) {
	csv, err := h.P.Reviews.ExportCSV(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", app.ExportMIME)
	w.Header().Set("Content-Disposition", `attachment; filename="`+app.ExportFilename+`"`)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(csv); err != nil {
		log.Error().Err(err).Msg("failed to write CSV export")
	}
}

func (h *Handlers) reviewSummary(w http.ResponseWriter, r *http.Request) {
	text, err := h.P.Reviews.Summary(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, text)
}
