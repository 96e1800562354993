package httpserver

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"trip_planner/internal/app"
	"trip_planner/internal/domain"
)

func (h *Handlers) mountTrip(m chi.Router) {
	m.Get("/v1/members", h.listMembers)
	m.Post("/v1/members", h.addMember)
	m.Delete("/v1/members/{index}", h.removeMember)

	m.Get("/v1/luggage", h.listLuggage)
	m.Post("/v1/luggage", h.addLuggage)
	m.Delete("/v1/luggage/{index}", h.removeLuggage)
	m.Put("/v1/luggage/{index}/packed", h.setPacked)

	m.Get("/v1/checkins", h.listCheckIns)
	m.Post("/v1/checkins", h.checkIn)
	m.Delete("/v1/checkins/{index}", h.removeCheckIn)

	m.Get("/v1/reminders", h.listReminders)
	m.Post("/v1/reminders", h.addReminder)

	m.Get("/v1/currency", h.getRate)
	m.Put("/v1/currency/rate", h.setRate)
	m.Get("/v1/currency/convert", h.convert)
	m.Post("/v1/currency/refresh", h.refreshRate)

	m.Get("/v1/prefs", h.getPrefs)
	m.Post("/v1/prefs/dark-mode", h.toggleDarkMode)

	m.Get("/v1/progress", h.progress)
	m.Get("/v1/navigate", h.navigate)
}

// ---- members ----

func (h *Handlers) listMembers(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, h.P.Roster.List(r.Context()))
}

func (h *Handlers) addMember(w http.ResponseWriter, r *http.Request) {
	var m domain.Member
	if err := decodeJSON(r, &m); err != nil {
		writeError(w, err)
		return
	}
	ms, err := h.P.Roster.Add(r.Context(), m)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, ms)
}

func (h *Handlers) removeMember(w http.ResponseWriter, r *http.Request) {
	i, err := intParam(r, "index")
	if err != nil {
		writeError(w, err)
		return
	}
	ms, err := h.P.Roster.Remove(r.Context(), i)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, r, http.StatusOK, ms)
}

// ---- luggage ----

func (h *Handlers) listLuggage(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, h.P.Luggage.List(r.Context()))
}

func (h *Handlers) addLuggage(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Name string `json:"name"`
	}
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, err)
		return
	}
	c, err := h.P.Luggage.Add(r.Context(), in.Name)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, c)
}

func (h *Handlers) removeLuggage(w http.ResponseWriter, r *http.Request) {
	i, err := intParam(r, "index")
	if err != nil {
		writeError(w, err)
		return
	}
	c, err := h.P.Luggage.Remove(r.Context(), i)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, r, http.StatusOK, c)
}

func (h *Handlers) setPacked(w http.ResponseWriter, r *http.Request) {
	i, err := intParam(r, "index")
	if err != nil {
		writeError(w, err)
		return
	}
	var in struct {
		Packed bool `json:"packed"`
	}
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, err)
		return
	}
	c, err := h.P.Luggage.SetPacked(r.Context(), i, in.Packed)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, r, http.StatusOK, c)
}

// ---- check-ins ----

func (h *Handlers) listCheckIns(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, h.P.CheckIns.List(r.Context()))
}

func (h *Handlers) checkIn(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Spot string `json:"spotName"`
		Day  int    `json:"day"`
	}
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, err)
		return
	}
	c, err := h.P.CheckIns.CheckIn(r.Context(), in.Spot, in.Day)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, c)
}

func (h *Handlers) removeCheckIn(w http.ResponseWriter, r *http.Request) {
	i, err := intParam(r, "index")
	if err != nil {
		writeError(w, err)
		return
	}
	cs, err := h.P.CheckIns.Remove(r.Context(), i)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, r, http.StatusOK, cs)
}

// ---- reminders ----

func (h *Handlers) listReminders(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, h.P.Reminders.List(r.Context()))
}

func (h *Handlers) addReminder(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Title string    `json:"title"`
		At    time.Time `json:"targetTime"`
	}
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, err)
		return
	}
	rem, err := h.P.Reminders.Add(r.Context(), in.Title, in.At)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, rem)
}

// ---- currency ----

func (h *Handlers) getRate(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, h.P.Currency.Rate(r.Context()))
}

func (h *Handlers) setRate(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Rate float64 `json:"rate"`
	}
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, err)
		return
	}
	info, err := h.P.Currency.SetRate(r.Context(), in.Rate)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, r, http.StatusOK, info)
}

func (h *Handlers) convert(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	c, err := h.P.Currency.Convert(r.Context(), q.Get("amount"), q.Get("from"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, r, http.StatusOK, c)
}

func (h *Handlers) refreshRate(w http.ResponseWriter, r *http.Request) {
	info, err := h.P.Currency.Refresh(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, r, http.StatusOK, info)
}

// ---- prefs / progress / navigation ----

func (h *Handlers) getPrefs(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, h.P.Prefs())
}

func (h *Handlers) toggleDarkMode(w http.ResponseWriter, r *http.Request) {
	p, err := h.P.ToggleDarkMode(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, r, http.StatusOK, p)
}

func (h *Handlers) progress(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, h.P.Progress(h.Now()))
}

func (h *Handlers) navigate(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	lat, err1 := strconv.ParseFloat(q.Get("lat"), 64)
	lng, err2 := strconv.ParseFloat(q.Get("lng"), 64)
	if err1 != nil || err2 != nil {
		writeError(w, fmt.Errorf("%w: lat and lng must be numbers", domain.ErrValidation))
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]string{
		"url": app.MapsURL(lat, lng, q.Get("name"), r.UserAgent()),
	})
}
