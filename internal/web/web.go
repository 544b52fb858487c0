// Package web exposes the computed calendar over HTTP: the ICS feed
// download boundary and the JSON display-data boundary.
package web

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"holidaycal/internal/config"
	"holidaycal/internal/feed"
	appLog "holidaycal/internal/log"
	"holidaycal/internal/model"
	"holidaycal/internal/pipeline"
)

// Server carries the HTTP boundary for the calendar pipeline.
type Server struct {
	cfg    *config.Config
	pipe   *pipeline.Service
	router chi.Router
}

// NewServer constructs a Server with its routes registered.
func NewServer(cfg *config.Config, pipe *pipeline.Service) *Server {
	s := &Server{
		cfg:    cfg,
		pipe:   pipe,
		router: chi.NewRouter(),
	}

	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Recoverer)

	s.router.Get("/health", s.handleHealth)
	s.router.Get("/holidays.ics", s.handleFeed)
	s.router.Get("/api/calendar", s.handleCalendar)

	return s
}

// Handler returns the underlying http.Handler for this server.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

// handleFeed serves the serialized calendar artifact. A pipeline
// failure answers with a plain-text server error instead of crashing
// the serving process.
func (s *Server) handleFeed(w http.ResponseWriter, r *http.Request) {
	events, err := s.pipe.ComputeCalendar(r.Context(), s.cfg.UpstreamURL)
	if err != nil {
		appLog.Error("feed download failed", err)
		http.Error(w, "holiday feed temporarily unavailable", http.StatusInternalServerError)
		return
	}

	body := feed.Serialize(events, s.cfg.CalendarName)

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="holidays.ics"`)
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

// eventDTO is the JSON view of a calendar event.
type eventDTO struct {
	ID              string `json:"id"`
	Title           string `json:"title"`
	Date            string `json:"date"`
	Description     string `json:"description,omitempty"`
	IsDayOff        bool   `json:"is_day_off"`
	IsMakeupWorkday bool   `json:"is_makeup_workday"`
	Category        string `json:"category,omitempty"`
	Origin          string `json:"origin"`
}

// calendarResponse is the display-data payload: the computed event
// list plus year- and month-keyed groupings. On pipeline failure the
// events are empty and Error carries a message, so the page renders a
// banner rather than a partial list.
type calendarResponse struct {
	Events  []eventDTO            `json:"events"`
	ByYear  map[string][]eventDTO `json:"by_year"`
	ByMonth map[string][]eventDTO `json:"by_month"`
	Error   string                `json:"error,omitempty"`
}

func (s *Server) handleCalendar(w http.ResponseWriter, r *http.Request) {
	events, err := s.pipe.ComputeCalendar(r.Context(), s.cfg.UpstreamURL)
	if err != nil {
		appLog.Error("calendar display data failed", err)
		writeJSON(w, http.StatusOK, calendarResponse{
			Events:  []eventDTO{},
			ByYear:  map[string][]eventDTO{},
			ByMonth: map[string][]eventDTO{},
			Error:   "failed to load holiday calendar",
		})
		return
	}

	writeJSON(w, http.StatusOK, buildCalendarResponse(events))
}

// buildCalendarResponse groups events by year (YYYY) and month
// (YYYY-MM) in a single pass over the date prefixes.
func buildCalendarResponse(events []model.CalendarEvent) calendarResponse {
	resp := calendarResponse{
		Events:  make([]eventDTO, 0, len(events)),
		ByYear:  make(map[string][]eventDTO),
		ByMonth: make(map[string][]eventDTO),
	}

	for _, ev := range events {
		if len(ev.Date) < len("2006-01") {
			continue
		}
		dto := eventDTO{
			ID:              ev.ID,
			Title:           ev.Title,
			Date:            ev.Date,
			Description:     ev.Description,
			IsDayOff:        ev.IsDayOff,
			IsMakeupWorkday: ev.IsMakeupWorkday,
			Category:        string(ev.Category),
			Origin:          string(ev.Origin),
		}
		resp.Events = append(resp.Events, dto)

		year := ev.Date[:len("2006")]
		month := ev.Date[:len("2006-01")]
		resp.ByYear[year] = append(resp.ByYear[year], dto)
		resp.ByMonth[month] = append(resp.ByMonth[month], dto)
	}

	return resp
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		appLog.Error("failed to write JSON response", err)
	}
}
