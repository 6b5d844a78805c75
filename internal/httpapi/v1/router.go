// Package v1 wires the HTTP surface of the reservations service.
// It keeps handlers thin, delegating the booking rules to the service layer.
package v1

import (
	"log/slog"
	"net/http"

	chi "github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/tablebook/reservations/internal/service/booking"
)

// Server wires handlers and middleware using Chi.
type Server struct {
	svc  booking.Service
	repo booking.Repo
	log  *slog.Logger
	rt   *chi.Mux
}

// New constructs the HTTP server with routes and middleware. The logger is
// used by request/response logging and panic recovery; corsOrigins is the
// allow-list for browser clients.
func New(repo booking.Repo, writer booking.Writer, corsOrigins []string, logger *slog.Logger) *Server {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(requestLogger(logger))
	r.Use(recoverer(logger))
	r.Use(metricsMiddleware)
	r.Use(corsMiddleware(corsOrigins))

	s := &Server{
		svc:  booking.New(repo, writer),
		repo: repo,
		log:  logger,
		rt:   r,
	}
	s.routes()
	return s
}

// Handler exposes the configured http.Handler.
func (s *Server) Handler() http.Handler { return s.rt }

// routes declares the public HTTP API endpoints and attaches any per-route
// middleware.
func (s *Server) routes() {
	s.rt.Get("/get-reservation-via-token", s.getReservationViaToken)
	s.rt.With(s.decodeReservation()).Post("/add-reservation", s.addReservation)
	s.rt.With(s.decodeReservation()).Put("/update-reservation/{id}", s.updateReservation)
	s.rt.Delete("/delete-reservation/{id}", s.deleteReservation)
	s.rt.Get("/reservations", s.listReservations)
	// Health and metrics (unversioned)
	s.rt.Get("/healthz", s.healthz)
	s.rt.Get("/readyz", s.readyz)
	s.rt.Handle("/metrics", metricsHandler())
}
