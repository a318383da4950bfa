// Package handler implements the HTTP handlers for the flight-compare API.
// All handlers are methods on Server. Methods are split into domain-specific
// files (health.go, flight.go, session.go, etc.) but share the same Server
// struct so they can reach its dependencies.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/skyhopper/flight-compare/backend/internal/domain"
	"github.com/skyhopper/flight-compare/backend/internal/service"
	"github.com/skyhopper/flight-compare/backend/internal/state"
)

// FlightServicer is what the stateless flight endpoints depend on.
// Implemented by service.FlightService.
type FlightServicer interface {
	Search(ctx context.Context, p domain.SearchParams) ([]domain.Flight, error)
	GetByID(ctx context.Context, id string) (domain.Flight, error)
	Enquiry(ctx context.Context, id, from, to string) (domain.Enquiry, error)
}

// DestinationServicer lists popular destinations. Implemented by
// service.DestinationService.
type DestinationServicer interface {
	Popular(ctx context.Context) ([]domain.Destination, error)
}

// AirportServicer returns the airport reference lists. Implemented by
// service.AirportService.
type AirportServicer interface {
	Get(ctx context.Context) (domain.AirportData, error)
}

// ContactServicer handles the contact form. Implemented by
// service.ContactService.
type ContactServicer interface {
	Submit(ctx context.Context, req domain.ContactRequest, remoteIP string) (domain.ContactResult, error)
}

// SessionServicer drives per-visitor state. Implemented by
// service.SessionService.
type SessionServicer interface {
	Create() (uuid.UUID, state.Snapshot)
	Snapshot(id uuid.UUID) (state.Snapshot, error)
	Search(ctx context.Context, id uuid.UUID, p domain.SearchParams) (state.Snapshot, error)
	QuickSearch(ctx context.Context, id uuid.UUID, destinationID string) (state.Snapshot, error)
	Swap(id uuid.UUID) (state.Snapshot, error)
	ReturnSearch(ctx context.Context, id uuid.UUID) (state.Snapshot, error)
	Results(id uuid.UUID, stops service.StopsFilter, key service.SortKey) ([]domain.Flight, error)
	SelectFlight(ctx context.Context, id uuid.UUID, flightID string) (state.Snapshot, error)
	LoadAirports(ctx context.Context, id uuid.UUID) (state.Snapshot, error)
	LoadDestinations(ctx context.Context, id uuid.UUID) (state.Snapshot, error)
	Pickers(id uuid.UUID) (domain.PickerOptions, error)
}

// SiteConfig is the public configuration the single-page site reads on load.
type SiteConfig struct {
	ContactNumber  string   `json:"contactNumber"`
	BookingEmail   string   `json:"bookingEmail"`
	AppURL         string   `json:"appUrl"`
	CaptchaSiteKey string   `json:"captchaSiteKey"`
	Features       Features `json:"features"`
}

// Features reports which optional features are configured.
type Features struct {
	Catalog     bool `json:"catalog"`
	Enquiry     bool `json:"enquiry"`
	Contact     bool `json:"contact"`
	ContactLog  bool `json:"contactLog"`
	SharedCache bool `json:"sharedCache"`
}

// Server holds the dependencies of every endpoint. Build it with NewServer
// and mount Routes() on the application router.
type Server struct {
	flights      FlightServicer
	destinations DestinationServicer
	airports     AirportServicer
	contact      ContactServicer
	sessions     SessionServicer
	site         SiteConfig
	metrics      http.Handler
	log          *slog.Logger
}

// NewServer constructs the Server with all its dependencies.
func NewServer(flights FlightServicer, destinations DestinationServicer, airports AirportServicer, contact ContactServicer, sessions SessionServicer) *Server {
	return &Server{
		flights:      flights,
		destinations: destinations,
		airports:     airports,
		contact:      contact,
		sessions:     sessions,
		log:          slog.Default(),
	}
}

// WithSiteConfig sets the body served by GET /config.
func (s *Server) WithSiteConfig(c SiteConfig) *Server {
	s.site = c
	return s
}

// WithMetrics mounts h on GET /metrics.
func (s *Server) WithMetrics(h http.Handler) *Server {
	s.metrics = h
	return s
}

// WithLogger replaces the logger used for unexpected errors.
func (s *Server) WithLogger(l *slog.Logger) *Server {
	if l != nil {
		s.log = l
	}
	return s
}

// NewHealthHandler returns a Server for health-check-only use.
func NewHealthHandler() *Server {
	return NewServer(nil, nil, nil, nil, nil)
}

// Routes returns a chi router with every endpoint registered.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/healthz", s.GetHealth)
	r.Get("/openapi.yaml", s.GetOpenAPI)
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics)
	}
	r.Get("/config", s.GetConfig)

	r.Get("/airports", s.GetAirports)
	r.Get("/destinations/popular", s.ListPopularDestinations)

	r.Get("/flights", s.SearchFlights)
	r.Get("/flights/{id}", s.GetFlight)
	r.Get("/flights/{id}/enquiry", s.GetEnquiry)

	r.Post("/contact", s.SubmitContact)

	r.Post("/sessions", s.CreateSession)
	r.Get("/sessions/{sessionID}", s.GetSession)
	r.Post("/sessions/{sessionID}/search", s.SessionSearch)
	r.Post("/sessions/{sessionID}/quick-search", s.SessionQuickSearch)
	r.Post("/sessions/{sessionID}/swap", s.SessionSwap)
	r.Post("/sessions/{sessionID}/return-search", s.SessionReturnSearch)
	r.Get("/sessions/{sessionID}/results", s.SessionResults)
	r.Get("/sessions/{sessionID}/pickers", s.SessionPickers)
	r.Post("/sessions/{sessionID}/airports", s.SessionLoadAirports)
	r.Post("/sessions/{sessionID}/destinations", s.SessionLoadDestinations)
	r.Post("/sessions/{sessionID}/flights/{flightID}", s.SessionSelectFlight)

	return r
}
