// Package service contains the business logic for the flight-compare API.
// Services validate inputs, call the catalog through narrow interfaces, and
// hand raw records to the catalog package for normalization.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/skyhopper/flight-compare/backend/internal/catalog"
	"github.com/skyhopper/flight-compare/backend/internal/domain"
)

// FlightCatalog is the part of the catalog client used for flights.
type FlightCatalog interface {
	SearchProducts(ctx context.Context, query string) ([]domain.CatalogProduct, error)
	ProductByID(ctx context.Context, id string) (domain.CatalogProduct, error)
}

// EnquiryConfig configures the messaging deep link.
type EnquiryConfig struct {
	ContactNumber string
	Host          string
}

// FlightService searches the catalog for flights and builds booking enquiries.
type FlightService struct {
	catalog FlightCatalog
	enquiry EnquiryConfig
	now     func() time.Time
	log     *slog.Logger
}

// NewFlightService constructs a FlightService backed by the provided catalog.
func NewFlightService(c FlightCatalog, enquiry EnquiryConfig, logger *slog.Logger) *FlightService {
	if enquiry.Host == "" {
		enquiry.Host = "wa.me"
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &FlightService{catalog: c, enquiry: enquiry, now: time.Now, log: logger}
}

// WithClock replaces the clock used to decide what "today" is.
func (s *FlightService) WithClock(now func() time.Time) *FlightService {
	s.now = now
	return s
}

// Validate checks a submitted search form and fills defaults.
//   - From and To are required (whitespace-only is rejected).
//   - Date is required and must not be before today's calendar date.
func (s *FlightService) Validate(p domain.SearchParams) (domain.SearchParams, error) {
	p.From = strings.TrimSpace(p.From)
	p.To = strings.TrimSpace(p.To)
	p.Passengers = strings.TrimSpace(p.Passengers)

	if p.From == "" {
		return p, fmt.Errorf("%w: from is required", domain.ErrValidation)
	}
	if p.To == "" {
		return p, fmt.Errorf("%w: to is required", domain.ErrValidation)
	}
	if p.Date.IsZero() {
		return p, fmt.Errorf("%w: date is required", domain.ErrValidation)
	}
	if civilDate(p.Date).Before(civilDate(s.now())) {
		return p, fmt.Errorf("%w: date must not be in the past", domain.ErrValidation)
	}
	if p.Passengers == "" {
		p.Passengers = domain.DefaultPassengers
	}
	return p, nil
}

// Search validates p and returns the flights for its route. Invalid input
// is rejected before the catalog is called.
func (s *FlightService) Search(ctx context.Context, p domain.SearchParams) ([]domain.Flight, error) {
	p, err := s.Validate(p)
	if err != nil {
		return nil, err
	}
	products, err := s.catalog.SearchProducts(ctx, catalog.BuildRouteQuery(p.From, p.To))
	if err != nil {
		return nil, fmt.Errorf("service.FlightService.Search: %w", err)
	}
	flights := catalog.NormalizeFlights(products)
	s.log.DebugContext(ctx, "flight search",
		slog.String("from", p.From),
		slog.String("to", p.To),
		slog.Int("results", len(flights)),
	)
	return flights, nil
}

// GetByID returns a single flight. Returns domain.ErrNotFound for unknown ids.
func (s *FlightService) GetByID(ctx context.Context, id string) (domain.Flight, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return domain.Flight{}, fmt.Errorf("%w: flight id is required", domain.ErrValidation)
	}
	p, err := s.catalog.ProductByID(ctx, id)
	if err != nil {
		return domain.Flight{}, fmt.Errorf("service.FlightService.GetByID: %w", err)
	}
	return catalog.NormalizeFlight(p), nil
}

// Enquiry fetches a flight and builds its booking deep link. from and to
// default to the flight's own airports.
func (s *FlightService) Enquiry(ctx context.Context, id, from, to string) (domain.Enquiry, error) {
	if s.enquiry.ContactNumber == "" {
		return domain.Enquiry{}, fmt.Errorf("service.FlightService.Enquiry: contact number not configured: %w", domain.ErrFeatureDisabled)
	}
	f, err := s.GetByID(ctx, id)
	if err != nil {
		return domain.Enquiry{}, fmt.Errorf("service.FlightService.Enquiry: %w", err)
	}
	return BuildEnquiry(s.enquiry, f, from, to), nil
}

// civilDate drops the clock time, keeping the calendar date as seen in t's
// own location.
func civilDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
