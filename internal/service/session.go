package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/skyhopper/flight-compare/backend/internal/domain"
	"github.com/skyhopper/flight-compare/backend/internal/state"
)

// HomeAirport is the departure used when a visitor picks a popular destination.
const HomeAirport = "Dubai International Airport (DXB)"

// Reasons recorded on a rejected slice. They are shown to visitors, so the
// underlying error is logged instead.
const (
	reasonFlights      = "Failed to fetch flights"
	reasonFlight       = "Failed to fetch flight"
	reasonDestinations = "Failed to fetch destinations"
	reasonAirports     = "Failed to fetch airport data"
)

// FlightFinder searches and fetches flights. Implemented by FlightService.
type FlightFinder interface {
	Validate(p domain.SearchParams) (domain.SearchParams, error)
	Search(ctx context.Context, p domain.SearchParams) ([]domain.Flight, error)
	GetByID(ctx context.Context, id string) (domain.Flight, error)
}

// DestinationFinder lists popular destinations. Implemented by DestinationService.
type DestinationFinder interface {
	Popular(ctx context.Context) ([]domain.Destination, error)
	ByID(ctx context.Context, id string) (domain.Destination, error)
}

// AirportLoader returns the airport reference lists. Implemented by AirportService.
type AirportLoader interface {
	Get(ctx context.Context) (domain.AirportData, error)
}

// SessionService drives per-visitor state: each operation starts a request
// on the session's store, calls the underlying service outside the lock,
// and resolves the request with its result.
type SessionService struct {
	sessions     *state.Registry
	flights      FlightFinder
	destinations DestinationFinder
	airports     AirportLoader
	now          func() time.Time
	log          *slog.Logger
}

// NewSessionService constructs a SessionService over the registry.
func NewSessionService(reg *state.Registry, f FlightFinder, d DestinationFinder, a AirportLoader, logger *slog.Logger) *SessionService {
	if logger == nil {
		logger = slog.Default()
	}
	return &SessionService{sessions: reg, flights: f, destinations: d, airports: a, now: time.Now, log: logger}
}

// WithClock replaces the clock used for "today" in quick searches.
func (s *SessionService) WithClock(now func() time.Time) *SessionService {
	s.now = now
	return s
}

// Create starts a new session.
func (s *SessionService) Create() (uuid.UUID, state.Snapshot) {
	id, store := s.sessions.Create()
	return id, store.Snapshot()
}

// Snapshot returns the session's current state.
func (s *SessionService) Snapshot(id uuid.UUID) (state.Snapshot, error) {
	store, err := s.sessions.Get(id)
	if err != nil {
		return state.Snapshot{}, fmt.Errorf("service.SessionService.Snapshot: %w", err)
	}
	return store.Snapshot(), nil
}

// Search submits the search form. Invalid input is rejected before the
// store or the catalog is touched.
func (s *SessionService) Search(ctx context.Context, id uuid.UUID, p domain.SearchParams) (state.Snapshot, error) {
	store, err := s.sessions.Get(id)
	if err != nil {
		return state.Snapshot{}, fmt.Errorf("service.SessionService.Search: %w", err)
	}
	if err := s.search(ctx, store, p, store.Direction()); err != nil {
		return store.Snapshot(), fmt.Errorf("service.SessionService.Search: %w", err)
	}
	return store.Snapshot(), nil
}

// QuickSearch searches from HomeAirport to a popular destination for today,
// for one adult, in the outbound direction.
func (s *SessionService) QuickSearch(ctx context.Context, id uuid.UUID, destinationID string) (state.Snapshot, error) {
	store, err := s.sessions.Get(id)
	if err != nil {
		return state.Snapshot{}, fmt.Errorf("service.SessionService.QuickSearch: %w", err)
	}
	dest, err := s.destination(ctx, store, destinationID)
	if err != nil {
		return store.Snapshot(), fmt.Errorf("service.SessionService.QuickSearch: %w", err)
	}

	p := domain.SearchParams{
		From:       HomeAirport,
		To:         dest.AirportFull,
		Date:       s.now(),
		Passengers: domain.DefaultPassengers,
	}
	if err := s.search(ctx, store, p, domain.Outbound); err != nil {
		return store.Snapshot(), fmt.Errorf("service.SessionService.QuickSearch: %w", err)
	}
	return store.Snapshot(), nil
}

// Swap exchanges From and To on the form and flips the direction.
func (s *SessionService) Swap(id uuid.UUID) (state.Snapshot, error) {
	store, err := s.sessions.Get(id)
	if err != nil {
		return state.Snapshot{}, fmt.Errorf("service.SessionService.Swap: %w", err)
	}
	store.Swap()
	return store.Snapshot(), nil
}

// ReturnSearch searches the reverse of the last fulfilled search and flips
// the direction. Returns domain.ErrValidation when there is no prior search
// or the reversed search is invalid, in which case nothing changes.
func (s *SessionService) ReturnSearch(ctx context.Context, id uuid.UUID) (state.Snapshot, error) {
	store, err := s.sessions.Get(id)
	if err != nil {
		return state.Snapshot{}, fmt.Errorf("service.SessionService.ReturnSearch: %w", err)
	}
	last, ok := store.LastSearch()
	if !ok {
		return store.Snapshot(), fmt.Errorf("service.SessionService.ReturnSearch: %w: no previous search", domain.ErrValidation)
	}

	if err := s.search(ctx, store, last.Params.Swapped(), store.Direction().Swap()); err != nil {
		return store.Snapshot(), fmt.Errorf("service.SessionService.ReturnSearch: %w", err)
	}
	return store.Snapshot(), nil
}

// Results filters and sorts the flights of the last fulfilled search.
// A session without one yields an empty list.
func (s *SessionService) Results(id uuid.UUID, stops StopsFilter, key SortKey) ([]domain.Flight, error) {
	store, err := s.sessions.Get(id)
	if err != nil {
		return nil, fmt.Errorf("service.SessionService.Results: %w", err)
	}
	last, _ := store.LastSearch()
	return View(last.Flights, stops, key), nil
}

// SelectFlight loads one flight into the session's detail slot.
func (s *SessionService) SelectFlight(ctx context.Context, id uuid.UUID, flightID string) (state.Snapshot, error) {
	store, err := s.sessions.Get(id)
	if err != nil {
		return state.Snapshot{}, fmt.Errorf("service.SessionService.SelectFlight: %w", err)
	}

	seq := store.BeginSelected()
	f, err := s.flights.GetByID(ctx, flightID)
	if err != nil {
		s.log.WarnContext(ctx, "flight detail failed", slog.String("flight_id", flightID), slog.String("error", err.Error()))
		store.ResolveSelected(state.Failed[domain.Flight](seq, reasonFlight))
		return store.Snapshot(), fmt.Errorf("service.SessionService.SelectFlight: %w", err)
	}
	store.ResolveSelected(state.Succeeded(seq, f))
	return store.Snapshot(), nil
}

// LoadAirports fetches the airport lists unless the session already has
// them or is fetching them.
func (s *SessionService) LoadAirports(ctx context.Context, id uuid.UUID) (state.Snapshot, error) {
	store, err := s.sessions.Get(id)
	if err != nil {
		return state.Snapshot{}, fmt.Errorf("service.SessionService.LoadAirports: %w", err)
	}

	seq, ok := store.BeginAirports()
	if !ok {
		return store.Snapshot(), nil
	}
	data, err := s.airports.Get(ctx)
	if err != nil {
		s.log.WarnContext(ctx, "airport load failed", slog.String("error", err.Error()))
		store.ResolveAirports(state.Failed[domain.AirportData](seq, reasonAirports))
		return store.Snapshot(), fmt.Errorf("service.SessionService.LoadAirports: %w", err)
	}
	store.ResolveAirports(state.Succeeded(seq, data))
	return store.Snapshot(), nil
}

// LoadDestinations fetches the popular destinations into the session.
func (s *SessionService) LoadDestinations(ctx context.Context, id uuid.UUID) (state.Snapshot, error) {
	store, err := s.sessions.Get(id)
	if err != nil {
		return state.Snapshot{}, fmt.Errorf("service.SessionService.LoadDestinations: %w", err)
	}
	if _, err := s.loadDestinations(ctx, store); err != nil {
		return store.Snapshot(), fmt.Errorf("service.SessionService.LoadDestinations: %w", err)
	}
	return store.Snapshot(), nil
}

// Pickers returns the airport options for each picker in the session's
// current direction.
func (s *SessionService) Pickers(id uuid.UUID) (domain.PickerOptions, error) {
	store, err := s.sessions.Get(id)
	if err != nil {
		return domain.PickerOptions{}, fmt.Errorf("service.SessionService.Pickers: %w", err)
	}
	return domain.Pickers(store.Direction(), store.Airports().Data), nil
}

// search validates p and only then submits it with direction d. A rejected
// search leaves both the form and the direction as they were.
func (s *SessionService) search(ctx context.Context, store *state.Store, p domain.SearchParams, d domain.Direction) error {
	p, err := s.flights.Validate(p)
	if err != nil {
		return err
	}

	seq := store.BeginSearchIn(p, d)
	flights, err := s.flights.Search(ctx, p)
	if err != nil {
		s.log.WarnContext(ctx, "flight search failed",
			slog.String("from", p.From),
			slog.String("to", p.To),
			slog.String("error", err.Error()),
		)
		store.ResolveSearch(state.Failed[state.SearchResult](seq, reasonFlights))
		return err
	}
	store.ResolveSearch(state.Succeeded(seq, state.SearchResult{Params: p, Flights: flights}))
	return nil
}

func (s *SessionService) loadDestinations(ctx context.Context, store *state.Store) ([]domain.Destination, error) {
	seq := store.BeginDestinations()
	dests, err := s.destinations.Popular(ctx)
	if err != nil {
		s.log.WarnContext(ctx, "destinations load failed", slog.String("error", err.Error()))
		store.ResolveDestinations(state.Failed[[]domain.Destination](seq, reasonDestinations))
		return nil, err
	}
	store.ResolveDestinations(state.Succeeded(seq, dests))
	return dests, nil
}

// destination finds id among the session's loaded destinations, falling
// back to the catalog.
func (s *SessionService) destination(ctx context.Context, store *state.Store, id string) (domain.Destination, error) {
	snap := store.Snapshot()
	if snap.Destinations.Status == state.StatusFulfilled {
		for _, d := range snap.Destinations.Data {
			if d.ID == id {
				return d, nil
			}
		}
	}
	return s.destinations.ByID(ctx, id)
}
