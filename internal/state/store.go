package state

import (
	"sync"

	"github.com/skyhopper/flight-compare/backend/internal/domain"
)

// SearchResult is the payload of a fulfilled search: the params that were
// submitted and the flights returned for them.
type SearchResult struct {
	Params  domain.SearchParams
	Flights []domain.Flight
}

// Snapshot is a point-in-time copy of a Store.
type Snapshot struct {
	Form         domain.SearchParams
	Direction    domain.Direction
	Search       Slice[SearchResult]
	Selected     Slice[domain.Flight]
	Destinations Slice[[]domain.Destination]
	Airports     Slice[domain.AirportData]
}

// Store holds the state of one visitor session. All mutations go through its
// methods, each of which applies one reducer step under the lock.
//
// Slice data is replaced, never modified in place, so a Snapshot can share
// backing arrays with the Store safely.
type Store struct {
	mu           sync.Mutex
	seq          uint64
	form         domain.SearchParams
	direction    domain.Direction
	search       Slice[SearchResult]
	selected     Slice[domain.Flight]
	destinations Slice[[]domain.Destination]
	airports     Slice[domain.AirportData]
}

// NewStore returns an empty store in the Outbound direction.
func NewStore() *Store {
	return &Store{
		direction:    domain.Outbound,
		search:       Slice[SearchResult]{Status: StatusIdle},
		selected:     Slice[domain.Flight]{Status: StatusIdle},
		destinations: Slice[[]domain.Destination]{Status: StatusIdle},
		airports:     Slice[domain.AirportData]{Status: StatusIdle},
	}
}

// next issues a request sequence. Callers hold s.mu.
func (s *Store) next() uint64 {
	s.seq++
	return s.seq
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		Form:         s.form,
		Direction:    s.direction,
		Search:       s.search,
		Selected:     s.selected,
		Destinations: s.destinations,
		Airports:     s.airports,
	}
}

// Form returns the current search form values.
func (s *Store) Form() domain.SearchParams {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.form
}

// SetForm replaces the search form values without starting a search.
func (s *Store) SetForm(form domain.SearchParams) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.form = form
}

// Direction returns the current picker direction.
func (s *Store) Direction() domain.Direction {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.direction
}

// Swap exchanges the From and To form values and flips the direction.
func (s *Store) Swap() (domain.SearchParams, domain.Direction) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.form = s.form.Swapped()
	s.direction = s.direction.Swap()
	return s.form, s.direction
}

// LastSearch returns the most recent fulfilled search, if any. A pending
// newer search does not hide the previous result.
func (s *Store) LastSearch() (SearchResult, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.search.Data, s.search.Data.Flights != nil
}

// BeginSearch records form as the submitted values and starts a search request.
func (s *Store) BeginSearch(form domain.SearchParams) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.beginSearch(form, s.direction)
}

// BeginSearchIn is BeginSearch that also sets the picker direction. Form
// and direction change under one lock, so a reader never sees one without
// the other.
func (s *Store) BeginSearchIn(form domain.SearchParams, d domain.Direction) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.beginSearch(form, d)
}

func (s *Store) beginSearch(form domain.SearchParams, d domain.Direction) uint64 {
	s.form = form
	s.direction = d
	seq := s.next()
	s.search = Reduce(s.search, Requested[SearchResult](seq))
	return seq
}

// ResolveSearch applies a succeeded or failed search action.
func (s *Store) ResolveSearch(a Action[SearchResult]) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.search = Reduce(s.search, a)
}

// BeginSelected starts a flight-detail request.
func (s *Store) BeginSelected() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	seq := s.next()
	s.selected = Reduce(s.selected, Requested[domain.Flight](seq))
	return seq
}

// ResolveSelected applies a succeeded or failed flight-detail action.
func (s *Store) ResolveSelected(a Action[domain.Flight]) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selected = Reduce(s.selected, a)
}

// BeginDestinations starts a popular-destinations request.
func (s *Store) BeginDestinations() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	seq := s.next()
	s.destinations = Reduce(s.destinations, Requested[[]domain.Destination](seq))
	return seq
}

// ResolveDestinations applies a succeeded or failed destinations action.
func (s *Store) ResolveDestinations(a Action[[]domain.Destination]) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.destinations = Reduce(s.destinations, a)
}

// BeginAirports starts an airport reference-data request only if none has
// started yet or the last one failed. ok is false when the data is already
// loaded or loading, in which case the caller must not fetch.
func (s *Store) BeginAirports() (seq uint64, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch s.airports.Status {
	case StatusPending, StatusFulfilled:
		return 0, false
	}
	seq = s.next()
	s.airports = Reduce(s.airports, Requested[domain.AirportData](seq))
	return seq, true
}

// ResolveAirports applies a succeeded or failed airports action.
func (s *Store) ResolveAirports(a Action[domain.AirportData]) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.airports = Reduce(s.airports, a)
}

// Airports returns the airports slice.
func (s *Store) Airports() Slice[domain.AirportData] {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.airports
}
