package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/skyhopper/flight-compare/backend/internal/domain"
	"github.com/skyhopper/flight-compare/backend/internal/handler"
	"github.com/skyhopper/flight-compare/backend/internal/service"
	"github.com/skyhopper/flight-compare/backend/internal/state"
)

// Test doubles for the handler's service interfaces.
// Set only the method fields your test needs.

type mockFlightServicer struct {
	search  func(ctx context.Context, p domain.SearchParams) ([]domain.Flight, error)
	getByID func(ctx context.Context, id string) (domain.Flight, error)
	enquiry func(ctx context.Context, id, from, to string) (domain.Enquiry, error)
}

func (m *mockFlightServicer) Search(ctx context.Context, p domain.SearchParams) ([]domain.Flight, error) {
	return m.search(ctx, p)
}
func (m *mockFlightServicer) GetByID(ctx context.Context, id string) (domain.Flight, error) {
	return m.getByID(ctx, id)
}
func (m *mockFlightServicer) Enquiry(ctx context.Context, id, from, to string) (domain.Enquiry, error) {
	return m.enquiry(ctx, id, from, to)
}

type mockDestinationServicer struct {
	popular func(ctx context.Context) ([]domain.Destination, error)
}

func (m *mockDestinationServicer) Popular(ctx context.Context) ([]domain.Destination, error) {
	return m.popular(ctx)
}

type mockAirportServicer struct {
	get func(ctx context.Context) (domain.AirportData, error)
}

func (m *mockAirportServicer) Get(ctx context.Context) (domain.AirportData, error) {
	return m.get(ctx)
}

type mockContactServicer struct {
	submit func(ctx context.Context, req domain.ContactRequest, remoteIP string) (domain.ContactResult, error)
}

func (m *mockContactServicer) Submit(ctx context.Context, req domain.ContactRequest, remoteIP string) (domain.ContactResult, error) {
	return m.submit(ctx, req, remoteIP)
}

// mockSessionServicer answers Snapshot from snapshot when set and from an
// empty state otherwise.
type mockSessionServicer struct {
	create           func() (uuid.UUID, state.Snapshot)
	snapshot         func(id uuid.UUID) (state.Snapshot, error)
	search           func(ctx context.Context, id uuid.UUID, p domain.SearchParams) (state.Snapshot, error)
	quickSearch      func(ctx context.Context, id uuid.UUID, destinationID string) (state.Snapshot, error)
	swap             func(id uuid.UUID) (state.Snapshot, error)
	returnSearch     func(ctx context.Context, id uuid.UUID) (state.Snapshot, error)
	results          func(id uuid.UUID, stops service.StopsFilter, key service.SortKey) ([]domain.Flight, error)
	selectFlight     func(ctx context.Context, id uuid.UUID, flightID string) (state.Snapshot, error)
	loadAirports     func(ctx context.Context, id uuid.UUID) (state.Snapshot, error)
	loadDestinations func(ctx context.Context, id uuid.UUID) (state.Snapshot, error)
	pickers          func(id uuid.UUID) (domain.PickerOptions, error)
}

func (m *mockSessionServicer) Create() (uuid.UUID, state.Snapshot) { return m.create() }
func (m *mockSessionServicer) Snapshot(id uuid.UUID) (state.Snapshot, error) {
	if m.snapshot == nil {
		return state.NewStore().Snapshot(), nil
	}
	return m.snapshot(id)
}
func (m *mockSessionServicer) Search(ctx context.Context, id uuid.UUID, p domain.SearchParams) (state.Snapshot, error) {
	return m.search(ctx, id, p)
}
func (m *mockSessionServicer) QuickSearch(ctx context.Context, id uuid.UUID, destinationID string) (state.Snapshot, error) {
	return m.quickSearch(ctx, id, destinationID)
}
func (m *mockSessionServicer) Swap(id uuid.UUID) (state.Snapshot, error) { return m.swap(id) }
func (m *mockSessionServicer) ReturnSearch(ctx context.Context, id uuid.UUID) (state.Snapshot, error) {
	return m.returnSearch(ctx, id)
}
func (m *mockSessionServicer) Results(id uuid.UUID, stops service.StopsFilter, key service.SortKey) ([]domain.Flight, error) {
	return m.results(id, stops, key)
}
func (m *mockSessionServicer) SelectFlight(ctx context.Context, id uuid.UUID, flightID string) (state.Snapshot, error) {
	return m.selectFlight(ctx, id, flightID)
}
func (m *mockSessionServicer) LoadAirports(ctx context.Context, id uuid.UUID) (state.Snapshot, error) {
	return m.loadAirports(ctx, id)
}
func (m *mockSessionServicer) LoadDestinations(ctx context.Context, id uuid.UUID) (state.Snapshot, error) {
	return m.loadDestinations(ctx, id)
}
func (m *mockSessionServicer) Pickers(id uuid.UUID) (domain.PickerOptions, error) {
	return m.pickers(id)
}

// compile-time checks: every mock must satisfy its handler interface.
var (
	_ handler.FlightServicer      = (*mockFlightServicer)(nil)
	_ handler.DestinationServicer = (*mockDestinationServicer)(nil)
	_ handler.AirportServicer     = (*mockAirportServicer)(nil)
	_ handler.ContactServicer     = (*mockContactServicer)(nil)
	_ handler.SessionServicer     = (*mockSessionServicer)(nil)
)

// ---- helpers ---------------------------------------------------------------

// services groups the mocks a test wires into a Server. Nil fields stay nil.
type services struct {
	flights      *mockFlightServicer
	destinations *mockDestinationServicer
	airports     *mockAirportServicer
	contact      *mockContactServicer
	sessions     *mockSessionServicer
}

// newHTTPHandler wires a Server with the given mocks into its chi router.
// This mirrors how main.go mounts it in production.
func newHTTPHandler(svc services) http.Handler {
	srv := handler.NewServer(svc.flights, svc.destinations, svc.airports, svc.contact, svc.sessions)
	return srv.Routes()
}

// do sends one request through h and returns the recorder.
func do(t *testing.T, h http.Handler, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, target, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) handler.ErrorDetail {
	t.Helper()
	var resp handler.ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return resp.Error
}

func flightFixture(id string, price float64, stops int) domain.Flight {
	return domain.Flight{
		ID:               id,
		Airline:          "Emirates",
		LogoURL:          "https://cdn.example/ek.png",
		FlightNumber:     "EK" + id,
		DepartureTime:    "08:30",
		ArrivalTime:      "13:05",
		Duration:         "3h 5m",
		Stops:            stops,
		Price:            domain.Money{Amount: price, Currency: "AED"},
		Seats:            9,
		Rating:           4.5,
		Amenities:        []string{"WiFi", "Meals"},
		DepartureAirport: "Dubai International Airport (DXB)",
		ArrivalAirport:   "Mumbai International Airport (BOM)",
		AircraftType:     "Boeing 777",
		CabinClass:       "Economy",
		Baggage:          domain.Baggage{Checked: "30kg", Cabin: "7kg"},
	}
}

var nan = math.NaN()
