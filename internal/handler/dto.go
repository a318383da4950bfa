package handler

import (
	"math"

	"github.com/google/uuid"
	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/skyhopper/flight-compare/backend/internal/domain"
	"github.com/skyhopper/flight-compare/backend/internal/state"
)

// PriceDTO is a price on the wire. Amount is null when the catalog did not
// supply a usable amount.
type PriceDTO struct {
	Amount   *float64 `json:"amount"`
	Currency string   `json:"currency"`
}

// BaggageDTO is a flight's baggage allowance.
type BaggageDTO struct {
	Checked string `json:"checked"`
	Cabin   string `json:"cabin"`
}

// FlightDTO is a flight offer on the wire.
type FlightDTO struct {
	ID               string     `json:"id"`
	Airline          string     `json:"airline"`
	Logo             string     `json:"logo"`
	FlightNumber     string     `json:"flightNumber"`
	DepartureTime    string     `json:"departureTime"`
	ArrivalTime      string     `json:"arrivalTime"`
	Duration         string     `json:"duration"`
	Stops            int        `json:"stops"`
	Price            PriceDTO   `json:"price"`
	Seats            int        `json:"seats"`
	Rating           float64    `json:"rating"`
	Amenities        []string   `json:"amenities"`
	DepartureAirport string     `json:"departureAirport"`
	ArrivalAirport   string     `json:"arrivalAirport"`
	AircraftType     string     `json:"aircraftType"`
	CabinClass       string     `json:"cabinClass"`
	Baggage          BaggageDTO `json:"baggage"`
}

// DestinationDTO is a popular destination on the wire.
type DestinationDTO struct {
	ID            string   `json:"id"`
	City          string   `json:"city"`
	Country       string   `json:"country"`
	AirportCode   string   `json:"airportCode"`
	AirportFull   string   `json:"airportFull"`
	Image         string   `json:"image"`
	Description   string   `json:"description"`
	PriceFrom     *float64 `json:"priceFrom"`
	Currency      string   `json:"currency"`
	PopularRoutes []string `json:"popularRoutes"`
	WeeklyFlights int      `json:"weeklyFlights"`
	FlightOptions int      `json:"flightOptions"`
	Airlines      []string `json:"airlines"`
}

// SearchParamsDTO is the search form, both as a request body and inside a
// session snapshot.
type SearchParamsDTO struct {
	From       string              `json:"from"`
	To         string              `json:"to"`
	Date       *openapi_types.Date `json:"date"`
	Passengers string              `json:"passengers"`
}

// SearchResultDTO is the payload of the session's search slice.
type SearchResultDTO struct {
	Params  SearchParamsDTO `json:"params"`
	Flights []FlightDTO     `json:"flights"`
}

// SliceDTO is one state slice. Data is null until the slice has been
// fulfilled at least once.
type SliceDTO[T any] struct {
	Status  state.Status `json:"status"`
	Loading bool         `json:"loading"`
	Data    T            `json:"data"`
	Error   string       `json:"error,omitempty"`
}

// SessionDTO is a visitor session's state snapshot.
type SessionDTO struct {
	ID           uuid.UUID                     `json:"id"`
	Form         SearchParamsDTO               `json:"form"`
	Direction    domain.Direction              `json:"direction"`
	Search       SliceDTO[*SearchResultDTO]    `json:"search"`
	Selected     SliceDTO[*FlightDTO]          `json:"selected"`
	Destinations SliceDTO[[]DestinationDTO]    `json:"destinations"`
	Airports     SliceDTO[*domain.AirportData] `json:"airports"`
}

// PickersDTO lists the airports offered by each picker.
type PickersDTO struct {
	Direction domain.Direction `json:"direction"`
	From      []domain.Airport `json:"from"`
	To        []domain.Airport `json:"to"`
}

// EnquiryDTO is a booking deep link.
type EnquiryDTO struct {
	URL     string `json:"url"`
	Message string `json:"message"`
}

// ContactRequestDTO is the contact form body.
type ContactRequestDTO struct {
	Name           string `json:"name"`
	Email          string `json:"email"`
	Message        string `json:"message"`
	RecaptchaToken string `json:"recaptchaToken"`
}

// ContactResultDTO is the outcome shown to the visitor.
type ContactResultDTO struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// QuickSearchDTO is the body of POST /sessions/{id}/quick-search.
type QuickSearchDTO struct {
	DestinationID string `json:"destinationId"`
}

// --- mapping helpers --------------------------------------------------------

// amountPtr maps NaN to nil so absent prices serialize as null.
func amountPtr(v float64) *float64 {
	if math.IsNaN(v) {
		return nil
	}
	return &v
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func flightToResponse(f domain.Flight) FlightDTO {
	return FlightDTO{
		ID:               f.ID,
		Airline:          f.Airline,
		Logo:             f.LogoURL,
		FlightNumber:     f.FlightNumber,
		DepartureTime:    f.DepartureTime,
		ArrivalTime:      f.ArrivalTime,
		Duration:         f.Duration,
		Stops:            f.Stops,
		Price:            PriceDTO{Amount: amountPtr(f.Price.Amount), Currency: f.Price.Currency},
		Seats:            f.Seats,
		Rating:           f.Rating,
		Amenities:        nonNil(f.Amenities),
		DepartureAirport: f.DepartureAirport,
		ArrivalAirport:   f.ArrivalAirport,
		AircraftType:     f.AircraftType,
		CabinClass:       f.CabinClass,
		Baggage:          BaggageDTO{Checked: f.Baggage.Checked, Cabin: f.Baggage.Cabin},
	}
}

func flightsToResponse(flights []domain.Flight) []FlightDTO {
	out := make([]FlightDTO, len(flights))
	for i, f := range flights {
		out[i] = flightToResponse(f)
	}
	return out
}

func destinationToResponse(d domain.Destination) DestinationDTO {
	return DestinationDTO{
		ID:            d.ID,
		City:          d.City,
		Country:       d.Country,
		AirportCode:   d.AirportCode,
		AirportFull:   d.AirportFull,
		Image:         d.Image,
		Description:   d.Description,
		PriceFrom:     amountPtr(d.PriceFrom),
		Currency:      d.Currency,
		PopularRoutes: nonNil(d.PopularRoutes),
		WeeklyFlights: d.WeeklyFlights,
		FlightOptions: d.FlightOptions,
		Airlines:      nonNil(d.Airlines),
	}
}

func destinationsToResponse(dests []domain.Destination) []DestinationDTO {
	out := make([]DestinationDTO, len(dests))
	for i, d := range dests {
		out[i] = destinationToResponse(d)
	}
	return out
}

// airportsToResponse fills nil lists so the pickers always get arrays.
func airportsToResponse(data domain.AirportData) domain.AirportData {
	if data.UAEAirports == nil {
		data.UAEAirports = []domain.Airport{}
	}
	if data.DestinationCities == nil {
		data.DestinationCities = domain.CountryAirportsList{}
	}
	return data
}

func paramsToResponse(p domain.SearchParams) SearchParamsDTO {
	dto := SearchParamsDTO{From: p.From, To: p.To, Passengers: p.Passengers}
	if !p.Date.IsZero() {
		dto.Date = &openapi_types.Date{Time: p.Date}
	}
	return dto
}

// requestToParams converts a search form body into domain.SearchParams.
// Field checks are left to the service.
func requestToParams(body SearchParamsDTO) domain.SearchParams {
	p := domain.SearchParams{From: body.From, To: body.To, Passengers: body.Passengers}
	if body.Date != nil {
		p.Date = body.Date.Time
	}
	return p
}

func pickersToResponse(p domain.PickerOptions) PickersDTO {
	from, to := p.From, p.To
	if from == nil {
		from = []domain.Airport{}
	}
	if to == nil {
		to = []domain.Airport{}
	}
	return PickersDTO{Direction: p.Direction, From: from, To: to}
}

func sliceToResponse[T, D any](s state.Slice[T], data D) SliceDTO[D] {
	return SliceDTO[D]{Status: s.Status, Loading: s.Loading(), Data: data, Error: s.Error}
}

// hasData reports whether a slice has ever been fulfilled. Data survives
// later requests and failures, so Latest alone is not enough.
func hasData[T any](s state.Slice[T], empty func(T) bool) bool {
	return s.Status == state.StatusFulfilled || !empty(s.Data)
}

func snapshotToResponse(id uuid.UUID, snap state.Snapshot) SessionDTO {
	dto := SessionDTO{
		ID:        id,
		Form:      paramsToResponse(snap.Form),
		Direction: snap.Direction,
	}

	var search *SearchResultDTO
	if hasData(snap.Search, func(r state.SearchResult) bool { return r.Flights == nil && r.Params.From == "" }) {
		search = &SearchResultDTO{
			Params:  paramsToResponse(snap.Search.Data.Params),
			Flights: flightsToResponse(snap.Search.Data.Flights),
		}
	}
	dto.Search = sliceToResponse(snap.Search, search)

	var selected *FlightDTO
	if hasData(snap.Selected, func(f domain.Flight) bool { return f.ID == "" }) {
		f := flightToResponse(snap.Selected.Data)
		selected = &f
	}
	dto.Selected = sliceToResponse(snap.Selected, selected)

	var dests []DestinationDTO
	if hasData(snap.Destinations, func(d []domain.Destination) bool { return d == nil }) {
		dests = destinationsToResponse(snap.Destinations.Data)
	}
	dto.Destinations = sliceToResponse(snap.Destinations, dests)

	var airports *domain.AirportData
	if hasData(snap.Airports, func(a domain.AirportData) bool { return a.UAEAirports == nil && a.DestinationCities == nil }) {
		a := airportsToResponse(snap.Airports.Data)
		airports = &a
	}
	dto.Airports = sliceToResponse(snap.Airports, airports)

	return dto
}
