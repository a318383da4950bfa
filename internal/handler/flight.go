package handler

import (
	"net/http"

	"github.com/skyhopper/flight-compare/backend/internal/domain"
	"github.com/skyhopper/flight-compare/backend/internal/service"
)

// SearchFlights handles GET /flights.
// Supports ?stops=, ?sort= and ?format=csv on top of the search fields.
func (s *Server) SearchFlights(w http.ResponseWriter, r *http.Request) {
	params, err := bindSearchFlightsParams(r)
	if err != nil {
		requestError(w, err.Error())
		return
	}
	stops, key, format, err := params.view()
	if err != nil {
		s.writeError(w, r, err, "flights")
		return
	}

	p := domain.SearchParams{
		From:       deref(params.From),
		To:         deref(params.To),
		Passengers: deref(params.Passengers),
	}
	if params.Date != nil {
		p.Date = params.Date.Time
	}

	flights, err := s.flights.Search(r.Context(), p)
	if err != nil {
		s.writeError(w, r, err, "flights")
		return
	}
	writeFlights(w, service.View(flights, stops, key), format)
}

// GetFlight handles GET /flights/{id}.
func (s *Server) GetFlight(w http.ResponseWriter, r *http.Request) {
	id, err := pathString(r, "id")
	if err != nil {
		requestError(w, err.Error())
		return
	}
	f, err := s.flights.GetByID(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err, "flight")
		return
	}
	writeJSON(w, http.StatusOK, flightToResponse(f))
}

// GetEnquiry handles GET /flights/{id}/enquiry.
// ?from= and ?to= override the airports quoted in the message.
func (s *Server) GetEnquiry(w http.ResponseWriter, r *http.Request) {
	id, err := pathString(r, "id")
	if err != nil {
		requestError(w, err.Error())
		return
	}
	var from, to *string
	if err := bindQuery(r, "from", &from); err != nil {
		requestError(w, err.Error())
		return
	}
	if err := bindQuery(r, "to", &to); err != nil {
		requestError(w, err.Error())
		return
	}

	e, err := s.flights.Enquiry(r.Context(), id, deref(from), deref(to))
	if err != nil {
		s.writeError(w, r, err, "flight")
		return
	}
	writeJSON(w, http.StatusOK, EnquiryDTO{URL: e.URL, Message: e.Message})
}

// writeFlights renders a flight list as JSON or CSV.
func writeFlights(w http.ResponseWriter, flights []domain.Flight, format string) {
	if format == FormatCSV {
		writeFlightsCSV(w, flights)
		return
	}
	writeJSON(w, http.StatusOK, flightsToResponse(flights))
}
