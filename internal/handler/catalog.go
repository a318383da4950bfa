package handler

import "net/http"

// GetAirports handles GET /airports.
func (s *Server) GetAirports(w http.ResponseWriter, r *http.Request) {
	data, err := s.airports.Get(r.Context())
	if err != nil {
		s.writeError(w, r, err, "airport data")
		return
	}
	writeJSON(w, http.StatusOK, airportsToResponse(data))
}

// ListPopularDestinations handles GET /destinations/popular.
// A missing collection yields an empty list, not an error.
func (s *Server) ListPopularDestinations(w http.ResponseWriter, r *http.Request) {
	dests, err := s.destinations.Popular(r.Context())
	if err != nil {
		s.writeError(w, r, err, "destinations")
		return
	}
	writeJSON(w, http.StatusOK, destinationsToResponse(dests))
}
