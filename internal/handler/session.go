package handler

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/skyhopper/flight-compare/backend/internal/state"
)

// CreateSession handles POST /sessions.
// The new session's state is returned with 201 and a Location header.
func (s *Server) CreateSession(w http.ResponseWriter, _ *http.Request) {
	id, snap := s.sessions.Create()
	w.Header().Set("Location", "/sessions/"+id.String())
	writeJSON(w, http.StatusCreated, snapshotToResponse(id, snap))
}

// GetSession handles GET /sessions/{sessionID}.
func (s *Server) GetSession(w http.ResponseWriter, r *http.Request) {
	s.withSession(w, r, "session", func(_ context.Context, id uuid.UUID) (state.Snapshot, error) {
		return s.sessions.Snapshot(id)
	})
}

// SessionSearch handles POST /sessions/{sessionID}/search.
func (s *Server) SessionSearch(w http.ResponseWriter, r *http.Request) {
	var body SearchParamsDTO
	if err := decodeBody(r, &body, false); err != nil {
		requestError(w, err.Error())
		return
	}
	s.withSession(w, r, "flights", func(ctx context.Context, id uuid.UUID) (state.Snapshot, error) {
		return s.sessions.Search(ctx, id, requestToParams(body))
	})
}

// SessionQuickSearch handles POST /sessions/{sessionID}/quick-search.
func (s *Server) SessionQuickSearch(w http.ResponseWriter, r *http.Request) {
	var body QuickSearchDTO
	if err := decodeBody(r, &body, false); err != nil {
		requestError(w, err.Error())
		return
	}
	if body.DestinationID == "" {
		requestError(w, "destinationId is required")
		return
	}
	s.withSession(w, r, "destination", func(ctx context.Context, id uuid.UUID) (state.Snapshot, error) {
		return s.sessions.QuickSearch(ctx, id, body.DestinationID)
	})
}

// SessionSwap handles POST /sessions/{sessionID}/swap.
func (s *Server) SessionSwap(w http.ResponseWriter, r *http.Request) {
	s.withSession(w, r, "session", func(_ context.Context, id uuid.UUID) (state.Snapshot, error) {
		return s.sessions.Swap(id)
	})
}

// SessionReturnSearch handles POST /sessions/{sessionID}/return-search.
func (s *Server) SessionReturnSearch(w http.ResponseWriter, r *http.Request) {
	s.withSession(w, r, "flights", func(ctx context.Context, id uuid.UUID) (state.Snapshot, error) {
		return s.sessions.ReturnSearch(ctx, id)
	})
}

// SessionLoadAirports handles POST /sessions/{sessionID}/airports.
func (s *Server) SessionLoadAirports(w http.ResponseWriter, r *http.Request) {
	s.withSession(w, r, "airport data", func(ctx context.Context, id uuid.UUID) (state.Snapshot, error) {
		return s.sessions.LoadAirports(ctx, id)
	})
}

// SessionLoadDestinations handles POST /sessions/{sessionID}/destinations.
func (s *Server) SessionLoadDestinations(w http.ResponseWriter, r *http.Request) {
	s.withSession(w, r, "destinations", func(ctx context.Context, id uuid.UUID) (state.Snapshot, error) {
		return s.sessions.LoadDestinations(ctx, id)
	})
}

// SessionSelectFlight handles POST /sessions/{sessionID}/flights/{flightID}.
func (s *Server) SessionSelectFlight(w http.ResponseWriter, r *http.Request) {
	flightID, err := pathString(r, "flightID")
	if err != nil {
		requestError(w, err.Error())
		return
	}
	s.withSession(w, r, "flight", func(ctx context.Context, id uuid.UUID) (state.Snapshot, error) {
		return s.sessions.SelectFlight(ctx, id, flightID)
	})
}

// SessionResults handles GET /sessions/{sessionID}/results.
// Filters and sorts the last fulfilled search without calling the catalog.
func (s *Server) SessionResults(w http.ResponseWriter, r *http.Request) {
	id, err := sessionID(r)
	if err != nil {
		requestError(w, err.Error())
		return
	}
	params, err := bindResultsParams(r)
	if err != nil {
		requestError(w, err.Error())
		return
	}
	stops, key, format, err := params.view()
	if err != nil {
		s.writeError(w, r, err, "results")
		return
	}
	flights, err := s.sessions.Results(id, stops, key)
	if err != nil {
		s.writeError(w, r, err, "session")
		return
	}
	writeFlights(w, flights, format)
}

// SessionPickers handles GET /sessions/{sessionID}/pickers.
func (s *Server) SessionPickers(w http.ResponseWriter, r *http.Request) {
	id, err := sessionID(r)
	if err != nil {
		requestError(w, err.Error())
		return
	}
	p, err := s.sessions.Pickers(id)
	if err != nil {
		s.writeError(w, r, err, "session")
		return
	}
	writeJSON(w, http.StatusOK, pickersToResponse(p))
}

// withSession parses the session id, runs op and writes the resulting
// snapshot. subject names what op may fail to find once the session itself
// is known to exist. Failures recorded on a slice stay readable via GET
// /sessions/{sessionID}.
func (s *Server) withSession(w http.ResponseWriter, r *http.Request, subject string, op func(ctx context.Context, id uuid.UUID) (state.Snapshot, error)) {
	id, err := sessionID(r)
	if err != nil {
		requestError(w, err.Error())
		return
	}
	if _, err := s.sessions.Snapshot(id); err != nil {
		s.writeError(w, r, err, "session")
		return
	}
	snap, err := op(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err, subject)
		return
	}
	writeJSON(w, http.StatusOK, snapshotToResponse(id, snap))
}
