package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/oapi-codegen/runtime"
	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/skyhopper/flight-compare/backend/internal/domain"
	"github.com/skyhopper/flight-compare/backend/internal/service"
)

// Output formats for flight lists.
const (
	FormatJSON = "json"
	FormatCSV  = "csv"
)

// SearchFlightsParams are the query parameters of GET /flights.
type SearchFlightsParams struct {
	From       *string
	To         *string
	Date       *openapi_types.Date
	Passengers *string
	ResultsParams
}

// ResultsParams are the filter, sort and format query parameters shared by
// every flight list endpoint.
type ResultsParams struct {
	Stops  *string
	Sort   *string
	Format *string
}

// bindQuery binds an optional form-style query parameter into dest, which
// must be a pointer to a pointer.
func bindQuery(r *http.Request, name string, dest any) error {
	if err := runtime.BindQueryParameter("form", true, false, name, r.URL.Query(), dest); err != nil {
		return fmt.Errorf("invalid format for parameter %s", name)
	}
	return nil
}

func bindResultsParams(r *http.Request) (ResultsParams, error) {
	var p ResultsParams
	for name, dest := range map[string]any{"stops": &p.Stops, "sort": &p.Sort, "format": &p.Format} {
		if err := bindQuery(r, name, dest); err != nil {
			return p, err
		}
	}
	return p, nil
}

func bindSearchFlightsParams(r *http.Request) (SearchFlightsParams, error) {
	var p SearchFlightsParams
	if err := bindQuery(r, "from", &p.From); err != nil {
		return p, err
	}
	if err := bindQuery(r, "to", &p.To); err != nil {
		return p, err
	}
	if err := bindQuery(r, "date", &p.Date); err != nil {
		return p, err
	}
	if err := bindQuery(r, "passengers", &p.Passengers); err != nil {
		return p, err
	}
	rp, err := bindResultsParams(r)
	if err != nil {
		return p, err
	}
	p.ResultsParams = rp
	return p, nil
}

// view parses the filter and sort keys and the output format.
func (p ResultsParams) view() (service.StopsFilter, service.SortKey, string, error) {
	stops, err := service.ParseStopsFilter(deref(p.Stops))
	if err != nil {
		return "", "", "", err
	}
	key, err := service.ParseSortKey(deref(p.Sort))
	if err != nil {
		return "", "", "", err
	}
	format := deref(p.Format)
	switch format {
	case "", FormatJSON:
		format = FormatJSON
	case FormatCSV:
	default:
		return "", "", "", fmt.Errorf("%w: unknown format %q", domain.ErrValidation, format)
	}
	return stops, key, format, nil
}

// pathString returns a required path parameter.
func pathString(r *http.Request, name string) (string, error) {
	var v string
	err := runtime.BindStyledParameterWithOptions("simple", name, chi.URLParam(r, name), &v,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		return "", fmt.Errorf("invalid format for parameter %s", name)
	}
	return v, nil
}

// sessionID parses the {sessionID} path parameter.
func sessionID(r *http.Request) (uuid.UUID, error) {
	var id openapi_types.UUID
	err := runtime.BindStyledParameterWithOptions("simple", "sessionID", chi.URLParam(r, "sessionID"), &id,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		return uuid.Nil, errors.New("invalid session id")
	}
	return id, nil
}

// decodeBody decodes a JSON request body into dst. An empty body leaves dst
// untouched when optional is true.
func decodeBody(r *http.Request, dst any, optional bool) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			if optional {
				return nil
			}
			return errors.New("request body is required")
		}
		return fmt.Errorf("invalid request body: %s", err.Error())
	}
	return nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
