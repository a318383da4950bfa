// CSV rendering for ?format=csv on flight list endpoints.

package handler

import (
	"bytes"
	"encoding/csv"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/skyhopper/flight-compare/backend/internal/domain"
)

// csvHeaders defines the column names written as the first row of any CSV export.
var csvHeaders = []string{
	"id", "airline", "flight_number",
	"departure_airport", "arrival_airport", "departure_time", "arrival_time",
	"duration", "stops", "price", "currency", "seats", "rating",
	"cabin_class", "aircraft_type", "amenities",
}

// writeFlightsCSV encodes flights as CSV. Amenities within a row are
// pipe-separated ("|") to keep each flight on a single CSV line.
func writeFlightsCSV(w http.ResponseWriter, flights []domain.Flight) {
	var buf bytes.Buffer
	cw := csv.NewWriter(&buf)

	// bytes.Buffer.Write never returns an error.
	_ = cw.Write(csvHeaders)
	for _, f := range flights {
		_ = cw.Write(flightToCSVRecord(f))
	}
	cw.Flush()

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="flights.csv"`)
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

// flightToCSVRecord encodes a flight as a flat string slice.
// A missing price is encoded as an empty string.
func flightToCSVRecord(f domain.Flight) []string {
	return []string{
		f.ID,
		f.Airline,
		f.FlightNumber,
		f.DepartureAirport,
		f.ArrivalAirport,
		f.DepartureTime,
		f.ArrivalTime,
		f.Duration,
		strconv.Itoa(f.Stops),
		formatCSVAmount(f.Price.Amount),
		f.Price.Currency,
		strconv.Itoa(f.Seats),
		strconv.FormatFloat(f.Rating, 'f', -1, 64),
		f.CabinClass,
		f.AircraftType,
		strings.Join(f.Amenities, "|"),
	}
}

func formatCSVAmount(v float64) string {
	if math.IsNaN(v) {
		return ""
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
