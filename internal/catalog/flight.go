package catalog

import "github.com/skyhopper/flight-compare/backend/internal/domain"

// NormalizeFlight maps one catalog product onto a Flight.
//
// Missing or malformed stops and seats become 0, rating becomes 0.0, and an
// absent or invalid amenities list becomes empty. A missing price yields a
// NaN amount and empty currency. No field aborts the rest of the record.
func NormalizeFlight(p domain.CatalogProduct) domain.Flight {
	amenities, ok := stringList(p.Attr(nsFlight, "amenities"))
	if !ok {
		amenities = []string{}
	}

	return domain.Flight{
		ID:            lastSegment(p.ID),
		Airline:       p.Vendor,
		LogoURL:       firstImage(p.Images),
		FlightNumber:  p.Attr(nsFlight, "number"),
		DepartureTime: p.Attr(nsFlight, "departure_time"),
		ArrivalTime:   p.Attr(nsFlight, "arrival_time"),
		Duration:      p.Attr(nsFlight, "duration"),
		Stops:         intOr(p.Attr(nsFlight, "stops"), 0),
		Price: domain.Money{
			Amount:   parseAmount(p.Price.Amount),
			Currency: p.Price.CurrencyCode,
		},
		Seats:            intOr(p.Attr(nsFlight, "seats"), 0),
		Rating:           floatOr(p.Attr(nsFlight, "rating"), 0),
		Amenities:        amenities,
		DepartureAirport: p.Attr(nsFlight, "departure_airport"),
		ArrivalAirport:   p.Attr(nsFlight, "arrival_airport"),
		AircraftType:     p.Attr(nsFlight, "aircraft_type"),
		CabinClass:       p.Attr(nsFlight, "cabin_class"),
		Baggage: domain.Baggage{
			Checked: p.Attr(nsFlight, "checked_baggage"),
			Cabin:   p.Attr(nsFlight, "cabin_baggage"),
		},
	}
}

// NormalizeFlights maps products in order. The result is never nil.
func NormalizeFlights(products []domain.CatalogProduct) []domain.Flight {
	out := make([]domain.Flight, 0, len(products))
	for _, p := range products {
		out = append(out, NormalizeFlight(p))
	}
	return out
}
