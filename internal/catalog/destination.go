package catalog

import (
	"math"
	"net/url"
	"slices"
	"strings"

	"github.com/skyhopper/flight-compare/backend/internal/domain"
)

// defaultCountry is used when no product tag names a known country.
const defaultCountry = "International"

// defaultRoute is the departure code assumed when a destination has neither
// a popular-routes list nor a parseable departure airport.
const defaultRoute = "DXB"

// knownCountries is the allow-list of destination countries recognized in tags.
var knownCountries = []string{"India", "Pakistan", "Philippines", "Sri Lanka"}

// AggregateDestinations folds flight products into one Destination per
// arrival airport code.
//
// The first product for a code seeds the destination. Each later product adds
// its vendor to the airline set, increments FlightOptions, and lowers
// PriceFrom only when strictly cheaper. The result is stably sorted by
// FlightOptions descending, so ties keep encounter order. It is never nil.
func AggregateDestinations(products []domain.CatalogProduct) []domain.Destination {
	type agg struct {
		dest     domain.Destination
		airlines map[string]struct{}
	}

	index := map[string]int{}
	var groups []*agg

	for _, p := range products {
		arrival := p.Attr(nsFlight, "arrival_airport")
		code := ExtractCode(arrival)
		price := parseAmount(p.Price.Amount)

		i, seen := index[code]
		if !seen {
			index[code] = len(groups)
			groups = append(groups, &agg{
				dest:     seedDestination(p, code, arrival, price),
				airlines: map[string]struct{}{p.Vendor: {}},
			})
			continue
		}

		g := groups[i]
		g.dest.FlightOptions++
		if _, dup := g.airlines[p.Vendor]; !dup {
			g.airlines[p.Vendor] = struct{}{}
			g.dest.Airlines = append(g.dest.Airlines, p.Vendor)
		}
		if cheaper(price, g.dest.PriceFrom) {
			g.dest.PriceFrom = price
		}
	}

	out := make([]domain.Destination, 0, len(groups))
	for _, g := range groups {
		out = append(out, g.dest)
	}
	slices.SortStableFunc(out, func(a, b domain.Destination) int {
		return b.FlightOptions - a.FlightOptions
	})
	return out
}

// cheaper reports whether price should replace current as the minimum.
// NaN never wins, but any real price replaces a NaN minimum.
func cheaper(price, current float64) bool {
	if math.IsNaN(price) {
		return false
	}
	if math.IsNaN(current) {
		return true
	}
	return price < current
}

func seedDestination(p domain.CatalogProduct, code, arrival string, price float64) domain.Destination {
	city := cityOf(arrival)
	country := countryFromTags(p.Tags)

	image := p.Attr(nsDestination, "image_url")
	if image == "" {
		image = firstImage(p.Images)
	}
	if image == "" {
		image = "https://source.unsplash.com/800x600/?" + url.QueryEscape(city) + ",city"
	}

	return domain.Destination{
		ID:            code,
		City:          city,
		Country:       country,
		AirportCode:   code,
		AirportFull:   arrival,
		Image:         image,
		Description:   city + ", " + country,
		PriceFrom:     price,
		Currency:      p.Price.CurrencyCode,
		PopularRoutes: popularRoutes(p),
		WeeklyFlights: intOr(p.Attr(nsDestination, "weekly_flights"), 0),
		FlightOptions: 1,
		Airlines:      []string{p.Vendor},
	}
}

// cityOf returns the first word of the airport name before the bracket.
// "Mumbai International Airport (BOM)" -> "Mumbai".
func cityOf(arrival string) string {
	name, _, _ := strings.Cut(arrival, "(")
	fields := strings.Fields(name)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

// countryFromTags returns the first tag, in tag order, that is a known
// country. Later matches are ignored.
func countryFromTags(tags []string) string {
	for _, t := range tags {
		if slices.Contains(knownCountries, t) {
			return t
		}
	}
	return defaultCountry
}

// popularRoutes reads destination.popular_routes. An absent value means no
// routes; a malformed value falls back to the product's departure code.
func popularRoutes(p domain.CatalogProduct) []string {
	raw := p.Attr(nsDestination, "popular_routes")
	if strings.TrimSpace(raw) == "" {
		return []string{}
	}
	if routes, ok := stringList(raw); ok {
		return routes
	}
	if dep := ExtractCode(p.Attr(nsFlight, "departure_airport")); dep != "" {
		return []string{dep}
	}
	return []string{defaultRoute}
}
