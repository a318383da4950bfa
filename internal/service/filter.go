package service

import (
	"cmp"
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/skyhopper/flight-compare/backend/internal/catalog"
	"github.com/skyhopper/flight-compare/backend/internal/domain"
)

// StopsFilter selects flights by stop count.
type StopsFilter string

const (
	StopsAll     StopsFilter = "all"
	StopsDirect  StopsFilter = "direct"
	StopsOneStop StopsFilter = "one-stop"
)

// SortKey orders a flight list.
type SortKey string

const (
	SortPrice     SortKey = "price"
	SortDuration  SortKey = "duration"
	SortDeparture SortKey = "departure"
)

// ParseStopsFilter accepts "all", "direct", "one-stop" and the legacy
// "1-stop". Empty means all.
func ParseStopsFilter(s string) (StopsFilter, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "all":
		return StopsAll, nil
	case "direct":
		return StopsDirect, nil
	case "one-stop", "1-stop":
		return StopsOneStop, nil
	}
	return "", fmt.Errorf("%w: unknown stops filter %q", domain.ErrValidation, s)
}

// ParseSortKey accepts "price", "duration" and "departure". Empty means price.
func ParseSortKey(s string) (SortKey, error) {
	switch k := SortKey(strings.ToLower(strings.TrimSpace(s))); k {
	case "":
		return SortPrice, nil
	case SortPrice, SortDuration, SortDeparture:
		return k, nil
	}
	return "", fmt.Errorf("%w: unknown sort key %q", domain.ErrValidation, s)
}

// FilterByStops returns a new slice holding the flights that match mode.
// Flights with two or more stops only appear under StopsAll.
func FilterByStops(flights []domain.Flight, mode StopsFilter) []domain.Flight {
	out := make([]domain.Flight, 0, len(flights))
	for _, f := range flights {
		switch mode {
		case StopsDirect:
			if f.Stops != 0 {
				continue
			}
		case StopsOneStop:
			if f.Stops != 1 {
				continue
			}
		}
		out = append(out, f)
	}
	return out
}

// SortFlights returns a stably sorted copy of flights; the input is untouched.
//
// Price sorts ascending with missing (NaN) prices last. Departure compares the
// "HH:MM" strings lexically. Duration compares only the leading hour count, so
// "4h 50m" and "4h 05m" tie and keep their order; unparseable durations go last.
func SortFlights(flights []domain.Flight, key SortKey) []domain.Flight {
	out := slices.Clone(flights)
	if out == nil {
		out = []domain.Flight{}
	}
	switch key {
	case SortDuration:
		slices.SortStableFunc(out, compareDuration)
	case SortDeparture:
		slices.SortStableFunc(out, func(a, b domain.Flight) int {
			return strings.Compare(a.DepartureTime, b.DepartureTime)
		})
	default:
		slices.SortStableFunc(out, comparePrice)
	}
	return out
}

func comparePrice(a, b domain.Flight) int {
	an, bn := math.IsNaN(a.Price.Amount), math.IsNaN(b.Price.Amount)
	switch {
	case an && bn:
		return 0
	case an:
		return 1
	case bn:
		return -1
	}
	return cmp.Compare(a.Price.Amount, b.Price.Amount)
}

func compareDuration(a, b domain.Flight) int {
	ah, aok := catalog.DurationHours(a.Duration)
	bh, bok := catalog.DurationHours(b.Duration)
	switch {
	case !aok && !bok:
		return 0
	case !aok:
		return 1
	case !bok:
		return -1
	}
	return cmp.Compare(ah, bh)
}

// View applies the stops filter and then the sort.
func View(flights []domain.Flight, stops StopsFilter, key SortKey) []domain.Flight {
	return SortFlights(FilterByStops(flights, stops), key)
}
