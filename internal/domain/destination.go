package domain

// Destination summarizes every flight product bound for one arrival airport.
//
// PriceFrom is always the minimum price among the folded products and
// FlightOptions is always their count.
type Destination struct {
	ID            string // arrival airport code
	City          string
	Country       string
	AirportCode   string
	AirportFull   string
	Image         string
	Description   string
	PriceFrom     float64
	Currency      string
	PopularRoutes []string
	WeeklyFlights int
	FlightOptions int
	Airlines      []string
}
