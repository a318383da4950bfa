package domain

// Money is a parsed price. Amount is NaN when the catalog did not supply a
// usable amount; callers must not treat NaN as zero.
type Money struct {
	Amount   float64
	Currency string
}

// Baggage holds the checked and cabin allowances as display strings.
type Baggage struct {
	Checked string
	Cabin   string
}

// Flight is a flight offer derived from a single catalog product.
// It is rebuilt on every search and never stored.
type Flight struct {
	ID               string
	Airline          string
	LogoURL          string
	FlightNumber     string
	DepartureTime    string // "HH:MM", 24-hour
	ArrivalTime      string
	Duration         string // e.g. "4h 15m"
	Stops            int
	Price            Money
	Seats            int
	Rating           float64
	Amenities        []string
	DepartureAirport string // "City Name (CODE)"
	ArrivalAirport   string
	AircraftType     string
	CabinClass       string
	Baggage          Baggage
}

// Enquiry is a prefilled messaging deep link for booking one flight.
type Enquiry struct {
	URL     string
	Message string
}
