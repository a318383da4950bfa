package domain

import "time"

// DefaultPassengers is the passenger label used when the form leaves it blank.
const DefaultPassengers = "1 Adult"

// SearchParams is what a visitor submits from the search form.
// From and To are full airport display strings ("City Name (CODE)").
type SearchParams struct {
	From       string
	To         string
	Date       time.Time
	Passengers string
}

// Swapped returns a copy with From and To exchanged.
func (p SearchParams) Swapped() SearchParams {
	p.From, p.To = p.To, p.From
	return p
}
