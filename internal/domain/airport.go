package domain

import (
	"bytes"
	"encoding/json"
	"reflect"
)

var jsonTypeOfList = reflect.TypeOf(CountryAirportsList{})

// Airport is one selectable entry in an airport picker.
type Airport struct {
	Name string `json:"name"`
	Code string `json:"code"`
	Full string `json:"full"`
}

// CountryAirports groups destination airports under their country.
type CountryAirports struct {
	Country  string
	Airports []Airport
}

// CountryAirportsList keeps countries in the order the catalog delivered them.
// It serializes as a JSON object whose key order matches the slice order.
type CountryAirportsList []CountryAirports

// MarshalJSON writes {"<country>": [airports...], ...} preserving order.
func (l CountryAirportsList) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, c := range l {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(c.Country)
		if err != nil {
			return nil, err
		}
		airports := c.Airports
		if airports == nil {
			airports = []Airport{}
		}
		val, err := json.Marshal(airports)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Flatten returns every destination airport, country by country.
func (l CountryAirportsList) Flatten() []Airport {
	out := []Airport{}
	for _, c := range l {
		out = append(out, c.Airports...)
	}
	return out
}

// AirportData is slowly-changing reference data for the airport pickers.
// It is replaced wholesale on refetch, never patched.
type AirportData struct {
	UAEAirports       []Airport           `json:"uaeAirports"`
	DestinationCities CountryAirportsList `json:"destinationCities"`
	BannerImage       string              `json:"bannerImage,omitempty"`
}

// UnmarshalJSON reads a JSON object of country -> airports, keeping key order.
// Duplicate keys collapse into one entry holding the last value.
func (l *CountryAirportsList) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		*l = nil
		return nil
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return &json.UnmarshalTypeError{Value: "non-object", Type: jsonTypeOfList}
	}

	out := CountryAirportsList{}
	seen := map[string]int{}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		country, _ := keyTok.(string)
		var airports []Airport
		if err := dec.Decode(&airports); err != nil {
			return err
		}
		// A repeated key keeps its first position and its last value.
		if i, ok := seen[country]; ok {
			out[i].Airports = airports
			continue
		}
		seen[country] = len(out)
		out = append(out, CountryAirports{Country: country, Airports: airports})
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*l = out
	return nil
}
