package catalog

import (
	"encoding/json"
	"strings"

	"github.com/skyhopper/flight-compare/backend/internal/domain"
)

// ParseAirportData builds the picker reference lists from collection
// metafields. Each list degrades to empty on its own when its attribute is
// absent or malformed.
func ParseAirportData(meta domain.CollectionMeta) domain.AirportData {
	data := domain.AirportData{
		UAEAirports:       []domain.Airport{},
		DestinationCities: domain.CountryAirportsList{},
		BannerImage:       meta.ImageURL,
	}

	if raw := meta.Attributes[nsCustom+".uae_airports"]; strings.TrimSpace(raw) != "" {
		var airports []domain.Airport
		if err := json.Unmarshal([]byte(raw), &airports); err == nil && airports != nil {
			data.UAEAirports = airports
		}
	}

	if raw := meta.Attributes[nsCustom+".destination_cities"]; strings.TrimSpace(raw) != "" {
		var cities domain.CountryAirportsList
		if err := json.Unmarshal([]byte(raw), &cities); err == nil && cities != nil {
			data.DestinationCities = cities
		}
	}

	return data
}
