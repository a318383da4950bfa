package catalog_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skyhopper/flight-compare/backend/internal/catalog"
	"github.com/skyhopper/flight-compare/backend/internal/domain"
)

func routeProduct(vendor, price, arrival string, tags ...string) domain.CatalogProduct {
	return domain.CatalogProduct{
		ID:     "gid://shopify/Product/" + vendor,
		Vendor: vendor,
		Price:  domain.RawPrice{Amount: price, CurrencyCode: "AED"},
		Tags:   tags,
		Attributes: map[string]string{
			"flight.departure_airport": "Dubai International Airport (DXB)",
			"flight.arrival_airport":   arrival,
		},
	}
}

const bom = "Mumbai International Airport (BOM)"

// TestAggregateDestinations_FoldsSameAirport is the two-vendor scenario: both
// products arrive at BOM, so they fold into one destination priced from the
// cheaper fare with both airlines in first-seen order.
func TestAggregateDestinations_FoldsSameAirport(t *testing.T) {
	got := catalog.AggregateDestinations([]domain.CatalogProduct{
		routeProduct("Emirates", "850", bom, "to-BOM", "India"),
		routeProduct("IndiGo", "620", bom, "to-BOM", "India"),
	})

	require.Len(t, got, 1)
	d := got[0]
	assert.Equal(t, "BOM", d.ID)
	assert.Equal(t, "BOM", d.AirportCode)
	assert.Equal(t, 620.0, d.PriceFrom)
	assert.Equal(t, 2, d.FlightOptions)
	assert.Equal(t, []string{"Emirates", "IndiGo"}, d.Airlines)
	assert.Equal(t, "Mumbai", d.City)
	assert.Equal(t, "India", d.Country)
	assert.Equal(t, "Mumbai, India", d.Description)
	assert.Equal(t, bom, d.AirportFull)
	assert.Equal(t, "AED", d.Currency)
}

func TestAggregateDestinations_DuplicateVendorsCollapse(t *testing.T) {
	got := catalog.AggregateDestinations([]domain.CatalogProduct{
		routeProduct("Emirates", "900", bom),
		routeProduct("Emirates", "700", bom),
		routeProduct("IndiGo", "800", bom),
	})

	require.Len(t, got, 1)
	assert.Equal(t, []string{"Emirates", "IndiGo"}, got[0].Airlines)
	assert.Equal(t, 3, got[0].FlightOptions)
	assert.Equal(t, 700.0, got[0].PriceFrom)
}

// TestAggregateDestinations_MinAndCountInvariant checks, for every
// destination, that PriceFrom is the minimum and FlightOptions the count of
// exactly the products sharing its airport code.
func TestAggregateDestinations_MinAndCountInvariant(t *testing.T) {
	products := []domain.CatalogProduct{
		routeProduct("A", "500", "Karachi Jinnah International Airport (KHI)"),
		routeProduct("B", "450", bom),
		routeProduct("C", "300", "Karachi Jinnah International Airport (KHI)"),
		routeProduct("D", "999", "Colombo Bandaranaike International Airport (CMB)"),
		routeProduct("E", "320", "Karachi Jinnah International Airport (KHI)"),
		routeProduct("F", "460", bom),
	}

	got := catalog.AggregateDestinations(products)

	for _, d := range got {
		minPrice := math.Inf(1)
		count := 0
		for _, p := range products {
			if catalog.ExtractCode(p.Attributes["flight.arrival_airport"]) != d.ID {
				continue
			}
			count++
			f := catalog.NormalizeFlight(p)
			minPrice = math.Min(minPrice, f.Price.Amount)
		}
		assert.Equal(t, minPrice, d.PriceFrom, d.ID)
		assert.Equal(t, count, d.FlightOptions, d.ID)
	}
}

// TestAggregateDestinations_StableSortByOptions verifies descending order by
// flight options with ties kept in encounter order.
func TestAggregateDestinations_StableSortByOptions(t *testing.T) {
	got := catalog.AggregateDestinations([]domain.CatalogProduct{
		routeProduct("A", "100", "Colombo Bandaranaike International Airport (CMB)"),
		routeProduct("B", "100", "Manila Ninoy Aquino International Airport (MNL)"),
		routeProduct("C", "100", bom),
		routeProduct("D", "100", bom),
		routeProduct("E", "100", "Lahore Allama Iqbal International Airport (LHE)"),
	})

	ids := make([]string, len(got))
	for i, d := range got {
		ids[i] = d.ID
	}
	assert.Equal(t, []string{"BOM", "CMB", "MNL", "LHE"}, ids)
}

func TestAggregateDestinations_EqualPriceKeepsFirst(t *testing.T) {
	got := catalog.AggregateDestinations([]domain.CatalogProduct{
		routeProduct("A", "620.00", bom),
		routeProduct("B", "620", bom),
	})

	require.Len(t, got, 1)
	assert.Equal(t, 620.0, got[0].PriceFrom)
}

func TestAggregateDestinations_Empty(t *testing.T) {
	got := catalog.AggregateDestinations(nil)

	require.NotNil(t, got)
	assert.Empty(t, got)
}

// TestAggregateDestinations_CountryFirstTagWins verifies that the first tag
// that names a known country is used, and unknown tags default to International.
func TestAggregateDestinations_CountryFirstTagWins(t *testing.T) {
	got := catalog.AggregateDestinations([]domain.CatalogProduct{
		routeProduct("A", "100", bom, "Pakistan", "India"),
		routeProduct("B", "100", "Nowhere Field (XXX)", "Narnia"),
	})

	require.Len(t, got, 2)
	assert.Equal(t, "Pakistan", got[0].Country)
	assert.Equal(t, "International", got[1].Country)
}

func TestAggregateDestinations_MissingArrivalCodeGroupsUnderEmptyKey(t *testing.T) {
	got := catalog.AggregateDestinations([]domain.CatalogProduct{
		routeProduct("A", "100", "Unknown"),
		routeProduct("B", "90", ""),
	})

	require.Len(t, got, 1)
	assert.Equal(t, "", got[0].ID)
	assert.Equal(t, 2, got[0].FlightOptions)
	assert.Equal(t, 90.0, got[0].PriceFrom)
}

func TestAggregateDestinations_NaNPriceNeverWins(t *testing.T) {
	got := catalog.AggregateDestinations([]domain.CatalogProduct{
		routeProduct("A", "", bom),
		routeProduct("B", "410", bom),
		routeProduct("C", "n/a", bom),
	})

	require.Len(t, got, 1)
	assert.Equal(t, 410.0, got[0].PriceFrom)
}

func TestAggregateDestinations_SeedAttributes(t *testing.T) {
	p := routeProduct("A", "100", bom, "India")
	p.Attributes["destination.image_url"] = "https://cdn.example.com/mumbai.jpg"
	p.Attributes["destination.popular_routes"] = `["DXB","AUH"]`
	p.Attributes["destination.weekly_flights"] = "42"

	got := catalog.AggregateDestinations([]domain.CatalogProduct{p})

	require.Len(t, got, 1)
	assert.Equal(t, "https://cdn.example.com/mumbai.jpg", got[0].Image)
	assert.Equal(t, []string{"DXB", "AUH"}, got[0].PopularRoutes)
	assert.Equal(t, 42, got[0].WeeklyFlights)
}

// TestAggregateDestinations_SeedFallbacks verifies the image and route
// fallbacks when destination attributes are missing or malformed.
func TestAggregateDestinations_SeedFallbacks(t *testing.T) {
	withImage := routeProduct("A", "100", bom)
	withImage.Images = []string{"https://cdn.example.com/product.jpg"}
	withImage.Attributes["destination.popular_routes"] = "DXB,AUH"

	bare := routeProduct("B", "100", "Colombo Bandaranaike International Airport (CMB)")
	bare.Attributes["destination.popular_routes"] = "{broken"
	delete(bare.Attributes, "flight.departure_airport")

	absent := routeProduct("C", "100", "Manila Ninoy Aquino International Airport (MNL)")

	got := catalog.AggregateDestinations([]domain.CatalogProduct{withImage, bare, absent})

	require.Len(t, got, 3)
	assert.Equal(t, "https://cdn.example.com/product.jpg", got[0].Image)
	assert.Equal(t, []string{"DXB"}, got[0].PopularRoutes)

	assert.Equal(t, "https://source.unsplash.com/800x600/?Colombo,city", got[1].Image)
	assert.Equal(t, []string{"DXB"}, got[1].PopularRoutes)
	assert.Equal(t, 0, got[1].WeeklyFlights)

	assert.Equal(t, []string{}, got[2].PopularRoutes)
}
