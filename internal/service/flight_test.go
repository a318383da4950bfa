package service_test

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skyhopper/flight-compare/backend/internal/domain"
	"github.com/skyhopper/flight-compare/backend/internal/service"
)

func newFlightService(c *mockCatalog) *service.FlightService {
	cfg := service.EnquiryConfig{ContactNumber: "+971 50-123-4567"}
	return service.NewFlightService(c, cfg, nil).WithClock(clock)
}

func validParams() domain.SearchParams {
	return domain.SearchParams{
		From: "Dubai International Airport (DXB)",
		To:   "Mumbai International Airport (BOM)",
		Date: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
	}
}

// ---- Search ----------------------------------------------------------------

func TestFlightService_Search_OK(t *testing.T) {
	var gotQuery string
	c := &mockCatalog{
		searchProducts: func(_ context.Context, q string) ([]domain.CatalogProduct, error) {
			gotQuery = q
			return []domain.CatalogProduct{
				flightProduct("1", "Emirates", "850", "0"),
				flightProduct("2", "IndiGo", "620", "1"),
			}, nil
		},
	}

	flights, err := newFlightService(c).Search(context.Background(), validParams())

	require.NoError(t, err)
	assert.Equal(t, "tag:from-DXB AND tag:to-BOM AND product_type:Flight", gotQuery)
	require.Len(t, flights, 2)
	assert.Equal(t, "1", flights[0].ID)
	assert.Equal(t, 620.0, flights[1].Price.Amount)
}

// TestFlightService_Search_RejectsBeforeNetwork covers empty from, past
// dates and missing fields: none of them may reach the catalog.
func TestFlightService_Search_RejectsBeforeNetwork(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(p *domain.SearchParams)
	}{
		{"empty from", func(p *domain.SearchParams) { p.From = "" }},
		{"blank to", func(p *domain.SearchParams) { p.To = "   " }},
		{"missing date", func(p *domain.SearchParams) { p.Date = time.Time{} }},
		{"past date", func(p *domain.SearchParams) { p.Date = fixedNow.AddDate(0, 0, -1) }},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c := &mockCatalog{}
			p := validParams()
			tc.mutate(&p)

			_, err := newFlightService(c).Search(context.Background(), p)

			assert.ErrorIs(t, err, domain.ErrValidation)
			assert.Zero(t, c.calls.Load(), "catalog must not be called")
		})
	}
}

func TestFlightService_Validate_DefaultsPassengers(t *testing.T) {
	p, err := newFlightService(&mockCatalog{}).Validate(validParams())
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultPassengers, p.Passengers)
}

func TestFlightService_Validate_TodayLateEvening(t *testing.T) {
	svc := newFlightService(&mockCatalog{}).WithClock(func() time.Time {
		return time.Date(2025, 6, 1, 23, 59, 0, 0, time.UTC)
	})
	_, err := svc.Validate(validParams())
	assert.NoError(t, err, "a date equal to today is allowed at any hour")
}

func TestFlightService_Search_UpstreamError(t *testing.T) {
	c := &mockCatalog{
		searchProducts: func(context.Context, string) ([]domain.CatalogProduct, error) {
			return nil, domain.ErrUpstream
		},
	}
	_, err := newFlightService(c).Search(context.Background(), validParams())
	assert.ErrorIs(t, err, domain.ErrUpstream)
}

func TestFlightService_Search_EmptyIsNotAnError(t *testing.T) {
	c := &mockCatalog{
		searchProducts: func(context.Context, string) ([]domain.CatalogProduct, error) { return nil, nil },
	}
	flights, err := newFlightService(c).Search(context.Background(), validParams())
	require.NoError(t, err)
	assert.NotNil(t, flights)
	assert.Empty(t, flights)
}

// ---- GetByID ---------------------------------------------------------------

func TestFlightService_GetByID(t *testing.T) {
	c := &mockCatalog{
		productByID: func(_ context.Context, id string) (domain.CatalogProduct, error) {
			assert.Equal(t, "7", id)
			return flightProduct("7", "IndiGo", "620", "0"), nil
		},
	}
	f, err := newFlightService(c).GetByID(context.Background(), "7")
	require.NoError(t, err)
	assert.Equal(t, "7", f.ID)
	assert.Equal(t, "IndiGo", f.Airline)
}

func TestFlightService_GetByID_NotFound(t *testing.T) {
	c := &mockCatalog{
		productByID: func(context.Context, string) (domain.CatalogProduct, error) {
			return domain.CatalogProduct{}, domain.ErrNotFound
		},
	}
	_, err := newFlightService(c).GetByID(context.Background(), "404")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestFlightService_GetByID_Blank(t *testing.T) {
	c := &mockCatalog{}
	_, err := newFlightService(c).GetByID(context.Background(), " ")
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Zero(t, c.calls.Load())
}

// ---- Enquiry ---------------------------------------------------------------

func TestBuildEnquiry(t *testing.T) {
	f := domain.Flight{
		FlightNumber:     "EK500",
		Airline:          "Emirates",
		Price:            domain.Money{Amount: 850, Currency: "AED"},
		DepartureAirport: "Dubai International Airport (DXB)",
		ArrivalAirport:   "Mumbai International Airport (BOM)",
	}
	cfg := service.EnquiryConfig{ContactNumber: "+971501234567", Host: "wa.me"}

	got := service.BuildEnquiry(cfg, f, "", "")

	want := "Hi, I'm interested in booking flight EK500 (Emirates) from Dubai International Airport (DXB) " +
		"to Mumbai International Airport (BOM). Price: 850 AED. Can you help me with the booking?"
	assert.Equal(t, want, got.Message)
	assert.True(t, strings.HasPrefix(got.URL, "https://wa.me/971501234567?text="), got.URL)
	assert.NotContains(t, got.URL, "+", "spaces are encoded as %20")

	u, err := url.Parse(got.URL)
	require.NoError(t, err)
	assert.Equal(t, want, u.Query().Get("text"))
}

func TestBuildEnquiry_PrefersSearchedAirports(t *testing.T) {
	f := domain.Flight{FlightNumber: "6E1", Airline: "IndiGo", Price: domain.Money{Amount: 620.5, Currency: "AED"}}
	got := service.BuildEnquiry(service.EnquiryConfig{ContactNumber: "1"}, f, "Sharjah (SHJ)", "Kochi (COK)")

	assert.Contains(t, got.Message, "from Sharjah (SHJ) to Kochi (COK)")
	assert.Contains(t, got.Message, "Price: 620.5 AED")
}

func TestFlightService_Enquiry_Disabled(t *testing.T) {
	c := &mockCatalog{}
	svc := service.NewFlightService(c, service.EnquiryConfig{}, nil)

	_, err := svc.Enquiry(context.Background(), "7", "", "")
	assert.ErrorIs(t, err, domain.ErrFeatureDisabled)
	assert.Zero(t, c.calls.Load())
}

func TestFlightService_Enquiry(t *testing.T) {
	c := &mockCatalog{
		productByID: func(context.Context, string) (domain.CatalogProduct, error) {
			return flightProduct("7", "IndiGo", "620", "0"), nil
		},
	}
	e, err := newFlightService(c).Enquiry(context.Background(), "7", "", "")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(e.URL, "https://wa.me/971501234567?text="), e.URL)
	assert.Contains(t, e.Message, "flight In7 (IndiGo)")
}
