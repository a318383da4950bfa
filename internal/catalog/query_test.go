package catalog_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/skyhopper/flight-compare/backend/internal/catalog"
)

func TestBuildRouteQuery_EmbedsBracketCodes(t *testing.T) {
	q := catalog.BuildRouteQuery("Dubai International Airport (DXB)", "Mumbai International Airport (BOM)")

	assert.Contains(t, q, "DXB")
	assert.Contains(t, q, "BOM")
	assert.Equal(t, "tag:from-DXB AND tag:to-BOM AND product_type:Flight", q)
}

func TestBuildRouteQuery_Deterministic(t *testing.T) {
	a := catalog.BuildRouteQuery("Sharjah International Airport (SHJ)", "Colombo Bandaranaike International Airport (CMB)")
	b := catalog.BuildRouteQuery("Sharjah International Airport (SHJ)", "Colombo Bandaranaike International Airport (CMB)")

	assert.Equal(t, a, b)
}

// TestBuildRouteQuery_NoBracketFallsBackToPrefix verifies that free text
// without a bracketed code uses its first three characters, upper-cased.
func TestBuildRouteQuery_NoBracketFallsBackToPrefix(t *testing.T) {
	q := catalog.BuildRouteQuery("dubai", "ko")

	assert.Equal(t, "tag:from-DUB AND tag:to-KO AND product_type:Flight", q)
}

func TestExtractCode(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Karachi Jinnah International Airport (KHI)", "KHI"},
		{"Pune Airport (PNQ) Terminal 2", "PNQ"},
		{"Somewhere without code", ""},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, catalog.ExtractCode(tt.in))
		})
	}
}
