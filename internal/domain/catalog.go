// Package domain contains the core data types for the flight-compare backend.
// This package has no internal dependencies and is imported by every other
// internal package (catalog, storefront, state, service, handler).
package domain

// RawPrice is the minimum-variant price exactly as the catalog returns it.
// Amount is a decimal string and may be empty.
type RawPrice struct {
	Amount       string
	CurrencyCode string
}

// CatalogProduct is a product record from the hosted catalog. Flights and
// destinations are both modeled as products carrying namespaced attributes.
//
// Attributes are keyed "namespace.key", e.g. "flight.departure_time".
type CatalogProduct struct {
	ID         string
	Title      string
	Vendor     string
	Price      RawPrice
	Images     []string
	Tags       []string
	Attributes map[string]string
}

// Attr returns the attribute value for namespace.key, or "" when absent.
func (p CatalogProduct) Attr(namespace, key string) string {
	return p.Attributes[namespace+"."+key]
}

// CollectionMeta is the collection-level data used for airport reference lists.
type CollectionMeta struct {
	ImageURL   string
	Attributes map[string]string
}
