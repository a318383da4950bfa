package service_test

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/skyhopper/flight-compare/backend/internal/domain"
	"github.com/skyhopper/flight-compare/backend/internal/relay"
	"github.com/skyhopper/flight-compare/backend/internal/service"
)

// ---- catalog mocks ---------------------------------------------------------

// mockCatalog is a hand-written test double for every catalog interface the
// services depend on. Set only the fields your test needs; calls counts
// every method invocation.
type mockCatalog struct {
	searchProducts       func(ctx context.Context, query string) ([]domain.CatalogProduct, error)
	productByID          func(ctx context.Context, id string) (domain.CatalogProduct, error)
	collectionProducts   func(ctx context.Context, handle string) ([]domain.CatalogProduct, bool, error)
	collectionMetafields func(ctx context.Context, handle string) (domain.CollectionMeta, bool, error)

	calls atomic.Int64
}

func (m *mockCatalog) SearchProducts(ctx context.Context, query string) ([]domain.CatalogProduct, error) {
	m.calls.Add(1)
	return m.searchProducts(ctx, query)
}
func (m *mockCatalog) ProductByID(ctx context.Context, id string) (domain.CatalogProduct, error) {
	m.calls.Add(1)
	return m.productByID(ctx, id)
}
func (m *mockCatalog) CollectionProducts(ctx context.Context, handle string) ([]domain.CatalogProduct, bool, error) {
	m.calls.Add(1)
	return m.collectionProducts(ctx, handle)
}
func (m *mockCatalog) CollectionMetafields(ctx context.Context, handle string) (domain.CollectionMeta, bool, error) {
	m.calls.Add(1)
	return m.collectionMetafields(ctx, handle)
}

// compile-time checks: mockCatalog must satisfy every catalog interface.
var (
	_ service.FlightCatalog     = (*mockCatalog)(nil)
	_ service.CollectionCatalog = (*mockCatalog)(nil)
	_ service.MetafieldCatalog  = (*mockCatalog)(nil)
)

// ---- cache mock ------------------------------------------------------------

// memCache is an in-memory service.JSONCache holding already-encoded values.
type memCache struct {
	mu     sync.Mutex
	values map[string]domain.AirportData
	getErr error
	sets   int
}

func newMemCache() *memCache {
	return &memCache{values: map[string]domain.AirportData{}}
}

func (c *memCache) GetJSON(_ context.Context, key string, dest any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.getErr != nil {
		return false, c.getErr
	}
	v, ok := c.values[key]
	if !ok {
		return false, nil
	}
	*(dest.(*domain.AirportData)) = v
	return true, nil
}

func (c *memCache) SetJSON(_ context.Context, key string, value any, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.values[key] = value.(domain.AirportData)
	c.sets++
	return nil
}

var _ service.JSONCache = (*memCache)(nil)

// ---- contact mocks ---------------------------------------------------------

type mockRelay struct {
	send  func(ctx context.Context, sub relay.Submission) (relay.Reply, error)
	calls int
}

func (m *mockRelay) Send(ctx context.Context, sub relay.Submission) (relay.Reply, error) {
	m.calls++
	return m.send(ctx, sub)
}

var _ service.Relay = (*mockRelay)(nil)

type mockVerifier struct {
	verify func(ctx context.Context, token, remoteIP string) (bool, error)
}

func (m *mockVerifier) Verify(ctx context.Context, token, remoteIP string) (bool, error) {
	return m.verify(ctx, token, remoteIP)
}

var _ service.CaptchaVerifier = (*mockVerifier)(nil)

type mockContactLog struct {
	created []domain.ContactMessage
	err     error
}

func (m *mockContactLog) Create(_ context.Context, msg domain.ContactMessage) (domain.ContactMessage, error) {
	m.created = append(m.created, msg)
	return msg, m.err
}

var _ service.ContactLog = (*mockContactLog)(nil)

// countingObserver records every observation made by a service.
type countingObserver struct {
	mu     sync.Mutex
	counts map[string]int
}

func newCountingObserver() *countingObserver {
	return &countingObserver{counts: map[string]int{}}
}

func (o *countingObserver) ObserveAirportLookup(source string) { o.inc(source) }
func (o *countingObserver) ObserveContact(status string)       { o.inc(status) }

func (o *countingObserver) inc(k string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.counts[k]++
}

func (o *countingObserver) get(k string) int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.counts[k]
}

var (
	_ service.LookupObserver  = (*countingObserver)(nil)
	_ service.ContactObserver = (*countingObserver)(nil)
)

// ---- fixtures --------------------------------------------------------------

// fixedNow is "today" for every service test.
var fixedNow = time.Date(2025, 6, 1, 10, 30, 0, 0, time.UTC)

func clock() time.Time { return fixedNow }

func flightProduct(id, vendor, price, stops string) domain.CatalogProduct {
	return domain.CatalogProduct{
		ID:     "gid://shopify/Product/" + id,
		Vendor: vendor,
		Price:  domain.RawPrice{Amount: price, CurrencyCode: "AED"},
		Tags:   []string{"from-DXB", "to-BOM", "India"},
		Attributes: map[string]string{
			"flight.number":            vendor[:2] + id,
			"flight.stops":             stops,
			"flight.duration":          "3h 00m",
			"flight.departure_time":    "09:45",
			"flight.departure_airport": "Dubai International Airport (DXB)",
			"flight.arrival_airport":   "Mumbai International Airport (BOM)",
		},
	}
}
