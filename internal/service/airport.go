package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/skyhopper/flight-compare/backend/internal/catalog"
	"github.com/skyhopper/flight-compare/backend/internal/domain"
)

// MetafieldCatalog is the part of the catalog client that reads collection metafields.
type MetafieldCatalog interface {
	CollectionMetafields(ctx context.Context, handle string) (domain.CollectionMeta, bool, error)
}

// JSONCache is a shared key/value cache. Implemented by cache.Redis.
type JSONCache interface {
	GetJSON(ctx context.Context, key string, dest any) (bool, error)
	SetJSON(ctx context.Context, key string, value any, expiration time.Duration) error
}

// LookupObserver counts which layer answered an airport lookup.
type LookupObserver interface {
	ObserveAirportLookup(source string)
}

// Airport lookup sources.
const (
	SourceMemory  = "memory"
	SourceCache   = "cache"
	SourceCatalog = "catalog"
)

// AirportService loads the airport reference lists once and keeps them.
//
// Lookups go memory, then the shared cache, then the catalog. Concurrent
// misses share one upstream request.
type AirportService struct {
	catalog  MetafieldCatalog
	handle   string
	ttl      time.Duration
	cacheKey string
	cache    JSONCache
	observer LookupObserver
	now      func() time.Time
	log      *slog.Logger
	group    singleflight.Group

	mu       sync.Mutex
	memo     domain.AirportData
	loadedAt time.Time
	loaded   bool
}

// NewAirportService constructs an AirportService. A ttl <= 0 keeps the
// lists until Refresh.
func NewAirportService(c MetafieldCatalog, handle string, ttl time.Duration, logger *slog.Logger) *AirportService {
	if logger == nil {
		logger = slog.Default()
	}
	return &AirportService{
		catalog:  c,
		handle:   handle,
		ttl:      ttl,
		cacheKey: "flightcompare:airports:" + handle,
		now:      time.Now,
		log:      logger,
	}
}

// WithCache adds a shared cache stored under key.
func (s *AirportService) WithCache(c JSONCache, key string) *AirportService {
	s.cache = c
	if key != "" {
		s.cacheKey = key
	}
	return s
}

// WithObserver records lookup sources, typically into metrics.
func (s *AirportService) WithObserver(o LookupObserver) *AirportService {
	s.observer = o
	return s
}

// WithClock replaces the clock used for memo expiry.
func (s *AirportService) WithClock(now func() time.Time) *AirportService {
	s.now = now
	return s
}

// Get returns the airport lists, loading them if needed.
func (s *AirportService) Get(ctx context.Context) (domain.AirportData, error) {
	if data, ok := s.fresh(); ok {
		s.observe(SourceMemory)
		return data, nil
	}
	v, err, _ := s.group.Do(s.handle, func() (any, error) {
		if data, ok := s.fresh(); ok {
			s.observe(SourceMemory)
			return data, nil
		}
		return s.load(context.WithoutCancel(ctx), true)
	})
	if err != nil {
		return domain.AirportData{}, fmt.Errorf("service.AirportService.Get: %w", err)
	}
	return v.(domain.AirportData), nil
}

// Refresh refetches from the catalog, skipping memory and the shared cache,
// and replaces both.
func (s *AirportService) Refresh(ctx context.Context) (domain.AirportData, error) {
	v, err, _ := s.group.Do(s.handle+":refresh", func() (any, error) {
		return s.load(context.WithoutCancel(ctx), false)
	})
	if err != nil {
		return domain.AirportData{}, fmt.Errorf("service.AirportService.Refresh: %w", err)
	}
	return v.(domain.AirportData), nil
}

func (s *AirportService) fresh() (domain.AirportData, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.loaded {
		return domain.AirportData{}, false
	}
	if s.ttl > 0 && s.now().Sub(s.loadedAt) >= s.ttl {
		return domain.AirportData{}, false
	}
	return s.memo, true
}

func (s *AirportService) store(data domain.AirportData) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.memo = data
	s.loadedAt = s.now()
	s.loaded = true
}

func (s *AirportService) load(ctx context.Context, useCache bool) (domain.AirportData, error) {
	if useCache && s.cache != nil {
		var cached domain.AirportData
		found, err := s.cache.GetJSON(ctx, s.cacheKey, &cached)
		if err != nil {
			s.log.WarnContext(ctx, "airport cache read failed", slog.String("key", s.cacheKey), slog.String("error", err.Error()))
		}
		if found {
			s.store(cached)
			s.observe(SourceCache)
			return cached, nil
		}
	}

	meta, found, err := s.catalog.CollectionMetafields(ctx, s.handle)
	if err != nil {
		return domain.AirportData{}, err
	}
	if !found {
		s.log.InfoContext(ctx, "airport collection not found", slog.String("handle", s.handle))
	}
	data := catalog.ParseAirportData(meta)
	s.store(data)
	s.observe(SourceCatalog)

	if s.cache != nil {
		if err := s.cache.SetJSON(ctx, s.cacheKey, data, s.ttl); err != nil {
			s.log.WarnContext(ctx, "airport cache write failed", slog.String("key", s.cacheKey), slog.String("error", err.Error()))
		}
	}
	return data, nil
}

func (s *AirportService) observe(source string) {
	if s.observer != nil {
		s.observer.ObserveAirportLookup(source)
	}
}
