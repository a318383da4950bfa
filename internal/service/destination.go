package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/skyhopper/flight-compare/backend/internal/catalog"
	"github.com/skyhopper/flight-compare/backend/internal/domain"
)

// CollectionCatalog is the part of the catalog client that reads a collection's products.
type CollectionCatalog interface {
	CollectionProducts(ctx context.Context, handle string) ([]domain.CatalogProduct, bool, error)
}

// DestinationService aggregates the featured collection into destinations.
type DestinationService struct {
	catalog CollectionCatalog
	handle  string
	log     *slog.Logger
}

// NewDestinationService constructs a DestinationService for the collection handle.
func NewDestinationService(c CollectionCatalog, handle string, logger *slog.Logger) *DestinationService {
	if logger == nil {
		logger = slog.Default()
	}
	return &DestinationService{catalog: c, handle: handle, log: logger}
}

// Popular returns one destination per arrival airport in the collection,
// most flight options first. A missing collection yields an empty list.
func (s *DestinationService) Popular(ctx context.Context) ([]domain.Destination, error) {
	products, found, err := s.catalog.CollectionProducts(ctx, s.handle)
	if err != nil {
		return nil, fmt.Errorf("service.DestinationService.Popular: %w", err)
	}
	if !found {
		s.log.InfoContext(ctx, "destination collection not found", slog.String("handle", s.handle))
	}
	return catalog.AggregateDestinations(products), nil
}

// ByID returns the destination with the given airport code.
func (s *DestinationService) ByID(ctx context.Context, id string) (domain.Destination, error) {
	all, err := s.Popular(ctx)
	if err != nil {
		return domain.Destination{}, fmt.Errorf("service.DestinationService.ByID: %w", err)
	}
	for _, d := range all {
		if d.ID == id {
			return d, nil
		}
	}
	return domain.Destination{}, fmt.Errorf("service.DestinationService.ByID: destination %s: %w", id, domain.ErrNotFound)
}
