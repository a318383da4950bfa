// Package storefront is the client for the hosted catalog's GraphQL
// Storefront API. It returns raw catalog records; mapping them onto flights
// and destinations is the catalog package's job.
package storefront

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/skyhopper/flight-compare/backend/internal/domain"
)

const (
	tokenHeader       = "X-Shopify-Storefront-Access-Token"
	defaultAPIVersion = "2024-01"
	defaultTimeout    = 10 * time.Second
	productGIDPrefix  = "gid://shopify/Product/"

	// maxResponseBytes caps how much of an upstream body is read.
	maxResponseBytes = 8 << 20
)

// Observer records the outcome and latency of each catalog query.
// Implemented by metrics.Metrics.
type Observer interface {
	ObserveCatalogQuery(query, outcome string, elapsed time.Duration)
}

// Outcome labels passed to Observer.
const (
	OutcomeOK    = "ok"
	OutcomeError = "error"
)

// Config configures a Client. Domain and Token are both required for the
// client to be enabled.
type Config struct {
	Domain     string
	Token      string
	APIVersion string
	Timeout    time.Duration

	// HTTPClient overrides the default client. Its Timeout is left alone.
	HTTPClient *http.Client
	Observer   Observer
	Logger     *slog.Logger
}

// Client calls the Storefront API.
type Client struct {
	endpoint string
	token    string
	http     *http.Client
	observer Observer
	log      *slog.Logger
}

// New builds a Client. A Client built without a domain or token is valid but
// every call returns domain.ErrFeatureDisabled.
func New(cfg Config) *Client {
	version := cfg.APIVersion
	if version == "" {
		version = defaultAPIVersion
	}
	hc := cfg.HTTPClient
	if hc == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		hc = &http.Client{Timeout: timeout}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	c := &Client{
		token:    cfg.Token,
		http:     hc,
		observer: cfg.Observer,
		log:      logger,
	}
	if cfg.Domain != "" && cfg.Token != "" {
		c.endpoint = Endpoint(cfg.Domain, version)
	}
	return c
}

// Endpoint returns the GraphQL URL for a store domain and API version.
// A domain given with a scheme is used as-is apart from trailing slashes.
func Endpoint(domain, version string) string {
	domain = strings.TrimRight(domain, "/")
	if !strings.Contains(domain, "://") {
		domain = "https://" + domain
	}
	return fmt.Sprintf("%s/api/%s/graphql.json", domain, version)
}

// Enabled reports whether the client has credentials to call the catalog.
func (c *Client) Enabled() bool {
	return c.endpoint != ""
}

// ProductGID turns a bare numeric product id into a global id. Values that
// already look like a global id are returned unchanged.
func ProductGID(id string) string {
	if strings.HasPrefix(id, "gid://") {
		return id
	}
	return productGIDPrefix + id
}

// CollectionProducts returns the products of the collection with the given
// handle. found is false when no such collection exists.
func (c *Client) CollectionProducts(ctx context.Context, handle string) ([]domain.CatalogProduct, bool, error) {
	var data collectionData
	if err := c.do(ctx, QueryCollection, collectionQuery, map[string]any{"handle": handle}, &data); err != nil {
		return nil, false, fmt.Errorf("storefront.Client.CollectionProducts: %w", err)
	}
	if data.Collection == nil {
		return []domain.CatalogProduct{}, false, nil
	}
	return toProducts(data.Collection.Products), true, nil
}

// CollectionMetafields returns the collection image and its custom
// attributes. found is false when no such collection exists.
func (c *Client) CollectionMetafields(ctx context.Context, handle string) (domain.CollectionMeta, bool, error) {
	var data collectionMetafieldsData
	if err := c.do(ctx, QueryCollectionMetafields, collectionMetafieldsQuery, map[string]any{"handle": handle}, &data); err != nil {
		return domain.CollectionMeta{}, false, fmt.Errorf("storefront.Client.CollectionMetafields: %w", err)
	}
	col := data.Collection
	if col == nil {
		return domain.CollectionMeta{Attributes: map[string]string{}}, false, nil
	}
	meta := domain.CollectionMeta{Attributes: attributes(col.Metafields)}
	if col.Image != nil {
		meta.ImageURL = col.Image.URL
	}
	return meta, true, nil
}

// SearchProducts runs a product search with the catalog's query language.
func (c *Client) SearchProducts(ctx context.Context, query string) ([]domain.CatalogProduct, error) {
	var data productsData
	if err := c.do(ctx, QueryProducts, productsQuery, map[string]any{"query": query}, &data); err != nil {
		return nil, fmt.Errorf("storefront.Client.SearchProducts: %w", err)
	}
	return toProducts(data.Products), nil
}

// ProductByID fetches a single product. id may be numeric or a global id.
func (c *Client) ProductByID(ctx context.Context, id string) (domain.CatalogProduct, error) {
	var data productData
	if err := c.do(ctx, QueryProduct, productQuery, map[string]any{"id": ProductGID(id)}, &data); err != nil {
		return domain.CatalogProduct{}, fmt.Errorf("storefront.Client.ProductByID: %w", err)
	}
	if data.Product == nil {
		return domain.CatalogProduct{}, fmt.Errorf("storefront.Client.ProductByID: product %s: %w", id, domain.ErrNotFound)
	}
	return toProduct(*data.Product), nil
}

// do posts one GraphQL document and decodes its data into out.
func (c *Client) do(ctx context.Context, name, query string, vars map[string]any, out any) (err error) {
	if !c.Enabled() {
		return fmt.Errorf("catalog credentials not configured: %w", domain.ErrFeatureDisabled)
	}

	start := time.Now()
	defer func() {
		outcome := OutcomeOK
		if err != nil {
			outcome = OutcomeError
			c.log.WarnContext(ctx, "catalog query failed",
				slog.String("query", name),
				slog.Duration("elapsed", time.Since(start)),
				slog.String("error", err.Error()),
			)
		}
		c.observe(name, outcome, time.Since(start))
	}()

	body, err := json.Marshal(graphQLRequest{Query: query, Variables: vars})
	if err != nil {
		return fmt.Errorf("encode %s request: %w", name, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build %s request: %w", name, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set(tokenHeader, c.token)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w: %w", name, domain.ErrUpstream, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("read %s response: %w: %w", name, domain.ErrUpstream, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%s: status %d: %w", name, resp.StatusCode, domain.ErrUpstream)
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return fmt.Errorf("decode %s response: %w: %w", name, domain.ErrUpstream, err)
	}
	if len(env.Errors) > 0 {
		msgs := make([]string, 0, len(env.Errors))
		for _, e := range env.Errors {
			msgs = append(msgs, e.Message)
		}
		return fmt.Errorf("%s: %s: %w", name, strings.Join(msgs, "; "), domain.ErrUpstream)
	}
	if len(env.Data) == 0 || string(env.Data) == "null" {
		return fmt.Errorf("%s: empty data: %w", name, domain.ErrUpstream)
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("decode %s data: %w: %w", name, domain.ErrUpstream, err)
	}
	return nil
}

func (c *Client) observe(name, outcome string, elapsed time.Duration) {
	if c.observer != nil {
		c.observer.ObserveCatalogQuery(name, outcome, elapsed)
	}
}
