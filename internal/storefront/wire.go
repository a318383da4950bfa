package storefront

import (
	"bytes"
	"encoding/json"

	"github.com/skyhopper/flight-compare/backend/internal/domain"
)

// graphQLRequest is the POST body of every Storefront call.
type graphQLRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables"`
}

type graphQLError struct {
	Message string `json:"message"`
}

// envelope is the outer GraphQL response. Data is decoded per query.
type envelope struct {
	Data   json.RawMessage `json:"data"`
	Errors []graphQLError  `json:"errors"`
}

// decimal accepts both the Storefront Decimal scalar (a JSON string) and a
// bare JSON number, keeping the text as-is.
type decimal string

func (d *decimal) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*d = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*d = decimal(s)
		return nil
	}
	*d = decimal(b)
	return nil
}

type metafield struct {
	Namespace string `json:"namespace"`
	Key       string `json:"key"`
	Value     string `json:"value"`
}

type imageConnection struct {
	Edges []struct {
		Node struct {
			URL string `json:"url"`
		} `json:"node"`
	} `json:"edges"`
}

type productNode struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	Vendor     string `json:"vendor"`
	PriceRange struct {
		MinVariantPrice *struct {
			Amount       decimal `json:"amount"`
			CurrencyCode string  `json:"currencyCode"`
		} `json:"minVariantPrice"`
	} `json:"priceRange"`
	Images     imageConnection `json:"images"`
	Tags       []string        `json:"tags"`
	Metafields []*metafield    `json:"metafields"`
}

type productConnection struct {
	Edges []struct {
		Node productNode `json:"node"`
	} `json:"edges"`
}

type collectionData struct {
	Collection *struct {
		ID       string            `json:"id"`
		Title    string            `json:"title"`
		Products productConnection `json:"products"`
	} `json:"collection"`
}

type collectionMetafieldsData struct {
	Collection *struct {
		ID    string `json:"id"`
		Title string `json:"title"`
		Image *struct {
			URL     string `json:"url"`
			AltText string `json:"altText"`
		} `json:"image"`
		Metafields []*metafield `json:"metafields"`
	} `json:"collection"`
}

type productsData struct {
	Products productConnection `json:"products"`
}

type productData struct {
	Product *productNode `json:"product"`
}

// attributes flattens metafields into "namespace.key" -> value. Null entries,
// returned for identifiers the product does not carry, are skipped.
func attributes(fields []*metafield) map[string]string {
	out := make(map[string]string, len(fields))
	for _, f := range fields {
		if f == nil {
			continue
		}
		out[f.Namespace+"."+f.Key] = f.Value
	}
	return out
}

func toProduct(n productNode) domain.CatalogProduct {
	p := domain.CatalogProduct{
		ID:         n.ID,
		Title:      n.Title,
		Vendor:     n.Vendor,
		Tags:       n.Tags,
		Attributes: attributes(n.Metafields),
	}
	if mvp := n.PriceRange.MinVariantPrice; mvp != nil {
		p.Price = domain.RawPrice{Amount: string(mvp.Amount), CurrencyCode: mvp.CurrencyCode}
	}
	for _, e := range n.Images.Edges {
		if e.Node.URL != "" {
			p.Images = append(p.Images, e.Node.URL)
		}
	}
	if p.Tags == nil {
		p.Tags = []string{}
	}
	return p
}

func toProducts(c productConnection) []domain.CatalogProduct {
	out := make([]domain.CatalogProduct, 0, len(c.Edges))
	for _, e := range c.Edges {
		out = append(out, toProduct(e.Node))
	}
	return out
}
