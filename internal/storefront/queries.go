package storefront

import (
	_ "embed"
	"strings"
)

// The GraphQL documents are kept as .graphql files so they can be linted and
// pasted into the Storefront GraphiQL explorer unchanged.

//go:embed queries/fragments.graphql
var fragments string

//go:embed queries/collection.graphql
var collectionDoc string

//go:embed queries/collection_metafields.graphql
var collectionMetafieldsDoc string

//go:embed queries/products.graphql
var productsDoc string

//go:embed queries/product.graphql
var productDoc string

// Query names, used as the metrics label and in error messages.
const (
	QueryCollection           = "collection"
	QueryCollectionMetafields = "collection_metafields"
	QueryProducts             = "products"
	QueryProduct              = "product"
)

// withFragments appends the shared fragments to a document that uses them.
func withFragments(doc string) string {
	return strings.TrimSpace(doc) + "\n\n" + strings.TrimSpace(fragments) + "\n"
}

var (
	collectionQuery           = withFragments(collectionDoc)
	collectionMetafieldsQuery = strings.TrimSpace(collectionMetafieldsDoc) + "\n"
	productsQuery             = withFragments(productsDoc)
	productQuery              = withFragments(productDoc)
)
