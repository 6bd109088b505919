package cache

import "github.com/danmuck/rowcodec/internal/rows"

// RowCache holds one store per ledger entity kind.
type RowCache struct {
	assets      *Store[rows.AssetRow]
	templates   *Store[rows.TemplateRow]
	schemas     *Store[rows.SchemaRow]
	collections *Store[rows.CollectionRow]
	offers      *Store[rows.OfferRow]
}

// NewRowCache creates empty stores sharing opts.
func NewRowCache(opts ...Option) *RowCache {
	s := newSettings(opts)
	return &RowCache{
		assets:      newStore("asset", rows.AssetRow.Clone, s),
		templates:   newStore("template", rows.TemplateRow.Clone, s),
		schemas:     newStore("schema", rows.SchemaRow.Clone, s),
		collections: newStore("collection", rows.CollectionRow.Clone, s),
		offers:      newStore("offer", rows.OfferRow.Clone, s),
	}
}

func (c *RowCache) Asset(assetID string) Accessor[rows.AssetRow] {
	return c.assets.Key(assetID)
}

func (c *RowCache) Template(templateID string) Accessor[rows.TemplateRow] {
	return c.templates.Key(templateID)
}

func (c *RowCache) Schema(schemaName string) Accessor[rows.SchemaRow] {
	return c.schemas.Key(schemaName)
}

func (c *RowCache) Collection(collectionName string) Accessor[rows.CollectionRow] {
	return c.collections.Key(collectionName)
}

func (c *RowCache) Offer(offerID string) Accessor[rows.OfferRow] {
	return c.offers.Key(offerID)
}

// Prune drops expired entries from every store.
func (c *RowCache) Prune() int {
	return c.assets.Prune() + c.templates.Prune() + c.schemas.Prune() +
		c.collections.Prune() + c.offers.Prune()
}
