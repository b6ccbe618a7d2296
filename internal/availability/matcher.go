// Package availability cross-references externally named products against
// the store catalog and reports which of them are in stock.
package availability

import (
	"fmt"
	"strings"

	"github.com/Loftsmart/loft73-inventory-server/internal/shopify"
	"github.com/Loftsmart/loft73-inventory-server/platform/apperr"
)

// ExternalProduct is one caller-supplied entry to locate in the catalog.
// Only the name drives matching; every other field rides along untouched
// and comes back on the match result.
type ExternalProduct map[string]interface{}

// Name returns the entry's name field when it is present as a string.
func (p ExternalProduct) Name() (string, bool) {
	raw, ok := p["name"]
	if !ok {
		return "", false
	}

	name, ok := raw.(string)
	return name, ok
}

// MatchResult pairs one external product with the catalog product that
// claimed it. Both sides are final once the pair is recorded.
type MatchResult struct {
	ExternalProduct   ExternalProduct `json:"externalProduct"`
	CatalogProduct    shopify.Product `json:"catalogProduct"`
	AvailableQuantity int64           `json:"availableQuantity"`
}

// MatchSession owns one request's matching state: the shrinking lookup of
// still-unmatched external products plus the accumulated results. The lookup
// keeps insertion order because the greedy first-match rule depends on it;
// iterating a plain map would make tie-breaking random. Sessions are never
// shared across requests.
type MatchSession struct {
	keys        []string
	pending     map[string]ExternalProduct
	results     []MatchResult
	total       int
	catalogSeen int
}

// NewMatchSession validates the input list and builds the ordered lookup.
// Entries that normalize to an already-seen key overwrite the earlier entry
// but keep its position in the match order.
func NewMatchSession(products []ExternalProduct) (*MatchSession, error) {
	if len(products) == 0 {
		return nil, apperr.Validation("products array is required and must not be empty")
	}

	s := &MatchSession{
		keys:    make([]string, 0, len(products)),
		pending: make(map[string]ExternalProduct, len(products)),
	}

	for i, product := range products {
		name, ok := product.Name()
		if !ok || strings.TrimSpace(name) == "" {
			return nil, apperr.Validation(fmt.Sprintf("products[%d] is missing a name", i))
		}

		key := normalizeKey(name)
		if _, exists := s.pending[key]; !exists {
			s.keys = append(s.keys, key)
		}
		s.pending[key] = product
	}

	s.total = len(s.keys)

	return s, nil
}

// ProcessPage scans one catalog page in order, binding each catalog product
// to the first still-unmatched external key that passes the bidirectional
// substring test. A matched key leaves the lookup immediately, so no
// external product is ever matched twice. Catalog products that match
// nothing are skipped without error.
func (s *MatchSession) ProcessPage(products []shopify.Product) {
	for _, product := range products {
		s.catalogSeen++

		title := normalizeKey(product.Title)

		for i, key := range s.keys {
			if !strings.Contains(title, key) && !strings.Contains(key, title) {
				continue
			}

			s.results = append(s.results, MatchResult{
				ExternalProduct:   s.pending[key],
				CatalogProduct:    product,
				AvailableQuantity: sumInventory(product.Variants),
			})

			delete(s.pending, key)
			s.keys = append(s.keys[:i], s.keys[i+1:]...)
			break
		}
	}
}

// Results returns the matches accumulated so far, in match order.
func (s *MatchSession) Results() []MatchResult {
	return s.results
}

// TotalExternal is the number of distinct external products in this session.
func (s *MatchSession) TotalExternal() int {
	return s.total
}

// CatalogSeen is the number of catalog products processed so far.
func (s *MatchSession) CatalogSeen() int {
	return s.catalogSeen
}

// Unmatched is the number of external products still waiting for a match.
func (s *MatchSession) Unmatched() int {
	return len(s.keys)
}

// normalizeKey builds the identity key used on both sides of the match:
// lower-cased and whitespace-trimmed, nothing else. No accent folding, no
// punctuation stripping.
func normalizeKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// sumInventory totals variant stock, counting null inventory as zero. A
// product with no variants sums to zero but still counts as a match.
func sumInventory(variants []shopify.Variant) int64 {
	var total int64
	for _, v := range variants {
		if v.InventoryQuantity != nil {
			total += *v.InventoryQuantity
		}
	}
	return total
}
