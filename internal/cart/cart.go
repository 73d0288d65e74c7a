// Package cart derives the display-ready cart from two independently fetched
// collections, the server's raw cart and the product catalog, and mutates
// the remote cart through a guarded add/update protocol.
//
// The enriched cart is a pure function of its sources. It is regenerated
// wholesale whenever either source changes and never patched field by field;
// that keeps client state from drifting away from what the server holds.
package cart

import "github.com/qkart/qkart/internal/api"

// Item is one display-ready cart line: its product's fields joined with the
// quantity the server holds for it.
type Item struct {
	ProductID string
	Name      string
	Category  string
	Cost      int64
	Rating    int
	Image     string
	Quantity  int
}

// ItemsFrom joins raw cart entries with a catalog snapshot. For each entry
// whose product is present in the catalog it emits one Item; entries whose
// productId has no match are dropped silently, since the two collections can
// transiently disagree while concurrent fetches are in flight. Output order
// follows the entries. A nil entries slice (no session, or cart not fetched
// yet) yields an empty cart.
func ItemsFrom(entries []api.CartEntry, products []api.Product) []Item {
	items := make([]Item, 0, len(entries))
	if entries == nil {
		return items
	}

	byID := make(map[string]api.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	for _, entry := range entries {
		product, ok := byID[entry.ProductID]
		if !ok {
			continue
		}
		items = append(items, Item{
			ProductID: product.ID,
			Name:      product.Name,
			Category:  product.Category,
			Cost:      product.Cost,
			Rating:    product.Rating,
			Image:     product.Image,
			Quantity:  entry.Quantity,
		})
	}
	return items
}

// Contains reports whether the cart already holds the given product.
func Contains(items []Item, productID string) bool {
	for _, item := range items {
		if item.ProductID == productID {
			return true
		}
	}
	return false
}

// Total returns the cart's total value.
func Total(items []Item) int64 {
	var total int64
	for _, item := range items {
		total += item.Cost * int64(item.Quantity)
	}
	return total
}
