package listing

import (
	"strings"

	"github.com/xenking/storefront/internal/domain/product"
)

// Filter returns the products of base whose title or category contains
// query, ignoring case. An empty query matches everything. The result is a
// new slice in base order; base itself is left untouched.
func Filter(base []product.Product, query string) []product.Product {
	q := strings.ToLower(query)
	out := make([]product.Product, 0, len(base))
	for _, p := range base {
		if q == "" ||
			strings.Contains(strings.ToLower(p.Title), q) ||
			strings.Contains(strings.ToLower(p.Category), q) {
			out = append(out, p)
		}
	}
	return out
}
