package product

import (
	"context"

	"github.com/shopspring/decimal"
)

// Product represents a catalog item as published by the upstream store.
// Values are treated as immutable once fetched.
type Product struct {
	ID          int
	Title       string
	Price       decimal.Decimal
	Description string
	Category    string
	Image       string
	Rating      Rating
}

// Rating holds the aggregated customer score of a product.
type Rating struct {
	Rate  decimal.Decimal
	Count int
}

// Source defines read access to the product catalog.
type Source interface {
	List(ctx context.Context) ([]Product, error)
}
