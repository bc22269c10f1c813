package listing

import (
	"context"

	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/xenking/storefront/internal/domain/product"
)

// Page is the outcome of rendering the listing for one request.
type Page struct {
	State    State
	Total    int
	Products []product.Product
}

// Service loads the base list and derives pages from it.
type Service struct {
	source product.Source
}

// NewService creates a Service backed by source.
func NewService(source product.Source) *Service {
	return &Service{source: source}
}

// Load fetches the base list. Any failure is logged and replaced by an
// empty list, so Load never fails.
func (s *Service) Load(ctx context.Context) []product.Product {
	products, err := s.source.List(ctx)
	if err != nil {
		zctx.From(ctx).Error("Load product catalog", zap.Error(err))
		return []product.Product{}
	}
	if products == nil {
		return []product.Product{}
	}
	return products
}

// Page loads the base list and derives the displayed products for state.
func (s *Service) Page(ctx context.Context, state State) Page {
	base := s.Load(ctx)
	return Page{
		State:    state,
		Total:    len(base),
		Products: Derive(base, state),
	}
}
