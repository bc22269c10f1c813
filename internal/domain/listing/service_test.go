package listing

import (
	"context"
	"testing"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/xenking/storefront/internal/domain/product"
)

// --- Mock implementations ---

type mockSource struct {
	products []product.Product
	err      error
	calls    int
}

func (m *mockSource) List(_ context.Context) ([]product.Product, error) {
	m.calls++
	return m.products, m.err
}

// --- Tests ---

func TestServiceLoad(t *testing.T) {
	src := &mockSource{products: testCatalog()}
	svc := NewService(src)

	got := svc.Load(context.Background())
	assert.Equal(t, ids(testCatalog()), ids(got))
	assert.Equal(t, 1, src.calls)
}

func TestServiceLoad_FallbackOnError(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	ctx := zctx.Base(context.Background(), zap.New(core))

	svc := NewService(&mockSource{err: errors.New("connection refused")})

	got := svc.Load(ctx)
	require.NotNil(t, got)
	assert.Empty(t, got)

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "Load product catalog", entry.Message)
	assert.Equal(t, "connection refused", entry.ContextMap()["error"])
}

func TestServiceLoad_NilListBecomesEmpty(t *testing.T) {
	svc := NewService(&mockSource{})

	got := svc.Load(context.Background())
	require.NotNil(t, got)
	assert.Empty(t, got)
}

func TestServicePage(t *testing.T) {
	svc := NewService(&mockSource{products: testCatalog()})

	page := svc.Page(context.Background(), State{Query: "jacket", Sort: SortPriceAsc})
	assert.Equal(t, State{Query: "jacket", Sort: SortPriceAsc}, page.State)
	assert.Equal(t, 7, page.Total)
	assert.Equal(t, []int{5, 1, 4}, ids(page.Products))
}

func TestServicePage_SourceFailure(t *testing.T) {
	svc := NewService(&mockSource{err: errors.New("bad gateway")})

	page := svc.Page(context.Background(), State{Query: "tee", Sort: SortRatingDesc})
	assert.Equal(t, 0, page.Total)
	require.NotNil(t, page.Products)
	assert.Empty(t, page.Products)
}
