package listing

import (
	"slices"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/xenking/storefront/internal/domain/product"
)

// ErrUnknownSortMode is returned by ParseSortMode for unrecognised values.
var ErrUnknownSortMode = errors.New("unknown sort mode")

// SortMode enumerates the orderings a listing can be displayed in. The
// string value is the one used in query strings and form options.
type SortMode string

const (
	// SortNone keeps the filter order.
	SortNone SortMode = ""
	// SortPriceAsc orders by price, cheapest first.
	SortPriceAsc SortMode = "price-low-to-high"
	// SortPriceDesc orders by price, most expensive first.
	SortPriceDesc SortMode = "price-high-to-low"
	// SortRatingAsc orders by rating rate, lowest first.
	SortRatingAsc SortMode = "rating-low-to-high"
	// SortRatingDesc orders by rating rate, highest first.
	SortRatingDesc SortMode = "rating-high-to-low"
)

// SortModes lists every mode in the order they are offered to the user.
var SortModes = []SortMode{SortNone, SortPriceAsc, SortPriceDesc, SortRatingAsc, SortRatingDesc}

// ParseSortMode converts a wire value into a SortMode.
func ParseSortMode(s string) (SortMode, error) {
	m := SortMode(s)
	if !slices.Contains(SortModes, m) {
		return SortNone, errors.Wrapf(ErrUnknownSortMode, "%q", s)
	}
	return m, nil
}

// Label returns the human readable caption for the mode.
func (m SortMode) Label() string {
	switch m {
	case SortPriceAsc:
		return "Price: Low to High"
	case SortPriceDesc:
		return "Price: High to Low"
	case SortRatingAsc:
		return "Rating: Low to High"
	case SortRatingDesc:
		return "Rating: High to Low"
	default:
		return "Sort By"
	}
}

// key extracts the compared field and reports whether the order is descending.
func (m SortMode) key() (key func(product.Product) decimal.Decimal, desc bool) {
	switch m {
	case SortPriceAsc:
		return byPrice, false
	case SortPriceDesc:
		return byPrice, true
	case SortRatingAsc:
		return byRating, false
	case SortRatingDesc:
		return byRating, true
	default:
		return nil, false
	}
}

func byPrice(p product.Product) decimal.Decimal  { return p.Price }
func byRating(p product.Product) decimal.Decimal { return p.Rating.Rate }

// Sort returns a stably sorted copy of list. The input is never modified;
// SortNone returns the copy in input order.
func Sort(list []product.Product, mode SortMode) []product.Product {
	out := slices.Clone(list)
	if out == nil {
		out = []product.Product{}
	}

	key, desc := mode.key()
	if key == nil {
		return out
	}

	slices.SortStableFunc(out, func(a, b product.Product) int {
		c := key(a).Cmp(key(b))
		if desc {
			return -c
		}
		return c
	})
	return out
}
