package fakestore

import (
	"strings"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/shopspring/decimal"

	"github.com/xenking/storefront/internal/domain/product"
)

// decodeProducts reads a JSON array of store products. Unknown fields are
// skipped and text fields are passed through clean.
func decodeProducts(d *jx.Decoder, clean func(string) string) ([]product.Product, error) {
	products := make([]product.Product, 0, 32)
	err := d.Arr(func(d *jx.Decoder) error {
		var p product.Product
		if err := decodeProduct(d, &p, clean); err != nil {
			return errors.Wrapf(err, "product #%d", len(products))
		}
		products = append(products, p)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return products, nil
}

func decodeProduct(d *jx.Decoder, p *product.Product, clean func(string) string) error {
	return d.ObjBytes(func(d *jx.Decoder, key []byte) error {
		var err error
		switch string(key) {
		case "id":
			p.ID, err = d.Int()
		case "title":
			p.Title, err = decodeText(d, clean)
		case "price":
			p.Price, err = decodeDecimal(d)
		case "description":
			p.Description, err = decodeText(d, clean)
		case "category":
			p.Category, err = decodeText(d, clean)
		case "image":
			p.Image, err = decodeText(d, strings.TrimSpace)
		case "rating":
			err = decodeRating(d, &p.Rating)
		default:
			return d.Skip()
		}
		if err != nil {
			return errors.Wrap(err, string(key))
		}
		return nil
	})
}

func decodeRating(d *jx.Decoder, r *product.Rating) error {
	return d.ObjBytes(func(d *jx.Decoder, key []byte) error {
		var err error
		switch string(key) {
		case "rate":
			r.Rate, err = decodeDecimal(d)
		case "count":
			r.Count, err = d.Int()
		default:
			return d.Skip()
		}
		if err != nil {
			return errors.Wrap(err, string(key))
		}
		return nil
	})
}

// decodeText reads a string, treating null as empty.
func decodeText(d *jx.Decoder, clean func(string) string) (string, error) {
	if d.Next() == jx.Null {
		return "", d.Null()
	}
	s, err := d.Str()
	if err != nil {
		return "", err
	}
	return clean(s), nil
}

// decodeDecimal reads a number or a numeric string without going through
// float64.
func decodeDecimal(d *jx.Decoder) (decimal.Decimal, error) {
	n, err := d.Num()
	if err != nil {
		return decimal.Zero, err
	}
	v, err := decimal.NewFromString(strings.Trim(n.String(), `"`))
	if err != nil {
		return decimal.Zero, errors.Wrap(err, "parse decimal")
	}
	return v, nil
}
