package product

import (
	"fmt"
	"math"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"

	"github.com/xenking/apidoor-catalog/pkg/jsonvalue"
)

// ErrInvalidShape is returned when a payload does not have the product list
// shape.
var ErrInvalidShape = errors.New("payload is not a product list")

// IsProduct reports whether v is an object with a number "id" and string
// "name", "source", "description" and "thumbnail" fields.
//
// Any value is accepted. Missing fields, nil and non-object input simply fail
// the check.
func IsProduct(v any) bool {
	obj, ok := v.(map[string]any)
	if !ok {
		return false
	}
	return isNumber(obj["id"]) &&
		isString(obj["name"]) &&
		isString(obj["source"]) &&
		isString(obj["description"]) &&
		isString(obj["thumbnail"])
}

// IsProductList reports whether v is an object whose "products" field is an
// array where every element satisfies IsProduct. An empty array conforms.
func IsProductList(v any) bool {
	obj, ok := v.(map[string]any)
	if !ok {
		return false
	}
	products, ok := obj["products"].([]any)
	if !ok {
		return false
	}
	for _, p := range products {
		if !IsProduct(p) {
			return false
		}
	}
	return true
}

// AsProductList narrows v to a ProductList. It reports false if v does not
// satisfy IsProductList or if any id is not an integer that fits in int64.
func AsProductList(v any) (ProductList, bool) {
	if !IsProductList(v) {
		return ProductList{}, false
	}
	raw := v.(map[string]any)["products"].([]any)

	list := ProductList{Products: make([]Product, 0, len(raw))}
	for _, r := range raw {
		obj := r.(map[string]any)
		id, ok := asInt64(obj["id"])
		if !ok {
			return ProductList{}, false
		}
		list.Products = append(list.Products, Product{
			ID:          id,
			Name:        obj["name"].(string),
			Source:      obj["source"].(string),
			Description: obj["description"].(string),
			Thumbnail:   obj["thumbnail"].(string),
		})
	}
	return list, true
}

// DecodeProductList decodes and narrows a JSON product list. Unlike the
// fetch path it does not fall back: malformed or non-conforming input returns
// an error matching ErrInvalidShape.
func DecodeProductList(data []byte) (ProductList, error) {
	v, err := jsonvalue.Decode(data)
	if err != nil {
		return ProductList{}, invalidShape(err)
	}
	list, ok := AsProductList(v)
	if !ok {
		return ProductList{}, ErrInvalidShape
	}
	return list, nil
}

// invalidShape wraps a decode error so that it matches both ErrInvalidShape
// and err. errors.Wrap keeps only one error in the chain.
func invalidShape(err error) error {
	return fmt.Errorf("%w: %w", ErrInvalidShape, err)
}

func isString(v any) bool {
	_, ok := v.(string)
	return ok
}

func isNumber(v any) bool {
	switch n := v.(type) {
	case jx.Num:
		// Quoted numbers are strings on the wire.
		return len(n) > 0 && !n.Str()
	case float64, float32,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64:
		return true
	default:
		return false
	}
}

func asInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case jx.Num:
		if n.Str() {
			return 0, false
		}
		if i, err := n.Int64(); err == nil {
			return i, true
		}
		// Whole numbers in exponent or decimal form, e.g. 1e2 or 30e-1.
		f, err := n.Float64()
		if err != nil || math.Abs(f) > maxExactFloatInt {
			return 0, false
		}
		return floatToInt64(f)
	case float64:
		return floatToInt64(n)
	case float32:
		return floatToInt64(float64(n))
	case int:
		return int64(n), true
	case int8:
		return int64(n), true
	case int16:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case uint:
		return uintToInt64(uint64(n))
	case uint8:
		return int64(n), true
	case uint16:
		return int64(n), true
	case uint32:
		return int64(n), true
	case uint64:
		return uintToInt64(n)
	default:
		return 0, false
	}
}

// maxExactFloatInt bounds the magnitudes at which every integer is exactly
// representable as a float64.
const maxExactFloatInt = 1 << 53

func floatToInt64(f float64) (int64, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, false
	}
	// 2^63 is exactly representable; anything at or above it overflows.
	if f < math.MinInt64 || f >= math.MaxInt64 {
		return 0, false
	}
	return int64(f), true
}

func uintToInt64(u uint64) (int64, bool) {
	if u > math.MaxInt64 {
		return 0, false
	}
	return int64(u), true
}
