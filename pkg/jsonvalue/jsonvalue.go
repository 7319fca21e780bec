// Package jsonvalue decodes arbitrary JSON into Go's generic value tree.
//
// Objects become map[string]any, arrays []any, strings string, booleans bool,
// null nil. Numbers are kept as jx.Num so the exact text sent by the peer
// survives decoding; callers decide whether they need an integer or a float.
package jsonvalue

import (
	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
)

// ErrInvalid is returned when the input is not exactly one JSON value.
var ErrInvalid = errors.New("invalid json")

// Decode parses data into a generic value tree. Trailing data after the
// first value, empty input and malformed input all return ErrInvalid.
func Decode(data []byte) (any, error) {
	if !jx.Valid(data) {
		return nil, ErrInvalid
	}
	v, err := decodeValue(jx.DecodeBytes(data))
	if err != nil {
		return nil, errors.Wrap(err, "decode value")
	}
	return v, nil
}

func decodeValue(d *jx.Decoder) (any, error) {
	switch tt := d.Next(); tt {
	case jx.Object:
		obj := map[string]any{}
		if err := d.Obj(func(d *jx.Decoder, key string) error {
			v, err := decodeValue(d)
			if err != nil {
				return errors.Wrapf(err, "field %q", key)
			}
			obj[key] = v
			return nil
		}); err != nil {
			return nil, err
		}
		return obj, nil
	case jx.Array:
		arr := []any{}
		if err := d.Arr(func(d *jx.Decoder) error {
			v, err := decodeValue(d)
			if err != nil {
				return errors.Wrapf(err, "element %d", len(arr))
			}
			arr = append(arr, v)
			return nil
		}); err != nil {
			return nil, err
		}
		return arr, nil
	case jx.String:
		return d.Str()
	case jx.Number:
		n, err := d.Num()
		if err != nil {
			return nil, err
		}
		// Num references the decoder buffer.
		return append(jx.Num(nil), n...), nil
	case jx.Bool:
		return d.Bool()
	case jx.Null:
		if err := d.Null(); err != nil {
			return nil, err
		}
		return nil, nil
	default:
		return nil, errors.Errorf("unexpected token %s", tt)
	}
}
