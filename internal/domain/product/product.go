package product

import (
	"context"

	"github.com/go-faster/jx"
)

// Product represents one catalog item as published by the catalog API.
type Product struct {
	ID          int64
	Name        string
	Source      string
	Description string
	// Thumbnail is expected to be an image URL. It is not validated as one.
	Thumbnail string
}

// ProductList is the response envelope of the products endpoint.
type ProductList struct {
	Products []Product
}

// Empty returns the fallback list used whenever a response does not conform.
// The slice is non-nil so it encodes as [] rather than null.
func Empty() ProductList {
	return ProductList{Products: []Product{}}
}

// Repository defines read and write operations for the stored catalog.
type Repository interface {
	List(ctx context.Context) ([]Product, error)
	Upsert(ctx context.Context, p Product) error
}

// Encode writes p as a JSON object.
func (p Product) Encode(e *jx.Encoder) {
	e.ObjStart()
	e.FieldStart("id")
	e.Int64(p.ID)
	e.FieldStart("name")
	e.Str(p.Name)
	e.FieldStart("source")
	e.Str(p.Source)
	e.FieldStart("description")
	e.Str(p.Description)
	e.FieldStart("thumbnail")
	e.Str(p.Thumbnail)
	e.ObjEnd()
}

// Encode writes l as {"products":[...]}. A nil product slice is written as an
// empty array.
func (l ProductList) Encode(e *jx.Encoder) {
	e.ObjStart()
	e.FieldStart("products")
	e.ArrStart()
	for _, p := range l.Products {
		p.Encode(e)
	}
	e.ArrEnd()
	e.ObjEnd()
}

// MarshalJSON implements json.Marshaler.
func (l ProductList) MarshalJSON() ([]byte, error) {
	e := jx.GetEncoder()
	defer jx.PutEncoder(e)

	l.Encode(e)
	return append([]byte(nil), e.Bytes()...), nil
}
