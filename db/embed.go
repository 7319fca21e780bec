// Package db embeds the catalog schema and the sample product list.
package db

import _ "embed"

// Schema creates the products table. It is idempotent.
//
//go:embed migrations/001_schema.sql
var Schema string

// SampleProducts is a small product list in the API envelope format, used by
// the seed tool when no file is given and by integration tests.
//
//go:embed seed/products.json
var SampleProducts []byte
