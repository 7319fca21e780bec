package jsonvalue

import (
	"testing"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode(t *testing.T) {
	v, err := Decode([]byte(`{"products":[{"id":3,"name":"Widget","ok":true,"none":null}],"n":-1.5e3}`))
	require.NoError(t, err)

	obj, ok := v.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, jx.Num("-1.5e3"), obj["n"])

	products, ok := obj["products"].([]any)
	require.True(t, ok)
	require.Len(t, products, 1)

	p, ok := products[0].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, jx.Num("3"), p["id"])
	assert.Equal(t, "Widget", p["name"])
	assert.Equal(t, true, p["ok"])
	assert.Contains(t, p, "none")
	assert.Nil(t, p["none"])
}

func TestDecode_Scalars(t *testing.T) {
	tests := []struct {
		input string
		want  any
	}{
		{input: `"text"`, want: "text"},
		{input: `42`, want: jx.Num("42")},
		{input: `false`, want: false},
		{input: `null`, want: nil},
		{input: `[]`, want: []any{}},
		{input: `{}`, want: map[string]any{}},
		{input: "  \n{}\t", want: map[string]any{}},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			v, err := Decode([]byte(tt.input))
			require.NoError(t, err)
			assert.Equal(t, tt.want, v)
		})
	}
}

func TestDecode_Invalid(t *testing.T) {
	for _, input := range []string{
		``,
		`   `,
		`{`,
		`{"products":[}`,
		`{} {}`,
		`{"a":1}garbage`,
		`undefined`,
		`'single'`,
	} {
		t.Run(input, func(t *testing.T) {
			v, err := Decode([]byte(input))
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalid))
			assert.Nil(t, v)
		})
	}
}

func TestDecode_NumberDoesNotAliasInput(t *testing.T) {
	data := []byte(`[12345]`)
	v, err := Decode(data)
	require.NoError(t, err)

	copy(data, `[99999]`)
	assert.Equal(t, []any{jx.Num("12345")}, v)
}
