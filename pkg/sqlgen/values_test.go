package sqlgen

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatValue(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want string
	}{
		{"null", nil, "null"},
		{"string", "x", "'x'"},
		{"empty string", "", "''"},
		{"quote is not escaped", "O'Brien", "'O'Brien'"},
		{"true", true, "true"},
		{"false", false, "false"},
		{"json integer", json.Number("1"), "1"},
		{"json decimal keeps text", json.Number("1.50"), "1.50"},
		{"float64", 2.5, "2.5"},
		{"large float64", float64(1e21), "1000000000000000000000"},
		{"int", 42, "42"},
		{"object", map[string]any{"a": json.Number("1")}, `'{"a":1}'`},
		{"array", []any{"a", nil}, `'["a",null]'`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatValue(tt.in))
		})
	}
}

func TestEncodeValues(t *testing.T) {
	assert.Equal(t, "", EncodeValues(nil))
	assert.Equal(t, "", EncodeValues([][]any{}))
	assert.Equal(t, "('a',null)", EncodeValues([][]any{{"a", nil}}))
	assert.Equal(t, "('a'),\n('b')", EncodeValues([][]any{{"a"}, {"b"}}))

	// rows of different lengths are rendered as given
	assert.Equal(t, "(1,2),\n(3)", EncodeValues([][]any{
		{json.Number("1"), json.Number("2")},
		{json.Number("3")},
	}))
	assert.Equal(t, "()", EncodeValues([][]any{{}}))
}

func TestValueRows(t *testing.T) {
	rows, ok := valueRows([]any{[]any{"a"}, []any{}})
	assert.True(t, ok)
	assert.Len(t, rows, 2)

	_, ok = valueRows([]any{"a"})
	assert.False(t, ok)

	_, ok = valueRows(map[string]any{})
	assert.False(t, ok)

	_, ok = valueRows(nil)
	assert.False(t, ok)
}
