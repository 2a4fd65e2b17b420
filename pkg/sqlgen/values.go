package sqlgen

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// FormatValue renders a decoded JSON value as a SQL literal.
//
// null becomes null, strings are wrapped in single quotes without escaping, numbers and
// booleans keep their canonical text. Objects and arrays are rendered as quoted JSON text so
// they can target json/jsonb columns.
func FormatValue(v any) string {
	switch val := v.(type) {
	case nil:
		return "null"
	case string:
		return "'" + val + "'"
	case bool:
		return strconv.FormatBool(val)
	case json.Number:
		return val.String()
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(val), 'f', -1, 32)
	case map[string]any, []any:
		b, err := json.Marshal(val)
		if err != nil {
			return "null"
		}
		return "'" + string(b) + "'"
	default:
		return fmt.Sprint(val)
	}
}

// EncodeValues renders rows as the body of a VALUES clause: one parenthesised tuple per row,
// tuples separated by ",\n". No rows yields "". Row lengths are not checked against anything.
func EncodeValues(rows [][]any) string {
	var sb strings.Builder
	for i, row := range rows {
		if i > 0 {
			sb.WriteString(",\n")
		}
		sb.WriteByte('(')
		for j, v := range row {
			if j > 0 {
				sb.WriteByte(',')
			}
			sb.WriteString(FormatValue(v))
		}
		sb.WriteByte(')')
	}
	return sb.String()
}

// valueRows converts a decoded "values" field into rows. Anything other than an array of
// arrays is rejected.
func valueRows(raw any) ([][]any, bool) {
	outer, ok := raw.([]any)
	if !ok {
		return nil, false
	}
	rows := make([][]any, 0, len(outer))
	for _, r := range outer {
		row, ok := r.([]any)
		if !ok {
			return nil, false
		}
		rows = append(rows, row)
	}
	return rows, true
}
