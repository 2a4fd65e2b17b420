package tables

import (
	"fmt"
	"math"
	"strconv"

	"github.com/google/uuid"
)

// TableInfo is one entry of the table list.
type TableInfo struct {
	Schema string `json:"schema"`
	Name   string `json:"name"`
}

// TableDetails is the pg_tables entry of one table.
type TableDetails struct {
	TableSchema string `json:"tableSchema"`
	TableName   string `json:"tableName"`
	TableOwner  string `json:"tableOwner"`
	TableSpace  string `json:"tableSpace"`
	HasIndexes  bool   `json:"hasIndexes"`
	HasRules    bool   `json:"hasRules"`
	HasTriggers bool   `json:"hasTriggers"`
}

// ColumnInfo describes one column of a table.
type ColumnInfo struct {
	ColumnName      string `json:"columnName"`
	OrdinalPosition int    `json:"ordinalPosition"`
	IsNullable      string `json:"isNullable"`
	DataType        string `json:"dataType"`
	FieldLength     *int   `json:"fieldLength"`
	IsPK            bool   `json:"isPK"`
}

// nullText replaces absent optional text columns.
const nullText = "null"

// Row decoders read catalog rows by column position, matching the queries in package sqlgen.

func decodeTableInfo(values []any) TableInfo {
	return TableInfo{
		Schema: asString(at(values, 0)),
		Name:   asString(at(values, 1)),
	}
}

func decodeTableDetails(values []any) TableDetails {
	space := asString(at(values, 3))
	if space == "" {
		space = nullText
	}
	return TableDetails{
		TableSchema: asString(at(values, 0)),
		TableName:   asString(at(values, 1)),
		TableOwner:  asString(at(values, 2)),
		TableSpace:  space,
		HasIndexes:  asBool(at(values, 4)),
		HasRules:    asBool(at(values, 5)),
		HasTriggers: asBool(at(values, 6)),
	}
}

func decodeColumnInfo(values []any) ColumnInfo {
	pos, _ := asInt(at(values, 1))
	col := ColumnInfo{
		ColumnName:      asString(at(values, 0)),
		OrdinalPosition: pos,
		IsNullable:      asString(at(values, 2)),
		DataType:        asString(at(values, 3)),
		IsPK:            asBool(at(values, 5)),
	}
	if n, ok := asInt(at(values, 4)); ok {
		col.FieldLength = &n
	}
	return col
}

func mapTableList(rows [][]any) any {
	out := make([]TableInfo, 0, len(rows))
	for _, r := range rows {
		out = append(out, decodeTableInfo(r))
	}
	return out
}

// mapTableDetails keeps the last row; no row yields an empty object.
func mapTableDetails(rows [][]any) any {
	if len(rows) == 0 {
		return struct{}{}
	}
	return decodeTableDetails(rows[len(rows)-1])
}

func mapTableStructure(rows [][]any) any {
	out := make([]ColumnInfo, 0, len(rows))
	for _, r := range rows {
		out = append(out, decodeColumnInfo(r))
	}
	return out
}

// mapSelectRows passes rows through as arrays, only rewriting values that would not
// encode to readable JSON.
func mapSelectRows(rows [][]any) any {
	out := make([][]any, 0, len(rows))
	for _, r := range rows {
		row := make([]any, len(r))
		for i, v := range r {
			row[i] = normalizeValue(v)
		}
		out = append(out, row)
	}
	return out
}

func normalizeValue(v any) any {
	switch val := v.(type) {
	case [16]byte:
		return uuid.UUID(val).String()
	case float64:
		return nonFinite(val, v)
	case float32:
		return nonFinite(float64(val), v)
	default:
		return v
	}
}

// nonFinite spells NaN and infinities the way PostgreSQL prints them, since JSON numbers
// cannot carry them.
func nonFinite(f float64, v any) any {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	default:
		return v
	}
}

func at(values []any, i int) any {
	if i < 0 || i >= len(values) {
		return nil
	}
	return values[i]
}

func asString(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case []byte:
		return string(val)
	case fmt.Stringer:
		return val.String()
	default:
		return fmt.Sprint(val)
	}
}

func asInt(v any) (int, bool) {
	switch val := v.(type) {
	case int:
		return val, true
	case int16:
		return int(val), true
	case int32:
		return int(val), true
	case int64:
		return int(val), true
	case string:
		n, err := strconv.Atoi(val)
		return n, err == nil
	default:
		return 0, false
	}
}

func asBool(v any) bool {
	switch val := v.(type) {
	case bool:
		return val
	case string:
		b, _ := strconv.ParseBool(val)
		return b
	default:
		return false
	}
}
