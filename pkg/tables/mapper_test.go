package tables

import (
	"encoding/json"
	"math"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapTableList(t *testing.T) {
	got := mapTableList([][]any{
		{"public", "users"},
		{"sales", "orders"},
	})
	assert.Equal(t, []TableInfo{
		{Schema: "public", Name: "users"},
		{Schema: "sales", Name: "orders"},
	}, got)

	assert.Equal(t, []TableInfo{}, mapTableList(nil))
}

func TestMapTableDetails(t *testing.T) {
	got := mapTableDetails([][]any{
		{"public", "users", "postgres", nil, true, false, true},
	})
	assert.Equal(t, TableDetails{
		TableSchema: "public",
		TableName:   "users",
		TableOwner:  "postgres",
		TableSpace:  "null",
		HasIndexes:  true,
		HasRules:    false,
		HasTriggers: true,
	}, got)

	withSpace := mapTableDetails([][]any{
		{"public", "users", "postgres", "fast_ssd", false, false, false},
	}).(TableDetails)
	assert.Equal(t, "fast_ssd", withSpace.TableSpace)

	b, err := json.Marshal(mapTableDetails(nil))
	require.NoError(t, err)
	assert.JSONEq(t, `{}`, string(b))
}

func TestMapTableStructure(t *testing.T) {
	got := mapTableStructure([][]any{
		{"id", int32(1), "NO", "integer", nil, true},
		{"name", int32(2), "YES", "character varying", int32(80), false},
	}).([]ColumnInfo)
	require.Len(t, got, 2)

	assert.Equal(t, "id", got[0].ColumnName)
	assert.Equal(t, 1, got[0].OrdinalPosition)
	assert.Equal(t, "NO", got[0].IsNullable)
	assert.Nil(t, got[0].FieldLength)
	assert.True(t, got[0].IsPK)

	require.NotNil(t, got[1].FieldLength)
	assert.Equal(t, 80, *got[1].FieldLength)
	assert.False(t, got[1].IsPK)

	b, err := json.Marshal(got[0])
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"columnName": "id",
		"ordinalPosition": 1,
		"isNullable": "NO",
		"dataType": "integer",
		"fieldLength": null,
		"isPK": true
	}`, string(b))
}

func TestMapSelectRows(t *testing.T) {
	id := uuid.MustParse("7d444840-9dc0-11d1-b245-5ffdce74fad2")
	ts := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

	got := mapSelectRows([][]any{
		{int32(1), "a", nil, [16]byte(id), ts},
	}).([][]any)
	require.Len(t, got, 1)
	assert.Equal(t, []any{int32(1), "a", nil, id.String(), ts}, got[0])

	assert.Equal(t, [][]any{}, mapSelectRows(nil))
}

func TestMapSelectRowsNonFinite(t *testing.T) {
	got := mapSelectRows([][]any{
		{math.NaN(), math.Inf(1), math.Inf(-1), float32(math.NaN()), 2.5, float32(1)},
	}).([][]any)
	assert.Equal(t, []any{"NaN", "Infinity", "-Infinity", "NaN", 2.5, float32(1)}, got[0])

	b, err := json.Marshal(got)
	require.NoError(t, err)
	assert.JSONEq(t, `[["NaN", "Infinity", "-Infinity", "NaN", 2.5, 1]]`, string(b))
}

func TestDecodersTolerateShortRows(t *testing.T) {
	assert.Equal(t, TableInfo{Schema: "public"}, decodeTableInfo([]any{"public"}))

	col := decodeColumnInfo([]any{"id"})
	assert.Equal(t, "id", col.ColumnName)
	assert.Nil(t, col.FieldLength)
}

func TestScalarHelpers(t *testing.T) {
	assert.Equal(t, "x", asString([]byte("x")))
	assert.Equal(t, "7", asString(7))
	assert.Equal(t, "", asString(nil))

	n, ok := asInt("12")
	assert.True(t, ok)
	assert.Equal(t, 12, n)
	n, ok = asInt(int64(3))
	assert.True(t, ok)
	assert.Equal(t, 3, n)
	_, ok = asInt(nil)
	assert.False(t, ok)

	assert.True(t, asBool("t"))
	assert.True(t, asBool(true))
	assert.False(t, asBool(nil))
}
