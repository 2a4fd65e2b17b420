package sqlgen

import (
	"fmt"
	"strings"
)

// Column order of the catalog queries below is part of their contract: the decoders in
// package tables read results by position.

const listTablesQuery = `SELECT schemaname, tablename
FROM pg_catalog.pg_tables
WHERE schemaname != 'pg_catalog'
AND schemaname != 'information_schema'`

const tableDetailsQuery = `SELECT schemaname, tablename, tableowner, tablespace, hasindexes, hasrules, hastriggers
FROM pg_catalog.pg_tables
WHERE LOWER(schemaname) = '%s'
AND LOWER(tablename) = '%s';`

// The key_column_usage join matches on column_name so that composite keys do not
// multiply rows; a table has at most one PRIMARY KEY constraint.
const tableStructureQuery = `SELECT t.column_name::text,
	t.ordinal_position::int,
	t.is_nullable::text,
	t.data_type::text,
	t.character_maximum_length::int,
	(kcu.column_name IS NOT NULL) AS is_pk
FROM information_schema.columns t
LEFT JOIN information_schema.table_constraints tc
	ON tc.table_catalog = t.table_catalog
	AND tc.table_schema = t.table_schema
	AND tc.table_name = t.table_name
	AND tc.constraint_type = 'PRIMARY KEY'
LEFT JOIN information_schema.key_column_usage kcu
	ON kcu.table_catalog = tc.table_catalog
	AND kcu.table_schema = tc.table_schema
	AND kcu.table_name = tc.table_name
	AND kcu.constraint_name = tc.constraint_name
	AND kcu.column_name = t.column_name
WHERE LOWER(t.table_schema) = '%s'
AND LOWER(t.table_name) = '%s'
ORDER BY t.ordinal_position;`

// ListTables lists user tables, optionally restricted to one schema.
func ListTables(schemaFilter string) Statement {
	var sb strings.Builder
	sb.WriteString(listTablesQuery)
	if schemaFilter != "" {
		sb.WriteString("\nAND LOWER(schemaname) = '")
		sb.WriteString(strings.ToLower(schemaFilter))
		sb.WriteString("'")
	}
	sb.WriteString("\nORDER BY schemaname, tablename;")
	return newStatement(OpListTables, sb.String())
}

// TableDetails looks up the pg_tables entry of ref.
func TableDetails(ref TableRef) Statement {
	l := ref.lower()
	return newStatement(OpTableDetails, fmt.Sprintf(tableDetailsQuery, l.Schema, l.Name))
}

// TableStructure describes the columns of ref in ordinal order.
func TableStructure(ref TableRef) Statement {
	l := ref.lower()
	return newStatement(OpTableStructure, fmt.Sprintf(tableStructureQuery, l.Schema, l.Name))
}
