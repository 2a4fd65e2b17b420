// Package sqlgen turns a table identity and a loosely structured JSON request body into a single
// PostgreSQL statement.
//
// Every builder is a pure function. A request that cannot be translated yields an invalid
// [Statement] that still carries its Op; Valid reports false and callers must not execute it.
//
// Request bodies:
//
//	Operation | Body                                  | Notes
//	----------|---------------------------------------|----------------------------------------
//	select    | {"select": "a,b", "where": "a > 1"}   | both keys optional, select defaults to *
//	insert    | {"columns": "a,b", "values": [[...]]} | both keys required
//	delete    | {"where": "a = 1"}                    | where required, "" deletes every row
//
// A where condition that does not end with ';' is wrapped as `WHERE <cond>;`. A condition that
// already ends with ';' is appended verbatim, so callers may pass a full tail such as
// `WHERE a = 1 ORDER BY a;`.
//
// WARNING: values and conditions are inlined into the statement text without escaping. A string
// containing a single quote breaks the statement, and any caller able to reach these builders can
// run arbitrary SQL with the privileges of the connection. Production deployments must put the API
// behind an authenticating proxy and use a database role limited to the exposed tables.
package sqlgen
