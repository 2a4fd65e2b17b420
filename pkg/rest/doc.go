// Package rest serves the table API over HTTP.
//
// Routes:
//
//	Method | Path                              | Body
//	-------|-----------------------------------|---------------------------------------
//	GET    | /                                 | liveness
//	GET    | /tables, /tables/{schema}         | list tables, optionally of one schema
//	GET    | /tables/{schema}/{name}           | pg_tables entry of one table
//	GET    | /tables/{schema}/{name}/structure | columns of one table
//	POST   | /select/{schema}/{name}           | {"select": "a, b", "where": "a > 1"}
//	POST   | /insert/{schema}/{name}           | {"columns": "a,b", "values": [[1, "x"]]}
//	POST   | /delete/{schema}/{name}           | {"where": "a = 1"}
//
// Every response is a pretty-printed JSON object holding exactly one of "results" and
// "error", sent with 200 or 500 respectively. Schema and table names are matched
// case-insensitively.
//
// The API has no authentication and inlines request values into SQL. Only expose it to
// trusted clients.
//
// Example usage:
//
//	svc := tables.NewService(pgx.PoolAcquirer{Pool: pool}, &tables.Options{Logger: logger})
//	srv := rest.NewServer(svc, &rest.Options{Logger: logger, LogRequests: true})
//	if err := srv.Start(":8080"); err != nil && err != http.ErrServerClosed {
//		logger.Fatal("server failed", zap.Error(err))
//	}
package rest
