// Package dwjdbc executes SQL and SPARQL queries against a remote query
// service over HTTP and returns strongly-typed results:
//
//   - Tabular rows with column metadata (SELECT)
//   - Booleans (ASK)
//   - Graphs of triples (DESCRIBE / CONSTRUCT)
//
// Design goals:
//   - The network connection is released as soon as the body is received:
//     a background task drains each response into a buffer that spills to
//     disk past a threshold, independent of parser speed
//   - Content negotiation over an ordered parser registry; graph formats
//     are preferred over tabular ones
//   - Strict timeout policy: callers can shrink but never exceed the hard
//     caps of 60s read / 5s connect
//   - Structural resource cleanup: no failure path leaks a connection,
//     stream, drain task or spill file
//   - Prometheus metrics and lightweight structured debug logging
//
// Typical usage:
//
//	client := dwjdbc.New("https://query.example.com/sql/owner/dataset",
//	    dwjdbc.WithAuthToken(token),
//	    dwjdbc.WithMetrics(),
//	)
//	defer client.Close()
//	resp, err := client.ExecuteQuery(ctx, dwjdbc.QueryRequest{
//	    Query: "select ?s ?p ?o where {?s ?p ?o} limit 10",
//	})
//
// Each call is a single attempt: there are no retries, no connection reuse
// across calls and no redirect following at this layer. Retry policy is
// strictly the caller's responsibility.
package dwjdbc
