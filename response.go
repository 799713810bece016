package dwjdbc

// ResponseKind identifies the shape of a query result.
type ResponseKind uint8

const (
	// KindRows is a tabular result with column metadata.
	KindRows ResponseKind = iota
	// KindBoolean is a single true/false result (eg. SPARQL ASK).
	KindBoolean
	// KindGraph is a graph of triples (eg. SPARQL DESCRIBE/CONSTRUCT).
	KindGraph
)

// Response is the parsed result of one query. Exactly one parser produces
// it per call; ownership transfers to the caller on success. Only the
// fields matching Kind are populated.
type Response struct {
	Kind ResponseKind

	// Columns holds column names for KindRows, in server order.
	Columns []string
	// Rows holds one slice per result row for KindRows. A nil entry means
	// the variable was unbound in that row.
	Rows [][]Node

	// Boolean is the result for KindBoolean.
	Boolean bool

	// Triples is the result for KindGraph.
	Triples []Triple
}
