package dwjdbc

import (
	"io"
	"strings"
)

// StreamParser turns a response body into a structured Response. Once a
// parser's Parse is invoked it is solely responsible for closing the
// stream, including when it fails partway through.
type StreamParser interface {
	// AcceptType returns the content types this parser handles as a
	// comma-separated list. Synonyms for the same logical format share one
	// declaration; the first entry is the one advertised most prominently.
	AcceptType() string

	// Parse consumes and closes body, producing a Response.
	Parse(body io.ReadCloser, contentType string) (*Response, error)
}

// StandardParsers returns the default registry, ordered from most to least
// desirable for content-type negotiation. Graph-shaped formats come first
// so servers that could answer either way prefer them.
func StandardParsers() []StreamParser {
	return []StreamParser{
		NewGraphParser(),   // SPARQL DESCRIBE/CONSTRUCT
		NewResultsParser(), // SQL or SPARQL SELECT/ASK
	}
}

// acceptHeader joins the accept types of all parsers in registry order.
func acceptHeader(parsers []StreamParser) string {
	types := make([]string, len(parsers))
	for i, p := range parsers {
		types[i] = p.AcceptType()
	}
	return strings.Join(types, ", ")
}

// selectParser picks the first parser, in registry order, declaring an
// accept type equal to the trimmed content type. It returns nil when
// nothing matches.
func selectParser(parsers []StreamParser, contentType string) StreamParser {
	for _, p := range parsers {
		for _, acceptType := range strings.Split(p.AcceptType(), ",") {
			if trimHeader(acceptType) == contentType {
				return p
			}
		}
	}
	return nil
}

// trimHeader strips any ";parameter" suffix and surrounding whitespace
// from a header value, eg. "application/json; charset=utf-8" becomes
// "application/json".
func trimHeader(header string) string {
	if i := strings.IndexByte(header, ';'); i >= 0 {
		header = header[:i]
	}
	return strings.TrimSpace(header)
}
