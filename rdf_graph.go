package dwjdbc

import (
	"context"
	"fmt"
	"io"

	"github.com/geoknoesis/rdf-go/rdf"
)

// GraphParser parses graph-shaped responses (SPARQL DESCRIBE/CONSTRUCT)
// by streaming statements through the rdf-go decoders.
type GraphParser struct{}

// NewGraphParser creates a parser for graph results.
func NewGraphParser() *GraphParser {
	return &GraphParser{}
}

// AcceptType declares the graph media types, most desirable first.
func (p *GraphParser) AcceptType() string {
	return "text/turtle, application/rdf+xml, application/n-triples, application/ld+json"
}

var graphFormats = map[string]rdf.Format{
	"text/turtle":           rdf.FormatTurtle,
	"application/rdf+xml":   rdf.FormatRDFXML,
	"application/n-triples": rdf.FormatNTriples,
	"application/ld+json":   rdf.FormatJSONLD,
}

// Parse streams the body into a triple-per-statement Response. It always
// closes the body, including on failure.
func (p *GraphParser) Parse(body io.ReadCloser, contentType string) (*Response, error) {
	defer body.Close()

	format, ok := graphFormats[contentType]
	if !ok {
		return nil, fmt.Errorf("no graph format for content type %q", contentType)
	}

	resp := &Response{Kind: KindGraph}
	err := rdf.Parse(context.Background(), body, format, func(stmt rdf.Statement) error {
		subject, err := termToNode(stmt.S)
		if err != nil {
			return err
		}
		object, err := termToNode(stmt.O)
		if err != nil {
			return err
		}
		resp.Triples = append(resp.Triples, Triple{
			S: subject,
			P: IRI{Value: stmt.P.Value},
			O: object,
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("decoding %s graph: %w", contentType, err)
	}
	return resp, nil
}

func termToNode(term rdf.Term) (Node, error) {
	switch t := term.(type) {
	case rdf.IRI:
		return IRI{Value: t.Value}, nil
	case rdf.BlankNode:
		return Blank{ID: t.ID}, nil
	case rdf.Literal:
		return Literal{Lexical: t.Lexical, Datatype: t.Datatype.Value, Lang: t.Lang}, nil
	default:
		return nil, fmt.Errorf("unsupported term %T in graph response", term)
	}
}
