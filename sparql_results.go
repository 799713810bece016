package dwjdbc

import (
	"encoding/json"
	"fmt"
	"io"
)

// ResultsParser parses the SPARQL 1.1 Query Results JSON Format, which the
// query server uses for SQL and SPARQL SELECT/ASK responses.
type ResultsParser struct{}

// NewResultsParser creates a parser for tabular and boolean results.
func NewResultsParser() *ResultsParser {
	return &ResultsParser{}
}

// AcceptType declares the results-JSON media type and its plain-JSON synonym.
func (p *ResultsParser) AcceptType() string {
	return "application/sparql-results+json, application/json"
}

type resultsDocument struct {
	Head struct {
		Vars []string `json:"vars"`
	} `json:"head"`
	Boolean *bool `json:"boolean"`
	Results *struct {
		Bindings []map[string]resultsTerm `json:"bindings"`
	} `json:"results"`
}

type resultsTerm struct {
	Type     string `json:"type"`
	Value    string `json:"value"`
	Lang     string `json:"xml:lang"`
	Datatype string `json:"datatype"`
}

// Parse decodes the body into a boolean or tabular Response. It always
// closes the body, including on failure.
func (p *ResultsParser) Parse(body io.ReadCloser, contentType string) (*Response, error) {
	defer body.Close()

	var doc resultsDocument
	if err := json.NewDecoder(body).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decoding %s results: %w", contentType, err)
	}

	if doc.Boolean != nil {
		return &Response{Kind: KindBoolean, Boolean: *doc.Boolean}, nil
	}
	if doc.Results == nil {
		return nil, fmt.Errorf("decoding %s results: neither boolean nor bindings present", contentType)
	}

	resp := &Response{
		Kind:    KindRows,
		Columns: doc.Head.Vars,
		Rows:    make([][]Node, 0, len(doc.Results.Bindings)),
	}
	for _, binding := range doc.Results.Bindings {
		row := make([]Node, len(doc.Head.Vars))
		for i, name := range doc.Head.Vars {
			term, ok := binding[name]
			if !ok {
				continue // unbound variable
			}
			node, err := term.toNode()
			if err != nil {
				return nil, fmt.Errorf("decoding %s results: %w", contentType, err)
			}
			row[i] = node
		}
		resp.Rows = append(resp.Rows, row)
	}
	return resp, nil
}

func (t resultsTerm) toNode() (Node, error) {
	switch t.Type {
	case "uri":
		return IRI{Value: t.Value}, nil
	case "bnode":
		return Blank{ID: t.Value}, nil
	case "literal", "typed-literal":
		return Literal{Lexical: t.Value, Datatype: t.Datatype, Lang: t.Lang}, nil
	default:
		return nil, fmt.Errorf("unknown term type %q", t.Type)
	}
}
