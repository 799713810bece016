package dwjdbc

import (
	"io"
	"strings"
	"testing"
)

type closeTracker struct {
	io.Reader
	closed bool
}

func (c *closeTracker) Close() error {
	c.closed = true
	return nil
}

func parseResults(t *testing.T, body string) (*Response, *closeTracker, error) {
	t.Helper()
	tracker := &closeTracker{Reader: strings.NewReader(body)}
	resp, err := NewResultsParser().Parse(tracker, "application/sparql-results+json")
	return resp, tracker, err
}

func TestResultsParserSelect(t *testing.T) {
	resp, tracker, err := parseResults(t, `{
	  "head": {"vars": ["name", "age"]},
	  "results": {"bindings": [
	    {"name": {"type": "literal", "value": "Alice", "xml:lang": "en"},
	     "age": {"type": "typed-literal", "value": "30", "datatype": "http://www.w3.org/2001/XMLSchema#integer"}},
	    {"name": {"type": "bnode", "value": "b0"}}
	  ]}
	}`)
	if err != nil {
		t.Fatalf("Parse() returned error: %v", err)
	}
	if !tracker.closed {
		t.Error("Parse() did not close the body")
	}
	if resp.Kind != KindRows {
		t.Fatalf("Kind = %d, want KindRows", resp.Kind)
	}
	if len(resp.Columns) != 2 || resp.Columns[0] != "name" || resp.Columns[1] != "age" {
		t.Errorf("Columns = %v", resp.Columns)
	}
	if len(resp.Rows) != 2 {
		t.Fatalf("len(Rows) = %d, want 2", len(resp.Rows))
	}
	if got := resp.Rows[0][0].String(); got != `"Alice"@en` {
		t.Errorf("Rows[0][0] = %s", got)
	}
	if got := resp.Rows[0][1].String(); got != `"30"^^<http://www.w3.org/2001/XMLSchema#integer>` {
		t.Errorf("Rows[0][1] = %s", got)
	}
	if got := resp.Rows[1][0].String(); got != "_:b0" {
		t.Errorf("Rows[1][0] = %s", got)
	}
	if resp.Rows[1][1] != nil {
		t.Errorf("unbound variable should be nil, got %v", resp.Rows[1][1])
	}
}

func TestResultsParserAsk(t *testing.T) {
	for _, tt := range []struct {
		body string
		want bool
	}{
		{`{"head": {}, "boolean": true}`, true},
		{`{"head": {}, "boolean": false}`, false},
	} {
		resp, _, err := parseResults(t, tt.body)
		if err != nil {
			t.Fatalf("Parse(%q) returned error: %v", tt.body, err)
		}
		if resp.Kind != KindBoolean || resp.Boolean != tt.want {
			t.Errorf("Parse(%q) = %+v, want boolean %v", tt.body, resp, tt.want)
		}
	}
}

func TestResultsParserMalformedJSON(t *testing.T) {
	_, tracker, err := parseResults(t, `{"head": {"vars": ["s"]}, "results": {`)
	if err == nil {
		t.Fatal("Parse() succeeded on malformed JSON")
	}
	if !tracker.closed {
		t.Error("Parse() did not close the body on failure")
	}
}

func TestResultsParserNeitherShape(t *testing.T) {
	_, tracker, err := parseResults(t, `{"head": {"vars": []}}`)
	if err == nil {
		t.Fatal("Parse() succeeded without boolean or bindings")
	}
	if !tracker.closed {
		t.Error("Parse() did not close the body on failure")
	}
}

func TestResultsParserUnknownTermType(t *testing.T) {
	_, _, err := parseResults(t, `{
	  "head": {"vars": ["s"]},
	  "results": {"bindings": [{"s": {"type": "mystery", "value": "x"}}]}
	}`)
	if err == nil || !strings.Contains(err.Error(), "mystery") {
		t.Errorf("Parse() error = %v, want unknown term type failure", err)
	}
}

func TestResultsParserAcceptType(t *testing.T) {
	want := "application/sparql-results+json, application/json"
	if got := NewResultsParser().AcceptType(); got != want {
		t.Errorf("AcceptType() = %q, want %q", got, want)
	}
}
