package dwjdbc

import "testing"

func TestNodeCanonicalForms(t *testing.T) {
	tests := []struct {
		node Node
		want string
	}{
		{IRI{Value: "http://example.org/alice"}, "<http://example.org/alice>"},
		{Blank{ID: "b0"}, "_:b0"},
		{Literal{Lexical: "hello"}, `"hello"`},
		{Literal{Lexical: "bonjour", Lang: "fr"}, `"bonjour"@fr`},
		{Literal{Lexical: "42", Datatype: "http://www.w3.org/2001/XMLSchema#integer"},
			`"42"^^<http://www.w3.org/2001/XMLSchema#integer>`},
	}
	for _, tt := range tests {
		if got := tt.node.String(); got != tt.want {
			t.Errorf("%#v.String() = %q, want %q", tt.node, got, tt.want)
		}
	}
}

func TestNodeKinds(t *testing.T) {
	if (IRI{}).Kind() != NodeIRI {
		t.Error("IRI.Kind() != NodeIRI")
	}
	if (Blank{}).Kind() != NodeBlank {
		t.Error("Blank.Kind() != NodeBlank")
	}
	if (Literal{}).Kind() != NodeLiteral {
		t.Error("Literal.Kind() != NodeLiteral")
	}
}
