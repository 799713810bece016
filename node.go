package dwjdbc

import "fmt"

// NodeKind identifies query-language term types.
type NodeKind uint8

const (
	// NodeIRI represents an IRI term.
	NodeIRI NodeKind = iota
	// NodeBlank represents a blank node reference.
	NodeBlank
	// NodeLiteral represents a literal term.
	NodeLiteral
)

// Node is a query-language term value. The transport treats nodes as
// opaque: all it relies on is the canonical wire-string form returned by
// String, which is sent verbatim as a form field value.
type Node interface {
	Kind() NodeKind
	String() string
}

// IRI is an IRI term.
type IRI struct {
	// Value is the IRI string value.
	Value string
}

// Kind returns NodeIRI.
func (i IRI) Kind() NodeKind { return NodeIRI }

// String returns the IRI in angle brackets.
func (i IRI) String() string { return "<" + i.Value + ">" }

// Blank is a blank node reference.
type Blank struct {
	// ID is the blank node identifier.
	ID string
}

// Kind returns NodeBlank.
func (b Blank) Kind() NodeKind { return NodeBlank }

// String returns the identifier prefixed with "_:".
func (b Blank) String() string { return "_:" + b.ID }

// Literal is a literal term with an optional datatype or language tag.
type Literal struct {
	// Lexical is the lexical form of the literal.
	Lexical string
	// Datatype is the datatype IRI, if any.
	Datatype string
	// Lang is the language tag, if any.
	Lang string
}

// Kind returns NodeLiteral.
func (l Literal) Kind() NodeKind { return NodeLiteral }

// String returns the canonical N-Triples-style form of the literal.
func (l Literal) String() string {
	if l.Lang != "" {
		return fmt.Sprintf("%q@%s", l.Lexical, l.Lang)
	}
	if l.Datatype != "" {
		return fmt.Sprintf("%q^^<%s>", l.Lexical, l.Datatype)
	}
	return fmt.Sprintf("%q", l.Lexical)
}

// Triple is one statement in a graph-shaped response.
type Triple struct {
	// S is the subject.
	S Node
	// P is the predicate.
	P Node
	// O is the object.
	O Node
}
