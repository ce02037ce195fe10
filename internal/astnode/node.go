// Package astnode defines the shared tree shape used for both the
// pattern language and the lexed document: a sequence of Nodes, each
// either a classified Atom or a nested List representing an indented
// block.
package astnode

import "github.com/walteh/structgrep/internal/loc"

// Kind classifies an Atom. Word, Punct, and Byte appear in both patterns
// and documents. Metavar, Dots, and End are pattern-only.
type Kind int

const (
	// Word is an identifier-like run of letters, digits, and underscores.
	Word Kind = iota
	// Punct is a single punctuation or symbol rune.
	Punct
	// Byte is a raw byte that did not classify as Word or Punct — the
	// fallback variant for binary-ish or malformed input.
	Byte
	// Metavar is a pattern-only named capture atom, e.g. $X.
	Metavar
	// Dots is a pattern-only ellipsis atom.
	Dots
	// End is a pattern-only explicit-end sentinel. Valid only as the
	// final element of a sequence.
	End
)

func (k Kind) String() string {
	switch k {
	case Word:
		return "Word"
	case Punct:
		return "Punct"
	case Byte:
		return "Byte"
	case Metavar:
		return "Metavar"
	case Dots:
		return "Dots"
	case End:
		return "End"
	default:
		return "Unknown"
	}
}

// Node is either an Atom or a List. Exactly one of the two accessors is
// meaningful; callers check IsList first.
type Node struct {
	// IsList distinguishes a List node from an Atom node.
	IsList bool

	// Atom fields, valid when IsList is false.
	Loc      loc.Loc
	AtomKind Kind
	// Text carries a Word's identifier text, a Punct's single rune as a
	// one-rune string, a Byte's single byte as a one-byte string, or a
	// Metavar's variable name. Unused by Dots and End.
	Text string

	// List fields, valid when IsList is true.
	Children []Node
}

// Atom constructs a leaf Node.
func Atom(kind Kind, text string, l loc.Loc) Node {
	return Node{AtomKind: kind, Text: text, Loc: l}
}

// List constructs an indented-block Node.
func List(children []Node) Node {
	return Node{IsList: true, Children: children}
}

// IsAtomKind reports whether a non-list node carries the given kind.
func (n Node) IsAtomKind(k Kind) bool {
	return !n.IsList && n.AtomKind == k
}
