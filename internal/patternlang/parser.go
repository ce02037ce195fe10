// Package patternlang turns a --pattern string into the same Node tree
// shape documents lex into, additionally recognizing the pattern-only
// syntax: $NAME metavariables, ... ellipsis, and a trailing $$END$$
// sentinel. Grounded on the teacher's pkg/parser converter style: lex
// first with the ordinary tokenizer, then walk the flat token stream
// once to fold multi-token spellings into single pattern atoms.
package patternlang

import (
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/walteh/structgrep/internal/astnode"
	"github.com/walteh/structgrep/internal/lexer"
	"github.com/walteh/structgrep/internal/source"
	"gitlab.com/tozd/go/errors"
)

// Parse lexes text and folds it into a pattern Node tree. Syntax errors
// (an unterminated "$", a misplaced $$END$$) are aggregated and returned
// together rather than stopping at the first one, since this is
// user-facing input a person may need to fix in more than one place at
// once.
func Parse(text string) ([]astnode.Node, error) {
	style := detectStyle(text)
	raw := lexer.Lex(text, style, nil)

	nodes, err := fold(raw)
	if verr := astnode.ValidatePattern(nodes); verr != nil {
		err = multierror.Append(err, verr)
	}
	if err != nil {
		return nil, errors.Errorf("parsing pattern: %w", err)
	}
	return nodes, nil
}

func detectStyle(text string) source.IndentStyle {
	for _, line := range strings.Split(text, "\n") {
		if len(line) > 0 && (line[0] == ' ' || line[0] == '\t') {
			return source.IndentStyle{Unit: line[0], Width: 1}
		}
	}
	return source.IndentStyle{Unit: ' ', Width: 1}
}

// fold walks a flat, already-List-nested token sequence and collapses
// the pattern-only multi-token spellings into single atoms: two Puncts
// "$$" plus Word "END" plus two Puncts "$$" becomes End, a lone Punct
// "$" immediately followed by a Word becomes Metavar, and three
// adjacent Punct "." become Dots.
func fold(nodes []astnode.Node) ([]astnode.Node, error) {
	var errs *multierror.Error
	out := make([]astnode.Node, 0, len(nodes))

	i := 0
	for i < len(nodes) {
		n := nodes[i]

		if n.IsList {
			children, err := fold(n.Children)
			if err != nil {
				errs = multierror.Append(errs, err)
			}
			out = append(out, astnode.List(children))
			i++
			continue
		}

		if end, consumed, ok := tryEnd(nodes, i); ok {
			out = append(out, end)
			i += consumed
			continue
		}

		if mv, consumed, ok := tryMetavar(nodes, i); ok {
			out = append(out, mv)
			i += consumed
			continue
		}

		if dots, consumed, ok := tryDots(nodes, i); ok {
			out = append(out, dots)
			i += consumed
			continue
		}

		if isPunct(n, "$") {
			errs = multierror.Append(errs, errors.Errorf("unterminated metavariable at %s", n.Loc))
			i++
			continue
		}

		out = append(out, n)
		i++
	}

	return out, errs.ErrorOrNil()
}

func tryEnd(nodes []astnode.Node, i int) (astnode.Node, int, bool) {
	if i+4 >= len(nodes) {
		return astnode.Node{}, 0, false
	}
	a, b, c, d, e := nodes[i], nodes[i+1], nodes[i+2], nodes[i+3], nodes[i+4]
	if !(isPunct(a, "$") && isPunct(b, "$") && isWord(c, "END") && isPunct(d, "$") && isPunct(e, "$")) {
		return astnode.Node{}, 0, false
	}
	if !adjacent(a, b) || !adjacent(b, c) || !adjacent(c, d) || !adjacent(d, e) {
		return astnode.Node{}, 0, false
	}
	return astnode.Atom(astnode.End, "", a.Loc.Span(e.Loc)), 5, true
}

func tryMetavar(nodes []astnode.Node, i int) (astnode.Node, int, bool) {
	if i+1 >= len(nodes) {
		return astnode.Node{}, 0, false
	}
	dollar, name := nodes[i], nodes[i+1]
	if !isPunct(dollar, "$") || name.IsList || name.AtomKind != astnode.Word {
		return astnode.Node{}, 0, false
	}
	if !adjacent(dollar, name) {
		return astnode.Node{}, 0, false
	}
	return astnode.Atom(astnode.Metavar, name.Text, dollar.Loc.Span(name.Loc)), 2, true
}

func tryDots(nodes []astnode.Node, i int) (astnode.Node, int, bool) {
	if i+2 >= len(nodes) {
		return astnode.Node{}, 0, false
	}
	a, b, c := nodes[i], nodes[i+1], nodes[i+2]
	if !(isPunct(a, ".") && isPunct(b, ".") && isPunct(c, ".")) {
		return astnode.Node{}, 0, false
	}
	if !adjacent(a, b) || !adjacent(b, c) {
		return astnode.Node{}, 0, false
	}
	return astnode.Atom(astnode.Dots, "", a.Loc.Span(c.Loc)), 3, true
}

func isPunct(n astnode.Node, text string) bool {
	return !n.IsList && n.AtomKind == astnode.Punct && n.Text == text
}

func isWord(n astnode.Node, text string) bool {
	return !n.IsList && n.AtomKind == astnode.Word && n.Text == text
}

func adjacent(a, b astnode.Node) bool {
	return a.Loc.End.Offset == b.Loc.Start.Offset
}
