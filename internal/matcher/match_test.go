package matcher

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/structgrep/internal/astnode"
	"github.com/walteh/structgrep/internal/loc"
)

// Pattern atoms carry no meaningful location: unification never inspects
// a pattern atom's Loc, only its Kind and Text, so tests build pattern
// nodes with a zero Loc throughout.
func pw(text string) astnode.Node   { return astnode.Atom(astnode.Word, text, loc.Loc{}) }
func pp(ch string) astnode.Node     { return astnode.Atom(astnode.Punct, ch, loc.Loc{}) }
func pm(name string) astnode.Node   { return astnode.Atom(astnode.Metavar, name, loc.Loc{}) }
func pdots() astnode.Node           { return astnode.Atom(astnode.Dots, "", loc.Loc{}) }
func pend() astnode.Node            { return astnode.Atom(astnode.End, "", loc.Loc{}) }
func plist(ns ...astnode.Node) astnode.Node { return astnode.List(ns) }

// docBuilder assigns strictly increasing byte offsets to document atoms
// in construction order, which is all the matcher needs to reason about
// source order and non-overlap.
type docBuilder struct{ offset int }

func (d *docBuilder) next(n int) loc.Loc {
	start := loc.Position{Offset: d.offset}
	d.offset += n + 1
	end := loc.Position{Offset: start.Offset + n}
	return loc.Loc{Start: start, End: end}
}

func (d *docBuilder) w(line int, text string) astnode.Node {
	l := d.next(len(text))
	l.Start.Line, l.End.Line = line, line
	return astnode.Atom(astnode.Word, text, l)
}

func (d *docBuilder) p(line int, ch string) astnode.Node {
	l := d.next(len(ch))
	l.Start.Line, l.End.Line = line, line
	return astnode.Atom(astnode.Punct, ch, l)
}

func dlist(ns ...astnode.Node) astnode.Node { return astnode.List(ns) }

// scenario 1: flat exact — spec section 8, scenario 1.
func TestSearch_FlatExact(t *testing.T) {
	pattern := []astnode.Node{pw("f"), pp("("), pw("x"), pp(")"), pp("{"), pw("a"), pp(";"), pp("}")}

	d := &docBuilder{}
	doc := []astnode.Node{
		d.w(0, "f"), d.p(0, "("), d.w(0, "x"), d.p(0, ")"),
		d.p(0, "{"), d.w(0, "a"), d.p(0, ";"), d.p(0, "}"),
	}

	matches := Search(pattern, doc)
	require.Len(t, matches, 1)
	assert.Empty(t, matches[0].Captures)
	assert.Equal(t, doc[0].Loc.Start, matches[0].Region.Start)
	assert.Equal(t, doc[len(doc)-1].Loc.End, matches[0].Region.End)
}

// scenario 2: flat pattern transparently crosses an indented document
// block — spec section 8, scenario 2.
func TestSearch_FlatMatchesIndented(t *testing.T) {
	pattern := []astnode.Node{pw("f"), pp("("), pw("x"), pp(")"), pp("{"), pw("a"), pp(";"), pp("}")}

	d := &docBuilder{}
	doc := []astnode.Node{
		d.w(0, "f"), d.p(0, "("), d.w(0, "x"), d.p(0, ")"), d.p(0, "{"),
		dlist(d.w(1, "a"), d.p(1, ";")),
		d.p(2, "}"),
	}

	matches := Search(pattern, doc)
	require.Len(t, matches, 1)
}

// scenario 3: an indented pattern refuses a flat document — spec
// section 8, scenario 3.
func TestSearch_IndentedPatternRefusesFlat(t *testing.T) {
	pattern := []astnode.Node{
		pw("f"), pp("("), pw("x"), pp(")"), pp("{"),
		plist(pw("a"), pp(";")),
		pp("}"),
	}

	d := &docBuilder{}
	doc := []astnode.Node{
		d.w(0, "f"), d.p(0, "("), d.w(0, "x"), d.p(0, ")"),
		d.p(0, "{"), d.w(0, "a"), d.p(0, ";"), d.p(0, "}"),
	}

	matches := Search(pattern, doc)
	assert.Empty(t, matches)
}

// scenario 4: metavariable capture and reuse — spec section 8, scenario 4.
func TestSearch_MetavariableCaptureAndReuse(t *testing.T) {
	pattern := []astnode.Node{
		pw("f"), pp("("), pm("X"), pp(")"), pp(";"),
		pw("g"), pp("("), pm("X"), pp(")"),
	}

	t.Run("consistent reuse matches", func(t *testing.T) {
		d := &docBuilder{}
		doc := []astnode.Node{
			d.w(0, "f"), d.p(0, "("), d.w(0, "y"), d.p(0, ")"), d.p(0, ";"),
			d.w(0, "g"), d.p(0, "("), d.w(0, "y"), d.p(0, ")"),
		}
		matches := Search(pattern, doc)
		require.Len(t, matches, 1)
		require.Len(t, matches[0].Captures, 1)
		assert.Equal(t, "X", matches[0].Captures[0].Name)
		assert.Equal(t, "y", matches[0].Captures[0].Value)
	})

	t.Run("inconsistent reuse fails", func(t *testing.T) {
		d := &docBuilder{}
		doc := []astnode.Node{
			d.w(0, "f"), d.p(0, "("), d.w(0, "y"), d.p(0, ")"), d.p(0, ";"),
			d.w(0, "g"), d.p(0, "("), d.w(0, "z"), d.p(0, ")"),
		}
		matches := Search(pattern, doc)
		assert.Empty(t, matches)
	})
}

// scenario 5: ellipsis line-span cap — spec section 8, scenario 5.
func TestSearch_EllipsisSpan(t *testing.T) {
	pattern := []astnode.Node{pw("a"), pdots(), pw("b")}

	t.Run("within ten lines matches", func(t *testing.T) {
		d := &docBuilder{}
		doc := []astnode.Node{d.w(0, "a"), d.w(5, "b")}
		matches := Search(pattern, doc)
		require.Len(t, matches, 1)
		assert.Equal(t, doc[0].Loc.Start, matches[0].Region.Start)
		assert.Equal(t, doc[1].Loc.End, matches[0].Region.End)
	})

	t.Run("beyond ten lines fails", func(t *testing.T) {
		d := &docBuilder{}
		doc := []astnode.Node{d.w(0, "a"), d.w(11, "b")}
		matches := Search(pattern, doc)
		assert.Empty(t, matches)
	})
}

// explicit End sentinel accepts unconditionally, including with an
// unmatched document tail — the documented R1/R2 asymmetry.
func TestMatch_ExplicitEndAcceptsTrailingDocument(t *testing.T) {
	pattern := []astnode.Node{pw("a"), pend()}

	d := &docBuilder{}
	doc := []astnode.Node{d.w(0, "a"), d.w(0, "b"), d.w(0, "c")}

	m, ok := TryMatch(pattern, doc, doc[0].Loc)
	require.True(t, ok)
	assert.Equal(t, doc[0].Loc.Start, m.Region.Start)
}

func TestMatch_EndSentinelMustBeFinal(t *testing.T) {
	pattern := []astnode.Node{pend(), pw("a")}
	d := &docBuilder{}
	doc := []astnode.Node{d.w(0, "a")}

	assert.Panics(t, func() {
		TryMatch(pattern, doc, doc[0].Loc)
	})
}

func TestMatch_EmptyPatternRequiresEmptyDocumentWithoutDots(t *testing.T) {
	pattern := []astnode.Node{pw("a")}
	d := &docBuilder{}
	doc := []astnode.Node{d.w(0, "a"), d.w(0, "b")}

	_, ok := TryMatch(pattern, doc, doc[0].Loc)
	assert.False(t, ok, "bare pattern must consume the entire remaining document when no ellipsis is active")
}
