// Package matcher implements the recursive, backtracking,
// continuation-passing structural matcher: the core of the tool. It
// aligns a pattern Node sequence against a document Node sequence,
// honoring indentation (List nesting), ellipsis (Dots) line-span caps,
// and metavariable capture/consistency, and exposes a search driver
// that finds every non-overlapping match in a document.
package matcher

import (
	"github.com/walteh/structgrep/internal/astnode"
	"github.com/walteh/structgrep/internal/env"
	"github.com/walteh/structgrep/internal/loc"
)

const ellipsisSpanLines = 10

// outcome is the result of a matchCore call: either a completion
// carrying the environment and the location of the last atom consumed,
// or a failure. Failure is the zero value, matching the spec's framing
// of Fail as "not an error" — a plain negative answer threaded by
// ordinary Go return values, never a panic.
type outcome struct {
	env  env.Environment
	last loc.Loc
	ok   bool
}

func complete(e env.Environment, last loc.Loc) outcome {
	return outcome{env: e, last: last, ok: true}
}

var failure = outcome{}

// cont is the continuation invoked when an atom-kind pattern element
// runs out of document to match against at its current nesting depth.
// It resumes matching against whatever document lies beyond the current
// structural boundary — a closure over the parent's document tail.
type cont func(pattern []astnode.Node, dots *int, e env.Environment, last loc.Loc) outcome

// terminalCont is the full-match continuation: it is used whenever there
// is genuinely no parent document to resume against (the top of a
// search attempt, or the contained side of an indented pattern block).
// It accepts empty pattern, collapses leading Dots, accepts a terminal
// End, and fails on anything else — it does not recurse into matchCore,
// since there is no more document at any level for it to consult.
func terminalCont(pattern []astnode.Node, dots *int, e env.Environment, last loc.Loc) outcome {
	for {
		if len(pattern) == 0 {
			return complete(e, last)
		}
		head := pattern[0]
		if head.IsList {
			return failure
		}
		switch head.AtomKind {
		case astnode.End:
			assertEndIsFinal(pattern)
			return complete(e, last)
		case astnode.Dots:
			cap := extendDots(dots, last)
			dots = &cap
			pattern = pattern[1:]
			continue
		default:
			return failure
		}
	}
}

func extendDots(dots *int, last loc.Loc) int {
	if dots == nil {
		return last.End.Line + ellipsisSpanLines
	}
	return *dots + ellipsisSpanLines
}

func skippable(l loc.Loc, dots *int) bool {
	return dots != nil && l.Line() <= *dots
}

func assertEndIsFinal(pattern []astnode.Node) {
	if len(pattern) != 1 {
		panic("matcher: End sentinel must be the final element of its pattern sequence")
	}
}

// matchCore is the single recursive implementation of rules R1-R5. It
// never mutates its arguments; env is a persistent value, so a failed
// branch simply discards the outcome it was building and the caller's
// own env is untouched — backtracking needs no explicit undo log.
func matchCore(dots *int, e env.Environment, last loc.Loc, pattern []astnode.Node, document []astnode.Node, k cont) outcome {
	// R1: empty pattern.
	if len(pattern) == 0 {
		if dots == nil {
			if len(document) == 0 {
				return complete(e, last)
			}
			return failure
		}
		newLast, within := allAtomsWithinCap(document, *dots, last)
		if !within {
			return failure
		}
		return complete(e, newLast)
	}

	head := pattern[0]
	rest := pattern[1:]

	// R2: terminal End.
	if !head.IsList && head.AtomKind == astnode.End {
		assertEndIsFinal(pattern)
		return complete(e, last)
	}

	// R3: indented block in pattern.
	if head.IsList {
		return matchList(dots, e, last, head.Children, rest, pattern, document, k)
	}

	// R4: ellipsis.
	if head.AtomKind == astnode.Dots {
		cap := extendDots(dots, last)
		return matchCore(&cap, e, last, rest, document, k)
	}

	// R5: plain atom (Word, Punct, Byte, Metavar).
	return matchAtom(dots, e, last, head, rest, pattern, document, k)
}

func matchList(dots *int, e env.Environment, last loc.Loc, pat1, pat2, pattern, document []astnode.Node, k cont) outcome {
	if len(document) > 0 && !document[0].IsList {
		dAtom := document[0]
		if skippable(dAtom.Loc, dots) {
			return matchCore(dots, e, last, pattern, document[1:], k)
		}
	}

	if len(document) > 0 && document[0].IsList {
		doc1 := document[0].Children
		doc2 := document[1:]
		r1 := matchCore(nil, e, last, pat1, doc1, terminalCont)
		if !r1.ok {
			return failure
		}
		return matchCore(dots, r1.env, r1.last, pat2, doc2, k)
	}

	// Document is empty, or is a flat atom that was not skippable: the
	// indented block can only match vacuously.
	if matchCore(nil, e, last, pat1, nil, terminalCont).ok {
		return matchCore(dots, e, last, pat2, document, k)
	}
	return failure
}

func matchAtom(dots *int, e env.Environment, last loc.Loc, head astnode.Node, patTail, pattern, document []astnode.Node, k cont) outcome {
	if len(document) == 0 {
		return k(pattern, dots, e, last)
	}

	dHead := document[0]
	if dHead.IsList {
		doc1 := dHead.Children
		doc2 := document[1:]
		resumeOuter := func(patRemaining []astnode.Node, dots2 *int, e2 env.Environment, last2 loc.Loc) outcome {
			return matchCore(dots2, e2, last2, patRemaining, doc2, k)
		}
		return matchCore(dots, e, last, pattern, doc1, resumeOuter)
	}

	if dots != nil && dHead.Loc.Line() > *dots {
		return failure
	}

	if newEnv, ok := unify(head, dHead, e); ok {
		return matchCore(nil, newEnv, dHead.Loc, patTail, document[1:], k)
	}

	if skippable(dHead.Loc, dots) {
		return matchCore(dots, e, last, pattern, document[1:], k)
	}

	return failure
}

// unify implements the atom unification table from spec section 4.1.
func unify(p, d astnode.Node, e env.Environment) (env.Environment, bool) {
	switch p.AtomKind {
	case astnode.Metavar:
		if d.AtomKind != astnode.Word {
			return e, false
		}
		if b, bound := e.Lookup(p.Text); bound {
			return e, b.Word == d.Text
		}
		return e.Bind(p.Text, d.Loc, d.Text), true
	case astnode.Word:
		return e, d.AtomKind == astnode.Word && p.Text == d.Text
	case astnode.Punct:
		return e, d.AtomKind == astnode.Punct && p.Text == d.Text
	case astnode.Byte:
		return e, d.AtomKind == astnode.Byte && p.Text == d.Text
	default:
		return e, false
	}
}

// allAtomsWithinCap walks document in pre-order (the same order the
// search driver uses), verifying every atom's line is at or before cap.
// It returns the location of the last atom visited (carried forward
// from seed when document holds no atoms at all) and whether the
// traversal stayed within the cap throughout.
func allAtomsWithinCap(document []astnode.Node, cap int, seed loc.Loc) (loc.Loc, bool) {
	cur := seed
	for _, n := range document {
		if n.IsList {
			next, ok := allAtomsWithinCap(n.Children, cap, cur)
			if !ok {
				return cur, false
			}
			cur = next
			continue
		}
		if n.Loc.Line() > cap {
			return cur, false
		}
		cur = n.Loc
	}
	return cur, true
}
