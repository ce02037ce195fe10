package matcher

import (
	"github.com/walteh/structgrep/internal/astnode"
	"github.com/walteh/structgrep/internal/env"
	"github.com/walteh/structgrep/internal/loc"
)

// TryMatch attempts to align pattern against document starting exactly
// at start, using the full-match continuation (there is no parent
// document beyond what's passed in). It is the single-attempt primitive
// Search drives repeatedly across a document's atoms.
func TryMatch(pattern, document []astnode.Node, start loc.Loc) (Match, bool) {
	out := matchCore(nil, env.Empty(), start, pattern, document, terminalCont)
	if !out.ok {
		return Match{}, false
	}
	region := loc.Loc{Start: start.Start, End: out.last.End}
	return Match{Region: region, Captures: toCaptures(out.env)}, true
}

// Search traverses document in pre-order, attempting pattern at every
// atom's position against the remaining sequence from that atom onward
// (descending transparently into, and back out of, any Lists within
// that sequence; an attempt started inside a List does not continue
// past the end of that List into its parent). Matches are collected in
// source order and are pairwise non-overlapping: once a match is found,
// no further attempt is made at a start that does not sort strictly
// after the previous match's end.
func Search(pattern, document []astnode.Node) []Match {
	s := &searcher{pattern: pattern}
	s.walk(document)
	return s.matches
}

type searcher struct {
	pattern  []astnode.Node
	matches  []Match
	haveLast bool
	lastEnd  loc.Position
}

func (s *searcher) walk(sequence []astnode.Node) {
	for i, n := range sequence {
		if n.IsList {
			s.walk(n.Children)
			continue
		}
		if s.haveLast && !loc.After(s.lastEnd, n.Loc.Start) {
			continue
		}
		m, ok := TryMatch(s.pattern, sequence[i:], n.Loc)
		if !ok {
			continue
		}
		s.matches = append(s.matches, m)
		s.lastEnd = m.Region.End
		s.haveLast = true
	}
}
