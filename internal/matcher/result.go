package matcher

import (
	"github.com/walteh/structgrep/internal/env"
	"github.com/walteh/structgrep/internal/loc"
)

// Capture is a single named metavariable binding surfaced on a Match.
type Capture struct {
	Name  string
	Value string
	Loc   loc.Loc
}

// Match is one non-overlapping location where a pattern aligned with a
// document, along with the metavariable bindings made along the way.
type Match struct {
	Region   loc.Loc
	Captures []Capture
}

// toCaptures enumerates an Environment in insertion order. Because the
// matcher only ever calls Environment.Bind on a metavariable's first
// occurrence (repeat occurrences are consistency checks against the
// existing binding, see unify), this already excludes duplicates.
func toCaptures(e env.Environment) []Capture {
	bindings := e.Bindings()
	if len(bindings) == 0 {
		return nil
	}
	out := make([]Capture, 0, len(bindings))
	for _, b := range bindings {
		out = append(out, Capture{Name: b.Name, Value: b.Word, Loc: b.Loc})
	}
	return out
}
