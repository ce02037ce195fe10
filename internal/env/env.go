// Package env implements the matcher's capture environment: an ordered,
// persistent mapping from metavariable name to its bound location and
// word. Persistence (binding returns a new Environment rather than
// mutating the receiver) is what gives the matcher's backtracking free
// rollback — a failed branch simply discards the Environment value it
// was holding and the caller's own copy is untouched.
package env

import "github.com/walteh/structgrep/internal/loc"

// Binding records a single metavariable's captured location and word.
type Binding struct {
	Name string
	Loc  loc.Loc
	Word string
}

// Environment is an ordered association list from metavariable name to
// Binding. Association lists, not a map, because pattern metavariable
// counts are small (spec budget: typically under ten) and insertion
// order must be preserved for deterministic capture output.
type Environment struct {
	bindings []Binding
}

// Empty returns a new, empty Environment.
func Empty() Environment {
	return Environment{}
}

// Lookup returns the binding for name and whether it exists.
func (e Environment) Lookup(name string) (Binding, bool) {
	for _, b := range e.bindings {
		if b.Name == name {
			return b, true
		}
	}
	return Binding{}, false
}

// Bind returns a new Environment with name bound to (l, word). The
// caller must already have checked that name is unbound or bound to an
// equal word — Bind does not itself re-check consistency, matching the
// matcher's unification table where that check happens at the call
// site.
func (e Environment) Bind(name string, l loc.Loc, word string) Environment {
	next := make([]Binding, len(e.bindings), len(e.bindings)+1)
	copy(next, e.bindings)
	next = append(next, Binding{Name: name, Loc: l, Word: word})
	return Environment{bindings: next}
}

// Bindings returns the bindings in insertion order. The returned slice
// shares the Environment's backing array, so callers must not modify
// it; Environment never mutates that array in place once shared (Bind
// always allocates a fresh one).
func (e Environment) Bindings() []Binding {
	return e.bindings
}

// Len reports the number of distinct metavariables bound so far.
func (e Environment) Len() int {
	return len(e.bindings)
}
