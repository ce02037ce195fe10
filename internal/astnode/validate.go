package astnode

import "gitlab.com/tozd/go/errors"

// ValidatePattern enforces the structural invariants a pattern AST must
// hold before it reaches the matcher: End appears at most once, and only
// as the final element of the sequence it occupies. Violations here come
// from user-written pattern text, so this returns an error rather than
// panicking — the matcher itself still panics if handed a malformed
// tree directly.
func ValidatePattern(nodes []Node) error {
	return validateSequence(nodes)
}

func validateSequence(nodes []Node) error {
	for i, n := range nodes {
		if n.IsList {
			if err := validateSequence(n.Children); err != nil {
				return errors.Wrapf(err, "invalid list at pattern position %d", i)
			}
			continue
		}
		if n.AtomKind == End && i != len(nodes)-1 {
			return errors.Errorf("End sentinel must be the final element of its sequence, found at position %d of %d", i, len(nodes))
		}
	}
	return nil
}
