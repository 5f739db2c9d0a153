package filter

import "github.com/rilsonjoas/alternativas-br-sub001/internal/textmatch"

// foldSet is a set of normalized facet values.
type foldSet map[string]struct{}

// newFoldSet returns nil when values holds nothing but blanks, meaning the
// facet is unconstrained.
func newFoldSet(values []string) foldSet {
	var s foldSet
	for _, v := range values {
		n := textmatch.Normalize(v)
		if n == "" {
			continue
		}
		if s == nil {
			s = make(foldSet, len(values))
		}
		s[n] = struct{}{}
	}
	return s
}

func (s foldSet) has(v string) bool {
	if v == "" {
		return false
	}
	_, ok := s[textmatch.Normalize(v)]
	return ok
}
