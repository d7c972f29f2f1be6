package resolve

import (
	"strings"

	"github.com/oshima-research/edinet-cli/internal/model"
)

// FactStore indexes one filing's facts by lower-cased local tag name and its
// contexts by id. Construction is O(n); the store is never mutated after.
// Facts keep their document order, which downstream selection uses as the
// deterministic tie-break.
type FactStore struct {
	facts    []model.Fact
	byTag    map[string][]int
	contexts map[string]model.Context
}

// NewFactStore builds a store from the flat fact and context lists of one
// filing. Tag lookup is case-insensitive and namespace-agnostic.
func NewFactStore(facts []model.Fact, contexts []model.Context) *FactStore {
	s := &FactStore{
		facts:    facts,
		byTag:    make(map[string][]int, len(facts)),
		contexts: make(map[string]model.Context, len(contexts)),
	}
	for i, f := range facts {
		key := strings.ToLower(f.Tag)
		s.byTag[key] = append(s.byTag[key], i)
	}
	for _, c := range contexts {
		s.contexts[c.ID] = c
	}
	return s
}

// FactsForTag returns the facts whose local tag name equals tagName
// (case-insensitive), in document order.
func (s *FactStore) FactsForTag(tagName string) []model.Fact {
	idxs := s.byTag[strings.ToLower(tagName)]
	if len(idxs) == 0 {
		return nil
	}
	out := make([]model.Fact, len(idxs))
	for i, idx := range idxs {
		out[i] = s.facts[idx]
	}
	return out
}

// ContextFor resolves a fact's context reference. A dangling reference
// returns ok=false; callers treat such facts as lowest priority rather than
// excluding them.
func (s *FactStore) ContextFor(contextRef string) (model.Context, bool) {
	c, ok := s.contexts[contextRef]
	return c, ok
}

// Facts returns all facts in document order.
func (s *FactStore) Facts() []model.Fact {
	return s.facts
}

// Len returns the number of indexed facts.
func (s *FactStore) Len() int {
	return len(s.facts)
}
