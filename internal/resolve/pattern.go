package resolve

import "github.com/oshima-research/edinet-cli/internal/model"

// MatchPattern resolves a metric via the spec's ordered tag patterns: the
// first pattern with any facts wins, and among those facts the one in the
// best-ranked context is selected (document order breaks ties). Candidates
// are never merged across patterns. Returns ok=false when no pattern hits or
// every hit fails range validation.
func MatchPattern(store *FactStore, spec MetricSpec) (model.ResolvedMetric, bool) {
	for _, pattern := range spec.TagPatterns {
		facts := store.FactsForTag(pattern)
		if len(facts) == 0 {
			continue
		}
		ordered := orderByPriority(store, spec, facts)
		for _, f := range ordered {
			v, ok := ValidateValue(spec, f)
			if !ok {
				continue
			}
			return model.ResolvedMetric{
				Name:          spec.Name,
				Value:         &v,
				SourceTag:     f.Tag,
				SourceContext: f.ContextRef,
				Method:        model.MethodPattern,
			}, true
		}
		// The first pattern with hits decides the candidate set; a stop
		// here keeps lower-trust patterns from overriding it.
		return model.ResolvedMetric{}, false
	}
	return model.ResolvedMetric{}, false
}

// orderByPriority sorts candidate facts by context rank, keeping document
// order within each rank. When the spec requires consolidation preference
// and any consolidated candidate exists, non-consolidated candidates are
// dropped entirely.
func orderByPriority(store *FactStore, spec MetricSpec, facts []model.Fact) []model.Fact {
	if spec.Consolidate {
		facts = preferConsolidated(store, facts)
	}

	// Stable bucket sort over the four ranks preserves document order
	// within a rank, which is the documented tie-break.
	buckets := make([][]model.Fact, rankOther+1)
	for _, f := range facts {
		r := factRank(store, f)
		buckets[r] = append(buckets[r], f)
	}
	out := make([]model.Fact, 0, len(facts))
	for _, b := range buckets {
		out = append(out, b...)
	}
	return out
}

// preferConsolidated drops non-consolidated candidates when at least one
// consolidated candidate exists, so standalone-entity figures never shadow
// group figures.
func preferConsolidated(store *FactStore, facts []model.Fact) []model.Fact {
	var consolidated []model.Fact
	for _, f := range facts {
		if ctx, ok := store.ContextFor(f.ContextRef); ok && ctx.Entity == model.EntityConsolidated {
			consolidated = append(consolidated, f)
		}
	}
	if len(consolidated) == 0 {
		return facts
	}
	return consolidated
}

// factRank returns the priority rank of a fact's context. Facts with a
// dangling context reference rank last but stay in the candidate set.
func factRank(store *FactStore, f model.Fact) int {
	ctx, ok := store.ContextFor(f.ContextRef)
	if !ok {
		return rankOther
	}
	return PriorityRank(ctx)
}
