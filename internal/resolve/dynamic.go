package resolve

import (
	"sort"
	"strings"

	"github.com/oshima-research/edinet-cli/internal/model"
)

// Context bonuses added to the keyword score. They encode the same
// preference order the pattern path gets from priority ranks.
const (
	bonusCurrentYear  = 10
	bonusConsolidated = 8
	bonusPeriodEnd    = 5
)

// periodEndIndicators are tag substrings marking an end-of-period balance,
// rewarded when the metric prefers period-end figures.
var periodEndIndicators = []string{
	"attheendof",
	"endoffiscalyear",
	"asof",
}

// scoredFact pairs a candidate fact with its keyword score and its original
// document position for the deterministic tie-break.
type scoredFact struct {
	fact  model.Fact
	score int
	order int
}

// SearchDynamic resolves a metric by scoring every fact in the filing against
// the spec's keyword table. Facts scoring zero or below are discarded;
// survivors are tried best-first until one passes range validation. Returns
// ok=false when nothing scores positive or everything fails validation.
func SearchDynamic(store *FactStore, spec MetricSpec) (model.ResolvedMetric, bool) {
	if len(spec.Keywords) == 0 {
		return model.ResolvedMetric{}, false
	}

	var candidates []scoredFact
	for i, f := range store.Facts() {
		score := scoreFact(store, spec, f)
		if score <= 0 {
			continue
		}
		candidates = append(candidates, scoredFact{fact: f, score: score, order: i})
	}
	if len(candidates) == 0 {
		return model.ResolvedMetric{}, false
	}
	if spec.Consolidate {
		candidates = preferConsolidatedScored(store, candidates)
	}

	sort.SliceStable(candidates, func(a, b int) bool {
		if candidates[a].score != candidates[b].score {
			return candidates[a].score > candidates[b].score
		}
		return candidates[a].order < candidates[b].order
	})

	for _, c := range candidates {
		v, ok := ValidateValue(spec, c.fact)
		if !ok {
			continue
		}
		return model.ResolvedMetric{
			Name:          spec.Name,
			Value:         &v,
			SourceTag:     c.fact.Tag,
			SourceContext: c.fact.ContextRef,
			Method:        model.MethodDynamic,
		}, true
	}
	return model.ResolvedMetric{}, false
}

// scoreFact sums the keyword weights matching the lower-cased tag name, then
// adds context bonuses. A tag with no keyword match scores zero regardless of
// context, so bonuses alone never qualify a fact.
func scoreFact(store *FactStore, spec MetricSpec, f model.Fact) int {
	tag := strings.ToLower(f.Tag)

	score := 0
	matched := false
	for kw, weight := range spec.Keywords {
		if strings.Contains(tag, kw) {
			score += weight
			if weight > 0 {
				matched = true
			}
		}
	}
	if !matched || score <= 0 {
		return 0
	}

	ctx, ok := store.ContextFor(f.ContextRef)
	if ok {
		if ctx.Label == model.PeriodCurrentYear {
			score += bonusCurrentYear
		}
		if ctx.Entity == model.EntityConsolidated {
			score += bonusConsolidated
		}
	}
	if spec.Period == PreferPeriodEnd {
		for _, ind := range periodEndIndicators {
			if strings.Contains(tag, ind) {
				score += bonusPeriodEnd
				break
			}
		}
	}
	return score
}

// preferConsolidatedScored mirrors the pattern path's consolidation filter
// for scored candidates.
func preferConsolidatedScored(store *FactStore, candidates []scoredFact) []scoredFact {
	var consolidated []scoredFact
	for _, c := range candidates {
		if ctx, ok := store.ContextFor(c.fact.ContextRef); ok && ctx.Entity == model.EntityConsolidated {
			consolidated = append(consolidated, c)
		}
	}
	if len(consolidated) == 0 {
		return candidates
	}
	return consolidated
}
