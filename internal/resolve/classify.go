package resolve

import (
	"strings"
	"time"

	"github.com/oshima-research/edinet-cli/internal/model"
)

// nonConsolidatedMarker is the taxonomy member indicating standalone-entity
// (parent-only) reporting. Contexts without it default to consolidated,
// the taxonomy's default scope.
const nonConsolidatedMarker = "nonconsolidatedmember"

// Priority ranks combining period and entity scope. Lower is better. Ranks
// order candidates; they never drop a context outright.
const (
	rankConsolidatedCurrent = 0
	rankCurrentYear         = 1
	rankConsolidated        = 2
	rankOther               = 3
)

// ClassifyContexts annotates every context with its period label and entity
// dimension. The period label is derived from the context's end (or instant)
// date relative to the filing's fiscal year end: the latest end not after the
// fiscal year end is current-year, earlier ends are prior-year, anything
// after is other. When the fiscal year end is unknown, context id substrings
// are used as a fallback, matching how filers name their contexts.
func ClassifyContexts(contexts []model.Context, meta model.FilingMeta) []model.Context {
	out := make([]model.Context, len(contexts))

	// Locate the current-year boundary: the latest period end at or before
	// the fiscal year end.
	var currentEnd time.Time
	if !meta.FiscalYearEnd.IsZero() {
		for _, c := range contexts {
			if c.End.IsZero() || c.End.After(meta.FiscalYearEnd) {
				continue
			}
			if c.End.After(currentEnd) {
				currentEnd = c.End
			}
		}
	}

	for i, c := range contexts {
		c.Entity = classifyEntity(c)
		c.Label = classifyPeriod(c, meta.FiscalYearEnd, currentEnd)
		out[i] = c
	}
	return out
}

func classifyEntity(c model.Context) model.EntityDimension {
	for _, m := range c.Members {
		if strings.Contains(strings.ToLower(m.Member), nonConsolidatedMarker) {
			return model.EntityNonConsolidated
		}
	}
	return model.EntityConsolidated
}

func classifyPeriod(c model.Context, fiscalYearEnd, currentEnd time.Time) model.PeriodLabel {
	if fiscalYearEnd.IsZero() {
		// No filing metadata: fall back to the conventional context id
		// naming used across EDINET filings.
		id := c.ID
		switch {
		case strings.Contains(id, "CurrentYear"):
			return model.PeriodCurrentYear
		case strings.Contains(id, "Prior"):
			return model.PeriodPriorYear
		default:
			return model.PeriodOther
		}
	}
	if c.End.IsZero() || c.End.After(fiscalYearEnd) {
		return model.PeriodOther
	}
	if c.End.Equal(currentEnd) {
		return model.PeriodCurrentYear
	}
	return model.PeriodPriorYear
}

// PriorityRank maps a classified context to its selection rank:
// consolidated current-year data first, then current-year, then
// consolidated, then everything else.
func PriorityRank(c model.Context) int {
	consolidated := c.Entity == model.EntityConsolidated
	current := c.Label == model.PeriodCurrentYear
	switch {
	case consolidated && current:
		return rankConsolidatedCurrent
	case current:
		return rankCurrentYear
	case consolidated:
		return rankConsolidated
	default:
		return rankOther
	}
}
