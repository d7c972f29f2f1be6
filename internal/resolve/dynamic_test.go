package resolve

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oshima-research/edinet-cli/internal/model"
)

func TestSearchDynamicResolvesUnpatternedTag(t *testing.T) {
	// No spec pattern names this tag, but the keyword table scores it.
	facts := []model.Fact{
		{Tag: "NumberOfSharesIssuedAtTheEndOfFiscalYear", ContextRef: "CurrentYearInstant", RawValue: "75000000"},
		{Tag: "OperatingIncome", ContextRef: "CurrentYearInstant", RawValue: "400000000"},
	}
	store := NewFactStore(facts, classifiedContexts())

	m, ok := SearchDynamic(store, sharesSpec())
	require.True(t, ok)
	require.NotNil(t, m.Value)
	assert.Equal(t, 75_000_000.0, *m.Value)
	assert.Equal(t, "NumberOfSharesIssuedAtTheEndOfFiscalYear", m.SourceTag)
	assert.Equal(t, model.MethodDynamic, m.Method)
}

func TestSearchDynamicNegativeKeywordsDisqualify(t *testing.T) {
	// Treasury stock matches "issued"-adjacent wording but its negative
	// keyword pushes the score below zero.
	facts := []model.Fact{
		{Tag: "NumberOfTreasuryStockIssuedShares", ContextRef: "CurrentYearInstant", RawValue: "2000000"},
	}
	store := NewFactStore(facts, classifiedContexts())

	_, ok := SearchDynamic(store, sharesSpec())
	assert.False(t, ok)
}

func TestSearchDynamicContextBonusesOrderCandidates(t *testing.T) {
	// Identical tags: the current-year consolidated fact collects both
	// bonuses and outranks the other-period fact.
	facts := []model.Fact{
		{Tag: "SharesIssuedTotal", ContextRef: "OtherInstant", RawValue: "90000000"},
		{Tag: "SharesIssuedTotal", ContextRef: "CurrentYearInstant", RawValue: "75000000"},
	}
	store := NewFactStore(facts, classifiedContexts())

	m, ok := SearchDynamic(store, sharesSpec())
	require.True(t, ok)
	assert.Equal(t, 75_000_000.0, *m.Value)
	assert.Equal(t, "CurrentYearInstant", m.SourceContext)
}

func TestSearchDynamicPeriodEndIndicatorBonus(t *testing.T) {
	// Same context, same base keywords: the end-of-period wording wins for a
	// metric preferring period-end figures.
	facts := []model.Fact{
		{Tag: "SharesIssuedAverage", ContextRef: "CurrentYearInstant", RawValue: "70000000"},
		{Tag: "SharesIssuedAtTheEndOfFiscalYear", ContextRef: "CurrentYearInstant", RawValue: "75000000"},
	}
	store := NewFactStore(facts, classifiedContexts())

	m, ok := SearchDynamic(store, sharesSpec())
	require.True(t, ok)
	assert.Equal(t, 75_000_000.0, *m.Value)
}

func TestSearchDynamicRangeFailureFallsThrough(t *testing.T) {
	// Best-scored candidate fails range validation; the next one is taken.
	facts := []model.Fact{
		{Tag: "SharesIssuedAndOutstanding", ContextRef: "CurrentYearInstant", RawValue: "999999999999999"},
		{Tag: "SharesIssuedTotal", ContextRef: "CurrentYearInstant", RawValue: "75000000"},
	}
	store := NewFactStore(facts, classifiedContexts())

	m, ok := SearchDynamic(store, sharesSpec())
	require.True(t, ok)
	assert.Equal(t, 75_000_000.0, *m.Value)
}

func TestSearchDynamicConsolidatedShadowsNonConsolidated(t *testing.T) {
	facts := []model.Fact{
		{Tag: "SharesIssuedTotal", ContextRef: "CurrentYearInstant_NonConsolidatedMember", RawValue: "10000000"},
		{Tag: "SharesIssuedTotal", ContextRef: "Prior1YearInstant", RawValue: "46000000"},
	}
	store := NewFactStore(facts, classifiedContexts())

	m, ok := SearchDynamic(store, sharesSpec())
	require.True(t, ok)
	assert.Equal(t, 46_000_000.0, *m.Value)
}

func TestSearchDynamicDocumentOrderTieBreak(t *testing.T) {
	facts := []model.Fact{
		{Tag: "SharesIssuedTotal", ContextRef: "CurrentYearInstant", RawValue: "75000000"},
		{Tag: "SharesIssuedTotal", ContextRef: "CurrentYearInstant", RawValue: "75000001"},
	}
	store := NewFactStore(facts, classifiedContexts())

	m, ok := SearchDynamic(store, sharesSpec())
	require.True(t, ok)
	assert.Equal(t, 75_000_000.0, *m.Value)
}

func TestSearchDynamicNoKeywordMatch(t *testing.T) {
	facts := []model.Fact{
		{Tag: "CompletelyUnrelatedConcept", ContextRef: "CurrentYearInstant", RawValue: "75000000"},
	}
	store := NewFactStore(facts, classifiedContexts())

	_, ok := SearchDynamic(store, sharesSpec())
	assert.False(t, ok)
}
