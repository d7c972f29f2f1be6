package resolve

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oshima-research/edinet-cli/internal/model"
)

func TestFactStoreLookup(t *testing.T) {
	facts := []model.Fact{
		{Tag: "NetSales", ContextRef: "c1", RawValue: "1"},
		{Tag: "OperatingIncome", ContextRef: "c1", RawValue: "2"},
		{Tag: "NetSales", ContextRef: "c2", RawValue: "3"},
	}
	contexts := []model.Context{{ID: "c1"}, {ID: "c2"}}
	store := NewFactStore(facts, contexts)

	assert.Equal(t, 3, store.Len())

	got := store.FactsForTag("netsales")
	require.Len(t, got, 2)
	assert.Equal(t, "1", got[0].RawValue, "document order preserved")
	assert.Equal(t, "3", got[1].RawValue)

	assert.Len(t, store.FactsForTag("NETSALES"), 2, "lookup is case-insensitive")
	assert.Empty(t, store.FactsForTag("Equity"))

	_, ok := store.ContextFor("c1")
	assert.True(t, ok)
	_, ok = store.ContextFor("missing")
	assert.False(t, ok)
}
