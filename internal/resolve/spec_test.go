package resolve

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultTableIsValid(t *testing.T) {
	table := DefaultTable()
	require.NoError(t, table.Validate())
	assert.Equal(t, "edinet-2024-11-01", table.Taxonomy)
	assert.Contains(t, table.Names(), "netSales")
	assert.Contains(t, table.Names(), "outstandingShares")
}

func TestValidateRejectsDefects(t *testing.T) {
	good := MetricSpec{
		Name:        "netSales",
		Kind:        KindMonetary,
		TagPatterns: []string{"NetSales"},
		Range:       ValidRange{Min: 0, Max: 1},
		Period:      PreferCurrentYear,
	}

	tests := []struct {
		name   string
		mutate func(*MetricSpec)
	}{
		{"empty name", func(s *MetricSpec) { s.Name = "" }},
		{"unknown kind", func(s *MetricSpec) { s.Kind = "weight" }},
		{"no patterns or keywords", func(s *MetricSpec) { s.TagPatterns = nil }},
		{"inverted range", func(s *MetricSpec) { s.Range = ValidRange{Min: 10, Max: 1} }},
		{"unknown period", func(s *MetricSpec) { s.Period = "quarterly" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := good
			tt.mutate(&s)
			table := &SpecTable{Taxonomy: "t", Specs: []MetricSpec{s}}
			assert.Error(t, table.Validate())
		})
	}

	t.Run("duplicate name", func(t *testing.T) {
		table := &SpecTable{Taxonomy: "t", Specs: []MetricSpec{good, good}}
		assert.Error(t, table.Validate())
	})
	t.Run("empty table", func(t *testing.T) {
		table := &SpecTable{Taxonomy: "t"}
		assert.Error(t, table.Validate())
	})
}

func TestLoadSpecTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "table.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
taxonomy: edinet-test
specs:
  - name: netSales
    kind: monetary
    tag_patterns: [NetSales]
    keywords:
      netsales: 15
    range:
      min: 1000000
      max: 100000000000000
    consolidate: true
    period: current-year-first
`), 0o644))

	table, err := LoadSpecTable(path)
	require.NoError(t, err)
	assert.Equal(t, "edinet-test", table.Taxonomy)
	require.Len(t, table.Specs, 1)
	assert.Equal(t, 15, table.Specs[0].Keywords["netsales"])
	assert.True(t, table.Specs[0].Consolidate)
}

func TestLoadSpecTableErrors(t *testing.T) {
	_, err := LoadSpecTable(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("taxonomy: t\nspecs: []\n"), 0o644))
	_, err = LoadSpecTable(path)
	assert.Error(t, err, "empty table fails validation")
}
