// Package resolve implements the fact resolution engine: given the parsed
// fact set of one filing, it selects the most plausible value for each
// target metric and derives the secondary metrics from the primitives.
package resolve

import (
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// ValueKind categorizes a metric for range validation.
type ValueKind string

const (
	KindMonetary   ValueKind = "monetary"
	KindCount      ValueKind = "count"
	KindRatio      ValueKind = "ratio"
	KindPercentage ValueKind = "percentage"
)

// PeriodPreference selects which context signal the dynamic scorer favors.
type PeriodPreference string

const (
	// PreferCurrentYear favors duration contexts aligned with the filing's
	// fiscal year (flows: sales, income).
	PreferCurrentYear PeriodPreference = "current-year-first"
	// PreferPeriodEnd favors instant contexts at the fiscal year end
	// (balances: shares, equity, debt).
	PreferPeriodEnd PeriodPreference = "period-end-first"
)

// ValidRange is the per-metric plausibility window. Values outside it are
// discarded, never clamped.
type ValidRange struct {
	Min float64 `yaml:"min"`
	Max float64 `yaml:"max"`
}

// MetricSpec is the static configuration for one target metric. Specs are
// loaded once at startup and never mutated; swapping taxonomy versions means
// swapping the table, not the engine.
type MetricSpec struct {
	Name        string           `yaml:"name"`
	Kind        ValueKind        `yaml:"kind"`
	TagPatterns []string         `yaml:"tag_patterns"`
	Keywords    map[string]int   `yaml:"keywords"`
	Range       ValidRange       `yaml:"range"`
	Consolidate bool             `yaml:"consolidate"`
	Period      PeriodPreference `yaml:"period"`
}

// SpecTable is the full metric configuration for one taxonomy edition.
type SpecTable struct {
	Taxonomy string       `yaml:"taxonomy"`
	Specs    []MetricSpec `yaml:"specs"`
}

// Names returns the primitive metric names in table order.
func (t *SpecTable) Names() []string {
	names := make([]string, len(t.Specs))
	for i, s := range t.Specs {
		names[i] = s.Name
	}
	return names
}

// Validate checks the table for configuration defects. A malformed table is
// a fatal startup error, unlike per-filing data defects which are absorbed.
func (t *SpecTable) Validate() error {
	if len(t.Specs) == 0 {
		return eris.New("spec: table has no metric specs")
	}
	seen := make(map[string]bool, len(t.Specs))
	for _, s := range t.Specs {
		if s.Name == "" {
			return eris.New("spec: metric with empty name")
		}
		if seen[s.Name] {
			return eris.Errorf("spec: duplicate metric %q", s.Name)
		}
		seen[s.Name] = true
		switch s.Kind {
		case KindMonetary, KindCount, KindRatio, KindPercentage:
		default:
			return eris.Errorf("spec: metric %q has unknown kind %q", s.Name, s.Kind)
		}
		if len(s.TagPatterns) == 0 && len(s.Keywords) == 0 {
			return eris.Errorf("spec: metric %q has no tag patterns and no keywords", s.Name)
		}
		if s.Range.Min > s.Range.Max {
			return eris.Errorf("spec: metric %q has inverted range [%g, %g]", s.Name, s.Range.Min, s.Range.Max)
		}
		switch s.Period {
		case PreferCurrentYear, PreferPeriodEnd:
		default:
			return eris.Errorf("spec: metric %q has unknown period preference %q", s.Name, s.Period)
		}
	}
	return nil
}

// LoadSpecTable reads a spec table from a YAML file and validates it.
func LoadSpecTable(path string) (*SpecTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "spec: read table %s", path)
	}
	var table SpecTable
	if err := yaml.Unmarshal(data, &table); err != nil {
		return nil, eris.Wrapf(err, "spec: parse table %s", path)
	}
	if err := table.Validate(); err != nil {
		return nil, err
	}
	return &table, nil
}
