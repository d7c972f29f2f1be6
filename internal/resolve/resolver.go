package resolve

import (
	"strings"

	"go.uber.org/zap"

	"github.com/oshima-research/edinet-cli/internal/model"
)

// Resolver extracts one filing's metrics according to a spec table. The
// zero value is unusable; build one with NewResolver.
type Resolver struct {
	table *SpecTable
}

// NewResolver returns a resolver over the given spec table, or the built-in
// table when nil.
func NewResolver(table *SpecTable) *Resolver {
	if table == nil {
		table = DefaultTable()
	}
	return &Resolver{table: table}
}

// Resolve runs every metric spec against one filing's facts and returns the
// full metrics record. Each metric goes through the pattern matcher first and
// the dynamic scorer only if no pattern produced a valid value; a metric that
// survives neither is recorded with a null value so the output shape is
// identical for every filing. Derived metrics are computed last from the
// resolved primitives.
func (r *Resolver) Resolve(facts []model.Fact, contexts []model.Context, meta model.FilingMeta) *model.MetricsRecord {
	classified := ClassifyContexts(contexts, meta)
	store := NewFactStore(facts, classified)

	rec := model.NewMetricsRecord(recordNames(r.table))
	for _, spec := range r.table.Specs {
		rec.Set(r.resolveMetric(store, spec, meta))
	}
	Derive(rec)
	return rec
}

// resolveMetric runs one metric through pattern matching and then the dynamic
// fallback. It always returns a metric; an unresolved one carries a nil value.
func (r *Resolver) resolveMetric(store *FactStore, spec MetricSpec, meta model.FilingMeta) model.ResolvedMetric {
	if m, ok := MatchPattern(store, spec); ok {
		return m
	}
	if m, ok := SearchDynamic(store, spec); ok {
		zap.L().Debug("metric resolved by dynamic search",
			zap.String("doc_id", meta.DocID),
			zap.String("metric", spec.Name),
			zap.String("tag", m.SourceTag))
		return m
	}
	zap.L().Debug("metric unresolved",
		zap.String("doc_id", meta.DocID),
		zap.String("metric", spec.Name))
	return model.ResolvedMetric{
		Name:   spec.Name,
		Method: model.MethodUnresolved,
	}
}

// ExtractCharacteristic returns the filing's business description text, or
// nil when no description tag is present or the text is blank.
func ExtractCharacteristic(facts []model.Fact) *string {
	store := NewFactStore(facts, nil)
	for _, pattern := range characteristicPatterns {
		for _, f := range store.FactsForTag(pattern) {
			text := strings.TrimSpace(f.RawValue)
			if text == "" {
				continue
			}
			return &text
		}
	}
	return nil
}

// recordNames returns the ordered metric names of the output record: every
// primitive in table order followed by the derived metrics.
func recordNames(table *SpecTable) []string {
	names := make([]string, 0, len(table.Specs)+len(derivedNames))
	names = append(names, table.Names()...)
	names = append(names, derivedNames...)
	return names
}
