// Package model defines the domain types shared across the extraction pipeline.
package model

import "time"

// Fact is a single tagged value from an XBRL instance document.
// It is immutable once parsed; RawValue stays untyped text until the
// range validator converts it.
type Fact struct {
	Tag        string `json:"tag"`
	Namespace  string `json:"namespace"`
	ContextRef string `json:"context_ref"`
	RawValue   string `json:"raw_value"`
	Scale      int    `json:"scale,omitempty"`
	Decimals   string `json:"decimals,omitempty"`
}

// PeriodKind distinguishes instant facts (balances) from duration facts (flows).
type PeriodKind string

const (
	PeriodInstant  PeriodKind = "instant"
	PeriodDuration PeriodKind = "duration"
)

// PeriodLabel classifies a context's period relative to the filing's fiscal year end.
type PeriodLabel string

const (
	PeriodCurrentYear PeriodLabel = "current-year"
	PeriodPriorYear   PeriodLabel = "prior-year"
	PeriodOther       PeriodLabel = "other"
)

// EntityDimension classifies the entity scope of a context.
type EntityDimension string

const (
	EntityConsolidated    EntityDimension = "consolidated"
	EntityNonConsolidated EntityDimension = "non-consolidated"
)

// DimensionMember is one explicit dimension member attached to a context.
type DimensionMember struct {
	Dimension string `json:"dimension"`
	Member    string `json:"member"`
}

// Context is a reporting scope (period + entity dimension) referenced by facts.
// Built once per filing and never mutated; PeriodLabel and EntityDimension are
// filled in by the context classifier.
type Context struct {
	ID         string            `json:"id"`
	PeriodKind PeriodKind        `json:"period_kind"`
	Start      time.Time         `json:"start,omitempty"`
	End        time.Time         `json:"end"`
	Members    []DimensionMember `json:"members,omitempty"`

	Label  PeriodLabel     `json:"label,omitempty"`
	Entity EntityDimension `json:"entity,omitempty"`
}

// FilingMeta carries document-level metadata supplied by the EDINET index,
// not inferred from facts.
type FilingMeta struct {
	DocID         string    `json:"doc_id"`
	SecCode       string    `json:"sec_code"`
	FilerName     string    `json:"filer_name"`
	FiscalYearEnd time.Time `json:"fiscal_year_end"`
}
