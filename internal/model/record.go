package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// ResolutionMethod records which strategy produced a metric value.
type ResolutionMethod string

const (
	MethodPattern    ResolutionMethod = "pattern"
	MethodDynamic    ResolutionMethod = "dynamic"
	MethodDerived    ResolutionMethod = "derived"
	MethodUnresolved ResolutionMethod = "unresolved"
)

// ResolvedMetric is the outcome of resolving one metric for one filing.
// Value is nil when the metric could not be resolved; the JSON encoding
// keeps the field present as an explicit null.
type ResolvedMetric struct {
	Name          string           `json:"-"`
	Value         *float64         `json:"value"`
	SourceTag     string           `json:"source_tag,omitempty"`
	SourceContext string           `json:"source_context,omitempty"`
	Method        ResolutionMethod `json:"method"`
}

// MetricsRecord is an ordered mapping from metric name to ResolvedMetric.
// Key order is fixed at construction so two resolutions of the same filing
// serialize byte-identically.
type MetricsRecord struct {
	names   []string
	metrics map[string]ResolvedMetric
}

// NewMetricsRecord creates a record covering the given metric names, each
// initialized as unresolved.
func NewMetricsRecord(names []string) *MetricsRecord {
	r := &MetricsRecord{
		names:   append([]string(nil), names...),
		metrics: make(map[string]ResolvedMetric, len(names)),
	}
	for _, n := range r.names {
		r.metrics[n] = ResolvedMetric{Name: n, Method: MethodUnresolved}
	}
	return r
}

// Set stores the resolution outcome for a metric. Names not declared at
// construction are appended to preserve a stable overall order.
func (r *MetricsRecord) Set(m ResolvedMetric) {
	if _, ok := r.metrics[m.Name]; !ok {
		r.names = append(r.names, m.Name)
	}
	r.metrics[m.Name] = m
}

// Get returns the resolved metric for name and whether it is present.
func (r *MetricsRecord) Get(name string) (ResolvedMetric, bool) {
	m, ok := r.metrics[name]
	return m, ok
}

// Value returns the numeric value for name, or nil when absent or unresolved.
func (r *MetricsRecord) Value(name string) *float64 {
	if m, ok := r.metrics[name]; ok {
		return m.Value
	}
	return nil
}

// Names returns the metric names in serialization order.
func (r *MetricsRecord) Names() []string {
	return append([]string(nil), r.names...)
}

// MarshalJSON emits every metric name as a key, in declaration order,
// with explicit nulls for unresolved values.
func (r *MetricsRecord) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, name := range r.names {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(name)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		val, err := json.Marshal(r.metrics[name])
		if err != nil {
			return nil, fmt.Errorf("marshal metric %s: %w", name, err)
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON restores a record from its ordered JSON object form.
func (r *MetricsRecord) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("metrics record: expected object, got %v", tok)
	}
	r.names = nil
	r.metrics = make(map[string]ResolvedMetric)
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		name := keyTok.(string)
		var m ResolvedMetric
		if err := dec.Decode(&m); err != nil {
			return fmt.Errorf("metrics record: decode %s: %w", name, err)
		}
		m.Name = name
		r.names = append(r.names, name)
		r.metrics[name] = m
	}
	return nil
}

// CompanyRecord is one company's extracted output for one filing. This is
// the unit written to per-day JSON files and upserted into the store.
type CompanyRecord struct {
	SecCode        string         `json:"secCode"`
	FilerName      string         `json:"filerName"`
	DocID          string         `json:"docID"`
	DocPdfURL      string         `json:"docPdfURL"`
	YahooURL       string         `json:"yahooURL"`
	PeriodEnd      string         `json:"periodEnd"`
	Characteristic *string        `json:"characteristic"`
	Metrics        *MetricsRecord `json:"metrics"`
	RetrievedDate  string         `json:"retrievedDate"`
}

// NormalizeSecCode trims the trailing zero EDINET appends to 4-digit
// securities codes.
func NormalizeSecCode(code string) string {
	if len(code) == 5 && code[4] == '0' {
		return code[:4]
	}
	return code
}

// FormatPeriodEnd converts a YYYY-MM-DD period end into the Japanese
// fiscal-period form (YYYY年M月期). Unparseable input is returned as-is.
func FormatPeriodEnd(periodEnd string) string {
	if periodEnd == "" {
		return ""
	}
	t, err := time.Parse("2006-01-02", periodEnd)
	if err != nil {
		return periodEnd
	}
	return fmt.Sprintf("%d年%d月期", t.Year(), int(t.Month()))
}
