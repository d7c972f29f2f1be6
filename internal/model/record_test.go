package model

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsRecordMarshalOrderAndNulls(t *testing.T) {
	rec := NewMetricsRecord([]string{"netSales", "operatingIncome", "eps"})
	v := 5_000_000_000.0
	rec.Set(ResolvedMetric{Name: "netSales", Value: &v, SourceTag: "NetSales", SourceContext: "CurrentYearDuration", Method: MethodPattern})

	data, err := json.Marshal(rec)
	require.NoError(t, err)

	got := string(data)
	assert.Contains(t, got, `"netSales":{"value":5000000000,"source_tag":"NetSales","source_context":"CurrentYearDuration","method":"pattern"}`)
	assert.Contains(t, got, `"operatingIncome":{"value":null,"method":"unresolved"}`)
	assert.Less(t, strings.Index(got, "netSales"), strings.Index(got, "operatingIncome"))
	assert.Less(t, strings.Index(got, "operatingIncome"), strings.Index(got, "eps"))
}

func TestMetricsRecordMarshalIsDeterministic(t *testing.T) {
	build := func() []byte {
		rec := NewMetricsRecord([]string{"a", "b", "c", "d", "e"})
		v := 1.0
		rec.Set(ResolvedMetric{Name: "c", Value: &v, Method: MethodDerived})
		data, err := json.Marshal(rec)
		require.NoError(t, err)
		return data
	}
	first := build()
	for range 10 {
		assert.Equal(t, first, build())
	}
}

func TestMetricsRecordRoundTrip(t *testing.T) {
	rec := NewMetricsRecord([]string{"netSales", "eps"})
	v := 123.45
	rec.Set(ResolvedMetric{Name: "eps", Value: &v, SourceTag: "EarningsPerShare", Method: MethodDynamic})

	data, err := json.Marshal(rec)
	require.NoError(t, err)

	var got MetricsRecord
	require.NoError(t, json.Unmarshal(data, &got))

	assert.Equal(t, rec.Names(), got.Names())
	m, ok := got.Get("eps")
	require.True(t, ok)
	require.NotNil(t, m.Value)
	assert.Equal(t, 123.45, *m.Value)
	assert.Equal(t, MethodDynamic, m.Method)
	assert.Equal(t, "eps", m.Name)

	sales, ok := got.Get("netSales")
	require.True(t, ok)
	assert.Nil(t, sales.Value)
}

func TestNormalizeSecCode(t *testing.T) {
	assert.Equal(t, "1234", NormalizeSecCode("12340"))
	assert.Equal(t, "1234", NormalizeSecCode("1234"))
	assert.Equal(t, "12345", NormalizeSecCode("12345"))
	assert.Equal(t, "", NormalizeSecCode(""))
}

func TestFormatPeriodEnd(t *testing.T) {
	assert.Equal(t, "2024年3月期", FormatPeriodEnd("2024-03-31"))
	assert.Equal(t, "2023年12月期", FormatPeriodEnd("2023-12-31"))
	assert.Equal(t, "", FormatPeriodEnd(""))
	assert.Equal(t, "not-a-date", FormatPeriodEnd("not-a-date"))
}
