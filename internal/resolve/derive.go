package resolve

import "github.com/oshima-research/edinet-cli/internal/model"

// derivedNames lists the metrics computed from resolved primitives, in
// output order.
var derivedNames = []string{
	"operatingIncomeRate",
	"ebitda",
	"ebitdaMargin",
	"ev",
	"evPerEbitda",
}

// Derive fills in the computed metrics on a record of resolved primitives.
// Every formula is null-safe: a nil operand, or a nil or zero divisor, yields
// a nil result instead of a fabricated number. Primitives left unresolved by
// extraction are backfilled from other primitives where a formula exists
// (market capitalization, EPS, PER, PBR); extracted values are never
// overwritten.
func Derive(rec *model.MetricsRecord) {
	// Backfill order matters: EPS feeds PER, market capitalization feeds EV.
	backfill(rec, "marketCapitalization", mul(rec.Value("stockPrice"), rec.Value("outstandingShares")))
	backfill(rec, "eps", div(rec.Value("netIncome"), rec.Value("outstandingShares")))
	backfill(rec, "per", div(rec.Value("stockPrice"), rec.Value("eps")))
	backfill(rec, "pbr", div(rec.Value("stockPrice"), rec.Value("bookValuePerShare")))

	oi := rec.Value("operatingIncome")
	sales := rec.Value("netSales")

	setDerived(rec, "operatingIncomeRate", pct(div(oi, sales)))

	ebitda := add(oi, rec.Value("depreciation"))
	setDerived(rec, "ebitda", ebitda)
	setDerived(rec, "ebitdaMargin", pct(div(ebitda, sales)))

	ev := sub(add(rec.Value("marketCapitalization"), rec.Value("debt")), rec.Value("cash"))
	setDerived(rec, "ev", ev)
	setDerived(rec, "evPerEbitda", div(ev, ebitda))
}

// backfill sets a primitive from a formula only when extraction left it
// unresolved.
func backfill(rec *model.MetricsRecord, name string, v *float64) {
	if m, ok := rec.Get(name); ok && m.Method != model.MethodUnresolved {
		return
	}
	if v == nil {
		return
	}
	rec.Set(model.ResolvedMetric{Name: name, Value: v, Method: model.MethodDerived})
}

func setDerived(rec *model.MetricsRecord, name string, v *float64) {
	rec.Set(model.ResolvedMetric{Name: name, Value: v, Method: model.MethodDerived})
}

func add(a, b *float64) *float64 {
	if a == nil || b == nil {
		return nil
	}
	v := *a + *b
	return &v
}

func sub(a, b *float64) *float64 {
	if a == nil || b == nil {
		return nil
	}
	v := *a - *b
	return &v
}

func mul(a, b *float64) *float64 {
	if a == nil || b == nil {
		return nil
	}
	v := *a * *b
	return &v
}

func div(a, b *float64) *float64 {
	if a == nil || b == nil || *b == 0 {
		return nil
	}
	v := *a / *b
	return &v
}

func pct(a *float64) *float64 {
	if a == nil {
		return nil
	}
	v := *a * 100
	return &v
}
