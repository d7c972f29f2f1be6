package resolve

import (
	"math"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/oshima-research/edinet-cli/internal/model"
)

// ParseValue converts a fact's raw text into a number, stripping thousands
// separators and applying the scale exponent when present. Unparseable text
// is an error the caller treats exactly like a failed range check.
func ParseValue(f model.Fact) (float64, error) {
	text := strings.TrimSpace(strings.ReplaceAll(f.RawValue, ",", ""))
	if text == "" {
		return 0, eris.Errorf("numeric: empty value for tag %s", f.Tag)
	}
	v, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0, eris.Wrapf(err, "numeric: parse %q for tag %s", f.RawValue, f.Tag)
	}
	if f.Scale != 0 {
		v *= math.Pow10(f.Scale)
	}
	return v, nil
}

// ValidateValue parses a fact and checks it against the metric's plausible
// range. It reports ok=false for both unparseable text and out-of-range
// values; out-of-range values are discarded, never clamped.
func ValidateValue(spec MetricSpec, f model.Fact) (float64, bool) {
	v, err := ParseValue(f)
	if err != nil {
		return 0, false
	}
	if v < spec.Range.Min || v > spec.Range.Max {
		return 0, false
	}
	return v, true
}
