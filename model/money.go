package model

import (
	"regexp"
	"strconv"
)

// decimalPattern accepts plain decimals only. Currency symbols, thousands
// separators and scientific notation are treated as malformed and contribute
// zero rather than poisoning a revenue sum.
var decimalPattern = regexp.MustCompile(`^[0-9]+(\.[0-9]+)?$`)

// ParseMoney coerces a loosely typed amount from the document store into a
// float64. Numbers pass through, numeric strings are validated against a
// strict decimal pattern, everything else yields 0.
func ParseMoney(v interface{}) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int:
		return float64(n)
	case int32:
		return float64(n)
	case int64:
		return float64(n)
	case string:
		if !decimalPattern.MatchString(n) {
			return 0
		}
		f, err := strconv.ParseFloat(n, 64)
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}
