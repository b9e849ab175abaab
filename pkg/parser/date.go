package parser

import (
	"strings"
	"time"
)

// DateLayout is the human-readable scan date format used in the report.
const DateLayout = "2006-01-02 15:04:05"

// maxFractionDigits is the fractional-second precision kept before parsing.
const maxFractionDigits = 6

var isoLayouts = []string{
	"2006-01-02T15:04:05.999999Z07:00",
	"2006-01-02T15:04:05.999999",
}

// NormalizeScanDate converts an ISO 8601 timestamp such as
// "2024-05-06T07:08:09.123456789+02:00" to "2024-05-06 07:08:09".
// The wall clock of the original offset is kept. Anything that does not
// parse is returned unchanged.
func NormalizeScanDate(s string) string {
	if !strings.Contains(s, "T") {
		return s
	}

	value := truncateFraction(s)
	for _, layout := range isoLayouts {
		t, err := time.Parse(layout, value)
		if err == nil {
			return t.Format(DateLayout)
		}
	}
	return s
}

// truncateFraction cuts the fractional seconds after the time separator to
// maxFractionDigits digits, leaving any zone designator in place.
func truncateFraction(s string) string {
	sep := strings.IndexByte(s, 'T')
	dot := strings.IndexByte(s[sep:], '.')
	if dot < 0 {
		return s
	}
	start := sep + dot + 1

	end := start
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end-start <= maxFractionDigits {
		return s
	}
	return s[:start+maxFractionDigits] + s[end:]
}
