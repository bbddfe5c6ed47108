package adapter

import (
	"regexp"
	"strconv"
	"strings"
)

// priceRe matches the first dollar amount in a text blob: optional $,
// thousands separators, optional cents.
var priceRe = regexp.MustCompile(`\$?\s*(\d{1,3}(?:,\d{3})*|\d+)(?:\.(\d{1,2}))?`)

// ParsePriceCents parses a displayed price string ("$1,299.99", "19.99",
// "$5") into integer cents. ok is false when no dollar amount is present.
func ParsePriceCents(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}

	m := priceRe.FindStringSubmatch(s)
	if m == nil {
		return 0, false
	}

	whole, err := strconv.Atoi(strings.ReplaceAll(m[1], ",", ""))
	if err != nil {
		return 0, false
	}

	cents := whole * 100
	if m[2] != "" {
		frac := m[2]
		if len(frac) == 1 {
			frac += "0"
		}
		f, err := strconv.Atoi(frac)
		if err != nil {
			return 0, false
		}
		cents += f
	}
	return cents, true
}
