// Package format renders backend numbers for display. Nothing here computes
// financial metrics; it only rounds, groups and labels values it is given.
package format

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

const (
	Placeholder = "-"
	NotAvail    = "N/A"
)

// leadingFloat matches the numeric prefix a lenient parser accepts, so that
// values like "12.5%" still read as 12.5.
var leadingFloat = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?`)

// ParseLenient reads the leading number of s. ok is false when s does not
// start with a number.
func ParseLenient(s string) (v float64, ok bool) {
	m := leadingFloat.FindString(strings.TrimSpace(s))
	if m == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func isMissing(s string) bool {
	return s == "" || s == "nan"
}

// Number groups thousands and keeps at most three fraction digits.
func Number(s string) string {
	if isMissing(s) {
		return Placeholder
	}
	v, ok := ParseLenient(s)
	if !ok {
		return s
	}
	return Grouped(v)
}

func Percentage(s string) string {
	if isMissing(s) {
		return Placeholder
	}
	v, ok := ParseLenient(s)
	if !ok {
		return s
	}
	return Fixed(v, 2) + "%"
}

func Currency(s string) string {
	if isMissing(s) {
		return Placeholder
	}
	v, ok := ParseLenient(s)
	if !ok {
		return s
	}
	return "$" + Fixed(v, 2)
}

func MarketCap(s string) string {
	if isMissing(s) {
		return Placeholder
	}
	v, ok := ParseLenient(s)
	if !ok {
		return s
	}

	switch {
	case v >= 1e12:
		return "$" + Fixed(v/1e12, 2) + "T"
	case v >= 1e9:
		return "$" + Fixed(v/1e9, 2) + "B"
	case v >= 1e6:
		return "$" + Fixed(v/1e6, 2) + "M"
	default:
		return "$" + Grouped(v)
	}
}

// Fixed formats v with exactly prec fraction digits.
func Fixed(v float64, prec int) string {
	return strconv.FormatFloat(v, 'f', prec, 64)
}

// Grouped renders v with thousands separators and up to three fraction digits.
func Grouped(v float64) string {
	rounded := math.Round(v*1000) / 1000
	if rounded == 0 {
		return "0"
	}
	return humanize.Commaf(rounded)
}

// Dollars is Grouped with a currency sign.
func Dollars(v float64) string {
	return "$" + Grouped(v)
}

// PlainPercent appends a percent sign without scaling.
func PlainPercent(v float64) string {
	return Fixed(v, 2) + "%"
}

// Ratio renders a fraction as a percentage; nil is N/A.
func Ratio(v *float64) string {
	if v == nil {
		return NotAvail
	}
	return Fixed(*v*100, 2) + "%"
}

func Fixed3(v *float64) string {
	if v == nil {
		return NotAvail
	}
	return Fixed(*v, 3)
}

func DollarsPtr(v *float64) string {
	if v == nil {
		return NotAvail
	}
	return Dollars(*v)
}

// ReturnRiskRatio is expected return over volatility, N/A when volatility
// is missing or not positive.
func ReturnRiskRatio(expectedReturn, volatility *float64) string {
	if expectedReturn == nil || volatility == nil || *volatility <= 0 {
		return NotAvail
	}
	r := *expectedReturn / *volatility
	return Ratio(&r)
}

// Scaled renders a fraction as a percentage with prec digits.
func Scaled(v float64, prec int) string {
	return Fixed(v*100, prec) + "%"
}

func Timestamp(ts string) string {
	if ts == "" {
		return NotAvail
	}
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05.999999", "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, ts); err == nil {
			return t.Format("2006-01-02 15:04:05")
		}
	}
	return ts
}

func Truncate(s string, n int) string {
	r := []rune(s)
	if n <= 0 || len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
