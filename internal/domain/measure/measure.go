// Package measure converts raw result strings into numeric measurements.
//
// Throws and jumps arrive as plain decimals ("7.45"); timed track events may
// arrive either as seconds ("10.92") or as clock strings ("4:32.10").
package measure

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

const (
	clockTokens      = 3
	secondsPerMinute = 60
	centisPerSecond  = 100
)

// Parse returns the measurement encoded in raw.
//
// A direct decimal parse is tried first. Failing that, raw is split on every
// non-digit rune and must yield exactly three digit runs, read as
// minutes, seconds and hundredths.
func Parse(raw string) (float64, error) {
	s := strings.TrimSpace(raw)
	if v, ok := parseDecimal(s); ok {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return 0, fmt.Errorf("%w: %q is not finite", ErrUnparseable, raw)
		}
		return v, nil
	}
	v, ok := parseClock(s)
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnparseable, raw)
	}
	return v, nil
}

// parseDecimal accepts plain decimal and exponent notation only.
func parseDecimal(s string) (float64, bool) {
	if strings.ContainsAny(s, "xXpP_") {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// parseClock reads "M:SS.cc"-shaped strings. Any non-digit rune acts as a
// separator, so "4.32.10" and "4:32:10" are accepted too.
func parseClock(s string) (float64, bool) {
	if !separatedOnce(s) {
		return 0, false
	}
	tokens := strings.FieldsFunc(s, func(r rune) bool { return !isDigit(r) })
	if len(tokens) != clockTokens {
		return 0, false
	}
	var parts [clockTokens]float64
	for i, tok := range tokens {
		v, err := strconv.ParseFloat(tok, 64)
		if err != nil {
			return 0, false
		}
		parts[i] = v
	}
	return parts[0]*secondsPerMinute + parts[1] + parts[2]/centisPerSecond, true
}

// separatedOnce reports whether s is digit runs joined by single separators,
// with no leading or trailing separator. FieldsFunc alone would collapse
// "2::15.30" into three tokens.
func separatedOnce(s string) bool {
	prevSep := true
	for _, r := range s {
		sep := !isDigit(r)
		if sep && prevSep {
			return false
		}
		prevSep = sep
	}
	return !prevSep
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}
