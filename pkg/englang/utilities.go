package englang

import (
	"errors"
	"math"
	"strconv"
	"strings"
)

const cSpaces = " \t\n\r\v\f"

// parseNumber reports whether the whole string is a floating point number.
// Leading whitespace is allowed; out-of-range values saturate.
func parseNumber(s string) (float64, bool) {
	s = strings.TrimLeft(s, cSpaces)
	if s == "" || strings.ContainsRune(s, '_') {
		return 0, false
	}
	if n, exp := scanHex(s); n > 0 {
		if n != len(s) {
			return 0, false
		}
		return parseHex(s[:n], exp), true
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		if errors.Is(err, strconv.ErrRange) {
			return f, true
		}
		return 0, false
	}
	return f, true
}

// parseNumberPrefix converts the longest numeric prefix of s, 0 if there is
// none.
func parseNumberPrefix(s string) float64 {
	s = strings.TrimLeft(s, cSpaces)
	if f, ok := parseNumber(s); ok {
		return f
	}

	if n, exp := scanHex(s); n > 0 {
		return parseHex(s[:n], exp)
	}

	i := 0
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}
	lower := strings.ToLower(s[i:])
	for _, word := range []string{"infinity", "inf", "nan"} {
		if strings.HasPrefix(lower, word) {
			f, _ := strconv.ParseFloat(s[:i+len(word)], 64)
			return f
		}
	}

	digits := 0
	for i < len(s) && isDigit(s[i]) {
		i++
		digits++
	}
	if i < len(s) && s[i] == '.' {
		i++
		for i < len(s) && isDigit(s[i]) {
			i++
			digits++
		}
	}
	if digits == 0 {
		return 0
	}
	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		j := i + 1
		if j < len(s) && (s[j] == '+' || s[j] == '-') {
			j++
		}
		if j < len(s) && isDigit(s[j]) {
			for j < len(s) && isDigit(s[j]) {
				j++
			}
			i = j
		}
	}
	f, err := strconv.ParseFloat(s[:i], 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return 0
	}
	return f
}

// scanHex returns the length of the hexadecimal number at the start of s,
// such as "0x1A", "-0x1.8" or "0x1p4", and whether it has a binary
// exponent. n is 0 if s does not start with one.
func scanHex(s string) (n int, exp bool) {
	i := 0
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}
	if i+1 >= len(s) || s[i] != '0' || (s[i+1] != 'x' && s[i+1] != 'X') {
		return 0, false
	}
	i += 2

	digits := 0
	for i < len(s) && isHexDigit(s[i]) {
		i++
		digits++
	}
	if i < len(s) && s[i] == '.' {
		i++
		for i < len(s) && isHexDigit(s[i]) {
			i++
			digits++
		}
	}
	if digits == 0 {
		return 0, false
	}

	if i < len(s) && (s[i] == 'p' || s[i] == 'P') {
		j := i + 1
		if j < len(s) && (s[j] == '+' || s[j] == '-') {
			j++
		}
		if j < len(s) && isDigit(s[j]) {
			for j < len(s) && isDigit(s[j]) {
				j++
			}
			return j, true
		}
	}
	return i, false
}

// parseHex converts a string accepted by scanHex. Out-of-range values
// saturate.
func parseHex(s string, exp bool) float64 {
	if !exp {
		s += "p0"
	}
	f, _ := strconv.ParseFloat(s, 64)
	return f
}

func isHexDigit(c byte) bool {
	return isDigit(c) || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

// formatNumber renders f as the shortest decimal that reads back to the same
// value, switching to exponent form like %g does.
func formatNumber(f float64) string {
	switch {
	case math.IsNaN(f):
		return "nan"
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// truncateInt converts f toward zero, clamped to the 32-bit int range.
// NaN converts to 0.
func truncateInt(f float64) int {
	switch {
	case math.IsNaN(f):
		return 0
	case f >= math.MaxInt32:
		return math.MaxInt32
	case f <= math.MinInt32:
		return math.MinInt32
	}
	return int(f)
}
