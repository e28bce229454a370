package sane

import (
	"math"
	"strconv"
	"strings"
)

// ExtractNumbers strips unit and percent noise from a listing fragment and
// splits the remainder into numbers on the given delimiter.
//
//	ExtractNumbers("75..1200dpi", "..") // [75 1200]
//	ExtractNumbers("50|75|100%", "|")   // [50 75 100]
//
// Each fragment is converted from its leading numeric prefix, so trailing
// noise the letter strip cannot remove (step-hint parentheses, stray
// punctuation) does not discard an otherwise usable number. Fragments with no
// leading number yield NaN entries rather than being dropped or coerced to
// zero; callers decide whether a NaN is fatal. The extractor itself never
// errors.
func ExtractNumbers(text, delimiter string) []float64 {
	cleaned := strings.Map(dropUnitRune, text)

	parts := strings.Split(cleaned, delimiter)
	numbers := make([]float64, 0, len(parts))
	for _, part := range parts {
		numbers = append(numbers, leadingFloat(strings.TrimSpace(part)))
	}
	return numbers
}

// dropUnitRune removes ASCII letters and percent signs from unit-suffixed
// fragments like "215mm" or "100%".
func dropUnitRune(r rune) rune {
	switch {
	case r >= 'a' && r <= 'z':
		return -1
	case r >= 'A' && r <= 'Z':
		return -1
	case r == '%':
		return -1
	}
	return r
}

// leadingFloat parses the longest numeric prefix of s, NaN if there is none.
func leadingFloat(s string) float64 {
	end := 0
	if end < len(s) && (s[end] == '-' || s[end] == '+') {
		end++
	}
	dotted := false
	for end < len(s) {
		c := s[end]
		if c >= '0' && c <= '9' {
			end++
			continue
		}
		if c == '.' && !dotted {
			dotted = true
			end++
			continue
		}
		break
	}

	n, err := strconv.ParseFloat(s[:end], 64)
	if err != nil {
		return math.NaN()
	}
	return n
}
