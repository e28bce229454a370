package sane

import (
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"unicode"
)

// Option keys recognised by the dispatcher. This is the scanimage
// vocabulary, a closed set; dispatch is an explicit switch, not a registry.
const (
	KeyMode       = "--mode"
	KeySource     = "--source"
	KeyResolution = "--resolution"
	KeyLeft       = "-l"
	KeyTop        = "-t"
	KeyWidth      = "-x"
	KeyHeight     = "-y"
	KeyBrightness = "--brightness"
	KeyContrast   = "--contrast"
)

// referenceResolutions is the fallback dpi set used when a backend declares
// neither an enumeration nor a range for --resolution.
var referenceResolutions = []float64{50, 75, 100, 150, 200, 300, 600, 1200}

// stepHintPattern matches the literal parenthetical step hint some backends
// append to range declarations, e.g. "-100..100% (in steps of 5)".
var stepHintPattern = regexp.MustCompile(`\(in steps of (\d{1,2})\)`)

// Normalize converts one raw listing entry into its typed feature. The shape
// is determined solely by the option key, never by inspecting the parameter
// text. Keys outside the known vocabulary pass through as raw text.
//
// Normalization never fails: malformed parameter text produces a feature with
// NaN or empty fields. One bad option must not block the rest of the device
// description from being usable.
func Normalize(entry Entry) *Feature {
	switch entry.Key {
	case KeyMode, KeySource:
		return normalizeEnum(entry)
	case KeyResolution:
		return normalizeResolution(entry)
	case KeyLeft, KeyTop, KeyWidth, KeyHeight:
		return normalizeRange(entry)
	case KeyBrightness, KeyContrast:
		return normalizeSteppedRange(entry)
	default:
		return &Feature{
			Class:      ClassRaw,
			Parameters: entry.Parameters,
			Default:    entry.Default,
		}
	}
}

// normalizeEnum splits a pipe-separated choice list, preserving declared
// order. The default is retained as given text.
func normalizeEnum(entry Entry) *Feature {
	return &Feature{
		Class:   ClassEnum,
		Options: strings.Split(entry.Parameters, "|"),
		Default: entry.Default,
	}
}

// normalizeResolution produces the discrete dpi set for --resolution.
//
// Backends declare resolutions three ways: an explicit enumeration
// ("50|100|200dpi"), a continuous range ("75..1200dpi"), or nothing useful at
// all, in which case the fixed reference set applies.
func normalizeResolution(entry Entry) *Feature {
	feature := &Feature{
		Class: ClassResolution,
		Value: toNumber(entry.Default),
	}

	switch {
	case strings.Contains(entry.Parameters, "|"):
		feature.Values = ExtractNumbers(entry.Parameters, "|")
	case strings.Contains(entry.Parameters, ".."):
		feature.Values = resolutionLadder(ExtractNumbers(entry.Parameters, ".."))
	default:
		feature.Values = append([]float64(nil), referenceResolutions...)
	}

	return feature
}

// resolutionLadder reconstructs a discrete dpi set from a continuous range.
//
// Scanners that declare a continuous range in practice support discrete steps
// halving down from the maximum, so the ladder collects the upper bound
// halved repeatedly until it would drop to or below the lower bound, appends
// the lower bound itself, and sorts ascending: 75..1200 becomes
// [75 150 300 600 1200].
func resolutionLadder(bounds []float64) []float64 {
	low := bounds[0]
	high := bounds[len(bounds)-1]

	var values []float64
	for high > low {
		values = append(values, high)
		high /= 2
	}
	values = append(values, low)
	sort.Float64s(values)
	return values
}

// normalizeRange handles the geometry axes (-l, -t, -x, -y). Bounds and
// default are floored to whole millimetres.
func normalizeRange(entry Entry) *Feature {
	limits := rangeLimits(ExtractNumbers(entry.Parameters, ".."))
	limits.Low = math.Floor(limits.Low)
	limits.High = math.Floor(limits.High)

	return &Feature{
		Class:  ClassRange,
		Limits: limits,
		Value:  math.Floor(toNumber(entry.Default)),
	}
}

// normalizeSteppedRange handles brightness and contrast. The range lives in
// the leading whitespace-delimited token ("-100..100%"); the step hint, if
// any, may appear anywhere in the full parameter text.
func normalizeSteppedRange(entry Entry) *Feature {
	head := entry.Parameters
	if i := strings.IndexFunc(head, unicode.IsSpace); i >= 0 {
		head = head[:i]
	}

	return &Feature{
		Class:    ClassSteppedRange,
		Limits:   rangeLimits(ExtractNumbers(head, "..")),
		Interval: stepHint(entry.Parameters),
		Value:    toNumber(entry.Default),
	}
}

// rangeLimits maps extracted numbers onto limits in literal order: the first
// number is the low bound, the second the high bound. Missing numbers are NaN.
func rangeLimits(numbers []float64) *Limits {
	limits := &Limits{Low: math.NaN(), High: math.NaN()}
	if len(numbers) > 0 {
		limits.Low = numbers[0]
	}
	if len(numbers) > 1 {
		limits.High = numbers[1]
	}
	return limits
}

// stepHint returns the declared step interval, or 1 when no hint is present.
func stepHint(parameters string) int {
	match := stepHintPattern.FindStringSubmatch(parameters)
	if match == nil {
		return 1
	}
	n, err := strconv.Atoi(match[1])
	if err != nil {
		return 1
	}
	return n
}

// toNumber coerces a textual default to a number, NaN if unparseable.
func toNumber(text string) float64 {
	n, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
	if err != nil {
		return math.NaN()
	}
	return n
}
