package sane

import (
	"bytes"
	"encoding/json"
	"math"
)

// Class identifies the normalized shape of a feature.
type Class string

// Class constants.
const (
	// ClassEnum is a fixed choice list (scan mode, paper source).
	ClassEnum Class = "enum"

	// ClassResolution is a discrete set of numeric options (dpi).
	ClassResolution Class = "resolution"

	// ClassRange is an integer range (geometry axes, millimetres).
	ClassRange Class = "range"

	// ClassSteppedRange is a real-valued range with a step interval
	// (brightness, contrast, percent).
	ClassSteppedRange Class = "stepped_range"

	// ClassRaw carries an option outside the known scanimage vocabulary.
	// The parameters and default are preserved as opaque text so the model
	// stays usable for options this service does not yet understand.
	ClassRaw Class = "raw"
)

// Limits is a closed numeric range as declared by the scanner.
//
// The listing is trusted to put the low bound first; bounds are not swapped
// if a backend ever lists high before low.
type Limits struct {
	Low  float64 `json:"low"`
	High float64 `json:"high"`
}

// Feature is one scanner option after normalization. Which fields are
// populated depends on Class:
//
//	ClassEnum          Options, Default
//	ClassResolution    Values, Value
//	ClassRange         Limits (floored), Value (floored)
//	ClassSteppedRange  Limits, Interval, Value
//	ClassRaw           Parameters, Default
type Feature struct {
	Class Class `json:"class"`

	// Parameters is the raw constraint text, kept only for ClassRaw.
	Parameters string `json:"parameters,omitempty"`

	// Options holds enumerated choices in declared order.
	Options []string `json:"options,omitempty"`

	// Values holds discrete numeric options in ascending order.
	Values []float64 `json:"values,omitempty"`

	// Limits bounds range-valued features.
	Limits *Limits `json:"limits,omitempty"`

	// Interval is the step between valid values within Limits.
	Interval int `json:"interval,omitempty"`

	// Default is the textual default value (enum and raw features).
	Default string `json:"default,omitempty"`

	// Value is the numeric default value (numeric features).
	Value float64 `json:"value,omitempty"`
}

// nullNaN is a float64 that survives JSON encoding when NaN. encoding/json
// rejects NaN outright, which would let one malformed capability abort
// serializing the whole device; nullNaN writes null instead and reads null
// back as NaN, so unusable numbers stay present but inert across the cache
// round trip.
type nullNaN float64

func (n nullNaN) MarshalJSON() ([]byte, error) {
	if math.IsNaN(float64(n)) {
		return []byte("null"), nil
	}
	return json.Marshal(float64(n))
}

func (n *nullNaN) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*n = nullNaN(math.NaN())
		return nil
	}
	return json.Unmarshal(data, (*float64)(n))
}

// limitsWire mirrors Limits for JSON with NaN-tolerant bounds.
type limitsWire struct {
	Low  nullNaN `json:"low"`
	High nullNaN `json:"high"`
}

// MarshalJSON encodes NaN bounds as null.
func (l Limits) MarshalJSON() ([]byte, error) {
	return json.Marshal(limitsWire{Low: nullNaN(l.Low), High: nullNaN(l.High)})
}

// UnmarshalJSON reads null bounds back as NaN.
func (l *Limits) UnmarshalJSON(data []byte) error {
	var w limitsWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	l.Low = float64(w.Low)
	l.High = float64(w.High)
	return nil
}

// featureWire mirrors Feature for JSON with NaN-tolerant numeric fields.
type featureWire struct {
	Class      Class     `json:"class"`
	Parameters string    `json:"parameters,omitempty"`
	Options    []string  `json:"options,omitempty"`
	Values     []nullNaN `json:"values,omitempty"`
	Limits     *Limits   `json:"limits,omitempty"`
	Interval   int       `json:"interval,omitempty"`
	Default    string    `json:"default,omitempty"`
	Value      nullNaN   `json:"value,omitempty"`
}

// MarshalJSON encodes NaN numeric fields as null.
func (f *Feature) MarshalJSON() ([]byte, error) {
	w := featureWire{
		Class:      f.Class,
		Parameters: f.Parameters,
		Options:    f.Options,
		Limits:     f.Limits,
		Interval:   f.Interval,
		Default:    f.Default,
		Value:      nullNaN(f.Value),
	}
	if f.Values != nil {
		w.Values = make([]nullNaN, len(f.Values))
		for i, v := range f.Values {
			w.Values[i] = nullNaN(v)
		}
	}
	return json.Marshal(w)
}

// UnmarshalJSON reads null numeric fields back as NaN.
func (f *Feature) UnmarshalJSON(data []byte) error {
	var w featureWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*f = Feature{
		Class:      w.Class,
		Parameters: w.Parameters,
		Options:    w.Options,
		Limits:     w.Limits,
		Interval:   w.Interval,
		Default:    w.Default,
		Value:      float64(w.Value),
	}
	if w.Values != nil {
		f.Values = make([]float64, len(w.Values))
		for i, v := range w.Values {
			f.Values[i] = float64(v)
		}
	}
	return nil
}

// Clone creates an independent copy of the Feature. Slice and pointer fields
// are duplicated so modifications to the copy do not affect the original.
func (f *Feature) Clone() *Feature {
	if f == nil {
		return nil
	}

	cpy := *f

	if f.Options != nil {
		cpy.Options = append([]string(nil), f.Options...)
	}
	if f.Values != nil {
		cpy.Values = append([]float64(nil), f.Values...)
	}
	if f.Limits != nil {
		limits := *f.Limits
		cpy.Limits = &limits
	}

	return &cpy
}
