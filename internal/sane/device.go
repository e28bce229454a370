package sane

import (
	"encoding/json"
	"fmt"
)

// Device is the normalized capability model of one scanner.
//
// Version is the running application's version stamped at assembly time. It
// is a cache-validity token, not a semantic version: a cached snapshot whose
// token differs from the current application version forces a re-fetch.
//
// A Device is immutable once built; replacing it means building a new one.
type Device struct {
	ID       string              `json:"id"`
	Version  string              `json:"version"`
	Features map[string]*Feature `json:"features"`
}

// Clone creates a complete independent copy of the Device.
func (d *Device) Clone() *Device {
	if d == nil {
		return nil
	}

	cpy := *d
	if d.Features != nil {
		cpy.Features = make(map[string]*Feature, len(d.Features))
		for key, feature := range d.Features {
			cpy.Features[key] = feature.Clone()
		}
	}
	return &cpy
}

// FromListing builds a Device from raw listing text, running every recorded
// entry through the dispatcher and stamping the given application version.
func FromListing(text, version string) (*Device, error) {
	listing, err := Parse(text)
	if err != nil {
		return nil, err
	}

	dev := &Device{
		ID:       listing.ID,
		Version:  version,
		Features: make(map[string]*Feature, len(listing.Entries)),
	}
	for key, entry := range listing.Entries {
		dev.Features[key] = Normalize(entry)
	}
	return dev, nil
}

// FromSnapshot copies an already-normalized device without re-running the
// dispatcher. Cached data is last-normalized output, not raw text: the
// parameter strings its normalization consumed are gone, so re-dispatching
// would corrupt it. The stored version token is preserved.
func FromSnapshot(dev *Device) *Device {
	return dev.Clone()
}

// Build accepts either raw listing text or already-structured device data.
//
// Text (string or []byte) goes through the parser and dispatcher with the
// given version stamp; structured data takes the snapshot path unchanged.
// Any other input fails with ErrUnsupportedInput.
func Build(input any, version string) (*Device, error) {
	switch v := input.(type) {
	case string:
		return FromListing(v, version)
	case []byte:
		return FromListing(string(v), version)
	case json.RawMessage:
		var dev Device
		if err := json.Unmarshal(v, &dev); err != nil {
			return nil, fmt.Errorf("sane: decoding device snapshot: %w", err)
		}
		return &dev, nil
	case *Device:
		return FromSnapshot(v), nil
	case Device:
		return FromSnapshot(&v), nil
	default:
		return nil, ErrUnsupportedInput
	}
}
