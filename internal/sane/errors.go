package sane

import "errors"

// Domain errors for the sane package.
//
// These errors can be checked using errors.Is() for error handling:
//
//	if errors.Is(err, sane.ErrNoDeviceIdentifier) {
//	    // handle untrustworthy listing
//	}
var (
	// ErrEmptyListing is returned when the listing text is empty or absent.
	ErrEmptyListing = errors.New("sane: empty listing")

	// ErrNoDeviceIdentifier is returned when the listing lacks the banner
	// line naming the backend device. A listing without an identifiable
	// device is not trustworthy input, so this takes precedence over any
	// capability-level anomaly.
	ErrNoDeviceIdentifier = errors.New("sane: no device identifier in listing")

	// ErrUnsupportedInput is returned when Build receives input that is
	// neither listing text nor structured device data.
	ErrUnsupportedInput = errors.New("sane: unsupported input type")
)
