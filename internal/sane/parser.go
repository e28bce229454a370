package sane

import "strings"

const (
	// bannerPrefix and bannerSuffix delimit the backend device name in the
	// listing banner:
	//
	//	All options specific to device `plustek:libusb:001:003':
	bannerPrefix = "All options specific to device `"
	bannerSuffix = "':"

	// inactiveValue marks an option the backend has disabled. Inactive
	// entries never become part of the model.
	inactiveValue = "inactive"
)

// Entry is one capability line lifted from the listing, before normalization.
type Entry struct {
	// Key is the option token, including its leading markers (e.g. "--mode").
	Key string

	// Parameters is the free-text constraint description between the key and
	// the bracketed value.
	Parameters string

	// Default is the bracketed trailing value, as text.
	Default string
}

// Listing holds the device identifier and the raw capability entries scanned
// from a `scanimage -A` listing.
type Listing struct {
	ID      string
	Entries map[string]Entry
}

// Parse scans the raw listing text line by line.
//
// It fails with ErrEmptyListing on empty input and ErrNoDeviceIdentifier when
// no device banner is found anywhere in the text; the banner check runs first
// so it is reported instead of any capability-level issue. Entries whose
// bracketed value is exactly "inactive" are skipped. If the same key appears
// more than once (not expected from the real tool), the later occurrence wins.
func Parse(text string) (*Listing, error) {
	if text == "" {
		return nil, ErrEmptyListing
	}

	id, ok := deviceIdentifier(text)
	if !ok {
		return nil, ErrNoDeviceIdentifier
	}

	listing := &Listing{
		ID:      id,
		Entries: make(map[string]Entry),
	}

	for _, line := range strings.Split(text, "\n") {
		entry, ok := scanOptionLine(line)
		if !ok || entry.Default == inactiveValue {
			continue
		}
		listing.Entries[entry.Key] = entry
	}

	return listing, nil
}

// deviceIdentifier locates the banner line naming the backend device and
// returns the text between the lead-in phrase and the closing quote.
func deviceIdentifier(text string) (string, bool) {
	start := strings.Index(text, bannerPrefix)
	if start < 0 {
		return "", false
	}
	rest := text[start+len(bannerPrefix):]

	end := strings.Index(rest, bannerSuffix)
	if end < 0 {
		return "", false
	}
	return rest[:end], true
}

// scanOptionLine lifts one capability declaration from a listing line.
//
// A declaration is, in literal order: leading whitespace, an option key (one
// or two '-' markers followed by an alphanumeric/hyphen run), optional
// free-text parameters, and the current value in square brackets closing the
// line. Section headers, indented descriptions, and blank lines do not match.
func scanOptionLine(line string) (Entry, bool) {
	line = strings.TrimRight(line, " \t\r")
	s := strings.TrimLeft(line, " \t")

	// Key token: one or two markers, then at least one key rune.
	markers := 0
	for markers < len(s) && markers < 2 && s[markers] == '-' {
		markers++
	}
	if markers == 0 {
		return Entry{}, false
	}
	body := 0
	for markers+body < len(s) && isKeyRune(s[markers+body]) {
		body++
	}
	if body == 0 {
		return Entry{}, false
	}
	key := s[:markers+body]
	tail := s[markers+body:]

	// Bracketed trailing value closing the line.
	if !strings.HasSuffix(tail, "]") {
		return Entry{}, false
	}
	open := strings.LastIndex(tail, "[")
	if open < 0 {
		return Entry{}, false
	}

	return Entry{
		Key:        key,
		Parameters: strings.TrimSpace(tail[:open]),
		Default:    tail[open+1 : len(tail)-1],
	}, true
}

// isKeyRune reports whether c may appear in an option key after the markers.
func isKeyRune(c byte) bool {
	switch {
	case c >= 'a' && c <= 'z':
		return true
	case c >= 'A' && c <= 'Z':
		return true
	case c >= '0' && c <= '9':
		return true
	case c == '-':
		return true
	}
	return false
}
