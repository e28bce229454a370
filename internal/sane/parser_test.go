package sane

import (
	"errors"
	"testing"
)

// testListing mirrors real `scanimage -A` output for a flatbed backend,
// including section headers, description lines, and one inactive option.
const testListing = "All options specific to device `plustek:libusb:001:003':\n" +
	"  Scan Mode:\n" +
	"    --mode Color|Gray [Color]\n" +
	"        Selects the scan mode (e.g., lineart, monochrome, or color).\n" +
	"    --source Flatbed [Flatbed]\n" +
	"        Selects the scan source (such as a document-feeder).\n" +
	"    --resolution 75..1200dpi [75]\n" +
	"        Sets the resolution of the scanned image.\n" +
	"  Geometry:\n" +
	"    -l 0..215mm [0]\n" +
	"        Top-left x position of scan area.\n" +
	"    -t 0..297mm [0]\n" +
	"        Top-left y position of scan area.\n" +
	"    -x 0..216mm [103]\n" +
	"        Width of scan-area.\n" +
	"    -y 0..299mm [76.21]\n" +
	"        Height of scan-area.\n" +
	"  Enhancement:\n" +
	"    --brightness -100..100% (in steps of 5) [0]\n" +
	"        Controls the brightness of the acquired image.\n" +
	"    --contrast -100..100% (in steps of 1) [inactive]\n" +
	"        Controls the contrast of the acquired image.\n"

func TestParse_DeviceIdentifier(t *testing.T) {
	listing, err := Parse(testListing)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if listing.ID != "plustek:libusb:001:003" {
		t.Errorf("ID = %q, want %q", listing.ID, "plustek:libusb:001:003")
	}
}

func TestParse_ActiveEntriesOnly(t *testing.T) {
	listing, err := Parse(testListing)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	// 9 declared options, one inactive.
	if len(listing.Entries) != 8 {
		t.Fatalf("got %d entries, want 8", len(listing.Entries))
	}
	if _, ok := listing.Entries[KeyContrast]; ok {
		t.Error("inactive --contrast must not be recorded")
	}
}

func TestParse_EntryFields(t *testing.T) {
	listing, err := Parse(testListing)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	tests := []struct {
		key        string
		parameters string
		def        string
	}{
		{KeyMode, "Color|Gray", "Color"},
		{KeyResolution, "75..1200dpi", "75"},
		{KeyLeft, "0..215mm", "0"},
		{KeyHeight, "0..299mm", "76.21"},
		{KeyBrightness, "-100..100% (in steps of 5)", "0"},
	}

	for _, tt := range tests {
		entry, ok := listing.Entries[tt.key]
		if !ok {
			t.Errorf("entry %q missing", tt.key)
			continue
		}
		if entry.Parameters != tt.parameters {
			t.Errorf("%s: Parameters = %q, want %q", tt.key, entry.Parameters, tt.parameters)
		}
		if entry.Default != tt.def {
			t.Errorf("%s: Default = %q, want %q", tt.key, entry.Default, tt.def)
		}
	}
}

func TestParse_EmptyInput(t *testing.T) {
	_, err := Parse("")
	if !errors.Is(err, ErrEmptyListing) {
		t.Errorf("Parse(\"\") error = %v, want ErrEmptyListing", err)
	}
}

func TestParse_MissingBanner(t *testing.T) {
	// Perfectly valid capability lines, but no device banner anywhere:
	// the identifier failure takes precedence over everything else.
	text := "  Scan Mode:\n" +
		"    --mode Color|Gray [Color]\n" +
		"    --resolution 75..1200dpi [75]\n"

	_, err := Parse(text)
	if !errors.Is(err, ErrNoDeviceIdentifier) {
		t.Errorf("Parse() error = %v, want ErrNoDeviceIdentifier", err)
	}
}

func TestParse_DuplicateKeyLastWins(t *testing.T) {
	text := "All options specific to device `net:localhost:test:0':\n" +
		"    --mode Color|Gray [Color]\n" +
		"    --mode Lineart|Halftone [Lineart]\n"

	listing, err := Parse(text)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	entry := listing.Entries[KeyMode]
	if entry.Parameters != "Lineart|Halftone" {
		t.Errorf("Parameters = %q, want the later occurrence", entry.Parameters)
	}
}

func TestParse_OptionWithoutParameters(t *testing.T) {
	text := "All options specific to device `test:0':\n" +
		"    --preview [no]\n"

	listing, err := Parse(text)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	entry, ok := listing.Entries["--preview"]
	if !ok {
		t.Fatal("--preview entry missing")
	}
	if entry.Parameters != "" {
		t.Errorf("Parameters = %q, want empty", entry.Parameters)
	}
	if entry.Default != "no" {
		t.Errorf("Default = %q, want %q", entry.Default, "no")
	}
}

func TestScanOptionLine_Rejections(t *testing.T) {
	tests := []struct {
		name string
		line string
	}{
		{"section header", "  Scan Mode:"},
		{"description", "        Selects the scan mode."},
		{"blank", ""},
		{"no bracketed value", "    --mode Color|Gray"},
		{"bare markers", "    -- [x]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, ok := scanOptionLine(tt.line); ok {
				t.Errorf("scanOptionLine(%q) accepted, want rejected", tt.line)
			}
		})
	}
}
