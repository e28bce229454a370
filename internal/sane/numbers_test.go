package sane

import (
	"math"
	"testing"
)

func TestExtractNumbers(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		delimiter string
		want      []float64
	}{
		{
			name:      "range with unit suffix",
			text:      "75..1200dpi",
			delimiter: "..",
			want:      []float64{75, 1200},
		},
		{
			name:      "enumeration with percent",
			text:      "50|75|100%",
			delimiter: "|",
			want:      []float64{50, 75, 100},
		},
		{
			name:      "negative bounds",
			text:      "-100..100%",
			delimiter: "..",
			want:      []float64{-100, 100},
		},
		{
			name:      "millimetre range",
			text:      "0..215mm",
			delimiter: "..",
			want:      []float64{0, 215},
		},
		{
			name:      "fractional values",
			text:      "0.5|1.25mm",
			delimiter: "|",
			want:      []float64{0.5, 1.25},
		},
		{
			name:      "trailing step hint noise",
			text:      "50..1200dpi (in steps of 1)",
			delimiter: "..",
			want:      []float64{50, 1200},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractNumbers(tt.text, tt.delimiter)
			if len(got) != len(tt.want) {
				t.Fatalf("ExtractNumbers(%q, %q) = %v, want %v", tt.text, tt.delimiter, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("ExtractNumbers(%q, %q)[%d] = %v, want %v", tt.text, tt.delimiter, i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestExtractNumbers_MalformedFragments(t *testing.T) {
	got := ExtractNumbers("abc..42", "..")
	if len(got) != 2 {
		t.Fatalf("got %d numbers, want 2", len(got))
	}
	if !math.IsNaN(got[0]) {
		t.Errorf("got[0] = %v, want NaN", got[0])
	}
	if got[1] != 42 {
		t.Errorf("got[1] = %v, want 42", got[1])
	}
}

func TestExtractNumbers_EmptyText(t *testing.T) {
	got := ExtractNumbers("", "..")
	if len(got) != 1 || !math.IsNaN(got[0]) {
		t.Errorf("ExtractNumbers(\"\", ..) = %v, want single NaN", got)
	}
}
