package parser

import (
	"testing"
)

func TestParseOffset(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"0", 0, false},
		{"3", 3, false},
		{" 12 ", 12, false},
		{"007", 7, false},
		{"4096", 4096, false},
		{"2147483647", MaxOffset, false},

		// Error cases
		{"", 0, true},
		{"   ", 0, true},
		{"-1", 0, true},
		{"+1", 0, true},
		{"1.5", 0, true},
		{"1e3", 0, true},
		{"abc", 0, true},
		{"99999999999999999999999", 0, true}, // overflow
		{"2147483648", 0, true},              // above MaxOffset
		{"9223372036854775807", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseOffset(tt.in)

			if tt.wantErr {
				if err == nil {
					t.Errorf("ParseOffset(%q) expected error, got %d", tt.in, got)
				}
				return
			}

			if err != nil {
				t.Fatalf("ParseOffset(%q) unexpected error: %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("ParseOffset(%q) = %d, want %d", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseRange(t *testing.T) {
	tests := []struct {
		in        string
		wantStart string
		wantEnd   string
		wantErr   bool
	}{
		{"0:3", "0", "3", false},
		{"10 : 12", "10", "12", false},
		{"5:5", "5", "5", false}, // ordering is the validator's call
		{"x:y", "x", "y", false},

		// Error cases
		{"", "", "", true},
		{"4", "", "", true},
		{"0:", "", "", true},
		{":3", "", "", true},
		{"0:3:6", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			start, end, err := ParseRange(tt.in)

			if tt.wantErr {
				if err == nil {
					t.Errorf("ParseRange(%q) expected error, got nil", tt.in)
				}
				return
			}

			if err != nil {
				t.Fatalf("ParseRange(%q) unexpected error: %v", tt.in, err)
			}
			if start != tt.wantStart || end != tt.wantEnd {
				t.Errorf("ParseRange(%q) = %q, %q, want %q, %q", tt.in, start, end, tt.wantStart, tt.wantEnd)
			}
		})
	}
}
