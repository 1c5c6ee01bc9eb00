package parser

import (
	"reflect"
	"testing"
)

func TestParseConstraints(t *testing.T) {
	tests := []struct {
		name    string
		pairs   []string
		want    map[string]string
		wantErr bool
	}{
		{"none", nil, nil, false},
		{"blank entries", []string{"", "  "}, nil, false},
		{
			name:  "description with spaces",
			pairs: []string{"description=Age in years"},
			want:  map[string]string{"description": "Age in years"},
		},
		{
			name:  "several keys",
			pairs: []string{"unit=years", "format=x=y"},
			want:  map[string]string{"unit": "years", "format": "x=y"},
		},
		{
			name:  "empty value",
			pairs: []string{"note="},
			want:  map[string]string{"note": ""},
		},

		// Error cases
		{name: "no separator", pairs: []string{"description"}, wantErr: true},
		{name: "empty key", pairs: []string{"=value"}, wantErr: true},
		{name: "bad key", pairs: []string{"two words=x"}, wantErr: true},
		{name: "duplicate key", pairs: []string{"unit=a", "unit=b"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseConstraints(tt.pairs)

			if tt.wantErr {
				if err == nil {
					t.Errorf("ParseConstraints(%q) expected error, got nil", tt.pairs)
				}
				return
			}

			if err != nil {
				t.Fatalf("ParseConstraints(%q) unexpected error: %v", tt.pairs, err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseConstraints(%q) = %v, want %v", tt.pairs, got, tt.want)
			}
		})
	}
}
