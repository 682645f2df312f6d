package validation

import (
	"strings"
	"testing"
)

func TestValidateModel(t *testing.T) {
	tests := []struct {
		name    string
		model   string
		wantErr bool
	}{
		// Valid models
		{"simple", "gpt-4o", false},
		{"with dot", "gpt-3.5-turbo", false},
		{"with underscore", "o200k_base", false},
		{"single char", "a", false},
		{"all digits", "4", false},
		{"max length", strings.Repeat("a", 64), false},

		// Invalid models - injection attempts
		{"empty", "", true},
		{"line protocol injection", "gpt-4o,host=evil value=1", true},
		{"flux injection", `gpt") |> drop()`, true},
		{"newline injection", "gpt-4o\nother", true},
		{"uppercase", "GPT-4O", true}, // Must be lowercase
		{"too long", strings.Repeat("a", 65), true},
		{"spaces", "gpt 4o", true},
		{"starts with dot", ".gpt", true},
		{"starts with hyphen", "-gpt", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateModel(tt.model)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateModel(%q) error = %v, wantErr %v", tt.model, err, tt.wantErr)
			}
		})
	}
}

func TestSanitizeModel(t *testing.T) {
	tests := []struct {
		name    string
		model   string
		want    string
		wantErr bool
	}{
		{"lowercase passthrough", "gpt-4o", "gpt-4o", false},
		{"uppercase normalized", "GPT-4O", "gpt-4o", false},
		{"mixed case", "Gpt-4o", "gpt-4o", false},
		{"with spaces trimmed", "  gpt-4o  ", "gpt-4o", false},
		{"invalid rejected", "bad model!", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SanitizeModel(tt.model)
			if (err != nil) != tt.wantErr {
				t.Errorf("SanitizeModel(%q) error = %v, wantErr %v", tt.model, err, tt.wantErr)
				return
			}
			if got != tt.want {
				t.Errorf("SanitizeModel(%q) = %q, want %q", tt.model, got, tt.want)
			}
		})
	}
}

func TestValidateTag(t *testing.T) {
	tests := []struct {
		name    string
		tag     string
		wantErr bool
	}{
		{"time series", "time-series", false},
		{"matrix", "matrix", false},
		{"with digit", "records2", false},

		{"empty", "", true},
		{"uppercase", "Matrix", true},
		{"starts with digit", "2records", true},
		{"starts with hyphen", "-matrix", true},
		{"special chars", "matrix;drop", true},
		{"too long", strings.Repeat("a", 33), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateTag(tt.tag)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateTag(%q) error = %v, wantErr %v", tt.tag, err, tt.wantErr)
			}
		})
	}
}

func TestValidateTags(t *testing.T) {
	tests := []struct {
		name    string
		tags    []string
		wantErr bool
	}{
		{"all valid", []string{"time-series", "matrix", "records"}, false},
		{"one invalid", []string{"matrix", "BAD!", "records"}, true},
		{"all invalid", []string{"Matrix", "Records"}, true},
		{"empty slice", []string{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateTags(tt.tags)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateTags(%v) error = %v, wantErr %v", tt.tags, err, tt.wantErr)
			}
		})
	}
}

func TestValidateSize(t *testing.T) {
	tests := []struct {
		name    string
		size    int
		wantErr bool
	}{
		{"one", 1, false},
		{"typical", 1000, false},
		{"max", MaxDatasetSize, false},

		{"zero", 0, true},
		{"negative", -5, true},
		{"over max", MaxDatasetSize + 1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSize(tt.size)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateSize(%d) error = %v, wantErr %v", tt.size, err, tt.wantErr)
			}
		})
	}
}

func TestValidateSizes(t *testing.T) {
	tooMany := make([]int, MaxSizeCount+1)
	for i := range tooMany {
		tooMany[i] = i + 1
	}

	tests := []struct {
		name    string
		sizes   []int
		wantErr bool
	}{
		{"single", []int{100}, false},
		{"ascending", []int{10, 100, 1000}, false},

		{"empty", []int{}, true},
		{"nil", nil, true},
		{"contains zero", []int{10, 0, 100}, true},
		{"contains negative", []int{10, -1}, true},
		{"too many entries", tooMany, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSizes(tt.sizes)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateSizes(%v) error = %v, wantErr %v", tt.sizes, err, tt.wantErr)
			}
		})
	}
}

func TestValidateRunID(t *testing.T) {
	tests := []struct {
		name    string
		runID   string
		wantErr bool
	}{
		{"valid uuid", "a1b2c3d4-e5f6-4a7b-8c9d-0e1f2a3b4c5d", false},
		{"all zeros", "00000000-0000-0000-0000-000000000000", false},

		{"empty", "", true},
		{"uppercase hex", "A1B2C3D4-E5F6-4A7B-8C9D-0E1F2A3B4C5D", true},
		{"missing hyphens", "a1b2c3d4e5f64a7b8c9d0e1f2a3b4c5d", true},
		{"too short", "a1b2c3d4-e5f6", true},
		{"key injection", "run:../other", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRunID(tt.runID)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateRunID(%q) error = %v, wantErr %v", tt.runID, err, tt.wantErr)
			}
		})
	}
}
