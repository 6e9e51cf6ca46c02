package model

import (
	"reflect"
	"testing"
)

func TestStructuredDataMissing(t *testing.T) {
	tests := []struct {
		name     string
		data     StructuredData
		expected []string
	}{
		{
			name:     "nil data misses everything",
			data:     nil,
			expected: RequiredStructuredDataFields,
		},
		{
			name: "complete",
			data: StructuredData{
				"@context":        "https://schema.org",
				"@type":           "SoftwareApplication",
				"name":            "CC Gate",
				"description":     "Gate for Claude Code",
				"downloadUrl":     "https://example.com/ccgate.pkg",
				"softwareVersion": "2.8.2",
			},
			expected: nil,
		},
		{
			name: "partial",
			data: StructuredData{
				"@context": "https://schema.org",
				"@type":    "SoftwareApplication",
				"name":     "CC Gate",
			},
			expected: []string{"description", "downloadUrl", "softwareVersion"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.data.Missing()
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("Missing() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestStructuredDataString(t *testing.T) {
	d := StructuredData{"softwareVersion": "2.8.2", "offers": map[string]any{"price": "0"}}
	if got := d.String("softwareVersion"); got != "2.8.2" {
		t.Errorf("String() = %q, want 2.8.2", got)
	}
	if got := d.String("offers"); got != "" {
		t.Errorf("String() on object = %q, want empty", got)
	}
}

func TestSummaryCounts(t *testing.T) {
	s := &Summary{Results: []CheckResult{
		{Name: "a", Passed: true},
		{Name: "b", Passed: false},
		{Name: "c", Passed: true},
		{Name: "d", Passed: true},
	}}

	if s.Total() != 4 || s.Passed() != 3 || s.Failed() != 1 {
		t.Errorf("counts = %d/%d/%d, want 4/3/1", s.Total(), s.Passed(), s.Failed())
	}
	if s.Percent() != 75 {
		t.Errorf("Percent() = %v, want 75", s.Percent())
	}
	if s.OK() {
		t.Error("OK() = true with a failed check")
	}

	empty := &Summary{}
	if empty.OK() || empty.Percent() != 0 {
		t.Error("empty summary must not be OK and must report 0%")
	}
}

func TestAssetSizeMB(t *testing.T) {
	a := Asset{Size: 3 * 1024 * 1024}
	if a.SizeMB() != 3 {
		t.Errorf("SizeMB() = %v, want 3", a.SizeMB())
	}
}
