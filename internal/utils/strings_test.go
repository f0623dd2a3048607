package utils

import "testing"

func TestMaskKey(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"empty string", "", "(empty)"},
		{"short key", "sk-123", "****"},
		{"legacy key", "sk-abcdefghijklmnopqrstuvwxyz1234", "sk-...1234"},
		{"project key", "sk-proj-abcdefghijklmnopqrstuvwxyz9876", "sk-proj-...9876"},
		{"no prefix", "abcdefghijklmnopqrstuvwxyz", "...wxyz"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := MaskKey(tt.input)
			if result != tt.expected {
				t.Errorf("MaskKey(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}
