package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "removes invalid characters",
			input:    `file<>:"/\|?*name`,
			expected: "filename",
		},
		{
			name:     "replaces newlines and tabs with spaces",
			input:    "file\nname\twith\rspaces",
			expected: "file name with spaces",
		},
		{
			name:     "collapses multiple spaces",
			input:    "file   name  with    spaces",
			expected: "file name with spaces",
		},
		{
			name:     "trims whitespace",
			input:    "  filename  ",
			expected: "filename",
		},
		{
			name:     "returns Untitled for empty",
			input:    "",
			expected: "Untitled",
		},
		{
			name:     "returns Untitled for only special chars",
			input:    "<>:?*",
			expected: "Untitled",
		},
		{
			name:     "truncates long names",
			input:    strings.Repeat("a", 250),
			expected: strings.Repeat("a", 200),
		},
		{
			name:     "handles unicode",
			input:    "Pamiętnik znaleziony w wannie",
			expected: "Pamiętnik znaleziony w wannie",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := SanitizeFilename(tt.input)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestHeaderSafeFilename(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "plain name passes through",
			input:    "The Go Programming Language.pdf",
			expected: "The Go Programming Language.pdf",
		},
		{
			name:     "strips double quotes",
			input:    `"quoted" title.pdf`,
			expected: "quoted title.pdf",
		},
		{
			name:     "strips carriage returns and newlines",
			input:    "evil\r\nX-Injected: header.pdf",
			expected: "evilX-Injected: header.pdf",
		},
		{
			name:     "falls back for empty input",
			input:    `"`,
			expected: "document",
		},
		{
			name:     "keeps unicode intact",
			input:    "Pamiętnik.pdf",
			expected: "Pamiętnik.pdf",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := HeaderSafeFilename(tt.input)
			assert.Equal(t, tt.expected, result)
		})
	}
}
