package extractors

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanText(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "removes cid artifacts",
			input:    "The term(cid:32)is five(cid:9)years.",
			expected: "The termis fiveyears.",
		},
		{
			name:     "form feed becomes newline",
			input:    "page one\fpage two",
			expected: "page one\npage two",
		},
		{
			name:     "collapses spaces and tabs",
			input:    "spaced    out\tand\t\ttabbed",
			expected: "spaced out and tabbed",
		},
		{
			name:     "collapses blank runs to paragraph break",
			input:    "first\n\n\n\n\nsecond",
			expected: "first\n\nsecond",
		},
		{
			name:     "trims line and document edges",
			input:    "  \n  hello  \n  world  \n\n",
			expected: "hello\nworld",
		},
		{
			name:     "normalizes CRLF",
			input:    "a\r\nb",
			expected: "a\nb",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, CleanText(tc.input))
		})
	}
}
