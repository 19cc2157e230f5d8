package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeName(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Apple Inc.", "apple"},
		{"APPLE INC", "apple"},
		{"Microsoft Corporation", "microsoft"},
		{"Amazon.com, Inc.", "amazoncom"},
		{"Alphabet Inc.", "alphabet"},
		{"Berkshire Hathaway Inc.", "berkshire hathaway"},
		{"International Business Machines Corporation", "international business machines"},
		{"AT&T Inc.", "att"},
		{"  spaced   out  ", "spaced out"},
		{"", ""},
		{"!!!", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, NormalizeName(tt.input), "input %q", tt.input)
	}
}

func TestNormalizeSymbol(t *testing.T) {
	assert.Equal(t, "AAPL", NormalizeSymbol(" aapl "))
	assert.Equal(t, "BRK.A", NormalizeSymbol("brk.a"))
	assert.Equal(t, "", NormalizeSymbol("   "))
}
