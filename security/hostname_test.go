package security

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateHostnameOrIP(t *testing.T) {
	tests := []struct {
		value string
		want  bool
	}{
		{"8.8.8.8", true},
		{"::1", true},
		{"example.com", true},
		{"sub.example-site.com", true},
		{"localhost", true},
		{"  example.com  ", true},
		{"", false},
		{"   ", false},
		{"-example.com", false},
		{"example.com-", false},
		{"a..b", false},
		{"host name", false},
		{"localhost; rm -rf /", false},
		{"$(whoami)", false},
		{"a_b.com", false},
		{strings.Repeat("a", 254), false},
		{strings.Repeat("a", 253), true},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ValidateHostnameOrIP(tt.value), "value %q", tt.value)
	}
}
