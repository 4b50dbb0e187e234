package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWildcardMatch(t *testing.T) {
	tests := []struct {
		pattern  string
		s        string
		expected bool
	}{
		{"", "", true},
		{"", "a", false},
		{"*", "", true},
		{"*", "anything", true},
		{"a?c", "abc", true},
		{"a?c", "ac", false},
		{"a*c", "abbbc", true},
		{"a*c", "abbbd", false},
		{"*cache*", "user-cache-1", true},
		{"*.*", "a.b.c", true},
		{"jvm", "jvm", true},
		{"jvm", "JVM", false},
		{"a[b]", "a[b]", true},
		{"**x", "x", true},
		{"?*", "", false},
		{"ü?", "üb", true},
	}

	for _, tt := range tests {
		t.Run(tt.pattern+"|"+tt.s, func(t *testing.T) {
			assert.Equal(t, tt.expected, WildcardMatch(tt.pattern, tt.s))
		})
	}
}
