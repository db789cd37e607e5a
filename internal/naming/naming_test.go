package naming

import (
	"hash/fnv"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeServerName_ValidNamesPassThrough(t *testing.T) {
	tests := []string{
		"weather",
		"my_server",
		"Server1",
		"a",
		"fetch_v2",
	}

	for _, name := range tests {
		t.Run(name, func(t *testing.T) {
			h := fnv.New64a()
			assert.Equal(t, name, SanitizeServerName(name, h))
		})
	}
}

func TestSanitizeServerName_FiltersInvalidRunes(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"dots", "my.server", "myserver"},
		{"leading digit", "1password", "password"},
		{"unicode", "wétter", "wtter"},
		{"spaces", "my server", "myserver"},
		{"at sign", "org@tools", "orgtools"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := fnv.New64a()
			assert.Equal(t, tt.want, SanitizeServerName(tt.in, h))
		})
	}
}

func TestSanitizeServerName_EmptyAfterFilterFallsBackToHash(t *testing.T) {
	tests := []string{
		"123",
		"___",
		"!!!",
		"日本語",
		"",
	}

	for _, in := range tests {
		t.Run(in, func(t *testing.T) {
			h := fnv.New64a()
			got := SanitizeServerName(in, h)
			assert.NotEmpty(t, got)
			_, err := strconv.ParseUint(got, 10, 64)
			assert.NoError(t, err, "fallback should be a decimal string, got %q", got)
		})
	}
}

// The hasher is shared and never reset, so the fallback for a given input
// depends on what was hashed before it. Two all-invalid names in the same
// pass must still both resolve to non-empty values.
func TestSanitizeServerName_SharedHasherIsOrderDependent(t *testing.T) {
	h := fnv.New64a()
	first := SanitizeServerName("!!!", h)
	second := SanitizeServerName("!!!", h)

	assert.NotEmpty(t, first)
	assert.NotEmpty(t, second)
	assert.NotEqual(t, first, second, "accumulator state should differ between calls")

	// Deterministic given the same prior inputs.
	h2 := fnv.New64a()
	assert.Equal(t, first, SanitizeServerName("!!!", h2))
	assert.Equal(t, second, SanitizeServerName("!!!", h2))
}

func TestNormalizeServerName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"My-Server", "my_server"},
		{"weatherAPI", "weather_api"},
		{"already_snake", "already_snake"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			h := fnv.New64a()
			assert.Equal(t, tt.want, NormalizeServerName(tt.in, h))
		})
	}
}

func TestIsValidName(t *testing.T) {
	assert.True(t, IsValidName("abc_123"))
	assert.False(t, IsValidName("1abc"))
	assert.False(t, IsValidName("a-b"))
	assert.False(t, IsValidName(""))
}
