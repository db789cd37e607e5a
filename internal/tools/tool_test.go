package tools

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitNamespaced(t *testing.T) {
	tests := []struct {
		name         string
		in           string
		wantProvider string
		wantTool     string
		wantOK       bool
	}{
		{"simple", "weather___get_forecast", "weather", "get_forecast", true},
		{"no delimiter", "get_forecast", "", "", false},
		{"double underscore only", "weather__get_forecast", "", "", false},
		// First-match split: a tool name containing the delimiter is still
		// isolated as everything after the first occurrence.
		{"delimiter in tool name", "svc___a___b", "svc", "a___b", true},
		{"empty tool name", "svc___", "svc", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider, tool, ok := SplitNamespaced(tt.in)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.wantProvider, provider)
				assert.Equal(t, tt.wantTool, tool)
			}
		})
	}
}

func TestErrorResult(t *testing.T) {
	res := ErrorResult("tool-use-1", "something went wrong")

	assert.Equal(t, "tool-use-1", res.ToolUseID)
	assert.Equal(t, StatusError, res.Status)
	require.Len(t, res.Content, 1)
	assert.Equal(t, "something went wrong", res.Content[0].Text)
}

func TestBuiltinToolIndex(t *testing.T) {
	specs, err := BuiltinToolIndex()
	require.NoError(t, err)

	for _, name := range []string{NameFsRead, NameFsWrite, NameExecuteBash, NameUseAws, NameReportIssue} {
		spec, ok := specs[name]
		require.True(t, ok, "missing builtin spec %s", name)
		assert.Equal(t, name, spec.Name)
		assert.NotEmpty(t, spec.Description)
		assert.NotNil(t, spec.InputSchema)
	}
}

// The index map is rebuilt on each call; mutating one copy must not leak
// into the next.
func TestBuiltinToolIndex_FreshMapPerCall(t *testing.T) {
	first, err := BuiltinToolIndex()
	require.NoError(t, err)
	delete(first, NameFsRead)

	second, err := BuiltinToolIndex()
	require.NoError(t, err)
	assert.Contains(t, second, NameFsRead)
}
