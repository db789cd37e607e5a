// Package naming rewrites provider names into the restricted alphabet
// allowed inside namespaced tool identifiers. The model-facing tool name is
// just {server_name}{delimiter}{tool_name}, so server names have to satisfy
// the same pattern as tool names.
package naming

import (
	"hash"
	"regexp"
	"strconv"
	"strings"

	"github.com/iancoleman/strcase"
)

// validNameRegex matches: starts with a letter, followed by letters, digits
// or underscores.
var validNameRegex = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9_]*$`)

// IsValidName reports whether name already satisfies the identifier pattern.
func IsValidName(name string) bool {
	return validNameRegex.MatchString(name)
}

// NormalizeServerName converts a raw server name to snake_case and sanitizes
// it. This is the full pipeline applied to every configured provider name
// before bootstrap.
func NormalizeServerName(raw string, h hash.Hash64) string {
	return SanitizeServerName(strcase.ToSnake(raw), h)
}

// SanitizeServerName maps orig onto the identifier pattern. Valid names pass
// through unchanged; otherwise every rune that individually fails the
// pattern is dropped. If nothing survives the filter, the original name is
// fed into h and the decimal form of the running sum is returned instead.
//
// h is shared across the whole sanitization pass and never reset, so the
// fallback value for a given input depends on what was hashed before it.
// Duplicate results are tolerated here; collision resolution happens when
// the booted clients are inserted into the manager's map.
func SanitizeServerName(orig string, h hash.Hash64) string {
	if IsValidName(orig) {
		return orig
	}
	var b strings.Builder
	for _, r := range orig {
		if IsValidName(string(r)) {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		h.Write([]byte(orig))
		return strconv.FormatUint(h.Sum64(), 10)
	}
	return b.String()
}
