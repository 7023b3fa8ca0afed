// Package shared provides common utility functions used across multiple
// packages in the rnlink codebase.
package shared

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
)

// StripVersion removes a trailing "@version" from a package argument while
// keeping the leading "@" of scoped names.
func StripVersion(value string) string {
	name := strings.TrimSpace(value)
	idx := strings.LastIndex(name, "@")
	if idx <= 0 {
		return name
	}
	return name[:idx]
}

// HTTPStatusError creates a formatted error for non-2xx HTTP responses.
func HTTPStatusError(status int, url string) error {
	return fmt.Errorf("status=%d url=%s", status, url)
}

// CommandError wraps a command execution error with its trimmed output
// for cleaner error messages.
func CommandError(output []byte, err error) error {
	return fmt.Errorf("%s: %w", strings.TrimSpace(string(output)), err)
}

// RelSlash returns target relative to base with forward slashes, as
// written into gradle and Xcode files.
func RelSlash(base string, target string) (string, error) {
	rel, err := filepath.Rel(base, target)
	if err != nil {
		return "", err
	}
	return filepath.ToSlash(rel), nil
}

var fontExtensions = map[string]bool{
	".ttf":   true,
	".otf":   true,
	".woff":  true,
	".woff2": true,
}

// IsFont reports whether path looks like a font file.
func IsFont(path string) bool {
	return fontExtensions[strings.ToLower(filepath.Ext(path))]
}

// FilterFonts keeps the font files of paths, in order.
func FilterFonts(paths []string) []string {
	out := []string{}
	for _, path := range paths {
		if IsFont(path) {
			out = append(out, path)
		}
	}
	return out
}

// SortedKeys returns the keys of m in lexical order.
func SortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
