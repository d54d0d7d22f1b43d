// Package envexpr substitutes ${env.KEY} references in configuration text.
package envexpr

import (
	"os"
	"strings"
	"unicode"
)

const prefix = "${env."

// Expand replaces every well formed ${env.KEY} in value with lookup(KEY).
// A reference without a closing brace is copied verbatim; a key with
// characters other than letters, digits or '_' keeps its prefix literal and
// scanning resumes right after it.
func Expand(value string, lookup func(key string) string) string {
	var builder strings.Builder
	for {
		start := strings.Index(value, prefix)
		if start < 0 {
			builder.WriteString(value)
			return builder.String()
		}
		builder.WriteString(value[:start])
		rest := value[start+len(prefix):]
		end := strings.IndexByte(rest, '}')
		if end < 0 {
			builder.WriteString(value[start:])
			return builder.String()
		}
		key := rest[:end]
		if !isKey(key) {
			builder.WriteString(prefix)
			value = rest
			continue
		}
		builder.WriteString(lookup(key))
		value = rest[end+1:]
	}
}

// ExpandEnv expands references with the process environment
func ExpandEnv(value string) string {
	return Expand(value, os.Getenv)
}

func isKey(key string) bool {
	for _, r := range key {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' {
			return false
		}
	}
	return true
}
