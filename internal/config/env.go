package config

import (
	"os"
	"regexp"
	"strings"
)

// envVarPattern matches environment variable references.
// Supports formats:
//   - ${VAR_NAME} - standard shell-like format
//   - ${VAR_NAME:-default} - with default value if unset or empty
//   - $VAR_NAME - simple format (word characters only)
var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}|\$([a-zA-Z_][a-zA-Z0-9_]*)`)

// ExpandEnv expands environment variable references in a string.
// Unset variables without defaults become the empty string.
func ExpandEnv(s string) string {
	return envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		if inner, ok := strings.CutPrefix(match, "${"); ok {
			inner = strings.TrimSuffix(inner, "}")
			if name, def, found := strings.Cut(inner, ":-"); found {
				if val := os.Getenv(name); val != "" {
					return val
				}
				return def
			}
			return os.Getenv(inner)
		}
		return os.Getenv(match[1:])
	})
}
