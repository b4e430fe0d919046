package env

import (
	"os"
	"strings"
)

// Prefix namespaces every artisanhub environment variable.
const Prefix = "ARTISANHUB_"

// Get returns the value of the given environment variable or a fallback.
// The prefixed form (ARTISANHUB_<key>) wins over the bare key.
func Get(key, fallback string) string {
	key = strings.TrimPrefix(key, Prefix)
	if val := os.Getenv(Prefix + key); val != "" {
		return val
	}
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}
