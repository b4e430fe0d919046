package env

import "testing"

func TestGetPrefersPrefixedKey(t *testing.T) {
	t.Setenv("LOG_FORMAT", "json")
	t.Setenv("ARTISANHUB_LOG_FORMAT", "console")

	if got := Get("LOG_FORMAT", "fallback"); got != "console" {
		t.Fatalf("expected prefixed value, got %q", got)
	}
}

func TestGetFallsBack(t *testing.T) {
	if got := Get("ARTISANHUB_DOES_NOT_EXIST", "fallback"); got != "fallback" {
		t.Fatalf("expected fallback, got %q", got)
	}
}
