package config

import (
	"testing"
	"time"
)

func TestEnvHelpersFallBackOnMissingOrMalformedValues(t *testing.T) {
	t.Setenv("REVIEW_TEST_INT", "abc")
	t.Setenv("REVIEW_TEST_BOOL", "maybe")
	t.Setenv("REVIEW_TEST_SECONDS", "0")

	if got := EnvInt("REVIEW_TEST_INT", 7); got != 7 {
		t.Fatalf("expected fallback 7, got %d", got)
	}
	if got := EnvBool("REVIEW_TEST_BOOL", true); !got {
		t.Fatalf("expected fallback true")
	}
	if got := EnvSeconds("REVIEW_TEST_SECONDS", time.Minute); got != time.Minute {
		t.Fatalf("expected fallback 1m, got %s", got)
	}
	if got := EnvString("REVIEW_TEST_UNSET", "x"); got != "x" {
		t.Fatalf("expected fallback x, got %q", got)
	}
}

func TestEnvHelpersParseValues(t *testing.T) {
	t.Setenv("REVIEW_TEST_INT", " 42 ")
	t.Setenv("REVIEW_TEST_BOOL", "off")
	t.Setenv("REVIEW_TEST_SECONDS", "90")

	if got := EnvInt("REVIEW_TEST_INT", 0); got != 42 {
		t.Fatalf("expected 42, got %d", got)
	}
	if got := EnvBool("REVIEW_TEST_BOOL", true); got {
		t.Fatalf("expected false")
	}
	if got := EnvSeconds("REVIEW_TEST_SECONDS", 0); got != 90*time.Second {
		t.Fatalf("expected 90s, got %s", got)
	}
}

func TestMailSettingsConfigured(t *testing.T) {
	t.Setenv("SMTP_HOST", "smtp.example.org")
	t.Setenv("SMTP_FROM", "")
	if LoadMailSettings().Configured() {
		t.Fatalf("expected unconfigured without SMTP_FROM")
	}
	if err := SendMail(LoadMailSettings(), []string{"a@example.org"}, "s", "b"); err == nil {
		t.Fatalf("expected error for unconfigured relay")
	}
	if err := SendMail(LoadMailSettings(), nil, "s", "b"); err != nil {
		t.Fatalf("expected no-op for empty recipients, got %v", err)
	}
}
