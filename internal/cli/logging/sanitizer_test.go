package logging_test

import (
	"strings"
	"testing"

	"github.com/jupyter/ipython-py3k/internal/cli/logging"
)

func TestSanitizeTokensRedactsSensitiveAssignments(t *testing.T) {
	out := logging.SanitizeTokens([]string{
		"Global.log_level=10",
		"Db.password='hunter2'",
		"Api.token=abc123",
		"report.csv",
	})

	if strings.Contains(out, "hunter2") || strings.Contains(out, "abc123") {
		t.Fatalf("sensitive values leaked: %s", out)
	}
	if !strings.Contains(out, "Global.log_level=10") {
		t.Fatalf("benign assignments should pass through: %s", out)
	}
	if !strings.Contains(out, "Db.password=***") {
		t.Fatalf("expected redaction placeholder: %s", out)
	}
}

func TestSanitizeTokensEmpty(t *testing.T) {
	if out := logging.SanitizeTokens(nil); out != "" {
		t.Fatalf("expected empty output, got %q", out)
	}
}

func TestSanitizeTextRedactsInlinePairs(t *testing.T) {
	out := logging.SanitizeText("retrying with passphrase=topsecret now")
	if strings.Contains(out, "topsecret") {
		t.Fatalf("expected passphrase to be redacted: %s", out)
	}
	if !strings.Contains(out, "passphrase=***") {
		t.Fatalf("expected placeholder: %s", out)
	}
}
