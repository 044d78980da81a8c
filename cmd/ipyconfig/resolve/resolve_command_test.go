package resolve_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jupyter/ipython-py3k/cmd/ipyconfig/resolve"
	"github.com/jupyter/ipython-py3k/pkg/loader"
)

func writeScript(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := resolve.NewResolveCommand()
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestResolveMergesFileAndArguments(t *testing.T) {
	dir := t.TempDir()
	writeScript(t, dir, "app_config.py", strings.Join([]string{
		"c = get_config()",
		"c.App.name = 'from-file'",
		"c.App.retries = 3",
	}, "\n"))

	out, err := runCommand(t,
		"--file", "app_config.py", "--dir", dir, "--output", "json",
		"App.name='from-cli'", "report.csv",
	)
	if err != nil {
		t.Fatalf("resolve failed: %v\n%s", err, out)
	}

	var payload struct {
		Config    map[string]map[string]any `json:"config"`
		ExtraArgs []string                  `json:"extraArgs"`
	}
	if err := json.Unmarshal([]byte(out), &payload); err != nil {
		t.Fatalf("output is not valid JSON: %v\n%s", err, out)
	}
	if got := payload.Config["App"]["name"]; got != "from-cli" {
		t.Fatalf("App.name = %v, want from-cli", got)
	}
	if got := payload.Config["App"]["retries"]; got != float64(3) {
		t.Fatalf("App.retries = %v, want 3", got)
	}
	if len(payload.ExtraArgs) != 1 || payload.ExtraArgs[0] != "report.csv" {
		t.Fatalf("extraArgs = %v, want [report.csv]", payload.ExtraArgs)
	}
}

func TestResolveExpandsBuiltinFlagsAndAliases(t *testing.T) {
	out, err := runCommand(t, "--output", "json", "--", "--debug", "profile=dev")
	if err != nil {
		t.Fatalf("resolve failed: %v\n%s", err, out)
	}

	var payload struct {
		Config map[string]map[string]any `json:"config"`
	}
	if err := json.Unmarshal([]byte(out), &payload); err != nil {
		t.Fatalf("output is not valid JSON: %v\n%s", err, out)
	}
	if got := payload.Config["Global"]["log_level"]; got != float64(10) {
		t.Fatalf("Global.log_level = %v, want 10", got)
	}
	if got := payload.Config["Global"]["profile"]; got != "dev" {
		t.Fatalf("Global.profile = %v, want dev", got)
	}
}

func TestResolveRejectsUnknownFlag(t *testing.T) {
	_, err := runCommand(t, "--output", "json", "--", "--no-such-flag")
	if !errors.Is(err, loader.ErrUnrecognizedFlag) {
		t.Fatalf("expected ErrUnrecognizedFlag, got %v", err)
	}
}

func TestResolveReportsMissingFile(t *testing.T) {
	dir := t.TempDir()
	out, err := runCommand(t, "--file", "absent_config.py", "--dir", dir)
	if err == nil {
		t.Fatalf("expected error for missing file, got output:\n%s", out)
	}
	if !strings.Contains(err.Error(), "absent_config.py") {
		t.Fatalf("error should name the file: %v", err)
	}
}

func TestResolveProfileDirectorySearchedFirst(t *testing.T) {
	base := t.TempDir()
	profileDir := filepath.Join(base, "profile_dev")
	if err := os.Mkdir(profileDir, 0o700); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	fallback := t.TempDir()
	writeScript(t, profileDir, "app_config.py", "c = get_config()\nc.App.source = 'profile'\n")
	writeScript(t, fallback, "app_config.py", "c = get_config()\nc.App.source = 'fallback'\n")

	out, err := runCommand(t,
		"--file", "app_config.py", "--dir", fallback,
		"--profile", "dev", "--profile-base", base, "--output", "json",
	)
	if err != nil {
		t.Fatalf("resolve failed: %v\n%s", err, out)
	}

	var payload struct {
		Config map[string]map[string]any `json:"config"`
	}
	if err := json.Unmarshal([]byte(out), &payload); err != nil {
		t.Fatalf("output is not valid JSON: %v\n%s", err, out)
	}
	if got := payload.Config["App"]["source"]; got != "profile" {
		t.Fatalf("App.source = %v, want profile", got)
	}
}

func TestResolveUserFlagTableOverridesBuiltin(t *testing.T) {
	dir := t.TempDir()
	flagsFile := filepath.Join(dir, "flags.yaml")
	table := strings.Join([]string{
		"aliases:",
		"  workers: Pool.size",
		"flags:",
		"  trace:",
		"    help: enable tracing",
		"    config:",
		"      Global:",
		"        log_level: 5",
	}, "\n")
	if err := os.WriteFile(flagsFile, []byte(table), 0o600); err != nil {
		t.Fatalf("write flags file: %v", err)
	}

	out, err := runCommand(t,
		"--flags-file", flagsFile, "--output", "json",
		"--", "--trace", "workers=8",
	)
	if err != nil {
		t.Fatalf("resolve failed: %v\n%s", err, out)
	}

	var payload struct {
		Config map[string]map[string]any `json:"config"`
	}
	if err := json.Unmarshal([]byte(out), &payload); err != nil {
		t.Fatalf("output is not valid JSON: %v\n%s", err, out)
	}
	if got := payload.Config["Global"]["log_level"]; got != float64(5) {
		t.Fatalf("Global.log_level = %v, want 5", got)
	}
	if got := payload.Config["Pool"]["size"]; got != float64(8) {
		t.Fatalf("Pool.size = %v, want 8", got)
	}
}
