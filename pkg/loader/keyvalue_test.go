package loader_test

import (
	"errors"
	"reflect"
	"testing"

	"github.com/jupyter/ipython-py3k/pkg/config"
	"github.com/jupyter/ipython-py3k/pkg/loader"
)

func mustFlag(t *testing.T, fragment map[string]any, help string) loader.FlagDefinition {
	t.Helper()
	def, err := loader.FlagFromMap(fragment, help)
	if err != nil {
		t.Fatalf("FlagFromMap returned error: %v", err)
	}
	return def
}

func TestKeyValueLoaderParsesAssignments(t *testing.T) {
	kv := loader.NewKeyValueLoader([]string{"foo='bar'", "A.name='brian'", "B.number=0"}, nil, nil)
	cfg, err := kv.LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}

	for path, want := range map[string]any{
		"foo":      "bar",
		"A.name":   "brian",
		"B.number": int64(0),
	} {
		got, err := cfg.GetPath(path)
		if err != nil {
			t.Fatalf("GetPath(%q): %v", path, err)
		}
		if got != want {
			t.Fatalf("GetPath(%q) = %#v, want %#v", path, got, want)
		}
	}
	if extras := kv.ExtraArgs(); len(extras) != 0 {
		t.Fatalf("expected no extra args, got %v", extras)
	}
}

func TestKeyValueLoaderBareWordFallback(t *testing.T) {
	kv := loader.NewKeyValueLoader([]string{"A.editor=/usr/bin/vi", "B.flavor=vanilla"}, nil, nil)
	cfg, err := kv.LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}

	for path, want := range map[string]string{
		"A.editor": "/usr/bin/vi",
		"B.flavor": "vanilla",
	} {
		got, err := cfg.GetPath(path)
		if err != nil {
			t.Fatalf("GetPath(%q): %v", path, err)
		}
		if got != want {
			t.Fatalf("GetPath(%q) = %#v, want %q", path, got, want)
		}
	}
}

func TestKeyValueLoaderMalformedQuotedValueFails(t *testing.T) {
	kv := loader.NewKeyValueLoader([]string{"A.x='unterminated"}, nil, nil)
	if _, err := kv.LoadConfig(); err == nil {
		t.Fatalf("expected an eval error for a malformed quoted value")
	}
}

func TestKeyValueLoaderAliasSubstitution(t *testing.T) {
	aliases := loader.Aliases{"profile": "Global.profile"}
	kv := loader.NewKeyValueLoader([]string{"profile='dev'"}, aliases, nil)
	cfg, err := kv.LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	got, err := cfg.GetPath("Global.profile")
	if err != nil {
		t.Fatalf("GetPath: %v", err)
	}
	if got != "dev" {
		t.Fatalf("expected alias to expand to Global.profile, got %v", got)
	}
}

func TestKeyValueLoaderFlagExpansion(t *testing.T) {
	flags := loader.Flags{
		"verbose": mustFlag(t, map[string]any{"Log": map[string]any{"level": int64(10)}}, "enable debug logs"),
	}
	kv := loader.NewKeyValueLoader([]string{"report.csv", "--verbose"}, nil, flags)
	cfg, err := kv.LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}

	got, err := cfg.GetPath("Log.level")
	if err != nil {
		t.Fatalf("GetPath: %v", err)
	}
	if got != int64(10) {
		t.Fatalf("expected Log.level 10, got %v", got)
	}
	if extras := kv.ExtraArgs(); !reflect.DeepEqual(extras, []string{"report.csv"}) {
		t.Fatalf("expected extra args [report.csv], got %v", extras)
	}
}

func TestKeyValueLoaderFlagUpdatesWithoutClobbering(t *testing.T) {
	flags := loader.Flags{
		"tune": mustFlag(t, map[string]any{"Engine": map[string]any{"threads": int64(8)}}, ""),
	}
	kv := loader.NewKeyValueLoader([]string{"Engine.cache=256", "--tune"}, nil, flags)
	cfg, err := kv.LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}

	for path, want := range map[string]int64{"Engine.cache": 256, "Engine.threads": 8} {
		got, err := cfg.GetPath(path)
		if err != nil {
			t.Fatalf("GetPath(%q): %v", path, err)
		}
		if got != want {
			t.Fatalf("GetPath(%q) = %v, want %d", path, got, want)
		}
	}
}

func TestKeyValueLoaderUnrecognizedFlag(t *testing.T) {
	kv := loader.NewKeyValueLoader([]string{"--bogus"}, nil, loader.Flags{})
	if _, err := kv.LoadConfig(); !errors.Is(err, loader.ErrUnrecognizedFlag) {
		t.Fatalf("expected ErrUnrecognizedFlag, got %v", err)
	}
}

func TestKeyValueLoaderMalformedDashToken(t *testing.T) {
	for _, token := range []string{"-x", "--no=good", "---triple"} {
		kv := loader.NewKeyValueLoader([]string{token}, nil, nil)
		if _, err := kv.LoadConfig(); !errors.Is(err, loader.ErrInvalidArgument) {
			t.Fatalf("token %q: expected ErrInvalidArgument, got %v", token, err)
		}
	}
}

func TestKeyValueLoaderInvalidFlagDefinition(t *testing.T) {
	flags := loader.Flags{"broken": {Help: "fragment missing"}}
	kv := loader.NewKeyValueLoader([]string{"--broken"}, nil, flags)
	if _, err := kv.LoadConfig(); !errors.Is(err, loader.ErrInvalidFlagDefinition) {
		t.Fatalf("expected ErrInvalidFlagDefinition, got %v", err)
	}
}

func TestKeyValueLoaderExtraArgsPreserveOrder(t *testing.T) {
	kv := loader.NewKeyValueLoader([]string{"first", "A.x=1", "second", "third"}, nil, nil)
	if _, err := kv.LoadConfig(); err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if extras := kv.ExtraArgs(); !reflect.DeepEqual(extras, []string{"first", "second", "third"}) {
		t.Fatalf("unexpected extra args: %v", extras)
	}
}

func TestKeyValueLoaderClearResetsState(t *testing.T) {
	kv := loader.NewKeyValueLoader([]string{"extra-only"}, nil, nil)
	if _, err := kv.LoadConfig(); err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if len(kv.ExtraArgs()) != 1 {
		t.Fatalf("expected one extra arg")
	}
	kv.Clear()
	if len(kv.ExtraArgs()) != 0 {
		t.Fatalf("expected Clear to reset extra args")
	}
}

func TestKeyValueLoaderReloadIsIdempotent(t *testing.T) {
	kv := loader.NewKeyValueLoader([]string{"A.x=1", "extra"}, nil, nil)
	if _, err := kv.LoadConfig(); err != nil {
		t.Fatalf("first LoadConfig returned error: %v", err)
	}
	cfg, err := kv.LoadConfig()
	if err != nil {
		t.Fatalf("second LoadConfig returned error: %v", err)
	}
	if got, err := cfg.GetPath("A.x"); err != nil || got != int64(1) {
		t.Fatalf("expected A.x == 1 after reload, got %v (err %v)", got, err)
	}
	if extras := kv.ExtraArgs(); !reflect.DeepEqual(extras, []string{"extra"}) {
		t.Fatalf("expected extra args to not accumulate, got %v", extras)
	}
}

func mustGet(t *testing.T, cfg *config.Config, path string) any {
	t.Helper()
	got, err := cfg.GetPath(path)
	if err != nil {
		t.Fatalf("GetPath(%q): %v", path, err)
	}
	return got
}
