package loader_test

import (
	"errors"
	"testing"

	"github.com/jupyter/ipython-py3k/pkg/loader"
)

func TestParseFlagTable(t *testing.T) {
	table, err := loader.ParseFlagTable([]byte(`
aliases:
  profile: Global.profile
  editor: TerminalShell.editor
flags:
  verbose:
    help: enable debug logging
    config:
      Log:
        level: 10
`))
	if err != nil {
		t.Fatalf("ParseFlagTable returned error: %v", err)
	}

	if table.Aliases["profile"] != "Global.profile" {
		t.Fatalf("unexpected aliases: %#v", table.Aliases)
	}
	def, ok := table.Flags["verbose"]
	if !ok {
		t.Fatalf("expected verbose flag definition")
	}
	if def.Help != "enable debug logging" {
		t.Fatalf("unexpected help: %q", def.Help)
	}
	level, err := def.Fragment.GetPath("Log.level")
	if err != nil {
		t.Fatalf("GetPath: %v", err)
	}
	if level != int64(10) {
		t.Fatalf("Log.level = %v, want 10", level)
	}
}

func TestParseFlagTableRejectsUnknownFields(t *testing.T) {
	_, err := loader.ParseFlagTable([]byte(`
aliases: {}
flagz: {}
`))
	if !errors.Is(err, loader.ErrFlagTable) {
		t.Fatalf("expected ErrFlagTable for unknown document fields, got %v", err)
	}
}

func TestParseFlagTableRejectsNonSectionFragment(t *testing.T) {
	_, err := loader.ParseFlagTable([]byte(`
flags:
  broken:
    help: fragment with a leaf at top level
    config:
      level: 10
`))
	if !errors.Is(err, loader.ErrFlagTable) {
		t.Fatalf("expected ErrFlagTable, got %v", err)
	}
}

func TestParseFlagTableRejectsInvalidAliasTarget(t *testing.T) {
	_, err := loader.ParseFlagTable([]byte(`
aliases:
  bad: "not a path!"
`))
	if !errors.Is(err, loader.ErrFlagTable) {
		t.Fatalf("expected ErrFlagTable, got %v", err)
	}
}

func TestFlagTableMergePrefersOther(t *testing.T) {
	base := loader.FlagTable{Aliases: loader.Aliases{"a": "A.x", "b": "B.x"}, Flags: loader.Flags{}}
	over := loader.FlagTable{Aliases: loader.Aliases{"b": "B.y"}, Flags: loader.Flags{}}

	merged := base.Merge(over)
	if merged.Aliases["a"] != "A.x" || merged.Aliases["b"] != "B.y" {
		t.Fatalf("unexpected merge result: %#v", merged.Aliases)
	}
}

func TestLoadFlagTableMissingFileFails(t *testing.T) {
	if _, err := loader.LoadFlagTable("/no/such/flags.yaml"); err == nil {
		t.Fatalf("expected an error for a missing flag table file")
	}
}
