package loader

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/jupyter/ipython-py3k/pkg/config"
)

// FlagTable bundles the alias and flag tables a KeyValueLoader consumes.
type FlagTable struct {
	Aliases Aliases
	Flags   Flags
}

type rawFlagTable struct {
	Aliases map[string]string `yaml:"aliases"`
	Flags   map[string]rawFlagEntry `yaml:"flags"`
}

type rawFlagEntry struct {
	Help   string         `yaml:"help"`
	Config map[string]any `yaml:"config"`
}

// LoadFlagTable reads alias and flag definitions from the YAML file at path.
// Unknown document fields are rejected.
func LoadFlagTable(path string) (FlagTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return FlagTable{}, fmt.Errorf("read flag table %q: %w", path, err)
	}
	table, err := ParseFlagTable(data)
	if err != nil {
		return FlagTable{}, fmt.Errorf("flag table %q: %w", path, err)
	}
	return table, nil
}

// ParseFlagTable decodes a YAML flag-table document.
func ParseFlagTable(data []byte) (FlagTable, error) {
	var raw rawFlagTable
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&raw); err != nil && !errors.Is(err, io.EOF) {
		return FlagTable{}, fmt.Errorf("%w: %v", ErrFlagTable, err)
	}

	table := FlagTable{Aliases: Aliases{}, Flags: Flags{}}
	for short, full := range raw.Aliases {
		if !kvPattern.MatchString(full + "=") {
			return FlagTable{}, fmt.Errorf("%w: alias %q resolves to invalid path %q", ErrFlagTable, short, full)
		}
		table.Aliases[short] = full
	}
	for name, entry := range raw.Flags {
		if !flagPattern.MatchString("--" + name) {
			return FlagTable{}, fmt.Errorf("%w: invalid flag name %q", ErrFlagTable, name)
		}
		def, err := FlagFromMap(entry.Config, entry.Help)
		if err != nil {
			return FlagTable{}, fmt.Errorf("%w: flag %q: %v", ErrFlagTable, name, err)
		}
		if err := validateFragment(def.Fragment); err != nil {
			return FlagTable{}, fmt.Errorf("%w: flag %q: %v", ErrFlagTable, name, err)
		}
		table.Flags[name] = def
	}
	return table, nil
}

// Merge folds other's entries over the receiver's, other winning collisions.
func (t FlagTable) Merge(other FlagTable) FlagTable {
	out := FlagTable{Aliases: Aliases{}, Flags: Flags{}}
	for k, v := range t.Aliases {
		out.Aliases[k] = v
	}
	for k, v := range other.Aliases {
		out.Aliases[k] = v
	}
	for k, v := range t.Flags {
		out.Flags[k] = v
	}
	for k, v := range other.Flags {
		out.Flags[k] = v
	}
	return out
}

func validateFragment(fragment *config.Config) error {
	if fragment == nil {
		return errors.New("missing configuration fragment")
	}
	for _, key := range fragment.Keys() {
		if !config.IsSectionKey(key) {
			return fmt.Errorf("entry %q is not a section", key)
		}
	}
	return nil
}
