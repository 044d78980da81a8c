package loader

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/jupyter/ipython-py3k/pkg/config"
	"github.com/jupyter/ipython-py3k/pkg/literal"
	"github.com/jupyter/ipython-py3k/pkg/telemetry"
)

var (
	kvPattern   = regexp.MustCompile(`^[A-Za-z]\w*(\.\w+)*=`)
	flagPattern = regexp.MustCompile(`^--[A-Za-z0-9]+(-[A-Za-z0-9]+)*$`)
)

// Aliases maps short command-line names to fully qualified dotted paths.
type Aliases map[string]string

// FlagDefinition pairs the configuration fragment a flag applies with its
// help text. The fragment's top-level keys must all be sections.
type FlagDefinition struct {
	Fragment *config.Config
	Help     string
}

// Flags maps flag names (without the leading --) to their definitions.
type Flags map[string]FlagDefinition

// FlagFromMap builds a FlagDefinition from plain nested maps.
func FlagFromMap(fragment map[string]any, help string) (FlagDefinition, error) {
	cfg, err := config.FromMap(fragment)
	if err != nil {
		return FlagDefinition{}, fmt.Errorf("%w: %v", ErrInvalidFlagDefinition, err)
	}
	return FlagDefinition{Fragment: cfg, Help: help}, nil
}

// KeyValueLoader parses flat command-line tokens of the form
// Section.key=value alongside --flag expansions. Tokens matching neither
// grammar accumulate as extra args for the caller.
type KeyValueLoader struct {
	base

	argv    []string
	aliases Aliases
	flags   Flags
	extra   []string
}

// NewKeyValueLoader constructs a loader over argv with the given alias and
// flag tables. Either table may be nil.
func NewKeyValueLoader(argv []string, aliases Aliases, flags Flags, opts ...Option) *KeyValueLoader {
	l := &KeyValueLoader{argv: argv, aliases: aliases, flags: flags}
	l.opts = buildOptions(opts)
	l.Clear()
	return l
}

// Clear resets the accumulated config and the extra-args list.
func (l *KeyValueLoader) Clear() {
	l.base.Clear()
	l.extra = nil
}

// ExtraArgs returns the tokens that matched neither the assignment nor the
// flag grammar, in encountered order.
func (l *KeyValueLoader) ExtraArgs() []string {
	return append([]string(nil), l.extra...)
}

// LoadConfig classifies every token and returns the accumulated config.
func (l *KeyValueLoader) LoadConfig() (*config.Config, error) {
	l.Clear()

	for _, item := range l.argv {
		switch {
		case kvPattern.MatchString(item):
			if err := l.assign(item); err != nil {
				return nil, err
			}
		case flagPattern.MatchString(item):
			if err := l.expandFlag(item); err != nil {
				return nil, err
			}
		case strings.HasPrefix(item, "-"):
			return nil, fmt.Errorf("%w: %q", ErrInvalidArgument, item)
		default:
			l.extra = append(l.extra, item)
		}
	}

	l.emit(telemetry.Entry{
		Category: telemetry.CategoryArgv,
		Message:  "command-line tokens parsed",
		Loader:   "keyvalue",
		Metadata: map[string]string{
			"tokens":    fmt.Sprint(len(l.argv)),
			"extraArgs": fmt.Sprint(len(l.extra)),
		},
	})
	return l.cfg, nil
}

func (l *KeyValueLoader) assign(item string) error {
	lhs, rhs, _ := strings.Cut(item, "=")
	if full, ok := l.aliases[lhs]; ok {
		lhs = full
	}

	value, err := literal.Eval(rhs)
	if err != nil {
		if !literal.LooksBare(rhs) {
			return fmt.Errorf("value for %s: %w", lhs, err)
		}
		// Shells strip quote marks, so a bare word is read as the string it
		// would have been with them intact.
		value = rhs
	}

	return l.cfg.SetPath(lhs, value)
}

// expandFlag applies the fragment registered for a --flag token. Each
// top-level section of the fragment updates the matching section of the
// accumulating config key by key; whole sections are never clobbered.
func (l *KeyValueLoader) expandFlag(item string) error {
	name := strings.TrimPrefix(item, "--")
	def, ok := l.flags[name]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnrecognizedFlag, item)
	}
	if def.Fragment == nil {
		return fmt.Errorf("%w: flag %q has no configuration fragment", ErrInvalidFlagDefinition, name)
	}

	for _, sectionKey := range def.Fragment.Keys() {
		value, err := def.Fragment.Get(sectionKey)
		if err != nil {
			return fmt.Errorf("%w: flag %q: %v", ErrInvalidFlagDefinition, name, err)
		}
		fragment, ok := value.(*config.Config)
		if !ok || !config.IsSectionKey(sectionKey) {
			return fmt.Errorf("%w: flag %q entry %q is not a section", ErrInvalidFlagDefinition, name, sectionKey)
		}
		target, err := l.cfg.Section(sectionKey)
		if err != nil {
			return fmt.Errorf("%w: flag %q: %v", ErrInvalidFlagDefinition, name, err)
		}
		for _, key := range fragment.Keys() {
			v, err := fragment.Get(key)
			if err != nil {
				return fmt.Errorf("%w: flag %q: %v", ErrInvalidFlagDefinition, name, err)
			}
			if err := target.Set(key, v); err != nil {
				return fmt.Errorf("flag %q: %w", name, err)
			}
		}
	}
	return nil
}
