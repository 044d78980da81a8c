package loader

import (
	"fmt"

	"github.com/spf13/pflag"

	"github.com/jupyter/ipython-py3k/pkg/config"
	"github.com/jupyter/ipython-py3k/pkg/telemetry"
)

// FlagSetLoader converts a declaratively described pflag.FlagSet into the
// hierarchical config shape. Only flags the parse actually changed are
// assigned, at their (possibly dotted) names; tokens the flag set leaves
// unconsumed become extra args. Unknown options surface as pflag errors.
type FlagSetLoader struct {
	base

	flagSet *pflag.FlagSet
	argv    []string
	extra   []string
}

// NewFlagSetLoader constructs a loader parsing argv with flagSet. The flag
// set should use pflag.ContinueOnError so parse failures propagate instead of
// terminating the process.
func NewFlagSetLoader(flagSet *pflag.FlagSet, argv []string, opts ...Option) *FlagSetLoader {
	l := &FlagSetLoader{flagSet: flagSet, argv: argv}
	l.opts = buildOptions(opts)
	l.Clear()
	return l
}

// Clear resets the accumulated config and the extra-args list.
func (l *FlagSetLoader) Clear() {
	l.base.Clear()
	l.extra = nil
}

// ExtraArgs returns the tokens the flag set did not consume.
func (l *FlagSetLoader) ExtraArgs() []string {
	return append([]string(nil), l.extra...)
}

// LoadConfig parses argv and assigns every changed flag into the config.
func (l *FlagSetLoader) LoadConfig() (*config.Config, error) {
	l.Clear()

	if err := l.flagSet.Parse(l.argv); err != nil {
		return nil, fmt.Errorf("parse arguments: %w", err)
	}

	var assignErr error
	l.flagSet.Visit(func(flag *pflag.Flag) {
		if assignErr != nil {
			return
		}
		value, err := flagValue(l.flagSet, flag)
		if err != nil {
			assignErr = err
			return
		}
		assignErr = l.cfg.SetPath(flag.Name, value)
	})
	if assignErr != nil {
		return nil, assignErr
	}

	l.extra = l.flagSet.Args()
	l.emit(telemetry.Entry{
		Category: telemetry.CategoryArgv,
		Message:  "structured arguments parsed",
		Loader:   "flagset",
		Metadata: map[string]string{
			"tokens":    fmt.Sprint(len(l.argv)),
			"extraArgs": fmt.Sprint(len(l.extra)),
		},
	})
	return l.cfg, nil
}

// flagValue extracts the natively typed value for the common pflag value
// kinds, falling back to the string rendering for the rest.
func flagValue(fs *pflag.FlagSet, flag *pflag.Flag) (any, error) {
	switch flag.Value.Type() {
	case "bool":
		return fs.GetBool(flag.Name)
	case "int":
		return fs.GetInt(flag.Name)
	case "int64":
		return fs.GetInt64(flag.Name)
	case "float64":
		return fs.GetFloat64(flag.Name)
	case "stringSlice":
		return fs.GetStringSlice(flag.Name)
	case "stringArray":
		return fs.GetStringArray(flag.Name)
	case "count":
		return fs.GetCount(flag.Name)
	default:
		return flag.Value.String(), nil
	}
}
