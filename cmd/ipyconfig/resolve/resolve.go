// Package resolve implements the ipyconfig resolve command: load a
// configuration file, overlay command-line assignments and flags, and print
// the merged result.
package resolve

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	clilogging "github.com/jupyter/ipython-py3k/internal/cli/logging"
	"github.com/jupyter/ipython-py3k/internal/profile"
	"github.com/jupyter/ipython-py3k/internal/search"
	"github.com/jupyter/ipython-py3k/pkg/config"
	"github.com/jupyter/ipython-py3k/pkg/loader"
	"github.com/jupyter/ipython-py3k/pkg/telemetry"
)

// Options capture raw CLI inputs for the resolve command.
type Options struct {
	File        string
	Dirs        []string
	Profile     string
	ProfileBase string
	FlagsFile   string
	Output      string
	LogFile     string
	Events      bool
}

// NewResolveCommand constructs the resolve command.
func NewResolveCommand() *cobra.Command {
	opts := &Options{}
	cmd := &cobra.Command{
		Use:   "resolve [flags] [--] [Section.key=value|--flag|extra]...",
		Short: "Resolve layered configuration into one merged tree",
		Long: "Resolve loads the configuration file (searched on the configured " +
			"directories, honoring the selected profile), overlays key=value " +
			"assignments and flag expansions given as arguments, and prints the " +
			"merged configuration.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runResolve(cmd, opts, args)
		},
	}
	bindResolveFlags(cmd, opts)
	return cmd
}

func bindResolveFlags(cmd *cobra.Command, opts *Options) {
	cmd.Flags().StringVar(&opts.File, "file", "", "Configuration file name to load before the command-line overlay")
	cmd.Flags().StringSliceVar(&opts.Dirs, "dir", nil, "Directory to search for configuration files (repeatable)")
	cmd.Flags().StringVar(&opts.Profile, "profile", "", "Profile whose directory is searched first")
	cmd.Flags().StringVar(&opts.ProfileBase, "profile-base", "", "Base directory containing profile_<name> directories")
	cmd.Flags().StringVar(&opts.FlagsFile, "flags-file", "", "YAML file with extra alias and flag definitions")
	cmd.Flags().StringVar(&opts.Output, "output", "text", "Output format: text, json, or yaml")
	cmd.Flags().StringVar(&opts.LogFile, "log-file", "", "Write structured load logs to this file")
	cmd.Flags().BoolVar(&opts.Events, "events", false, "Emit phase events to stderr")
	// Command flags come first; token parsing owns everything after the
	// first non-flag argument. Tokens that start with dashes must follow
	// a "--" terminator so pflag does not claim them.
	cmd.Flags().SetInterspersed(false)
}

func runResolve(cmd *cobra.Command, opts *Options, args []string) error {
	logger, closeLog, err := buildLogger(opts.LogFile)
	if err != nil {
		return err
	}
	defer closeLog()

	var emitter *telemetry.Emitter
	if opts.Events {
		emitter = telemetry.NewEmitter(cmd.ErrOrStderr())
	}

	table := BuiltinFlagTable()
	if opts.FlagsFile != "" {
		userTable, err := loader.LoadFlagTable(opts.FlagsFile)
		if err != nil {
			return err
		}
		table = table.Merge(userTable)
	}

	merged := config.New()
	if opts.File != "" {
		fileCfg, err := loadFileConfig(opts, logger, emitter)
		if err != nil {
			return err
		}
		merged.Merge(fileCfg)
	}

	var extraArgs []string
	err = emitPhase(emitter, telemetry.PhaseArgv, map[string]string{
		"tokens": clilogging.SanitizeTokens(args),
	}, func() error {
		kv := loader.NewKeyValueLoader(args, table.Aliases, table.Flags, loader.WithLogger(logger))
		overlay, err := kv.LoadConfig()
		if err != nil {
			return err
		}
		extraArgs = kv.ExtraArgs()
		merged.Merge(overlay)
		return nil
	})
	if err != nil {
		return err
	}

	var rendered string
	err = emitPhase(emitter, telemetry.PhaseRender, map[string]string{"format": opts.Output}, func() error {
		var err error
		rendered, err = config.FormatResolved(merged, extraArgs, opts.Output)
		return err
	})
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), strings.TrimRight(rendered, "\n"))
	return nil
}

// loadFileConfig locates and evaluates the configuration file. With a
// profile selected, its directory is searched before the configured ones.
func loadFileConfig(opts *Options, logger telemetry.StructuredLogger, emitter *telemetry.Emitter) (*config.Config, error) {
	dirs := opts.Dirs
	if opts.Profile != "" {
		var dir string
		err := emitPhase(emitter, telemetry.PhaseProfile, map[string]string{"profile": opts.Profile}, func() error {
			var err error
			dir, err = profile.FindDir(opts.ProfileBase, opts.Profile)
			return err
		})
		if err != nil {
			return nil, fmt.Errorf("resolve profile %q: %w", opts.Profile, err)
		}
		dirs = append([]string{dir}, dirs...)
	}

	var cfg *config.Config
	err := emitPhase(emitter, telemetry.PhaseFile, map[string]string{"file": opts.File}, func() error {
		fileLoader := loader.NewFileLoader(opts.File, dirs,
			loader.WithLogger(logger),
			loader.WithProfileBase(opts.ProfileBase),
		)
		var err error
		cfg, err = fileLoader.LoadConfig()
		return err
	})
	if err != nil {
		if errors.Is(err, search.ErrNotFound) {
			return nil, fmt.Errorf("configuration file %q: %w", opts.File, err)
		}
		return nil, err
	}
	return cfg, nil
}

func emitPhase(emitter *telemetry.Emitter, phase telemetry.Phase, metadata map[string]string, fn func() error) error {
	if emitter == nil {
		return fn()
	}
	return emitter.EmitPhase(phase, metadata, fn)
}

func buildLogger(path string) (telemetry.StructuredLogger, func(), error) {
	if path == "" {
		return nil, func() {}, nil
	}
	fh, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file %q: %w", path, err)
	}
	logger, err := telemetry.NewLogger(fh, newSessionID())
	if err != nil {
		fh.Close()
		return nil, nil, err
	}
	return logger, func() { fh.Close() }, nil
}

func newSessionID() string {
	return fmt.Sprintf("resolve-%d-%d", os.Getpid(), time.Now().UnixNano())
}
