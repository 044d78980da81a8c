// Package check implements the ipyconfig check command: evaluate a
// configuration script and report whether it loads cleanly.
package check

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jupyter/ipython-py3k/pkg/loader"
)

// Options capture raw CLI inputs for the check command.
type Options struct {
	Dirs        []string
	ProfileBase string
}

// NewCheckCommand constructs the check command.
func NewCheckCommand() *cobra.Command {
	opts := &Options{}
	cmd := &cobra.Command{
		Use:   "check <file>",
		Short: "Evaluate a configuration script and report errors",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, opts, args[0])
		},
	}
	cmd.Flags().StringSliceVar(&opts.Dirs, "dir", nil, "Directory to search for configuration files (repeatable)")
	cmd.Flags().StringVar(&opts.ProfileBase, "profile-base", "", "Base directory containing profile_<name> directories")
	return cmd
}

func runCheck(cmd *cobra.Command, opts *Options, name string) error {
	fileLoader := loader.NewFileLoader(name, opts.Dirs, loader.WithProfileBase(opts.ProfileBase))
	cfg, err := fileLoader.LoadConfig()
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s: ok (%d top-level keys)\n", fileLoader.FullPath, cfg.Len())
	return nil
}
