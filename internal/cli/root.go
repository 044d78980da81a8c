package cli

import (
	"github.com/spf13/cobra"

	checkcmd "github.com/jupyter/ipython-py3k/cmd/ipyconfig/check"
	resolvecmd "github.com/jupyter/ipython-py3k/cmd/ipyconfig/resolve"
)

// NewRootCommand constructs the root ipyconfig command.
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ipyconfig",
		Short: "ipyconfig resolves layered configuration files and command-line overlays",
	}

	cmd.AddCommand(resolvecmd.NewResolveCommand())
	cmd.AddCommand(checkcmd.NewCheckCommand())

	return cmd
}
