package commands

import (
	"fmt"

	"mathgames/internal/version"

	"github.com/spf13/cobra"
)

// CLIName is reported by the version command
const CLIName = "mathgames"

// VersionCommand prints build information
func VersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), version.Get(CLIName).String())
			return err
		},
	}
}
