// Package commands implements the mathgames command line.
package commands

import (
	"mathgames/internal/config"
	"mathgames/internal/observability"

	"github.com/spf13/cobra"
)

// NewRootCommand assembles the command tree
func NewRootCommand(cfg *config.Config, logger *observability.Logger) *cobra.Command {
	root := &cobra.Command{
		Use:   CLIName,
		Short: "Math games command line",
		Long: `Command line companion to the math games backend.

It narrates word problems through the story endpoint, prints puzzles for
the mini-games and renders printable worksheets.`,
		SilenceUsage: true,
	}

	root.AddCommand(StoryCommand(cfg, logger))
	root.AddCommand(PuzzleCommands())
	root.AddCommand(WorksheetCommand(logger))
	root.AddCommand(VersionCommand())

	return root
}
