package commands

import (
	"math/rand"
	"time"

	"mathgames/internal/puzzles"

	"github.com/spf13/cobra"
)

// PuzzleCommands returns the puzzle generation commands
func PuzzleCommands() *cobra.Command {
	var (
		seed   int64
		pretty bool
	)

	puzzleCmd := &cobra.Command{
		Use:   "puzzle",
		Short: "Generate a puzzle for one of the mini-games",
		Long: `Generate a puzzle and print it as JSON.

Available commands:
  word-problem   - random addition or subtraction within 10
  comparison     - two groups to compare with >, < or =
  equations      - part-part-whole story with four candidate equations
  ten-frame      - make-ten board (--mode add|subtract)
  hundred-chart  - hide-and-seek activity on the hundred chart`,
	}
	puzzleCmd.PersistentFlags().Int64Var(&seed, "seed", 0, "random seed (0 uses the clock)")
	puzzleCmd.PersistentFlags().BoolVar(&pretty, "pretty", false, "indent the JSON output")

	rng := func() *rand.Rand {
		if seed == 0 {
			return puzzles.NewRand(time.Now().UnixNano())
		}
		return puzzles.NewRand(seed)
	}

	puzzleCmd.AddCommand(&cobra.Command{
		Use:   "word-problem",
		Short: "Random word problem",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return writeJSON(cmd.OutOrStdout(), puzzles.NewWordProblem(rng()), pretty)
		},
	})

	puzzleCmd.AddCommand(&cobra.Command{
		Use:   "comparison",
		Short: "Two groups to compare",
		RunE: func(cmd *cobra.Command, _ []string) error {
			c := puzzles.NewComparison(rng())
			return writeJSON(cmd.OutOrStdout(), map[string]interface{}{
				"left":   c.Left,
				"right":  c.Right,
				"emoji":  c.Emoji,
				"answer": puzzles.CorrectSign(c.Left, c.Right),
			}, pretty)
		},
	})

	puzzleCmd.AddCommand(&cobra.Command{
		Use:   "equations",
		Short: "Equation detective puzzle",
		RunE: func(cmd *cobra.Command, _ []string) error {
			p := puzzles.NewEquationPuzzle(rng())
			return writeJSON(cmd.OutOrStdout(), map[string]interface{}{
				"story":   p.Story(),
				"options": p.Options,
				"missing": p.Missing,
			}, pretty)
		},
	})

	var mode string
	tenFrameCmd := &cobra.Command{
		Use:   "ten-frame",
		Short: "Make-ten board",
		RunE: func(cmd *cobra.Command, _ []string) error {
			m, err := puzzles.ParseTenFrameMode(mode)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), puzzles.NewTenFrame(rng(), m).View(), pretty)
		},
	}
	tenFrameCmd.Flags().StringVar(&mode, "mode", "add", "add or subtract")
	puzzleCmd.AddCommand(tenFrameCmd)

	var activity string
	chartCmd := &cobra.Command{
		Use:   "hundred-chart",
		Short: "Hide-and-seek on the hundred chart",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if activity == "" {
				return writeJSON(cmd.OutOrStdout(), puzzles.NewHideAndSeek(rng()).View(), pretty)
			}
			a, err := puzzles.ParseActivity(activity)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), puzzles.NewActivity(rng(), a).View(), pretty)
		},
	}
	chartCmd.Flags().StringVar(&activity, "activity", "", "random, evens, odds, row or tens (default random pick)")
	puzzleCmd.AddCommand(chartCmd)

	return puzzleCmd
}
