package commands

import (
	"context"
	"time"

	"mathgames/internal/config"
	"mathgames/internal/models"
	"mathgames/internal/observability"
	"mathgames/internal/requester"

	"github.com/spf13/cobra"
)

// StoryResult is what the story command prints
type StoryResult struct {
	*models.StoryPayload
	// Offline is set when the endpoint could not answer and the local narration was used
	Offline bool `json:"offline"`
}

// StoryCommand asks the story endpoint to narrate one problem
func StoryCommand(cfg *config.Config, logger *observability.Logger) *cobra.Command {
	var (
		num1, num2 int
		op, emoji  string
		endpoint   string
		timeout    time.Duration
		coalesce   bool
		pretty     bool
	)

	cmd := &cobra.Command{
		Use:   "story",
		Short: "Narrate a word problem through the story endpoint",
		Long: `Sends one problem to the story endpoint and prints the narration as JSON.

When the endpoint fails or does not answer in time the local narration is
printed instead and "offline" is true.`,
		Example: `  mathgames story --num1 5 --num2 3 --op + --emoji 🍎`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			reqCfg := cfg.Requester
			if endpoint != "" {
				reqCfg.EndpointURL = endpoint
			}
			if timeout > 0 {
				reqCfg.Timeout = timeout
			}
			reqCfg.Coalesce = reqCfg.Coalesce || coalesce

			client := requester.New(reqCfg, logger)
			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			payload, offline := client.GenerateOrLocal(ctx, num1, num2, models.Operation(op), emoji)
			return writeJSON(cmd.OutOrStdout(), StoryResult{StoryPayload: payload, Offline: offline}, pretty)
		},
	}

	cmd.Flags().IntVar(&num1, "num1", 5, "first operand")
	cmd.Flags().IntVar(&num2, "num2", 3, "second operand")
	cmd.Flags().StringVar(&op, "op", "+", `operation, "+" or "-"`)
	cmd.Flags().StringVar(&emoji, "emoji", "🍎", "object the story must include")
	cmd.Flags().StringVar(&endpoint, "endpoint", "", "story endpoint URL (default from config)")
	cmd.Flags().DurationVar(&timeout, "timeout", 0, "how long to wait for the endpoint (default from config)")
	cmd.Flags().BoolVar(&coalesce, "coalesce", false, "share one request between identical concurrent calls")
	cmd.Flags().BoolVar(&pretty, "pretty", false, "indent the JSON output")

	return cmd
}
