package requester

import (
	"context"
	"fmt"

	"mathgames/internal/models"
)

// LocalStory is the narration a caller shows when Generate fails. It never touches the network.
func LocalStory(num1, num2 int, op models.Operation, emoji string) *models.StoryPayload {
	verb := "take away"
	if op == models.OperationAdd {
		verb = "add"
	}
	return &models.StoryPayload{
		Story: fmt.Sprintf("Let's use our %s to find the answer! We have %d and then %s %d.", emoji, num1, verb, num2),
		Emoji: emoji,
		Steps: []string{
			"Count the first group",
			"Adjust for the second group",
			"Count how many are left/total",
		},
		Encouragement: "You can do it!",
	}
}

// GenerateOrLocal calls Generate and substitutes LocalStory on any failure.
// A non-empty emoji replaces the glyph in a successful reply.
// The returned bool reports whether the local narration was used.
func (r *Requester) GenerateOrLocal(ctx context.Context, num1, num2 int, op models.Operation, emoji string) (*models.StoryPayload, bool) {
	payload, err := r.Generate(ctx, num1, num2, op, emoji)
	if err != nil {
		r.logger.Warn(ctx, "Using local story", map[string]interface{}{"error": err.Error()})
		return LocalStory(num1, num2, op, emoji), true
	}
	// the requested theme wins over whatever glyph the endpoint picked
	if emoji != "" {
		payload.Emoji = emoji
	}
	return payload, false
}
