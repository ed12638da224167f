package services

import (
	"fmt"

	"mathgames/internal/models"
)

// DefaultStoryEmoji is used when a request does not force a theme
const DefaultStoryEmoji = "🍎"

// FallbackEncouragement closes every locally narrated story
const FallbackEncouragement = "Great job! Keep going! 🌟"

// FallbackStory narrates a problem spec without any external service.
// It is a pure function of its input. Any operation other than "+" is narrated as taking away.
func FallbackStory(spec models.ProblemSpec) *models.StoryPayload {
	emoji := spec.ForcedEmoji
	if emoji == "" {
		emoji = DefaultStoryEmoji
	}

	change, question, step := "leave", "How many are left?", fmt.Sprintf("Cross out %d.", spec.Num2)
	if spec.Operation == models.OperationAdd {
		change, question, step = "more come", "How many now?", fmt.Sprintf("Add %d more.", spec.Num2)
	}

	return &models.StoryPayload{
		Story: fmt.Sprintf("There are %d %s. Then %d %s. %s", spec.Num1, emoji, spec.Num2, change, question),
		Emoji: emoji,
		Steps: []string{
			fmt.Sprintf("Count the %d %s.", spec.Num1, emoji),
			step,
			"Count to find the answer!",
		},
		Encouragement: FallbackEncouragement,
	}
}
