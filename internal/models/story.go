package models

// StoryPayload is the narration returned for a ProblemSpec.
// Story and Steps are non-empty in every payload handed to a caller.
type StoryPayload struct {
	Story         string   `json:"story"`
	Emoji         string   `json:"emoji"`
	Steps         []string `json:"steps"`
	Encouragement string   `json:"encouragement"`
}

// IsComplete reports whether the payload satisfies the story contract
func (s *StoryPayload) IsComplete() bool {
	return s != nil && s.Story != "" && len(s.Steps) > 0
}

// Clone returns a deep copy so callers can never share a Steps backing array
func (s *StoryPayload) Clone() *StoryPayload {
	if s == nil {
		return nil
	}
	out := *s
	out.Steps = append([]string(nil), s.Steps...)
	return &out
}

// FatalPayload returns the last-resort narration used when the request itself could not be read
func FatalPayload() *StoryPayload {
	return &StoryPayload{
		Story: "Let's count together to find the answer!",
		Emoji: "🎈",
		Steps: []string{
			"Count the first group.",
			"Count the changes.",
			"Find the total.",
		},
		Encouragement: "You can do it!",
	}
}

// ErrorResponse is the body of a non-story error reply
type ErrorResponse struct {
	Error string `json:"error"`
}
