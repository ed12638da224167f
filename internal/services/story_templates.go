package services

import (
	"embed"
	"strings"
	"text/template"

	"mathgames/internal/models"
)

//go:embed templates/*.tmpl
var storyTemplatesFS embed.FS

// StoryPromptTemplate is the prompt sent upstream for every word problem
const StoryPromptTemplate = "story_prompt.tmpl"

// StoryPromptData holds data for rendering the story prompt
type StoryPromptData struct {
	Num1        int
	Num2        int
	Operation   string
	ForcedEmoji string
}

// PromptTemplates renders embedded prompt templates
type PromptTemplates struct {
	templates *template.Template
}

// NewPromptTemplates parses every embedded template
func NewPromptTemplates() (result0 *PromptTemplates, err error) {
	templates, err := template.New("").ParseFS(storyTemplatesFS, "templates/*.tmpl")
	if err != nil {
		return nil, err
	}
	return &PromptTemplates{templates: templates}, nil
}

// RenderStoryPrompt builds the upstream prompt for a problem spec
func (pt *PromptTemplates) RenderStoryPrompt(spec models.ProblemSpec) (result0 string, err error) {
	var buf strings.Builder
	err = pt.templates.ExecuteTemplate(&buf, StoryPromptTemplate, StoryPromptData{
		Num1:        spec.Num1,
		Num2:        spec.Num2,
		Operation:   string(spec.Operation),
		ForcedEmoji: strings.TrimSpace(spec.ForcedEmoji),
	})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}
