package services

import (
	"encoding/json"
	"strings"

	"mathgames/internal/models"
	contextutils "mathgames/internal/utils"

	"github.com/xeipuuv/gojsonschema"
)

// StoryObjectSchema is the JSON schema every parsed upstream story must satisfy
const StoryObjectSchema = `{
  "type": "object",
  "required": ["story", "steps"],
  "properties": {
    "story": {"type": "string", "minLength": 1},
    "emoji": {"type": ["string", "null"]},
    "steps": {"type": "array", "minItems": 1, "items": {"type": "string"}},
    "encouragement": {"type": ["string", "null"]}
  }
}`

var storySchemaLoader = gojsonschema.NewStringLoader(StoryObjectSchema)

// cleanStoryText removes markdown fence artifacts the upstream model sometimes adds despite instructions
func cleanStoryText(text string) string {
	text = strings.ReplaceAll(text, "```json", "")
	text = strings.ReplaceAll(text, "```", "")
	return strings.TrimSpace(text)
}

// ExtractJSONObject returns the first balanced JSON object in text.
// Braces inside string literals are ignored. When no balanced object exists the slice from the
// first '{' to the last '}' is returned, and text without any '{' is returned unchanged.
func ExtractJSONObject(text string) string {
	start := strings.IndexByte(text, '{')
	if start < 0 {
		return text
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		ch := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}

		switch ch {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return text[start : i+1]
			}
		}
	}

	if end := strings.LastIndexByte(text, '}'); end > start {
		return text[start : end+1]
	}
	return text
}

// ValidateStoryObject checks raw JSON against StoryObjectSchema
func ValidateStoryObject(raw []byte) error {
	result, err := gojsonschema.Validate(storySchemaLoader, gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return contextutils.WrapErrorf(contextutils.ErrAIResponseInvalid, "story is not valid JSON: %w", err)
	}
	if !result.Valid() {
		details := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			details = append(details, desc.String())
		}
		return contextutils.NewAppError(
			contextutils.ErrorCodeAIResponseInvalid,
			contextutils.SeverityWarn,
			"story does not match schema",
			strings.Join(details, "; "),
		)
	}
	return nil
}

// parseStoryText turns raw upstream text into a payload, reporting which stage rejected it
func parseStoryText(text string) (result0 *models.StoryPayload, outcome Outcome, err error) {
	candidate := ExtractJSONObject(cleanStoryText(text))

	if !json.Valid([]byte(candidate)) {
		return nil, OutcomeInvalidJSON, contextutils.WrapError(contextutils.ErrAIResponseInvalid, "upstream text is not a JSON object")
	}

	if err := ValidateStoryObject([]byte(candidate)); err != nil {
		return nil, OutcomeInvalidSchema, err
	}

	var payload models.StoryPayload
	if err := json.Unmarshal([]byte(candidate), &payload); err != nil {
		return nil, OutcomeInvalidJSON, contextutils.WrapErrorf(contextutils.ErrAIResponseInvalid, "failed to decode story: %w", err)
	}
	return &payload, OutcomeUpstream, nil
}
