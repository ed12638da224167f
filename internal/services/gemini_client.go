package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"mathgames/internal/models"
	"mathgames/internal/observability"
	contextutils "mathgames/internal/utils"

	"go.opentelemetry.io/otel/attribute"
)

// maxErrorBodyBytes caps how much of an upstream error body is kept for logs
const maxErrorBodyBytes = 2048

// Harm categories the story request disables filtering for. Prompts are short, numeric and
// written for children, so blocking only ever turns a good story into a fallback.
var storySafetyCategories = []string{
	"HARM_CATEGORY_HARASSMENT",
	"HARM_CATEGORY_HATE_SPEECH",
	"HARM_CATEGORY_SEXUALLY_EXPLICIT",
	"HARM_CATEGORY_DANGEROUS_CONTENT",
}

// GeminiRequest is the generateContent request body
type GeminiRequest struct {
	Contents         []GeminiContent        `json:"contents"`
	SafetySettings   []GeminiSafetySetting  `json:"safetySettings"`
	GenerationConfig GeminiGenerationConfig `json:"generationConfig"`
}

// GeminiContent is one turn of content
type GeminiContent struct {
	Parts []GeminiPart `json:"parts"`
}

// GeminiPart is a text fragment
type GeminiPart struct {
	Text string `json:"text"`
}

// GeminiSafetySetting sets the block threshold for one harm category
type GeminiSafetySetting struct {
	Category  string `json:"category"`
	Threshold string `json:"threshold"`
}

// GeminiGenerationConfig requests structured JSON output
type GeminiGenerationConfig struct {
	ResponseMimeType string        `json:"responseMimeType"`
	ResponseSchema   *GeminiSchema `json:"responseSchema,omitempty"`
}

// GeminiSchema is the OpenAPI-style schema dialect understood by generateContent
type GeminiSchema struct {
	Type       string                   `json:"type"`
	Properties map[string]*GeminiSchema `json:"properties,omitempty"`
	Items      *GeminiSchema            `json:"items,omitempty"`
}

// GeminiResponse is the subset of the generateContent response the service reads
type GeminiResponse struct {
	Candidates []struct {
		Content GeminiContent `json:"content"`
	} `json:"candidates"`
}

// FirstText returns candidates[0].content.parts[0].text, or "" when any level is missing
func (r *GeminiResponse) FirstText() string {
	if r == nil || len(r.Candidates) == 0 || len(r.Candidates[0].Content.Parts) == 0 {
		return ""
	}
	return r.Candidates[0].Content.Parts[0].Text
}

// storyResponseSchema mirrors models.StoryPayload
func storyResponseSchema() *GeminiSchema {
	return &GeminiSchema{
		Type: "OBJECT",
		Properties: map[string]*GeminiSchema{
			"story":         {Type: "STRING"},
			"emoji":         {Type: "STRING"},
			"steps":         {Type: "ARRAY", Items: &GeminiSchema{Type: "STRING"}},
			"encouragement": {Type: "STRING"},
		},
	}
}

// NewStoryRequest builds the generateContent body for a prompt
func NewStoryRequest(prompt string) *GeminiRequest {
	safety := make([]GeminiSafetySetting, 0, len(storySafetyCategories))
	for _, category := range storySafetyCategories {
		safety = append(safety, GeminiSafetySetting{Category: category, Threshold: "BLOCK_NONE"})
	}
	return &GeminiRequest{
		Contents:       []GeminiContent{{Parts: []GeminiPart{{Text: prompt}}}},
		SafetySettings: safety,
		GenerationConfig: GeminiGenerationConfig{
			ResponseMimeType: "application/json",
			ResponseSchema:   storyResponseSchema(),
		},
	}
}

// generateContentURL returns the model endpoint with the credential as the key query parameter
func (s *StoryGenerationService) generateContentURL() string {
	base := strings.TrimRight(s.cfg.BaseURL, "/")
	return fmt.Sprintf("%s/models/%s:generateContent?%s", base, url.PathEscape(s.cfg.Model), url.Values{"key": {s.cfg.APIKey}}.Encode())
}

// callUpstream performs the single generateContent call for a spec and returns the raw text
func (s *StoryGenerationService) callUpstream(ctx context.Context, spec models.ProblemSpec) (result0 string, outcome Outcome, err error) {
	ctx, span := observability.TraceStoryFunction(ctx, "call_upstream",
		attribute.String("ai.model", s.cfg.Model),
	)
	defer observability.FinishSpan(span, &err)

	prompt, err := s.templates.RenderStoryPrompt(spec)
	if err != nil {
		return "", OutcomeInternalError, contextutils.WrapErrorf(contextutils.ErrInternalError, "failed to render story prompt: %w", err)
	}
	span.SetAttributes(attribute.Int("prompt.length", len(prompt)))

	body, err := json.Marshal(NewStoryRequest(prompt))
	if err != nil {
		return "", OutcomeInternalError, contextutils.WrapErrorf(contextutils.ErrInternalError, "failed to marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.generateContentURL(), bytes.NewReader(body))
	if err != nil {
		return "", OutcomeInternalError, contextutils.WrapError(contextutils.ErrAIConfigInvalid, contextutils.RedactSecret(err.Error(), s.cfg.APIKey))
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "mathgames/1.0")

	startTime := time.Now()
	resp, err := s.httpClient.Do(req)
	duration := time.Since(startTime)
	if err != nil {
		// url.Error embeds the request URL, which carries the credential
		return "", OutcomeTransportError, contextutils.NewAppError(
			contextutils.ErrorCodeAIProviderUnavailable,
			contextutils.SeverityError,
			fmt.Sprintf("upstream request failed after %v", duration),
			contextutils.RedactSecret(err.Error(), s.cfg.APIKey),
		)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			s.logger.Warn(ctx, "Failed to close response body", map[string]interface{}{"error": err.Error()})
		}
	}()

	span.SetAttributes(attribute.Int("status_code", resp.StatusCode), attribute.String("duration", duration.String()))
	s.logger.Debug(ctx, "Upstream story request completed", map[string]interface{}{
		"status_code": resp.StatusCode,
		"duration":    duration.String(),
	})

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		errBody, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
		return "", OutcomeHTTPError, contextutils.WrapErrorf(contextutils.ErrAIRequestFailed, "upstream returned status %d: %s", resp.StatusCode, string(errBody))
	}

	var decoded GeminiResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", OutcomeInvalidJSON, contextutils.WrapErrorf(contextutils.ErrAIResponseInvalid, "failed to decode upstream response: %w", err)
	}

	text := decoded.FirstText()
	if strings.TrimSpace(text) == "" {
		return "", OutcomeEmptyText, contextutils.WrapError(contextutils.ErrAIResponseInvalid, "upstream returned empty content")
	}

	span.SetAttributes(attribute.Int("content_length", len(text)))
	return text, OutcomeUpstream, nil
}
