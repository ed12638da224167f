package handlers

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"mathgames/internal/config"
	"mathgames/internal/models"
	"mathgames/internal/observability"
	"mathgames/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const appleBody = `{"num1":5,"num2":3,"operation":"+","forcedEmoji":"🍎"}`

func newStoryRouter(t *testing.T, generator services.StoryGeneratorInterface) *gin.Engine {
	t.Helper()
	cfg := config.Default()
	cfg.Server.CORSOrigins = []string{"http://games.test"}
	return NewRouter(cfg, generator, observability.NewNopLogger())
}

// newServiceRouter wires the real generation service, optionally against a fake upstream
func newServiceRouter(t *testing.T, upstream *httptest.Server) *gin.Engine {
	t.Helper()
	genCfg := config.Default().Generation
	if upstream != nil {
		genCfg.APIKey = "test-key"
		genCfg.BaseURL = upstream.URL
		genCfg.Timeout = 2 * time.Second
	}
	svc, err := services.NewStoryGenerationService(genCfg, observability.NewNopLogger())
	require.NoError(t, err)
	return newStoryRouter(t, svc)
}

func doStory(router http.Handler, method, body string, headers map[string]string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, StoryRoute, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeStory(t *testing.T, w *httptest.ResponseRecorder) models.StoryPayload {
	t.Helper()
	var payload models.StoryPayload
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &payload), w.Body.String())
	return payload
}

// upstreamWith answers generateContent with text in the first candidate
func upstreamWith(t *testing.T, status int, text string) *httptest.Server {
	t.Helper()
	body, err := json.Marshal(map[string]interface{}{
		"candidates": []interface{}{map[string]interface{}{
			"content": map[string]interface{}{
				"parts": []interface{}{map[string]interface{}{"text": text}},
			},
		}},
	})
	require.NoError(t, err)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write(body)
	}))
	t.Cleanup(server.Close)
	return server
}

func TestStoryHandler_Options(t *testing.T) {
	router := newStoryRouter(t, &fakeGenerator{})

	for _, origin := range []string{"", "http://games.test", "http://evil.test"} {
		t.Run("origin="+origin, func(t *testing.T) {
			headers := map[string]string{}
			if origin != "" {
				headers["Origin"] = origin
				headers["Access-Control-Request-Method"] = "POST"
			}
			w := doStory(router, http.MethodOptions, "", headers)

			assert.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
			assert.Equal(t, "POST, OPTIONS", w.Header().Get("Access-Control-Allow-Methods"))
			assert.Equal(t, "Content-Type", w.Header().Get("Access-Control-Allow-Headers"))
			assert.Empty(t, w.Body.String())
		})
	}
}

func TestStoryHandler_MethodNotAllowed(t *testing.T) {
	gen := &fakeGenerator{}
	router := newStoryRouter(t, gen)

	for _, method := range []string{http.MethodGet, http.MethodPut, http.MethodDelete, http.MethodPatch, "PROPFIND"} {
		t.Run(method, func(t *testing.T) {
			w := doStory(router, method, "", nil)
			assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
			assert.JSONEq(t, `{"error":"Method Not Allowed"}`, w.Body.String())
		})
	}
	assert.Zero(t, gen.calls())
}

func TestStoryHandler_NoCredentialServesFallback(t *testing.T) {
	router := newServiceRouter(t, nil)

	w := doStory(router, http.MethodPost, appleBody, nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))

	want, err := json.Marshal(services.FallbackStory(models.ProblemSpec{Num1: 5, Num2: 3, Operation: "+", ForcedEmoji: "🍎"}))
	require.NoError(t, err)
	assert.JSONEq(t, string(want), w.Body.String())

	payload := decodeStory(t, w)
	assert.Equal(t, "There are 5 🍎. Then 3 more come. How many now?", payload.Story)
	assert.Len(t, payload.Steps, 3)
	assert.Equal(t, services.FallbackEncouragement, payload.Encouragement)
}

func TestStoryHandler_FallbackIsIdempotent(t *testing.T) {
	router := newServiceRouter(t, nil)

	first := doStory(router, http.MethodPost, appleBody, nil).Body.String()
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, doStory(router, http.MethodPost, appleBody, nil).Body.String())
	}
}

func TestStoryHandler_AlwaysCompleteForValidSpecs(t *testing.T) {
	router := newServiceRouter(t, nil)

	for n1 := 0; n1 <= 10; n1 += 2 {
		for n2 := 0; n2 <= 10; n2 += 3 {
			for _, op := range []string{"+", "-"} {
				body := fmt.Sprintf(`{"num1":%d,"num2":%d,"operation":%q}`, n1, n2, op)
				w := doStory(router, http.MethodPost, body, nil)
				require.Equal(t, http.StatusOK, w.Code)
				payload := decodeStory(t, w)
				assert.NotEmpty(t, payload.Story, body)
				assert.NotEmpty(t, payload.Steps, body)
			}
		}
	}
}

func TestStoryHandler_UpstreamFailuresServeFallback(t *testing.T) {
	fallback := services.FallbackStory(models.ProblemSpec{Num1: 5, Num2: 3, Operation: "+", ForcedEmoji: "🍎"})

	tests := []struct {
		name   string
		status int
		text   string
	}{
		{"http 500", http.StatusInternalServerError, `{"story":"x","steps":["a"]}`},
		{"missing story", http.StatusOK, `{"emoji":"🚀","steps":["a","b"],"encouragement":"Yay"}`},
		{"steps not array", http.StatusOK, `{"story":"Hi","steps":"count"}`},
		{"not json", http.StatusOK, `I cannot help with that`},
		{"empty text", http.StatusOK, ``},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newServiceRouter(t, upstreamWith(t, tt.status, tt.text))

			w := doStory(router, http.MethodPost, appleBody, nil)

			require.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
			assert.Equal(t, *fallback, decodeStory(t, w))
		})
	}
}

func TestStoryHandler_FencedUpstreamStory(t *testing.T) {
	text := "```json\n{\"story\":\"Sam has 5 🍎 and gets 3 more.\",\"emoji\":\"🍎\",\"steps\":[\"Count 5\",\"Add 3\"],\"encouragement\":\"Super!\"}\n```"
	router := newServiceRouter(t, upstreamWith(t, http.StatusOK, text))

	w := doStory(router, http.MethodPost, appleBody, nil)

	require.Equal(t, http.StatusOK, w.Code)
	payload := decodeStory(t, w)
	assert.Equal(t, "Sam has 5 🍎 and gets 3 more.", payload.Story)
	assert.Equal(t, []string{"Count 5", "Add 3"}, payload.Steps)
	assert.Equal(t, "Super!", payload.Encouragement)
}

func TestStoryHandler_UnreadableBodyServesFatalPayload(t *testing.T) {
	gen := &fakeGenerator{}
	router := newStoryRouter(t, gen)

	for _, body := range []string{"", "not json", `{"num1":"five"}`} {
		w := doStory(router, http.MethodPost, body, nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, *models.FatalPayload(), decodeStory(t, w))
	}
	assert.Zero(t, gen.calls())
}

func TestStoryHandler_OversizedBodyServesFatalPayload(t *testing.T) {
	gen := &fakeGenerator{}
	cfg := config.Default()
	cfg.Server.MaxBodyBytes = 16
	router := NewRouter(cfg, gen, nil)

	w := doStory(router, http.MethodPost, appleBody, nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, *models.FatalPayload(), decodeStory(t, w))
}

func TestStoryHandler_PanicServesFatalPayload(t *testing.T) {
	router := newStoryRouter(t, &fakeGenerator{panics: true})

	w := doStory(router, http.MethodPost, appleBody, nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, *models.FatalPayload(), decodeStory(t, w))
}

func TestStoryHandler_IllFormedSubtractionIsNarrated(t *testing.T) {
	gen := &fakeGenerator{}
	router := newStoryRouter(t, gen)

	w := doStory(router, http.MethodPost, `{"num1":2,"num2":7,"operation":"-"}`, nil)

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, 1, gen.calls())
	assert.Equal(t, models.ProblemSpec{Num1: 2, Num2: 7, Operation: "-"}, gen.specs[0])
	assert.Equal(t, "There are 2 🍎. Then 7 leave. How many are left?", decodeStory(t, w).Story)
}

func TestStoryHandler_IncompleteGeneratorOutputReplaced(t *testing.T) {
	router := newStoryRouter(t, &fakeGenerator{
		payload: &models.StoryPayload{Story: "", Steps: nil},
		outcome: services.OutcomeUpstream,
	})

	w := doStory(router, http.MethodPost, appleBody, nil)

	payload := decodeStory(t, w)
	assert.True(t, payload.IsComplete())
	assert.Equal(t, "There are 5 🍎. Then 3 more come. How many now?", payload.Story)
}
