package handlers

import (
	"net/http"

	"mathgames/internal/config"
	"mathgames/internal/models"
	"mathgames/internal/observability"
	"mathgames/internal/services"
	contextutils "mathgames/internal/utils"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
)

// StoryRoute is the path of the word problem generation endpoint
const StoryRoute = "/api/generate"

// StoryHandler serves the word problem generation endpoint. Every POST answers 200 with a
// complete story; upstream trouble and unreadable requests are answered from local templates.
type StoryHandler struct {
	generator services.StoryGeneratorInterface
	cfg       *config.Config
	logger    *observability.Logger
}

// NewStoryHandler creates a new StoryHandler
func NewStoryHandler(generator services.StoryGeneratorInterface, cfg *config.Config, logger *observability.Logger) *StoryHandler {
	if cfg == nil {
		cfg = config.Default()
	}
	if logger == nil {
		logger = observability.NewNopLogger()
	}
	return &StoryHandler{generator: generator, cfg: cfg, logger: logger}
}

// Generate handles every method on /api/generate
func (h *StoryHandler) Generate(c *gin.Context) {
	ctx, span := observability.TraceHandlerFunction(c.Request.Context(), "generate_story",
		attribute.String("http.method", c.Request.Method))
	defer observability.FinishSpan(span, nil)

	switch c.Request.Method {
	case http.MethodOptions:
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type")
		c.Status(http.StatusOK)
		return
	case http.MethodPost:
	default:
		c.JSON(http.StatusMethodNotAllowed, models.ErrorResponse{Error: "Method Not Allowed"})
		return
	}

	defer func() {
		if r := recover(); r != nil {
			err := contextutils.ErrorWithContextf("story handler panic: %v", r)
			observability.RecordFallback(span, string(services.OutcomeInternalError), err)
			h.logger.Error(ctx, "Recovered from panic while generating story", err, nil)
			h.writeStory(c, models.FatalPayload())
		}
	}()

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.cfg.Server.MaxBodyBytes)

	var spec models.ProblemSpec
	if err := c.ShouldBindJSON(&spec); err != nil {
		observability.RecordFallback(span, "bad_request", err)
		h.logger.Warn(ctx, "Unreadable story request, serving fatal payload", map[string]interface{}{
			"error": err.Error(),
		})
		h.writeStory(c, models.FatalPayload())
		return
	}

	span.SetAttributes(observability.AttributeOperands(spec.Num1, spec.Num2)...)
	span.SetAttributes(observability.AttributeOperation(string(spec.Operation)))

	payload, outcome := h.generator.Generate(ctx, spec)
	if !payload.IsComplete() {
		h.logger.Error(ctx, "Generator returned an incomplete story", nil, map[string]interface{}{
			"outcome": string(outcome),
		})
		payload = services.FallbackStory(spec)
	}

	span.SetAttributes(observability.AttributeOutcome(string(outcome)))
	h.logger.Info(ctx, "Story served", map[string]interface{}{
		"outcome":   string(outcome),
		"operation": string(spec.Operation),
	})
	h.writeStory(c, payload)
}

func (h *StoryHandler) writeStory(c *gin.Context, payload *models.StoryPayload) {
	if c.Writer.Written() {
		return
	}
	c.Header("Access-Control-Allow-Origin", "*")
	c.JSON(http.StatusOK, payload)
}
