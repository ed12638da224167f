package handlers

import (
	"math/rand"
	"net/http"
	"time"

	"mathgames/internal/observability"
	"mathgames/internal/puzzles"
	contextutils "mathgames/internal/utils"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"
)

// PuzzleHandler serves freshly generated puzzles for the mini-games
type PuzzleHandler struct {
	logger *observability.Logger
	now    func() time.Time
}

// NewPuzzleHandler creates a new PuzzleHandler
func NewPuzzleHandler(logger *observability.Logger) *PuzzleHandler {
	if logger == nil {
		logger = observability.NewNopLogger()
	}
	return &PuzzleHandler{logger: logger, now: time.Now}
}

type seedQuery struct {
	Seed *int64 `form:"seed"`
}

type tenFrameQuery struct {
	seedQuery
	Mode string `form:"mode" validate:"omitempty,oneof=add subtract ADD SUBTRACT"`
}

type activityQuery struct {
	seedQuery
	Activity string `form:"activity"`
}

type multiplesQuery struct {
	N int `form:"n" validate:"gte=1,lte=100"`
}

// ComparisonCheckRequest is the body of POST /v1/puzzles/comparison/check
type ComparisonCheckRequest struct {
	Left  int    `json:"left" validate:"gte=1,lte=10"`
	Right int    `json:"right" validate:"gte=1,lte=10"`
	Sign  string `json:"sign" validate:"required,oneof=> < ="`
}

// ComparisonCheckResponse reports whether the chosen sign was right
type ComparisonCheckResponse struct {
	Correct bool   `json:"correct"`
	Answer  string `json:"answer"`
}

// EquationPuzzleResponse is an equation puzzle with its narrated story
type EquationPuzzleResponse struct {
	*puzzles.EquationPuzzle
	Story string `json:"story"`
}

// MultiplesResponse lists the highlighted numbers of a hundred chart preset
type MultiplesResponse struct {
	N         int   `json:"n"`
	Multiples []int `json:"multiples"`
}

// rng returns a generator for q, seeded from the clock when no seed was given
func (h *PuzzleHandler) rng(span trace.Span, q seedQuery) *rand.Rand {
	seed := h.now().UnixNano()
	if q.Seed != nil {
		seed = *q.Seed
	}
	span.SetAttributes(observability.AttributeSeed(seed))
	return puzzles.NewRand(seed)
}

// bindQuery binds and validates query parameters, answering 400 on failure
func (h *PuzzleHandler) bindQuery(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindQuery(dst); err != nil {
		HandleValidationError(c, "query", c.Request.URL.RawQuery, err.Error())
		return false
	}
	if err := contextutils.ValidateStruct(dst); err != nil {
		HandleAppError(c, err)
		return false
	}
	return true
}

// GetWordProblem handles GET /v1/puzzles/word-problem
func (h *PuzzleHandler) GetWordProblem(c *gin.Context) {
	_, span := observability.TracePuzzleFunction(c.Request.Context(), "get_word_problem")
	defer observability.FinishSpan(span, nil)

	var q seedQuery
	if !h.bindQuery(c, &q) {
		return
	}
	c.JSON(http.StatusOK, puzzles.NewWordProblem(h.rng(span, q)))
}

// GetComparison handles GET /v1/puzzles/comparison
func (h *PuzzleHandler) GetComparison(c *gin.Context) {
	_, span := observability.TracePuzzleFunction(c.Request.Context(), "get_comparison")
	defer observability.FinishSpan(span, nil)

	var q seedQuery
	if !h.bindQuery(c, &q) {
		return
	}
	c.JSON(http.StatusOK, puzzles.NewComparison(h.rng(span, q)))
}

// CheckComparison handles POST /v1/puzzles/comparison/check
func (h *PuzzleHandler) CheckComparison(c *gin.Context) {
	ctx, span := observability.TracePuzzleFunction(c.Request.Context(), "check_comparison")
	defer observability.FinishSpan(span, nil)

	var req ComparisonCheckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn(ctx, "Failed to bind comparison check", map[string]interface{}{"error": err.Error()})
		HandleValidationError(c, "body", "", err.Error())
		return
	}
	if err := contextutils.ValidateStruct(&req); err != nil {
		HandleAppError(c, err)
		return
	}

	cmp := puzzles.Comparison{Left: req.Left, Right: req.Right}
	c.JSON(http.StatusOK, ComparisonCheckResponse{
		Correct: cmp.Check(req.Sign),
		Answer:  puzzles.CorrectSign(req.Left, req.Right),
	})
}

// GetEquationPuzzle handles GET /v1/puzzles/equations
func (h *PuzzleHandler) GetEquationPuzzle(c *gin.Context) {
	_, span := observability.TracePuzzleFunction(c.Request.Context(), "get_equation_puzzle")
	defer observability.FinishSpan(span, nil)

	var q seedQuery
	if !h.bindQuery(c, &q) {
		return
	}
	p := puzzles.NewEquationPuzzle(h.rng(span, q))
	c.JSON(http.StatusOK, EquationPuzzleResponse{EquationPuzzle: p, Story: p.Story()})
}

// GetTenFrame handles GET /v1/puzzles/ten-frame
func (h *PuzzleHandler) GetTenFrame(c *gin.Context) {
	_, span := observability.TracePuzzleFunction(c.Request.Context(), "get_ten_frame")
	defer observability.FinishSpan(span, nil)

	var q tenFrameQuery
	if !h.bindQuery(c, &q) {
		return
	}
	mode, err := puzzles.ParseTenFrameMode(q.Mode)
	if err != nil {
		HandleAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, puzzles.NewTenFrame(h.rng(span, q.seedQuery), mode).View())
}

// GetHundredChartActivity handles GET /v1/puzzles/hundred-chart/activity
func (h *PuzzleHandler) GetHundredChartActivity(c *gin.Context) {
	_, span := observability.TracePuzzleFunction(c.Request.Context(), "get_hundred_chart_activity")
	defer observability.FinishSpan(span, nil)

	var q activityQuery
	if !h.bindQuery(c, &q) {
		return
	}

	var chart *puzzles.HundredChart
	if q.Activity == "" {
		chart = puzzles.NewHideAndSeek(h.rng(span, q.seedQuery))
	} else {
		activity, err := puzzles.ParseActivity(q.Activity)
		if err != nil {
			HandleAppError(c, err)
			return
		}
		chart = puzzles.NewActivity(h.rng(span, q.seedQuery), activity)
	}
	span.SetAttributes(observability.AttributeActivity(string(chart.Activity)))
	c.JSON(http.StatusOK, chart.View())
}

// GetMultiples handles GET /v1/puzzles/hundred-chart/multiples
func (h *PuzzleHandler) GetMultiples(c *gin.Context) {
	_, span := observability.TracePuzzleFunction(c.Request.Context(), "get_multiples")
	defer observability.FinishSpan(span, nil)

	var q multiplesQuery
	if !h.bindQuery(c, &q) {
		return
	}
	c.JSON(http.StatusOK, MultiplesResponse{N: q.N, Multiples: puzzles.Multiples(q.N)})
}
