// Package worksheet renders printable word problem sets with an answer key.
package worksheet

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"os"
	"strings"
	"time"

	"mathgames/internal/models"
	"mathgames/internal/puzzles"
	"mathgames/internal/services"
	contextutils "mathgames/internal/utils"

	"codeberg.org/go-pdf/fpdf"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// MaxProblems caps a single sheet
const MaxProblems = 50

// Config controls page layout
type Config struct {
	PageSize   string
	MarginsMM  float64
	FontFamily string
	Compress   bool
	Timeout    time.Duration
}

// DefaultConfig is an A4 sheet in the core Helvetica font
func DefaultConfig() Config {
	return Config{
		PageSize:   "A4",
		MarginsMM:  20,
		FontFamily: "Helvetica",
		Compress:   true,
		Timeout:    10 * time.Second,
	}
}

// themeWords names each theme glyph; the PDF core fonts cannot draw emoji
var themeWords = map[string]string{
	"🍪": "cookies", "🍎": "apples", "🍌": "bananas", "🍦": "ice creams",
	"🐶": "puppies", "🐱": "kittens", "🐸": "frogs", "🦁": "lions",
	"🐰": "bunnies", "🚗": "cars", "🚀": "rockets", "⚽": "balls",
	"🎈": "balloons", "👽": "aliens", "🤖": "robots", "👾": "monsters",
}

// Problem is one numbered entry on the sheet
type Problem struct {
	Spec  models.ProblemSpec
	Story *models.StoryPayload
}

// Sheet is a titled set of problems
type Sheet struct {
	Name     string
	Problems []Problem
}

// NewSheet draws count random problems and narrates each with the local story template
func NewSheet(rng *rand.Rand, name string, count int) (result0 Sheet, err error) {
	if count < 1 || count > MaxProblems {
		return Sheet{}, contextutils.WrapErrorf(contextutils.ErrInvalidInput, "count must be between 1 and %d, got %d", MaxProblems, count)
	}

	sheet := Sheet{Name: strings.TrimSpace(name), Problems: make([]Problem, 0, count)}
	for i := 0; i < count; i++ {
		wp := puzzles.NewWordProblem(rng)
		narrated := wp.ProblemSpec
		if word, ok := themeWords[wp.Emoji]; ok {
			narrated.ForcedEmoji = word
		}
		sheet.Problems = append(sheet.Problems, Problem{
			Spec:  wp.ProblemSpec,
			Story: services.FallbackStory(narrated),
		})
	}
	return sheet, nil
}

// Title is the heading printed on the first page
func (s Sheet) Title() string {
	if s.Name == "" {
		return "Math Story Problems"
	}
	return fmt.Sprintf("%s's Math Story Problems", cases.Title(language.English).String(s.Name))
}

// PlainText drops every rune the core PDF fonts cannot encode and tidies the spacing left behind
func PlainText(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r <= 0xFF {
			b.WriteRune(r)
		} else {
			b.WriteRune(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// Generator renders sheets as PDF
type Generator struct {
	cfg Config
}

// NewGenerator fills unset layout fields from DefaultConfig
func NewGenerator(cfg Config) *Generator {
	def := DefaultConfig()
	if cfg.PageSize == "" {
		cfg.PageSize = def.PageSize
	}
	if cfg.MarginsMM <= 0 {
		cfg.MarginsMM = def.MarginsMM
	}
	if cfg.FontFamily == "" {
		cfg.FontFamily = def.FontFamily
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = def.Timeout
	}
	return &Generator{cfg: cfg}
}

// Render writes the problems followed by an answer key page
func (g *Generator) Render(ctx context.Context, sheet Sheet, w io.Writer) error {
	ctx, cancel := context.WithTimeout(ctx, g.cfg.Timeout)
	defer cancel()

	if len(sheet.Problems) == 0 {
		return contextutils.WrapError(contextutils.ErrInvalidInput, "worksheet has no problems")
	}

	pdf := fpdf.New("P", "mm", g.cfg.PageSize, "")
	pdf.SetCompression(g.cfg.Compress)
	pdf.SetMargins(g.cfg.MarginsMM, g.cfg.MarginsMM, g.cfg.MarginsMM)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	title := PlainText(sheet.Title())
	pdf.SetTitle(title, true)
	pdf.AddPage()

	pdf.SetFont(g.cfg.FontFamily, "B", 22)
	pdf.CellFormat(0, 15, tr(title), "", 1, "C", false, 0, "")
	pdf.Ln(10)

	for i, p := range sheet.Problems {
		if err := ctx.Err(); err != nil {
			return contextutils.WrapErrorf(contextutils.ErrTimeout, "worksheet rendering stopped: %w", err)
		}
		pdf.SetFont(g.cfg.FontFamily, "B", 14)
		pdf.MultiCell(0, 8, tr(fmt.Sprintf("%d. %s", i+1, PlainText(p.Story.Story))), "", "L", false)
		pdf.SetFont(g.cfg.FontFamily, "", 12)
		pdf.MultiCell(0, 8, tr(fmt.Sprintf("%s = ____", p.Spec.Equation())), "", "L", false)
		pdf.Ln(4)
	}

	pdf.AddPage()
	pdf.SetFont(g.cfg.FontFamily, "B", 22)
	pdf.CellFormat(0, 15, tr(title+" Answer Key"), "", 1, "C", false, 0, "")
	pdf.Ln(10)
	pdf.SetFont(g.cfg.FontFamily, "", 14)
	for i, p := range sheet.Problems {
		pdf.MultiCell(0, 8, tr(fmt.Sprintf("%d. %s = %d", i+1, p.Spec.Equation(), p.Spec.Answer())), "", "L", false)
	}

	if err := pdf.Output(w); err != nil {
		return contextutils.WrapErrorf(contextutils.ErrInternalError, "failed to write worksheet: %w", err)
	}
	return nil
}

// WriteFile renders sheet into path
func (g *Generator) WriteFile(ctx context.Context, sheet Sheet, path string) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return contextutils.WrapErrorf(contextutils.ErrInternalError, "failed to create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = contextutils.WrapErrorf(contextutils.ErrInternalError, "failed to close %s: %w", path, cerr)
		}
	}()
	return g.Render(ctx, sheet, f)
}
