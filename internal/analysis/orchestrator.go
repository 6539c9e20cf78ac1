package analysis

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Dimension weights for the combined rule-based score. These are part of
// the scoring contract: changing them silently alters the comparability
// of every persisted golden-reference quality score.
const (
	layoutWeight     = 0.35
	typographyWeight = 0.35
	spacingWeight    = 0.30
)

// AssessmentBreakdown carries the three weighted dimension scores and the
// final combined score.
type AssessmentBreakdown struct {
	LayoutScore     float64 `json:"layoutScore"`
	TypographyScore float64 `json:"typographyScore"`
	SpacingScore    float64 `json:"spacingScore"`
	CombinedScore   float64 `json:"combinedScore"`
}

// AssessmentResult is the full output of one rule-based assessment.
type AssessmentResult struct {
	Layout         LayoutResult        `json:"layout"`
	Typography     TypographyResult    `json:"typography"`
	Spacing        SpacingResult       `json:"spacing"`
	Overall        LayoutScore         `json:"overallScore"`
	Breakdown      AssessmentBreakdown `json:"breakdown"`
	ProcessingTime time.Duration       `json:"processingTimeMs"`
}

// Orchestrator runs the three analyzers concurrently and combines their
// results. Analyzers share no mutable state - each reads the same
// immutable HTML string - so the fan-out needs no locking.
type Orchestrator struct {
	layout     *LayoutAnalyzer
	typography *TypographyChecker
	spacing    *SpacingValidator
	log        *zap.Logger
}

func NewOrchestrator(log *zap.Logger) *Orchestrator {
	if log == nil {
		log = zap.NewNop()
	}
	return &Orchestrator{
		layout:     NewLayoutAnalyzer(log),
		typography: NewTypographyChecker(log),
		spacing:    NewSpacingValidator(log),
		log:        log,
	}
}

// AssessWorksheet analyzes the markup on all three dimensions and
// combines them. Anything escaping the analyzers' own fail-soft logic is
// caught here: the caller always receives a complete result, degraded to
// uniform neutral scores on total failure, with processing time measured
// up to the failure point.
func (o *Orchestrator) AssessWorksheet(ctx context.Context, htmlSrc string) AssessmentResult {
	start := time.Now()

	var (
		layoutRes LayoutResult
		typRes    TypographyResult
		spacRes   SpacingResult
	)

	g, _ := errgroup.WithContext(ctx)
	g.Go(guarded(func() { layoutRes = o.layout.Analyze(htmlSrc) }))
	g.Go(guarded(func() { typRes = o.typography.Check(htmlSrc) }))
	g.Go(guarded(func() { spacRes = o.spacing.Validate(htmlSrc) }))

	if err := g.Wait(); err != nil {
		o.log.Error("rule-based assessment failed, substituting neutral result", zap.Error(err))
		return fallbackResult(time.Since(start))
	}

	res := o.combine(layoutRes, typRes, spacRes)
	res.ProcessingTime = time.Since(start)
	return res
}

// guarded adapts a panic-prone analyzer call into an errgroup task.
func guarded(fn func()) func() error {
	return func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("analyzer panic: %v", r)
			}
		}()
		fn()
		return nil
	}
}

// combine applies the dimension weights and builds the overall score.
// The overall details re-average the overlapping dimensions across the
// layout analyzer and the specialist checkers; elementPositioning passes
// through from the layout analyzer unchanged.
func (o *Orchestrator) combine(layoutRes LayoutResult, typRes TypographyResult, spacRes SpacingResult) AssessmentResult {
	layoutScore := o.layout.GenerateScore(layoutRes).Score
	typScore := typRes.Overall()
	spacScore := spacRes.Overall()
	combined := combinedScore(layoutScore, typScore, spacScore)

	return AssessmentResult{
		Layout:     layoutRes,
		Typography: typRes,
		Spacing:    spacRes,
		Overall: LayoutScore{
			Score: combined,
			Details: map[string]float64{
				"fontConsistency":    round1(mean(layoutRes.FontConsistency, typRes.FontFamilyConsistency)),
				"spacingQuality":     round1(mean(layoutRes.SpacingQuality, spacScore)),
				"elementPositioning": layoutRes.ElementPositioning,
			},
		},
		Breakdown: AssessmentBreakdown{
			LayoutScore:     layoutScore,
			TypographyScore: typScore,
			SpacingScore:    spacScore,
			CombinedScore:   combined,
		},
	}
}

// combinedScore applies the fixed dimension weights.
func combinedScore(layout, typography, spacing float64) float64 {
	return round1(layout*layoutWeight + typography*typographyWeight + spacing*spacingWeight)
}

// fallbackResult is the single safety net above the analyzers' own
// partial-failure fallbacks: every score neutral, every count zero.
func fallbackResult(elapsed time.Duration) AssessmentResult {
	return AssessmentResult{
		Layout: LayoutResult{
			FontConsistency:    neutralScore,
			SpacingQuality:     neutralScore,
			ElementPositioning: neutralScore,
		},
		Typography: TypographyResult{
			FontFamilyConsistency: neutralScore,
			SizeHierarchy:         neutralScore,
			WeightUsage:           neutralScore,
			Readability:           neutralScore,
			ReadabilityIssues:     []string{},
		},
		Spacing: SpacingResult{
			MarginConsistency:  neutralScore,
			PaddingConsistency: neutralScore,
			GapConsistency:     neutralScore,
			VerticalRhythm:     neutralScore,
			Violations:         []string{},
		},
		Overall: LayoutScore{
			Score: neutralScore,
			Details: map[string]float64{
				"fontConsistency":    neutralScore,
				"spacingQuality":     neutralScore,
				"elementPositioning": neutralScore,
			},
		},
		Breakdown: AssessmentBreakdown{
			LayoutScore:     neutralScore,
			TypographyScore: neutralScore,
			SpacingScore:    neutralScore,
			CombinedScore:   neutralScore,
		},
		ProcessingTime: elapsed,
	}
}
