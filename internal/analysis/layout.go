package analysis

import (
	"strings"

	"go.uber.org/zap"
)

// LayoutResult scores font consistency, spacing quality, and element
// positioning. The font and spacing dimensions deliberately overlap with
// the dedicated typography checker and spacing validator: each computes
// its own slice with different weighting, and the orchestrator averages
// the overlapping dimensions. Collapsing them into one shared metric
// would change every historical composite score.
type LayoutResult struct {
	FontConsistency        float64 `json:"fontConsistency"`
	SpacingQuality         float64 `json:"spacingQuality"`
	ElementPositioning     float64 `json:"elementPositioning"`
	FontVariations         int     `json:"fontVariations"`
	SpacingInconsistencies int     `json:"spacingInconsistencies"`
	MisalignedElements     int     `json:"misalignedElements"`
	MarginViolations       int     `json:"marginViolations"`
}

// LayoutScore is the rule-based composite consumed by the orchestrator
// and embedded in golden-reference quality scores.
type LayoutScore struct {
	Score   float64            `json:"score"`
	Details map[string]float64 `json:"details"`
}

// LayoutAnalyzer scores overall layout quality from raw markup.
type LayoutAnalyzer struct {
	log *zap.Logger
}

func NewLayoutAnalyzer(log *zap.Logger) *LayoutAnalyzer {
	if log == nil {
		log = zap.NewNop()
	}
	return &LayoutAnalyzer{log: log}
}

// Analyze computes the three layout sub-scores.
func (a *LayoutAnalyzer) Analyze(htmlSrc string) LayoutResult {
	m := parseMarkup(htmlSrc)
	var res LayoutResult
	res.FontConsistency, res.FontVariations = a.scoreFontConsistency(m)
	res.SpacingQuality, res.SpacingInconsistencies, res.MarginViolations = a.scoreSpacingQuality(m)
	res.ElementPositioning, res.MisalignedElements = a.scoreElementPositioning(m)
	return res
}

// GenerateScore reduces an analysis into the composite layout score:
// the unweighted mean of the three sub-scores with a details breakdown.
func (a *LayoutAnalyzer) GenerateScore(res LayoutResult) LayoutScore {
	return LayoutScore{
		Score: round1(mean(res.FontConsistency, res.SpacingQuality, res.ElementPositioning)),
		Details: map[string]float64{
			"fontConsistency":    res.FontConsistency,
			"spacingQuality":     res.SpacingQuality,
			"elementPositioning": res.ElementPositioning,
		},
	}
}

func (a *LayoutAnalyzer) scoreFontConsistency(m *markup) (score float64, variations int) {
	defer a.failSoft("font-consistency", &score)

	families := declaredFamilies(m)
	sizes := uniqueValues(m.valuesOf("font-size"))
	for _, cl := range m.Classes {
		if px, ok := sizeClassPx[strings.ToLower(cl)]; ok {
			sizes[px] = true
		}
	}
	weights := uniqueValues(m.valuesOf("font-weight"))
	for _, cl := range m.Classes {
		if w, ok := weightClassValues[strings.ToLower(cl)]; ok {
			weights[w] = true
		}
	}

	variations = len(families) + len(sizes) + len(weights)
	score = 10
	if variations > 8 {
		score -= 0.5 * float64(variations-8)
	}
	if len(families) > 2 {
		score -= 1.5 * float64(len(families)-2)
	}
	return clampScore(score), variations
}

func (a *LayoutAnalyzer) scoreSpacingQuality(m *markup) (score float64, inconsistencies, marginViolations int) {
	defer a.failSoft("spacing-quality", &score)

	marginVals := spacingValues(m, marginProps, marginClassPrefixes)
	paddingVals := spacingValues(m, paddingProps, paddingClassPrefixes)
	all := append(append([]string{}, marginVals...), paddingVals...)

	var canonical int
	for _, val := range all {
		if px, ok := pxValue(val); ok && canonicalSpacingPx[px] {
			canonical++
			continue
		}
		// Utility tokens sit on the canonical scale by construction.
		if strings.Contains(val, "-") && !strings.Contains(val, " ") && len(pxOnly(val)) == 0 {
			canonical++
		}
	}

	score = 8
	if len(all) > 0 {
		ratio := float64(canonical) / float64(len(all))
		if ratio > 0.7 {
			score += 1
		} else if ratio < 0.3 {
			score -= 2
		}
	}

	unique := uniqueValues(all)
	if len(unique) > 10 {
		score -= 0.3 * float64(len(unique)-10)
		inconsistencies = len(unique) - 10
	}

	for _, val := range marginVals {
		if hasNegativeComponent(val) {
			score -= 0.5
			marginViolations++
		}
	}
	return clampScore(score), inconsistencies, marginViolations
}

func pxOnly(v string) []float64 {
	var out []float64
	for _, part := range strings.Fields(v) {
		if px, ok := pxValue(part); ok {
			out = append(out, px)
		}
	}
	return out
}

func (a *LayoutAnalyzer) scoreElementPositioning(m *markup) (score float64, misaligned int) {
	defer a.failSoft("element-positioning", &score)

	score = 7

	modern := 0
	for _, v := range m.valuesOf("display") {
		lv := strings.ToLower(v)
		if strings.Contains(lv, "flex") || strings.Contains(lv, "grid") {
			modern++
		}
	}
	modern += len(m.valuesOf("align-items", "justify-content", "align-content"))
	modern += len(m.classesWithPrefix("flex", "grid", "inline-flex"))
	if modern > 2 {
		score += 1.5
	}

	absolute := 0
	for _, v := range m.valuesOf("position") {
		lv := strings.ToLower(v)
		if strings.Contains(lv, "absolute") || strings.Contains(lv, "fixed") {
			absolute++
		}
	}
	if absolute > 3 {
		score -= 0.8 * float64(absolute-3)
		misaligned = absolute - 3
	}

	aligns := uniqueValues(m.valuesOf("text-align"))
	if len(aligns) > 0 && len(aligns) <= 3 {
		score += 1
	} else if len(aligns) > 3 {
		score -= 0.5 * float64(len(aligns)-3)
		misaligned += len(aligns) - 3
	}

	if len(m.classesWithPrefix(alignmentClasses...)) > 5 {
		score += 0.5
	}
	return clampScore(score), misaligned
}

func (a *LayoutAnalyzer) failSoft(check string, score *float64) {
	if r := recover(); r != nil {
		a.log.Warn("layout sub-check failed",
			zap.String("check", check), zap.Any("panic", r))
		*score = neutralScore
	}
}
