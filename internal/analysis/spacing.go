package analysis

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// SpacingResult scores margin/padding/gap consistency and vertical rhythm.
type SpacingResult struct {
	MarginConsistency    float64  `json:"marginConsistency"`
	PaddingConsistency   float64  `json:"paddingConsistency"`
	GapConsistency       float64  `json:"gapConsistency"`
	VerticalRhythm       float64  `json:"verticalRhythm"`
	UniqueMarginValues   int      `json:"uniqueMarginValues"`
	UniquePaddingValues  int      `json:"uniquePaddingValues"`
	Violations           []string `json:"violations"`
	StandardSpacingUsage float64  `json:"standardSpacingUsage"`
}

// Overall is the unweighted mean of the four sub-scores.
func (r SpacingResult) Overall() float64 {
	return round1(mean(r.MarginConsistency, r.PaddingConsistency, r.GapConsistency, r.VerticalRhythm))
}

// SpacingValidator scores spacing consistency from raw markup. Like the
// typography checker it never propagates internal failures: a panicking
// sub-check is replaced with a neutral 5.0 and an explanatory violation.
type SpacingValidator struct {
	log *zap.Logger
}

func NewSpacingValidator(log *zap.Logger) *SpacingValidator {
	if log == nil {
		log = zap.NewNop()
	}
	return &SpacingValidator{log: log}
}

// Validate analyzes the markup and returns all four spacing sub-scores.
func (v *SpacingValidator) Validate(htmlSrc string) SpacingResult {
	m := parseMarkup(htmlSrc)
	res := SpacingResult{Violations: []string{}}

	res.MarginConsistency, res.UniqueMarginValues = v.scoreMargins(m, &res.Violations)
	res.PaddingConsistency, res.UniquePaddingValues = v.scorePadding(m, &res.Violations)
	res.GapConsistency = v.scoreGaps(m, &res.Violations)
	res.VerticalRhythm = v.scoreVerticalRhythm(m, &res.Violations)
	res.StandardSpacingUsage = v.standardUsage(m)
	return res
}

// spacingValues merges declaration instances for the given properties with
// recognized utility-class tokens. Returns one entry per instance.
func spacingValues(m *markup, props []string, classPrefixes []string) []string {
	vals := m.valuesOf(props...)
	for _, cl := range m.classesWithPrefix(classPrefixes...) {
		vals = append(vals, cl)
	}
	return vals
}

func uniqueValues(vals []string) map[string]bool {
	set := make(map[string]bool, len(vals))
	for _, v := range vals {
		set[normalizeValue(v)] = true
	}
	return set
}

// isComplexSpacing flags declarations that are hard to reason about:
// calc() expressions or shorthands with more than two components.
func isComplexSpacing(v string) bool {
	return strings.Contains(v, "calc(") || len(strings.Fields(v)) > 2
}

// hasNegativeComponent reports whether any component of a spacing value is
// a negative length.
func hasNegativeComponent(v string) bool {
	for _, part := range strings.Fields(v) {
		if strings.HasPrefix(part, "-") && len(part) > 1 && part[1] >= '0' && part[1] <= '9' {
			return true
		}
	}
	return false
}

// largestPx returns the largest px component in a spacing value.
func largestPx(v string) float64 {
	var max float64
	for _, part := range strings.Fields(v) {
		if px, ok := pxValue(part); ok && px > max {
			max = px
		}
	}
	return max
}

func (v *SpacingValidator) scoreMargins(m *markup, violations *[]string) (score float64, count int) {
	defer v.failSoft("margin", &score, violations)

	vals := spacingValues(m, marginProps, marginClassPrefixes)
	unique := uniqueValues(vals)
	count = len(unique)

	switch {
	case count == 0:
		score = 7 // browser defaults only
	case count <= 6:
		score = 10
	case count <= 12:
		score = 8
	default:
		score = 8 - 0.5*float64(count-12)
		if score < 3 {
			score = 3
		}
	}

	for _, val := range vals {
		if hasNegativeComponent(val) {
			score -= 0.5
			*violations = append(*violations, fmt.Sprintf("negative margin: %s", val))
		}
	}

	complex := make(map[string]bool)
	for val := range unique {
		if isComplexSpacing(val) {
			complex[val] = true
		}
	}
	if len(complex) > 2 {
		score -= 1
		*violations = append(*violations, fmt.Sprintf("%d overly complex margin declarations", len(complex)))
	}
	return clampScore(score), count
}

func (v *SpacingValidator) scorePadding(m *markup, violations *[]string) (score float64, count int) {
	defer v.failSoft("padding", &score, violations)

	vals := spacingValues(m, paddingProps, paddingClassPrefixes)
	unique := uniqueValues(vals)
	count = len(unique)

	switch {
	case count == 0:
		score = 7
	case count <= 8:
		score = 10
	case count <= 15:
		score = 7
	default:
		score = 7 - 0.4*float64(count-15)
		if score < 3 {
			score = 3
		}
	}

	oversized := 0
	for _, val := range vals {
		if largestPx(val) >= 100 {
			oversized++
		}
	}
	if oversized > 1 {
		score -= 1.5
		*violations = append(*violations, fmt.Sprintf("%d excessively large padding values", oversized))
	}
	return clampScore(score), count
}

func (v *SpacingValidator) scoreGaps(m *markup, violations *[]string) (score float64) {
	defer v.failSoft("gap", &score, violations)

	unique := uniqueValues(spacingValues(m, gapProps, gapClassPrefixes))
	count := len(unique)

	switch {
	case count == 0:
		// Spacing may legitimately rely on margins instead of gaps.
		score = 6
	case count <= 4:
		score = 10
	case count <= 8:
		score = 8
	default:
		score = 8 - 0.6*float64(count-8)
		if score < 4 {
			score = 4
		}
		*violations = append(*violations, fmt.Sprintf("too many gap values (%d)", count))
	}
	return clampScore(score)
}

func (v *SpacingValidator) scoreVerticalRhythm(m *markup, violations *[]string) (score float64) {
	defer v.failSoft("vertical-rhythm", &score, violations)

	lineHeights := m.valuesOf("line-height")
	leadings := m.classesWithPrefix(leadingClassPrefixes...)
	count := len(uniqueValues(append(append([]string{}, lineHeights...), leadings...)))

	switch {
	case count == 0:
		score = 6
		*violations = append(*violations, "no explicit line-height set")
	case count <= 4:
		score = 10
	case count <= 8:
		score = 8
	default:
		score = 8 - 0.5*float64(count-8)
		if score < 4 {
			score = 4
		}
		*violations = append(*violations, fmt.Sprintf("too many line-height values (%d)", count))
	}

	for _, val := range lineHeights {
		if n, ok := unitlessValue(val); ok && (n < 1.1 || n > 2.0) {
			score -= 0.5
			*violations = append(*violations, fmt.Sprintf("line-height %s outside 1.1-2.0", val))
		}
	}
	return clampScore(score)
}

// standardUsage is the ratio of spacing declarations matching the
// canonical spacing scale (utility tokens always count as standard).
func (v *SpacingValidator) standardUsage(m *markup) float64 {
	var total, standard int
	countVals := func(props []string, prefixes []string) {
		for _, val := range m.valuesOf(props...) {
			total++
			match := true
			any := false
			for _, part := range strings.Fields(val) {
				px, ok := pxValue(part)
				if !ok {
					if n, uok := unitlessValue(part); uok && n == 0 {
						any = true
						continue
					}
					match = false
					continue
				}
				any = true
				if !standardSpacingPx[px] {
					match = false
				}
			}
			if match && any {
				standard++
			}
		}
		n := len(m.classesWithPrefix(prefixes...))
		total += n
		standard += n
	}
	countVals(marginProps, marginClassPrefixes)
	countVals(paddingProps, paddingClassPrefixes)
	countVals(gapProps, gapClassPrefixes)

	if total == 0 {
		return 0
	}
	return round2(float64(standard) / float64(total))
}

// failSoft recovers a panicking sub-check into the neutral score with an
// explanatory violation entry.
func (v *SpacingValidator) failSoft(check string, score *float64, violations *[]string) {
	if r := recover(); r != nil {
		v.log.Warn("spacing sub-check failed",
			zap.String("check", check), zap.Any("panic", r))
		*score = neutralScore
		*violations = append(*violations, fmt.Sprintf("%s check failed, neutral score substituted", check))
	}
}
