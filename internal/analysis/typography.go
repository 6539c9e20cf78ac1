package analysis

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// TypographyResult scores font usage consistency and readability.
type TypographyResult struct {
	FontFamilyConsistency float64  `json:"fontFamilyConsistency"`
	SizeHierarchy         float64  `json:"sizeHierarchy"`
	WeightUsage           float64  `json:"weightUsage"`
	Readability           float64  `json:"readability"`
	FontFamilyCount       int      `json:"fontFamilyCount"`
	SizeVariations        int      `json:"sizeVariations"`
	WeightVariations      int      `json:"weightVariations"`
	ReadabilityIssues     []string `json:"readabilityIssues"`
}

// Overall is the unweighted mean of the four sub-scores.
func (r TypographyResult) Overall() float64 {
	return round1(mean(r.FontFamilyConsistency, r.SizeHierarchy, r.WeightUsage, r.Readability))
}

// TypographyChecker scores font-family/size/weight consistency and basic
// readability heuristics from raw markup. Each sub-check fails soft: an
// internal panic is logged and replaced with a neutral 5.0, so a single
// pathological document never takes down an assessment.
type TypographyChecker struct {
	log *zap.Logger
}

func NewTypographyChecker(log *zap.Logger) *TypographyChecker {
	if log == nil {
		log = zap.NewNop()
	}
	return &TypographyChecker{log: log}
}

// Check analyzes the markup and returns all four typography sub-scores.
func (c *TypographyChecker) Check(htmlSrc string) TypographyResult {
	m := parseMarkup(htmlSrc)
	res := TypographyResult{ReadabilityIssues: []string{}}

	res.FontFamilyConsistency, res.FontFamilyCount = c.scoreFontFamilies(m)
	res.SizeHierarchy, res.SizeVariations = c.scoreSizeHierarchy(m)
	res.WeightUsage, res.WeightVariations = c.scoreWeightUsage(m)
	res.Readability, res.ReadabilityIssues = c.scoreReadability(m)
	return res
}

// declaredFamilies dedupes families case-insensitively on the first family
// of any comma list, merging inline CSS with recognized utility classes.
func declaredFamilies(m *markup) []string {
	seen := make(map[string]bool)
	var families []string
	add := func(raw string) {
		first := strings.TrimSpace(strings.SplitN(raw, ",", 2)[0])
		first = strings.Trim(first, `"' `)
		key := strings.ToLower(first)
		if key == "" || seen[key] {
			return
		}
		seen[key] = true
		families = append(families, key)
	}
	for _, v := range m.valuesOf("font-family") {
		add(v)
	}
	for _, c := range m.Classes {
		if fam, ok := fontClassFamilies[strings.ToLower(c)]; ok {
			add(fam)
		}
	}
	return families
}

func (c *TypographyChecker) scoreFontFamilies(m *markup) (score float64, count int) {
	defer c.failSoft("font-family", &score)

	families := declaredFamilies(m)
	count = len(families)
	if count == 0 {
		// Nothing declared; browser defaults apply and can't be judged.
		return neutralScore, 0
	}

	score = 10
	if count > 2 {
		score -= 1.5 * float64(count-2)
	} else {
		for _, fam := range families {
			if webSafeFonts[fam] {
				score += 0.5
				break
			}
		}
	}
	return clampScore(score), count
}

func (c *TypographyChecker) scoreSizeHierarchy(m *markup) (score float64, count int) {
	defer c.failSoft("size-hierarchy", &score)

	seen := make(map[string]bool)
	standardUsed := false
	add := func(v string) {
		key := normalizeValue(v)
		if key == "" || seen[key] {
			return
		}
		seen[key] = true
		if px, ok := pxValue(v); ok && standardFontSizesPx[px] {
			standardUsed = true
		}
	}
	for _, v := range m.valuesOf("font-size") {
		add(v)
	}
	for _, cl := range m.Classes {
		if px, ok := sizeClassPx[strings.ToLower(cl)]; ok {
			add(px)
		}
	}
	count = len(seen)

	switch {
	case count == 0:
		score = 6 // defaults only
	case count < 3:
		score = 6 // insufficient hierarchy
	case count <= 6:
		score = 10
	case count <= 10:
		score = 7
	default:
		score = 7 - 0.8*float64(count-10)
		if score < 3 {
			score = 3
		}
	}
	if standardUsed && count > 0 {
		score += 0.5
	}
	return clampScore(score), count
}

func (c *TypographyChecker) scoreWeightUsage(m *markup) (score float64, count int) {
	defer c.failSoft("weight-usage", &score)

	seen := make(map[string]bool)
	for _, v := range m.valuesOf("font-weight") {
		seen[normalizeValue(v)] = true
	}
	for _, cl := range m.Classes {
		if w, ok := weightClassValues[strings.ToLower(cl)]; ok {
			seen[w] = true
		}
	}
	if m.Tags["strong"] > 0 || m.Tags["b"] > 0 {
		seen["bold"] = true
	}
	count = len(seen)

	switch {
	case count == 0:
		score = 7 // defaults
	case count == 1:
		score = 8
	case count <= 4:
		score = 10
	default:
		score = 10 - 1.2*float64(count-4)
		if score < 4 {
			score = 4
		}
	}
	return clampScore(score), count
}

var whiteValues = map[string]bool{
	"#fff":               true,
	"#ffffff":            true,
	"white":              true,
	"rgb(255,255,255)":   true,
	"rgb(255, 255, 255)": true,
}

func isWhite(v string) bool {
	return whiteValues[strings.ToLower(strings.TrimSpace(v))]
}

func (c *TypographyChecker) scoreReadability(m *markup) (score float64, issues []string) {
	issues = []string{}
	defer func() {
		if r := recover(); r != nil {
			c.log.Warn("typography sub-check failed",
				zap.String("check", "readability"), zap.Any("panic", r))
			score, issues = neutralScore, []string{}
		}
	}()

	score = 9

	tooSmall := 0
	tooLarge := 0
	for _, v := range m.valuesOf("font-size") {
		if px, ok := pxValue(v); ok {
			if px < 12 {
				tooSmall++
			}
			if px >= 50 && px < 1000 {
				tooLarge++
			}
		}
	}
	if tooSmall > 0 {
		score -= 0.5 * float64(tooSmall)
		issues = append(issues, fmt.Sprintf("%d text elements below 12px", tooSmall))
	}
	if tooLarge > 3 {
		score -= 1
		issues = append(issues, fmt.Sprintf("%d oversized text elements", tooLarge))
	}

	// Same-element white-on-white collisions render as invisible text.
	for _, el := range m.Inline {
		var textWhite, bgWhite bool
		for _, d := range el {
			switch d.Property {
			case "color":
				textWhite = textWhite || isWhite(d.Value)
			case "background", "background-color":
				bgWhite = bgWhite || isWhite(d.Value)
			}
		}
		if textWhite && bgWhite {
			score -= 2
			issues = append(issues, "white text on white background detected")
			break
		}
	}

	italics := m.Tags["em"] + m.Tags["i"]
	for _, v := range m.valuesOf("font-style") {
		if strings.Contains(strings.ToLower(v), "italic") {
			italics++
		}
	}
	if italics > 10 {
		score -= 0.8
		issues = append(issues, fmt.Sprintf("excessive italic text (%d instances)", italics))
	}

	uppercase := len(m.classesWithPrefix("uppercase"))
	for _, v := range m.valuesOf("text-transform") {
		if strings.Contains(strings.ToLower(v), "uppercase") {
			uppercase++
		}
	}
	if uppercase > 2 {
		score -= 1
		issues = append(issues, fmt.Sprintf("excessive all-caps styling (%d instances)", uppercase))
	}

	lineHeights := m.valuesOf("line-height")
	leadings := m.classesWithPrefix(leadingClassPrefixes...)
	if len(lineHeights) == 0 && len(leadings) == 0 {
		score -= 0.5
		issues = append(issues, "no explicit line-height set")
	} else {
		tight := false
		for _, v := range lineHeights {
			if n, ok := unitlessValue(v); ok && n < 1.2 {
				tight = true
			}
		}
		for _, cl := range leadings {
			if n, ok := leadingClassValues[cl]; ok && n < 1.2 {
				tight = true
			}
		}
		if tight {
			score -= 1
			issues = append(issues, "line-height below 1.2 is too tight")
		}
	}

	return clampScore(score), issues
}

// failSoft recovers a panicking sub-check into the neutral score.
func (c *TypographyChecker) failSoft(check string, score *float64) {
	if r := recover(); r != nil {
		c.log.Warn("typography sub-check failed",
			zap.String("check", check), zap.Any("panic", r))
		*score = neutralScore
	}
}
