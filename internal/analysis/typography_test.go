package analysis

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const wellTypesetHTML = `<html><head><style>
body { font-family: Arial, sans-serif; font-size: 16px; line-height: 1.5; }
h1 { font-size: 32px; font-weight: 700; }
h2 { font-size: 24px; }
p { font-size: 14px; font-weight: 400; }
</style></head><body><h1>Fractions</h1><p>Shade one half.</p></body></html>`

func TestCheckTypography_WellTypeset(t *testing.T) {
	c := NewTypographyChecker(nil)
	res := c.Check(wellTypesetHTML)

	assert.Equal(t, 10.0, res.FontFamilyConsistency, "single web-safe family is optimal")
	assert.Equal(t, 1, res.FontFamilyCount)
	assert.Equal(t, 10.0, res.SizeHierarchy, "4 distinct standard sizes is optimal")
	assert.Equal(t, 4, res.SizeVariations)
	assert.Equal(t, 10.0, res.WeightUsage)
	assert.Equal(t, 2, res.WeightVariations)
	assert.Equal(t, 9.0, res.Readability)
	assert.Empty(t, res.ReadabilityIssues)
	assert.Equal(t, 9.8, res.Overall())
}

func TestCheckTypography_TooManyFamilies(t *testing.T) {
	html := `<p style="font-family: 'Comic Sans MS'"></p>
<p style="font-family: Arial"></p>
<p style="font-family: Georgia"></p>
<p style="font-family: Verdana"></p>`

	res := NewTypographyChecker(nil).Check(html)
	assert.Equal(t, 4, res.FontFamilyCount)
	assert.Equal(t, 7.0, res.FontFamilyConsistency, "1.5 penalty per family beyond 2")
}

func TestCheckTypography_FamiliesDedupeCaseInsensitive(t *testing.T) {
	html := `<p style="font-family: ARIAL, sans-serif"></p><p style="font-family: arial"></p>`
	res := NewTypographyChecker(nil).Check(html)
	assert.Equal(t, 1, res.FontFamilyCount)
}

func TestCheckTypography_UtilityClasses(t *testing.T) {
	html := `<div class="font-sans text-sm"><p class="text-2xl font-bold">A</p></div>`
	res := NewTypographyChecker(nil).Check(html)

	assert.Equal(t, 1, res.FontFamilyCount, "font-sans maps to sans-serif")
	assert.Equal(t, 2, res.SizeVariations, "text-sm and text-2xl")
	assert.Equal(t, 1, res.WeightVariations, "font-bold")
	assert.Equal(t, 8.0, res.WeightUsage, "single weight scores 8")
}

func TestCheckTypography_ReadabilityDefects(t *testing.T) {
	html := `<p style="font-size: 10px">tiny</p>
<p style="font-size: 9px">tinier</p>
<p style="color: #fff; background-color: white">invisible</p>`

	res := NewTypographyChecker(nil).Check(html)

	// 9 base - 1.0 (two sub-12px) - 2.0 (white on white) - 0.5 (no line-height)
	assert.Equal(t, 5.5, res.Readability)

	joined := strings.Join(res.ReadabilityIssues, "\n")
	assert.Contains(t, joined, "below 12px")
	assert.Contains(t, joined, "white text on white background")
	assert.Contains(t, joined, "no explicit line-height")
}

func TestCheckTypography_TightLineHeight(t *testing.T) {
	html := `<p style="line-height: 1.0; font-size: 14px">cramped</p>`
	res := NewTypographyChecker(nil).Check(html)
	assert.Equal(t, 8.0, res.Readability, "9 base - 1.0 tight line-height")
}

func TestCheckTypography_StrongTagCountsAsBold(t *testing.T) {
	html := `<p><strong>bold text</strong></p>`
	res := NewTypographyChecker(nil).Check(html)
	assert.Equal(t, 1, res.WeightVariations)
}

func TestCheckTypography_NeverPanicsAndStaysBounded(t *testing.T) {
	inputs := []string{
		"",
		"plain text, no markup at all",
		"<html><body",
		"<p style=\"font-size:\">broken</p>",
		"<style>{{{{</style>",
		strings.Repeat("<div style='font-size: 7px'>", 200),
	}
	c := NewTypographyChecker(nil)
	for _, input := range inputs {
		res := c.Check(input)
		for name, score := range map[string]float64{
			"fontFamilyConsistency": res.FontFamilyConsistency,
			"sizeHierarchy":         res.SizeHierarchy,
			"weightUsage":           res.WeightUsage,
			"readability":           res.Readability,
		} {
			require.GreaterOrEqual(t, score, 0.0, "%s for %q", name, input)
			require.LessOrEqual(t, score, 10.0, "%s for %q", name, input)
		}
		require.NotNil(t, res.ReadabilityIssues)
	}
}

func TestCheckTypography_EmptyInputDefaults(t *testing.T) {
	res := NewTypographyChecker(nil).Check("")
	assert.Equal(t, 5.0, res.FontFamilyConsistency, "zero families cannot be judged")
	assert.Equal(t, 6.0, res.SizeHierarchy, "defaults assumed")
	assert.Equal(t, 7.0, res.WeightUsage, "defaults assumed")
}
