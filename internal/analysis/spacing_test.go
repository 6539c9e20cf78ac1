package analysis

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const consistentSpacingHTML = `<div style="margin: 16px; padding: 8px">
<section style="margin: 8px 16px; gap: 16px; line-height: 1.5">problems</section>
</div>`

func TestValidateSpacing_Consistent(t *testing.T) {
	res := NewSpacingValidator(nil).Validate(consistentSpacingHTML)

	assert.Equal(t, 10.0, res.MarginConsistency)
	assert.Equal(t, 2, res.UniqueMarginValues)
	assert.Equal(t, 10.0, res.PaddingConsistency)
	assert.Equal(t, 1, res.UniquePaddingValues)
	assert.Equal(t, 10.0, res.GapConsistency)
	assert.Equal(t, 10.0, res.VerticalRhythm)
	assert.Empty(t, res.Violations)
	assert.Equal(t, 1.0, res.StandardSpacingUsage, "every declaration on the standard scale")
	assert.Equal(t, 10.0, res.Overall())
}

func TestValidateSpacing_NegativeMargin(t *testing.T) {
	res := NewSpacingValidator(nil).Validate(`<div style="margin: -5px"></div>`)

	assert.Equal(t, 9.5, res.MarginConsistency, "one unique value scores 10, minus 0.5 per negative")
	require.Len(t, res.Violations, 1)
	assert.Contains(t, res.Violations[0], "negative margin")
}

func TestValidateSpacing_ComplexMargins(t *testing.T) {
	html := `<div style="margin: calc(100% - 20px)"></div>
<div style="margin: 1px 2px 3px 4px"></div>
<div style="margin: 5px 6px 7px"></div>`

	res := NewSpacingValidator(nil).Validate(html)
	joined := strings.Join(res.Violations, "\n")
	assert.Contains(t, joined, "overly complex margin")
}

func TestValidateSpacing_OversizedPadding(t *testing.T) {
	html := `<div style="padding: 200px"></div><div style="padding: 150px"></div>`
	res := NewSpacingValidator(nil).Validate(html)

	// 2 unique values score 10, minus the 1.5 oversized penalty.
	assert.Equal(t, 8.5, res.PaddingConsistency)
	joined := strings.Join(res.Violations, "\n")
	assert.Contains(t, joined, "large padding")
}

func TestValidateSpacing_NoGapsIsAmbiguous(t *testing.T) {
	res := NewSpacingValidator(nil).Validate(`<div style="margin: 8px"></div>`)
	assert.Equal(t, 6.0, res.GapConsistency, "spacing may rely on margins instead")
}

func TestValidateSpacing_MissingLineHeight(t *testing.T) {
	res := NewSpacingValidator(nil).Validate(`<div style="margin: 8px"></div>`)
	assert.Equal(t, 6.0, res.VerticalRhythm)
	assert.Contains(t, strings.Join(res.Violations, "\n"), "no explicit line-height")
}

func TestValidateSpacing_LineHeightOutOfRange(t *testing.T) {
	res := NewSpacingValidator(nil).Validate(`<p style="line-height: 2.5">loose</p>`)
	assert.Equal(t, 9.5, res.VerticalRhythm, "one value scores 10, minus 0.5 out-of-range penalty")
	assert.Contains(t, strings.Join(res.Violations, "\n"), "outside 1.1-2.0")
}

func TestValidateSpacing_UtilityTokensCountAsStandard(t *testing.T) {
	res := NewSpacingValidator(nil).Validate(`<div class="m-4 p-2 gap-4"></div>`)
	assert.Equal(t, 1.0, res.StandardSpacingUsage)
	assert.Equal(t, 1, res.UniqueMarginValues)
	assert.Equal(t, 1, res.UniquePaddingValues)
}

func TestValidateSpacing_NoDeclarations(t *testing.T) {
	res := NewSpacingValidator(nil).Validate(`<p>plain</p>`)
	assert.Equal(t, 7.0, res.MarginConsistency)
	assert.Equal(t, 7.0, res.PaddingConsistency)
	assert.Equal(t, 0.0, res.StandardSpacingUsage)
}

func TestValidateSpacing_NeverPanicsAndStaysBounded(t *testing.T) {
	inputs := []string{"", "<div", "<style>}{", strings.Repeat("<i style='margin:1px'>", 100)}
	v := NewSpacingValidator(nil)
	for _, input := range inputs {
		res := v.Validate(input)
		for _, score := range []float64{
			res.MarginConsistency, res.PaddingConsistency, res.GapConsistency, res.VerticalRhythm,
		} {
			require.GreaterOrEqual(t, score, 0.0)
			require.LessOrEqual(t, score, 10.0)
		}
		require.NotNil(t, res.Violations)
		require.GreaterOrEqual(t, res.StandardSpacingUsage, 0.0)
		require.LessOrEqual(t, res.StandardSpacingUsage, 1.0)
	}
}
