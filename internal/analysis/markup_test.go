package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMarkup_StyleBlockAndInline(t *testing.T) {
	src := `<html><head><style>
p { font-size: 14px; color: #333; }
</style></head>
<body><div class="flex gap-4" style="margin: 8px; padding: 4px">x</div></body></html>`

	m := parseMarkup(src)

	assert.ElementsMatch(t, []string{"14px"}, m.valuesOf("font-size"))
	assert.ElementsMatch(t, []string{"8px"}, m.valuesOf("margin"))
	assert.ElementsMatch(t, []string{"flex", "gap-4"}, m.Classes)
	assert.Equal(t, 1, m.Tags["div"])

	// Only the style attribute forms an inline group; the <style> block
	// declarations are not attributable to a single element.
	require.Len(t, m.Inline, 1)
	assert.Len(t, m.Inline[0], 2)
}

func TestParseMarkup_MalformedInputIsTolerated(t *testing.T) {
	for _, src := range []string{"", "<div", "<style>}{", "<p style='font-size:'>x</p>"} {
		m := parseMarkup(src)
		require.NotNil(t, m)
		require.NotNil(t, m.Tags)
	}
}

func TestClassesWithPrefix(t *testing.T) {
	m := &markup{Classes: []string{"flex", "flex-col", "gap-4", "GAP-8", "grid-cols-2", "text-center"}}

	assert.ElementsMatch(t, []string{"gap-4", "gap-8"}, m.classesWithPrefix("gap-"))
	assert.ElementsMatch(t, []string{"flex"}, m.classesWithPrefix("flex"))
	assert.Empty(t, m.classesWithPrefix("m-"))
}

func TestPxValue(t *testing.T) {
	cases := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"16px", 16, true},
		{" 12.5PX ", 12.5, true},
		{"-5px", -5, true},
		{"1em", 0, false},
		{"auto", 0, false},
		{"px", 0, false},
	}
	for _, tc := range cases {
		got, ok := pxValue(tc.in)
		assert.Equal(t, tc.ok, ok, "pxValue(%q)", tc.in)
		if tc.ok {
			assert.Equal(t, tc.want, got, "pxValue(%q)", tc.in)
		}
	}
}

func TestNormalizeValue(t *testing.T) {
	assert.Equal(t, "arial, sans-serif", normalizeValue("  Arial,  sans-serif "))
	assert.Equal(t, normalizeValue("8px   16px"), normalizeValue("8PX 16px"))
}
