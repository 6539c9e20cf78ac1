package analysis

// Recognized utility-class vocabularies. Generated worksheets mix inline
// CSS with a Tailwind-flavored utility set, so the analyzers treat both
// as declarations of the same intent.

// fontClassFamilies maps font utility classes to the family they imply.
var fontClassFamilies = map[string]string{
	"font-sans":  "sans-serif",
	"font-serif": "serif",
	"font-mono":  "monospace",
}

// sizeClassPx maps text-size utility classes to their pixel sizes.
var sizeClassPx = map[string]string{
	"text-xs":   "12px",
	"text-sm":   "14px",
	"text-base": "16px",
	"text-lg":   "18px",
	"text-xl":   "20px",
	"text-2xl":  "24px",
	"text-3xl":  "30px",
	"text-4xl":  "36px",
	"text-5xl":  "48px",
	"text-6xl":  "60px",
	"text-7xl":  "72px",
	"text-8xl":  "96px",
	"text-9xl":  "128px",
}

// weightClassValues maps font-weight utility classes to weight keywords.
var weightClassValues = map[string]string{
	"font-thin":       "100",
	"font-extralight": "200",
	"font-light":      "300",
	"font-normal":     "400",
	"font-medium":     "500",
	"font-semibold":   "600",
	"font-bold":       "700",
	"font-extrabold":  "800",
	"font-black":      "900",
}

// leadingClassValues maps line-height utility classes to ratios.
var leadingClassValues = map[string]float64{
	"leading-none":    1.0,
	"leading-tight":   1.25,
	"leading-snug":    1.375,
	"leading-normal":  1.5,
	"leading-relaxed": 1.625,
	"leading-loose":   2.0,
}

// webSafeFonts are families that render consistently without webfont
// loading; using one inside the 1-2 family optimum earns a small bonus.
var webSafeFonts = map[string]bool{
	"arial":           true,
	"helvetica":       true,
	"verdana":         true,
	"tahoma":          true,
	"trebuchet ms":    true,
	"georgia":         true,
	"times new roman": true,
	"times":           true,
	"courier new":     true,
	"courier":         true,
	"comic sans ms":   true,
	"sans-serif":      true,
	"serif":           true,
	"monospace":       true,
}

// standardFontSizesPx are conventional worksheet sizes; hierarchies built
// from them earn a small bonus.
var standardFontSizesPx = map[float64]bool{
	10: true, 11: true, 12: true, 14: true, 16: true, 18: true,
	20: true, 24: true, 28: true, 32: true, 36: true, 48: true,
}

// standardSpacingPx is the canonical spacing scale used to compute the
// standard-usage ratio in the spacing validator.
var standardSpacingPx = map[float64]bool{
	0: true, 2: true, 4: true, 8: true, 12: true, 16: true,
	20: true, 24: true, 32: true, 40: true, 48: true, 64: true,
}

// canonicalSpacingPx is the tighter scale the layout analyzer rewards.
var canonicalSpacingPx = map[float64]bool{
	8: true, 12: true, 16: true, 20: true, 24: true, 32: true, 48: true, 64: true,
}

var (
	marginProps  = []string{"margin", "margin-top", "margin-right", "margin-bottom", "margin-left"}
	paddingProps = []string{"padding", "padding-top", "padding-right", "padding-bottom", "padding-left"}
	gapProps     = []string{"gap", "row-gap", "column-gap"}

	marginClassPrefixes  = []string{"m-", "mx-", "my-", "mt-", "mr-", "mb-", "ml-"}
	paddingClassPrefixes = []string{"p-", "px-", "py-", "pt-", "pr-", "pb-", "pl-"}
	gapClassPrefixes     = []string{"gap-"}
	leadingClassPrefixes = []string{"leading-"}

	alignmentClasses = []string{
		"text-left", "text-center", "text-right", "text-justify",
		"items-start", "items-center", "items-end", "items-stretch",
		"justify-start", "justify-center", "justify-end", "justify-between", "justify-around",
		"mx-auto", "flex", "grid", "inline-flex",
	}
)
