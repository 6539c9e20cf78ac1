// Package analysis implements the rule-based worksheet quality engine.
// Three independent analyzers (layout, typography, spacing) read the same
// immutable HTML string and score it heuristically; an orchestrator runs
// them concurrently and combines the results into a weighted composite.
// No DOM rendering happens here - the markup is tokenized, style and class
// attributes are extracted, and all scoring is pattern analysis over the
// extracted declarations.
package analysis

import (
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/net/html"
)

// declaration is a single CSS property/value pair pulled from an inline
// style attribute or a <style> block.
type declaration struct {
	Property string
	Value    string
}

// markup is the extracted view of a worksheet document that the analyzers
// score against. Decls flattens every declaration in document order;
// Inline keeps per-element groupings so same-element collisions (e.g.
// white text on a white background) remain detectable.
type markup struct {
	Decls   []declaration
	Inline  [][]declaration
	Classes []string
	Tags    map[string]int
}

var declRe = regexp.MustCompile(`([a-zA-Z-]+)\s*:\s*([^;{}]+)`)

// parseMarkup tokenizes the document and collects style declarations,
// class tokens, and tag counts. Malformed HTML is tolerated: the tokenizer
// yields whatever structure it can recover and extraction simply stops at
// EOF or an unrecoverable error.
func parseMarkup(src string) *markup {
	m := &markup{Tags: make(map[string]int)}
	tz := html.NewTokenizer(strings.NewReader(src))
	inStyle := false

	for {
		tt := tz.Next()
		switch tt {
		case html.ErrorToken:
			return m
		case html.TextToken:
			if inStyle {
				m.addDeclarations(parseDeclarations(string(tz.Text())), false)
			}
		case html.StartTagToken, html.SelfClosingTagToken:
			tok := tz.Token()
			name := strings.ToLower(tok.Data)
			m.Tags[name]++
			if name == "style" && tt == html.StartTagToken {
				inStyle = true
			}
			for _, attr := range tok.Attr {
				switch strings.ToLower(attr.Key) {
				case "style":
					m.addDeclarations(parseDeclarations(attr.Val), true)
				case "class":
					m.Classes = append(m.Classes, strings.Fields(attr.Val)...)
				}
			}
		case html.EndTagToken:
			tok := tz.Token()
			if strings.ToLower(tok.Data) == "style" {
				inStyle = false
			}
		}
	}
}

func (m *markup) addDeclarations(decls []declaration, inline bool) {
	if len(decls) == 0 {
		return
	}
	m.Decls = append(m.Decls, decls...)
	if inline {
		m.Inline = append(m.Inline, decls)
	}
}

func parseDeclarations(css string) []declaration {
	matches := declRe.FindAllStringSubmatch(css, -1)
	if len(matches) == 0 {
		return nil
	}
	decls := make([]declaration, 0, len(matches))
	for _, match := range matches {
		decls = append(decls, declaration{
			Property: strings.ToLower(strings.TrimSpace(match[1])),
			Value:    strings.TrimSpace(match[2]),
		})
	}
	return decls
}

// valuesOf returns every declared value for the given properties, in
// document order, one entry per declaration instance.
func (m *markup) valuesOf(props ...string) []string {
	var out []string
	for _, d := range m.Decls {
		for _, p := range props {
			if d.Property == p {
				out = append(out, d.Value)
				break
			}
		}
	}
	return out
}

// classesWithPrefix returns class tokens matching any of the prefixes.
// An exact match (token == prefix minus its trailing dash) also counts,
// so "flex" matches prefix "flex" and "gap-4" matches prefix "gap-".
func (m *markup) classesWithPrefix(prefixes ...string) []string {
	var out []string
	for _, c := range m.Classes {
		lc := strings.ToLower(c)
		for _, p := range prefixes {
			if strings.HasSuffix(p, "-") {
				if strings.HasPrefix(lc, p) {
					out = append(out, lc)
					break
				}
			} else if lc == p {
				out = append(out, lc)
				break
			}
		}
	}
	return out
}

// pxValue parses a pixel length out of a CSS value. Returns the numeric
// component and true when the value is a plain px length.
func pxValue(v string) (float64, bool) {
	v = strings.TrimSpace(strings.ToLower(v))
	if !strings.HasSuffix(v, "px") {
		return 0, false
	}
	n, err := strconv.ParseFloat(strings.TrimSpace(strings.TrimSuffix(v, "px")), 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// unitlessValue parses a bare numeric CSS value (e.g. a line-height ratio).
func unitlessValue(v string) (float64, bool) {
	n, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// normalizeValue lowercases and collapses whitespace so textual dedup of
// declaration values is stable across formatting differences.
func normalizeValue(v string) string {
	return strings.Join(strings.Fields(strings.ToLower(v)), " ")
}
