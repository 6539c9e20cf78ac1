package main

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

// Semantic colors for CLI output.
var (
	successColor = lipgloss.Color("#8BC34A") // Lime Green
	warnColor    = lipgloss.Color("#FFC107") // Yellow
	errorColor   = lipgloss.Color("#e53935") // Red
	headerColor  = lipgloss.Color("#2196F3") // Blue
)

var (
	headerStyle  = lipgloss.NewStyle().Foreground(headerColor).Bold(true)
	successStyle = lipgloss.NewStyle().Foreground(successColor)
	warnStyle    = lipgloss.NewStyle().Foreground(warnColor)
	errorStyle   = lipgloss.NewStyle().Foreground(errorColor).Bold(true)
	mutedStyle   = lipgloss.NewStyle().Faint(true)
)

func okMark() string   { return successStyle.Render("✓") }
func warnMark() string { return warnStyle.Render("!") }
func failMark() string { return errorStyle.Render("✗") }

// scoreStyle colors a score by the quality threshold.
func renderScore(score float64) string {
	s := fmt.Sprintf("%.1f", score)
	switch {
	case score >= 7.0:
		return successStyle.Render(s)
	case score >= 5.0:
		return warnStyle.Render(s)
	default:
		return errorStyle.Render(s)
	}
}
