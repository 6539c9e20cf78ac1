package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"sheetqa/internal/store"
	"sheetqa/internal/suite"
)

var (
	assessQuick    bool
	assessReport   bool
	assessRecord   bool
	assessSuite    string
	assessConfigID string
)

// assessCmd runs the rule-based assessment over a worksheet HTML (or the
// HTML sibling of a PDF), a suite of worksheets, or prints a full report.
var assessCmd = &cobra.Command{
	Use:   "assess [path]",
	Short: "Run a rule-based quality assessment",
	Long: `Statically analyzes worksheet markup for layout, typography, and
spacing quality. The path may be an HTML file or a PDF; for a PDF the
sibling .html file is analyzed, falling back to a fixed default score
when none exists.

With --suite the path argument is replaced by a YAML assessment suite.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAssess,
}

func runAssess(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	if assessSuite != "" {
		return runSuite(cmd, assessSuite)
	}
	if len(args) == 0 {
		return fail(fmt.Errorf("either a worksheet path or --suite is required"))
	}
	path := args[0]

	if strings.HasSuffix(strings.ToLower(path), ".pdf") {
		score := app.assessor.Assess(ctx, path)
		fmt.Printf("%s rule-based score: %s/10\n", okMark(), renderScore(score.Score))
		return nil
	}

	htmlSrc, err := readFileArg(path)
	if err != nil {
		return fail(err)
	}

	switch {
	case assessReport:
		fmt.Print(app.assessor.GenerateReport(ctx, htmlSrc))
	case assessQuick:
		qa := app.assessor.QuickAssess(ctx, htmlSrc)
		fmt.Printf("score %s  font issues: %d  spacing issues: %d  alignment issues: %d\n",
			renderScore(qa.Score), qa.FontIssues, qa.SpacingIssues, qa.AlignmentIssues)
	default:
		res := app.assessor.AssessDetailed(ctx, htmlSrc)
		fmt.Printf("%s combined %s  (layout %s, typography %s, spacing %s)  %dms\n",
			okMark(),
			renderScore(res.Breakdown.CombinedScore),
			renderScore(res.Breakdown.LayoutScore),
			renderScore(res.Breakdown.TypographyScore),
			renderScore(res.Breakdown.SpacingScore),
			res.ProcessingTime.Milliseconds())

		if assessRecord {
			if err := recordAssessment(htmlSrc, res.Breakdown.LayoutScore,
				res.Breakdown.TypographyScore, res.Breakdown.SpacingScore,
				res.Breakdown.CombinedScore, res.ProcessingTime.Milliseconds()); err != nil {
				return fail(err)
			}
			fmt.Println(mutedStyle.Render("recorded to assessment history"))
		}
	}
	return nil
}

func recordAssessment(htmlSrc string, layout, typography, spacing, combined float64, durationMs int64) error {
	hs, err := openHistory()
	if err != nil {
		return err
	}
	defer hs.Close()

	_, err = hs.Record(store.HistoryEntry{
		ConfigID:        assessConfigID,
		InputHash:       store.HashInput(htmlSrc),
		LayoutScore:     layout,
		TypographyScore: typography,
		SpacingScore:    spacing,
		CombinedScore:   combined,
		DurationMs:      durationMs,
	})
	return err
}

func runSuite(cmd *cobra.Command, path string) error {
	s, err := suite.Load(path)
	if err != nil {
		return fail(err)
	}

	results := suite.Run(cmd.Context(), s, app.assessor)
	failed := 0
	for _, res := range results {
		switch {
		case res.Error != "":
			failed++
			fmt.Printf("  %s %-24s %s\n", failMark(), res.CaseID, res.Error)
		case !res.Passed:
			failed++
			fmt.Printf("  %s %-24s score %s below minimum\n", failMark(), res.CaseID, renderScore(res.Score))
		default:
			fmt.Printf("  %s %-24s score %s (%dms)\n", okMark(), res.CaseID, renderScore(res.Score), res.DurationMs)
		}
	}
	fmt.Printf("%d case(s), %d failed\n", len(results), failed)
	if failed > 0 {
		return fail(fmt.Errorf("%d suite case(s) failed", failed))
	}
	return nil
}

var (
	historyConfigID string
	historyLimit    int
	historySummary  bool
)

// historyCmd inspects recorded assessment runs.
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recorded assessment history",
	RunE: func(cmd *cobra.Command, args []string) error {
		hs, err := openHistory()
		if err != nil {
			return fail(err)
		}
		defer hs.Close()

		if historySummary {
			sum, err := hs.Summary(historyConfigID)
			if err != nil {
				return fail(err)
			}
			fmt.Println(headerStyle.Render("Assessment history"))
			fmt.Printf("  runs: %d  mean %s  best %s  worst %s\n",
				sum.TotalRuns,
				renderScore(sum.AverageCombined),
				renderScore(sum.BestCombined),
				renderScore(sum.WorstCombined))
			return nil
		}

		entries, err := hs.Recent(historyConfigID, historyLimit)
		if err != nil {
			return fail(err)
		}
		if len(entries) == 0 {
			fmt.Println(mutedStyle.Render("no recorded assessments"))
			return nil
		}
		for _, e := range entries {
			cfg := e.ConfigID
			if cfg == "" {
				cfg = "-"
			}
			fmt.Printf("  %s  %-32s combined %s  %s\n",
				e.CreatedAt.Format("2006-01-02 15:04"),
				cfg,
				renderScore(e.CombinedScore),
				mutedStyle.Render(e.InputHash))
		}
		return nil
	},
}

func openHistory() (*store.HistoryStore, error) {
	path := app.cfg.Assessment.HistoryDB
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create history dir: %w", err)
		}
	}
	return store.OpenHistory(path)
}

func readFileArg(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return string(data), nil
}

func init() {
	assessCmd.Flags().BoolVar(&assessQuick, "quick", false, "print the minimal issue summary")
	assessCmd.Flags().BoolVar(&assessReport, "report", false, "print the full human-readable report")
	assessCmd.Flags().BoolVar(&assessRecord, "record", false, "record the run to assessment history")
	assessCmd.Flags().StringVar(&assessSuite, "suite", "", "YAML assessment suite to run")
	assessCmd.Flags().StringVar(&assessConfigID, "config-id", "", "configId to tag recorded runs with")

	historyCmd.Flags().StringVar(&historyConfigID, "config-id", "", "filter by configId")
	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "maximum entries to show")
	historyCmd.Flags().BoolVar(&historySummary, "summary", false, "print aggregate summary instead of entries")
}
