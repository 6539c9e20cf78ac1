package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"sheetqa/internal/approval"
	"sheetqa/internal/golden"
)

var (
	submitPDF       string
	submitHTML      string
	submitBy        string
	submitNotes     string
	submitComposite float64
)

// submitCmd files a candidate for approval.
var submitCmd = &cobra.Command{
	Use:   "submit [configId]",
	Short: "Submit a candidate worksheet for approval",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		scores := golden.QualityScores{Composite: submitComposite}
		if submitHTML != "" {
			data, err := readFileArg(submitHTML)
			if err != nil {
				return fail(err)
			}
			ls := app.assessor.AssessHTML(cmd.Context(), data)
			scores.RuleBasedLayout = golden.DimensionScore{Score: ls.Score, Details: ls.Details}
			if scores.Composite == 0 {
				scores.Composite = ls.Score
			}
		}

		sub, err := app.workflow.SubmitForApproval(
			args[0], submitPDF, scores, submitBy, submitNotes, submitHTML)
		if err != nil {
			return fail(err)
		}
		fmt.Printf("%s submission %s staged (composite %s)\n",
			okMark(), sub.SubmissionID, renderScore(sub.QualityScores.Composite))
		return nil
	},
}

var (
	pendingStatus    string
	pendingConfigID  string
	pendingSubmitter string
	pendingMinScore  float64
)

// listPendingCmd lists submissions awaiting (or past) review.
var listPendingCmd = &cobra.Command{
	Use:   "list-pending-approvals",
	Short: "List submissions in the approval pipeline",
	RunE: func(cmd *cobra.Command, args []string) error {
		filter := &approval.Filter{
			Status:       approval.Status(pendingStatus),
			ConfigID:     pendingConfigID,
			SubmittedBy:  pendingSubmitter,
			MinComposite: pendingMinScore,
		}
		subs := app.workflow.GetPendingApprovals(filter)
		if len(subs) == 0 {
			fmt.Println(mutedStyle.Render("no submissions found"))
			return nil
		}

		fmt.Println(headerStyle.Render(fmt.Sprintf("%d submission(s)", len(subs))))
		for _, sub := range subs {
			fmt.Printf("  %-12s %s  composite %s  by %s  %s\n",
				sub.Status,
				sub.SubmissionID,
				renderScore(sub.QualityScores.Composite),
				sub.SubmittedBy,
				mutedStyle.Render(sub.SubmittedAt.Format("2006-01-02 15:04")))
		}
		return nil
	},
}

var (
	reviewBy       string
	reviewNotes    string
	reviewDecision string
)

// reviewCmd records a review decision on a submission.
var reviewCmd = &cobra.Command{
	Use:   "review [submissionId]",
	Short: "Review a submission (approve, reject, or request changes)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		res := app.workflow.ReviewSubmission(
			args[0], reviewBy, reviewNotes, approval.Decision(reviewDecision))
		return printReviewResult(args[0], res)
	},
}

var (
	approveBy    string
	approveNotes string
)

// approveSubmissionCmd is shorthand for review --decision approve, with
// support for approving several submissions in one best-effort batch.
var approveSubmissionCmd = &cobra.Command{
	Use:   "approve-submission [submissionId...]",
	Short: "Approve one or more submissions",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 1 {
			res := app.workflow.ReviewSubmission(
				args[0], approveBy, approveNotes, approval.DecisionApprove)
			return printReviewResult(args[0], res)
		}

		bulk := app.workflow.BulkApprove(args, approveBy, approveNotes)
		for _, id := range args {
			res := bulk.Results[id]
			mark := okMark()
			if !res.Success {
				mark = failMark()
			}
			fmt.Printf("  %s %s: %s\n", mark, id, res.Message)
		}
		fmt.Printf("%d approved, %d failed\n", bulk.Approved, bulk.Failed)
		if bulk.Failed > 0 {
			return fail(fmt.Errorf("%d approval(s) failed", bulk.Failed))
		}
		return nil
	},
}

func printReviewResult(submissionID string, res approval.ReviewResult) error {
	if !res.Success {
		return fail(fmt.Errorf("review of %s failed: %s", submissionID, res.Message))
	}
	fmt.Printf("%s %s\n", okMark(), res.Message)
	if res.GoldenReference != nil {
		fmt.Printf("  golden reference: %s v%s\n",
			res.GoldenReference.Metadata.ReferenceID, res.GoldenReference.Metadata.Version)
	}
	return nil
}

// approvalStatsCmd prints pipeline throughput and quality aggregates.
var approvalStatsCmd = &cobra.Command{
	Use:   "approval-statistics",
	Short: "Show approval pipeline statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		stats := app.workflow.GetApprovalStatistics()

		fmt.Println(headerStyle.Render("Approval statistics"))
		fmt.Printf("  total submissions: %d\n", stats.TotalSubmissions)
		for _, status := range []approval.Status{
			approval.StatusPending, approval.StatusApproved,
			approval.StatusRejected, approval.StatusChangesRequested,
		} {
			if n := stats.ByStatus[status]; n > 0 {
				fmt.Printf("    %-18s %d\n", status, n)
			}
		}
		fmt.Printf("  mean composite score: %s\n", renderScore(stats.AverageComposite))
		fmt.Printf("  mean review latency:  %.1fh\n", stats.AverageReviewHours)

		printCounts := func(title string, counts map[string]int) {
			if len(counts) == 0 {
				return
			}
			names := make([]string, 0, len(counts))
			for name := range counts {
				names = append(names, name)
			}
			sort.Strings(names)
			fmt.Printf("  %s\n", title)
			for _, name := range names {
				fmt.Printf("    %-20s %d\n", name, counts[name])
			}
		}
		printCounts("submissions by submitter:", stats.BySubmitter)
		printCounts("approvals by reviewer:", stats.ApprovalsByReviewer)
		return nil
	},
}

var cleanupDays int

// cleanupCmd removes old terminal submissions.
var cleanupCmd = &cobra.Command{
	Use:   "cleanup",
	Short: "Remove old approved/rejected submissions",
	Long: `Removes approved and rejected submissions older than the retention
window. Pending and changes-requested submissions are never removed
regardless of age.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		days := cleanupDays
		if !cmd.Flags().Changed("older-than") {
			days = app.cfg.Approval.RetentionDays
		}
		removed := app.workflow.CleanupOldSubmissions(days)
		fmt.Printf("%s removed %d submission(s)\n", okMark(), removed)
		return nil
	},
}

func init() {
	submitCmd.Flags().StringVar(&submitPDF, "pdf", "", "source PDF path (required)")
	submitCmd.Flags().StringVar(&submitHTML, "html", "", "source HTML path")
	submitCmd.Flags().StringVar(&submitBy, "by", "", "submitter name (required)")
	submitCmd.Flags().StringVar(&submitNotes, "notes", "", "submission notes")
	submitCmd.Flags().Float64Var(&submitComposite, "composite", 0, "composite quality score")
	_ = submitCmd.MarkFlagRequired("pdf")
	_ = submitCmd.MarkFlagRequired("by")

	listPendingCmd.Flags().StringVar(&pendingStatus, "status", "", "filter by status")
	listPendingCmd.Flags().StringVar(&pendingConfigID, "config-id", "", "substring filter on configId")
	listPendingCmd.Flags().StringVar(&pendingSubmitter, "submitted-by", "", "filter by submitter")
	listPendingCmd.Flags().Float64Var(&pendingMinScore, "min-score", 0, "minimum composite score")

	reviewCmd.Flags().StringVar(&reviewBy, "by", "", "reviewer name (required)")
	reviewCmd.Flags().StringVar(&reviewNotes, "notes", "", "review notes")
	reviewCmd.Flags().StringVar(&reviewDecision, "decision", "", "approve, reject, or request-changes (required)")
	_ = reviewCmd.MarkFlagRequired("by")
	_ = reviewCmd.MarkFlagRequired("decision")

	approveSubmissionCmd.Flags().StringVar(&approveBy, "by", "", "approver name (required)")
	approveSubmissionCmd.Flags().StringVar(&approveNotes, "notes", "", "approval notes")
	_ = approveSubmissionCmd.MarkFlagRequired("by")

	cleanupCmd.Flags().IntVar(&cleanupDays, "older-than", approval.DefaultRetentionDays, "age threshold in days")
}
