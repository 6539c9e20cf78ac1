package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"sheetqa/internal/golden"
)

var (
	createPDF       string
	createHTML      string
	createBy        string
	createNotes     string
	createScores    string
	createComposite float64
	createApprove   bool
)

// createCmd creates a golden reference for a configId. Without --approve
// the candidate goes through the approval workflow instead.
var createCmd = &cobra.Command{
	Use:   "create [configId]",
	Short: "Create a golden reference (or submit one for approval)",
	Long: `Stages a worksheet artifact for the given configId.

By default the candidate is submitted to the approval workflow and waits
for human review. With --approve the workflow is bypassed and the golden
reference is created directly.

Quality scores come from --scores (a QualityScores JSON file) when given;
otherwise the rule-based layout score is computed from the supplied HTML
and --composite (default: the rule-based score) fills the top line.`,
	Args: cobra.ExactArgs(1),
	RunE: runCreate,
}

func runCreate(cmd *cobra.Command, args []string) error {
	configID := args[0]

	scores, err := resolveScores(cmd.Context())
	if err != nil {
		return fail(err)
	}

	if createApprove {
		ref, err := app.manager.CreateGoldenReference(
			configID, createPDF, scores, createBy, createNotes, createHTML)
		if err != nil {
			return fail(err)
		}
		fmt.Printf("%s golden reference %s created (version %s)\n",
			okMark(), ref.Metadata.ReferenceID, ref.Metadata.Version)
		return nil
	}

	sub, err := app.workflow.SubmitForApproval(
		configID, createPDF, scores, createBy, createNotes, createHTML)
	if err != nil {
		return fail(err)
	}
	fmt.Printf("%s submission %s staged for approval (composite %s)\n",
		okMark(), sub.SubmissionID, renderScore(scores.Composite))
	return nil
}

// resolveScores builds the quality-scores bundle for a candidate: either
// loaded verbatim from --scores, or synthesized from a rule-based
// assessment of the supplied HTML.
func resolveScores(ctx context.Context) (golden.QualityScores, error) {
	var scores golden.QualityScores

	if createScores != "" {
		data, err := os.ReadFile(createScores)
		if err != nil {
			return scores, fmt.Errorf("read scores file: %w", err)
		}
		if err := json.Unmarshal(data, &scores); err != nil {
			return scores, fmt.Errorf("parse scores file: %w", err)
		}
		return scores, nil
	}

	ruleBased := golden.DimensionScore{Score: 7.5}
	if createHTML != "" {
		data, err := os.ReadFile(createHTML)
		if err != nil {
			return scores, fmt.Errorf("read html: %w", err)
		}
		ls := app.assessor.AssessHTML(ctx, string(data))
		ruleBased = golden.DimensionScore{Score: ls.Score, Details: ls.Details}
	}

	composite := createComposite
	if composite == 0 {
		composite = ruleBased.Score
	}
	return golden.QualityScores{
		RuleBasedLayout: ruleBased,
		Composite:       composite,
	}, nil
}

func init() {
	createCmd.Flags().StringVar(&createPDF, "pdf", "", "source PDF path (required)")
	createCmd.Flags().StringVar(&createHTML, "html", "", "source HTML path")
	createCmd.Flags().StringVar(&createBy, "by", "", "submitter / approver name (required)")
	createCmd.Flags().StringVar(&createNotes, "notes", "", "submission or approval notes")
	createCmd.Flags().StringVar(&createScores, "scores", "", "QualityScores JSON file")
	createCmd.Flags().Float64Var(&createComposite, "composite", 0, "composite quality score")
	createCmd.Flags().BoolVar(&createApprove, "approve", false, "bypass the approval workflow")
	_ = createCmd.MarkFlagRequired("pdf")
	_ = createCmd.MarkFlagRequired("by")

	listCmd.Flags().StringVar(&listFilter, "filter", "", "substring filter on configId")
}

var listFilter string

// listCmd lists golden references, optionally substring-filtered.
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List golden references",
	RunE: func(cmd *cobra.Command, args []string) error {
		refs := app.manager.ListGoldenReferences(listFilter)
		if len(refs) == 0 {
			fmt.Println(mutedStyle.Render("no golden references found"))
			return nil
		}

		sort.Slice(refs, func(i, j int) bool {
			return refs[i].Metadata.ReferenceID < refs[j].Metadata.ReferenceID
		})

		fmt.Println(headerStyle.Render(fmt.Sprintf("%d golden reference(s)", len(refs))))
		for _, ref := range refs {
			fmt.Printf("  %s  v%-4s composite %s  %s/%s\n",
				ref.Metadata.ReferenceID,
				ref.Metadata.Version,
				renderScore(ref.Metadata.QualityScores.Composite),
				ref.Metadata.Config.YearGroup,
				ref.Metadata.Config.Topic)
		}
		return nil
	},
}

// deleteCmd removes a golden reference.
var deleteCmd = &cobra.Command{
	Use:   "delete [configId]",
	Short: "Delete a golden reference",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if app.manager.DeleteGoldenReference(args[0]) {
			fmt.Printf("%s deleted %s\n", okMark(), args[0])
		} else {
			fmt.Printf("%s nothing to delete for %s\n", warnMark(), args[0])
		}
		return nil
	},
}

// validateCmd audits the whole golden set.
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the golden reference set",
	RunE: func(cmd *cobra.Command, args []string) error {
		refs := app.manager.ListGoldenReferences("")
		res := app.validator.ValidateGoldenReferenceSet(refs)

		fmt.Println(headerStyle.Render("Golden set validation"))
		fmt.Printf("  references: %d  valid: %d  invalid: %d  health: %.0f%%\n",
			len(refs), res.ValidCount, res.InvalidCount, res.OverallHealth*100)

		ids := make([]string, 0, len(res.Results))
		for id := range res.Results {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		for _, id := range ids {
			r := res.Results[id]
			if r.IsValid && len(r.Warnings) == 0 {
				continue
			}
			mark := warnMark()
			if !r.IsValid {
				mark = failMark()
			}
			fmt.Printf("  %s %s\n", mark, id)
			for _, issue := range r.Issues {
				fmt.Printf("      issue: %s\n", issue)
			}
			for _, warning := range r.Warnings {
				fmt.Printf("      warning: %s\n", mutedStyle.Render(warning))
			}
		}

		for _, gap := range res.CoverageGaps {
			fmt.Printf("  %s coverage: %s\n", warnMark(), gap)
		}

		if res.InvalidCount > 0 {
			return fail(fmt.Errorf("%d invalid golden reference(s)", res.InvalidCount))
		}
		return nil
	},
}
