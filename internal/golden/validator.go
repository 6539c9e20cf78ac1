package golden

import (
	"fmt"
	"math"
	"os"
	"time"

	"go.uber.org/zap"
)

// MinQualityScore is the soft quality floor: scores below it generate
// warnings, never hard failures.
const MinQualityScore = 7.0

// Artifact size floors. Anything smaller is treated as a truncated or
// placeholder file, which is a hard failure.
const (
	minPDFBytes  = 1024
	minHTMLBytes = 100
)

// ValidationResult distinguishes hard issues (isValid=false) from soft
// warnings (informational only). Validation never errors: a broken
// reference is a result, not an exception.
type ValidationResult struct {
	IsValid      bool     `json:"isValid"`
	Issues       []string `json:"issues"`
	Warnings     []string `json:"warnings"`
	QualityScore float64  `json:"qualityScore"`
}

// SetValidationResult aggregates per-reference validation with coverage
// analysis across the whole golden set.
type SetValidationResult struct {
	Results       map[string]ValidationResult `json:"results"`
	ValidCount    int                         `json:"validCount"`
	InvalidCount  int                         `json:"invalidCount"`
	OverallHealth float64                     `json:"overallHealth"`
	CoverageGaps  []string                    `json:"coverageGaps"`
}

// Validator audits golden references against structural and score
// invariants. Coverage gaps are warnings only: a golden set can be valid
// yet still have gaps.
type Validator struct {
	log *zap.Logger
	now func() time.Time
}

func NewValidator(log *zap.Logger) *Validator {
	if log == nil {
		log = zap.NewNop()
	}
	return &Validator{log: log, now: time.Now}
}

// ValidateGoldenReference checks one reference for structural
// completeness, file integrity, and score-range consistency.
func (v *Validator) ValidateGoldenReference(ref *Reference) ValidationResult {
	res := ValidationResult{Issues: []string{}, Warnings: []string{}}
	if ref == nil {
		res.Issues = append(res.Issues, "reference is nil")
		return res
	}
	res.QualityScore = ref.Metadata.QualityScores.Composite

	meta := ref.Metadata
	if meta.ReferenceID == "" {
		res.Issues = append(res.Issues, "missing referenceId")
	}
	if meta.Version == "" {
		res.Issues = append(res.Issues, "missing version")
	}
	if meta.CreatedFrom == "" {
		res.Issues = append(res.Issues, "missing createdFrom source path")
	}
	if meta.Config.YearGroup == "" || meta.Config.Topic == "" {
		res.Issues = append(res.Issues, "incomplete config: year group and topic are required")
	}
	if meta.Config.QuestionCount < 1 || meta.Config.QuestionCount > 20 {
		res.Issues = append(res.Issues,
			fmt.Sprintf("question count %d outside valid range 1-20", meta.Config.QuestionCount))
	}

	v.checkArtifacts(ref, &res)
	v.checkScores(meta.QualityScores, &res)
	v.checkApproval(meta.ApprovalInfo, &res)

	res.IsValid = len(res.Issues) == 0
	return res
}

func (v *Validator) checkArtifacts(ref *Reference, res *ValidationResult) {
	info, err := os.Stat(ref.PDFPath)
	switch {
	case err != nil:
		res.Issues = append(res.Issues, fmt.Sprintf("reference PDF missing: %s", ref.PDFPath))
	case info.Size() < minPDFBytes:
		res.Issues = append(res.Issues,
			fmt.Sprintf("reference PDF suspiciously small (%d bytes, minimum %d)", info.Size(), minPDFBytes))
	}

	if ref.HTMLPath == "" {
		return
	}
	info, err = os.Stat(ref.HTMLPath)
	switch {
	case err != nil:
		res.Issues = append(res.Issues, fmt.Sprintf("reference HTML missing: %s", ref.HTMLPath))
	case info.Size() < minHTMLBytes:
		res.Issues = append(res.Issues,
			fmt.Sprintf("reference HTML suspiciously small (%d bytes, minimum %d)", info.Size(), minHTMLBytes))
	}
}

func (v *Validator) checkScores(scores QualityScores, res *ValidationResult) {
	dims := []struct {
		name string
		dim  DimensionScore
	}{
		{"visualSimilarity", scores.VisualSimilarity},
		{"contentAnalysis", scores.ContentAnalysis},
		{"ruleBasedLayout", scores.RuleBasedLayout},
	}

	var sum float64
	for _, d := range dims {
		if d.dim.Score < 0 || d.dim.Score > 10 {
			res.Issues = append(res.Issues,
				fmt.Sprintf("%s score %.1f outside 0-10 range", d.name, d.dim.Score))
		}
		if d.dim.Score < MinQualityScore {
			res.Warnings = append(res.Warnings,
				fmt.Sprintf("%s score %.1f below quality threshold %.1f", d.name, d.dim.Score, MinQualityScore))
		}
		if len(d.dim.Details) == 0 {
			res.Warnings = append(res.Warnings,
				fmt.Sprintf("%s has no details breakdown", d.name))
		}
		sum += d.dim.Score
	}

	if scores.Composite < 0 || scores.Composite > 10 {
		res.Issues = append(res.Issues,
			fmt.Sprintf("composite score %.1f outside 0-10 range", scores.Composite))
	}
	if scores.Composite < MinQualityScore {
		res.Warnings = append(res.Warnings,
			fmt.Sprintf("composite score %.1f below quality threshold %.1f", scores.Composite, MinQualityScore))
	}
	if divergence := math.Abs(scores.Composite - sum/3); divergence > 1.0 {
		res.Warnings = append(res.Warnings,
			fmt.Sprintf("composite diverges from dimension mean by %.1f", divergence))
	}
}

func (v *Validator) checkApproval(info ApprovalInfo, res *ValidationResult) {
	if info.ApprovedBy == "" {
		res.Issues = append(res.Issues, "missing approvedBy")
	}
	switch {
	case info.ApprovedDate.IsZero():
		res.Issues = append(res.Issues, "missing approvedDate")
	case info.ApprovedDate.After(v.now()):
		res.Issues = append(res.Issues,
			fmt.Sprintf("approvedDate %s is in the future", info.ApprovedDate.Format(time.RFC3339)))
	}
	switch {
	case info.ApprovalNotes == "":
		res.Issues = append(res.Issues, "missing approvalNotes")
	case len(info.ApprovalNotes) < 10:
		res.Issues = append(res.Issues, "approval notes too short (minimum 10 characters)")
	}
}

// Expected coverage across the golden set. Gaps here are soft signals.
var (
	expectedYearGroups   = []string{"year1", "year2", "year3", "year4", "year5", "year6"}
	expectedDifficulties = []string{"easy", "average", "hard"}
	minTopicDiversity    = 3
)

// ValidateGoldenReferenceSet validates each reference independently and
// audits curriculum coverage across the set.
func (v *Validator) ValidateGoldenReferenceSet(refs []*Reference) SetValidationResult {
	set := SetValidationResult{
		Results:      make(map[string]ValidationResult, len(refs)),
		CoverageGaps: []string{},
	}

	years := make(map[string]bool)
	difficulties := make(map[string]bool)
	topics := make(map[string]bool)

	for _, ref := range refs {
		res := v.ValidateGoldenReference(ref)
		key := ref.Metadata.ReferenceID
		if key == "" {
			key = fmt.Sprintf("unidentified-%d", len(set.Results))
		}
		set.Results[key] = res
		if res.IsValid {
			set.ValidCount++
		} else {
			set.InvalidCount++
		}
		years[ref.Metadata.Config.YearGroup] = true
		difficulties[ref.Metadata.Config.Difficulty] = true
		topics[ref.Metadata.Config.Topic] = true
	}

	if total := len(refs); total > 0 {
		set.OverallHealth = float64(set.ValidCount) / float64(total)
	}

	for _, yg := range expectedYearGroups {
		if !years[yg] {
			set.CoverageGaps = append(set.CoverageGaps, fmt.Sprintf("no golden references for %s", yg))
		}
	}
	for _, d := range expectedDifficulties {
		if !difficulties[d] {
			set.CoverageGaps = append(set.CoverageGaps, fmt.Sprintf("no golden references at %s difficulty", d))
		}
	}
	if len(topics) < minTopicDiversity && len(refs) > 0 {
		set.CoverageGaps = append(set.CoverageGaps,
			fmt.Sprintf("low topic diversity: %d distinct topics (want at least %d)", len(topics), minTopicDiversity))
	}
	return set
}
