// Package golden manages approved worksheet reference artifacts: versioned
// golden references persisted on disk, validation of the golden set against
// structural and score invariants, and the configId naming scheme that keys
// everything.
package golden

import "time"

// DimensionScore is one quality dimension: a [0,10] score plus an optional
// sub-metric breakdown. Details need not average exactly to the score, but
// a divergence above 1.0 is flagged as a validation warning.
type DimensionScore struct {
	Score   float64            `json:"score"`
	Details map[string]float64 `json:"details,omitempty"`
}

// QualityScores bundles every quality dimension attached to a reference.
// Composite is supplied by the caller's aggregation, not recomputed here;
// visualSimilarity and contentAnalysis are populated by external
// collaborators outside this engine.
type QualityScores struct {
	VisualSimilarity DimensionScore `json:"visualSimilarity"`
	ContentAnalysis  DimensionScore `json:"contentAnalysis"`
	RuleBasedLayout  DimensionScore `json:"ruleBasedLayout"`
	Composite        float64        `json:"composite"`
}

// WorksheetConfig is the structured form of a configId.
type WorksheetConfig struct {
	Layout        string `json:"layout"`
	YearGroup     string `json:"yearGroup"`
	Topic         string `json:"topic"`
	Subtopic      string `json:"subtopic"`
	Difficulty    string `json:"difficulty"`
	QuestionCount int    `json:"questionCount"`
}

// ApprovalInfo records who approved a reference and why.
type ApprovalInfo struct {
	ApprovedBy    string    `json:"approvedBy"`
	ApprovedDate  time.Time `json:"approvedDate"`
	ApprovalNotes string    `json:"approvalNotes"`
}

// Metadata is the persisted descriptor of one golden reference.
type Metadata struct {
	ReferenceID   string          `json:"referenceId"`
	Config        WorksheetConfig `json:"config"`
	QualityScores QualityScores   `json:"qualityScores"`
	ApprovalInfo  ApprovalInfo    `json:"approvalInfo"`
	Version       string          `json:"version"`
	CreatedFrom   string          `json:"createdFrom"`
}

// Reference is a full golden reference: metadata plus the artifact paths.
// PDFPath always exists; HTMLPath is present only when a source HTML was
// supplied at creation.
type Reference struct {
	Metadata Metadata `json:"metadata"`
	PDFPath  string   `json:"pdfPath"`
	HTMLPath string   `json:"htmlPath,omitempty"`
}
