// Package approval implements the human-in-the-loop review pipeline for
// candidate worksheet artifacts. Submissions are staged on disk, reviewed
// through a small state machine, and promoted into the golden-reference
// set on approval.
//
// State machine: pending -> {approved, rejected, changes-requested}.
// approved and rejected are terminal. changes-requested returns the work
// to the submitter but models no resubmission transition - a revised
// candidate is filed as a brand-new submission.
package approval

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"sheetqa/internal/golden"
)

// Status is the lifecycle state of a submission.
type Status string

const (
	StatusPending          Status = "pending"
	StatusApproved         Status = "approved"
	StatusRejected         Status = "rejected"
	StatusChangesRequested Status = "changes-requested"
)

// Terminal reports whether the status permits no further reviews.
func (s Status) Terminal() bool {
	return s == StatusApproved || s == StatusRejected
}

// Decision is a reviewer's verdict on a submission.
type Decision string

const (
	DecisionApprove        Decision = "approve"
	DecisionReject         Decision = "reject"
	DecisionRequestChanges Decision = "request-changes"
	decisionError          Decision = "error"
)

func (d Decision) status() (Status, bool) {
	switch d {
	case DecisionApprove:
		return StatusApproved, true
	case DecisionReject:
		return StatusRejected, true
	case DecisionRequestChanges:
		return StatusChangesRequested, true
	}
	return "", false
}

// ReviewNote is one review action. Notes are append-only.
type ReviewNote struct {
	ReviewedBy string    `json:"reviewedBy"`
	ReviewedAt time.Time `json:"reviewedAt"`
	Decision   Decision  `json:"decision"`
	Notes      string    `json:"notes"`
}

// Submission is a candidate artifact awaiting review.
type Submission struct {
	SubmissionID    string               `json:"submissionId"`
	ConfigID        string               `json:"configId"`
	SubmittedBy     string               `json:"submittedBy"`
	SubmittedAt     time.Time            `json:"submittedAt"`
	SubmissionNotes string               `json:"submissionNotes"`
	QualityScores   golden.QualityScores `json:"qualityScores"`
	Status          Status               `json:"status"`
	PDFPath         string               `json:"pdfPath"`
	HTMLPath        string               `json:"htmlPath,omitempty"`
	ReviewNotes     []ReviewNote         `json:"reviewNotes"`
}

// Filter narrows GetPendingApprovals results. Zero values are ignored.
type Filter struct {
	Status       Status
	ConfigID     string // substring match
	SubmittedBy  string // exact match
	MinComposite float64
}

// ReviewResult is the structured outcome of a review action. Internal
// failures are converted into it rather than propagated.
type ReviewResult struct {
	Success         bool              `json:"success"`
	Decision        Decision          `json:"decision"`
	GoldenReference *golden.Reference `json:"goldenReference,omitempty"`
	Message         string            `json:"message"`
}

// archiveRecord links an approved submission to the golden reference it
// produced. Written under approved/<submissionId>/.
type archiveRecord struct {
	SubmissionID string    `json:"submissionId"`
	ConfigID     string    `json:"configId"`
	ReferenceID  string    `json:"referenceId"`
	Version      string    `json:"version"`
	ArchivedAt   time.Time `json:"archivedAt"`
}

// indexEntry is the summary kept in <root>/index.json per submission.
type indexEntry struct {
	ConfigID    string    `json:"configId"`
	Status      Status    `json:"status"`
	SubmittedAt time.Time `json:"submittedAt"`
	Composite   float64   `json:"composite"`
}

const (
	submissionFile = "submission.json"
	worksheetPDF   = "worksheet.pdf"
	worksheetHTML  = "worksheet.html"
	indexFile      = "index.json"
	approvedDir    = "approved"
)

// DefaultRetentionDays is how long terminal submissions are kept before
// cleanup may remove them.
const DefaultRetentionDays = 30

// Workflow stages submissions under a pending-approvals root and promotes
// approved ones through the golden reference manager. Approval is the
// only path by which a submission becomes a golden reference; the
// workflow never mutates the manager's tree directly.
type Workflow struct {
	root    string
	manager *golden.Manager
	log     *zap.Logger
	now     func() time.Time
}

func NewWorkflow(root string, manager *golden.Manager, log *zap.Logger) *Workflow {
	if log == nil {
		log = zap.NewNop()
	}
	return &Workflow{root: root, manager: manager, log: log, now: time.Now}
}

// Root returns the pending-approvals root directory.
func (w *Workflow) Root() string { return w.root }

// SubmitForApproval stages a candidate: copies its artifacts into a
// dedicated submission directory, writes submission.json, and records a
// summary in the index. The fresh submission is pending with no reviews.
func (w *Workflow) SubmitForApproval(configID, sourcePDF string, scores golden.QualityScores, submittedBy, notes, sourceHTML string) (*Submission, error) {
	submittedAt := w.now().UTC()
	sub := &Submission{
		SubmissionID:    fmt.Sprintf("%s-%d", configID, submittedAt.UnixMilli()),
		ConfigID:        configID,
		SubmittedBy:     submittedBy,
		SubmittedAt:     submittedAt,
		SubmissionNotes: notes,
		QualityScores:   scores,
		Status:          StatusPending,
		ReviewNotes:     []ReviewNote{},
	}

	dir := filepath.Join(w.root, sub.SubmissionID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create submission dir: %w", err)
	}

	sub.PDFPath = filepath.Join(dir, worksheetPDF)
	if err := copyFile(sourcePDF, sub.PDFPath); err != nil {
		return nil, fmt.Errorf("stage worksheet pdf: %w", err)
	}
	if sourceHTML != "" {
		sub.HTMLPath = filepath.Join(dir, worksheetHTML)
		if err := copyFile(sourceHTML, sub.HTMLPath); err != nil {
			return nil, fmt.Errorf("stage worksheet html: %w", err)
		}
	}

	if err := w.saveSubmission(sub); err != nil {
		return nil, err
	}
	if err := w.updateIndex(sub); err != nil {
		return nil, err
	}

	w.log.Info("submission staged",
		zap.String("submissionId", sub.SubmissionID),
		zap.String("configId", configID),
		zap.Float64("composite", scores.Composite))
	return sub, nil
}

// GetPendingApprovals enumerates submissions newest-first, applying the
// optional filter. Unreadable or corrupt submissions are skipped.
func (w *Workflow) GetPendingApprovals(filter *Filter) []*Submission {
	subs := w.loadAll()

	if filter != nil {
		filtered := subs[:0]
		for _, sub := range subs {
			if filter.Status != "" && sub.Status != filter.Status {
				continue
			}
			if filter.ConfigID != "" && !strings.Contains(sub.ConfigID, filter.ConfigID) {
				continue
			}
			if filter.SubmittedBy != "" && sub.SubmittedBy != filter.SubmittedBy {
				continue
			}
			if filter.MinComposite > 0 && sub.QualityScores.Composite < filter.MinComposite {
				continue
			}
			filtered = append(filtered, sub)
		}
		subs = filtered
	}

	sort.Slice(subs, func(i, j int) bool {
		return subs[i].SubmittedAt.After(subs[j].SubmittedAt)
	})
	return subs
}

// GetSubmission loads one submission; nil when absent or corrupt.
func (w *Workflow) GetSubmission(submissionID string) *Submission {
	data, err := os.ReadFile(filepath.Join(w.root, submissionID, submissionFile))
	if err != nil {
		return nil
	}
	var sub Submission
	if err := json.Unmarshal(data, &sub); err != nil {
		w.log.Warn("corrupt submission file",
			zap.String("submissionId", submissionID), zap.Error(err))
		return nil
	}
	return &sub
}

// ReviewSubmission appends a review note, advances the state machine, and
// on approval promotes the submission into the golden reference set and
// archives it. Internal failures are returned as a structured result.
func (w *Workflow) ReviewSubmission(submissionID, reviewedBy, notes string, decision Decision) ReviewResult {
	res, err := w.review(submissionID, reviewedBy, notes, decision)
	if err != nil {
		w.log.Error("review failed",
			zap.String("submissionId", submissionID), zap.Error(err))
		return ReviewResult{Success: false, Decision: decisionError, Message: err.Error()}
	}
	return res
}

func (w *Workflow) review(submissionID, reviewedBy, notes string, decision Decision) (ReviewResult, error) {
	newStatus, ok := decision.status()
	if !ok {
		return ReviewResult{}, fmt.Errorf("unknown decision %q", decision)
	}

	sub := w.GetSubmission(submissionID)
	if sub == nil {
		return ReviewResult{}, fmt.Errorf("submission %s not found", submissionID)
	}
	if sub.Status.Terminal() {
		return ReviewResult{}, fmt.Errorf("submission %s already %s", submissionID, sub.Status)
	}

	sub.ReviewNotes = append(sub.ReviewNotes, ReviewNote{
		ReviewedBy: reviewedBy,
		ReviewedAt: w.now().UTC(),
		Decision:   decision,
		Notes:      notes,
	})
	sub.Status = newStatus

	if err := w.saveSubmission(sub); err != nil {
		return ReviewResult{}, err
	}
	if err := w.updateIndex(sub); err != nil {
		return ReviewResult{}, err
	}

	res := ReviewResult{
		Success:  true,
		Decision: decision,
		Message:  fmt.Sprintf("submission %s marked %s", submissionID, newStatus),
	}

	if decision != DecisionApprove {
		return res, nil
	}

	ref, err := w.manager.CreateGoldenReference(
		sub.ConfigID, sub.PDFPath, sub.QualityScores, reviewedBy, notes, sub.HTMLPath)
	if err != nil {
		return ReviewResult{}, fmt.Errorf("promote to golden reference: %w", err)
	}
	if err := w.archive(sub, ref); err != nil {
		return ReviewResult{}, fmt.Errorf("archive approved submission: %w", err)
	}

	res.GoldenReference = ref
	res.Message = fmt.Sprintf("submission %s approved as %s v%s",
		submissionID, ref.Metadata.ReferenceID, ref.Metadata.Version)
	return res, nil
}

func (w *Workflow) archive(sub *Submission, ref *golden.Reference) error {
	dir := filepath.Join(w.root, approvedDir, sub.SubmissionID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	return writeJSON(filepath.Join(dir, "archive-record.json"), archiveRecord{
		SubmissionID: sub.SubmissionID,
		ConfigID:     sub.ConfigID,
		ReferenceID:  ref.Metadata.ReferenceID,
		Version:      ref.Metadata.Version,
		ArchivedAt:   w.now().UTC(),
	})
}

// BulkResult aggregates a best-effort batch of approvals.
type BulkResult struct {
	Results  map[string]ReviewResult `json:"results"`
	Approved int                     `json:"approved"`
	Failed   int                     `json:"failed"`
}

// BulkApprove approves each submission in turn. One failure does not
// abort the remainder.
func (w *Workflow) BulkApprove(submissionIDs []string, approvedBy, notes string) BulkResult {
	bulk := BulkResult{Results: make(map[string]ReviewResult, len(submissionIDs))}
	for _, id := range submissionIDs {
		res := w.ReviewSubmission(id, approvedBy, notes, DecisionApprove)
		bulk.Results[id] = res
		if res.Success {
			bulk.Approved++
		} else {
			bulk.Failed++
		}
	}
	return bulk
}

func (w *Workflow) loadAll() []*Submission {
	entries, err := os.ReadDir(w.root)
	if err != nil {
		return nil
	}
	var subs []*Submission
	for _, entry := range entries {
		if !entry.IsDir() || entry.Name() == approvedDir {
			continue
		}
		if sub := w.GetSubmission(entry.Name()); sub != nil {
			subs = append(subs, sub)
		}
	}
	return subs
}

func (w *Workflow) saveSubmission(sub *Submission) error {
	path := filepath.Join(w.root, sub.SubmissionID, submissionFile)
	if err := writeJSON(path, sub); err != nil {
		return fmt.Errorf("write submission: %w", err)
	}
	return nil
}

func (w *Workflow) updateIndex(sub *Submission) error {
	idx := make(map[string]indexEntry)
	path := filepath.Join(w.root, indexFile)
	if data, err := os.ReadFile(path); err == nil {
		_ = json.Unmarshal(data, &idx)
	}
	idx[sub.SubmissionID] = indexEntry{
		ConfigID:    sub.ConfigID,
		Status:      sub.Status,
		SubmittedAt: sub.SubmittedAt,
		Composite:   sub.QualityScores.Composite,
	}
	if err := writeJSON(path, idx); err != nil {
		return fmt.Errorf("update approvals index: %w", err)
	}
	return nil
}
