package approval

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sheetqa/internal/golden"
)

// testClock is a manually advanced clock shared by a test's workflow so
// submission IDs and review timestamps are deterministic and distinct.
type testClock struct {
	cur time.Time
}

func newTestClock() *testClock {
	return &testClock{cur: time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)}
}

func (c *testClock) now() time.Time { return c.cur }
func (c *testClock) advance(d time.Duration) { c.cur = c.cur.Add(d) }

func newTestWorkflow(t *testing.T) (*Workflow, *golden.Manager, *testClock) {
	t.Helper()
	manager := golden.NewManager(t.TempDir(), nil)
	w := NewWorkflow(t.TempDir(), manager, nil)
	clock := newTestClock()
	w.now = clock.now
	return w, manager, clock
}

func stagePDF(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "candidate.pdf")
	require.NoError(t, os.WriteFile(path, []byte(strings.Repeat("x", 2048)), 0o644))
	return path
}

func submit(t *testing.T, w *Workflow, clock *testClock, configID string, composite float64, by string) *Submission {
	t.Helper()
	clock.advance(time.Minute)
	sub, err := w.SubmitForApproval(configID, stagePDF(t),
		golden.QualityScores{Composite: composite}, by, "candidate for review", "")
	require.NoError(t, err)
	return sub
}

func TestSubmitForApproval(t *testing.T) {
	w, _, clock := newTestWorkflow(t)
	sub := submit(t, w, clock, "year3-addition", 8.2, "alice")

	assert.Equal(t, StatusPending, sub.Status)
	assert.True(t, strings.HasPrefix(sub.SubmissionID, "year3-addition-"))
	assert.Empty(t, sub.ReviewNotes)
	assert.Equal(t, 8.2, sub.QualityScores.Composite)

	// The staged artifact is a copy, not a reference to the source.
	assert.True(t, strings.HasPrefix(sub.PDFPath, w.Root()))
	_, err := os.Stat(sub.PDFPath)
	assert.NoError(t, err)

	loaded := w.GetSubmission(sub.SubmissionID)
	require.NotNil(t, loaded)
	assert.Equal(t, sub.SubmissionID, loaded.SubmissionID)
}

func TestReviewSubmission_ApprovePromotesToGolden(t *testing.T) {
	w, manager, clock := newTestWorkflow(t)
	sub := submit(t, w, clock, "year3-addition", 8.2, "alice")

	clock.advance(time.Hour)
	res := w.ReviewSubmission(sub.SubmissionID, "bob", "approved after checking layout", DecisionApprove)

	require.True(t, res.Success)
	assert.Equal(t, DecisionApprove, res.Decision)
	require.NotNil(t, res.GoldenReference)
	assert.Equal(t, "1.0", res.GoldenReference.Metadata.Version)
	assert.Contains(t, res.Message, "approved as")

	ref := manager.GetGoldenReference("year3-addition")
	require.NotNil(t, ref)
	assert.Equal(t, "bob", ref.Metadata.ApprovalInfo.ApprovedBy)

	// Archive record links the submission to the reference it produced.
	_, err := os.Stat(filepath.Join(w.Root(), "approved", sub.SubmissionID, "archive-record.json"))
	assert.NoError(t, err)

	loaded := w.GetSubmission(sub.SubmissionID)
	require.NotNil(t, loaded)
	assert.Equal(t, StatusApproved, loaded.Status)
	require.Len(t, loaded.ReviewNotes, 1)
	assert.Equal(t, "bob", loaded.ReviewNotes[0].ReviewedBy)
}

func TestReviewSubmission_TerminalStatesAreFinal(t *testing.T) {
	w, _, clock := newTestWorkflow(t)

	for _, decision := range []Decision{DecisionApprove, DecisionReject} {
		sub := submit(t, w, clock, "year1-counting", 8.0, "alice")
		first := w.ReviewSubmission(sub.SubmissionID, "bob", "first decision taken", decision)
		require.True(t, first.Success)

		second := w.ReviewSubmission(sub.SubmissionID, "carol", "too late", DecisionReject)
		assert.False(t, second.Success)
		assert.Equal(t, decisionError, second.Decision)
		assert.Contains(t, second.Message, "already")
	}
}

func TestReviewSubmission_ChangesRequestedAllowsAnotherReview(t *testing.T) {
	w, _, clock := newTestWorkflow(t)
	sub := submit(t, w, clock, "year2-shapes", 7.5, "alice")

	first := w.ReviewSubmission(sub.SubmissionID, "bob", "tighten the spacing", DecisionRequestChanges)
	require.True(t, first.Success)
	assert.Nil(t, first.GoldenReference)

	clock.advance(2 * time.Hour)
	second := w.ReviewSubmission(sub.SubmissionID, "bob", "spacing fixed, approving", DecisionApprove)
	require.True(t, second.Success)
	require.NotNil(t, second.GoldenReference)

	loaded := w.GetSubmission(sub.SubmissionID)
	require.Len(t, loaded.ReviewNotes, 2, "review notes are append-only")
}

func TestReviewSubmission_Failures(t *testing.T) {
	w, _, clock := newTestWorkflow(t)
	sub := submit(t, w, clock, "year1-counting", 8.0, "alice")

	res := w.ReviewSubmission(sub.SubmissionID, "bob", "bad verdict", Decision("maybe"))
	assert.False(t, res.Success)
	assert.Equal(t, decisionError, res.Decision)
	assert.Contains(t, res.Message, "unknown decision")

	res = w.ReviewSubmission("does-not-exist", "bob", "", DecisionApprove)
	assert.False(t, res.Success)
	assert.Contains(t, res.Message, "not found")
}

func TestGetPendingApprovals_FilterAndOrder(t *testing.T) {
	w, _, clock := newTestWorkflow(t)
	older := submit(t, w, clock, "year1-counting", 6.5, "alice")
	middle := submit(t, w, clock, "year2-counting", 8.5, "bob")
	newest := submit(t, w, clock, "year3-shapes", 9.0, "alice")

	w.ReviewSubmission(older.SubmissionID, "carol", "quality too low for the set", DecisionReject)

	all := w.GetPendingApprovals(nil)
	require.Len(t, all, 3)
	assert.Equal(t, newest.SubmissionID, all[0].SubmissionID, "newest first")
	assert.Equal(t, older.SubmissionID, all[2].SubmissionID)

	pending := w.GetPendingApprovals(&Filter{Status: StatusPending})
	assert.Len(t, pending, 2)

	counting := w.GetPendingApprovals(&Filter{ConfigID: "counting"})
	assert.Len(t, counting, 2)

	byAlice := w.GetPendingApprovals(&Filter{SubmittedBy: "alice"})
	assert.Len(t, byAlice, 2)

	highScoring := w.GetPendingApprovals(&Filter{MinComposite: 8.0})
	require.Len(t, highScoring, 2)
	assert.Equal(t, newest.SubmissionID, highScoring[0].SubmissionID)
	assert.Equal(t, middle.SubmissionID, highScoring[1].SubmissionID)
}

func TestBulkApprove_BestEffort(t *testing.T) {
	w, _, clock := newTestWorkflow(t)
	good := submit(t, w, clock, "year1-counting", 8.0, "alice")
	other := submit(t, w, clock, "year2-shapes", 8.5, "alice")

	bulk := w.BulkApprove([]string{good.SubmissionID, "missing-id", other.SubmissionID},
		"bob", "batch approval pass")

	assert.Equal(t, 2, bulk.Approved)
	assert.Equal(t, 1, bulk.Failed)
	assert.True(t, bulk.Results[good.SubmissionID].Success)
	assert.False(t, bulk.Results["missing-id"].Success)
	assert.True(t, bulk.Results[other.SubmissionID].Success)
}

func TestGetApprovalStatistics(t *testing.T) {
	w, _, clock := newTestWorkflow(t)

	first := submit(t, w, clock, "year1-counting", 8.0, "alice")
	clock.advance(2 * time.Hour)
	w.ReviewSubmission(first.SubmissionID, "carol", "looks correct", DecisionApprove)

	second := submit(t, w, clock, "year2-shapes", 6.0, "bob")
	clock.advance(4 * time.Hour)
	w.ReviewSubmission(second.SubmissionID, "carol", "spacing needs work", DecisionRequestChanges)

	submit(t, w, clock, "year3-addition", 7.0, "alice")

	stats := w.GetApprovalStatistics()

	assert.Equal(t, 3, stats.TotalSubmissions)
	assert.Equal(t, 1, stats.ByStatus[StatusApproved])
	assert.Equal(t, 1, stats.ByStatus[StatusChangesRequested])
	assert.Equal(t, 1, stats.ByStatus[StatusPending])
	assert.Equal(t, 2, stats.BySubmitter["alice"])
	assert.Equal(t, 1, stats.BySubmitter["bob"])
	assert.Equal(t, 1, stats.ApprovalsByReviewer["carol"])
	assert.InDelta(t, 7.0, stats.AverageComposite, 1e-9)
	// Two review notes: one 2h after submission, one 4h after.
	assert.InDelta(t, 3.0, stats.AverageReviewHours, 1e-9)
}

func TestSubmitReviewList_EndToEnd(t *testing.T) {
	w, manager, clock := newTestWorkflow(t)

	sub, err := w.SubmitForApproval("year2-fractions", stagePDF(t),
		golden.QualityScores{Composite: 8.6}, "generator", "fractions candidate", "")
	require.NoError(t, err)

	pending := w.GetPendingApprovals(&Filter{Status: StatusPending})
	require.Len(t, pending, 1)
	assert.Equal(t, sub.SubmissionID, pending[0].SubmissionID)

	clock.advance(time.Hour)
	res := w.ReviewSubmission(sub.SubmissionID, "dana", "shading diagrams are clear", DecisionApprove)
	require.True(t, res.Success)

	refs := manager.ListGoldenReferences("year2-fractions")
	require.Len(t, refs, 1)
	assert.Equal(t, "1.0", refs[0].Metadata.Version)
	assert.Equal(t, 8.6, refs[0].Metadata.QualityScores.Composite)
	assert.Equal(t, "fractions", refs[0].Metadata.Config.Topic)

	assert.Empty(t, w.GetPendingApprovals(&Filter{Status: StatusPending}))
}

func TestCleanupOldSubmissions(t *testing.T) {
	w, _, clock := newTestWorkflow(t)

	oldApproved := submit(t, w, clock, "year1-counting", 8.0, "alice")
	w.ReviewSubmission(oldApproved.SubmissionID, "bob", "approved for the set", DecisionApprove)

	oldPending := submit(t, w, clock, "year2-shapes", 8.0, "alice")

	clock.advance(40 * 24 * time.Hour)
	recentRejected := submit(t, w, clock, "year3-addition", 5.0, "alice")
	w.ReviewSubmission(recentRejected.SubmissionID, "bob", "quality below threshold", DecisionReject)

	removed := w.CleanupOldSubmissions(30)
	assert.Equal(t, 1, removed)

	assert.Nil(t, w.GetSubmission(oldApproved.SubmissionID), "old terminal submission removed")
	assert.NotNil(t, w.GetSubmission(oldPending.SubmissionID), "pending is kept regardless of age")
	assert.NotNil(t, w.GetSubmission(recentRejected.SubmissionID), "inside the retention window")
}

func TestCleanupOldSubmissions_ZeroDaysRemovesAllTerminal(t *testing.T) {
	w, _, clock := newTestWorkflow(t)

	sub := submit(t, w, clock, "year1-counting", 8.0, "alice")
	w.ReviewSubmission(sub.SubmissionID, "bob", "approved for the set", DecisionApprove)
	pending := submit(t, w, clock, "year2-shapes", 8.0, "alice")

	clock.advance(time.Second)
	removed := w.CleanupOldSubmissions(0)
	assert.Equal(t, 1, removed)
	assert.Nil(t, w.GetSubmission(sub.SubmissionID))
	assert.NotNil(t, w.GetSubmission(pending.SubmissionID))
}

func TestCleanupOldSubmissions_NegativeUsesDefault(t *testing.T) {
	w, _, clock := newTestWorkflow(t)

	sub := submit(t, w, clock, "year1-counting", 8.0, "alice")
	w.ReviewSubmission(sub.SubmissionID, "bob", "approved for the set", DecisionApprove)

	clock.advance(24 * time.Hour)
	removed := w.CleanupOldSubmissions(-1)
	assert.Equal(t, 0, removed, "one day old is inside the default 30-day window")
	assert.NotNil(t, w.GetSubmission(sub.SubmissionID))
}
