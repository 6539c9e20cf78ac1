package approval

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
)

// CleanupOldSubmissions removes terminal (approved or rejected)
// submissions older than the retention window. Pending and
// changes-requested submissions are never auto-removed regardless of age:
// they represent work still owed a decision. Per-submission deletion
// failures are logged and skipped. Returns the number removed.
func (w *Workflow) CleanupOldSubmissions(olderThanDays int) int {
	if olderThanDays < 0 {
		olderThanDays = DefaultRetentionDays
	}
	cutoff := w.now().Add(-time.Duration(olderThanDays) * 24 * time.Hour)

	removed := 0
	for _, sub := range w.loadAll() {
		if !sub.Status.Terminal() {
			continue
		}
		if !sub.SubmittedAt.Before(cutoff) {
			continue
		}
		dir := filepath.Join(w.root, sub.SubmissionID)
		if err := os.RemoveAll(dir); err != nil {
			w.log.Warn("failed to remove old submission",
				zap.String("submissionId", sub.SubmissionID), zap.Error(err))
			continue
		}
		w.dropIndexEntry(sub.SubmissionID)
		removed++
	}

	if removed > 0 {
		w.log.Info("old submissions cleaned up",
			zap.Int("removed", removed), zap.Int("olderThanDays", olderThanDays))
	}
	return removed
}

func (w *Workflow) dropIndexEntry(submissionID string) {
	idx := make(map[string]indexEntry)
	path := filepath.Join(w.root, indexFile)
	data, err := os.ReadFile(path)
	if err != nil {
		return
	}
	if err := json.Unmarshal(data, &idx); err != nil {
		return
	}
	delete(idx, submissionID)
	if err := writeJSON(path, idx); err != nil {
		w.log.Warn("failed to update approvals index", zap.Error(err))
	}
}
