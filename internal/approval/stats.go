package approval

// Statistics aggregates the review pipeline's throughput and quality.
type Statistics struct {
	TotalSubmissions    int            `json:"totalSubmissions"`
	ByStatus            map[Status]int `json:"byStatus"`
	BySubmitter         map[string]int `json:"bySubmitter"`
	ApprovalsByReviewer map[string]int `json:"approvalsByReviewer"`
	AverageComposite    float64        `json:"averageComposite"`
	AverageReviewHours  float64        `json:"averageReviewHours"`
}

// GetApprovalStatistics aggregates counts by status, submitter, and
// reviewer, the mean composite score, and the mean review latency.
//
// Latency counts one sample per review note, not per submission: a
// submission reviewed twice (changes requested, then approved later)
// contributes two samples, and an unreviewed submission contributes none.
func (w *Workflow) GetApprovalStatistics() Statistics {
	stats := Statistics{
		ByStatus:            make(map[Status]int),
		BySubmitter:         make(map[string]int),
		ApprovalsByReviewer: make(map[string]int),
	}

	subs := w.loadAll()
	stats.TotalSubmissions = len(subs)

	var compositeSum float64
	var latencySum float64
	var latencySamples int

	for _, sub := range subs {
		stats.ByStatus[sub.Status]++
		stats.BySubmitter[sub.SubmittedBy]++
		compositeSum += sub.QualityScores.Composite

		for _, note := range sub.ReviewNotes {
			if note.Decision == DecisionApprove {
				stats.ApprovalsByReviewer[note.ReviewedBy]++
			}
			latencySum += note.ReviewedAt.Sub(sub.SubmittedAt).Hours()
			latencySamples++
		}
	}

	if len(subs) > 0 {
		stats.AverageComposite = compositeSum / float64(len(subs))
	}
	if latencySamples > 0 {
		stats.AverageReviewHours = latencySum / float64(latencySamples)
	}
	return stats
}
