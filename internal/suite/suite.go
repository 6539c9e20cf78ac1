// Package suite provides a lightweight YAML-defined assessment battery:
// a list of worksheet HTML files with optional minimum-score expectations,
// runnable from the CLI to continuously evaluate generated output.
package suite

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"sheetqa/internal/analysis"
)

// Suite is a collection of assessment cases.
type Suite struct {
	Version int    `yaml:"version"`
	Cases   []Case `yaml:"cases"`
}

// Case is a single worksheet to assess. MinScore, when set, turns the
// case into an expectation; zero means score-only reporting.
type Case struct {
	ID       string  `yaml:"id"`
	HTMLPath string  `yaml:"html"`
	MinScore float64 `yaml:"min_score,omitempty"`
}

// Result captures the outcome of one case. Missing or unreadable files
// fail the case but never abort the suite.
type Result struct {
	CaseID     string  `json:"caseId"`
	Score      float64 `json:"score"`
	Passed     bool    `json:"passed"`
	Error      string  `json:"error,omitempty"`
	DurationMs int64   `json:"durationMs"`
}

// Load reads a YAML suite file from disk. Relative case paths resolve
// against the suite file's directory.
func Load(path string) (*Suite, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var s Suite
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to parse suite YAML: %w", err)
	}
	base := filepath.Dir(path)
	for i := range s.Cases {
		if s.Cases[i].HTMLPath != "" && !filepath.IsAbs(s.Cases[i].HTMLPath) {
			s.Cases[i].HTMLPath = filepath.Join(base, s.Cases[i].HTMLPath)
		}
	}
	return &s, nil
}

// Run assesses every case in order. The assessor's fail-soft scoring
// guarantees each readable file yields a score; only unreadable files
// produce an error result.
func Run(ctx context.Context, s *Suite, assessor *analysis.Assessor) []Result {
	if s == nil || len(s.Cases) == 0 {
		return nil
	}

	results := make([]Result, 0, len(s.Cases))
	for _, c := range s.Cases {
		start := time.Now()
		res := Result{CaseID: c.ID}

		data, err := os.ReadFile(c.HTMLPath)
		if err != nil {
			res.Error = err.Error()
			res.DurationMs = time.Since(start).Milliseconds()
			results = append(results, res)
			continue
		}

		score := assessor.AssessHTML(ctx, string(data))
		res.Score = score.Score
		res.Passed = c.MinScore == 0 || score.Score >= c.MinScore
		res.DurationMs = time.Since(start).Milliseconds()
		results = append(results, res)
	}
	return results
}
