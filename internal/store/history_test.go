package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *HistoryStore {
	t.Helper()
	s, err := OpenHistory(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestRecord_AssignsIDAndTimestamp(t *testing.T) {
	s := openTestStore(t)

	entry, err := s.Record(HistoryEntry{
		InputHash:       HashInput("<html></html>"),
		LayoutScore:     8.0,
		TypographyScore: 7.5,
		SpacingScore:    9.0,
		CombinedScore:   8.1,
		DurationMs:      12,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, entry.ID)
	assert.False(t, entry.CreatedAt.IsZero())
}

func TestRecentAndSummary(t *testing.T) {
	s := openTestStore(t)
	base := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	runs := []struct {
		configID string
		combined float64
	}{
		{"year1-counting", 6.0},
		{"year1-counting", 8.0},
		{"year2-shapes", 9.0},
	}
	for i, run := range runs {
		_, err := s.Record(HistoryEntry{
			ConfigID:      run.configID,
			InputHash:     HashInput(run.configID),
			CombinedScore: run.combined,
			CreatedAt:     base.Add(time.Duration(i) * time.Minute),
		})
		require.NoError(t, err)
	}

	all, err := s.Recent("", 10)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, 9.0, all[0].CombinedScore, "newest first")
	assert.Equal(t, 6.0, all[2].CombinedScore)

	counting, err := s.Recent("year1-counting", 10)
	require.NoError(t, err)
	assert.Len(t, counting, 2)

	limited, err := s.Recent("", 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)

	sum, err := s.Summary("year1-counting")
	require.NoError(t, err)
	assert.Equal(t, 2, sum.TotalRuns)
	assert.InDelta(t, 7.0, sum.AverageCombined, 1e-9)
	assert.Equal(t, 8.0, sum.BestCombined)
	assert.Equal(t, 6.0, sum.WorstCombined)
}

func TestSummary_Empty(t *testing.T) {
	s := openTestStore(t)
	sum, err := s.Summary("")
	require.NoError(t, err)
	assert.Equal(t, 0, sum.TotalRuns)
	assert.Equal(t, 0.0, sum.AverageCombined)
}

func TestHashInput_StableAndDistinct(t *testing.T) {
	a := HashInput("<p>one</p>")
	assert.Equal(t, a, HashInput("<p>one</p>"))
	assert.NotEqual(t, a, HashInput("<p>two</p>"))
	assert.Len(t, a, 16, "first 8 bytes of the digest, hex encoded")
}
