package suite

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sheetqa/internal/analysis"
)

const suiteYAML = `version: 1
cases:
  - id: well-formed
    html: sheets/good.html
    min_score: 5.0
  - id: score-only
    html: sheets/good.html
  - id: missing-file
    html: sheets/absent.html
    min_score: 5.0
`

const goodHTML = `<html><head><style>
body { font-family: Arial, sans-serif; font-size: 16px; line-height: 1.5; }
h1 { font-size: 24px; font-weight: 700; }
</style></head><body style="margin: 16px"><h1>Addition</h1></body></html>`

func writeSuite(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "sheets"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "sheets", "good.html"), []byte(goodHTML), 0o644))

	path := filepath.Join(dir, "suite.yaml")
	require.NoError(t, os.WriteFile(path, []byte(suiteYAML), 0o644))
	return path
}

func TestLoad_ResolvesRelativePaths(t *testing.T) {
	path := writeSuite(t)

	s, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 1, s.Version)
	require.Len(t, s.Cases, 3)

	base := filepath.Dir(path)
	assert.Equal(t, filepath.Join(base, "sheets", "good.html"), s.Cases[0].HTMLPath)
	assert.Equal(t, 5.0, s.Cases[0].MinScore)
	assert.Equal(t, 0.0, s.Cases[1].MinScore)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("cases: {not a list"), 0o644))
	_, err = Load(bad)
	assert.ErrorContains(t, err, "parse suite YAML")
}

func TestRun(t *testing.T) {
	s, err := Load(writeSuite(t))
	require.NoError(t, err)

	results := Run(context.Background(), s, analysis.NewAssessor(nil))
	require.Len(t, results, 3)

	assert.Equal(t, "well-formed", results[0].CaseID)
	assert.True(t, results[0].Passed)
	assert.Greater(t, results[0].Score, 5.0)

	assert.True(t, results[1].Passed, "cases without min_score always pass")

	assert.Equal(t, "missing-file", results[2].CaseID)
	assert.False(t, results[2].Passed)
	assert.NotEmpty(t, results[2].Error)
}

func TestRun_EmptySuite(t *testing.T) {
	assert.Nil(t, Run(context.Background(), nil, analysis.NewAssessor(nil)))
	assert.Nil(t, Run(context.Background(), &Suite{}, analysis.NewAssessor(nil)))
}
