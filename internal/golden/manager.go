package golden

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Persisted layout under the golden-references root:
//
//	<root>/<configId>/metadata.json
//	<root>/<configId>/quality-scores.json
//	<root>/<configId>/approval-record.json
//	<root>/<configId>/reference.pdf
//	<root>/<configId>/reference.html   (only when source HTML was supplied)
//	<root>/index.json                  (configId -> referenceId)
const (
	metadataFile      = "metadata.json"
	qualityScoresFile = "quality-scores.json"
	approvalFile      = "approval-record.json"
	referencePDF      = "reference.pdf"
	referenceHTML     = "reference.html"
	indexFile         = "index.json"
)

// Manager exclusively owns the golden-references directory tree. All
// writes are whole-file replacement via temp-file-then-rename; nothing is
// partially mutated in place. The design assumes a single writer per
// configId at a time - concurrent creates for the same configId can race
// on version computation.
type Manager struct {
	root string
	log  *zap.Logger
}

func NewManager(root string, log *zap.Logger) *Manager {
	if log == nil {
		log = zap.NewNop()
	}
	return &Manager{root: root, log: log}
}

// Root returns the golden-references root directory.
func (m *Manager) Root() string { return m.root }

// CreateGoldenReference persists a new version of the golden reference
// for configID. The first approval of a configID creates version "1.0";
// each subsequent approval increments by 0.1. sourceHTML may be empty.
func (m *Manager) CreateGoldenReference(configID, sourcePDF string, scores QualityScores, approvedBy, approvalNotes, sourceHTML string) (*Reference, error) {
	version := "1.0"
	if existing := m.GetGoldenReference(configID); existing != nil {
		version = nextVersion(existing.Metadata.Version)
	}

	dir := filepath.Join(m.root, configID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create reference dir: %w", err)
	}

	pdfPath := filepath.Join(dir, referencePDF)
	if err := copyFile(sourcePDF, pdfPath); err != nil {
		return nil, fmt.Errorf("copy reference pdf: %w", err)
	}

	htmlPath := ""
	if sourceHTML != "" {
		htmlPath = filepath.Join(dir, referenceHTML)
		if err := copyFile(sourceHTML, htmlPath); err != nil {
			return nil, fmt.Errorf("copy reference html: %w", err)
		}
	}

	meta := Metadata{
		ReferenceID:   fmt.Sprintf("golden-%s-%s", configID, uuid.NewString()[:8]),
		Config:        ParseConfigID(configID),
		QualityScores: scores,
		ApprovalInfo: ApprovalInfo{
			ApprovedBy:    approvedBy,
			ApprovedDate:  time.Now().UTC(),
			ApprovalNotes: approvalNotes,
		},
		Version:     version,
		CreatedFrom: sourcePDF,
	}

	if err := writeJSON(filepath.Join(dir, metadataFile), meta); err != nil {
		return nil, fmt.Errorf("write metadata: %w", err)
	}
	if err := writeJSON(filepath.Join(dir, qualityScoresFile), scores); err != nil {
		return nil, fmt.Errorf("write quality scores: %w", err)
	}
	if err := writeJSON(filepath.Join(dir, approvalFile), meta.ApprovalInfo); err != nil {
		return nil, fmt.Errorf("write approval record: %w", err)
	}
	if err := m.updateIndex(func(idx map[string]string) {
		idx[configID] = meta.ReferenceID
	}); err != nil {
		return nil, fmt.Errorf("update index: %w", err)
	}

	m.log.Info("golden reference created",
		zap.String("configId", configID),
		zap.String("referenceId", meta.ReferenceID),
		zap.String("version", version))

	return &Reference{Metadata: meta, PDFPath: pdfPath, HTMLPath: htmlPath}, nil
}

// GetGoldenReference loads the reference for configID. Absent or corrupt
// references are an absence, not an error: the result is nil.
func (m *Manager) GetGoldenReference(configID string) *Reference {
	dir := filepath.Join(m.root, configID)
	data, err := os.ReadFile(filepath.Join(dir, metadataFile))
	if err != nil {
		return nil
	}
	var meta Metadata
	if err := json.Unmarshal(data, &meta); err != nil {
		m.log.Warn("corrupt golden reference metadata",
			zap.String("configId", configID), zap.Error(err))
		return nil
	}

	ref := &Reference{Metadata: meta, PDFPath: filepath.Join(dir, referencePDF)}
	if _, err := os.Stat(filepath.Join(dir, referenceHTML)); err == nil {
		ref.HTMLPath = filepath.Join(dir, referenceHTML)
	}
	return ref
}

// ListGoldenReferences enumerates every golden reference, optionally
// substring-filtered on configId. References that fail to load are
// skipped silently.
func (m *Manager) ListGoldenReferences(filter string) []*Reference {
	entries, err := os.ReadDir(m.root)
	if err != nil {
		return nil
	}

	var refs []*Reference
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		configID := entry.Name()
		if filter != "" && !strings.Contains(configID, filter) {
			continue
		}
		if ref := m.GetGoldenReference(configID); ref != nil {
			refs = append(refs, ref)
		}
	}
	return refs
}

// DeleteGoldenReference removes the reference directory and scrubs the
// configId from the index. Returns false when nothing existed to delete.
func (m *Manager) DeleteGoldenReference(configID string) bool {
	dir := filepath.Join(m.root, configID)
	if _, err := os.Stat(dir); err != nil {
		return false
	}
	if err := os.RemoveAll(dir); err != nil {
		m.log.Warn("failed to remove golden reference",
			zap.String("configId", configID), zap.Error(err))
		return false
	}
	if err := m.updateIndex(func(idx map[string]string) {
		delete(idx, configID)
	}); err != nil {
		m.log.Warn("failed to scrub index entry",
			zap.String("configId", configID), zap.Error(err))
	}
	return true
}

// batchMetadata is the shape expected inside each candidate subdirectory
// of a batch-approved drop directory.
type batchMetadata struct {
	ConfigID      string        `json:"configId"`
	QualityScores QualityScores `json:"qualityScores"`
	ApprovalInfo  ApprovalInfo  `json:"approvalInfo"`
}

// ErrMalformedCandidate marks a batch candidate directory that is
// structurally incomplete: missing or unparseable metadata.json, missing
// approvedBy, or no worksheet.pdf.
var ErrMalformedCandidate = errors.New("malformed batch candidate")

// IngestCandidate creates or updates a golden reference from one
// batch-approved candidate directory.
func (m *Manager) IngestCandidate(dir string) (*Reference, error) {
	meta, ok := readBatchCandidate(dir)
	if !ok {
		return nil, ErrMalformedCandidate
	}

	pdf := filepath.Join(dir, "worksheet.pdf")
	html := filepath.Join(dir, "worksheet.html")
	if _, err := os.Stat(html); err != nil {
		html = ""
	}
	return m.CreateGoldenReference(meta.ConfigID, pdf, meta.QualityScores,
		meta.ApprovalInfo.ApprovedBy, meta.ApprovalInfo.ApprovalNotes, html)
}

// UpdateGoldenSet scans a directory of batch-approved candidates and
// creates a golden reference from every structurally valid one. Invalid
// or malformed entries are skipped without failing the batch. Returns the
// number of references created or updated.
func (m *Manager) UpdateGoldenSet(batchDir string) (int, error) {
	entries, err := os.ReadDir(batchDir)
	if err != nil {
		return 0, fmt.Errorf("read batch dir: %w", err)
	}

	created := 0
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		dir := filepath.Join(batchDir, entry.Name())
		if _, err := m.IngestCandidate(dir); err != nil {
			if errors.Is(err, ErrMalformedCandidate) {
				m.log.Debug("skipping malformed batch candidate", zap.String("dir", dir))
			} else {
				m.log.Warn("batch candidate failed", zap.String("dir", dir), zap.Error(err))
			}
			continue
		}
		created++
	}
	return created, nil
}

func readBatchCandidate(dir string) (batchMetadata, bool) {
	var meta batchMetadata
	data, err := os.ReadFile(filepath.Join(dir, metadataFile))
	if err != nil {
		return meta, false
	}
	if err := json.Unmarshal(data, &meta); err != nil {
		return meta, false
	}
	if meta.ConfigID == "" || meta.ApprovalInfo.ApprovedBy == "" {
		return meta, false
	}
	if _, err := os.Stat(filepath.Join(dir, "worksheet.pdf")); err != nil {
		return meta, false
	}
	return meta, true
}

func (m *Manager) updateIndex(mutate func(map[string]string)) error {
	idx := make(map[string]string)
	path := filepath.Join(m.root, indexFile)
	if data, err := os.ReadFile(path); err == nil {
		// A corrupt index is rebuilt from scratch rather than erroring.
		_ = json.Unmarshal(data, &idx)
	}
	mutate(idx)
	return writeJSON(path, idx)
}

// nextVersion increments a "major.minor" version string by 0.1.
func nextVersion(current string) string {
	v, err := strconv.ParseFloat(current, 64)
	if err != nil {
		return "1.0"
	}
	return fmt.Sprintf("%.1f", v+0.1)
}

// writeJSON replaces the target wholesale: marshal to a temp file in the
// same directory, then rename over the destination. A crash mid-write
// leaves the previous content intact.
func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	return os.Rename(tmpName, path)
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

