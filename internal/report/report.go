package report

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/wonny/epscreen/internal/contracts"
)

// Output file names
const (
	JSONFile = "ep_report.json"
	HTMLFile = "ep_report.html"
)

// New bundles a run's results
func New(tickers []string, rows []contracts.ScoreRow, diff contracts.DiffResult, configHash string, generatedAt time.Time) *contracts.Report {
	return &contracts.Report{
		RunID:       uuid.NewString(),
		GeneratedAt: generatedAt.UTC(),
		ConfigHash:  configHash,
		Tickers:     tickers,
		Rows:        rows,
		Diff:        diff,
		Stats:       contracts.CountRows(rows),
	}
}

// Paths are the files written by WriteFiles
type Paths struct {
	JSON string
	HTML string
}

// WriteFiles renders both outputs first, then writes them into dir
func WriteFiles(dir string, rep *contracts.Report) (Paths, error) {
	var jsonBuf bytes.Buffer
	if err := WriteJSON(&jsonBuf, rep.Rows); err != nil {
		return Paths{}, err
	}

	html, err := RenderHTML(rep)
	if err != nil {
		return Paths{}, err
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return Paths{}, fmt.Errorf("create output dir: %w", err)
	}

	paths := Paths{
		JSON: filepath.Join(dir, JSONFile),
		HTML: filepath.Join(dir, HTMLFile),
	}

	if err := os.WriteFile(paths.JSON, jsonBuf.Bytes(), 0o644); err != nil {
		return Paths{}, fmt.Errorf("write %s: %w", JSONFile, err)
	}
	if err := os.WriteFile(paths.HTML, []byte(html), 0o644); err != nil {
		return Paths{}, fmt.Errorf("write %s: %w", HTMLFile, err)
	}

	return paths, nil
}
