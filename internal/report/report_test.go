package report

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/epscreen/internal/contracts"
)

var generatedAt = time.Date(2024, 6, 3, 21, 5, 0, 0, time.UTC)

func sampleRows() []contracts.ScoreRow {
	m := contracts.MetricResult{
		GapPct:   0.123456,
		VolRatio: 2.5049,
		Close:    101.5,
		Date:     time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC),
	}
	sub := contracts.SubScores{FreshCatalyst: 4, InstitutionalInterest: 5, JustifiedStory: 4, ReratingPotential: 5}

	return []contracts.ScoreRow{
		contracts.NewScoredRow("NVDA", m, sub, 4.45),
		contracts.NewInsufficientRow("IPO"),
		contracts.NewFailureRow("BAD|X", errors.New("HTTP 500\nupstream")),
	}
}

func sampleReport() *contracts.Report {
	rows := sampleRows()
	diff := contracts.DiffResult{Added: []string{"D", "E"}, Removed: []string{}}
	return New([]string{"NVDA", "IPO", "BAD|X"}, rows, diff, "abc123", generatedAt)
}

func TestNew(t *testing.T) {
	rep := sampleReport()

	assert.Len(t, rep.RunID, 36)
	assert.Equal(t, generatedAt, rep.GeneratedAt)
	assert.Equal(t, "abc123", rep.ConfigHash)
	assert.Equal(t, contracts.ReportStats{Total: 3, Scored: 1, Insufficient: 1, Failed: 1}, rep.Stats)
	assert.NotEqual(t, rep.RunID, sampleReport().RunID)
}

func TestWriteJSON_RecordShapes(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, sampleRows()))

	var records []map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &records))
	require.Len(t, records, 3)

	scored := records[0]
	assert.Equal(t, 12.35, scored["gap_pct"])
	assert.Equal(t, 2.5, scored["vol_ratio"])
	assert.Equal(t, 4.45, scored["overall"])
	assert.Equal(t, "2024-06-03", scored["last_date"])
	assert.Equal(t, 101.5, scored["price"])
	assert.NotContains(t, scored, "error")

	insufficient := records[1]
	assert.Equal(t, 0.0, insufficient["fresh_catalyst_score"])
	assert.Equal(t, 0.0, insufficient["rerating_potential"])
	assert.NotContains(t, insufficient, "gap_pct")
	assert.NotContains(t, insufficient, "vol_ratio")

	failure := records[2]
	assert.Equal(t, 0.0, failure["overall"])
	assert.Equal(t, "HTTP 500\nupstream", failure["error"])
	for _, key := range []string{"gap_pct", "vol_ratio", "fresh_catalyst_score", "institutional_interest_score", "justified_story_score", "rerating_potential"} {
		assert.NotContains(t, failure, key)
	}
}

func TestWriteJSON_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, nil))
	assert.Equal(t, "[]\n", buf.String())
}

func TestDiffLine(t *testing.T) {
	assert.Equal(t, "Added: D, E | Removed: —", DiffLine(contracts.DiffResult{Added: []string{"D", "E"}}))
	assert.Equal(t, "Added: — | Removed: A", DiffLine(contracts.DiffResult{Removed: []string{"A"}}))
}

func TestRenderMarkdown(t *testing.T) {
	md := RenderMarkdown(sampleReport())

	assert.True(t, strings.HasPrefix(md, "# Qullamaggie EP Screener (Daily)\n"))
	assert.Contains(t, md, "Updated: 2024-06-03 21:05 UTC")
	assert.Contains(t, md, "**Diff vs previous list:** Added: D, E | Removed: —")
	assert.Contains(t, md, "| NVDA | 4.45 | 12.35 | 2.5 |")
	assert.Contains(t, md, `| BAD\|X | 0 |`)
	assert.Contains(t, md, "HTTP 500 upstream")
}

func TestRenderHTML(t *testing.T) {
	page, err := RenderHTML(sampleReport())
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(page, "<!DOCTYPE html>"))

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	require.NoError(t, err)

	assert.Equal(t, "EP Screener", doc.Find("title").Text())
	assert.Equal(t, Title, doc.Find("h1").Text())
	assert.Contains(t, doc.Find("body").Text(), "Added: D, E | Removed: —")

	headers := doc.Find("table thead th").Map(func(_ int, s *goquery.Selection) string { return s.Text() })
	assert.Equal(t, columns, headers)

	rows := doc.Find("table tbody tr")
	require.Equal(t, 3, rows.Length())

	first := rows.Eq(0).Find("td")
	assert.Equal(t, "NVDA", first.Eq(0).Text())
	assert.Equal(t, "4.45", first.Eq(1).Text())
	assert.Equal(t, "BAD|X", rows.Eq(2).Find("td").Eq(0).Text())
}

func TestRenderHTML_CellsStayLiteral(t *testing.T) {
	errText := "<b>boom</b> *bold* _em_ [link](http://x) `code` a\\b & ~x~"
	rows := []contracts.ScoreRow{
		contracts.NewFailureRow("A_B*", errors.New(errText)),
	}
	rep := New([]string{"A_B*"}, rows, contracts.DiffResult{}, "abc123", generatedAt)

	md := RenderMarkdown(rep)
	assert.Contains(t, md, `| A\_B\* | 0 |`)

	page, err := RenderHTML(rep)
	require.NoError(t, err)
	assert.NotContains(t, page, "<b>boom</b>")

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	require.NoError(t, err)

	body, err := doc.Find("table tbody").Html()
	require.NoError(t, err)
	for _, tag := range []string{"<b>", "<em>", "<strong>", "<a ", "<code>", "<del>"} {
		assert.NotContains(t, body, tag)
	}

	cells := doc.Find("table tbody tr").First().Find("td")
	assert.Equal(t, "A_B*", cells.Eq(0).Text())
	assert.Equal(t, errText, cells.Last().Text())
}

func TestWriteFiles(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")

	paths, err := WriteFiles(dir, sampleReport())
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, JSONFile), paths.JSON)
	assert.Equal(t, filepath.Join(dir, HTMLFile), paths.HTML)

	data, err := os.ReadFile(paths.JSON)
	require.NoError(t, err)
	assert.True(t, json.Valid(data))

	html, err := os.ReadFile(paths.HTML)
	require.NoError(t, err)
	assert.Contains(t, string(html), "<table>")
}
