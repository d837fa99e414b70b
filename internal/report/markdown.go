package report

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/wonny/epscreen/internal/contracts"
)

// Title heads every rendered report
const Title = "Qullamaggie EP Screener (Daily)"

// emptyDiff stands in for an empty added/removed list
const emptyDiff = "—"

// columns is the fixed table layout
var columns = []string{
	"ticker", "overall", "gap_pct", "vol_ratio",
	"fresh_catalyst_score", "institutional_interest_score", "justified_story_score", "rerating_potential",
	"last_date", "price", "error",
}

// RenderMarkdown renders the report as GitHub-flavored Markdown
func RenderMarkdown(rep *contracts.Report) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", Title)
	fmt.Fprintf(&b, "Updated: %s\n\n", rep.GeneratedAt.UTC().Format("2006-01-02 15:04 UTC"))
	fmt.Fprintf(&b, "**Diff vs previous list:** %s\n\n", DiffLine(rep.Diff))

	b.WriteString("| " + strings.Join(columns, " | ") + " |\n")
	b.WriteString("|" + strings.Repeat(" --- |", len(columns)) + "\n")

	for _, rec := range Records(rep.Rows) {
		cells := []string{
			escapeCell(rec.Ticker),
			formatFloat(rec.Overall),
			formatOptional(rec.GapPct),
			formatOptional(rec.VolRatio),
			formatOptional(rec.FreshCatalystScore),
			formatOptional(rec.InstitutionalInterestScore),
			formatOptional(rec.JustifiedStoryScore),
			formatOptional(rec.ReratingPotential),
			rec.LastDate,
			formatOptional(rec.Price),
			escapeCell(rec.Error),
		}
		b.WriteString("| " + strings.Join(cells, " | ") + " |\n")
	}

	return b.String()
}

// DiffLine renders "Added: A, B | Removed: —"
func DiffLine(d contracts.DiffResult) string {
	return fmt.Sprintf("Added: %s | Removed: %s", joinOrDash(d.Added), joinOrDash(d.Removed))
}

func joinOrDash(tickers []string) string {
	if len(tickers) == 0 {
		return emptyDiff
	}
	return strings.Join(tickers, ", ")
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatOptional(v *float64) string {
	if v == nil {
		return ""
	}
	return formatFloat(*v)
}

// cellEscaper backslash-escapes the inline Markdown metacharacters and folds newlines.
// Ticker and error text reach the HTML page verbatim, never as emphasis, links or tags.
var cellEscaper = strings.NewReplacer(
	"\r", " ",
	"\n", " ",
	`\`, `\\`,
	"`", "\\`",
	"*", `\*`,
	"_", `\_`,
	"[", `\[`,
	"]", `\]`,
	"<", `\<`,
	">", `\>`,
	"&", `\&`,
	"~", `\~`,
	"|", `\|`,
)

// escapeCell keeps arbitrary text inside one table cell as literal text
func escapeCell(s string) string {
	return cellEscaper.Replace(s)
}
