package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/wonny/epscreen/internal/contracts"
	"github.com/wonny/epscreen/internal/report"
)

// ═══════════════════════════════════════════════════════════
// Console Formatting Utilities
// 모든 커맨드가 동일한 출력 포맷을 사용하도록 통일
// ═══════════════════════════════════════════════════════════

const (
	singleLine = "───────────────────────────────────────────────────────────"
	doubleLine = "═══════════════════════════════════════════════════════════"
)

// consoleColumns is a narrower view of the report table
var (
	consoleColumns = []string{"#", "Ticker", "Overall", "Gap%", "Vol×", "Fresh", "Inst", "Story", "Rerate", "Last", "Note"}
	consoleWidths  = []int{3, 8, 7, 7, 6, 5, 5, 5, 6, 10, 0}
)

// PrintHeader prints a titled double-line header
func PrintHeader(w io.Writer, title string) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, doubleLine)
	fmt.Fprintf(w, "  %s\n", title)
	fmt.Fprintln(w, singleLine)
}

// PrintReport prints run metadata, the diff line and the ranked table
func PrintReport(w io.Writer, rep *contracts.Report) {
	PrintHeader(w, report.Title)
	PrintKeyValue(w, "Run ID", rep.RunID, 10)
	PrintKeyValue(w, "Updated", rep.GeneratedAt.UTC().Format("2006-01-02 15:04 UTC"), 10)
	PrintKeyValue(w, "Tickers", fmt.Sprintf("%d (scored %d, no data %d, failed %d)",
		rep.Stats.Total, rep.Stats.Scored, rep.Stats.Insufficient, rep.Stats.Failed), 10)
	PrintKeyValue(w, "Diff", report.DiffLine(rep.Diff), 10)
	fmt.Fprintln(w, singleLine)

	PrintTableHeader(w, consoleColumns, consoleWidths)
	for i, rec := range report.Records(rep.Rows) {
		PrintTableRow(w, []string{
			fmt.Sprintf("%d", i+1),
			rec.Ticker,
			fmt.Sprintf("%.2f", rec.Overall),
			optional(rec.GapPct, "%.2f"),
			optional(rec.VolRatio, "%.2f"),
			optional(rec.FreshCatalystScore, "%.1f"),
			optional(rec.InstitutionalInterestScore, "%.1f"),
			optional(rec.JustifiedStoryScore, "%.1f"),
			optional(rec.ReratingPotential, "%.1f"),
			rec.LastDate,
			rec.Error,
		}, consoleWidths)
	}
}

// PrintDiff prints added/removed tickers
func PrintDiff(w io.Writer, d contracts.DiffResult) {
	PrintHeader(w, "Universe Diff")
	if d.IsEmpty() {
		fmt.Fprintln(w, "   unchanged vs previous list")
	}
	PrintKeyValue(w, "Added", joinOrNone(d.Added), 8)
	PrintKeyValue(w, "Removed", joinOrNone(d.Removed), 8)
	fmt.Fprintln(w, singleLine)
}

// PrintTableHeader prints a table header
func PrintTableHeader(w io.Writer, columns []string, widths []int) {
	PrintTableRow(w, columns, widths)

	totalWidth := 0
	for i, width := range widths {
		if width == 0 {
			width = len(columns[i])
		}
		totalWidth += width
		if i < len(widths)-1 {
			totalWidth += 2 // spacing
		}
	}
	fmt.Fprintln(w, strings.Repeat("─", totalWidth))
}

// PrintTableRow prints a table row; a zero width leaves the cell unpadded
func PrintTableRow(w io.Writer, values []string, widths []int) {
	var b strings.Builder
	for i, val := range values {
		fmt.Fprintf(&b, "%-*s", widths[i], val)
		if i < len(values)-1 {
			b.WriteString("  ")
		}
	}
	fmt.Fprintln(w, strings.TrimRight(b.String(), " "))
}

// PrintKeyValue prints key-value pairs
func PrintKeyValue(w io.Writer, key string, value string, keyWidth int) {
	fmt.Fprintf(w, "   %-*s : %s\n", keyWidth, key, value)
}

// PrintSuccess prints a success message
func PrintSuccess(w io.Writer, message string) {
	fmt.Fprintf(w, "✅ %s\n", message)
}

// PrintError prints an error message
func PrintError(w io.Writer, message string) {
	fmt.Fprintf(w, "❌ %s\n", message)
}

// PrintWarning prints a warning message
func PrintWarning(w io.Writer, message string) {
	fmt.Fprintf(w, "⚠️  %s\n", message)
}

func optional(v *float64, format string) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf(format, *v)
}

func joinOrNone(tickers []string) string {
	if len(tickers) == 0 {
		return "(none)"
	}
	return strings.Join(tickers, ", ")
}
