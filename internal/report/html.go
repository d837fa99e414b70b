package report

import (
	"bytes"
	"fmt"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/wonny/epscreen/internal/contracts"
)

const pageHead = `<!DOCTYPE html>
<html><head><meta charset="utf-8"/><title>EP Screener</title>
<style>body{font-family:Arial,sans-serif;margin:20px}table{border-collapse:collapse;width:100%}th,td{border:1px solid #ddd;padding:8px;text-align:center}th{background:#f7f7f7}</style>
</head><body>
`

const pageFoot = `</body></html>
`

var markdown = goldmark.New(
	goldmark.WithExtensions(extension.Table),
)

// RenderHTML renders the Markdown report into a standalone page
func RenderHTML(rep *contracts.Report) (string, error) {
	var body bytes.Buffer
	if err := markdown.Convert([]byte(RenderMarkdown(rep)), &body); err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}

	return pageHead + body.String() + pageFoot, nil
}
