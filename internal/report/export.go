/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

// Package report renders a generated rotation into downloadable documents.
package report

import (
	"bytes"
	"fmt"
	"html"
	"strings"

	"github.com/rs/zerolog"

	"github.com/friendsincode/vidar_rotation/internal/board"
	"github.com/friendsincode/vidar_rotation/internal/rotation"
)

// ExportResult contains rendered report data ready for download.
type ExportResult struct {
	Data        []byte
	Filename    string
	ContentType string
}

// Renderer renders rotation schedules.
type Renderer struct {
	layout rotation.Layout
	logger zerolog.Logger
}

// NewRenderer creates a renderer for a plant layout.
func NewRenderer(layout rotation.Layout, logger zerolog.Logger) *Renderer {
	return &Renderer{
		layout: layout,
		logger: logger.With().Str("component", "report").Logger(),
	}
}

// columnSplit divides the layout's lines into the two print columns: first
// half left, second half right, odd counts weight the left column.
func (r *Renderer) columnSplit() ([]rotation.Line, []rotation.Line) {
	lines := r.layout.Lines
	mid := (len(lines) + 1) / 2
	return lines[:mid], lines[mid:]
}

// RenderHTML produces the print-friendly rotation report. Pairs render as
// labeled cells per line; unavailable stations follow as a highlighted row;
// lines with neither show a placeholder message.
func (r *Renderer) RenderHTML(result *board.Result) (*ExportResult, error) {
	var buf bytes.Buffer

	buf.WriteString(`<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>Station Rotation - ` + html.EscapeString(result.Schedule.Date) + `</title>
    <style>
        @media print {
            @page { size: A4; margin: 10mm; }
            body { margin: 0; -webkit-print-color-adjust: exact; print-color-adjust: exact; }
        }
        body { font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, Helvetica, Arial, sans-serif; background-color: white; color: #1c1c1e; font-size: 10pt; margin: 10mm; line-height: 1.2; }
        .container { max-width: 100%; box-sizing: border-box; }
        .header { text-align: center; margin-bottom: 8mm; padding-bottom: 4mm; border-bottom: 1px solid #d1d1d6; }
        .title { font-size: 16pt; font-weight: bold; margin: 0; text-transform: uppercase; }
        .date { font-size: 10pt; margin: 3mm 0; color: #8e8e93; }
        .columns { display: flex; justify-content: space-between; gap: 8mm; }
        .column { flex: 1; max-width: 48%; }
        .line-group { margin-bottom: 6mm; page-break-inside: avoid; }
        .line-title { font-size: 12pt; font-weight: 600; text-align: center; margin-bottom: 3mm; padding: 2mm 4mm; background-color: #f2f2f7; text-transform: uppercase; border-radius: 4px; }
        .pairs { display: grid; grid-template-columns: repeat(auto-fill, minmax(80px, 1fr)); gap: 3mm; padding: 0 2mm; }
        .pair { padding: 3mm 4mm; border: 1px solid #d1d1d6; border-radius: 4px; font-size: 10pt; text-align: center; background-color: white; }
        .pair.down-station-item { background-color: #fdecea; color: #c0392b; border-color: #c0392b; }
        .empty-message { font-style: italic; color: #8e8e93; text-align: center; padding: 3mm; font-size: 10pt; grid-column: 1 / -1; }
    </style>
</head>
<body>
    <div class="container">
        <div class="header"> <div class="title">Station Rotation</div> <div class="date">Date: ` + html.EscapeString(result.Schedule.Date) + `</div> </div>
        <div class="columns">
`)

	left, right := r.columnSplit()
	buf.WriteString(`            <div class="column">` + "\n")
	r.renderColumn(&buf, left, result)
	buf.WriteString(`            </div>` + "\n")
	buf.WriteString(`            <div class="column">` + "\n")
	r.renderColumn(&buf, right, result)
	buf.WriteString(`            </div>` + "\n")

	buf.WriteString(`        </div>
    </div>
</body>
</html>`)

	r.logger.Debug().
		Str("schedule_id", result.Schedule.ID).
		Int("bytes", buf.Len()).
		Msg("HTML report rendered")

	return &ExportResult{
		Data:        buf.Bytes(),
		Filename:    fmt.Sprintf("station_rotation_%s.html", filenameStamp(result.Schedule.Date)),
		ContentType: "text/html; charset=utf-8",
	}, nil
}

func (r *Renderer) renderColumn(buf *bytes.Buffer, lines []rotation.Line, result *board.Result) {
	for _, line := range lines {
		buf.WriteString(`<div class="line-group"><div class="line-title">Line ` + html.EscapeString(line.Code) + `</div><div class="pairs">`)

		hasContent := false
		for _, pair := range result.Schedule.Pairs[line.Code] {
			buf.WriteString(`<div class="pair">` + pair.String() + `</div>`)
			hasContent = true
		}

		if down := result.Unavailable[line.Code]; len(down) > 0 {
			labels := make([]string, len(down))
			for i, s := range down {
				labels[i] = fmt.Sprintf("%d", s)
			}
			buf.WriteString(`<div class="pair down-station-item">` + strings.Join(labels, ", ") + `</div>`)
			hasContent = true
		}

		if !hasContent {
			buf.WriteString(`<div class="empty-message">No pairs or unavailable stations</div>`)
		}
		buf.WriteString(`</div></div>`)
	}
}

// filenameStamp turns "MM/DD/YYYY" into "MM-DD-YYYY" for use in filenames.
func filenameStamp(date string) string {
	return strings.ReplaceAll(date, "/", "-")
}
