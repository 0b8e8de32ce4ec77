/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package report

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"

	"github.com/friendsincode/vidar_rotation/internal/board"
	"github.com/friendsincode/vidar_rotation/internal/rotation"
)

func testResult(t *testing.T) *board.Result {
	t.Helper()

	svc := board.NewService(rotation.DefaultLayout(), zerolog.Nop())
	svc.SetClock(func() time.Time {
		return time.Date(2026, 8, 30, 6, 0, 0, 0, time.UTC)
	})
	if _, err := svc.Apply(board.ConfigInput{
		Unavailable: map[string][]int{
			"B": {5, 15},
			"N": rotation.DefaultLayout().Stations(),
		},
		Fixed: []int{3, 7},
	}); err != nil {
		t.Fatalf("apply: %v", err)
	}
	result, err := svc.Generate(context.Background())
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	return result
}

func TestRenderHTML(t *testing.T) {
	r := NewRenderer(rotation.DefaultLayout(), zerolog.Nop())
	result := testResult(t)

	out, err := r.RenderHTML(result)
	if err != nil {
		t.Fatalf("render html: %v", err)
	}

	if out.Filename != "station_rotation_08-30-2026.html" {
		t.Fatalf("filename = %q", out.Filename)
	}
	if out.ContentType != "text/html; charset=utf-8" {
		t.Fatalf("content type = %q", out.ContentType)
	}

	html := string(out.Data)
	for _, want := range []string{
		"Date: 08/30/2026",
		"Line B", "Line C", "Line L", "Line M", "Line N", "Line O",
		">3-3<", ">7-7<", // fixed self-pairs on line C
		">1-20<", // full mirror pair on untouched lines
		`down-station-item">5, 15<`,
	} {
		if !strings.Contains(html, want) {
			t.Fatalf("report missing %q", want)
		}
	}

	// Line N is fully down: its unavailable row renders, so no empty message
	// anywhere in this report.
	if strings.Contains(html, "No pairs or unavailable stations") {
		t.Fatalf("unexpected empty message in report")
	}
	if !strings.Contains(html, "1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16, 17, 18, 19, 20") {
		t.Fatalf("line N down stations not rendered")
	}
}

func TestRenderHTMLEmptyLineMessage(t *testing.T) {
	r := NewRenderer(rotation.DefaultLayout(), zerolog.Nop())

	// Hand-built result with one silent line: no pairs, no down stations.
	result := &board.Result{
		Schedule: rotation.Schedule{
			ID:   "test",
			Date: "08/30/2026",
			Pairs: map[string][]rotation.Pair{
				"B": {{Low: 1, High: 20}},
			},
		},
		Unavailable: map[string][]int{},
	}

	out, err := r.RenderHTML(result)
	if err != nil {
		t.Fatalf("render html: %v", err)
	}
	if got := strings.Count(string(out.Data), "No pairs or unavailable stations"); got != 5 {
		t.Fatalf("empty messages = %d, want 5 (every line but B)", got)
	}
}

func TestColumnSplit(t *testing.T) {
	r := NewRenderer(rotation.DefaultLayout(), zerolog.Nop())
	left, right := r.columnSplit()

	if len(left) != 3 || len(right) != 3 {
		t.Fatalf("split = %d/%d, want 3/3", len(left), len(right))
	}
	if left[0].Code != "B" || left[2].Code != "L" {
		t.Fatalf("left column = %v, want B C L", left)
	}
	if right[0].Code != "M" || right[2].Code != "O" {
		t.Fatalf("right column = %v, want M N O", right)
	}
}

func TestRenderXLSX(t *testing.T) {
	r := NewRenderer(rotation.DefaultLayout(), zerolog.Nop())
	result := testResult(t)

	out, err := r.RenderXLSX(result)
	if err != nil {
		t.Fatalf("render xlsx: %v", err)
	}
	if out.Filename != "station_rotation_08-30-2026.xlsx" {
		t.Fatalf("filename = %q", out.Filename)
	}

	f, err := excelize.OpenReader(bytes.NewReader(out.Data))
	if err != nil {
		t.Fatalf("reopen workbook: %v", err)
	}
	defer f.Close()

	title, err := f.GetCellValue("Rotation", "A1")
	if err != nil {
		t.Fatalf("read title: %v", err)
	}
	if title != "Station Rotation" {
		t.Fatalf("title = %q", title)
	}

	// Line B is column A: header then its 9 mirror pairs then the down row.
	header, _ := f.GetCellValue("Rotation", "A4")
	if header != "Line B" {
		t.Fatalf("header = %q, want Line B", header)
	}
	first, _ := f.GetCellValue("Rotation", "A5")
	if first != "1-20" {
		t.Fatalf("first pair = %q, want 1-20", first)
	}
	down, _ := f.GetCellValue("Rotation", "A14")
	if down != "Down: 5, 15" {
		t.Fatalf("down row = %q, want Down: 5, 15", down)
	}

	// Line C is column B: fixed self-pairs lead.
	cFirst, _ := f.GetCellValue("Rotation", "B5")
	if cFirst != "3-3" {
		t.Fatalf("line C first = %q, want 3-3", cFirst)
	}
}
