/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package report

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/friendsincode/vidar_rotation/internal/board"
)

const xlsxSheet = "Rotation"

// RenderXLSX produces the rotation as an Excel workbook: one column block
// per line with pair labels listed downward, down stations appended under
// each block.
func (r *Renderer) RenderXLSX(result *board.Result) (*ExportResult, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	index, err := f.NewSheet(xlsxSheet)
	if err != nil {
		return nil, fmt.Errorf("create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("drop default sheet: %w", err)
	}

	titleStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true, Size: 14}})
	if err != nil {
		return nil, fmt.Errorf("create title style: %w", err)
	}
	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("create header style: %w", err)
	}
	downStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Color: "C0392B"}})
	if err != nil {
		return nil, fmt.Errorf("create down style: %w", err)
	}

	if err := f.SetCellValue(xlsxSheet, "A1", "Station Rotation"); err != nil {
		return nil, fmt.Errorf("write title: %w", err)
	}
	if err := f.SetCellStyle(xlsxSheet, "A1", "A1", titleStyle); err != nil {
		return nil, fmt.Errorf("style title: %w", err)
	}
	if err := f.SetCellValue(xlsxSheet, "A2", "Date: "+result.Schedule.Date); err != nil {
		return nil, fmt.Errorf("write date: %w", err)
	}

	const headerRow = 4
	for col, line := range r.layout.Lines {
		cell, err := excelize.CoordinatesToCellName(col+1, headerRow)
		if err != nil {
			return nil, fmt.Errorf("header cell: %w", err)
		}
		if err := f.SetCellValue(xlsxSheet, cell, "Line "+line.Code); err != nil {
			return nil, fmt.Errorf("write header: %w", err)
		}
		if err := f.SetCellStyle(xlsxSheet, cell, cell, headerStyle); err != nil {
			return nil, fmt.Errorf("style header: %w", err)
		}

		row := headerRow + 1
		for _, pair := range result.Schedule.Pairs[line.Code] {
			cell, err := excelize.CoordinatesToCellName(col+1, row)
			if err != nil {
				return nil, fmt.Errorf("pair cell: %w", err)
			}
			if err := f.SetCellValue(xlsxSheet, cell, pair.String()); err != nil {
				return nil, fmt.Errorf("write pair: %w", err)
			}
			row++
		}

		if down := result.Unavailable[line.Code]; len(down) > 0 {
			labels := make([]string, len(down))
			for i, s := range down {
				labels[i] = fmt.Sprintf("%d", s)
			}
			cell, err := excelize.CoordinatesToCellName(col+1, row)
			if err != nil {
				return nil, fmt.Errorf("down cell: %w", err)
			}
			if err := f.SetCellValue(xlsxSheet, cell, "Down: "+strings.Join(labels, ", ")); err != nil {
				return nil, fmt.Errorf("write down stations: %w", err)
			}
			if err := f.SetCellStyle(xlsxSheet, cell, cell, downStyle); err != nil {
				return nil, fmt.Errorf("style down stations: %w", err)
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("serialize workbook: %w", err)
	}

	r.logger.Debug().
		Str("schedule_id", result.Schedule.ID).
		Int("bytes", buf.Len()).
		Msg("XLSX report rendered")

	return &ExportResult{
		Data:        buf.Bytes(),
		Filename:    fmt.Sprintf("station_rotation_%s.xlsx", filenameStamp(result.Schedule.Date)),
		ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	}, nil
}
