/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/friendsincode/vidar_rotation/internal/board"
	"github.com/friendsincode/vidar_rotation/internal/report"
	"github.com/friendsincode/vidar_rotation/internal/rotation"
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render today's rotation report to a file",
	Long:  "Compute the rotation schedule from a day configuration file and write an HTML or XLSX report without starting the server",
	RunE:  runRender,
}

var (
	renderLayoutPath string
	renderConfigPath string
	renderFormat     string
	renderOutPath    string
)

func init() {
	rootCmd.AddCommand(renderCmd)

	renderCmd.Flags().StringVar(&renderLayoutPath, "layout", "", "Path to a YAML layout file (default: built-in layout)")
	renderCmd.Flags().StringVar(&renderConfigPath, "config", "", "Path to a YAML day configuration file (default: no down or fixed stations)")
	renderCmd.Flags().StringVar(&renderFormat, "format", "html", "Report format: html or xlsx")
	renderCmd.Flags().StringVar(&renderOutPath, "out", "", "Output path (default: the report's own filename in the current directory)")
}

func runRender(cmd *cobra.Command, args []string) error {
	if err := loadConfig(); err != nil {
		return err
	}

	layout := rotation.DefaultLayout()
	if renderLayoutPath != "" {
		var err error
		layout, err = rotation.LoadLayout(renderLayoutPath)
		if err != nil {
			return fmt.Errorf("load layout: %w", err)
		}
	}

	boardSvc := board.NewService(layout, logger)

	if renderConfigPath != "" {
		raw, err := os.ReadFile(renderConfigPath)
		if err != nil {
			return fmt.Errorf("read day config: %w", err)
		}
		var input board.ConfigInput
		if err := yaml.Unmarshal(raw, &input); err != nil {
			return fmt.Errorf("parse day config: %w", err)
		}
		if _, err := boardSvc.Apply(input); err != nil {
			return fmt.Errorf("apply day config: %w", err)
		}
	}

	result, err := boardSvc.Generate(context.Background())
	if err != nil {
		return fmt.Errorf("generate schedule: %w", err)
	}

	renderer := report.NewRenderer(layout, logger)

	var out *report.ExportResult
	switch renderFormat {
	case "html":
		out, err = renderer.RenderHTML(result)
	case "xlsx":
		out, err = renderer.RenderXLSX(result)
	default:
		return fmt.Errorf("unsupported format %q (want html or xlsx)", renderFormat)
	}
	if err != nil {
		return fmt.Errorf("render report: %w", err)
	}

	path := renderOutPath
	if path == "" {
		path = out.Filename
	}
	if err := os.WriteFile(path, out.Data, 0o644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	logger.Info().
		Str("path", path).
		Str("format", renderFormat).
		Int("bytes", len(out.Data)).
		Msg("report written")
	return nil
}
