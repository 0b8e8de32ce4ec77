/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

// Package rotation implements daily station pairing for paired production
// line positions. Operable stations on a line are mirror-paired (lowest with
// highest, working inward); lines that support fixed stations may exempt
// individual stations from pairing and report them as self-paired.
package rotation

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Line describes one production line in the plant.
type Line struct {
	Code string `yaml:"code" json:"code"`
	// SupportsFixedStations marks lines whose operators may keep their own
	// station instead of being paired (reported as "n-n").
	SupportsFixedStations bool `yaml:"supports_fixed_stations" json:"supports_fixed_stations"`
}

// Layout is the fixed universe of lines and station numbers. Every line
// carries the same contiguous station range.
type Layout struct {
	Lines        []Line `yaml:"lines" json:"lines"`
	FirstStation int    `yaml:"first_station" json:"first_station"`
	LastStation  int    `yaml:"last_station" json:"last_station"`
}

// DefaultLayout returns the plant floor layout: lines B, C, L, M, N and O
// with stations 1 through 20. Line C carries the fixed-station capability.
func DefaultLayout() Layout {
	return Layout{
		Lines: []Line{
			{Code: "B"},
			{Code: "C", SupportsFixedStations: true},
			{Code: "L"},
			{Code: "M"},
			{Code: "N"},
			{Code: "O"},
		},
		FirstStation: 1,
		LastStation:  20,
	}
}

// LoadLayout reads a plant layout from a YAML file.
func LoadLayout(path string) (Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Layout{}, fmt.Errorf("read layout file: %w", err)
	}

	var layout Layout
	if err := yaml.Unmarshal(data, &layout); err != nil {
		return Layout{}, fmt.Errorf("parse layout file: %w", err)
	}
	if err := layout.Validate(); err != nil {
		return Layout{}, fmt.Errorf("invalid layout in %s: %w", path, err)
	}
	return layout, nil
}

// Validate checks structural invariants of a layout.
func (l Layout) Validate() error {
	if len(l.Lines) == 0 {
		return fmt.Errorf("layout must declare at least one line")
	}
	seen := make(map[string]struct{}, len(l.Lines))
	for _, line := range l.Lines {
		if line.Code == "" {
			return fmt.Errorf("line code must not be empty")
		}
		if _, dup := seen[line.Code]; dup {
			return fmt.Errorf("duplicate line code %q", line.Code)
		}
		seen[line.Code] = struct{}{}
	}
	if l.FirstStation < 1 {
		return fmt.Errorf("first station must be >= 1, got %d", l.FirstStation)
	}
	if l.LastStation < l.FirstStation {
		return fmt.Errorf("station range %d..%d is empty", l.FirstStation, l.LastStation)
	}
	return nil
}

// Stations returns the full station universe in ascending order.
func (l Layout) Stations() []int {
	stations := make([]int, 0, l.LastStation-l.FirstStation+1)
	for s := l.FirstStation; s <= l.LastStation; s++ {
		stations = append(stations, s)
	}
	return stations
}

// Line looks up a line descriptor by code.
func (l Layout) Line(code string) (Line, bool) {
	for _, line := range l.Lines {
		if line.Code == code {
			return line, true
		}
	}
	return Line{}, false
}

// Contains reports whether a station number is inside the universe.
func (l Layout) Contains(station int) bool {
	return station >= l.FirstStation && station <= l.LastStation
}

// LineCodes returns line codes in layout order.
func (l Layout) LineCodes() []string {
	codes := make([]string, len(l.Lines))
	for i, line := range l.Lines {
		codes[i] = line.Code
	}
	return codes
}
