/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package board

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/friendsincode/vidar_rotation/internal/rotation"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	return NewService(rotation.DefaultLayout(), zerolog.Nop())
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestApplyStoresNormalizedConfig(t *testing.T) {
	svc := newTestService(t)
	svc.SetClock(fixedClock(time.Date(2026, 8, 30, 7, 0, 0, 0, time.UTC)))

	cfg, err := svc.Apply(ConfigInput{
		Unavailable: map[string][]int{"B": {15, 5, 5}},
		Fixed:       []int{7, 3, 7},
	})
	if err != nil {
		t.Fatalf("apply: %v", err)
	}

	if cfg.Day != "2026-08-30" {
		t.Fatalf("day = %q, want 2026-08-30", cfg.Day)
	}
	if got := cfg.Unavailable["B"]; !reflect.DeepEqual(got, []int{5, 15}) {
		t.Fatalf("unavailable B = %v, want [5 15]", got)
	}
	if got := cfg.Fixed["C"]; !reflect.DeepEqual(got, []int{3, 7}) {
		t.Fatalf("fixed C = %v, want [3 7]", got)
	}
	if _, ok := cfg.Fixed["B"]; ok {
		t.Fatalf("fixed set stored for line B, which does not support fixed stations")
	}
}

func TestApplyRejectsFixedUnavailableOverlap(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.Apply(ConfigInput{
		Unavailable: map[string][]int{"C": {5}},
		Fixed:       []int{5},
	})
	if err == nil {
		t.Fatalf("expected conflict error, got nil")
	}

	var conflict *rotation.ConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("error = %v, want *rotation.ConflictError", err)
	}
	if conflict.Line != "C" {
		t.Fatalf("conflict line = %q, want C", conflict.Line)
	}
	if !reflect.DeepEqual(conflict.Stations, []int{5}) {
		t.Fatalf("conflict stations = %v, want [5]", conflict.Stations)
	}

	// Nothing was stored: today's config remains empty.
	if got := svc.Current().Unavailable["C"]; len(got) != 0 {
		t.Fatalf("unavailable C = %v after rejected apply, want empty", got)
	}
}

func TestApplyRejectsUnknownLine(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.Apply(ConfigInput{
		Unavailable: map[string][]int{"Z": {1}},
	})
	if err == nil {
		t.Fatalf("expected unknown line error, got nil")
	}
}

func TestApplyReplacesWholeConfig(t *testing.T) {
	svc := newTestService(t)

	if _, err := svc.Apply(ConfigInput{Unavailable: map[string][]int{"B": {1, 2}}}); err != nil {
		t.Fatalf("first apply: %v", err)
	}
	if _, err := svc.Apply(ConfigInput{Unavailable: map[string][]int{"L": {9}}}); err != nil {
		t.Fatalf("second apply: %v", err)
	}

	cfg := svc.Current()
	if got := cfg.Unavailable["B"]; len(got) != 0 {
		t.Fatalf("unavailable B = %v, want empty: config must be replaced, not merged", got)
	}
	if got := cfg.Unavailable["L"]; !reflect.DeepEqual(got, []int{9}) {
		t.Fatalf("unavailable L = %v, want [9]", got)
	}
}

func TestCurrentDiscardsStaleDay(t *testing.T) {
	svc := newTestService(t)

	yesterday := time.Date(2026, 8, 29, 14, 0, 0, 0, time.UTC)
	svc.SetClock(fixedClock(yesterday))
	if _, err := svc.Apply(ConfigInput{Unavailable: map[string][]int{"B": {5}}}); err != nil {
		t.Fatalf("apply: %v", err)
	}

	today := time.Date(2026, 8, 30, 6, 0, 0, 0, time.UTC)
	svc.SetClock(fixedClock(today))

	cfg := svc.Current()
	if cfg.Day != "2026-08-30" {
		t.Fatalf("day = %q, want 2026-08-30", cfg.Day)
	}
	if got := cfg.Unavailable["B"]; len(got) != 0 {
		t.Fatalf("unavailable B = %v, want empty after day rollover", got)
	}
}

func TestGenerateUsesActiveConfig(t *testing.T) {
	svc := newTestService(t)
	now := time.Date(2026, 8, 30, 6, 30, 0, 0, time.UTC)
	svc.SetClock(fixedClock(now))

	if _, err := svc.Apply(ConfigInput{
		Unavailable: map[string][]int{"B": {5, 15}},
		Fixed:       []int{3, 7},
	}); err != nil {
		t.Fatalf("apply: %v", err)
	}

	result, err := svc.Generate(context.Background())
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	if result.Schedule.Date != "08/30/2026" {
		t.Fatalf("date = %q, want 08/30/2026", result.Schedule.Date)
	}
	if got := len(result.Schedule.Pairs["B"]); got != 9 {
		t.Fatalf("line B pairs = %d, want 9", got)
	}
	c := result.Schedule.Pairs["C"]
	if c[0] != (rotation.Pair{Low: 3, High: 3}) || c[1] != (rotation.Pair{Low: 7, High: 7}) {
		t.Fatalf("line C prefix = %v %v, want 3-3 7-7", c[0], c[1])
	}
	if got := result.Unavailable["B"]; !reflect.DeepEqual(got, []int{5, 15}) {
		t.Fatalf("result unavailable B = %v, want [5 15]", got)
	}
	if !result.HasPairs() {
		t.Fatalf("HasPairs = false, want true")
	}
	if !result.HasDownStations() {
		t.Fatalf("HasDownStations = false, want true")
	}
}

func TestGenerateWithoutConfigIsEmptyButComplete(t *testing.T) {
	svc := newTestService(t)

	result, err := svc.Generate(context.Background())
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if len(result.Schedule.Pairs) != 6 {
		t.Fatalf("lines = %d, want 6", len(result.Schedule.Pairs))
	}
	// No overrides: every line mirror-pairs the full universe.
	for code, pairs := range result.Schedule.Pairs {
		if len(pairs) != 10 {
			t.Fatalf("line %s pairs = %d, want 10", code, len(pairs))
		}
	}
	if result.HasDownStations() {
		t.Fatalf("HasDownStations = true, want false")
	}
}

func TestOperableStations(t *testing.T) {
	svc := newTestService(t)
	if _, err := svc.Apply(ConfigInput{Unavailable: map[string][]int{"M": {1, 20}}}); err != nil {
		t.Fatalf("apply: %v", err)
	}

	got, err := svc.OperableStations("M")
	if err != nil {
		t.Fatalf("operable: %v", err)
	}
	if len(got) != 18 || got[0] != 2 || got[17] != 19 {
		t.Fatalf("operable = %v, want 2..19", got)
	}

	if _, err := svc.OperableStations("Z"); err == nil {
		t.Fatalf("expected unknown line error, got nil")
	}
}

func TestUnavailability(t *testing.T) {
	svc := newTestService(t)
	if _, err := svc.Apply(ConfigInput{Unavailable: map[string][]int{"B": {15, 5, 5}}}); err != nil {
		t.Fatalf("apply: %v", err)
	}

	got := svc.Unavailability()
	if down := got["B"]; len(down) != 2 || down[0] != 5 || down[1] != 15 {
		t.Fatalf("unavailability B = %v, want [5 15]", down)
	}
	if down := got["O"]; len(down) != 0 {
		t.Fatalf("unavailability O = %v, want empty", down)
	}
}

func TestCurrentReturnsCopy(t *testing.T) {
	svc := newTestService(t)
	if _, err := svc.Apply(ConfigInput{Unavailable: map[string][]int{"B": {5, 15}}, Fixed: []int{3}}); err != nil {
		t.Fatalf("apply: %v", err)
	}

	cfg := svc.Current()
	cfg.Unavailable["B"][0] = 99
	cfg.Unavailable["L"] = []int{1}
	cfg.Fixed["C"][0] = 99
	delete(cfg.Unavailable, "O")

	fresh := svc.Current()
	if down := fresh.Unavailable["B"]; len(down) != 2 || down[0] != 5 || down[1] != 15 {
		t.Fatalf("unavailable B = %v, want [5 15] untouched", down)
	}
	if down := fresh.Unavailable["L"]; len(down) != 0 {
		t.Fatalf("unavailable L = %v, want empty", down)
	}
	if fixed := fresh.Fixed["C"]; len(fixed) != 1 || fixed[0] != 3 {
		t.Fatalf("fixed C = %v, want [3] untouched", fixed)
	}
	if _, ok := fresh.Unavailable["O"]; !ok {
		t.Fatalf("line O missing from unavailability map")
	}

	// Apply hands out a copy as well.
	applied, err := svc.Apply(ConfigInput{Unavailable: map[string][]int{"M": {2}}})
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	applied.Unavailable["M"][0] = 99
	if down := svc.Unavailability()["M"]; len(down) != 1 || down[0] != 2 {
		t.Fatalf("unavailable M = %v, want [2] untouched", down)
	}
}
