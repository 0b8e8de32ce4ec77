/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

// Package board holds the day-scoped rotation configuration and drives
// schedule generation. Configuration is a single snapshot replaced wholesale
// on every submit; a snapshot from a previous calendar day is discarded
// rather than reused.
package board

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/friendsincode/vidar_rotation/internal/rotation"
	"github.com/friendsincode/vidar_rotation/internal/telemetry"
)

const dayFormat = "2006-01-02"

// ConfigInput is the boundary contract consumed from the presentation
// layer: per-line unavailable stations plus the fixed stations for the
// fixed-capable line(s).
type ConfigInput struct {
	Unavailable map[string][]int `json:"unavailable" yaml:"unavailable"`
	Fixed       []int            `json:"fixed" yaml:"fixed"`
}

// DayConfig is the applied configuration for one calendar day.
type DayConfig struct {
	Day         string           `json:"day"` // YYYY-MM-DD
	CreatedAt   time.Time        `json:"created_at"`
	Unavailable map[string][]int `json:"unavailable"`
	Fixed       map[string][]int `json:"fixed"`
}

// clone returns a deep copy so callers can never mutate the stored snapshot.
func (c *DayConfig) clone() *DayConfig {
	out := &DayConfig{
		Day:         c.Day,
		CreatedAt:   c.CreatedAt,
		Unavailable: copyStationSets(c.Unavailable),
		Fixed:       copyStationSets(c.Fixed),
	}
	return out
}

func copyStationSets(sets map[string][]int) map[string][]int {
	out := make(map[string][]int, len(sets))
	for line, stations := range sets {
		out[line] = append([]int(nil), stations...)
	}
	return out
}

// Result bundles a generated schedule with the unavailability mapping the
// caller renders alongside it. The schedule itself never embeds
// unavailability.
type Result struct {
	Schedule    rotation.Schedule `json:"schedule"`
	Unavailable map[string][]int  `json:"unavailable"`
}

// HasPairs reports whether any line produced at least one pair.
func (r *Result) HasPairs() bool {
	for _, pairs := range r.Schedule.Pairs {
		if len(pairs) > 0 {
			return true
		}
	}
	return false
}

// HasDownStations reports whether any line has unavailable stations.
func (r *Result) HasDownStations() bool {
	for _, down := range r.Unavailable {
		if len(down) > 0 {
			return true
		}
	}
	return false
}

// Service owns the active day configuration.
type Service struct {
	layout rotation.Layout
	logger zerolog.Logger

	mu      sync.Mutex
	current *DayConfig

	now func() time.Time
}

// NewService constructs the board service over a layout.
func NewService(layout rotation.Layout, logger zerolog.Logger) *Service {
	return &Service{
		layout: layout,
		logger: logger.With().Str("component", "board").Logger(),
		now:    time.Now,
	}
}

// SetClock overrides the service clock. Test hook.
func (s *Service) SetClock(now func() time.Time) {
	s.now = now
}

// Layout returns the plant layout the service operates on.
func (s *Service) Layout() rotation.Layout { return s.layout }

// Apply validates the input and replaces the active configuration with a
// fresh snapshot stamped for today. A station selected as both fixed and
// unavailable on a fixed-capable line is rejected with
// *rotation.ConflictError before anything is stored.
func (s *Service) Apply(input ConfigInput) (*DayConfig, error) {
	for code := range input.Unavailable {
		if _, ok := s.layout.Line(code); !ok {
			return nil, fmt.Errorf("unknown line %q", code)
		}
	}

	for _, line := range s.layout.Lines {
		if !line.SupportsFixedStations {
			continue
		}
		if overlap := rotation.OverlapConflict(input.Fixed, input.Unavailable[line.Code]); overlap != nil {
			telemetry.ConfigConflictsTotal.Inc()
			return nil, &rotation.ConflictError{Line: line.Code, Stations: overlap}
		}
	}

	now := s.now()
	cfg := &DayConfig{
		Day:         now.Format(dayFormat),
		CreatedAt:   now,
		Unavailable: make(map[string][]int, len(s.layout.Lines)),
		Fixed:       make(map[string][]int),
	}

	engine := rotation.NewEngine(s.layout)
	for _, line := range s.layout.Lines {
		engine.SetUnavailable(line.Code, input.Unavailable[line.Code])
		cfg.Unavailable[line.Code] = engine.Unavailable(line.Code)
		if line.SupportsFixedStations {
			engine.SetFixed(line.Code, input.Fixed)
			cfg.Fixed[line.Code] = engine.Fixed(line.Code)
		}
	}

	s.mu.Lock()
	s.current = cfg
	s.mu.Unlock()

	s.logger.Info().
		Str("day", cfg.Day).
		Int("fixed_lines", len(cfg.Fixed)).
		Msg("day configuration applied")

	return cfg.clone(), nil
}

// Current returns the configuration in effect for today. A snapshot left
// over from a previous day is dropped and an empty configuration for today
// is returned instead. The returned value is a copy; mutating it never
// touches the stored snapshot.
func (s *Service) Current() *DayConfig {
	now := s.now()
	today := now.Format(dayFormat)

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil || s.current.Day != today {
		if s.current != nil {
			s.logger.Info().
				Str("stale_day", s.current.Day).
				Str("today", today).
				Msg("discarding stale day configuration")
		}
		s.current = s.emptyConfig(now)
	}
	return s.current.clone()
}

func (s *Service) emptyConfig(now time.Time) *DayConfig {
	cfg := &DayConfig{
		Day:         now.Format(dayFormat),
		CreatedAt:   now,
		Unavailable: make(map[string][]int, len(s.layout.Lines)),
		Fixed:       make(map[string][]int),
	}
	for _, line := range s.layout.Lines {
		cfg.Unavailable[line.Code] = nil
		if line.SupportsFixedStations {
			cfg.Fixed[line.Code] = nil
		}
	}
	return cfg
}

// Generate produces a schedule from the active configuration.
func (s *Service) Generate(ctx context.Context) (*Result, error) {
	_, span := telemetry.StartSpan(ctx, "board", "generate_schedule")
	defer span.End()

	cfg := s.Current()

	engine := rotation.NewEngine(s.layout)
	for _, line := range s.layout.Lines {
		engine.SetUnavailable(line.Code, cfg.Unavailable[line.Code])
		if line.SupportsFixedStations {
			engine.SetFixed(line.Code, cfg.Fixed[line.Code])
		}
	}

	sched := engine.Generate(s.now())
	telemetry.SchedulesGeneratedTotal.Inc()

	s.logger.Info().
		Str("schedule_id", sched.ID).
		Str("date", sched.Date).
		Msg("schedule generated")

	return &Result{
		Schedule:    sched,
		Unavailable: cfg.Unavailable,
	}, nil
}

// Unavailability returns the per-line unavailable stations of the active
// configuration, for rendering alongside a schedule.
func (s *Service) Unavailability() map[string][]int {
	return s.Current().Unavailable
}

// OperableStations reports the operable stations for one line under the
// active configuration.
func (s *Service) OperableStations(line string) ([]int, error) {
	if _, ok := s.layout.Line(line); !ok {
		return nil, fmt.Errorf("unknown line %q", line)
	}
	cfg := s.Current()

	engine := rotation.NewEngine(s.layout)
	engine.SetUnavailable(line, cfg.Unavailable[line])
	return engine.OperableStations(line), nil
}
