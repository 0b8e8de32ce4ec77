/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package rotation

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Pair is one rotation assignment between two stations. Low equals High for
// a self-paired station.
type Pair struct {
	Low  int `json:"low"`
	High int `json:"high"`
}

// SelfPaired reports whether the station rotates with itself.
func (p Pair) SelfPaired() bool { return p.Low == p.High }

// String renders the pair label, e.g. "1-20" or "7-7".
func (p Pair) String() string { return fmt.Sprintf("%d-%d", p.Low, p.High) }

// Labels renders a pair list as its display labels.
func Labels(pairs []Pair) []string {
	labels := make([]string, len(pairs))
	for i, p := range pairs {
		labels[i] = p.String()
	}
	return labels
}

// Schedule is one generated rotation for the whole plant.
type Schedule struct {
	ID          string            `json:"id"`
	Date        string            `json:"date"` // MM/DD/YYYY
	GeneratedAt time.Time         `json:"generated_at"`
	Pairs       map[string][]Pair `json:"pairs"` // keyed by line code
}

// ConflictError reports stations selected as both fixed and unavailable on
// the same line. The overlap must be resolved by the caller before a
// schedule is generated.
type ConflictError struct {
	Line     string
	Stations []int
}

func (e *ConflictError) Error() string {
	labels := make([]string, len(e.Stations))
	for i, s := range e.Stations {
		labels[i] = fmt.Sprintf("%d", s)
	}
	return fmt.Sprintf("line %s: station(s) %s selected as both fixed and unavailable",
		e.Line, strings.Join(labels, ", "))
}

// Engine computes mirror pairings over the operable stations of each line.
// It holds only the layout and the per-line overrides; all queries are pure
// functions of that state.
type Engine struct {
	layout      Layout
	unavailable map[string][]int
	fixed       map[string][]int
}

// NewEngine constructs an engine over a layout with no overrides set.
func NewEngine(layout Layout) *Engine {
	return &Engine{
		layout:      layout,
		unavailable: make(map[string][]int),
		fixed:       make(map[string][]int),
	}
}

// Layout returns the engine's station/line universe.
func (e *Engine) Layout() Layout { return e.layout }

// SetUnavailable replaces the unavailable station set for a line. Input is
// deduplicated and sorted; station numbers outside the universe are kept but
// never surface in any pairing. Never fails.
func (e *Engine) SetUnavailable(line string, stations []int) {
	e.unavailable[line] = dedupeSort(stations)
}

// SetFixed replaces the fixed station set for a line. Only meaningful on
// lines with SupportsFixedStations; other lines tolerate the call with no
// effect on pairing.
func (e *Engine) SetFixed(line string, stations []int) {
	e.fixed[line] = dedupeSort(stations)
}

// Unavailable returns the stored unavailable set for a line.
func (e *Engine) Unavailable(line string) []int {
	return append([]int(nil), e.unavailable[line]...)
}

// Fixed returns the stored fixed set for a line.
func (e *Engine) Fixed(line string) []int {
	return append([]int(nil), e.fixed[line]...)
}

// OperableStations returns the station universe minus the line's unavailable
// set, ascending.
func (e *Engine) OperableStations(line string) []int {
	down := toSet(e.unavailable[line])
	var operable []int
	for _, s := range e.layout.Stations() {
		if _, ok := down[s]; !ok {
			operable = append(operable, s)
		}
	}
	return operable
}

// ComputePairs produces the ordered pair list for one line.
//
// On a fixed-capable line the fixed stations (intersected with the universe)
// surface first as self-pairs in ascending order, followed by mirror pairs
// over the remaining operable stations. Everywhere else the operable set is
// mirror-paired directly. An empty result means there is nothing to pair;
// unavailability is reported separately by the caller.
func (e *Engine) ComputePairs(line string) []Pair {
	desc, ok := e.layout.Line(line)
	if ok && desc.SupportsFixedStations {
		var fixed []int
		for _, s := range e.fixed[line] {
			if e.layout.Contains(s) {
				fixed = append(fixed, s)
			}
		}

		pairs := make([]Pair, 0, len(fixed))
		for _, s := range fixed {
			pairs = append(pairs, Pair{Low: s, High: s})
		}

		fixedSet := toSet(fixed)
		downSet := toSet(e.unavailable[line])
		var remainder []int
		for _, s := range e.layout.Stations() {
			if _, isFixed := fixedSet[s]; isFixed {
				continue
			}
			if _, isDown := downSet[s]; isDown {
				continue
			}
			remainder = append(remainder, s)
		}

		if len(remainder) == 0 && len(fixed) == 0 {
			return nil
		}
		return append(pairs, mirrorPair(remainder)...)
	}

	operable := e.OperableStations(line)
	if len(operable) == 0 {
		return nil
	}
	return mirrorPair(operable)
}

// mirrorPair reflects a sorted station sequence onto itself: the i-th
// smallest rotates with the i-th largest. An odd-length sequence leaves its
// middle station self-paired. Output depends only on the set of stations,
// not on input order.
func mirrorPair(stations []int) []Pair {
	s := dedupeSort(stations)
	n := len(s)
	if n == 0 {
		return nil
	}

	pairs := make([]Pair, 0, (n+1)/2)
	for i := 0; i < n/2; i++ {
		pairs = append(pairs, Pair{Low: s[i], High: s[n-1-i]})
	}
	if n%2 != 0 {
		mid := s[n/2]
		pairs = append(pairs, Pair{Low: mid, High: mid})
	}
	return pairs
}

// Generate computes pairs for every line in the layout and stamps the
// result with the given time. The fixed/unavailable overlap invariant is a
// caller precondition and is not re-checked here.
func (e *Engine) Generate(now time.Time) Schedule {
	pairs := make(map[string][]Pair, len(e.layout.Lines))
	for _, line := range e.layout.Lines {
		pairs[line.Code] = e.ComputePairs(line.Code)
	}
	return Schedule{
		ID:          uuid.NewString(),
		Date:        now.Format("01/02/2006"),
		GeneratedAt: now,
		Pairs:       pairs,
	}
}

// OverlapConflict returns the stations present in both sets, ascending, or
// nil when the sets are disjoint. Used by callers to enforce the no-overlap
// invariant on fixed-capable lines before generation.
func OverlapConflict(fixed, unavailable []int) []int {
	fixedSet := toSet(fixed)
	var overlap []int
	for _, s := range dedupeSort(unavailable) {
		if _, ok := fixedSet[s]; ok {
			overlap = append(overlap, s)
		}
	}
	return overlap
}

func dedupeSort(stations []int) []int {
	if len(stations) == 0 {
		return nil
	}
	set := toSet(stations)
	out := make([]int, 0, len(set))
	for s := range set {
		out = append(out, s)
	}
	sort.Ints(out)
	return out
}

func toSet(stations []int) map[int]struct{} {
	set := make(map[int]struct{}, len(stations))
	for _, s := range stations {
		set[s] = struct{}{}
	}
	return set
}
