// seehuhn.de/go/fontbatch - batch generation of variable fonts
// Copyright (C) 2026  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package interp

import (
	"cmp"
	"math"
	"slices"

	"golang.org/x/exp/maps"
)

// Sample is a value given at a point of the design space.  A scalar is
// represented as a vector of length one.
type Sample struct {
	Location map[string]float64
	Value    []float64
}

// Option configures a [Model].
type Option func(*config)

type config struct {
	origin    map[string]float64
	key       string
	axisOrder []string
}

// WithOrigin asks the model to use the sample at loc as its origin.  If no
// sample is located at loc, the origin is chosen automatically.
func WithOrigin(loc map[string]float64) Option {
	return func(c *config) {
		c.origin = loc
	}
}

// WithKey sets the name used to identify the model in error messages.
func WithKey(key string) Option {
	return func(c *config) {
		c.key = key
	}
}

// WithAxisOrder sets the order of axes used to rank the samples.  Axes not
// in the list are ranked after the listed ones, in alphabetical order.
func WithAxisOrder(axes []string) Option {
	return func(c *config) {
		c.axisOrder = axes
	}
}

// tent is the support of a sample along one axis, in normalized
// coordinates.
type tent struct {
	lower, peak, upper float64
}

type region map[string]tent

// Model interpolates between a set of samples.
type Model struct {
	key  string
	dim  int
	axes []string

	origin   map[string]float64 // design coordinates of the origin sample
	min, max map[string]float64 // sample range per axis

	locations []map[string]float64 // normalized, zeros omitted, sorted
	supports  []region
	ranges    map[string][2]float64 // normalized sample range per axis
	deltas    [][]float64
}

// New builds a model from the given samples.  If several samples share a
// location, only the first one is used.
//
// Sample locations should assign a coordinate to every axis.  Missing
// coordinates are taken from the location given by [WithOrigin] or, if
// there is none, from the first sample.
func New(samples []Sample, opts ...Option) (*Model, error) {
	cfg := &config{}
	for _, opt := range opts {
		opt(cfg)
	}
	if len(samples) == 0 {
		return nil, &InsufficientSamplesError{Key: cfg.key}
	}

	m := &Model{
		key: cfg.key,
		dim: len(samples[0].Value),
	}
	axisSet := make(map[string]bool)
	for i, s := range samples {
		if len(s.Value) != m.dim {
			return nil, &DimensionError{Key: cfg.key, Index: i, Want: m.dim, Got: len(s.Value)}
		}
		for axis := range s.Location {
			axisSet[axis] = true
		}
	}
	for axis := range cfg.origin {
		axisSet[axis] = true
	}
	m.axes = maps.Keys(axisSet)
	slices.Sort(m.axes)

	base := cfg.origin
	if base == nil {
		base = samples[0].Location
	}
	var locs []map[string]float64
	var values [][]float64
	for _, s := range samples {
		loc := m.complete(s.Location, base)
		dup := slices.ContainsFunc(locs, func(other map[string]float64) bool {
			return maps.Equal(loc, other)
		})
		if dup {
			continue
		}
		locs = append(locs, loc)
		values = append(values, s.Value)
	}

	originIdx := -1
	if cfg.origin != nil {
		want := m.complete(cfg.origin, base)
		originIdx = slices.IndexFunc(locs, func(loc map[string]float64) bool {
			return maps.Equal(loc, want)
		})
	}
	if originIdx < 0 {
		originIdx = mostConnected(locs, m.axes)
	}
	m.origin = locs[originIdx]

	m.min = make(map[string]float64, len(m.axes))
	m.max = make(map[string]float64, len(m.axes))
	for _, axis := range m.axes {
		lo, hi := math.Inf(+1), math.Inf(-1)
		for _, loc := range locs {
			lo = min(lo, loc[axis])
			hi = max(hi, loc[axis])
		}
		m.min[axis] = lo
		m.max[axis] = hi
	}

	normalized := make([]map[string]float64, len(locs))
	for i, loc := range locs {
		normalized[i] = m.normalize(loc)
	}

	order := make([]int, len(locs))
	for i := range order {
		order[i] = i
	}
	keyOf := sortKeyFunc(normalized, cfg.axisOrder)
	keys := make([]sortKey, len(locs))
	for i, loc := range normalized {
		keys[i] = keyOf(loc)
	}
	slices.SortStableFunc(order, func(a, b int) int {
		return compareKeys(keys[a], keys[b])
	})

	m.locations = make([]map[string]float64, len(order))
	sortedValues := make([][]float64, len(order))
	for i, idx := range order {
		m.locations[i] = normalized[idx]
		sortedValues[i] = values[idx]
	}

	m.ranges = make(map[string][2]float64, len(m.axes))
	for _, axis := range m.axes {
		var lo, hi float64
		for _, loc := range m.locations {
			lo = min(lo, loc[axis])
			hi = max(hi, loc[axis])
		}
		m.ranges[axis] = [2]float64{lo, hi}
	}

	m.computeSupports()
	m.computeDeltas(sortedValues)
	return m, nil
}

// complete returns a copy of loc which has a coordinate for every axis of
// the model.  Missing coordinates are taken from base.
func (m *Model) complete(loc, base map[string]float64) map[string]float64 {
	res := make(map[string]float64, len(m.axes))
	for _, axis := range m.axes {
		if v, ok := loc[axis]; ok {
			res[axis] = v
		} else {
			res[axis] = base[axis]
		}
	}
	return res
}

// mostConnected returns the index of the location which has the largest
// number of neighbours differing in exactly one coordinate.  Ties are
// resolved in favour of the earlier location.
func mostConnected(locs []map[string]float64, axes []string) int {
	best, bestCount := 0, -1
	for i, a := range locs {
		count := 0
		for j, b := range locs {
			if i == j {
				continue
			}
			diff := 0
			for _, axis := range axes {
				if a[axis] != b[axis] {
					diff++
				}
			}
			if diff == 1 {
				count++
			}
		}
		if count > bestCount {
			best, bestCount = i, count
		}
	}
	return best
}

// normalize maps a location to normalized coordinates.  Axes with a
// normalized coordinate of 0 are omitted from the result.
func (m *Model) normalize(loc map[string]float64) map[string]float64 {
	res := make(map[string]float64)
	for _, axis := range m.axes {
		v, ok := loc[axis]
		if !ok {
			continue
		}
		o, lo, hi := m.origin[axis], m.min[axis], m.max[axis]
		var x float64
		switch {
		case v < o && o > lo:
			x = (v - o) / (o - lo)
		case v > o && hi > o:
			x = (v - o) / (hi - o)
		case v < o && hi > o:
			// no samples below the origin, continue the upper scale
			x = (v - o) / (hi - o)
		case v > o && o > lo:
			x = (v - o) / (o - lo)
		}
		if x != 0 {
			res[axis] = x
		}
	}
	return res
}

func (m *Model) computeSupports() {
	minV := make(map[string]float64)
	maxV := make(map[string]float64)
	for _, loc := range m.locations {
		for axis, v := range loc {
			if old, ok := minV[axis]; !ok || v < old {
				minV[axis] = v
			}
			if old, ok := maxV[axis]; !ok || v > old {
				maxV[axis] = v
			}
		}
	}
	regions := make([]region, len(m.locations))
	for i, loc := range m.locations {
		r := make(region, len(loc))
		for axis, v := range loc {
			if v > 0 {
				r[axis] = tent{0, v, maxV[axis]}
			} else {
				r[axis] = tent{minV[axis], v, 0}
			}
		}
		regions[i] = r
	}

	m.supports = make([]region, len(regions))
	for i, r := range regions {
		for _, prev := range regions[:i] {
			if !isSubset(prev, r) {
				continue
			}
			relevant := true
			for axis, t := range r {
				p := prev[axis].peak
				if !(p == t.peak || t.lower < p && p < t.upper) {
					relevant = false
					break
				}
			}
			if !relevant {
				continue
			}

			// Split the box in the direction with the largest range ratio.
			bestAxes := make(region)
			bestRatio := -1.0
			for _, axis := range sortedAxes(prev) {
				val := prev[axis].peak
				t := r[axis]
				newLower, newUpper := t.lower, t.upper
				var ratio float64
				switch {
				case val < t.peak:
					newLower = val
					ratio = (val - t.peak) / (t.lower - t.peak)
				case t.peak < val:
					newUpper = val
					ratio = (val - t.peak) / (t.upper - t.peak)
				default:
					continue
				}
				if ratio > bestRatio {
					bestAxes = make(region)
					bestRatio = ratio
				}
				if ratio == bestRatio {
					bestAxes[axis] = tent{newLower, t.peak, newUpper}
				}
			}
			for axis, t := range bestAxes {
				r[axis] = t
			}
		}
		m.supports[i] = r
	}
}

func isSubset(a, b region) bool {
	for axis := range a {
		if _, ok := b[axis]; !ok {
			return false
		}
	}
	return true
}

func sortedAxes(r region) []string {
	axes := maps.Keys(r)
	slices.Sort(axes)
	return axes
}

func (m *Model) computeDeltas(values [][]float64) {
	m.deltas = make([][]float64, len(m.locations))
	for i, loc := range m.locations {
		delta := slices.Clone(values[i])
		for j, sup := range m.supports[:i] {
			w := supportScalar(loc, sup, nil)
			if w == 0 {
				continue
			}
			for k := range delta {
				delta[k] -= w * m.deltas[j][k]
			}
		}
		m.deltas[i] = delta
	}
}

// supportScalar returns the weight of the support region at loc.  If ranges
// is not nil, the tent functions are extended linearly beyond the sample
// range.
func supportScalar(loc map[string]float64, sup region, ranges map[string][2]float64) float64 {
	scalar := 1.0
	for axis, t := range sup {
		lower, peak, upper := t.lower, t.peak, t.upper
		if peak == 0 || lower > peak || peak > upper || lower < 0 && upper > 0 {
			continue
		}
		v := loc[axis]
		if v == peak {
			continue
		}
		if ranges != nil {
			axisMin, axisMax := ranges[axis][0], ranges[axis][1]
			if v < axisMin && lower <= axisMin {
				if peak <= axisMin && peak < upper {
					scalar *= (v - upper) / (peak - upper)
					continue
				} else if axisMin < peak {
					scalar *= (v - lower) / (peak - lower)
					continue
				}
			} else if axisMax < v && axisMax <= upper {
				if axisMax <= peak && lower < peak {
					scalar *= (v - lower) / (peak - lower)
					continue
				} else if peak < axisMax {
					scalar *= (v - upper) / (peak - upper)
					continue
				}
			}
		}
		if v <= lower || upper <= v {
			return 0
		}
		if v < peak {
			scalar *= (v - lower) / (peak - lower)
		} else {
			scalar *= (v - upper) / (peak - upper)
		}
	}
	return scalar
}

// Evaluate returns the interpolated value at loc.  Coordinates missing from
// loc are taken from the origin of the model.
func (m *Model) Evaluate(loc map[string]float64) ([]float64, error) {
	nloc := m.normalize(m.complete(loc, m.origin))
	res := make([]float64, m.dim)
	for i, sup := range m.supports {
		w := supportScalar(nloc, sup, m.ranges)
		if w == 0 {
			continue
		}
		for k, d := range m.deltas[i] {
			res[k] += w * d
		}
	}
	return res, nil
}

// Extrapolates reports whether loc lies outside the range covered by the
// samples along at least one axis.
func (m *Model) Extrapolates(loc map[string]float64) bool {
	for axis, v := range loc {
		lo, ok := m.min[axis]
		if !ok {
			continue
		}
		if v < lo || v > m.max[axis] {
			return true
		}
	}
	return false
}

// Origin returns the location of the sample used as the origin of the
// model.
func (m *Model) Origin() map[string]float64 {
	return maps.Clone(m.origin)
}

// NumSamples returns the number of samples used by the model.
func (m *Model) NumSamples() int {
	return len(m.locations)
}

type sortKey struct {
	rank    int
	onPoint int
	order   []int
	axes    []string
	signs   []int
	abs     []float64
}

// sortKeyFunc returns a function which ranks normalized locations.  The
// origin comes first, followed by locations on a single axis, locations on
// two axes, and so on.
func sortKeyFunc(locs []map[string]float64, axisOrder []string) func(map[string]float64) sortKey {
	axisPoints := make(map[string]map[float64]bool)
	for _, loc := range locs {
		if len(loc) != 1 {
			continue
		}
		for axis, v := range loc {
			if axisPoints[axis] == nil {
				axisPoints[axis] = map[float64]bool{0: true}
			}
			axisPoints[axis][v] = true
		}
	}

	return func(loc map[string]float64) sortKey {
		k := sortKey{rank: len(loc)}
		for axis, v := range loc {
			if axisPoints[axis][v] {
				k.onPoint++
			}
		}
		for _, axis := range axisOrder {
			if _, ok := loc[axis]; ok {
				k.axes = append(k.axes, axis)
			}
		}
		rest := maps.Keys(loc)
		slices.Sort(rest)
		for _, axis := range rest {
			if !slices.Contains(axisOrder, axis) {
				k.axes = append(k.axes, axis)
			}
		}
		for _, axis := range k.axes {
			idx := slices.Index(axisOrder, axis)
			if idx < 0 {
				idx = 0x10000
			}
			k.order = append(k.order, idx)
			v := loc[axis]
			switch {
			case v < 0:
				k.signs = append(k.signs, -1)
			case v > 0:
				k.signs = append(k.signs, +1)
			default:
				k.signs = append(k.signs, 0)
			}
			k.abs = append(k.abs, math.Abs(v))
		}
		return k
	}
}

func compareKeys(a, b sortKey) int {
	if c := cmp.Compare(a.rank, b.rank); c != 0 {
		return c
	}
	if c := cmp.Compare(b.onPoint, a.onPoint); c != 0 {
		return c
	}
	if c := slices.Compare(a.order, b.order); c != 0 {
		return c
	}
	if c := slices.Compare(a.axes, b.axes); c != 0 {
		return c
	}
	if c := slices.Compare(a.signs, b.signs); c != 0 {
		return c
	}
	return slices.Compare(a.abs, b.abs)
}
