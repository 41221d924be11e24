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

package designspace

import (
	"fmt"
	"math"
	"slices"
)

// Axis is one dimension of a design space.
type Axis struct {
	Name string

	// Tag is the four-character OpenType axis tag.  If empty, a tag is
	// derived from the name by a [TagBuilder].
	Tag string

	// Minimum, Default and Maximum are user coordinates.
	Minimum, Default, Maximum float64

	// Values lists the permitted user coordinates of a discrete axis.  For
	// continuous axes, Values is nil.
	Values []float64

	// Map is an optional piecewise linear map from user coordinates to
	// design coordinates.  The input values must be increasing.
	Map []MapPoint

	Hidden bool
}

// MapPoint is one point of an axis map.
type MapPoint struct {
	Input  float64 // user coordinate
	Output float64 // design coordinate
}

// IsDiscrete reports whether the axis only permits a finite set of values.
func (a *Axis) IsDiscrete() bool {
	return a.Values != nil
}

// MapForward converts a user coordinate to a design coordinate.
func (a *Axis) MapForward(v float64) float64 {
	return piecewise(a.Map, v, func(p MapPoint) (float64, float64) {
		return p.Input, p.Output
	})
}

// MapBackward converts a design coordinate to a user coordinate.
func (a *Axis) MapBackward(v float64) float64 {
	return piecewise(a.Map, v, func(p MapPoint) (float64, float64) {
		return p.Output, p.Input
	})
}

// piecewise evaluates the piecewise linear function given by the points of
// m.  Outside the range of the map, the function is extended by a constant
// offset.
func piecewise(m []MapPoint, v float64, xy func(MapPoint) (float64, float64)) float64 {
	if len(m) == 0 {
		return v
	}
	x0, y0 := xy(m[0])
	if v <= x0 {
		return v + y0 - x0
	}
	for _, p := range m[1:] {
		x1, y1 := xy(p)
		if v <= x1 {
			if x1 == x0 {
				return y1
			}
			return y0 + (v-x0)*(y1-y0)/(x1-x0)
		}
		x0, y0 = x1, y1
	}
	return v + y0 - x0
}

// DefaultDesign returns the axis default in design coordinates.
func (a *Axis) DefaultDesign() float64 {
	return a.MapForward(a.Default)
}

// Validate checks the axis values for consistency.
func (a *Axis) Validate() error {
	if a.Name == "" {
		return &AxisError{Axis: a.Name, Reason: "missing name"}
	}
	for _, x := range []float64{a.Minimum, a.Default, a.Maximum} {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return &AxisError{Axis: a.Name, Reason: "invalid coordinate"}
		}
	}
	if a.IsDiscrete() {
		if !slices.Contains(a.Values, a.Default) {
			return &AxisError{
				Axis:   a.Name,
				Reason: fmt.Sprintf("default %g is not one of the values %v", a.Default, a.Values),
			}
		}
	} else if a.Default < a.Minimum || a.Default > a.Maximum {
		return &AxisError{
			Axis:   a.Name,
			Reason: fmt.Sprintf("default %g outside [%g, %g]", a.Default, a.Minimum, a.Maximum),
		}
	}
	for i := 1; i < len(a.Map); i++ {
		if a.Map[i].Input <= a.Map[i-1].Input {
			return &AxisError{Axis: a.Name, Reason: "map inputs are not increasing"}
		}
		if a.Map[i].Output < a.Map[i-1].Output {
			return &AxisError{Axis: a.Name, Reason: "map outputs are decreasing"}
		}
	}
	if a.Tag != "" && len(a.Tag) != 4 {
		return &AxisError{Axis: a.Name, Reason: fmt.Sprintf("invalid tag %q", a.Tag)}
	}
	return nil
}

// Clone returns a copy of the axis.
func (a *Axis) Clone() *Axis {
	res := *a
	res.Values = slices.Clone(a.Values)
	res.Map = slices.Clone(a.Map)
	return &res
}
