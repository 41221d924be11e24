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

package ufo

import (
	"math"
	"slices"

	"seehuhn.de/go/geom/matrix"
)

// SegmentType describes the role of a point in a contour.
type SegmentType string

// These are the segment types used in UFO glyph files.
const (
	OffCurve SegmentType = ""
	Move     SegmentType = "move"
	Line     SegmentType = "line"
	Curve    SegmentType = "curve"
	QCurve   SegmentType = "qcurve"
)

// IsOnCurve reports whether a point of this type lies on the outline.
func (t SegmentType) IsOnCurve() bool {
	return t != OffCurve
}

// IsCurve reports whether t ends a curved segment.
func (t SegmentType) IsCurve() bool {
	return t == Curve || t == QCurve
}

// Point is a single point of a contour.
type Point struct {
	X, Y   float64
	Type   SegmentType
	Smooth bool
	Name   string
}

// Contour is a closed (or, if the first point has type Move, open) sequence
// of points.
type Contour []Point

// SegmentTypes returns the types of the on-curve points of the contour, in
// order.
func (c Contour) SegmentTypes() []SegmentType {
	var res []SegmentType
	for _, p := range c {
		if p.Type.IsOnCurve() {
			res = append(res, p.Type)
		}
	}
	return res
}

// Clone returns a copy of the contour.
func (c Contour) Clone() Contour {
	if c == nil {
		return nil
	}
	res := make(Contour, len(c))
	copy(res, c)
	return res
}

// Transform returns a copy of the contour with all points mapped through m.
func (c Contour) Transform(m matrix.Matrix) Contour {
	res := make(Contour, len(c))
	for i, p := range c {
		p.X, p.Y = m.Apply(p.X, p.Y)
		res[i] = p
	}
	return res
}

// Component places a transformed copy of another glyph.
type Component struct {
	Base      string
	Transform matrix.Matrix
}

// Anchor is a named attachment point.
type Anchor struct {
	Name string
	X, Y float64
}

// Glyph is the outline and metric data of one glyph.
type Glyph struct {
	Name       string
	Unicodes   []rune
	Width      float64
	Contours   []Contour
	Components []Component
	Anchors    []Anchor
	Lib        map[string]interface{}
}

// NewGlyph allocates an empty glyph.
func NewGlyph(name string) *Glyph {
	return &Glyph{Name: name}
}

// Clone returns a deep copy of the glyph.
func (g *Glyph) Clone() *Glyph {
	if g == nil {
		return nil
	}
	res := &Glyph{
		Name:  g.Name,
		Width: g.Width,
	}
	if g.Unicodes != nil {
		res.Unicodes = append([]rune(nil), g.Unicodes...)
	}
	if g.Contours != nil {
		res.Contours = make([]Contour, len(g.Contours))
		for i, c := range g.Contours {
			res.Contours[i] = c.Clone()
		}
	}
	if g.Components != nil {
		res.Components = append([]Component(nil), g.Components...)
	}
	if g.Anchors != nil {
		res.Anchors = append([]Anchor(nil), g.Anchors...)
	}
	res.Lib = cloneLib(g.Lib)
	return res
}

// CopyOutline replaces the geometry of g (contours, components, anchors and
// advance width) with a copy of the geometry of other.  Name, unicodes and
// lib of g are not changed.
func (g *Glyph) CopyOutline(other *Glyph) {
	c := other.Clone()
	g.Width = c.Width
	g.Contours = c.Contours
	g.Components = c.Components
	g.Anchors = c.Anchors
}

// SameOutline reports whether g and other have the same advance width,
// contours, components and anchors.
func (g *Glyph) SameOutline(other *Glyph) bool {
	if g.Width != other.Width || len(g.Contours) != len(other.Contours) {
		return false
	}
	for i, c := range g.Contours {
		if !slices.Equal(c, other.Contours[i]) {
			return false
		}
	}
	return slices.Equal(g.Components, other.Components) &&
		slices.Equal(g.Anchors, other.Anchors)
}

// IsMixed reports whether the glyph has both contours and components.
func (g *Glyph) IsMixed() bool {
	return len(g.Contours) > 0 && len(g.Components) > 0
}

// NumPoints returns the total number of contour points.
func (g *Glyph) NumPoints() int {
	n := 0
	for _, c := range g.Contours {
		n += len(c)
	}
	return n
}

// Bounds returns the control box of the contours.  If the glyph has no
// contour points, ok is false.
func (g *Glyph) Bounds() (xMin, yMin, xMax, yMax float64, ok bool) {
	xMin, yMin = math.Inf(+1), math.Inf(+1)
	xMax, yMax = math.Inf(-1), math.Inf(-1)
	for _, c := range g.Contours {
		for _, p := range c {
			xMin = math.Min(xMin, p.X)
			yMin = math.Min(yMin, p.Y)
			xMax = math.Max(xMax, p.X)
			yMax = math.Max(yMax, p.Y)
			ok = true
		}
	}
	if !ok {
		return 0, 0, 0, 0, false
	}
	return xMin, yMin, xMax, yMax, true
}

// LeftMargin returns the distance between the origin and the leftmost
// contour point.  Glyphs without contour points have a left margin of 0.
func (g *Glyph) LeftMargin() float64 {
	xMin, _, _, _, ok := g.Bounds()
	if !ok {
		return 0
	}
	return xMin
}

// RightMargin returns the distance between the rightmost contour point and
// the advance width.
func (g *Glyph) RightMargin() float64 {
	_, _, xMax, _, ok := g.Bounds()
	if !ok {
		return g.Width
	}
	return g.Width - xMax
}

// Round rounds all coordinates and the advance width to integers.
func (g *Glyph) Round() {
	g.Width = math.Round(g.Width)
	for _, c := range g.Contours {
		for i := range c {
			c[i].X = math.Round(c[i].X)
			c[i].Y = math.Round(c[i].Y)
		}
	}
	for i := range g.Components {
		g.Components[i].Transform[4] = math.Round(g.Components[i].Transform[4])
		g.Components[i].Transform[5] = math.Round(g.Components[i].Transform[5])
	}
	for i := range g.Anchors {
		g.Anchors[i].X = math.Round(g.Anchors[i].X)
		g.Anchors[i].Y = math.Round(g.Anchors[i].Y)
	}
}

func cloneLib(lib map[string]interface{}) map[string]interface{} {
	if lib == nil {
		return nil
	}
	res := make(map[string]interface{}, len(lib))
	for k, v := range lib {
		res[k] = cloneValue(v)
	}
	return res
}

func cloneValue(v interface{}) interface{} {
	switch v := v.(type) {
	case map[string]interface{}:
		return cloneLib(v)
	case []interface{}:
		res := make([]interface{}, len(v))
		for i, x := range v {
			res[i] = cloneValue(x)
		}
		return res
	case []string:
		return append([]string(nil), v...)
	case []byte:
		return append([]byte(nil), v...)
	default:
		return v
	}
}
