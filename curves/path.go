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

package curves

import (
	"seehuhn.de/go/geom/vec"

	"seehuhn.de/go/fontbatch/ufo"
)

// segment is a piece of a contour, from the previous on-curve point to end.
// After conversion, off may contain additional on-curve points.
type segment struct {
	start vec.Vec2
	off   []ufo.Point
	end   ufo.Point
}

func (s segment) cubic() [4]vec.Vec2 {
	return [4]vec.Vec2{s.start, toVec(s.off[0]), toVec(s.off[1]), toVec(s.end)}
}

// path is a contour split into segments.
type path struct {
	lead     []ufo.Point // the move point of an open contour
	segs     []segment
	trailing []ufo.Point // stray off-curve points at the end of an open contour
	changed  bool
}

// parse splits a contour into segments.  Closed contours are rotated so that
// the output starts after the last on-curve point.  A closed contour without
// on-curve points is a quadratic spline; it gets an explicit on-curve point
// between its last and first control points.
func parse(c ufo.Contour) *path {
	p := &path{}
	if len(c) == 0 {
		return p
	}

	var pts []ufo.Point
	var prev vec.Vec2
	if c[0].Type == ufo.Move {
		p.lead = []ufo.Point{c[0]}
		prev = toVec(c[0])
		pts = c[1:]
	} else {
		last := -1
		for i := len(c) - 1; i >= 0; i-- {
			if c[i].Type.IsOnCurve() {
				last = i
				break
			}
		}
		if last < 0 {
			m := toVec(c[len(c)-1]).Add(toVec(c[0])).Mul(0.5)
			p.segs = []segment{{
				start: m,
				off:   append([]ufo.Point(nil), c...),
				end:   ufo.Point{X: m.X, Y: m.Y, Type: ufo.QCurve, Smooth: true},
			}}
			return p
		}
		prev = toVec(c[last])
		pts = make([]ufo.Point, 0, len(c))
		pts = append(pts, c[last+1:]...)
		pts = append(pts, c[:last+1]...)
	}

	var off []ufo.Point
	for _, pt := range pts {
		if !pt.Type.IsOnCurve() {
			off = append(off, pt)
			continue
		}
		p.segs = append(p.segs, segment{start: prev, off: off, end: pt})
		prev = toVec(pt)
		off = nil
	}
	p.trailing = off
	return p
}

// sameShape reports whether two paths have the same segment structure.
func (p *path) sameShape(other *path) bool {
	if len(p.lead) != len(other.lead) || len(p.segs) != len(other.segs) ||
		len(p.trailing) != len(other.trailing) {
		return false
	}
	for i, s := range p.segs {
		o := other.segs[i]
		if s.end.Type != o.end.Type || len(s.off) != len(o.off) {
			return false
		}
	}
	return true
}

func (p *path) contour() ufo.Contour {
	var res ufo.Contour
	res = append(res, p.lead...)
	for _, s := range p.segs {
		res = append(res, s.off...)
		res = append(res, s.end)
	}
	res = append(res, p.trailing...)
	return res
}

func toVec(p ufo.Point) vec.Vec2 {
	return vec.Vec2{X: p.X, Y: p.Y}
}
