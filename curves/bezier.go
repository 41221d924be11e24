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
	"math"

	"seehuhn.de/go/geom/vec"
)

// samples is the number of interior parameter values at which the
// approximation error of a quadratic piece is measured.
const samples = 15

func lerp(a, b vec.Vec2, t float64) vec.Vec2 {
	return a.Add(b.Sub(a).Mul(t))
}

// blossom evaluates the polar form of a cubic Bézier curve.
func blossom(c [4]vec.Vec2, t1, t2, t3 float64) vec.Vec2 {
	a := lerp(c[0], c[1], t1)
	b := lerp(c[1], c[2], t1)
	d := lerp(c[2], c[3], t1)
	a = lerp(a, b, t2)
	b = lerp(b, d, t2)
	return lerp(a, b, t3)
}

// subCubic returns the control points of the part of c between the
// parameter values t0 and t1.
func subCubic(c [4]vec.Vec2, t0, t1 float64) [4]vec.Vec2 {
	return [4]vec.Vec2{
		blossom(c, t0, t0, t0),
		blossom(c, t0, t0, t1),
		blossom(c, t0, t1, t1),
		blossom(c, t1, t1, t1),
	}
}

func evalCubic(c [4]vec.Vec2, t float64) vec.Vec2 {
	return blossom(c, t, t, t)
}

func evalQuad(p0, q, p1 vec.Vec2, t float64) vec.Vec2 {
	return lerp(lerp(p0, q, t), lerp(q, p1, t), t)
}

// midpointControl returns the control point of the quadratic curve which
// agrees with c at both end points and at t = 1/2.
func midpointControl(c [4]vec.Vec2) vec.Vec2 {
	return c[1].Add(c[2]).Mul(3).Sub(c[0].Add(c[3])).Mul(0.25)
}

// approxError returns the largest distance, over all sample points, between
// c and its approximation by n quadratic pieces.
func approxError(c [4]vec.Vec2, n int) float64 {
	var dist float64
	for i := 0; i < n; i++ {
		piece := subCubic(c, float64(i)/float64(n), float64(i+1)/float64(n))
		q := midpointControl(piece)
		for j := 1; j <= samples; j++ {
			t := float64(j) / (samples + 1)
			d := evalCubic(piece, t).Sub(evalQuad(piece[0], q, piece[3], t)).Length()
			dist = math.Max(dist, d)
		}
	}
	return dist
}
