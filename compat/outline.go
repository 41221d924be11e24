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

package compat

import (
	"seehuhn.de/go/fontbatch/ufo"
)

// member is one glyph taking part in an outline comparison, together with
// the name of its source.
type member struct {
	source string
	glyph  *ufo.Glyph
}

// rewrite describes a contour which was changed to match the others.
type rewrite struct {
	source  string
	contour int
	points  int // number of inserted off-curve points
}

// matchOutlines makes the contours of all members compatible.  Line segments
// which are curved in another member are converted to curves by inserting
// off-curve points on the straight line.  The glyphs are modified in place.
func matchOutlines(name string, members []member) ([]rewrite, error) {
	if len(members) < 2 {
		return nil, nil
	}

	first := members[0]
	nc := len(first.glyph.Contours)
	for _, m := range members[1:] {
		if len(m.glyph.Contours) != nc {
			return nil, &IncompatibleOutlineError{
				Glyph:   name,
				Source:  m.source,
				Contour: -1,
				Reason:  "number of contours differs",
			}
		}
	}

	var res []rewrite
	for ci := 0; ci < nc; ci++ {
		types := make([][]ufo.SegmentType, len(members))
		for i, m := range members {
			types[i] = m.glyph.Contours[ci].SegmentTypes()
			if len(types[i]) != len(types[0]) {
				return nil, &IncompatibleOutlineError{
					Glyph:   name,
					Source:  m.source,
					Contour: ci,
					Reason:  "number of on-curve points differs",
				}
			}
		}

		canonical := make([]ufo.SegmentType, len(types[0]))
		donor := make([]int, len(types[0])) // member with the curved segment
		for k := range canonical {
			canonical[k] = types[0][k]
			donor[k] = 0
			for i := 1; i < len(members); i++ {
				t := types[i][k]
				c := canonical[k]
				switch {
				case t == c:
				case t.IsCurve() && c.IsCurve():
					return nil, &IncompatibleOutlineError{
						Glyph:   name,
						Source:  members[i].source,
						Contour: ci,
						Reason:  "curve and qcurve segments at the same position",
					}
				case t == ufo.Move || c == ufo.Move:
					return nil, &IncompatibleOutlineError{
						Glyph:   name,
						Source:  members[i].source,
						Contour: ci,
						Reason:  "open and closed contours",
					}
				case t.IsCurve():
					canonical[k] = t
					donor[k] = i
				}
			}
		}

		// Curves of the same type must agree in their number of control
		// points.
		for k, c := range canonical {
			if !c.IsCurve() {
				continue
			}
			want := -1
			for i, m := range members {
				if types[i][k] != c {
					continue
				}
				n := offCurveCount(m.glyph.Contours[ci], k)
				if want < 0 {
					want = n
				} else if n != want {
					return nil, &IncompatibleOutlineError{
						Glyph:   name,
						Source:  m.source,
						Contour: ci,
						Reason:  "number of off-curve points differs",
					}
				}
			}
		}

		for _, m := range members {
			contour := m.glyph.Contours[ci]
			inserted := 0
			var out ufo.Contour
			k := 0
			for j, p := range contour {
				if !p.Type.IsOnCurve() {
					out = append(out, p)
					continue
				}
				want := canonical[k]
				if p.Type != want {
					n := 2
					if want == ufo.QCurve {
						n = offCurveCount(members[donor[k]].glyph.Contours[ci], k)
					}
					prev := contour[(j+len(contour)-1)%len(contour)]
					for step := 1; step <= n; step++ {
						f := float64(step) / float64(n+1)
						out = append(out, ufo.Point{
							X: prev.X + f*(p.X-prev.X),
							Y: prev.Y + f*(p.Y-prev.Y),
						})
					}
					inserted += n
					p.Type = want
				}
				out = append(out, p)
				k++
			}
			if inserted > 0 {
				m.glyph.Contours[ci] = out
				res = append(res, rewrite{source: m.source, contour: ci, points: inserted})
			}
		}
	}
	return res, nil
}

// offCurveCount returns the number of off-curve points preceding the k-th
// on-curve point of a contour.  For the first on-curve point of a closed
// contour, trailing off-curve points are included.
func offCurveCount(c ufo.Contour, k int) int {
	count := 0
	seen := 0
	for _, p := range c {
		if !p.Type.IsOnCurve() {
			count++
			continue
		}
		if seen == k {
			break
		}
		seen++
		count = 0
	}
	if k == 0 && len(c) > 0 && c[0].Type != ufo.Move {
		for i := len(c) - 1; i >= 0 && !c[i].Type.IsOnCurve(); i-- {
			count++
		}
	}
	return count
}

// compatible reports whether all members share the same point structure.
func compatible(members []member) bool {
	if len(members) == 0 {
		return true
	}
	sig := signature(members[0].glyph)
	for _, m := range members[1:] {
		if signature(m.glyph) != sig {
			return false
		}
	}
	return true
}
