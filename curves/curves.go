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

// Package curves converts glyph outlines between cubic and quadratic
// Bézier curves.
//
// Quadratic conversion operates on a set of fonts at once: every cubic
// segment is replaced by the same number of quadratic pieces in all fonts,
// so that fonts which were compatible before the conversion stay compatible.
package curves

import (
	"fmt"
	"math"
	"slices"

	"seehuhn.de/go/geom/vec"

	"seehuhn.de/go/fontbatch/ufo"
)

// DefaultTolerance is the maximal approximation error, in font design
// units, used when ToQuadratic is called with a non-positive tolerance.
const DefaultTolerance = 1.0

// maxPieces limits the number of quadratic pieces used for a single cubic
// segment.
const maxPieces = 32

// Stats summarizes a conversion.
type Stats struct {
	Glyphs   int     // glyphs with at least one converted segment (per font)
	Segments int     // converted segments, summed over all fonts
	Pieces   int     // quadratic pieces written, summed over all fonts
	MaxError float64 // largest sampled approximation error
}

// MismatchError is returned by ToQuadratic if the outlines of a glyph do not
// have the same structure in all fonts.
type MismatchError struct {
	Glyph   string
	Contour int
	Reason  string
}

func (err *MismatchError) Error() string {
	return fmt.Sprintf("glyph %q, contour %d: %s", err.Glyph, err.Contour, err.Reason)
}

// Form is the curve type used in the outlines of a font.
type Form int

// These are the supported curve forms.
const (
	Cubic Form = iota
	Quadratic
)

func (f Form) String() string {
	switch f {
	case Cubic:
		return "cubic"
	case Quadratic:
		return "quadratic"
	default:
		return fmt.Sprintf("Form(%d)", int(f))
	}
}

// FormFor returns the curve form required by the given output format.
// TrueType-flavoured fonts need quadratic curves, CFF-flavoured fonts need
// cubic curves.
func FormFor(format string) (Form, error) {
	switch format {
	case "ttf":
		return Quadratic, nil
	case "otf":
		return Cubic, nil
	default:
		return 0, fmt.Errorf("no curve form for format %q", format)
	}
}

// Convert brings the outlines of all fonts into the given form.
func Convert(fonts []*ufo.Font, form Form, tolerance float64) (*Stats, error) {
	switch form {
	case Quadratic:
		return ToQuadratic(fonts, tolerance)
	case Cubic:
		return ToCubic(fonts), nil
	default:
		return nil, fmt.Errorf("unknown curve form %s", form)
	}
}

// ToQuadratic replaces all cubic segments by quadratic splines.  Each cubic
// segment is cut into n pieces of equal parameter length, and each piece
// is approximated by a single quadratic curve.  n is chosen as the smallest
// number for which the approximation error is below tolerance in every font
// which contains the glyph.
func ToQuadratic(fonts []*ufo.Font, tolerance float64) (*Stats, error) {
	if tolerance <= 0 {
		tolerance = DefaultTolerance
	}
	stats := &Stats{}
	for _, name := range glyphNames(fonts) {
		var gs []*ufo.Glyph
		for _, f := range fonts {
			if g, ok := f.Glyphs[name]; ok {
				gs = append(gs, g)
			}
		}
		err := quadGlyph(name, gs, tolerance, stats)
		if err != nil {
			return stats, err
		}
	}
	for _, f := range fonts {
		f.SegmentType = ufo.QCurve
	}
	return stats, nil
}

func quadGlyph(name string, gs []*ufo.Glyph, tolerance float64, stats *Stats) error {
	nContours := len(gs[0].Contours)
	for _, g := range gs[1:] {
		if len(g.Contours) != nContours {
			return &MismatchError{Glyph: name, Contour: -1, Reason: "number of contours differs"}
		}
	}

	changed := make([]bool, len(gs))
	for ci := 0; ci < nContours; ci++ {
		paths := make([]*path, len(gs))
		for k, g := range gs {
			paths[k] = parse(g.Contours[ci])
		}
		for _, p := range paths[1:] {
			if !p.sameShape(paths[0]) {
				return &MismatchError{Glyph: name, Contour: ci, Reason: "segment structure differs"}
			}
		}

		for si, seg := range paths[0].segs {
			if seg.end.Type != ufo.Curve {
				continue
			}
			switch len(seg.off) {
			case 0:
				for _, p := range paths {
					p.segs[si].end.Type = ufo.Line
					p.changed = true
				}
				continue
			case 1:
				for _, p := range paths {
					p.segs[si].end.Type = ufo.QCurve
					p.changed = true
				}
				continue
			case 2:
				// handled below
			default:
				return &MismatchError{Glyph: name, Contour: ci,
					Reason: fmt.Sprintf("curve segment with %d control points", len(seg.off))}
			}

			cubics := make([][4]vec.Vec2, len(paths))
			for k, p := range paths {
				cubics[k] = p.segs[si].cubic()
			}
			n, dist := choosePieces(cubics, tolerance)
			stats.MaxError = math.Max(stats.MaxError, dist)
			for k, p := range paths {
				p.segs[si] = quadratic(p.segs[si], cubics[k], n)
				p.changed = true
			}
			stats.Segments += len(paths)
			stats.Pieces += n * len(paths)
		}

		for k, p := range paths {
			if p.changed {
				gs[k].Contours[ci] = p.contour()
				changed[k] = true
			}
		}
	}
	for _, c := range changed {
		if c {
			stats.Glyphs++
		}
	}
	return nil
}

// choosePieces returns the number of quadratic pieces needed to approximate
// all the given cubics, together with the resulting maximal error.
func choosePieces(cubics [][4]vec.Vec2, tolerance float64) (int, float64) {
	var dist float64
	for n := 1; n <= maxPieces; n++ {
		dist = 0
		for _, c := range cubics {
			dist = math.Max(dist, approxError(c, n))
			if dist > tolerance {
				break
			}
		}
		if dist <= tolerance {
			return n, dist
		}
	}
	return maxPieces, dist
}

// quadratic replaces a cubic segment by n quadratic pieces.  The on-curve
// points between pieces are written out explicitly.
func quadratic(seg segment, c [4]vec.Vec2, n int) segment {
	res := segment{end: seg.end}
	res.end.Type = ufo.QCurve
	for i := 0; i < n; i++ {
		t0 := float64(i) / float64(n)
		t1 := float64(i+1) / float64(n)
		piece := subCubic(c, t0, t1)
		q := midpointControl(piece)
		res.off = append(res.off, ufo.Point{X: q.X, Y: q.Y})
		if i < n-1 {
			res.off = append(res.off, ufo.Point{
				X:      piece[3].X,
				Y:      piece[3].Y,
				Type:   ufo.QCurve,
				Smooth: true,
			})
		}
	}
	return res
}

// ToCubic replaces all quadratic splines by cubic curves.  Implied on-curve
// points between consecutive control points are made explicit.  The
// conversion is exact.
func ToCubic(fonts []*ufo.Font) *Stats {
	stats := &Stats{}
	for _, f := range fonts {
		for _, name := range f.GlyphNames() {
			g := f.Glyphs[name]
			changed := false
			for ci, c := range g.Contours {
				p := parse(c)
				for si, seg := range p.segs {
					if seg.end.Type != ufo.QCurve {
						continue
					}
					p.segs[si] = elevate(seg)
					p.changed = true
					stats.Segments++
					stats.Pieces += max(len(seg.off), 1)
				}
				if p.changed {
					g.Contours[ci] = p.contour()
					changed = true
				}
			}
			if changed {
				stats.Glyphs++
			}
		}
		f.SegmentType = ufo.Curve
	}
	return stats
}

// elevate converts a quadratic spline segment into cubic segments.
func elevate(seg segment) segment {
	res := segment{end: seg.end}
	res.end.Type = ufo.Curve
	if len(seg.off) == 0 {
		res.end.Type = ufo.Line
		return res
	}

	a := seg.start
	for i, q := range seg.off {
		qv := toVec(q)
		var b vec.Vec2
		last := i == len(seg.off)-1
		if last {
			b = toVec(seg.end)
		} else {
			b = qv.Add(toVec(seg.off[i+1])).Mul(0.5)
		}
		c1 := a.Add(qv.Sub(a).Mul(2.0 / 3))
		c2 := b.Add(qv.Sub(b).Mul(2.0 / 3))
		res.off = append(res.off, ufo.Point{X: c1.X, Y: c1.Y}, ufo.Point{X: c2.X, Y: c2.Y})
		if !last {
			res.off = append(res.off, ufo.Point{X: b.X, Y: b.Y, Type: ufo.Curve, Smooth: true})
		}
		a = b
	}
	return res
}

func glyphNames(fonts []*ufo.Font) []string {
	seen := make(map[string]bool)
	for _, f := range fonts {
		for name := range f.Glyphs {
			seen[name] = true
		}
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
