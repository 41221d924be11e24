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
	"strings"

	"seehuhn.de/go/fontbatch/ufo"
)

// signature describes the point structure of a glyph.  Glyphs with the same
// signature can be interpolated.
func signature(g *ufo.Glyph) string {
	var b strings.Builder
	for _, c := range g.Contours {
		for _, p := range c {
			switch p.Type {
			case ufo.OffCurve:
				b.WriteByte('o')
			case ufo.Move:
				b.WriteByte('m')
			case ufo.Line:
				b.WriteByte('l')
			case ufo.Curve:
				b.WriteByte('c')
			case ufo.QCurve:
				b.WriteByte('q')
			}
		}
		b.WriteByte('|')
	}
	b.WriteByte('#')
	for _, c := range g.Components {
		b.WriteString(c.Base)
		b.WriteByte('|')
	}
	b.WriteByte('#')
	for _, a := range g.Anchors {
		b.WriteString(a.Name)
		b.WriteByte('|')
	}
	return b.String()
}

// toVector collects all coordinates of a glyph into one vector: advance
// width, contour points, component matrices and anchors.
func toVector(g *ufo.Glyph) []float64 {
	v := make([]float64, 0, 1+2*g.NumPoints()+6*len(g.Components)+2*len(g.Anchors))
	v = append(v, g.Width)
	for _, c := range g.Contours {
		for _, p := range c {
			v = append(v, p.X, p.Y)
		}
	}
	for _, c := range g.Components {
		v = append(v, c.Transform[:]...)
	}
	for _, a := range g.Anchors {
		v = append(v, a.X, a.Y)
	}
	return v
}

// fromVector returns a glyph with the structure of template and the
// coordinates from v.  The vector must have been produced by toVector for
// a glyph with the same signature.
func fromVector(template *ufo.Glyph, v []float64) *ufo.Glyph {
	g := template.Clone()
	g.Width = v[0]
	i := 1
	for _, c := range g.Contours {
		for j := range c {
			c[j].X, c[j].Y = v[i], v[i+1]
			i += 2
		}
	}
	for j := range g.Components {
		copy(g.Components[j].Transform[:], v[i:i+6])
		i += 6
	}
	for j := range g.Anchors {
		g.Anchors[j].X, g.Anchors[j].Y = v[i], v[i+1]
		i += 2
	}
	return g
}
