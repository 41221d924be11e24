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

import "seehuhn.de/go/geom/matrix"

// DecomposeComponent replaces the i-th component of g by the contours of its
// base glyph, looked up in glyphs.  Nested components are resolved
// recursively.  References which form a cycle, and references to glyphs
// not present in glyphs, contribute no contours.
func (g *Glyph) DecomposeComponent(glyphs map[string]*Glyph, i int) {
	comp := g.Components[i]
	seen := map[string]bool{g.Name: true}
	contours := flatten(glyphs, comp.Base, comp.Transform, seen)
	g.Contours = append(g.Contours, contours...)
	g.Components = append(g.Components[:i:i], g.Components[i+1:]...)
}

// Decompose replaces all components of g by contours.
func (g *Glyph) Decompose(glyphs map[string]*Glyph) {
	for len(g.Components) > 0 {
		g.DecomposeComponent(glyphs, 0)
	}
}

// flatten returns the contours of the named glyph, including the contours
// of all nested components, mapped through m.
func flatten(glyphs map[string]*Glyph, name string, m matrix.Matrix, seen map[string]bool) []Contour {
	base, ok := glyphs[name]
	if !ok || seen[name] {
		return nil
	}
	seen[name] = true
	defer delete(seen, name)

	var res []Contour
	for _, c := range base.Contours {
		res = append(res, c.Transform(m))
	}
	for _, comp := range base.Components {
		// The nested transform is applied first, then the parent one.
		res = append(res, flatten(glyphs, comp.Base, comp.Transform.Mul(m), seen)...)
	}
	return res
}
