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
	"slices"

	"seehuhn.de/go/fontbatch/ufo"
)

// DecomposeMixed replaces the components of glyphs which have both
// contours and components by contours.  A glyph which is mixed in any
// source is decomposed in all sources, so that the sources stay
// compatible.
func (s *Session) DecomposeMixed() {
	mixed := make(map[string]bool)
	for _, src := range s.Doc.Sources {
		for name, g := range src.Font.Glyphs {
			if g.IsMixed() {
				mixed[name] = true
			}
		}
	}
	if len(mixed) == 0 {
		return
	}
	names := make([]string, 0, len(mixed))
	for name := range mixed {
		names = append(names, name)
	}
	slices.Sort(names)

	for _, src := range s.Doc.Sources {
		// Decompose from copies, so that the result does not depend on the
		// order in which glyphs are processed.
		orig := make(map[string]*ufo.Glyph, len(src.Font.Glyphs))
		for name, g := range src.Font.Glyphs {
			orig[name] = g.Clone()
		}
		for _, name := range names {
			g, ok := src.Font.Glyphs[name]
			if !ok || len(g.Components) == 0 {
				continue
			}
			g.Decompose(orig)
			s.Report.Writef("%s: decomposed glyph %q", src.DisplayName(), name)
		}
	}
	s.InvalidateGlyphs()
}
