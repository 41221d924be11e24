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

	"seehuhn.de/go/fontbatch/designspace"
	"seehuhn.de/go/fontbatch/interp"
	"seehuhn.de/go/fontbatch/ufo"
)

// Glyphs makes the glyph sets of all sources compatible.
//
// Every glyph name found in any source is added to every source which
// lacks it, or which mutes it.  The new outline is interpolated from the
// sources which have the glyph, at the location of the receiving source.
// Contours with differing segment types are made compatible by converting
// line segments to curves.
//
// Glyphs whose outlines cannot be matched are removed from all sources and
// recorded as an [IncompatibleOutlineError].  Glyphs for which no
// interpolation model can be built are removed as well.
func (s *Session) Glyphs() {
	names := make(map[string]bool)
	for _, src := range s.Doc.Sources {
		for name := range src.Font.Glyphs {
			names[name] = true
		}
	}
	sorted := make([]string, 0, len(names))
	for name := range names {
		sorted = append(sorted, name)
	}
	slices.Sort(sorted)

	for _, name := range sorted {
		s.glyph(name)
	}
}

func (s *Session) glyph(name string) {
	var present, missing []*designspace.Source
	for _, src := range s.Doc.Sources {
		if src.Font.Has(name) && !src.IsMuted(name) {
			present = append(present, src)
		} else {
			missing = append(missing, src)
		}
	}
	if len(present) == 0 {
		s.fail(&SampleError{Item: name, Err: &interp.InsufficientSamplesError{Key: name}})
		s.RemoveGlyph(name)
		return
	}

	if !s.matchGlyph(name, present) {
		return
	}

	if len(missing) > 0 {
		samples, template := s.majority(name, present)
		model, err := s.GlyphModels.Get(name, func() (*interp.Model, error) {
			return interp.New(samples, interp.WithOrigin(s.origin()), interp.WithKey(name))
		})
		if err != nil {
			s.fail(&SampleError{Item: name, Err: err})
			s.RemoveGlyph(name)
			return
		}

		unicodes := s.unicodes(name, present)
		for _, src := range missing {
			v, err := model.Evaluate(src.Location)
			if err != nil {
				s.fail(&SampleError{Item: name, Err: err})
				s.RemoveGlyph(name)
				return
			}
			g := fromVector(template, v)
			g.Name = name
			old, ok := src.Font.Glyphs[name]
			switch {
			case ok && old.SameOutline(g):
				// replaced by an earlier run
				continue
			case ok:
				// muted: keep the metadata of the existing glyph
				old.CopyOutline(g)
				s.Report.Writef("%s: replaced muted glyph %q", src.DisplayName(), name)
			default:
				g.Unicodes = slices.Clone(unicodes)
				g.Lib = nil
				src.Font.Glyphs[name] = g
				s.Report.Writef("%s: added glyph %q", src.DisplayName(), name)
			}
			if model.Extrapolates(src.Location) {
				s.Report.Writef("%s: glyph %q extrapolated to %s", src.DisplayName(), name, src.Location)
			}
		}
	}

	s.matchGlyph(name, s.Doc.Sources)
}

// matchGlyph makes the outlines of a glyph compatible across the given
// sources.  If this is not possible, the glyph is removed from all sources
// and false is returned.
func (s *Session) matchGlyph(name string, sources []*designspace.Source) bool {
	members := make([]member, 0, len(sources))
	for _, src := range sources {
		if g, ok := src.Font.Glyphs[name]; ok {
			members = append(members, member{source: src.DisplayName(), glyph: g})
		}
	}
	rewrites, err := matchOutlines(name, members)
	if err != nil {
		s.fail(err)
		s.Report.Writef("removed glyph %q: %v", name, err)
		s.RemoveGlyph(name)
		return false
	}
	for _, r := range rewrites {
		s.Report.Writef("%s: glyph %q, contour %d: inserted %d off-curve points",
			r.source, name, r.contour, r.points)
	}
	return true
}

// majority returns the samples for the glyph model.  Only glyphs sharing the
// most common point structure are used.  The second return value is a
// glyph with this structure.
func (s *Session) majority(name string, present []*designspace.Source) ([]interp.Sample, *ufo.Glyph) {
	count := make(map[string]int)
	var order []string
	for _, src := range present {
		sig := signature(src.Font.Glyphs[name])
		if count[sig] == 0 {
			order = append(order, sig)
		}
		count[sig]++
	}
	best := order[0]
	for _, sig := range order[1:] {
		if count[sig] > count[best] {
			best = sig
		}
	}

	var samples []interp.Sample
	var template *ufo.Glyph
	for _, src := range present {
		g := src.Font.Glyphs[name]
		if signature(g) != best {
			s.Report.Writef("%s: glyph %q left out of the model, incompatible structure",
				src.DisplayName(), name)
			continue
		}
		if template == nil {
			template = g
		}
		samples = append(samples, interp.Sample{
			Location: src.Location,
			Value:    toVector(g),
		})
	}
	return samples, template
}

// unicodes returns the code points of a glyph, preferring the neutral
// source.
func (s *Session) unicodes(name string, present []*designspace.Source) []rune {
	if n := s.neutral(); n != nil {
		if g, ok := n.Font.Glyphs[name]; ok && len(g.Unicodes) > 0 {
			return g.Unicodes
		}
	}
	for _, src := range present {
		if g := src.Font.Glyphs[name]; len(g.Unicodes) > 0 {
			return g.Unicodes
		}
	}
	return nil
}
