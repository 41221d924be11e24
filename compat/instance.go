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
	"errors"

	"seehuhn.de/go/fontbatch/designspace"
	"seehuhn.de/go/fontbatch/interp"
	"seehuhn.de/go/fontbatch/ufo"
)

// Instance interpolates a complete font at loc.  The sources must have been
// made compatible by [Session.Glyphs] and [Session.Kerning].  Glyph order,
// groups and lib are taken from the neutral source.
//
// Glyphs which cannot be interpolated are left out of the instance and
// recorded in s.Errors.
func (s *Session) Instance(loc designspace.Location, styleName string) (*ufo.Font, error) {
	neutral := s.neutral()
	if neutral == nil {
		return nil, &designspace.NoSourcesError{Path: s.Doc.Path}
	}

	f := neutral.Font.Clone()
	f.StyleName = styleName
	f.Path = ""
	f.Layers = nil
	f.Glyphs = make(map[string]*ufo.Glyph, len(neutral.Font.Glyphs))
	f.Kerning = make(map[ufo.Pair]float64, len(neutral.Font.Kerning))

	infoSamples := make([]interp.Sample, 0, len(s.Doc.Sources))
	for _, src := range s.Doc.Sources {
		info := src.Font.Info
		infoSamples = append(infoSamples, interp.Sample{
			Location: src.Location,
			Value:    []float64{info.Ascender, info.Descender, info.CapHeight, info.XHeight, info.ItalicAngle},
		})
	}
	infoModel, err := interp.New(infoSamples, interp.WithOrigin(s.origin()), interp.WithKey("font info"))
	if err != nil {
		return nil, err
	}
	v, err := infoModel.Evaluate(loc)
	if err != nil {
		return nil, err
	}
	f.Ascender, f.Descender, f.CapHeight, f.XHeight, f.ItalicAngle = v[0], v[1], v[2], v[3], v[4]

	for name, ng := range neutral.Font.Glyphs {
		model, err := s.GlyphModels.Get(name, func() (*interp.Model, error) {
			var samples []interp.Sample
			sig := signature(ng)
			for _, src := range s.Doc.Sources {
				g, ok := src.Font.Glyphs[name]
				if !ok || src.IsMuted(name) || signature(g) != sig {
					continue
				}
				samples = append(samples, interp.Sample{Location: src.Location, Value: toVector(g)})
			}
			return interp.New(samples, interp.WithOrigin(s.origin()), interp.WithKey(name))
		})
		if err != nil {
			s.fail(&SampleError{Item: name, Err: err})
			continue
		}
		v, err := model.Evaluate(loc)
		if err != nil {
			s.fail(&SampleError{Item: name, Err: err})
			continue
		}
		f.Glyphs[name] = fromVector(ng, v)
	}

	for pair := range neutral.Font.Kerning {
		model, err := s.PairModels.Get(pair, func() (*interp.Model, error) {
			var samples []interp.Sample
			for _, src := range s.Doc.Sources {
				if v, ok := src.Font.Kerning[pair]; ok && !src.MuteKerning {
					samples = append(samples, interp.Sample{Location: src.Location, Value: []float64{v}})
				}
			}
			return interp.New(samples, interp.WithOrigin(s.origin()), interp.WithKey(pair.String()))
		})
		if errors.Is(err, interp.ErrInsufficientSamples) {
			// all sources mute their kerning: keep the neutral value
			f.Kerning[pair] = neutral.Font.Kerning[pair]
			continue
		} else if err != nil {
			s.fail(&SampleError{Item: "kerning " + pair.String(), Err: err})
			continue
		}
		v, err := model.Evaluate(loc)
		if err != nil {
			s.fail(&SampleError{Item: "kerning " + pair.String(), Err: err})
			continue
		}
		f.Kerning[pair] = v[0]
	}

	return f, nil
}
