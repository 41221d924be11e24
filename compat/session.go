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

// Package compat makes the sources of a design space interpolation
// compatible.
//
// After the steps of this package have run, every source contains the same
// glyphs and kerning pairs, and corresponding glyphs have the same contour
// structure.  Missing glyphs and kerning values are synthesized by
// interpolating between the sources which have them.
package compat

import (
	"io"

	"github.com/charmbracelet/log"

	"seehuhn.de/go/fontbatch/designspace"
	"seehuhn.de/go/fontbatch/interp"
	"seehuhn.de/go/fontbatch/report"
	"seehuhn.de/go/fontbatch/ufo"
)

// Session holds the state shared by the compatibility steps for one design
// space.  The fonts of all sources must be loaded, and all locations must
// be complete (see [designspace.Document.Normalize]).  The steps modify the
// source fonts in place; callers pass in private copies.
type Session struct {
	Doc    *designspace.Document
	Report *report.Report
	Logger *log.Logger

	// GlyphModels and PairModels cache interpolation models by glyph name
	// and by kerning pair.
	GlyphModels *interp.Cache[string]
	PairModels  *interp.Cache[ufo.Pair]

	// Errors collects the recoverable errors of all steps.
	Errors []error
}

// NewSession prepares the compatibility steps for doc.  Report lines are
// written to rep, which may be nil.
func NewSession(doc *designspace.Document, rep *report.Report) *Session {
	return &Session{
		Doc:         doc,
		Report:      rep,
		Logger:      log.New(io.Discard),
		GlyphModels: interp.NewCache[string](),
		PairModels:  interp.NewCache[ufo.Pair](),
	}
}

// InvalidateGlyphs drops all cached glyph models.  This must be called
// after the outlines of the sources have been changed.
func (s *Session) InvalidateGlyphs() {
	s.GlyphModels = interp.NewCache[string]()
}

func (s *Session) fail(err error) {
	s.Errors = append(s.Errors, err)
	s.Logger.Warn("compatibility problem", "err", err)
}

func (s *Session) neutral() *designspace.Source {
	return s.Doc.NeutralSource()
}

func (s *Session) origin() designspace.Location {
	if n := s.neutral(); n != nil {
		return n.Location
	}
	return s.Doc.DefaultLocation()
}

// RemoveGlyph deletes a glyph from all sources.  References to the glyph
// are decomposed first.
func (s *Session) RemoveGlyph(name string) {
	for _, src := range s.Doc.Sources {
		src.Font.RemoveGlyph(name)
	}
	s.GlyphModels.Forget(name)
}
