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

package pipeline

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"

	"seehuhn.de/go/fontbatch/compile"
	"seehuhn.de/go/fontbatch/curves"
	"seehuhn.de/go/fontbatch/designspace"
	"seehuhn.de/go/fontbatch/report"
	"seehuhn.de/go/fontbatch/ufo"
)

// StaticFont is a font which is compiled to a static font file.
type StaticFont struct {
	// Name is the file name of the output, without extension.
	Name string

	Font *ufo.Font
}

// staticName returns the default file name of the static font for f.
func staticName(f *ufo.Font) string {
	return fileName(f.FamilyName) + "-" + fileName(f.StyleName)
}

// StaticFonts returns one static font for every source and one for every
// instance of doc.  The sources are used as they are read from disk.  The
// instances are interpolated after the glyphs and the kerning of the
// sources have been made compatible.
//
// Problems with individual glyphs or instances are returned in the
// second return value.  The error is non-nil only if the design space
// cannot be used at all.
func StaticFonts(doc *designspace.Document, opt *Options) ([]*StaticFont, []error, error) {
	if doc == nil {
		return nil, nil, ErrNoDocument
	}
	if opt == nil {
		opt = &Options{}
	}
	r := &run{
		opt:    opt,
		rep:    opt.Report,
		logger: opt.Logger,
		res:    &Result{},
		layers: make(map[string]string),
	}
	if r.logger == nil {
		r.logger = log.New(io.Discard)
	}
	err := r.load(doc)
	if err != nil {
		return nil, nil, err
	}

	var res []*StaticFont
	for _, src := range r.doc.Sources {
		f := src.Font.Clone()
		if src.Layer != "" && src.Layer != ufo.DefaultLayerName {
			f.StyleName = strings.TrimSpace(f.StyleName + " " + src.Layer)
		}
		f.Layers = nil
		res = append(res, &StaticFont{Name: staticName(f), Font: f})
	}
	if len(r.doc.Instances) == 0 {
		return res, nil, nil
	}

	r.rep.WriteTitleWith("Making source glyphs compatible", '\'')
	r.session.Glyphs()
	r.rep.NewLine()
	r.rep.WriteTitleWith("Decompose Mixed Glyphs", '\'')
	r.session.DecomposeMixed()
	r.rep.NewLine()
	r.rep.WriteTitleWith("Making source kerning compatible", '\'')
	r.session.Kerning()
	r.rep.NewLine()

	var errs []error
	r.rep.WriteTitleWith("Interpolate instances", '\'')
	for i, inst := range r.doc.Instances {
		style := inst.StyleName
		if style == "" {
			style = inst.Name
		}
		if style == "" {
			style = fmt.Sprintf("instance.%d", i)
		}
		f, err := r.session.Instance(inst.Location, style)
		if err != nil {
			errs = append(errs, err)
			r.rep.Writef("cannot interpolate %s: %v", style, err)
			continue
		}
		if inst.FamilyName != "" {
			f.FamilyName = inst.FamilyName
		}
		name := staticName(f)
		if inst.Filename != "" {
			base := filepath.Base(filepath.FromSlash(inst.Filename))
			name = strings.TrimSuffix(base, filepath.Ext(base))
		}
		r.rep.Write("Instance " + name)
		r.rep.Indent()
		report.WriteDict(r.rep, inst.Location)
		r.rep.Dedent()
		res = append(res, &StaticFont{Name: name, Font: f})
	}
	r.rep.NewLine()

	errs = append(r.session.Errors, errs...)
	return res, errs, nil
}

// CompileStatic compiles f to a static font file at dest.  The outlines
// are converted to the curve type of opt.Format first.  The font passed in
// is not modified.
//
// If the font cannot be compiled, the error is a [*CompileError].
func CompileStatic(ctx context.Context, f *ufo.Font, dest string, opt *Options) (string, error) {
	if opt == nil {
		opt = &Options{}
	}
	r := &run{
		opt:    opt,
		rep:    opt.Report,
		logger: opt.Logger,
	}
	if r.logger == nil {
		r.logger = log.New(io.Discard)
	}
	wrap := func(err error) error {
		return &CompileError{Source: f.Name(), Format: opt.Format, Err: err}
	}

	work := f.Clone()
	removed := work.PruneSkipExport()
	if len(removed) > 0 {
		r.rep.Writef("%s: removed glyphs which are not exported: %s",
			work.Name(), strings.Join(removed, ", "))
	}
	form, err := curves.FormFor(opt.Format)
	if err != nil {
		return "", wrap(err)
	}
	_, err = curves.Convert([]*ufo.Font{work}, form, opt.Tolerance)
	if err != nil {
		return "", wrap(err)
	}

	err = os.MkdirAll(filepath.Dir(dest), 0o755)
	if err != nil {
		return "", wrap(err)
	}
	res, err := r.compiler().Compile(ctx, work, &compile.Options{
		Format:     opt.Format,
		Autohint:   opt.Autohint,
		Release:    opt.Release,
		GlyphOrder: opt.GlyphOrder,
		Output:     dest,
	})
	if err != nil {
		r.rep.Write("Generate failed " + filepath.Base(dest))
		r.rep.Indent()
		r.rep.Write(err.Error())
		r.rep.Dedent()
		return "", wrap(err)
	}
	if len(res.Skipped) > 0 {
		r.logger.Warn("code points not mapped", "font", f.Name(), "count", len(res.Skipped))
	}
	r.rep.Write("Generate " + filepath.Base(dest))
	return res.Path, nil
}
