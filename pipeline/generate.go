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

// Package pipeline generates variable fonts from design spaces.
//
// [Generate] runs all steps for a single design space and output format:
// the sources are loaded and made compatible, the masters are compiled to
// static fonts and the static fonts are assembled into a variable font.
// [Batch] runs Generate for many design spaces and formats.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/kovidgoyal/go-parallel"

	"seehuhn.de/go/fontbatch/compat"
	"seehuhn.de/go/fontbatch/compile"
	"seehuhn.de/go/fontbatch/curves"
	"seehuhn.de/go/fontbatch/designspace"
	"seehuhn.de/go/fontbatch/report"
	"seehuhn.de/go/fontbatch/ufo"
)

// Options control the generation of a variable font.
type Options struct {
	// Format is the output format, "otf" or "ttf".
	Format string

	// Compiler compiles the masters.  If nil, the CFF compiler is used for
	// "otf" and fontmake for "ttf".
	Compiler compile.Compiler

	// Assembler builds the variable font.  If nil, fontTools varLib is
	// used.
	Assembler compile.Assembler

	Autohint bool
	Release  bool

	// GlyphOrder overrides the glyph order of the output.  If empty, the
	// glyph order of the default source is used, followed by the remaining
	// glyphs in alphabetical order.
	GlyphOrder []string

	// FitToExtremes adds interpolated masters at the ends of all axes
	// which do not have a source there.
	FitToExtremes bool

	// Tolerance is the maximal error for the conversion of cubic to
	// quadratic curves, in font units.  If zero, curves.DefaultTolerance
	// is used.
	Tolerance float64

	// Debug keeps all intermediate files.
	Debug bool

	// Report receives the human readable log of the run.  It may be nil.
	Report *report.Report

	Logger *log.Logger
}

// Result describes the outcome of [Generate].
type Result struct {
	// State is the last stage which was completed.
	State State

	// Output is the path of the variable font, or empty if no font was
	// written.
	Output string

	// Masters lists the names of the sources included in the variable
	// font.  Excluded lists the sources which failed to compile.
	Masters  []string
	Excluded []string

	// Errors lists all errors encountered, recoverable or not.
	Errors []error
}

// Count returns the number of errors of the given kind.
func (r *Result) Count(kind ErrorKind) int {
	return countKind(r.Errors, kind)
}

type run struct {
	doc     *designspace.Document
	dest    string
	opt     *Options
	rep     *report.Report
	logger  *log.Logger
	session *compat.Session
	res     *Result

	order   []string
	layers  map[string]string // source name -> layer name
	masters map[string]string // source name -> compiled binary
	tmp     string

	// extra lists intermediate files outside tmp.
	extra []string
}

// Generate builds a variable font from the sources of doc and writes it to
// dest.  The document and the source fonts passed in are not modified.
// Sources without a font are read from disk.
//
// Recoverable problems are recorded in the result.  If the variable font
// cannot be built, the returned error is an [*AssemblyError] (or the error
// found while loading the design space).  A non-nil result is returned in
// all cases.
func Generate(ctx context.Context, doc *designspace.Document, dest string, opt *Options) (res *Result, err error) {
	if doc == nil {
		return &Result{Errors: []error{ErrNoDocument}}, ErrNoDocument
	}
	if opt == nil {
		opt = &Options{}
	}
	r := &run{
		dest:   dest,
		opt:    opt,
		rep:    opt.Report,
		logger: opt.Logger,
		res:    &Result{},
		layers: make(map[string]string),
	}
	if r.logger == nil {
		r.logger = log.New(io.Discard)
	}
	res = r.res

	defer func() {
		if opt.Debug {
			return
		}
		r.cleanup()
		if err == nil {
			r.advance(Cleaned)
		}
	}()
	defer func() {
		if rec := recover(); rec != nil {
			err = &AssemblyError{
				Designspace: doc.Path,
				Format:      opt.Format,
				Err:         parallel.Format_stacktrace_on_panic(rec, 1),
			}
		}
		if r.session != nil {
			res.Errors = append(slices.Clone(r.session.Errors), res.Errors...)
		}
		if err != nil {
			res.Errors = append(res.Errors, err)
		}
	}()

	err = r.load(doc)
	if err != nil {
		return res, err
	}
	r.advance(Loaded)

	r.rep.WriteTitleWith("Making source glyphs compatible", '\'')
	r.session.Glyphs()
	r.rep.NewLine()
	r.advance(GlyphsCompatibilized)

	r.rep.WriteTitleWith("Decompose Mixed Glyphs", '\'')
	r.session.DecomposeMixed()
	r.rep.NewLine()
	r.advance(Decomposed)

	err = r.convertCurves()
	if err != nil {
		return res, r.fatal(err)
	}
	r.advance(CurvesConverted)

	r.rep.WriteTitleWith("Making source kerning compatible", '\'')
	r.session.Kerning()
	r.rep.NewLine()
	r.advance(KerningCompatibilized)

	if FixDefault(r.doc, r.rep) {
		r.logger.Info("moved the default location to the neutral source",
			"designspace", r.doc.Name(), "location", r.doc.DefaultLocation())
	}
	r.advance(DefaultFixedUp)

	err = r.materialize()
	if err != nil {
		return res, r.fatal(err)
	}
	r.advance(LayersMaterialized)

	err = r.compileMasters(ctx)
	if err != nil {
		return res, r.fatal(err)
	}
	r.advance(MastersCompiled)

	err = r.assemble(ctx)
	if err != nil {
		return res, err
	}
	r.advance(Assembled)

	return res, nil
}

func (r *run) advance(s State) {
	r.res.State = s
	r.logger.Debug("pipeline", "state", s, "designspace", r.doc.Name(), "format", r.opt.Format)
}

func (r *run) fatal(err error) error {
	return &AssemblyError{Designspace: r.doc.Path, Format: r.opt.Format, Err: err}
}

// load prepares a private copy of the document, with loaded and
// normalized sources.
func (r *run) load(doc *designspace.Document) error {
	// Keep a usable document for logging, even if validation fails.
	r.doc = doc

	err := doc.Validate()
	if err != nil {
		return err
	}
	work := doc.Clone()
	work.Normalize()
	for i, src := range work.Sources {
		if src.Name == "" {
			src.Name = fmt.Sprintf("source.%d", i)
		}
		if src.Font == nil {
			continue
		}
		f := src.Font.Clone()
		err := f.UseLayer(src.Layer)
		if err != nil {
			return fmt.Errorf("source %q: %w", src.DisplayName(), err)
		}
		src.Font = f
	}
	err = work.LoadFonts()
	if err != nil {
		return err
	}
	r.doc = work

	for _, src := range work.Sources {
		if src.FamilyName != "" {
			src.Font.FamilyName = src.FamilyName
		}
		if src.StyleName != "" {
			src.Font.StyleName = src.StyleName
		}
		removed := src.Font.PruneSkipExport()
		if len(removed) > 0 {
			r.rep.Writef("%s: removed glyphs which are not exported: %s",
				src.DisplayName(), strings.Join(removed, ", "))
		}
	}

	r.order = r.opt.GlyphOrder
	if len(r.order) == 0 {
		r.order = defaultGlyphOrder(work)
	}

	r.session = compat.NewSession(work, r.rep)
	r.session.Logger = r.logger
	return nil
}

// defaultGlyphOrder returns the glyph order of the neutral source, followed
// by all remaining glyph names in alphabetical order.
func defaultGlyphOrder(doc *designspace.Document) []string {
	var order []string
	seen := make(map[string]bool)
	if n := doc.NeutralSource(); n != nil {
		for _, name := range n.Font.GlyphOrder() {
			if !seen[name] {
				order = append(order, name)
				seen[name] = true
			}
		}
	}
	var rest []string
	for _, src := range doc.Sources {
		for name := range src.Font.Glyphs {
			if !seen[name] {
				rest = append(rest, name)
				seen[name] = true
			}
		}
	}
	slices.Sort(rest)
	return append(order, rest...)
}

func (r *run) convertCurves() error {
	form, err := curves.FormFor(r.opt.Format)
	if err != nil {
		return err
	}
	fonts := make([]*ufo.Font, len(r.doc.Sources))
	for i, src := range r.doc.Sources {
		fonts[i] = src.Font
	}
	stats, err := curves.Convert(fonts, form, r.opt.Tolerance)
	if err != nil {
		return err
	}
	r.session.InvalidateGlyphs()
	r.logger.Debug("converted curves",
		"form", form, "glyphs", stats.Glyphs, "segments", stats.Segments, "pieces", stats.Pieces)
	return nil
}

// FixDefault makes sure that a source is located at the default location
// of doc.  If there is none, the axis defaults are moved to the location of
// the neutral source.  FixDefault reports whether doc was changed.
func FixDefault(doc *designspace.Document, rep *report.Report) bool {
	if _, ok := doc.DefaultSource(); ok {
		return false
	}
	neutral := doc.NeutralSource()
	if neutral == nil {
		return false
	}
	loc := doc.Complete(neutral.Location)
	for _, a := range doc.Axes {
		a.Default = a.MapBackward(loc[a.Name])
	}
	// Avoid rounding differences between the mapped default and the
	// source location.
	neutral.Location = doc.DefaultLocation()

	rep.WriteTitleWith("Setting a source on the default", '\'')
	rep.Writef("%s is the new default source", neutral.DisplayName())
	user := make(map[string]float64, len(doc.Axes))
	for _, a := range doc.Axes {
		user[a.Name] = a.Default
	}
	report.WriteDict(rep, user)
	rep.NewLine()
	return true
}

// tempDir returns the directory for intermediate files of this run,
// creating it if needed.
func (r *run) tempDir() (string, error) {
	if r.tmp != "" {
		return r.tmp, nil
	}
	id, err := uuid.NewRandom()
	if err != nil {
		return "", err
	}
	dir := filepath.Join(filepath.Dir(r.dest), ".fontbatch-"+id.String())
	err = os.MkdirAll(dir, 0o755)
	if err != nil {
		return "", err
	}
	r.tmp = dir
	return dir, nil
}

func (r *run) cleanup() {
	if r.tmp != "" {
		err := os.RemoveAll(r.tmp)
		if err != nil {
			r.logger.Warn("cannot remove temporary files", "dir", r.tmp, "err", err)
		}
	}
	for _, path := range r.extra {
		err := os.Remove(path)
		if err != nil && !os.IsNotExist(err) {
			r.logger.Warn("cannot remove temporary file", "path", path, "err", err)
		}
	}
}

// materialize turns layer sources into standalone fonts, and adds
// interpolated sources at the axis extremes if requested.
func (r *run) materialize() error {
	for _, src := range r.doc.Sources {
		if src.Layer == "" || src.Layer == ufo.DefaultLayerName {
			continue
		}
		dir, err := r.tempDir()
		if err != nil {
			return err
		}
		base := strings.TrimSuffix(filepath.Base(src.Path), filepath.Ext(src.Path))
		if base == "" || base == "." {
			base = fileName(src.Font.Name())
		}
		src.Font.StyleName = strings.TrimSpace(src.Font.StyleName + " " + src.Layer)
		path := filepath.Join(dir, base+"-"+fileName(src.Layer)+".ufo")
		err = src.Font.Write(path)
		if err != nil {
			return err
		}
		r.logger.Debug("layer source written", "source", src.DisplayName(), "layer", src.Layer, "path", path)
		r.layers[src.Name] = src.Layer
		src.Path = path
		src.Filename = filepath.Base(path)
		src.Layer = ""
	}

	if !r.opt.FitToExtremes {
		return nil
	}
	r.rep.WriteTitleWith("Add sources at axes extremes", '\'')
	neutral := r.doc.NeutralSource()
	var added []*designspace.Source
	for _, loc := range r.doc.AxisExtremes() {
		if r.hasSourceAt(loc) {
			continue
		}
		name := fmt.Sprintf("source.%d", len(r.doc.Sources)+len(added))
		f, err := r.session.Instance(loc, name)
		if err != nil {
			r.session.Errors = append(r.session.Errors, err)
			r.rep.Writef("cannot interpolate %s: %v", loc, err)
			continue
		}
		r.rep.Write("Adding source at location:")
		r.rep.Indent()
		report.WriteDict(r.rep, loc)
		r.rep.Dedent()

		dir, err := r.tempDir()
		if err != nil {
			return err
		}
		path := filepath.Join(dir, name+".ufo")
		err = f.Write(path)
		if err != nil {
			return err
		}
		added = append(added, &designspace.Source{
			Name:       name,
			Filename:   filepath.Base(path),
			Path:       path,
			FamilyName: neutral.Font.FamilyName,
			StyleName:  name,
			Location:   loc,
			Font:       f,
		})
	}
	r.doc.Sources = append(r.doc.Sources, added...)
	r.rep.NewLine()
	return nil
}

func (r *run) hasSourceAt(loc designspace.Location) bool {
	for _, src := range r.doc.Sources {
		if r.doc.Complete(src.Location).Equal(loc) {
			return true
		}
	}
	return false
}

func (r *run) compiler() compile.Compiler {
	if r.opt.Compiler != nil {
		return r.opt.Compiler
	}
	return compile.ByFormat{
		"otf": compile.CFF{},
		"ttf": &compile.Fontmake{Logger: r.logger},
	}
}

func (r *run) assembler() compile.Assembler {
	if r.opt.Assembler != nil {
		return r.opt.Assembler
	}
	return &compile.VarLib{Logger: r.logger}
}

// compileMasters compiles every source to a static font.  Sources which
// fail to compile are excluded from the variable font.
func (r *run) compileMasters(ctx context.Context) error {
	dir, err := r.tempDir()
	if err != nil {
		return err
	}
	format := r.opt.Format
	c := r.compiler()
	r.masters = make(map[string]string, len(r.doc.Sources))

	r.rep.WriteTitleWith("Generate "+strings.ToUpper(format), '\'')
	for i, src := range r.doc.Sources {
		f := src.Font
		name := fileName(f.FamilyName) + "-" + fileName(f.StyleName)
		opt := &compile.Options{
			Format:     format,
			Autohint:   r.opt.Autohint,
			Release:    r.opt.Release,
			GlyphOrder: r.order,
			Layer:      r.layers[src.Name],
			Output:     filepath.Join(dir, fmt.Sprintf("temp_%d_%s.%s", i, name, format)),
		}
		res, err := c.Compile(ctx, f, opt)
		if err != nil {
			cErr := &CompileError{Source: src.DisplayName(), Format: format, Err: err}
			r.res.Errors = append(r.res.Errors, cErr)
			r.res.Excluded = append(r.res.Excluded, src.Name)
			r.logger.Warn("master excluded", "err", cErr)
			r.rep.Write("Generate failed " + name)
			r.rep.Indent()
			r.rep.Write(err.Error())
			r.rep.Dedent()
			continue
		}
		if len(res.Skipped) > 0 {
			r.logger.Warn("code points not mapped", "source", src.DisplayName(), "count", len(res.Skipped))
		}
		r.rep.Write("Generate " + name)
		r.masters[src.Name] = res.Path
		r.res.Masters = append(r.res.Masters, src.Name)
	}
	r.rep.NewLine()
	return nil
}

func (r *run) assemble(ctx context.Context) error {
	def, ok := r.doc.DefaultSource()
	if !ok {
		return r.fatal(ErrNoDefaultMaster)
	}
	if _, ok := r.masters[def.Name]; !ok {
		return r.fatal(fmt.Errorf("%w: %s", ErrNoDefaultMaster, def.DisplayName()))
	}

	err := os.MkdirAll(filepath.Dir(r.dest), 0o755)
	if err != nil {
		return r.fatal(err)
	}
	req := &compile.AssemblyRequest{
		Doc:         r.doc,
		Masters:     r.masters,
		Default:     def.Name,
		Designspace: r.dest + ".designspace",
		Format:      r.opt.Format,
		Output:      r.dest,
	}
	r.extra = append(r.extra, req.Designspace)
	out, err := r.assembler().Assemble(ctx, req)
	if err != nil {
		return r.fatal(err)
	}
	r.res.Output = out
	r.logger.Info("variable font written", "path", out, "masters", len(r.masters))
	return nil
}

// fileName replaces characters which are problematic in file names.
func fileName(s string) string {
	return strings.Map(func(c rune) rune {
		switch c {
		case ' ', '/', '\\', ':', '*', '?', '"', '<', '>', '|':
			return -1
		}
		return c
	}, s)
}
