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

	"seehuhn.de/go/fontbatch/designspace"
	"seehuhn.de/go/fontbatch/report"
	"seehuhn.de/go/fontbatch/ufo"
	"seehuhn.de/go/fontbatch/webfont"
)

// Formats lists the output formats understood by [Batch].
var Formats = []string{"otf", "ttf", "otf-woff", "ttf-woff"}

// ParseFormat splits a batch format into the format of the variable font
// and a flag which indicates whether the font is wrapped as WOFF.
func ParseFormat(format string) (string, bool, error) {
	base, wrap, _ := strings.Cut(format, "-")
	switch {
	case base != "otf" && base != "ttf":
		// pass
	case wrap == "":
		return base, false, nil
	case wrap == "woff":
		return base, true, nil
	}
	return "", false, fmt.Errorf("unsupported output format %q", format)
}

// Batch generates variable and static fonts for several design spaces,
// UFO fonts and formats.
type Batch struct {
	// Designspaces lists .designspace files to read.
	Designspaces []string

	// Documents lists design spaces which have been read already.  They
	// are processed after the files in Designspaces.
	Documents []*designspace.Document

	// UFOs lists .ufo fonts which are compiled to static fonts.
	UFOs []string

	// Static also generates static fonts for the sources and the instances
	// of every design space, see [StaticFonts].
	Static bool

	// NoVariable disables the generation of variable fonts.
	NoVariable bool

	// Root is the output directory.
	Root string

	// Formats lists the formats to generate, see [Formats].
	Formats []string

	// Suffix is appended to the name of every variable font.
	Suffix string

	// StaticSuffix is appended to the name of every static font.
	StaticSuffix string

	// SubFolders places the fonts of every format into a sub-directory of
	// Root named after the format.  Static fonts go into the directory
	// "static" first.
	SubFolders bool

	// Options is used for every call to [Generate].  The Format and Report
	// fields are set by the batch.
	Options Options

	Report   *report.Report
	Progress report.Progress
}

// BatchResult describes the outcome of a batch.
type BatchResult struct {
	// Outputs lists the fonts written.
	Outputs []string

	// Runs holds the results of the individual calls to [Generate].
	Runs []*Result

	// Errors lists the errors of all runs, and the errors encountered while
	// reading design spaces.
	Errors []error
}

// Count returns the number of errors of the given kind.
func (r *BatchResult) Count(kind ErrorKind) int {
	return countKind(r.Errors, kind)
}

// task is a single font to generate.  Exactly one of doc and font is set.
type task struct {
	doc    *designspace.Document
	font   *ufo.Font
	name   string
	format string
}

// Run processes all UFO fonts and design spaces.  Failures of individual
// fonts, design spaces or formats are recorded in the result and do not
// stop the batch.  If ctx
// is cancelled, Run returns after the current font has been generated.
func (b *Batch) Run(ctx context.Context) (*BatchResult, error) {
	for _, format := range b.Formats {
		_, _, err := ParseFormat(format)
		if err != nil {
			return nil, err
		}
	}
	logger := b.Options.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	progress := b.Progress
	if progress == nil {
		progress = report.NoProgress
	}
	res := &BatchResult{}

	var tasks []task
	addStatic := func(sf *StaticFont) {
		for _, format := range b.Formats {
			tasks = append(tasks, task{
				font:   sf.Font,
				name:   sf.Name + b.StaticSuffix,
				format: format,
			})
		}
	}

	for _, path := range b.UFOs {
		f, err := ufo.Read(path)
		if err == nil && (f.FamilyName == "" || f.StyleName == "") {
			err = fmt.Errorf("%s: no family name or style name", path)
		}
		if err != nil {
			logger.Error("cannot read font", "path", path, "err", err)
			b.Report.Writef("cannot read %s: %v", path, err)
			res.Errors = append(res.Errors, err)
			continue
		}
		addStatic(&StaticFont{Name: staticName(f), Font: f})
	}

	docs := make([]*designspace.Document, 0, len(b.Designspaces)+len(b.Documents))
	for _, path := range b.Designspaces {
		doc, err := designspace.Read(path)
		if err != nil {
			logger.Error("cannot read design space", "path", path, "err", err)
			b.Report.Writef("cannot read %s: %v", path, err)
			res.Errors = append(res.Errors, err)
			continue
		}
		docs = append(docs, doc)
	}
	docs = append(docs, b.Documents...)

	for _, doc := range docs {
		for _, sub := range doc.Split() {
			if !b.NoVariable {
				for _, format := range b.Formats {
					tasks = append(tasks, task{
						doc:    sub.Document,
						name:   doc.Name() + sub.Suffix + b.Suffix,
						format: format,
					})
				}
			}
			if !b.Static {
				continue
			}
			opt := b.Options
			opt.Report = b.Report
			opt.Logger = logger
			fonts, errs, err := StaticFonts(sub.Document, &opt)
			res.Errors = append(res.Errors, errs...)
			if err != nil {
				logger.Error("cannot prepare static fonts", "designspace", doc.Path, "err", err)
				b.Report.Writef("%s%s: no static fonts: %v", doc.Name(), sub.Suffix, err)
				res.Errors = append(res.Errors, err)
				continue
			}
			for _, sf := range fonts {
				addStatic(sf)
			}
		}
	}

	for i, t := range tasks {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		progress.Update(fmt.Sprintf("%s (%s)", t.name, t.format))
		progress.Tick(i, len(tasks))

		out, run, err := b.generate(ctx, t, logger)
		if run != nil {
			res.Runs = append(res.Runs, run)
			res.Errors = append(res.Errors, run.Errors...)
		} else if err != nil {
			res.Errors = append(res.Errors, err)
		}
		if err != nil {
			logger.Error("generation failed", "font", t.name, "format", t.format, "err", err)
			b.Report.Writef("%s (%s) failed: %v", t.name, t.format, err)
			b.Report.NewLine()
			continue
		}
		res.Outputs = append(res.Outputs, out)
	}
	progress.Tick(len(tasks), len(tasks))
	return res, nil
}

func (b *Batch) generate(ctx context.Context, t task, logger *log.Logger) (string, *Result, error) {
	format, wrap, _ := ParseFormat(t.format)
	dir := b.Root
	if b.SubFolders {
		if t.font != nil {
			dir = filepath.Join(dir, "static")
		}
		dir = filepath.Join(dir, t.format)
	}
	final := filepath.Join(dir, t.name+"."+format)
	dest := final
	if wrap {
		dest = filepath.Join(dir, "temp_"+t.name+"."+format)
	}

	b.Report.WriteTitle(fmt.Sprintf("%s (%s)", t.name, t.format))
	b.Report.NewLine()

	opt := b.Options
	opt.Format = format
	opt.Report = b.Report
	opt.Logger = logger
	// Cancellation only takes effect between fonts.
	ctx = context.WithoutCancel(ctx)

	var run *Result
	var out string
	var err error
	if t.font != nil {
		out, err = CompileStatic(ctx, t.font, dest, &opt)
	} else {
		run, err = Generate(ctx, t.doc, dest, &opt)
		out = run.Output
	}
	if err != nil {
		return "", run, err
	}
	if !wrap {
		return out, run, nil
	}

	final = strings.TrimSuffix(final, "."+format) + ".woff"
	err = writeWOFF(final, out)
	if !b.Options.Debug {
		removeFile(logger, out)
	}
	if err != nil {
		if t.font != nil {
			return "", nil, &CompileError{Source: t.font.Name(), Format: t.format, Err: err}
		}
		err = &AssemblyError{Designspace: t.doc.Path, Format: t.format, Err: err}
		run.Errors = append(run.Errors, err)
		run.Output = ""
		return "", run, err
	}
	if run != nil {
		run.Output = final
	}
	return final, run, nil
}

func removeFile(logger *log.Logger, path string) {
	err := os.Remove(path)
	if err != nil && !os.IsNotExist(err) {
		logger.Warn("cannot remove temporary file", "path", path, "err", err)
	}
}

func writeWOFF(dst, src string) (err error) {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer func() {
		err2 := out.Close()
		if err == nil {
			err = err2
		}
		if err != nil {
			os.Remove(dst)
		}
	}()
	return webfont.WOFF(out, in, webfont.Version{Major: 1})
}

// Job is a batch running in the background.
type Job struct {
	done   chan struct{}
	cancel context.CancelFunc
	res    *BatchResult
	err    error
}

// Start runs the batch on a new goroutine.
func (b *Batch) Start(ctx context.Context) *Job {
	ctx, cancel := context.WithCancel(ctx)
	j := &Job{
		done:   make(chan struct{}),
		cancel: cancel,
	}
	go func() {
		defer close(j.done)
		defer cancel()
		j.res, j.err = b.Run(ctx)
	}()
	return j
}

// Cancel asks the batch to stop after the current font.
func (j *Job) Cancel() {
	j.cancel()
}

// Wait blocks until the batch has finished and returns its result.
func (j *Job) Wait() (*BatchResult, error) {
	<-j.done
	return j.res, j.err
}
