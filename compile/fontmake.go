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

package compile

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"strings"

	"github.com/charmbracelet/log"

	"seehuhn.de/go/fontbatch/ufo"
)

// DefaultFontmakeCommand is the command used by [Fontmake].
var DefaultFontmakeCommand = []string{"fontmake"}

// Fontmake compiles masters by writing them to disk and running fontmake.
// It supports both "otf" and "ttf" output.
type Fontmake struct {
	// Command is the program and leading arguments to run.  If empty,
	// DefaultFontmakeCommand is used.
	Command []string

	Logger *log.Logger
}

// Compile implements the [Compiler] interface.  The UFO is written next to
// the output file and removed afterwards.
func (m *Fontmake) Compile(ctx context.Context, f *ufo.Font, opt *Options) (*Result, error) {
	switch opt.Format {
	case "otf", "ttf":
		// pass
	default:
		return nil, &UnsupportedFormatError{Compiler: "fontmake", Format: opt.Format}
	}

	work := f.Clone()
	if len(opt.GlyphOrder) > 0 {
		order := make([]interface{}, len(opt.GlyphOrder))
		for i, name := range opt.GlyphOrder {
			order[i] = name
		}
		work.Lib[ufo.GlyphOrderKey] = order
	}
	src := strings.TrimSuffix(opt.Output, "."+opt.Format) + ".ufo"
	err := work.Write(src)
	if err != nil {
		return nil, err
	}
	defer os.RemoveAll(src)

	cmd := m.Command
	if len(cmd) == 0 {
		cmd = DefaultFontmakeCommand
	}
	args := append([]string{}, cmd[1:]...)
	args = append(args, "-u", src, "-o", opt.Format, "--output-path", opt.Output)
	if opt.Autohint {
		args = append(args, "--autohint")
	}
	if !opt.Release {
		args = append(args, "--no-production-names")
	}

	if m.Logger != nil {
		m.Logger.Debug("running fontmake", "font", f.Name(), "format", opt.Format)
	}
	c := exec.CommandContext(ctx, cmd[0], args...)
	out := &bytes.Buffer{}
	c.Stdout = out
	c.Stderr = out
	err = c.Run()
	if err != nil {
		return nil, &ToolError{Tool: cmd[0], Err: err, Output: lastLines(out.String(), 10)}
	}
	return &Result{Path: opt.Output, NumGlyphs: len(work.Glyphs)}, nil
}
