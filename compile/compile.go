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

// Package compile turns font sources into binary fonts.
//
// A [Compiler] converts a single master into a static font file.  An
// [Assembler] merges the compiled masters of a design space into a variable
// font.  The package contains a CFF-flavoured OpenType compiler written in
// Go, and adapters which run external tools.
package compile

import (
	"context"
	"fmt"

	"seehuhn.de/go/fontbatch/designspace"
	"seehuhn.de/go/fontbatch/ufo"
)

// Options control the compilation of a single master.
type Options struct {
	// Format is the file format to produce, "otf" or "ttf".
	Format string

	// Autohint asks the compiler to add hinting instructions, if it
	// supports this.
	Autohint bool

	// Release selects production settings over fast debug builds.
	Release bool

	// GlyphOrder gives the order of glyphs in the binary.  Glyphs not
	// listed are appended in alphabetical order.  If GlyphOrder is empty,
	// the order stored in the font is used.
	GlyphOrder []string

	// Layer is the name of the layer the font was read from, if this
	// is not the default layer.
	Layer string

	// Output is the path of the file to write.
	Output string
}

// Result describes a compiled master.
type Result struct {
	Path      string
	NumGlyphs int

	// Skipped lists code points which could not be mapped.
	Skipped []rune
}

// Compiler compiles a single font master.
type Compiler interface {
	Compile(ctx context.Context, font *ufo.Font, opt *Options) (*Result, error)
}

// AssemblyRequest describes a variable font to build.
type AssemblyRequest struct {
	// Doc gives the axes and named instances.  Sources without an entry in
	// Masters are left out of the variable font.
	Doc *designspace.Document

	// Masters maps source names to the paths of compiled masters.
	Masters map[string]string

	// Default is the name of the source at the default location.
	Default string

	// Designspace is the path at which the intermediate .designspace file
	// is written.
	Designspace string

	// Format is the file format of the masters and the output.
	Format string

	// Output is the path of the variable font.
	Output string
}

// Assembler builds the variation tables of a variable font from compiled
// masters.
type Assembler interface {
	Assemble(ctx context.Context, req *AssemblyRequest) (string, error)
}

// UnsupportedFormatError is returned by compilers which cannot produce the
// requested file format.
type UnsupportedFormatError struct {
	Compiler string
	Format   string
}

func (err *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("%s: unsupported format %q", err.Compiler, err.Format)
}

// ByFormat dispatches to a compiler based on the requested format.
type ByFormat map[string]Compiler

// Compile implements the [Compiler] interface.
func (c ByFormat) Compile(ctx context.Context, font *ufo.Font, opt *Options) (*Result, error) {
	sub, ok := c[opt.Format]
	if !ok {
		return nil, &UnsupportedFormatError{Compiler: "compile", Format: opt.Format}
	}
	return sub.Compile(ctx, font, opt)
}
