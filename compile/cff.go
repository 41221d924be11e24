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
	"context"
	"fmt"
	"math"
	"os"
	"slices"
	"strings"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/postscript/funit"
	"seehuhn.de/go/postscript/type1"
	"seehuhn.de/go/sfnt"
	"seehuhn.de/go/sfnt/cff"
	"seehuhn.de/go/sfnt/cmap"
	"seehuhn.de/go/sfnt/glyph"
	"seehuhn.de/go/sfnt/os2"

	"seehuhn.de/go/fontbatch/curves"
	"seehuhn.de/go/fontbatch/ufo"
)

// CFF compiles masters into OpenType fonts with CFF outlines.
//
// Components are decomposed, quadratic curves are converted to cubic
// curves and all coordinates are rounded to integers.  Kerning and other
// layout features are not compiled.
type CFF struct{}

// Compile implements the [Compiler] interface.
func (CFF) Compile(ctx context.Context, f *ufo.Font, opt *Options) (*Result, error) {
	if opt.Format != "otf" {
		return nil, &UnsupportedFormatError{Compiler: "cff", Format: opt.Format}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	info, skipped, err := Build(f, opt.GlyphOrder)
	if err != nil {
		return nil, err
	}

	fd, err := os.Create(opt.Output)
	if err != nil {
		return nil, err
	}
	_, err = info.Write(fd)
	if err != nil {
		fd.Close()
		return nil, err
	}
	err = fd.Close()
	if err != nil {
		return nil, err
	}

	return &Result{
		Path:      opt.Output,
		NumGlyphs: len(info.Outlines.(*cff.Outlines).Glyphs),
		Skipped:   skipped,
	}, nil
}

// Build converts a font into an sfnt font with CFF outlines.  The second
// return value lists the code points outside the Basic Multilingual Plane,
// which cannot be represented in the format 4 cmap subtable.
func Build(f *ufo.Font, order []string) (*sfnt.Font, []rune, error) {
	work := f.Clone()
	curves.ToCubic([]*ufo.Font{work})

	upem := f.UnitsPerEm
	if upem <= 0 {
		upem = 1000
	}

	names := glyphOrder(work, order)
	outlines := &cff.Outlines{
		FDSelect: func(glyph.ID) int { return 0 },
		Encoding: make([]glyph.ID, 256),
	}
	cmapSubtable := cmap.Format4{}
	var skipped []rune
	for i, name := range names {
		gid := glyph.ID(i)

		src, ok := work.Glyphs[name]
		if !ok {
			// only .notdef can be missing
			outlines.Glyphs = append(outlines.Glyphs, notdef(upem))
			continue
		}
		g := src.Clone()
		g.Decompose(work.Glyphs)
		g.Round()

		cg := cff.NewGlyph(name, g.Width)
		for ci, c := range g.Contours {
			err := drawContour(cg, c)
			if err != nil {
				return nil, nil, fmt.Errorf("glyph %q, contour %d: %w", name, ci, err)
			}
		}
		outlines.Glyphs = append(outlines.Glyphs, cg)

		for _, r := range g.Unicodes {
			if r > 0xFFFF {
				skipped = append(skipped, r)
				continue
			}
			if _, seen := cmapSubtable[uint16(r)]; !seen {
				cmapSubtable[uint16(r)] = gid
			}
			if r < 256 && outlines.Encoding[r] == 0 {
				outlines.Encoding[r] = gid
			}
		}
	}
	outlines.Private = []*type1.PrivateDict{privateDict(f)}

	q := 1 / upem
	isItalic := f.ItalicAngle != 0 || strings.Contains(f.StyleName, "Italic")
	isBold := strings.Contains(f.StyleName, "Bold")
	weight := os2.WeightNormal
	if isBold {
		weight = os2.WeightBold
	}
	familyName := f.FamilyName
	if familyName == "" {
		familyName = "Untitled"
	}
	info := &sfnt.Font{
		FamilyName:         familyName,
		Width:              os2.WidthNormal,
		Weight:             weight,
		IsItalic:           isItalic,
		IsBold:             isBold,
		IsRegular:          !isItalic && !isBold,
		UnitsPerEm:         uint16(math.Round(upem)),
		Ascent:             funit.Int16(math.Round(f.Ascender)),
		Descent:            funit.Int16(math.Round(f.Descender)),
		CapHeight:          funit.Int16(math.Round(f.CapHeight)),
		XHeight:            funit.Int16(math.Round(f.XHeight)),
		ItalicAngle:        f.ItalicAngle,
		UnderlinePosition:  funit.Float64(math.Round(-0.075 * upem)),
		UnderlineThickness: funit.Float64(math.Round(0.05 * upem)),
		PermUse:            os2.PermInstall,
		FontMatrix:         matrix.Matrix{q, 0, 0, q, 0, 0},
		Outlines:           outlines,
		CMapTable: cmap.Table{
			{PlatformID: 0, EncodingID: 3}: cmapSubtable.Encode(0),
			{PlatformID: 3, EncodingID: 1}: cmapSubtable.Encode(0),
		},
	}
	return info, skipped, nil
}

// glyphOrder returns the glyph names in binary order, starting with
// ".notdef".
func glyphOrder(f *ufo.Font, order []string) []string {
	if len(order) == 0 {
		order = f.GlyphOrder()
	}
	seen := map[string]bool{".notdef": true}
	res := []string{".notdef"}
	for _, name := range order {
		if !seen[name] && f.Has(name) {
			res = append(res, name)
			seen[name] = true
		}
	}
	var rest []string
	for name := range f.Glyphs {
		if !seen[name] {
			rest = append(rest, name)
		}
	}
	slices.Sort(rest)
	return append(res, rest...)
}

// notdef draws the replacement glyph used by fonts without a .notdef glyph.
func notdef(upem float64) *cff.Glyph {
	w := math.Round(upem / 2)
	h := math.Round(0.7 * upem)
	s := math.Round(upem / 20)
	g := cff.NewGlyph(".notdef", w)
	g.MoveTo(s, 0)
	g.LineTo(w-s, 0)
	g.LineTo(w-s, h)
	g.LineTo(s, h)
	g.MoveTo(2*s, s)
	g.LineTo(2*s, h-s)
	g.LineTo(w-2*s, h-s)
	g.LineTo(w-2*s, s)
	return g
}

// privateDict sets up alignment zones from the vertical metrics.
func privateDict(f *ufo.Font) *type1.PrivateDict {
	const overshoot = 10
	blues := []funit.Int16{-overshoot, 0}
	for _, h := range []float64{f.XHeight, f.CapHeight} {
		if h <= 0 {
			continue
		}
		v := funit.Int16(math.Round(h))
		if v <= blues[len(blues)-1] {
			continue
		}
		blues = append(blues, v, v+overshoot)
	}
	return &type1.PrivateDict{
		BlueValues: blues,
		BlueScale:  0.039625,
		BlueShift:  7,
		BlueFuzz:   1,
	}
}

// drawContour appends a contour to a CFF glyph.  The contour must only use
// line and cubic curve segments.
func drawContour(g *cff.Glyph, c ufo.Contour) error {
	if len(c) == 0 {
		return nil
	}

	var start ufo.Point
	var pts []ufo.Point
	closed := c[0].Type != ufo.Move
	if closed {
		last := -1
		for i := len(c) - 1; i >= 0; i-- {
			if c[i].Type.IsOnCurve() {
				last = i
				break
			}
		}
		if last < 0 {
			return fmt.Errorf("contour without on-curve points")
		}
		start = c[last]
		pts = append(pts, c[last+1:]...)
		pts = append(pts, c[:last+1]...)
	} else {
		start = c[0]
		pts = c[1:]
	}

	g.MoveTo(start.X, start.Y)
	cur := start
	var off []ufo.Point
	for i, p := range pts {
		if !p.Type.IsOnCurve() {
			off = append(off, p)
			continue
		}
		switch len(off) {
		case 0:
			// CFF contours are closed implicitly
			if !closed || i < len(pts)-1 {
				g.LineTo(p.X, p.Y)
			}
		case 1:
			q := off[0]
			g.CurveTo(
				cur.X+2.0/3*(q.X-cur.X), cur.Y+2.0/3*(q.Y-cur.Y),
				p.X+2.0/3*(q.X-p.X), p.Y+2.0/3*(q.Y-p.Y),
				p.X, p.Y)
		case 2:
			g.CurveTo(off[0].X, off[0].Y, off[1].X, off[1].Y, p.X, p.Y)
		default:
			return fmt.Errorf("segment with %d control points", len(off))
		}
		cur = p
		off = nil
	}
	return nil
}
