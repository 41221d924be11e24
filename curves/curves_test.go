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

package curves

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"seehuhn.de/go/geom/matrix"

	"seehuhn.de/go/fontbatch/ufo"
)

func roundO(f *ufo.Font, m matrix.Matrix) *ufo.Glyph {
	g := f.NewGlyph("O")
	g.Width = 600
	g.Contours = []ufo.Contour{ufo.Contour{
		{X: 300, Y: 0, Type: ufo.Curve},
		{X: 450, Y: 0}, {X: 550, Y: 150},
		{X: 550, Y: 350, Type: ufo.Curve},
		{X: 550, Y: 550}, {X: 450, Y: 700},
		{X: 300, Y: 700, Type: ufo.Curve},
		{X: 150, Y: 700}, {X: 50, Y: 550},
		{X: 50, Y: 350, Type: ufo.Curve},
		{X: 50, Y: 150}, {X: 150, Y: 0},
	}.Transform(m)}
	return g
}

func TestQuadraticCompatible(t *testing.T) {
	light := ufo.NewFont()
	bold := ufo.NewFont()
	roundO(light, matrix.Identity)
	roundO(bold, matrix.Scale(4, 4))
	fonts := []*ufo.Font{light, bold}

	stats, err := ToQuadratic(fonts, 0.5)
	if err != nil {
		t.Fatal(err)
	}

	a, b := light.Glyphs["O"], bold.Glyphs["O"]
	if a.NumPoints() != b.NumPoints() {
		t.Fatalf("point counts differ: %d != %d", a.NumPoints(), b.NumPoints())
	}
	if d := cmp.Diff(a.Contours[0].SegmentTypes(), b.Contours[0].SegmentTypes()); d != "" {
		t.Errorf("segment types differ:\n%s", d)
	}
	for _, p := range a.Contours[0] {
		if p.Type == ufo.Curve {
			t.Errorf("cubic point left at (%g, %g)", p.X, p.Y)
		}
	}
	// the larger outline needs more than one piece per segment
	if stats.Pieces <= stats.Segments {
		t.Errorf("got %d pieces for %d segments", stats.Pieces, stats.Segments)
	}
	if stats.MaxError > 0.5 {
		t.Errorf("error %g exceeds tolerance", stats.MaxError)
	}
	if stats.Segments != 8 || stats.Glyphs != 2 {
		t.Errorf("unexpected stats %+v", stats)
	}
	for _, f := range fonts {
		if f.SegmentType != ufo.QCurve {
			t.Errorf("segment type %q, want qcurve", f.SegmentType)
		}
	}
}

// A cubic which is a degree-elevated quadratic is converted exactly.
func TestQuadraticExact(t *testing.T) {
	f := ufo.NewFont()
	g := f.NewGlyph("a")
	g.Contours = []ufo.Contour{{
		{X: 0, Y: 0, Type: ufo.Line},
		{X: 200.0 / 3, Y: 400.0 / 3},
		{X: 400.0 / 3, Y: 400.0 / 3},
		{X: 200, Y: 0, Type: ufo.Curve},
	}}

	stats, err := ToQuadratic([]*ufo.Font{f}, 1)
	if err != nil {
		t.Fatal(err)
	}

	want := ufo.Contour{
		{X: 0, Y: 0, Type: ufo.Line},
		{X: 100, Y: 200},
		{X: 200, Y: 0, Type: ufo.QCurve},
	}
	if d := cmp.Diff(want, g.Contours[0], cmpopts.EquateApprox(0, 1e-9)); d != "" {
		t.Errorf("contour mismatch (-want +got):\n%s", d)
	}
	if stats.Pieces != 1 {
		t.Errorf("got %d pieces, want 1", stats.Pieces)
	}
}

func TestToCubic(t *testing.T) {
	f := ufo.NewFont()
	f.SegmentType = ufo.QCurve
	g := f.NewGlyph("a")
	g.Contours = []ufo.Contour{{
		{X: 0, Y: 0, Type: ufo.Line},
		{X: 0, Y: 100},
		{X: 100, Y: 100},
		{X: 100, Y: 0, Type: ufo.QCurve},
	}}

	stats := ToCubic([]*ufo.Font{f})

	want := ufo.Contour{
		{X: 0, Y: 0, Type: ufo.Line},
		{X: 0, Y: 200.0 / 3},
		{X: 50.0 / 3, Y: 100},
		{X: 50, Y: 100, Type: ufo.Curve, Smooth: true},
		{X: 250.0 / 3, Y: 100},
		{X: 100, Y: 200.0 / 3},
		{X: 100, Y: 0, Type: ufo.Curve},
	}
	if d := cmp.Diff(want, g.Contours[0], cmpopts.EquateApprox(0, 1e-9)); d != "" {
		t.Errorf("contour mismatch (-want +got):\n%s", d)
	}
	if stats.Segments != 1 || stats.Pieces != 2 {
		t.Errorf("unexpected stats %+v", stats)
	}
	if f.SegmentType != ufo.Curve {
		t.Errorf("segment type %q, want curve", f.SegmentType)
	}

	// converting back recovers the quadratic pieces exactly
	if _, err := ToQuadratic([]*ufo.Font{f}, 1); err != nil {
		t.Fatal(err)
	}
	back := ufo.Contour{
		{X: 0, Y: 0, Type: ufo.Line},
		{X: 0, Y: 100},
		{X: 50, Y: 100, Type: ufo.QCurve, Smooth: true},
		{X: 100, Y: 100},
		{X: 100, Y: 0, Type: ufo.QCurve},
	}
	if d := cmp.Diff(back, g.Contours[0], cmpopts.EquateApprox(0, 1e-9)); d != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", d)
	}
}

func TestToCubicOffCurveOnly(t *testing.T) {
	f := ufo.NewFont()
	g := f.NewGlyph("o")
	g.Contours = []ufo.Contour{{
		{X: 0, Y: 100}, {X: 100, Y: 100}, {X: 100, Y: 0}, {X: 0, Y: 0},
	}}

	ToCubic([]*ufo.Font{f})

	c := g.Contours[0]
	if len(c) != 12 {
		t.Fatalf("got %d points, want 12", len(c))
	}
	if d := cmp.Diff([]ufo.SegmentType{ufo.Curve, ufo.Curve, ufo.Curve, ufo.Curve}, c.SegmentTypes()); d != "" {
		t.Errorf("segment types mismatch:\n%s", d)
	}
	last := c[len(c)-1]
	if last.X != 0 || last.Y != 50 {
		t.Errorf("implied start point at (%g, %g), want (0, 50)", last.X, last.Y)
	}
}

func TestOpenContour(t *testing.T) {
	f := ufo.NewFont()
	g := f.NewGlyph("s")
	g.Contours = []ufo.Contour{{
		{X: 0, Y: 0, Type: ufo.Move},
		{X: 0, Y: 100},
		{X: 100, Y: 100},
		{X: 100, Y: 0, Type: ufo.Curve},
		{X: 200, Y: 0, Type: ufo.Curve},
	}}

	if _, err := ToQuadratic([]*ufo.Font{f}, 1); err != nil {
		t.Fatal(err)
	}

	c := g.Contours[0]
	if c[0].Type != ufo.Move || c[0].X != 0 || c[0].Y != 0 {
		t.Errorf("move point changed: %+v", c[0])
	}
	// a curve without control points is a line
	if p := c[len(c)-1]; p.Type != ufo.Line || p.X != 200 {
		t.Errorf("unexpected final point %+v", p)
	}
}

func TestMismatch(t *testing.T) {
	a := ufo.NewFont()
	b := ufo.NewFont()
	roundO(a, matrix.Identity)
	g := roundO(b, matrix.Identity)
	g.Contours = append(g.Contours, g.Contours[0].Clone())

	_, err := ToQuadratic([]*ufo.Font{a, b}, 1)
	var mismatch *MismatchError
	if !errors.As(err, &mismatch) || mismatch.Glyph != "O" {
		t.Errorf("unexpected error %v", err)
	}
}

func TestFormFor(t *testing.T) {
	for format, want := range map[string]Form{"ttf": Quadratic, "otf": Cubic} {
		got, err := FormFor(format)
		if err != nil || got != want {
			t.Errorf("FormFor(%q) = %s, %v", format, got, err)
		}
	}
	if _, err := FormFor("svg"); err == nil {
		t.Error("missing error for unknown format")
	}
}
