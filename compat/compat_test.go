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
	"math"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"seehuhn.de/go/geom/matrix"

	"seehuhn.de/go/fontbatch/designspace"
	"seehuhn.de/go/fontbatch/interp"
	"seehuhn.de/go/fontbatch/report"
	"seehuhn.de/go/fontbatch/ufo"
)

func newSource(style string, weight float64) *designspace.Source {
	f := ufo.NewFont()
	f.FamilyName = "Test"
	f.StyleName = style
	return &designspace.Source{
		Name:     style,
		Location: designspace.Location{"weight": weight},
		Font:     f,
	}
}

func newDocument(sources ...*designspace.Source) *designspace.Document {
	return &designspace.Document{
		Axes: []*designspace.Axis{
			{Name: "weight", Tag: "wght", Minimum: 300, Default: 400, Maximum: 700},
		},
		Sources: sources,
	}
}

// stem adds a rectangular glyph of the given stem width.
func stem(f *ufo.Font, name string, w float64) *ufo.Glyph {
	g := f.NewGlyph(name)
	g.Width = w + 100
	g.Contours = []ufo.Contour{{
		{X: 50, Y: 0, Type: ufo.Line},
		{X: 50 + w, Y: 0, Type: ufo.Line},
		{X: 50 + w, Y: 700, Type: ufo.Line},
		{X: 50, Y: 700, Type: ufo.Line},
	}}
	return g
}

// roundO adds an "O" drawn with four cubic segments.
func roundO(f *ufo.Font) *ufo.Glyph {
	g := f.NewGlyph("O")
	g.Width = 600
	g.Contours = []ufo.Contour{{
		{X: 300, Y: 0, Type: ufo.Curve},
		{X: 450, Y: 0}, {X: 550, Y: 150},
		{X: 550, Y: 350, Type: ufo.Curve},
		{X: 550, Y: 550}, {X: 450, Y: 700},
		{X: 300, Y: 700, Type: ufo.Curve},
		{X: 150, Y: 700}, {X: 50, Y: 550},
		{X: 50, Y: 350, Type: ufo.Curve},
		{X: 50, Y: 150}, {X: 150, Y: 0},
	}}
	return g
}

// diamondO adds an "O" drawn with four straight lines.
func diamondO(f *ufo.Font) *ufo.Glyph {
	g := f.NewGlyph("O")
	g.Width = 600
	g.Contours = []ufo.Contour{{
		{X: 300, Y: 0, Type: ufo.Line},
		{X: 550, Y: 350, Type: ufo.Line},
		{X: 300, Y: 700, Type: ufo.Line},
		{X: 50, Y: 350, Type: ufo.Line},
	}}
	return g
}

func segmentTypes(g *ufo.Glyph) [][]ufo.SegmentType {
	var res [][]ufo.SegmentType
	for _, c := range g.Contours {
		res = append(res, c.SegmentTypes())
	}
	return res
}

func TestLineVersusCurve(t *testing.T) {
	a := newSource("Light", 300)
	b := newSource("Bold", 700)
	diamondO(a.Font)
	roundO(b.Font)
	rep := report.New()
	s := NewSession(newDocument(a, b), rep)

	s.Glyphs()

	if len(s.Errors) != 0 {
		t.Fatalf("unexpected errors %v", s.Errors)
	}
	ga, gb := a.Font.Glyphs["O"], b.Font.Glyphs["O"]
	if d := cmp.Diff(segmentTypes(gb), segmentTypes(ga)); d != "" {
		t.Errorf("segment types differ (-bold +light):\n%s", d)
	}
	if ga.NumPoints() != gb.NumPoints() {
		t.Errorf("point counts differ: %d != %d", ga.NumPoints(), gb.NumPoints())
	}
	// the segment from (50, 350) to (300, 0) closes the contour, its
	// control points are inserted at 1/3 and 2/3 of the line
	c := ga.Contours[0]
	want := []ufo.Point{
		{X: 50 + 250.0/3, Y: 350 - 350.0/3},
		{X: 50 + 500.0/3, Y: 350 - 700.0/3},
		{X: 300, Y: 0, Type: ufo.Curve},
	}
	if d := cmp.Diff(want, []ufo.Point(c[:3]), cmpopts.EquateApprox(0, 1e-9)); d != "" {
		t.Errorf("inserted points mismatch (-want +got):\n%s", d)
	}
	if !strings.Contains(rep.String(), `Light: glyph "O", contour 0: inserted 8 off-curve points`) {
		t.Errorf("rewrite not reported:\n%s", rep)
	}
}

func TestQCurveInsertion(t *testing.T) {
	a := newSource("Light", 300)
	b := newSource("Bold", 700)
	ga := a.Font.NewGlyph("v")
	ga.Contours = []ufo.Contour{{
		{X: 0, Y: 0, Type: ufo.Line},
		{X: 300, Y: 0, Type: ufo.Line},
		{X: 0, Y: 300, Type: ufo.Line},
	}}
	gb := b.Font.NewGlyph("v")
	gb.Contours = []ufo.Contour{{
		{X: 0, Y: 0, Type: ufo.Line},
		{X: 100, Y: -10}, {X: 200, Y: -10}, {X: 300, Y: -10},
		{X: 400, Y: 0, Type: ufo.QCurve},
		{X: 0, Y: 400, Type: ufo.Line},
	}}
	s := NewSession(newDocument(a, b), nil)
	s.Glyphs()

	c := a.Font.Glyphs["v"].Contours[0]
	want := ufo.Contour{
		{X: 0, Y: 0, Type: ufo.Line},
		{X: 75, Y: 0}, {X: 150, Y: 0}, {X: 225, Y: 0},
		{X: 300, Y: 0, Type: ufo.QCurve},
		{X: 0, Y: 300, Type: ufo.Line},
	}
	if d := cmp.Diff(want, c); d != "" {
		t.Errorf("contour mismatch (-want +got):\n%s", d)
	}
}

// qcurveO adds an "o" whose first segment is a quadratic curve with n
// off-curve points.
func qcurveO(f *ufo.Font, n int) *ufo.Glyph {
	g := f.NewGlyph("o")
	g.Width = 500
	c := ufo.Contour{{X: 0, Y: 0, Type: ufo.Line}}
	for i := 1; i <= n; i++ {
		c = append(c, ufo.Point{X: float64(100 * i), Y: 100})
	}
	c = append(c,
		ufo.Point{X: 400, Y: 0, Type: ufo.QCurve},
		ufo.Point{X: 200, Y: -200, Type: ufo.Line})
	g.Contours = []ufo.Contour{c}
	return g
}

func TestQCurveOffCurveMismatch(t *testing.T) {
	light := newSource("Light", 300)
	bold := newSource("Bold", 700)
	qcurveO(light.Font, 1)
	qcurveO(bold.Font, 2)
	stem(light.Font, "I", 50)
	stem(bold.Font, "I", 250)
	s := NewSession(newDocument(light, bold), report.New())

	s.Glyphs()

	var got []string
	for _, err := range s.Errors {
		var outlineErr *IncompatibleOutlineError
		if errors.As(err, &outlineErr) {
			got = append(got, outlineErr.Glyph+": "+outlineErr.Reason)
		}
	}
	want := []string{"o: number of off-curve points differs"}
	if d := cmp.Diff(want, got); d != "" {
		t.Errorf("errors mismatch (-want +got):\n%s", d)
	}
	for _, src := range s.Doc.Sources {
		if src.Font.Has("o") {
			t.Errorf("%s: incompatible glyph not removed", src.Name)
		}
		if !src.Font.Has("I") {
			t.Errorf("%s: compatible glyph removed", src.Name)
		}
	}
}

// A glyph missing from the Light master is extrapolated from Regular and
// Bold.
func TestMissingGlyphExtrapolated(t *testing.T) {
	light := newSource("Light", 300)
	regular := newSource("Regular", 400)
	bold := newSource("Bold", 700)
	stem(regular.Font, "I", 100).Unicodes = []rune{'I'}
	stem(bold.Font, "I", 200)
	stem(light.Font, "H", 60)
	stem(regular.Font, "H", 80)
	stem(bold.Font, "H", 140)
	rep := report.New()
	s := NewSession(newDocument(light, regular, bold), rep)

	s.Glyphs()

	g, ok := light.Font.Glyphs["I"]
	if !ok {
		t.Fatal("glyph I not added to Light")
	}
	// linear along the weight axis: 100 + (300-400)/(700-400)*100
	w := 100 - 100.0/3
	if math.Abs(g.Width-(w+100)) > 1e-6 {
		t.Errorf("advance width %g, want %g", g.Width, w+100)
	}
	if x := g.Contours[0][1].X; math.Abs(x-(50+w)) > 1e-6 {
		t.Errorf("stem edge at %g, want %g", x, 50+w)
	}
	if d := cmp.Diff([]rune{'I'}, g.Unicodes); d != "" {
		t.Errorf("unicodes mismatch (-want +got):\n%s", d)
	}
	out := rep.String()
	if !strings.Contains(out, `Light: added glyph "I"`) {
		t.Errorf("synthesized glyph not reported:\n%s", out)
	}
	if !strings.Contains(out, `Light: glyph "I" extrapolated`) {
		t.Errorf("extrapolation not reported:\n%s", out)
	}
	if strings.Contains(out, `"H"`) {
		t.Errorf("unexpected report for H:\n%s", out)
	}
}

func TestMissingInDefault(t *testing.T) {
	light := newSource("Light", 300)
	regular := newSource("Regular", 400)
	bold := newSource("Bold", 700)
	stem(light.Font, "I", 50)
	stem(bold.Font, "I", 250)
	s := NewSession(newDocument(light, regular, bold), nil)

	s.Glyphs()

	g := regular.Font.Glyphs["I"]
	if g == nil {
		t.Fatal("glyph I not added to the default master")
	}
	if math.Abs(g.Width-200) > 1e-6 {
		t.Errorf("advance width %g, want 200", g.Width)
	}
}

func TestGlyphsIdempotent(t *testing.T) {
	light := newSource("Light", 300)
	regular := newSource("Regular", 400)
	bold := newSource("Bold", 700)
	diamondO(light.Font)
	roundO(regular.Font)
	stem(regular.Font, "I", 100)
	stem(bold.Font, "I", 200)
	stem(light.Font, "H", 999)
	stem(regular.Font, "H", 80)
	stem(bold.Font, "H", 140)
	light.MutedGlyphs = []string{"H"}
	s := NewSession(newDocument(light, regular, bold), nil)

	s.Glyphs()
	// H is replaced in Light by the extrapolation from Regular and Bold
	if d := cmp.Diff(60.0+100, light.Font.Glyphs["H"].Width, cmpopts.EquateApprox(0, 1e-9)); d != "" {
		t.Errorf("muted glyph width mismatch (-want +got):\n%s", d)
	}
	var before []*ufo.Font
	for _, src := range s.Doc.Sources {
		before = append(before, src.Font.Clone())
	}
	rep := report.New()
	s.Report = rep
	s.Glyphs()

	for i, src := range s.Doc.Sources {
		if d := cmp.Diff(before[i].Glyphs, src.Font.Glyphs); d != "" {
			t.Errorf("%s changed by second run (-before +after):\n%s", src.Name, d)
		}
	}
	if rep.Len() != 0 {
		t.Errorf("second run reported changes:\n%s", rep)
	}

	// closure: all sources have the same glyphs with the same structure
	for _, name := range []string{"H", "I", "O"} {
		want := segmentTypes(regular.Font.Glyphs[name])
		for _, src := range s.Doc.Sources {
			g, ok := src.Font.Glyphs[name]
			if !ok {
				t.Fatalf("%s: glyph %q missing", src.Name, name)
			}
			if d := cmp.Diff(want, segmentTypes(g)); d != "" {
				t.Errorf("%s: %q: structure mismatch:\n%s", src.Name, name, d)
			}
		}
	}
}

func TestIncompatibleGlyphRemoved(t *testing.T) {
	light := newSource("Light", 300)
	bold := newSource("Bold", 700)
	for _, src := range []*designspace.Source{light, bold} {
		stem(src.Font, "I", 100)
		acc := src.Font.NewGlyph("Idot")
		acc.Components = []ufo.Component{{Base: "I", Transform: matrix.Identity}}
	}
	// two contours in Bold
	bi := bold.Font.Glyphs["I"]
	bi.Contours = append(bi.Contours, bi.Contours[0].Clone())

	s := NewSession(newDocument(light, bold), report.New())
	s.Glyphs()

	// Removing I decomposes the reference in Idot, which then inherits the
	// incompatible outlines.
	if len(s.Errors) != 2 {
		t.Fatalf("got %d errors, want 2: %v", len(s.Errors), s.Errors)
	}
	for i, name := range []string{"I", "Idot"} {
		var outlineErr *IncompatibleOutlineError
		if !errors.As(s.Errors[i], &outlineErr) || outlineErr.Glyph != name {
			t.Errorf("unexpected error %v", s.Errors[i])
		}
	}
	for _, src := range s.Doc.Sources {
		if src.Font.Has("I") || src.Font.Has("Idot") {
			t.Errorf("%s: incompatible glyphs not removed", src.Name)
		}
	}
}

func TestMutedGlyphReplaced(t *testing.T) {
	light := newSource("Light", 300)
	regular := newSource("Regular", 400)
	bold := newSource("Bold", 700)
	stem(light.Font, "I", 50)
	stem(regular.Font, "I", 999).Unicodes = []rune{'I'}
	stem(bold.Font, "I", 250)
	regular.MutedGlyphs = []string{"I"}
	s := NewSession(newDocument(light, regular, bold), nil)

	s.Glyphs()

	g := regular.Font.Glyphs["I"]
	if math.Abs(g.Width-200) > 1e-6 {
		t.Errorf("advance width %g, want 200", g.Width)
	}
	if d := cmp.Diff([]rune{'I'}, g.Unicodes); d != "" {
		t.Errorf("unicodes mismatch (-want +got):\n%s", d)
	}
}

func TestNoSamples(t *testing.T) {
	light := newSource("Light", 300)
	bold := newSource("Bold", 700)
	stem(light.Font, "I", 50)
	light.MutedGlyphs = []string{"I"}
	s := NewSession(newDocument(light, bold), nil)

	s.Glyphs()

	if len(s.Errors) != 1 || !errors.Is(s.Errors[0], interp.ErrInsufficientSamples) {
		t.Errorf("unexpected errors %v", s.Errors)
	}
	if light.Font.Has("I") || bold.Font.Has("I") {
		t.Error("glyph without samples not removed")
	}
}

func TestDecomposeMixed(t *testing.T) {
	light := newSource("Light", 300)
	bold := newSource("Bold", 700)
	for _, src := range []*designspace.Source{light, bold} {
		stem(src.Font, "I", 100)
		g := src.Font.NewGlyph("Iacute")
		g.Components = []ufo.Component{{Base: "I", Transform: matrix.Identity}}
	}
	// mixed in Light only
	mixed := light.Font.Glyphs["Iacute"]
	mixed.Contours = []ufo.Contour{{
		{X: 0, Y: 800, Type: ufo.Line},
		{X: 100, Y: 800, Type: ufo.Line},
		{X: 50, Y: 900, Type: ufo.Line},
	}}
	bold.Font.Glyphs["Iacute"].Components = append(bold.Font.Glyphs["Iacute"].Components,
		ufo.Component{Base: "I", Transform: matrix.Translate(0, 800)})
	rep := report.New()
	s := NewSession(newDocument(light, bold), rep)

	s.DecomposeMixed()

	for _, src := range s.Doc.Sources {
		g := src.Font.Glyphs["Iacute"]
		if len(g.Components) != 0 {
			t.Errorf("%s: components left", src.Name)
		}
		if len(g.Contours) != 2 {
			t.Errorf("%s: got %d contours, want 2", src.Name, len(g.Contours))
		}
		if len(src.Font.Glyphs["I"].Contours) != 1 {
			t.Errorf("%s: base glyph modified", src.Name)
		}
	}
	if n := strings.Count(rep.String(), "decomposed glyph"); n != 2 {
		t.Errorf("got %d report lines, want 2:\n%s", n, rep)
	}
}

func TestKerning(t *testing.T) {
	light := newSource("Light", 300)
	regular := newSource("Regular", 400)
	bold := newSource("Bold", 700)
	regular.Font.Groups["public.kern1.O"] = []string{"O", "Q"}
	regular.Font.Kerning[ufo.Pair{Left: "public.kern1.O", Right: "A"}] = -20
	regular.Font.Kerning[ufo.Pair{Left: "T", Right: "o"}] = -80
	bold.Font.Groups["public.kern1.O"] = []string{"O", "Q"}
	bold.Font.Kerning[ufo.Pair{Left: "public.kern1.O", Right: "A"}] = -50
	light.Font.Kerning[ufo.Pair{Left: "T", Right: "o"}] = -60
	bold.MuteKerning = true
	bold.Font.Kerning[ufo.Pair{Left: "V", Right: "A"}] = -100
	rep := report.New()
	s := NewSession(newDocument(light, regular, bold), rep)

	s.Kerning()

	if len(s.Errors) != 0 {
		t.Fatalf("unexpected errors %v", s.Errors)
	}
	// pairs from the muted Bold master are not distributed
	if _, ok := light.Font.Kerning[ufo.Pair{Left: "V", Right: "A"}]; ok {
		t.Error("kerning of a muted source was used")
	}
	// a single sample gives a constant value
	if v := light.Font.Kerning[ufo.Pair{Left: "public.kern1.O", Right: "A"}]; v != -20 {
		t.Errorf("got %g, want -20", v)
	}
	if d := cmp.Diff([]string{"O", "Q"}, light.Font.Groups["public.kern1.O"]); d != "" {
		t.Errorf("group mismatch (-want +got):\n%s", d)
	}
	// T/o: Light -60, Regular -80, evaluated at Bold
	if v := bold.Font.Kerning[ufo.Pair{Left: "T", Right: "o"}]; math.Abs(v-(-140)) > 1e-9 {
		t.Errorf("got %g, want -140", v)
	}
	for _, src := range s.Doc.Sources {
		for pair := range regular.Font.Kerning {
			if _, ok := src.Font.Kerning[pair]; !ok {
				t.Errorf("%s: pair %s missing", src.Name, pair)
			}
		}
	}
	if !strings.Contains(rep.String(), "Light: added kerning groups public.kern1.O") {
		t.Errorf("added group not reported:\n%s", rep)
	}
}

func TestInstance(t *testing.T) {
	light := newSource("Light", 300)
	bold := newSource("Bold", 700)
	light.Font.Ascender, bold.Font.Ascender = 700, 740
	stem(light.Font, "I", 50)
	stem(bold.Font, "I", 250)
	light.Font.Kerning[ufo.Pair{Left: "I", Right: "I"}] = 10
	bold.Font.Kerning[ufo.Pair{Left: "I", Right: "I"}] = 30
	s := NewSession(newDocument(light, bold), nil)

	f, err := s.Instance(designspace.Location{"weight": 500}, "Medium")
	if err != nil {
		t.Fatal(err)
	}
	if f.StyleName != "Medium" || f.FamilyName != "Test" {
		t.Errorf("unexpected names %q %q", f.FamilyName, f.StyleName)
	}
	if math.Abs(f.Ascender-720) > 1e-9 {
		t.Errorf("ascender %g, want 720", f.Ascender)
	}
	if g := f.Glyphs["I"]; math.Abs(g.Width-250) > 1e-9 {
		t.Errorf("advance width %g, want 250", g.Width)
	}
	if v := f.Kerning[ufo.Pair{Left: "I", Right: "I"}]; math.Abs(v-20) > 1e-9 {
		t.Errorf("kerning %g, want 20", v)
	}
	if light.Font.StyleName != "Light" {
		t.Error("source font modified")
	}
}
