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

package designspace

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func weightAxis() *Axis {
	return &Axis{
		Name:    "weight",
		Tag:     "wght",
		Minimum: 100,
		Default: 400,
		Maximum: 900,
		Map: []MapPoint{
			{Input: 100, Output: 20},
			{Input: 400, Output: 80},
			{Input: 900, Output: 200},
		},
	}
}

func testDocument() *Document {
	return &Document{
		Axes: []*Axis{
			weightAxis(),
			{Name: "width", Minimum: 75, Default: 100, Maximum: 100},
		},
		Sources: []*Source{
			{Name: "light", Filename: "Light.ufo", Location: Location{"weight": 20, "width": 100}},
			{Name: "regular", Filename: "Regular.ufo", Location: Location{"weight": 80}},
			{Name: "bold", Filename: "Bold.ufo", Location: Location{"weight": 200, "width": 100},
				MuteKerning: true, MutedGlyphs: []string{"a", "b"}},
			{Name: "condensed", Filename: "Condensed.ufo", Location: Location{"weight": 80, "width": 75}},
		},
		Instances: []*Instance{
			{Name: "medium", FamilyName: "Test", StyleName: "Medium", Location: Location{"weight": 120, "width": 100}},
		},
	}
}

func TestAxisMap(t *testing.T) {
	a := weightAxis()
	cases := []struct{ user, design float64 }{
		{100, 20},
		{250, 50},
		{400, 80},
		{650, 140},
		{900, 200},
		{1000, 300}, // beyond the map, constant offset
	}
	for _, c := range cases {
		if got := a.MapForward(c.user); got != c.design {
			t.Errorf("MapForward(%g) = %g, want %g", c.user, got, c.design)
		}
		if got := a.MapBackward(c.design); got != c.user {
			t.Errorf("MapBackward(%g) = %g, want %g", c.design, got, c.user)
		}
	}

	plain := &Axis{Name: "x", Minimum: 0, Default: 0, Maximum: 10}
	if plain.MapForward(3) != 3 || plain.MapBackward(3) != 3 {
		t.Error("axis without map is not the identity")
	}
}

func TestAxisValidate(t *testing.T) {
	good := []*Axis{
		weightAxis(),
		{Name: "italic", Values: []float64{0, 1}, Minimum: 0, Maximum: 1},
	}
	for _, a := range good {
		if err := a.Validate(); err != nil {
			t.Errorf("%s: unexpected error %v", a.Name, err)
		}
	}

	bad := []*Axis{
		{Name: "weight", Minimum: 100, Default: 50, Maximum: 900},
		{Name: "italic", Values: []float64{0, 1}, Default: 0.5},
		{Name: "weight", Minimum: 100, Default: 400, Maximum: 900, Map: []MapPoint{{400, 1}, {100, 2}}},
		{Name: "weight", Tag: "weight", Minimum: 100, Default: 400, Maximum: 900},
		{Name: ""},
	}
	for i, a := range bad {
		err := a.Validate()
		var axisErr *AxisError
		if !errors.As(err, &axisErr) {
			t.Errorf("%d: got %v, want AxisError", i, err)
		}
	}
}

func TestValidateUnknownAxis(t *testing.T) {
	d := testDocument()
	d.Sources[1].Location["optical"] = 12
	err := d.Validate()
	var mismatch *AxisMismatchError
	if !errors.As(err, &mismatch) {
		t.Fatalf("got %v, want AxisMismatchError", err)
	}
	if mismatch.Source != "regular" || mismatch.Axis != "optical" {
		t.Errorf("wrong error contents: %v", mismatch)
	}

	d = testDocument()
	if err := d.Validate(); err != nil {
		t.Errorf("unexpected error %v", err)
	}
}

func TestDefaultSource(t *testing.T) {
	d := testDocument()

	want := Location{"weight": 80, "width": 100}
	if d := cmp.Diff(want, d.DefaultLocation()); d != "" {
		t.Errorf("default location mismatch (-want +got):\n%s", d)
	}

	s, ok := d.DefaultSource()
	if !ok || s.Name != "regular" {
		t.Errorf("got default source %v, want regular", s)
	}
	if d.NeutralSource() != s {
		t.Error("neutral source differs from the default source")
	}

	d.Sources = d.Sources[2:]
	_, ok = d.DefaultSource()
	if ok {
		t.Error("unexpected default source")
	}
	if n := d.NeutralSource(); n == nil || n.Name != "bold" {
		t.Errorf("got neutral source %v, want bold", n)
	}
}

func TestNormalize(t *testing.T) {
	d := testDocument()
	d.Normalize()
	want := Location{"weight": 80, "width": 100}
	if d := cmp.Diff(want, d.Sources[1].Location); d != "" {
		t.Errorf("location mismatch (-want +got):\n%s", d)
	}
}

func TestCodecRoundTrip(t *testing.T) {
	d := testDocument()
	d.Axes = append(d.Axes, &Axis{Name: "italic", Tag: "ital", Values: []float64{0, 1}, Minimum: 0, Maximum: 1})
	d.Lib = []byte("<dict><key>com.example.key</key><string>value</string></dict>")

	buf := &bytes.Buffer{}
	err := d.Encode(buf)
	if err != nil {
		t.Fatal(err)
	}
	got, err := Decode(buf)
	if err != nil {
		t.Fatal(err)
	}

	opts := cmpopts.IgnoreFields(Source{}, "Path", "Font")
	if d := cmp.Diff(d, got, opts); d != "" {
		t.Errorf("document mismatch (-want +got):\n%s", d)
	}
}

func TestReadResolvesPaths(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "Family.designspace")
	err := testDocument().Write(path)
	if err != nil {
		t.Fatal(err)
	}
	d, err := Read(path)
	if err != nil {
		t.Fatal(err)
	}
	if d.Sources[0].Path != filepath.Join(dir, "Light.ufo") {
		t.Errorf("unexpected source path %q", d.Sources[0].Path)
	}
	if d.Name() != "Family" {
		t.Errorf("unexpected name %q", d.Name())
	}
}

func TestDecodeUserValue(t *testing.T) {
	src := `<?xml version="1.0" encoding="UTF-8"?>
<designspace format="5.0">
  <axes>
    <axis tag="wght" name="weight" minimum="100" maximum="900" default="400">
      <map input="100" output="20"/>
      <map input="900" output="180"/>
    </axis>
  </axes>
  <sources>
    <source filename="A.ufo" name="a">
      <location><dimension name="weight" uservalue="500"/></location>
    </source>
  </sources>
</designspace>`
	d, err := Decode(strings.NewReader(src))
	if err != nil {
		t.Fatal(err)
	}
	if got := d.Sources[0].Location["weight"]; got != 100 {
		t.Errorf("got %g, want 100", got)
	}
	if len(d.Instances) != 0 {
		t.Errorf("unexpected instances")
	}
}

func TestTags(t *testing.T) {
	b := NewTagBuilder()
	cases := []struct{ name, tag string }{
		{"weight", "wght"},
		{"Weight", "wgh1"},
		{"optical size", "opsz"},
		{"contrast", "cntr"},
		{"grade", "grd*"},
		{"gräde", "grd1"},
		{"x", "x***"},
		{"serif size", "srf*"},
	}
	for _, c := range cases {
		if got := b.Tag(c.name); got != c.tag {
			t.Errorf("Tag(%q) = %q, want %q", c.name, got, c.tag)
		}
	}
	// the same name always gives the same tag
	if got := b.Tag("grade"); got != "grd*" {
		t.Errorf("Tag(grade) = %q on second call", got)
	}
}

func TestTagsUnique(t *testing.T) {
	d := &Document{}
	for _, name := range []string{"contrast", "Contrast", "cntrst", "custom1", "custom2", "XTRA", "spacing", "wght", "weight", "Weight"} {
		d.Axes = append(d.Axes, &Axis{Name: name})
	}
	d.Axes = append(d.Axes, &Axis{Name: "explicit", Tag: "cntr"})

	tags := d.AxisTags()
	if tags["explicit"] != "cntr" {
		t.Errorf("explicit tag not kept: %q", tags["explicit"])
	}
	seen := map[string]string{}
	for name, tag := range tags {
		if len(tag) != 4 {
			t.Errorf("%s: invalid tag %q", name, tag)
		}
		if other, ok := seen[tag]; ok {
			t.Errorf("%s and %s share the tag %q", name, other, tag)
		}
		seen[tag] = name
	}
}

func TestTagsRegisteredCollision(t *testing.T) {
	cases := []struct {
		names []string
		want  map[string]string
	}{
		{[]string{"wght", "weight"}, map[string]string{"wght": "wght", "weight": "wgh1"}},
		{[]string{"weight", "Weight"}, map[string]string{"weight": "wght", "Weight": "wgh1"}},
		{[]string{"width", "Width", "wdth"}, map[string]string{"width": "wdth", "Width": "wdt1", "wdth": "wdt2"}},
	}
	for _, c := range cases {
		d := &Document{}
		for _, name := range c.names {
			d.Axes = append(d.Axes, &Axis{Name: name})
		}
		got := d.AxisTags()
		if diff := cmp.Diff(c.want, got); diff != "" {
			t.Errorf("%v: tags mismatch (-want +got):\n%s", c.names, diff)
		}
	}

	// an explicit tag takes precedence over the registered one
	b := NewTagBuilder()
	b.Register("x", "wght")
	if diff := cmp.Diff("wgh1", b.Tag("weight")); diff != "" {
		t.Errorf("tag mismatch (-want +got):\n%s", diff)
	}
}

func TestSplit(t *testing.T) {
	d := testDocument()
	d.Axes = append(d.Axes, &Axis{Name: "italic", Values: []float64{0, 1}, Minimum: 0, Maximum: 1})
	d.Sources = append(d.Sources,
		&Source{Name: "italic", Location: Location{"weight": 80, "width": 100, "italic": 1}})

	subs := d.Split()
	if len(subs) != 2 {
		t.Fatalf("got %d sub-documents, want 2", len(subs))
	}
	if subs[0].Suffix != "-italic0" || subs[1].Suffix != "-italic1" {
		t.Errorf("unexpected suffixes %q, %q", subs[0].Suffix, subs[1].Suffix)
	}
	if len(subs[0].Sources) != 4 || len(subs[1].Sources) != 1 {
		t.Errorf("unexpected source counts %d, %d", len(subs[0].Sources), len(subs[1].Sources))
	}
	for _, sub := range subs {
		if sub.Axis("italic") != nil {
			t.Error("discrete axis not removed")
		}
		for _, s := range sub.Sources {
			if _, ok := s.Location["italic"]; ok {
				t.Errorf("%s: discrete coordinate not removed", s.Name)
			}
		}
	}
	// the original document is unchanged
	if d.Sources[4].Location["italic"] != 1 {
		t.Error("original document modified")
	}

	plain := testDocument()
	subs = plain.Split()
	if len(subs) != 1 || subs[0].Document != plain || subs[0].Suffix != "" {
		t.Error("document without discrete axes was not returned as is")
	}
}

func TestAxisExtremes(t *testing.T) {
	d := testDocument()
	got := d.AxisExtremes()
	want := []Location{
		{"weight": 20, "width": 100},
		{"weight": 200, "width": 100},
		{"weight": 80, "width": 75},
	}
	if d := cmp.Diff(want, got); d != "" {
		t.Errorf("extremes mismatch (-want +got):\n%s", d)
	}
}
