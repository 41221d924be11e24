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

package ufo

import (
	"sort"
	"strconv"
	"strings"
)

// Lib keys with a meaning defined by the UFO format.
const (
	GlyphOrderKey       = "public.glyphOrder"
	SkipExportGlyphsKey = "public.skipExportGlyphs"
)

// DefaultLayerName is the name of the default layer of a UFO.
const DefaultLayerName = "public.default"

// Prefixes which mark a kerning key as a group.
const (
	Kern1Prefix  = "public.kern1."
	Kern2Prefix  = "public.kern2."
	LegacyPrefix = "@"
)

// IsGroupKey reports whether a kerning key refers to a kerning group.
func IsGroupKey(key string) bool {
	return strings.HasPrefix(key, Kern1Prefix) ||
		strings.HasPrefix(key, Kern2Prefix) ||
		strings.HasPrefix(key, LegacyPrefix)
}

// Pair is the key of a kerning value.  Left and Right are either glyph names
// or group names.
type Pair struct {
	Left, Right string
}

func (p Pair) String() string {
	return "(" + p.Left + ", " + p.Right + ")"
}

// Info contains the parts of the UFO font info used for font generation.
type Info struct {
	FamilyName  string
	StyleName   string
	UnitsPerEm  float64
	Ascender    float64
	Descender   float64
	CapHeight   float64
	XHeight     float64
	ItalicAngle float64
}

// Layer is a named glyph set which is not the default layer of the font.
type Layer struct {
	Name   string
	Glyphs map[string]*Glyph
}

// Font is a source font.
type Font struct {
	Info

	// Glyphs is the glyph set of the default layer.
	Glyphs map[string]*Glyph

	// DefaultLayer is the name of the layer stored in Glyphs.
	DefaultLayer string

	// Layers holds the remaining layers, in file order.
	Layers []*Layer

	Kerning map[Pair]float64
	Groups  map[string][]string
	Lib     map[string]interface{}

	// SegmentType is the on-curve type used for curved segments in this
	// font.  It is Curve for cubic and QCurve for quadratic outlines.
	SegmentType SegmentType

	// Path is the location of the font on disk, if known.
	Path string
}

// NewFont allocates an empty font with 1000 units per em.
func NewFont() *Font {
	return &Font{
		Info:         Info{UnitsPerEm: 1000},
		Glyphs:       make(map[string]*Glyph),
		DefaultLayer: DefaultLayerName,
		Kerning:      make(map[Pair]float64),
		Groups:       make(map[string][]string),
		Lib:          make(map[string]interface{}),
		SegmentType:  Curve,
	}
}

// Name returns the family and style name, separated by a space.
func (f *Font) Name() string {
	return strings.TrimSpace(f.FamilyName + " " + f.StyleName)
}

// Clone returns a deep copy of the font.  The copy shares no mutable state
// with f.
func (f *Font) Clone() *Font {
	res := &Font{
		Info:         f.Info,
		Glyphs:       cloneGlyphs(f.Glyphs),
		DefaultLayer: f.DefaultLayer,
		Kerning:      make(map[Pair]float64, len(f.Kerning)),
		Groups:       make(map[string][]string, len(f.Groups)),
		Lib:          cloneLib(f.Lib),
		SegmentType:  f.SegmentType,
		Path:         f.Path,
	}
	if res.Lib == nil {
		res.Lib = make(map[string]interface{})
	}
	for _, l := range f.Layers {
		res.Layers = append(res.Layers, &Layer{
			Name:   l.Name,
			Glyphs: cloneGlyphs(l.Glyphs),
		})
	}
	for k, v := range f.Kerning {
		res.Kerning[k] = v
	}
	for k, v := range f.Groups {
		res.Groups[k] = append([]string(nil), v...)
	}
	return res
}

func cloneGlyphs(glyphs map[string]*Glyph) map[string]*Glyph {
	res := make(map[string]*Glyph, len(glyphs))
	for name, g := range glyphs {
		res[name] = g.Clone()
	}
	return res
}

// GlyphNames returns the names of all glyphs in the default layer, in
// sorted order.
func (f *Font) GlyphNames() []string {
	names := make([]string, 0, len(f.Glyphs))
	for name := range f.Glyphs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Has reports whether the default layer contains the named glyph.
func (f *Font) Has(name string) bool {
	_, ok := f.Glyphs[name]
	return ok
}

// NewGlyph adds an empty glyph to the default layer and returns it.  An
// existing glyph with the same name is replaced.
func (f *Font) NewGlyph(name string) *Glyph {
	g := NewGlyph(name)
	f.Glyphs[name] = g
	return g
}

// GlyphOrder returns the glyph order stored in the font lib.
func (f *Font) GlyphOrder() []string {
	return stringList(f.Lib[GlyphOrderKey])
}

// SkipExportGlyphs returns the names of glyphs which must not be written
// to binary fonts.
func (f *Font) SkipExportGlyphs() []string {
	return stringList(f.Lib[SkipExportGlyphsKey])
}

// UseLayer makes the named layer the default layer of the font.  The
// previous default layer is kept as a non-default layer.
func (f *Font) UseLayer(name string) error {
	if name == "" || name == f.DefaultLayer {
		return nil
	}
	for i, l := range f.Layers {
		if l.Name != name {
			continue
		}
		f.Layers[i] = &Layer{Name: f.DefaultLayer, Glyphs: f.Glyphs}
		f.Glyphs = l.Glyphs
		f.DefaultLayer = l.Name
		return nil
	}
	return &LayerNotFoundError{Font: f.Name(), Layer: name}
}

// RemoveGlyph deletes a glyph from the default layer.  Components
// referencing the glyph are decomposed, and the glyph is removed from all
// kerning pairs and groups.
func (f *Font) RemoveGlyph(name string) {
	f.removeGlyphs(map[string]bool{name: true})
}

// PruneSkipExport removes all glyphs listed under public.skipExportGlyphs.
// References to these glyphs are decomposed, and the glyphs are removed from
// groups and kerning.  The names of the removed glyphs are returned in
// sorted order.
func (f *Font) PruneSkipExport() []string {
	skip := make(map[string]bool)
	for _, name := range f.SkipExportGlyphs() {
		skip[name] = true
	}
	if len(skip) == 0 {
		return nil
	}
	var removed []string
	for name := range skip {
		if f.Has(name) {
			removed = append(removed, name)
		}
	}
	sort.Strings(removed)
	f.removeGlyphs(skip)
	return removed
}

func (f *Font) removeGlyphs(names map[string]bool) {
	for _, g := range f.Glyphs {
		if names[g.Name] {
			continue
		}
		for i := len(g.Components) - 1; i >= 0; i-- {
			if names[g.Components[i].Base] {
				g.DecomposeComponent(f.Glyphs, i)
			}
		}
	}
	for name := range names {
		delete(f.Glyphs, name)
	}
	for key, members := range f.Groups {
		kept := members[:0:0]
		for _, m := range members {
			if !names[m] {
				kept = append(kept, m)
			}
		}
		f.Groups[key] = kept
	}
	for pair := range f.Kerning {
		if names[pair.Left] || names[pair.Right] {
			delete(f.Kerning, pair)
		}
	}
}

func stringList(v interface{}) []string {
	switch v := v.(type) {
	case []string:
		return append([]string(nil), v...)
	case []interface{}:
		res := make([]string, 0, len(v))
		for _, x := range v {
			if s, ok := x.(string); ok {
				res = append(res, s)
			}
		}
		return res
	}
	return nil
}

// LayerNotFoundError is returned when a font has no layer with the
// requested name.
type LayerNotFoundError struct {
	Font  string
	Layer string
}

func (err *LayerNotFoundError) Error() string {
	return "ufo: font " + strconv.Quote(err.Font) + " has no layer " + strconv.Quote(err.Layer)
}
