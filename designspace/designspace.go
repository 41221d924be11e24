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
	"fmt"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"golang.org/x/exp/maps"

	"seehuhn.de/go/fontbatch/ufo"
)

// Location assigns a design coordinate to axis names.
type Location map[string]float64

// Clone returns a copy of the location.
func (l Location) Clone() Location {
	if l == nil {
		return nil
	}
	res := make(Location, len(l))
	for k, v := range l {
		res[k] = v
	}
	return res
}

// Equal reports whether both locations assign the same coordinates to the
// same axes.
func (l Location) Equal(other Location) bool {
	if len(l) != len(other) {
		return false
	}
	for k, v := range l {
		w, ok := other[k]
		if !ok || v != w {
			return false
		}
	}
	return true
}

// String formats the location with the axis names in sorted order.
func (l Location) String() string {
	keys := maps.Keys(l)
	slices.Sort(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + "=" + strconv.FormatFloat(l[k], 'g', -1, 64)
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

// Source is a master of the design space.
type Source struct {
	Name     string
	Filename string // as given in the document, relative to the document

	// Path is the location of the source font on disk.
	Path string

	// Layer selects a layer of the source font to use as the master.  If
	// empty, the default layer is used.
	Layer string

	FamilyName string
	StyleName  string

	Location Location

	// MuteKerning excludes the kerning of this source from interpolation.
	MuteKerning bool

	// MutedGlyphs lists glyphs which are excluded from interpolation for this
	// source.
	MutedGlyphs []string

	// Font is the font data of the source.  It is nil until the source has
	// been loaded.
	Font *ufo.Font
}

// IsMuted reports whether the named glyph is muted in this source.
func (s *Source) IsMuted(glyph string) bool {
	return slices.Contains(s.MutedGlyphs, glyph)
}

// DisplayName returns a name which identifies the source in messages.
func (s *Source) DisplayName() string {
	if s.Name != "" {
		return s.Name
	}
	if s.Font != nil && s.Font.Name() != "" {
		return s.Font.Name()
	}
	if s.Filename != "" {
		return s.Filename
	}
	return filepath.Base(s.Path)
}

// Instance is a named location of the design space.
type Instance struct {
	Name       string
	FamilyName string
	StyleName  string
	Filename   string
	Location   Location
}

// Document describes a design space together with its sources and
// instances.
type Document struct {
	Axes      []*Axis
	Sources   []*Source
	Instances []*Instance

	// Lib holds the raw XML contents of the document lib.  It is written back
	// unchanged.
	Lib []byte

	// Path is the file the document was read from, if any.
	Path string
}

// Axis returns the axis with the given name, or nil if there is none.
func (d *Document) Axis(name string) *Axis {
	for _, a := range d.Axes {
		if a.Name == name {
			return a
		}
	}
	return nil
}

// AxisNames returns the names of all axes, in document order.
func (d *Document) AxisNames() []string {
	res := make([]string, len(d.Axes))
	for i, a := range d.Axes {
		res[i] = a.Name
	}
	return res
}

// DefaultLocation returns the location of the axis defaults, in design
// coordinates.
func (d *Document) DefaultLocation() Location {
	res := make(Location, len(d.Axes))
	for _, a := range d.Axes {
		res[a.Name] = a.DefaultDesign()
	}
	return res
}

// Validate checks the axes and verifies that all locations only refer to
// axes defined in the document.
func (d *Document) Validate() error {
	seen := make(map[string]bool)
	for _, a := range d.Axes {
		err := a.Validate()
		if err != nil {
			return err
		}
		if seen[a.Name] {
			return &AxisError{Axis: a.Name, Reason: "duplicate axis"}
		}
		seen[a.Name] = true
	}
	if len(d.Sources) == 0 {
		return &NoSourcesError{Path: d.Path}
	}
	for _, s := range d.Sources {
		for name := range s.Location {
			if !seen[name] {
				return &AxisMismatchError{Source: s.DisplayName(), Axis: name}
			}
		}
	}
	for _, inst := range d.Instances {
		for name := range inst.Location {
			if !seen[name] {
				return &AxisMismatchError{Source: inst.Name, Axis: name}
			}
		}
	}
	return nil
}

// Normalize completes all source and instance locations: coordinates for
// axes missing from a location are set to the axis default.
func (d *Document) Normalize() {
	def := d.DefaultLocation()
	complete := func(loc Location) Location {
		if loc == nil {
			loc = make(Location, len(def))
		}
		for name, v := range def {
			if _, ok := loc[name]; !ok {
				loc[name] = v
			}
		}
		return loc
	}
	for _, s := range d.Sources {
		s.Location = complete(s.Location)
	}
	for _, inst := range d.Instances {
		inst.Location = complete(inst.Location)
	}
}

// Complete returns a copy of loc with missing axes set to their defaults.
func (d *Document) Complete(loc Location) Location {
	res := d.DefaultLocation()
	for name, v := range loc {
		res[name] = v
	}
	return res
}

// DefaultSource returns the first source located at the default location.
func (d *Document) DefaultSource() (*Source, bool) {
	def := d.DefaultLocation()
	for _, s := range d.Sources {
		if d.Complete(s.Location).Equal(def) {
			return s, true
		}
	}
	return nil, false
}

// NeutralSource returns the source which serves as the default master.
// This is the source at the default location if there is one, and the first
// source of the document otherwise.  NeutralSource returns nil for documents
// without sources.
func (d *Document) NeutralSource() *Source {
	if s, ok := d.DefaultSource(); ok {
		return s
	}
	if len(d.Sources) == 0 {
		return nil
	}
	return d.Sources[0]
}

// Clone returns a deep copy of the document.  The source fonts are shared
// between the original and the copy.
func (d *Document) Clone() *Document {
	res := &Document{
		Lib:  slices.Clone(d.Lib),
		Path: d.Path,
	}
	for _, a := range d.Axes {
		res.Axes = append(res.Axes, a.Clone())
	}
	for _, s := range d.Sources {
		c := *s
		c.Location = s.Location.Clone()
		c.MutedGlyphs = slices.Clone(s.MutedGlyphs)
		res.Sources = append(res.Sources, &c)
	}
	for _, inst := range d.Instances {
		c := *inst
		c.Location = inst.Location.Clone()
		res.Instances = append(res.Instances, &c)
	}
	return res
}

// LoadFonts reads the font of every source which has not been loaded yet.
// If a source selects a layer, the layer becomes the default layer of the
// loaded font.
func (d *Document) LoadFonts() error {
	for _, s := range d.Sources {
		if s.Font != nil {
			continue
		}
		f, err := ufo.Read(s.Path)
		if err != nil {
			return fmt.Errorf("source %q: %w", s.DisplayName(), err)
		}
		err = f.UseLayer(s.Layer)
		if err != nil {
			return fmt.Errorf("source %q: %w", s.DisplayName(), err)
		}
		s.Font = f
	}
	return nil
}

// Name returns the base name of the document file without extension.
func (d *Document) Name() string {
	base := filepath.Base(d.Path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
