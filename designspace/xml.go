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
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

type xmlDocument struct {
	XMLName   xml.Name      `xml:"designspace"`
	Format    string        `xml:"format,attr"`
	Axes      *xmlAxes      `xml:"axes"`
	Sources   []xmlSource   `xml:"sources>source"`
	Instances []xmlInstance `xml:"instances>instance,omitempty"`
	Lib       *xmlLib       `xml:"lib"`
}

type xmlAxes struct {
	Axes []xmlAxis `xml:"axis"`
}

type xmlAxis struct {
	Tag     string   `xml:"tag,attr,omitempty"`
	Name    string   `xml:"name,attr"`
	Minimum *float64 `xml:"minimum,attr"`
	Maximum *float64 `xml:"maximum,attr"`
	Default float64  `xml:"default,attr"`
	Values  string   `xml:"values,attr,omitempty"`
	Hidden  string   `xml:"hidden,attr,omitempty"`
	Map     []xmlMap `xml:"map"`
}

type xmlMap struct {
	Input  float64 `xml:"input,attr"`
	Output float64 `xml:"output,attr"`
}

type xmlSource struct {
	Filename   string          `xml:"filename,attr,omitempty"`
	Name       string          `xml:"name,attr,omitempty"`
	FamilyName string          `xml:"familyname,attr,omitempty"`
	StyleName  string          `xml:"stylename,attr,omitempty"`
	Layer      string          `xml:"layer,attr,omitempty"`
	Location   []xmlDimension  `xml:"location>dimension"`
	Kerning    *xmlMute        `xml:"kerning"`
	Glyphs     []xmlMutedGlyph `xml:"glyph"`
}

type xmlInstance struct {
	Name       string         `xml:"name,attr,omitempty"`
	FamilyName string         `xml:"familyname,attr,omitempty"`
	StyleName  string         `xml:"stylename,attr,omitempty"`
	Filename   string         `xml:"filename,attr,omitempty"`
	Location   []xmlDimension `xml:"location>dimension"`
}

type xmlDimension struct {
	Name      string   `xml:"name,attr"`
	XValue    *float64 `xml:"xvalue,attr"`
	UserValue *float64 `xml:"uservalue,attr"`
}

type xmlMute struct {
	Mute string `xml:"mute,attr"`
}

type xmlMutedGlyph struct {
	Name string `xml:"name,attr"`
	Mute string `xml:"mute,attr"`
}

type xmlLib struct {
	Inner []byte `xml:",innerxml"`
}

// Read reads a .designspace file.  Source paths are resolved relative to
// the directory of the file.
func Read(path string) (*Document, error) {
	fd, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer fd.Close()

	d, err := Decode(fd)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	d.Path = path
	dir := filepath.Dir(path)
	for _, s := range d.Sources {
		if s.Filename != "" && !filepath.IsAbs(s.Filename) {
			s.Path = filepath.Join(dir, filepath.FromSlash(s.Filename))
		} else {
			s.Path = s.Filename
		}
	}
	return d, nil
}

// Decode parses a design space document.  Source paths are left empty.
func Decode(r io.Reader) (*Document, error) {
	var raw xmlDocument
	err := xml.NewDecoder(r).Decode(&raw)
	if err != nil {
		return nil, err
	}

	d := &Document{}
	if raw.Axes != nil {
		for _, ra := range raw.Axes.Axes {
			a := &Axis{
				Name:    ra.Name,
				Tag:     ra.Tag,
				Default: ra.Default,
				Hidden:  ra.Hidden == "1" || ra.Hidden == "true",
			}
			if ra.Values != "" {
				for _, field := range strings.Fields(ra.Values) {
					v, err := strconv.ParseFloat(field, 64)
					if err != nil {
						return nil, &AxisError{Axis: ra.Name, Reason: fmt.Sprintf("invalid value %q", field)}
					}
					a.Values = append(a.Values, v)
				}
				a.Minimum, a.Maximum = a.Values[0], a.Values[0]
				for _, v := range a.Values {
					a.Minimum = min(a.Minimum, v)
					a.Maximum = max(a.Maximum, v)
				}
			}
			if ra.Minimum != nil {
				a.Minimum = *ra.Minimum
			}
			if ra.Maximum != nil {
				a.Maximum = *ra.Maximum
			}
			for _, m := range ra.Map {
				a.Map = append(a.Map, MapPoint{Input: m.Input, Output: m.Output})
			}
			d.Axes = append(d.Axes, a)
		}
	}

	for _, rs := range raw.Sources {
		loc, err := d.decodeLocation(rs.Location)
		if err != nil {
			return nil, err
		}
		s := &Source{
			Name:       rs.Name,
			Filename:   rs.Filename,
			FamilyName: rs.FamilyName,
			StyleName:  rs.StyleName,
			Layer:      rs.Layer,
			Location:   loc,
		}
		if rs.Kerning != nil && rs.Kerning.Mute == "1" {
			s.MuteKerning = true
		}
		for _, g := range rs.Glyphs {
			if g.Mute == "1" {
				s.MutedGlyphs = append(s.MutedGlyphs, g.Name)
			}
		}
		d.Sources = append(d.Sources, s)
	}

	for _, ri := range raw.Instances {
		loc, err := d.decodeLocation(ri.Location)
		if err != nil {
			return nil, err
		}
		d.Instances = append(d.Instances, &Instance{
			Name:       ri.Name,
			FamilyName: ri.FamilyName,
			StyleName:  ri.StyleName,
			Filename:   ri.Filename,
			Location:   loc,
		})
	}

	if raw.Lib != nil && len(bytes.TrimSpace(raw.Lib.Inner)) > 0 {
		d.Lib = raw.Lib.Inner
	}
	return d, nil
}

// decodeLocation converts dimension elements to design coordinates.  User
// coordinates are mapped through the axis map.
func (d *Document) decodeLocation(dims []xmlDimension) (Location, error) {
	loc := make(Location, len(dims))
	for _, dim := range dims {
		switch {
		case dim.XValue != nil:
			loc[dim.Name] = *dim.XValue
		case dim.UserValue != nil:
			v := *dim.UserValue
			if a := d.Axis(dim.Name); a != nil {
				v = a.MapForward(v)
			}
			loc[dim.Name] = v
		default:
			return nil, fmt.Errorf("dimension %q has no value", dim.Name)
		}
	}
	return loc, nil
}

func encodeLocation(axes []*Axis, loc Location) []xmlDimension {
	var res []xmlDimension
	seen := make(map[string]bool)
	for _, a := range axes {
		if v, ok := loc[a.Name]; ok {
			res = append(res, xmlDimension{Name: a.Name, XValue: &v})
			seen[a.Name] = true
		}
	}
	// unknown axes are kept, so that Validate can report them
	for name, v := range loc {
		if !seen[name] {
			res = append(res, xmlDimension{Name: name, XValue: &v})
		}
	}
	return res
}

// Encode writes the document in .designspace format.
func (d *Document) Encode(w io.Writer) error {
	raw := xmlDocument{
		Format: "5.0",
		Axes:   &xmlAxes{},
	}
	for _, a := range d.Axes {
		ra := xmlAxis{
			Tag:     a.Tag,
			Name:    a.Name,
			Default: a.Default,
		}
		if a.Hidden {
			ra.Hidden = "1"
		}
		if a.IsDiscrete() {
			fields := make([]string, len(a.Values))
			for i, v := range a.Values {
				fields[i] = strconv.FormatFloat(v, 'g', -1, 64)
			}
			ra.Values = strings.Join(fields, " ")
		} else {
			minimum, maximum := a.Minimum, a.Maximum
			ra.Minimum = &minimum
			ra.Maximum = &maximum
		}
		for _, m := range a.Map {
			ra.Map = append(ra.Map, xmlMap{Input: m.Input, Output: m.Output})
		}
		raw.Axes.Axes = append(raw.Axes.Axes, ra)
	}
	for _, s := range d.Sources {
		rs := xmlSource{
			Filename:   filepath.ToSlash(s.Filename),
			Name:       s.Name,
			FamilyName: s.FamilyName,
			StyleName:  s.StyleName,
			Layer:      s.Layer,
			Location:   encodeLocation(d.Axes, s.Location),
		}
		if s.MuteKerning {
			rs.Kerning = &xmlMute{Mute: "1"}
		}
		for _, name := range s.MutedGlyphs {
			rs.Glyphs = append(rs.Glyphs, xmlMutedGlyph{Name: name, Mute: "1"})
		}
		raw.Sources = append(raw.Sources, rs)
	}
	for _, inst := range d.Instances {
		raw.Instances = append(raw.Instances, xmlInstance{
			Name:       inst.Name,
			FamilyName: inst.FamilyName,
			StyleName:  inst.StyleName,
			Filename:   filepath.ToSlash(inst.Filename),
			Location:   encodeLocation(d.Axes, inst.Location),
		})
	}
	if len(d.Lib) > 0 {
		raw.Lib = &xmlLib{Inner: d.Lib}
	}

	_, err := io.WriteString(w, xml.Header)
	if err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	err = enc.Encode(raw)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, "\n")
	return err
}

// Write stores the document at path.
func (d *Document) Write(path string) error {
	fd, err := os.Create(path)
	if err != nil {
		return err
	}
	err = d.Encode(fd)
	if err != nil {
		fd.Close()
		return err
	}
	return fd.Close()
}
