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
	"bytes"
	"encoding/xml"
	"fmt"
	"strconv"
	"strings"

	"howett.net/plist"
	"seehuhn.de/go/geom/matrix"
)

type glifGlyph struct {
	XMLName  xml.Name      `xml:"glyph"`
	Name     string        `xml:"name,attr"`
	Format   int           `xml:"format,attr"`
	Advance  *glifAdvance  `xml:"advance"`
	Unicodes []glifUnicode `xml:"unicode"`
	Anchors  []glifAnchor  `xml:"anchor"`
	Outline  *glifOutline  `xml:"outline"`
	Lib      *glifLib      `xml:"lib"`
}

type glifAdvance struct {
	Width  float64 `xml:"width,attr,omitempty"`
	Height float64 `xml:"height,attr,omitempty"`
}

type glifUnicode struct {
	Hex string `xml:"hex,attr"`
}

type glifAnchor struct {
	X    float64 `xml:"x,attr"`
	Y    float64 `xml:"y,attr"`
	Name string  `xml:"name,attr,omitempty"`
}

type glifOutline struct {
	Contours   []glifContour   `xml:"contour"`
	Components []glifComponent `xml:"component"`
}

type glifContour struct {
	Points []glifPoint `xml:"point"`
}

type glifPoint struct {
	X      float64 `xml:"x,attr"`
	Y      float64 `xml:"y,attr"`
	Type   string  `xml:"type,attr,omitempty"`
	Smooth string  `xml:"smooth,attr,omitempty"`
	Name   string  `xml:"name,attr,omitempty"`
}

type glifComponent struct {
	Base    string   `xml:"base,attr"`
	XScale  *float64 `xml:"xScale,attr"`
	XYScale *float64 `xml:"xyScale,attr"`
	YXScale *float64 `xml:"yxScale,attr"`
	YScale  *float64 `xml:"yScale,attr"`
	XOffset *float64 `xml:"xOffset,attr"`
	YOffset *float64 `xml:"yOffset,attr"`
}

type glifLib struct {
	Inner []byte `xml:",innerxml"`
}

func valueOr(p *float64, def float64) float64 {
	if p == nil {
		return def
	}
	return *p
}

// decodeGlif parses the contents of a .glif file.
func decodeGlif(data []byte) (*Glyph, error) {
	var raw glifGlyph
	err := xml.Unmarshal(data, &raw)
	if err != nil {
		return nil, err
	}

	g := NewGlyph(raw.Name)
	if raw.Advance != nil {
		g.Width = raw.Advance.Width
	}
	for _, u := range raw.Unicodes {
		code, err := strconv.ParseUint(u.Hex, 16, 32)
		if err != nil {
			return nil, fmt.Errorf("glyph %q: invalid unicode %q", raw.Name, u.Hex)
		}
		g.Unicodes = append(g.Unicodes, rune(code))
	}
	for _, a := range raw.Anchors {
		g.Anchors = append(g.Anchors, Anchor{Name: a.Name, X: a.X, Y: a.Y})
	}
	if raw.Outline != nil {
		for _, c := range raw.Outline.Contours {
			contour := make(Contour, 0, len(c.Points))
			for _, p := range c.Points {
				tp := SegmentType(p.Type)
				switch tp {
				case OffCurve, Move, Line, Curve, QCurve:
				case "offcurve":
					tp = OffCurve
				default:
					return nil, fmt.Errorf("glyph %q: invalid point type %q", raw.Name, p.Type)
				}
				contour = append(contour, Point{
					X:      p.X,
					Y:      p.Y,
					Type:   tp,
					Smooth: p.Smooth == "yes",
					Name:   p.Name,
				})
			}
			g.Contours = append(g.Contours, contour)
		}
		for _, c := range raw.Outline.Components {
			g.Components = append(g.Components, Component{
				Base: c.Base,
				Transform: matrix.Matrix{
					valueOr(c.XScale, 1), valueOr(c.XYScale, 0),
					valueOr(c.YXScale, 0), valueOr(c.YScale, 1),
					valueOr(c.XOffset, 0), valueOr(c.YOffset, 0),
				},
			})
		}
	}
	if raw.Lib != nil && len(bytes.TrimSpace(raw.Lib.Inner)) > 0 {
		doc := append([]byte(`<?xml version="1.0" encoding="UTF-8"?><plist version="1.0">`), raw.Lib.Inner...)
		doc = append(doc, "</plist>"...)
		var lib map[string]interface{}
		_, err := plist.Unmarshal(doc, &lib)
		if err != nil {
			return nil, fmt.Errorf("glyph %q: lib: %w", raw.Name, err)
		}
		g.Lib = lib
	}
	return g, nil
}

// encodeGlif returns the .glif representation of g.
func encodeGlif(g *Glyph) ([]byte, error) {
	raw := glifGlyph{
		Name:    g.Name,
		Format:  2,
		Advance: &glifAdvance{Width: g.Width},
	}
	for _, u := range g.Unicodes {
		raw.Unicodes = append(raw.Unicodes, glifUnicode{Hex: fmt.Sprintf("%04X", u)})
	}
	for _, a := range g.Anchors {
		raw.Anchors = append(raw.Anchors, glifAnchor{X: a.X, Y: a.Y, Name: a.Name})
	}
	if len(g.Contours) > 0 || len(g.Components) > 0 {
		raw.Outline = &glifOutline{}
		for _, c := range g.Contours {
			var gc glifContour
			for _, p := range c {
				gp := glifPoint{X: p.X, Y: p.Y, Type: string(p.Type), Name: p.Name}
				if p.Smooth {
					gp.Smooth = "yes"
				}
				gc.Points = append(gc.Points, gp)
			}
			raw.Outline.Contours = append(raw.Outline.Contours, gc)
		}
		for _, c := range g.Components {
			m := c.Transform
			raw.Outline.Components = append(raw.Outline.Components, glifComponent{
				Base:    c.Base,
				XScale:  nonDefault(m[0], 1),
				XYScale: nonDefault(m[1], 0),
				YXScale: nonDefault(m[2], 0),
				YScale:  nonDefault(m[3], 1),
				XOffset: nonDefault(m[4], 0),
				YOffset: nonDefault(m[5], 0),
			})
		}
	}
	if len(g.Lib) > 0 {
		data, err := plist.MarshalIndent(g.Lib, plist.XMLFormat, "\t")
		if err != nil {
			return nil, fmt.Errorf("glyph %q: lib: %w", g.Name, err)
		}
		s := string(data)
		start := strings.Index(s, "<dict>")
		end := strings.LastIndex(s, "</dict>")
		if start >= 0 && end > start {
			raw.Lib = &glifLib{Inner: []byte(s[start : end+len("</dict>")])}
		}
	}

	out, err := xml.MarshalIndent(raw, "", "  ")
	if err != nil {
		return nil, err
	}
	return append([]byte(xml.Header), append(out, '\n')...), nil
}

func nonDefault(x, def float64) *float64 {
	if x == def {
		return nil
	}
	return &x
}

// glifFileName maps a glyph name to a file name, following the user name to
// file name convention of UFO 3.  Names already in use (compared case
// insensitively) are made unique by a numeric suffix.
func glifFileName(name string, used map[string]bool) string {
	var b strings.Builder
	for i, r := range name {
		switch {
		case i == 0 && r == '.':
			b.WriteRune('_')
		case r < 0x20 || r == 0x7f || strings.ContainsRune(`"*+/:<>?[\]|`, r):
			b.WriteRune('_')
		case r >= 'A' && r <= 'Z':
			b.WriteRune(r)
			b.WriteRune('_')
		default:
			b.WriteRune(r)
		}
	}
	base := b.String()
	if len(base) > 250 {
		base = base[:250]
	}
	candidate := base + ".glif"
	for i := 1; used[strings.ToLower(candidate)]; i++ {
		candidate = fmt.Sprintf("%s%015d.glif", base, i)
	}
	used[strings.ToLower(candidate)] = true
	return candidate
}
