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
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"howett.net/plist"
)

// Read loads the UFO font stored in the directory at path.
func Read(path string) (*Font, error) {
	f := NewFont()
	f.Path = path

	var meta struct {
		Creator       string `plist:"creator"`
		FormatVersion int    `plist:"formatVersion"`
	}
	err := readPlist(path, "metainfo.plist", &meta)
	if err != nil {
		return nil, err
	}
	if meta.FormatVersion != 2 && meta.FormatVersion != 3 {
		return nil, &FormatError{Path: path, Reason: fmt.Sprintf("unsupported format version %d", meta.FormatVersion)}
	}

	var info map[string]interface{}
	err = readOptionalPlist(path, "fontinfo.plist", &info)
	if err != nil {
		return nil, err
	}
	f.FamilyName, _ = info["familyName"].(string)
	f.StyleName, _ = info["styleName"].(string)
	if upem, ok := toFloat(info["unitsPerEm"]); ok {
		f.UnitsPerEm = upem
	}
	f.Ascender, _ = toFloat(info["ascender"])
	f.Descender, _ = toFloat(info["descender"])
	f.CapHeight, _ = toFloat(info["capHeight"])
	f.XHeight, _ = toFloat(info["xHeight"])
	f.ItalicAngle, _ = toFloat(info["italicAngle"])

	err = readOptionalPlist(path, "groups.plist", &f.Groups)
	if err != nil {
		return nil, err
	}
	if f.Groups == nil {
		f.Groups = make(map[string][]string)
	}

	var kerning map[string]map[string]interface{}
	err = readOptionalPlist(path, "kerning.plist", &kerning)
	if err != nil {
		return nil, err
	}
	for left, row := range kerning {
		for right, v := range row {
			x, ok := toFloat(v)
			if !ok {
				return nil, &FormatError{Path: path, Reason: fmt.Sprintf("invalid kerning value for %s", Pair{left, right})}
			}
			f.Kerning[Pair{left, right}] = x
		}
	}

	err = readOptionalPlist(path, "lib.plist", &f.Lib)
	if err != nil {
		return nil, err
	}
	if f.Lib == nil {
		f.Lib = make(map[string]interface{})
	}

	layers := [][]string{{DefaultLayerName, "glyphs"}}
	if meta.FormatVersion >= 3 {
		err = readPlist(path, "layercontents.plist", &layers)
		if err != nil {
			return nil, err
		}
	}
	for i, l := range layers {
		if len(l) != 2 {
			return nil, &FormatError{Path: path, Reason: "malformed layercontents.plist"}
		}
		glyphs, err := readGlyphSet(filepath.Join(path, l[1]))
		if err != nil {
			return nil, err
		}
		if i == 0 {
			f.DefaultLayer = l[0]
			f.Glyphs = glyphs
		} else {
			f.Layers = append(f.Layers, &Layer{Name: l[0], Glyphs: glyphs})
		}
	}

	f.SegmentType = Curve
	for _, g := range f.Glyphs {
		if hasQCurve(g) {
			f.SegmentType = QCurve
			break
		}
	}

	return f, nil
}

func hasQCurve(g *Glyph) bool {
	for _, c := range g.Contours {
		for _, p := range c {
			if p.Type == QCurve {
				return true
			}
		}
	}
	return false
}

func readGlyphSet(dir string) (map[string]*Glyph, error) {
	var contents map[string]string
	err := readPlist(dir, "contents.plist", &contents)
	if err != nil {
		return nil, err
	}
	glyphs := make(map[string]*Glyph, len(contents))
	for name, file := range contents {
		data, err := os.ReadFile(filepath.Join(dir, file))
		if err != nil {
			return nil, err
		}
		g, err := decodeGlif(data)
		if err != nil {
			return nil, &FormatError{Path: filepath.Join(dir, file), Reason: err.Error()}
		}
		g.Name = name
		glyphs[name] = g
	}
	return glyphs, nil
}

func readPlist(dir, name string, v interface{}) error {
	data, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		return err
	}
	_, err = plist.Unmarshal(data, v)
	if err != nil {
		return &FormatError{Path: filepath.Join(dir, name), Reason: err.Error()}
	}
	return nil
}

func readOptionalPlist(dir, name string, v interface{}) error {
	err := readPlist(dir, name, v)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

// toFloat converts a numeric property list value to float64.
func toFloat(v interface{}) (float64, bool) {
	switch v := v.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint64:
		return float64(v), true
	case int32:
		return float64(v), true
	case uint32:
		return float64(v), true
	}
	return 0, false
}

// FormatError indicates a malformed UFO.
type FormatError struct {
	Path   string
	Reason string
}

func (err *FormatError) Error() string {
	return "ufo: " + err.Path + ": " + err.Reason
}
