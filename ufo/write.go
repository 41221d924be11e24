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
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"howett.net/plist"
)

// Write stores the font as a UFO 3 directory at path.  Any existing file
// or directory at path is replaced.  On success, f.Path is set to path.
func (f *Font) Write(path string) error {
	err := os.RemoveAll(path)
	if err != nil {
		return err
	}
	err = os.MkdirAll(path, 0o755)
	if err != nil {
		return err
	}

	meta := map[string]interface{}{
		"creator":       "de.seehuhn.fontbatch",
		"formatVersion": 3,
	}
	err = writePlist(path, "metainfo.plist", meta)
	if err != nil {
		return err
	}

	info := map[string]interface{}{
		"unitsPerEm":  f.UnitsPerEm,
		"ascender":    f.Ascender,
		"descender":   f.Descender,
		"capHeight":   f.CapHeight,
		"xHeight":     f.XHeight,
		"italicAngle": f.ItalicAngle,
	}
	if f.FamilyName != "" {
		info["familyName"] = f.FamilyName
	}
	if f.StyleName != "" {
		info["styleName"] = f.StyleName
	}
	err = writePlist(path, "fontinfo.plist", info)
	if err != nil {
		return err
	}

	if len(f.Groups) > 0 {
		err = writePlist(path, "groups.plist", f.Groups)
		if err != nil {
			return err
		}
	}

	if len(f.Kerning) > 0 {
		kerning := make(map[string]map[string]float64)
		for pair, v := range f.Kerning {
			row := kerning[pair.Left]
			if row == nil {
				row = make(map[string]float64)
				kerning[pair.Left] = row
			}
			row[pair.Right] = v
		}
		err = writePlist(path, "kerning.plist", kerning)
		if err != nil {
			return err
		}
	}

	if len(f.Lib) > 0 {
		err = writePlist(path, "lib.plist", f.Lib)
		if err != nil {
			return err
		}
	}

	defaultLayer := f.DefaultLayer
	if defaultLayer == "" {
		defaultLayer = DefaultLayerName
	}
	layerContents := [][]string{{defaultLayer, "glyphs"}}
	err = writeGlyphSet(filepath.Join(path, "glyphs"), f.Glyphs)
	if err != nil {
		return err
	}
	usedDirs := map[string]bool{"glyphs": true}
	for _, l := range f.Layers {
		dir := layerDirName(l.Name, usedDirs)
		err = writeGlyphSet(filepath.Join(path, dir), l.Glyphs)
		if err != nil {
			return err
		}
		layerContents = append(layerContents, []string{l.Name, dir})
	}
	err = writePlist(path, "layercontents.plist", layerContents)
	if err != nil {
		return err
	}

	f.Path = path
	return nil
}

func layerDirName(name string, used map[string]bool) string {
	file := glifFileName(name, map[string]bool{})
	base := "glyphs." + file[:len(file)-len(".glif")]
	dir := base
	for i := 1; used[dir]; i++ {
		dir = fmt.Sprintf("%s%d", base, i)
	}
	used[dir] = true
	return dir
}

func writeGlyphSet(dir string, glyphs map[string]*Glyph) error {
	err := os.MkdirAll(dir, 0o755)
	if err != nil {
		return err
	}

	names := make([]string, 0, len(glyphs))
	for name := range glyphs {
		names = append(names, name)
	}
	sort.Strings(names)

	used := make(map[string]bool)
	contents := make(map[string]string, len(glyphs))
	for _, name := range names {
		g := glyphs[name]
		if g.Name != name {
			g = g.Clone()
			g.Name = name
		}
		data, err := encodeGlif(g)
		if err != nil {
			return err
		}
		file := glifFileName(name, used)
		err = os.WriteFile(filepath.Join(dir, file), data, 0o644)
		if err != nil {
			return err
		}
		contents[name] = file
	}
	return writePlist(dir, "contents.plist", contents)
}

func writePlist(dir, name string, v interface{}) error {
	data, err := plist.MarshalIndent(v, plist.XMLFormat, "\t")
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	return os.WriteFile(filepath.Join(dir, name), data, 0o644)
}
