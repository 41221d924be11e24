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
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// registeredTags maps well-known axis names to their registered tags.
var registeredTags = map[string]string{
	"italic":       "ital",
	"optical":      "opsz",
	"opticalSize":  "opsz",
	"optical size": "opsz",
	"slant":        "slnt",
	"width":        "wdth",
	"Width":        "wdth",
	"weight":       "wght",
	"Weight":       "wght",
}

const (
	tagLength = 4
	tagFill   = '*'
)

// TagBuilder derives unique four-character axis tags from axis names.
// Tags handed out by one builder never collide.
type TagBuilder struct {
	byName map[string]string
	used   map[string]bool
}

// NewTagBuilder returns a builder with no tags assigned.
func NewTagBuilder() *TagBuilder {
	return &TagBuilder{
		byName: make(map[string]string),
		used:   make(map[string]bool),
	}
}

// Register records an explicit tag for an axis name.  Later calls to
// [TagBuilder.Tag] for this name return the registered tag, and derived tags
// avoid it.
func (b *TagBuilder) Register(name, tag string) {
	b.byName[name] = tag
	b.used[tag] = true
}

// Tag returns the tag for the named axis.
func (b *TagBuilder) Tag(name string) string {
	if tag, ok := b.byName[name]; ok {
		return tag
	}

	tag, ok := registeredTags[name]
	if !ok {
		tag = deriveTag(name)
	}
	// A registered tag only goes to the first axis which claims it.
	base := tag
	for i := 1; b.used[tag]; i++ {
		n := strconv.Itoa(i)
		tag = base[:tagLength-len(n)] + n
	}
	b.byName[name] = tag
	b.used[tag] = true
	return tag
}

// AxisTags returns the tags of all axes of the document.  Explicit tags
// from the document are registered before any tag is derived.
func (d *Document) AxisTags() map[string]string {
	b := NewTagBuilder()
	for _, a := range d.Axes {
		if a.Tag != "" {
			b.Register(a.Name, a.Tag)
		}
	}
	res := make(map[string]string, len(d.Axes))
	for _, a := range d.Axes {
		res[a.Name] = b.Tag(a.Name)
	}
	return res
}

func deriveTag(name string) string {
	stripMarks := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(stripMarks, name)
	if err != nil {
		folded = name
	}

	var chars []rune
	for _, r := range folded {
		if strings.ContainsRune("aeiouAEIOU", r) {
			continue
		}
		if r > unicode.MaxASCII || !unicode.IsPrint(r) {
			continue
		}
		chars = append(chars, r)
	}
	if len(chars) > tagLength {
		var unique []rune
		seen := make(map[rune]bool)
		for _, r := range chars {
			if !seen[r] {
				seen[r] = true
				unique = append(unique, r)
			}
		}
		chars = unique
	}
	if len(chars) > tagLength {
		chars = chars[:tagLength]
	}
	for i, r := range chars {
		if r == ' ' {
			chars[i] = tagFill
		}
	}
	for len(chars) < tagLength {
		chars = append(chars, tagFill)
	}
	return string(chars)
}
