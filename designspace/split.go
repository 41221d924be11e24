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
)

// SubDocument is an interpolable part of a design space with discrete
// axes.
type SubDocument struct {
	*Document

	// Discrete gives the values of the removed discrete axes, in user
	// coordinates.
	Discrete Location

	// Suffix is appended to the document name to name the sub-document.  It
	// is empty for documents without discrete axes.
	Suffix string
}

// Split returns one sub-document for every combination of discrete axis
// values.  The discrete axes are removed from the sub-documents, and each
// sub-document only keeps the sources and instances located at its discrete
// values.  A document without discrete axes yields a single sub-document
// which shares all data with d.
func (d *Document) Split() []*SubDocument {
	var discrete []*Axis
	for _, a := range d.Axes {
		if a.IsDiscrete() {
			discrete = append(discrete, a)
		}
	}
	if len(discrete) == 0 {
		return []*SubDocument{{Document: d}}
	}

	var res []*SubDocument
	combo := make([]int, len(discrete))
	for {
		values := make(Location, len(discrete))
		var parts []string
		for i, a := range discrete {
			v := a.Values[combo[i]]
			values[a.Name] = v
			parts = append(parts, a.Name+strconv.FormatFloat(v, 'g', -1, 64))
		}
		res = append(res, &SubDocument{
			Document: d.restrict(discrete, values),
			Discrete: values,
			Suffix:   "-" + strings.Join(parts, "-"),
		})

		// advance the combination, last axis fastest
		i := len(combo) - 1
		for i >= 0 {
			combo[i]++
			if combo[i] < len(discrete[i].Values) {
				break
			}
			combo[i] = 0
			i--
		}
		if i < 0 {
			break
		}
	}
	return res
}

func (d *Document) restrict(discrete []*Axis, values Location) *Document {
	isDiscrete := make(map[string]bool, len(discrete))
	for _, a := range discrete {
		isDiscrete[a.Name] = true
	}
	matches := func(loc Location) bool {
		for _, a := range discrete {
			v, ok := loc[a.Name]
			if !ok {
				v = a.DefaultDesign()
			}
			if v != a.MapForward(values[a.Name]) {
				return false
			}
		}
		return true
	}
	strip := func(loc Location) Location {
		res := make(Location, len(loc))
		for k, v := range loc {
			if !isDiscrete[k] {
				res[k] = v
			}
		}
		return res
	}

	full := d.Clone()
	res := &Document{Lib: full.Lib, Path: full.Path}
	for _, a := range full.Axes {
		if !isDiscrete[a.Name] {
			res.Axes = append(res.Axes, a)
		}
	}
	for _, s := range full.Sources {
		if matches(s.Location) {
			s.Location = strip(s.Location)
			res.Sources = append(res.Sources, s)
		}
	}
	for _, inst := range full.Instances {
		if matches(inst.Location) {
			inst.Location = strip(inst.Location)
			res.Instances = append(res.Instances, inst)
		}
	}
	return res
}

// AxisExtremes returns, for every axis, the locations of its extreme
// values with all other axes at their defaults.  For continuous axes these
// are the minimum and the maximum, skipping values equal to the default.
// For discrete axes every non-default value is used.
func (d *Document) AxisExtremes() []Location {
	def := d.DefaultLocation()
	var res []Location
	for _, a := range d.Axes {
		var user []float64
		if a.IsDiscrete() {
			user = a.Values
		} else {
			user = []float64{a.Minimum, a.Maximum}
		}
		for _, u := range user {
			if u == a.Default {
				continue
			}
			loc := def.Clone()
			loc[a.Name] = a.MapForward(u)
			res = append(res, loc)
		}
	}
	return res
}
