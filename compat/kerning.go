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
	"cmp"
	"fmt"
	"slices"
	"strings"

	"seehuhn.de/go/fontbatch/designspace"
	"seehuhn.de/go/fontbatch/interp"
	"seehuhn.de/go/fontbatch/ufo"
)

// Kerning makes the kerning of all sources compatible.  Every source
// receives every kerning pair and every kerning group found in a source
// which does not mute its kerning.  Missing values are interpolated from
// the sources which have the pair.
func (s *Session) Kerning() {
	var contributors []*designspace.Source
	for _, src := range s.Doc.Sources {
		if !src.MuteKerning {
			contributors = append(contributors, src)
		}
	}
	if len(contributors) == 0 {
		return
	}

	// The neutral source is consulted first, so that its group
	// definitions win.
	ordered := slices.Clone(contributors)
	if n := s.neutral(); n != nil {
		if i := slices.Index(ordered, n); i > 0 {
			ordered = append([]*designspace.Source{n}, slices.Delete(ordered, i, i+1)...)
		}
	}
	pairSet := make(map[ufo.Pair]bool)
	groups := make(map[string][]string)
	for _, src := range ordered {
		for pair := range src.Font.Kerning {
			pairSet[pair] = true
		}
		for name, members := range src.Font.Groups {
			if !ufo.IsGroupKey(name) {
				continue
			}
			if _, ok := groups[name]; !ok {
				groups[name] = members
			}
		}
	}
	pairs := make([]ufo.Pair, 0, len(pairSet))
	for pair := range pairSet {
		pairs = append(pairs, pair)
	}
	slices.SortFunc(pairs, func(a, b ufo.Pair) int {
		if c := cmp.Compare(a.Left, b.Left); c != 0 {
			return c
		}
		return cmp.Compare(a.Right, b.Right)
	})

	for _, src := range s.Doc.Sources {
		var addedPairs []string
		var addedGroups []string
		addGroup := func(name string) {
			if _, ok := src.Font.Groups[name]; ok {
				return
			}
			members, ok := groups[name]
			if !ok {
				return
			}
			src.Font.Groups[name] = slices.Clone(members)
			addedGroups = append(addedGroups, name)
		}

		for _, pair := range pairs {
			if _, ok := src.Font.Kerning[pair]; ok {
				continue
			}
			model, err := s.PairModels.Get(pair, func() (*interp.Model, error) {
				var samples []interp.Sample
				for _, c := range contributors {
					if v, ok := c.Font.Kerning[pair]; ok {
						samples = append(samples, interp.Sample{
							Location: c.Location,
							Value:    []float64{v},
						})
					}
				}
				return interp.New(samples, interp.WithOrigin(s.origin()), interp.WithKey(pair.String()))
			})
			if err != nil {
				s.fail(&SampleError{Item: "kerning " + pair.String(), Err: err})
				continue
			}
			v, err := model.Evaluate(src.Location)
			if err != nil {
				s.fail(&SampleError{Item: "kerning " + pair.String(), Err: err})
				continue
			}
			src.Font.Kerning[pair] = v[0]
			addedPairs = append(addedPairs, pair.String())
			if model.Extrapolates(src.Location) {
				s.Report.Writef("%s: kerning %s extrapolated to %s",
					src.DisplayName(), pair, src.Location)
			}

			for _, side := range []string{pair.Left, pair.Right} {
				if ufo.IsGroupKey(side) {
					addGroup(side)
				}
			}
		}

		names := make([]string, 0, len(groups))
		for name := range groups {
			names = append(names, name)
		}
		slices.Sort(names)
		for _, name := range names {
			addGroup(name)
		}

		if len(addedPairs) > 0 {
			s.Report.Write(fmt.Sprintf("%s: added kerning pairs %s",
				src.DisplayName(), strings.Join(addedPairs, ", ")))
		}
		if len(addedGroups) > 0 {
			s.Report.Write(fmt.Sprintf("%s: added kerning groups %s",
				src.DisplayName(), strings.Join(addedGroups, ", ")))
		}
	}
}
