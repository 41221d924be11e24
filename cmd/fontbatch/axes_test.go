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

package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"seehuhn.de/go/fontbatch/designspace"
)

func TestShowAxes(t *testing.T) {
	doc := &designspace.Document{
		Path: "Test.designspace",
		Axes: []*designspace.Axis{
			{Name: "weight", Minimum: 100, Default: 400, Maximum: 900},
			{Name: "contrast", Minimum: 0, Default: 0, Maximum: 100},
		},
		Sources: []*designspace.Source{
			{Name: "Regular", Location: designspace.Location{"weight": 400, "contrast": 0}},
		},
	}
	buf := &bytes.Buffer{}
	showAxes(buf, doc)

	var rows [][]string
	for _, line := range strings.Split(buf.String(), "\n") {
		if !strings.HasPrefix(line, "|") {
			continue
		}
		fields := strings.Split(strings.Trim(line, "|"), "|")
		for i, f := range fields {
			fields[i] = strings.TrimSpace(f)
		}
		rows = append(rows, fields)
	}
	want := [][]string{
		{"axis", "tag", "min", "default", "max", "values"},
		{"weight", "wght", "100", "400", "900", ""},
		{"contrast", "cntr", "0", "0", "100", ""},
	}
	if d := cmp.Diff(want, rows); d != "" {
		t.Errorf("axes table mismatch (-want +got):\n%s", d)
	}
	if !strings.Contains(buf.String(), "default source: Regular") {
		t.Errorf("default source not shown:\n%s", buf.String())
	}
}
