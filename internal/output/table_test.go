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

package output

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// cells extracts the cell contents from the rendered rows of a table.
func cells(rendered string) [][]string {
	var res [][]string
	for _, line := range strings.Split(rendered, "\n") {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, "|") {
			continue
		}
		parts := strings.Split(strings.Trim(line, "|"), "|")
		for i, p := range parts {
			parts[i] = strings.TrimSpace(p)
		}
		res = append(res, parts)
	}
	return res
}

func TestTable(t *testing.T) {
	out := NewTable("axis", "tag", "values").
		Row("weight", "wght", "").
		Row("italic", "ital", "0 1").
		String()

	want := [][]string{
		{"axis", "tag", "values"},
		{"weight", "wght", ""},
		{"italic", "ital", "0 1"},
	}
	if d := cmp.Diff(want, cells(out)); d != "" {
		t.Errorf("table mismatch (-want +got):\n%s", d)
	}
	if strings.Contains(out, "\x1b[") {
		t.Errorf("unexpected escape sequences in %q", out)
	}
}
