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

package report

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestReport(t *testing.T) {
	r := New()
	r.WriteTitle("Family")
	r.Indent()
	r.Write("first\nsecond")
	r.Indent()
	r.Writef("%d glyphs", 3)
	r.Dedent()
	r.WriteDict(map[string]any{"weight": 400, "w": "x"})
	r.Dedent()
	r.Dedent()
	r.NewLine()
	r.Write("done")

	want := strings.Join([]string{
		"Family",
		"******",
		"    first",
		"    second",
		"        3 glyphs",
		"    w      = x",
		"    weight = 400",
		"",
		"done",
	}, "\n")
	if d := cmp.Diff(want, r.String()); d != "" {
		t.Errorf("report mismatch (-want +got):\n%s", d)
	}
	if r.Len() != 9 {
		t.Errorf("got %d lines, want 9", r.Len())
	}
}

func TestNilReport(t *testing.T) {
	var r *Report
	r.Write("ignored")
	r.Indent()
	r.WriteTitle("ignored")
	if r.String() != "" {
		t.Error("nil report has contents")
	}
}

func TestSave(t *testing.T) {
	r := New()
	r.WriteTitleWith("Title", '=')
	path := filepath.Join(t.TempDir(), "report.txt")
	err := r.Save(path)
	if err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "Title\n=====\n" {
		t.Errorf("unexpected file contents %q", data)
	}
}

func TestLineProgress(t *testing.T) {
	buf := &strings.Builder{}
	p := NewLineProgress(buf, false)
	p.Update("a")
	p.Tick(1, 2)
	p.Update("b")
	if buf.String() != "a\nb\n" {
		t.Errorf("unexpected output %q", buf.String())
	}
	NoProgress.Update("x")
	NoProgress.Tick(1, 1)
}
