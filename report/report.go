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

// Package report collects the human readable log of a font generation
// run.
package report

import (
	"fmt"
	"os"
	"slices"
	"strings"
	"sync"

	"golang.org/x/exp/maps"
)

// indentUnit is the text used for one level of indentation.
const indentUnit = "    "

// Report is an append-only, indented text log.  A Report is safe for
// concurrent use.
type Report struct {
	mu     sync.Mutex
	lines  []string
	indent int
}

// New allocates an empty report.
func New() *Report {
	return &Report{}
}

// Indent increases the indentation of subsequent lines by one level.
func (r *Report) Indent() {
	if r == nil {
		return
	}
	r.mu.Lock()
	r.indent++
	r.mu.Unlock()
}

// Dedent decreases the indentation of subsequent lines by one level.
func (r *Report) Dedent() {
	if r == nil {
		return
	}
	r.mu.Lock()
	if r.indent > 0 {
		r.indent--
	}
	r.mu.Unlock()
}

// Write appends text to the report.  Every line of text is indented.
func (r *Report) Write(text string) {
	if r == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.write(text)
}

func (r *Report) write(text string) {
	prefix := strings.Repeat(indentUnit, r.indent)
	for _, line := range strings.Split(text, "\n") {
		r.lines = append(r.lines, prefix+line)
	}
}

// Writef formats according to a format specifier and appends the result to
// the report.
func (r *Report) Writef(format string, args ...any) {
	r.Write(fmt.Sprintf(format, args...))
}

// WriteTitle appends a title, underlined with '*' characters.
func (r *Report) WriteTitle(title string) {
	r.WriteTitleWith(title, '*')
}

// WriteTitleWith appends a title, underlined with the given character.
func (r *Report) WriteTitleWith(title string, underline rune) {
	if r == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.write(title)
	r.write(strings.Repeat(string(underline), len([]rune(title))))
}

// WriteDict appends one "key = value" line for every entry of d, in
// sorted key order.  The keys are padded to a common width.
func WriteDict[V any](r *Report, d map[string]V) {
	if r == nil {
		return
	}
	keys := maps.Keys(d)
	slices.Sort(keys)
	width := 0
	for _, k := range keys {
		width = max(width, len([]rune(k)))
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	for _, k := range keys {
		pad := strings.Repeat(" ", width-len([]rune(k)))
		r.write(fmt.Sprintf("%s%s = %v", k, pad, d[k]))
	}
}

// WriteDict appends one "key = value" line for every entry of d.  See
// [WriteDict] for details.
func (r *Report) WriteDict(d map[string]any) {
	WriteDict(r, d)
}

// WriteList appends one line per item.
func (r *Report) WriteList(items []string) {
	for _, item := range items {
		r.Write(item)
	}
}

// NewLine appends an empty, unindented line.
func (r *Report) NewLine() {
	if r == nil {
		return
	}
	r.mu.Lock()
	r.lines = append(r.lines, "")
	r.mu.Unlock()
}

// String returns the contents of the report.
func (r *Report) String() string {
	if r == nil {
		return ""
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return strings.Join(r.lines, "\n")
}

// Len returns the number of lines in the report.
func (r *Report) Len() int {
	if r == nil {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.lines)
}

// Save writes the contents of the report to a file.
func (r *Report) Save(path string) error {
	return os.WriteFile(path, []byte(r.String()+"\n"), 0o644)
}
