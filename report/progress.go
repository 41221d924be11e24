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
	"fmt"
	"io"
	"strings"
	"sync"
)

// Progress receives progress information from long running operations.
type Progress interface {
	// Update sets the text describing the current step.
	Update(text string)

	// Tick reports that done out of total steps are complete.
	Tick(done, total int)
}

// NoProgress is a Progress which discards all updates.
var NoProgress Progress = noProgress{}

type noProgress struct{}

func (noProgress) Update(string) {}
func (noProgress) Tick(int, int) {}

// LineProgress writes one line per update to w.
type LineProgress struct {
	mu sync.Mutex
	w  io.Writer

	// Interactive selects a single, redrawn status line instead of one line
	// per update.  Use this for terminals.
	Interactive bool

	text string
}

// NewLineProgress returns a Progress writing to w.
func NewLineProgress(w io.Writer, interactive bool) *LineProgress {
	return &LineProgress{w: w, Interactive: interactive}
}

// Update implements the [Progress] interface.
func (p *LineProgress) Update(text string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.text = text
	if p.Interactive {
		fmt.Fprintf(p.w, "\r\033[K%s", text)
	} else {
		fmt.Fprintln(p.w, text)
	}
}

// Tick implements the [Progress] interface.
func (p *LineProgress) Tick(done, total int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.Interactive {
		return
	}
	const width = 20
	n := 0
	if total > 0 {
		n = min(width, done*width/total)
	}
	bar := strings.Repeat("#", n) + strings.Repeat(".", width-n)
	fmt.Fprintf(p.w, "\r\033[K[%s] %d/%d %s", bar, done, total, p.text)
	if done >= total {
		fmt.Fprintln(p.w)
	}
}
