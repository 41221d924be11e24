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

import "fmt"

// IncompatibleOutlineError indicates that the outlines of a glyph in the
// different sources cannot be made compatible.
type IncompatibleOutlineError struct {
	Glyph   string
	Source  string
	Contour int // -1 if the error does not concern a single contour
	Reason  string
}

func (err *IncompatibleOutlineError) Error() string {
	if err.Contour < 0 {
		return fmt.Sprintf("glyph %q in %q: %s", err.Glyph, err.Source, err.Reason)
	}
	return fmt.Sprintf("glyph %q in %q, contour %d: %s",
		err.Glyph, err.Source, err.Contour, err.Reason)
}

// SampleError wraps an interpolation error with the glyph or kerning pair
// which could not be synthesized.
type SampleError struct {
	Item string
	Err  error
}

func (err *SampleError) Error() string {
	return fmt.Sprintf("%s: %v", err.Item, err.Err)
}

func (err *SampleError) Unwrap() error {
	return err.Err
}
