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

import "fmt"

// AxisError indicates an axis with inconsistent values.
type AxisError struct {
	Axis   string
	Reason string
}

func (err *AxisError) Error() string {
	return fmt.Sprintf("axis %q: %s", err.Axis, err.Reason)
}

// AxisMismatchError is returned when a source or an instance refers to an
// axis which is not defined in the document.
type AxisMismatchError struct {
	Source string
	Axis   string
}

func (err *AxisMismatchError) Error() string {
	return fmt.Sprintf("%q: unknown axis %q", err.Source, err.Axis)
}

// NoSourcesError is returned for documents without any source.
type NoSourcesError struct {
	Path string
}

func (err *NoSourcesError) Error() string {
	if err.Path == "" {
		return "design space has no sources"
	}
	return fmt.Sprintf("%s: design space has no sources", err.Path)
}
