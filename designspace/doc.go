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

// Package designspace describes a family of source fonts arranged in a
// multi-axis design space.
//
// A [Document] lists the [Axis] values of the space, the [Source] masters
// together with their [Location], and the named [Instance] values.  Axis
// minimum, default and maximum are given in user coordinates; locations are
// given in design coordinates.  The optional axis map converts between the
// two.
//
// Documents are read from and written to the .designspace XML format with
// [Read], [Decode], [Document.Encode] and [Document.Write].  Discrete axes
// are supported: [Document.Split] cuts a document into sub-documents which
// can each be interpolated.
package designspace
