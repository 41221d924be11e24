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

// Package ufo holds the in-memory font data used by the generation pipeline
// and reads and writes it in the Unified Font Object format.
//
// # Data model
//
// A [Font] owns a set of [Glyph] values keyed by glyph name, together with
// kerning, kerning groups, a lib dictionary and a few metrics from the font
// info.  A glyph consists of contours, components and anchors.  Contours are
// stored in the point representation used by UFO glyph files: every
// [Point] is either on-curve, with a segment type of [Move], [Line], [Curve]
// or [QCurve], or off-curve, with the empty segment type [OffCurve].
//
// Fonts which are handed to the pipeline are never modified in place.  All
// mutating operations work on a private copy obtained with [Font.Clone].
//
// # File format
//
// [Read] and [Font.Write] implement the subset of UFO 3 needed for font
// generation: metainfo.plist, fontinfo.plist, groups.plist, kerning.plist,
// lib.plist, layercontents.plist and the .glif files of all layers.
// Property lists are handled by howett.net/plist.
package ufo
