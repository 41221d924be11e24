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

// Package interp implements multi-dimensional interpolation between values
// given at arbitrary points of a design space.
//
// A [Model] is built from a list of [Sample] values.  One sample is chosen
// as the origin of the model; all coordinates are normalized per axis
// relative to the origin, so that the sample range on each side of the
// origin maps to [-1, 0] or [0, 1].  Every sample is then assigned a
// support region, and the value at a location is the sum of per-sample
// deltas weighted by the product of tent functions over the axes.  This is
// the same model used by OpenType font variations.
//
// The model reproduces every sample exactly.  Between samples it
// interpolates piecewise linearly along every axis; outside the range of
// the samples it extrapolates linearly.  [Model.Extrapolates] reports
// whether a location lies outside the sample range.
package interp
