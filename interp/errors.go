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

package interp

import (
	"errors"
	"fmt"
)

// ErrInsufficientSamples indicates that a model could not be built because
// no samples were available.
var ErrInsufficientSamples = errors.New("insufficient samples")

// InsufficientSamplesError is returned by [New] if no samples are given.
type InsufficientSamplesError struct {
	Key string
}

func (err *InsufficientSamplesError) Error() string {
	if err.Key == "" {
		return "interp: " + ErrInsufficientSamples.Error()
	}
	return fmt.Sprintf("interp: %q: %s", err.Key, ErrInsufficientSamples)
}

func (err *InsufficientSamplesError) Unwrap() error {
	return ErrInsufficientSamples
}

// DimensionError is returned by [New] if the sample values do not all have
// the same length.
type DimensionError struct {
	Key   string
	Index int
	Want  int
	Got   int
}

func (err *DimensionError) Error() string {
	return fmt.Sprintf("interp: %q: sample %d has %d values, expected %d",
		err.Key, err.Index, err.Got, err.Want)
}
