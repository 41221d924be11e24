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

package pipeline

import "fmt"

// State is a stage of the generation of a variable font.  The stages are
// run in the order of the constants below.
type State int

// These are the pipeline stages.
const (
	Loaded State = iota
	GlyphsCompatibilized
	Decomposed
	CurvesConverted
	KerningCompatibilized
	DefaultFixedUp
	LayersMaterialized
	MastersCompiled
	Assembled
	Cleaned
)

func (s State) String() string {
	switch s {
	case Loaded:
		return "Loaded"
	case GlyphsCompatibilized:
		return "GlyphsCompatibilized"
	case Decomposed:
		return "Decomposed"
	case CurvesConverted:
		return "CurvesConverted"
	case KerningCompatibilized:
		return "KerningCompatibilized"
	case DefaultFixedUp:
		return "DefaultFixedUp"
	case LayersMaterialized:
		return "LayersMaterialized"
	case MastersCompiled:
		return "MastersCompiled"
	case Assembled:
		return "Assembled"
	case Cleaned:
		return "Cleaned"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}
