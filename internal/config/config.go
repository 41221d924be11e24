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

// Package config loads the settings of the fontbatch command.
//
// Settings are taken, in order of precedence, from environment variables
// with the prefix FONTBATCH_, from a YAML file and from built-in defaults.
package config

import (
	"fmt"

	"seehuhn.de/go/fontbatch/compile"
	"seehuhn.de/go/fontbatch/curves"
	"seehuhn.de/go/fontbatch/pipeline"
)

// Config holds the settings for a batch run.
type Config struct {
	// Output is the directory the fonts are written to.
	Output string `mapstructure:"output" yaml:"output"`

	// Formats lists the output formats, see pipeline.Formats.
	Formats []string `mapstructure:"formats" yaml:"formats"`

	// Variable enables the generation of variable fonts from design
	// spaces.
	Variable bool `mapstructure:"variable" yaml:"variable"`

	// Static also generates static fonts for the sources and instances of
	// every design space.  UFO fonts given as input are always compiled to
	// static fonts.
	Static bool `mapstructure:"static" yaml:"static"`

	// Suffix is appended to the file names of variable fonts.
	Suffix string `mapstructure:"suffix" yaml:"suffix"`

	// StaticSuffix is appended to the file names of static fonts.
	StaticSuffix string `mapstructure:"staticSuffix" yaml:"staticSuffix"`

	// SubFolders places the fonts of every format in a separate directory.
	SubFolders bool `mapstructure:"subFolders" yaml:"subFolders"`

	Autohint bool `mapstructure:"autohint" yaml:"autohint"`
	Release  bool `mapstructure:"release" yaml:"release"`

	// Debug keeps all intermediate files.
	Debug bool `mapstructure:"debug" yaml:"debug"`

	// FitToExtremes adds interpolated masters at the ends of the axes.
	FitToExtremes bool `mapstructure:"fitToExtremes" yaml:"fitToExtremes"`

	// Tolerance is the maximal error of the conversion to quadratic
	// curves, in font units.
	Tolerance float64 `mapstructure:"tolerance" yaml:"tolerance"`

	// VarLib and Fontmake are the commands used to run the external
	// tools.
	VarLib   []string `mapstructure:"varlib" yaml:"varlib"`
	Fontmake []string `mapstructure:"fontmake" yaml:"fontmake"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Output:     "fonts",
		Formats:    []string{"otf"},
		Variable:   true,
		Suffix:     "-VF",
		SubFolders: true,
		Tolerance:  curves.DefaultTolerance,
		VarLib:     append([]string(nil), compile.DefaultVarLibCommand...),
		Fontmake:   append([]string(nil), compile.DefaultFontmakeCommand...),
	}
}

// Validate checks the settings for consistency.
func (c *Config) Validate() error {
	if len(c.Formats) == 0 {
		return fmt.Errorf("no output format selected")
	}
	for _, format := range c.Formats {
		_, _, err := pipeline.ParseFormat(format)
		if err != nil {
			return err
		}
	}
	if c.Tolerance <= 0 {
		return fmt.Errorf("invalid tolerance %g", c.Tolerance)
	}
	if len(c.VarLib) == 0 || len(c.Fontmake) == 0 {
		return fmt.Errorf("missing tool command")
	}
	return nil
}
