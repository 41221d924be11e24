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

package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"seehuhn.de/go/fontbatch/designspace"
	"seehuhn.de/go/fontbatch/internal/output"
)

func newAxesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "axes <designspace>...",
		Short: "Show the axes and the default source of design spaces",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, path := range args {
				doc, err := designspace.Read(path)
				if err != nil {
					return err
				}
				err = doc.Validate()
				if err != nil {
					return err
				}
				showAxes(cmd.OutOrStdout(), doc)
			}
			return nil
		},
	}
}

func showAxes(w io.Writer, doc *designspace.Document) {
	fmt.Fprintf(w, "%s\n", doc.Path)
	tags := doc.AxisTags()
	t := output.NewTable("axis", "tag", "min", "default", "max", "values")
	for _, a := range doc.Axes {
		var values []string
		for _, v := range a.Values {
			values = append(values, formatFloat(v))
		}
		t.Row(a.Name, tags[a.Name], formatFloat(a.Minimum), formatFloat(a.Default),
			formatFloat(a.Maximum), strings.Join(values, " "))
	}
	fmt.Fprintln(w, t.String())

	fmt.Fprintf(w, "  default location: %s\n", doc.DefaultLocation())
	if src, ok := doc.DefaultSource(); ok {
		fmt.Fprintf(w, "  default source: %s\n", src.DisplayName())
	} else if src := doc.NeutralSource(); src != nil {
		fmt.Fprintf(w, "  no source at the default location, neutral source: %s\n", src.DisplayName())
	}
	for _, sub := range doc.Split() {
		if sub.Suffix == "" {
			continue
		}
		fmt.Fprintf(w, "  sub-space %s: %d sources\n", sub.Suffix, len(sub.Sources))
	}
}

func formatFloat(x float64) string {
	return strconv.FormatFloat(x, 'g', -1, 64)
}
