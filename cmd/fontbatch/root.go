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
	"github.com/spf13/cobra"

	"seehuhn.de/go/fontbatch/internal/config"
	"seehuhn.de/go/fontbatch/internal/output"
)

var (
	configFlag  string
	verboseFlag bool
)

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "fontbatch",
		Short:         "Generate variable fonts from design spaces",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			output.SetupLogging(verboseFlag)
		},
	}

	rootCmd.PersistentFlags().StringVar(&configFlag, "config", "", "path to config file (env: FONTBATCH_CONFIG)")
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "enable verbose output")

	rootCmd.AddCommand(newGenerateCmd())
	rootCmd.AddCommand(newAxesCmd())
	rootCmd.AddCommand(newConfigCmd())
	return rootCmd
}

func loadConfig() (*config.Config, error) {
	return config.NewLoader().Load(configFlag)
}
