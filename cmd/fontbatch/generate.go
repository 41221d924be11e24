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
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/hako/durafmt"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"seehuhn.de/go/fontbatch/compile"
	"seehuhn.de/go/fontbatch/internal/config"
	"seehuhn.de/go/fontbatch/internal/output"
	"seehuhn.de/go/fontbatch/pipeline"
	"seehuhn.de/go/fontbatch/report"
)

type generateFlags struct {
	output        string
	formats       []string
	suffix        string
	staticSuffix  string
	static        bool
	noVariable    bool
	noSubFolders  bool
	autohint      bool
	release       bool
	debug         bool
	fitToExtremes bool
	tolerance     float64
	reportPath    string
}

func newGenerateCmd() *cobra.Command {
	flags := &generateFlags{}
	cmd := &cobra.Command{
		Use:   "generate <designspace|ufo|directory|glob>...",
		Short: "Generate variable and static fonts",
		Long: `Generate variable fonts from .designspace files, and static fonts
from .ufo fonts.

Arguments are design space files, UFO fonts, directories which are
searched recursively for .designspace files, or glob patterns such as
"sources/**/*.designspace" or "masters/*.ufo".

With --static, static fonts are also generated for the sources and the
instances of every design space.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			flags.apply(cmd, cfg)
			err = cfg.Validate()
			if err != nil {
				return err
			}
			in, err := findInputs(args)
			if err != nil {
				return err
			}
			return runGenerate(cmd.Context(), cfg, in, flags.reportPath)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&flags.output, "output", "o", "", "output directory")
	f.StringSliceVarP(&flags.formats, "format", "f", nil, "output formats: otf, ttf, otf-woff, ttf-woff")
	f.StringVar(&flags.suffix, "suffix", "", "suffix for the file names of variable fonts")
	f.StringVar(&flags.staticSuffix, "static-suffix", "", "suffix for the file names of static fonts")
	f.BoolVar(&flags.static, "static", false, "also generate static fonts for design space sources and instances")
	f.BoolVar(&flags.noVariable, "no-variable", false, "do not generate variable fonts")
	f.BoolVar(&flags.noSubFolders, "no-subfolders", false, "write all formats into the output directory")
	f.BoolVar(&flags.autohint, "autohint", false, "autohint the masters")
	f.BoolVar(&flags.release, "release", false, "use release settings for the compilers")
	f.BoolVar(&flags.debug, "debug", false, "keep intermediate files")
	f.BoolVar(&flags.fitToExtremes, "fit-extremes", false, "add interpolated masters at the axis extremes")
	f.Float64Var(&flags.tolerance, "tolerance", 0, "maximal error of the conversion to quadratic curves")
	f.StringVar(&flags.reportPath, "report", "", "report file (default <output>/fontbatch-report.txt)")
	return cmd
}

// apply overrides the configuration by the flags given on the command
// line.
func (flags *generateFlags) apply(cmd *cobra.Command, cfg *config.Config) {
	f := cmd.Flags()
	if f.Changed("output") {
		cfg.Output = flags.output
	}
	if f.Changed("format") {
		cfg.Formats = flags.formats
	}
	if f.Changed("suffix") {
		cfg.Suffix = flags.suffix
	}
	if f.Changed("static-suffix") {
		cfg.StaticSuffix = flags.staticSuffix
	}
	if f.Changed("static") {
		cfg.Static = flags.static
	}
	if f.Changed("no-variable") {
		cfg.Variable = !flags.noVariable
	}
	if f.Changed("no-subfolders") {
		cfg.SubFolders = !flags.noSubFolders
	}
	if f.Changed("autohint") {
		cfg.Autohint = flags.autohint
	}
	if f.Changed("release") {
		cfg.Release = flags.release
	}
	if f.Changed("debug") {
		cfg.Debug = flags.debug
	}
	if f.Changed("fit-extremes") {
		cfg.FitToExtremes = flags.fitToExtremes
	}
	if f.Changed("tolerance") {
		cfg.Tolerance = flags.tolerance
	}
}

// inputs are the files named on the command line.
type inputs struct {
	designspaces []string
	ufos         []string
}

// findInputs expands the command line arguments into sorted lists of
// .designspace files and UFO fonts.
func findInputs(args []string) (*inputs, error) {
	in := &inputs{}
	add := func(path string) {
		if strings.EqualFold(filepath.Ext(path), ".ufo") {
			in.ufos = append(in.ufos, path)
		} else {
			in.designspaces = append(in.designspaces, path)
		}
	}
	for _, arg := range args {
		pattern := arg
		if fi, err := os.Stat(arg); err == nil && fi.IsDir() && !strings.EqualFold(filepath.Ext(arg), ".ufo") {
			pattern = filepath.Join(arg, "**", "*.designspace")
		} else if err == nil {
			add(arg)
			continue
		}
		matches, err := doublestar.FilepathGlob(pattern)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", arg, err)
		}
		if len(matches) == 0 {
			return nil, fmt.Errorf("%s: no fonts found", arg)
		}
		for _, m := range matches {
			add(m)
		}
	}
	slices.Sort(in.designspaces)
	in.designspaces = slices.Compact(in.designspaces)
	slices.Sort(in.ufos)
	in.ufos = slices.Compact(in.ufos)
	return in, nil
}

func runGenerate(ctx context.Context, cfg *config.Config, in *inputs, reportPath string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	logger := output.Logger
	rep := report.New()
	var progress report.Progress = report.NoProgress
	if term.IsTerminal(int(os.Stderr.Fd())) {
		progress = report.NewLineProgress(os.Stderr, true)
	}

	b := &pipeline.Batch{
		Designspaces: in.designspaces,
		UFOs:         in.ufos,
		Static:       cfg.Static,
		NoVariable:   !cfg.Variable,
		Root:         cfg.Output,
		Formats:      cfg.Formats,
		Suffix:       cfg.Suffix,
		StaticSuffix: cfg.StaticSuffix,
		SubFolders:   cfg.SubFolders,
		Options: pipeline.Options{
			Compiler: compile.ByFormat{
				"otf": compile.CFF{},
				"ttf": &compile.Fontmake{Command: cfg.Fontmake, Logger: logger},
			},
			Assembler:     &compile.VarLib{Command: cfg.VarLib, Logger: logger},
			Autohint:      cfg.Autohint,
			Release:       cfg.Release,
			FitToExtremes: cfg.FitToExtremes,
			Tolerance:     cfg.Tolerance,
			Debug:         cfg.Debug,
			Logger:        logger,
		},
		Report:   rep,
		Progress: progress,
	}

	start := time.Now()
	res, err := b.Start(ctx).Wait()
	elapsed := durafmt.Parse(time.Since(start).Round(time.Second)).LimitFirstN(2).String()
	if res == nil {
		return err
	}
	rep.Writef("%d fonts generated in %s", len(res.Outputs), elapsed)

	if reportPath == "" {
		reportPath = filepath.Join(cfg.Output, "fontbatch-report.txt")
	}
	if saveErr := os.MkdirAll(filepath.Dir(reportPath), 0o755); saveErr == nil {
		saveErr = rep.Save(reportPath)
		if saveErr != nil {
			logger.Warn("cannot save report", "path", reportPath, "err", saveErr)
		}
	}

	for _, path := range res.Outputs {
		output.Info("generated", "font", path)
	}
	for _, kind := range []pipeline.ErrorKind{
		pipeline.KindIncompatibleOutline,
		pipeline.KindInsufficientSamples,
		pipeline.KindCompileFailure,
		pipeline.KindAssemblyFailure,
	} {
		if n := res.Count(kind); n > 0 {
			output.Warn("problems found", "kind", kind, "count", n)
		}
	}
	output.Info("done", "fonts", len(res.Outputs), "elapsed", elapsed, "report", reportPath)

	if err != nil {
		return err
	}
	if n := res.Count(pipeline.KindAssemblyFailure); n > 0 {
		return fmt.Errorf("%d variable fonts could not be generated", n)
	}
	return nil
}
