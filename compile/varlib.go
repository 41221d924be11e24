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

package compile

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"

	"seehuhn.de/go/fontbatch/designspace"
)

// DefaultVarLibCommand is the command used to run the fontTools variation
// table builder.
var DefaultVarLibCommand = []string{"fonttools", "varLib"}

// VarLib assembles variable fonts by running the fontTools varLib builder.
type VarLib struct {
	// Command is the program and leading arguments to run.  If empty,
	// DefaultVarLibCommand is used.
	Command []string

	Logger *log.Logger
}

// Assemble implements the [Assembler] interface.
//
// The intermediate .designspace file lists every compiled master by the
// path of its binary, so that varLib can find it without a master finder
// template.
func (v *VarLib) Assemble(ctx context.Context, req *AssemblyRequest) (string, error) {
	if _, ok := req.Masters[req.Default]; !ok {
		return "", fmt.Errorf("default master %q was not compiled", req.Default)
	}

	doc, err := assemblyDocument(req)
	if err != nil {
		return "", err
	}
	err = doc.Write(req.Designspace)
	if err != nil {
		return "", err
	}

	cmd := v.Command
	if len(cmd) == 0 {
		cmd = DefaultVarLibCommand
	}
	args := append([]string{}, cmd[1:]...)
	args = append(args, req.Designspace, "-o", req.Output, "--master-finder", "{fullname}")

	if v.Logger != nil {
		v.Logger.Debug("running varLib", "command", cmd[0], "args", strings.Join(args, " "))
	}
	c := exec.CommandContext(ctx, cmd[0], args...)
	out := &bytes.Buffer{}
	c.Stdout = out
	c.Stderr = out
	err = c.Run()
	if err != nil {
		return "", &ToolError{Tool: cmd[0], Err: err, Output: lastLines(out.String(), 10)}
	}
	return req.Output, nil
}

// assemblyDocument returns a copy of the request document which refers to
// the compiled masters instead of the font sources.  Every axis of the copy
// carries a tag.
func assemblyDocument(req *AssemblyRequest) (*designspace.Document, error) {
	doc := req.Doc.Clone()
	dir := filepath.Dir(req.Designspace)

	tags := doc.AxisTags()
	for _, a := range doc.Axes {
		a.Tag = tags[a.Name]
	}

	sources := doc.Sources[:0]
	for _, src := range doc.Sources {
		bin, ok := req.Masters[src.Name]
		if !ok {
			continue
		}
		rel, err := filepath.Rel(dir, bin)
		if err != nil {
			return nil, err
		}
		src.Filename = rel
		src.Path = bin
		// layers are compiled into separate binaries
		src.Layer = ""
		sources = append(sources, src)
	}
	doc.Sources = sources
	doc.Path = req.Designspace
	return doc, nil
}

// ToolError reports the failure of an external program.
type ToolError struct {
	Tool   string
	Err    error
	Output string
}

func (err *ToolError) Error() string {
	msg := fmt.Sprintf("%s: %v", err.Tool, err.Err)
	if err.Output != "" {
		msg += "\n" + err.Output
	}
	return msg
}

func (err *ToolError) Unwrap() error {
	return err.Err
}

// IsToolMissing reports whether err was caused by an external program
// which could not be found.
func IsToolMissing(err error) bool {
	return errors.Is(err, exec.ErrNotFound) || errors.Is(err, os.ErrNotExist)
}

func lastLines(s string, n int) string {
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return strings.Join(lines, "\n")
}
