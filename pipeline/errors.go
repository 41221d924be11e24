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

import (
	"errors"
	"fmt"

	"seehuhn.de/go/fontbatch/compat"
	"seehuhn.de/go/fontbatch/designspace"
	"seehuhn.de/go/fontbatch/interp"
)

// ErrNoDefaultMaster is returned inside an [AssemblyError] if the master at
// the default location could not be compiled.
var ErrNoDefaultMaster = errors.New("no binary for the default master")

// ErrNoDocument is returned by [Generate] if no design space is given.
var ErrNoDocument = errors.New("no design space document")

// CompileError reports the failure to compile a single master.  The master
// is left out of the variable font.
type CompileError struct {
	Source string
	Format string
	Err    error
}

func (err *CompileError) Error() string {
	return fmt.Sprintf("compile %s (%s): %v", err.Source, err.Format, err.Err)
}

func (err *CompileError) Unwrap() error {
	return err.Err
}

// AssemblyError reports a failure which prevents the generation of a
// variable font.
type AssemblyError struct {
	Designspace string
	Format      string
	Err         error
}

func (err *AssemblyError) Error() string {
	return fmt.Sprintf("assemble %s (%s): %v", err.Designspace, err.Format, err.Err)
}

func (err *AssemblyError) Unwrap() error {
	return err.Err
}

// ErrorKind classifies the errors encountered during a run.
type ErrorKind int

// These are the error kinds distinguished by [KindOf].
const (
	KindOther ErrorKind = iota
	KindAxisMismatch
	KindInsufficientSamples
	KindIncompatibleOutline
	KindCompileFailure
	KindAssemblyFailure
)

func (k ErrorKind) String() string {
	switch k {
	case KindOther:
		return "other"
	case KindAxisMismatch:
		return "axis mismatch"
	case KindInsufficientSamples:
		return "insufficient samples"
	case KindIncompatibleOutline:
		return "incompatible outline"
	case KindCompileFailure:
		return "compile failure"
	case KindAssemblyFailure:
		return "assembly failure"
	default:
		return fmt.Sprintf("ErrorKind(%d)", int(k))
	}
}

// KindOf returns the kind of err.  Wrapping errors of this package take
// precedence over the errors they wrap.
func KindOf(err error) ErrorKind {
	var compileErr *CompileError
	var assemblyErr *AssemblyError
	var axisErr *designspace.AxisMismatchError
	var outlineErr *compat.IncompatibleOutlineError
	switch {
	case err == nil:
		return KindOther
	case errors.As(err, &compileErr):
		return KindCompileFailure
	case errors.As(err, &assemblyErr):
		return KindAssemblyFailure
	case errors.As(err, &axisErr):
		return KindAxisMismatch
	case errors.As(err, &outlineErr):
		return KindIncompatibleOutline
	case errors.Is(err, interp.ErrInsufficientSamples):
		return KindInsufficientSamples
	default:
		return KindOther
	}
}

func countKind(errs []error, kind ErrorKind) int {
	n := 0
	for _, err := range errs {
		if KindOf(err) == kind {
			n++
		}
	}
	return n
}
