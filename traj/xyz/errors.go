/*
 * errors.go, part of trjstat.
 *
 * Copyright 2026 The trjstat authors
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

package xyz

import (
	"fmt"

	"github.com/rmera/trjstat"
)

//errDecorate decorates the error with the caller's name before returning it,
//if the error implements trjstat.Error.
func errDecorate(err error, caller string) error {
	if err2, ok := err.(trjstat.Error); ok {
		err2.Decorate(caller)
		return err2
	}
	return err
}

//Error is the general structure for XYZ trajectory errors. It fullfills trjstat.Error and trjstat.TrajError
type Error struct {
	message  string
	filename string //the input file that has problems, or empty string if none.
	deco     *[]string
	critical bool
}

func newError(message, filename, caller string, critical bool) Error {
	return Error{message: message, filename: filename, deco: &[]string{caller}, critical: critical}
}

func (err Error) Error() string {
	return fmt.Sprintf("xyz file %s error: %s", err.filename, err.message)
}

//Decorate Adds new information to the error
func (err Error) Decorate(deco string) []string {
	if err.deco == nil {
		return nil
	}
	if deco != "" {
		*err.deco = append(*err.deco, deco)
	}
	return *err.deco
}

//FileName returns the file to which the failing trajectory was associated
func (err Error) FileName() string { return err.filename }

//Format returns the format of the file (always "xyz") associated to the error
func (err Error) Format() string { return "xyz" }

//Critical returns true if the error is critical, false otherwise
func (err Error) Critical() bool { return err.critical }


//lastFrameError implements trjstat.LastFrameError
type lastFrameError struct {
	deco     []string
	fileName string
}

//NormalLastFrameTermination does nothing
func (E *lastFrameError) NormalLastFrameTermination() {}

func (E *lastFrameError) FileName() string { return E.fileName }

func (E *lastFrameError) Error() string { return "EOF" }

func (E *lastFrameError) Critical() bool { return false }

func (E *lastFrameError) Format() string { return "xyz" }

func (E *lastFrameError) Decorate(deco string) []string {
	if deco != "" {
		E.deco = append(E.deco, deco)
	}
	return E.deco
}

func newlastFrameError(filename string, caller string) *lastFrameError {
	e := new(lastFrameError)
	e.fileName = filename
	e.deco = []string{caller}
	return e
}
