/*
NaiveSystems Analyze - A tool for static code analysis
Copyright (C) 2023  Naive Systems Ltd.

This program is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

This program is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with this program.  If not, see <https://www.gnu.org/licenses/>.
*/

package vet_diagnostics

import (
	"fmt"
	"strings"
)

// MalformedDiagnosticError is returned when a block of `go vet -json` output
// is not a JSON object of the shape package -> analyzer -> diagnostics.
type MalformedDiagnosticError struct {
	// Index is the position of the block in the segmented output.
	Index int
	Block string
	Err   error
}

func (e *MalformedDiagnosticError) Error() string {
	return fmt.Sprintf("malformed diagnostic block %d (%s): %v", e.Index, abbreviate(e.Block), e.Err)
}

func (e *MalformedDiagnosticError) Unwrap() error {
	return e.Err
}

// MalformedPositionError is returned when a posn value does not have the
// form path:line:column with integer line and column.
type MalformedPositionError struct {
	Posn   string
	Reason string
}

func (e *MalformedPositionError) Error() string {
	return fmt.Sprintf("malformed position %q: %s", e.Posn, e.Reason)
}

func abbreviate(s string) string {
	s = strings.TrimSpace(s)
	const limit = 80
	if len(s) > limit {
		return s[:limit] + "..."
	}
	return s
}
