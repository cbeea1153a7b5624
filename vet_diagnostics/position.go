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
	"strconv"
	"strings"
)

type Position struct {
	Path   string
	Line   int
	Column int
}

func (p Position) String() string {
	return fmt.Sprintf("%s:%d:%d", p.Path, p.Line, p.Column)
}

// ParsePosition parses "path:line:column". The two right-most fields are the
// line and the column; everything before them is the path, which may itself
// contain colons (C:\src\f.go:3:1).
func ParsePosition(posn string) (Position, error) {
	colIdx := strings.LastIndexByte(posn, ':')
	if colIdx < 0 {
		return Position{}, &MalformedPositionError{Posn: posn, Reason: "missing line and column"}
	}
	lineIdx := strings.LastIndexByte(posn[:colIdx], ':')
	if lineIdx < 0 {
		return Position{}, &MalformedPositionError{Posn: posn, Reason: "missing column"}
	}
	path := posn[:lineIdx]
	if path == "" {
		return Position{}, &MalformedPositionError{Posn: posn, Reason: "empty path"}
	}
	line, err := parseNumber(posn[lineIdx+1 : colIdx])
	if err != nil {
		return Position{}, &MalformedPositionError{Posn: posn, Reason: "line " + err.Error()}
	}
	col, err := parseNumber(posn[colIdx+1:])
	if err != nil {
		return Position{}, &MalformedPositionError{Posn: posn, Reason: "column " + err.Error()}
	}
	return Position{Path: path, Line: line, Column: col}, nil
}

func parseNumber(s string) (int, error) {
	if s == "" {
		return 0, fmt.Errorf("is empty")
	}
	v, err := strconv.ParseUint(s, 10, 31)
	if err != nil {
		return 0, fmt.Errorf("%q is not a non-negative integer", s)
	}
	return int(v), nil
}
