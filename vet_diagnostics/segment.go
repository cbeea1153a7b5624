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
	"strings"
)

// Segment splits the diagnostic stream of `go vet -json` into blocks.
//
// go vet prints a "# <package>" header line before the JSON object of each
// package. Every header closes the block being accumulated and opens a new
// one. Text before the first header ("go: downloading ..." and the like)
// does not belong to any package and is dropped, so output without any
// header yields no blocks. Each line kept in a block is terminated by a
// single "\n"; blocks holding nothing but whitespace are not returned.
func Segment(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	var blocks []string
	var current strings.Builder
	open := false
	flush := func() {
		if open && strings.TrimSpace(current.String()) != "" {
			blocks = append(blocks, current.String())
		}
		current.Reset()
	}
	lines := strings.Split(text, "\n")
	// A trailing newline does not start another line.
	if len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	for _, line := range lines {
		if strings.HasPrefix(line, "#") {
			flush()
			open = true
			continue
		}
		if !open {
			continue
		}
		current.WriteString(line)
		current.WriteByte('\n')
	}
	flush()
	return blocks
}
