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

package runner

import (
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/golang/glog"
	"github.com/hhatto/gocloc"
)

// CountGoLines returns the number of Go code lines under dir, skipping files
// whose path relative to dir matches one of the ignore patterns.
func CountGoLines(dir string, ignoreDirPatterns []string) (int, error) {
	clocOpts := gocloc.NewClocOptions()
	languages := gocloc.NewDefinedLanguages()
	clocOpts.IncludeLangs["Go"] = struct{}{}
	processor := gocloc.NewProcessor(languages, clocOpts)
	result, err := processor.Analyze([]string{dir})
	if err != nil {
		glog.Errorf("gocloc fail: %v", err)
		return 0, err
	}
	sum := 0
	for _, file := range result.Files {
		rel, err := filepath.Rel(dir, file.Name)
		if err != nil {
			rel = file.Name
		}
		if matchAny(ignoreDirPatterns, filepath.ToSlash(rel)) {
			continue
		}
		sum += int(file.Code)
	}
	return sum, nil
}

func matchAny(patterns []string, path string) bool {
	for _, pattern := range patterns {
		matched, err := doublestar.Match(pattern, path)
		if err != nil {
			glog.Error("malformed ignore_dir pattern ", pattern)
			continue
		}
		if matched {
			return true
		}
	}
	return false
}
