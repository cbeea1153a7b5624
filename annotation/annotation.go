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

package annotation

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/golang/glog"
	"naive.systems/vetaction/vet_diagnostics"
)

type Level string

// Warning is the only level vet findings are reported with.
const Warning Level = "warning"

// Annotation is a file-anchored message for the CI platform.
type Annotation struct {
	ID          string `json:"id,omitempty" yaml:"id,omitempty"`
	Path        string `json:"path" yaml:"path"`
	StartLine   int    `json:"start_line" yaml:"start_line"`
	EndLine     int    `json:"end_line" yaml:"end_line"`
	StartColumn int    `json:"start_column" yaml:"start_column"`
	EndColumn   *int   `json:"end_column,omitempty" yaml:"end_column,omitempty"`
	Level       Level  `json:"level" yaml:"level"`
	Message     string `json:"message" yaml:"message"`
	Title       string `json:"title" yaml:"title"`
}

type OutsideWorkspacePolicy string

const (
	// OutsideFail aborts the run with a PathOutsideWorkspaceError.
	OutsideFail OutsideWorkspacePolicy = "fail"
	// OutsideKeep reports the finding with its absolute path.
	OutsideKeep OutsideWorkspacePolicy = "keep"
	// OutsideDrop skips the finding.
	OutsideDrop OutsideWorkspacePolicy = "drop"
)

func ParseOutsideWorkspacePolicy(s string) (OutsideWorkspacePolicy, error) {
	switch p := OutsideWorkspacePolicy(s); p {
	case OutsideFail, OutsideKeep, OutsideDrop:
		return p, nil
	case "":
		return OutsideFail, nil
	}
	return "", fmt.Errorf("unsupported outside_workspace policy %q, expected one of fail, keep, drop", s)
}

// PathOutsideWorkspaceError is returned for an absolute finding path that
// does not start with the workspace prefix.
type PathOutsideWorkspaceError struct {
	Path    string
	BaseDir string
}

func (e *PathOutsideWorkspaceError) Error() string {
	return fmt.Sprintf("path %s is outside of the workspace %s", e.Path, e.BaseDir)
}

// Mapper turns decoded vet findings into annotations.
type Mapper struct {
	// BaseDir is the workspace directory; finding paths are reported
	// relative to it.
	BaseDir          string
	OutsideWorkspace OutsideWorkspacePolicy
}

func (m Mapper) trimPrefix() string {
	base := filepath.Clean(m.BaseDir)
	if strings.HasSuffix(base, string(filepath.Separator)) {
		return base
	}
	return base + string(filepath.Separator)
}

// RelativePath strips the workspace prefix from path. The second return value
// is false when the finding should be skipped.
func (m Mapper) RelativePath(path string) (string, bool, error) {
	prefix := m.trimPrefix()
	if strings.HasPrefix(path, prefix) {
		return filepath.ToSlash(path[len(prefix):]), true, nil
	}
	if !filepath.IsAbs(path) {
		return filepath.ToSlash(path), true, nil
	}
	switch m.OutsideWorkspace {
	case OutsideKeep:
		return filepath.ToSlash(path), true, nil
	case OutsideDrop:
		glog.Infof("Result in path %s ignored: outside of %s", path, m.BaseDir)
		return "", false, nil
	}
	return "", false, &PathOutsideWorkspaceError{Path: path, BaseDir: m.BaseDir}
}

// MapFinding builds the annotation of a single finding reported by rule.
func (m Mapper) MapFinding(rule string, finding vet_diagnostics.Finding) (Annotation, bool, error) {
	pos, err := vet_diagnostics.ParsePosition(finding.Posn)
	if err != nil {
		return Annotation{}, false, err
	}
	path, ok, err := m.RelativePath(pos.Path)
	if err != nil || !ok {
		return Annotation{}, false, err
	}
	a := Annotation{
		Path:        path,
		StartLine:   pos.Line,
		EndLine:     pos.Line,
		StartColumn: pos.Column,
		Level:       Warning,
		Message:     finding.Message,
		Title:       rule,
	}
	if finding.End != "" {
		end, err := vet_diagnostics.ParsePosition(finding.End)
		if err != nil {
			glog.Warningf("ignoring end position of %s: %v", finding.Posn, err)
		} else if end.Path == pos.Path && end.Line == pos.Line && end.Column >= pos.Column {
			col := end.Column
			a.EndColumn = &col
		}
	}
	return a, true, nil
}

// Map converts every finding of every entry into an annotation. Entries are
// visited in order, packages and analyzers in lexical order, and findings in
// the order go vet listed them. The first malformed position or disallowed
// path aborts the mapping.
func (m Mapper) Map(entries []vet_diagnostics.Entry) ([]Annotation, error) {
	var annotations []Annotation
	for _, entry := range entries {
		for _, pkg := range entry.SortedPackages() {
			for _, rule := range entry.SortedRules(pkg) {
				for _, finding := range entry.Packages[pkg][rule] {
					a, ok, err := m.MapFinding(rule, finding)
					if err != nil {
						return nil, fmt.Errorf("package %s, analyzer %s: %w", pkg, rule, err)
					}
					if ok {
						annotations = append(annotations, a)
					}
				}
			}
		}
	}
	return annotations, nil
}
