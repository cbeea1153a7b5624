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

package diff

import (
	"fmt"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

var hunkHeader = regexp.MustCompile(`^@@ -(\d+)(?:,(\d+))? \+(\d+)(?:,(\d+))? @@`)

type Hunk struct {
	OldPos, OldLines, NewPos, NewLines int
	// Added holds the new-file line numbers of the "+" lines in this hunk.
	Added []int
}

type File struct {
	NewName string
	OldName string
	Hunks   []*Hunk
}

type Patch struct {
	Files []*File
}

/*
Parse parses a unified diff (as printed by `git diff`) into a patch struct.

It goes over the lines in the diff and maintains an implicit state machine.
Outside of a hunk it only cares about lines that start with "--- ", "+++ ",
or "@@ -", and ignores everything else ("diff --git", "index", mode lines).
Inside a hunk the line counts from the "@@" header decide how many body lines
belong to it, so a removed line that happens to read "--- x" is not mistaken
for a file header.

For a particular file in the diff, there are three cases to consider:

1. File modification

	--- a/pkg/foo/f.go
	+++ b/pkg/foo/f.go
	@@ -8,3 +8,4 @@ func f() {
	 	a := 1
	+	fmt.Printf("%d\n", "x")
	 	b := 2
	 }

2. File addition

	--- /dev/null
	+++ b/pkg/foo/g.go
	@@ -0,0 +1,3 @@

OldName is set to the empty string in this case.

3. File deletion

	--- a/pkg/foo/h.go
	+++ /dev/null
	@@ -1 +0,0 @@

NewName is set to the empty string in this case.
*/
func Parse(diff string) (*Patch, error) {
	lines := strings.Split(strings.ReplaceAll(diff, "\r\n", "\n"), "\n")
	var p Patch
	var f *File
	var h *Hunk
	oldLeft, newLeft, newLine := 0, 0, 0
	for i, line := range lines {
		if h != nil && (oldLeft > 0 || newLeft > 0) {
			switch {
			case strings.HasPrefix(line, "+"):
				h.Added = append(h.Added, newLine)
				newLine++
				newLeft--
			case strings.HasPrefix(line, "-"):
				oldLeft--
			case strings.HasPrefix(line, "\\"):
				// "\ No newline at end of file"
			case strings.HasPrefix(line, " "), line == "":
				newLine++
				oldLeft--
				newLeft--
			default:
				return nil, fmt.Errorf("unexpected line %d '%s' inside hunk", i, line)
			}
			continue
		}
		h = nil
		if strings.HasPrefix(line, "--- ") {
			f = &File{}
			if line == "--- /dev/null" {
				f.OldName = ""
			} else if strings.HasPrefix(line, "--- a/") {
				f.OldName = trimName(strings.TrimPrefix(line, "--- a/"))
			} else {
				return nil, fmt.Errorf("invalid line %d '%s'", i, line)
			}
			p.Files = append(p.Files, f)
		} else if strings.HasPrefix(line, "+++ ") {
			if f == nil || len(f.Hunks) > 0 {
				return nil, fmt.Errorf("unexpected line %d '%s'", i, line)
			}
			if line == "+++ /dev/null" {
				f.NewName = ""
			} else if strings.HasPrefix(line, "+++ b/") {
				f.NewName = trimName(strings.TrimPrefix(line, "+++ b/"))
			} else {
				return nil, fmt.Errorf("invalid line %d '%s'", i, line)
			}
		} else if strings.HasPrefix(line, "@@ -") {
			if f == nil {
				return nil, fmt.Errorf("f is nil but line %d is '%s'", i, line)
			}
			hunk, err := parseHunkHeader(line)
			if err != nil {
				return nil, err
			}
			f.Hunks = append(f.Hunks, hunk)
			h = hunk
			oldLeft, newLeft, newLine = hunk.OldLines, hunk.NewLines, hunk.NewPos
		}
	}
	return &p, nil
}

// git quotes the name with a trailing tab when it contains spaces.
func trimName(name string) string {
	if idx := strings.IndexByte(name, '\t'); idx >= 0 {
		return name[:idx]
	}
	return name
}

func parseHunkHeader(line string) (*Hunk, error) {
	match := hunkHeader.FindStringSubmatch(line)
	if match == nil {
		return nil, fmt.Errorf("could not extract hunk info from line '%s'", line)
	}
	atoi := func(s string, name string) (int, error) {
		if s == "" {
			return 1, nil
		}
		v, err := strconv.Atoi(s)
		if err != nil {
			return 0, fmt.Errorf("error converting %s to integer in '%s': %v", name, line, err)
		}
		return v, nil
	}
	var h Hunk
	var err error
	if h.OldPos, err = atoi(match[1], "oldpos"); err != nil {
		return nil, err
	}
	if h.OldLines, err = atoi(match[2], "oldlines"); err != nil {
		return nil, err
	}
	if h.NewPos, err = atoi(match[3], "newpos"); err != nil {
		return nil, err
	}
	if h.NewLines, err = atoi(match[4], "newlines"); err != nil {
		return nil, err
	}
	return &h, nil
}

// LineSet is a sorted list of line numbers.
type LineSet []int

func (s LineSet) Contains(line int) bool {
	i := sort.SearchInts(s, line)
	return i < len(s) && s[i] == line
}

// ChangedLines maps every file that exists after the patch to the lines the
// patch added to it. Deleted files are omitted.
func (p *Patch) ChangedLines() map[string]LineSet {
	changed := make(map[string]LineSet)
	for _, f := range p.Files {
		if f.NewName == "" {
			continue
		}
		lines := changed[f.NewName]
		for _, h := range f.Hunks {
			lines = append(lines, h.Added...)
		}
		sort.Ints(lines)
		changed[f.NewName] = lines
	}
	return changed
}

// Rebase re-keys changed lines, whose paths are relative to root, by their
// path relative to base. Files outside base are dropped.
func Rebase(changed map[string]LineSet, root, base string) (map[string]LineSet, error) {
	root, base = filepath.Clean(root), filepath.Clean(base)
	if root == base {
		return changed, nil
	}
	rebased := make(map[string]LineSet, len(changed))
	for name, lines := range changed {
		rel, err := filepath.Rel(base, filepath.Join(root, filepath.FromSlash(name)))
		if err != nil {
			return nil, fmt.Errorf("filepath.Rel: %v", err)
		}
		rel = filepath.ToSlash(rel)
		if rel == ".." || strings.HasPrefix(rel, "../") {
			continue
		}
		rebased[rel] = lines
	}
	return rebased, nil
}
