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
	"sort"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/golang/glog"
	"github.com/google/uuid"
	"naive.systems/vetaction/diff"
)

// FilterIgnored drops annotations whose path matches one of the doublestar
// patterns. A malformed pattern is logged and skipped.
func FilterIgnored(annotations []Annotation, patterns []string) []Annotation {
	for _, pattern := range patterns {
		var kept []Annotation
		for _, a := range annotations {
			matched, err := doublestar.Match(pattern, a.Path)
			if err != nil {
				glog.Error("malformed ignore_dir pattern ", pattern)
				kept = annotations
				break
			}
			if matched {
				glog.Infof("Result in path %s ignored due to pattern %s", a.Path, pattern)
			} else {
				kept = append(kept, a)
			}
		}
		annotations = kept
	}
	return annotations
}

// FilterChanged keeps the annotations that start on a line added by the
// patch.
func FilterChanged(annotations []Annotation, changed map[string]diff.LineSet) []Annotation {
	var kept []Annotation
	for _, a := range annotations {
		if changed[a.Path].Contains(a.StartLine) {
			kept = append(kept, a)
		} else {
			glog.Infof("Result %s:%d ignored: line not changed", a.Path, a.StartLine)
		}
	}
	return kept
}

func AssignIDs(annotations []Annotation) {
	for i := range annotations {
		id, err := uuid.NewRandom()
		if err != nil {
			glog.Warningf("uuid.NewRandom: %v", err)
			continue
		}
		annotations[i].ID = id.String()
	}
}

type RuleCount struct {
	Rule  string
	Count int
}

// CountByRule returns the number of annotations per title, most frequent
// first and ties in lexical order.
func CountByRule(annotations []Annotation) []RuleCount {
	counts := make(map[string]int)
	for _, a := range annotations {
		counts[a.Title]++
	}
	result := make([]RuleCount, 0, len(counts))
	for rule, n := range counts {
		result = append(result, RuleCount{Rule: rule, Count: n})
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Count != result[j].Count {
			return result[i].Count > result[j].Count
		}
		return result[i].Rule < result[j].Rule
	})
	return result
}
