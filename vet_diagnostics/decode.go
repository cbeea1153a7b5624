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
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/golang/glog"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Finding is one diagnostic reported by a vet analyzer.
type Finding struct {
	Category string `json:"category,omitempty"`
	// Posn is "path:line:column".
	Posn string `json:"posn"`
	// End is the optional end position, same format as Posn.
	End            string           `json:"end,omitempty"`
	Message        string           `json:"message"`
	SuggestedFixes []SuggestedFix   `json:"suggested_fixes,omitempty"`
	Related        []RelatedFinding `json:"related,omitempty"`
}

type SuggestedFix struct {
	Message string     `json:"message"`
	Edits   []TextEdit `json:"edits"`
}

type TextEdit struct {
	Filename string `json:"filename"`
	Start    int    `json:"start"`
	End      int    `json:"end"`
	New      string `json:"new"`
}

type RelatedFinding struct {
	Posn    string `json:"posn"`
	End     string `json:"end,omitempty"`
	Message string `json:"message"`
}

// AnalyzerError records an analyzer that failed on a package instead of
// producing diagnostics, i.e. {"pkg": {"rule": {"error": "..."}}}.
type AnalyzerError struct {
	Package string
	Rule    string
	Message string
}

// Entry is the decoded JSON object of one block: package -> analyzer ->
// findings, plus the analyzers that reported an error.
type Entry struct {
	Packages map[string]map[string][]Finding
	Errors   []AnalyzerError
}

type analyzerFailure struct {
	Err *string `json:"error"`
}

func (e *Entry) UnmarshalJSON(data []byte) error {
	var raw map[string]map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw == nil {
		return errors.New("expected a JSON object")
	}
	e.Packages = make(map[string]map[string][]Finding, len(raw))
	e.Errors = nil
	for pkg, rules := range raw {
		if rules == nil {
			return fmt.Errorf("package %q: expected an object of analyzers", pkg)
		}
		findingsByRule := make(map[string][]Finding, len(rules))
		for rule, value := range rules {
			trimmed := bytes.TrimSpace(value)
			if len(trimmed) == 0 {
				return fmt.Errorf("package %q, analyzer %q: empty value", pkg, rule)
			}
			switch trimmed[0] {
			case '[':
				var findings []Finding
				if err := json.Unmarshal(trimmed, &findings); err != nil {
					return fmt.Errorf("package %q, analyzer %q: %w", pkg, rule, err)
				}
				findingsByRule[rule] = findings
			case '{':
				var failure analyzerFailure
				if err := json.Unmarshal(trimmed, &failure); err != nil {
					return fmt.Errorf("package %q, analyzer %q: %w", pkg, rule, err)
				}
				if failure.Err == nil {
					return fmt.Errorf("package %q, analyzer %q: object without \"error\" field", pkg, rule)
				}
				e.Errors = append(e.Errors, AnalyzerError{Package: pkg, Rule: rule, Message: *failure.Err})
			default:
				return fmt.Errorf("package %q, analyzer %q: expected a list of diagnostics, got %s", pkg, rule, abbreviate(string(trimmed)))
			}
		}
		e.Packages[pkg] = findingsByRule
	}
	sort.Slice(e.Errors, func(i, j int) bool {
		if e.Errors[i].Package != e.Errors[j].Package {
			return e.Errors[i].Package < e.Errors[j].Package
		}
		return e.Errors[i].Rule < e.Errors[j].Rule
	})
	return nil
}

func (e Entry) MarshalJSON() ([]byte, error) {
	out := make(map[string]map[string]interface{}, len(e.Packages))
	for pkg, rules := range e.Packages {
		m := make(map[string]interface{}, len(rules))
		for rule, findings := range rules {
			if findings == nil {
				findings = []Finding{}
			}
			m[rule] = findings
		}
		out[pkg] = m
	}
	for _, ae := range e.Errors {
		if out[ae.Package] == nil {
			out[ae.Package] = make(map[string]interface{})
		}
		msg := ae.Message
		out[ae.Package][ae.Rule] = analyzerFailure{Err: &msg}
	}
	return json.Marshal(out)
}

// SortedPackages returns the package paths of the entry in lexical order.
func (e Entry) SortedPackages() []string {
	keys := maps.Keys(e.Packages)
	slices.Sort(keys)
	return keys
}

// SortedRules returns the analyzer names reported for pkg in lexical order.
func (e Entry) SortedRules(pkg string) []string {
	keys := maps.Keys(e.Packages[pkg])
	slices.Sort(keys)
	return keys
}

// Decode parses one block. index is only used for error reporting.
func Decode(index int, block string) (Entry, error) {
	var entry Entry
	if err := json.Unmarshal([]byte(block), &entry); err != nil {
		return Entry{}, &MalformedDiagnosticError{Index: index, Block: block, Err: err}
	}
	return entry, nil
}

// DecodeAll decodes every block in order. The first malformed block aborts
// the whole decode and no partial list is returned.
func DecodeAll(blocks []string) ([]Entry, error) {
	entries := make([]Entry, 0, len(blocks))
	for i, block := range blocks {
		entry, err := Decode(i, block)
		if err != nil {
			glog.Errorf("failed to decode block %d: %v", i, err)
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// Parse segments the captured diagnostic stream of `go vet -json` and
// decodes every block.
func Parse(stderr string) ([]Entry, error) {
	blocks := Segment(stderr)
	glog.Infof("found %d diagnostic blocks", len(blocks))
	return DecodeAll(blocks)
}
