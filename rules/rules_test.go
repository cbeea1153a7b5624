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

package rules

import (
	"reflect"
	"testing"

	"golang.org/x/exp/slices"
)

func TestLookup(t *testing.T) {
	for _, name := range []string{"printf", "copylocks", "composites", "unusedresult", "tests"} {
		r, ok := Lookup(name)
		if !ok {
			t.Fatalf("analyzer %s not found", name)
		}
		if r.Summary == "" || r.Summary != Summary(name) {
			t.Fatalf("wrong summary for %s: %q", name, r.Summary)
		}
	}
	if _, ok := Lookup("ruleA"); ok {
		t.Fatalf("unexpected analyzer ruleA")
	}
	if Summary("ruleA") != "" {
		t.Fatalf("unknown analyzer should have an empty summary")
	}
}

func TestNames(t *testing.T) {
	names := Names()
	if len(names) != len(analyzers) {
		t.Fatalf("wrong number of names. parsed: %d, expected: %d.", len(names), len(analyzers))
	}
	if !slices.IsSorted(names) {
		t.Fatalf("names are not sorted: %v", names)
	}
}

func TestFirstLine(t *testing.T) {
	for _, testCase := range [...]struct {
		doc      string
		expected string
	}{
		{"check for useless assignments\n\nThis checker reports...", "check for useless assignments"},
		{"  trailing period.\n", "trailing period"},
		{"", ""},
	} {
		if got := firstLine(testCase.doc); got != testCase.expected {
			t.Fatalf("wrong first line. parsed: %q, expected: %q.", got, testCase.expected)
		}
	}
}

func TestUnknownVetFlags(t *testing.T) {
	flags := []string{"-printf=false", "-prinft=false", "-unusedresult.funcs=x", "-c=2", "--json", "value", "-"}
	expected := []string{"-prinft=false"}
	if got := UnknownVetFlags(flags); !reflect.DeepEqual(got, expected) {
		t.Fatalf("wrong unknown flags. parsed: %v, expected: %v.", got, expected)
	}
}
