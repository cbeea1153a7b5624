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

package publisher

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"gopkg.in/yaml.v2"
	"naive.systems/vetaction/annotation"
	"naive.systems/vetaction/i18n"
)

func intPtr(i int) *int {
	return &i
}

func sampleAnnotations() []annotation.Annotation {
	return []annotation.Annotation{
		{Path: "pkg/foo/f.go", StartLine: 10, EndLine: 10, StartColumn: 5, Level: annotation.Warning, Message: "bad thing", Title: "ruleA"},
		{Path: "pkg/foo/g.go", StartLine: 3, EndLine: 3, StartColumn: 1, EndColumn: intPtr(7), Level: annotation.Warning, Message: "50% done,\nnext: line", Title: "printf"},
	}
}

func TestGitHubWarning(t *testing.T) {
	var out bytes.Buffer
	g := GitHub{Out: &out}
	for _, a := range sampleAnnotations() {
		g.Warning(a)
	}
	expected := "::warning title=ruleA,file=pkg/foo/f.go,line=10,endLine=10,col=5::bad thing\n" +
		"::warning title=printf,file=pkg/foo/g.go,line=3,endLine=3,col=1,endColumn=7::50%25 done,%0Anext: line\n"
	if out.String() != expected {
		t.Fatalf("wrong commands. parsed: %q, expected: %q.", out.String(), expected)
	}
}

func TestGitHubEscaping(t *testing.T) {
	for _, testCase := range [...]struct {
		name     string
		a        annotation.Annotation
		expected string
	}{
		{
			"property with colon and comma",
			annotation.Annotation{Path: "C:/a,b.go", StartLine: 1, EndLine: 1, StartColumn: 2, Level: annotation.Warning, Message: "m", Title: "x"},
			"::warning title=x,file=C%3A/a%2Cb.go,line=1,endLine=1,col=2::m\n",
		},
		{
			"carriage return",
			annotation.Annotation{Path: "f.go", StartLine: 1, EndLine: 1, StartColumn: 1, Level: annotation.Warning, Message: "a\r\nb", Title: "x"},
			"::warning title=x,file=f.go,line=1,endLine=1,col=1::a%0D%0Ab\n",
		},
	} {
		t.Run(testCase.name, func(t *testing.T) {
			var out bytes.Buffer
			GitHub{Out: &out}.Warning(testCase.a)
			if out.String() != testCase.expected {
				t.Fatalf("wrong command. parsed: %q, expected: %q.", out.String(), testCase.expected)
			}
		})
	}
}

func TestGitHubMessages(t *testing.T) {
	var out bytes.Buffer
	g := GitHub{Out: &out}
	g.Group("go vet ./...")
	g.Notice("2 warnings in 1 files")
	g.EndGroup()
	g.Error("go vet returned code 2, 0 warnings")
	expected := "::group::go vet ./...\n::notice::2 warnings in 1 files\n::endgroup::\n::error::go vet returned code 2, 0 warnings\n"
	if out.String() != expected {
		t.Fatalf("wrong commands. parsed: %q, expected: %q.", out.String(), expected)
	}
}

func TestPlainWarning(t *testing.T) {
	var out bytes.Buffer
	Plain{Out: &out}.Warning(sampleAnnotations()[0])
	expected := "pkg/foo/f.go:10:5: warning: bad thing (ruleA)\n"
	if out.String() != expected {
		t.Fatalf("wrong output. parsed: %q, expected: %q.", out.String(), expected)
	}
}

func TestDumpJSON(t *testing.T) {
	var out bytes.Buffer
	if err := Dump(&out, sampleAnnotations(), FormatJSON); err != nil {
		t.Fatalf("Dump: %v", err)
	}
	var parsed []annotation.Annotation
	if err := json.Unmarshal(out.Bytes(), &parsed); err != nil {
		t.Fatalf("json.Unmarshal(%s): %v", out.String(), err)
	}
	if !reflect.DeepEqual(parsed, sampleAnnotations()) {
		t.Fatalf("wrong dump. parsed: %+v, expected: %+v.", parsed, sampleAnnotations())
	}
	if !strings.Contains(out.String(), `"start_line": 10`) {
		t.Fatalf("dump is not indented with snake_case keys: %s", out.String())
	}
}

func TestDumpEmpty(t *testing.T) {
	for _, testCase := range [...]struct {
		format   Format
		expected string
	}{
		{FormatJSON, "[]\n"},
		{FormatYAML, "[]\n"},
	} {
		t.Run(string(testCase.format), func(t *testing.T) {
			var out bytes.Buffer
			if err := Dump(&out, nil, testCase.format); err != nil {
				t.Fatalf("Dump: %v", err)
			}
			if out.String() != testCase.expected {
				t.Fatalf("wrong dump. parsed: %q, expected: %q.", out.String(), testCase.expected)
			}
		})
	}
}

func TestDumpYAML(t *testing.T) {
	var out bytes.Buffer
	if err := Dump(&out, sampleAnnotations(), FormatYAML); err != nil {
		t.Fatalf("Dump: %v", err)
	}
	var parsed []annotation.Annotation
	if err := yaml.Unmarshal(out.Bytes(), &parsed); err != nil {
		t.Fatalf("yaml.Unmarshal: %v", err)
	}
	if !reflect.DeepEqual(parsed, sampleAnnotations()) {
		t.Fatalf("wrong dump. parsed: %+v, expected: %+v.", parsed, sampleAnnotations())
	}
}

func TestParseFormat(t *testing.T) {
	if f, err := ParseFormat(""); err != nil || f != FormatJSON {
		t.Fatalf("empty format should default to json, got %q %v", f, err)
	}
	if _, err := ParseFormat("xml"); err == nil {
		t.Fatalf("expected an error for xml")
	}
}

func TestWriteResults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vet_results.yaml")
	if err := WriteResults(path, sampleAnnotations(), FormatYAML); err != nil {
		t.Fatalf("WriteResults: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "title: ruleA") {
		t.Fatalf("results file is missing data: %s", data)
	}
}

func TestStepSummary(t *testing.T) {
	p := i18n.GetPrinter("en")
	if got := StepSummary(nil, p); got != "### go vet results\n\nNo issues found.\n" {
		t.Fatalf("wrong empty summary: %q", got)
	}
	got := StepSummary([]annotation.RuleCount{{Rule: "printf", Count: 2}, {Rule: "ruleA", Count: 1}}, p)
	for _, line := range []string{
		"| Rule | Count | Description |",
		"| `printf` | 2 | check consistency of Printf",
		"| `ruleA` | 1 |  |",
	} {
		if !strings.Contains(got, line) {
			t.Fatalf("summary is missing %q:\n%s", line, got)
		}
	}
}

func TestWriteStepSummaryAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "step_summary.md")
	if err := os.WriteFile(path, []byte("previous step\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := WriteStepSummary(path, nil, i18n.GetPrinter("en")); err != nil {
		t.Fatalf("WriteStepSummary: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), "previous step\n### go vet results") {
		t.Fatalf("summary was not appended: %q", data)
	}
}
