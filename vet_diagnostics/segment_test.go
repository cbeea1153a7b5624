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
	"reflect"
	"testing"
)

func TestSegment(t *testing.T) {
	for _, testCase := range [...]struct {
		name     string
		text     string
		expected []string
	}{
		{"empty", "", nil},
		{"no header", "{\"a\":{}}\nsome text\n", nil},
		{"two blocks", "#h1\n{\"a\":1}\n#h2\n{\"b\":2}", []string{"{\"a\":1}\n", "{\"b\":2}\n"}},
		{"preamble dropped", "go: downloading x v1\n# pkg/foo\n{}\n", []string{"{}\n"}},
		{"multi-line block", "# pkg/foo\n{\n  \"a\": 1\n}\n", []string{"{\n  \"a\": 1\n}\n"}},
		{"crlf", "# pkg/foo\r\n{}\r\n", []string{"{}\n"}},
		{"header only", "# pkg/foo\n# pkg/bar\n{}\n", []string{"{}\n"}},
		{"blank block skipped", "# pkg/foo\n\n  \n# pkg/bar\n{}\n", []string{"{}\n"}},
	} {
		t.Run(testCase.name, func(t *testing.T) {
			blocks := Segment(testCase.text)
			if !reflect.DeepEqual(blocks, testCase.expected) {
				t.Fatalf("wrong blocks. parsed: %q, expected: %q.", blocks, testCase.expected)
			}
		})
	}
}

func TestSegmentCountsHeaders(t *testing.T) {
	text := "# a\n{}\n# b\n{}\n# c\n{}\n"
	if n := len(Segment(text)); n != 3 {
		t.Fatalf("wrong number of blocks. parsed: %d, expected: 3.", n)
	}
}

func TestParsePosition(t *testing.T) {
	for _, testCase := range [...]struct {
		name     string
		posn     string
		expected Position
	}{
		{"unix", "/work/pkg/foo/f.go:10:5", Position{"/work/pkg/foo/f.go", 10, 5}},
		{"relative", "f.go:1:1", Position{"f.go", 1, 1}},
		{"windows drive", `C:\work\f.go:3:14`, Position{`C:\work\f.go`, 3, 14}},
		{"colon in name", "/work/a:b.go:7:2", Position{"/work/a:b.go", 7, 2}},
	} {
		t.Run(testCase.name, func(t *testing.T) {
			pos, err := ParsePosition(testCase.posn)
			if err != nil {
				t.Fatalf("ParsePosition(%q): %v", testCase.posn, err)
			}
			if pos != testCase.expected {
				t.Fatalf("wrong position. parsed: %+v, expected: %+v.", pos, testCase.expected)
			}
			if pos.String() != testCase.posn {
				t.Fatalf("wrong String(). parsed: %s, expected: %s.", pos.String(), testCase.posn)
			}
		})
	}
}

func TestParsePositionMalformed(t *testing.T) {
	for _, testCase := range [...]struct {
		name string
		posn string
	}{
		{"empty", ""},
		{"no colon", "f.go"},
		{"two fields", "f.go:10"},
		{"empty path", ":10:5"},
		{"text line", "f.go:ten:5"},
		{"text column", "f.go:10:x"},
		{"empty column", "f.go:10:"},
		{"negative", "f.go:-1:5"},
	} {
		t.Run(testCase.name, func(t *testing.T) {
			_, err := ParsePosition(testCase.posn)
			if _, ok := err.(*MalformedPositionError); !ok {
				t.Fatalf("expected MalformedPositionError for %q, got %v", testCase.posn, err)
			}
		})
	}
}
