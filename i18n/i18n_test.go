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

package i18n

import (
	"testing"
)

func TestGetPrinter(t *testing.T) {
	for _, testCase := range [...]struct {
		lang     string
		expected string
	}{
		{"en", "go vet returned code 2, 0 warnings"},
		{"zh", "go vet 返回代码 2，0 个警告"},
		{"fr", "go vet returned code 2, 0 warnings"},
	} {
		t.Run(testCase.lang, func(t *testing.T) {
			got := GetPrinter(testCase.lang).Sprintf(VetFailed, 2, 0)
			if got != testCase.expected {
				t.Fatalf("wrong message. parsed: %q, expected: %q.", got, testCase.expected)
			}
		})
	}
}

func TestArgumentOrder(t *testing.T) {
	got := GetPrinter("zh").Sprintf(FoundWarnings, 3, 2)
	expected := "在 2 个文件中发现 3 个警告"
	if got != expected {
		t.Fatalf("wrong message. parsed: %q, expected: %q.", got, expected)
	}
}

func TestSupportedLanguage(t *testing.T) {
	if !SupportedLanguage("zh") || SupportedLanguage("fr") {
		t.Fatalf("wrong supported languages")
	}
}
