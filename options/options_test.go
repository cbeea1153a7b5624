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

package options

import (
	"flag"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"
)

func newOptions(t *testing.T, args []string) (*flag.FlagSet, *SharedOptions) {
	t.Helper()
	fs := flag.NewFlagSet("vetaction", flag.ContinueOnError)
	option := NewSharedOptionsWithFlagSet(fs)
	if err := fs.Parse(args); err != nil {
		t.Fatalf("fs.Parse: %v", err)
	}
	return fs, option
}

func env(values map[string]string) func(string) string {
	return func(key string) string {
		return values[key]
	}
}

func TestDefaults(t *testing.T) {
	fs, option := newOptions(t, nil)
	if err := Resolve(fs, option, env(nil)); err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if option.GetPackages() != "./..." || option.GetGoBin() != "go" || option.GetOutsideWorkspace() != "fail" {
		t.Fatalf("wrong defaults: %s %s %s", option.GetPackages(), option.GetGoBin(), option.GetOutsideWorkspace())
	}
	if option.GetTimeout() != 0 || !option.GetEchoOutput() {
		t.Fatalf("wrong defaults: timeout %v, echo %v", option.GetTimeout(), option.GetEchoOutput())
	}
}

func TestActionInputs(t *testing.T) {
	fs, option := newOptions(t, []string{"-vet_flags=-printf=false"})
	inputs := env(map[string]string{
		"INPUT_PACKAGES":         "./cmd/...",
		"INPUT_BUILD-FLAGS":      "-tags=integration",
		"INPUT_VET-FLAGS":        "-assign=false",
		"INPUT_FAIL_ON_FINDINGS": "true",
		"INPUT_TIMEOUT-MINUTES":  "5",
		"INPUT_IGNORE_DIR":       "vendor/**\n\n  third_party/**  \n",
		"INPUT_DIFF-ROOT":        "..",
	})
	if err := Resolve(fs, option, inputs); err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	for _, testCase := range [...]struct {
		name     string
		parsed   interface{}
		expected interface{}
	}{
		{"packages", option.GetPackages(), "./cmd/..."},
		{"build flags", option.GetBuildFlags(), "-tags=integration"},
		{"command line wins", option.GetVetFlags(), "-printf=false"},
		{"bool input", option.GetFailOnFindings(), true},
		{"diff root", option.GetDiffRoot(), ".."},
		{"timeout", option.GetTimeout(), 5 * time.Minute},
		{"ignore dir", option.GetIgnoreDirPatterns(), []string{"vendor/**", "third_party/**"}},
	} {
		t.Run(testCase.name, func(t *testing.T) {
			if !reflect.DeepEqual(testCase.parsed, testCase.expected) {
				t.Fatalf("wrong value. parsed: %v, expected: %v.", testCase.parsed, testCase.expected)
			}
		})
	}
}

func TestConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vet.yaml")
	config := "packages: ./pkg/...\nresults_format: yaml\nignore_dir:\n  - gen/**\n  - '**/*_mock.go'\nadd_id: true\nlang: zh\n"
	if err := os.WriteFile(path, []byte(config), 0644); err != nil {
		t.Fatal(err)
	}
	fs, option := newOptions(t, []string{"-config", path, "-lang=en"})
	inputs := env(map[string]string{"INPUT_RESULTS_FORMAT": "json"})
	if err := Resolve(fs, option, inputs); err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if option.GetPackages() != "./pkg/..." {
		t.Fatalf("wrong packages. parsed: %s, expected: ./pkg/....", option.GetPackages())
	}
	if option.GetResultsFormat() != "json" {
		t.Fatalf("action input should override config file, got %s", option.GetResultsFormat())
	}
	if option.GetLang() != "en" {
		t.Fatalf("command line should override config file, got %s", option.GetLang())
	}
	if !option.GetAddID() {
		t.Fatalf("add_id was not read from the config file")
	}
	if !reflect.DeepEqual(option.GetIgnoreDirPatterns(), []string{"gen/**", "**/*_mock.go"}) {
		t.Fatalf("wrong ignore_dir: %v", option.GetIgnoreDirPatterns())
	}
}

func TestConfigFileErrors(t *testing.T) {
	for _, testCase := range [...]struct {
		name   string
		config string
	}{
		{"unknown option", "no_such_option: 1\n"},
		{"nested map", "packages:\n  a: b\n"},
		{"bad bool", "add_id: maybe\n"},
		{"not yaml", "packages: [\n"},
	} {
		t.Run(testCase.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "vet.yaml")
			if err := os.WriteFile(path, []byte(testCase.config), 0644); err != nil {
				t.Fatal(err)
			}
			fs, option := newOptions(t, []string{"-config", path})
			if err := Resolve(fs, option, env(nil)); err == nil {
				t.Fatalf("expected an error for %q", testCase.config)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	for _, testCase := range [...]struct {
		name string
		args []string
		fail bool
	}{
		{"ok", []string{"-results_format=yaml", "-outside_workspace=drop", "-lang=zh", "-publisher=plain"}, false},
		{"bad format", []string{"-results_format=xml"}, true},
		{"bad policy", []string{"-outside_workspace=truncate"}, true},
		{"bad lang", []string{"-lang=fr"}, true},
		{"bad timeout", []string{"-timeout_minutes=-1"}, true},
		{"bad publisher", []string{"-publisher=gitlab"}, true},
	} {
		t.Run(testCase.name, func(t *testing.T) {
			_, option := newOptions(t, testCase.args)
			if err := Validate(option); (err != nil) != testCase.fail {
				t.Fatalf("wrong validation result: %v", err)
			}
		})
	}
}

func TestPublisherName(t *testing.T) {
	_, option := newOptions(t, nil)
	if name := PublisherName(option, env(map[string]string{"GITHUB_ACTIONS": "true"})); name != "github" {
		t.Fatalf("wrong publisher. parsed: %s, expected: github.", name)
	}
	if name := PublisherName(option, env(nil)); name != "plain" {
		t.Fatalf("wrong publisher. parsed: %s, expected: plain.", name)
	}
	if path := StepSummaryPath(option, env(map[string]string{"GITHUB_STEP_SUMMARY": "/tmp/summary"})); path != "/tmp/summary" {
		t.Fatalf("wrong step summary path: %s", path)
	}
}
