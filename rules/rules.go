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

// Package rules describes the analyzers run by `go vet`. The names match the
// analyzer keys in `go vet -json` output and the titles of annotations.
package rules

import (
	"strings"

	"golang.org/x/exp/slices"
	"golang.org/x/tools/go/analysis"
	"golang.org/x/tools/go/analysis/passes/asmdecl"
	"golang.org/x/tools/go/analysis/passes/assign"
	"golang.org/x/tools/go/analysis/passes/atomic"
	"golang.org/x/tools/go/analysis/passes/bools"
	"golang.org/x/tools/go/analysis/passes/buildtag"
	"golang.org/x/tools/go/analysis/passes/cgocall"
	"golang.org/x/tools/go/analysis/passes/composite"
	"golang.org/x/tools/go/analysis/passes/copylock"
	"golang.org/x/tools/go/analysis/passes/directive"
	"golang.org/x/tools/go/analysis/passes/errorsas"
	"golang.org/x/tools/go/analysis/passes/framepointer"
	"golang.org/x/tools/go/analysis/passes/httpresponse"
	"golang.org/x/tools/go/analysis/passes/ifaceassert"
	"golang.org/x/tools/go/analysis/passes/loopclosure"
	"golang.org/x/tools/go/analysis/passes/lostcancel"
	"golang.org/x/tools/go/analysis/passes/nilfunc"
	"golang.org/x/tools/go/analysis/passes/printf"
	"golang.org/x/tools/go/analysis/passes/shift"
	"golang.org/x/tools/go/analysis/passes/sigchanyzer"
	"golang.org/x/tools/go/analysis/passes/slog"
	"golang.org/x/tools/go/analysis/passes/stdmethods"
	"golang.org/x/tools/go/analysis/passes/stringintconv"
	"golang.org/x/tools/go/analysis/passes/structtag"
	"golang.org/x/tools/go/analysis/passes/testinggoroutine"
	"golang.org/x/tools/go/analysis/passes/tests"
	"golang.org/x/tools/go/analysis/passes/timeformat"
	"golang.org/x/tools/go/analysis/passes/unmarshal"
	"golang.org/x/tools/go/analysis/passes/unreachable"
	"golang.org/x/tools/go/analysis/passes/unsafeptr"
	"golang.org/x/tools/go/analysis/passes/unusedresult"
)

var analyzers = []*analysis.Analyzer{
	asmdecl.Analyzer,
	assign.Analyzer,
	atomic.Analyzer,
	bools.Analyzer,
	buildtag.Analyzer,
	cgocall.Analyzer,
	composite.Analyzer,
	copylock.Analyzer,
	directive.Analyzer,
	errorsas.Analyzer,
	framepointer.Analyzer,
	httpresponse.Analyzer,
	ifaceassert.Analyzer,
	loopclosure.Analyzer,
	lostcancel.Analyzer,
	nilfunc.Analyzer,
	printf.Analyzer,
	shift.Analyzer,
	sigchanyzer.Analyzer,
	slog.Analyzer,
	stdmethods.Analyzer,
	stringintconv.Analyzer,
	structtag.Analyzer,
	testinggoroutine.Analyzer,
	tests.Analyzer,
	timeformat.Analyzer,
	unmarshal.Analyzer,
	unreachable.Analyzer,
	unsafeptr.Analyzer,
	unusedresult.Analyzer,
}

// Flags accepted by `go vet` itself rather than by an analyzer.
var toolFlags = map[string]bool{
	"all": true, "c": true, "context": true, "debug": true, "flags": true,
	"fix": true, "diff": true, "json": true, "source": true, "tags": true,
	"test": true, "trace": true, "cpuprofile": true, "memprofile": true,
	"v": true, "V": true, "x": true, "n": true, "mod": true, "modfile": true,
	"race": true, "vettool": true, "toolexec": true,
}

type Rule struct {
	Name    string
	Summary string
	Doc     string
}

var catalog = func() map[string]Rule {
	m := make(map[string]Rule, len(analyzers))
	for _, a := range analyzers {
		m[a.Name] = Rule{Name: a.Name, Summary: firstLine(a.Doc), Doc: a.Doc}
	}
	return m
}()

func firstLine(doc string) string {
	doc = strings.TrimSpace(doc)
	if idx := strings.IndexByte(doc, '\n'); idx >= 0 {
		doc = doc[:idx]
	}
	return strings.TrimSuffix(strings.TrimSpace(doc), ".")
}

func Lookup(name string) (Rule, bool) {
	r, ok := catalog[name]
	return r, ok
}

// Summary returns the one-line description of the analyzer, or an empty
// string for analyzers it does not know about (e.g. from a -vettool).
func Summary(name string) string {
	return catalog[name].Summary
}

func Names() []string {
	names := make([]string, 0, len(catalog))
	for name := range catalog {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// UnknownVetFlags returns the flags that neither go vet nor any known
// analyzer accepts, e.g. "-prinft=false".
func UnknownVetFlags(flags []string) []string {
	var unknown []string
	for _, flag := range flags {
		if !strings.HasPrefix(flag, "-") {
			continue
		}
		name := strings.TrimLeft(flag, "-")
		if idx := strings.IndexByte(name, '='); idx >= 0 {
			name = name[:idx]
		}
		if idx := strings.IndexByte(name, '.'); idx >= 0 {
			name = name[:idx]
		}
		if name == "" || toolFlags[name] {
			continue
		}
		if _, ok := catalog[name]; !ok {
			unknown = append(unknown, flag)
		}
	}
	return unknown
}
