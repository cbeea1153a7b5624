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
	"fmt"
	"io"
	"strings"

	"naive.systems/vetaction/annotation"
)

// Publisher delivers annotations and run messages to the CI platform.
type Publisher interface {
	Warning(a annotation.Annotation)
	Notice(msg string)
	Error(msg string)
	Group(name string)
	EndGroup()
}

// GitHub writes GitHub Actions workflow commands to Out, which is the
// standard output of the action.
type GitHub struct {
	Out io.Writer
}

var dataEscaper = strings.NewReplacer("%", "%25", "\r", "%0D", "\n", "%0A")

var propertyEscaper = strings.NewReplacer("%", "%25", "\r", "%0D", "\n", "%0A", ":", "%3A", ",", "%2C")

func escapeData(s string) string {
	return dataEscaper.Replace(s)
}

func escapeProperty(s string) string {
	return propertyEscaper.Replace(s)
}

type property struct {
	key, value string
}

func (g GitHub) command(name string, props []property, msg string) {
	var b strings.Builder
	b.WriteString("::")
	b.WriteString(name)
	for i, p := range props {
		if i == 0 {
			b.WriteByte(' ')
		} else {
			b.WriteByte(',')
		}
		b.WriteString(p.key)
		b.WriteByte('=')
		b.WriteString(escapeProperty(p.value))
	}
	b.WriteString("::")
	b.WriteString(escapeData(msg))
	b.WriteByte('\n')
	io.WriteString(g.Out, b.String())
}

func (g GitHub) Warning(a annotation.Annotation) {
	props := []property{
		{"title", a.Title},
		{"file", a.Path},
		{"line", fmt.Sprint(a.StartLine)},
		{"endLine", fmt.Sprint(a.EndLine)},
		{"col", fmt.Sprint(a.StartColumn)},
	}
	if a.EndColumn != nil {
		props = append(props, property{"endColumn", fmt.Sprint(*a.EndColumn)})
	}
	g.command(string(a.Level), props, a.Message)
}

func (g GitHub) Notice(msg string) {
	g.command("notice", nil, msg)
}

func (g GitHub) Error(msg string) {
	g.command("error", nil, msg)
}

func (g GitHub) Group(name string) {
	g.command("group", nil, name)
}

func (g GitHub) EndGroup() {
	g.command("endgroup", nil, "")
}

// Plain prints annotations in the "file:line:col: message" form compilers
// use, for runs outside of GitHub Actions.
type Plain struct {
	Out io.Writer
}

func (p Plain) Warning(a annotation.Annotation) {
	fmt.Fprintf(p.Out, "%s:%d:%d: %s: %s (%s)\n", a.Path, a.StartLine, a.StartColumn, a.Level, a.Message, a.Title)
}

func (p Plain) Notice(msg string) {
	fmt.Fprintln(p.Out, msg)
}

func (p Plain) Error(msg string) {
	fmt.Fprintf(p.Out, "error: %s\n", msg)
}

func (p Plain) Group(name string) {
	fmt.Fprintf(p.Out, "== %s\n", name)
}

func (p Plain) EndGroup() {}
