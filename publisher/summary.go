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
	"strings"

	"golang.org/x/text/message"
	"naive.systems/vetaction/annotation"
	"naive.systems/vetaction/atomic"
	"naive.systems/vetaction/i18n"
	"naive.systems/vetaction/rules"
)

var cellEscaper = strings.NewReplacer("|", "\\|", "\n", " ")

// StepSummary renders the per-rule counts as a markdown table.
func StepSummary(counts []annotation.RuleCount, p *message.Printer) string {
	var b strings.Builder
	b.WriteString("### ")
	b.WriteString(p.Sprintf(i18n.SummaryTitle))
	b.WriteString("\n\n")
	if len(counts) == 0 {
		b.WriteString(p.Sprintf(i18n.SummaryNoFindings))
		b.WriteString("\n")
		return b.String()
	}
	fmt.Fprintf(&b, "| %s | %s | %s |\n", p.Sprintf(i18n.SummaryRule), p.Sprintf(i18n.SummaryCount), p.Sprintf(i18n.SummaryDesc))
	b.WriteString("| --- | ---: | --- |\n")
	for _, c := range counts {
		fmt.Fprintf(&b, "| `%s` | %d | %s |\n", cellEscaper.Replace(c.Rule), c.Count, cellEscaper.Replace(rules.Summary(c.Rule)))
	}
	return b.String()
}

// WriteStepSummary appends the summary to the file GitHub renders on the run
// page ($GITHUB_STEP_SUMMARY).
func WriteStepSummary(path string, counts []annotation.RuleCount, p *message.Printer) error {
	return atomic.Append(path, StepSummary(counts, p))
}
