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

package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime/debug"
	"strings"
	"time"

	"github.com/golang/glog"
	"golang.org/x/text/message"
	"naive.systems/vetaction/annotation"
	"naive.systems/vetaction/diff"
	"naive.systems/vetaction/i18n"
	"naive.systems/vetaction/options"
	"naive.systems/vetaction/publisher"
	"naive.systems/vetaction/rules"
	"naive.systems/vetaction/vet"
	"naive.systems/vetaction/vet_diagnostics"
)

type Config struct {
	Packages   string
	BuildFlags []string
	VetFlags   []string
	// BaseDir is the workspace; finding paths are reported relative to it.
	BaseDir           string
	OutsideWorkspace  annotation.OutsideWorkspacePolicy
	IgnoreDirPatterns []string
	DiffFile          string
	// DiffRoot is the directory the paths of DiffFile are relative to.
	DiffRoot        string
	AddID           bool
	FailOnFindings  bool
	ShowJsonResults bool
	ResultsFile     string
	ResultsFormat   publisher.Format
	StepSummary     string
	ShowLineNumber  bool
}

// ConfigFromOptions builds the run configuration. baseDir is resolved by the
// caller once at startup.
func ConfigFromOptions(option *options.SharedOptions, baseDir string, getenv func(string) string) (Config, error) {
	buildFlags, err := vet.SplitFlags(option.GetBuildFlags(), option.GetShellSplitFlags())
	if err != nil {
		return Config{}, fmt.Errorf("invalid build_flags: %v", err)
	}
	vetFlags, err := vet.SplitFlags(option.GetVetFlags(), option.GetShellSplitFlags())
	if err != nil {
		return Config{}, fmt.Errorf("invalid vet_flags: %v", err)
	}
	policy, err := annotation.ParseOutsideWorkspacePolicy(option.GetOutsideWorkspace())
	if err != nil {
		return Config{}, err
	}
	format, err := publisher.ParseFormat(option.GetResultsFormat())
	if err != nil {
		return Config{}, err
	}
	diffRoot := option.GetDiffRoot()
	if diffRoot == "" {
		diffRoot = baseDir
	} else if !filepath.IsAbs(diffRoot) {
		diffRoot = filepath.Join(baseDir, diffRoot)
	}
	return Config{
		Packages:          option.GetPackages(),
		BuildFlags:        buildFlags,
		VetFlags:          vetFlags,
		BaseDir:           baseDir,
		OutsideWorkspace:  policy,
		IgnoreDirPatterns: option.GetIgnoreDirPatterns(),
		DiffFile:          option.GetDiffFile(),
		DiffRoot:          diffRoot,
		AddID:             option.GetAddID(),
		FailOnFindings:    option.GetFailOnFindings(),
		ShowJsonResults:   option.GetShowJsonResults(),
		ResultsFile:       option.GetResultsFile(),
		ResultsFormat:     format,
		StepSummary:       options.StepSummaryPath(option, getenv),
		ShowLineNumber:    option.GetShowLineNumber(),
	}, nil
}

type Result struct {
	ExitCode       int
	Annotations    []annotation.Annotation
	AnalyzerErrors []vet_diagnostics.AnalyzerError
	Failed         bool
	// Message is the single failure message when Failed is set.
	Message string
}

type Runner struct {
	Config    Config
	Invoker   vet.Invoker
	Publisher publisher.Publisher
	// Stdout receives the machine-readable dump.
	Stdout io.Writer
	// Log receives progress lines, Stdout when nil.
	Log     io.Writer
	Printer *message.Printer
}

// ConsoleWriter returns where progress lines and workflow commands go. It is
// stderr when the dump is printed, so that stdout holds nothing but the dump.
func ConsoleWriter(showJsonResults bool, stdout, stderr io.Writer) io.Writer {
	if showJsonResults {
		return stderr
	}
	return stdout
}

func (r *Runner) printfWithTimeStamp(format string, arg ...interface{}) {
	prefix := fmt.Sprintf("%v ", time.Now().Format("2006-01-02 15:04:05"))
	msg := prefix + r.Printer.Sprintf(format, arg...)
	w := r.Log
	if w == nil {
		w = r.Stdout
	}
	fmt.Fprintln(w, msg)
	glog.Info(msg)
}

// Run invokes go vet once and publishes its findings. Every error and panic
// is turned into a failed result carrying one message, which is also
// published as an error.
func (r *Runner) Run(ctx context.Context) (result *Result) {
	result = &Result{}
	defer func() {
		if p := recover(); p != nil {
			glog.Errorf("panic during run: %v\n%s", p, debug.Stack())
			r.fail(result, fmt.Sprintf("internal error: %v", p))
		}
	}()
	if err := r.run(ctx, result); err != nil {
		r.fail(result, err.Error())
	}
	return result
}

func (r *Runner) fail(result *Result, msg string) {
	glog.Error(msg)
	result.Failed = true
	result.Message = msg
	r.Publisher.Error(msg)
}

func (r *Runner) vetFailed(exitCode, warnings int) string {
	return r.Printer.Sprintf(i18n.VetFailed, exitCode, warnings)
}

func (r *Runner) run(ctx context.Context, result *Result) error {
	cfg := r.Config
	if unknown := rules.UnknownVetFlags(cfg.VetFlags); len(unknown) > 0 {
		glog.Warningf("vet flags not matching any known analyzer: %s", strings.Join(unknown, " "))
	}
	args := vet.BuildArgs(cfg.Packages, cfg.BuildFlags, cfg.VetFlags)
	r.Publisher.Group(r.Printer.Sprintf(i18n.RunningCommand, "go "+strings.Join(args, " ")))
	out, err := r.Invoker.Run(ctx, args)
	r.Publisher.EndGroup()
	if err != nil {
		return err
	}
	result.ExitCode = out.ExitCode

	annotations, err := r.annotate(out.Stderr, result)
	if err != nil {
		if out.ExitCode != 0 {
			return fmt.Errorf("%s: %w", r.vetFailed(out.ExitCode, 0), err)
		}
		return err
	}
	result.Annotations = annotations

	for _, ae := range result.AnalyzerErrors {
		r.Publisher.Notice(r.Printer.Sprintf(i18n.AnalyzerFailed, ae.Rule, ae.Package, ae.Message))
	}
	for _, a := range annotations {
		r.Publisher.Warning(a)
	}
	r.printfWithTimeStamp(i18n.FoundWarnings, len(annotations), countFiles(annotations))

	if err := r.report(annotations); err != nil {
		return err
	}

	if out.ExitCode != 0 || (cfg.FailOnFindings && len(annotations) > 0) {
		return errors.New(r.vetFailed(out.ExitCode, len(annotations)))
	}
	return nil
}

// annotate runs the decoding pipeline and the configured filters.
func (r *Runner) annotate(stderr string, result *Result) ([]annotation.Annotation, error) {
	cfg := r.Config
	entries, err := vet_diagnostics.Parse(stderr)
	if err != nil {
		return nil, err
	}
	for _, entry := range entries {
		result.AnalyzerErrors = append(result.AnalyzerErrors, entry.Errors...)
	}
	mapper := annotation.Mapper{BaseDir: cfg.BaseDir, OutsideWorkspace: cfg.OutsideWorkspace}
	annotations, err := mapper.Map(entries)
	if err != nil {
		return nil, err
	}
	annotations = annotation.FilterIgnored(annotations, cfg.IgnoreDirPatterns)
	if cfg.DiffFile != "" {
		data, err := os.ReadFile(cfg.DiffFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read diff file: %v", err)
		}
		patch, err := diff.Parse(string(data))
		if err != nil {
			return nil, fmt.Errorf("failed to parse diff file %s: %v", cfg.DiffFile, err)
		}
		changed := patch.ChangedLines()
		if cfg.DiffRoot != "" {
			if changed, err = diff.Rebase(changed, cfg.DiffRoot, cfg.BaseDir); err != nil {
				return nil, err
			}
		}
		if len(changed) == 0 && len(annotations) > 0 {
			glog.Warningf("no file of %s is inside %s, check diff_root", cfg.DiffFile, cfg.BaseDir)
		}
		annotations = annotation.FilterChanged(annotations, changed)
	}
	if cfg.AddID {
		annotation.AssignIDs(annotations)
	}
	return annotations, nil
}

func (r *Runner) report(annotations []annotation.Annotation) error {
	cfg := r.Config
	if cfg.ShowJsonResults {
		if err := publisher.Dump(r.Stdout, annotations, cfg.ResultsFormat); err != nil {
			return fmt.Errorf("failed to dump results: %v", err)
		}
	}
	if cfg.ResultsFile != "" {
		if err := publisher.WriteResults(cfg.ResultsFile, annotations, cfg.ResultsFormat); err != nil {
			return err
		}
		r.printfWithTimeStamp(i18n.ResultsWritten, cfg.ResultsFile)
	}
	if cfg.StepSummary != "" {
		if err := publisher.WriteStepSummary(cfg.StepSummary, annotation.CountByRule(annotations), r.Printer); err != nil {
			return fmt.Errorf("failed to write step summary: %v", err)
		}
	}
	if cfg.ShowLineNumber {
		lines, err := CountGoLines(cfg.BaseDir, cfg.IgnoreDirPatterns)
		if err != nil {
			return fmt.Errorf("failed to count lines: %v", err)
		}
		r.printfWithTimeStamp(i18n.LinesOfGoCode, lines)
	}
	return nil
}

func countFiles(annotations []annotation.Annotation) int {
	files := map[string]struct{}{}
	for _, a := range annotations {
		files[a.Path] = struct{}{}
	}
	return len(files)
}
