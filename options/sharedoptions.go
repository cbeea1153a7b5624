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
	"time"
)

type ArrayFlags []string

func (i *ArrayFlags) String() string {
	return "array flags"
}

func (i *ArrayFlags) Set(value string) error {
	*i = append(*i, value)
	return nil
}

type SharedOptions struct {
	AddID             *bool
	BuildFlags        *string
	ConfigFile        *string
	DiffFile          *string
	DiffRoot          *string
	EchoOutput        *bool
	FailOnFindings    *bool
	GoBin             *string
	IgnoreDirPatterns ArrayFlags
	Lang              *string
	OutsideWorkspace  *string
	Packages          *string
	Publisher         *string
	ResultsFile       *string
	ResultsFormat     *string
	ShellSplitFlags   *bool
	ShowJsonResults   *bool
	ShowLineNumber    *bool
	StepSummary       *string
	TimeoutMinutes    *int
	VetFlags          *string
	WorkDir           *string
}

func (s SharedOptions) GetAddID() bool {
	return *s.AddID
}

func (s SharedOptions) GetBuildFlags() string {
	return *s.BuildFlags
}

func (s SharedOptions) GetConfigFile() string {
	return *s.ConfigFile
}

func (s SharedOptions) GetDiffFile() string {
	return *s.DiffFile
}

func (s SharedOptions) GetDiffRoot() string {
	return *s.DiffRoot
}

func (s SharedOptions) GetEchoOutput() bool {
	return *s.EchoOutput
}

func (s SharedOptions) GetFailOnFindings() bool {
	return *s.FailOnFindings
}

func (s SharedOptions) GetGoBin() string {
	return *s.GoBin
}

func (s SharedOptions) GetIgnoreDirPatterns() []string {
	return s.IgnoreDirPatterns
}

func (s SharedOptions) GetLang() string {
	return *s.Lang
}

func (s SharedOptions) GetOutsideWorkspace() string {
	return *s.OutsideWorkspace
}

func (s SharedOptions) GetPackages() string {
	return *s.Packages
}

func (s SharedOptions) GetPublisher() string {
	return *s.Publisher
}

func (s SharedOptions) GetResultsFile() string {
	return *s.ResultsFile
}

func (s SharedOptions) GetResultsFormat() string {
	return *s.ResultsFormat
}

func (s SharedOptions) GetShellSplitFlags() bool {
	return *s.ShellSplitFlags
}

func (s SharedOptions) GetShowJsonResults() bool {
	return *s.ShowJsonResults
}

func (s SharedOptions) GetShowLineNumber() bool {
	return *s.ShowLineNumber
}

func (s SharedOptions) GetStepSummary() string {
	return *s.StepSummary
}

func (s SharedOptions) GetTimeout() time.Duration {
	return time.Duration(*s.TimeoutMinutes) * time.Minute
}

func (s SharedOptions) GetVetFlags() string {
	return *s.VetFlags
}

func (s SharedOptions) GetWorkDir() string {
	return *s.WorkDir
}

func (s *SharedOptions) SetWorkDir(dir string) {
	*s.WorkDir = dir
}

type DefaultOptionValues struct {
	AddID            bool
	BuildFlags       string
	ConfigFile       string
	DiffFile         string
	DiffRoot         string
	EchoOutput       bool
	FailOnFindings   bool
	GoBin            string
	Lang             string
	OutsideWorkspace string
	Packages         string
	Publisher        string
	ResultsFile      string
	ResultsFormat    string
	ShellSplitFlags  bool
	ShowJsonResults  bool
	ShowLineNumber   bool
	StepSummary      string
	TimeoutMinutes   int
	VetFlags         string
	WorkDir          string
}

var Defaults = DefaultOptionValues{
	AddID:            false,
	BuildFlags:       "",
	ConfigFile:       "",
	DiffFile:         "",
	DiffRoot:         "",
	EchoOutput:       true,
	FailOnFindings:   false,
	GoBin:            "go",
	Lang:             "en",
	OutsideWorkspace: "fail",
	Packages:         "./...",
	Publisher:        "auto",
	ResultsFile:      "",
	ResultsFormat:    "json",
	ShellSplitFlags:  false,
	ShowJsonResults:  false,
	ShowLineNumber:   false,
	StepSummary:      "",
	TimeoutMinutes:   0,
	VetFlags:         "",
	WorkDir:          "",
}

// NewSharedOptions registers the options on the default command line.
func NewSharedOptions() *SharedOptions {
	return NewSharedOptionsWithFlagSet(flag.CommandLine)
}

func NewSharedOptionsWithFlagSet(fs *flag.FlagSet) *SharedOptions {
	option := &SharedOptions{}

	option.AddID = fs.Bool("add_id", Defaults.AddID, "Whether to give every annotation a random id in the results file")
	option.BuildFlags = fs.String("build_flags", Defaults.BuildFlags, "Build flags passed to go vet before -json, e.g. -tags=integration")
	option.ConfigFile = fs.String("config", Defaults.ConfigFile, "YAML file holding option values keyed by flag name")
	option.DiffFile = fs.String("diff_file", Defaults.DiffFile, "Only report findings on lines added by this unified diff")
	option.DiffRoot = fs.String("diff_root", Defaults.DiffRoot, "Directory the paths in diff_file are relative to, usually the repository root. work_dir when empty")
	option.EchoOutput = fs.Bool("echo_output", Defaults.EchoOutput, "Copy the output of go vet to the log")
	option.FailOnFindings = fs.Bool("fail_on_findings", Defaults.FailOnFindings, "Fail the run when any annotation is reported")
	option.GoBin = fs.String("go_bin", Defaults.GoBin, "Go binary location")
	fs.Var(&option.IgnoreDirPatterns, "ignore_dir", "Drop findings in paths matching this glob pattern. Can be repeated")
	option.Lang = fs.String("lang", Defaults.Lang, "Language of messages: en or zh")
	option.OutsideWorkspace = fs.String("outside_workspace", Defaults.OutsideWorkspace, "What to do with findings outside work_dir: fail, keep or drop")
	option.Packages = fs.String("packages", Defaults.Packages, "Whitespace separated package patterns to vet")
	option.Publisher = fs.String("publisher", Defaults.Publisher, "How to report annotations: github, plain or auto")
	option.ResultsFile = fs.String("results_file", Defaults.ResultsFile, "Write the annotations to this file")
	option.ResultsFormat = fs.String("results_format", Defaults.ResultsFormat, "Format of results_file and json_results: json or yaml")
	option.ShellSplitFlags = fs.Bool("shell_split_flags", Defaults.ShellSplitFlags, "Honor shell quoting in build_flags and vet_flags")
	option.ShowJsonResults = fs.Bool("json_results", Defaults.ShowJsonResults, "Print the annotations in machine-readable form to stdout")
	option.ShowLineNumber = fs.Bool("show_line_number", Defaults.ShowLineNumber, "Show line count infomation")
	option.StepSummary = fs.String("step_summary", Defaults.StepSummary, "Append a markdown summary to this file, $GITHUB_STEP_SUMMARY when empty")
	option.TimeoutMinutes = fs.Int("timeout_minutes", Defaults.TimeoutMinutes, "Kill go vet after this many minutes, 0 means no limit")
	option.VetFlags = fs.String("vet_flags", Defaults.VetFlags, "Flags passed to go vet after -json, e.g. -printf=false")
	option.WorkDir = fs.String("work_dir", Defaults.WorkDir, "Workspace directory, the current directory when empty")

	return option
}
