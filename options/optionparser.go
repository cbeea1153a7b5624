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
	"fmt"
	"os"
	"strings"

	"github.com/golang/glog"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
	"gopkg.in/yaml.v2"
	"naive.systems/vetaction/annotation"
	"naive.systems/vetaction/i18n"
	"naive.systems/vetaction/publisher"
)

// explicitFlags returns the names of the flags given on the command line.
func explicitFlags(fs *flag.FlagSet) map[string]bool {
	explicit := map[string]bool{}
	fs.Visit(func(f *flag.Flag) {
		explicit[f.Name] = true
	})
	return explicit
}

// inputNames returns the environment variables GitHub Actions uses for the
// action input matching a flag, e.g. INPUT_BUILD_FLAGS and INPUT_BUILD-FLAGS.
func inputNames(name string) []string {
	upper := strings.ToUpper(name)
	names := []string{"INPUT_" + upper}
	if dashed := strings.ReplaceAll(upper, "_", "-"); dashed != upper {
		names = append(names, "INPUT_"+dashed)
	}
	return names
}

func lookupInput(name string, getenv func(string) string) string {
	for _, env := range inputNames(name) {
		if v := strings.TrimSpace(getenv(env)); v != "" {
			return v
		}
	}
	return ""
}

func setValue(fs *flag.FlagSet, name, value string) error {
	if name == "ignore_dir" {
		for _, line := range strings.Split(value, "\n") {
			if line = strings.TrimSpace(line); line != "" {
				if err := fs.Set(name, line); err != nil {
					return err
				}
			}
		}
		return nil
	}
	if err := fs.Set(name, value); err != nil {
		return fmt.Errorf("invalid value %q for %s: %v", value, name, err)
	}
	return nil
}

// ApplyInputs copies action inputs from the environment into the flags that
// were not given on the command line.
func ApplyInputs(fs *flag.FlagSet, explicit map[string]bool, getenv func(string) string) error {
	var err error
	fs.VisitAll(func(f *flag.Flag) {
		if err != nil || explicit[f.Name] {
			return
		}
		value := lookupInput(f.Name, getenv)
		if value == "" {
			return
		}
		glog.Infof("option %s set from action input", f.Name)
		err = setValue(fs, f.Name, value)
	})
	return err
}

// ApplyConfigFile reads a YAML mapping of flag names to values. Lists are
// allowed for repeatable flags. Flags given on the command line win.
func ApplyConfigFile(fs *flag.FlagSet, path string, explicit map[string]bool) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %v", err)
	}
	var values map[string]interface{}
	if err := yaml.Unmarshal(data, &values); err != nil {
		return fmt.Errorf("failed to parse config file %s: %v", path, err)
	}
	names := maps.Keys(values)
	slices.Sort(names)
	for _, name := range names {
		if fs.Lookup(name) == nil {
			return fmt.Errorf("unknown option %q in %s", name, path)
		}
		if explicit[name] {
			continue
		}
		switch v := values[name].(type) {
		case nil:
			continue
		case []interface{}:
			for _, item := range v {
				if err := setValue(fs, name, fmt.Sprint(item)); err != nil {
					return err
				}
			}
		case map[interface{}]interface{}:
			return fmt.Errorf("option %q in %s must be a scalar or a list", name, path)
		default:
			if err := setValue(fs, name, fmt.Sprint(v)); err != nil {
				return err
			}
		}
	}
	return nil
}

// Resolve layers the option sources: command line flags, then action
// inputs, then the config file, then the defaults.
func Resolve(fs *flag.FlagSet, option *SharedOptions, getenv func(string) string) error {
	explicit := explicitFlags(fs)
	if !explicit["config"] {
		if path := lookupInput("config", getenv); path != "" {
			if err := fs.Set("config", path); err != nil {
				return err
			}
		}
	}
	if option.GetConfigFile() != "" {
		if err := ApplyConfigFile(fs, option.GetConfigFile(), explicit); err != nil {
			return err
		}
	}
	if err := ApplyInputs(fs, explicit, getenv); err != nil {
		return err
	}
	return Validate(option)
}

func Validate(option *SharedOptions) error {
	if _, err := publisher.ParseFormat(option.GetResultsFormat()); err != nil {
		return err
	}
	if _, err := annotation.ParseOutsideWorkspacePolicy(option.GetOutsideWorkspace()); err != nil {
		return err
	}
	if !i18n.SupportedLanguage(option.GetLang()) {
		return fmt.Errorf("unsupported language %q, expected en or zh", option.GetLang())
	}
	if *option.TimeoutMinutes < 0 {
		return fmt.Errorf("timeout_minutes must not be negative: %d", *option.TimeoutMinutes)
	}
	switch option.GetPublisher() {
	case "auto", "github", "plain":
	default:
		return fmt.Errorf("unsupported publisher %q, expected github, plain or auto", option.GetPublisher())
	}
	return nil
}

// PublisherName resolves "auto" by checking whether the process runs inside
// GitHub Actions.
func PublisherName(option *SharedOptions, getenv func(string) string) string {
	if name := option.GetPublisher(); name != "auto" {
		return name
	}
	if getenv("GITHUB_ACTIONS") == "true" {
		return "github"
	}
	return "plain"
}

func StepSummaryPath(option *SharedOptions, getenv func(string) string) string {
	if path := option.GetStepSummary(); path != "" {
		return path
	}
	return getenv("GITHUB_STEP_SUMMARY")
}
