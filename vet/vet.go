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

package vet

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/golang/glog"
	"github.com/google/shlex"
)

// DefaultPackages is the package selector used when none is configured.
const DefaultPackages = "./..."

// ProcessInvocationError is returned when go vet could not be started, was
// killed, or did not finish in time. A non-zero exit status is not an
// invocation error.
type ProcessInvocationError struct {
	Command string
	Err     error
}

func (e *ProcessInvocationError) Error() string {
	return fmt.Sprintf("failed to run %s: %v", e.Command, e.Err)
}

func (e *ProcessInvocationError) Unwrap() error {
	return e.Err
}

// SplitFlags turns a user supplied flag string into arguments. By default the
// string is split on whitespace. With shellQuoting, single and double quotes
// group words the way a POSIX shell would.
func SplitFlags(s string, shellQuoting bool) ([]string, error) {
	if !shellQuoting {
		return strings.Fields(s), nil
	}
	args, err := shlex.Split(s)
	if err != nil {
		return nil, fmt.Errorf("shlex.Split(%q): %v", s, err)
	}
	return args, nil
}

// BuildArgs returns the arguments of the go command:
// vet <build flags> -json <vet flags> <packages>.
func BuildArgs(packages string, buildFlags, vetFlags []string) []string {
	pkgs := strings.Fields(packages)
	if len(pkgs) == 0 {
		pkgs = []string{DefaultPackages}
	}
	args := []string{"vet"}
	args = append(args, buildFlags...)
	args = append(args, "-json")
	args = append(args, vetFlags...)
	return append(args, pkgs...)
}

// Output is what a finished go vet run left behind. go vet writes its
// diagnostics to stderr, also in -json mode.
type Output struct {
	Stderr   string
	ExitCode int
	Duration time.Duration
}

type Invoker interface {
	Run(ctx context.Context, args []string) (*Output, error)
}

// GoVet runs the go command once and captures its diagnostic stream.
type GoVet struct {
	GoBin string
	// Dir is the working directory of the go command.
	Dir string
	// Env is appended to the environment of the current process.
	Env []string
	// Echo, when set, also receives everything the command prints.
	Echo    io.Writer
	Timeout time.Duration
}

// echoWriter forwards to w until the first write error, which is logged.
// It never fails, so a broken echo cannot cut the captured output short.
type echoWriter struct {
	w      io.Writer
	name   string
	broken bool
}

func (e *echoWriter) Write(p []byte) (int, error) {
	if e.broken {
		return len(p), nil
	}
	if _, err := e.w.Write(p); err != nil {
		glog.Warningf("echo of %s stopped: %v", e.name, err)
		e.broken = true
	}
	return len(p), nil
}

func (v GoVet) Run(ctx context.Context, args []string) (*Output, error) {
	goBin := v.GoBin
	if goBin == "" {
		goBin = "go"
	}
	if v.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, v.Timeout)
		defer cancel()
	}
	cmd := exec.CommandContext(ctx, goBin, args...)
	cmd.Dir = v.Dir
	if len(v.Env) > 0 {
		cmd.Env = append(os.Environ(), v.Env...)
	}
	var stderr bytes.Buffer
	if v.Echo != nil {
		cmd.Stderr = io.MultiWriter(&stderr, &echoWriter{w: v.Echo, name: "stderr"})
		cmd.Stdout = &echoWriter{w: v.Echo, name: "stdout"}
	} else {
		cmd.Stderr = &stderr
	}
	glog.Infof("executing: $ %s", cmd.String())
	start := time.Now()
	err := cmd.Run()
	out := &Output{Stderr: stderr.String(), Duration: time.Since(start)}
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		glog.Errorf("%s timed out after %v", cmd.String(), v.Timeout)
		return nil, &ProcessInvocationError{Command: cmd.String(), Err: fmt.Errorf("timed out: over %v", v.Timeout)}
	}
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && exitErr.ExitCode() >= 0 {
			out.ExitCode = exitErr.ExitCode()
			glog.Infof("%s exited with code %d in %v", goBin, out.ExitCode, out.Duration)
			return out, nil
		}
		glog.Errorf("failed to run %s: %v", cmd.String(), err)
		return nil, &ProcessInvocationError{Command: cmd.String(), Err: err}
	}
	glog.Infof("%s finished in %v", goBin, out.Duration)
	return out, nil
}
