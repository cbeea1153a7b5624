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

package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/golang/glog"
	"naive.systems/vetaction/i18n"
	"naive.systems/vetaction/options"
	"naive.systems/vetaction/publisher"
	"naive.systems/vetaction/runner"
	"naive.systems/vetaction/vet"
)

func newPublisher(sharedOptions *options.SharedOptions, out io.Writer) publisher.Publisher {
	if options.PublisherName(sharedOptions, os.Getenv) == "github" {
		return publisher.GitHub{Out: out}
	}
	return publisher.Plain{Out: out}
}

func exit(code int) {
	glog.Flush()
	os.Exit(code)
}

func main() {
	sharedOptions := options.NewSharedOptions()
	flag.Parse()
	defer glog.Flush()

	if err := options.Resolve(flag.CommandLine, sharedOptions, os.Getenv); err != nil {
		glog.Errorf("options.Resolve: %v", err)
		newPublisher(sharedOptions, os.Stderr).Error(fmt.Sprintf("invalid options: %v", err))
		exit(1)
	}
	console := runner.ConsoleWriter(sharedOptions.GetShowJsonResults(), os.Stdout, os.Stderr)
	pub := newPublisher(sharedOptions, console)

	// The workspace is resolved once; everything downstream receives it.
	workDir := sharedOptions.GetWorkDir()
	if workDir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			pub.Error(fmt.Sprintf("os.Getwd: %v", err))
			exit(1)
		}
		workDir = cwd
	}
	workDir, err := filepath.Abs(workDir)
	if err != nil {
		pub.Error(fmt.Sprintf("filepath.Abs: %v", err))
		exit(1)
	}
	sharedOptions.SetWorkDir(workDir)
	glog.Info("workDir: ", workDir)

	cfg, err := runner.ConfigFromOptions(sharedOptions, workDir, os.Getenv)
	if err != nil {
		pub.Error(err.Error())
		exit(1)
	}

	var echo io.Writer
	if sharedOptions.GetEchoOutput() {
		echo = os.Stderr
	}
	r := &runner.Runner{
		Config: cfg,
		Invoker: vet.GoVet{
			GoBin:   sharedOptions.GetGoBin(),
			Dir:     workDir,
			Echo:    echo,
			Timeout: sharedOptions.GetTimeout(),
		},
		Publisher: pub,
		Stdout:    os.Stdout,
		Log:       console,
		Printer:   i18n.GetPrinter(sharedOptions.GetLang()),
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	result := r.Run(ctx)
	stop()
	if result.Failed {
		exit(1)
	}
}
