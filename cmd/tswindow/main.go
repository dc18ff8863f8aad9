// Copyright 2024 The Tektite Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"context"
	"fmt"
	"github.com/alecthomas/kong"
	konghcl "github.com/alecthomas/kong-hcl/v2"
	"github.com/spirit-labs/tswindow/cli"
	"github.com/spirit-labs/tswindow/common"
	"github.com/spirit-labs/tswindow/conf"
	"github.com/spirit-labs/tswindow/errors"
	"github.com/spirit-labs/tswindow/jsonl"
	log "github.com/spirit-labs/tswindow/logger"
	"github.com/spirit-labs/tswindow/opers"
	"io"
	"os"
	"os/signal"
	"syscall"
)

type arguments struct {
	Config       kong.ConfigFlag `help:"Path to config file" type:"existingfile"`
	Window       conf.Config     `help:"Window configuration" embed:"" prefix:""`
	Log          log.Config      `help:"Configuration for the logger" embed:"" prefix:"log-"`
	Input        string          `help:"Path to a JSON lines input file. Standard input is read if not set" type:"existingfile"`
	MaxLineWidth int             `help:"Maximum width of an output line" default:"120"`
}

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, common.ReportableError(err).Error())
		os.Exit(1)
	}
}

// run returns instead of exiting so that deferred cleanup always happens.
func run(args []string) error {
	defer common.PanicHandler()

	r := &runner{}
	cfg, err := r.loadConfig(args)
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	in := io.Reader(os.Stdin)
	if cfg.Input != "" {
		f, err := os.Open(cfg.Input)
		if err != nil {
			return errors.WithStack(err)
		}
		defer func() {
			if err := f.Close(); err != nil {
				log.Warnf("failed to close input file %v", err)
			}
		}()
		in = f
	}
	return r.run(ctx, cfg, in, os.Stdout)
}

type runner struct {
	windowsClosed int64
}

func (r *runner) loadConfig(args []string) (*arguments, error) {
	cfg := arguments{}
	parser, err := kong.New(&cfg, kong.Configuration(konghcl.Loader))
	if err != nil {
		return nil, errors.WithStack(err)
	}
	_, err = parser.Parse(args)
	if err != nil {
		return nil, errors.NewInvalidConfigurationError(err.Error())
	}
	if err := cfg.Log.Configure(); err != nil {
		return nil, errors.WithStack(err)
	}
	cfg.Window.ApplyDefaults()
	if err := cfg.Window.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (r *runner) run(ctx context.Context, cfg *arguments, in io.Reader, out io.Writer) error {
	schema, err := cfg.Window.InputSchema()
	if err != nil {
		return err
	}
	aggDescs, err := cfg.Window.AggDescs()
	if err != nil {
		return err
	}
	oper, err := opers.NewCountWindowAggOperator(schema, cfg.Window.WindowParams(), aggDescs)
	if err != nil {
		return err
	}
	table, err := cli.NewTableWriter(out, cfg.MaxLineWidth)
	if err != nil {
		return err
	}
	source := jsonl.NewSource(in, schema, *cfg.Window.MaxBatchRows)
	if err := opers.Run(ctx, source, oper, table); err != nil {
		return err
	}
	r.windowsClosed = oper.WindowsClosed()
	log.Debugf("input finished, %d windows closed", r.windowsClosed)
	return table.Close()
}
