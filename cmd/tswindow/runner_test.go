package main

import (
	"bytes"
	"context"
	"fmt"
	"github.com/spirit-labs/tswindow/errors"
	"github.com/spirit-labs/tswindow/types"
	"github.com/stretchr/testify/require"
	"os"
	"strings"
	"testing"
)

func TestLoadConfigFromFile(t *testing.T) {
	r := &runner{}
	cfg, err := r.loadConfig([]string{"--config", "testdata/config.hcl"})
	require.NoError(t, err)
	require.Equal(t, 2, *cfg.Window.WindowSize)
	require.True(t, *cfg.Window.IgnoreNull)
	require.True(t, *cfg.Window.OutputEndTime)
	require.Equal(t, "temperature", *cfg.Window.ControlColumn)
	require.Equal(t, "ts", *cfg.Window.TimeColumn)
	require.Equal(t, 2, *cfg.Window.MaxBatchRows)
	require.Equal(t, "warn", cfg.Log.Level)
	require.Equal(t, 120, cfg.MaxLineWidth)
}

func TestFlagsOverrideDefaults(t *testing.T) {
	r := &runner{}
	cfg, err := r.loadConfig([]string{"--window-size", "5", "--schema", "event_time:timestamp, v:int",
		"--aggregates", "sum(v)"})
	require.NoError(t, err)
	require.Equal(t, 5, *cfg.Window.WindowSize)
	require.False(t, *cfg.Window.IgnoreNull)
	require.Equal(t, "event_time", *cfg.Window.TimeColumn)
	require.Equal(t, 1000, *cfg.Window.MaxBatchRows)
}

func TestLoadConfigInvalid(t *testing.T) {
	r := &runner{}
	_, err := r.loadConfig([]string{"--schema", "event_time:timestamp, v:int", "--aggregates", "sum(v)"})
	require.Error(t, err)
	require.True(t, errors.HasCode(err, errors.InvalidConfiguration))
	require.Equal(t, "invalid configuration: window-size must be specified", err.Error())

	_, err = r.loadConfig([]string{"--window-size", "0", "--schema", "event_time:timestamp, v:int",
		"--aggregates", "sum(v)"})
	require.Error(t, err)
	require.Equal(t, "invalid configuration: window-size must be > 0", err.Error())

	_, err = r.loadConfig([]string{"--no-such-flag"})
	require.Error(t, err)
	require.True(t, errors.HasCode(err, errors.InvalidConfiguration))
}

func TestRun(t *testing.T) {
	r := &runner{}
	cfg, err := r.loadConfig([]string{"--config", "testdata/config.hcl"})
	require.NoError(t, err)

	in, err := os.Open("testdata/readings.jsonl")
	require.NoError(t, err)
	defer func() {
		require.NoError(t, in.Close())
	}()
	out := &bytes.Buffer{}
	require.NoError(t, r.run(context.Background(), cfg, in, out))
	require.Equal(t, int64(1), r.windowsClosed)

	lines := strings.Split(out.String(), "\n")
	require.Equal(t, 7, len(lines))
	row := func(a, b, c, d string) string {
		return fmt.Sprintf("| %-26s | %-20s | %-20s | %-41s |", a, b, c, d)
	}
	require.Equal(t, row("event_time", "window_end", "count(temperature)", "avg_temp"), lines[1])
	require.Equal(t, row("1970-01-01 00:00:01.000000", "3000", "2", "21.000000"), lines[3])
	require.Equal(t, "1 row returned", lines[5])
}

func TestRunRejectsUnknownAggregateColumn(t *testing.T) {
	r := &runner{}
	cfg, err := r.loadConfig([]string{"--config", "testdata/config.hcl"})
	require.NoError(t, err)
	cfg.Window.Aggregates = types.AddressOf("max(humidity)")
	err = r.run(context.Background(), cfg, strings.NewReader(""), &bytes.Buffer{})
	require.Error(t, err)
	require.True(t, errors.HasCode(err, errors.InvalidConfiguration))
}

func TestRunReturnsErrorsToMain(t *testing.T) {
	require.NoError(t, run([]string{"--config", "testdata/config.hcl", "--input", "testdata/readings.jsonl"}))

	err := run([]string{"--config", "testdata/config.hcl", "--window-size", "0"})
	require.Error(t, err)
	require.True(t, errors.HasCode(err, errors.InvalidConfiguration))
}
