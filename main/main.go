// Command partgraph-dump decodes segment streams and prints their nodes and
// decode reports.
//
//	partgraph-dump [flags] stream...
//
// Streams ending in .zst or .lz4 are decompressed first. The exit status is 1
// on usage or I/O errors and 2 when any stream decoded with anomalies.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/pflag"

	"github.com/rawbytedev/partgraph"
	"github.com/rawbytedev/partgraph/pkg/catalog"
	"github.com/rawbytedev/partgraph/pkg/dispatch"
	"github.com/rawbytedev/partgraph/pkg/source"
)

type exitError int

func (e exitError) Error() string { return fmt.Sprintf("exit status %d", int(e)) }

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		var code exitError
		if errors.As(err, &code) {
			os.Exit(int(code))
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	var (
		configPath  string
		version     int
		lenient     bool
		concurrency int
		logLevel    string
		cborDir     string
		quiet       bool
	)
	flags := pflag.NewFlagSet("partgraph-dump", pflag.ContinueOnError)
	flags.SetOutput(stderr)
	flags.StringVarP(&configPath, "config", "c", "", "YAML options file")
	flags.IntVar(&version, "file-version", 0, "declared format version (overrides config)")
	flags.BoolVar(&lenient, "lenient", false, "record block-size mismatches instead of rejecting")
	flags.IntVarP(&concurrency, "jobs", "j", 0, "streams decoded at once (overrides config)")
	flags.StringVar(&logLevel, "log-level", "warn", "debug, info, warn or error")
	flags.StringVar(&cborDir, "report-dir", "", "write each report as <stream>.report.cbor into this directory")
	flags.BoolVarP(&quiet, "quiet", "q", false, "print reports only, not nodes")
	if err := flags.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}
	if flags.NArg() == 0 {
		flags.Usage()
		return exitError(1)
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(logLevel)); err != nil {
		return errors.Wrap(err, "log level")
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	opts := partgraph.DefaultOptions()
	if configPath != "" {
		var err error
		if opts, err = partgraph.LoadOptions(configPath); err != nil {
			return err
		}
	}
	if version != 0 {
		opts.Version = dispatch.Version(version)
	}
	if lenient {
		opts.StrictFrames = false
	}
	if concurrency > 0 {
		opts.Concurrency = concurrency
	}
	opts.Logger = logger

	inputs := make([]partgraph.Input, 0, flags.NArg())
	for _, path := range flags.Args() {
		data, err := source.Load(path)
		if err != nil {
			return err
		}
		inputs = append(inputs, partgraph.Input{Name: streamName(path), Data: data})
	}

	results, err := partgraph.DecodeMany(ctx, catalog.New(), inputs, partgraph.WithOptions(opts))
	if err != nil {
		return err
	}

	dirty := false
	for _, res := range results {
		fmt.Fprintf(stdout, "== %s\n", res.Name)
		if !quiet {
			for _, n := range res.Graph.Nodes() {
				fmt.Fprintln(stdout, n.Describe())
			}
		}
		if err := res.Report.WriteText(stdout); err != nil {
			return err
		}
		if res.Err != nil {
			logger.Warn("stream decoded with errors", "stream", res.Name, "err", res.Err)
		}
		if !res.Report.Clean() {
			dirty = true
		}
		if cborDir != "" {
			if err := writeReport(cborDir, res); err != nil {
				return err
			}
		}
	}
	if dirty {
		return exitError(2)
	}
	return nil
}

// streamName strips the directory and the compression extension.
func streamName(path string) string {
	name := filepath.Base(path)
	if source.CodecFor(name) != source.None {
		name = strings.TrimSuffix(name, filepath.Ext(name))
	}
	return name
}

func writeReport(dir string, res partgraph.Result) error {
	data, err := res.Report.MarshalCBOR()
	if err != nil {
		return errors.Wrapf(err, "encode report of %s", res.Name)
	}
	path := filepath.Join(dir, res.Name+".report.cbor")
	return errors.Wrap(os.WriteFile(path, data, 0o644), "write report")
}
