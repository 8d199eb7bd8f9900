// Command valora renders the demo sketch to PNG files.
//
// Usage:
//
//	valora -output out [-seed 3] [-frames 120] [-config sketch.toml] [-backend soft] [-watch]
//
// Frames are written to <output>/<seed>/<frame>.png. With -watch, the
// sketch is re-rendered whenever the -config file changes.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gogpu/valora"
	"github.com/gogpu/valora/backend"
	_ "github.com/gogpu/valora/backend/soft"
	_ "github.com/gogpu/valora/backend/wgpu"
	"github.com/gogpu/valora/gpu"
	"github.com/gogpu/valora/sketch"
	"golang.org/x/term"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(2)
		}
		fmt.Fprintln(os.Stderr, "valora:", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	fs := flag.NewFlagSet("valora", flag.ContinueOnError)
	opts := sketch.NewFlagSet(fs)
	var (
		backendName = fs.String("backend", "auto", "device backend: auto, "+strings.Join(backend.Available(), ", "))
		level       = fs.String("log-level", "info", "log level: debug, info, warn, error")
		watchConfig = fs.Bool("watch", false, "re-render when the -config file changes")
	)
	if err := fs.Parse(args); err != nil {
		return err
	}

	logger, err := newLogger(os.Stderr, *level)
	if err != nil {
		return err
	}
	valora.SetLogger(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	dev, err := openDevice(*backendName)
	if err != nil {
		return err
	}
	if c, ok := dev.(interface{ Close() }); ok {
		defer c.Close()
	}

	render := func() error {
		o, err := opts.Options()
		if err != nil {
			return err
		}
		r := &sketch.Runner{Options: o, Device: dev}
		if term.IsTerminal(int(os.Stderr.Fd())) {
			r.Progress = os.Stderr
		}
		start := time.Now()
		res, err := r.Run(ctx, sketch.ComposerFunc(compose))
		if err != nil {
			return err
		}
		logger.Info("rendered", "frames", len(res.Frames), "output", o.Output, "elapsed", time.Since(start).Round(time.Millisecond))
		return nil
	}

	if err := render(); err != nil {
		if !*watchConfig {
			return err
		}
		logger.Error("render failed", "err", err)
	}
	if !*watchConfig {
		return nil
	}
	if opts.Config() == "" {
		return errors.New("-watch needs -config")
	}
	return watch(ctx, opts.Config(), render)
}

// newLogger returns a slog logger backed by charmbracelet/log.
func newLogger(w io.Writer, level string) (*slog.Logger, error) {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}
	handler := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.Kitchen,
		Prefix:          "valora",
		Level:           lvl,
	})
	return slog.New(handler), nil
}

func openDevice(name string) (gpu.Device, error) {
	if name == "auto" {
		return backend.Default()
	}
	return backend.Open(name)
}
