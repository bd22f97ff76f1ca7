package gen

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/broady/ts2rs/rsgen"
	"github.com/broady/ts2rs/rsgen/sink"
)

const stdoutDir = "-"

type Cmd struct {
	Input      string `arg:"" optional:"" help:"TypeScript declaration file (.d.ts). Overrides the config file's input."`
	Out        string `arg:"" optional:"" help:"Output directory for the generated file, or - for stdout. Overrides the config file's out_dir."`
	File       string `help:"Generated file name relative to the output directory (default: bindings.rs)." short:"f"`
	Config     string `help:"YAML configuration file." short:"c" type:"existingfile"`
	Opt        string `help:"Generator options as key=value pairs separated by commas, e.g. comments=false,map=Thenable:Promise." short:"o"`
	NoComments bool   `help:"Do not copy source comments onto the bindings."`
	Watch      bool   `help:"Watch the input and regenerate on change." short:"w"`
}

func (c *Cmd) Run(logger *slog.Logger) error {
	cfg, err := c.config()
	if err != nil {
		return err
	}
	if !c.Watch {
		return generate(context.Background(), cfg, logger, os.Stdout)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// A failed first run is reported but does not stop watching.
	if err := generate(ctx, cfg, logger, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "✗ %v\n", err)
	}

	paths := []string{cfg.Input}
	if c.Config != "" {
		paths = append(paths, c.Config)
	}
	fmt.Printf("watching %s\n", cfg.Input)
	return watch(ctx, logger, paths, func() {
		cfg, err := c.config()
		if err == nil {
			err = generate(ctx, cfg, logger, os.Stdout)
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "✗ %v\n", err)
		}
	})
}

// config merges the config file, option string and flags. Flags take precedence.
func (c *Cmd) config() (*rsgen.Config, error) {
	cfg := &rsgen.Config{}
	if c.Config != "" {
		var err error
		if cfg, err = rsgen.LoadConfigFile(c.Config); err != nil {
			return nil, err
		}
	}
	if c.Opt != "" {
		opts, err := rsgen.ParseOptions(c.Opt)
		if err != nil {
			return nil, err
		}
		opts.Apply(cfg)
	}
	if c.Input != "" {
		cfg.Input = c.Input
	}
	if c.Out != "" {
		cfg.OutDir = c.Out
	}
	if c.File != "" {
		cfg.OutFile = c.File
	}
	if c.NoComments {
		emit := false
		cfg.EmitComments = &emit
	}
	return cfg, nil
}

// generate runs one generation and prints a summary to w, or the bindings
// themselves when the output directory is "-". Warnings and skipped
// declarations are reported through logger.
func generate(ctx context.Context, cfg *rsgen.Config, logger *slog.Logger, w io.Writer) error {
	g := rsgen.FromConfig(cfg).Context(ctx).Logger(logger)
	if cfg.OutDir == stdoutDir {
		_, err := g.ToSink(sink.NewWriterSink(w))
		return err
	}
	result, err := g.ToDir(cfg.OutDir)
	if err != nil {
		return err
	}
	for _, f := range result.Files {
		fmt.Fprintf(w, "✓ %s (%d bytes)\n", filepath.Join(cfg.OutDir, f.Path), f.Size)
	}
	if n := len(result.Warnings); n > 0 {
		fmt.Fprintf(w, "  %d warnings\n", n)
	}
	if n := len(result.Skipped); n > 0 {
		fmt.Fprintf(w, "  %d declarations skipped (-v to list)\n", n)
	}
	return nil
}
