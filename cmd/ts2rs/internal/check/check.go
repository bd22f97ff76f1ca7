package check

import (
	"fmt"
	"io"
	"log/slog"
	"maps"
	"os"
	"slices"

	"github.com/broady/ts2rs/rsgen"
)

type Cmd struct {
	Input  string `arg:"" optional:"" help:"TypeScript declaration file (.d.ts). Overrides the config file's input."`
	Config string `help:"YAML configuration file." short:"c" type:"existingfile"`
	Opt    string `help:"Generator options as key=value pairs separated by commas." short:"o"`
}

func (c *Cmd) Run(logger *slog.Logger) error {
	cfg := &rsgen.Config{}
	if c.Config != "" {
		var err error
		if cfg, err = rsgen.LoadConfigFile(c.Config); err != nil {
			return err
		}
	}
	if c.Opt != "" {
		opts, err := rsgen.ParseOptions(c.Opt)
		if err != nil {
			return err
		}
		opts.Apply(cfg)
	}
	if c.Input != "" {
		cfg.Input = c.Input
	}
	return run(cfg, logger, os.Stdout)
}

// run translates cfg's input in memory and prints what would be generated.
// Syntax errors fail the check.
func run(cfg *rsgen.Config, logger *slog.Logger, w io.Writer) error {
	cfg.Strict = true
	result, err := rsgen.FromConfig(cfg).Logger(logger).Generate()
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "✓ Parsed %s\n", cfg.Input)
	fmt.Fprintf(w, "✓ %d bytes of bindings\n", len(result.Output))

	if len(result.Warnings) == 0 {
		fmt.Fprintln(w, "✓ All types mapped")
	} else {
		for _, warn := range result.Warnings {
			at := ""
			if warn.Source != nil {
				at = warn.Source.String() + ": "
			}
			fmt.Fprintf(w, "! %s%s\n", at, warn.Message)
		}
	}

	counts := make(map[string]int)
	for _, s := range result.Skipped {
		counts[s.Kind]++
	}
	for _, kind := range slices.Sorted(maps.Keys(counts)) {
		fmt.Fprintf(w, "- skipped %d %s\n", counts[kind], kind)
	}
	return nil
}
