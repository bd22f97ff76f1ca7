package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"
	"github.com/cockroachdb/errors"

	"github.com/broady/ts2rs/cmd/ts2rs/internal/check"
	"github.com/broady/ts2rs/cmd/ts2rs/internal/gen"
)

type CLI struct {
	Verbose bool `help:"Log skipped declarations and other debug output." short:"v"`

	Version VersionCmd `cmd:"" help:"Print version information."`
	Gen     gen.Cmd    `cmd:"" help:"Generate Rust wasm-bindgen bindings from a TypeScript declaration file."`
	Check   check.Cmd  `cmd:"" help:"Parse and translate a declaration file without writing output."`
}

type VersionCmd struct{}

func (c *VersionCmd) Run() error {
	fmt.Println(Version())
	return nil
}

func main() {
	cli := &CLI{}
	ctx := kong.Parse(cli,
		kong.Name("ts2rs"),
		kong.Description("Generate Rust wasm-bindgen bindings from TypeScript declaration files."),
		kong.UsageOnError(),
	)
	err := ctx.Run(newLogger(cli.Verbose))
	if hint := errors.FlattenHints(err); hint != "" {
		fmt.Fprintf(os.Stderr, "hint: %s\n", hint)
	}
	ctx.FatalIfErrorf(err)
}

func newLogger(verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
