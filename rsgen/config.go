package rsgen

import (
	"context"
	"log/slog"

	"github.com/broady/ts2rs/rsgen/sink"
)

// Generator provides a fluent API for code generation.
// Create with FromFile() or FromSource() and configure with method chaining.
//
// Example:
//
//	rsgen.FromFile("monaco.d.ts").
//	    WithoutComments().
//	    OutFile("monaco.rs").
//	    ToDir("./src")
type Generator struct {
	ctx context.Context
	cfg Config
}

// FromFile creates a Generator reading the declaration file at path.
func FromFile(path string) *Generator {
	return &Generator{cfg: Config{Input: path}}
}

// FromSource creates a Generator for in-memory declaration source. name is used
// in messages and in the generated header.
func FromSource(name string, src []byte) *Generator {
	return &Generator{cfg: Config{Input: name, Source: src}}
}

// FromConfig creates a Generator starting from an existing configuration, such as
// one returned by LoadConfigFile.
func FromConfig(cfg *Config) *Generator {
	return &Generator{cfg: *cfg}
}

// Context sets the context used by the terminal operations.
func (g *Generator) Context(ctx context.Context) *Generator {
	g.ctx = ctx
	return g
}

// WithoutComments disables copying source comments onto the bindings.
func (g *Generator) WithoutComments() *Generator {
	emit := false
	g.cfg.EmitComments = &emit
	return g
}

// OutFile sets the path of the generated file relative to the output directory.
func (g *Generator) OutFile(path string) *Generator {
	g.cfg.OutFile = path
	return g
}

// TypeMapping maps a TypeScript type reference to a Rust type.
func (g *Generator) TypeMapping(tsType, rustType string) *Generator {
	if g.cfg.TypeMappings == nil {
		g.cfg.TypeMappings = make(map[string]string)
	}
	g.cfg.TypeMappings[tsType] = rustType
	return g
}

// ReservedWords adds names that are escaped like Rust keywords.
func (g *Generator) ReservedWords(words ...string) *Generator {
	g.cfg.ReservedWords = append(g.cfg.ReservedWords, words...)
	return g
}

// Frontmatter adds content after the generated header.
func (g *Generator) Frontmatter(content string) *Generator {
	g.cfg.Frontmatter = content
	return g
}

// Strict fails generation when the input has syntax errors.
func (g *Generator) Strict() *Generator {
	g.cfg.Strict = true
	return g
}

// Logger sets the logger for progress, warnings and skipped shapes.
func (g *Generator) Logger(logger *slog.Logger) *Generator {
	g.cfg.Logger = logger
	return g
}

// Options applies decoded option-string settings.
func (g *Generator) Options(opts Options) *Generator {
	opts.Apply(&g.cfg)
	return g
}

// Config returns a copy of the accumulated configuration.
func (g *Generator) Config() Config {
	return g.cfg
}

// ToDir generates the bindings into dir.
// This is a terminal operation that writes files to disk.
func (g *Generator) ToDir(dir string) (*GenerateResult, error) {
	cfg := g.cfg
	cfg.OutDir = dir
	return Generate(g.context(), &cfg)
}

// ToSink generates the bindings into out.
func (g *Generator) ToSink(out sink.OutputSink) (*GenerateResult, error) {
	cfg := g.cfg
	cfg.Sink = out
	return Generate(g.context(), &cfg)
}

// Generate returns the generated bindings in memory without writing to disk.
// Use ToDir() to write files to disk instead.
func (g *Generator) Generate() (*GenerateResult, error) {
	return g.ToSink(sink.NewMemorySink())
}

func (g *Generator) context() context.Context {
	if g.ctx != nil {
		return g.ctx
	}
	return context.Background()
}
