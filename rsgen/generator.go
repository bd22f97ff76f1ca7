// Package rsgen generates Rust wasm-bindgen bindings from TypeScript declaration files.
//
// The pipeline parses the input with the tree-sitter TypeScript grammar, translates
// the declarations with package rust and writes one Rust source file to an output
// sink. Use Generate with a Config, or the fluent Generator:
//
//	rsgen.FromFile("monaco.d.ts").
//	    TypeMapping("monaco.Thenable", "Promise").
//	    ToDir("./src")
package rsgen

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/broady/ts2rs/rsgen/dts"
	"github.com/broady/ts2rs/rsgen/parser"
	"github.com/broady/ts2rs/rsgen/rust"
	"github.com/broady/ts2rs/rsgen/sink"
)

// DefaultOutFile is the name of the generated file when Config.OutFile is empty.
const DefaultOutFile = "bindings.rs"

// WarnSyntaxError is raised for input the parser could not read.
const WarnSyntaxError = "syntax_error"

// ErrSyntax is returned in strict mode when the input has syntax errors.
var ErrSyntax = errors.New("syntax errors in input")

// Config holds the configuration for code generation.
type Config struct {
	// Input is the path of the declaration file. When Source is set, Input is only
	// used to name the input in messages and in the generated header.
	Input string `validate:"required_without=Source"`

	// Source is the declaration file content. Optional; read from Input when nil.
	Source []byte

	// OutDir is the directory the generated file is written to.
	// Required unless Sink is set.
	OutDir string

	// OutFile is the path of the generated file relative to OutDir.
	// Default: "bindings.rs"
	OutFile string `validate:"required,endswith=.rs"`

	// Sink overrides the output destination. When nil, a filesystem sink rooted at
	// OutDir is used.
	Sink sink.OutputSink

	// EmitComments controls whether leading comments are copied onto the bindings.
	// Default: true
	EmitComments *bool

	// TypeMappings overrides the Rust type used for a TypeScript type reference,
	// keyed by dotted TypeScript name.
	// e.g. map[string]string{"monaco.Thenable": "Promise", "Uint8Array": "Uint8Array"}
	TypeMappings map[string]string `validate:"dive,keys,required,endkeys,required"`

	// ReservedWords are escaped like Rust keywords when used as binding or
	// parameter names.
	ReservedWords []string `validate:"dive,required"`

	// Frontmatter is added after the generated header, before the bindings.
	// e.g. "use crate::shim::*;"
	Frontmatter string

	// Strict turns syntax errors in the input into a failure instead of warnings.
	Strict bool

	// Logger receives progress, warnings and skipped shapes.
	// Default: slog.Default()
	Logger *slog.Logger
}

// GenerateResult describes a generation run.
type GenerateResult struct {
	// Files lists all files that were written.
	Files []OutputFile

	// Output is the generated Rust source.
	Output []byte

	// Warnings contains non-fatal issues encountered.
	Warnings []rust.Warning

	// Skipped lists the input shapes that were not translated.
	Skipped []rust.Skip
}

// OutputFile describes a generated file.
type OutputFile struct {
	// Path is the relative path of the generated file.
	Path string

	// Size is the number of bytes written.
	Size int64
}

// Generate parses cfg's input, translates it and writes the bindings to the sink.
func Generate(ctx context.Context, cfg *Config) (*GenerateResult, error) {
	cfg = applyConfigDefaults(cfg)
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}
	logger := cfg.Logger

	src := cfg.Source
	if src == nil {
		var err error
		if src, err = os.ReadFile(cfg.Input); err != nil {
			return nil, errors.Wrap(err, "read input")
		}
	}

	parsed, err := parser.Parse(ctx, src)
	if err != nil {
		return nil, errors.Wrapf(err, "parse %s", cfg.Input)
	}

	result := &GenerateResult{}
	if len(parsed.Errors) > 0 {
		lines := dts.NewLineIndex(src)
		if cfg.Strict {
			line, col := lines.Position(parsed.Errors[0].Start)
			return nil, errors.WithHint(
				errors.Wrapf(ErrSyntax, "%s:%d:%d: %d syntax errors", cfg.Input, line, col, len(parsed.Errors)),
				"run without strict mode to translate the declarations that did parse")
		}
		for _, span := range parsed.Errors {
			line, col := lines.Position(span.Start)
			w := rust.Warning{
				Code:    WarnSyntaxError,
				Message: "input could not be parsed; the enclosing declaration may be incomplete",
				Source:  &rust.Source{Line: line, Column: col},
			}
			result.Warnings = append(result.Warnings, w)
			logger.Warn(w.Message, slog.String("code", w.Code), slog.String("at", w.Source.String()))
		}
	}

	tr := rust.NewTranslator(src, parsed.Comments, rust.Options{
		EmitComments:  *cfg.EmitComments,
		TypeMappings:  cfg.TypeMappings,
		ReservedWords: cfg.ReservedWords,
		Logger:        logger,
	})
	root := rust.NewModuleContext()
	if err := tr.Translate(parsed.Module, root); err != nil {
		return nil, errors.Wrapf(err, "translate %s", cfg.Input)
	}

	var buf bytes.Buffer
	writeFrontmatter(&buf, cfg)
	if err := root.Flush(&buf); err != nil {
		return nil, errors.Wrap(err, "flush bindings")
	}

	out := cfg.Sink
	if out == nil {
		out = sink.NewFilesystemSink(cfg.OutDir)
	}
	if err := out.WriteFile(ctx, cfg.OutFile, buf.Bytes()); err != nil {
		return nil, errors.Wrapf(err, "write %s", cfg.OutFile)
	}

	result.Files = []OutputFile{{Path: cfg.OutFile, Size: int64(buf.Len())}}
	result.Output = buf.Bytes()
	result.Warnings = append(result.Warnings, tr.Warnings()...)
	result.Skipped = tr.Skipped()

	logger.Info("generated bindings",
		slog.String("input", cfg.Input),
		slog.String("file", cfg.OutFile),
		slog.Int("bytes", buf.Len()),
		slog.Int("warnings", len(result.Warnings)),
		slog.Int("skipped", len(result.Skipped)))
	return result, nil
}

// writeFrontmatter writes the generated-code header, crate lint allowances and the
// root imports and aliases.
func writeFrontmatter(buf *bytes.Buffer, cfg *Config) {
	fmt.Fprintf(buf, "// Code generated by ts2rs from %s. DO NOT EDIT.\n\n", filepath.Base(cfg.Input))
	buf.WriteString("#![allow(non_snake_case, non_camel_case_types, dead_code, unused_imports)]\n")
	buf.WriteString(strings.TrimPrefix(rust.Preamble, "use super::*;\n"))
	if cfg.Frontmatter != "" {
		buf.WriteString(cfg.Frontmatter)
		if !strings.HasSuffix(cfg.Frontmatter, "\n") {
			buf.WriteByte('\n')
		}
	}
}

// applyConfigDefaults applies default values to Config.
func applyConfigDefaults(cfg *Config) *Config {
	// Make a copy to avoid mutating the input
	result := *cfg

	if result.Input == "" && result.Source != nil {
		result.Input = "input.d.ts"
	}
	if result.OutFile == "" {
		result.OutFile = DefaultOutFile
	}
	if result.EmitComments == nil {
		emit := true
		result.EmitComments = &emit
	}
	if result.Logger == nil {
		result.Logger = slog.Default()
	}

	return &result
}
