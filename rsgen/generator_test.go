package rsgen

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/broady/ts2rs/rsgen/rust"
	"github.com/broady/ts2rs/rsgen/sink"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

func TestApplyConfigDefaults(t *testing.T) {
	noComments := false
	tests := []struct {
		name   string
		input  *Config
		check  func(*Config) bool
		errMsg string
	}{
		{
			name:  "empty config gets defaults",
			input: &Config{Input: "a.d.ts", OutDir: "/tmp"},
			check: func(c *Config) bool {
				return c.OutFile == DefaultOutFile &&
					c.EmitComments != nil && *c.EmitComments &&
					c.Logger != nil
			},
			errMsg: "defaults not applied correctly",
		},
		{
			name: "explicit values preserved",
			input: &Config{
				Input:        "a.d.ts",
				OutDir:       "/tmp",
				OutFile:      "monaco.rs",
				EmitComments: &noComments,
				Logger:       discard,
			},
			check: func(c *Config) bool {
				return c.OutFile == "monaco.rs" &&
					!*c.EmitComments &&
					c.Logger == discard
			},
			errMsg: "explicit values not preserved",
		},
		{
			name:  "source without a name",
			input: &Config{Source: []byte("interface A {}"), OutDir: "/tmp"},
			check: func(c *Config) bool {
				return c.Input == "input.d.ts"
			},
			errMsg: "input name not defaulted",
		},
		{
			name: "preserves TypeMappings",
			input: &Config{
				Input:        "a.d.ts",
				OutDir:       "/tmp",
				TypeMappings: map[string]string{"monaco.Thenable": "Promise"},
			},
			check: func(c *Config) bool {
				return c.TypeMappings["monaco.Thenable"] == "Promise"
			},
			errMsg: "TypeMappings not preserved",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			original := *tt.input
			result := applyConfigDefaults(tt.input)
			if !tt.check(result) {
				t.Error(tt.errMsg)
			}
			if tt.input.OutFile != original.OutFile || tt.input.EmitComments != original.EmitComments || tt.input.Logger != original.Logger {
				t.Error("applyConfigDefaults mutated its input")
			}
		})
	}
}

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name    string
		cfg     *Config
		wantErr string
	}{
		{
			name: "valid",
			cfg:  &Config{Input: "a.d.ts", OutDir: "out"},
		},
		{
			name: "sink instead of directory",
			cfg:  &Config{Input: "a.d.ts", Sink: sink.NewMemorySink()},
		},
		{
			name:    "no destination",
			cfg:     &Config{Input: "a.d.ts"},
			wantErr: "OutDir: required when no sink is set",
		},
		{
			name:    "no input",
			cfg:     &Config{OutDir: "out"},
			wantErr: "Input: required when Source is not set",
		},
		{
			name:    "not a rust file",
			cfg:     &Config{Input: "a.d.ts", OutDir: "out", OutFile: "bindings.txt"},
			wantErr: "OutFile: must end with .rs",
		},
		{
			name:    "empty type mapping target",
			cfg:     &Config{Input: "a.d.ts", OutDir: "out", TypeMappings: map[string]string{"A": ""}},
			wantErr: "TypeMappings[A]: required",
		},
		{
			name:    "empty reserved word",
			cfg:     &Config{Input: "a.d.ts", OutDir: "out", ReservedWords: []string{"default", ""}},
			wantErr: "ReservedWords[1]: required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateConfig(applyConfigDefaults(tt.cfg))
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidConfig), "error %v is not marked invalid", err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestGenerateInvalidConfig(t *testing.T) {
	_, err := Generate(context.Background(), &Config{Input: "a.d.ts"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidConfig))
}

func TestGenerateToDir(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "shapes.d.ts")
	require.NoError(t, os.WriteFile(input, []byte("declare function area(r: number): number;\n"), 0644))

	out := filepath.Join(dir, "src")
	result, err := FromFile(input).OutFile("shapes.rs").Logger(discard).ToDir(out)
	require.NoError(t, err)

	require.Len(t, result.Files, 1)
	assert.Equal(t, "shapes.rs", result.Files[0].Path)
	assert.Equal(t, int64(len(result.Output)), result.Files[0].Size)

	data, err := os.ReadFile(filepath.Join(out, "shapes.rs"))
	require.NoError(t, err)
	assert.Equal(t, string(result.Output), string(data))
	assert.True(t, strings.HasPrefix(string(data), "// Code generated by ts2rs from shapes.d.ts. DO NOT EDIT.\n"))
	assert.Contains(t, string(data), `pub fn area(r: f64) -> f64;`)
}

func TestGenerateMissingInput(t *testing.T) {
	_, err := FromFile(filepath.Join(t.TempDir(), "missing.d.ts")).Logger(discard).Generate()
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestGenerateToSink(t *testing.T) {
	mem := sink.NewMemorySink()
	_, err := FromSource("lib.d.ts", []byte("interface A {}\n")).
		OutFile("nested/lib.rs").
		Logger(discard).
		ToSink(mem)
	require.NoError(t, err)

	got := mem.Get("nested/lib.rs")
	require.NotNil(t, got)
	assert.Contains(t, string(got), "pub type A;")
}

func TestGenerateFrontmatter(t *testing.T) {
	result, err := FromSource("lib.d.ts", []byte("")).
		Frontmatter("use crate::shim::*;").
		Logger(discard).
		Generate()
	require.NoError(t, err)

	want := "// Code generated by ts2rs from lib.d.ts. DO NOT EDIT.\n" +
		"\n" +
		"#![allow(non_snake_case, non_camel_case_types, dead_code, unused_imports)]\n" +
		"use js_sys::*;\n" +
		"use wasm_bindgen::prelude::*;\n" +
		"use web_sys::*;\n" +
		"#[allow(dead_code)]\n" +
		"type ReadonlyArray = Array;\n" +
		"#[allow(dead_code)]\n" +
		"type NonNullable = JsValue;\n" +
		"#[allow(dead_code)]\n" +
		"type PromiseLike = Promise;\n" +
		"use crate::shim::*;\n"
	assert.Equal(t, want, string(result.Output))
}

func TestGenerateOptions(t *testing.T) {
	src := []byte(`
// Connection handle.
interface Conn {
    default: Thenable<void>;
}
`)
	opts, err := ParseOptions("comments=false,map=Thenable:Promise,reserved=default")
	require.NoError(t, err)

	result, err := FromSource("conn.d.ts", src).Options(opts).Logger(discard).Generate()
	require.NoError(t, err)

	out := string(result.Output)
	assert.NotContains(t, out, "Connection handle")
	assert.Contains(t, out, `pub fn r#default(this: &Conn) -> Promise;`)
	assert.Contains(t, out, `pub fn set_default(this: &Conn, value: Promise);`)
}

func TestGenerateSyntaxErrors(t *testing.T) {
	src := []byte("interface A { x: number; }\n)\n")

	t.Run("warnings", func(t *testing.T) {
		result, err := FromSource("broken.d.ts", src).Logger(discard).Generate()
		require.NoError(t, err)

		var codes []string
		for _, w := range result.Warnings {
			codes = append(codes, w.Code)
		}
		assert.Contains(t, codes, WarnSyntaxError)
		assert.Contains(t, string(result.Output), "pub type A;")
	})

	t.Run("strict", func(t *testing.T) {
		_, err := FromSource("broken.d.ts", src).Strict().Logger(discard).Generate()
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrSyntax))
		assert.Contains(t, err.Error(), "broken.d.ts:")
		assert.NotEmpty(t, errors.GetAllHints(err))
	})
}

func TestGenerateTranslateError(t *testing.T) {
	src := []byte("enum Flags { A = 1, B = 1 << 2 }\n")
	_, err := FromSource("flags.d.ts", src).Logger(discard).Generate()
	require.Error(t, err)
	assert.True(t, errors.Is(err, rust.ErrUnsupportedConstExpr))
	assert.Contains(t, err.Error(), "translate flags.d.ts")
}

func TestGenerateWarningsAndSkipped(t *testing.T) {
	src := []byte(`
interface Handler {
    [key: string]: any;
    run(cb: (x: number) => void): void;
}
`)
	result, err := FromSource("handler.d.ts", src).Logger(discard).Generate()
	require.NoError(t, err)

	require.Len(t, result.Skipped, 1)
	assert.Equal(t, "index signature", result.Skipped[0].Kind)
	assert.Equal(t, "Handler", result.Skipped[0].TypeName)

	require.Len(t, result.Warnings, 1)
	assert.Equal(t, rust.WarnUnsupportedType, result.Warnings[0].Code)
	assert.Contains(t, string(result.Output), "pub fn run(this: &Handler, cb: JsValue);")
}

func TestGeneratorConfigIsCopied(t *testing.T) {
	g := FromFile("a.d.ts").TypeMapping("A", "B").ReservedWords("default")
	cfg := g.Config()
	cfg.OutFile = "x.rs"

	assert.Equal(t, "", g.Config().OutFile)
	assert.Equal(t, "B", g.Config().TypeMappings["A"])
}
