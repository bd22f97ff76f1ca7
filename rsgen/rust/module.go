package rust

import (
	"bytes"
	"io"
	"sort"
)

// Preamble opens every nested module so generated code can refer to the
// wasm-bindgen and js-sys/web-sys types, and to the TypeScript library aliases
// that declaration files commonly use, without qualification.
const Preamble = `use super::*;
use js_sys::*;
use wasm_bindgen::prelude::*;
use web_sys::*;
#[allow(dead_code)]
type ReadonlyArray = Array;
#[allow(dead_code)]
type NonNullable = JsValue;
#[allow(dead_code)]
type PromiseLike = Promise;
`

// ModuleContext is one Rust module scope in the output tree. It accumulates the
// text emitted for its declarations and owns its child modules. The root context
// owns the whole tree for a generation run.
type ModuleContext struct {
	name     string
	path     []string
	buf      bytes.Buffer
	children map[string]*ModuleContext

	// Functions allocates names for free functions declared in this scope.
	Functions UniqueNames
}

// NewModuleContext creates an empty root context.
func NewModuleContext() *ModuleContext {
	return &ModuleContext{
		children:  make(map[string]*ModuleContext),
		Functions: UniqueNames{},
	}
}

// Push returns the child module called name, creating it on first use.
// Reopened namespaces therefore accumulate into a single scope.
func (m *ModuleContext) Push(name string) *ModuleContext {
	if child, ok := m.children[name]; ok {
		return child
	}
	child := NewModuleContext()
	child.name = name
	child.path = append(append([]string(nil), m.path...), name)
	m.children[name] = child
	return child
}

// Name returns the module name, empty for the root.
func (m *ModuleContext) Name() string {
	return m.name
}

// Path returns the TypeScript namespace path from the root to m.
func (m *ModuleContext) Path() []string {
	return m.path
}

// Children returns the child module names in flush order.
func (m *ModuleContext) Children() []string {
	names := make([]string, 0, len(m.children))
	for name := range m.children {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Write appends p to the module text.
func (m *ModuleContext) Write(p []byte) (int, error) {
	return m.buf.Write(p)
}

// WriteString appends s to the module text.
func (m *ModuleContext) WriteString(s string) (int, error) {
	return m.buf.WriteString(s)
}

// Len returns the length of the module's own text.
func (m *ModuleContext) Len() int {
	return m.buf.Len()
}

// Flush writes the module text followed by every child, in name order, as a
// nested `pub mod` block opened with Preamble.
func (m *ModuleContext) Flush(w io.Writer) error {
	if _, err := w.Write(m.buf.Bytes()); err != nil {
		return err
	}
	for _, name := range m.Children() {
		if _, err := io.WriteString(w, "pub mod "+ModuleName(name)+" {\n"+Preamble); err != nil {
			return err
		}
		if err := m.children[name].Flush(w); err != nil {
			return err
		}
		if _, err := io.WriteString(w, "}\n"); err != nil {
			return err
		}
	}
	return nil
}
