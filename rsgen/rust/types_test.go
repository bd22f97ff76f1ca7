package rust

import (
	"testing"

	"github.com/broady/ts2rs/rsgen/dts"
)

func kw(k dts.Keyword) *dts.KeywordType { return &dts.KeywordType{Keyword: k} }

func ref(name ...string) *dts.TypeRef { return &dts.TypeRef{Name: name} }

func ann(t dts.TypeNode) *dts.TypeAnn { return &dts.TypeAnn{Type: t} }

func TestMapper_TypeName(t *testing.T) {
	tests := []struct {
		name string
		typ  dts.TypeNode
		want string
	}{
		{"boolean", kw(dts.KeywordBoolean), "bool"},
		{"string", kw(dts.KeywordString), "String"},
		{"number", kw(dts.KeywordNumber), "f64"},
		{"void", kw(dts.KeywordVoid), "()"},
		{"any", kw(dts.KeywordAny), "JsValue"},
		{"array", &dts.ArrayType{Elem: kw(dts.KeywordString)}, "Array"},
		{"object literal", &dts.TypeLiteral{}, "Object"},
		{"reference", ref("HTMLElement"), "HTMLElement"},
		{"qualified reference", ref("monaco", "editor", "IStandaloneCodeEditor"), "monaco::editor::IStandaloneCodeEditor"},
		{"generic arguments dropped", &dts.TypeRef{Name: []string{"Promise"}, Args: []dts.TypeNode{kw(dts.KeywordString)}}, "Promise"},
		{"single letter generic", ref("T"), "JsValue"},
		{"enum literal in type position", ref("Foo", "BAR_BAZ"), "Foo"},
		{"enum literal with digits", ref("KeyCode", "KEY_1"), "KeyCode"},
		{"pascal case member kept", ref("Foo", "Bar"), "Foo::Bar"},
		{"keyword module segment escaped", ref("type", "Foo"), "r#type::Foo"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &Mapper{}
			if got := m.TypeName(tt.typ); got != tt.want {
				t.Errorf("TypeName() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestMapper_UnsupportedWarns(t *testing.T) {
	var codes []string
	m := &Mapper{Warn: func(node dts.Node, code, message string) {
		codes = append(codes, code)
	}}

	inputs := []dts.TypeNode{
		&dts.OtherType{Kind: "union_type", Text: "string | number"},
		kw(dts.KeywordUnknown),
		nil,
	}
	for _, in := range inputs {
		if got := m.TypeName(in); got != Placeholder {
			t.Errorf("TypeName(%T) = %q, want %q", in, got, Placeholder)
		}
	}
	if len(codes) != len(inputs) {
		t.Fatalf("got %d warnings, want %d", len(codes), len(inputs))
	}
	for _, c := range codes {
		if c != WarnUnsupportedType {
			t.Errorf("warning code = %q, want %q", c, WarnUnsupportedType)
		}
	}

	// Mapped kinds never warn.
	codes = nil
	m.TypeName(kw(dts.KeywordString))
	m.TypeName(ref("A", "B"))
	if len(codes) != 0 {
		t.Errorf("unexpected warnings: %v", codes)
	}
}

func TestMapper_TypeAnnName(t *testing.T) {
	m := &Mapper{}
	tests := []struct {
		name     string
		ann      *dts.TypeAnn
		optional bool
		want     string
		wantOK   bool
	}{
		{"absent", nil, false, "", false},
		{"plain", ann(kw(dts.KeywordNumber)), false, "f64", true},
		{"optional string", ann(kw(dts.KeywordString)), true, "Option<String>", true},
		{"optional any", ann(kw(dts.KeywordAny)), true, "JsValue", true},
		{"optional promise", ann(ref("Promise")), true, "Promise", true},
		{"optional qualified thenable", ann(ref("monaco", "Thenable")), true, "monaco::Thenable", true},
		{"optional generic param", ann(ref("T")), true, "JsValue", true},
		{"optional enum literal", ann(ref("Level", "HIGH")), true, "Option<Level>", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := m.TypeAnnName(tt.ann, tt.optional)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("TypeAnnName() = (%q, %v), want (%q, %v)", got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestMapper_Generics(t *testing.T) {
	m := (&Mapper{}).WithGenerics([]string{"TModel"})
	if got := m.TypeName(ref("TModel")); got != Placeholder {
		t.Errorf("declared generic = %q, want %q", got, Placeholder)
	}
	inner := m.WithGenerics([]string{"Item"})
	if got := inner.TypeName(ref("Item")); got != Placeholder {
		t.Errorf("member generic = %q, want %q", got, Placeholder)
	}
	if got := inner.TypeName(ref("TModel")); got != Placeholder {
		t.Errorf("outer generic in inner scope = %q, want %q", got, Placeholder)
	}
	if got := m.TypeName(ref("Item")); got != "Item" {
		t.Errorf("inner generic leaked to outer scope: %q", got)
	}
}

func TestMapper_TypeMappings(t *testing.T) {
	m := &Mapper{TypeMappings: map[string]string{
		"monaco.IDisposable": "Disposable",
		"Uint8Array":         "js_sys::Uint8Array",
	}}
	if got := m.TypeName(ref("monaco", "IDisposable")); got != "Disposable" {
		t.Errorf("TypeName(monaco.IDisposable) = %q, want Disposable", got)
	}
	if got := m.TypeName(ref("Uint8Array")); got != "js_sys::Uint8Array" {
		t.Errorf("TypeName(Uint8Array) = %q, want js_sys::Uint8Array", got)
	}
}
