package rust

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/broady/ts2rs/rsgen/dts"
)

const indent = "    "

// visitTypeAlias emits `pub type Name = T;`.
func (t *Translator) visitTypeAlias(d *dts.TypeAliasDecl, ctx *ModuleContext) {
	var buf bytes.Buffer
	t.writeComments(&buf, d, "")
	m := t.mapper(d.Name, d.TypeParams)
	fmt.Fprintf(&buf, "pub type %s = %s;\n", d.Name, m.TypeName(d.Type))
	ctx.Write(buf.Bytes())
}

// visitEnum emits a wasm-bindgen enum. Members keep their source names and
// carry their initializer when one is present.
func (t *Translator) visitEnum(d *dts.EnumDecl, ctx *ModuleContext) error {
	var buf bytes.Buffer
	t.writeComments(&buf, d, "")
	buf.WriteString("#[wasm_bindgen]\n")
	fmt.Fprintf(&buf, "pub enum %s {\n", d.Name)
	for i := range d.Members {
		member := &d.Members[i]
		if member.Computed {
			t.skip(member, "computed enum member", d.Name)
			continue
		}
		t.writeComments(&buf, member, indent)
		buf.WriteString(indent)
		buf.WriteString(member.Name)
		if member.Init != nil {
			value, err := EvalConst(member.Init)
			if err != nil {
				return errors.Wrapf(err, "enum %s member %s at %s", d.Name, member.Name, t.position(member))
			}
			buf.WriteString(" = ")
			buf.WriteString(value)
		}
		buf.WriteString(",\n")
	}
	buf.WriteString("}\n")
	ctx.Write(buf.Bytes())
	return nil
}

// visitClass emits an extern type extending Object and, when present, the
// superclass, followed by the class member bindings.
func (t *Translator) visitClass(d *dts.ClassDecl, ctx *ModuleContext) error {
	extends := []string{"Object"}
	if d.Super != nil {
		super, err := EvalPath(d.Super)
		if err != nil {
			return errors.Wrapf(err, "class %s superclass at %s", d.Name, t.position(d.Super))
		}
		extends = append(extends, super)
	}

	v := t.newMemberVisitor(d.Name, d.TypeParams, ctx, true)
	t.writeComments(&v.buf, d, "")
	v.open(extends)
	for _, member := range d.Members {
		v.visit(member)
	}
	v.close()
	return nil
}

// visitInterface emits an extern type extending Object and the extended
// interfaces, followed by the interface member bindings.
func (t *Translator) visitInterface(d *dts.InterfaceDecl, ctx *ModuleContext) {
	v := t.newMemberVisitor(d.Name, d.TypeParams, ctx, false)
	extends := []string{"Object"}
	for _, parent := range d.Extends {
		if name := v.mapper.TypeName(parent); name != Placeholder && name != "Object" {
			extends = append(extends, name)
		}
	}

	t.writeComments(&v.buf, d, "")
	v.open(extends)
	for _, member := range d.Members {
		v.visit(member)
	}
	v.close()
}

// visitFunction emits a free function binding in its own extern block.
func (t *Translator) visitFunction(d *dts.FunctionDecl, ctx *ModuleContext) {
	m := t.mapper(d.Name, d.TypeParams)
	var buf bytes.Buffer
	t.writeComments(&buf, d, "")
	buf.WriteString("#[wasm_bindgen]\nextern \"C\" {\n")

	attrs := []string{}
	if path := ctx.Path(); len(path) > 0 {
		attrs = append(attrs, jsNamespace(path))
	}
	attrs = append(attrs, fmt.Sprintf("js_name = %q", d.Name))
	fmt.Fprintf(&buf, "%s#[wasm_bindgen(%s)]\n", indent, strings.Join(attrs, ", "))

	name := ctx.Functions.Unique(t.normalize(d.Name))
	params := t.params(d.Params, m, d.Name)
	fmt.Fprintf(&buf, "%spub fn %s(%s)%s;\n", indent, name, strings.Join(params, ", "), returns(m, d.Return, false))
	buf.WriteString("}\n")
	ctx.Write(buf.Bytes())
}

// params renders the identifier parameters of a signature. Other parameter
// forms are skipped and recorded.
func (t *Translator) params(params []dts.Param, m *Mapper, typeName string) []string {
	out := make([]string, 0, len(params))
	for i := range params {
		p := &params[i]
		if p.Pattern != dts.PatternIdent {
			t.skip(p, p.Pattern.String(), typeName)
			continue
		}
		typ, ok := m.TypeAnnName(p.Type, p.Optional)
		if !ok {
			typ = Placeholder
		}
		out = append(out, t.normalize(p.Name)+": "+typ)
	}
	return out
}

// returns renders the return clause of a binding. Unit and absent return
// types produce no clause unless required is set, in which case an absent
// type becomes the placeholder.
func returns(m *Mapper, ret *dts.TypeAnn, required bool) string {
	name, ok := m.TypeAnnName(ret, false)
	if !ok {
		if !required {
			return ""
		}
		name = Placeholder
	}
	if name == UnitType {
		return ""
	}
	return " -> " + name
}

// memberVisitor emits the bindings of one class or interface. It owns the
// name table used to disambiguate overloads within that declaration.
type memberVisitor struct {
	t        *Translator
	ctx      *ModuleContext
	typeName string
	isClass  bool
	mapper   *Mapper
	names    UniqueNames
	buf      bytes.Buffer
}

func (t *Translator) newMemberVisitor(typeName string, generics []string, ctx *ModuleContext, isClass bool) *memberVisitor {
	return &memberVisitor{
		t:        t,
		ctx:      ctx,
		typeName: typeName,
		isClass:  isClass,
		mapper:   t.mapper(typeName, generics),
		names:    UniqueNames{},
	}
}

func (v *memberVisitor) open(extends []string) {
	attrs := make([]string, 0, len(extends)+1)
	for _, e := range extends {
		attrs = append(attrs, "extends = "+e)
	}
	if path := v.ctx.Path(); len(path) > 0 && v.isClass {
		attrs = append(attrs, jsNamespace(path))
	}
	v.buf.WriteString("#[wasm_bindgen]\nextern \"C\" {\n")
	fmt.Fprintf(&v.buf, "%s#[wasm_bindgen(%s)]\n", indent, strings.Join(attrs, ", "))
	fmt.Fprintf(&v.buf, "%spub type %s;\n", indent, v.typeName)
}

func (v *memberVisitor) close() {
	v.buf.WriteString("}\n")
	v.ctx.Write(v.buf.Bytes())
}

func (v *memberVisitor) visit(member dts.Member) {
	switch m := member.(type) {
	case *dts.Method:
		if v.hidden(m, m.Accessibility) {
			return
		}
		v.visitMethod(m)
	case *dts.Property:
		if v.hidden(m, m.Accessibility) {
			return
		}
		v.visitProperty(m)
	case *dts.Constructor:
		if v.hidden(m, m.Accessibility) {
			return
		}
		v.visitConstructor(m)
	case *dts.UnsupportedMember:
		v.t.skip(m, m.Kind, v.typeName)
	}
}

// hidden records and reports members that are not part of the public surface.
func (v *memberVisitor) hidden(member dts.Member, access dts.Accessibility) bool {
	switch access {
	case dts.Private:
		v.t.skip(member, "private member", v.typeName)
		return true
	case dts.Protected:
		v.t.skip(member, "protected member", v.typeName)
		return true
	}
	return false
}

// attrs builds the wasm_bindgen attribute list shared by member bindings.
func (v *memberVisitor) attrs(static bool, flag, jsName string) string {
	var attrs []string
	if static {
		attrs = append(attrs, "static_method_of = "+v.typeName)
	} else {
		attrs = append(attrs, "method")
	}
	if flag != "" {
		attrs = append(attrs, flag)
	}
	attrs = append(attrs, fmt.Sprintf("js_class = %q", v.typeName))
	if jsName != "" {
		attrs = append(attrs, fmt.Sprintf("js_name = %q", jsName))
	}
	if static {
		if path := v.ctx.Path(); len(path) > 0 {
			attrs = append(attrs, jsNamespace(path))
		}
	}
	return "#[wasm_bindgen(" + strings.Join(attrs, ", ") + ")]"
}

// receiver returns the implicit first parameter of instance bindings.
func (v *memberVisitor) receiver(static bool) []string {
	if static {
		return nil
	}
	return []string{"this: &" + v.typeName}
}

func (v *memberVisitor) emit(member dts.Node, attr, name string, params []string, ret string) {
	v.t.writeComments(&v.buf, member, indent)
	fmt.Fprintf(&v.buf, "%s%s\n", indent, attr)
	fmt.Fprintf(&v.buf, "%spub fn %s(%s)%s;\n", indent, name, strings.Join(params, ", "), ret)
}

func (v *memberVisitor) visitMethod(m *dts.Method) {
	mapper := v.mapper.WithGenerics(m.TypeParams)
	params := append(v.receiver(m.Static), v.t.params(m.Params, mapper, v.typeName)...)
	base := v.t.normalize(m.Name)

	switch m.Kind {
	case dts.MethodGetter:
		attr := v.attrs(m.Static, "getter", m.Name)
		v.emit(m, attr, v.names.Unique(base), params, returns(mapper, m.Return, true))
	case dts.MethodSetter:
		attr := v.attrs(m.Static, "setter", m.Name)
		v.emit(m, attr, v.names.Unique(setterName(base)), params, "")
	default:
		attr := v.attrs(m.Static, "", m.Name)
		v.emit(m, attr, v.names.Unique(base), params, returns(mapper, m.Return, false))
	}
}

// visitProperty emits a getter and, for writable properties with a known type,
// a setter.
func (v *memberVisitor) visitProperty(p *dts.Property) {
	base := v.t.normalize(p.Name)
	typ, ok := v.mapper.TypeAnnName(p.Type, p.Optional)
	ret := typ
	if !ok {
		ret = Placeholder
	}

	getter := v.attrs(p.Static, "getter", p.Name)
	v.emit(p, getter, v.names.Unique(base), v.receiver(p.Static), " -> "+ret)

	if p.Readonly || !ok {
		return
	}
	setter := v.attrs(p.Static, "setter", p.Name)
	params := append(v.receiver(p.Static), "value: "+typ)
	// Comments were attached to the getter.
	fmt.Fprintf(&v.buf, "%s%s\n", indent, setter)
	fmt.Fprintf(&v.buf, "%spub fn %s(%s);\n", indent, v.names.Unique(setterName(base)), strings.Join(params, ", "))
}

// visitConstructor emits a constructor binding returning the enclosing type.
func (v *memberVisitor) visitConstructor(c *dts.Constructor) {
	attrs := []string{"constructor", fmt.Sprintf("js_class = %q", v.typeName)}
	if path := v.ctx.Path(); len(path) > 0 {
		attrs = append(attrs, jsNamespace(path))
	}
	attr := "#[wasm_bindgen(" + strings.Join(attrs, ", ") + ")]"
	params := v.t.params(c.Params, v.mapper, v.typeName)
	v.emit(c, attr, v.names.Unique("new"), params, " -> "+v.typeName)
}

// setterName derives the setter binding name from a normalized property name.
func setterName(base string) string {
	return "set_" + strings.TrimPrefix(base, rawPrefix)
}
