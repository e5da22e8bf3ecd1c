package c

import (
	"strings"

	"github.com/teranos/bindgen/bindgen"
	"github.com/teranos/bindgen/errors"
	"github.com/teranos/bindgen/logger"
	"github.com/teranos/bindgen/syntax"
)

// DefaultLibName is the library name used when none is configured.
const DefaultLibName = "backend"

// cABIs are the calling conventions a C caller can use.
var cABIs = map[syntax.Abi]bool{
	syntax.AbiC:        true,
	syntax.AbiCdecl:    true,
	syntax.AbiStdcall:  true,
	syntax.AbiFastcall: true,
	syntax.AbiSystem:   true,
}

// LangC generates C headers. It owns all state of one run: header text,
// the header each type is declared in and the types each header uses.
type LangC struct {
	libName    string
	customCode string

	decls   map[string]string              // type name -> header
	deps    map[string]map[string]struct{} // header -> referenced type names
	outputs map[string]*strings.Builder    // header -> accumulated body

	finalised bool
}

var _ bindgen.Lang = (*LangC)(nil)

// NewLangC creates a backend for the default library name.
func NewLangC() *LangC {
	return &LangC{
		libName: DefaultLibName,
		decls:   make(map[string]string),
		deps:    make(map[string]map[string]struct{}),
		outputs: make(map[string]*strings.Builder),
	}
}

// SetLibName sets the name of the native library.
func (l *LangC) SetLibName(name string) {
	l.libName = name
}

// LibName returns the configured library name.
func (l *LangC) LibName() string {
	return l.libName
}

// AddCustomCode appends raw C to the top of the aggregate header, e.g.
// typedefs for opaque pointers.
func (l *LangC) AddCustomCode(code string) {
	l.customCode += code
}

// Language implements bindgen.Lang
func (l *LangC) Language() string {
	return "c"
}

func (l *LangC) addDependencies(header string, t CType) {
	names := Dependencies(t)
	if len(names) == 0 {
		return
	}
	set, ok := l.deps[header]
	if !ok {
		set = make(map[string]struct{})
		l.deps[header] = set
	}
	for _, n := range names {
		set[n] = struct{}{}
	}
}

func (l *LangC) appendToHeader(header, text string) {
	sb, ok := l.outputs[header]
	if !ok {
		sb = &strings.Builder{}
		l.outputs[header] = sb
	}
	sb.WriteString(text)
}

func (l *LangC) checkOpen(item *syntax.Item) error {
	if l.finalised {
		return bindgen.NewBug(bindgen.KindConsumed, item.Span, "item %s received after output was finalised", item.Ident)
	}
	return nil
}

func wrongItem(method string, item *syntax.Item) error {
	kind := "nothing"
	if item.Node != nil {
		kind = item.Node.KindName()
	}
	return bindgen.NewBug(bindgen.KindWrongItem, item.Span, "`%s` called on %s item %s", method, kind, item.Ident)
}

// logSkip logs an item left out of the headers with its non-doc attributes.
func logSkip(item *syntax.Item, reason string) {
	attrs := make([]string, 0, len(item.Attrs))
	for _, a := range item.Attrs {
		if _, isDoc := bindgen.DocFragment(a, ""); !isDoc {
			attrs = append(attrs, syntax.AttrString(a))
		}
	}
	logger.ComponentLogger("bindgen.c").Debugw("item skipped",
		logger.FieldItem, item.Ident,
		"reason", reason,
		"attrs", attrs)
}

// ParseTy converts `type A = B;` into `typedef B A;`. Generic aliases are skipped.
func (l *LangC) ParseTy(item *syntax.Item, module []string) (bindgen.Outcome, error) {
	if err := l.checkOpen(item); err != nil {
		return bindgen.Skipped, err
	}
	alias, ok := item.Node.(*syntax.TyAlias)
	if !ok {
		return bindgen.Skipped, wrongItem("ParseTy", item)
	}
	if alias.Generics.IsParameterized() {
		return bindgen.Skipped, nil
	}

	header, err := HeaderName(module, l.libName)
	if err != nil {
		return bindgen.Skipped, err
	}
	ty, err := Translate(alias.Ty, item.Ident)
	if err != nil {
		return bindgen.Skipped, err
	}
	l.addDependencies(header, ty.Type)

	l.appendToHeader(header, bindgen.Docs(item.Attrs, "")+"typedef "+ty.String()+";\n\n")
	l.decls[item.Ident] = header
	return bindgen.Emitted, nil
}

// ParseEnum converts a #[repr(C)] enum of unit variants into a C enum.
func (l *LangC) ParseEnum(item *syntax.Item, module []string) (bindgen.Outcome, error) {
	if err := l.checkOpen(item); err != nil {
		return bindgen.Skipped, err
	}
	en, ok := item.Node.(*syntax.Enum)
	if !ok {
		return bindgen.Skipped, wrongItem("ParseEnum", item)
	}

	reprC, docs := bindgen.Scan(item.Attrs, bindgen.IsCLayout, func(a syntax.Attribute) (string, bool) {
		return bindgen.DocFragment(a, "")
	})
	if !reprC {
		logSkip(item, "no C layout")
		return bindgen.Skipped, nil
	}
	if en.Generics.IsParameterized() {
		return bindgen.Skipped, bindgen.NewError(bindgen.KindGeneric, item.Span,
			"bindgen can not handle parameterized `#[repr(C)]` enums")
	}

	header, err := HeaderName(module, l.libName)
	if err != nil {
		return bindgen.Skipped, err
	}

	var sb strings.Builder
	sb.WriteString(docs)
	sb.WriteString("typedef enum " + item.Ident + " {\n")
	for _, v := range en.Variants {
		if !v.Data.IsUnit() {
			return bindgen.Skipped, bindgen.NewError(bindgen.KindNonUnitVariant, v.Span,
				"bindgen can not handle `#[repr(C)]` enums with non-unit variants")
		}
		sb.WriteString(bindgen.Docs(v.Attrs, "\t"))
		sb.WriteString("\t" + item.Ident + "_" + syntax.VariantString(v) + ",\n")
	}
	sb.WriteString("} " + item.Ident + ";\n\n")

	l.appendToHeader(header, sb.String())
	l.decls[item.Ident] = header
	return bindgen.Emitted, nil
}

// ParseStruct converts a #[repr(C)] struct into a C struct. A tuple struct
// with one field becomes an opaque declaration.
func (l *LangC) ParseStruct(item *syntax.Item, module []string) (bindgen.Outcome, error) {
	if err := l.checkOpen(item); err != nil {
		return bindgen.Skipped, err
	}
	st, ok := item.Node.(*syntax.Struct)
	if !ok {
		return bindgen.Skipped, wrongItem("ParseStruct", item)
	}

	reprC, docs := bindgen.Scan(item.Attrs, bindgen.IsCLayout, func(a syntax.Attribute) (string, bool) {
		return bindgen.DocFragment(a, "")
	})
	if !reprC {
		logSkip(item, "no C layout")
		return bindgen.Skipped, nil
	}
	if st.Generics.IsParameterized() {
		return bindgen.Skipped, bindgen.NewError(bindgen.KindGeneric, item.Span,
			"bindgen can not handle parameterized `#[repr(C)]` structs")
	}

	header, err := HeaderName(module, l.libName)
	if err != nil {
		return bindgen.Skipped, err
	}

	var sb strings.Builder
	sb.WriteString(docs)
	sb.WriteString("typedef struct " + item.Ident)

	switch {
	case st.Data.IsStruct():
		sb.WriteString(" {\n")
		for _, field := range st.Data.Fields {
			sb.WriteString(bindgen.Docs(field.Attrs, "\t"))
			ty, err := Translate(field.Ty, field.Ident)
			if err != nil {
				return bindgen.Skipped, err
			}
			l.addDependencies(header, ty.Type)
			sb.WriteString("\t" + ty.String() + ";\n")
		}
		sb.WriteString("}")

	case st.Data.IsTuple() && len(st.Data.Fields) == 1:
		// opaque: the field layout stays hidden

	default:
		return bindgen.Skipped, bindgen.NewError(bindgen.KindTupleStruct, item.Span,
			"can not handle unit or tuple `#[repr(C)]` structs with >1 members")
	}
	sb.WriteString(" " + item.Ident + ";\n\n")

	l.appendToHeader(header, sb.String())
	l.decls[item.Ident] = header
	return bindgen.Emitted, nil
}

// ParseFn converts a #[no_mangle] function with a C calling convention into
// a C function declaration.
func (l *LangC) ParseFn(item *syntax.Item, module []string) (bindgen.Outcome, error) {
	if err := l.checkOpen(item); err != nil {
		return bindgen.Skipped, err
	}
	fn, ok := item.Node.(*syntax.Fn)
	if !ok {
		return bindgen.Skipped, wrongItem("ParseFn", item)
	}

	noMangle, docs := bindgen.Scan(item.Attrs, bindgen.IsStableLinkage, func(a syntax.Attribute) (string, bool) {
		return bindgen.DocFragment(a, "")
	})
	if !noMangle {
		logSkip(item, "no stable linkage")
		return bindgen.Skipped, nil
	}
	if !cABIs[fn.Abi] {
		logSkip(item, "not a C calling convention")
		return bindgen.Skipped, nil
	}
	if fn.Generics.IsParameterized() {
		return bindgen.Skipped, bindgen.NewError(bindgen.KindGeneric, item.Span,
			"bindgen can not handle parameterized extern functions")
	}

	header, err := HeaderName(module, l.libName)
	if err != nil {
		return bindgen.Skipped, err
	}
	decl, err := l.transformNativeFn(fn.Decl, item.Ident, header)
	if err != nil {
		return bindgen.Skipped, err
	}

	l.appendToHeader(header, docs+decl+";\n\n")
	return bindgen.Emitted, nil
}

// transformNativeFn renders a function declaration. When the return type
// is a function pointer the name and parameter list become its declarator:
// `int32_t (*f(int32_t x))(int32_t)`.
func (l *LangC) transformNativeFn(decl syntax.FnDecl, name, header string) (string, error) {
	args := make([]CTypeNamed, 0, len(decl.Inputs))
	for _, in := range decl.Inputs {
		arg, err := Translate(in.Ty, in.Pat)
		if err != nil {
			return "", errors.Wrapf(err, "parameter `%s`", syntax.PatString(in))
		}
		l.addDependencies(header, arg.Type)
		args = append(args, arg)
	}
	signature := name + "(" + joinArgs(args) + ")"

	out := decl.Output
	switch {
	case out == nil:
		return "void " + signature, nil
	case out.Kind == syntax.TyNever:
		return "", diverging(out)
	}

	ret, err := Translate(out, signature)
	if err != nil {
		return "", err
	}
	l.addDependencies(header, ret.Type)
	return ret.String(), nil
}
