// Package syntax models the declarations bindgen consumes from a front end.
//
// The model mirrors what a compiler front end exposes for an exported item:
// a name, a source span, the attribute list and a kind-specific payload.
// Items are produced by DecodeStream from a YAML declaration stream; type
// expressions and attributes inside that stream are written as source text
// and parsed with ParseType and ParseAttr.
package syntax

import (
	"fmt"
	"strings"
)

// Span locates an item in its source for diagnostics.
type Span struct {
	File string
	Line int
	Col  int
}

// IsZero reports whether the span carries no location.
func (s Span) IsZero() bool {
	return s.File == "" && s.Line == 0 && s.Col == 0
}

func (s Span) String() string {
	switch {
	case s.IsZero():
		return ""
	case s.File == "":
		return fmt.Sprintf("%d:%d", s.Line, s.Col)
	case s.Line == 0:
		return s.File
	default:
		return fmt.Sprintf("%s:%d:%d", s.File, s.Line, s.Col)
	}
}

// MetaKind is the shape of an attribute value.
type MetaKind int

const (
	MetaWord      MetaKind = iota // #[no_mangle]
	MetaList                      // #[repr(C)]
	MetaNameValue                 // #[doc = "..."]
)

// LitKind classifies a literal on the right of a name-value attribute.
type LitKind int

const (
	LitStr LitKind = iota
	LitInt
	LitBool
)

// Lit is a literal attribute value.
type Lit struct {
	Kind  LitKind
	Value string
}

// MetaItem is a structured attribute value: a word, a list of nested
// items, or a name-value pair.
type MetaItem struct {
	Name string
	Kind MetaKind
	List []MetaItem
	Lit  Lit
}

// Attribute is a single #[...] attribute attached to an item, field or variant.
type Attribute struct {
	Meta MetaItem
	Span Span
}

// Name returns the attribute's leading identifier.
func (a Attribute) Name() string {
	return a.Meta.Name
}

// DocAttribute builds the attribute a sugared doc comment lowers to.
func DocAttribute(text string) Attribute {
	return Attribute{Meta: MetaItem{
		Name: "doc",
		Kind: MetaNameValue,
		Lit:  Lit{Kind: LitStr, Value: text},
	}}
}

// Generics lists the generic parameters of a declaration.
type Generics struct {
	Lifetimes []string
	Params    []string
}

// IsParameterized reports whether any lifetime or type parameter is declared.
func (g Generics) IsParameterized() bool {
	return len(g.Lifetimes) > 0 || len(g.Params) > 0
}

// Abi is a declared calling convention.
type Abi string

const (
	AbiRust     Abi = "Rust"
	AbiC        Abi = "C"
	AbiCdecl    Abi = "cdecl"
	AbiStdcall  Abi = "stdcall"
	AbiFastcall Abi = "fastcall"
	AbiSystem   Abi = "system"
)

// TyKind is the shape of a type expression.
type TyKind int

const (
	TyPath TyKind = iota
	TyPtr
	TyRef
	TyArray
	TySlice
	TyTup
	TyNever
	TyBareFn
)

// Ty is a type expression.
type Ty struct {
	Kind TyKind
	Span Span

	Path     Path      // TyPath
	Elem     *Ty       // TyPtr, TyRef, TyArray, TySlice
	Mutable  bool      // TyPtr, TyRef
	Lifetime string    // TyRef
	Len      string    // TyArray
	Elems    []*Ty     // TyTup
	BareFn   *BareFnTy // TyBareFn
}

// IsUnit reports whether the type is the empty tuple.
func (t *Ty) IsUnit() bool {
	return t != nil && t.Kind == TyTup && len(t.Elems) == 0
}

// Path is a possibly module-qualified type name.
type Path struct {
	Global   bool
	Segments []PathSegment
}

// PathSegment is one `::`-separated component with optional generic arguments.
type PathSegment struct {
	Ident string
	Args  []*Ty
}

// BareFnTy is a function pointer type.
type BareFnTy struct {
	Unsafe    bool
	Abi       Abi
	Lifetimes []string
	Decl      FnDecl
}

// FnDecl is a parameter list and return type. A nil Output is the
// default (unit) return.
type FnDecl struct {
	Inputs []Arg
	Output *Ty
}

// Arg is a parameter. Pat is empty for unnamed function pointer arguments.
type Arg struct {
	Pat string
	Ty  *Ty
}

// Item is one declaration handed over by the front end.
type Item struct {
	Ident string
	Span  Span
	Attrs []Attribute
	Node  ItemNode
}

// ItemNode is the kind-specific payload of an Item. The set of
// implementations is closed: TyAlias, Enum, Struct, Fn and Other.
type ItemNode interface {
	itemNode()
	// KindName returns the source keyword for the item kind.
	KindName() string
}

// TyAlias is `type Name = Ty;`.
type TyAlias struct {
	Ty       *Ty
	Generics Generics
}

// Enum is an enumeration.
type Enum struct {
	Variants []Variant
	Generics Generics
}

// Struct is a record.
type Struct struct {
	Data     VariantData
	Generics Generics
}

// Fn is a function definition.
type Fn struct {
	Decl     FnDecl
	Abi      Abi
	Unsafe   bool
	Generics Generics
}

// Other is any item kind bindgen does not translate (use, const, impl, ...).
type Other struct {
	Kind string
}

func (*TyAlias) itemNode() {}
func (*Enum) itemNode()    {}
func (*Struct) itemNode()  {}
func (*Fn) itemNode()      {}
func (*Other) itemNode()   {}

func (*TyAlias) KindName() string { return "type" }
func (*Enum) KindName() string    { return "enum" }
func (*Struct) KindName() string  { return "struct" }
func (*Fn) KindName() string      { return "fn" }
func (o *Other) KindName() string { return o.Kind }

// Variant is an enum variant.
type Variant struct {
	Ident        string
	Span         Span
	Attrs        []Attribute
	Data         VariantData
	Discriminant string
}

// DataKind is the shape of a struct body or variant payload.
type DataKind int

const (
	DataUnit DataKind = iota
	DataTuple
	DataStruct
)

// VariantData is a struct body or variant payload.
type VariantData struct {
	Kind   DataKind
	Fields []StructField
}

func (d VariantData) IsUnit() bool   { return d.Kind == DataUnit }
func (d VariantData) IsTuple() bool  { return d.Kind == DataTuple }
func (d VariantData) IsStruct() bool { return d.Kind == DataStruct }

// StructField is a named or positional field. Ident is empty for tuple fields.
type StructField struct {
	Ident string
	Span  Span
	Attrs []Attribute
	Ty    *Ty
}

// Module is a module path and the items declared in it, in source order.
type Module struct {
	Path  []string
	Items []*Item
}

// PathString joins the module path with `::`.
func (m Module) PathString() string {
	return strings.Join(m.Path, "::")
}

// Stream is the full declaration stream of one crate, modules in traversal order.
type Stream struct {
	Source  string
	Modules []Module
}
