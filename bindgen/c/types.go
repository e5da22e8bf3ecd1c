package c

import (
	"strings"
)

// CType is a C type tree. The set of implementations is closed: Void,
// Native, Mapping, Ptr and FnDecl.
type CType interface {
	cType()
	// render returns the declaration of decl with this type. An empty decl
	// renders the bare type.
	render(decl string) string
}

// Void is `void`.
type Void struct{}

// Native is a C primitive or fixed-width type such as `int32_t` or `unsigned long`.
type Native struct {
	Name string
}

// Mapping is a user-defined type, assumed to be declared elsewhere.
type Mapping struct {
	Name string
}

// PtrKind is the constness of the pointee.
type PtrKind int

const (
	PtrConst PtrKind = iota
	PtrMutable
)

// Ptr is a pointer to Inner.
type Ptr struct {
	Inner CType
	Kind  PtrKind
}

// FnDecl is a function pointer declarator. Inner is the text placed inside
// `(*...)`: a plain name, or a whole function signature when a function
// returns a function pointer.
type FnDecl struct {
	Inner  string
	Args   []CTypeNamed
	Return CType
}

func (Void) cType()    {}
func (Native) cType()  {}
func (Mapping) cType() {}
func (Ptr) cType()     {}
func (FnDecl) cType()  {}

func withDecl(base, decl string) string {
	if decl == "" {
		return base
	}
	return base + " " + decl
}

func (Void) render(decl string) string      { return withDecl("void", decl) }
func (t Native) render(decl string) string  { return withDecl(t.Name, decl) }
func (t Mapping) render(decl string) string { return withDecl(t.Name, decl) }

func (t Ptr) render(decl string) string {
	return withDecl(t.base(), decl)
}

// base renders the pointer type. A const pointee that is itself a pointer
// binds const to the right: `char* const*`.
func (t Ptr) base() string {
	if inner, ok := t.Inner.(Ptr); ok {
		if t.Kind == PtrConst {
			return inner.base() + " const*"
		}
		return inner.base() + "*"
	}
	inner := t.Inner.render("")
	if t.Kind == PtrConst {
		return "const " + inner + "*"
	}
	return inner + "*"
}

func (t FnDecl) render(string) string {
	var sb strings.Builder
	sb.WriteString(t.Return.render(""))
	sb.WriteString(" (*")
	sb.WriteString(t.Inner)
	sb.WriteString(")(")
	sb.WriteString(joinArgs(t.Args))
	sb.WriteString(")")
	return sb.String()
}

// joinArgs renders a C parameter list. An empty list is `void`.
func joinArgs(args []CTypeNamed) string {
	if len(args) == 0 {
		return "void"
	}
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = a.String()
	}
	return strings.Join(parts, ", ")
}

// Render returns the type with no declarator.
func Render(t CType) string {
	return t.render("")
}

// Dependencies returns the user-defined type names t refers to, in order of
// appearance and without duplicates.
func Dependencies(t CType) []string {
	seen := make(map[string]struct{})
	var out []string
	collectDeps(t, seen, &out)
	return out
}

func collectDeps(t CType, seen map[string]struct{}, out *[]string) {
	switch t := t.(type) {
	case Mapping:
		if _, ok := seen[t.Name]; !ok {
			seen[t.Name] = struct{}{}
			*out = append(*out, t.Name)
		}
	case Ptr:
		collectDeps(t.Inner, seen, out)
	case FnDecl:
		for _, a := range t.Args {
			collectDeps(a.Type, seen, out)
		}
		collectDeps(t.Return, seen, out)
	}
}

// CTypeNamed pairs a type with the declarator name it is rendered for.
// Function pointers carry their name inside FnDecl.Inner and leave Name empty.
type CTypeNamed struct {
	Name string
	Type CType
}

func (n CTypeNamed) String() string {
	return n.Type.render(n.Name)
}
