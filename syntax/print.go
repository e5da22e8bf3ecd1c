package syntax

import (
	"strconv"
	"strings"
)

// TyString pretty-prints a type expression back to source text.
func TyString(t *Ty) string {
	var sb strings.Builder
	writeTy(&sb, t)
	return sb.String()
}

func writeTy(sb *strings.Builder, t *Ty) {
	if t == nil {
		sb.WriteString("()")
		return
	}

	switch t.Kind {
	case TyPath:
		writePath(sb, t.Path)
	case TyPtr:
		if t.Mutable {
			sb.WriteString("*mut ")
		} else {
			sb.WriteString("*const ")
		}
		writeTy(sb, t.Elem)
	case TyRef:
		sb.WriteString("&")
		if t.Lifetime != "" {
			sb.WriteString(t.Lifetime)
			sb.WriteString(" ")
		}
		if t.Mutable {
			sb.WriteString("mut ")
		}
		writeTy(sb, t.Elem)
	case TyArray:
		sb.WriteString("[")
		writeTy(sb, t.Elem)
		sb.WriteString("; ")
		sb.WriteString(t.Len)
		sb.WriteString("]")
	case TySlice:
		sb.WriteString("[")
		writeTy(sb, t.Elem)
		sb.WriteString("]")
	case TyTup:
		sb.WriteString("(")
		for i, e := range t.Elems {
			if i > 0 {
				sb.WriteString(", ")
			}
			writeTy(sb, e)
		}
		if len(t.Elems) == 1 {
			sb.WriteString(",")
		}
		sb.WriteString(")")
	case TyNever:
		sb.WriteString("!")
	case TyBareFn:
		writeBareFn(sb, t.BareFn)
	}
}

func writePath(sb *strings.Builder, p Path) {
	if p.Global {
		sb.WriteString("::")
	}
	for i, seg := range p.Segments {
		if i > 0 {
			sb.WriteString("::")
		}
		sb.WriteString(seg.Ident)
		if len(seg.Args) > 0 {
			sb.WriteString("<")
			for j, a := range seg.Args {
				if j > 0 {
					sb.WriteString(", ")
				}
				writeTy(sb, a)
			}
			sb.WriteString(">")
		}
	}
}

func writeBareFn(sb *strings.Builder, f *BareFnTy) {
	if f == nil {
		sb.WriteString("fn()")
		return
	}
	if len(f.Lifetimes) > 0 {
		sb.WriteString("for<")
		sb.WriteString(strings.Join(f.Lifetimes, ", "))
		sb.WriteString("> ")
	}
	if f.Unsafe {
		sb.WriteString("unsafe ")
	}
	if f.Abi != "" && f.Abi != AbiRust {
		sb.WriteString("extern ")
		sb.WriteString(strconv.Quote(string(f.Abi)))
		sb.WriteString(" ")
	}
	sb.WriteString("fn(")
	for i, arg := range f.Decl.Inputs {
		if i > 0 {
			sb.WriteString(", ")
		}
		if arg.Pat != "" {
			sb.WriteString(arg.Pat)
			sb.WriteString(": ")
		}
		writeTy(sb, arg.Ty)
	}
	sb.WriteString(")")
	if f.Decl.Output != nil {
		sb.WriteString(" -> ")
		writeTy(sb, f.Decl.Output)
	}
}

// VariantString prints a unit variant the way it appears in source,
// including an explicit discriminant.
func VariantString(v Variant) string {
	if v.Discriminant == "" {
		return v.Ident
	}
	return v.Ident + " = " + v.Discriminant
}

// AttrString prints an attribute without the surrounding #[...].
func AttrString(a Attribute) string {
	var sb strings.Builder
	writeMeta(&sb, a.Meta)
	return sb.String()
}

func writeMeta(sb *strings.Builder, m MetaItem) {
	sb.WriteString(m.Name)
	switch m.Kind {
	case MetaList:
		sb.WriteString("(")
		for i, nested := range m.List {
			if i > 0 {
				sb.WriteString(", ")
			}
			writeMeta(sb, nested)
		}
		sb.WriteString(")")
	case MetaNameValue:
		sb.WriteString(" = ")
		if m.Lit.Kind == LitStr {
			sb.WriteString(strconv.Quote(m.Lit.Value))
		} else {
			sb.WriteString(m.Lit.Value)
		}
	}
}

// PatString prints a parameter as `pat: Ty`, or just the type when unnamed.
func PatString(a Arg) string {
	if a.Pat == "" {
		return TyString(a.Ty)
	}
	return a.Pat + ": " + TyString(a.Ty)
}
