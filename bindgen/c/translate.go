package c

import (
	"strings"

	"github.com/teranos/bindgen/bindgen"
	"github.com/teranos/bindgen/syntax"
)

// TypeMapping maps source primitive names to C types.
type TypeMapping map[string]CType

// NativeTypes maps source primitives to fixed-width C types from stdint.h
// and stdbool.h.
var NativeTypes = TypeMapping{
	"f32":   Native{"float"},
	"f64":   Native{"double"},
	"i8":    Native{"int8_t"},
	"i16":   Native{"int16_t"},
	"i32":   Native{"int32_t"},
	"i64":   Native{"int64_t"},
	"isize": Native{"intptr_t"},
	"u8":    Native{"uint8_t"},
	"u16":   Native{"uint16_t"},
	"u32":   Native{"uint32_t"},
	"u64":   Native{"uint64_t"},
	"usize": Native{"uintptr_t"},
	"bool":  Native{"bool"},
}

// CABITypes maps the C ABI mirror types of the libc and std::os::raw
// modules to their C spelling.
var CABITypes = TypeMapping{
	"c_void":      Void{},
	"c_char":      Native{"char"},
	"c_schar":     Native{"signed char"},
	"c_uchar":     Native{"unsigned char"},
	"c_short":     Native{"short"},
	"c_ushort":    Native{"unsigned short"},
	"c_int":       Native{"int"},
	"c_uint":      Native{"unsigned int"},
	"c_long":      Native{"long"},
	"c_ulong":     Native{"unsigned long"},
	"c_longlong":  Native{"long long"},
	"c_ulonglong": Native{"unsigned long long"},
	"c_float":     Native{"float"},
	"c_double":    Native{"double"},
}

// CABIModules are the module prefixes whose types may be used qualified.
var CABIModules = []string{"libc", "std::os::raw"}

// Translate converts ty into a C type declared as assoc. Function pointers
// fold assoc into their declarator; every other type keeps it as the name.
func Translate(ty *syntax.Ty, assoc string) (CTypeNamed, error) {
	if ty != nil && ty.Kind == syntax.TyBareFn {
		fn, err := translateFnPtr(ty, assoc)
		if err != nil {
			return CTypeNamed{}, err
		}
		return CTypeNamed{Type: fn}, nil
	}

	t, err := TranslateAnon(ty)
	if err != nil {
		return CTypeNamed{}, err
	}
	return CTypeNamed{Name: assoc, Type: t}, nil
}

// TranslateAnon converts ty into a C type without a declarator. Function
// pointers need a declarator and are rejected here.
func TranslateAnon(ty *syntax.Ty) (CType, error) {
	if ty == nil || ty.IsUnit() {
		return Void{}, nil
	}

	switch ty.Kind {
	case syntax.TyBareFn:
		return nil, bindgen.NewError(bindgen.KindFnPointer, ty.Span,
			"C function pointers must have a name or function declaration associated with them")

	case syntax.TyArray:
		// [T; N] decays to a pointer and N is dropped
		inner, err := TranslateAnon(ty.Elem)
		if err != nil {
			return nil, err
		}
		return Ptr{Inner: inner, Kind: PtrConst}, nil

	case syntax.TyPtr:
		inner, err := TranslateAnon(ty.Elem)
		if err != nil {
			return nil, err
		}
		kind := PtrConst
		if ty.Mutable {
			kind = PtrMutable
		}
		return Ptr{Inner: inner, Kind: kind}, nil

	case syntax.TyPath:
		return translatePath(ty)
	}

	return nil, unsupported(ty)
}

func unsupported(ty *syntax.Ty) error {
	return bindgen.NewError(bindgen.KindUnsupportedTy, ty.Span,
		"bindgen can not handle the type `%s`", syntax.TyString(ty))
}

func translatePath(ty *syntax.Ty) (CType, error) {
	segs := ty.Path.Segments
	if len(segs) == 0 {
		return nil, bindgen.NewBug(bindgen.KindUnsupportedTy, ty.Span, "invalid type: empty path")
	}
	for _, seg := range segs {
		if len(seg.Args) > 0 {
			return nil, unsupported(ty)
		}
	}

	name := segs[len(segs)-1].Ident
	if len(segs) > 1 {
		module := make([]string, 0, len(segs)-1)
		for _, seg := range segs[:len(segs)-1] {
			module = append(module, seg.Ident)
		}
		if !isCABIModule(strings.Join(module, "::")) {
			return nil, bindgen.NewError(bindgen.KindForeignModule, ty.Span,
				"can not handle types in other modules (except `libc` and `std::os::raw`)")
		}
		return cabiType(name), nil
	}

	if t, ok := NativeTypes[name]; ok {
		return t, nil
	}
	return cabiType(name), nil
}

func isCABIModule(module string) bool {
	for _, m := range CABIModules {
		if m == module {
			return true
		}
	}
	return false
}

// cabiType resolves a C ABI mirror name. Anything else is taken to be a
// type the user declares, and is trusted to exist.
func cabiType(name string) CType {
	if t, ok := CABITypes[name]; ok {
		return t
	}
	return Mapping{Name: name}
}

// translateFnPtr renders `fn(a: A, ...) -> R` as `R (*inner)(A a, ...)`,
// where inner is a name or the rest of an enclosing function declaration.
func translateFnPtr(ty *syntax.Ty, inner string) (CType, error) {
	fn := ty.BareFn
	if len(fn.Lifetimes) > 0 {
		return nil, bindgen.NewError(bindgen.KindLifetime, ty.Span, "bindgen can not handle lifetimes")
	}

	args := make([]CTypeNamed, 0, len(fn.Decl.Inputs))
	for _, in := range fn.Decl.Inputs {
		arg, err := Translate(in.Ty, in.Pat)
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
	}

	ret, err := translateReturn(fn.Decl.Output)
	if err != nil {
		return nil, err
	}
	return FnDecl{Inner: inner, Args: args, Return: ret}, nil
}

func translateReturn(out *syntax.Ty) (CType, error) {
	if out == nil {
		return Void{}, nil
	}
	if out.Kind == syntax.TyNever {
		return nil, diverging(out)
	}
	return TranslateAnon(out)
}

func diverging(ty *syntax.Ty) error {
	return bindgen.NewError(bindgen.KindDiverging, ty.Span,
		"values that never return cannot cross into C")
}
