package c

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/bindgen/bindgen"
	"github.com/teranos/bindgen/syntax"
)

func translate(t *testing.T, src, assoc string) string {
	t.Helper()
	named, err := Translate(syntax.MustParseType(src), assoc)
	require.NoError(t, err)
	return named.String()
}

func TestTranslate_Primitives(t *testing.T) {
	for src, want := range map[string]string{
		"i8":    "int8_t",
		"i16":   "int16_t",
		"i32":   "int32_t",
		"i64":   "int64_t",
		"u8":    "uint8_t",
		"u16":   "uint16_t",
		"u32":   "uint32_t",
		"u64":   "uint64_t",
		"isize": "intptr_t",
		"usize": "uintptr_t",
		"f32":   "float",
		"f64":   "double",
		"bool":  "bool",
	} {
		assert.Equal(t, want+" x", translate(t, src, "x"), src)
	}
}

func TestTranslate_CABIModules(t *testing.T) {
	for name, want := range map[string]string{
		"c_char":      "char",
		"c_schar":     "signed char",
		"c_uchar":     "unsigned char",
		"c_short":     "short",
		"c_ushort":    "unsigned short",
		"c_int":       "int",
		"c_uint":      "unsigned int",
		"c_long":      "long",
		"c_ulong":     "unsigned long",
		"c_longlong":  "long long",
		"c_ulonglong": "unsigned long long",
		"c_float":     "float",
		"c_double":    "double",
	} {
		assert.Equal(t, want, translate(t, "libc::"+name, ""), name)
		assert.Equal(t, want, translate(t, "std::os::raw::"+name, ""), name)
		assert.Equal(t, want, translate(t, name, ""), "unqualified "+name)
	}

	assert.Equal(t, "void", translate(t, "libc::c_void", ""))
	assert.Equal(t, "void* p", translate(t, "*mut std::os::raw::c_void", "p"))
	assert.Equal(t, "size_t n", translate(t, "libc::size_t", "n"), "unknown libc names pass through")
	assert.Equal(t, "int fd", translate(t, "::libc::c_int", "fd"))
}

func TestTranslate_UserTypes(t *testing.T) {
	assert.Equal(t, "Endpoint ep", translate(t, "Endpoint", "ep"))
	assert.Equal(t, "const Endpoint* ep", translate(t, "*const Endpoint", "ep"))
}

func TestTranslate_PointersAndArrays(t *testing.T) {
	assert.Equal(t, "const uint8_t* data", translate(t, "*const u8", "data"))
	assert.Equal(t, "uint8_t* data", translate(t, "*mut u8", "data"))
	assert.Equal(t, "char** argv", translate(t, "*mut *mut c_char", "argv"))
	assert.Equal(t, "const int32_t* values", translate(t, "[i32; 8]", "values"), "arrays decay to const pointers")
	assert.Equal(t, "const float** rows", translate(t, "*mut [f32; 4]", "rows"))
}

func TestTranslate_Unit(t *testing.T) {
	assert.Equal(t, "void", translate(t, "()", ""))
	c, err := TranslateAnon(nil)
	require.NoError(t, err)
	assert.Equal(t, Void{}, c)
}

func TestTranslate_FunctionPointers(t *testing.T) {
	assert.Equal(t, "void (*cb)(void)", translate(t, `extern "C" fn()`, "cb"))
	assert.Equal(t, "bool (*cb)(int32_t code, const char* msg)",
		translate(t, `extern "C" fn(code: i32, msg: *const c_char) -> bool`, "cb"))
	assert.Equal(t, "void (*cb)(uint8_t, uint16_t)", translate(t, "fn(u8, u16)", "cb"))
	assert.Equal(t, "void (*on_done)(void (*inner)(void))",
		translate(t, `extern "C" fn(inner: extern "C" fn())`, "on_done"))

	named, err := Translate(syntax.MustParseType("fn() -> Status"), "cb")
	require.NoError(t, err)
	assert.Empty(t, named.Name, "function pointers carry their name in the declarator")
	assert.Equal(t, []string{"Status"}, Dependencies(named.Type))
}

func TestTranslate_Errors(t *testing.T) {
	tests := []struct {
		src  string
		kind bindgen.Kind
	}{
		{"Vec<u8>", bindgen.KindUnsupportedTy},
		{"&u8", bindgen.KindUnsupportedTy},
		{"&'a mut Buffer", bindgen.KindUnsupportedTy},
		{"[u8]", bindgen.KindUnsupportedTy},
		{"(u8, u16)", bindgen.KindUnsupportedTy},
		{"!", bindgen.KindUnsupportedTy},
		{"std::string::String", bindgen.KindForeignModule},
		{"my_mod::Thing", bindgen.KindForeignModule},
		{"*const fn()", bindgen.KindFnPointer},
		{"[fn(); 2]", bindgen.KindFnPointer},
		{"for<'a> fn(&'a u8)", bindgen.KindLifetime},
		{"fn() -> !", bindgen.KindDiverging},
		{"fn() -> fn()", bindgen.KindFnPointer},
		{"fn(x: Vec<u8>)", bindgen.KindUnsupportedTy},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			_, err := Translate(syntax.MustParseType(tt.src), "x")
			require.Error(t, err)
			d, ok := bindgen.AsDiagnostic(err)
			require.True(t, ok)
			assert.Equal(t, tt.kind, d.Kind)
			assert.Equal(t, bindgen.LevelError, d.Level)
		})
	}
}

func TestTranslate_UnsupportedMessage(t *testing.T) {
	_, err := Translate(syntax.MustParseType("Option<Box<Node>>"), "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bindgen can not handle the type `Option<Box<Node>>`")
}

func TestTranslate_EmptyPathIsBug(t *testing.T) {
	_, err := TranslateAnon(&syntax.Ty{Kind: syntax.TyPath})
	d, ok := bindgen.AsDiagnostic(err)
	require.True(t, ok)
	assert.True(t, d.IsBug())
}

func TestTranslate_CarriesSpan(t *testing.T) {
	ty := syntax.MustParseType("Vec<u8>")
	ty.Span = syntax.Span{File: "lib.yaml", Line: 7, Col: 3}

	_, err := Translate(ty, "x")
	d, ok := bindgen.AsDiagnostic(err)
	require.True(t, ok)
	assert.Equal(t, ty.Span, d.Span)
}
