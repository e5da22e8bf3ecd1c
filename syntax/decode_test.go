package syntax

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/bindgen/errors"
)

const sampleStream = `modules:
  - path: [ffi, net]
    items:
      - kind: struct
        name: Endpoint
        attrs: ["repr(C)"]
        docs: [" An endpoint."]
        fields:
          - {name: port, type: u16, docs: [" Port."]}
          - {name: host, type: "*const c_char"}
      - kind: struct
        name: Handle
        attrs: ["repr(C)"]
        tuple: ["*mut c_void"]
      - kind: struct
        name: Marker
      - kind: enum
        name: Mode
        attrs: ["repr(C)"]
        variants:
          - {name: Fast, value: "1"}
          - {name: Slow, fields: [u8]}
          - {name: Custom, fields: [{name: level, type: u8}]}
      - kind: type
        name: Callback
        type: 'extern "C" fn(code: i32)'
        generics: ["'a", T]
      - kind: fn
        name: connect
        line: 40
        abi: C
        attrs: ["no_mangle"]
        params: [{name: ep, type: "*const Endpoint"}]
        returns: i32
      - kind: fn
        name: internal
      - kind: use
        name: prelude
`

func decodeSample(t *testing.T) *Stream {
	t.Helper()
	stream, err := DecodeStream(strings.NewReader(sampleStream), "lib.yaml")
	require.NoError(t, err)
	return stream
}

func TestDecodeStream(t *testing.T) {
	stream := decodeSample(t)
	assert.Equal(t, "lib.yaml", stream.Source)
	require.Len(t, stream.Modules, 1)

	mod := stream.Modules[0]
	assert.Equal(t, []string{"ffi", "net"}, mod.Path)
	assert.Equal(t, "ffi::net", mod.PathString())
	require.Len(t, mod.Items, 8)

	kinds := make([]string, 0, len(mod.Items))
	for _, item := range mod.Items {
		kinds = append(kinds, item.Node.KindName())
	}
	assert.Equal(t, []string{"struct", "struct", "struct", "enum", "type", "fn", "fn", "use"}, kinds)
}

func TestDecodeStream_Struct(t *testing.T) {
	mod := decodeSample(t).Modules[0]

	endpoint := mod.Items[0]
	assert.Equal(t, "Endpoint", endpoint.Ident)
	assert.Equal(t, "lib.yaml", endpoint.Span.File)
	assert.Equal(t, 4, endpoint.Span.Line)

	// Doc shorthand comes first, then explicit attributes
	require.Len(t, endpoint.Attrs, 2)
	assert.Equal(t, "doc", endpoint.Attrs[0].Name())
	assert.Equal(t, "/// An endpoint.", endpoint.Attrs[0].Meta.Lit.Value)
	assert.Equal(t, "repr", endpoint.Attrs[1].Name())

	st, ok := endpoint.Node.(*Struct)
	require.True(t, ok)
	assert.True(t, st.Data.IsStruct())
	require.Len(t, st.Data.Fields, 2)
	assert.Equal(t, "port", st.Data.Fields[0].Ident)
	assert.Equal(t, "u16", TyString(st.Data.Fields[0].Ty))
	require.Len(t, st.Data.Fields[0].Attrs, 1)
	assert.Equal(t, "/// Port.", st.Data.Fields[0].Attrs[0].Meta.Lit.Value)
	assert.Equal(t, "*const c_char", TyString(st.Data.Fields[1].Ty))

	handle := mod.Items[1].Node.(*Struct)
	assert.True(t, handle.Data.IsTuple())
	require.Len(t, handle.Data.Fields, 1)
	assert.Equal(t, "*mut c_void", TyString(handle.Data.Fields[0].Ty))

	marker := mod.Items[2].Node.(*Struct)
	assert.True(t, marker.Data.IsUnit())
}

func TestDecodeStream_Enum(t *testing.T) {
	en, ok := decodeSample(t).Modules[0].Items[3].Node.(*Enum)
	require.True(t, ok)
	require.Len(t, en.Variants, 3)

	assert.Equal(t, "Fast", en.Variants[0].Ident)
	assert.Equal(t, "1", en.Variants[0].Discriminant)
	assert.True(t, en.Variants[0].Data.IsUnit())

	assert.True(t, en.Variants[1].Data.IsTuple())
	assert.True(t, en.Variants[2].Data.IsStruct())
	assert.Equal(t, "level", en.Variants[2].Data.Fields[0].Ident)
}

func TestDecodeStream_AliasAndFn(t *testing.T) {
	mod := decodeSample(t).Modules[0]

	alias := mod.Items[4].Node.(*TyAlias)
	assert.Equal(t, TyBareFn, alias.Ty.Kind)
	assert.Equal(t, []string{"'a"}, alias.Generics.Lifetimes)
	assert.Equal(t, []string{"T"}, alias.Generics.Params)
	assert.True(t, alias.Generics.IsParameterized())
	assert.Equal(t, "lib.yaml", alias.Ty.Span.File)

	connect := mod.Items[5]
	assert.Equal(t, Span{File: "lib.yaml", Line: 40}, connect.Span, "explicit line overrides the document position")
	fn := connect.Node.(*Fn)
	assert.Equal(t, AbiC, fn.Abi)
	require.Len(t, fn.Decl.Inputs, 1)
	assert.Equal(t, "ep: *const Endpoint", PatString(fn.Decl.Inputs[0]))
	assert.Equal(t, "i32", TyString(fn.Decl.Output))

	internal := mod.Items[6].Node.(*Fn)
	assert.Equal(t, AbiRust, internal.Abi)
	assert.Nil(t, internal.Decl.Output)
	assert.False(t, internal.Generics.IsParameterized())

	other := mod.Items[7].Node.(*Other)
	assert.Equal(t, "use", other.Kind)
}

func TestDecodeStream_Empty(t *testing.T) {
	stream, err := DecodeStream(strings.NewReader(""), "empty.yaml")
	require.NoError(t, err)
	assert.Empty(t, stream.Modules)
}

func TestDecodeStream_Errors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"malformed yaml", "modules: [\n"},
		{"empty module path", "modules:\n  - path: []\n"},
		{"unknown kind", "modules:\n  - path: [ffi]\n    items:\n      - {kind: class, name: X}\n"},
		{"missing name", "modules:\n  - path: [ffi]\n    items:\n      - {kind: struct}\n"},
		{"bad type", "modules:\n  - path: [ffi]\n    items:\n      - {kind: type, name: X, type: \"*u8\"}\n"},
		{"missing type", "modules:\n  - path: [ffi]\n    items:\n      - {kind: type, name: X}\n"},
		{"bad attr", "modules:\n  - path: [ffi]\n    items:\n      - {kind: fn, name: f, attrs: [\"repr(\"]}\n"},
		{"fields and tuple", "modules:\n  - path: [ffi]\n    items:\n      - {kind: struct, name: S, fields: [], tuple: []}\n"},
		{"mixed fields", "modules:\n  - path: [ffi]\n    items:\n      - {kind: struct, name: S, fields: [u8, {name: a, type: u8}]}\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeStream(strings.NewReader(tt.doc), "bad.yaml")
			require.Error(t, err)
			assert.True(t, errors.IsInvalidInputError(err), "got %v", err)
		})
	}
}

func TestDecodeFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lib.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleStream), 0644))

	stream, err := DecodeFile(path)
	require.NoError(t, err)
	assert.Equal(t, path, stream.Source)
	require.Len(t, stream.Modules, 1)

	_, err = DecodeFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
