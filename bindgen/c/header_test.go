package c

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/bindgen/bindgen"
)

func TestHeaderName(t *testing.T) {
	sep := string(filepath.Separator)
	tests := []struct {
		module []string
		lib    string
		want   string
	}{
		{[]string{"ffi"}, "backend", "backend" + sep + "backend.h"},
		{[]string{"ffi", "net"}, "backend", "backend" + sep + "net.h"},
		{[]string{"ffi", "net", "tcp"}, "safe_app", "safe_app" + sep + "net" + sep + "tcp.h"},
		{[]string{"other"}, "backend", "other.h"},
		{[]string{"other", "ffi"}, "backend", "other" + sep + "ffi.h"},
	}

	for _, tt := range tests {
		t.Run(strings.Join(tt.module, "::"), func(t *testing.T) {
			got, err := HeaderName(tt.module, tt.lib)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestHeaderName_Invalid(t *testing.T) {
	_, err := HeaderName(nil, "backend")
	assert.True(t, bindgen.IsKind(err, bindgen.KindInvalidModule))

	_, err = HeaderName([]string{"ffi", ""}, "backend")
	assert.True(t, bindgen.IsKind(err, bindgen.KindInvalidModule))
}

func TestHeaderName_DoesNotAliasInput(t *testing.T) {
	module := []string{"ffi"}
	_, err := HeaderName(module, "backend")
	require.NoError(t, err)
	assert.Equal(t, []string{"ffi"}, module)
}

func TestSanitiseID(t *testing.T) {
	assert.Equal(t, "backendneth", SanitiseID("backend/net.h"))
	assert.Equal(t, "backend_root", SanitiseID("backend_root"))
	assert.Equal(t, "my_libnet2h", SanitiseID(`my-lib\net2.h`))
	assert.Equal(t, "", SanitiseID("./-"))
	assert.Equal(t, "h", SanitiseID("ü.h"))
}

func TestWrapHeader(t *testing.T) {
	got := wrapHeader("typedef int32_t Code;\n\n", "backend/codes.h")
	want := `#ifndef bindgen_backendcodesh
#define bindgen_backendcodesh

#include <stdint.h>
#include <stdbool.h>

#ifdef __cplusplus
extern "C" {
#endif

typedef int32_t Code;

#ifdef __cplusplus
}
#endif

#endif
`
	assert.Equal(t, want, got)
}
