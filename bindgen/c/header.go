package c

import (
	"path/filepath"
	"strings"

	"github.com/teranos/bindgen/bindgen"
	"github.com/teranos/bindgen/syntax"
)

// RootModule is the module name that stands for the library root.
const RootModule = "ffi"

const includes = "#include <stdint.h>\n#include <stdbool.h>\n\n"

// HeaderName maps a module path to its header path. The root module is
// renamed to libName, and the root module itself maps to <lib>/<lib>.h so
// it never collides with the aggregate <lib>.h.
func HeaderName(module []string, libName string) (string, error) {
	if len(module) == 0 {
		return "", bindgen.NewBug(bindgen.KindInvalidModule, syntax.Span{}, "cannot name a header for an empty module path")
	}

	parts := append([]string(nil), module...)
	if parts[0] == RootModule {
		parts[0] = libName
		if len(parts) == 1 {
			parts = append(parts, libName)
		}
	}
	for _, p := range parts {
		if p == "" {
			return "", bindgen.NewError(bindgen.KindInvalidModule, syntax.Span{},
				"module path %q has an empty segment", strings.Join(module, "::"))
		}
	}
	return strings.Join(parts, string(filepath.Separator)) + ".h", nil
}

// SanitiseID keeps only [A-Za-z0-9_] so id can be used in a macro name.
func SanitiseID(id string) string {
	var sb strings.Builder
	sb.Grow(len(id))
	for _, r := range id {
		if r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

// wrapExtern gives code C linkage when compiled as C++.
func wrapExtern(code string) string {
	return "#ifdef __cplusplus\nextern \"C\" {\n#endif\n\n" +
		code +
		"\n\n#ifdef __cplusplus\n}\n#endif\n"
}

// wrapGuard wraps code in an include guard keyed by the sanitised id.
func wrapGuard(code, id string) string {
	guard := "bindgen_" + SanitiseID(id)
	return "#ifndef " + guard + "\n#define " + guard + "\n\n" + code + "\n#endif\n"
}

// wrapHeader produces the final text of one module header.
func wrapHeader(body, header string) string {
	return wrapGuard(includes+wrapExtern(strings.TrimRight(body, "\n")), header)
}
