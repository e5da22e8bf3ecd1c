package bindgen

import (
	"github.com/teranos/bindgen/syntax"
)

// Scan folds over attrs once. check is OR-accumulated across attributes and
// retrieve fragments are concatenated in encounter order.
func Scan(attrs []syntax.Attribute, check func(syntax.Attribute) bool, retrieve func(syntax.Attribute) (string, bool)) (bool, string) {
	passed := false
	var retrieved string
	for _, attr := range attrs {
		if !passed && check != nil {
			passed = check(attr)
		}
		if retrieve == nil {
			continue
		}
		if s, ok := retrieve(attr); ok {
			retrieved += s
		}
	}
	return passed, retrieved
}

// IsStableLinkage reports whether attr is #[no_mangle] (or #[unsafe(no_mangle)]).
func IsStableLinkage(attr syntax.Attribute) bool {
	m := attr.Meta
	if m.Name == "no_mangle" && m.Kind == syntax.MetaWord {
		return true
	}
	if m.Name == "unsafe" && m.Kind == syntax.MetaList && len(m.List) == 1 {
		inner := m.List[0]
		return inner.Name == "no_mangle" && inner.Kind == syntax.MetaWord
	}
	return false
}

// IsCLayout reports whether attr is exactly #[repr(C)]. Additional
// qualifiers such as repr(C, packed) do not count.
func IsCLayout(attr syntax.Attribute) bool {
	m := attr.Meta
	if m.Name != "repr" || m.Kind != syntax.MetaList || len(m.List) != 1 {
		return false
	}
	inner := m.List[0]
	return inner.Name == "C" && inner.Kind == syntax.MetaWord
}

// HasStableLinkage reports whether any attribute disables symbol mangling.
func HasStableLinkage(attrs []syntax.Attribute) bool {
	ok, _ := Scan(attrs, IsStableLinkage, nil)
	return ok
}

// HasCLayout reports whether any attribute is #[repr(C)].
func HasCLayout(attrs []syntax.Attribute) bool {
	ok, _ := Scan(attrs, IsCLayout, nil)
	return ok
}

// DocFragment returns indent + text + "\n" for a doc attribute. The doc text
// carries its own comment marker and no trailing newline.
func DocFragment(attr syntax.Attribute, indent string) (string, bool) {
	m := attr.Meta
	if m.Name != "doc" || m.Kind != syntax.MetaNameValue || m.Lit.Kind != syntax.LitStr {
		return "", false
	}
	return indent + m.Lit.Value + "\n", true
}

// Docs concatenates every doc fragment in attrs.
func Docs(attrs []syntax.Attribute, indent string) string {
	_, docs := Scan(attrs, nil, func(a syntax.Attribute) (string, bool) {
		return DocFragment(a, indent)
	})
	return docs
}
