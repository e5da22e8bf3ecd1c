package syntax

import (
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/teranos/bindgen/errors"
)

// otherKinds are item kinds accepted in a stream but never translated.
var otherKinds = map[string]bool{
	"const":        true,
	"static":       true,
	"use":          true,
	"impl":         true,
	"mod":          true,
	"trait":        true,
	"union":        true,
	"macro":        true,
	"extern_crate": true,
}

type streamDoc struct {
	Modules []moduleDoc `yaml:"modules"`
}

type moduleDoc struct {
	Path  []string    `yaml:"path"`
	Items []yaml.Node `yaml:"items"`
}

type itemDoc struct {
	Kind     string       `yaml:"kind"`
	Name     string       `yaml:"name"`
	Line     int          `yaml:"line"`
	Attrs    []string     `yaml:"attrs"`
	Docs     []string     `yaml:"docs"`
	Fields   *[]yaml.Node `yaml:"fields"`
	Tuple    *[]string    `yaml:"tuple"`
	Variants []yaml.Node  `yaml:"variants"`
	Type     string       `yaml:"type"`
	Generics []string     `yaml:"generics"`
	Abi      string       `yaml:"abi"`
	Unsafe   bool         `yaml:"unsafe"`
	Params   []paramDoc   `yaml:"params"`
	Returns  string       `yaml:"returns"`
}

type fieldDoc struct {
	Name  string   `yaml:"name"`
	Type  string   `yaml:"type"`
	Attrs []string `yaml:"attrs"`
	Docs  []string `yaml:"docs"`
}

type variantDoc struct {
	Name   string       `yaml:"name"`
	Value  string       `yaml:"value"`
	Attrs  []string     `yaml:"attrs"`
	Docs   []string     `yaml:"docs"`
	Fields *[]yaml.Node `yaml:"fields"`
}

type paramDoc struct {
	Name string `yaml:"name"`
	Type string `yaml:"type"`
}

// DecodeFile reads a declaration stream from a YAML file.
func DecodeFile(path string) (*Stream, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open declaration stream %s", path)
	}
	defer f.Close()
	return DecodeStream(f, path)
}

// DecodeStream reads a YAML declaration stream. source names the input in spans.
func DecodeStream(r io.Reader, source string) (*Stream, error) {
	var doc streamDoc
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if err == io.EOF {
			return &Stream{Source: source}, nil
		}
		return nil, errors.Mark(errors.Wrapf(err, "failed to decode declaration stream %s", source), errors.ErrInvalidInput)
	}

	d := decoder{source: source}
	stream := &Stream{Source: source}
	for i, md := range doc.Modules {
		if len(md.Path) == 0 {
			return nil, errors.NewInvalidInputError("%s: module %d has an empty path", source, i)
		}
		mod := Module{Path: md.Path}
		for j := range md.Items {
			item, err := d.item(&md.Items[j])
			if err != nil {
				return nil, errors.Wrapf(err, "module %s", mod.PathString())
			}
			mod.Items = append(mod.Items, item)
		}
		stream.Modules = append(stream.Modules, mod)
	}
	return stream, nil
}

type decoder struct {
	source string
}

func (d decoder) span(n *yaml.Node) Span {
	return Span{File: d.source, Line: n.Line, Col: n.Column}
}

func (d decoder) errorf(span Span, format string, args ...interface{}) error {
	return errors.WithMessage(errors.NewInvalidInputError(format, args...), span.String())
}

func (d decoder) item(n *yaml.Node) (*Item, error) {
	span := d.span(n)
	var doc itemDoc
	if err := n.Decode(&doc); err != nil {
		return nil, d.errorf(span, "malformed item: %v", err)
	}
	if doc.Line > 0 {
		span = Span{File: d.source, Line: doc.Line}
	}
	if doc.Name == "" {
		return nil, d.errorf(span, "item of kind %q has no name", doc.Kind)
	}

	attrs, err := d.attrs(span, doc.Docs, doc.Attrs)
	if err != nil {
		return nil, errors.Wrapf(err, "item %s", doc.Name)
	}
	item := &Item{Ident: doc.Name, Span: span, Attrs: attrs}

	generics := splitGenerics(doc.Generics)

	switch doc.Kind {
	case "type":
		ty, err := d.ty(span, doc.Type)
		if err != nil {
			return nil, errors.Wrapf(err, "type %s", doc.Name)
		}
		item.Node = &TyAlias{Ty: ty, Generics: generics}

	case "enum":
		en := &Enum{Generics: generics}
		for i := range doc.Variants {
			v, err := d.variant(&doc.Variants[i])
			if err != nil {
				return nil, errors.Wrapf(err, "enum %s", doc.Name)
			}
			en.Variants = append(en.Variants, v)
		}
		item.Node = en

	case "struct":
		var data VariantData
		switch {
		case doc.Fields != nil && doc.Tuple != nil:
			return nil, d.errorf(span, "struct %s has both fields and tuple", doc.Name)
		case doc.Fields != nil:
			data, err = d.fields(span, *doc.Fields)
		case doc.Tuple != nil:
			data, err = d.tuple(span, *doc.Tuple)
		}
		if err != nil {
			return nil, errors.Wrapf(err, "struct %s", doc.Name)
		}
		item.Node = &Struct{Data: data, Generics: generics}

	case "fn":
		fn := &Fn{Abi: AbiRust, Unsafe: doc.Unsafe, Generics: generics}
		if doc.Abi != "" {
			fn.Abi = Abi(doc.Abi)
		}
		for _, p := range doc.Params {
			ty, err := d.ty(span, p.Type)
			if err != nil {
				return nil, errors.Wrapf(err, "fn %s parameter %s", doc.Name, p.Name)
			}
			fn.Decl.Inputs = append(fn.Decl.Inputs, Arg{Pat: p.Name, Ty: ty})
		}
		if doc.Returns != "" {
			ty, err := d.ty(span, doc.Returns)
			if err != nil {
				return nil, errors.Wrapf(err, "fn %s return type", doc.Name)
			}
			fn.Decl.Output = ty
		}
		item.Node = fn

	default:
		if !otherKinds[doc.Kind] {
			return nil, d.errorf(span, "unknown item kind %q for %s", doc.Kind, doc.Name)
		}
		item.Node = &Other{Kind: doc.Kind}
	}
	return item, nil
}

func (d decoder) variant(n *yaml.Node) (Variant, error) {
	span := d.span(n)
	var doc variantDoc
	if err := n.Decode(&doc); err != nil {
		return Variant{}, d.errorf(span, "malformed variant: %v", err)
	}
	if doc.Name == "" {
		return Variant{}, d.errorf(span, "variant has no name")
	}
	attrs, err := d.attrs(span, doc.Docs, doc.Attrs)
	if err != nil {
		return Variant{}, errors.Wrapf(err, "variant %s", doc.Name)
	}
	v := Variant{Ident: doc.Name, Span: span, Attrs: attrs, Discriminant: doc.Value}
	if doc.Fields != nil {
		v.Data, err = d.fields(span, *doc.Fields)
		if err != nil {
			return Variant{}, errors.Wrapf(err, "variant %s", doc.Name)
		}
	}
	return v, nil
}

// fields decodes a field list. Mapping entries are named fields; plain
// scalars are positional and make the data a tuple.
func (d decoder) fields(span Span, nodes []yaml.Node) (VariantData, error) {
	data := VariantData{Kind: DataStruct}
	if len(nodes) > 0 && nodes[0].Kind == yaml.ScalarNode {
		data.Kind = DataTuple
	}

	for i := range nodes {
		n := &nodes[i]
		fspan := d.span(n)
		switch {
		case n.Kind == yaml.ScalarNode && data.Kind == DataTuple:
			ty, err := d.ty(fspan, n.Value)
			if err != nil {
				return VariantData{}, err
			}
			data.Fields = append(data.Fields, StructField{Span: fspan, Ty: ty})

		case n.Kind == yaml.MappingNode && data.Kind == DataStruct:
			var fd fieldDoc
			if err := n.Decode(&fd); err != nil {
				return VariantData{}, d.errorf(fspan, "malformed field: %v", err)
			}
			if fd.Name == "" {
				return VariantData{}, d.errorf(fspan, "named field without a name")
			}
			ty, err := d.ty(fspan, fd.Type)
			if err != nil {
				return VariantData{}, errors.Wrapf(err, "field %s", fd.Name)
			}
			attrs, err := d.attrs(fspan, fd.Docs, fd.Attrs)
			if err != nil {
				return VariantData{}, errors.Wrapf(err, "field %s", fd.Name)
			}
			data.Fields = append(data.Fields, StructField{Ident: fd.Name, Span: fspan, Attrs: attrs, Ty: ty})

		default:
			return VariantData{}, d.errorf(fspan, "cannot mix named and positional fields")
		}
	}
	return data, nil
}

func (d decoder) tuple(span Span, types []string) (VariantData, error) {
	data := VariantData{Kind: DataTuple}
	for _, src := range types {
		ty, err := d.ty(span, src)
		if err != nil {
			return VariantData{}, err
		}
		data.Fields = append(data.Fields, StructField{Span: span, Ty: ty})
	}
	return data, nil
}

func (d decoder) ty(span Span, src string) (*Ty, error) {
	if strings.TrimSpace(src) == "" {
		return nil, d.errorf(span, "missing type")
	}
	ty, err := ParseType(src)
	if err != nil {
		return nil, errors.WithMessage(err, span.String())
	}
	setSpan(ty, span)
	return ty, nil
}

// attrs builds the attribute list: doc shorthand first, then explicit attributes.
func (d decoder) attrs(span Span, docs, srcs []string) ([]Attribute, error) {
	var attrs []Attribute
	for _, text := range docs {
		a := DocAttribute("///" + text)
		a.Span = span
		attrs = append(attrs, a)
	}
	for _, src := range srcs {
		a, err := ParseAttr(src)
		if err != nil {
			return nil, errors.WithMessage(err, span.String())
		}
		a.Span = span
		attrs = append(attrs, a)
	}
	return attrs, nil
}

func splitGenerics(params []string) Generics {
	var g Generics
	for _, p := range params {
		if strings.HasPrefix(p, "'") {
			g.Lifetimes = append(g.Lifetimes, p)
		} else {
			g.Params = append(g.Params, p)
		}
	}
	return g
}

func setSpan(t *Ty, span Span) {
	if t == nil {
		return
	}
	t.Span = span
	setSpan(t.Elem, span)
	for _, e := range t.Elems {
		setSpan(e, span)
	}
	for _, seg := range t.Path.Segments {
		for _, a := range seg.Args {
			setSpan(a, span)
		}
	}
	if t.BareFn != nil {
		for _, in := range t.BareFn.Decl.Inputs {
			setSpan(in.Ty, span)
		}
		setSpan(t.BareFn.Decl.Output, span)
	}
}
