package syntax

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/teranos/bindgen/errors"
)

// ParseType parses the source text of a type expression, e.g.
// `*const libc::c_char`, `[u8; 16]` or `extern "C" fn(code: i32) -> bool`.
func ParseType(src string) (*Ty, error) {
	p, err := newParser("type", src)
	if err != nil {
		return nil, err
	}
	ty, err := p.parseTy()
	if err != nil {
		return nil, err
	}
	if err := p.expectEOF(); err != nil {
		return nil, err
	}
	return ty, nil
}

// MustParseType is like ParseType but panics on malformed input.
// Intended for tests and static tables.
func MustParseType(src string) *Ty {
	ty, err := ParseType(src)
	if err != nil {
		panic(err)
	}
	return ty
}

// ParseAttr parses an attribute, with or without the surrounding #[...]:
// `no_mangle`, `repr(C)`, `doc = "/// text"`.
func ParseAttr(src string) (Attribute, error) {
	s := strings.TrimSpace(src)
	if strings.HasPrefix(s, "#[") || strings.HasPrefix(s, "#![") {
		if !strings.HasSuffix(s, "]") {
			return Attribute{}, errors.NewInvalidInputError("cannot parse attribute %q: missing closing ]", src)
		}
		s = strings.TrimPrefix(strings.TrimPrefix(s, "#"), "!")
		s = s[1 : len(s)-1]
	}

	p, err := newParser("attribute", s)
	if err != nil {
		return Attribute{}, err
	}
	meta, err := p.parseMeta()
	if err != nil {
		return Attribute{}, err
	}
	if err := p.expectEOF(); err != nil {
		return Attribute{}, err
	}
	return Attribute{Meta: meta}, nil
}

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokIdent
	tokLifetime
	tokString
	tokNumber
	tokPunct
)

type token struct {
	kind tokenKind
	text string
	pos  int
}

func isIdentStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isIdentPart(r rune) bool {
	return isIdentStart(r) || unicode.IsDigit(r)
}

// identEnd returns the offset just past the identifier characters starting at i.
func identEnd(src string, i int) int {
	for i < len(src) {
		r, size := utf8.DecodeRuneInString(src[i:])
		if r == utf8.RuneError || !isIdentPart(r) {
			break
		}
		i += size
	}
	return i
}

func lex(what, src string) ([]token, error) {
	var toks []token
	i := 0
	for i < len(src) {
		c := src[i]
		r, size := utf8.DecodeRuneInString(src[i:])
		switch {
		case r == utf8.RuneError && size <= 1:
			return nil, errors.NewInvalidInputError("cannot parse %s %q: invalid UTF-8 at offset %d", what, src, i)
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			i++
		case isIdentStart(r):
			start := i
			i = identEnd(src, i+size)
			toks = append(toks, token{tokIdent, src[start:i], start})
		case c >= '0' && c <= '9':
			start := i
			i = identEnd(src, i)
			toks = append(toks, token{tokNumber, src[start:i], start})
		case c == '\'':
			start := i
			i = identEnd(src, i+1)
			if i == start+1 {
				return nil, errors.NewInvalidInputError("cannot parse %s %q: empty lifetime at offset %d", what, src, start)
			}
			toks = append(toks, token{tokLifetime, src[start:i], start})
		case c == '"':
			start := i
			i++
			for i < len(src) && src[i] != '"' {
				if src[i] == '\\' {
					i++
				}
				i++
			}
			if i >= len(src) {
				return nil, errors.NewInvalidInputError("cannot parse %s %q: unterminated string at offset %d", what, src, start)
			}
			i++
			text, err := strconv.Unquote(src[start:i])
			if err != nil {
				return nil, errors.NewInvalidInputError("cannot parse %s %q: bad string literal at offset %d", what, src, start)
			}
			toks = append(toks, token{tokString, text, start})
		case strings.HasPrefix(src[i:], "::"), strings.HasPrefix(src[i:], "->"):
			toks = append(toks, token{tokPunct, src[i : i+2], i})
			i += 2
		case strings.IndexByte("*&[]()<>,;:!=", c) >= 0:
			toks = append(toks, token{tokPunct, string(c), i})
			i++
		default:
			return nil, errors.NewInvalidInputError("cannot parse %s %q: unexpected %q at offset %d", what, src, r, i)
		}
	}
	return append(toks, token{kind: tokEOF, pos: len(src)}), nil
}

type parser struct {
	what string
	src  string
	toks []token
	pos  int
}

func newParser(what, src string) (*parser, error) {
	toks, err := lex(what, src)
	if err != nil {
		return nil, err
	}
	return &parser{what: what, src: src, toks: toks}, nil
}

func (p *parser) peek() token {
	return p.toks[p.pos]
}

func (p *parser) peekAt(n int) token {
	if p.pos+n >= len(p.toks) {
		return p.toks[len(p.toks)-1]
	}
	return p.toks[p.pos+n]
}

func (p *parser) next() token {
	tok := p.toks[p.pos]
	if tok.kind != tokEOF {
		p.pos++
	}
	return tok
}

// accept consumes the next token if it is the punctuation or identifier text.
func (p *parser) accept(text string) bool {
	tok := p.peek()
	if (tok.kind == tokPunct || tok.kind == tokIdent) && tok.text == text {
		p.pos++
		return true
	}
	return false
}

func (p *parser) expect(text string) error {
	if p.accept(text) {
		return nil
	}
	return p.errorf("expected %q", text)
}

func (p *parser) expectEOF() error {
	if p.peek().kind != tokEOF {
		return p.errorf("unexpected trailing input")
	}
	return nil
}

func (p *parser) errorf(format string, args ...interface{}) error {
	tok := p.peek()
	found := tok.text
	if tok.kind == tokEOF {
		found = "end of input"
	}
	return errors.NewInvalidInputError("cannot parse %s %q: %s, found %q at offset %d",
		p.what, p.src, fmt.Sprintf(format, args...), found, tok.pos)
}

func (p *parser) parseTy() (*Ty, error) {
	tok := p.peek()

	if tok.kind == tokPunct {
		switch tok.text {
		case "!":
			p.next()
			return &Ty{Kind: TyNever}, nil
		case "(":
			return p.parseTuple()
		case "*":
			p.next()
			var mutable bool
			switch {
			case p.accept("const"):
			case p.accept("mut"):
				mutable = true
			default:
				return nil, p.errorf("expected const or mut after *")
			}
			elem, err := p.parseTy()
			if err != nil {
				return nil, err
			}
			return &Ty{Kind: TyPtr, Elem: elem, Mutable: mutable}, nil
		case "&":
			p.next()
			ty := &Ty{Kind: TyRef}
			if p.peek().kind == tokLifetime {
				ty.Lifetime = p.next().text
			}
			ty.Mutable = p.accept("mut")
			elem, err := p.parseTy()
			if err != nil {
				return nil, err
			}
			ty.Elem = elem
			return ty, nil
		case "[":
			return p.parseArray()
		case "::":
			return p.parsePath()
		}
		return nil, p.errorf("expected a type")
	}

	if tok.kind != tokIdent {
		return nil, p.errorf("expected a type")
	}
	switch tok.text {
	case "for", "unsafe", "extern", "fn":
		return p.parseBareFn()
	}
	return p.parsePath()
}

func (p *parser) parseTuple() (*Ty, error) {
	if err := p.expect("("); err != nil {
		return nil, err
	}

	var elems []*Ty
	trailing := false
	for !p.accept(")") {
		elem, err := p.parseTy()
		if err != nil {
			return nil, err
		}
		elems = append(elems, elem)
		trailing = p.accept(",")
		if !trailing {
			if err := p.expect(")"); err != nil {
				return nil, err
			}
			break
		}
	}

	// (T) is just a parenthesised T
	if len(elems) == 1 && !trailing {
		return elems[0], nil
	}
	return &Ty{Kind: TyTup, Elems: elems}, nil
}

func (p *parser) parseArray() (*Ty, error) {
	if err := p.expect("["); err != nil {
		return nil, err
	}
	elem, err := p.parseTy()
	if err != nil {
		return nil, err
	}
	if p.accept("]") {
		return &Ty{Kind: TySlice, Elem: elem}, nil
	}
	if err := p.expect(";"); err != nil {
		return nil, err
	}

	var parts []string
	for p.peek().kind != tokEOF && !(p.peek().kind == tokPunct && p.peek().text == "]") {
		parts = append(parts, p.next().text)
	}
	if len(parts) == 0 {
		return nil, p.errorf("expected array length")
	}
	if err := p.expect("]"); err != nil {
		return nil, err
	}
	return &Ty{Kind: TyArray, Elem: elem, Len: strings.Join(parts, " ")}, nil
}

func (p *parser) parseBareFn() (*Ty, error) {
	f := &BareFnTy{Abi: AbiRust}

	if p.accept("for") {
		if err := p.expect("<"); err != nil {
			return nil, err
		}
		for {
			if p.peek().kind != tokLifetime {
				return nil, p.errorf("expected lifetime")
			}
			f.Lifetimes = append(f.Lifetimes, p.next().text)
			if p.accept(">") {
				break
			}
			if err := p.expect(","); err != nil {
				return nil, err
			}
		}
	}
	f.Unsafe = p.accept("unsafe")
	if p.accept("extern") {
		f.Abi = AbiC
		if p.peek().kind == tokString {
			f.Abi = Abi(p.next().text)
		}
	}
	if err := p.expect("fn"); err != nil {
		return nil, err
	}
	if err := p.expect("("); err != nil {
		return nil, err
	}

	for !p.accept(")") {
		var arg Arg
		if p.peek().kind == tokIdent && p.peekAt(1).kind == tokPunct && p.peekAt(1).text == ":" {
			arg.Pat = p.next().text
			p.next()
		}
		ty, err := p.parseTy()
		if err != nil {
			return nil, err
		}
		arg.Ty = ty
		f.Decl.Inputs = append(f.Decl.Inputs, arg)
		if !p.accept(",") {
			if err := p.expect(")"); err != nil {
				return nil, err
			}
			break
		}
	}

	if p.accept("->") {
		out, err := p.parseTy()
		if err != nil {
			return nil, err
		}
		f.Decl.Output = out
	}
	return &Ty{Kind: TyBareFn, BareFn: f}, nil
}

func (p *parser) parsePath() (*Ty, error) {
	var path Path
	path.Global = p.accept("::")

	for {
		tok := p.peek()
		if tok.kind != tokIdent {
			return nil, p.errorf("expected identifier")
		}
		p.next()
		seg := PathSegment{Ident: tok.text}

		if p.accept("<") {
			for {
				arg, err := p.parseTy()
				if err != nil {
					return nil, err
				}
				seg.Args = append(seg.Args, arg)
				if p.accept(">") {
					break
				}
				if err := p.expect(","); err != nil {
					return nil, err
				}
			}
		}
		path.Segments = append(path.Segments, seg)

		if !p.accept("::") {
			break
		}
	}
	return &Ty{Kind: TyPath, Path: path}, nil
}

func (p *parser) parseMeta() (MetaItem, error) {
	tok := p.peek()
	if tok.kind != tokIdent && tok.kind != tokNumber {
		return MetaItem{}, p.errorf("expected attribute name")
	}
	p.next()
	meta := MetaItem{Name: tok.text, Kind: MetaWord}

	switch {
	case p.accept("("):
		meta.Kind = MetaList
		for !p.accept(")") {
			nested, err := p.parseMeta()
			if err != nil {
				return MetaItem{}, err
			}
			meta.List = append(meta.List, nested)
			if !p.accept(",") {
				if err := p.expect(")"); err != nil {
					return MetaItem{}, err
				}
				break
			}
		}
	case p.accept("="):
		meta.Kind = MetaNameValue
		lit := p.peek()
		switch {
		case lit.kind == tokString:
			meta.Lit = Lit{Kind: LitStr, Value: lit.text}
		case lit.kind == tokNumber:
			meta.Lit = Lit{Kind: LitInt, Value: lit.text}
		case lit.kind == tokIdent && (lit.text == "true" || lit.text == "false"):
			meta.Lit = Lit{Kind: LitBool, Value: lit.text}
		default:
			return MetaItem{}, p.errorf("expected literal after =")
		}
		p.next()
	}
	return meta, nil
}
