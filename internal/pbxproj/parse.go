package pbxproj

import (
	"fmt"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
)

const utf8Header = "// !$*UTF8*$!"

type tokenKind int

const (
	tokenEOF tokenKind = iota
	tokenSymbol
	tokenString
	tokenComment
)

type token struct {
	kind   tokenKind
	text   string
	quoted bool
	pos    int
}

type lexer struct {
	src []byte
	pos int
}

func (l *lexer) next() (token, error) {
	l.skipSpace()
	if l.pos >= len(l.src) {
		return token{kind: tokenEOF, pos: l.pos}, nil
	}
	start := l.pos
	c := l.src[l.pos]
	switch {
	case c == '/' && l.peekByte(1) == '*':
		end := strings.Index(string(l.src[l.pos+2:]), "*/")
		if end < 0 {
			return token{}, l.errorf(start, "unterminated comment")
		}
		text := strings.TrimSpace(string(l.src[l.pos+2 : l.pos+2+end]))
		l.pos += end + 4
		return token{kind: tokenComment, text: text, pos: start}, nil
	case c == '/' && l.peekByte(1) == '/':
		for l.pos < len(l.src) && l.src[l.pos] != '\n' {
			l.pos++
		}
		return l.next()
	case strings.IndexByte("{}()=;,", c) >= 0:
		l.pos++
		return token{kind: tokenSymbol, text: string(c), pos: start}, nil
	case c == '"':
		l.pos++
		for l.pos < len(l.src) {
			switch l.src[l.pos] {
			case '\\':
				l.pos += 2
				continue
			case '"':
				text := string(l.src[start+1 : l.pos])
				l.pos++
				return token{kind: tokenString, text: text, quoted: true, pos: start}, nil
			}
			l.pos++
		}
		return token{}, l.errorf(start, "unterminated string")
	}
	for l.pos < len(l.src) {
		c := l.src[l.pos]
		if isSpace(c) || strings.IndexByte("{}()=;,\"", c) >= 0 {
			break
		}
		if c == '/' && l.peekByte(1) == '*' {
			break
		}
		l.pos++
	}
	return token{kind: tokenString, text: string(l.src[start:l.pos]), pos: start}, nil
}

func (l *lexer) peekByte(offset int) byte {
	if l.pos+offset >= len(l.src) {
		return 0
	}
	return l.src[l.pos+offset]
}

func (l *lexer) skipSpace() {
	for l.pos < len(l.src) && isSpace(l.src[l.pos]) {
		l.pos++
	}
}

func (l *lexer) errorf(pos int, format string, args ...any) error {
	line := 1 + strings.Count(string(l.src[:min(pos, len(l.src))]), "\n")
	return errbuilder.New().
		WithCode(errbuilder.CodeInvalidArgument).
		WithMsg(fmt.Sprintf("pbxproj line %d: %s", line, fmt.Sprintf(format, args...)))
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

type parser struct {
	lex    *lexer
	peeked *token
}

func (p *parser) peek() (token, error) {
	if p.peeked != nil {
		return *p.peeked, nil
	}
	tok, err := p.lex.next()
	if err != nil {
		return token{}, err
	}
	p.peeked = &tok
	return tok, nil
}

func (p *parser) take() (token, error) {
	tok, err := p.peek()
	p.peeked = nil
	return tok, err
}

// skipComments consumes comments that are not attached to a value.
func (p *parser) skipComments() error {
	for {
		tok, err := p.peek()
		if err != nil {
			return err
		}
		if tok.kind != tokenComment {
			return nil
		}
		p.peeked = nil
	}
}

func (p *parser) expect(symbol string) error {
	if err := p.skipComments(); err != nil {
		return err
	}
	tok, err := p.take()
	if err != nil {
		return err
	}
	if tok.kind != tokenSymbol || tok.text != symbol {
		return p.lex.errorf(tok.pos, "expected %q, found %q", symbol, tok.text)
	}
	return nil
}

// trailingComment returns the comment directly following a scalar.
func (p *parser) trailingComment() (string, error) {
	tok, err := p.peek()
	if err != nil {
		return "", err
	}
	if tok.kind != tokenComment {
		return "", nil
	}
	p.peeked = nil
	return tok.text, nil
}

func (p *parser) value() (Value, error) {
	if err := p.skipComments(); err != nil {
		return nil, err
	}
	tok, err := p.take()
	if err != nil {
		return nil, err
	}
	switch {
	case tok.kind == tokenSymbol && tok.text == "{":
		return p.dict()
	case tok.kind == tokenSymbol && tok.text == "(":
		return p.array()
	case tok.kind == tokenString:
		comment, err := p.trailingComment()
		if err != nil {
			return nil, err
		}
		return String{Text: tok.text, Quoted: tok.quoted, Comment: comment}, nil
	case tok.kind == tokenEOF:
		return nil, p.lex.errorf(tok.pos, "unexpected end of file")
	}
	return nil, p.lex.errorf(tok.pos, "unexpected %q", tok.text)
}

func (p *parser) dict() (*Dict, error) {
	d := NewDict()
	for {
		if err := p.skipComments(); err != nil {
			return nil, err
		}
		tok, err := p.take()
		if err != nil {
			return nil, err
		}
		if tok.kind == tokenSymbol && tok.text == "}" {
			return d, nil
		}
		if tok.kind != tokenString {
			return nil, p.lex.errorf(tok.pos, "expected key, found %q", tok.text)
		}
		comment, err := p.trailingComment()
		if err != nil {
			return nil, err
		}
		if err := p.expect("="); err != nil {
			return nil, err
		}
		v, err := p.value()
		if err != nil {
			return nil, err
		}
		if err := p.expect(";"); err != nil {
			return nil, err
		}
		d.Set(tok.text, v)
		d.SetKeyComment(tok.text, comment)
	}
}

func (p *parser) array() (*Array, error) {
	arr := NewArray()
	for {
		if err := p.skipComments(); err != nil {
			return nil, err
		}
		tok, err := p.peek()
		if err != nil {
			return nil, err
		}
		if tok.kind == tokenSymbol && tok.text == ")" {
			p.peeked = nil
			return arr, nil
		}
		v, err := p.value()
		if err != nil {
			return nil, err
		}
		arr.Append(v)
		if err := p.skipComments(); err != nil {
			return nil, err
		}
		tok, err = p.peek()
		if err != nil {
			return nil, err
		}
		if tok.kind == tokenSymbol && tok.text == "," {
			p.peeked = nil
		}
	}
}

// Parse reads a project file.
func Parse(data []byte) (*Project, error) {
	p := &parser{lex: &lexer{src: data}}
	root, err := p.value()
	if err != nil {
		return nil, err
	}
	dict, ok := root.(*Dict)
	if !ok {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("pbxproj root is not a dictionary")
	}
	if _, ok := dict.Child("objects"); !ok {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("pbxproj has no objects")
	}
	return &Project{Root: dict}, nil
}
