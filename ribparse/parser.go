// Package ribparse implements the RIB parser: token stream to
// (request-name, argument-list) request framing, with one token of
// look-ahead and deferred-comment reordering.
package ribparse

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/rmanicore/ri/param"
	"github.com/rmanicore/ri/riblex"
)

// Request is one parsed (request-name, argument-list) frame, plus any
// comments whose tokens were interleaved with its arguments.
type Request struct {
	Name     string
	Line     int
	Args     []param.Value
	Comments []Comment
}

// Comment is a deferred "#"/"##" comment, emitted immediately after the
// request whose arguments it was interleaved with.
type Comment struct {
	Structured bool
	Text       string
	Line       int
}

// Parser consumes a riblex token stream and produces Request frames.
type Parser struct {
	tokens []riblex.Token
	pos    int

	// SubstituteVars enables "$name" scanning inside strings.
	SubstituteVars bool
	Vars           map[string]string

	onDiagnostic func(line int, msg string)
}

// New creates a parser over the given pre-lexed token stream.
func New(tokens []riblex.Token) *Parser {
	return &Parser{tokens: tokens, Vars: make(map[string]string)}
}

// OnDiagnostic installs a callback invoked for every recoverable parse
// error (unbalanced bracket, stray token).
func (p *Parser) OnDiagnostic(f func(line int, msg string)) { p.onDiagnostic = f }

func (p *Parser) report(line int, msg string) {
	if p.onDiagnostic != nil {
		p.onDiagnostic(line, msg)
	}
}

func (p *Parser) peek() riblex.Token {
	if p.pos >= len(p.tokens) {
		return riblex.Token{Kind: riblex.TokenEOF}
	}
	return p.tokens[p.pos]
}

func (p *Parser) advance() riblex.Token {
	t := p.peek()
	if p.pos < len(p.tokens) {
		p.pos++
	}
	return t
}

// Parse consumes the entire token stream, returning every request frame in
// order. A request frame's deferred comments follow it in the list, never
// splitting its own arguments.
func (p *Parser) Parse() ([]Request, error) {
	var out []Request
	var pendingComments []Comment

	for {
		tok := p.peek()
		if tok.Kind == riblex.TokenEOF {
			break
		}
		switch tok.Kind {
		case riblex.TokenComment, riblex.TokenStructComment:
			p.advance()
			pendingComments = append(pendingComments, Comment{
				Structured: tok.Kind == riblex.TokenStructComment,
				Text:       tok.Text,
				Line:       tok.Line,
			})
			continue
		case riblex.TokenRequest:
			req, comments, err := p.parseRequest()
			if err != nil {
				return nil, err
			}
			req.Comments = append(pendingComments, comments...)
			pendingComments = nil
			out = append(out, req)
			continue
		default:
			p.report(tok.Line, fmt.Sprintf("unexpected token %s outside a request", tok.Kind))
			p.advance()
			continue
		}
	}
	return out, nil
}

// parseRequest accumulates arguments until the next request token or EOF,
// tracking bracket nesting and queuing any comments interleaved with the
// arguments so they can be emitted after the request.
func (p *Parser) parseRequest() (Request, []Comment, error) {
	tok := p.advance()
	req := Request{Name: tok.Text, Line: tok.Line}
	var comments []Comment

	for {
		t := p.peek()
		switch t.Kind {
		case riblex.TokenEOF, riblex.TokenRequest:
			return req, comments, nil
		case riblex.TokenComment, riblex.TokenStructComment:
			p.advance()
			comments = append(comments, Comment{
				Structured: t.Kind == riblex.TokenStructComment,
				Text:       t.Text,
				Line:       t.Line,
			})
		case riblex.TokenIntLit:
			p.advance()
			req.Args = append(req.Args, param.NewInt(t.Line, false, t.Int))
		case riblex.TokenFloatLit:
			p.advance()
			req.Args = append(req.Args, param.NewFloat(t.Line, false, t.Float))
		case riblex.TokenStringLit:
			p.advance()
			req.Args = append(req.Args, param.NewString(t.Line, false, p.substitute(t.Text)))
		case riblex.TokenLeftBrack:
			v, err := p.parseArray()
			if err != nil {
				return req, comments, err
			}
			req.Args = append(req.Args, v)
		case riblex.TokenRightBrack:
			p.report(t.Line, "unbalanced ']' with no matching '['")
			p.advance()
		default:
			p.report(t.Line, fmt.Sprintf("unexpected token %s in argument list", t.Kind))
			p.advance()
		}
	}
}

// parseArray consumes a bracket-delimited homogeneous array. The opening
// '[' has already been peeked but not consumed.
func (p *Parser) parseArray() (param.Value, error) {
	open := p.advance() // consume '['
	var ints []int64
	var floats []float64
	var strs []string
	kind := -1

	for {
		t := p.peek()
		switch t.Kind {
		case riblex.TokenRightBrack:
			p.advance()
			switch kind {
			case int(param.KindString):
				return param.NewString(open.Line, true, strs...), nil
			case int(param.KindFloat):
				return param.NewFloat(open.Line, true, floats...), nil
			default:
				return param.NewInt(open.Line, true, ints...), nil
			}
		case riblex.TokenEOF, riblex.TokenRequest:
			p.report(open.Line, "unbalanced '[' with no matching ']'")
			switch kind {
			case int(param.KindString):
				return param.NewString(open.Line, true, strs...), nil
			case int(param.KindFloat):
				return param.NewFloat(open.Line, true, floats...), nil
			default:
				return param.NewInt(open.Line, true, ints...), nil
			}
		case riblex.TokenIntLit:
			p.advance()
			if kind == int(param.KindFloat) {
				floats = append(floats, float64(t.Int))
			} else {
				kind = int(param.KindInt)
				ints = append(ints, t.Int)
			}
		case riblex.TokenFloatLit:
			p.advance()
			if kind == int(param.KindInt) {
				for _, n := range ints {
					floats = append(floats, float64(n))
				}
				ints = nil
			}
			kind = int(param.KindFloat)
			floats = append(floats, t.Float)
		case riblex.TokenStringLit:
			p.advance()
			kind = int(param.KindString)
			strs = append(strs, p.substitute(t.Text))
		default:
			p.report(t.Line, fmt.Sprintf("unexpected token %s inside array", t.Kind))
			p.advance()
		}
	}
}

var varRef = regexp.MustCompile(`\$\{?[A-Za-z_][A-Za-z0-9_]*\}?`)

// substitute rewrites "$name" and "${name}" references using this parser's
// Vars table when SubstituteVars is enabled. Unknown variables preserve the
// literal text. The table belongs to the parser; it is not shared with
// other parsers or contexts.
func (p *Parser) substitute(s string) string {
	if !p.SubstituteVars {
		return s
	}
	return varRef.ReplaceAllStringFunc(s, func(ref string) string {
		name := strings.Trim(ref, "${}")
		if v, ok := p.Vars[name]; ok {
			return v
		}
		return ref
	})
}
