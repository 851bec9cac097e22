package riblex

import "testing"

func TestLexerBasicTokens(t *testing.T) {
	tests := []struct {
		input    string
		expected []TokenKind
	}{
		{"Format 640 480 1", []TokenKind{TokenRequest, TokenIntLit, TokenIntLit, TokenIntLit, TokenEOF}},
		{`Color [0.25 0.5 0.75]`, []TokenKind{TokenRequest, TokenLeftBrack, TokenFloatLit, TokenFloatLit, TokenFloatLit, TokenRightBrack, TokenEOF}},
		{`Surface "matte"`, []TokenKind{TokenRequest, TokenStringLit, TokenEOF}},
	}

	for _, tt := range tests {
		l := NewLexer([]byte(tt.input))
		toks, err := l.Tokenize()
		if err != nil {
			t.Errorf("input %q: unexpected error: %v", tt.input, err)
			continue
		}
		if len(toks) != len(tt.expected) {
			t.Errorf("input %q: expected %d tokens, got %d", tt.input, len(tt.expected), len(toks))
			continue
		}
		for i, tok := range toks {
			if tok.Kind != tt.expected[i] {
				t.Errorf("input %q: token %d: expected %v, got %v", tt.input, i, tt.expected[i], tok.Kind)
			}
		}
	}
}

func TestLexerStringEscapes(t *testing.T) {
	l := NewLexer([]byte(`"a\nb\"c\\d\101"`))
	toks, err := l.Tokenize()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(toks) != 2 || toks[0].Kind != TokenStringLit {
		t.Fatalf("expected a single string token, got %v", toks)
	}
	want := "a\nb\"c\\dA"
	if toks[0].Text != want {
		t.Fatalf("expected %q, got %q", want, toks[0].Text)
	}
}

func TestLexerComments(t *testing.T) {
	l := NewLexer([]byte("Format 640 480 1 # a trailing comment\n## structured"))
	toks, err := l.Tokenize()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var sawComment, sawStruct bool
	for _, tok := range toks {
		if tok.Kind == TokenComment {
			sawComment = true
		}
		if tok.Kind == TokenStructComment {
			sawStruct = true
		}
	}
	if !sawComment || !sawStruct {
		t.Fatalf("expected both comment kinds, got %v", toks)
	}
}

func TestLexerFixedPointBinary(t *testing.T) {
	// 0204 = opFixedPointLo + 4 => d=1, w=0; one byte payload, value/256.
	src := []byte{0204, 128}
	l := NewLexer(src)
	toks, err := l.Tokenize()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(toks) != 2 || toks[0].Kind != TokenFloatLit {
		t.Fatalf("expected one float token, got %v", toks)
	}
	want := float64(-128) / 256.0
	if toks[0].Float != want {
		t.Fatalf("expected %v, got %v", want, toks[0].Float)
	}
}

func TestLexerEncodedRequestRoundTrip(t *testing.T) {
	// Define encoded request 5 = "Sphere", then reference it.
	src := []byte{0314, 5, '"', 'S', 'p', 'h', 'e', 'r', 'e', '"', 0246, 5}
	l := NewLexer(src)
	toks, err := l.Tokenize()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(toks) != 2 || toks[0].Kind != TokenRequest || toks[0].Text != "Sphere" {
		t.Fatalf("expected decoded request token 'Sphere', got %v", toks)
	}
}

func TestLexerUnknownOpcodeReportsDiagnostic(t *testing.T) {
	var msgs []string
	l := NewLexer([]byte{0xF8})
	l.OnDiagnostic(func(line int, msg string) { msgs = append(msgs, msg) })
	if _, err := l.Tokenize(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(msgs) == 0 {
		t.Fatalf("expected a protocol-botch diagnostic")
	}
}
