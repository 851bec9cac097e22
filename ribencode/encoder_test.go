package ribencode

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rmanicore/ri/backend"
	"github.com/rmanicore/ri/diag"
	"github.com/rmanicore/ri/dispatch"
	"github.com/rmanicore/ri/riblex"
	"github.com/rmanicore/ri/ribparse"
)

// tokensOf lexes src and strips EOF/comment tokens for comparison.
func tokensOf(t *testing.T, src []byte) []riblex.Token {
	t.Helper()
	tokens, err := riblex.NewLexer(src).Tokenize()
	require.NoError(t, err)
	out := tokens[:0]
	for _, tok := range tokens {
		switch tok.Kind {
		case riblex.TokenEOF, riblex.TokenComment, riblex.TokenStructComment:
		default:
			out = append(out, tok)
		}
	}
	return out
}

// assertEquivalentTokens compares two token streams, treating an integer
// literal and a float literal of the same value as equal: binary
// fixed-point numbers always decode as floats.
func assertEquivalentTokens(t *testing.T, want, got []riblex.Token) {
	t.Helper()
	require.Equal(t, len(want), len(got), "token count")
	for i := range want {
		a, b := want[i], got[i]
		numericA := a.Kind == riblex.TokenIntLit || a.Kind == riblex.TokenFloatLit
		numericB := b.Kind == riblex.TokenIntLit || b.Kind == riblex.TokenFloatLit
		if numericA && numericB {
			assert.Equal(t, numValue(a), numValue(b), "token %d", i)
			continue
		}
		assert.Equal(t, a.Kind, b.Kind, "token %d kind", i)
		assert.Equal(t, a.Text, b.Text, "token %d text", i)
	}
}

func numValue(tok riblex.Token) float64 {
	if tok.Kind == riblex.TokenIntLit {
		return float64(tok.Int)
	}
	return tok.Float
}

// dispatchInto parses ASCII src and drives every request into b.
func dispatchInto(t *testing.T, src string, b backend.Backend) {
	t.Helper()
	tokens, err := riblex.NewLexer([]byte(src)).Tokenize()
	require.NoError(t, err)
	requests, err := ribparse.New(tokens).Parse()
	require.NoError(t, err)
	ctx := dispatch.NewContext(b, diag.IgnoreReporter{})
	table := dispatch.NewTable()
	for _, req := range requests {
		require.NoError(t, table.Dispatch(ctx, req), "dispatching %s", req.Name)
	}
}

// Encoding an ASCII document with the binary rules then decoding yields an
// equivalent token stream.
func TestBinaryASCIIRoundTrip(t *testing.T) {
	src := `Format 640 480 1
WorldBegin
Color [0.25 0.5 0.75]
Translate 0 0 5.125
Sphere 1 -1 1 360
Surface "plastic" "Ka" [0.5]
WorldEnd
`
	var bin bytes.Buffer
	enc := NewEncoder(&bin)
	dispatchInto(t, src, enc)
	require.NoError(t, enc.Err())

	assertEquivalentTokens(t, tokensOf(t, []byte(src)), tokensOf(t, bin.Bytes()))
}

// A request name is defined once and referenced by its one-byte index on
// every later use.
func TestRequestInterning(t *testing.T) {
	var bin bytes.Buffer
	enc := NewEncoder(&bin)
	require.NoError(t, enc.WorldBegin())
	require.NoError(t, enc.Sphere(1, -1, 1, 360, nil))
	require.NoError(t, enc.Sphere(2, -2, 2, 180, nil))
	require.NoError(t, enc.WorldEnd())

	assert.Equal(t, 1, bytes.Count(bin.Bytes(), []byte("Sphere")),
		"the request name appears only in its define record")

	toks := tokensOf(t, bin.Bytes())
	var names []string
	for _, tok := range toks {
		if tok.Kind == riblex.TokenRequest {
			names = append(names, tok.Text)
		}
	}
	assert.Equal(t, []string{"WorldBegin", "Sphere", "Sphere", "WorldEnd"}, names)
}

func TestIntegerWidths(t *testing.T) {
	tests := []struct {
		n    int64
		want int // payload bytes after the opcode
	}{
		{0, 1}, {127, 1}, {-128, 1},
		{128, 2}, {-129, 2}, {32767, 2},
		{32768, 3}, {1 << 22, 3},
		{1 << 23, 4}, {-(1 << 31), 4},
	}
	for _, tt := range tests {
		var bin bytes.Buffer
		c := newCoder(&bin)
		c.integer(tt.n)
		require.NoError(t, c.err)
		require.Equal(t, tt.want+1, bin.Len(), "encoding %d", tt.n)

		toks := tokensOf(t, bin.Bytes())
		require.Len(t, toks, 1)
		assert.Equal(t, float64(tt.n), toks[0].Float, "decoding %d", tt.n)
	}
}

func TestStringForms(t *testing.T) {
	long := string(bytes.Repeat([]byte("x"), 300))
	for _, s := range []string{"", "short", "a string of sixteen", long} {
		var bin bytes.Buffer
		c := newCoder(&bin)
		c.str(s)
		require.NoError(t, c.err)

		toks := tokensOf(t, bin.Bytes())
		require.Len(t, toks, 1)
		assert.Equal(t, riblex.TokenStringLit, toks[0].Kind)
		assert.Equal(t, s, toks[0].Text)
	}
}

// An encoded document drives the backend identically to its ASCII
// rendition: the binary layer is invisible above the lexer.
func TestEncodedStreamDispatch(t *testing.T) {
	src := `WorldBegin
Sphere 1 -1 1 360
WorldEnd
`
	var bin bytes.Buffer
	dispatchInto(t, src, NewEncoder(&bin))

	fromASCII := backend.NewRecorder()
	dispatchInto(t, src, fromASCII)

	fromBinary := backend.NewRecorder()
	tokens, err := riblex.NewLexer(bin.Bytes()).Tokenize()
	require.NoError(t, err)
	requests, err := ribparse.New(tokens).Parse()
	require.NoError(t, err)
	ctx := dispatch.NewContext(fromBinary, diag.IgnoreReporter{})
	table := dispatch.NewTable()
	for _, req := range requests {
		require.NoError(t, table.Dispatch(ctx, req))
	}

	assert.Equal(t, fromASCII.Calls, fromBinary.Calls)
}
