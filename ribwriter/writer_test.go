package ribwriter

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rmanicore/ri/diag"
	"github.com/rmanicore/ri/dispatch"
	"github.com/rmanicore/ri/riblex"
	"github.com/rmanicore/ri/ribparse"
)

// run parses src and dispatches every request into a fresh Writer,
// returning the serialized text.
func run(t *testing.T, src string) string {
	t.Helper()
	tokens, err := riblex.NewLexer([]byte(src)).Tokenize()
	require.NoError(t, err)
	requests, err := ribparse.New(tokens).Parse()
	require.NoError(t, err)

	var out strings.Builder
	w := NewWriter(&out)
	ctx := dispatch.NewContext(w, diag.IgnoreReporter{})
	table := dispatch.NewTable()
	for _, req := range requests {
		require.NoError(t, table.Dispatch(ctx, req), "dispatching %s", req.Name)
	}
	require.NoError(t, w.Err())
	return out.String()
}

func TestWriterReproducesRequests(t *testing.T) {
	src := strings.Join([]string{
		`Format 640 480 1`,
		`WorldBegin`,
		`Color [0.25 0.5 0.75]`,
		`Translate 0 0 5`,
		`Sphere 1 -1 1 360`,
		`WorldEnd`,
	}, "\n")
	got := run(t, src)

	want := strings.Join([]string{
		"Format 640 480 1",
		"WorldBegin",
		"\tColor [0.25 0.5 0.75]",
		"\tTranslate 0 0 5",
		"\tSphere 1 -1 1 360",
		"WorldEnd",
		"",
	}, "\n")
	assert.Equal(t, want, got)
}

// Serialized output must parse back into the identical request sequence:
// the writer is the identity on the request stream.
func TestWriterRoundTrip(t *testing.T) {
	src := strings.Join([]string{
		`Format 640 480 1`,
		`Projection "perspective" "fov" [30]`,
		`WorldBegin`,
		`Surface "plastic" "Ka" [0.5]`,
		`Polygon "P" [0 0 0 1 0 0 1 1 0 0 1 0]`,
		`SubdivisionMesh "catmull-clark" [4] [0 1 2 3] ["interpolateboundary"] [0 0] [] [] "P" [0 0 0 1 0 0 1 1 0 0 1 0]`,
		`WorldEnd`,
	}, "\n")

	once := run(t, src)
	twice := run(t, once)
	assert.Equal(t, once, twice)
}

func TestStringEscapeRoundTrip(t *testing.T) {
	tests := []string{
		"plain",
		"with \n newline",
		"quote \" and backslash \\",
		"tab\tand\rreturn",
		"octal \x01 byte",
	}
	for _, s := range tests {
		quoted := quote(s)
		tokens, err := riblex.NewLexer([]byte(quoted)).Tokenize()
		require.NoError(t, err)
		require.GreaterOrEqual(t, len(tokens), 1)
		assert.Equal(t, riblex.TokenStringLit, tokens[0].Kind)
		assert.Equal(t, s, tokens[0].Text, "quoting %q", s)
	}
}

func TestArchiveRecordMarkers(t *testing.T) {
	var out strings.Builder
	w := NewWriter(&out)
	require.NoError(t, w.ArchiveRecord("comment", "a plain comment"))
	require.NoError(t, w.ArchiveRecord("structure", "RenderMan RIB-Structure 1.1"))
	require.NoError(t, w.ArchiveRecord("verbatim", "raw text"))
	require.NoError(t, w.ArchiveRecord("comment", "# already marked"))

	assert.Equal(t, strings.Join([]string{
		"#a plain comment",
		"##RenderMan RIB-Structure 1.1",
		"raw text",
		"# already marked",
		"",
	}, "\n"), out.String())
}
