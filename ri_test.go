package ri

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rmanicore/ri/backend"
	"github.com/rmanicore/ri/diag"
)

// collectReporter gathers diagnostics for assertions.
type collectReporter struct {
	diags []diag.Diagnostic
}

func (c *collectReporter) HandleError(d diag.Diagnostic) { c.diags = append(c.diags, d) }

func process(t *testing.T, src string) *backend.Recorder {
	t.Helper()
	rec := backend.NewRecorder()
	ctx := NewContext(rec, Options{Reporter: diag.IgnoreReporter{}})
	require.NoError(t, ctx.Process("test.rib", []byte(src)))
	return rec
}

func TestFormatRequest(t *testing.T) {
	rec := process(t, "Format 640 480 1")
	require.Len(t, rec.Calls, 1)
	assert.Equal(t, "format", rec.Calls[0].Method)
	assert.Equal(t, []any{640.0, 480.0, 1.0}, rec.Calls[0].Args)
}

func TestColorWithDefaultSamples(t *testing.T) {
	rec := process(t, "WorldBegin\nColor [0.25 0.5 0.75]\nWorldEnd")
	require.Len(t, rec.Calls, 3)
	assert.Equal(t, "color", rec.Calls[1].Method)
	assert.Equal(t, []any{[]float64{0.25, 0.5, 0.75}}, rec.Calls[1].Args)
}

func TestColorSampleCountMismatchIsError(t *testing.T) {
	rec := backend.NewRecorder()
	reporter := &collectReporter{}
	ctx := NewContext(rec, Options{Reporter: reporter})
	require.NoError(t, ctx.Process("color.rib", []byte("WorldBegin\nColor [0.25 0.5]\nWorldEnd")))
	require.NotEmpty(t, reporter.diags)
	for _, call := range rec.Calls {
		assert.NotEqual(t, "color", call.Method, "the mismatched color never reaches the backend")
	}
}

func TestColorSamplesChangesColorArity(t *testing.T) {
	rec := process(t, `ColorSamples [0.3 0.3 0.3 1 0 0] [1 1 1 1 1 1]
WorldBegin
Color [0.1 0.2]
WorldEnd`)
	var methods []string
	for _, call := range rec.Calls {
		methods = append(methods, call.Method)
	}
	assert.Equal(t, []string{"colorSamples", "worldBegin", "color", "worldEnd"}, methods)
	assert.Equal(t, []any{[]float64{0.1, 0.2}}, rec.Calls[2].Args)
}

func TestSphereRequest(t *testing.T) {
	rec := process(t, "WorldBegin\nSphere 1 -1 1 360\nWorldEnd")
	require.Len(t, rec.Calls, 3)
	assert.Equal(t, "sphere", rec.Calls[1].Method)
	assert.Equal(t, 1.0, rec.Calls[1].Args[0])
	assert.Equal(t, -1.0, rec.Calls[1].Args[1])
	assert.Equal(t, 1.0, rec.Calls[1].Args[2])
	assert.Equal(t, 360.0, rec.Calls[1].Args[3])
	assert.Nil(t, rec.Calls[1].Args[4], "no parameter list")
}

// A binary-encoded Sphere request produces the identical backend call to
// its ASCII form: define the request name at index 0, reference it, and
// follow with three one-byte fixed-point numbers and a two-byte one (360).
func TestBinaryEncodedSphere(t *testing.T) {
	bin := []byte("WorldBegin\n")
	bin = append(bin, 0o314, 0) // define encoded request 0
	bin = append(bin, 0o220|6)  // inline string, 6 bytes
	bin = append(bin, "Sphere"...)
	bin = append(bin, 0o246, 0)       // encoded request 0
	bin = append(bin, 0o200, 1)       // 1
	bin = append(bin, 0o200, 0xFF)    // -1
	bin = append(bin, 0o200, 1)       // 1
	bin = append(bin, 0o201, 1, 0x68) // 360 in two bytes
	bin = append(bin, "\nWorldEnd\n"...)

	rec := backend.NewRecorder()
	ctx := NewContext(rec, Options{Reporter: diag.IgnoreReporter{}})
	require.NoError(t, ctx.Process("bin.rib", bin))

	want := process(t, "WorldBegin\nSphere 1 -1 1 360\nWorldEnd")
	assert.Equal(t, want.Calls, rec.Calls)
}

// Requests captured between ObjectBegin/ObjectEnd replay on
// ObjectInstance exactly as recorded.
func TestObjectCaptureAndInstance(t *testing.T) {
	rec := process(t, `
ObjectBegin 1
Sphere 1 -1 1 360
ObjectEnd
WorldBegin
ObjectInstance 1
WorldEnd
`)
	var methods []string
	for _, call := range rec.Calls {
		methods = append(methods, call.Method)
	}
	assert.Equal(t, []string{
		"worldBegin",
		"objectBegin", "sphere", "objectEnd",
		"worldEnd",
	}, methods)
}

func TestDeferredCommentsFollowRequest(t *testing.T) {
	rec := process(t, `WorldBegin
Color # interleaved comment
  [0.25 0.5 0.75]
WorldEnd`)
	var methods []string
	for _, call := range rec.Calls {
		methods = append(methods, call.Method)
	}
	assert.Equal(t, []string{"worldBegin", "color", "archiveRecord", "worldEnd"}, methods,
		"the comment is emitted after the request whose arguments it interrupted")
}

func TestGeometryOutsideWorldIsDropped(t *testing.T) {
	rec := backend.NewRecorder()
	reporter := &collectReporter{}
	ctx := NewContext(rec, Options{Reporter: reporter})
	require.NoError(t, ctx.Process("bad.rib", []byte("Sphere 1 -1 1 360")))

	assert.Empty(t, rec.Calls, "the request never reaches the backend")
	require.NotEmpty(t, reporter.diags)
	assert.Equal(t, diag.SeverityError, reporter.diags[0].Severity)
}

func TestAbortReporterUnwindsToProcess(t *testing.T) {
	ctx := NewContext(backend.NewRecorder(), Options{
		Reporter: upgradeToSevere{inner: diag.NewAbortReporter(diag.IgnoreReporter{})},
	})
	err := ctx.Process("bad.rib", []byte("Sphere 1 -1 1 360\nFormat 640 480 1"))
	require.Error(t, err)
}

// upgradeToSevere raises every diagnostic to severe before forwarding,
// modeling the RI abort-on-error handler.
type upgradeToSevere struct{ inner diag.Reporter }

func (u upgradeToSevere) HandleError(d diag.Diagnostic) {
	d.Severity = diag.SeveritySevere
	u.inner.HandleError(d)
}

func TestDeclareOptionAndConditional(t *testing.T) {
	rec := process(t, `version 3.04
Declare "quality" "uniform float"
Option "render" "quality" [2]
WorldBegin
IfBegin "$render:quality > 1"
Sphere 1 -1 1 360
IfEnd
IfBegin "$render:quality > 5"
Sphere 2 -2 2 360
IfEnd
WorldEnd`)
	var methods []string
	for _, call := range rec.Calls {
		methods = append(methods, call.Method)
	}
	assert.Equal(t, []string{
		"declare", "option", "worldBegin", "sphere", "worldEnd",
	}, methods, "only the branch whose option comparison holds is dispatched")
	require.Equal(t, 1.0, rec.Calls[3].Args[0], "the second sphere's branch was discarded")
}

func TestMotionBlockSamples(t *testing.T) {
	rec := process(t, `WorldBegin
MotionBegin [0 1]
Translate 0 0 1
Translate 0 0 2
MotionEnd
WorldEnd`)
	var methods []string
	for _, call := range rec.Calls {
		methods = append(methods, call.Method)
	}
	assert.Equal(t, []string{
		"worldBegin", "motionBegin", "translate", "translate", "motionEnd", "worldEnd",
	}, methods)
}

func TestMotionBlockSignatureMismatchDropsRequest(t *testing.T) {
	rec := backend.NewRecorder()
	reporter := &collectReporter{}
	ctx := NewContext(rec, Options{Reporter: reporter})
	require.NoError(t, ctx.Process("motion.rib", []byte(`WorldBegin
MotionBegin [0 1]
Translate 0 0 1
Rotate 90 0 0 1
MotionEnd
WorldEnd`)))
	require.NotEmpty(t, reporter.diags)
	assert.Equal(t, diag.CodeBadMotion, reporter.diags[0].Code)
	for _, call := range rec.Calls {
		assert.NotEqual(t, "rotate", call.Method, "the mismatched sample never reaches the backend")
	}
}

func TestStringVariableSubstitution(t *testing.T) {
	rec := backend.NewRecorder()
	ctx := NewContext(rec, Options{
		Reporter:       diag.IgnoreReporter{},
		SubstituteVars: true,
		Vars:           map[string]string{"shader": "plastic"},
	})
	require.NoError(t, ctx.Process("vars.rib", []byte(`WorldBegin
Surface "$shader"
WorldEnd`)))
	require.Len(t, rec.Calls, 3)
	assert.Equal(t, "plastic", rec.Calls[1].Args[0])
}

func TestReadArchiveFromFile(t *testing.T) {
	files := map[string][]byte{
		"inner.rib": []byte("Sphere 1 -1 1 360"),
	}
	rec := backend.NewRecorder()
	ctx := NewContext(rec, Options{
		Reporter:   diag.IgnoreReporter{},
		FileReader: func(path string) ([]byte, error) { return files[path], nil },
	})
	require.NoError(t, ctx.Process("outer.rib", []byte(`WorldBegin
ReadArchive "inner.rib"
WorldEnd`)))

	var methods []string
	for _, call := range rec.Calls {
		methods = append(methods, call.Method)
	}
	assert.Equal(t, []string{"worldBegin", "sphere", "worldEnd"}, methods)
}

func TestParseExposesRequestStream(t *testing.T) {
	requests, err := Parse([]byte("Format 640 480 1\nWorldBegin\nWorldEnd"))
	require.NoError(t, err)
	require.Len(t, requests, 3)
	assert.Equal(t, "Format", requests[0].Name)
	assert.Equal(t, "WorldBegin", requests[1].Name)
	assert.Equal(t, "WorldEnd", requests[2].Name)
	assert.Len(t, requests[0].Args, 3)
}
