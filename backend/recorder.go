package backend

import (
	"github.com/rmanicore/ri/param"
	"github.com/rmanicore/ri/subdiv"
)

// Call is one recorded backend invocation, captured by Recorder for test
// assertions.
type Call struct {
	Method string
	Args   []any
}

// Recorder is a Backend test double that records every call instead of
// driving a real rasterizer or ray tracer. It is the collaborator dispatch,
// macro and state tests drive against.
type Recorder struct {
	Calls []Call

	// TessU and TessV are the display tessellation this backend reports;
	// NewRecorder defaults them to (2, 2), one refinement step.
	TessU, TessV float64

	nextHandle Handle
	archive    string
	line       int
}

// NewRecorder creates an empty Recorder.
func NewRecorder() *Recorder { return &Recorder{TessU: 2, TessV: 2} }

func (r *Recorder) record(method string, args ...any) {
	r.Calls = append(r.Calls, Call{Method: method, Args: args})
}

func (r *Recorder) Format(xres, yres, pixelAspect float64) error {
	r.record("format", xres, yres, pixelAspect)
	return nil
}
func (r *Recorder) Projection(name string, params *param.List) error {
	r.record("projection", name, params)
	return nil
}
func (r *Recorder) ColorSamples(n []float64) error {
	r.record("colorSamples", n)
	return nil
}
func (r *Recorder) Declare(name, declaration string) error {
	r.record("declare", name, declaration)
	return nil
}
func (r *Recorder) Option(name string, params *param.List) error {
	r.record("option", name, params)
	return nil
}
func (r *Recorder) FrameBegin(frame int) error   { r.record("frameBegin", frame); return nil }
func (r *Recorder) FrameEnd() error              { r.record("frameEnd"); return nil }
func (r *Recorder) WorldBegin() error            { r.record("worldBegin"); return nil }
func (r *Recorder) WorldEnd() error              { r.record("worldEnd"); return nil }
func (r *Recorder) AttributeBegin() error        { r.record("attributeBegin"); return nil }
func (r *Recorder) AttributeEnd() error          { r.record("attributeEnd"); return nil }
func (r *Recorder) TransformBegin() error        { r.record("transformBegin"); return nil }
func (r *Recorder) TransformEnd() error          { r.record("transformEnd"); return nil }
func (r *Recorder) SolidBegin(kind string) error { r.record("solidBegin", kind); return nil }
func (r *Recorder) SolidEnd() error              { r.record("solidEnd"); return nil }
func (r *Recorder) MotionBegin(times []float64) error {
	r.record("motionBegin", times)
	return nil
}
func (r *Recorder) MotionEnd() error { r.record("motionEnd"); return nil }

func (r *Recorder) Identity() error { r.record("identity"); return nil }
func (r *Recorder) ConcatTransform(m [16]float64) error {
	r.record("concatTransform", m)
	return nil
}
func (r *Recorder) Translate(x, y, z float64) error {
	r.record("translate", x, y, z)
	return nil
}
func (r *Recorder) Rotate(angle, x, y, z float64) error {
	r.record("rotate", angle, x, y, z)
	return nil
}
func (r *Recorder) Scale(x, y, z float64) error { r.record("scale", x, y, z); return nil }
func (r *Recorder) CoordinateSystem(name string) error {
	r.record("coordinateSystem", name)
	return nil
}
func (r *Recorder) CoordSysTransform(name string) error {
	r.record("coordSysTransform", name)
	return nil
}
func (r *Recorder) Color(rgb []float64) error   { r.record("color", rgb); return nil }
func (r *Recorder) Opacity(rgb []float64) error { r.record("opacity", rgb); return nil }
func (r *Recorder) Surface(name string, params *param.List) error {
	r.record("surface", name, params)
	return nil
}
func (r *Recorder) Attribute(name string, params *param.List) error {
	r.record("attribute", name, params)
	return nil
}

func (r *Recorder) ObjectBegin(id string) (Handle, error) {
	r.nextHandle++
	r.record("objectBegin", id, r.nextHandle)
	return r.nextHandle, nil
}
func (r *Recorder) ObjectEnd() error { r.record("objectEnd"); return nil }
func (r *Recorder) LightSource(name string, id string, params *param.List) (Handle, error) {
	r.nextHandle++
	r.record("lightSource", name, id, params, r.nextHandle)
	return r.nextHandle, nil
}
func (r *Recorder) AreaLightSource(name string, id string, params *param.List) (Handle, error) {
	r.nextHandle++
	r.record("areaLightSource", name, id, params, r.nextHandle)
	return r.nextHandle, nil
}
func (r *Recorder) ArchiveBegin(id string, params *param.List) (Handle, error) {
	r.nextHandle++
	r.record("archiveBegin", id, params, r.nextHandle)
	return r.nextHandle, nil
}
func (r *Recorder) ArchiveEnd() error { r.record("archiveEnd"); return nil }

func (r *Recorder) ObjectInstance(h Handle) error { r.record("objectInstance", h); return nil }
func (r *Recorder) Illuminate(h Handle, on bool) error {
	r.record("illuminate", h, on)
	return nil
}

func (r *Recorder) Sphere(radius, zmin, zmax, thetamax float64, params *param.List) error {
	r.record("sphere", radius, zmin, zmax, thetamax, params)
	return nil
}
func (r *Recorder) Polygon(nverts int, params *param.List) error {
	r.record("polygon", nverts, params)
	return nil
}
func (r *Recorder) SubdivisionMesh(ctrl ControlMesh, faces []subdiv.PrimFace, params *param.List) error {
	r.record("subdivisionMesh", ctrl, faces, params)
	return nil
}

func (r *Recorder) DisplayTessellation() (float64, float64) { return r.TessU, r.TessV }

func (r *Recorder) ArchiveRecord(kind string, text string) error {
	r.record("archiveRecord", kind, text)
	return nil
}
func (r *Recorder) ReadArchive(name string, callback func(kind, text string)) error {
	r.record("readArchive", name)
	if callback != nil {
		callback("comment", "")
	}
	return nil
}

func (r *Recorder) SetCurrentArchiveName(name string) { r.archive = name }
func (r *Recorder) SetCurrentLine(line int)           { r.line = line }
