// Package backend defines the request-dispatch interface the core drives
// and a recording test double used by dispatch/macro/state
// tests in place of a real rasterizer or ray tracer.
package backend

import (
	"github.com/rmanicore/ri/param"
	"github.com/rmanicore/ri/subdiv"
)

// Handle is an opaque token returned by the backend identifying a light,
// object or archive. The core never inspects a Handle's value.
type Handle uint64

// ControlMesh is a SubdivisionMesh request's raw payload: the control
// mesh exactly as it appeared in the stream. It accompanies the
// tessellated triangle data so serializing backends can reproduce the
// request rather than draw it.
type ControlMesh struct {
	Scheme    string
	NVerts    []int
	VertIdx   []int
	Tags      []string
	NArgs     []int
	IntArgs   []int
	FloatArgs []float64
}

// Backend is the boundary the core drives: one method per RIB request,
// taking the request's parsed scalar arguments followed by a parameter-list
// value. Requests that emit a handle (ObjectBegin, LightSource,
// AreaLightSource, ArchiveBegin) return it; all others return nil error
// only.
//
// Implementations must never block: no request processing may suspend.
type Backend interface {
	// Frame & option requests.
	Format(xres, yres, pixelAspect float64) error
	Projection(name string, params *param.List) error
	ColorSamples(n []float64) error
	Declare(name, declaration string) error
	Option(name string, params *param.List) error

	// Nesting.
	FrameBegin(frame int) error
	FrameEnd() error
	WorldBegin() error
	WorldEnd() error
	AttributeBegin() error
	AttributeEnd() error
	TransformBegin() error
	TransformEnd() error
	SolidBegin(kind string) error
	SolidEnd() error
	MotionBegin(times []float64) error
	MotionEnd() error

	// Transform / attribute state.
	Identity() error
	ConcatTransform(m [16]float64) error
	Translate(x, y, z float64) error
	Rotate(angle, x, y, z float64) error
	Scale(x, y, z float64) error
	CoordinateSystem(name string) error
	CoordSysTransform(name string) error
	Color(rgb []float64) error
	Opacity(rgb []float64) error
	Surface(name string, params *param.List) error
	Attribute(name string, params *param.List) error

	// Handle-emitting.
	ObjectBegin(id string) (Handle, error)
	ObjectEnd() error
	LightSource(name string, id string, params *param.List) (Handle, error)
	AreaLightSource(name string, id string, params *param.List) (Handle, error)
	ArchiveBegin(id string, params *param.List) (Handle, error)
	ArchiveEnd() error

	// Handle-consuming.
	ObjectInstance(h Handle) error
	Illuminate(h Handle, on bool) error

	// Geometry. A subdivision surface arrives tessellated: the dispatcher
	// fans the request out through the subdiv package at the depth implied
	// by DisplayTessellation, and the backend receives per-face triangle
	// data alongside the originating control mesh.
	Sphere(radius, zmin, zmax, thetamax float64, params *param.List) error
	Polygon(nverts int, params *param.List) error
	SubdivisionMesh(ctrl ControlMesh, faces []subdiv.PrimFace, params *param.List) error

	// DisplayTessellation reports the backend's current (u, v) display
	// tessellation, from which the refinement depth for tessellating
	// geometry is derived.
	DisplayTessellation() (u, v float64)

	// Comment / archive propagation.
	ArchiveRecord(kind string, text string) error
	ReadArchive(name string, callback func(kind, text string)) error

	// Current-context bookkeeping consumed by macro replay.
	SetCurrentArchiveName(name string)
	SetCurrentLine(line int)
}
