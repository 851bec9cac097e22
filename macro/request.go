// Package macro implements the recorded-request store: a
// typed, replayable capture of every request dispatched while an object or
// archive is being defined.
package macro

import (
	"github.com/rmanicore/ri/backend"
	"github.com/rmanicore/ri/param"
	"github.com/rmanicore/ri/subdiv"
)

// Payload is the recorded-request sum type. The C++ original's
// per-request-class inheritance hierarchy (one virtual "replay" override
// per request) collapses into this tagged union: one Go type per
// argument-shape family, each carrying only its own fields;
// replayOne (replay.go) matches on the concrete type.
type Payload interface {
	requestPayload()
}

// NullaryPayload is a request with no captured arguments: block
// begin/end pairs, Identity, and similar.
type NullaryPayload struct {
	Name string
}

func (NullaryPayload) requestPayload() {}

// GenericCallPayload is the catch-all for requests whose backend call is a
// mix of scalars and an optional trailing parameter list: Format, Sphere,
// Polygon, Translate, Rotate, Scale, Surface, Attribute, Projection,
// CoordinateSystem, and similar "scalar-or-1-array" / "name + paramlist"
// families. Only the fields the named request actually uses
// are populated.
type GenericCallPayload struct {
	Name    string
	Floats  []float64
	Ints    []int64
	Strings []string
	Matrix  *[16]float64
	Params  *param.List
}

func (GenericCallPayload) requestPayload() {}

// ColorPayload captures Color/Opacity: N loose floats or one N-array,
// already widened to a single slice.
type ColorPayload struct {
	Name   string
	Values []float64
}

func (ColorPayload) requestPayload() {}

// HandleEmitPayload captures ObjectBegin, LightSource, AreaLightSource and
// ArchiveBegin: the raw RIB handle-id (stringified whether it was an
// integer or string token) plus the bound parameter list. ShaderName holds
// the light/area-light shader name for LightSource/AreaLightSource; it is
// unused by ObjectBegin/ArchiveBegin.
type HandleEmitPayload struct {
	Name       string
	ID         string
	IDIsInt    bool
	ShaderName string
	Params     *param.List
}

func (HandleEmitPayload) requestPayload() {}

// HandleConsumePayload captures ObjectInstance and Illuminate.
type HandleConsumePayload struct {
	Name    string
	ID      string
	IDIsInt bool
	Bool    bool // Illuminate's on/off flag
}

func (HandleConsumePayload) requestPayload() {}

// MotionPayload captures MotionBegin's time-sample list.
type MotionPayload struct {
	Times []float64
}

func (MotionPayload) requestPayload() {}

// SubdivisionPayload captures a SubdivisionMesh request: the raw control
// mesh for re-serialization plus the built tessellator, whose refinement
// cache carries across replays. Each replay re-triangulates at the
// backend's current display tessellation, so the same recorded surface
// can instance at different depths.
type SubdivisionPayload struct {
	Ctrl   backend.ControlMesh
	Tess   *subdiv.Tessellator
	Params *param.List
}

func (SubdivisionPayload) requestPayload() {}

// ArchiveRecordPayload captures an ArchiveRecord (or deferred comment
// promoted to one). Kind distinguishes "comment" / "structure" /
// "verbatim" records, matching the RI_COMMENT / RI_STRUCTURE /
// RI_VERBATIM archive-record kinds.
type ArchiveRecordPayload struct {
	Kind string
	Text string
}

func (ArchiveRecordPayload) requestPayload() {}

// ReadArchivePayload captures a nested ReadArchive reference so chained
// archives can propagate their own comment stream on replay.
type ReadArchivePayload struct {
	Name string
}

func (ReadArchivePayload) requestPayload() {}

// Request is one recorded request: a source line plus its payload.
type Request struct {
	Line    int
	Payload Payload
}
