package ribencode

import (
	"io"
	"strconv"

	"github.com/rmanicore/ri/backend"
	"github.com/rmanicore/ri/param"
	"github.com/rmanicore/ri/subdiv"
)

// Encoder implements backend.Backend by emitting encoded-binary RIB.
type Encoder struct {
	c          *coder
	nextHandle backend.Handle
}

// NewEncoder creates an Encoder emitting to out.
func NewEncoder(out io.Writer) *Encoder {
	return &Encoder{c: newCoder(out)}
}

// Err returns the first write error encountered, if any.
func (e *Encoder) Err() error { return e.c.err }

// req begins a new request record. The newline keeps records resyncable
// and is plain whitespace to the decoder.
func (e *Encoder) req(name string) {
	e.c.writeByte('\n')
	e.c.request(name)
}

// id emits a handle id: numeric ids as fixed-point numbers, string ids as
// string tokens.
func (e *Encoder) id(id string) {
	if n, err := strconv.ParseInt(id, 10, 64); err == nil {
		e.c.integer(n)
		return
	}
	e.c.str(id)
}

func (e *Encoder) params(params *param.List) error {
	if params == nil {
		return e.c.err
	}
	for _, entry := range params.Entries() {
		e.c.str(entry.Decl.Name)
		e.value(entry.Value)
	}
	return e.c.err
}

func (e *Encoder) value(v param.Value) {
	scalar := v.Len() == 1 && !v.IsArray
	if !scalar {
		e.c.openArray()
	}
	switch v.Kind {
	case param.KindInt:
		for _, n := range v.Ints {
			e.c.integer(n)
		}
	case param.KindFloat:
		for _, f := range v.Floats {
			e.c.float(f)
		}
	case param.KindString:
		for _, s := range v.Strings {
			e.c.str(s)
		}
	}
	if !scalar {
		e.c.closeArray()
	}
}

func (e *Encoder) Format(xres, yres, pixelAspect float64) error {
	e.req("Format")
	e.c.float(xres)
	e.c.float(yres)
	e.c.float(pixelAspect)
	return e.c.err
}

func (e *Encoder) Projection(name string, params *param.List) error {
	e.req("Projection")
	e.c.str(name)
	return e.params(params)
}

func (e *Encoder) ColorSamples(n []float64) error {
	e.req("ColorSamples")
	if len(n) > 0 && len(n)%6 == 0 {
		half := len(n) / 2
		e.c.floatArray(n[:half])
		e.c.floatArray(n[half:])
	} else {
		e.c.floatArray(n)
	}
	return e.c.err
}

func (e *Encoder) Declare(name, declaration string) error {
	e.req("Declare")
	e.c.str(name)
	e.c.str(declaration)
	return e.c.err
}

func (e *Encoder) Option(name string, params *param.List) error {
	e.req("Option")
	e.c.str(name)
	return e.params(params)
}

func (e *Encoder) FrameBegin(frame int) error {
	e.req("FrameBegin")
	e.c.integer(int64(frame))
	return e.c.err
}

func (e *Encoder) FrameEnd() error       { e.req("FrameEnd"); return e.c.err }
func (e *Encoder) WorldBegin() error     { e.req("WorldBegin"); return e.c.err }
func (e *Encoder) WorldEnd() error       { e.req("WorldEnd"); return e.c.err }
func (e *Encoder) AttributeBegin() error { e.req("AttributeBegin"); return e.c.err }
func (e *Encoder) AttributeEnd() error   { e.req("AttributeEnd"); return e.c.err }
func (e *Encoder) TransformBegin() error { e.req("TransformBegin"); return e.c.err }
func (e *Encoder) TransformEnd() error   { e.req("TransformEnd"); return e.c.err }

func (e *Encoder) SolidBegin(kind string) error {
	e.req("SolidBegin")
	e.c.str(kind)
	return e.c.err
}

func (e *Encoder) SolidEnd() error { e.req("SolidEnd"); return e.c.err }

func (e *Encoder) MotionBegin(times []float64) error {
	e.req("MotionBegin")
	e.c.floatArray(times)
	return e.c.err
}

func (e *Encoder) MotionEnd() error { e.req("MotionEnd"); return e.c.err }

func (e *Encoder) Identity() error { e.req("Identity"); return e.c.err }

func (e *Encoder) ConcatTransform(m [16]float64) error {
	e.req("ConcatTransform")
	e.c.floatArray(m[:])
	return e.c.err
}

func (e *Encoder) Translate(x, y, z float64) error {
	e.req("Translate")
	e.c.float(x)
	e.c.float(y)
	e.c.float(z)
	return e.c.err
}

func (e *Encoder) Rotate(angle, x, y, z float64) error {
	e.req("Rotate")
	e.c.float(angle)
	e.c.float(x)
	e.c.float(y)
	e.c.float(z)
	return e.c.err
}

func (e *Encoder) Scale(x, y, z float64) error {
	e.req("Scale")
	e.c.float(x)
	e.c.float(y)
	e.c.float(z)
	return e.c.err
}

func (e *Encoder) CoordinateSystem(name string) error {
	e.req("CoordinateSystem")
	e.c.str(name)
	return e.c.err
}

func (e *Encoder) CoordSysTransform(name string) error {
	e.req("CoordSysTransform")
	e.c.str(name)
	return e.c.err
}

func (e *Encoder) Color(rgb []float64) error {
	e.req("Color")
	e.c.floatArray(rgb)
	return e.c.err
}

func (e *Encoder) Opacity(rgb []float64) error {
	e.req("Opacity")
	e.c.floatArray(rgb)
	return e.c.err
}

func (e *Encoder) Surface(name string, params *param.List) error {
	e.req("Surface")
	e.c.str(name)
	return e.params(params)
}

func (e *Encoder) Attribute(name string, params *param.List) error {
	e.req("Attribute")
	e.c.str(name)
	return e.params(params)
}

func (e *Encoder) ObjectBegin(id string) (backend.Handle, error) {
	e.req("ObjectBegin")
	e.id(id)
	e.nextHandle++
	return e.nextHandle, e.c.err
}

func (e *Encoder) ObjectEnd() error { e.req("ObjectEnd"); return e.c.err }

func (e *Encoder) LightSource(name string, id string, params *param.List) (backend.Handle, error) {
	e.req("LightSource")
	e.c.str(name)
	e.id(id)
	e.nextHandle++
	return e.nextHandle, e.params(params)
}

func (e *Encoder) AreaLightSource(name string, id string, params *param.List) (backend.Handle, error) {
	e.req("AreaLightSource")
	e.c.str(name)
	e.id(id)
	e.nextHandle++
	return e.nextHandle, e.params(params)
}

func (e *Encoder) ArchiveBegin(id string, params *param.List) (backend.Handle, error) {
	e.req("ArchiveBegin")
	e.id(id)
	e.nextHandle++
	return e.nextHandle, e.params(params)
}

func (e *Encoder) ArchiveEnd() error { e.req("ArchiveEnd"); return e.c.err }

func (e *Encoder) ObjectInstance(h backend.Handle) error {
	e.req("ObjectInstance")
	e.c.integer(int64(h))
	return e.c.err
}

func (e *Encoder) Illuminate(h backend.Handle, on bool) error {
	e.req("Illuminate")
	e.c.integer(int64(h))
	flag := int64(0)
	if on {
		flag = 1
	}
	e.c.integer(flag)
	return e.c.err
}

func (e *Encoder) Sphere(radius, zmin, zmax, thetamax float64, params *param.List) error {
	e.req("Sphere")
	e.c.float(radius)
	e.c.float(zmin)
	e.c.float(zmax)
	e.c.float(thetamax)
	return e.params(params)
}

func (e *Encoder) Polygon(nverts int, params *param.List) error {
	e.req("Polygon")
	return e.params(params)
}

// SubdivisionMesh re-encodes the originating control mesh; the
// tessellated faces are for drawing backends.
func (e *Encoder) SubdivisionMesh(ctrl backend.ControlMesh, faces []subdiv.PrimFace, params *param.List) error {
	e.req("SubdivisionMesh")
	e.c.str(ctrl.Scheme)
	e.c.intArray(ctrl.NVerts)
	e.c.intArray(ctrl.VertIdx)
	e.c.strArray(ctrl.Tags)
	e.c.intArray(ctrl.NArgs)
	e.c.intArray(ctrl.IntArgs)
	e.c.floatArray(ctrl.FloatArgs)
	return e.params(params)
}

func (e *Encoder) DisplayTessellation() (float64, float64) { return 1, 1 }

// ArchiveRecord emits the comment as ASCII: the binary convention carries
// comments verbatim in the byte stream.
func (e *Encoder) ArchiveRecord(kind string, text string) error {
	switch {
	case len(text) > 0 && text[0] == '#':
		e.c.write([]byte("\n" + text + "\n"))
	case kind == "structure":
		e.c.write([]byte("\n##" + text + "\n"))
	case kind == "verbatim":
		e.c.write([]byte(text))
	default:
		e.c.write([]byte("\n#" + text + "\n"))
	}
	return e.c.err
}

func (e *Encoder) ReadArchive(name string, callback func(kind, text string)) error {
	e.req("ReadArchive")
	e.c.str(name)
	return e.c.err
}

func (e *Encoder) SetCurrentArchiveName(name string) {}
func (e *Encoder) SetCurrentLine(line int)           {}
