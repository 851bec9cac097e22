package ribwriter

import (
	"fmt"
	"io"
	"strings"

	"github.com/rmanicore/ri/backend"
	"github.com/rmanicore/ri/param"
	"github.com/rmanicore/ri/subdiv"
)

// Writer implements backend.Backend by emitting one line of ASCII RIB per
// request. Block structure is indented for readability; indentation is
// whitespace and round-trips through the lexer unchanged.
type Writer struct {
	out    io.Writer
	indent int
	err    error

	nextHandle backend.Handle
}

// NewWriter creates a Writer emitting to out.
func NewWriter(out io.Writer) *Writer {
	return &Writer{out: out}
}

// Err returns the first write error encountered, if any.
func (w *Writer) Err() error { return w.err }

func (w *Writer) line(format string, args ...any) error {
	if w.err != nil {
		return w.err
	}
	_, err := fmt.Fprintf(w.out, "%s%s\n", strings.Repeat("\t", w.indent), fmt.Sprintf(format, args...))
	if err != nil {
		w.err = err
	}
	return err
}

func (w *Writer) open(format string, args ...any) error {
	err := w.line(format, args...)
	w.indent++
	return err
}

func (w *Writer) close(format string, args ...any) error {
	if w.indent > 0 {
		w.indent--
	}
	return w.line(format, args...)
}

func (w *Writer) Format(xres, yres, pixelAspect float64) error {
	return w.line("Format %s %s %s", formatFloat(xres), formatFloat(yres), formatFloat(pixelAspect))
}

func (w *Writer) Projection(name string, params *param.List) error {
	return w.line("Projection %s%s", quote(name), formatParams(params))
}

// ColorSamples re-emits the nRGB and RGBn matrices the flattened values
// were captured from.
func (w *Writer) ColorSamples(n []float64) error {
	if len(n) > 0 && len(n)%6 == 0 {
		half := len(n) / 2
		return w.line("ColorSamples %s %s", formatFloats(n[:half]), formatFloats(n[half:]))
	}
	return w.line("ColorSamples %s", formatFloats(n))
}

func (w *Writer) Declare(name, declaration string) error {
	return w.line("Declare %s %s", quote(name), quote(declaration))
}

func (w *Writer) Option(name string, params *param.List) error {
	return w.line("Option %s%s", quote(name), formatParams(params))
}

func (w *Writer) FrameBegin(frame int) error { return w.open("FrameBegin %d", frame) }
func (w *Writer) FrameEnd() error            { return w.close("FrameEnd") }
func (w *Writer) WorldBegin() error          { return w.open("WorldBegin") }
func (w *Writer) WorldEnd() error            { return w.close("WorldEnd") }
func (w *Writer) AttributeBegin() error      { return w.open("AttributeBegin") }
func (w *Writer) AttributeEnd() error        { return w.close("AttributeEnd") }
func (w *Writer) TransformBegin() error      { return w.open("TransformBegin") }
func (w *Writer) TransformEnd() error        { return w.close("TransformEnd") }

func (w *Writer) SolidBegin(kind string) error { return w.open("SolidBegin %s", quote(kind)) }
func (w *Writer) SolidEnd() error              { return w.close("SolidEnd") }

func (w *Writer) MotionBegin(times []float64) error {
	return w.open("MotionBegin %s", formatFloats(times))
}
func (w *Writer) MotionEnd() error { return w.close("MotionEnd") }

func (w *Writer) Identity() error { return w.line("Identity") }

func (w *Writer) ConcatTransform(m [16]float64) error {
	return w.line("ConcatTransform %s", formatFloats(m[:]))
}

func (w *Writer) Translate(x, y, z float64) error {
	return w.line("Translate %s %s %s", formatFloat(x), formatFloat(y), formatFloat(z))
}

func (w *Writer) Rotate(angle, x, y, z float64) error {
	return w.line("Rotate %s %s %s %s", formatFloat(angle), formatFloat(x), formatFloat(y), formatFloat(z))
}

func (w *Writer) Scale(x, y, z float64) error {
	return w.line("Scale %s %s %s", formatFloat(x), formatFloat(y), formatFloat(z))
}

func (w *Writer) CoordinateSystem(name string) error {
	return w.line("CoordinateSystem %s", quote(name))
}

func (w *Writer) CoordSysTransform(name string) error {
	return w.line("CoordSysTransform %s", quote(name))
}

func (w *Writer) Color(rgb []float64) error   { return w.line("Color %s", formatFloats(rgb)) }
func (w *Writer) Opacity(rgb []float64) error { return w.line("Opacity %s", formatFloats(rgb)) }

func (w *Writer) Surface(name string, params *param.List) error {
	return w.line("Surface %s%s", quote(name), formatParams(params))
}

func (w *Writer) Attribute(name string, params *param.List) error {
	return w.line("Attribute %s%s", quote(name), formatParams(params))
}

func (w *Writer) ObjectBegin(id string) (backend.Handle, error) {
	w.nextHandle++
	return w.nextHandle, w.open("ObjectBegin %s", formatID(id))
}

func (w *Writer) ObjectEnd() error { return w.close("ObjectEnd") }

func (w *Writer) LightSource(name string, id string, params *param.List) (backend.Handle, error) {
	w.nextHandle++
	return w.nextHandle, w.line("LightSource %s %s%s", quote(name), formatID(id), formatParams(params))
}

func (w *Writer) AreaLightSource(name string, id string, params *param.List) (backend.Handle, error) {
	w.nextHandle++
	return w.nextHandle, w.line("AreaLightSource %s %s%s", quote(name), formatID(id), formatParams(params))
}

func (w *Writer) ArchiveBegin(id string, params *param.List) (backend.Handle, error) {
	w.nextHandle++
	return w.nextHandle, w.open("ArchiveBegin %s%s", formatID(id), formatParams(params))
}

func (w *Writer) ArchiveEnd() error { return w.close("ArchiveEnd") }

func (w *Writer) ObjectInstance(h backend.Handle) error {
	return w.line("ObjectInstance %d", h)
}

func (w *Writer) Illuminate(h backend.Handle, on bool) error {
	flag := 0
	if on {
		flag = 1
	}
	return w.line("Illuminate %d %d", h, flag)
}

func (w *Writer) Sphere(radius, zmin, zmax, thetamax float64, params *param.List) error {
	return w.line("Sphere %s %s %s %s%s", formatFloat(radius), formatFloat(zmin),
		formatFloat(zmax), formatFloat(thetamax), formatParams(params))
}

func (w *Writer) Polygon(nverts int, params *param.List) error {
	return w.line("Polygon%s", formatParams(params))
}

// SubdivisionMesh re-serializes the originating control mesh; the
// tessellated faces are for drawing backends and carry nothing the
// request text needs.
func (w *Writer) SubdivisionMesh(ctrl backend.ControlMesh, faces []subdiv.PrimFace, params *param.List) error {
	return w.line("SubdivisionMesh %s %s %s %s %s %s %s%s",
		quote(ctrl.Scheme), formatInts(ctrl.NVerts), formatInts(ctrl.VertIdx), formatStrings(ctrl.Tags),
		formatInts(ctrl.NArgs), formatInts(ctrl.IntArgs), formatFloats(ctrl.FloatArgs), formatParams(params))
}

// DisplayTessellation keeps tessellation trivial for a backend that never
// draws.
func (w *Writer) DisplayTessellation() (float64, float64) { return 1, 1 }

// ArchiveRecord emits a comment line. Text that already begins with '#'
// (the lexer keeps the marker) is written verbatim; otherwise the marker
// for the record kind is prefixed. Verbatim records pass straight through.
func (w *Writer) ArchiveRecord(kind string, text string) error {
	if strings.HasPrefix(text, "#") || kind == "verbatim" {
		return w.line("%s", text)
	}
	if kind == "structure" {
		return w.line("##%s", text)
	}
	return w.line("#%s", text)
}

func (w *Writer) ReadArchive(name string, callback func(kind, text string)) error {
	return w.line("ReadArchive %s", quote(name))
}

func (w *Writer) SetCurrentArchiveName(name string) {}
func (w *Writer) SetCurrentLine(line int)           {}
