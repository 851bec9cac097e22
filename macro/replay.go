package macro

import (
	"fmt"
	"strconv"

	"github.com/rmanicore/ri/backend"
	"github.com/rmanicore/ri/handle"
)

// ArchiveCallback is invoked for each ArchiveRecord/ReadArchive request
// encountered during archive replay, so chained archives propagate their
// comment stream.
type ArchiveCallback func(kind, text string)

// Store owns every captured Macro, keyed by name, and implements both
// replay variants: object replay (ObjectInstance) and archive replay
// (ReadArchive).
type Store struct {
	byName map[string]*Macro
}

// NewStore creates an empty macro store.
func NewStore() *Store {
	return &Store{byName: make(map[string]*Macro)}
}

// Put registers a completed macro under its name.
func (s *Store) Put(m *Macro) { s.byName[m.Name] = m }

// Get looks up a macro by name.
func (s *Store) Get(name string) (*Macro, bool) {
	m, ok := s.byName[name]
	return m, ok
}

// Discard releases a macro's bindings scope and removes it from the store,
// used when a macro definition is abandoned.
func (s *Store) Discard(name string, bindings *handle.Bindings) {
	delete(s.byName, name)
	if bindings != nil {
		bindings.ReleaseScope()
	}
}

// ReplayObject replays every request in m against b -- the variant used by
// ObjectInstance. Every recorded request is replayed; none are skipped.
// bindings resolves any handle-consuming request recorded inside the
// macro (e.g. a nested ObjectInstance).
func (s *Store) ReplayObject(m *Macro, b backend.Backend, bindings *handle.Bindings, archiveName string) error {
	return s.replay(m, b, bindings, archiveName, nil)
}

// ReplayArchive replays every request in m against b and additionally
// invokes cb on each ArchiveRecord/ReadArchive so chained archives
// propagate their comment stream -- the variant used by ReadArchive.
func (s *Store) ReplayArchive(m *Macro, b backend.Backend, bindings *handle.Bindings, archiveName string, cb ArchiveCallback) error {
	return s.replay(m, b, bindings, archiveName, cb)
}

func (s *Store) replay(m *Macro, b backend.Backend, bindings *handle.Bindings, archiveName string, cb ArchiveCallback) error {
	b.SetCurrentArchiveName(archiveName)
	if !m.Valid() {
		b.ArchiveRecord("diagnostic", fmt.Sprintf("macro %q was captured with an error; replaying best-effort", m.Name))
	}
	for _, req := range m.requests {
		b.SetCurrentLine(req.Line)
		if err := replayOne(b, bindings, req.Payload, cb); err != nil {
			return fmt.Errorf("macro: replaying %q at line %d: %w", m.Name, req.Line, err)
		}
	}
	return nil
}

func replayOne(b backend.Backend, bindings *handle.Bindings, p Payload, cb ArchiveCallback) error {
	switch v := p.(type) {
	case NullaryPayload:
		return replayNullary(b, v)
	case GenericCallPayload:
		return replayGenericCall(b, v)
	case ColorPayload:
		switch v.Name {
		case "Color":
			return b.Color(v.Values)
		case "Opacity":
			return b.Opacity(v.Values)
		}
		return fmt.Errorf("macro: unknown color request %q", v.Name)
	case HandleEmitPayload:
		return replayHandleEmit(b, bindings, v)
	case HandleConsumePayload:
		return replayHandleConsume(b, bindings, v)
	case MotionPayload:
		return b.MotionBegin(v.Times)
	case SubdivisionPayload:
		tu, tv := b.DisplayTessellation()
		return b.SubdivisionMesh(v.Ctrl, v.Tess.Triangulate(tu, tv), v.Params)
	case ArchiveRecordPayload:
		if cb != nil {
			cb(v.Kind, v.Text)
		}
		return b.ArchiveRecord(v.Kind, v.Text)
	case ReadArchivePayload:
		return b.ReadArchive(v.Name, func(kind, text string) {
			if cb != nil {
				cb(kind, text)
			}
		})
	default:
		return fmt.Errorf("macro: unrecognized recorded-request payload %T", p)
	}
}

func replayNullary(b backend.Backend, v NullaryPayload) error {
	switch v.Name {
	case "WorldBegin":
		return b.WorldBegin()
	case "WorldEnd":
		return b.WorldEnd()
	case "AttributeBegin":
		return b.AttributeBegin()
	case "AttributeEnd":
		return b.AttributeEnd()
	case "TransformBegin":
		return b.TransformBegin()
	case "TransformEnd":
		return b.TransformEnd()
	case "MotionEnd":
		return b.MotionEnd()
	case "SolidEnd":
		return b.SolidEnd()
	case "FrameEnd":
		return b.FrameEnd()
	case "ObjectEnd":
		return b.ObjectEnd()
	case "ArchiveEnd":
		return b.ArchiveEnd()
	case "Identity":
		return b.Identity()
	case "Else", "IfEnd":
		// Conditional markers: only the taken branch was captured, so the
		// markers replay as no-ops.
		return nil
	default:
		return fmt.Errorf("macro: unknown nullary request %q", v.Name)
	}
}

func replayGenericCall(b backend.Backend, v GenericCallPayload) error {
	switch v.Name {
	case "Format":
		return b.Format(v.Floats[0], v.Floats[1], v.Floats[2])
	case "Translate":
		return b.Translate(v.Floats[0], v.Floats[1], v.Floats[2])
	case "Scale":
		return b.Scale(v.Floats[0], v.Floats[1], v.Floats[2])
	case "Rotate":
		return b.Rotate(v.Floats[0], v.Floats[1], v.Floats[2], v.Floats[3])
	case "ConcatTransform":
		return b.ConcatTransform(*v.Matrix)
	case "CoordinateSystem":
		return b.CoordinateSystem(first(v.Strings))
	case "CoordSysTransform":
		return b.CoordSysTransform(first(v.Strings))
	case "Declare":
		return b.Declare(v.Strings[0], v.Strings[1])
	case "Option":
		return b.Option(first(v.Strings), v.Params)
	case "Surface":
		return b.Surface(first(v.Strings), v.Params)
	case "Attribute":
		return b.Attribute(first(v.Strings), v.Params)
	case "Projection":
		return b.Projection(first(v.Strings), v.Params)
	case "ColorSamples":
		return b.ColorSamples(v.Floats)
	case "FrameBegin":
		return b.FrameBegin(int(firstInt(v.Ints)))
	case "FrameEnd":
		return b.FrameEnd()
	case "SolidBegin":
		return b.SolidBegin(first(v.Strings))
	case "SolidEnd":
		return b.SolidEnd()
	case "Sphere":
		return b.Sphere(v.Floats[0], v.Floats[1], v.Floats[2], v.Floats[3], v.Params)
	case "Polygon":
		return b.Polygon(int(firstInt(v.Ints)), v.Params)
	case "IfBegin", "ElseIf":
		return nil
	default:
		return fmt.Errorf("macro: unknown generic-call request %q", v.Name)
	}
}

func replayHandleEmit(b backend.Backend, bindings *handle.Bindings, v HandleEmitPayload) error {
	var h backend.Handle
	var err error
	switch v.Name {
	case "ObjectBegin":
		h, err = b.ObjectBegin(v.ID)
	case "LightSource":
		h, err = b.LightSource(v.ShaderName, v.ID, v.Params)
	case "AreaLightSource":
		h, err = b.AreaLightSource(v.ShaderName, v.ID, v.Params)
	case "ArchiveBegin":
		h, err = b.ArchiveBegin(v.ID, v.Params)
	default:
		return fmt.Errorf("macro: unknown handle-emitting request %q", v.Name)
	}
	if err != nil || bindings == nil {
		return err
	}
	bindHandle(bindings, v.Name, v.ID, v.IDIsInt, h)
	return nil
}

func bindHandle(bindings *handle.Bindings, name, id string, idIsInt bool, h backend.Handle) {
	switch name {
	case "ObjectBegin":
		if idIsInt {
			bindings.BindObjectInt(mustAtoi(id), h)
		} else {
			bindings.BindObjectString(id, h)
		}
	case "ArchiveBegin":
		bindings.BindArchive(id, h)
	case "LightSource", "AreaLightSource":
		if idIsInt {
			bindings.BindLightInt(mustAtoi(id), h)
		} else {
			bindings.BindLightString(id, h)
		}
	}
}

func replayHandleConsume(b backend.Backend, bindings *handle.Bindings, v HandleConsumePayload) error {
	if bindings == nil {
		return fmt.Errorf("macro: %q requires a handle-binding table to resolve id %q", v.Name, v.ID)
	}
	switch v.Name {
	case "ObjectInstance":
		h, ok := lookupHandle(bindings, true, v.ID, v.IDIsInt)
		if !ok {
			return fmt.Errorf("macro: ObjectInstance: unknown handle %q", v.ID)
		}
		return b.ObjectInstance(h)
	case "Illuminate":
		h, ok := lookupHandle(bindings, false, v.ID, v.IDIsInt)
		if !ok {
			return fmt.Errorf("macro: Illuminate: unknown handle %q", v.ID)
		}
		return b.Illuminate(h, v.Bool)
	default:
		return fmt.Errorf("macro: unknown handle-consuming request %q", v.Name)
	}
}

func lookupHandle(bindings *handle.Bindings, isObject bool, id string, idIsInt bool) (backend.Handle, bool) {
	if isObject {
		if idIsInt {
			return bindings.LookupObjectInt(mustAtoi(id))
		}
		return bindings.LookupObjectString(id)
	}
	if idIsInt {
		return bindings.LookupLightInt(mustAtoi(id))
	}
	return bindings.LookupLightString(id)
}

func mustAtoi(s string) int64 {
	n, _ := strconv.ParseInt(s, 10, 64)
	return n
}

func first(s []string) string {
	if len(s) == 0 {
		return ""
	}
	return s[0]
}

func firstInt(s []int64) int64 {
	if len(s) == 0 {
		return 0
	}
	return s[0]
}
