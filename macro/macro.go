package macro

import "github.com/rmanicore/ri/param"

// Macro is a name + ordered list of recorded requests + flags. It owns its recorded requests exclusively; every Value captured
// inside a request's parameter list has already been deep-copied (see
// param.List.Clone), so a Macro never retains pointers into the parser's
// scratch buffers.
type Macro struct {
	Name       string
	IsObject   bool // true for ObjectBegin-defined macros, false for archives
	isDefining bool
	valid      bool

	requests []Request
}

// New begins recording a macro. Construction begins on
// ObjectBegin/ArchiveBegin; appending is done by the dispatcher instead of
// emission until the matching End.
func New(name string, isObject bool) *Macro {
	return &Macro{Name: name, IsObject: isObject, isDefining: true, valid: true}
}

// IsDefining reports whether the macro is still open for appends.
func (m *Macro) IsDefining() bool { return m.isDefining }

// Valid reports whether every capture so far has succeeded; it becomes
// false permanently on any capture error.
func (m *Macro) Valid() bool { return m.valid }

// Append records one request, deep-copying every captured slice and
// parameter list so the macro never retains pointers into the parser's
// scratch buffers.
func (m *Macro) Append(line int, p Payload) {
	m.requests = append(m.requests, Request{Line: line, Payload: clonePayload(p)})
}

func clonePayload(p Payload) Payload {
	switch v := p.(type) {
	case GenericCallPayload:
		v.Floats = append([]float64(nil), v.Floats...)
		v.Ints = append([]int64(nil), v.Ints...)
		v.Strings = append([]string(nil), v.Strings...)
		if v.Matrix != nil {
			m := *v.Matrix
			v.Matrix = &m
		}
		v.Params = cloneParamList(v.Params)
		return v
	case ColorPayload:
		v.Values = append([]float64(nil), v.Values...)
		return v
	case HandleEmitPayload:
		v.Params = cloneParamList(v.Params)
		return v
	case MotionPayload:
		v.Times = append([]float64(nil), v.Times...)
		return v
	case SubdivisionPayload:
		v.Ctrl.NVerts = append([]int(nil), v.Ctrl.NVerts...)
		v.Ctrl.VertIdx = append([]int(nil), v.Ctrl.VertIdx...)
		v.Ctrl.Tags = append([]string(nil), v.Ctrl.Tags...)
		v.Ctrl.NArgs = append([]int(nil), v.Ctrl.NArgs...)
		v.Ctrl.IntArgs = append([]int(nil), v.Ctrl.IntArgs...)
		v.Ctrl.FloatArgs = append([]float64(nil), v.Ctrl.FloatArgs...)
		// Tess is handed off whole: the dispatcher builds it per request
		// and the macro becomes its sole owner, keeping the refinement
		// cache warm across replays.
		v.Params = cloneParamList(v.Params)
		return v
	default:
		return p
	}
}

// MarkInvalid flips the macro's valid flag to false. Replay may still walk
// an invalid macro's requests, but the backend receives a diagnostic
// record at the start of replay.
func (m *Macro) MarkInvalid() { m.valid = false }

// Close ends the recording; it is called on the matching
// ObjectEnd/ArchiveEnd.
func (m *Macro) Close() { m.isDefining = false }

// Requests returns the recorded requests in capture order. The returned
// slice must not be mutated by callers.
func (m *Macro) Requests() []Request { return m.requests }

// cloneParamList deep-copies a parameter list for capture, or returns nil
// if params is nil.
func cloneParamList(params *param.List) *param.List {
	if params == nil {
		return nil
	}
	return params.Clone()
}
