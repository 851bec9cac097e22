// Package state implements the RI state machine: a stack of
// mode frames validating legal request nesting, motion-block signature
// consistency, and conditional-block branch selection.
package state

import "fmt"

// Mode identifies one nesting frame kind.
type Mode uint8

const (
	ModeOuter Mode = iota
	ModeBegin
	ModeFrame
	ModeWorld
	ModeAttribute
	ModeTransform
	ModeSolid
	ModeObject
	ModeMotion
	ModeIf
)

func (m Mode) String() string {
	switch m {
	case ModeOuter:
		return "outer"
	case ModeBegin:
		return "begin"
	case ModeFrame:
		return "frame"
	case ModeWorld:
		return "world"
	case ModeAttribute:
		return "attribute"
	case ModeTransform:
		return "transform"
	case ModeSolid:
		return "solid"
	case ModeObject:
		return "object"
	case ModeMotion:
		return "motion"
	case ModeIf:
		return "if"
	default:
		return "unknown"
	}
}

// frame is one entry in the mode stack.
type frame struct {
	mode Mode

	// Motion-block bookkeeping.
	motionSignature string
	motionArity     int
	motionWant      int // len(MotionBegin's time list)
	motionSeen      int

	// Conditional-block bookkeeping.
	branchTaken  bool
	branchActive bool // whether the current branch (If/ElseIf/Else) is live
}

// Machine is the mode-frame stack. Each mode declares its permitted
// children as a set; every dispatched request is checked against the
// current mode before being allowed through to the backend.
type Machine struct {
	stack   []frame
	options map[string]any
	attribs map[string]any
}

// New creates a Machine starting in ModeOuter.
func New() *Machine {
	return &Machine{
		stack:   []frame{{mode: ModeOuter}},
		options: make(map[string]any),
		attribs: make(map[string]any),
	}
}

// permittedChildren declares, for each mode, the set of child modes it
// allows. Individual requests are not listed here: geometry and light
// requests are judged by geometryAllowedModes and lightAllowedModes, and the
// concrete dispatch table (package dispatch) is what enumerates request
// names; this map only judges nesting legality.
var permittedChildren = map[Mode]map[Mode]bool{
	ModeOuter:     {ModeBegin: true, ModeFrame: true, ModeWorld: true, ModeObject: true},
	ModeBegin:     {ModeFrame: true, ModeObject: true, ModeWorld: true},
	ModeFrame:     {ModeWorld: true, ModeObject: true},
	ModeWorld:     {ModeAttribute: true, ModeTransform: true, ModeSolid: true, ModeObject: true, ModeMotion: true, ModeIf: true},
	ModeAttribute: {ModeAttribute: true, ModeTransform: true, ModeSolid: true, ModeMotion: true, ModeIf: true},
	ModeTransform: {ModeAttribute: true, ModeTransform: true, ModeSolid: true, ModeMotion: true, ModeIf: true},
	ModeSolid:     {ModeAttribute: true, ModeTransform: true, ModeSolid: true, ModeMotion: true, ModeIf: true},
	ModeObject:    {ModeAttribute: true, ModeTransform: true, ModeSolid: true, ModeMotion: true, ModeIf: true},
	ModeMotion:    {},
	ModeIf:        {ModeAttribute: true, ModeTransform: true, ModeSolid: true, ModeObject: true, ModeMotion: true, ModeIf: true},
}

// geometryAllowedModes is the set of modes in which a geometric primitive
// request may be dispatched: inside a world block, or inside an object
// definition (which may also be opened outside a world block).
var geometryAllowedModes = map[Mode]bool{
	ModeWorld: true, ModeAttribute: true, ModeTransform: true, ModeSolid: true,
	ModeObject: true, ModeMotion: true, ModeIf: true,
}

// lightAllowedModes is the set of modes in which a LightSource/AreaLightSource
// request may be dispatched.
var lightAllowedModes = map[Mode]bool{ModeWorld: true, ModeAttribute: true, ModeIf: true}

func (m *Machine) top() *frame { return &m.stack[len(m.stack)-1] }

// Current returns the innermost mode frame kind.
func (m *Machine) Current() Mode { return m.top().mode }

// Push begins a new nesting frame of the given mode, checking it is
// permitted as a child of the current mode. Every Push must be matched by
// exactly one Pop.
func (m *Machine) Push(mode Mode) error {
	cur := m.Current()
	if !permittedChildren[cur][mode] {
		return fmt.Errorf("state: %s is not permitted inside %s", mode, cur)
	}
	m.stack = append(m.stack, frame{mode: mode})
	return nil
}

// Pop ends the innermost nesting frame, checking it matches the expected
// mode (the End request must match the Begin that opened the frame).
func (m *Machine) Pop(mode Mode) error {
	if len(m.stack) <= 1 {
		return fmt.Errorf("state: unmatched end for %s: no open frame", mode)
	}
	cur := m.Current()
	if cur != mode {
		return fmt.Errorf("state: mismatched end: innermost frame is %s, expected %s", cur, mode)
	}
	m.stack = m.stack[:len(m.stack)-1]
	return nil
}

// Depth returns the number of open frames, including the implicit outer
// frame.
func (m *Machine) Depth() int { return len(m.stack) }

// AllowGeometry reports whether a geometric primitive request is legal in
// the current mode.
func (m *Machine) AllowGeometry() error {
	if !geometryAllowedModes[m.Current()] {
		return fmt.Errorf("state: geometric primitives are not allowed outside a world block (current mode %s)", m.Current())
	}
	return nil
}

// AllowLight reports whether a light-creation request is legal in the
// current mode.
func (m *Machine) AllowLight() error {
	if !lightAllowedModes[m.Current()] {
		return fmt.Errorf("state: light creation is not allowed in mode %s", m.Current())
	}
	return nil
}

// ---------------------------------------------------------------------------
// Motion blocks
// ---------------------------------------------------------------------------

// BeginMotion opens a motion block expecting exactly len(times) samples.
func (m *Machine) BeginMotion(times []float64) error {
	if err := m.Push(ModeMotion); err != nil {
		return err
	}
	f := m.top()
	f.motionWant = len(times)
	return nil
}

// CheckMotionSample validates that a dispatched request inside a motion
// block matches the signature (name + argument shape) of the block's first
// sample.
func (m *Machine) CheckMotionSample(requestName string, argArity int) error {
	if m.Current() != ModeMotion || requestName == "MotionEnd" {
		return nil
	}
	f := m.top()
	sig := fmt.Sprintf("%s/%d", requestName, argArity)
	if f.motionSeen == 0 {
		f.motionSignature = sig
	} else if f.motionSignature != sig {
		return fmt.Errorf("state: motion-block sample %d has signature %q, expected %q matching the first sample", f.motionSeen, sig, f.motionSignature)
	}
	f.motionSeen++
	return nil
}

// EndMotion closes a motion block, checking the sample count equals the
// MotionBegin time-list length.
func (m *Machine) EndMotion() error {
	f := m.top()
	seen, want := f.motionSeen, f.motionWant
	if err := m.Pop(ModeMotion); err != nil {
		return err
	}
	if seen != want {
		return fmt.Errorf("state: motion block had %d samples, expected %d matching its time list", seen, want)
	}
	return nil
}

// ---------------------------------------------------------------------------
// Conditional blocks
// ---------------------------------------------------------------------------

// AttrExpr evaluates a simple attribute-expression against the current
// option/attribute table, used by If/ElseIf conditions.
type AttrExpr func(options, attribs map[string]any) bool

// BeginIf opens a conditional block, evaluating cond against the current
// render state to decide whether this first branch is live. A conditional
// nested inside an inactive branch stays inactive through every one of its
// branches, including Else.
func (m *Machine) BeginIf(cond AttrExpr) error {
	parentActive := m.BranchActive()
	if err := m.Push(ModeIf); err != nil {
		return err
	}
	f := m.top()
	if !parentActive {
		f.branchTaken = true
		return nil
	}
	f.branchActive = cond(m.options, m.attribs)
	f.branchTaken = f.branchActive
	return nil
}

// ElseIf evaluates the next branch's condition. It becomes live only if no
// previous branch in this conditional chain has been taken.
func (m *Machine) ElseIf(cond AttrExpr) error {
	f := m.top()
	if f.branchTaken {
		f.branchActive = false
		return nil
	}
	f.branchActive = cond(m.options, m.attribs)
	f.branchTaken = f.branchActive
	return nil
}

// Else marks the final, unconditional branch live iff no prior branch was
// taken.
func (m *Machine) Else() error {
	f := m.top()
	f.branchActive = !f.branchTaken
	f.branchTaken = true
	return nil
}

// BranchActive reports whether requests in the current If/ElseIf/Else
// branch should be dispatched (true) or lexed-and-discarded (false).
func (m *Machine) BranchActive() bool {
	if m.Current() != ModeIf {
		return true
	}
	return m.top().branchActive
}

// EndIf closes the conditional block.
func (m *Machine) EndIf() error { return m.Pop(ModeIf) }

// ---------------------------------------------------------------------------
// Option / attribute query-back.
// ---------------------------------------------------------------------------

// SetOption records a render option value for later query-back.
func (m *Machine) SetOption(name string, v any) { m.options[name] = v }

// CurrentOption looks up a previously-set render option.
func (m *Machine) CurrentOption(name string) (any, bool) { v, ok := m.options[name]; return v, ok }

// SetAttribute records a graphics-state attribute value for later
// query-back.
func (m *Machine) SetAttribute(name string, v any) { m.attribs[name] = v }

// CurrentAttribute looks up a previously-set graphics-state attribute.
func (m *Machine) CurrentAttribute(name string) (any, bool) { v, ok := m.attribs[name]; return v, ok }
