package dispatch

import (
	"github.com/rmanicore/ri/diag"
	"github.com/rmanicore/ri/ribparse"
)

// Table maps request names to their Handler, built once and reused across
// an entire render.
type Table struct {
	handlers map[string]Handler
}

// NewTable builds the complete request-dispatch table, one handler per
// supported request.
func NewTable() *Table {
	t := &Table{handlers: make(map[string]Handler)}
	registerFrameHandlers(t)
	registerNestingHandlers(t)
	registerTransformHandlers(t)
	registerHandleHandlers(t)
	registerGeometryHandlers(t)
	registerArchiveHandlers(t)
	registerConditionalHandlers(t)
	return t
}

func (t *Table) register(name string, h Handler) {
	t.handlers[name] = h
}

// Dispatch looks up req.Name's handler and invokes it. Requests inside an
// inactive conditional branch are silently skipped; requests
// inside an open motion block are checked against the block's sample
// signature before being handled. Splitting the request's trailing
// parameter-list pairs out of its positional arguments happens here;
// binding those pairs against the request's entity counts is the
// handler's job, since only the handler knows what those counts are --
// counts are a property of the geometry being declared.
// conditionalControlNames must run even inside an inactive branch: they are
// what flips BranchActive back on for a later ElseIf/Else, or closes the
// block entirely.
var conditionalControlNames = map[string]bool{
	"IfBegin": true, "ElseIf": true, "Else": true, "IfEnd": true,
}

// positionalArity gives the count of leading arguments that belong to a
// request's fixed signature even when string-typed, so splitParamList does
// not mistake a shader name or handle id for the start of the parameter
// list. Requests absent from the map have no string-bearing positional
// arguments.
var positionalArity = map[string]int{
	"Declare":           2,
	"Option":            1,
	"Projection":        1,
	"Surface":           1,
	"Attribute":         1,
	"CoordinateSystem":  1,
	"CoordSysTransform": 1,
	"SolidBegin":        1,
	"ObjectBegin":       1,
	"ObjectInstance":    1,
	"ArchiveBegin":      1,
	"ReadArchive":       1,
	"IfBegin":           1,
	"ElseIf":            1,
	"LightSource":       2,
	"AreaLightSource":   2,
	"Illuminate":        2,
	"SubdivisionMesh":   7,
}

func (t *Table) Dispatch(c *Context, req ribparse.Request) error {
	if !c.State.BranchActive() && !conditionalControlNames[req.Name] {
		return nil
	}
	h, ok := t.handlers[req.Name]
	if !ok {
		return c.errorf(req.Line, diag.CodeBadToken, "unknown request %q", req.Name)
	}
	if err := c.State.CheckMotionSample(req.Name, len(req.Args)); err != nil {
		return c.errorf(req.Line, diag.CodeBadMotion, "%v", err)
	}
	positional, names, values := splitParamList(req.Args, positionalArity[req.Name])
	c.line = req.Line
	c.Backend.SetCurrentLine(req.Line)
	return h(c, req, positional, pendingParams{names: names, values: values})
}
