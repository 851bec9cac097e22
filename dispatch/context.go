// Package dispatch implements the request-dispatch table: one
// handler per RIB request name, driving state validation, parameter-list
// binding, macro recording and the backend in the right order for every
// request family.
package dispatch

import (
	"fmt"
	"os"

	"github.com/rmanicore/ri/backend"
	"github.com/rmanicore/ri/diag"
	"github.com/rmanicore/ri/handle"
	"github.com/rmanicore/ri/macro"
	"github.com/rmanicore/ri/param"
	"github.com/rmanicore/ri/ribparse"
	"github.com/rmanicore/ri/state"
)

// Context is the shared state every handler closes over: the backend being
// driven, the nesting/motion/conditional state machine, the parameter
// dictionary, the handle-binding table, the macro store, and the current
// recording macro (nil when requests are being dispatched live rather than
// captured for replay).
type Context struct {
	Backend  backend.Backend
	State    *state.Machine
	Dict     *param.Dictionary
	Bindings *handle.Bindings
	Store    *macro.Store
	Reporter diag.Reporter

	// FileReader loads a ReadArchive request's referenced file when no
	// in-memory archive was previously captured under that name. Defaults
	// to os.ReadFile; tests substitute an in-memory fake.
	FileReader func(path string) ([]byte, error)

	counts      param.Counts
	recording   *macro.Macro
	archiveName string
	line        int
}

// NewContext wires a fresh dispatch Context around the given backend.
func NewContext(b backend.Backend, reporter diag.Reporter) *Context {
	c := &Context{
		Backend:    b,
		State:      state.New(),
		Dict:       param.NewDictionary(),
		Bindings:   handle.New(),
		Store:      macro.NewStore(),
		Reporter:   reporter,
		FileReader: os.ReadFile,
		counts:     param.Counts{ColorSamples: 3},
	}
	c.Bindings.OnWarning(func(msg string) {
		c.report(c.line, diag.CodeBadHandle, diag.SeverityWarning, msg)
	})
	return c
}

// Recording reports whether requests are currently being captured into an
// open object/archive macro rather than dispatched straight to the backend.
func (c *Context) Recording() bool { return c.recording != nil }

// emit sends p to the backend directly, or appends it to the open recording
// macro instead.
func (c *Context) emit(line int, p macro.Payload, direct func() error) error {
	if c.recording != nil {
		c.recording.Append(line, p)
		return nil
	}
	return direct()
}

func (c *Context) report(line int, code diag.Code, sev diag.Severity, msg string) {
	if c.Reporter == nil {
		return
	}
	c.Reporter.HandleError(diag.Diagnostic{Code: code, Severity: sev, Line: line, Source: c.archiveName, Message: msg})
}

func (c *Context) errorf(line int, code diag.Code, format string, args ...any) error {
	msg := fmt.Sprintf(format, args...)
	c.report(line, code, diag.SeverityError, msg)
	if c.recording != nil {
		// A capture error poisons the open macro; replay still works but
		// re-emits a diagnostic record.
		c.recording.MarkInvalid()
	}
	return fmt.Errorf("dispatch: %s", msg)
}

// pendingParams is a request's trailing parameter-list pairs, not yet bound
// against entity counts -- the handler decides those counts before calling
// bind, since they depend on the geometry being declared.
type pendingParams struct {
	names  []string
	values []param.Value
}

// bind resolves and binds p against c.Dict and c.counts as they stand right
// now, returning nil if p carries no pairs.
func (c *Context) bind(line int, p pendingParams) (*param.List, error) {
	if len(p.names) == 0 {
		return nil, nil
	}
	list := param.NewList()
	for i, name := range p.names {
		warning, err := list.Bind(c.Dict, name, p.values[i], c.counts)
		if err != nil {
			return nil, c.errorf(line, diag.CodeSyntax, "%v", err)
		}
		if warning != "" {
			c.report(line, diag.CodeSyntax, diag.SeverityWarning, warning)
		}
	}
	return list, nil
}

// Handler processes one parsed request against the shared Context. args is
// the request's positional (non-parameter-list) arguments; pending is its
// not-yet-bound trailing parameter-list pairs.
type Handler func(c *Context, req ribparse.Request, args []param.Value, pending pendingParams) error

// Short local aliases used throughout the handler files to keep per-request
// signatures on one line.
type (
	dispReq   = ribparse.Request
	argSlice  = []param.Value
	paramList = pendingParams
)
