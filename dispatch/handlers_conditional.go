package dispatch

import "github.com/rmanicore/ri/macro"

// These handlers are registered by registerConditionalHandlers in
// handlers_archive.go, alongside ReadArchive. IfBegin, ElseIf, Else and
// IfEnd are the "control" requests that keep running even while a
// conditional branch is inactive (table.go's conditionalControlNames);
// ReadArchive is not one of them.

func handleIfBegin(c *Context, req dispReq, args argSlice, params paramList) error {
	expr, err := argString(args, 0)
	if err != nil {
		return c.errorf(req.Line, 0, "IfBegin: %v", err)
	}
	if err := c.State.BeginIf(parseCondition(expr)); err != nil {
		return c.errorf(req.Line, 0, "%v", err)
	}
	p := macro.GenericCallPayload{Name: "IfBegin", Strings: []string{expr}}
	return c.emit(req.Line, p, func() error { return nil })
}

func handleElseIf(c *Context, req dispReq, args argSlice, params paramList) error {
	expr, err := argString(args, 0)
	if err != nil {
		return c.errorf(req.Line, 0, "ElseIf: %v", err)
	}
	if err := c.State.ElseIf(parseCondition(expr)); err != nil {
		return c.errorf(req.Line, 0, "%v", err)
	}
	p := macro.GenericCallPayload{Name: "ElseIf", Strings: []string{expr}}
	return c.emit(req.Line, p, func() error { return nil })
}

func handleElse(c *Context, req dispReq, args argSlice, params paramList) error {
	if err := c.State.Else(); err != nil {
		return c.errorf(req.Line, 0, "%v", err)
	}
	p := macro.NullaryPayload{Name: "Else"}
	return c.emit(req.Line, p, func() error { return nil })
}

func handleIfEnd(c *Context, req dispReq, args argSlice, params paramList) error {
	if err := c.State.EndIf(); err != nil {
		return c.errorf(req.Line, 0, "%v", err)
	}
	p := macro.NullaryPayload{Name: "IfEnd"}
	return c.emit(req.Line, p, func() error { return nil })
}
