package dispatch

import (
	"github.com/rmanicore/ri/macro"
	"github.com/rmanicore/ri/state"
)

func registerNestingHandlers(t *Table) {
	t.register("AttributeBegin", nestingPush(state.ModeAttribute, "AttributeBegin"))
	t.register("AttributeEnd", nestingPop(state.ModeAttribute, "AttributeEnd"))
	t.register("TransformBegin", nestingPush(state.ModeTransform, "TransformBegin"))
	t.register("TransformEnd", nestingPop(state.ModeTransform, "TransformEnd"))
	t.register("SolidBegin", handleSolidBegin)
	t.register("SolidEnd", nestingPop(state.ModeSolid, "SolidEnd"))
	t.register("MotionBegin", handleMotionBegin)
	t.register("MotionEnd", handleMotionEnd)
}

// nestingPush builds a handler for a parameterless Begin request that only
// pushes a state frame and forwards/records the call -- AttributeBegin and
// TransformBegin share this shape.
func nestingPush(mode state.Mode, name string) Handler {
	return func(c *Context, req dispReq, args argSlice, params paramList) error {
		if err := c.State.Push(mode); err != nil {
			return c.errorf(req.Line, 0, "%v", err)
		}
		p := macro.NullaryPayload{Name: name}
		return c.emit(req.Line, p, backendNullary(c, name))
	}
}

// nestingPop is nestingPush's End-side counterpart.
func nestingPop(mode state.Mode, name string) Handler {
	return func(c *Context, req dispReq, args argSlice, params paramList) error {
		if err := c.State.Pop(mode); err != nil {
			return c.errorf(req.Line, 0, "%v", err)
		}
		p := macro.NullaryPayload{Name: name}
		return c.emit(req.Line, p, backendNullary(c, name))
	}
}

// backendNullary resolves the Backend method matching a nullary request
// name, used by nestingPush/nestingPop to avoid a method-per-case switch.
func backendNullary(c *Context, name string) func() error {
	switch name {
	case "AttributeBegin":
		return c.Backend.AttributeBegin
	case "AttributeEnd":
		return c.Backend.AttributeEnd
	case "TransformBegin":
		return c.Backend.TransformBegin
	case "TransformEnd":
		return c.Backend.TransformEnd
	case "SolidEnd":
		return c.Backend.SolidEnd
	case "MotionEnd":
		return c.Backend.MotionEnd
	case "WorldBegin":
		return c.Backend.WorldBegin
	case "WorldEnd":
		return c.Backend.WorldEnd
	case "FrameEnd":
		return c.Backend.FrameEnd
	case "ObjectEnd":
		return c.Backend.ObjectEnd
	case "ArchiveEnd":
		return c.Backend.ArchiveEnd
	case "Identity":
		return c.Backend.Identity
	default:
		return func() error { return nil }
	}
}

func handleSolidBegin(c *Context, req dispReq, args argSlice, params paramList) error {
	kind, err := argString(args, 0)
	if err != nil {
		return c.errorf(req.Line, 0, "SolidBegin: %v", err)
	}
	if err := c.State.Push(state.ModeSolid); err != nil {
		return c.errorf(req.Line, 0, "%v", err)
	}
	p := macro.GenericCallPayload{Name: "SolidBegin", Strings: []string{kind}}
	return c.emit(req.Line, p, func() error { return c.Backend.SolidBegin(kind) })
}

func handleMotionBegin(c *Context, req dispReq, args argSlice, params paramList) error {
	times, err := normalizeNumericArgs(args)
	if err != nil {
		return c.errorf(req.Line, 0, "MotionBegin: %v", err)
	}
	if err := c.State.BeginMotion(times); err != nil {
		return c.errorf(req.Line, 0, "%v", err)
	}
	p := macro.MotionPayload{Times: times}
	return c.emit(req.Line, p, func() error { return c.Backend.MotionBegin(times) })
}

func handleMotionEnd(c *Context, req dispReq, args argSlice, params paramList) error {
	if err := c.State.EndMotion(); err != nil {
		return c.errorf(req.Line, 0, "%v", err)
	}
	p := macro.NullaryPayload{Name: "MotionEnd"}
	return c.emit(req.Line, p, c.Backend.MotionEnd)
}
