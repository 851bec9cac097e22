package dispatch

import (
	"fmt"
	"strconv"

	"github.com/rmanicore/ri/backend"
	"github.com/rmanicore/ri/macro"
	"github.com/rmanicore/ri/param"
	"github.com/rmanicore/ri/state"
)

func registerHandleHandlers(t *Table) {
	t.register("ObjectBegin", handleObjectBegin)
	t.register("ObjectEnd", handleObjectEnd)
	t.register("ObjectInstance", handleObjectInstance)
	t.register("LightSource", handleLightSource)
	t.register("AreaLightSource", handleAreaLightSource)
	t.register("Illuminate", handleIlluminate)
	t.register("ArchiveBegin", handleArchiveBegin)
	t.register("ArchiveEnd", handleArchiveEnd)
}

// handleID stringifies a handle-id argument (RIB allows either an integer
// or a string token) and reports which form it was.
func handleID(args argSlice, i int) (id string, isInt bool, err error) {
	if i >= len(args) {
		return "", false, fmt.Errorf("expected a handle-id argument")
	}
	v := args[i]
	switch v.Kind {
	case param.KindInt:
		return strconv.FormatInt(v.Ints[0], 10), true, nil
	case param.KindFloat:
		// Binary fixed-point numbers decode as floats; an integer-valued
		// float is an integer handle id.
		if f := v.Floats[0]; f == float64(int64(f)) {
			return strconv.FormatInt(int64(f), 10), true, nil
		}
		return "", false, fmt.Errorf("handle-id must be an integer or string, got fractional %g", v.Floats[0])
	case param.KindString:
		return v.Strings[0], false, nil
	default:
		return "", false, fmt.Errorf("handle-id must be an integer or string, got %s", v.Kind)
	}
}

func handleObjectBegin(c *Context, req dispReq, args argSlice, params paramList) error {
	if c.recording != nil {
		return c.errorf(req.Line, 0, "ObjectBegin: object definitions cannot nest")
	}
	id, isInt, err := handleID(args, 0)
	if err != nil {
		return c.errorf(req.Line, 0, "ObjectBegin: %v", err)
	}
	if err := c.State.Push(state.ModeObject); err != nil {
		return c.errorf(req.Line, 0, "%v", err)
	}
	c.recording = macro.New(id, true)
	c.recording.Append(req.Line, macro.HandleEmitPayload{Name: "ObjectBegin", ID: id, IDIsInt: isInt})
	return nil
}

func handleObjectEnd(c *Context, req dispReq, args argSlice, params paramList) error {
	if c.recording == nil {
		return c.errorf(req.Line, 0, "ObjectEnd: no open object definition")
	}
	if err := c.State.Pop(state.ModeObject); err != nil {
		return c.errorf(req.Line, 0, "%v", err)
	}
	m := c.recording
	m.Append(req.Line, macro.NullaryPayload{Name: "ObjectEnd"})
	m.Close()
	c.Store.Put(m)
	c.recording = nil
	return nil
}

func handleObjectInstance(c *Context, req dispReq, args argSlice, params paramList) error {
	id, isInt, err := handleID(args, 0)
	if err != nil {
		return c.errorf(req.Line, 0, "ObjectInstance: %v", err)
	}
	if c.recording != nil {
		c.recording.Append(req.Line, macro.HandleConsumePayload{Name: "ObjectInstance", ID: id, IDIsInt: isInt})
		return nil
	}
	m, ok := c.Store.Get(id)
	if !ok {
		return c.errorf(req.Line, 0, "ObjectInstance: unknown object handle %q", id)
	}
	if err := c.Store.ReplayObject(m, c.Backend, c.Bindings, c.archiveName); err != nil {
		return c.errorf(req.Line, 0, "%v", err)
	}
	return nil
}

func handleLightSource(c *Context, req dispReq, args argSlice, pending paramList) error {
	return emitLightLike(c, req, args, pending, "LightSource")
}

func handleAreaLightSource(c *Context, req dispReq, args argSlice, pending paramList) error {
	return emitLightLike(c, req, args, pending, "AreaLightSource")
}

func emitLightLike(c *Context, req dispReq, args argSlice, pending paramList, name string) error {
	if err := c.State.AllowLight(); err != nil {
		return c.errorf(req.Line, 0, "%v", err)
	}
	shader, err := argString(args, 0)
	if err != nil {
		return c.errorf(req.Line, 0, "%s: %v", name, err)
	}
	id, isInt, err := handleID(args, 1)
	if err != nil {
		return c.errorf(req.Line, 0, "%s: %v", name, err)
	}
	c.counts = constantCounts(c.counts.ColorSamples)
	params, err := c.bind(req.Line, pending)
	if err != nil {
		return err
	}
	if c.recording != nil {
		c.recording.Append(req.Line, macro.HandleEmitPayload{Name: name, ID: id, IDIsInt: isInt, ShaderName: shader, Params: params})
		return nil
	}
	var h backend.Handle
	var emitErr error
	if name == "LightSource" {
		h, emitErr = c.Backend.LightSource(shader, id, params)
	} else {
		h, emitErr = c.Backend.AreaLightSource(shader, id, params)
	}
	if emitErr != nil {
		return c.errorf(req.Line, 0, "%s: %v", name, emitErr)
	}
	bindTopLevelLight(c, id, isInt, h)
	return nil
}

func bindTopLevelLight(c *Context, id string, isInt bool, h backend.Handle) {
	if isInt {
		n, _ := strconv.ParseInt(id, 10, 64)
		c.Bindings.BindLightInt(n, h)
	} else {
		c.Bindings.BindLightString(id, h)
	}
}

func handleIlluminate(c *Context, req dispReq, args argSlice, params paramList) error {
	id, isInt, err := handleID(args, 0)
	if err != nil {
		return c.errorf(req.Line, 0, "Illuminate: %v", err)
	}
	on, err := argInt(args, 1)
	if err != nil {
		return c.errorf(req.Line, 0, "Illuminate: %v", err)
	}
	if c.recording != nil {
		c.recording.Append(req.Line, macro.HandleConsumePayload{Name: "Illuminate", ID: id, IDIsInt: isInt, Bool: on != 0})
		return nil
	}
	var h backend.Handle
	var ok bool
	if isInt {
		n, _ := strconv.ParseInt(id, 10, 64)
		h, ok = c.Bindings.LookupLightInt(n)
	} else {
		h, ok = c.Bindings.LookupLightString(id)
	}
	if !ok {
		return c.errorf(req.Line, 0, "Illuminate: unknown light handle %q", id)
	}
	return c.Backend.Illuminate(h, on != 0)
}

func handleArchiveBegin(c *Context, req dispReq, args argSlice, pending paramList) error {
	if c.recording != nil {
		return c.errorf(req.Line, 0, "ArchiveBegin: archive definitions cannot nest")
	}
	id, isInt, err := handleID(args, 0)
	if err != nil {
		return c.errorf(req.Line, 0, "ArchiveBegin: %v", err)
	}
	c.counts = constantCounts(c.counts.ColorSamples)
	params, err := c.bind(req.Line, pending)
	if err != nil {
		return err
	}
	if err := c.State.Push(state.ModeObject); err != nil {
		return c.errorf(req.Line, 0, "%v", err)
	}
	c.recording = macro.New(id, false)
	c.recording.Append(req.Line, macro.HandleEmitPayload{Name: "ArchiveBegin", ID: id, IDIsInt: isInt, Params: params})
	return nil
}

func handleArchiveEnd(c *Context, req dispReq, args argSlice, params paramList) error {
	if c.recording == nil {
		return c.errorf(req.Line, 0, "ArchiveEnd: no open archive definition")
	}
	if err := c.State.Pop(state.ModeObject); err != nil {
		return c.errorf(req.Line, 0, "%v", err)
	}
	m := c.recording
	m.Append(req.Line, macro.NullaryPayload{Name: "ArchiveEnd"})
	m.Close()
	c.Store.Put(m)
	c.recording = nil
	return nil
}
