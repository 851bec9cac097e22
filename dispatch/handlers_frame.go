package dispatch

import (
	"fmt"

	"github.com/rmanicore/ri/diag"
	"github.com/rmanicore/ri/macro"
	"github.com/rmanicore/ri/param"
	"github.com/rmanicore/ri/state"
)

func registerFrameHandlers(t *Table) {
	t.register("version", handleVersion)
	t.register("Declare", handleDeclare)
	t.register("Option", handleOption)
	t.register("Format", handleFormat)
	t.register("Projection", handleProjection)
	t.register("ColorSamples", handleColorSamples)
	t.register("FrameBegin", handleFrameBegin)
	t.register("FrameEnd", handleFrameEnd)
	t.register("WorldBegin", handleWorldBegin)
	t.register("WorldEnd", handleWorldEnd)
}

// handleVersion accepts the stream-version marker every RIB file opens
// with. The version is checked, not forwarded: it describes the stream,
// not the scene.
func handleVersion(c *Context, req dispReq, args argSlice, params paramList) error {
	v, err := argFloat(args, 0)
	if err != nil {
		return c.errorf(req.Line, 0, "version: %v", err)
	}
	if v >= 4 {
		c.report(req.Line, diag.CodeVersion, diag.SeverityWarning,
			fmt.Sprintf("stream declares protocol version %g; continuing best-effort", v))
	}
	return nil
}

func handleDeclare(c *Context, req dispReq, args argSlice, params paramList) error {
	name, err := argString(args, 0)
	if err != nil {
		return c.errorf(req.Line, 0, "Declare: %v", err)
	}
	spec, err := argString(args, 1)
	if err != nil {
		return c.errorf(req.Line, 0, "Declare: %v", err)
	}
	decl, err := param.ParseDeclaration(name, spec)
	if err != nil {
		return c.errorf(req.Line, 0, "Declare: %v", err)
	}
	c.Dict.Declare(name, decl)
	p := macro.GenericCallPayload{Name: "Declare", Strings: []string{name, spec}}
	return c.emit(req.Line, p, func() error { return c.Backend.Declare(name, spec) })
}

func handleOption(c *Context, req dispReq, args argSlice, pending paramList) error {
	name, err := argString(args, 0)
	if err != nil {
		return c.errorf(req.Line, 0, "Option: %v", err)
	}
	c.counts = constantCounts(c.counts.ColorSamples)
	params, err := c.bind(req.Line, pending)
	if err != nil {
		return err
	}
	recordStateValues(name, params, c.State.SetOption)
	p := macro.GenericCallPayload{Name: "Option", Strings: []string{name}, Params: params}
	return c.emit(req.Line, p, func() error { return c.Backend.Option(name, params) })
}

// recordStateValues stores a bound parameter list's scalar values under
// "table:param" keys for later query-back by conditional expressions and
// CurrentOption/CurrentAttribute.
func recordStateValues(table string, params *param.List, set func(name string, v any)) {
	if params == nil {
		return
	}
	for _, e := range params.Entries() {
		key := table + ":" + e.Decl.Name
		switch e.Value.Kind {
		case param.KindFloat:
			if e.Value.Len() > 0 {
				set(key, e.Value.Floats[0])
			}
		case param.KindInt:
			if e.Value.Len() > 0 {
				set(key, float64(e.Value.Ints[0]))
			}
		case param.KindString:
			if e.Value.Len() > 0 {
				set(key, e.Value.Strings[0])
			}
		}
	}
}

func handleFormat(c *Context, req dispReq, args argSlice, params paramList) error {
	vals, err := normalizeNumericArgs(args)
	if err != nil || len(vals) < 3 {
		return c.errorf(req.Line, 0, "Format: expected xres, yres, pixelAspect")
	}
	p := macro.GenericCallPayload{Name: "Format", Floats: vals}
	return c.emit(req.Line, p, func() error { return c.Backend.Format(vals[0], vals[1], vals[2]) })
}

func handleProjection(c *Context, req dispReq, args argSlice, pending paramList) error {
	name, err := argString(args, 0)
	if err != nil {
		return c.errorf(req.Line, 0, "Projection: %v", err)
	}
	c.counts = constantCounts(c.counts.ColorSamples)
	params, err := c.bind(req.Line, pending)
	if err != nil {
		return err
	}
	p := macro.GenericCallPayload{Name: "Projection", Strings: []string{name}, Params: params}
	return c.emit(req.Line, p, func() error { return c.Backend.Projection(name, params) })
}

func handleColorSamples(c *Context, req dispReq, args argSlice, params paramList) error {
	var vals []float64
	var n int
	if len(args) == 2 && args[0].IsArray && args[1].IsArray {
		// The two-matrix form: nRGB and RGBn, each n x 3.
		if args[0].Len() != args[1].Len() || args[0].Len()%3 != 0 {
			return c.errorf(req.Line, diag.CodeRange, "ColorSamples: nRGB and RGBn must both be n x 3 matrices")
		}
		for _, a := range args {
			fs, err := widenFloats(a)
			if err != nil {
				return c.errorf(req.Line, 0, "ColorSamples: %v", err)
			}
			vals = append(vals, fs...)
		}
		n = args[0].Len() / 3
	} else {
		var err error
		vals, err = normalizeNumericArgs(args)
		if err != nil || len(vals) == 0 || len(vals)%3 != 0 {
			return c.errorf(req.Line, diag.CodeRange, "ColorSamples: expected n x 3 values")
		}
		// A lone array holding both matrices concatenated is the serialized
		// form of the request; a 3n array that cannot split is nRGB alone.
		if len(vals)%6 == 0 {
			n = len(vals) / 6
		} else {
			n = len(vals) / 3
		}
	}
	c.counts.ColorSamples = n
	p := macro.GenericCallPayload{Name: "ColorSamples", Floats: vals}
	return c.emit(req.Line, p, func() error { return c.Backend.ColorSamples(vals) })
}

func handleFrameBegin(c *Context, req dispReq, args argSlice, params paramList) error {
	n, err := argInt(args, 0)
	if err != nil {
		return c.errorf(req.Line, 0, "FrameBegin: %v", err)
	}
	if err := c.State.Push(state.ModeFrame); err != nil {
		return c.errorf(req.Line, 0, "%v", err)
	}
	p := macro.GenericCallPayload{Name: "FrameBegin", Ints: []int64{n}}
	return c.emit(req.Line, p, func() error { return c.Backend.FrameBegin(int(n)) })
}

func handleFrameEnd(c *Context, req dispReq, args argSlice, params paramList) error {
	if err := c.State.Pop(state.ModeFrame); err != nil {
		return c.errorf(req.Line, 0, "%v", err)
	}
	p := macro.NullaryPayload{Name: "FrameEnd"}
	return c.emit(req.Line, p, c.Backend.FrameEnd)
}

func handleWorldBegin(c *Context, req dispReq, args argSlice, params paramList) error {
	if err := c.State.Push(state.ModeWorld); err != nil {
		return c.errorf(req.Line, 0, "%v", err)
	}
	p := macro.NullaryPayload{Name: "WorldBegin"}
	return c.emit(req.Line, p, c.Backend.WorldBegin)
}

func handleWorldEnd(c *Context, req dispReq, args argSlice, params paramList) error {
	if err := c.State.Pop(state.ModeWorld); err != nil {
		return c.errorf(req.Line, 0, "%v", err)
	}
	p := macro.NullaryPayload{Name: "WorldEnd"}
	return c.emit(req.Line, p, c.Backend.WorldEnd)
}
