package dispatch

import (
	"github.com/rmanicore/ri/diag"
	"github.com/rmanicore/ri/macro"
)

func registerTransformHandlers(t *Table) {
	t.register("Identity", handleIdentity)
	t.register("ConcatTransform", handleConcatTransform)
	t.register("Translate", handleTranslate)
	t.register("Rotate", handleRotate)
	t.register("Scale", handleScale)
	t.register("CoordinateSystem", handleCoordinateSystem)
	t.register("CoordSysTransform", handleCoordSysTransform)
	t.register("Color", handleColor)
	t.register("Opacity", handleOpacity)
	t.register("Surface", handleSurface)
	t.register("Attribute", handleAttribute)
}

func handleIdentity(c *Context, req dispReq, args argSlice, params paramList) error {
	p := macro.NullaryPayload{Name: "Identity"}
	return c.emit(req.Line, p, c.Backend.Identity)
}

func handleConcatTransform(c *Context, req dispReq, args argSlice, params paramList) error {
	vals, err := normalizeNumericArgs(args)
	if err != nil || len(vals) != 16 {
		return c.errorf(req.Line, 0, "ConcatTransform: expected a 16-element matrix")
	}
	var m [16]float64
	copy(m[:], vals)
	p := macro.GenericCallPayload{Name: "ConcatTransform", Matrix: &m}
	return c.emit(req.Line, p, func() error { return c.Backend.ConcatTransform(m) })
}

func handleTranslate(c *Context, req dispReq, args argSlice, params paramList) error {
	vals, err := normalizeNumericArgs(args)
	if err != nil || len(vals) < 3 {
		return c.errorf(req.Line, 0, "Translate: expected x, y, z")
	}
	p := macro.GenericCallPayload{Name: "Translate", Floats: vals}
	return c.emit(req.Line, p, func() error { return c.Backend.Translate(vals[0], vals[1], vals[2]) })
}

func handleRotate(c *Context, req dispReq, args argSlice, params paramList) error {
	vals, err := normalizeNumericArgs(args)
	if err != nil || len(vals) < 4 {
		return c.errorf(req.Line, 0, "Rotate: expected angle, x, y, z")
	}
	p := macro.GenericCallPayload{Name: "Rotate", Floats: vals}
	return c.emit(req.Line, p, func() error { return c.Backend.Rotate(vals[0], vals[1], vals[2], vals[3]) })
}

func handleScale(c *Context, req dispReq, args argSlice, params paramList) error {
	vals, err := normalizeNumericArgs(args)
	if err != nil || len(vals) < 3 {
		return c.errorf(req.Line, 0, "Scale: expected x, y, z")
	}
	p := macro.GenericCallPayload{Name: "Scale", Floats: vals}
	return c.emit(req.Line, p, func() error { return c.Backend.Scale(vals[0], vals[1], vals[2]) })
}

func handleCoordinateSystem(c *Context, req dispReq, args argSlice, params paramList) error {
	name, err := argString(args, 0)
	if err != nil {
		return c.errorf(req.Line, 0, "CoordinateSystem: %v", err)
	}
	p := macro.GenericCallPayload{Name: "CoordinateSystem", Strings: []string{name}}
	return c.emit(req.Line, p, func() error { return c.Backend.CoordinateSystem(name) })
}

func handleCoordSysTransform(c *Context, req dispReq, args argSlice, params paramList) error {
	name, err := argString(args, 0)
	if err != nil {
		return c.errorf(req.Line, 0, "CoordSysTransform: %v", err)
	}
	p := macro.GenericCallPayload{Name: "CoordSysTransform", Strings: []string{name}}
	return c.emit(req.Line, p, func() error { return c.Backend.CoordSysTransform(name) })
}

func handleColor(c *Context, req dispReq, args argSlice, params paramList) error {
	vals, err := colorVector(c, req, args, "Color")
	if err != nil {
		return err
	}
	p := macro.ColorPayload{Name: "Color", Values: vals}
	return c.emit(req.Line, p, func() error { return c.Backend.Color(vals) })
}

func handleOpacity(c *Context, req dispReq, args argSlice, params paramList) error {
	vals, err := colorVector(c, req, args, "Opacity")
	if err != nil {
		return err
	}
	p := macro.ColorPayload{Name: "Opacity", Values: vals}
	return c.emit(req.Line, p, func() error { return c.Backend.Opacity(vals) })
}

// colorVector normalizes a Color/Opacity argument shape and checks it
// against the process color-sample count; a mismatch is an error.
func colorVector(c *Context, req dispReq, args argSlice, name string) ([]float64, error) {
	vals, err := normalizeNumericArgs(args)
	if err != nil {
		return nil, c.errorf(req.Line, 0, "%s: %v", name, err)
	}
	if len(vals) != c.counts.ColorSamples {
		return nil, c.errorf(req.Line, diag.CodeRange, "%s: expected %d color samples, got %d", name, c.counts.ColorSamples, len(vals))
	}
	return vals, nil
}

func handleSurface(c *Context, req dispReq, args argSlice, pending paramList) error {
	name, err := argString(args, 0)
	if err != nil {
		return c.errorf(req.Line, 0, "Surface: %v", err)
	}
	c.counts = constantCounts(c.counts.ColorSamples)
	params, err := c.bind(req.Line, pending)
	if err != nil {
		return err
	}
	p := macro.GenericCallPayload{Name: "Surface", Strings: []string{name}, Params: params}
	return c.emit(req.Line, p, func() error { return c.Backend.Surface(name, params) })
}

func handleAttribute(c *Context, req dispReq, args argSlice, pending paramList) error {
	name, err := argString(args, 0)
	if err != nil {
		return c.errorf(req.Line, 0, "Attribute: %v", err)
	}
	c.counts = constantCounts(c.counts.ColorSamples)
	params, err := c.bind(req.Line, pending)
	if err != nil {
		return err
	}
	recordStateValues(name, params, c.State.SetAttribute)
	p := macro.GenericCallPayload{Name: "Attribute", Strings: []string{name}, Params: params}
	return c.emit(req.Line, p, func() error { return c.Backend.Attribute(name, params) })
}
