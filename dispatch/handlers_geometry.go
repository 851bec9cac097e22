package dispatch

import (
	"fmt"

	"github.com/rmanicore/ri/backend"
	"github.com/rmanicore/ri/diag"
	"github.com/rmanicore/ri/macro"
	"github.com/rmanicore/ri/param"
	"github.com/rmanicore/ri/subdiv"
)

func registerGeometryHandlers(t *Table) {
	t.register("Sphere", handleSphere)
	t.register("Polygon", handlePolygon)
	t.register("SubdivisionMesh", handleSubdivisionMesh)
}

func handleSphere(c *Context, req dispReq, args argSlice, pending paramList) error {
	if err := c.State.AllowGeometry(); err != nil {
		return c.errorf(req.Line, 0, "%v", err)
	}
	vals, err := normalizeNumericArgs(args)
	if err != nil || len(vals) < 4 {
		return c.errorf(req.Line, 0, "Sphere: expected radius, zmin, zmax, thetamax")
	}
	c.counts = singleVertexCounts(c.counts.ColorSamples)
	params, err := c.bind(req.Line, pending)
	if err != nil {
		return err
	}
	p := macro.GenericCallPayload{Name: "Sphere", Floats: vals, Params: params}
	return c.emit(req.Line, p, func() error { return c.Backend.Sphere(vals[0], vals[1], vals[2], vals[3], params) })
}

func handlePolygon(c *Context, req dispReq, args argSlice, pending paramList) error {
	if err := c.State.AllowGeometry(); err != nil {
		return c.errorf(req.Line, 0, "%v", err)
	}
	// The vertex count is implied by the "P" parameter; some streams also
	// write it as a leading scalar.
	var nverts int64
	if len(args) > 0 {
		nverts, _ = argInt(args, 0)
	}
	if nverts == 0 {
		for i, name := range pending.names {
			if name == "P" {
				nverts = int64(pending.values[i].Len() / 3)
			}
		}
	}
	if nverts == 0 {
		return c.errorf(req.Line, diag.CodeMissingData, "Polygon: missing \"P\" parameter")
	}
	c.counts = polygonCounts(int(nverts), c.counts.ColorSamples)
	params, err := c.bind(req.Line, pending)
	if err != nil {
		return err
	}
	p := macro.GenericCallPayload{Name: "Polygon", Ints: []int64{nverts}, Params: params}
	return c.emit(req.Line, p, func() error { return c.Backend.Polygon(int(nverts), params) })
}

func handleSubdivisionMesh(c *Context, req dispReq, args argSlice, pending paramList) error {
	if err := c.State.AllowGeometry(); err != nil {
		return c.errorf(req.Line, 0, "%v", err)
	}
	var ctrl backend.ControlMesh
	var err error
	if ctrl.Scheme, err = argString(args, 0); err != nil {
		return c.errorf(req.Line, 0, "SubdivisionMesh: %v", err)
	}
	if ctrl.NVerts, err = argIntSlice(args, 1); err != nil {
		return c.errorf(req.Line, 0, "SubdivisionMesh: %v", err)
	}
	if ctrl.VertIdx, err = argIntSlice(args, 2); err != nil {
		return c.errorf(req.Line, 0, "SubdivisionMesh: %v", err)
	}
	if ctrl.Tags, err = argStringSlice(args, 3); err != nil {
		return c.errorf(req.Line, 0, "SubdivisionMesh: %v", err)
	}
	if ctrl.NArgs, err = argIntSlice(args, 4); err != nil {
		return c.errorf(req.Line, 0, "SubdivisionMesh: %v", err)
	}
	if ctrl.IntArgs, err = argIntSlice(args, 5); err != nil {
		return c.errorf(req.Line, 0, "SubdivisionMesh: %v", err)
	}
	if ctrl.FloatArgs, err = argFloatSlice(args, 6); err != nil {
		return c.errorf(req.Line, 0, "SubdivisionMesh: %v", err)
	}
	if ctrl.Scheme != "catmull-clark" {
		return c.errorf(req.Line, diag.CodeUnimplement, "SubdivisionMesh: unsupported scheme %q", ctrl.Scheme)
	}
	c.counts = subdivisionCounts(ctrl.NVerts, ctrl.VertIdx, c.counts.ColorSamples)
	params, err := c.bind(req.Line, pending)
	if err != nil {
		return err
	}
	warn := func(msg string) {
		c.report(req.Line, diag.CodeConsistency, diag.SeverityWarning, "SubdivisionMesh: "+msg)
	}
	tess, err := buildTessellator(ctrl, params, c.counts, warn)
	if err != nil {
		return c.errorf(req.Line, diag.CodeConsistency, "SubdivisionMesh: %v", err)
	}
	p := macro.SubdivisionPayload{Ctrl: ctrl, Tess: tess, Params: params}
	return c.emit(req.Line, p, func() error {
		u, v := c.Backend.DisplayTessellation()
		return c.Backend.SubdivisionMesh(ctrl, tess.Triangulate(u, v), params)
	})
}

// buildTessellator builds the subdivision control mesh, attaches every
// per-entity float parameter as an attribute channel according to its
// storage class, and wraps the result in a depth-caching Tessellator.
func buildTessellator(ctrl backend.ControlMesh, params *param.List, counts param.Counts, warn func(string)) (*subdiv.Tessellator, error) {
	mesh, err := subdiv.BuildMesh(ctrl.NVerts, ctrl.VertIdx, ctrl.Tags, ctrl.NArgs, ctrl.IntArgs, ctrl.FloatArgs, warn)
	if err != nil {
		return nil, err
	}
	if params != nil {
		for _, e := range params.Entries() {
			if e.Value.Kind != param.KindFloat {
				continue
			}
			comps := e.Decl.ComponentsPerElement(counts)
			switch e.Decl.Class {
			case param.ClassVertex:
				err = mesh.AddVertexChannel(e.Decl.Name, comps, e.Value.Floats)
			case param.ClassVarying:
				err = mesh.AddVaryingChannel(e.Decl.Name, comps, e.Value.Floats)
			case param.ClassFaceVarying:
				err = mesh.AddFaceVaryingChannel(e.Decl.Name, comps, e.Value.Floats)
			case param.ClassFaceVertex:
				err = mesh.AddFaceVertexChannel(e.Decl.Name, comps, e.Value.Floats)
			default:
				// Constant and uniform data is not per-vertex; it rides
				// along in the parameter list untouched.
				continue
			}
			if err != nil {
				return nil, err
			}
		}
	}
	if mesh.Channel("P") == nil {
		return nil, fmt.Errorf(`missing required "P" parameter`)
	}
	return subdiv.NewTessellator(mesh), nil
}
