package param

import (
	"fmt"
	"strings"
)

// Class is the RenderMan storage class of a declared parameter.
type Class uint8

const (
	ClassConstant Class = iota
	ClassUniform
	ClassVarying
	ClassVertex
	ClassFaceVarying
	ClassFaceVertex
)

func (c Class) String() string {
	switch c {
	case ClassConstant:
		return "constant"
	case ClassUniform:
		return "uniform"
	case ClassVarying:
		return "varying"
	case ClassVertex:
		return "vertex"
	case ClassFaceVarying:
		return "facevarying"
	case ClassFaceVertex:
		return "facevertex"
	default:
		return "unknown"
	}
}

// Declaration is a (name, storage-class, basic-type, cardinality,
// elements-per-component) tuple.
type Declaration struct {
	Name            string
	Class           Class
	Type            Kind
	ElementsPerComp int  // e.g. 3 for "point", 16 for "matrix", 1 for scalars
	IsColor         bool // components_per_element is the process color-sample count
}

// Counts is the per-request value-counts record used to compute selected
// counts for each storage class.
type Counts struct {
	Vertices     int
	Corners      int
	Facets       int
	FaceVertices int
	FaceCorners  int
	ColorSamples int // defaults to 3; settable via ColorSamples request
}

// SelectedCount returns class_multiplier(class, counts) for the given
// declaration class.
func SelectedCount(class Class, c Counts) int {
	switch class {
	case ClassConstant:
		return 1
	case ClassUniform:
		return c.Facets
	case ClassVarying:
		return c.Corners
	case ClassVertex:
		return c.Vertices
	case ClassFaceVarying:
		return c.FaceCorners
	case ClassFaceVertex:
		return c.FaceVertices
	default:
		return 0
	}
}

// ComponentsPerElement returns the expected number of scalar components for
// one element of the declaration, given the process-wide color-sample
// count (used only when d.IsColor).
func (d Declaration) ComponentsPerElement(counts Counts) int {
	if d.IsColor {
		n := counts.ColorSamples
		if n == 0 {
			n = 3
		}
		return n
	}
	return d.ElementsPerComp
}

// ExpectedCardinality returns selected_count * components_per_element for
// this declaration against the given value-counts record.
func (d Declaration) ExpectedCardinality(counts Counts) int {
	return SelectedCount(d.Class, counts) * d.ComponentsPerElement(counts)
}

// Dictionary resolves parameter names to declarations: inline type
// expressions, a per-render-context table of previously declared names
// (qualified as "entity:table:name"), and the built-in standard names.
type Dictionary struct {
	table    map[string]Declaration
	standard map[string]Declaration
}

// NewDictionary creates a dictionary seeded with the built-in standard
// parameter declarations (P, N, Cs, Os, st, ...).
func NewDictionary() *Dictionary {
	d := &Dictionary{
		table:    make(map[string]Declaration),
		standard: standardDeclarations(),
	}
	return d
}

// Declare registers name -> decl in this dictionary's table, available for later
// qualified or unqualified lookup.
func (d *Dictionary) Declare(name string, decl Declaration) {
	d.table[name] = decl
}

// Resolve binds name to a Declaration following the three-step order from
// the RI binding rules: inline type expression, table lookup (qualified or
// bare),
// then built-in standard name.
func (d *Dictionary) Resolve(name string) (Declaration, error) {
	if decl, ok := parseInlineDeclaration(name); ok {
		return decl, nil
	}
	if idx := strings.LastIndex(name, ":"); idx >= 0 {
		bare := name[idx+1:]
		if decl, ok := d.table[name]; ok {
			return decl, nil
		}
		if decl, ok := d.table[bare]; ok {
			return decl, nil
		}
		if decl, ok := d.standard[bare]; ok {
			return decl, nil
		}
		return Declaration{}, fmt.Errorf("param: unknown qualified parameter %q", name)
	}
	if decl, ok := d.table[name]; ok {
		return decl, nil
	}
	if decl, ok := d.standard[name]; ok {
		return decl, nil
	}
	return Declaration{}, fmt.Errorf("param: unknown parameter %q", name)
}

// ParseDeclaration parses a Declare request's declaration text, e.g.
// "uniform float" or "vertex point[2]", binding it to name. A type-only
// declaration defaults to the uniform storage class.
func ParseDeclaration(name, spec string) (Declaration, error) {
	if decl, ok := parseInlineDeclaration(spec + " " + name); ok {
		decl.Name = name
		return decl, nil
	}
	if decl, ok := parseInlineDeclaration("uniform " + spec + " " + name); ok {
		decl.Name = name
		return decl, nil
	}
	return Declaration{}, fmt.Errorf("param: cannot parse declaration %q for %q", spec, name)
}

// parseInlineDeclaration parses a name of the form
// "class type[n] name" (e.g. "varying float[2] st") into a Declaration.
// Returns ok=false if name does not contain an inline type expression.
func parseInlineDeclaration(name string) (Declaration, bool) {
	fields := strings.Fields(name)
	if len(fields) < 2 {
		return Declaration{}, false
	}
	class, ok := parseClass(fields[0])
	if !ok {
		return Declaration{}, false
	}
	typeField := fields[1]
	elems := 1
	base := typeField
	if i := strings.IndexByte(typeField, '['); i >= 0 && strings.HasSuffix(typeField, "]") {
		base = typeField[:i]
		fmt.Sscanf(typeField[i+1:len(typeField)-1], "%d", &elems)
	}
	kind, ok := parseBasicType(base)
	if !ok {
		return Declaration{}, false
	}
	fieldName := typeField
	if len(fields) >= 3 {
		fieldName = fields[2]
	}
	decl := Declaration{Name: fieldName, Class: class, Type: kind, ElementsPerComp: elementsFor(base, elems)}
	if base == "color" {
		decl.IsColor = true
		decl.ElementsPerComp = elems
	}
	return decl, true
}

func parseClass(s string) (Class, bool) {
	switch s {
	case "constant":
		return ClassConstant, true
	case "uniform":
		return ClassUniform, true
	case "varying":
		return ClassVarying, true
	case "vertex":
		return ClassVertex, true
	case "facevarying":
		return ClassFaceVarying, true
	case "facevertex":
		return ClassFaceVertex, true
	default:
		return 0, false
	}
}

func parseBasicType(s string) (Kind, bool) {
	switch s {
	case "float", "point", "vector", "normal", "color", "matrix":
		return KindFloat, true
	case "integer", "int":
		return KindInt, true
	case "string":
		return KindString, true
	default:
		return 0, false
	}
}

func elementsFor(base string, arraySize int) int {
	n := 1
	switch base {
	case "point", "vector", "normal":
		n = 3
	case "color":
		n = -1 // resolved via IsColor at bind time
	case "matrix":
		n = 16
	}
	if n < 0 {
		return n
	}
	return n * arraySize
}

func standardDeclarations() map[string]Declaration {
	return map[string]Declaration{
		"P":  {Name: "P", Class: ClassVertex, Type: KindFloat, ElementsPerComp: 3},
		"Pz": {Name: "Pz", Class: ClassVertex, Type: KindFloat, ElementsPerComp: 1},
		"Pw": {Name: "Pw", Class: ClassVertex, Type: KindFloat, ElementsPerComp: 4},
		"N":  {Name: "N", Class: ClassVarying, Type: KindFloat, ElementsPerComp: 3},
		"Ng": {Name: "Ng", Class: ClassVarying, Type: KindFloat, ElementsPerComp: 3},
		"Cs": {Name: "Cs", Class: ClassVarying, Type: KindFloat, IsColor: true},
		"Os": {Name: "Os", Class: ClassVarying, Type: KindFloat, IsColor: true},
		"s":  {Name: "s", Class: ClassVarying, Type: KindFloat, ElementsPerComp: 1},
		"t":  {Name: "t", Class: ClassVarying, Type: KindFloat, ElementsPerComp: 1},
		"st": {Name: "st", Class: ClassVarying, Type: KindFloat, ElementsPerComp: 2},

		// Standard shader and camera parameters, predeclared so plain
		// scene files resolve without an explicit Declare.
		"fov":           {Name: "fov", Class: ClassConstant, Type: KindFloat, ElementsPerComp: 1},
		"Ka":            {Name: "Ka", Class: ClassConstant, Type: KindFloat, ElementsPerComp: 1},
		"Kd":            {Name: "Kd", Class: ClassConstant, Type: KindFloat, ElementsPerComp: 1},
		"Ks":            {Name: "Ks", Class: ClassConstant, Type: KindFloat, ElementsPerComp: 1},
		"Kr":            {Name: "Kr", Class: ClassConstant, Type: KindFloat, ElementsPerComp: 1},
		"roughness":     {Name: "roughness", Class: ClassConstant, Type: KindFloat, ElementsPerComp: 1},
		"intensity":     {Name: "intensity", Class: ClassConstant, Type: KindFloat, ElementsPerComp: 1},
		"specularcolor": {Name: "specularcolor", Class: ClassConstant, Type: KindFloat, IsColor: true},
		"lightcolor":    {Name: "lightcolor", Class: ClassConstant, Type: KindFloat, IsColor: true},
		"from":          {Name: "from", Class: ClassConstant, Type: KindFloat, ElementsPerComp: 3},
		"to":            {Name: "to", Class: ClassConstant, Type: KindFloat, ElementsPerComp: 3},
		"texturename":   {Name: "texturename", Class: ClassConstant, Type: KindString, ElementsPerComp: 1},
	}
}
