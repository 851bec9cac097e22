package subdiv

import "math"

// vec3 is a 3-component vector of float64 used for positions and normals.
type vec3 struct {
	X, Y, Z float64
}

func (v vec3) add(w vec3) vec3 {
	return vec3{v.X + w.X, v.Y + w.Y, v.Z + w.Z}
}

func (v vec3) sub(w vec3) vec3 {
	return vec3{v.X - w.X, v.Y - w.Y, v.Z - w.Z}
}

func (v vec3) scale(s float64) vec3 {
	return vec3{s * v.X, s * v.Y, s * v.Z}
}

func (v vec3) cross(w vec3) vec3 {
	return vec3{
		v.Y*w.Z - v.Z*w.Y,
		v.Z*w.X - v.X*w.Z,
		v.X*w.Y - v.Y*w.X,
	}
}

func (v vec3) length() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}

func (v vec3) normalized() vec3 {
	l := v.length()
	if l == 0 {
		return v
	}
	return v.scale(1 / l)
}
