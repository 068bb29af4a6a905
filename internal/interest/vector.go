// Package interest provides the fixed-dimension thematic vector model used to
// describe activities and user preferences.
package interest

import "math"

// Dim is the number of themes in an interest vector.
const Dim = 9

// Themes lists the theme names in vector component order. The order is part
// of the data contract: catalog loading, profile building and scoring all
// rely on it.
var Themes = [Dim]string{
	"architecture",
	"landscape",
	"politic",
	"history",
	"courtlife",
	"art",
	"engineering",
	"spirituality",
	"nature",
}

// Vector is a 9-dimensional thematic profile. The zero value is the zero vector.
type Vector [Dim]float64

// Add returns the component-wise sum v + o.
func (v Vector) Add(o Vector) Vector {
	var out Vector
	for i := range v {
		out[i] = v[i] + o[i]
	}
	return out
}

// Sub returns the component-wise difference v - o.
func (v Vector) Sub(o Vector) Vector {
	var out Vector
	for i := range v {
		out[i] = v[i] - o[i]
	}
	return out
}

// Scale returns v scaled by f.
func (v Vector) Scale(f float64) Vector {
	var out Vector
	for i := range v {
		out[i] = v[i] * f
	}
	return out
}

// Dot returns the dot product of v and o.
func (v Vector) Dot(o Vector) float64 {
	var sum float64
	for i := range v {
		sum += v[i] * o[i]
	}
	return sum
}

// Norm returns the Euclidean norm of v.
func (v Vector) Norm() float64 {
	return math.Sqrt(v.Dot(v))
}

// IsZero reports whether every component of v is zero.
func (v Vector) IsZero() bool {
	for _, c := range v {
		if c != 0 {
			return false
		}
	}
	return true
}

// Normalize returns v divided by its Euclidean norm. The zero vector is
// returned unchanged so callers never divide by zero.
func (v Vector) Normalize() Vector {
	n := v.Norm()
	if n == 0 {
		return v
	}
	return v.Scale(1 / n)
}

// ByTheme returns the vector as a theme-name keyed map, for presentation.
func (v Vector) ByTheme() map[string]float64 {
	out := make(map[string]float64, Dim)
	for i, name := range Themes {
		out[name] = v[i]
	}
	return out
}

// Cosine returns the cosine similarity of a and b in [-1, 1].
// Defined as 0 when either vector has zero norm.
func Cosine(a, b Vector) float64 {
	na := a.Norm()
	nb := b.Norm()
	if na == 0 || nb == 0 {
		return 0
	}
	return a.Dot(b) / (na * nb)
}
