package geom

import "math"

type Element = float32

// Vector3 is a position or direction in model space (+Y up, +Z forward).
type Vector3 struct {
	X Element
	Y Element
	Z Element
}

var (
	UnitX = Vector3{X: 1}
	UnitY = Vector3{Y: 1}
	UnitZ = Vector3{Z: 1}
)

func NewVector3(x, y, z float32) *Vector3 {
	return &Vector3{X: x, Y: y, Z: z}
}

func NewVector3FromSlice(a []Element) *Vector3 {
	return &Vector3{X: a[0], Y: a[1], Z: a[2]}
}

func (v *Vector3) Add(v2 *Vector3) *Vector3 {
	return &Vector3{X: v.X + v2.X, Y: v.Y + v2.Y, Z: v.Z + v2.Z}
}

func (v *Vector3) Sub(v2 *Vector3) *Vector3 {
	return &Vector3{X: v.X - v2.X, Y: v.Y - v2.Y, Z: v.Z - v2.Z}
}

func (v *Vector3) Scale(s Element) *Vector3 {
	return &Vector3{X: v.X * s, Y: v.Y * s, Z: v.Z * s}
}

func (v *Vector3) Dot(v2 *Vector3) Element {
	return v.X*v2.X + v.Y*v2.Y + v.Z*v2.Z
}

func (v *Vector3) Cross(v2 *Vector3) *Vector3 {
	return &Vector3{
		X: v.Y*v2.Z - v.Z*v2.Y,
		Y: v.Z*v2.X - v.X*v2.Z,
		Z: v.X*v2.Y - v.Y*v2.X,
	}
}

func (v *Vector3) LenSqr() Element {
	return v.Dot(v)
}

func (v *Vector3) Len() Element {
	return Element(math.Sqrt(float64(v.LenSqr())))
}

// Normalized returns a unit vector with the direction of v.
// The zero vector yields UnitX.
func (v *Vector3) Normalized() *Vector3 {
	l := v.Len()
	if l == 0 {
		r := UnitX
		return &r
	}
	return v.Scale(1 / l)
}

// Lerp interpolates between v and v2.
func (v *Vector3) Lerp(v2 *Vector3, t Element) *Vector3 {
	return v.Add(v2.Sub(v).Scale(t))
}

// Orthogonal returns some unit vector perpendicular to v.
func (v *Vector3) Orthogonal() *Vector3 {
	if Abs(v.X) < 0.9 {
		return UnitX.Cross(v).Normalized()
	}
	return UnitY.Cross(v).Normalized()
}
