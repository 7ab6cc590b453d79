package geom

import "math"

type Quaternion struct {
	X Element
	Y Element
	Z Element
	W Element
}

func NewQuaternion(x, y, z, w float32) *Quaternion {
	return &Quaternion{X: x, Y: y, Z: z, W: w}
}

func IdentityQuaternion() *Quaternion {
	return &Quaternion{W: 1}
}

// NewQuaternionFromAxisAngle returns the rotation of rad radians around axis.
func NewQuaternionFromAxisAngle(axis *Vector3, rad float64) *Quaternion {
	a := axis.Normalized()
	s := Element(math.Sin(rad / 2))
	return &Quaternion{X: a.X * s, Y: a.Y * s, Z: a.Z * s, W: Element(math.Cos(rad / 2))}
}

// NewQuaternionFromTo returns the shortest rotation that turns direction
// from onto direction to.
func NewQuaternionFromTo(from, to *Vector3) *Quaternion {
	f, t := from.Normalized(), to.Normalized()
	d := f.Dot(t)
	if d >= 1-1e-6 {
		return IdentityQuaternion()
	}
	if d <= -1+1e-6 {
		return NewQuaternionFromAxisAngle(f.Orthogonal(), math.Pi)
	}
	c := f.Cross(t)
	return (&Quaternion{X: c.X, Y: c.Y, Z: c.Z, W: 1 + d}).Normalized()
}

// LookRotation returns the rotation that turns +Z towards dir.
func LookRotation(dir *Vector3) *Quaternion {
	if dir.LenSqr() == 0 {
		return IdentityQuaternion()
	}
	return NewQuaternionFromTo(&UnitZ, dir)
}

func (q *Quaternion) Dot(q2 *Quaternion) Element {
	return q.X*q2.X + q.Y*q2.Y + q.Z*q2.Z + q.W*q2.W
}

func (q *Quaternion) Len() Element {
	return Element(math.Sqrt(float64(q.Dot(q))))
}

func (q *Quaternion) Normalized() *Quaternion {
	l := q.Len()
	if l == 0 {
		return IdentityQuaternion()
	}
	return &Quaternion{X: q.X / l, Y: q.Y / l, Z: q.Z / l, W: q.W / l}
}

// Inverse returns the conjugate. q must be a unit quaternion.
func (q *Quaternion) Inverse() *Quaternion {
	return &Quaternion{X: -q.X, Y: -q.Y, Z: -q.Z, W: q.W}
}

// Mul returns q * q2 (q2 is applied first).
func (q *Quaternion) Mul(q2 *Quaternion) *Quaternion {
	return &Quaternion{
		X: q.W*q2.X + q.X*q2.W + q.Y*q2.Z - q.Z*q2.Y,
		Y: q.W*q2.Y - q.X*q2.Z + q.Y*q2.W + q.Z*q2.X,
		Z: q.W*q2.Z + q.X*q2.Y - q.Y*q2.X + q.Z*q2.W,
		W: q.W*q2.W - q.X*q2.X - q.Y*q2.Y - q.Z*q2.Z,
	}
}

// ApplyTo rotates v.
func (q *Quaternion) ApplyTo(v *Vector3) *Vector3 {
	u := &Vector3{X: q.X, Y: q.Y, Z: q.Z}
	t := u.Cross(v).Scale(2)
	return v.Add(t.Scale(q.W)).Add(u.Cross(t))
}

// Equivalent reports whether q and q2 describe the same rotation.
func (q *Quaternion) Equivalent(q2 *Quaternion, eps Element) bool {
	return Abs(Abs(q.Dot(q2))-1) <= eps
}
