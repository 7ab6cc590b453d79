package geom

import "math"

const Deg2Rad = math.Pi / 180

type RotationOrder int

const (
	RotationOrderXYZ RotationOrder = iota
	RotationOrderYXZ
	RotationOrderZXY
	RotationOrderZYX
)

// EulerAngles in radians. Order names the axes in the order they are applied.
type EulerAngles struct {
	Vector3
	Order RotationOrder
}

func NewEuler(x, y, z float32, order RotationOrder) *EulerAngles {
	return &EulerAngles{Vector3: Vector3{x, y, z}, Order: order}
}

// NewEulerDegrees is NewEuler with angles in degrees.
func NewEulerDegrees(x, y, z float32, order RotationOrder) *EulerAngles {
	return NewEuler(x*Deg2Rad, y*Deg2Rad, z*Deg2Rad, order)
}

func (e *EulerAngles) ToQuaternion() *Quaternion {
	qx := NewQuaternionFromAxisAngle(&UnitX, float64(e.X))
	qy := NewQuaternionFromAxisAngle(&UnitY, float64(e.Y))
	qz := NewQuaternionFromAxisAngle(&UnitZ, float64(e.Z))

	switch e.Order {
	case RotationOrderXYZ:
		return qz.Mul(qy).Mul(qx)
	case RotationOrderYXZ:
		return qz.Mul(qx).Mul(qy)
	case RotationOrderZXY:
		return qy.Mul(qx).Mul(qz)
	case RotationOrderZYX:
		return qx.Mul(qy).Mul(qz)
	}
	return IdentityQuaternion()
}
