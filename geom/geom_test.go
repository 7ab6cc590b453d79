package geom

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

const eps = 0.00001

func assertVec(t *testing.T, want, got *Vector3) {
	t.Helper()
	if got.Sub(want).Len() > eps {
		t.Error("vector mismatch: ", want, got)
	}
}

func TestVector3(t *testing.T) {
	zero := NewVector3(0, 0, 0)
	assert.Zero(t, zero.Len())
	assert.Equal(t, UnitX, *zero.Normalized())

	assert.Equal(t, *NewVector3(1, 1, 0), *UnitX.Add(&UnitY))
	assert.Equal(t, UnitZ, *UnitX.Cross(&UnitY))
	assert.InDelta(t, 1, NewVector3(3, 4, 12).Normalized().Len(), eps)
	assertVec(t, NewVector3(0.5, 0.5, 0), UnitX.Lerp(&UnitY, 0.5))

	for _, v := range []*Vector3{&UnitX, &UnitY, &UnitZ, NewVector3(1, 2, 3)} {
		o := v.Orthogonal()
		assert.InDelta(t, 0, o.Dot(v), eps)
		assert.InDelta(t, 1, o.Len(), eps)
	}
}

func TestQuaternion(t *testing.T) {
	v1 := NewVector3(1, 2, 3)
	assertVec(t, v1, IdentityQuaternion().ApplyTo(v1))

	q := NewQuaternionFromAxisAngle(&UnitY, math.Pi/2)
	assertVec(t, &UnitX, q.ApplyTo(&UnitZ))
	assertVec(t, v1, q.Mul(q.Inverse()).ApplyTo(v1))

	// q2 is applied first
	q2 := NewQuaternionFromAxisAngle(&UnitX, math.Pi/2)
	assertVec(t, q.ApplyTo(q2.ApplyTo(v1)), q.Mul(q2).ApplyTo(v1))

	full := NewQuaternionFromAxisAngle(&UnitX, 2*math.Pi)
	assertVec(t, v1, full.ApplyTo(v1))
	assert.True(t, full.Equivalent(IdentityQuaternion(), eps))
}

func TestLookRotation(t *testing.T) {
	for _, dir := range []*Vector3{
		NewVector3(1, 0, 0),
		NewVector3(0, 1, 0),
		NewVector3(0, 0, -1),
		NewVector3(1, 2, 3),
		NewVector3(0, 0, 5),
	} {
		q := LookRotation(dir)
		assert.InDelta(t, 1, q.Len(), eps)
		assertVec(t, dir.Normalized(), q.ApplyTo(&UnitZ))
	}
	assert.Equal(t, *IdentityQuaternion(), *LookRotation(&Vector3{}))
}

func TestEuler(t *testing.T) {
	// single axis rotations do not depend on the order
	for _, order := range []RotationOrder{RotationOrderXYZ, RotationOrderYXZ, RotationOrderZXY, RotationOrderZYX} {
		q := NewEulerDegrees(0, 90, 0, order).ToQuaternion()
		assertVec(t, &UnitX, q.ApplyTo(&UnitZ))
		assert.InDelta(t, 1, q.Len(), eps)
	}

	// X first, then Y
	q := NewEulerDegrees(90, 90, 0, RotationOrderXYZ).ToQuaternion()
	assertVec(t, &UnitX, q.ApplyTo(&UnitY))
	q = NewEulerDegrees(90, 90, 0, RotationOrderYXZ).ToQuaternion()
	assertVec(t, NewVector3(0, 0, 1), q.ApplyTo(&UnitY))
}

func TestMatrix4(t *testing.T) {
	pos := NewVector3(1, 2, 3)
	rot := NewQuaternionFromAxisAngle(NewVector3(1, 1, 0), 0.7)
	scale := NewVector3(1.5, 1.5, 1.5)
	v := NewVector3(-1, 0.5, 2)

	mat := NewTRSMatrix4(pos, rot, scale)
	assertVec(t, rot.ApplyTo(v.Scale(1.5)).Add(pos), mat.ApplyTo(v))
	assertVec(t, rot.ApplyTo(v.Scale(1.5)), mat.ApplyToDirection(v))
	assert.InDelta(t, 1.5*1.5*1.5, mat.Det3(), eps)

	assert.Equal(t, *mat, *NewMatrix4().Mul(mat))
	assert.Equal(t, *mat, *mat.Mul(NewMatrix4()))

	mirror := NewTRSMatrix4(&Vector3{}, IdentityQuaternion(), NewVector3(1, 1, -1))
	assert.True(t, mirror.Det3() < 0)
	assertVec(t, mat.ApplyTo(mirror.ApplyTo(v)), mat.Mul(mirror).ApplyTo(v))
}

func TestTriangulate(t *testing.T) {
	assert.Empty(t, Triangulate(nil))
	assert.Equal(t, [][3]int{{1, 2, 0}}, Triangulate([]*Vector3{{0, 0, 0}, {0, 1, 0}, {0, 1, 1}}))

	quad := Triangulate([]*Vector3{{0, 0, 0}, {0, 1, 0}, {0, 1, 1}, {0, 0, 1}})
	assert.Len(t, quad, 2)

	// non-convex
	tris := Triangulate([]*Vector3{{0, 0, 0}, {0, 1, 0}, {0, 1, 1}, {0, 0.8, 0.2}})
	assert.Len(t, tris, 2)

	poly := RegularPolygon(8, 2)
	assertVec(t, NewVector3(0, 2, 0), poly[0])
	assert.Len(t, Triangulate(poly), 6)
}
