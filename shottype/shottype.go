// Package shottype provides the shot types a scenario can refer to.
package shottype

import (
	"github.com/binzume/curtainfire/mmd"
	"github.com/binzume/curtainfire/shot"
)

type base struct {
	name   string
	record bool
}

func (t *base) Name() string       { return t.name }
func (t *base) RecordMotion() bool { return t.record }

func newBone(name string, pos mmd.Vector3) *mmd.Bone {
	b := &mmd.Bone{
		Name:            name,
		Pos:             pos,
		ParentID:        mmd.NoIndex,
		TailID:          mmd.NoIndex,
		InheritParentID: mmd.NoIndex,
	}
	b.IK.TargetID = mmd.NoIndex
	return b
}

func newMaterial(name string, faces int) *mmd.Material {
	return &mmd.Material{
		Name:        name,
		Color:       mmd.Vector4{X: 1, Y: 1, Z: 1, W: 1},
		Specular:    mmd.Vector3{},
		Specularity: 5,
		AColor:      mmd.Vector3{X: 0.5, Y: 0.5, Z: 0.5},
		Flags:       mmd.MaterialFlagDoubleSided,
		EdgeColor:   mmd.Vector4{W: 1},
		EdgeScale:   1,
		TextureID:   mmd.NoIndex,
		EnvID:       mmd.NoIndex,
		ToonType:    1,
		Count:       faces * 3,
	}
}

func scaled(v mmd.Vector3, s mmd.Vector3) mmd.Vector3 {
	return mmd.Vector3{X: v.X * s.X, Y: v.Y * s.Y, Z: v.Z * s.Z}
}

var (
	_ shot.ShotType = (*Bone)(nil)
	_ shot.MeshType = (*Plate)(nil)
	_ shot.MeshType = (*PMX)(nil)
	_ shot.MeshType = (*GLTF)(nil)
)
