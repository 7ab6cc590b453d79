package shottype

import (
	"github.com/binzume/curtainfire/mmd"
	"github.com/binzume/curtainfire/shot"
)

// Bone is a shot without geometry. Its shots only move a bone, so other
// models can be attached to them.
type Bone struct {
	base
}

func NewBone(name string, record bool) *Bone {
	return &Bone{base{name: name, record: record}}
}

func (t *Bone) CreateBones(p shot.Property) []*mmd.Bone {
	return []*mmd.Bone{newBone(t.name, mmd.Vector3{})}
}
