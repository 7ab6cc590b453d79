package shot

import "github.com/binzume/curtainfire/mmd"

// Property is the visual variant of a shot. Shots of the same type and
// property share groups.
type Property struct {
	Color uint32 // 0xRRGGBB
	Size  mmd.Vector3
}

func NewProperty(color uint32) Property {
	return Property{Color: color, Size: mmd.Vector3{X: 1, Y: 1, Z: 1}}
}

// RGB returns the color components in [0, 1].
func (p Property) RGB() (r, g, b float32) {
	return float32(p.Color>>16&0xff) / 255, float32(p.Color>>8&0xff) / 255, float32(p.Color&0xff) / 255
}

// ShotType supplies the structure of a group. The engine deep-copies whatever
// the Create functions return, so types may hand out shared values.
type ShotType interface {
	Name() string
	// RecordMotion reports whether shots of this type appear in the documents.
	RecordMotion() bool
	// CreateBones returns the bones of one group. The first bone is the one
	// driven by the shot.
	CreateBones(p Property) []*mmd.Bone
}

// MeshType is a ShotType with geometry. Vertex bone indices refer to
// CreateBones, face indices to CreateVertices and material texture indices to
// CreateTextures.
type MeshType interface {
	ShotType
	CreateVertices(p Property) []*mmd.Vertex
	CreateFaces(p Property) []*mmd.Face
	CreateMaterials(p Property) []*mmd.Material
	CreateTextures(p Property) []string
}
