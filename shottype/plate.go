package shottype

import (
	"github.com/binzume/curtainfire/geom"
	"github.com/binzume/curtainfire/mmd"
	"github.com/binzume/curtainfire/shot"
)

// Plate is a flat regular polygon facing -Z.
type Plate struct {
	base
	Sides   int
	Radius  float32
	Texture string
}

func NewPlate(name string, sides int, radius float32, texture string) *Plate {
	if sides < 3 {
		sides = 3
	}
	if radius <= 0 {
		radius = 1
	}
	return &Plate{base: base{name: name, record: true}, Sides: sides, Radius: radius, Texture: texture}
}

func (t *Plate) CreateBones(p shot.Property) []*mmd.Bone {
	return []*mmd.Bone{newBone(t.name, mmd.Vector3{})}
}

func (t *Plate) CreateVertices(p shot.Property) []*mmd.Vertex {
	poly := geom.RegularPolygon(t.Sides, t.Radius)
	d := 2 * t.Radius
	vs := make([]*mmd.Vertex, len(poly))
	for i, pt := range poly {
		vs[i] = &mmd.Vertex{
			Pos:         scaled(mmd.Vector3{X: pt.X, Y: pt.Y, Z: pt.Z}, p.Size),
			Normal:      mmd.Vector3{Z: -1},
			UV:          mmd.Vector2{X: pt.X/d + 0.5, Y: 0.5 - pt.Y/d},
			EdgeScale:   1,
			Bones:       []int{0},
			BoneWeights: []float32{1},
		}
	}
	return vs
}

func (t *Plate) CreateFaces(p shot.Property) []*mmd.Face {
	var faces []*mmd.Face
	for _, tri := range geom.Triangulate(geom.RegularPolygon(t.Sides, t.Radius)) {
		faces = append(faces, &mmd.Face{Verts: tri})
	}
	return faces
}

func (t *Plate) CreateMaterials(p shot.Property) []*mmd.Material {
	m := newMaterial(t.name, t.Sides-2)
	if t.Texture != "" {
		m.TextureID = 0
	}
	return []*mmd.Material{m}
}

func (t *Plate) CreateTextures(p shot.Property) []string {
	if t.Texture == "" {
		return nil
	}
	return []string{t.Texture}
}
