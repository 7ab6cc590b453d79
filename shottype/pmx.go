package shottype

import (
	"os"
	"path/filepath"

	"github.com/binzume/curtainfire/mmd"
	"github.com/binzume/curtainfire/shot"
)

// PMX takes its structure from a model file. Morphs, display slots and
// physics of the file are ignored.
type PMX struct {
	base
	doc *mmd.Document
}

func NewPMX(name string, doc *mmd.Document, record bool) *PMX {
	if len(doc.Bones) == 0 {
		doc.Bones = []*mmd.Bone{newBone(name, mmd.Vector3{})}
		for _, v := range doc.Vertexes {
			v.Bones = []int{0}
			v.BoneWeights = []float32{1}
			v.SDEF = nil
		}
	}
	return &PMX{base: base{name: name, record: record}, doc: doc}
}

// LoadPMX reads a model file. Texture paths are resolved against the
// directory of the file.
func LoadPMX(name, path string, record bool) (*PMX, error) {
	r, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	doc, err := mmd.Parse(r)
	if err != nil {
		return nil, err
	}
	dir := filepath.Dir(path)
	for i, tex := range doc.Textures {
		if !filepath.IsAbs(tex) {
			doc.Textures[i] = filepath.Join(dir, filepath.FromSlash(tex))
		}
	}
	return NewPMX(name, doc, record), nil
}

func (t *PMX) Document() *mmd.Document {
	return t.doc
}

func (t *PMX) CreateBones(p shot.Property) []*mmd.Bone {
	bones := make([]*mmd.Bone, len(t.doc.Bones))
	for i, b := range t.doc.Bones {
		c := *b
		c.Pos = scaled(b.Pos, p.Size)
		bones[i] = &c
	}
	return bones
}

func (t *PMX) CreateVertices(p shot.Property) []*mmd.Vertex {
	vs := make([]*mmd.Vertex, len(t.doc.Vertexes))
	for i, v := range t.doc.Vertexes {
		c := *v
		c.Pos = scaled(v.Pos, p.Size)
		vs[i] = &c
	}
	return vs
}

func (t *PMX) CreateFaces(p shot.Property) []*mmd.Face {
	return t.doc.Faces
}

func (t *PMX) CreateMaterials(p shot.Property) []*mmd.Material {
	return t.doc.Materials
}

func (t *PMX) CreateTextures(p shot.Property) []string {
	return t.doc.Textures
}

func (t *PMX) scale(s float32) {
	for _, v := range t.doc.Vertexes {
		v.Pos = mmd.Vector3{X: v.Pos.X * s, Y: v.Pos.Y * s, Z: v.Pos.Z * s}
	}
	for _, b := range t.doc.Bones {
		b.Pos = mmd.Vector3{X: b.Pos.X * s, Y: b.Pos.Y * s, Z: b.Pos.Z * s}
	}
}
