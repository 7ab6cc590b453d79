package shot

import (
	"github.com/binzume/curtainfire/mmd"
	"github.com/jinzhu/copier"
)

// Template is the structure of one group before it is placed in the document.
type Template struct {
	Bones     []*mmd.Bone
	Vertexes  []*mmd.Vertex
	Faces     []*mmd.Face
	Materials []*mmd.Material
	Textures  []string
}

// NewTemplate collects the structure of t for p. The result shares memory
// with whatever the type returned; use CloneTemplate before modifying it.
func NewTemplate(t ShotType, p Property) *Template {
	tmpl := &Template{Bones: t.CreateBones(p)}
	if m, ok := t.(MeshType); ok {
		tmpl.Vertexes = m.CreateVertices(p)
		tmpl.Faces = m.CreateFaces(p)
		tmpl.Materials = m.CreateMaterials(p)
		tmpl.Textures = m.CreateTextures(p)
	}
	return tmpl
}

// HasMesh reports whether the template carries geometry.
func (t *Template) HasMesh() bool {
	return len(t.Vertexes) > 0 || len(t.Materials) > 0
}

var deepCopy = copier.Option{DeepCopy: true}

func cloneAll[T any](src []*T) ([]*T, error) {
	if src == nil {
		return nil, nil
	}
	dst := make([]*T, len(src))
	for i, s := range src {
		if s == nil {
			continue
		}
		d := new(T)
		if err := copier.CopyWithOption(d, s, deepCopy); err != nil {
			return nil, err
		}
		dst[i] = d
	}
	return dst, nil
}

// CloneTemplate returns a deep copy of t. Nothing reachable from the result is
// shared with t.
func CloneTemplate(t *Template) (*Template, error) {
	var err error
	c := &Template{Textures: append([]string(nil), t.Textures...)}
	if c.Bones, err = cloneAll(t.Bones); err != nil {
		return nil, err
	}
	if c.Vertexes, err = cloneAll(t.Vertexes); err != nil {
		return nil, err
	}
	if c.Faces, err = cloneAll(t.Faces); err != nil {
		return nil, err
	}
	if c.Materials, err = cloneAll(t.Materials); err != nil {
		return nil, err
	}
	return c, nil
}

// validate checks that every local index of t stays inside t.
func (t *Template) validate(typeName string) error {
	const op = "template"
	if len(t.Bones) == 0 {
		return integrityErrorf(op, "%s: no bones", typeName)
	}
	for i, b := range t.Bones {
		if b == nil {
			return integrityErrorf(op, "%s: bone %d is nil", typeName, i)
		}
	}
	for i, v := range t.Vertexes {
		if v == nil {
			return integrityErrorf(op, "%s: vertex %d is nil", typeName, i)
		}
		for _, b := range v.Bones {
			if b >= len(t.Bones) {
				return integrityErrorf(op, "%s: vertex %d: bone %d out of range", typeName, i, b)
			}
		}
	}
	for i, f := range t.Faces {
		if f == nil {
			return integrityErrorf(op, "%s: face %d is nil", typeName, i)
		}
		for _, v := range f.Verts {
			if v < 0 || v >= len(t.Vertexes) {
				return integrityErrorf(op, "%s: face %d: vertex %d out of range", typeName, i, v)
			}
		}
	}
	count := 0
	for i, m := range t.Materials {
		if m == nil {
			return integrityErrorf(op, "%s: material %d is nil", typeName, i)
		}
		refs := []int{m.TextureID, m.EnvID}
		if m.ToonType == 0 {
			refs = append(refs, m.Toon)
		}
		for _, r := range refs {
			if r >= len(t.Textures) {
				return integrityErrorf(op, "%s: material %d: texture %d out of range", typeName, i, r)
			}
		}
		count += m.Count
	}
	if count != len(t.Faces)*3 {
		return integrityErrorf(op, "%s: materials cover %d face indices, template has %d", typeName, count, len(t.Faces)*3)
	}
	return nil
}
