package shottype

import (
	"fmt"
	"path/filepath"

	"github.com/binzume/curtainfire/geom"
	"github.com/binzume/curtainfire/mmd"
	"github.com/binzume/curtainfire/shot"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
)

// GLTF takes its mesh from a glTF file. Every primitive of the default scene
// becomes one material bound to a single bone; skins and animations are
// ignored.
type GLTF struct {
	base
	vertexes  []*mmd.Vertex
	faces     []*mmd.Face
	materials []*mmd.Material
	textures  []string
}

// LoadGLTF reads a .gltf or .glb file. Positions are multiplied by scale.
func LoadGLTF(name, path string, scale float32, record bool) (*GLTF, error) {
	src, err := gltf.Open(path)
	if err != nil {
		return nil, err
	}
	if scale == 0 {
		scale = 1
	}
	t := &GLTF{base: base{name: name, record: record}}
	c := &gltfLoader{src: src, dst: t, dir: filepath.Dir(path), textures: map[string]int{}}
	root := geom.NewTRSMatrix4(&geom.Vector3{}, geom.IdentityQuaternion(), &geom.Vector3{X: scale, Y: scale, Z: scale})
	for _, n := range c.sceneNodes() {
		if err := c.convertNode(n, root); err != nil {
			return nil, fmt.Errorf("gltf %s: %w", path, err)
		}
	}
	if len(t.faces) == 0 {
		return nil, fmt.Errorf("gltf %s: no triangles", path)
	}
	return t, nil
}

type gltfLoader struct {
	src      *gltf.Document
	dst      *GLTF
	dir      string
	textures map[string]int
}

type float interface {
	~float32 | ~float64
}

func toElements[T float](a []T) []geom.Element {
	r := make([]geom.Element, len(a))
	for i, v := range a {
		r[i] = geom.Element(v)
	}
	return r
}

func nodeMatrix[T float](m [16]T, t [3]T, r [4]T, s [3]T) *geom.Matrix4 {
	mat := geom.NewMatrix4FromSlice(toElements(m[:]))
	if *mat != (geom.Matrix4{}) && *mat != *geom.NewMatrix4() {
		return mat
	}
	tr := geom.NewVector3FromSlice(toElements(t[:]))
	rot := &geom.Quaternion{X: geom.Element(r[0]), Y: geom.Element(r[1]), Z: geom.Element(r[2]), W: geom.Element(r[3])}
	if *rot == (geom.Quaternion{}) {
		rot = geom.IdentityQuaternion()
	}
	sc := geom.NewVector3FromSlice(toElements(s[:]))
	if *sc == (geom.Vector3{}) {
		sc = &geom.Vector3{X: 1, Y: 1, Z: 1}
	}
	return geom.NewTRSMatrix4(tr, rot, sc)
}

func (c *gltfLoader) sceneNodes() []uint32 {
	if len(c.src.Scenes) == 0 {
		// no scene: every node is a root
		var nodes []uint32
		for i := range c.src.Nodes {
			nodes = append(nodes, uint32(i))
		}
		return nodes
	}
	scene := 0
	if c.src.Scene != nil {
		scene = int(*c.src.Scene)
	}
	return c.src.Scenes[scene].Nodes
}

func (c *gltfLoader) convertNode(idx uint32, parent *geom.Matrix4) error {
	n := c.src.Nodes[idx]
	mat := parent.Mul(nodeMatrix(n.Matrix, n.Translation, n.Rotation, n.Scale))
	if n.Mesh != nil {
		for _, p := range c.src.Meshes[*n.Mesh].Primitives {
			if err := c.convertPrimitive(p, mat); err != nil {
				return err
			}
		}
	}
	for _, child := range n.Children {
		if err := c.convertNode(child, mat); err != nil {
			return err
		}
	}
	return nil
}

func (c *gltfLoader) convertPrimitive(p *gltf.Primitive, mat *geom.Matrix4) error {
	if p.Mode != gltf.PrimitiveTriangles {
		return nil
	}
	a, ok := p.Attributes["POSITION"]
	if !ok {
		return nil
	}
	pos, err := modeler.ReadPosition(c.src, c.src.Accessors[a], [][3]float32{})
	if err != nil {
		return err
	}
	var normals [][3]float32
	if a, ok := p.Attributes["NORMAL"]; ok {
		if normals, err = modeler.ReadNormal(c.src, c.src.Accessors[a], [][3]float32{}); err != nil {
			return err
		}
	}
	var texCoord [][2]float32
	if a, ok := p.Attributes["TEXCOORD_0"]; ok {
		if texCoord, err = modeler.ReadTextureCoord(c.src, c.src.Accessors[a], [][2]float32{}); err != nil {
			return err
		}
	}
	var indices []uint32
	if p.Indices != nil {
		if indices, err = modeler.ReadIndices(c.src, c.src.Accessors[*p.Indices], []uint32{}); err != nil {
			return err
		}
	} else {
		for i := range pos {
			indices = append(indices, uint32(i))
		}
	}

	first := len(c.dst.vertexes)
	for i, v := range pos {
		// glTF is right handed, MMD left handed
		pt := mat.ApplyTo(geom.NewVector3FromSlice(v[:]))
		vert := &mmd.Vertex{
			Pos:         mmd.Vector3{X: pt.X, Y: pt.Y, Z: -pt.Z},
			EdgeScale:   1,
			Bones:       []int{0},
			BoneWeights: []float32{1},
		}
		if i < len(normals) {
			nv := mat.ApplyToDirection(geom.NewVector3FromSlice(normals[i][:])).Normalized()
			vert.Normal = mmd.Vector3{X: nv.X, Y: nv.Y, Z: -nv.Z}
		}
		if i < len(texCoord) {
			vert.UV = mmd.Vector2{X: texCoord[i][0], Y: texCoord[i][1]}
		}
		c.dst.vertexes = append(c.dst.vertexes, vert)
	}

	mirrored := mat.Det3() < 0
	count := 0
	for i := 0; i+2 < len(indices); i += 3 {
		i0, i1, i2 := int(indices[i]), int(indices[i+1]), int(indices[i+2])
		if i0 >= len(pos) || i1 >= len(pos) || i2 >= len(pos) {
			return fmt.Errorf("face %d: index out of range", i/3)
		}
		if mirrored {
			i1, i2 = i2, i1
		}
		c.dst.faces = append(c.dst.faces, &mmd.Face{Verts: [3]int{first + i0, first + i2, first + i1}})
		count++
	}

	m := newMaterial(fmt.Sprintf("%s%d", c.dst.name, len(c.dst.materials)), count)
	if p.Material != nil {
		c.convertMaterial(c.src.Materials[*p.Material], m)
	}
	c.dst.materials = append(c.dst.materials, m)
	return nil
}

func (c *gltfLoader) convertMaterial(src *gltf.Material, m *mmd.Material) {
	if !src.DoubleSided {
		m.Flags &^= mmd.MaterialFlagDoubleSided
	}
	if src.PBRMetallicRoughness == nil {
		return
	}
	col := toElements(c.baseColor(src.PBRMetallicRoughness))
	m.Color = mmd.Vector4{X: col[0], Y: col[1], Z: col[2], W: col[3]}
	if tex := src.PBRMetallicRoughness.BaseColorTexture; tex != nil {
		img := c.src.Textures[tex.Index].Source
		if img == nil || c.src.Images[*img].URI == "" {
			return
		}
		m.TextureID = c.texture(c.src.Images[*img].URI)
	}
}

func (c *gltfLoader) baseColor(pbr *gltf.PBRMetallicRoughness) []float64 {
	col := pbr.BaseColorFactorOrDefault()
	r := make([]float64, len(col))
	for i, v := range col {
		r[i] = float64(v)
	}
	return r
}

func (c *gltfLoader) texture(uri string) int {
	path := filepath.Join(c.dir, filepath.FromSlash(uri))
	if idx, ok := c.textures[path]; ok {
		return idx
	}
	idx := len(c.dst.textures)
	c.dst.textures = append(c.dst.textures, path)
	c.textures[path] = idx
	return idx
}

func (t *GLTF) CreateBones(p shot.Property) []*mmd.Bone {
	return []*mmd.Bone{newBone(t.name, mmd.Vector3{})}
}

func (t *GLTF) CreateVertices(p shot.Property) []*mmd.Vertex {
	vs := make([]*mmd.Vertex, len(t.vertexes))
	for i, v := range t.vertexes {
		c := *v
		c.Pos = scaled(v.Pos, p.Size)
		vs[i] = &c
	}
	return vs
}

func (t *GLTF) CreateFaces(p shot.Property) []*mmd.Face {
	return t.faces
}

func (t *GLTF) CreateMaterials(p shot.Property) []*mmd.Material {
	return t.materials
}

func (t *GLTF) CreateTextures(p shot.Property) []string {
	return t.textures
}
