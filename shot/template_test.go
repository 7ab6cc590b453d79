package shot

import (
	"testing"

	"github.com/binzume/curtainfire/mmd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCloneTemplate(t *testing.T) {
	bone := &mmd.Bone{Name: "b", ParentID: mmd.NoIndex}
	bone.IK.Links = []*mmd.Link{{TargetID: 0}}
	tmpl := &Template{
		Bones: []*mmd.Bone{bone},
		Vertexes: []*mmd.Vertex{{Bones: []int{0, 1}, BoneWeights: []float32{0.5, 0.5},
			SDEF: &mmd.SDEF{C: mmd.Vector3{X: 1}}}},
		Faces:     []*mmd.Face{{Verts: [3]int{0, 0, 0}}},
		Materials: []*mmd.Material{{Name: "m", Count: 3}},
		Textures:  []string{"a.png"},
	}

	c, err := CloneTemplate(tmpl)
	require.NoError(t, err)
	assert.NotSame(t, tmpl.Bones[0], c.Bones[0])
	assert.Equal(t, "b", c.Bones[0].Name)
	require.Len(t, c.Bones[0].IK.Links, 1)
	assert.Equal(t, []int{0, 1}, c.Vertexes[0].Bones)
	assert.Equal(t, []float32{0.5, 0.5}, c.Vertexes[0].BoneWeights)
	require.NotNil(t, c.Vertexes[0].SDEF)
	assert.Equal(t, float32(1), c.Vertexes[0].SDEF.C.X)
	assert.Equal(t, [3]int{0, 0, 0}, c.Faces[0].Verts)
	assert.Equal(t, 3, c.Materials[0].Count)

	c.Bones[0].Name = "x"
	c.Bones[0].IK.Links[0].TargetID = 5
	c.Vertexes[0].Bones[1] = 7
	c.Vertexes[0].SDEF.C.X = 9
	c.Faces[0].Verts[2] = 3
	c.Materials[0].Name = "y"
	c.Textures[0] = "b.png"

	assert.Equal(t, "b", tmpl.Bones[0].Name)
	assert.Equal(t, 0, tmpl.Bones[0].IK.Links[0].TargetID)
	assert.Equal(t, []int{0, 1}, tmpl.Vertexes[0].Bones)
	assert.Equal(t, float32(1), tmpl.Vertexes[0].SDEF.C.X)
	assert.Equal(t, [3]int{0, 0, 0}, tmpl.Faces[0].Verts)
	assert.Equal(t, "m", tmpl.Materials[0].Name)
	assert.Equal(t, "a.png", tmpl.Textures[0])
}

// staticType hands out the same slices on every call.
type staticType struct {
	tmpl *Template
}

func (t *staticType) Name() string { return "static" }
func (t *staticType) RecordMotion() bool { return true }
func (t *staticType) CreateBones(Property) []*mmd.Bone { return t.tmpl.Bones }
func (t *staticType) CreateVertices(Property) []*mmd.Vertex { return t.tmpl.Vertexes }
func (t *staticType) CreateFaces(Property) []*mmd.Face { return t.tmpl.Faces }
func (t *staticType) CreateMaterials(Property) []*mmd.Material { return t.tmpl.Materials }
func (t *staticType) CreateTextures(Property) []string { return t.tmpl.Textures }

func TestEngineKeepsTemplate(t *testing.T) {
	st := &staticType{tmpl: &Template{
		Bones:     []*mmd.Bone{{Name: "root", ParentID: mmd.NoIndex}},
		Vertexes:  []*mmd.Vertex{{Bones: []int{0}, BoneWeights: []float32{1}}, {Bones: []int{0}, BoneWeights: []float32{1}}, {Bones: []int{0}, BoneWeights: []float32{1}}},
		Faces:     []*mmd.Face{{Verts: [3]int{0, 1, 2}}},
		Materials: []*mmd.Material{{Name: "m", TextureID: 0, EnvID: mmd.NoIndex, Toon: mmd.NoIndex, Count: 3}},
		Textures:  []string{"t.png"},
	}}
	e := NewEngine(nil)
	for i := 0; i < 3; i++ {
		_, err := e.AdmitShot(st, NewProperty(uint32(i)))
		require.NoError(t, err)
	}

	assert.Equal(t, "root", st.tmpl.Bones[0].Name)
	assert.Equal(t, []int{0}, st.tmpl.Vertexes[2].Bones)
	assert.Equal(t, [3]int{0, 1, 2}, st.tmpl.Faces[0].Verts)
	assert.Equal(t, "m", st.tmpl.Materials[0].Name)
	assert.Equal(t, []int{3}, e.Document().Vertexes[8].Bones)
	assert.Equal(t, [3]int{6, 7, 8}, e.Document().Faces[2].Verts)

	_, _, err := e.Finalize()
	require.NoError(t, err)
}

func TestPropertyRGB(t *testing.T) {
	r, g, b := NewProperty(0xff8000).RGB()
	assert.Equal(t, []float32{1, float32(0x80) / 255, 0}, []float32{r, g, b})
}
