package motion

import (
	"testing"

	"github.com/binzume/curtainfire/mmd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var identity = mmd.Vector4{W: 1}

func TestRecordBoneFrameReplace(t *testing.T) {
	r := NewRecorder()
	assert.True(t, r.RecordBoneFrame("b0", 5, mmd.Vector3{X: 1}, identity, mmd.LinearCurve, true))
	assert.True(t, r.RecordBoneFrame("b0", 5, mmd.Vector3{X: 2}, identity, mmd.LinearCurve, true))

	m := r.Motion("m")
	require.Len(t, m.Bone, 1)
	assert.Equal(t, mmd.Vector3{X: 2}, m.Bone[0].Position)
}

func TestRecordBoneFrameKeep(t *testing.T) {
	r := NewRecorder()
	curve := mmd.NewCurve(0.2, 0, 0.8, 1)
	assert.True(t, r.RecordBoneFrame("b0", 5, mmd.Vector3{X: 1}, identity, curve, false))
	assert.False(t, r.RecordBoneFrame("b0", 5, mmd.Vector3{X: 2}, identity, mmd.LinearCurve, false))

	m := r.Motion("m")
	require.Len(t, m.Bone, 1)
	assert.Equal(t, &mmd.BoneKeyframe{Target: "b0", Frame: 5, Position: mmd.Vector3{X: 1}, Rotation: identity,
		Curves: mmd.SameCurves(curve)}, m.Bone[0])
}

func TestRecordBoneFrameDistinctKeys(t *testing.T) {
	r := NewRecorder()
	r.RecordBoneFrame("b0", 5, mmd.Vector3{}, identity, mmd.LinearCurve, false)
	r.RecordBoneFrame("b0", 6, mmd.Vector3{}, identity, mmd.LinearCurve, false)
	r.RecordBoneFrame("b1", 5, mmd.Vector3{}, identity, mmd.LinearCurve, false)
	assert.Equal(t, 3, r.BoneFrameCount())
	assert.NotNil(t, r.BoneFrame("b1", 5))
	assert.Nil(t, r.BoneFrame("b1", 6))
}

func TestRecordMorphFrame(t *testing.T) {
	r := NewRecorder()
	r.RecordMorphFrame("m0", 1, 1)
	r.RecordMorphFrame("m0", 1, 0)
	r.RecordMorphFrame("m1", 1, 1)

	assert.Equal(t, 2, r.MorphFrameCount())
	assert.Equal(t, float32(0), r.MorphFrame("m0", 1).Value)
}

func TestRemoveMorph(t *testing.T) {
	r := NewRecorder()
	r.RecordMorphFrame("m0", 0, 1)
	r.RecordMorphFrame("m1", 0, 1)
	r.RecordMorphFrame("m0", 10, 0)
	r.RecordMorphFrame("m1", 10, 0)

	r.RemoveMorph("m0")
	assert.Equal(t, 2, r.MorphFrameCount())
	assert.Nil(t, r.MorphFrame("m0", 0))
	assert.Empty(t, r.MorphFrames("m0"))

	// index is rebuilt, replacing still works
	r.RecordMorphFrame("m1", 10, 0.5)
	assert.Equal(t, 2, r.MorphFrameCount())
	assert.Equal(t, float32(0.5), r.MorphFrame("m1", 10).Value)
}

func TestRemoveMorphs(t *testing.T) {
	r := NewRecorder()
	for _, name := range []string{"m0", "m1", "m2"} {
		r.RecordMorphFrame(name, 0, 1)
		r.RecordMorphFrame(name, 5, 0)
	}

	r.RemoveMorphs(nil)
	assert.Equal(t, 6, r.MorphFrameCount())

	r.RemoveMorphs(map[string]bool{"m0": true, "m2": true, "unknown": true})
	assert.Equal(t, 2, r.MorphFrameCount())
	assert.Empty(t, r.MorphFrames("m0"))
	assert.Empty(t, r.MorphFrames("m2"))
	assert.Len(t, r.MorphFrames("m1"), 2)
	assert.Equal(t, float32(0), r.MorphFrame("m1", 5).Value)
}

func TestMotionOrder(t *testing.T) {
	r := NewRecorder()
	r.RecordBoneFrame("b", 10, mmd.Vector3{}, identity, mmd.LinearCurve, true)
	r.RecordBoneFrame("a", 10, mmd.Vector3{}, identity, mmd.LinearCurve, true)
	r.RecordBoneFrame("c", 0, mmd.Vector3{}, identity, mmd.LinearCurve, true)
	r.RecordMorphFrame("x", 3, 1)
	r.RecordMorphFrame("x", 1, 0)

	m := r.Motion("model")
	assert.Equal(t, "model", m.Name)
	var names []string
	for _, k := range m.Bone {
		names = append(names, k.Target)
	}
	assert.Equal(t, []string{"c", "a", "b"}, names)
	assert.Equal(t, 1, m.Morph[0].Frame)
	assert.Equal(t, []int{1, 3}, []int{r.MorphFrames("x")[0].Frame, r.MorphFrames("x")[1].Frame})
}
