// Package motion accumulates keyframes for the VMD motion document.
package motion

import (
	"sort"

	"github.com/binzume/curtainfire/mmd"
)

type frameKey struct {
	name  string
	frame int
}

// Recorder keeps at most one bone keyframe and one morph keyframe per
// (name, frame).
type Recorder struct {
	bones     []*mmd.BoneKeyframe
	boneIndex map[frameKey]int
	morphs    []*mmd.MorphKeyframe
	morphIdx  map[frameKey]int
}

func NewRecorder() *Recorder {
	return &Recorder{
		boneIndex: map[frameKey]int{},
		morphIdx:  map[frameKey]int{},
	}
}

// RecordBoneFrame stores a bone keyframe. With replace an existing record for
// the same (name, frame) is overwritten, otherwise the call keeps the existing
// record and reports false.
func (r *Recorder) RecordBoneFrame(name string, frame int, pos mmd.Vector3, rot mmd.Vector4, curve mmd.Curve, replace bool) bool {
	k := &mmd.BoneKeyframe{Target: name, Frame: frame, Position: pos, Rotation: rot, Curves: mmd.SameCurves(curve)}
	key := frameKey{name, frame}
	if i, ok := r.boneIndex[key]; ok {
		if !replace {
			return false
		}
		r.bones[i] = k
		return true
	}
	r.boneIndex[key] = len(r.bones)
	r.bones = append(r.bones, k)
	return true
}

// RecordMorphFrame stores a morph weight, replacing any record for the same
// (name, frame).
func (r *Recorder) RecordMorphFrame(name string, frame int, weight float32) {
	k := &mmd.MorphKeyframe{Target: name, Frame: frame, Value: weight}
	key := frameKey{name, frame}
	if i, ok := r.morphIdx[key]; ok {
		r.morphs[i] = k
		return
	}
	r.morphIdx[key] = len(r.morphs)
	r.morphs = append(r.morphs, k)
}

// BoneFrame returns the keyframe recorded for (name, frame) or nil.
func (r *Recorder) BoneFrame(name string, frame int) *mmd.BoneKeyframe {
	if i, ok := r.boneIndex[frameKey{name, frame}]; ok {
		return r.bones[i]
	}
	return nil
}

// MorphFrame returns the keyframe recorded for (name, frame) or nil.
func (r *Recorder) MorphFrame(name string, frame int) *mmd.MorphKeyframe {
	if i, ok := r.morphIdx[frameKey{name, frame}]; ok {
		return r.morphs[i]
	}
	return nil
}

// MorphFrames returns the keyframes of a morph ordered by frame.
func (r *Recorder) MorphFrames(name string) []*mmd.MorphKeyframe {
	var frames []*mmd.MorphKeyframe
	for _, k := range r.morphs {
		if k.Target == name {
			frames = append(frames, k)
		}
	}
	sort.Slice(frames, func(i, j int) bool { return frames[i].Frame < frames[j].Frame })
	return frames
}

// RemoveMorph drops every keyframe of the named morph.
func (r *Recorder) RemoveMorph(name string) {
	r.RemoveMorphs(map[string]bool{name: true})
}

// RemoveMorphs drops every keyframe of the named morphs in one pass.
func (r *Recorder) RemoveMorphs(names map[string]bool) {
	if len(names) == 0 {
		return
	}
	kept := r.morphs[:0]
	for _, k := range r.morphs {
		if !names[k.Target] {
			kept = append(kept, k)
		}
	}
	for i := len(kept); i < len(r.morphs); i++ {
		r.morphs[i] = nil
	}
	r.morphs = kept

	r.morphIdx = make(map[frameKey]int, len(kept))
	for i, k := range kept {
		r.morphIdx[frameKey{k.Target, k.Frame}] = i
	}
}

func (r *Recorder) BoneFrameCount() int { return len(r.bones) }
func (r *Recorder) MorphFrameCount() int { return len(r.morphs) }

// Motion builds the motion document. Keyframes are ordered by frame, then by
// name.
func (r *Recorder) Motion(modelName string) *mmd.Motion {
	m := &mmd.Motion{
		Name:  modelName,
		Bone:  append([]*mmd.BoneKeyframe(nil), r.bones...),
		Morph: append([]*mmd.MorphKeyframe(nil), r.morphs...),
	}
	sort.SliceStable(m.Bone, func(i, j int) bool {
		a, b := m.Bone[i], m.Bone[j]
		if a.Frame != b.Frame {
			return a.Frame < b.Frame
		}
		return a.Target < b.Target
	})
	sort.SliceStable(m.Morph, func(i, j int) bool {
		a, b := m.Morph[i], m.Morph[j]
		if a.Frame != b.Frame {
			return a.Frame < b.Frame
		}
		return a.Target < b.Target
	})
	return m
}
