package mmd

import "sort"

// Motion is a VMD motion document.
type Motion struct {
	Name  string
	Bone  []*BoneKeyframe
	Morph []*MorphKeyframe
}

type BoneKeyframe struct {
	Target   string
	Frame    int
	Position Vector3
	Rotation Vector4
	Curves   [4]Curve
}

type MorphKeyframe struct {
	Target string
	Frame  int
	Value  float32
}

type MorphChannel struct {
	Target  string
	Frames  []uint32
	Samples []float32
}

type BoneChannel struct {
	Target    string
	Frames    []uint32
	Positions []*Vector3
	Rotations []*Vector4
}

// GetBoneChannels groups bone keyframes by bone, ordered by frame.
func (a *Motion) GetBoneChannels() map[string]*BoneChannel {
	sort.SliceStable(a.Bone, func(i, j int) bool { return a.Bone[i].Frame < a.Bone[j].Frame })

	r := map[string]*BoneChannel{}
	for _, s := range a.Bone {
		ch, ok := r[s.Target]
		if !ok {
			ch = &BoneChannel{Target: s.Target}
			r[s.Target] = ch
		}
		ch.Frames = append(ch.Frames, uint32(s.Frame))
		ch.Positions = append(ch.Positions, &s.Position)
		ch.Rotations = append(ch.Rotations, &s.Rotation)
	}
	return r
}

// GetMorphChannels groups morph keyframes by morph, ordered by frame.
func (a *Motion) GetMorphChannels() map[string]*MorphChannel {
	sort.SliceStable(a.Morph, func(i, j int) bool { return a.Morph[i].Frame < a.Morph[j].Frame })

	r := map[string]*MorphChannel{}
	for _, s := range a.Morph {
		ch, ok := r[s.Target]
		if !ok {
			ch = &MorphChannel{Target: s.Target}
			r[s.Target] = ch
		}
		ch.Frames = append(ch.Frames, uint32(s.Frame))
		ch.Samples = append(ch.Samples, s.Value)
	}
	return r
}
