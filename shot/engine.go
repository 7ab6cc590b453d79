// Package shot maps an unbounded stream of short-lived shots onto a bounded
// PMX model by reusing structure, and records their motion.
package shot

import (
	"fmt"
	"log"

	"github.com/binzume/curtainfire/mmd"
	"github.com/binzume/curtainfire/motion"
)

const (
	RootBoneName  = "センター"
	BoneSlotName  = "弾ボーン"
	MorphSlotName = "弾モーフ"
)

// ParentRule decides which template parent indices are treated as "no parent".
type ParentRule int

const (
	// ParentRangeCheck links to the root bone unless 0 <= parent < len(bones)
	// and the parent is not the bone itself.
	ParentRangeCheck ParentRule = iota
	// ParentPositive additionally treats parent 0 as the root bone.
	ParentPositive
)

func (r ParentRule) String() string {
	switch r {
	case ParentRangeCheck:
		return "range"
	case ParentPositive:
		return "positive"
	}
	return fmt.Sprintf("ParentRule(%d)", int(r))
}

type Options struct {
	ModelName    string
	ModelNameEn  string
	Comment      string
	TextEncoding byte
	ParentRule   ParentRule
	// MergeTimelines enables sharing visibility morphs between groups whose
	// shots spawn and die on the same frames.
	MergeTimelines bool
}

func DefaultOptions() *Options {
	return &Options{ModelName: "弾幕", ModelNameEn: "CurtainFire", MergeTimelines: true}
}

const (
	shotBoneFlags = mmd.BoneFlagRotatable | mmd.BoneFlagTranslatable | mmd.BoneFlagVisible | mmd.BoneFlagEnabled
)

// Engine owns the model under construction and the motion recorder.
// It is not safe for concurrent use.
type Engine struct {
	opts     Options
	doc      *mmd.Document
	recorder *motion.Recorder

	groups   map[groupKey][]*group
	order    []*group
	textures map[string]int

	frame     int
	finalized bool
}

func NewEngine(opts *Options) *Engine {
	if opts == nil {
		opts = DefaultOptions()
	}
	doc := mmd.NewDocument()
	doc.Name = opts.ModelName
	doc.NameEn = opts.ModelNameEn
	doc.Comment = opts.Comment
	doc.Header.Info[mmd.AttrStringEncoding] = opts.TextEncoding

	root := &mmd.Bone{
		Name:            RootBoneName,
		NameEn:          "center",
		ParentID:        mmd.NoIndex,
		TailID:          mmd.NoIndex,
		InheritParentID: mmd.NoIndex,
		Flags:           shotBoneFlags,
	}
	root.IK.TargetID = mmd.NoIndex
	doc.Bones = append(doc.Bones, root)

	return &Engine{
		opts:     *opts,
		doc:      doc,
		recorder: motion.NewRecorder(),
		groups:   map[groupKey][]*group{},
		textures: map[string]int{},
	}
}

// Frame returns the current frame number.
func (e *Engine) Frame() int {
	return e.frame
}

// SetFrame advances the current frame. Frames never go backwards.
func (e *Engine) SetFrame(frame int) error {
	if frame < e.frame {
		return integrityErrorf("set frame", "frame %d is before current frame %d", frame, e.frame)
	}
	e.frame = frame
	return nil
}

// Document returns the model under construction.
func (e *Engine) Document() *mmd.Document {
	return e.doc
}

// Recorder returns the motion recorder.
func (e *Engine) Recorder() *motion.Recorder {
	return e.recorder
}

// AdmitShot assigns a new shot to the first OPEN group of its (type, property)
// in creation order, creating a group when none is OPEN.
func (e *Engine) AdmitShot(t ShotType, p Property) (*Shot, error) {
	if e.finalized {
		return nil, integrityErrorf("admit", "engine is finalized")
	}
	if t == nil {
		return nil, integrityErrorf("admit", "nil shot type")
	}
	key := groupKey{typeName: t.Name(), prop: p}

	var g *group
	for _, c := range e.groups[key] {
		if c.open() {
			g = c
			break
		}
	}
	if g == nil {
		var err error
		if g, err = e.newGroup(t, key); err != nil {
			return nil, err
		}
		e.groups[key] = append(e.groups[key], g)
		e.order = append(e.order, g)
	}

	s := &Shot{engine: e, group: g, spawn: e.frame, alive: true}
	g.occupant = s
	g.shots = append(g.shots, s)

	if g.morph != nil {
		// hidden until the frame after spawn
		e.recorder.RecordMorphFrame(g.morph.Name, 0, 1)
		e.recorder.RecordMorphFrame(g.morph.Name, s.spawn, 1)
		e.recorder.RecordMorphFrame(g.morph.Name, s.spawn+1, 0)
	}
	return s, nil
}

func (e *Engine) checkShot(op string, s *Shot) error {
	if s == nil {
		return integrityErrorf(op, "nil shot")
	}
	if s.engine != e {
		return integrityErrorf(op, "%v was admitted by another engine", s)
	}
	if !s.alive {
		return integrityErrorf(op, "%v is dead", s)
	}
	if e.finalized {
		return integrityErrorf(op, "engine is finalized")
	}
	return nil
}

// ShotDied marks s dead at the current frame. Its group becomes OPEN.
func (e *Engine) ShotDied(s *Shot) error {
	if err := e.checkShot("death", s); err != nil {
		return err
	}
	g := s.group
	if g.occupant != s {
		return integrityErrorf("death", "%v does not occupy its group", s)
	}
	s.alive = false
	s.death = e.frame
	g.occupant = nil

	if g.morph != nil {
		show := s.spawn + 1
		if s.death-1 >= show {
			e.recorder.RecordMorphFrame(g.morph.Name, s.death-1, 0)
		}
		hide := s.death
		if hide < show {
			hide = show
		}
		e.recorder.RecordMorphFrame(g.morph.Name, hide, 1)
	}
	return nil
}

// RecordBoneFrame records the transform of the shot's bone at the current
// frame. It is a no-op for motion-less types.
func (e *Engine) RecordBoneFrame(s *Shot, pos mmd.Vector3, rot mmd.Vector4, curve mmd.Curve, replace bool) error {
	if err := e.checkShot("record bone", s); err != nil {
		return err
	}
	if s.group.rootBone < 0 {
		return nil
	}
	e.recorder.RecordBoneFrame(s.BoneName(), e.frame, pos, rot, curve, replace)
	return nil
}

// RecordMorphFrame records the visibility morph weight of the shot's group at
// the current frame plus offset. Weight 1 hides the group.
func (e *Engine) RecordMorphFrame(s *Shot, offset int, weight float32) error {
	if err := e.checkShot("record morph", s); err != nil {
		return err
	}
	return e.recordMorph(s.group.morph, offset, weight)
}

// RecordVertexMorphFrame records the weight of the vertex morph created by
// VertexMorph. It is a no-op when the group has none.
func (e *Engine) RecordVertexMorphFrame(s *Shot, offset int, weight float32) error {
	if err := e.checkShot("record morph", s); err != nil {
		return err
	}
	return e.recordMorph(s.group.vertexMorph, offset, weight)
}

func (e *Engine) recordMorph(m *mmd.Morph, offset int, weight float32) error {
	if m == nil {
		return nil
	}
	frame := e.frame + offset
	if frame < 0 {
		return integrityErrorf("record morph", "%s: negative frame %d", m.Name, frame)
	}
	e.recorder.RecordMorphFrame(m.Name, frame, weight)
	return nil
}

// VertexMorph returns the vertex morph of the shot's group, creating it on
// first use with offsets fn(position) for every vertex of the group.
// Groups without mesh have no vertex morph.
func (e *Engine) VertexMorph(s *Shot, fn func(pos mmd.Vector3) mmd.Vector3) (*mmd.Morph, error) {
	if err := e.checkShot("vertex morph", s); err != nil {
		return nil, err
	}
	g := s.group
	if g.morph == nil || g.vertexCount == 0 {
		return nil, nil
	}
	if g.vertexMorph != nil {
		return g.vertexMorph, nil
	}
	m := &mmd.Morph{
		Name:      "v" + g.morph.Name,
		PanelType: mmd.MorphPanelOther,
		MorphType: mmd.MorphTypeVertex,
	}
	for i := g.vertexStart; i < g.vertexStart+g.vertexCount; i++ {
		m.Elements = append(m.Elements, &mmd.MorphVertex{Target: i, Offset: fn(e.doc.Vertexes[i].Pos)})
	}
	e.doc.Morphs = append(e.doc.Morphs, m)
	g.vertexMorph = m
	return m, nil
}

func (e *Engine) newGroup(t ShotType, key groupKey) (*group, error) {
	g := &group{key: key, rootBone: -1}
	if !t.RecordMotion() {
		return g, nil
	}

	tmpl, err := CloneTemplate(NewTemplate(t, key.prop))
	if err != nil {
		return nil, fmt.Errorf("shot: clone template of %s: %w", key.typeName, err)
	}
	if err := tmpl.validate(key.typeName); err != nil {
		return nil, err
	}

	if !tmpl.HasMesh() {
		g.bones = e.appendBones(key.typeName, tmpl.Bones[:1])
		g.rootBone = g.bones[0]
		return g, nil
	}

	boneBase := len(e.doc.Bones)
	vertexBase := len(e.doc.Vertexes)

	for _, v := range tmpl.Vertexes {
		for i, b := range v.Bones {
			if b < 0 {
				v.Bones[i] = mmd.NoIndex
			} else {
				v.Bones[i] = b + boneBase
			}
		}
	}
	for _, f := range tmpl.Faces {
		for i := range f.Verts {
			f.Verts[i] += vertexBase
		}
	}

	texIndex := make([]int, len(tmpl.Textures))
	for i, path := range tmpl.Textures {
		texIndex[i] = e.registerTexture(path)
	}
	remapTexture := func(idx int) int {
		if idx < 0 {
			return mmd.NoIndex
		}
		return texIndex[idx]
	}

	r, gr, b := key.prop.RGB()
	for _, m := range tmpl.Materials {
		m.TextureID = remapTexture(m.TextureID)
		m.EnvID = remapTexture(m.EnvID)
		if m.ToonType == 0 {
			m.Toon = remapTexture(m.Toon)
		}
		m.Color = mmd.Vector4{X: r, Y: gr, Z: b, W: 1}
		m.AColor = mmd.Vector3{X: r, Y: gr, Z: b}
	}

	g.bones = e.appendBones(key.typeName, tmpl.Bones)
	g.rootBone = g.bones[0]

	g.vertexStart = len(e.doc.Vertexes)
	g.vertexCount = len(tmpl.Vertexes)
	e.doc.Vertexes = append(e.doc.Vertexes, tmpl.Vertexes...)
	e.doc.Faces = append(e.doc.Faces, tmpl.Faces...)

	morph := &mmd.Morph{
		Name:      fmt.Sprintf("%s%d", key.typeName, len(e.doc.Morphs)),
		PanelType: mmd.MorphPanelOther,
		MorphType: mmd.MorphTypeMaterial,
	}
	for _, m := range tmpl.Materials {
		idx := len(e.doc.Materials)
		m.Name = fmt.Sprintf("%s%d", key.typeName, idx)
		e.doc.Materials = append(e.doc.Materials, m)
		g.materials = append(g.materials, idx)
		morph.Elements = append(morph.Elements, visibilityElement(idx))
	}
	e.doc.Morphs = append(e.doc.Morphs, morph)
	g.morph = morph
	return g, nil
}

func visibilityElement(material int) *mmd.MorphMaterial {
	return &mmd.MorphMaterial{Target: material, Flags: mmd.MorphMaterialMultiply}
}

func (e *Engine) registerTexture(path string) int {
	if idx, ok := e.textures[path]; ok {
		return idx
	}
	idx := len(e.doc.Textures)
	e.doc.Textures = append(e.doc.Textures, path)
	e.textures[path] = idx
	return idx
}

// appendBones renames bones, rewrites their flags and parents and appends
// them to the document.
func (e *Engine) appendBones(typeName string, bones []*mmd.Bone) []int {
	base := len(e.doc.Bones)
	indices := make([]int, len(bones))
	for i, b := range bones {
		indices[i] = base + i
		b.Name = fmt.Sprintf("%s%d", typeName, base+i-1)
		b.NameEn = ""
		b.Flags = shotBoneFlags
		b.TailID = mmd.NoIndex
		b.InheritParentID = mmd.NoIndex
		b.IK.TargetID = mmd.NoIndex
		b.IK.Links = nil
		b.ParentID = e.resolveParent(b.ParentID, i, len(bones), base)
	}
	e.doc.Bones = append(e.doc.Bones, bones...)
	return indices
}

func (e *Engine) resolveParent(parent, self, n, base int) int {
	if e.opts.ParentRule == ParentPositive && parent <= 0 {
		return 0
	}
	if parent < 0 || parent >= n || parent == self {
		return 0
	}
	return base + parent
}

// Stats summarizes the model under construction.
type Stats struct {
	Groups    int
	Shots     int
	Bones     int
	Vertexes  int
	Materials int
	Morphs    int
}

func (e *Engine) Stats() Stats {
	st := Stats{
		Groups:    len(e.order),
		Bones:     len(e.doc.Bones),
		Vertexes:  len(e.doc.Vertexes),
		Materials: len(e.doc.Materials),
		Morphs:    len(e.doc.Morphs),
	}
	for _, g := range e.order {
		st.Shots += len(g.shots)
	}
	return st
}

// Finalize merges visibility timelines, builds the display slots and
// validates the model. The engine accepts no further calls afterwards, even
// when Finalize fails.
func (e *Engine) Finalize() (*mmd.Document, *mmd.Motion, error) {
	if e.finalized {
		return nil, nil, integrityErrorf("finalize", "engine is finalized")
	}
	e.finalized = true
	if err := checkNames(e.doc); err != nil {
		return nil, nil, err
	}
	if e.opts.MergeTimelines {
		if n := mergeTimelines(e.doc, e.recorder, e.order); n > 0 {
			log.Printf("shot: merged %d visibility morphs", n)
		}
	}

	boneSlot := &mmd.DisplaySlot{Name: BoneSlotName, NameEn: "Shot bones"}
	for i := range e.doc.Bones {
		boneSlot.Items = append(boneSlot.Items, &mmd.SlotItem{Kind: mmd.SlotKindBone, Index: i})
	}
	morphSlot := &mmd.DisplaySlot{Name: MorphSlotName, NameEn: "Shot morphs"}
	for i := range e.doc.Morphs {
		morphSlot.Items = append(morphSlot.Items, &mmd.SlotItem{Kind: mmd.SlotKindMorph, Index: i})
	}
	e.doc.DisplaySlots = []*mmd.DisplaySlot{boneSlot, morphSlot}

	if err := e.doc.UpdateIndexSizes(); err != nil {
		return nil, nil, err
	}
	if err := e.doc.Validate(); err != nil {
		return nil, nil, fmt.Errorf("shot: finalize: %w", err)
	}
	return e.doc, e.recorder.Motion(e.opts.ModelName), nil
}

// checkNames rejects bone and morph names that would alias in the motion,
// either by repeating or by losing their tail to the VMD name field.
func checkNames(doc *mmd.Document) error {
	bones := map[string]bool{}
	for _, b := range doc.Bones {
		if bones[b.Name] {
			return integrityErrorf("finalize", "duplicate bone name %q", b.Name)
		}
		if !mmd.FitsVMDName(b.Name) {
			return integrityErrorf("finalize", "bone name %q does not fit a motion key", b.Name)
		}
		bones[b.Name] = true
	}
	morphs := map[string]bool{}
	for _, m := range doc.Morphs {
		if morphs[m.Name] {
			return integrityErrorf("finalize", "duplicate morph name %q", m.Name)
		}
		if !mmd.FitsVMDName(m.Name) {
			return integrityErrorf("finalize", "morph name %q does not fit a motion key", m.Name)
		}
		morphs[m.Name] = true
	}
	return nil
}
