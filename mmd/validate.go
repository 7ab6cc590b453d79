package mmd

import "fmt"

type indexChecker struct {
	counts map[IndexCategory]int
}

func (c *indexChecker) check(where string, cat IndexCategory, idx int, allowNone bool) error {
	if allowNone && idx == NoIndex {
		return nil
	}
	if idx < 0 || idx >= c.counts[cat] {
		return &IndexError{Where: where, Category: cat, Index: idx, Count: c.counts[cat]}
	}
	return nil
}

// Validate checks that every index in the document refers to an existing
// element and that the materials partition the face list.
func (doc *Document) Validate() error {
	c := &indexChecker{counts: map[IndexCategory]int{
		IndexVertex:   len(doc.Vertexes),
		IndexTexture:  len(doc.Textures),
		IndexMaterial: len(doc.Materials),
		IndexBone:     len(doc.Bones),
		IndexMorph:    len(doc.Morphs),
	}}

	for i, v := range doc.Vertexes {
		where := fmt.Sprintf("vertex %d", i)
		if len(v.Bones) != len(v.BoneWeights) {
			return fmt.Errorf("mmd: %s: %d bones but %d weights", where, len(v.Bones), len(v.BoneWeights))
		}
		if n := len(v.Bones); n != 1 && n != 2 && n != 4 {
			return fmt.Errorf("mmd: %s: unsupported influence count %d", where, n)
		}
		if v.SDEF != nil && (len(v.Bones) != 2 || !complementary(v.BoneWeights)) {
			return fmt.Errorf("mmd: %s: SDEF needs 2 bones with weights summing to 1", where)
		}
		for _, b := range v.Bones {
			if err := c.check(where, IndexBone, b, true); err != nil {
				return err
			}
		}
	}

	for i, f := range doc.Faces {
		for _, v := range f.Verts {
			if err := c.check(fmt.Sprintf("face %d", i), IndexVertex, v, false); err != nil {
				return err
			}
		}
	}

	faceIndices := 0
	for i, m := range doc.Materials {
		where := fmt.Sprintf("material %q", m.Name)
		if err := c.check(where, IndexTexture, m.TextureID, true); err != nil {
			return err
		}
		if err := c.check(where, IndexTexture, m.EnvID, true); err != nil {
			return err
		}
		if m.ToonType == 0 {
			if err := c.check(where, IndexTexture, m.Toon, true); err != nil {
				return err
			}
		}
		if m.Count < 0 || m.Count%3 != 0 {
			return fmt.Errorf("mmd: material %d: invalid face index count %d", i, m.Count)
		}
		faceIndices += m.Count
	}
	if len(doc.Materials) > 0 && faceIndices != doc.FaceIndexCount() {
		return fmt.Errorf("mmd: materials cover %d face indices, document has %d", faceIndices, doc.FaceIndexCount())
	}

	for i, b := range doc.Bones {
		where := fmt.Sprintf("bone %d %q", i, b.Name)
		if err := c.check(where, IndexBone, b.ParentID, true); err != nil {
			return err
		}
		if b.ParentID == i {
			return fmt.Errorf("mmd: %s: bone is its own parent", where)
		}
		if b.Flags&BoneFlagTailIndex != 0 {
			if err := c.check(where, IndexBone, b.TailID, true); err != nil {
				return err
			}
		}
		if b.Flags&(BoneFlagInheritRotation|BoneFlagInheritTranslation) != 0 {
			if err := c.check(where, IndexBone, b.InheritParentID, true); err != nil {
				return err
			}
		}
		if b.Flags&BoneFlagEnableIK != 0 {
			if err := c.check(where, IndexBone, b.IK.TargetID, false); err != nil {
				return err
			}
			for _, l := range b.IK.Links {
				if err := c.check(where, IndexBone, l.TargetID, false); err != nil {
					return err
				}
			}
		}
	}

	for _, m := range doc.Morphs {
		where := fmt.Sprintf("morph %q", m.Name)
		codec, ok := morphCodecs[m.MorphType]
		if !ok {
			return fmt.Errorf("mmd: %s: unknown morph type %d", where, byte(m.MorphType))
		}
		for _, e := range m.Elements {
			if !codec.accepts(e) {
				return fmt.Errorf("mmd: %s: element %T does not belong to a %s morph", where, e, m.MorphType)
			}
			cat, idx := e.target()
			if err := c.check(where, cat, idx, m.MorphType == MorphTypeMaterial); err != nil {
				return err
			}
		}
	}

	for _, s := range doc.DisplaySlots {
		where := fmt.Sprintf("display slot %q", s.Name)
		for _, item := range s.Items {
			cat := IndexBone
			switch item.Kind {
			case SlotKindBone:
			case SlotKindMorph:
				cat = IndexMorph
			default:
				return fmt.Errorf("mmd: %s: unknown item kind %d", where, item.Kind)
			}
			if err := c.check(where, cat, item.Index, false); err != nil {
				return err
			}
		}
	}
	return nil
}
