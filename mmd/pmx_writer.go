package mmd

import (
	"bytes"
	"fmt"
	"io"
	"log"
)

// PMXWriter is writer for .pmx data
type PMXWriter struct {
	baseWriter
	out    io.Writer
	header *Header
}

func NewPMXWriter(w io.Writer) *PMXWriter {
	return &PMXWriter{baseWriter: baseWriter{w: &bytes.Buffer{}}, out: w}
}

// Write encodes doc. Index widths in doc.Header are recomputed from the
// array lengths and the document is validated before anything is written to
// the underlying writer.
func (w *PMXWriter) Write(doc *Document) error {
	if err := doc.UpdateIndexSizes(); err != nil {
		return err
	}
	extUV := 0
	for _, v := range doc.Vertexes {
		if len(v.ExtUVs) > extUV {
			extUV = len(v.ExtUVs)
		}
	}
	if extUV > 4 {
		return fmt.Errorf("mmd: too many additional uvs: %d", extUV)
	}
	doc.Header.Info[AttrExtUV] = byte(extUV)
	if err := doc.Validate(); err != nil {
		return err
	}

	// header
	w.writeHeader(doc.Header)
	w.writeText(doc.Name)
	w.writeText(doc.NameEn)
	w.writeText(doc.Comment)
	w.writeText(doc.CommentEn)

	// vertexes
	w.writeInt(len(doc.Vertexes))
	for _, v := range doc.Vertexes {
		w.writeVertex(v)
	}

	// faces
	w.writeInt(doc.FaceIndexCount())
	for _, f := range doc.Faces {
		w.writeFace(f)
	}

	// textures
	w.writeInt(len(doc.Textures))
	for _, t := range doc.Textures {
		w.writeText(t)
	}

	// materials
	w.writeInt(len(doc.Materials))
	for _, m := range doc.Materials {
		w.writeMaterial(m)
	}

	// bones
	w.writeInt(len(doc.Bones))
	for _, b := range doc.Bones {
		w.writeBone(b)
	}

	// morphs
	w.writeInt(len(doc.Morphs))
	for _, m := range doc.Morphs {
		w.writeMorph(m)
	}

	// display slots
	w.writeInt(len(doc.DisplaySlots))
	for _, s := range doc.DisplaySlots {
		w.writeDisplaySlot(s)
	}

	// rigid bodies, joints
	w.writeInt(0)
	w.writeInt(0)

	if w.err != nil {
		return w.err
	}
	_, err := w.out.Write(w.w.Bytes())
	return err
}

func (w *PMXWriter) writeIndex(c IndexCategory, v int) {
	w.writeIndexOf(c, w.header.Info[c.attr()], v)
}

func (w *PMXWriter) writeHeader(h *Header) {
	w.header = h
	h.Format = []byte("PMX ")
	h.Version = 2

	w.write(h.Format)
	w.write(h.Version)
	w.writeUint8(uint8(len(h.Info)))
	w.write(h.Info)
}

func (w *PMXWriter) writeVertex(v *Vertex) {
	w.write(&v.Pos)
	w.write(&v.Normal)
	w.write(&v.UV)
	for i := 0; i < int(w.header.Info[AttrExtUV]); i++ {
		if i < len(v.ExtUVs) {
			w.write(&v.ExtUVs[i])
		} else {
			w.write(&Vector4{})
		}
	}

	switch {
	case v.SDEF != nil:
		w.writeUint8(weightSDEF)
		w.writeIndex(IndexBone, v.Bones[0])
		w.writeIndex(IndexBone, v.Bones[1])
		w.writeFloat(v.BoneWeights[0])
		w.write(&v.SDEF.C)
		w.write(&v.SDEF.R0)
		w.write(&v.SDEF.R1)
	case len(v.Bones) == 1 && v.BoneWeights[0] == 1:
		w.writeUint8(weightBDEF1)
		w.writeIndex(IndexBone, v.Bones[0])
	case len(v.Bones) == 2 && complementary(v.BoneWeights):
		w.writeUint8(weightBDEF2)
		w.writeIndex(IndexBone, v.Bones[0])
		w.writeIndex(IndexBone, v.Bones[1])
		w.writeFloat(v.BoneWeights[0])
	default:
		w.writeUint8(weightBDEF4)
		for i := 0; i < 4; i++ {
			if i < len(v.Bones) {
				w.writeIndex(IndexBone, v.Bones[i])
			} else {
				w.writeIndex(IndexBone, NoIndex)
			}
		}
		for i := 0; i < 4; i++ {
			if i < len(v.BoneWeights) {
				w.writeFloat(v.BoneWeights[i])
			} else {
				w.writeFloat(0)
			}
		}
	}
	w.write(&v.EdgeScale)
}

// complementary reports whether a two bone weight pair survives BDEF2, which
// stores only the first weight.
func complementary(weights []float32) bool {
	return 1-weights[0] == weights[1]
}

func (w *PMXWriter) writeFace(f *Face) {
	w.writeIndex(IndexVertex, f.Verts[0])
	w.writeIndex(IndexVertex, f.Verts[1])
	w.writeIndex(IndexVertex, f.Verts[2])
}

func (w *PMXWriter) writeMaterial(m *Material) {
	w.writeText(m.Name)
	w.writeText(m.NameEn)
	w.write(&m.Color)
	w.write(&m.Specular)
	w.write(&m.Specularity)
	w.write(&m.AColor)
	w.write(&m.Flags)
	w.write(&m.EdgeColor)
	w.write(&m.EdgeScale)

	w.writeIndex(IndexTexture, m.TextureID)
	w.writeIndex(IndexTexture, m.EnvID)

	w.write(&m.EnvMode)
	w.write(&m.ToonType)
	if m.ToonType == 0 {
		w.writeIndex(IndexTexture, m.Toon)
	} else {
		w.writeUint8(uint8(m.Toon))
	}

	w.writeText(m.Memo)
	w.writeInt(m.Count)
}

func (w *PMXWriter) writeBone(b *Bone) {
	w.writeText(b.Name)
	w.writeText(b.NameEn)
	w.write(&b.Pos)

	w.writeIndex(IndexBone, b.ParentID)
	w.writeInt(b.Layer)

	w.write(&b.Flags)

	if b.Flags & ^BoneFlagAll != 0 {
		log.Println("Unsupported flags : ", b.Flags & ^BoneFlagAll)
	}

	if b.Flags&BoneFlagTailIndex != 0 {
		w.writeIndex(IndexBone, b.TailID)
	} else {
		w.write(&b.TailPos)
	}

	if b.Flags&(BoneFlagInheritRotation|BoneFlagInheritTranslation) != 0 {
		w.writeIndex(IndexBone, b.InheritParentID)
		w.write(&b.InheritParentInfluence)
	}

	if b.Flags&BoneFlagFixedAxis != 0 {
		w.write(&b.FixedAxis)
	}

	if b.Flags&BoneFlagLocalAxis != 0 {
		w.write(&b.LocalAxisX)
		w.write(&b.LocalAxisZ)
	}

	if b.Flags&BoneFlagExternalParent != 0 {
		w.writeInt(b.ExternalParent)
	}

	if b.Flags&BoneFlagEnableIK != 0 {
		w.writeIndex(IndexBone, b.IK.TargetID)
		w.writeInt(b.IK.Loop)
		w.write(&b.IK.LimitRad)
		w.writeInt(len(b.IK.Links))
		for _, l := range b.IK.Links {
			w.writeIndex(IndexBone, l.TargetID)
			if l.HasLimit {
				w.writeUint8(1)
				w.write(&l.LimitMin)
				w.write(&l.LimitMax)
			} else {
				w.writeUint8(0)
			}
		}
	}
}

func (w *PMXWriter) writeMorph(m *Morph) {
	w.writeText(m.Name)
	w.writeText(m.NameEn)
	w.write(&m.PanelType)
	w.write(byte(m.MorphType))

	w.writeInt(len(m.Elements))
	for _, e := range m.Elements {
		e.writeTo(w)
	}
}

func (w *PMXWriter) writeDisplaySlot(s *DisplaySlot) {
	w.writeText(s.Name)
	w.writeText(s.NameEn)
	if s.Special {
		w.writeUint8(1)
	} else {
		w.writeUint8(0)
	}
	w.writeInt(len(s.Items))
	for _, item := range s.Items {
		w.writeUint8(uint8(item.Kind))
		if item.Kind == SlotKindBone {
			w.writeIndex(IndexBone, item.Index)
		} else {
			w.writeIndex(IndexMorph, item.Index)
		}
	}
}

// WritePMX writes .pmx data
func WritePMX(doc *Document, w io.Writer) error {
	return NewPMXWriter(w).Write(doc)
}
