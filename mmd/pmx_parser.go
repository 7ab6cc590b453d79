package mmd

import (
	"bufio"
	"io"
	"log"
)

// see also:
// https://github.com/binzume/mikumikudroid/blob/oculus/src/jp/gauzau/MikuMikuDroid/PMXParser.java
// https://gist.github.com/felixjones/f8a06bd48f9da9a4539f

// PMXParser is parser for .pmx model.
type PMXParser struct {
	baseParser
	header *Header
}

func NewPMXParser(r io.Reader) *PMXParser {
	return &PMXParser{baseParser: baseParser{r: r}}
}

func (p *PMXParser) readIndex(c IndexCategory) int {
	return p.readIndexOf(c, p.header.Info[c.attr()])
}

func (p *PMXParser) readHeader() {
	p.op = "header"
	h := &Header{}
	h.Format = p.readBytes(4)
	if p.err != nil {
		return
	}
	if string(h.Format) != "PMX " {
		p.failf("unsupported format %q", h.Format)
		return
	}
	p.read(&h.Version)
	if p.err == nil && h.Version != 2 {
		p.failf("unsupported version %v", h.Version)
		return
	}
	n := int(p.readUint8())
	if p.err == nil && n < 8 {
		p.failf("header info too short: %d", n)
		return
	}
	h.Info = p.readBytes(n)
	if p.err != nil {
		return
	}
	if h.Info[AttrStringEncoding] > TextEncodingUTF8 {
		p.failf("unknown text encoding %d", h.Info[AttrStringEncoding])
	}
	if h.Info[AttrExtUV] > 4 {
		p.failf("too many additional uvs: %d", h.Info[AttrExtUV])
	}
	for attr := AttrVertIndexSz; attr <= AttrRBIndexSz; attr++ {
		if !validIndexSize(h.Info[attr]) {
			p.failf("invalid index size %d", h.Info[attr])
		}
	}
	p.header = h
}

func (p *PMXParser) readVertex() *Vertex {
	var v Vertex
	p.read(&v.Pos)
	p.read(&v.Normal)
	p.read(&v.UV)
	if n := p.header.Info[AttrExtUV]; n > 0 {
		v.ExtUVs = make([]Vector4, n)
		p.read(v.ExtUVs)
	}
	switch weightType := p.readUint8(); weightType {
	case weightBDEF1:
		v.Bones = []int{p.readIndex(IndexBone)}
		v.BoneWeights = []float32{1}
	case weightBDEF2:
		v.Bones = []int{p.readIndex(IndexBone), p.readIndex(IndexBone)}
		w := p.readFloat()
		v.BoneWeights = []float32{w, 1 - w}
	case weightBDEF4:
		v.Bones = []int{
			p.readIndex(IndexBone),
			p.readIndex(IndexBone),
			p.readIndex(IndexBone),
			p.readIndex(IndexBone),
		}
		v.BoneWeights = []float32{
			p.readFloat(),
			p.readFloat(),
			p.readFloat(),
			p.readFloat(),
		}
		v.Bones, v.BoneWeights = trimBDEF4(v.Bones, v.BoneWeights)
	case weightSDEF:
		v.Bones = []int{p.readIndex(IndexBone), p.readIndex(IndexBone)}
		w := p.readFloat()
		v.BoneWeights = []float32{w, 1 - w}
		v.SDEF = &SDEF{}
		p.read(&v.SDEF.C)
		p.read(&v.SDEF.R0)
		p.read(&v.SDEF.R1)
	default:
		p.failf("unknown weight type %d", weightType)
	}
	v.EdgeScale = p.readFloat()
	return &v
}

// trimBDEF4 undoes the padding of one and two bone vertices whose weights
// BDEF1 or BDEF2 can not hold.
func trimBDEF4(bones []int, weights []float32) ([]int, []float32) {
	n := len(bones)
	for n > 1 && bones[n-1] == NoIndex && weights[n-1] == 0 {
		n--
	}
	if (n == 1 && weights[0] != 1) || (n == 2 && !complementary(weights)) {
		return bones[:n], weights[:n]
	}
	return bones, weights
}

func (p *PMXParser) readFace() *Face {
	var f Face
	f.Verts[0] = p.readIndex(IndexVertex)
	f.Verts[1] = p.readIndex(IndexVertex)
	f.Verts[2] = p.readIndex(IndexVertex)
	return &f
}

func (p *PMXParser) readMaterial() *Material {
	var m Material
	m.Name = p.readText()
	m.NameEn = p.readText()
	p.read(&m.Color)
	p.read(&m.Specular)
	p.read(&m.Specularity)
	p.read(&m.AColor)
	p.read(&m.Flags)
	p.read(&m.EdgeColor)
	p.read(&m.EdgeScale)
	m.TextureID = p.readIndex(IndexTexture)
	m.EnvID = p.readIndex(IndexTexture)
	p.read(&m.EnvMode)
	p.read(&m.ToonType)
	if m.ToonType == 0 {
		m.Toon = p.readIndex(IndexTexture)
	} else {
		m.Toon = int(p.readUint8())
	}
	m.Memo = p.readText()
	m.Count = p.readCount()
	return &m
}

func (p *PMXParser) readBone() *Bone {
	var b Bone
	b.Name = p.readText()
	b.NameEn = p.readText()
	p.read(&b.Pos)
	b.ParentID = p.readIndex(IndexBone)
	b.Layer = p.readInt()
	b.Flags = p.readUint16()

	if b.Flags & ^BoneFlagAll != 0 {
		log.Println("Unsupported flags : ", b.Flags & ^BoneFlagAll)
	}

	if b.Flags&BoneFlagTailIndex != 0 {
		b.TailID = p.readIndex(IndexBone)
	} else {
		b.TailID = NoIndex
		p.read(&b.TailPos)
	}

	b.InheritParentID = NoIndex
	if b.Flags&(BoneFlagInheritRotation|BoneFlagInheritTranslation) != 0 {
		b.InheritParentID = p.readIndex(IndexBone)
		b.InheritParentInfluence = p.readFloat()
	}

	if b.Flags&BoneFlagFixedAxis != 0 {
		p.read(&b.FixedAxis)
	}

	if b.Flags&BoneFlagLocalAxis != 0 {
		p.read(&b.LocalAxisX)
		p.read(&b.LocalAxisZ)
	}

	if b.Flags&BoneFlagExternalParent != 0 {
		b.ExternalParent = p.readInt()
	}

	b.IK.TargetID = NoIndex
	if b.Flags&BoneFlagEnableIK != 0 {
		b.IK.TargetID = p.readIndex(IndexBone)
		b.IK.Loop = p.readInt()
		b.IK.LimitRad = p.readFloat()
		links := p.readCount()
		for i := 0; i < links && p.err == nil; i++ {
			var l Link
			l.TargetID = p.readIndex(IndexBone)
			l.HasLimit = p.readUint8() != 0
			if l.HasLimit {
				p.read(&l.LimitMin)
				p.read(&l.LimitMax)
			}
			b.IK.Links = append(b.IK.Links, &l)
		}
	}

	return &b
}

func (p *PMXParser) readMorph() *Morph {
	var m Morph
	m.Name = p.readText()
	m.NameEn = p.readText()
	m.PanelType = p.readUint8()
	m.MorphType = MorphType(p.readUint8())
	if p.err != nil {
		return nil
	}
	codec, ok := morphCodecs[m.MorphType]
	if !ok {
		p.failf("unknown morph type %d", byte(m.MorphType))
		return nil
	}

	n := p.readCount()
	for i := 0; i < n && p.err == nil; i++ {
		e := codec.newElement()
		e.readFrom(p)
		m.Elements = append(m.Elements, e)
	}
	return &m
}

func (p *PMXParser) readDisplaySlot() *DisplaySlot {
	var s DisplaySlot
	s.Name = p.readText()
	s.NameEn = p.readText()
	s.Special = p.readUint8() != 0
	n := p.readCount()
	for i := 0; i < n && p.err == nil; i++ {
		item := &SlotItem{Kind: SlotKind(p.readUint8())}
		switch item.Kind {
		case SlotKindBone:
			item.Index = p.readIndex(IndexBone)
		case SlotKindMorph:
			item.Index = p.readIndex(IndexMorph)
		default:
			p.failf("unknown display slot item kind %d", item.Kind)
		}
		s.Items = append(s.Items, item)
	}
	return &s
}

// Parse reads a whole document. Rigid bodies and joints that follow the
// display slots are not read.
func (p *PMXParser) Parse() (*Document, error) {
	var pmx Document

	p.readHeader()
	if p.err != nil {
		return nil, p.err
	}

	pmx.Header = p.header
	p.op = "model info"
	pmx.Name = p.readText()
	pmx.NameEn = p.readText()
	pmx.Comment = p.readText()
	pmx.CommentEn = p.readText()

	p.op = "vertex"
	vn := p.readCount()
	for i := 0; i < vn && p.err == nil; i++ {
		pmx.Vertexes = append(pmx.Vertexes, p.readVertex())
	}

	p.op = "face"
	fn := p.readCount()
	if fn%3 != 0 {
		p.failf("face index count %d is not a multiple of 3", fn)
	}
	for i := 0; i < fn/3 && p.err == nil; i++ {
		pmx.Faces = append(pmx.Faces, p.readFace())
	}

	p.op = "texture"
	tn := p.readCount()
	for i := 0; i < tn && p.err == nil; i++ {
		pmx.Textures = append(pmx.Textures, p.readText())
	}

	p.op = "material"
	mn := p.readCount()
	for i := 0; i < mn && p.err == nil; i++ {
		pmx.Materials = append(pmx.Materials, p.readMaterial())
	}

	p.op = "bone"
	bn := p.readCount()
	for i := 0; i < bn && p.err == nil; i++ {
		pmx.Bones = append(pmx.Bones, p.readBone())
	}

	p.op = "morph"
	pn := p.readCount()
	for i := 0; i < pn && p.err == nil; i++ {
		pmx.Morphs = append(pmx.Morphs, p.readMorph())
	}

	p.op = "display slot"
	sn := p.readCount()
	for i := 0; i < sn && p.err == nil; i++ {
		pmx.DisplaySlots = append(pmx.DisplaySlots, p.readDisplaySlot())
	}

	if p.err != nil {
		return nil, p.err
	}
	if err := pmx.Validate(); err != nil {
		return nil, &FormatError{Op: "index check", Offset: p.pos, Err: err}
	}
	return &pmx, nil
}

// Parse reads a .pmx document from r.
func Parse(r io.Reader) (*Document, error) {
	return NewPMXParser(bufio.NewReader(r)).Parse()
}

