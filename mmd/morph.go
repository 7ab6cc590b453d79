package mmd

import "fmt"

type MorphType byte

const (
	MorphTypeGroup    MorphType = 0
	MorphTypeVertex   MorphType = 1
	MorphTypeBone     MorphType = 2
	MorphTypeUV       MorphType = 3
	MorphTypeExtUV1   MorphType = 4
	MorphTypeExtUV2   MorphType = 5
	MorphTypeExtUV3   MorphType = 6
	MorphTypeExtUV4   MorphType = 7
	MorphTypeMaterial MorphType = 8
)

const (
	MorphPanelSystem  byte = 0
	MorphPanelEyebrow byte = 1
	MorphPanelEye     byte = 2
	MorphPanelMouth   byte = 3
	MorphPanelOther   byte = 4
)

// Material morph operators.
const (
	MorphMaterialMultiply byte = 0
	MorphMaterialAdd      byte = 1
)

// MorphElement is one entry of a morph. The set of implementations is closed:
// MorphGroup, MorphVertex, MorphBone, MorphUV and MorphMaterial.
type MorphElement interface {
	target() (IndexCategory, int)
	readFrom(p *PMXParser)
	writeTo(w *PMXWriter)
}

type Morph struct {
	Name      string
	NameEn    string
	PanelType byte
	MorphType MorphType
	Elements  []MorphElement
}

// type 0
type MorphGroup struct {
	Target int
	Weight float32
}

// type 1
type MorphVertex struct {
	Target int
	Offset Vector3
}

// type 2
type MorphBone struct {
	Target      int
	Translation Vector3
	Rotation    Vector4
}

// type 3-7
type MorphUV struct {
	Target int
	Value  Vector4
}

// type 8
type MorphMaterial struct {
	Target int

	Flags           byte
	Diffuse         Vector4
	Specular        Vector3
	Specularity     float32
	Ambient         Vector3
	EdgeColor       Vector4
	EdgeSize        float32
	TextureTint     Vector4
	EnvironmentTint Vector4
	ToonTint        Vector4
}

type morphCodec struct {
	name string
	// payload is the element size without its leading index.
	payload    int
	category   IndexCategory
	newElement func() MorphElement
	accepts    func(MorphElement) bool
}

func uvCodec(name string) *morphCodec {
	return &morphCodec{name: name, payload: 16, category: IndexVertex,
		newElement: func() MorphElement { return &MorphUV{} },
		accepts:    func(e MorphElement) bool { _, ok := e.(*MorphUV); return ok }}
}

var morphCodecs = map[MorphType]*morphCodec{
	MorphTypeGroup: {name: "group", payload: 4, category: IndexMorph,
		newElement: func() MorphElement { return &MorphGroup{} },
		accepts:    func(e MorphElement) bool { _, ok := e.(*MorphGroup); return ok }},
	MorphTypeVertex: {name: "vertex", payload: 12, category: IndexVertex,
		newElement: func() MorphElement { return &MorphVertex{} },
		accepts:    func(e MorphElement) bool { _, ok := e.(*MorphVertex); return ok }},
	MorphTypeBone: {name: "bone", payload: 28, category: IndexBone,
		newElement: func() MorphElement { return &MorphBone{} },
		accepts:    func(e MorphElement) bool { _, ok := e.(*MorphBone); return ok }},
	MorphTypeUV:     uvCodec("uv"),
	MorphTypeExtUV1: uvCodec("uv1"),
	MorphTypeExtUV2: uvCodec("uv2"),
	MorphTypeExtUV3: uvCodec("uv3"),
	MorphTypeExtUV4: uvCodec("uv4"),
	MorphTypeMaterial: {name: "material", payload: 113, category: IndexMaterial,
		newElement: func() MorphElement { return &MorphMaterial{} },
		accepts:    func(e MorphElement) bool { _, ok := e.(*MorphMaterial); return ok }},
}

func (t MorphType) String() string {
	if c, ok := morphCodecs[t]; ok {
		return c.name
	}
	return fmt.Sprintf("MorphType(%d)", byte(t))
}

// Valid reports whether t is a known morph type.
func (t MorphType) Valid() bool {
	_, ok := morphCodecs[t]
	return ok
}

// ElementSize returns the encoded size of one element of this type using
// the index widths declared in h.
func (t MorphType) ElementSize(h *Header) (int, error) {
	c, ok := morphCodecs[t]
	if !ok {
		return 0, fmt.Errorf("mmd: unknown morph type %d", byte(t))
	}
	return int(h.Info[c.category.attr()]) + c.payload, nil
}

func (m *MorphGroup) target() (IndexCategory, int) { return IndexMorph, m.Target }

func (m *MorphGroup) readFrom(p *PMXParser) {
	m.Target = p.readIndex(IndexMorph)
	m.Weight = p.readFloat()
}

func (m *MorphGroup) writeTo(w *PMXWriter) {
	w.writeIndex(IndexMorph, m.Target)
	w.writeFloat(m.Weight)
}

func (m *MorphVertex) target() (IndexCategory, int) { return IndexVertex, m.Target }

func (m *MorphVertex) readFrom(p *PMXParser) {
	m.Target = p.readIndex(IndexVertex)
	p.read(&m.Offset)
}

func (m *MorphVertex) writeTo(w *PMXWriter) {
	w.writeIndex(IndexVertex, m.Target)
	w.write(&m.Offset)
}

func (m *MorphBone) target() (IndexCategory, int) { return IndexBone, m.Target }

func (m *MorphBone) readFrom(p *PMXParser) {
	m.Target = p.readIndex(IndexBone)
	p.read(&m.Translation)
	p.read(&m.Rotation)
}

func (m *MorphBone) writeTo(w *PMXWriter) {
	w.writeIndex(IndexBone, m.Target)
	w.write(&m.Translation)
	w.write(&m.Rotation)
}

func (m *MorphUV) target() (IndexCategory, int) { return IndexVertex, m.Target }

func (m *MorphUV) readFrom(p *PMXParser) {
	m.Target = p.readIndex(IndexVertex)
	p.read(&m.Value)
}

func (m *MorphUV) writeTo(w *PMXWriter) {
	w.writeIndex(IndexVertex, m.Target)
	w.write(&m.Value)
}

// A material morph targeting NoIndex applies to every material.
func (m *MorphMaterial) target() (IndexCategory, int) { return IndexMaterial, m.Target }

func (m *MorphMaterial) readFrom(p *PMXParser) {
	m.Target = p.readIndex(IndexMaterial)
	p.read(&m.Flags)
	p.read(&m.Diffuse)
	p.read(&m.Specular)
	p.read(&m.Specularity)
	p.read(&m.Ambient)
	p.read(&m.EdgeColor)
	p.read(&m.EdgeSize)
	p.read(&m.TextureTint)
	p.read(&m.EnvironmentTint)
	p.read(&m.ToonTint)
}

func (m *MorphMaterial) writeTo(w *PMXWriter) {
	w.writeIndex(IndexMaterial, m.Target)
	w.write(&m.Flags)
	w.write(&m.Diffuse)
	w.write(&m.Specular)
	w.write(&m.Specularity)
	w.write(&m.Ambient)
	w.write(&m.EdgeColor)
	w.write(&m.EdgeSize)
	w.write(&m.TextureTint)
	w.write(&m.EnvironmentTint)
	w.write(&m.ToonTint)
}
