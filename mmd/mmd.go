package mmd

type Vector2 struct {
	X float32
	Y float32
}

type Vector3 struct {
	X float32
	Y float32
	Z float32
}

type Vector4 struct {
	X float32
	Y float32
	Z float32
	W float32
}

// Document is a PMX 2.0 model.
type Document struct {
	Header       *Header
	Name         string
	NameEn       string
	Comment      string
	CommentEn    string
	Vertexes     []*Vertex
	Faces        []*Face
	Textures     []string
	Materials    []*Material
	Bones        []*Bone
	Morphs       []*Morph
	DisplaySlots []*DisplaySlot
}

func NewDocument() *Document {
	return &Document{Header: NewHeader()}
}

func NewHeader() *Header {
	return &Header{
		Format:  []byte("PMX "),
		Version: 2,
		Info:    []byte{TextEncodingUTF16, 0, 1, 1, 1, 1, 1, 1},
	}
}

type Header struct {
	Format  []byte
	Version float32
	Info    []byte
}

const (
	TextEncodingUTF16 byte = 0
	TextEncodingUTF8  byte = 1
)

type Vertex struct {
	Pos       Vector3
	Normal    Vector3
	UV        Vector2
	ExtUVs    []Vector4
	EdgeScale float32

	// 1, 2 or 4 influences. Weights are stored as given.
	Bones       []int
	BoneWeights []float32
	SDEF        *SDEF
}

// SDEF holds spherical deform parameters. Only valid with two bone influences.
type SDEF struct {
	C  Vector3
	R0 Vector3
	R1 Vector3
}

const (
	weightBDEF1 uint8 = 0
	weightBDEF2 uint8 = 1
	weightBDEF4 uint8 = 2
	weightSDEF  uint8 = 3
)

type Face struct {
	Verts [3]int
}

type Material struct {
	Name        string
	NameEn      string
	Color       Vector4
	Specular    Vector3
	Specularity float32
	AColor      Vector3
	Flags       byte
	EdgeColor   Vector4
	EdgeScale   float32
	TextureID   int
	EnvID       int
	EnvMode     byte
	ToonType    byte
	Toon        int
	Memo        string
	Count       int
}

const (
	MaterialFlagDoubleSided uint8 = 1
	MaterialFlagCastShadow  uint8 = 2
	MaterialFlagSelfShadow  uint8 = 4
	MaterialFlagShadow      uint8 = 8
	MaterialFlagEdge        uint8 = 16
)

type Link struct {
	TargetID int
	HasLimit bool
	LimitMin Vector3
	LimitMax Vector3
}

type Bone struct {
	Name     string
	NameEn   string
	Pos      Vector3
	ParentID int
	Layer    int
	Flags    uint16
	TailID   int
	TailPos  Vector3

	InheritParentID        int
	InheritParentInfluence float32

	FixedAxis  Vector3
	LocalAxisX Vector3
	LocalAxisZ Vector3

	ExternalParent int

	IK struct {
		TargetID int
		Loop     int
		LimitRad float32
		Links    []*Link
	}
}

const (
	BoneFlagTailIndex    uint16 = 1
	BoneFlagRotatable    uint16 = 2
	BoneFlagTranslatable uint16 = 4
	BoneFlagVisible      uint16 = 8
	BoneFlagEnabled      uint16 = 16
	BoneFlagEnableIK     uint16 = 32

	BoneFlagInheritRotation    uint16 = 256
	BoneFlagInheritTranslation uint16 = 512
	BoneFlagFixedAxis          uint16 = 1024
	BoneFlagLocalAxis          uint16 = 2048
	BoneFlagPhysicsMode        uint16 = 4096
	BoneFlagExternalParent     uint16 = 8192

	BoneFlagAll uint16 = (31 | 32 | 256 | 512 | 1024 | 2048 | 4096 | 8192)
)

type SlotKind byte

const (
	SlotKindBone  SlotKind = 0
	SlotKindMorph SlotKind = 1
)

type SlotItem struct {
	Kind  SlotKind
	Index int
}

// DisplaySlot groups bones and morphs in the editor UI.
type DisplaySlot struct {
	Name    string
	NameEn  string
	Special bool
	Items   []*SlotItem
}

const (
	AttrStringEncoding int = iota
	AttrExtUV
	AttrVertIndexSz
	AttrTexIndexSz
	AttrMatIndexSz
	AttrBoneIndexSz
	AttrMorphIndexSz
	AttrRBIndexSz
)

// FaceIndexCount returns the number of vertex indices in the face list.
func (doc *Document) FaceIndexCount() int {
	return len(doc.Faces) * 3
}

// MorphByName returns the first morph with the given name or nil.
func (doc *Document) MorphByName(name string) *Morph {
	for _, m := range doc.Morphs {
		if m.Name == name {
			return m
		}
	}
	return nil
}

// BoneByName returns the index of the named bone or -1.
func (doc *Document) BoneByName(name string) int {
	for i, b := range doc.Bones {
		if b.Name == name {
			return i
		}
	}
	return -1
}
