package mmd

import (
	"fmt"
	"math"
)

// NoIndex is the "no reference" value of every index category.
const NoIndex = -1

type IndexCategory int

const (
	IndexVertex IndexCategory = iota
	IndexTexture
	IndexMaterial
	IndexBone
	IndexMorph
	IndexRigidBody
)

var indexCategoryNames = [...]string{"vertex", "texture", "material", "bone", "morph", "rigid body"}

func (c IndexCategory) String() string {
	if c < 0 || int(c) >= len(indexCategoryNames) {
		return fmt.Sprintf("IndexCategory(%d)", int(c))
	}
	return indexCategoryNames[c]
}

func (c IndexCategory) attr() int {
	return AttrVertIndexSz + int(c)
}

// IndexSize returns the smallest index width in bytes that can address count
// elements of the category while keeping NoIndex distinguishable.
//
// Vertex indices are unsigned on the wire, so 0xFF / 0xFFFF are reserved for
// NoIndex and the 1 and 2 byte forms stop one short of the full range.
func IndexSize(c IndexCategory, count int) (byte, error) {
	if count < 0 || count > math.MaxInt32 {
		return 0, &CapacityError{Category: c, Count: count}
	}
	if c == IndexVertex {
		switch {
		case count <= math.MaxUint8:
			return 1, nil
		case count <= math.MaxUint16:
			return 2, nil
		}
		return 4, nil
	}
	switch {
	case count <= math.MaxInt8:
		return 1, nil
	case count <= math.MaxInt16:
		return 2, nil
	}
	return 4, nil
}

func validIndexSize(sz byte) bool {
	return sz == 1 || sz == 2 || sz == 4
}

// UpdateIndexSizes recomputes the index widths of the header from the current
// array lengths.
func (doc *Document) UpdateIndexSizes() error {
	if doc.Header == nil {
		doc.Header = NewHeader()
	}
	h := doc.Header
	if len(h.Info) < 8 {
		info := make([]byte, 8)
		copy(info, h.Info)
		h.Info = info
	}
	counts := map[IndexCategory]int{
		IndexVertex:    len(doc.Vertexes),
		IndexTexture:   len(doc.Textures),
		IndexMaterial:  len(doc.Materials),
		IndexBone:      len(doc.Bones),
		IndexMorph:     len(doc.Morphs),
		IndexRigidBody: 0,
	}
	for c, n := range counts {
		sz, err := IndexSize(c, n)
		if err != nil {
			return err
		}
		h.Info[c.attr()] = sz
	}
	return nil
}

func (p *baseParser) readIndexOf(c IndexCategory, sz byte) int {
	if c != IndexVertex {
		return p.readVInt(sz)
	}
	switch sz {
	case 1:
		if v := p.readVUInt(1); v != math.MaxUint8 {
			return v
		}
		return NoIndex
	case 2:
		if v := p.readVUInt(2); v != math.MaxUint16 {
			return v
		}
		return NoIndex
	}
	return p.readVInt(sz)
}

func (w *baseWriter) writeIndexOf(c IndexCategory, sz byte, v int) {
	if v < 0 {
		v = NoIndex
	}
	if c != IndexVertex || sz == 4 {
		w.writeVInt(sz, v)
		return
	}
	if v == NoIndex {
		if sz == 1 {
			v = math.MaxUint8
		} else {
			v = math.MaxUint16
		}
	}
	w.writeVUInt(sz, v)
}
