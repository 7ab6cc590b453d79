package mmd

import (
	"bufio"
	"fmt"
	"io"
)

const (
	vmdMagic         = "Vocaloid Motion Data 0002"
	vmdMagicSize     = 30
	vmdModelNameSize = 20
	vmdNameSize      = 15
)

// VMDParser is parser for .vmd animation.
type VMDParser struct {
	baseParser
}

// NewVMDParser returns new parser.
func NewVMDParser(r io.Reader) *VMDParser {
	return &VMDParser{baseParser: baseParser{r: r}}
}

// Parse animation data. Camera, light and shadow sections are not read.
func (p *VMDParser) Parse() (*Motion, error) {
	var anim Motion

	p.op = "header"
	formatName := p.readString(vmdMagicSize)
	if p.err == nil && formatName != vmdMagic {
		p.fail(fmt.Errorf("format error: %v != %v", formatName, vmdMagic))
	}

	anim.Name = p.readString(vmdModelNameSize)

	p.op = "bone keyframe"
	frames := p.readCount()
	for i := 0; i < frames && p.err == nil; i++ {
		sample := &BoneKeyframe{}
		sample.Target = p.readString(vmdNameSize)
		sample.Frame = int(p.readUint32())
		p.read(&sample.Position)
		p.read(&sample.Rotation)
		var block [InterpolationSize]byte
		p.read(&block)
		sample.Curves = UnpackCurves(block)
		anim.Bone = append(anim.Bone, sample)
	}

	p.op = "morph keyframe"
	frames = p.readCount()
	for i := 0; i < frames && p.err == nil; i++ {
		sample := &MorphKeyframe{}
		sample.Target = p.readString(vmdNameSize)
		sample.Frame = int(p.readUint32())
		sample.Value = p.readFloat()
		anim.Morph = append(anim.Morph, sample)
	}

	if p.err != nil {
		return nil, p.err
	}
	return &anim, nil
}

// ParseVMD reads a .vmd document from r.
func ParseVMD(r io.Reader) (*Motion, error) {
	return NewVMDParser(bufio.NewReader(r)).Parse()
}
