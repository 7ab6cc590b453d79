package mmd

import (
	"bytes"
	"fmt"
	"io"
	"math"
)

// VMDWriter is writer for .vmd data
type VMDWriter struct {
	baseWriter
	out io.Writer
}

func NewVMDWriter(w io.Writer) *VMDWriter {
	return &VMDWriter{baseWriter: baseWriter{w: &bytes.Buffer{}}, out: w}
}

// Write encodes the motion. Keyframes are written in slice order; every
// frame number is checked before anything is written.
func (w *VMDWriter) Write(anim *Motion) error {
	for _, k := range anim.Bone {
		if k.Frame < 0 || int64(k.Frame) > math.MaxUint32 {
			return fmt.Errorf("mmd: bone %q: frame %d out of range", k.Target, k.Frame)
		}
	}
	for _, k := range anim.Morph {
		if k.Frame < 0 || int64(k.Frame) > math.MaxUint32 {
			return fmt.Errorf("mmd: morph %q: frame %d out of range", k.Target, k.Frame)
		}
	}
	if len(anim.Bone) > math.MaxInt32 || len(anim.Morph) > math.MaxInt32 {
		return fmt.Errorf("mmd: too many keyframes")
	}

	w.writeString(vmdMagic, vmdMagicSize)
	w.writeString(anim.Name, vmdModelNameSize)

	w.writeInt(len(anim.Bone))
	for _, k := range anim.Bone {
		w.writeString(k.Target, vmdNameSize)
		w.write(uint32(k.Frame))
		w.write(&k.Position)
		w.write(&k.Rotation)
		block := PackCurves(k.Curves)
		w.write(block[:])
	}

	w.writeInt(len(anim.Morph))
	for _, k := range anim.Morph {
		w.writeString(k.Target, vmdNameSize)
		w.write(uint32(k.Frame))
		w.writeFloat(k.Value)
	}

	// camera, light, self shadow
	w.writeInt(0)
	w.writeInt(0)
	w.writeInt(0)

	if w.err != nil {
		return w.err
	}
	_, err := w.out.Write(w.w.Bytes())
	return err
}

// WriteVMD writes .vmd data
func WriteVMD(anim *Motion, w io.Writer) error {
	return NewVMDWriter(w).Write(anim)
}
