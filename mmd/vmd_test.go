package mmd

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPackCurvesLinear(t *testing.T) {
	block := PackCurves(SameCurves(LinearCurve))
	var want [InterpolationSize]byte
	want[31], want[46], want[61] = 1, 1, 1
	assert.Equal(t, want, block)
}

func TestPackCurvesLayout(t *testing.T) {
	c := NewCurve(0.25, 0.1, 0.75, 0.9)
	assert.Equal(t, Curve{31, 12, 95, 114}, c)

	block := PackCurves(SameCurves(c))
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			assert.Equal(t, c[i], block[i*4+j], "component %d channel %d", i, j)
		}
	}
	// row 1 is the head shifted by one, its last byte forced
	assert.Equal(t, block[:15], block[16:31])
	assert.EqualValues(t, 1, block[31])
	assert.Equal(t, block[:14], block[32:46])
	assert.Equal(t, block[:13], block[48:61])
	assert.EqualValues(t, 1, block[46])
	assert.EqualValues(t, 1, block[61])
	assert.Equal(t, []byte{0, 0}, block[62:])
	assert.EqualValues(t, 0, block[47])
}

func TestUnpackCurves(t *testing.T) {
	curves := [4]Curve{
		NewCurve(0, 0, 1, 1),
		NewCurve(0.5, 0, 0.5, 1),
		NewCurve(0.1, 0.2, 0.3, 0.4),
		LinearCurve,
	}
	assert.Equal(t, curves, UnpackCurves(PackCurves(curves)))
}

func TestNewCurveClamp(t *testing.T) {
	assert.Equal(t, Curve{0, 127, 0, 127}, NewCurve(-1, 2, -0.5, 1))
	x1, y1, x2, y2 := NewCurve(0, 1, 1, 0).Points()
	assert.Equal(t, []float32{0, 1, 1, 0}, []float32{x1, y1, x2, y2})
}

func TestVMDRoundTrip(t *testing.T) {
	anim := &Motion{
		Name: "弾幕モデル",
		Bone: []*BoneKeyframe{
			{Target: "センター", Frame: 0, Position: Vector3{0, 0, 0}, Rotation: Vector4{0, 0, 0, 1}, Curves: SameCurves(LinearCurve)},
			{Target: "弾0", Frame: 10, Position: Vector3{1, 2, 3}, Rotation: Vector4{0, 0.5, 0, 0.5}, Curves: SameCurves(NewCurve(0.2, 0.3, 0.7, 0.8))},
		},
		Morph: []*MorphKeyframe{
			{Target: "弾0", Frame: 0, Value: 1},
			{Target: "弾0", Frame: 11, Value: 0},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteVMD(anim, &buf))
	// header, 2 bone frames, 2 morph frames, 3 trailing counts
	assert.Equal(t, 30+20+4+2*(15+4+12+16+64)+4+2*(15+4+4)+3*4, buf.Len())

	parsed, err := ParseVMD(&buf)
	require.NoError(t, err)
	assert.Equal(t, anim, parsed)
}

func TestVMDNameTruncation(t *testing.T) {
	name := strings.Repeat("弾", 10) // 20 bytes in Shift_JIS
	anim := &Motion{
		Name:  "m",
		Morph: []*MorphKeyframe{{Target: name, Frame: 1, Value: 1}},
	}
	var buf bytes.Buffer
	require.NoError(t, WriteVMD(anim, &buf))

	parsed, err := ParseVMD(&buf)
	require.NoError(t, err)
	// 7 characters fit in 15 bytes, the 8th would split
	assert.Equal(t, strings.Repeat("弾", 7), parsed.Morph[0].Target)
}

func TestFitsVMDName(t *testing.T) {
	assert.True(t, FitsVMDName(""))
	assert.True(t, FitsVMDName(strings.Repeat("a", 15)))
	assert.False(t, FitsVMDName(strings.Repeat("a", 16)))
	assert.True(t, FitsVMDName(strings.Repeat("弾", 7)+"a"))
	assert.False(t, FitsVMDName(strings.Repeat("弾", 8)))
}

func TestVMDNegativeFrame(t *testing.T) {
	var buf bytes.Buffer
	err := WriteVMD(&Motion{Bone: []*BoneKeyframe{{Target: "a", Frame: -1}}}, &buf)
	assert.Error(t, err)
	assert.Zero(t, buf.Len())
}

func TestVMDBadMagic(t *testing.T) {
	data := make([]byte, 100)
	copy(data, "Vocaloid Motion Data file")
	_, err := ParseVMD(bytes.NewReader(data))
	var fe *FormatError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, "header", fe.Op)
}

func TestVMDTruncated(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteVMD(&Motion{Bone: []*BoneKeyframe{{Target: "a", Frame: 3}}}, &buf))
	data := buf.Bytes()

	_, err := ParseVMD(bytes.NewReader(data[:len(data)-12-4-10]))
	assert.True(t, errors.Is(err, io.ErrUnexpectedEOF), "%v", err)
}

func TestMotionChannels(t *testing.T) {
	anim := &Motion{
		Bone: []*BoneKeyframe{
			{Target: "a", Frame: 10},
			{Target: "b", Frame: 5},
			{Target: "a", Frame: 0},
		},
		Morph: []*MorphKeyframe{
			{Target: "m", Frame: 3, Value: 0},
			{Target: "m", Frame: 1, Value: 1},
		},
	}
	bones := anim.GetBoneChannels()
	require.Len(t, bones, 2)
	assert.Equal(t, []uint32{0, 10}, bones["a"].Frames)

	morphs := anim.GetMorphChannels()
	assert.Equal(t, []uint32{1, 3}, morphs["m"].Frames)
	assert.Equal(t, []float32{1, 0}, morphs["m"].Samples)
}
