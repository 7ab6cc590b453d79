package world

import (
	"testing"

	"github.com/binzume/curtainfire/mmd"
	"github.com/binzume/curtainfire/shot"
	"github.com/binzume/curtainfire/shottype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const ringScenario = `
frames: 20
emitters:
  - type: orb
    color: 0xff0000
    spawn: 0
    count: 2
    interval: 5
    ways: 4
    ring_step: 90
    speed: 1
    life: 3
`

func run(t *testing.T, src string) (*shot.Engine, *mmd.Document, *mmd.Motion) {
	t.Helper()
	sc, err := ParseScenario([]byte(src))
	require.NoError(t, err)
	e := shot.NewEngine(nil)
	w := New(e, shottype.NewDefaultRegistry())
	frames := 0
	w.OnFrame = func(frame int, st shot.Stats) { frames++ }
	require.NoError(t, w.Run(sc))
	assert.Equal(t, sc.Frames+1, frames)
	doc, anim, err := e.Finalize()
	require.NoError(t, err)
	return e, doc, anim
}

func assertPos(t *testing.T, want mmd.Vector3, k *mmd.BoneKeyframe) {
	t.Helper()
	require.NotNil(t, k)
	assert.InDelta(t, want.X, k.Position.X, 1e-4)
	assert.InDelta(t, want.Y, k.Position.Y, 1e-4)
	assert.InDelta(t, want.Z, k.Position.Z, 1e-4)
}

func TestRunRing(t *testing.T) {
	e, doc, anim := run(t, ringScenario)
	rec := e.Recorder()

	// the second wave reuses the groups of the first
	assert.Equal(t, 4, e.Stats().Groups)
	assert.Equal(t, 8, e.Stats().Shots)
	assert.Len(t, doc.Bones, 5)
	// all groups share one timeline
	assert.Len(t, doc.Morphs, 1)
	assert.Len(t, doc.Morphs[0].Elements, 4)

	assertPos(t, mmd.Vector3{}, rec.BoneFrame("orb0", 0))
	assertPos(t, mmd.Vector3{Z: 3}, rec.BoneFrame("orb0", 3))
	assertPos(t, mmd.Vector3{X: 3}, rec.BoneFrame("orb1", 3))
	assertPos(t, mmd.Vector3{Z: -3}, rec.BoneFrame("orb2", 3))
	assertPos(t, mmd.Vector3{}, rec.BoneFrame("orb0", 5))
	assertPos(t, mmd.Vector3{Z: 3}, rec.BoneFrame("orb0", 8))
	assert.Nil(t, rec.BoneFrame("orb0", 4))
	assert.Len(t, anim.Bone, 16)

	vis := rec.MorphFrames(doc.Morphs[0].Name)
	var got [][2]float32
	for _, k := range vis {
		got = append(got, [2]float32{float32(k.Frame), k.Value})
	}
	assert.Equal(t, [][2]float32{{0, 1}, {1, 0}, {2, 0}, {3, 1}, {5, 1}, {6, 0}, {7, 0}, {8, 1}}, got)
}

func TestRunAliveAtEnd(t *testing.T) {
	e, _, _ := run(t, `
frames: 10
emitters:
  - type: bone
    spawn: 2
    speed: 0.5
    direction: [0, 90, 0]
    curve: [0.2, 0.1, 0.8, 0.9]
`)
	rec := e.Recorder()
	assertPos(t, mmd.Vector3{}, rec.BoneFrame("bone0", 2))
	end := rec.BoneFrame("bone0", 10)
	assertPos(t, mmd.Vector3{X: 4}, end)
	assert.Equal(t, mmd.NewCurve(0.2, 0.1, 0.8, 0.9), end.Curves[mmd.CurveRotation])
	assert.Equal(t, 2, rec.BoneFrameCount())
}

func TestRunTurn(t *testing.T) {
	e, _, _ := run(t, `
frames: 6
emitters:
  - type: bone
    speed: 1
    life: 6
    turns:
      - after: 2
        direction: [0, 90, 0]
        speed: 2
`)
	rec := e.Recorder()
	assertPos(t, mmd.Vector3{Z: 2}, rec.BoneFrame("bone0", 2))
	assertPos(t, mmd.Vector3{X: 8, Z: 2}, rec.BoneFrame("bone0", 6))
	assert.Equal(t, 3, rec.BoneFrameCount())
}

func TestRunAim(t *testing.T) {
	e, _, _ := run(t, `
frames: 4
emitters:
  - type: bone
    speed: 1
    life: 4
    origin: [0, 10, 0]
    aim: [0, 10, -5]
`)
	assertPos(t, mmd.Vector3{Y: 10, Z: -4}, e.Recorder().BoneFrame("bone0", 4))
}

func TestRunGrow(t *testing.T) {
	e, doc, _ := run(t, `
frames: 10
emitters:
  - type: orb
    color: "#00ff00"
    grow: 4
    life: 8
`)
	m := doc.MorphByName("vorb0")
	require.NotNil(t, m)
	assert.Equal(t, mmd.MorphTypeVertex, m.MorphType)
	assert.Len(t, m.Elements, 12)
	rec := e.Recorder()
	assert.Equal(t, float32(1), rec.MorphFrame("vorb0", 0).Value)
	assert.Equal(t, float32(0), rec.MorphFrame("vorb0", 4).Value)
	assert.Equal(t, mmd.Vector4{X: 0, Y: 1, Z: 0, W: 1}, doc.Materials[0].Color)
}

func TestRunUnknownType(t *testing.T) {
	sc, err := ParseScenario([]byte("frames: 1\nemitters: [{type: laser}]"))
	require.NoError(t, err)
	err = New(shot.NewEngine(nil), shottype.NewDefaultRegistry()).Run(sc)
	assert.Error(t, err)
}

func TestParseScenarioErrors(t *testing.T) {
	for _, src := range []string{
		"frames: 0",
		"frames: 1\nemitters: [{}]",
		"frames: 1\nemitters: [{type: orb, count: 3}]",
		"frames: 1\nemitters: [{type: orb, origin: [1, 2]}]",
		"frames: 1\nemitters: [{type: orb, curve: [1]}]",
		"frames: 1\nemitters: [{type: orb, spawn: -1}]",
		"frames: 1\nemitters: [{type: orb, color: '#zz'}]",
		"frames: 1\nemitters: [{type: orb, turns: [{after: 0}]}]",
	} {
		_, err := ParseScenario([]byte(src))
		assert.Error(t, err, src)
	}
}

func TestEmitterFires(t *testing.T) {
	em := &Emitter{Spawn: 3, Count: 3, Interval: 4}
	var frames []int
	for f := 0; f < 30; f++ {
		if em.fires(f) {
			frames = append(frames, f)
		}
	}
	assert.Equal(t, []int{3, 7, 11}, frames)
}
