package shot

import (
	"fmt"

	"github.com/binzume/curtainfire/mmd"
)

type groupKey struct {
	typeName string
	prop     Property
}

// group is one reusable set of structure in the document. It is OPEN while
// occupant is nil.
type group struct {
	key      groupKey
	rootBone int // -1 for motion-less types
	bones    []int

	vertexStart int
	vertexCount int
	materials   []int

	morph       *mmd.Morph // visibility, nil without mesh
	vertexMorph *mmd.Morph

	occupant *Shot
	shots    []*Shot
}

func (g *group) open() bool {
	return g.occupant == nil
}

// Shot is the handle of an admitted shot.
type Shot struct {
	engine *Engine
	group  *group
	spawn  int
	death  int
	alive  bool
}

func (s *Shot) Alive() bool {
	return s.alive
}

func (s *Shot) SpawnFrame() int {
	return s.spawn
}

// DeathFrame returns the frame ShotDied was called at, or -1 while alive.
func (s *Shot) DeathFrame() int {
	if s.alive {
		return -1
	}
	return s.death
}

// BoneName returns the name of the bone driven by the shot, or "" for
// motion-less types.
func (s *Shot) BoneName() string {
	if s.group.rootBone < 0 {
		return ""
	}
	return s.engine.doc.Bones[s.group.rootBone].Name
}

// MorphName returns the name of the visibility morph of the shot's group, or
// "" if the group has no mesh.
func (s *Shot) MorphName() string {
	if s.group.morph == nil {
		return ""
	}
	return s.group.morph.Name
}

func (s *Shot) String() string {
	return fmt.Sprintf("shot(%s #%06x, frame %d)", s.group.key.typeName, s.group.key.prop.Color, s.spawn)
}
