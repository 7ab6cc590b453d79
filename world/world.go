// Package world is a small simulation that drives the shot engine from a
// scenario file.
package world

import (
	"fmt"

	"github.com/binzume/curtainfire/geom"
	"github.com/binzume/curtainfire/mmd"
	"github.com/binzume/curtainfire/shot"
)

// TypeSource resolves shot type names.
type TypeSource interface {
	Get(name string) (shot.ShotType, error)
}

type entity struct {
	shot  *shot.Shot
	em    *Emitter
	pos   *geom.Vector3
	vel   *geom.Vector3
	rot   *geom.Quaternion
	born  int
	turns int
}

type World struct {
	engine *shot.Engine
	types  TypeSource

	// OnFrame is called after every simulated frame.
	OnFrame func(frame int, st shot.Stats)

	entities []*entity
}

func New(engine *shot.Engine, types TypeSource) *World {
	return &World{engine: engine, types: types}
}

// Run simulates frames 0 to sc.Frames. Shots alive at the end stay alive.
func (w *World) Run(sc *Scenario) error {
	types := make([]shot.ShotType, len(sc.Emitters))
	for i, em := range sc.Emitters {
		t, err := w.types.Get(em.Type)
		if err != nil {
			return err
		}
		types[i] = t
	}

	for frame := 0; frame <= sc.Frames; frame++ {
		if err := w.engine.SetFrame(frame); err != nil {
			return err
		}
		if err := w.step(frame); err != nil {
			return err
		}
		for i, em := range sc.Emitters {
			if !em.fires(frame) {
				continue
			}
			if err := w.fire(types[i], em); err != nil {
				return fmt.Errorf("world: frame %d: %w", frame, err)
			}
		}
		if w.OnFrame != nil {
			w.OnFrame(frame, w.engine.Stats())
		}
	}

	for _, ent := range w.entities {
		if err := w.record(ent, false); err != nil {
			return err
		}
	}
	w.entities = nil
	return nil
}

func (em *Emitter) fires(frame int) bool {
	d := frame - em.Spawn
	if d < 0 {
		return false
	}
	if em.Interval == 0 {
		return d == 0
	}
	return d%em.Interval == 0 && d/em.Interval < em.Count
}

func (w *World) fire(t shot.ShotType, em *Emitter) error {
	base := rotation(em.Direction)
	if em.Aim != nil {
		base = geom.LookRotation(vec3(em.Aim).Sub(vec3(em.Origin))).Mul(base)
	}
	for k := 0; k < em.Ways; k++ {
		s, err := w.engine.AdmitShot(t, em.Property())
		if err != nil {
			return err
		}
		ring := geom.NewQuaternionFromAxisAngle(&geom.UnitY, float64(em.RingStep)*float64(k)*geom.Deg2Rad)
		rot := base.Mul(ring)
		ent := &entity{
			shot: s,
			em:   em,
			pos:  vec3(em.Origin),
			vel:  rot.ApplyTo(&geom.UnitZ).Scale(em.Speed),
			rot:  rot,
			born: w.engine.Frame(),
		}
		if err := w.record(ent, true); err != nil {
			return err
		}
		if em.Grow > 0 {
			if err := w.grow(ent); err != nil {
				return err
			}
		}
		w.entities = append(w.entities, ent)
	}
	return nil
}

// grow shrinks the shot's mesh to its bone at spawn and releases it over
// em.Grow frames.
func (w *World) grow(ent *entity) error {
	m, err := w.engine.VertexMorph(ent.shot, func(pos mmd.Vector3) mmd.Vector3 {
		return mmd.Vector3{X: -pos.X, Y: -pos.Y, Z: -pos.Z}
	})
	if err != nil || m == nil {
		return err
	}
	if err := w.engine.RecordVertexMorphFrame(ent.shot, 0, 1); err != nil {
		return err
	}
	return w.engine.RecordVertexMorphFrame(ent.shot, ent.em.Grow, 0)
}

// step moves every shot by one frame, turning and removing them as due.
func (w *World) step(frame int) error {
	alive := w.entities[:0]
	for _, ent := range w.entities {
		ent.pos = ent.pos.Add(ent.vel)
		age := frame - ent.born

		if ent.em.Life > 0 && age >= ent.em.Life {
			if err := w.record(ent, true); err != nil {
				return err
			}
			if err := w.engine.ShotDied(ent.shot); err != nil {
				return err
			}
			continue
		}
		if ent.turns < len(ent.em.Turns) && age == ent.em.Turns[ent.turns].After {
			turn := ent.em.Turns[ent.turns]
			ent.turns++
			if err := w.record(ent, true); err != nil {
				return err
			}
			speed := ent.vel.Len()
			if turn.Speed != 0 {
				speed = turn.Speed
			}
			ent.rot = ent.rot.Mul(rotation(turn.Direction))
			ent.vel = ent.rot.ApplyTo(&geom.UnitZ).Scale(speed)
		}
		alive = append(alive, ent)
	}
	for i := len(alive); i < len(w.entities); i++ {
		w.entities[i] = nil
	}
	w.entities = alive
	return nil
}

func (w *World) record(ent *entity, replace bool) error {
	q := ent.rot
	return w.engine.RecordBoneFrame(ent.shot,
		mmd.Vector3{X: ent.pos.X, Y: ent.pos.Y, Z: ent.pos.Z},
		mmd.Vector4{X: q.X, Y: q.Y, Z: q.Z, W: q.W},
		ent.em.curve(), replace)
}
