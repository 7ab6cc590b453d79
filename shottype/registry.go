package shottype

import (
	"fmt"
	"sort"

	"github.com/binzume/curtainfire/config"
	"github.com/binzume/curtainfire/shot"
)

// Registry maps type names used by scenarios to shot types.
type Registry struct {
	types map[string]shot.ShotType
}

func NewRegistry() *Registry {
	return &Registry{types: map[string]shot.ShotType{}}
}

// NewDefaultRegistry returns a registry with the builtin types.
func NewDefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(NewBone("bone", true))
	r.Register(NewPlate("orb", 12, 1, ""))
	r.Register(NewPlate("scale", 3, 1, ""))
	return r
}

// Register adds t, replacing any type with the same name.
func (r *Registry) Register(t shot.ShotType) {
	r.types[t.Name()] = t
}

func (r *Registry) Get(name string) (shot.ShotType, error) {
	t, ok := r.types[name]
	if !ok {
		return nil, fmt.Errorf("shottype: unknown type %q", name)
	}
	return t, nil
}

func (r *Registry) Names() []string {
	var names []string
	for name := range r.types {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// LoadConfig registers every shot type defined in conf.
func (r *Registry) LoadConfig(conf *config.Config) error {
	for _, tc := range conf.ShotTypes {
		t, err := NewFromConfig(tc, conf.Resolve)
		if err != nil {
			return fmt.Errorf("shottype %s: %w", tc.Name, err)
		}
		r.Register(t)
	}
	return nil
}

// NewFromConfig creates a shot type. resolve maps file paths of the
// definition to usable paths.
func NewFromConfig(tc *config.ShotType, resolve func(string) string) (shot.ShotType, error) {
	if resolve == nil {
		resolve = func(p string) string { return p }
	}
	switch tc.Kind {
	case "bone":
		return NewBone(tc.Name, tc.Record()), nil
	case "plate", "":
		sides := tc.Sides
		if sides == 0 {
			sides = 12
		}
		texture := ""
		if tc.Texture != "" {
			texture = resolve(tc.Texture)
		}
		t := NewPlate(tc.Name, sides, tc.Radius, texture)
		t.record = tc.Record()
		return t, nil
	case "pmx":
		t, err := LoadPMX(tc.Name, resolve(tc.Path), tc.Record())
		if err != nil {
			return nil, err
		}
		if tc.Scale != 0 && tc.Scale != 1 {
			t.scale(tc.Scale)
		}
		return t, nil
	case "gltf":
		return LoadGLTF(tc.Name, resolve(tc.Path), tc.Scale, tc.Record())
	}
	return nil, fmt.Errorf("unknown kind %q", tc.Kind)
}
