package world

import (
	"fmt"
	"io/ioutil"
	"strconv"
	"strings"

	"github.com/binzume/curtainfire/geom"
	"github.com/binzume/curtainfire/mmd"
	"github.com/binzume/curtainfire/shot"
	"gopkg.in/yaml.v2"
)

// Scenario is a list of emitters run for a fixed number of frames.
type Scenario struct {
	Frames   int        `yaml:"frames"`
	Emitters []*Emitter `yaml:"emitters"`
}

// Emitter fires Count waves of Ways shots, Interval frames apart, starting at
// Spawn. The shots of a wave are spread around the emitter's Y axis by
// RingStep degrees.
type Emitter struct {
	Type     string    `yaml:"type"`
	Color    Color     `yaml:"color"`
	Size     []float32 `yaml:"size,omitempty"`
	Spawn    int       `yaml:"spawn"`
	Count    int       `yaml:"count"`
	Interval int       `yaml:"interval"`
	Ways     int       `yaml:"ways"`
	RingStep float32   `yaml:"ring_step"`
	Speed    float32   `yaml:"speed"`
	// Life is the lifetime in frames. 0 keeps shots alive until the end.
	Life   int       `yaml:"life"`
	Origin []float32 `yaml:"origin,omitempty"`
	// Direction is in euler degrees, YXZ order. With Aim it is relative to
	// the direction from Origin to Aim.
	Direction []float32 `yaml:"direction,omitempty"`
	Aim       []float32 `yaml:"aim,omitempty"`
	// Curve is x1, y1, x2, y2 of the keyframe easing.
	Curve []float32 `yaml:"curve,omitempty"`
	// Grow is the number of frames a shot takes to grow from a point.
	Grow  int     `yaml:"grow,omitempty"`
	Turns []*Turn `yaml:"turns,omitempty"`
}

// Turn changes the direction of a shot After frames from its spawn. Direction
// is relative to the current one. Speed 0 keeps the speed.
type Turn struct {
	After     int       `yaml:"after"`
	Direction []float32 `yaml:"direction"`
	Speed     float32   `yaml:"speed,omitempty"`
}

// Color is 0xRRGGBB. In YAML it is an integer or a "#rrggbb" string.
type Color uint32

func (c *Color) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var v uint32
	if err := unmarshal(&v); err == nil {
		*c = Color(v)
		return nil
	}
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	n, err := strconv.ParseUint(strings.TrimPrefix(s, "#"), 16, 32)
	if err != nil || n > 0xffffff {
		return fmt.Errorf("invalid color %q", s)
	}
	*c = Color(n)
	return nil
}

func LoadScenario(path string) (*Scenario, error) {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseScenario(data)
}

func ParseScenario(data []byte) (*Scenario, error) {
	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, err
	}
	if sc.Frames <= 0 {
		return nil, fmt.Errorf("scenario: frames must be positive")
	}
	for i, em := range sc.Emitters {
		if err := em.check(); err != nil {
			return nil, fmt.Errorf("scenario: emitter %d: %w", i, err)
		}
	}
	return &sc, nil
}

func (em *Emitter) check() error {
	if em.Type == "" {
		return fmt.Errorf("no type")
	}
	if em.Spawn < 0 {
		return fmt.Errorf("negative spawn frame %d", em.Spawn)
	}
	if em.Count == 0 {
		em.Count = 1
	}
	if em.Ways == 0 {
		em.Ways = 1
	}
	if em.Count < 0 || em.Ways < 0 || em.Interval < 0 || em.Life < 0 || em.Grow < 0 {
		return fmt.Errorf("negative count")
	}
	if em.Count > 1 && em.Interval == 0 {
		return fmt.Errorf("waves need an interval")
	}
	for name, v := range map[string][]float32{"size": em.Size, "origin": em.Origin, "direction": em.Direction, "aim": em.Aim} {
		if v != nil && len(v) != 3 {
			return fmt.Errorf("%s needs 3 values", name)
		}
	}
	if em.Curve != nil && len(em.Curve) != 4 {
		return fmt.Errorf("curve needs 4 values")
	}
	for _, t := range em.Turns {
		if t.After <= 0 {
			return fmt.Errorf("turn after %d frames", t.After)
		}
		if t.Direction != nil && len(t.Direction) != 3 {
			return fmt.Errorf("turn direction needs 3 values")
		}
	}
	return nil
}

// Property returns the shot property of the emitter's shots.
func (em *Emitter) Property() shot.Property {
	p := shot.NewProperty(uint32(em.Color))
	if em.Size != nil {
		p.Size = mmd.Vector3{X: em.Size[0], Y: em.Size[1], Z: em.Size[2]}
	}
	return p
}

func (em *Emitter) curve() mmd.Curve {
	if em.Curve == nil {
		return mmd.LinearCurve
	}
	return mmd.NewCurve(em.Curve[0], em.Curve[1], em.Curve[2], em.Curve[3])
}

func vec3(v []float32) *geom.Vector3 {
	if v == nil {
		return &geom.Vector3{}
	}
	return geom.NewVector3FromSlice(v)
}

func rotation(deg []float32) *geom.Quaternion {
	if deg == nil {
		return geom.IdentityQuaternion()
	}
	return geom.NewEulerDegrees(deg[0], deg[1], deg[2], geom.RotationOrderYXZ).ToQuaternion()
}
