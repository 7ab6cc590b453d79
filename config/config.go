// Package config holds the settings of a curtainfire run.
package config

import (
	"fmt"
	"io/ioutil"
	"path/filepath"

	"github.com/binzume/curtainfire/mmd"
	"github.com/binzume/curtainfire/shot"
	"gopkg.in/yaml.v2"
)

type Config struct {
	Model struct {
		Name     string `yaml:"name"`
		NameEn   string `yaml:"name_en"`
		Comment  string `yaml:"comment"`
		Encoding string `yaml:"encoding"` // utf16 or utf8
	} `yaml:"model"`

	Output struct {
		PMX             string `yaml:"pmx"`
		VMD             string `yaml:"vmd"`
		TextureDir      string `yaml:"texture_dir"`
		ResolutionLimit int    `yaml:"resolution_limit"`
	} `yaml:"output"`

	Scenario       string      `yaml:"scenario,omitempty"`
	ParentRule     string      `yaml:"parent_rule"`
	MergeTimelines *bool       `yaml:"merge_timelines,omitempty"`
	ShotTypes      []*ShotType `yaml:"shot_types,omitempty"`

	dir string
}

// ShotType defines a named shot type. Kind is one of bone, plate, pmx or gltf.
type ShotType struct {
	Name         string  `yaml:"name"`
	Kind         string  `yaml:"kind"`
	Path         string  `yaml:"path,omitempty"`
	Sides        int     `yaml:"sides,omitempty"`
	Radius       float32 `yaml:"radius,omitempty"`
	Scale        float32 `yaml:"scale,omitempty"`
	Texture      string  `yaml:"texture,omitempty"`
	RecordMotion *bool   `yaml:"record_motion,omitempty"`
}

// Record reports whether shots of the type are written to the documents.
func (t *ShotType) Record() bool {
	return t.RecordMotion == nil || *t.RecordMotion
}

func Default() *Config {
	c := &Config{}
	c.applyDefaults()
	return c
}

func (c *Config) applyDefaults() {
	if c.Model.Name == "" {
		c.Model.Name = "弾幕"
	}
	if c.Model.NameEn == "" {
		c.Model.NameEn = "CurtainFire"
	}
	if c.Model.Encoding == "" {
		c.Model.Encoding = "utf16"
	}
	if c.Output.PMX == "" {
		c.Output.PMX = "curtainfire.pmx"
	}
	if c.Output.VMD == "" {
		c.Output.VMD = "curtainfire.vmd"
	}
	if c.Output.TextureDir == "" {
		c.Output.TextureDir = "tex"
	}
	if c.ParentRule == "" {
		c.ParentRule = shot.ParentRangeCheck.String()
	}
	if c.MergeTimelines == nil {
		merge := true
		c.MergeTimelines = &merge
	}
	for _, t := range c.ShotTypes {
		if t.Kind == "" {
			t.Kind = "plate"
		}
	}
}

func Load(path string) (*Config, error) {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data, filepath.Dir(path))
}

// Parse reads a config. Relative paths in it are resolved against dir.
func Parse(data []byte, dir string) (*Config, error) {
	var c Config
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, err
	}
	c.dir = dir
	c.applyDefaults()
	if err := c.check(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Config) check() error {
	if _, err := c.TextEncoding(); err != nil {
		return err
	}
	if _, err := c.ParentRuleValue(); err != nil {
		return err
	}
	names := map[string]bool{}
	for i, t := range c.ShotTypes {
		if t.Name == "" {
			return fmt.Errorf("config: shot type %d has no name", i)
		}
		if names[t.Name] {
			return fmt.Errorf("config: duplicate shot type %q", t.Name)
		}
		names[t.Name] = true
	}
	return nil
}

func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return ioutil.WriteFile(path, data, 0644)
}

// Resolve returns path relative to the directory the config was loaded from.
func (c *Config) Resolve(path string) string {
	if path == "" || filepath.IsAbs(path) || c.dir == "" {
		return path
	}
	return filepath.Join(c.dir, path)
}

func (c *Config) TextEncoding() (byte, error) {
	switch c.Model.Encoding {
	case "utf16", "utf-16", "":
		return mmd.TextEncodingUTF16, nil
	case "utf8", "utf-8":
		return mmd.TextEncodingUTF8, nil
	}
	return 0, fmt.Errorf("config: unknown encoding %q", c.Model.Encoding)
}

func (c *Config) ParentRuleValue() (shot.ParentRule, error) {
	for _, r := range []shot.ParentRule{shot.ParentRangeCheck, shot.ParentPositive} {
		if c.ParentRule == r.String() {
			return r, nil
		}
	}
	return 0, fmt.Errorf("config: unknown parent rule %q", c.ParentRule)
}

// EngineOptions returns the engine settings of the config.
func (c *Config) EngineOptions() (*shot.Options, error) {
	enc, err := c.TextEncoding()
	if err != nil {
		return nil, err
	}
	rule, err := c.ParentRuleValue()
	if err != nil {
		return nil, err
	}
	opts := shot.DefaultOptions()
	opts.ModelName = c.Model.Name
	opts.ModelNameEn = c.Model.NameEn
	opts.Comment = c.Model.Comment
	opts.TextEncoding = enc
	opts.ParentRule = rule
	opts.MergeTimelines = c.MergeTimelines == nil || *c.MergeTimelines
	return opts, nil
}
