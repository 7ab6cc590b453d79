package config

import (
	"path/filepath"
	"testing"

	"github.com/binzume/curtainfire/mmd"
	"github.com/binzume/curtainfire/shot"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testConfig = `
model:
  name: テスト
  encoding: utf8
output:
  pmx: out/test.pmx
parent_rule: positive
merge_timelines: false
shot_types:
  - name: ring
    sides: 6
    radius: 2
  - name: marker
    kind: bone
    record_motion: false
  - name: star
    kind: pmx
    path: models/star.pmx
`

func TestParse(t *testing.T) {
	c, err := Parse([]byte(testConfig), "/data")
	require.NoError(t, err)

	assert.Equal(t, "テスト", c.Model.Name)
	assert.Equal(t, "CurtainFire", c.Model.NameEn)
	assert.Equal(t, "curtainfire.vmd", c.Output.VMD)
	assert.Equal(t, filepath.Join("/data", "out/test.pmx"), c.Resolve(c.Output.PMX))
	assert.Equal(t, "/abs/x.pmx", c.Resolve("/abs/x.pmx"))

	require.Len(t, c.ShotTypes, 3)
	assert.Equal(t, "plate", c.ShotTypes[0].Kind)
	assert.True(t, c.ShotTypes[0].Record())
	assert.False(t, c.ShotTypes[1].Record())

	opts, err := c.EngineOptions()
	require.NoError(t, err)
	assert.Equal(t, mmd.TextEncodingUTF8, opts.TextEncoding)
	assert.Equal(t, shot.ParentPositive, opts.ParentRule)
	assert.False(t, opts.MergeTimelines)
	assert.Equal(t, "テスト", opts.ModelName)
}

func TestDefault(t *testing.T) {
	c := Default()
	opts, err := c.EngineOptions()
	require.NoError(t, err)
	assert.Equal(t, mmd.TextEncodingUTF16, opts.TextEncoding)
	assert.Equal(t, shot.ParentRangeCheck, opts.ParentRule)
	assert.True(t, opts.MergeTimelines)
	assert.Equal(t, "tex", c.Output.TextureDir)
}

func TestParseErrors(t *testing.T) {
	for _, src := range []string{
		"model: {encoding: sjis}",
		"parent_rule: always",
		"shot_types: [{kind: bone}]",
		"shot_types: [{name: a}, {name: a}]",
		"model: [",
	} {
		_, err := Parse([]byte(src), "")
		assert.Error(t, err, src)
	}
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "curtainfire.yaml")
	c, err := Parse([]byte(testConfig), "")
	require.NoError(t, err)
	require.NoError(t, c.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, c.Model, loaded.Model)
	assert.Equal(t, c.ShotTypes, loaded.ShotTypes)
	assert.Equal(t, filepath.Join(filepath.Dir(path), "a.pmx"), loaded.Resolve("a.pmx"))
}
