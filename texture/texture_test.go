package texture

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/binzume/curtainfire/mmd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writePNG(t *testing.T, path string, w, h int) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 0xff, A: 0xff})
		}
	}
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
}

func imageSize(t *testing.T, path string) (int, int) {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	conf, _, err := image.DecodeConfig(f)
	require.NoError(t, err)
	return conf.Width, conf.Height
}

func TestCollect(t *testing.T) {
	src := t.TempDir()
	out := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(src, "sub"), 0755))
	writePNG(t, filepath.Join(src, "a.png"), 64, 32)
	writePNG(t, filepath.Join(src, "sub", "a.png"), 8, 8)
	writePNG(t, filepath.Join(src, "small.png"), 8, 8)

	doc := mmd.NewDocument()
	missing := filepath.Join(src, "missing.png")
	doc.Textures = []string{
		filepath.Join(src, "a.png"),
		filepath.Join(src, "sub", "a.png"),
		missing,
		filepath.Join(src, "small.png"),
		filepath.Join(src, "a.png"),
	}
	require.NoError(t, Collect(doc, out, &Options{SubDir: "tex", ResolutionLimit: 16}))

	assert.Equal(t, []string{"tex/a.png", "tex/a_1.png", missing, "tex/small.png", "tex/a.png"}, doc.Textures)

	w, h := imageSize(t, filepath.Join(out, "tex", "a.png"))
	assert.Equal(t, 16, w)
	assert.Equal(t, 8, h)
	w, h = imageSize(t, filepath.Join(out, "tex", "a_1.png"))
	assert.Equal(t, 8, w)
	assert.Equal(t, 8, h)
	assert.FileExists(t, filepath.Join(out, "tex", "small.png"))
}

func TestCollectNoLimit(t *testing.T) {
	src := t.TempDir()
	out := t.TempDir()
	writePNG(t, filepath.Join(src, "big.png"), 40, 20)

	doc := mmd.NewDocument()
	doc.Textures = []string{filepath.Join(src, "big.png")}
	require.NoError(t, Collect(doc, out, nil))
	assert.Equal(t, []string{"big.png"}, doc.Textures)

	orig, err := os.ReadFile(filepath.Join(src, "big.png"))
	require.NoError(t, err)
	copied, err := os.ReadFile(filepath.Join(out, "big.png"))
	require.NoError(t, err)
	assert.Equal(t, orig, copied)
}

func TestDownscale(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 100, 10))
	assert.Same(t, img, Downscale(img, 0))
	assert.Same(t, img, Downscale(img, 100))

	small := Downscale(img, 20)
	assert.Equal(t, 20, small.Bounds().Dx())
	assert.Equal(t, 2, small.Bounds().Dy())

	thin := Downscale(image.NewRGBA(image.Rect(0, 0, 1000, 1)), 10)
	assert.Equal(t, 1, thin.Bounds().Dy())
}
