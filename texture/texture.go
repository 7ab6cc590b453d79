// Package texture copies the textures of a model next to the exported file.
package texture

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	_ "image/gif"
	_ "image/jpeg"

	"github.com/binzume/curtainfire/mmd"
	"github.com/blezek/tga"
	_ "github.com/ftrvxmtrx/tga"
	_ "github.com/oov/psd"
	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
)

type Options struct {
	// SubDir is the directory under the export directory textures go to.
	SubDir string
	// ResolutionLimit is the maximum width or height. 0 means no limit.
	ResolutionLimit int
}

// formats MMD reads without conversion
var nativeFormats = map[string]bool{".png": true, ".jpg": true, ".jpeg": true, ".bmp": true, ".tga": true}

// Collect copies every texture of doc into exportDir/SubDir and rewrites the
// texture paths relative to exportDir. Textures that can not be read are
// logged and left as they are.
func Collect(doc *mmd.Document, exportDir string, opts *Options) error {
	if opts == nil {
		opts = &Options{}
	}
	dir := filepath.Join(exportDir, opts.SubDir)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	c := &collector{dir: dir, opts: opts, used: map[string]bool{}}
	exported := map[string]string{}
	for i, src := range doc.Textures {
		name, ok := exported[src]
		if !ok {
			var err error
			if name, err = c.export(src); err != nil {
				log.Println("texture:", err)
				continue
			}
			exported[src] = name
		}
		doc.Textures[i] = filepath.ToSlash(filepath.Join(opts.SubDir, name))
	}
	return nil
}

type collector struct {
	dir  string
	opts *Options
	used map[string]bool
}

// uniqueName returns a file name in the export directory not used by
// another texture.
func (c *collector) uniqueName(base string) string {
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)
	name := base
	for i := 1; c.used[strings.ToLower(name)]; i++ {
		name = fmt.Sprintf("%s_%d%s", stem, i, ext)
	}
	c.used[strings.ToLower(name)] = true
	return name
}

func (c *collector) export(src string) (string, error) {
	f, err := os.Open(src)
	if err != nil {
		return "", err
	}
	defer f.Close()

	base := filepath.Base(src)
	ext := strings.ToLower(filepath.Ext(base))
	if nativeFormats[ext] && !c.tooLarge(f, ext) {
		if _, err := f.Seek(0, io.SeekStart); err != nil {
			return "", err
		}
		name := c.uniqueName(base)
		return name, copyFile(f, filepath.Join(c.dir, name))
	}

	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return "", err
	}
	img, err := decode(f, ext)
	if err != nil {
		return "", fmt.Errorf("%s: %w", src, err)
	}
	name := c.uniqueName(strings.TrimSuffix(base, filepath.Ext(base)) + ".png")
	w, err := os.Create(filepath.Join(c.dir, name))
	if err != nil {
		return "", err
	}
	defer w.Close()
	return name, png.Encode(w, Downscale(img, c.opts.ResolutionLimit))
}

func (c *collector) tooLarge(r io.ReadSeeker, ext string) bool {
	if c.opts.ResolutionLimit <= 0 {
		return false
	}
	conf, _, err := image.DecodeConfig(r)
	if err != nil {
		// unknown size: decode fully later
		return ext == ".tga"
	}
	return conf.Width > c.opts.ResolutionLimit || conf.Height > c.opts.ResolutionLimit
}

func decode(r io.ReadSeeker, ext string) (image.Image, error) {
	img, _, err := image.Decode(r)
	if err != nil && ext == ".tga" {
		// retry
		r.Seek(0, io.SeekStart)
		img, err = tga.Decode(r)
	}
	return img, err
}

// Downscale shrinks img so that neither side exceeds limit, keeping the
// aspect ratio. img is returned as is when it already fits.
func Downscale(img image.Image, limit int) image.Image {
	rect := img.Bounds()
	sz := rect.Dx()
	if rect.Dy() > sz {
		sz = rect.Dy()
	}
	if limit <= 0 || sz <= limit {
		return img
	}
	scale := float32(limit) / float32(sz)
	w, h := int(float32(rect.Dx())*scale), int(float32(rect.Dy())*scale)
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, rect, draw.Over, nil)
	return dst
}

func copyFile(r io.Reader, dst string) error {
	w, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(w, r); err != nil {
		w.Close()
		return err
	}
	return w.Close()
}
