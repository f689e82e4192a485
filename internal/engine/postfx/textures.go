package postfx

import (
	"image"

	"github.com/go-gl/gl/v4.1-core/gl"
	"golang.org/x/image/draw"

	"github.com/Faultbox/stylistic-fog/internal/engine/fog"
)

// staleAfter is the number of binds a texture may go unused before its GL
// copy is deleted.
const staleAfter = 120

type revisioned interface {
	Revision() uint64
}

type cachedTexture struct {
	id       uint32
	rev      uint64
	lastUsed uint64
}

// TextureCache mirrors CPU-side ramp images into GL textures. Images are
// keyed by identity; revisioned images are re-uploaded when they change.
type TextureCache struct {
	entries map[fog.Texture]*cachedTexture
	tick    uint64
}

// NewTextureCache creates an empty cache.
func NewTextureCache() *TextureCache {
	return &TextureCache{entries: make(map[fog.Texture]*cachedTexture)}
}

// Get returns the GL texture for img, uploading it if needed.
func (c *TextureCache) Get(img fog.Texture) uint32 {
	e, ok := c.entries[img]
	rev := uint64(0)
	if r, isRev := img.(revisioned); isRev {
		rev = r.Revision()
	}

	if !ok {
		e = &cachedTexture{}
		gl.GenTextures(1, &e.id)
		gl.BindTexture(gl.TEXTURE_2D, e.id)
		gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
		gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
		gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
		gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
		upload(e.id, img)
		e.rev = rev
		c.entries[img] = e
	} else if e.rev != rev {
		upload(e.id, img)
		e.rev = rev
	}

	e.lastUsed = c.tick
	return e.id
}

// Tick advances the cache clock and deletes textures unused for a while.
func (c *TextureCache) Tick() {
	c.tick++
	if c.tick < staleAfter {
		return
	}
	for k, e := range c.entries {
		if e.lastUsed < c.tick-staleAfter {
			gl.DeleteTextures(1, &e.id)
			delete(c.entries, k)
		}
	}
}

// Len returns the number of resident textures.
func (c *TextureCache) Len() int {
	return len(c.entries)
}

// Destroy deletes all GL textures.
func (c *TextureCache) Destroy() {
	for k, e := range c.entries {
		gl.DeleteTextures(1, &e.id)
		delete(c.entries, k)
	}
}

func upload(id uint32, img fog.Texture) {
	pix := toNRGBA(img)
	w, h := int32(pix.Rect.Dx()), int32(pix.Rect.Dy())

	gl.BindTexture(gl.TEXTURE_2D, id)
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	gl.PixelStorei(gl.UNPACK_ROW_LENGTH, int32(pix.Stride/4))
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, w, h, 0, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pix.Pix))
	gl.PixelStorei(gl.UNPACK_ROW_LENGTH, 0)
}

// toNRGBA returns img as a zero-origin NRGBA image, converting if needed.
func toNRGBA(img fog.Texture) *image.NRGBA {
	switch t := img.(type) {
	case *fog.LookupTexture:
		return t.NRGBA
	case *image.NRGBA:
		if t.Rect.Min == (image.Point{}) {
			return t
		}
	}
	b := img.Bounds()
	out := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(out, out.Bounds(), img, b.Min, draw.Src)
	return out
}
