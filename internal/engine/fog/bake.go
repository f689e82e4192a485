package fog

import (
	"image"
)

// Lookup texture widths.
const (
	DistanceLUTWidth = 1024
	HeightLUTWidth   = 256
)

// LookupTexture is a W×1 colour strip baked from a gradient.
type LookupTexture struct {
	*image.NRGBA
	rev uint64
}

// NewLookupTexture allocates a transparent lookup texture of the given width.
func NewLookupTexture(width int) *LookupTexture {
	if width < 1 {
		width = 1
	}
	return &LookupTexture{NRGBA: image.NewNRGBA(image.Rect(0, 0, width, 1))}
}

// Width returns the number of texels.
func (t *LookupTexture) Width() int {
	return t.Rect.Dx()
}

// Revision changes every time the texture is re-baked. Texture uploaders
// compare it to decide whether GPU data is stale.
func (t *LookupTexture) Revision() uint64 {
	return t.rev
}

var defaultGradient = DefaultColorSource().Gradient

// Bake fills target with samples of g. Positions k/W for k = 0..W are
// written to texel floor(k/W * (W-1)), later samples overwriting earlier
// ones, so every texel is written. A nil target is ignored; a nil gradient
// bakes the default white ramp.
func Bake(target *LookupTexture, g *ColorGradient) {
	if target == nil || target.NRGBA == nil {
		return
	}
	if g == nil {
		g = defaultGradient
	}

	w := target.Width()
	fw := float64(w)
	for k := 0; k <= w; k++ {
		pos := float64(k) / fw
		x := int(pos * (fw - 1))
		target.SetNRGBA(x, 0, g.NRGBAAt(pos))
	}
	target.rev++
}

// lutKey identifies the gradient state a lookup texture was baked from.
type lutKey struct {
	gradient *ColorGradient
	rev      uint64
}

// lutCache owns the baked lookup texture of one fog type.
type lutCache struct {
	width int
	tex   *LookupTexture
	key   lutKey
	bakes int
}

func newLUTCache(width int) *lutCache {
	return &lutCache{width: width}
}

// get returns the lookup texture for g, baking it when it is absent or was
// baked from a different gradient state.
func (c *lutCache) get(g *ColorGradient) *LookupTexture {
	key := lutKey{gradient: g}
	if g != nil {
		key.rev = g.Revision()
	}
	if c.tex != nil && c.key == key {
		return c.tex
	}
	if c.tex == nil {
		c.tex = NewLookupTexture(c.width)
	}
	Bake(c.tex, g)
	c.key = key
	c.bakes++
	return c.tex
}

// cached returns the last baked texture, or nil when none is held.
func (c *lutCache) cached() Texture {
	if c.tex == nil {
		return nil
	}
	return c.tex
}

// invalidate frees the cached texture.
func (c *lutCache) invalidate() {
	c.tex = nil
	c.key = lutKey{}
}
