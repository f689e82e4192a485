package fog

// resolver turns colour selections into lookup textures. It owns the baked
// gradient textures of both fog types.
type resolver struct {
	distanceLUT *lutCache
	heightLUT   *lutCache
}

func newResolver() *resolver {
	return &resolver{
		distanceLUT: newLUTCache(DistanceLUTWidth),
		heightLUT:   newLUTCache(HeightLUTWidth),
	}
}

// texture maps a concrete selection to its texture. CopyOther is never
// terminal and yields nil. Gradients come from the cache filled by update;
// nothing is baked here.
func (r *resolver) texture(sel ColorSelectionType, src ColorSource, lut *lutCache) Texture {
	switch sel {
	case Gradient:
		return lut.cached()
	case TextureRamp:
		return src.Ramp
	}
	return nil
}

// resolve binds the colour textures for variant v. Shared variants bind the
// non-copying side to slot 0. Otherwise distance takes slot 0 and height
// slot 1, except for VariantHeightOnly where height takes slot 0.
func (r *resolver) resolve(v Variant, d DistanceFogSettings, h HeightFogSettings, dsrc, hsrc ColorSource) Bindings {
	var b Bindings
	switch v {
	case VariantNone:
	case VariantBothShared:
		if d.ColorSelection == CopyOther {
			b.Slot0 = r.texture(h.ColorSelection, hsrc, r.heightLUT)
		} else {
			b.Slot0 = r.texture(d.ColorSelection, dsrc, r.distanceLUT)
		}
	case VariantHeightOnly:
		b.Slot0 = r.texture(h.ColorSelection, hsrc, r.heightLUT)
	case VariantDistanceOnly:
		b.Slot0 = r.texture(d.ColorSelection, dsrc, r.distanceLUT)
	case VariantBothSeparate:
		b.Slot0 = r.texture(d.ColorSelection, dsrc, r.distanceLUT)
		b.Slot1 = r.texture(h.ColorSelection, hsrc, r.heightLUT)
	}
	return b
}

// update keeps the cached textures in line with the selections: textures of
// sides that no longer use a gradient are freed, gradient sides are baked.
func (r *resolver) update(d DistanceFogSettings, h HeightFogSettings, dsrc, hsrc ColorSource) {
	if d.ColorSelection == Gradient {
		r.distanceLUT.get(dsrc.Gradient)
	} else {
		r.distanceLUT.invalidate()
	}
	if h.ColorSelection == Gradient {
		r.heightLUT.get(hsrc.Gradient)
	} else {
		r.heightLUT.invalidate()
	}
}

func (r *resolver) release() {
	r.distanceLUT.invalidate()
	r.heightLUT.invalidate()
}
