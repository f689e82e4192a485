package fog

// Variant is one of the mutually exclusive ways the fog pass can composite.
type Variant int

const (
	VariantNone Variant = iota
	VariantDistanceOnly
	VariantHeightOnly
	VariantBothShared
	VariantBothSeparate
)

var variantNames = [...]string{
	VariantNone:         "none",
	VariantDistanceOnly: "distance_only",
	VariantHeightOnly:   "height_only",
	VariantBothShared:   "both_shared",
	VariantBothSeparate: "both_separate",
}

func (v Variant) String() string {
	if v >= 0 && int(v) < len(variantNames) {
		return variantNames[v]
	}
	return "unknown"
}

// passIndex maps variants to shader pass indices. VariantNone has no pass.
var passIndex = [...]int{
	VariantNone:         -1,
	VariantDistanceOnly: 0,
	VariantHeightOnly:   1,
	VariantBothShared:   2,
	VariantBothSeparate: 3,
}

// PassCount is the number of shader passes a fog material must provide.
const PassCount = 4

// PassIndex returns the shader pass that renders v, or -1 for VariantNone.
func (v Variant) PassIndex() int {
	if v < 0 || int(v) >= len(passIndex) {
		return -1
	}
	return passIndex[v]
}

// DistanceEnabled reports whether the variant includes the distance term.
func (v Variant) DistanceEnabled() bool {
	return v == VariantDistanceOnly || v == VariantBothShared || v == VariantBothSeparate
}

// HeightEnabled reports whether the variant includes the height term.
func (v Variant) HeightEnabled() bool {
	return v == VariantHeightOnly || v == VariantBothShared || v == VariantBothSeparate
}

// SharedColor reports whether the two fog terms share a colour source, which
// is the case as soon as either side copies the other.
func SharedColor(d DistanceFogSettings, h HeightFogSettings) bool {
	return d.ColorSelection == CopyOther || h.ColorSelection == CopyOther
}

// Select picks the variant for the given fog settings.
func Select(d DistanceFogSettings, h HeightFogSettings) Variant {
	switch {
	case !d.Enabled && !h.Enabled:
		return VariantNone
	case !d.Enabled:
		return VariantHeightOnly
	case !h.Enabled:
		return VariantDistanceOnly
	case SharedColor(d, h):
		return VariantBothShared
	default:
		return VariantBothSeparate
	}
}
