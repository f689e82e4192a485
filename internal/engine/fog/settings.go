// Package fog implements the stylistic fog post-process: a single full-screen
// pass that composites distance fog and height fog over a rendered scene.
//
// The package holds the API-independent part of the effect. It decides which
// shader variant runs, resolves fog colours into lookup textures, bakes
// gradients and marshals shader parameters. Rendering itself is delegated to
// a Renderer and a Material supplied by the host pipeline.
package fog

import (
	"fmt"
	"image"
)

// ColorSelectionType selects where a fog type takes its tint from.
type ColorSelectionType int

const (
	// Gradient bakes the fog type's own gradient into a lookup texture.
	Gradient ColorSelectionType = iota + 1
	// TextureRamp samples an externally supplied ramp texture.
	TextureRamp
	// CopyOther uses the colour source of the other fog type.
	CopyOther
)

// String returns the config name of the selection type.
func (c ColorSelectionType) String() string {
	switch c {
	case Gradient:
		return "gradient"
	case TextureRamp:
		return "texture_ramp"
	case CopyOther:
		return "copy_other"
	default:
		return fmt.Sprintf("ColorSelectionType(%d)", int(c))
	}
}

// ParseColorSelectionType parses a config name into a selection type.
func ParseColorSelectionType(s string) (ColorSelectionType, error) {
	switch s {
	case "gradient":
		return Gradient, nil
	case "texture_ramp", "ramp":
		return TextureRamp, nil
	case "copy_other", "copy":
		return CopyOther, nil
	}
	return 0, fmt.Errorf("unknown color selection %q", s)
}

// Texture is anything the fog material can sample as a 1-D colour ramp.
// Baked lookup textures and externally loaded ramps are both images.
type Texture = image.Image

// DistanceFogSettings configures fog that thickens with view distance.
type DistanceFogSettings struct {
	Enabled        bool               `yaml:"enabled"`
	FogSkybox      bool               `yaml:"fog_skybox"`
	EndDistance    float32            `yaml:"end_distance"` // fully saturated beyond this distance
	ColorSelection ColorSelectionType `yaml:"color_selection"`
}

// DefaultDistanceFog returns the distance fog defaults.
func DefaultDistanceFog() DistanceFogSettings {
	return DistanceFogSettings{
		Enabled:        false,
		FogSkybox:      false,
		EndDistance:    100,
		ColorSelection: Gradient,
	}
}

// HeightFogSettings configures exponential fog that thins with altitude.
type HeightFogSettings struct {
	Enabled        bool               `yaml:"enabled"`
	FogSkybox      bool               `yaml:"fog_skybox"`
	BaseHeight     float32            `yaml:"base_height"`     // altitude where the fog starts
	BaseDensity    float32            `yaml:"base_density"`    // density at BaseHeight
	DensityFalloff float32            `yaml:"density_falloff"` // decay rate with altitude, [0.001, 1]
	ColorSelection ColorSelectionType `yaml:"color_selection"`
}

// DefaultHeightFog returns the height fog defaults.
func DefaultHeightFog() HeightFogSettings {
	return HeightFogSettings{
		Enabled:        true,
		FogSkybox:      true,
		BaseHeight:     0,
		BaseDensity:    0.1,
		DensityFalloff: 0.5,
		ColorSelection: CopyOther,
	}
}

// Density falloff bounds.
const (
	MinDensityFalloff = 0.001
	MaxDensityFalloff = 1.0
)

// Clamp brings the height fog parameters into their valid ranges.
func (h *HeightFogSettings) Clamp() {
	if h.BaseDensity < 0 {
		h.BaseDensity = 0
	}
	if h.DensityFalloff < MinDensityFalloff {
		h.DensityFalloff = MinDensityFalloff
	}
	if h.DensityFalloff > MaxDensityFalloff {
		h.DensityFalloff = MaxDensityFalloff
	}
}

// ColorSource holds the colour inputs of one fog type.
type ColorSource struct {
	Gradient *ColorGradient `yaml:"gradient"`
	// Ramp is used when the selection is TextureRamp. It is loaded from
	// RampPath by the host.
	Ramp     Texture `yaml:"-"`
	RampPath string  `yaml:"ramp,omitempty"`
}

// DefaultColorSource returns a white gradient fading in from transparent.
func DefaultColorSource() ColorSource {
	return ColorSource{
		Gradient: NewGradient(
			[]ColorKey{{Time: 0, Color: White}, {Time: 1, Color: White}},
			[]AlphaKey{{Time: 0, Alpha: 0}, {Time: 1, Alpha: 1}},
		),
	}
}

// Settings is the full configuration of the fog feature.
type Settings struct {
	RenderPassEvent RenderPassEvent     `yaml:"render_pass_event"`
	DistanceFog     DistanceFogSettings `yaml:"distance"`
	HeightFog       HeightFogSettings   `yaml:"height"`
	DistanceColor   ColorSource         `yaml:"distance_color"`
	HeightColor     ColorSource         `yaml:"height_color"`
}

// DefaultSettings returns the feature defaults.
func DefaultSettings() Settings {
	return Settings{
		RenderPassEvent: AfterRenderingOpaques,
		DistanceFog:     DefaultDistanceFog(),
		HeightFog:       DefaultHeightFog(),
		DistanceColor:   DefaultColorSource(),
		HeightColor:     DefaultColorSource(),
	}
}

// Normalize breaks a copy cycle between the two fog types. When both select
// CopyOther, distance falls back to Gradient so that a copy always resolves
// after one hop. It reports whether the settings were changed.
func Normalize(d *DistanceFogSettings, h *HeightFogSettings) bool {
	if d.ColorSelection == CopyOther && h.ColorSelection == CopyOther {
		d.ColorSelection = Gradient
		return true
	}
	return false
}

// Normalize applies Normalize to the settings' fog pair and clamps ranges.
func (s *Settings) Normalize() bool {
	s.HeightFog.Clamp()
	return Normalize(&s.DistanceFog, &s.HeightFog)
}
