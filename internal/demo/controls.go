package demo

import (
	"github.com/veandco/go-sdl2/sdl"

	"github.com/Faultbox/stylistic-fog/internal/engine/fog"
)

// Density and falloff change by this factor per key press.
const densityStep = 1.25

// nextSelection cycles Gradient -> TextureRamp -> CopyOther -> Gradient.
func nextSelection(c fog.ColorSelectionType) fog.ColorSelectionType {
	switch c {
	case fog.Gradient:
		return fog.TextureRamp
	case fog.TextureRamp:
		return fog.CopyOther
	default:
		return fog.Gradient
	}
}

// applyKey edits the pass configuration for a demo hotkey. It returns a
// short description of the change, or "" if the key is not bound.
func applyKey(p *fog.Pass, key sdl.Scancode) string {
	d, h := p.DistanceFog(), p.HeightFog()

	switch key {
	case sdl.SCANCODE_1:
		d.Enabled = !d.Enabled
		p.SetDistanceFog(d)
		return "distance fog " + onOff(d.Enabled)
	case sdl.SCANCODE_2:
		h.Enabled = !h.Enabled
		p.SetHeightFog(h)
		return "height fog " + onOff(h.Enabled)
	case sdl.SCANCODE_3:
		d.ColorSelection = nextSelection(d.ColorSelection)
		p.SetDistanceFog(d)
		return "distance colour " + p.DistanceFog().ColorSelection.String()
	case sdl.SCANCODE_4:
		h.ColorSelection = nextSelection(h.ColorSelection)
		p.SetHeightFog(h)
		return "height colour " + p.HeightFog().ColorSelection.String()
	case sdl.SCANCODE_K:
		d.FogSkybox = !d.FogSkybox
		h.FogSkybox = !h.FogSkybox
		p.SetDistanceFog(d)
		p.SetHeightFog(h)
		return "skybox fog " + onOff(d.FogSkybox || h.FogSkybox)
	case sdl.SCANCODE_EQUALS:
		h.BaseDensity *= densityStep
		p.SetHeightFog(h)
		return "height density up"
	case sdl.SCANCODE_MINUS:
		h.BaseDensity /= densityStep
		p.SetHeightFog(h)
		return "height density down"
	case sdl.SCANCODE_RIGHTBRACKET:
		h.DensityFalloff *= densityStep
		p.SetHeightFog(h)
		return "height falloff up"
	case sdl.SCANCODE_LEFTBRACKET:
		h.DensityFalloff /= densityStep
		p.SetHeightFog(h)
		return "height falloff down"
	case sdl.SCANCODE_PAGEUP:
		d.EndDistance *= densityStep
		p.SetDistanceFog(d)
		return "fog end further"
	case sdl.SCANCODE_PAGEDOWN:
		d.EndDistance /= densityStep
		p.SetDistanceFog(d)
		return "fog end nearer"
	}
	return ""
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}
