// Package lighting provides the directional light of the demo scene.
package lighting

import (
	"math"

	fmath "github.com/Faultbox/stylistic-fog/pkg/math"
)

// Sun is a directional light given by compass angles in degrees.
type Sun struct {
	Longitude float32 // rotation around Y, 0 points down +Z
	Latitude  float32 // elevation above the horizon, 0..90
	Ambient   float32 // light reaching surfaces facing away from the sun
}

// DefaultSun is a mid-afternoon sun.
func DefaultSun() Sun {
	return Sun{Longitude: 220, Latitude: 55, Ambient: 0.3}
}

// Direction returns the unit vector pointing towards the sun.
func (s Sun) Direction() fmath.Vec3 {
	lon := float64(s.Longitude) * math.Pi / 180
	lat := float64(s.Latitude) * math.Pi / 180

	return fmath.Vec3{
		X: float32(math.Cos(lat) * math.Sin(lon)),
		Y: float32(math.Sin(lat)),
		Z: float32(math.Cos(lat) * math.Cos(lon)),
	}
}

// Incident returns the direction light travels, from the sun to the scene.
func (s Sun) Incident() fmath.Vec3 {
	return s.Direction().Scale(-1)
}
