package fog

import (
	"github.com/Faultbox/stylistic-fog/pkg/math"
)

// Param is a named shader parameter slot of the fog program.
type Param int

const (
	ParamInverseViewMatrix Param = iota
	ParamApplyDistToSkybox
	ParamApplyHeightToSkybox
	ParamFogEndDistance
	ParamHeight
	ParamBaseDensity
	ParamDensityFalloff
	ParamFogColorTexture0
	ParamFogColorTexture1

	ParamCount
)

// paramNames are the GLSL uniform names, resolved once per program.
var paramNames = [ParamCount]string{
	ParamInverseViewMatrix:   "uInverseViewMatrix",
	ParamApplyDistToSkybox:   "uApplyDistToSkybox",
	ParamApplyHeightToSkybox: "uApplyHeightToSkybox",
	ParamFogEndDistance:      "uFogEndDistance",
	ParamHeight:              "uHeight",
	ParamBaseDensity:         "uBaseDensity",
	ParamDensityFalloff:      "uDensityFalloff",
	ParamFogColorTexture0:    "uFogColorTexture0",
	ParamFogColorTexture1:    "uFogColorTexture1",
}

// Name returns the uniform name of the parameter.
func (p Param) Name() string {
	if p < 0 || p >= ParamCount {
		return ""
	}
	return paramNames[p]
}

// ValueKind tags the type held by a Value.
type ValueKind int

const (
	KindNone ValueKind = iota
	KindMatrix
	KindInt
	KindFloat
	KindTexture
)

// Value is a single shader parameter value.
type Value struct {
	Kind    ValueKind
	Matrix  math.Mat4
	Int     int32
	Float   float32
	Texture Texture
}

// ParamSet is the set of parameters marshalled for one frame. Parameters
// that were not set are absent, which the shader treats as "no contribution"
// rather than as zero.
type ParamSet struct {
	values [ParamCount]Value
}

func (s *ParamSet) SetMatrix(p Param, m math.Mat4) {
	s.values[p] = Value{Kind: KindMatrix, Matrix: m}
}

func (s *ParamSet) SetInt(p Param, v int32) {
	s.values[p] = Value{Kind: KindInt, Int: v}
}

func (s *ParamSet) SetFloat(p Param, v float32) {
	s.values[p] = Value{Kind: KindFloat, Float: v}
}

// SetTexture binds t to p. A nil texture leaves the slot absent.
func (s *ParamSet) SetTexture(p Param, t Texture) {
	if t == nil {
		s.values[p] = Value{}
		return
	}
	s.values[p] = Value{Kind: KindTexture, Texture: t}
}

// Get returns the value of p and whether it is present.
func (s *ParamSet) Get(p Param) (Value, bool) {
	if p < 0 || p >= ParamCount {
		return Value{}, false
	}
	v := s.values[p]
	return v, v.Kind != KindNone
}

// Has reports whether p is present.
func (s *ParamSet) Has(p Param) bool {
	_, ok := s.Get(p)
	return ok
}

// Len returns the number of present parameters.
func (s *ParamSet) Len() int {
	n := 0
	for i := range s.values {
		if s.values[i].Kind != KindNone {
			n++
		}
	}
	return n
}

// Each calls fn for every present parameter in slot order.
func (s *ParamSet) Each(fn func(Param, Value)) {
	for i := range s.values {
		if s.values[i].Kind != KindNone {
			fn(Param(i), s.values[i])
		}
	}
}

// Bindings are the colour lookup textures resolved for a frame.
type Bindings struct {
	Slot0 Texture
	Slot1 Texture
}

// Marshal builds the parameter set for variant v. Nothing is marshalled for
// VariantNone. Distance and height parameters are only present when the
// respective fog type is enabled.
func Marshal(v Variant, d DistanceFogSettings, h HeightFogSettings, cameraToWorld math.Mat4, b Bindings) ParamSet {
	var ps ParamSet
	if v == VariantNone {
		return ps
	}

	ps.SetMatrix(ParamInverseViewMatrix, cameraToWorld)
	ps.SetInt(ParamApplyDistToSkybox, boolInt(d.FogSkybox))
	ps.SetInt(ParamApplyHeightToSkybox, boolInt(h.FogSkybox))

	ps.SetTexture(ParamFogColorTexture0, b.Slot0)
	ps.SetTexture(ParamFogColorTexture1, b.Slot1)

	if d.Enabled {
		ps.SetFloat(ParamFogEndDistance, d.EndDistance)
	}
	if h.Enabled {
		ps.SetFloat(ParamHeight, h.BaseHeight)
		ps.SetFloat(ParamBaseDensity, h.BaseDensity)
		ps.SetFloat(ParamDensityFalloff, h.DensityFalloff)
	}
	return ps
}

func boolInt(b bool) int32 {
	if b {
		return 1
	}
	return 0
}
