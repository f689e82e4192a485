package fog

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/stylistic-fog/pkg/math"
)

// Target is an opaque render target handle owned by the host pipeline.
type Target interface {
	Size() (width, height int32)
}

// TargetDesc describes a render target to allocate.
type TargetDesc struct {
	Width  int32
	Height int32
}

// Material is the opaque fog shader handle. The host applies the marshalled
// parameters before drawing with it.
type Material interface {
	SetParams(ps *ParamSet)
}

// Renderer is the part of the host pipeline the fog pass drives.
type Renderer interface {
	AcquireTemporary(desc TargetDesc) (Target, error)
	ReleaseTemporary(t Target)
	// Blit draws src into dst as a full-screen pass. A nil material copies.
	Blit(src, dst Target, mat Material, pass int) error
	Submit() error
}

// Camera provides the view of the frame being rendered.
type Camera interface {
	CameraToWorld() math.Mat4
}

// Frame is the per-frame input of Execute.
type Frame struct {
	Camera Camera
}

// PassState is the lifecycle state of a Pass.
type PassState int

const (
	StateIdle PassState = iota
	StateConfigured
	StateExecuting
)

func (s PassState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateConfigured:
		return "configured"
	case StateExecuting:
		return "executing"
	}
	return "unknown"
}

// ErrNotConfigured is returned when a frame runs without a source target.
var ErrNotConfigured = errors.New("fog pass not configured")

// Pass draws the fog for one camera each frame.
//
// Configuration is only mutated through the setters, which normalize it and
// refresh the baked lookup textures. Execute reads the configuration and
// never changes it.
type Pass struct {
	name  string
	event RenderPassEvent
	log   *zap.Logger

	material Material

	distanceFog   DistanceFogSettings
	heightFog     HeightFogSettings
	distanceColor ColorSource
	heightColor   ColorSource

	colors *resolver

	state   PassState
	source  Target
	tmp     Target
	lastVar Variant
	params  ParamSet

	warnedNoMaterial bool
	warnedNoRamp     bool
}

// NewPass creates a fog pass with default settings. A nil logger disables
// logging.
func NewPass(name string, log *zap.Logger) *Pass {
	if log == nil {
		log = zap.NewNop()
	}
	p := &Pass{
		name:          name,
		event:         AfterRenderingOpaques,
		log:           log,
		distanceFog:   DefaultDistanceFog(),
		heightFog:     DefaultHeightFog(),
		distanceColor: DefaultColorSource(),
		heightColor:   DefaultColorSource(),
		colors:        newResolver(),
		lastVar:       VariantNone,
	}
	p.UpdateProperties()
	return p
}

// Name returns the pass name.
func (p *Pass) Name() string { return p.name }

// Event returns where in the frame the pass runs.
func (p *Pass) Event() RenderPassEvent { return p.event }

// SetEvent sets where in the frame the pass runs.
func (p *Pass) SetEvent(e RenderPassEvent) { p.event = e }

// SetMaterial sets the fog shader. Without one the pass is skipped.
func (p *Pass) SetMaterial(m Material) {
	p.material = m
	p.warnedNoMaterial = false
}

// State returns the lifecycle state.
func (p *Pass) State() PassState { return p.state }

// Variant returns the variant rendered by the last executed frame.
func (p *Pass) Variant() Variant { return p.lastVar }

// Params returns the parameters marshalled by the last executed frame.
func (p *Pass) Params() ParamSet { return p.params }

// DistanceFog returns the distance fog settings.
func (p *Pass) DistanceFog() DistanceFogSettings { return p.distanceFog }

// HeightFog returns the height fog settings.
func (p *Pass) HeightFog() HeightFogSettings { return p.heightFog }

// SetDistanceFog replaces the distance fog settings.
func (p *Pass) SetDistanceFog(d DistanceFogSettings) {
	p.distanceFog = d
	p.UpdateProperties()
}

// SetHeightFog replaces the height fog settings.
func (p *Pass) SetHeightFog(h HeightFogSettings) {
	p.heightFog = h
	p.UpdateProperties()
}

// SetDistanceColor replaces the distance fog colour source.
func (p *Pass) SetDistanceColor(c ColorSource) {
	p.distanceColor = c
	p.UpdateProperties()
}

// SetHeightColor replaces the height fog colour source.
func (p *Pass) SetHeightColor(c ColorSource) {
	p.heightColor = c
	p.UpdateProperties()
}

// SetSettings replaces the whole configuration at once.
func (p *Pass) SetSettings(s Settings) {
	p.event = s.RenderPassEvent
	p.distanceFog = s.DistanceFog
	p.heightFog = s.HeightFog
	p.distanceColor = s.DistanceColor
	p.heightColor = s.HeightColor
	p.UpdateProperties()
}

// UpdateProperties normalizes the configuration and refreshes the baked
// lookup textures. Call it after editing a gradient in place.
func (p *Pass) UpdateProperties() {
	p.heightFog.Clamp()
	if Normalize(&p.distanceFog, &p.heightFog) {
		p.log.Warn("both fog colours copy each other, distance fog falls back to its gradient",
			zap.String("pass", p.name))
	}
	p.colors.update(p.distanceFog, p.heightFog, p.distanceColor, p.heightColor)
	p.warnedNoRamp = false
}

// Setup sets the colour target the pass reads from and writes back to.
func (p *Pass) Setup(source Target) {
	p.source = source
}

// Configure prepares the pass for a frame described by desc. It acquires the
// temporary target used by the fog blit.
func (p *Pass) Configure(desc TargetDesc, r Renderer) error {
	p.FrameCleanup(r)
	if p.source == nil {
		return ErrNotConfigured
	}

	tmp, err := r.AcquireTemporary(desc)
	if err != nil {
		return fmt.Errorf("acquiring fog target %dx%d: %w", desc.Width, desc.Height, err)
	}
	p.tmp = tmp
	p.state = StateConfigured
	return nil
}

// Execute renders one frame. The temporary target is released on every path,
// so each frame needs its own Configure.
func (p *Pass) Execute(frame Frame, r Renderer) error {
	if p.state != StateConfigured || p.tmp == nil {
		return ErrNotConfigured
	}
	p.state = StateExecuting
	defer func() {
		p.FrameCleanup(r)
		p.state = StateConfigured
	}()

	if p.material == nil {
		if !p.warnedNoMaterial {
			p.log.Warn("fog pass has no material, skipping", zap.String("pass", p.name))
			p.warnedNoMaterial = true
		}
		return nil
	}

	v := p.prepare(frame.Camera)
	p.lastVar = v

	if v == VariantNone {
		if err := r.Blit(p.source, p.source, nil, -1); err != nil {
			return fmt.Errorf("fog pass-through: %w", err)
		}
	} else {
		p.material.SetParams(&p.params)
		if err := r.Blit(p.source, p.tmp, p.material, v.PassIndex()); err != nil {
			return fmt.Errorf("fog blit %s: %w", v, err)
		}
		if err := r.Blit(p.tmp, p.source, nil, -1); err != nil {
			return fmt.Errorf("fog present: %w", err)
		}
	}

	if err := r.Submit(); err != nil {
		return fmt.Errorf("fog submit: %w", err)
	}
	return nil
}

// Preview marshals the parameters a frame seen from cam would use, without
// rendering. The result is also returned by Params.
func (p *Pass) Preview(cam Camera) (Variant, ParamSet) {
	v := p.prepare(cam)
	return v, p.params
}

// prepare selects the variant, resolves colours and marshals parameters.
func (p *Pass) prepare(cam Camera) Variant {
	v := Select(p.distanceFog, p.heightFog)
	if v == VariantNone {
		p.params = ParamSet{}
		return v
	}

	b := p.colors.resolve(v, p.distanceFog, p.heightFog, p.distanceColor, p.heightColor)
	missing := b.Slot0 == nil || (v == VariantBothSeparate && b.Slot1 == nil)
	if missing && !p.warnedNoRamp {
		p.log.Warn("fog colour ramp missing, the affected term has no effect",
			zap.String("pass", p.name), zap.Stringer("variant", v))
		p.warnedNoRamp = true
	}

	view := math.Identity()
	if cam != nil {
		view = cam.CameraToWorld()
	}
	p.params = Marshal(v, p.distanceFog, p.heightFog, view, b)
	return v
}

// FrameCleanup releases the temporary target if one is held.
func (p *Pass) FrameCleanup(r Renderer) {
	if p.tmp != nil {
		r.ReleaseTemporary(p.tmp)
		p.tmp = nil
	}
}

// Close frees the baked lookup textures.
func (p *Pass) Close() {
	p.colors.release()
	p.state = StateIdle
	p.source = nil
}
